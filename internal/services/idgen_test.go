package services

import (
	"strconv"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRandomIDGenerator(t *testing.T) {
	gen := RandomIDGenerator{}

	for i := 0; i < 50; i++ {
		userID, err := gen.UserID()
		require.NoError(t, err)
		assert.Len(t, strconv.FormatInt(userID, 10), 11)

		accountID, err := gen.AccountID()
		require.NoError(t, err)
		assert.Len(t, strconv.FormatInt(accountID, 10), 10)
	}
}

func TestSequenceIDGenerator(t *testing.T) {
	gen := NewSequenceIDGenerator(10000000001, 1000000001)

	u1, _ := gen.UserID()
	u2, _ := gen.UserID()
	a1, _ := gen.AccountID()
	a2, _ := gen.AccountID()

	assert.Equal(t, int64(10000000001), u1)
	assert.Equal(t, int64(10000000002), u2)
	assert.Equal(t, int64(1000000001), a1)
	assert.Equal(t, int64(1000000002), a2)
}
