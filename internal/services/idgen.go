package services

import (
	"crypto/rand"
	"math/big"
	"sync"
)

// IDGenerator supplies identifiers for new users and accounts
type IDGenerator interface {
	UserID() (int64, error)
	AccountID() (int64, error)
}

// RandomIDGenerator draws 11-digit user IDs and 10-digit account IDs
type RandomIDGenerator struct{}

func (RandomIDGenerator) UserID() (int64, error) { return randomDigits(11) }

func (RandomIDGenerator) AccountID() (int64, error) { return randomDigits(10) }

// randomDigits returns a number with exactly n digits
func randomDigits(n int) (int64, error) {
	low := int64(1)
	for i := 1; i < n; i++ {
		low *= 10
	}
	v, err := rand.Int(rand.Reader, big.NewInt(low*9))
	if err != nil {
		return 0, err
	}
	return low + v.Int64(), nil
}

// SequenceIDGenerator hands out consecutive IDs, for tests and fixtures
type SequenceIDGenerator struct {
	mu          sync.Mutex
	nextUser    int64
	nextAccount int64
}

func NewSequenceIDGenerator(firstUser, firstAccount int64) *SequenceIDGenerator {
	return &SequenceIDGenerator{nextUser: firstUser, nextAccount: firstAccount}
}

func (g *SequenceIDGenerator) UserID() (int64, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	id := g.nextUser
	g.nextUser++
	return id, nil
}

func (g *SequenceIDGenerator) AccountID() (int64, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	id := g.nextAccount
	g.nextAccount++
	return id, nil
}
