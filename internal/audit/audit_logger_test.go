package audit

import (
	"errors"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
)

func TestAuditLogger(t *testing.T) {
	core, logs := observer.New(zap.InfoLevel)
	a := NewAuditLogger(zap.New(core))
	fixed := time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)
	a.now = func() time.Time { return fixed }

	t.Run("operation", func(t *testing.T) {
		ev := a.LogOperation("WITHDRAWAL", 1234567890, decimal.RequireFromString("30"), 2)

		assert.NotEmpty(t, ev.EventID)
		assert.Equal(t, fixed, ev.Timestamp)
		assert.Equal(t, StatusSuccess, ev.Status)

		entries := logs.TakeAll()
		require.Len(t, entries, 1)
		fields := entries[0].ContextMap()
		assert.Equal(t, "WITHDRAWAL", fields["event_type"])
		assert.Equal(t, "30.00", fields["amount"])
		assert.Equal(t, int64(2), fields["attempts"])
	})

	t.Run("error", func(t *testing.T) {
		ev := a.LogError("DEPOSIT", 1, decimal.NewFromInt(5), errors.New("account not found"))

		assert.Equal(t, StatusFailed, ev.Status)
		assert.Equal(t, "account not found", ev.Details)
		require.Len(t, logs.TakeAll(), 1)
	})

	t.Run("no-op", func(t *testing.T) {
		ev := a.LogNoOp("FREEZE", 7, "already frozen")

		assert.Equal(t, StatusNoOp, ev.Status)
		assert.True(t, ev.Amount.IsZero())
		entries := logs.TakeAll()
		require.Len(t, entries, 1)
		assert.Equal(t, "NO_OP", entries[0].ContextMap()["status"])
	})
}

func TestAuditLogger_Nil(t *testing.T) {
	var a *AuditLogger
	ev := a.LogOperation("DEPOSIT", 1, decimal.NewFromInt(1), 1)
	assert.Equal(t, "DEPOSIT", ev.EventType)
}
