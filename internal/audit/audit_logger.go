package audit

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

const (
	StatusSuccess = "SUCCESS"
	StatusFailed  = "FAILED"
	StatusNoOp    = "NO_OP"
)

type AuditEvent struct {
	EventID   string          `json:"event_id"`
	Timestamp time.Time       `json:"timestamp"`
	EventType string          `json:"event_type"`
	AccountID int64           `json:"account_id"`
	Amount    decimal.Decimal `json:"amount"`
	Status    string          `json:"status"`
	Attempts  int             `json:"attempts,omitempty"`
	Details   string          `json:"details,omitempty"`
}

// AuditLogger writes one structured line per ledger operation outcome
type AuditLogger struct {
	logger *zap.Logger
	now    func() time.Time
}

func NewAuditLogger(logger *zap.Logger) *AuditLogger {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &AuditLogger{logger: logger.Named("audit"), now: time.Now}
}

func (a *AuditLogger) LogOperation(operation string, accountID int64, amount decimal.Decimal, attempts int) AuditEvent {
	return a.log(AuditEvent{
		EventType: operation,
		AccountID: accountID,
		Amount:    amount,
		Status:    StatusSuccess,
		Attempts:  attempts,
	})
}

func (a *AuditLogger) LogError(operation string, accountID int64, amount decimal.Decimal, err error) AuditEvent {
	return a.log(AuditEvent{
		EventType: operation,
		AccountID: accountID,
		Amount:    amount,
		Status:    StatusFailed,
		Details:   err.Error(),
	})
}

// LogNoOp records an accepted request that changed nothing
func (a *AuditLogger) LogNoOp(operation string, accountID int64, details string) AuditEvent {
	return a.log(AuditEvent{
		EventType: operation,
		AccountID: accountID,
		Amount:    decimal.Zero,
		Status:    StatusNoOp,
		Details:   details,
	})
}

func (a *AuditLogger) log(event AuditEvent) AuditEvent {
	if a == nil {
		return event
	}
	event.EventID = uuid.NewString()
	event.Timestamp = a.now().UTC()

	a.logger.Info("AUDIT",
		zap.String("event_id", event.EventID),
		zap.Time("timestamp", event.Timestamp),
		zap.String("event_type", event.EventType),
		zap.Int64("account_id", event.AccountID),
		zap.String("amount", event.Amount.StringFixed(2)),
		zap.String("status", event.Status),
		zap.Int("attempts", event.Attempts),
		zap.String("details", event.Details),
	)
	return event
}
