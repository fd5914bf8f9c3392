package audit

import (
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

const (
	EventTransfer = "TRANSFER"
	EventError    = "ERROR"
)

type AuditLogger struct {
	log *zap.Logger
}

func NewAuditLogger(log *zap.Logger) *AuditLogger {
	if log == nil {
		log = zap.NewNop()
	}
	return &AuditLogger{log: log.Named("audit")}
}

// LogTransfer records a balance-moving event for a transaction.
func (a *AuditLogger) LogTransfer(transactionID, fromAccount, toAccount string, amount decimal.Decimal, status string) {
	a.log.Info("AUDIT",
		zap.String("event_type", EventTransfer),
		zap.String("transaction_id", transactionID),
		zap.String("from_account", fromAccount),
		zap.String("to_account", toAccount),
		zap.String("amount", amount.String()),
		zap.String("status", status),
	)
}

func (a *AuditLogger) LogError(transactionID, subjectID string, err error) {
	a.log.Warn("AUDIT",
		zap.String("event_type", EventError),
		zap.String("transaction_id", transactionID),
		zap.String("subject_id", subjectID),
		zap.String("status", "FAILED"),
		zap.Error(err),
	)
}

func (a *AuditLogger) LogOperation(transactionID, subjectID, operation, details string) {
	a.log.Info("AUDIT",
		zap.String("event_type", operation),
		zap.String("transaction_id", transactionID),
		zap.String("subject_id", subjectID),
		zap.String("status", "SUCCESS"),
		zap.String("details", details),
	)
}
