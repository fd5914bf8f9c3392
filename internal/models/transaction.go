package models

import (
	"fmt"
	"math"
	"time"

	"github.com/ruralpay/ledgersim/internal/apperrors"
	"github.com/ruralpay/ledgersim/internal/validation"
	"github.com/shopspring/decimal"
)

// TransactionStatus is the closed set of lifecycle states.
//
//	pending → cleared
//	pending → flagged
//	rejected has no trigger yet but is a valid stored value.
type TransactionStatus string

const (
	StatusPending  TransactionStatus = "pending"
	StatusCleared  TransactionStatus = "cleared"
	StatusRejected TransactionStatus = "rejected"
	StatusFlagged  TransactionStatus = "flagged"
)

func (s TransactionStatus) Valid() bool {
	switch s {
	case StatusPending, StatusCleared, StatusRejected, StatusFlagged:
		return true
	default:
		return false
	}
}

func (s TransactionStatus) String() string { return string(s) }

// UnmarshalText rejects unknown status strings when decoding snapshots.
func (s *TransactionStatus) UnmarshalText(text []byte) error {
	parsed, err := ParseTransactionStatus(string(text))
	if err != nil {
		return err
	}
	*s = parsed
	return nil
}

func ParseTransactionStatus(raw string) (TransactionStatus, error) {
	s := TransactionStatus(raw)
	if !s.Valid() {
		return "", apperrors.InvalidArgument("status", fmt.Sprintf("unknown transaction status %q", raw))
	}
	return s, nil
}

// Transaction represents a transfer between two accounts
type Transaction struct {
	TransactionID  string            `json:"transaction_id" validate:"required"`
	FromAccountID  string            `json:"from_account_id" validate:"required"`
	ToAccountID    string            `json:"to_account_id" validate:"required"`
	Amount         decimal.Decimal   `json:"amount" validate:"gt=0"`
	Currency       string            `json:"currency" validate:"required,len=3"`
	Status         TransactionStatus `json:"status" validate:"oneof=pending cleared rejected flagged"`
	SwiftMessageID *string           `json:"swift_message_id"`
	FraudScore     *float64          `json:"fraud_score" validate:"omitempty,gte=0,lte=1"`
	CreatedAt      time.Time         `json:"created_at"`
	ProcessedAt    *time.Time        `json:"processed_at"`
	Description    string            `json:"description,omitempty"`
}

// NewTransaction builds a pending transaction after field validation.
func NewTransaction(id, fromAccountID, toAccountID string, amount decimal.Decimal, currency, description string, now time.Time) (*Transaction, error) {
	t := &Transaction{
		TransactionID: id,
		FromAccountID: fromAccountID,
		ToAccountID:   toAccountID,
		Amount:        amount,
		Currency:      currency,
		Status:        StatusPending,
		CreatedAt:     now,
		Description:   description,
	}
	if err := t.Validate(); err != nil {
		return nil, err
	}
	return t, nil
}

func (t *Transaction) Validate() error {
	if t.FraudScore != nil {
		if err := ValidateFraudScore(*t.FraudScore); err != nil {
			return err
		}
	}
	return validation.Default.Check(t)
}

// ValidateFraudScore accepts values in the closed interval [0, 1].
func ValidateFraudScore(score float64) error {
	if math.IsNaN(score) || score < 0 || score > 1 {
		return &apperrors.InvalidArgumentError{
			Field:  "fraud_score",
			Rule:   "range",
			Reason: fmt.Sprintf("%v is outside [0, 1]", score),
		}
	}
	return nil
}

// CanTransitionTo reports whether the current status may move to next.
func (t *Transaction) CanTransitionTo(next TransactionStatus) error {
	switch t.Status {
	case StatusPending:
		switch next {
		case StatusCleared, StatusFlagged, StatusRejected:
			return nil
		default:
			return apperrors.InvalidArgument("status", fmt.Sprintf("cannot move a pending transaction to %q", next))
		}
	case StatusCleared, StatusRejected, StatusFlagged:
		return &apperrors.InvalidStateError{
			Kind:     apperrors.KindTransaction,
			ID:       t.TransactionID,
			Required: string(StatusPending),
			Actual:   string(t.Status),
		}
	default:
		return apperrors.InvalidArgument("status", fmt.Sprintf("transaction %s has unknown status %q", t.TransactionID, t.Status))
	}
}

// MarkCleared moves a pending transaction to cleared and stamps ProcessedAt.
// Balances are the caller's job and must already be settled.
func (t *Transaction) MarkCleared(at time.Time) error {
	if err := t.CanTransitionTo(StatusCleared); err != nil {
		return err
	}
	t.Status = StatusCleared
	processed := at
	t.ProcessedAt = &processed
	return nil
}

// MarkFlagged moves a pending transaction to flagged. Flagging a flagged
// transaction is a no-op and reports changed=false.
func (t *Transaction) MarkFlagged() (changed bool, err error) {
	if t.Status == StatusFlagged {
		return false, nil
	}
	if err := t.CanTransitionTo(StatusFlagged); err != nil {
		return false, err
	}
	t.Status = StatusFlagged
	return true, nil
}

func (t *Transaction) SetFraudScore(score float64) error {
	if err := ValidateFraudScore(score); err != nil {
		return err
	}
	s := score
	t.FraudScore = &s
	return nil
}

// Involves reports whether the account is the source or destination.
func (t *Transaction) Involves(accountID string) bool {
	return t.FromAccountID == accountID || t.ToAccountID == accountID
}

// Clone returns a copy that shares no pointers with t.
func (t *Transaction) Clone() Transaction {
	c := *t
	if t.SwiftMessageID != nil {
		id := *t.SwiftMessageID
		c.SwiftMessageID = &id
	}
	if t.FraudScore != nil {
		score := *t.FraudScore
		c.FraudScore = &score
	}
	if t.ProcessedAt != nil {
		at := *t.ProcessedAt
		c.ProcessedAt = &at
	}
	return c
}
