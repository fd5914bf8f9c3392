package apperrors

import (
	"errors"
	"fmt"

	"github.com/shopspring/decimal"
)

// Sentinels for errors.Is checks. Every typed error below unwraps to one of them.
var (
	ErrNotFound          = errors.New("not found")
	ErrInvalidState      = errors.New("invalid state")
	ErrInsufficientFunds = errors.New("insufficient funds")
	ErrInvalidArgument   = errors.New("invalid argument")
	ErrAlreadyExists     = errors.New("already exists")
)

// Entity kinds carried by NotFound / AlreadyExists / InvalidState.
const (
	KindCustomer     = "Customer"
	KindAccount      = "Account"
	KindTransaction  = "Transaction"
	KindSwiftMessage = "SwiftMessage"
)

// NotFoundError reports a missing id in one of the store's maps.
type NotFoundError struct {
	Kind string
	ID   string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s %s not found", e.Kind, e.ID)
}

func (e *NotFoundError) Unwrap() error { return ErrNotFound }

// InvalidStateError reports that an entity is not in the status an operation requires.
type InvalidStateError struct {
	Kind     string
	ID       string
	Required string
	Actual   string
}

func (e *InvalidStateError) Error() string {
	return fmt.Sprintf("%s %s is %s, expected %s", e.Kind, e.ID, e.Actual, e.Required)
}

func (e *InvalidStateError) Unwrap() error { return ErrInvalidState }

type InsufficientFundsError struct {
	AccountID string
	Balance   decimal.Decimal
	Amount    decimal.Decimal
}

func (e *InsufficientFundsError) Error() string {
	return fmt.Sprintf("insufficient funds in account %s: balance %s, requested %s",
		e.AccountID, e.Balance.String(), e.Amount.String())
}

func (e *InsufficientFundsError) Unwrap() error { return ErrInsufficientFunds }

// InvalidArgumentError reports a field-level invariant violation.
type InvalidArgumentError struct {
	Field  string
	Rule   string
	Reason string
}

func (e *InvalidArgumentError) Error() string {
	if e.Reason != "" {
		return fmt.Sprintf("invalid %s: %s", e.Field, e.Reason)
	}
	return fmt.Sprintf("invalid %s: failed on '%s' rule", e.Field, e.Rule)
}

func (e *InvalidArgumentError) Unwrap() error { return ErrInvalidArgument }

type AlreadyExistsError struct {
	Kind string
	ID   string
}

func (e *AlreadyExistsError) Error() string {
	return fmt.Sprintf("%s %s already exists", e.Kind, e.ID)
}

func (e *AlreadyExistsError) Unwrap() error { return ErrAlreadyExists }

func NotFound(kind, id string) error {
	return &NotFoundError{Kind: kind, ID: id}
}

func InvalidArgument(field, reason string) error {
	return &InvalidArgumentError{Field: field, Reason: reason}
}
