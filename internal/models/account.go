package models

import (
	"time"

	"github.com/ruralpay/ledgersim/internal/apperrors"
	"github.com/ruralpay/ledgersim/internal/validation"
	"github.com/shopspring/decimal"
)

type AccountType string

const (
	AccountTypeChecking   AccountType = "checking"
	AccountTypeSavings    AccountType = "savings"
	AccountTypeInvestment AccountType = "investment"
	AccountTypeLoan       AccountType = "loan"
)

type AccountStatus string

const (
	AccountStatusActive    AccountStatus = "active"
	AccountStatusSuspended AccountStatus = "suspended"
	AccountStatusClosed    AccountStatus = "closed"
)

// Account is mutated in place by the ledger when a transaction clears.
type Account struct {
	AccountID   string          `json:"account_id" validate:"required"`
	CustomerID  string          `json:"customer_id" validate:"required"`
	AccountType AccountType     `json:"account_type" validate:"oneof=checking savings investment loan"`
	Balance     decimal.Decimal `json:"balance" validate:"gte=0"`
	Currency    string          `json:"currency" validate:"required,len=3"`
	Status      AccountStatus   `json:"status" validate:"oneof=active suspended closed"`
	CreatedAt   time.Time       `json:"created_at"`
}

// NewAccount builds an active account. The owning customer is not checked for existence.
func NewAccount(id, customerID string, accountType AccountType, balance decimal.Decimal, currency string, now time.Time) (*Account, error) {
	a := &Account{
		AccountID:   id,
		CustomerID:  customerID,
		AccountType: accountType,
		Balance:     balance,
		Currency:    currency,
		Status:      AccountStatusActive,
		CreatedAt:   now,
	}
	if err := a.Validate(); err != nil {
		return nil, err
	}
	return a, nil
}

// ApplyDefaults fills fields that older snapshots leave out.
func (a *Account) ApplyDefaults() {
	if a.Status == "" {
		a.Status = AccountStatusActive
	}
}

func (a *Account) Validate() error {
	return validation.Default.Check(a)
}

func (a *Account) IsActive() bool {
	return a.Status == AccountStatusActive
}

// CheckFunds reports whether the balance covers amount without touching it.
func (a *Account) CheckFunds(amount decimal.Decimal) error {
	if a.Balance.LessThan(amount) {
		return &apperrors.InsufficientFundsError{
			AccountID: a.AccountID,
			Balance:   a.Balance,
			Amount:    amount,
		}
	}
	return nil
}

func (a *Account) Debit(amount decimal.Decimal) error {
	if err := a.CheckFunds(amount); err != nil {
		return err
	}
	a.Balance = a.Balance.Sub(amount)
	return nil
}

func (a *Account) Credit(amount decimal.Decimal) {
	a.Balance = a.Balance.Add(amount)
}
