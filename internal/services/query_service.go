package services

import (
	"sort"

	"github.com/ruralpay/ledgersim/internal/models"
	"github.com/ruralpay/ledgersim/internal/store"
	"github.com/shopspring/decimal"
)

// QueryService answers read-only lookups. Every result is a copy taken under
// the shared lock, so callers never alias store state.
type QueryService struct {
	store *store.Store
}

func NewQueryService(st *store.Store) *QueryService {
	return &QueryService{store: st}
}

func (qs *QueryService) GetCustomerDetails(customerID string) (models.Customer, error) {
	var out models.Customer
	err := qs.store.Read(func(tx *store.Tx) error {
		c, err := tx.Customer(customerID)
		if err != nil {
			return err
		}
		out = *c
		return nil
	})
	return out, err
}

// GetCustomerAccounts lists the customer's accounts, oldest first.
// A known customer with no accounts gets an empty slice.
func (qs *QueryService) GetCustomerAccounts(customerID string) ([]models.Account, error) {
	out := []models.Account{}
	err := qs.store.Read(func(tx *store.Tx) error {
		if _, err := tx.Customer(customerID); err != nil {
			return err
		}
		tx.EachAccount(func(a *models.Account) {
			if a.CustomerID == customerID {
				out = append(out, *a)
			}
		})
		return nil
	})
	if err != nil {
		return nil, err
	}

	sort.Slice(out, func(i, j int) bool {
		if !out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].CreatedAt.Before(out[j].CreatedAt)
		}
		return out[i].AccountID < out[j].AccountID
	})
	return out, nil
}

// GetAccountTransactions lists transactions where the account is either side, oldest first.
func (qs *QueryService) GetAccountTransactions(accountID string) ([]models.Transaction, error) {
	out := []models.Transaction{}
	err := qs.store.Read(func(tx *store.Tx) error {
		if _, err := tx.Account(accountID); err != nil {
			return err
		}
		tx.EachTransaction(func(t *models.Transaction) {
			if t.Involves(accountID) {
				out = append(out, t.Clone())
			}
		})
		return nil
	})
	if err != nil {
		return nil, err
	}

	sort.Slice(out, func(i, j int) bool {
		if !out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].CreatedAt.Before(out[j].CreatedAt)
		}
		return out[i].TransactionID < out[j].TransactionID
	})
	return out, nil
}

func (qs *QueryService) GetAccountBalance(accountID string) (decimal.Decimal, error) {
	var balance decimal.Decimal
	err := qs.store.Read(func(tx *store.Tx) error {
		a, err := tx.Account(accountID)
		if err != nil {
			return err
		}
		balance = a.Balance
		return nil
	})
	return balance, err
}

// GetAccount is used by the tool surface to report currency next to the balance.
func (qs *QueryService) GetAccount(accountID string) (models.Account, error) {
	var out models.Account
	err := qs.store.Read(func(tx *store.Tx) error {
		a, err := tx.Account(accountID)
		if err != nil {
			return err
		}
		out = *a
		return nil
	})
	return out, err
}

func (qs *QueryService) GetTransaction(transactionID string) (models.Transaction, error) {
	var out models.Transaction
	err := qs.store.Read(func(tx *store.Tx) error {
		t, err := tx.Transaction(transactionID)
		if err != nil {
			return err
		}
		out = t.Clone()
		return nil
	})
	return out, err
}

func (qs *QueryService) GetTransactionStatus(transactionID string) (models.TransactionStatus, error) {
	var status models.TransactionStatus
	err := qs.store.Read(func(tx *store.Tx) error {
		t, err := tx.Transaction(transactionID)
		if err != nil {
			return err
		}
		status = t.Status
		return nil
	})
	return status, err
}

func (qs *QueryService) GetSwiftMessage(messageID string) (models.SwiftMessage, error) {
	var out models.SwiftMessage
	err := qs.store.Read(func(tx *store.Tx) error {
		m, err := tx.SwiftMessage(messageID)
		if err != nil {
			return err
		}
		out = *m
		return nil
	})
	return out, err
}

func (qs *QueryService) GetStatistics() store.Statistics {
	return qs.store.Statistics()
}
