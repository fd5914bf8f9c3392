package store

import (
	"sync"

	"github.com/ruralpay/ledgersim/internal/apperrors"
	"github.com/ruralpay/ledgersim/internal/models"
)

// Store holds in-memory data for customers, accounts, transactions and SWIFT messages.
// Entities live behind pointers owned by the store and are only touched under mu.
type Store struct {
	customers     map[string]*models.Customer
	accounts      map[string]*models.Account
	transactions  map[string]*models.Transaction
	swiftMessages map[string]*models.SwiftMessage
	mu            sync.RWMutex
}

// Statistics holds the entity counts of a store
type Statistics struct {
	NumCustomers     int `json:"num_customers"`
	NumAccounts      int `json:"num_accounts"`
	NumTransactions  int `json:"num_transactions"`
	NumSwiftMessages int `json:"num_swift_messages"`
}

func New() *Store {
	return &Store{
		customers:     make(map[string]*models.Customer),
		accounts:      make(map[string]*models.Account),
		transactions:  make(map[string]*models.Transaction),
		swiftMessages: make(map[string]*models.SwiftMessage),
	}
}

// Read runs fn under the shared lock. fn must not mutate anything reachable from tx.
func (s *Store) Read(fn func(tx *Tx) error) error {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return fn(&Tx{s: s})
}

// Write runs fn under the exclusive lock. fn must validate before mutating:
// there is no rollback.
func (s *Store) Write(fn func(tx *Tx) error) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return fn(&Tx{s: s, writable: true})
}

// Statistics returns the count of entities in each mapping
func (s *Store) Statistics() Statistics {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.statistics()
}

func (s *Store) statistics() Statistics {
	return Statistics{
		NumCustomers:     len(s.customers),
		NumAccounts:      len(s.accounts),
		NumTransactions:  len(s.transactions),
		NumSwiftMessages: len(s.swiftMessages),
	}
}

// Tx is a view of the store valid only inside Read or Write.
type Tx struct {
	s        *Store
	writable bool
}

// Customer retrieves a customer by ID
func (tx *Tx) Customer(id string) (*models.Customer, error) {
	c, ok := tx.s.customers[id]
	if !ok {
		return nil, apperrors.NotFound(apperrors.KindCustomer, id)
	}
	return c, nil
}

// Account retrieves an account by ID
func (tx *Tx) Account(id string) (*models.Account, error) {
	a, ok := tx.s.accounts[id]
	if !ok {
		return nil, apperrors.NotFound(apperrors.KindAccount, id)
	}
	return a, nil
}

// Transaction retrieves a transaction by ID
func (tx *Tx) Transaction(id string) (*models.Transaction, error) {
	t, ok := tx.s.transactions[id]
	if !ok {
		return nil, apperrors.NotFound(apperrors.KindTransaction, id)
	}
	return t, nil
}

// SwiftMessage retrieves a SWIFT message by ID
func (tx *Tx) SwiftMessage(id string) (*models.SwiftMessage, error) {
	m, ok := tx.s.swiftMessages[id]
	if !ok {
		return nil, apperrors.NotFound(apperrors.KindSwiftMessage, id)
	}
	return m, nil
}

// InsertCustomer adds a customer; an existing id is rejected rather than overwritten.
func (tx *Tx) InsertCustomer(c *models.Customer) error {
	tx.mustWrite()
	if _, exists := tx.s.customers[c.CustomerID]; exists {
		return &apperrors.AlreadyExistsError{Kind: apperrors.KindCustomer, ID: c.CustomerID}
	}
	tx.s.customers[c.CustomerID] = c
	return nil
}

func (tx *Tx) InsertAccount(a *models.Account) error {
	tx.mustWrite()
	if _, exists := tx.s.accounts[a.AccountID]; exists {
		return &apperrors.AlreadyExistsError{Kind: apperrors.KindAccount, ID: a.AccountID}
	}
	tx.s.accounts[a.AccountID] = a
	return nil
}

func (tx *Tx) InsertTransaction(t *models.Transaction) error {
	tx.mustWrite()
	if _, exists := tx.s.transactions[t.TransactionID]; exists {
		return &apperrors.AlreadyExistsError{Kind: apperrors.KindTransaction, ID: t.TransactionID}
	}
	tx.s.transactions[t.TransactionID] = t
	return nil
}

func (tx *Tx) InsertSwiftMessage(m *models.SwiftMessage) error {
	tx.mustWrite()
	if _, exists := tx.s.swiftMessages[m.MessageID]; exists {
		return &apperrors.AlreadyExistsError{Kind: apperrors.KindSwiftMessage, ID: m.MessageID}
	}
	tx.s.swiftMessages[m.MessageID] = m
	return nil
}

// EachAccount calls fn for every account, in map order.
func (tx *Tx) EachAccount(fn func(a *models.Account)) {
	for _, a := range tx.s.accounts {
		fn(a)
	}
}

// EachTransaction calls fn for every transaction, in map order.
func (tx *Tx) EachTransaction(fn func(t *models.Transaction)) {
	for _, t := range tx.s.transactions {
		fn(t)
	}
}

func (tx *Tx) Statistics() Statistics {
	return tx.s.statistics()
}

func (tx *Tx) mustWrite() {
	if !tx.writable {
		panic("store: insert inside a read-only view")
	}
}
