package store

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/ruralpay/ledgersim/internal/models"
)

// Snapshot is the on-disk shape of a store: four id-keyed maps.
type Snapshot struct {
	Customers     map[string]models.Customer     `json:"customers"`
	Accounts      map[string]models.Account      `json:"accounts"`
	Transactions  map[string]models.Transaction  `json:"transactions"`
	SwiftMessages map[string]models.SwiftMessage `json:"swift_messages"`
}

// FromSnapshot validates every entity and builds a store that owns copies of them.
func FromSnapshot(snap Snapshot) (*Store, error) {
	s := New()

	for key, c := range snap.Customers {
		c := c
		if err := checkKey("customers", key, c.CustomerID); err != nil {
			return nil, err
		}
		if err := c.Validate(); err != nil {
			return nil, fmt.Errorf("customer %s: %w", key, err)
		}
		s.customers[key] = &c
	}

	for key, a := range snap.Accounts {
		a := a
		a.ApplyDefaults()
		if err := checkKey("accounts", key, a.AccountID); err != nil {
			return nil, err
		}
		if err := a.Validate(); err != nil {
			return nil, fmt.Errorf("account %s: %w", key, err)
		}
		s.accounts[key] = &a
	}

	for key, t := range snap.Transactions {
		t := t.Clone()
		if err := checkKey("transactions", key, t.TransactionID); err != nil {
			return nil, err
		}
		if err := t.Validate(); err != nil {
			return nil, fmt.Errorf("transaction %s: %w", key, err)
		}
		s.transactions[key] = &t
	}

	for key, m := range snap.SwiftMessages {
		m := m
		if err := checkKey("swift_messages", key, m.MessageID); err != nil {
			return nil, err
		}
		if err := m.Validate(); err != nil {
			return nil, fmt.Errorf("swift message %s: %w", key, err)
		}
		s.swiftMessages[key] = &m
	}

	return s, nil
}

func checkKey(mapping, key, id string) error {
	if key != id {
		return fmt.Errorf("%s: key %q does not match entity id %q", mapping, key, id)
	}
	return nil
}

// Snapshot returns a consistent deep copy of the store.
func (s *Store) Snapshot() Snapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()

	snap := Snapshot{
		Customers:     make(map[string]models.Customer, len(s.customers)),
		Accounts:      make(map[string]models.Account, len(s.accounts)),
		Transactions:  make(map[string]models.Transaction, len(s.transactions)),
		SwiftMessages: make(map[string]models.SwiftMessage, len(s.swiftMessages)),
	}
	for id, c := range s.customers {
		snap.Customers[id] = *c
	}
	for id, a := range s.accounts {
		snap.Accounts[id] = *a
	}
	for id, t := range s.transactions {
		snap.Transactions[id] = t.Clone()
	}
	for id, m := range s.swiftMessages {
		snap.SwiftMessages[id] = *m
	}
	return snap
}

func Decode(r io.Reader) (*Store, error) {
	var snap Snapshot
	if err := json.NewDecoder(r).Decode(&snap); err != nil {
		return nil, fmt.Errorf("failed to decode snapshot: %w", err)
	}
	return FromSnapshot(snap)
}

func (s *Store) Encode(w io.Writer) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(s.Snapshot()); err != nil {
		return fmt.Errorf("failed to encode snapshot: %w", err)
	}
	return nil
}

// LoadSnapshotFile reads a JSON snapshot from disk.
func LoadSnapshotFile(path string) (*Store, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("error opening snapshot: %w", err)
	}
	defer f.Close()
	return Decode(f)
}

// SaveSnapshotFile writes the store to path via a temp file and rename.
func (s *Store) SaveSnapshotFile(path string) error {
	tmp, err := os.CreateTemp(filepath.Dir(path), ".snapshot-*.json")
	if err != nil {
		return fmt.Errorf("error creating snapshot file: %w", err)
	}
	defer os.Remove(tmp.Name())

	if err := s.Encode(tmp); err != nil {
		tmp.Close()
		return err
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("error closing snapshot file: %w", err)
	}
	return os.Rename(tmp.Name(), path)
}
