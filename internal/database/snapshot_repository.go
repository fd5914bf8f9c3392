package database

import (
	"bytes"
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/ruralpay/ledgersim/internal/store"
)

// ErrNoSnapshot is returned by LoadLatest when the table is empty.
var ErrNoSnapshot = errors.New("no snapshot stored")

const createSnapshotTable = `
CREATE TABLE IF NOT EXISTS ledger_snapshots (
	id         BIGSERIAL PRIMARY KEY,
	payload    JSONB NOT NULL,
	created_at TIMESTAMPTZ NOT NULL
)`

// SnapshotRepository keeps whole-store JSON snapshots in Postgres.
type SnapshotRepository struct {
	db  *sql.DB
	now func() time.Time
}

func NewSnapshotRepository(db *sql.DB) *SnapshotRepository {
	return &SnapshotRepository{db: db, now: time.Now}
}

func (r *SnapshotRepository) EnsureSchema(ctx context.Context) error {
	if _, err := r.db.ExecContext(ctx, createSnapshotTable); err != nil {
		return fmt.Errorf("error creating ledger_snapshots: %w", err)
	}
	return nil
}

// Save writes st as a new row and, when keep > 0, prunes all but the newest keep rows.
func (r *SnapshotRepository) Save(ctx context.Context, st *store.Store, keep int) (int64, error) {
	var buf bytes.Buffer
	if err := st.Encode(&buf); err != nil {
		return 0, err
	}

	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, err
	}
	defer tx.Rollback()

	var id int64
	err = tx.QueryRowContext(ctx,
		`INSERT INTO ledger_snapshots (payload, created_at) VALUES ($1, $2) RETURNING id`,
		buf.Bytes(), r.now().UTC()).Scan(&id)
	if err != nil {
		return 0, fmt.Errorf("error inserting snapshot: %w", err)
	}

	if keep > 0 {
		_, err = tx.ExecContext(ctx, `
			DELETE FROM ledger_snapshots
			WHERE id NOT IN (SELECT id FROM ledger_snapshots ORDER BY id DESC LIMIT $1)`, keep)
		if err != nil {
			return 0, fmt.Errorf("error pruning snapshots: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return 0, err
	}
	return id, nil
}

// LoadLatest rebuilds a store from the newest snapshot row.
func (r *SnapshotRepository) LoadLatest(ctx context.Context) (*store.Store, error) {
	var payload []byte
	err := r.db.QueryRowContext(ctx,
		`SELECT payload FROM ledger_snapshots ORDER BY id DESC LIMIT 1`).Scan(&payload)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNoSnapshot
	}
	if err != nil {
		return nil, fmt.Errorf("error reading snapshot: %w", err)
	}
	return store.Decode(bytes.NewReader(payload))
}
