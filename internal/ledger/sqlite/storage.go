// internal/ledger/sqlite/storage.go
//
// SQLite implementation of ledger.Store.
// Each game is one row in the games table; the board is kept as JSON.
// Update and Delete read and write inside one immediate transaction,
// which holds the database write lock for the whole read-modify-write.

package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/School-of-Solana/program-rishipunna/internal/game"
	"github.com/School-of-Solana/program-rishipunna/internal/ledger"
)

// Storage is a SQLite-backed Store.
type Storage struct {
	db *sql.DB
}

// Ensure Storage implements the interface
var _ ledger.Store = (*Storage)(nil)

// Open opens the database at path and applies pending migrations.
func Open(ctx context.Context, path string) (*Storage, error) {
	db, err := openDB(path)
	if err != nil {
		return nil, fmt.Errorf("open sqlite %s: %w", path, err)
	}
	if err := migrate(ctx, db); err != nil {
		_ = db.Close()
		return nil, err
	}
	return &Storage{db: db}, nil
}

// Close closes the database.
func (s *Storage) Close() error {
	return s.db.Close()
}

const selectRecord = `SELECT key, payer, deposit, state, created_at, updated_at FROM games WHERE key=?`

type rowScanner interface {
	Scan(dest ...any) error
}

func scanRecord(row rowScanner) (*ledger.Record, error) {
	var (
		rec              ledger.Record
		state            string
		created, updated string
	)
	if err := row.Scan(&rec.Key, &rec.Payer, &rec.Deposit, &state, &created, &updated); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, game.ErrNotFound
		}
		return nil, err
	}
	if err := json.Unmarshal([]byte(state), &rec.State); err != nil {
		return nil, fmt.Errorf("decode state %s: %w", rec.Key, err)
	}
	var err error
	if rec.CreatedAt, err = time.Parse(time.RFC3339Nano, created); err != nil {
		return nil, fmt.Errorf("decode created_at %s: %w", rec.Key, err)
	}
	if rec.UpdatedAt, err = time.Parse(time.RFC3339Nano, updated); err != nil {
		return nil, fmt.Errorf("decode updated_at %s: %w", rec.Key, err)
	}
	return &rec, nil
}

func stamp(t time.Time) string {
	return t.UTC().Format(time.RFC3339Nano)
}

// Get returns the record at key.
func (s *Storage) Get(ctx context.Context, key string) (*ledger.Record, error) {
	return scanRecord(s.db.QueryRowContext(ctx, selectRecord, key))
}

// Create inserts rec unless its key is taken.
func (s *Storage) Create(ctx context.Context, rec *ledger.Record) error {
	state, err := json.Marshal(rec.State)
	if err != nil {
		return err
	}
	res, err := s.db.ExecContext(ctx, `
        INSERT INTO games (key, player, payer, deposit, state, created_at, updated_at)
        VALUES (?, ?, ?, ?, ?, ?, ?)
        ON CONFLICT(key) DO NOTHING`,
		rec.Key, rec.State.Player, rec.Payer, rec.Deposit, string(state),
		stamp(rec.CreatedAt), stamp(rec.UpdatedAt),
	)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return game.ErrGameAlreadyExists
	}
	return nil
}

// Update applies fn to the stored state inside a write transaction.
func (s *Storage) Update(ctx context.Context, key string, fn func(*game.State) error) (*ledger.Record, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, err
	}
	defer func() { _ = tx.Rollback() }()

	rec, err := scanRecord(tx.QueryRowContext(ctx, selectRecord, key))
	if err != nil {
		return nil, err
	}
	if err := fn(&rec.State); err != nil {
		return nil, err
	}
	state, err := json.Marshal(rec.State)
	if err != nil {
		return nil, err
	}
	rec.UpdatedAt = time.Now().UTC()
	if _, err := tx.ExecContext(ctx,
		`UPDATE games SET state=?, updated_at=? WHERE key=?`,
		string(state), stamp(rec.UpdatedAt), key,
	); err != nil {
		return nil, err
	}
	if err := tx.Commit(); err != nil {
		return nil, err
	}
	return rec, nil
}

// Delete removes the row at key once check approves the stored state.
func (s *Storage) Delete(ctx context.Context, key string, check func(*game.State) error) (*ledger.Record, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, err
	}
	defer func() { _ = tx.Rollback() }()

	rec, err := scanRecord(tx.QueryRowContext(ctx, selectRecord, key))
	if err != nil {
		return nil, err
	}
	if check != nil {
		if err := check(&rec.State); err != nil {
			return nil, err
		}
	}
	if _, err := tx.ExecContext(ctx, `DELETE FROM games WHERE key=?`, key); err != nil {
		return nil, err
	}
	if err := tx.Commit(); err != nil {
		return nil, err
	}
	return rec, nil
}
