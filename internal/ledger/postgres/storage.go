package postgres

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/School-of-Solana/program-rishipunna/internal/game"
	"github.com/School-of-Solana/program-rishipunna/internal/ledger"
)

// Storage is a Postgres-backed ledger.Store.
// Update and Delete lock the row with SELECT ... FOR UPDATE for the
// duration of their transaction.
type Storage struct {
	pool *pgxpool.Pool
}

// Ensure Storage implements the interface
var _ ledger.Store = (*Storage)(nil)

// Open connects to databaseURL and applies pending migrations.
func Open(ctx context.Context, databaseURL string) (*Storage, error) {
	if err := MigrateUp(databaseURL); err != nil {
		return nil, err
	}

	config, err := pgxpool.ParseConfig(databaseURL)
	if err != nil {
		return nil, fmt.Errorf("failed to parse database URL: %w", err)
	}
	config.ConnConfig.RuntimeParams["timezone"] = "UTC"

	pool, err := pgxpool.NewWithConfig(ctx, config)
	if err != nil {
		return nil, fmt.Errorf("failed to create connection pool: %w", err)
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}
	return &Storage{pool: pool}, nil
}

// Close closes the connection pool.
func (s *Storage) Close() error {
	s.pool.Close()
	return nil
}

const selectRecord = `SELECT key, payer, deposit, state, created_at, updated_at FROM games WHERE key = $1`

func scanRecord(row pgx.Row) (*ledger.Record, error) {
	var (
		rec     ledger.Record
		deposit int64
		state   []byte
	)
	if err := row.Scan(&rec.Key, &rec.Payer, &deposit, &state, &rec.CreatedAt, &rec.UpdatedAt); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, game.ErrNotFound
		}
		return nil, err
	}
	if err := json.Unmarshal(state, &rec.State); err != nil {
		return nil, fmt.Errorf("decode state %s: %w", rec.Key, err)
	}
	rec.Deposit = uint64(deposit)
	rec.CreatedAt = rec.CreatedAt.UTC()
	rec.UpdatedAt = rec.UpdatedAt.UTC()
	return &rec, nil
}

func (s *Storage) Get(ctx context.Context, key string) (*ledger.Record, error) {
	return scanRecord(s.pool.QueryRow(ctx, selectRecord, key))
}

func (s *Storage) Create(ctx context.Context, rec *ledger.Record) error {
	state, err := json.Marshal(rec.State)
	if err != nil {
		return err
	}
	tag, err := s.pool.Exec(ctx, `
		INSERT INTO games (key, player, payer, deposit, state, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		ON CONFLICT (key) DO NOTHING`,
		rec.Key, rec.State.Player, rec.Payer, int64(rec.Deposit), state, rec.CreatedAt, rec.UpdatedAt,
	)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return game.ErrGameAlreadyExists
	}
	return nil
}

func (s *Storage) Update(ctx context.Context, key string, fn func(*game.State) error) (*ledger.Record, error) {
	var out *ledger.Record
	err := pgx.BeginFunc(ctx, s.pool, func(tx pgx.Tx) error {
		rec, err := scanRecord(tx.QueryRow(ctx, selectRecord+" FOR UPDATE", key))
		if err != nil {
			return err
		}
		if err := fn(&rec.State); err != nil {
			return err
		}
		state, err := json.Marshal(rec.State)
		if err != nil {
			return err
		}
		rec.UpdatedAt = time.Now().UTC()
		if _, err := tx.Exec(ctx,
			`UPDATE games SET state = $1, updated_at = $2 WHERE key = $3`,
			state, rec.UpdatedAt, key,
		); err != nil {
			return err
		}
		out = rec
		return nil
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

func (s *Storage) Delete(ctx context.Context, key string, check func(*game.State) error) (*ledger.Record, error) {
	var out *ledger.Record
	err := pgx.BeginFunc(ctx, s.pool, func(tx pgx.Tx) error {
		rec, err := scanRecord(tx.QueryRow(ctx, selectRecord+" FOR UPDATE", key))
		if err != nil {
			return err
		}
		if check != nil {
			if err := check(&rec.State); err != nil {
				return err
			}
		}
		if _, err := tx.Exec(ctx, `DELETE FROM games WHERE key = $1`, key); err != nil {
			return err
		}
		out = rec
		return nil
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

