// internal/ledger/ledger.go
//
// Keyed record store for game state.
// Responsibilities:
//   - Derive a record key from a player handle (fixed namespace + handle).
//   - Define the Record envelope: state plus the storage deposit and its payer.
//   - Define the Store contract every backend implements.
//
// Notes:
//   - All Store methods are atomic per key. Update and Delete run their
//     callback while the key is held, so a check and the write that depends
//     on it cannot interleave with another writer.
//   - Missing keys surface as game.ErrNotFound; duplicate creates as
//     game.ErrGameAlreadyExists.

package ledger

import (
	"context"
	"time"

	"github.com/School-of-Solana/program-rishipunna/internal/game"
)

// Namespace is the fixed tag every record key starts with.
const Namespace = "WORDLE_DAPP"

// Rent parameters for sizing a record's storage deposit, in lamports.
const (
	AccountOverhead     = 128
	LamportsPerByteYear = 3480
	ExemptionYears      = 2
)

// Key returns the record key for player.
func Key(player string) string {
	return Namespace + ":" + player
}

// RentExemptMinimum returns the deposit needed to keep space bytes stored.
func RentExemptMinimum(space int) uint64 {
	return uint64(AccountOverhead+space) * LamportsPerByteYear * ExemptionYears
}

// Record is a stored game together with its storage reservation.
type Record struct {
	Key       string     `json:"key"`
	State     game.State `json:"state"`
	Payer     string     `json:"payer"`
	Deposit   uint64     `json:"deposit"`
	CreatedAt time.Time  `json:"createdAt"`
	UpdatedAt time.Time  `json:"updatedAt"`
}

// NewRecord wraps a fresh state, reserving the deposit from payer.
func NewRecord(s *game.State, payer string, now time.Time) *Record {
	now = now.UTC()
	return &Record{
		Key:       Key(s.Player),
		State:     *s,
		Payer:     payer,
		Deposit:   RentExemptMinimum(game.AccountSpace),
		CreatedAt: now,
		UpdatedAt: now,
	}
}

// Store persists records keyed by Key(player).
// Implementations may be backed by memory, SQLite, Redis or Postgres.
type Store interface {
	// Get returns the record at key, or game.ErrNotFound.
	Get(ctx context.Context, key string) (*Record, error)

	// Create stores rec under rec.Key, or fails with
	// game.ErrGameAlreadyExists if a live record is there.
	Create(ctx context.Context, rec *Record) error

	// Update loads the state at key, applies fn to it and writes it back.
	// If fn returns an error nothing is written and that error is returned.
	Update(ctx context.Context, key string, fn func(*game.State) error) (*Record, error)

	// Delete removes the record at key once check approves it, and returns
	// what was removed. A nil check always approves.
	Delete(ctx context.Context, key string, check func(*game.State) error) (*Record, error)

	// Close releases the backend's resources.
	Close() error
}
