// internal/service/service.go
//
// Game service: the only path by which game records are created, mutated
// or removed.
// Responsibilities:
//   - Pick a solution and create a player's record, reserving its deposit.
//   - Apply guesses through the store's atomic Update.
//   - Remove records (owner check inside the store) and report the refund.
//   - Serve reads through an LRU cache that every write invalidates.
//
// Notes:
//   - The cache is per process. Run one server per store, or set a small
//     CACHE_SIZE, when several servers share Redis or Postgres.

package service

import (
	"context"
	"errors"
	"fmt"
	"sync"

	lru "github.com/hashicorp/golang-lru/v2"
	"github.com/rs/zerolog/log"

	"github.com/School-of-Solana/program-rishipunna/internal/clock"
	"github.com/School-of-Solana/program-rishipunna/internal/game"
	"github.com/School-of-Solana/program-rishipunna/internal/ledger"
	"github.com/School-of-Solana/program-rishipunna/internal/words"
)

// Refund is the storage deposit returned when a record is removed.
type Refund struct {
	Payer    string `json:"payer"`
	Lamports uint64 `json:"lamports"`
}

// Service coordinates the store, the word source and the read cache.
type Service struct {
	store ledger.Store
	words words.Source
	clock clock.Clock

	mu    sync.Mutex // orders cache fills against invalidations
	gen   uint64     // bumped by every write, guarded by mu
	cache *lru.Cache[string, game.State]
}

// New builds a Service. cacheSize must be positive.
func New(store ledger.Store, src words.Source, clk clock.Clock, cacheSize int) (*Service, error) {
	cache, err := lru.New[string, game.State](cacheSize)
	if err != nil {
		return nil, fmt.Errorf("service: cache: %w", err)
	}
	if clk == nil {
		clk = clock.New()
	}
	return &Service{store: store, words: src, clock: clk, cache: cache}, nil
}

// Fetch returns the player's record, or the absent variant if there is none.
func (s *Service) Fetch(ctx context.Context, player string) (game.Record, error) {
	key := ledger.Key(player)
	if st, ok := s.cache.Get(key); ok {
		return game.Present(st), nil
	}

	s.mu.Lock()
	gen := s.gen
	s.mu.Unlock()

	rec, err := s.store.Get(ctx, key)
	if errors.Is(err, game.ErrNotFound) {
		return game.Absent(), nil
	}
	if err != nil {
		return game.Absent(), fmt.Errorf("fetch %s: %w", player, err)
	}

	// A write that landed after our read must not be shadowed by it.
	s.mu.Lock()
	if s.gen == gen {
		s.cache.Add(key, rec.State)
	}
	s.mu.Unlock()
	return game.Present(rec.State), nil
}

// Create starts a game for player, paid for by requester.
// Only the player may create their own game.
func (s *Service) Create(ctx context.Context, requester, player string) (*game.State, error) {
	if requester != player {
		return nil, game.ErrUnauthorized
	}
	solution, err := s.words.Pick()
	if err != nil {
		return nil, fmt.Errorf("create %s: pick word: %w", player, err)
	}
	st, err := game.New(player, solution)
	if err != nil {
		return nil, fmt.Errorf("create %s: %w", player, err)
	}
	rec := ledger.NewRecord(st, requester, s.clock.Now())
	if err := s.store.Create(ctx, rec); err != nil {
		return nil, fmt.Errorf("create %s: %w", player, err)
	}
	s.invalidate(rec.Key)

	log.Info().Str("player", player).Uint64("deposit", rec.Deposit).Msg("game created")
	return st, nil
}

// Guess submits raw for player. Only the player may guess on their game.
func (s *Service) Guess(ctx context.Context, requester, player, raw string) (*game.State, error) {
	if requester != player {
		return nil, game.ErrUnauthorized
	}
	key := ledger.Key(player)
	rec, err := s.store.Update(ctx, key, func(st *game.State) error {
		return st.SubmitGuess(raw)
	})
	if err != nil {
		return nil, fmt.Errorf("guess %s: %w", player, err)
	}
	s.invalidate(key)

	log.Debug().Str("player", player).Int("tries", rec.State.Tries).
		Str("status", string(rec.State.Status())).Msg("guess applied")
	return &rec.State, nil
}

// Remove deletes player's game on behalf of requester and returns the
// deposit to whoever paid it.
func (s *Service) Remove(ctx context.Context, requester, player string) (Refund, error) {
	key := ledger.Key(player)
	rec, err := s.store.Delete(ctx, key, func(st *game.State) error {
		return st.AuthorizeRemoval(requester)
	})
	if err != nil {
		return Refund{}, fmt.Errorf("remove %s: %w", player, err)
	}
	s.invalidate(key)

	log.Info().Str("player", player).Str("payer", rec.Payer).Uint64("lamports", rec.Deposit).Msg("game removed")
	return Refund{Payer: rec.Payer, Lamports: rec.Deposit}, nil
}

// Reset removes player's game and starts a fresh one.
func (s *Service) Reset(ctx context.Context, requester, player string) (*game.State, error) {
	if _, err := s.Remove(ctx, requester, player); err != nil {
		return nil, err
	}
	return s.Create(ctx, requester, player)
}

func (s *Service) invalidate(key string) {
	s.mu.Lock()
	s.gen++
	s.cache.Remove(key)
	s.mu.Unlock()
}
