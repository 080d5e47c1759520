// Package storetest is a conformance suite for ledger.Store implementations.
package storetest

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"

	"github.com/School-of-Solana/program-rishipunna/internal/game"
	"github.com/School-of-Solana/program-rishipunna/internal/ledger"
)

// Suite exercises a ledger.Store. Backends embed it and set NewStore.
type Suite struct {
	suite.Suite

	// NewStore returns an empty store. Called before every test.
	NewStore func(t *testing.T) ledger.Store

	Store ledger.Store
	Ctx   context.Context
}

const (
	alice = "alice-pubkey"
	bob   = "bob-pubkey"
)

func (s *Suite) SetupTest() {
	s.Store = s.NewStore(s.T())
	s.Ctx = context.Background()
}

func (s *Suite) TearDownTest() {
	if s.Store != nil {
		_ = s.Store.Close()
	}
}

func (s *Suite) record(player, solution string) *ledger.Record {
	st, err := game.New(player, solution)
	s.Require().NoError(err)
	return ledger.NewRecord(st, player, time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC))
}

func (s *Suite) TestCreateAndGet() {
	rec := s.record(alice, "CRANE")
	s.Require().NoError(s.Store.Create(s.Ctx, rec))

	got, err := s.Store.Get(s.Ctx, ledger.Key(alice))
	s.Require().NoError(err)
	s.Equal(rec.Key, got.Key)
	s.Equal(rec.State, got.State)
	s.Equal(alice, got.Payer)
	s.Equal(ledger.RentExemptMinimum(game.AccountSpace), got.Deposit)
	s.True(rec.CreatedAt.Equal(got.CreatedAt), "created at %v != %v", rec.CreatedAt, got.CreatedAt)
}

func (s *Suite) TestGetNotFound() {
	_, err := s.Store.Get(s.Ctx, ledger.Key("nobody"))
	s.ErrorIs(err, game.ErrNotFound)
}

func (s *Suite) TestCreateTwiceFails() {
	s.Require().NoError(s.Store.Create(s.Ctx, s.record(alice, "CRANE")))

	err := s.Store.Create(s.Ctx, s.record(alice, "SLATE"))
	s.ErrorIs(err, game.ErrGameAlreadyExists)

	got, err := s.Store.Get(s.Ctx, ledger.Key(alice))
	s.Require().NoError(err)
	s.Equal("CRANE", got.State.Solution)
}

func (s *Suite) TestPlayersAreIndependent() {
	s.Require().NoError(s.Store.Create(s.Ctx, s.record(alice, "CRANE")))
	s.Require().NoError(s.Store.Create(s.Ctx, s.record(bob, "SLATE")))

	_, err := s.Store.Update(s.Ctx, ledger.Key(alice), func(st *game.State) error {
		return st.SubmitGuess("PLUSH")
	})
	s.Require().NoError(err)

	got, err := s.Store.Get(s.Ctx, ledger.Key(bob))
	s.Require().NoError(err)
	s.Equal(0, got.State.Tries)
}

func (s *Suite) TestUpdatePersists() {
	s.Require().NoError(s.Store.Create(s.Ctx, s.record(alice, "ALLOY")))

	rec, err := s.Store.Update(s.Ctx, ledger.Key(alice), func(st *game.State) error {
		return st.SubmitGuess("lolly")
	})
	s.Require().NoError(err)
	s.Equal(1, rec.State.Tries)

	got, err := s.Store.Get(s.Ctx, ledger.Key(alice))
	s.Require().NoError(err)
	s.Equal(rec.State, got.State)
	s.Equal("LOLLY", got.State.Guesses[0])
	s.Equal([game.WordLength]bool{false, false, true, false, true}, got.State.CorrectCharPos[0])
	s.Equal([game.WordLength]bool{true, true, false, false, false}, got.State.CorrectCharNotPos[0])
}

func (s *Suite) TestUpdateErrorWritesNothing() {
	s.Require().NoError(s.Store.Create(s.Ctx, s.record(alice, "CRANE")))
	before, err := s.Store.Get(s.Ctx, ledger.Key(alice))
	s.Require().NoError(err)

	boom := errors.New("boom")
	_, err = s.Store.Update(s.Ctx, ledger.Key(alice), func(st *game.State) error {
		st.Tries = 5
		st.Guesses[0] = "XXXXX"
		return boom
	})
	s.ErrorIs(err, boom)

	after, err := s.Store.Get(s.Ctx, ledger.Key(alice))
	s.Require().NoError(err)
	s.Equal(before.State, after.State)
}

func (s *Suite) TestUpdateNotFound() {
	called := false
	_, err := s.Store.Update(s.Ctx, ledger.Key("nobody"), func(*game.State) error {
		called = true
		return nil
	})
	s.ErrorIs(err, game.ErrNotFound)
	s.False(called)
}

func (s *Suite) TestConcurrentUpdatesSerialize() {
	s.Require().NoError(s.Store.Create(s.Ctx, s.record(alice, "CRANE")))

	var wg sync.WaitGroup
	errs := make(chan error, 10)
	for i := 0; i < 10; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := s.Store.Update(s.Ctx, ledger.Key(alice), func(st *game.State) error {
				return st.SubmitGuess("PLUSH")
			})
			errs <- err
		}()
	}
	wg.Wait()
	close(errs)

	ok, exhausted := 0, 0
	for err := range errs {
		switch {
		case err == nil:
			ok++
		case errors.Is(err, game.ErrTriesExhausted):
			exhausted++
		default:
			s.Failf("unexpected error", "%v", err)
		}
	}
	s.Equal(game.MaxTries, ok)
	s.Equal(10-game.MaxTries, exhausted)

	got, err := s.Store.Get(s.Ctx, ledger.Key(alice))
	s.Require().NoError(err)
	s.Equal(game.MaxTries, got.State.Tries)
}

func (s *Suite) TestDeleteReturnsRecord() {
	s.Require().NoError(s.Store.Create(s.Ctx, s.record(alice, "CRANE")))

	rec, err := s.Store.Delete(s.Ctx, ledger.Key(alice), nil)
	s.Require().NoError(err)
	s.Equal(alice, rec.Payer)
	s.Equal(ledger.RentExemptMinimum(game.AccountSpace), rec.Deposit)

	_, err = s.Store.Get(s.Ctx, ledger.Key(alice))
	s.ErrorIs(err, game.ErrNotFound)
}

func (s *Suite) TestDeleteCheckRejects() {
	s.Require().NoError(s.Store.Create(s.Ctx, s.record(alice, "CRANE")))

	_, err := s.Store.Delete(s.Ctx, ledger.Key(alice), func(st *game.State) error {
		return st.AuthorizeRemoval(bob)
	})
	s.ErrorIs(err, game.ErrUnauthorized)

	_, err = s.Store.Get(s.Ctx, ledger.Key(alice))
	s.NoError(err)
}

func (s *Suite) TestDeleteNotFound() {
	_, err := s.Store.Delete(s.Ctx, ledger.Key("nobody"), nil)
	s.ErrorIs(err, game.ErrNotFound)
}

func (s *Suite) TestRecreateAfterDelete() {
	s.Require().NoError(s.Store.Create(s.Ctx, s.record(alice, "CRANE")))
	_, err := s.Store.Update(s.Ctx, ledger.Key(alice), func(st *game.State) error {
		return st.SubmitGuess("CRANE")
	})
	s.Require().NoError(err)
	_, err = s.Store.Delete(s.Ctx, ledger.Key(alice), nil)
	s.Require().NoError(err)

	s.Require().NoError(s.Store.Create(s.Ctx, s.record(alice, "SLATE")))

	got, err := s.Store.Get(s.Ctx, ledger.Key(alice))
	s.Require().NoError(err)
	s.Equal(0, got.State.Tries)
	s.False(got.State.IsSolved)
	s.Equal("SLATE", got.State.Solution)
}
