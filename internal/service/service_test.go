package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/School-of-Solana/program-rishipunna/internal/clock"
	"github.com/School-of-Solana/program-rishipunna/internal/game"
	"github.com/School-of-Solana/program-rishipunna/internal/ledger"
	"github.com/School-of-Solana/program-rishipunna/internal/ledger/memory"
)

// queue hands out words in order, repeating the last one.
type queue struct {
	words []string
}

func (q *queue) Pick() (string, error) {
	w := q.words[0]
	if len(q.words) > 1 {
		q.words = q.words[1:]
	}
	return w, nil
}

const (
	alice = "alice"
	bob   = "bob"
)

func newService(t *testing.T, words ...string) (*Service, *memory.Storage) {
	t.Helper()
	store := memory.New()
	clk := &clock.Fixed{T: time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)}
	svc, err := New(store, &queue{words: words}, clk, 8)
	require.NoError(t, err)
	return svc, store
}

func TestFetchAbsent(t *testing.T) {
	svc, _ := newService(t, "CRANE")

	rec, err := svc.Fetch(context.Background(), alice)
	require.NoError(t, err)
	assert.False(t, rec.Present)
}

func TestCreateThenFetch(t *testing.T) {
	ctx := context.Background()
	svc, store := newService(t, "CRANE")

	st, err := svc.Create(ctx, alice, alice)
	require.NoError(t, err)
	assert.Equal(t, "CRANE", st.Solution)
	assert.Equal(t, game.StatusActive, st.Status())

	rec, err := svc.Fetch(ctx, alice)
	require.NoError(t, err)
	require.True(t, rec.Present)
	assert.Equal(t, *st, rec.State)

	stored, err := store.Get(ctx, ledger.Key(alice))
	require.NoError(t, err)
	assert.Equal(t, alice, stored.Payer)
	assert.Equal(t, uint64(2_039_280), stored.Deposit)
	assert.Equal(t, time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC), stored.CreatedAt)
}

func TestCreateTwice(t *testing.T) {
	ctx := context.Background()
	svc, _ := newService(t, "CRANE", "SLATE")

	_, err := svc.Create(ctx, alice, alice)
	require.NoError(t, err)
	_, err = svc.Create(ctx, alice, alice)
	assert.ErrorIs(t, err, game.ErrGameAlreadyExists)

	rec, err := svc.Fetch(ctx, alice)
	require.NoError(t, err)
	assert.Equal(t, "CRANE", rec.State.Solution)
}

func TestCreateForSomeoneElse(t *testing.T) {
	svc, _ := newService(t, "CRANE")

	_, err := svc.Create(context.Background(), bob, alice)
	assert.ErrorIs(t, err, game.ErrUnauthorized)
}

func TestGuessInvalidatesCache(t *testing.T) {
	ctx := context.Background()
	svc, _ := newService(t, "ERASE")
	_, err := svc.Create(ctx, alice, alice)
	require.NoError(t, err)

	// Warm the cache.
	rec, err := svc.Fetch(ctx, alice)
	require.NoError(t, err)
	require.Equal(t, 0, rec.State.Tries)

	st, err := svc.Guess(ctx, alice, alice, "speed")
	require.NoError(t, err)
	assert.Equal(t, 1, st.Tries)
	assert.Equal(t, []game.Mark{
		game.MarkPresent, game.MarkMiss, game.MarkPresent, game.MarkPresent, game.MarkMiss,
	}, st.Marks(0))

	rec, err = svc.Fetch(ctx, alice)
	require.NoError(t, err)
	assert.Equal(t, 1, rec.State.Tries)
	assert.Equal(t, "SPEED", rec.State.Guesses[0])
}

func TestGuessErrors(t *testing.T) {
	ctx := context.Background()
	svc, _ := newService(t, "CRANE")

	_, err := svc.Guess(ctx, alice, alice, "CRANE")
	assert.ErrorIs(t, err, game.ErrNotFound)

	_, err = svc.Create(ctx, alice, alice)
	require.NoError(t, err)

	_, err = svc.Guess(ctx, bob, alice, "CRANE")
	assert.ErrorIs(t, err, game.ErrUnauthorized)

	_, err = svc.Guess(ctx, alice, alice, "CRAN")
	assert.ErrorIs(t, err, game.ErrInvalidGuessLength)

	_, err = svc.Guess(ctx, alice, alice, "CR4NE")
	assert.ErrorIs(t, err, game.ErrInvalidCharacters)

	rec, err := svc.Fetch(ctx, alice)
	require.NoError(t, err)
	assert.Equal(t, 0, rec.State.Tries)
}

func TestGuessUntilExhausted(t *testing.T) {
	ctx := context.Background()
	svc, _ := newService(t, "CRANE")
	_, err := svc.Create(ctx, alice, alice)
	require.NoError(t, err)

	for i := 0; i < game.MaxTries; i++ {
		_, err := svc.Guess(ctx, alice, alice, "PLUSH")
		require.NoError(t, err)
	}
	_, err = svc.Guess(ctx, alice, alice, "CRANE")
	assert.ErrorIs(t, err, game.ErrTriesExhausted)

	rec, err := svc.Fetch(ctx, alice)
	require.NoError(t, err)
	assert.Equal(t, game.StatusExhausted, rec.State.Status())
	assert.False(t, rec.State.IsSolved)
}

func TestRemove(t *testing.T) {
	ctx := context.Background()
	svc, _ := newService(t, "CRANE")
	_, err := svc.Create(ctx, alice, alice)
	require.NoError(t, err)
	_, err = svc.Fetch(ctx, alice)
	require.NoError(t, err)

	_, err = svc.Remove(ctx, bob, alice)
	assert.ErrorIs(t, err, game.ErrUnauthorized)
	rec, err := svc.Fetch(ctx, alice)
	require.NoError(t, err)
	assert.True(t, rec.Present)

	refund, err := svc.Remove(ctx, alice, alice)
	require.NoError(t, err)
	assert.Equal(t, Refund{Payer: alice, Lamports: ledger.RentExemptMinimum(game.AccountSpace)}, refund)

	rec, err = svc.Fetch(ctx, alice)
	require.NoError(t, err)
	assert.False(t, rec.Present)

	_, err = svc.Remove(ctx, alice, alice)
	assert.ErrorIs(t, err, game.ErrNotFound)
}

func TestReset(t *testing.T) {
	ctx := context.Background()
	svc, _ := newService(t, "CRANE", "SLATE")
	_, err := svc.Create(ctx, alice, alice)
	require.NoError(t, err)
	_, err = svc.Guess(ctx, alice, alice, "CRANE")
	require.NoError(t, err)

	_, err = svc.Reset(ctx, bob, alice)
	assert.ErrorIs(t, err, game.ErrUnauthorized)

	st, err := svc.Reset(ctx, alice, alice)
	require.NoError(t, err)
	assert.Equal(t, "SLATE", st.Solution)
	assert.Equal(t, 0, st.Tries)
	assert.False(t, st.IsSolved)

	rec, err := svc.Fetch(ctx, alice)
	require.NoError(t, err)
	assert.Equal(t, *st, rec.State)
}

func TestNewRejectsZeroCache(t *testing.T) {
	_, err := New(memory.New(), &queue{words: []string{"CRANE"}}, nil, 0)
	assert.Error(t, err)
}
