package auth

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/mr-tron/base58"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/School-of-Solana/program-rishipunna/internal/clock"
)

func newTestService(t *testing.T) (*Service, *clock.Fixed) {
	t.Helper()
	clk := &clock.Fixed{T: time.Date(2025, 6, 1, 9, 0, 0, 0, time.UTC)}
	cfg := DefaultConfig()
	cfg.Secret = []byte("test-secret")
	return New(cfg, clk), clk
}

func newKey(t *testing.T) *Keypair {
	t.Helper()
	kp, err := GenerateKeypair()
	require.NoError(t, err)
	return kp
}

func TestLoginRoundTrip(t *testing.T) {
	svc, _ := newTestService(t)
	kp := newKey(t)

	c, err := svc.NewChallenge(kp.Address())
	require.NoError(t, err)
	assert.Contains(t, c.Message, kp.Address())

	token, exp, err := svc.Verify(kp.Address(), kp.Sign(c.Message))
	require.NoError(t, err)
	assert.Equal(t, time.Date(2025, 6, 2, 9, 0, 0, 0, time.UTC), exp.UTC())

	player, err := svc.Parse(token)
	require.NoError(t, err)
	assert.Equal(t, kp.Address(), player)
}

func TestChallengeIsSingleUse(t *testing.T) {
	svc, _ := newTestService(t)
	kp := newKey(t)

	c, err := svc.NewChallenge(kp.Address())
	require.NoError(t, err)
	sig := kp.Sign(c.Message)

	_, _, err = svc.Verify(kp.Address(), sig)
	require.NoError(t, err)
	_, _, err = svc.Verify(kp.Address(), sig)
	assert.ErrorIs(t, err, ErrNoChallenge)
}

func TestVerifyRejectsWrongSigner(t *testing.T) {
	svc, _ := newTestService(t)
	alice, mallory := newKey(t), newKey(t)

	c, err := svc.NewChallenge(alice.Address())
	require.NoError(t, err)

	_, _, err = svc.Verify(alice.Address(), mallory.Sign(c.Message))
	assert.ErrorIs(t, err, ErrBadSignature)

	// The failed attempt consumed the challenge.
	_, _, err = svc.Verify(alice.Address(), alice.Sign(c.Message))
	assert.ErrorIs(t, err, ErrNoChallenge)
}

func TestVerifyRejectsOtherMessage(t *testing.T) {
	svc, _ := newTestService(t)
	kp := newKey(t)

	_, err := svc.NewChallenge(kp.Address())
	require.NoError(t, err)

	_, _, err = svc.Verify(kp.Address(), kp.Sign("something else"))
	assert.ErrorIs(t, err, ErrBadSignature)
}

func TestVerifyRejectsMalformedSignature(t *testing.T) {
	svc, _ := newTestService(t)
	kp := newKey(t)

	_, err := svc.NewChallenge(kp.Address())
	require.NoError(t, err)

	_, _, err = svc.Verify(kp.Address(), base58.Encode([]byte("short")))
	assert.ErrorIs(t, err, ErrBadSignature)
}

func TestChallengeExpires(t *testing.T) {
	svc, clk := newTestService(t)
	kp := newKey(t)

	c, err := svc.NewChallenge(kp.Address())
	require.NoError(t, err)
	clk.Advance(6 * time.Minute)

	_, _, err = svc.Verify(kp.Address(), kp.Sign(c.Message))
	assert.ErrorIs(t, err, ErrChallengeExpired)
}

func TestInvalidPlayer(t *testing.T) {
	svc, _ := newTestService(t)

	_, err := svc.NewChallenge("not-base58-0OIl")
	assert.ErrorIs(t, err, ErrInvalidPlayer)

	_, err = svc.NewChallenge(base58.Encode([]byte("too short")))
	assert.ErrorIs(t, err, ErrInvalidPlayer)
}

func TestParseRejects(t *testing.T) {
	svc, clk := newTestService(t)
	kp := newKey(t)

	token, _, err := svc.Issue(kp.Address())
	require.NoError(t, err)

	other := New(Config{Secret: []byte("other"), TokenTTL: time.Hour}, clk)
	_, err = other.Parse(token)
	assert.ErrorIs(t, err, ErrInvalidToken)

	_, err = svc.Parse("garbage")
	assert.ErrorIs(t, err, ErrInvalidToken)

	clk.Advance(25 * time.Hour)
	_, err = svc.Parse(token)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestKeypairSaveLoad(t *testing.T) {
	kp := newKey(t)
	path := filepath.Join(t.TempDir(), "wordle", "id.json")

	require.NoError(t, kp.Save(path))
	loaded, err := LoadKeypair(path)
	require.NoError(t, err)

	assert.Equal(t, kp.Address(), loaded.Address())
	assert.Equal(t, *kp.Private, *loaded.Private)
}
