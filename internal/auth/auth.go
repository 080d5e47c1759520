// internal/auth/auth.go
//
// Wallet-based identity for players.
// Responsibilities:
//   - Issue single-use login challenges for a player address.
//   - Verify an ed25519 signature over the challenge with the player's key.
//   - Mint and parse HS256 session tokens whose subject is the player.
//
// Notes:
//   - A player handle is a base58-encoded 32-byte ed25519 public key.
//   - A challenge is consumed by the first Verify attempt, pass or fail.

package auth

import (
	"crypto/rand"
	"encoding/hex"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/mr-tron/base58"
	"golang.org/x/crypto/nacl/sign"

	"github.com/School-of-Solana/program-rishipunna/internal/clock"
)

var (
	ErrInvalidPlayer    = errors.New("invalid player address")
	ErrNoChallenge      = errors.New("no pending challenge")
	ErrChallengeExpired = errors.New("challenge expired")
	ErrBadSignature     = errors.New("signature does not verify")
	ErrInvalidToken     = errors.New("invalid token")
)

const issuer = "wordle"

// Config controls token and challenge lifetimes.
type Config struct {
	Secret       []byte
	TokenTTL     time.Duration
	ChallengeTTL time.Duration
}

// DefaultConfig returns development defaults.
func DefaultConfig() Config {
	return Config{
		Secret:       []byte("dev_secret_change_me"),
		TokenTTL:     24 * time.Hour,
		ChallengeTTL: 5 * time.Minute,
	}
}

// Challenge is a message the player must sign to log in.
type Challenge struct {
	Player    string    `json:"player"`
	Message   string    `json:"message"`
	ExpiresAt time.Time `json:"expiresAt"`
}

// Service issues challenges and tokens.
type Service struct {
	cfg   Config
	clock clock.Clock

	mu      sync.Mutex
	pending map[string]Challenge // keyed by player
}

// New builds a Service. A nil clock uses the system clock.
func New(cfg Config, clk clock.Clock) *Service {
	if clk == nil {
		clk = clock.New()
	}
	return &Service{cfg: cfg, clock: clk, pending: make(map[string]Challenge)}
}

// DecodePlayer parses a base58 player address into its public key.
func DecodePlayer(player string) (*[32]byte, error) {
	raw, err := base58.Decode(player)
	if err != nil || len(raw) != 32 {
		return nil, ErrInvalidPlayer
	}
	var pub [32]byte
	copy(pub[:], raw)
	return &pub, nil
}

// NewChallenge replaces any pending challenge for player with a fresh one.
func (s *Service) NewChallenge(player string) (Challenge, error) {
	if _, err := DecodePlayer(player); err != nil {
		return Challenge{}, err
	}
	var nonce [16]byte
	if _, err := rand.Read(nonce[:]); err != nil {
		return Challenge{}, fmt.Errorf("auth: nonce: %w", err)
	}
	now := s.clock.Now().UTC()
	c := Challenge{
		Player:    player,
		ExpiresAt: now.Add(s.cfg.ChallengeTTL),
	}
	c.Message = fmt.Sprintf("Sign in to Wordle\nplayer: %s\nnonce: %s\nissued: %s",
		player, hex.EncodeToString(nonce[:]), now.Format(time.RFC3339))

	s.mu.Lock()
	defer s.mu.Unlock()
	for p, old := range s.pending {
		if now.After(old.ExpiresAt) {
			delete(s.pending, p)
		}
	}
	s.pending[player] = c
	return c, nil
}

// Verify checks a base58 detached signature over player's pending challenge
// and returns a session token on success.
func (s *Service) Verify(player, signature string) (string, time.Time, error) {
	pub, err := DecodePlayer(player)
	if err != nil {
		return "", time.Time{}, err
	}

	s.mu.Lock()
	c, ok := s.pending[player]
	delete(s.pending, player)
	s.mu.Unlock()

	if !ok {
		return "", time.Time{}, ErrNoChallenge
	}
	if s.clock.Now().After(c.ExpiresAt) {
		return "", time.Time{}, ErrChallengeExpired
	}

	sig, err := base58.Decode(signature)
	if err != nil || len(sig) != sign.Overhead {
		return "", time.Time{}, ErrBadSignature
	}
	signed := append(sig, c.Message...)
	msg, ok := sign.Open(nil, signed, pub)
	if !ok || string(msg) != c.Message {
		return "", time.Time{}, ErrBadSignature
	}
	return s.Issue(player)
}

// Issue mints a session token for player.
func (s *Service) Issue(player string) (string, time.Time, error) {
	now := s.clock.Now()
	exp := now.Add(s.cfg.TokenTTL)
	t := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.RegisteredClaims{
		Issuer:    issuer,
		Subject:   player,
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(exp),
	})
	ss, err := t.SignedString(s.cfg.Secret)
	return ss, exp, err
}

// Parse validates token and returns the player it was issued to.
func (s *Service) Parse(token string) (string, error) {
	claims := &jwt.RegisteredClaims{}
	t, err := jwt.ParseWithClaims(token, claims,
		func(*jwt.Token) (any, error) { return s.cfg.Secret, nil },
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithIssuer(issuer),
		jwt.WithTimeFunc(s.clock.Now),
	)
	if err != nil || !t.Valid || claims.Subject == "" {
		return "", ErrInvalidToken
	}
	return claims.Subject, nil
}

// Sign returns the base58 detached signature of message under priv.
func Sign(priv *[64]byte, message string) string {
	signed := sign.Sign(nil, []byte(message), priv)
	return base58.Encode(signed[:sign.Overhead])
}
