package words

import (
	"crypto/rand"
	"crypto/sha256"
	"encoding/binary"
	"fmt"
	"math/big"
	"time"
)

// Source supplies the solution for a new game: 5 uppercase letters.
type Source interface {
	Pick() (string, error)
}

// Source kinds accepted by NewSource.
const (
	KindSlot   = "slot"
	KindRandom = "random"
	KindDaily  = "daily"
)

// SlotDuration is the length of one ledger slot.
const SlotDuration = 400 * time.Millisecond

// NewSource builds the Source named by kind over list.
func NewSource(kind string, list *List, salt string) (Source, error) {
	switch kind {
	case KindSlot, "":
		return &SlotSource{List: list}, nil
	case KindRandom:
		return &RandomSource{List: list}, nil
	case KindDaily:
		return &DailySource{List: list, Salt: salt}, nil
	default:
		return nil, fmt.Errorf("words: unknown source %q", kind)
	}
}

// SlotAt returns the ledger slot number containing t.
func SlotAt(t time.Time) uint64 {
	return uint64(t.UnixMilli() / SlotDuration.Milliseconds())
}

// SlotIndex hashes the little-endian slot number with SHA-256 and reduces
// the first 8 bytes (little-endian) modulo n.
func SlotIndex(slot uint64, n int) int {
	if n <= 0 {
		return 0
	}
	var b [8]byte
	binary.LittleEndian.PutUint64(b[:], slot)
	sum := sha256.Sum256(b[:])
	v := binary.LittleEndian.Uint64(sum[:8])
	return int(v % uint64(n))
}

// SlotSource picks a word from the current slot, so games created in the
// same slot share a solution.
type SlotSource struct {
	List *List
	Now  func() time.Time
}

// Pick returns the word for the current slot.
func (s *SlotSource) Pick() (string, error) {
	return s.List.At(SlotIndex(SlotAt(now(s.Now)), s.List.Len())), nil
}

// RandomSource returns a cryptographically random word.
type RandomSource struct {
	List *List
}

// Pick returns a uniformly random word.
func (s *RandomSource) Pick() (string, error) {
	n, err := rand.Int(rand.Reader, big.NewInt(int64(s.List.Len())))
	if err != nil {
		return "", fmt.Errorf("words: random pick: %w", err)
	}
	return s.List.At(int(n.Int64())), nil
}

func now(f func() time.Time) time.Time {
	if f == nil {
		return time.Now()
	}
	return f()
}
