// internal/words/words.go
//
// Provides the solution pool used when a game is created.
//
// Responsibilities:
//   - Load the pool from a configured file or fall back to the embedded list.
//   - Normalize entries to 5 uppercase A-Z letters, dropping anything else.
//   - Answer membership and size queries.
//
// Initialization behavior (Load):
//   1. If path is non-empty, read one word per line from that file.
//   2. Otherwise use assets/answers.txt (embedded).
//
// Constraints:
//   • Words must be 5 alphabetic letters (A–Z) after upper-casing.
//   • Duplicates are kept once, in first-seen order.

package words

import (
	"bufio"
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/School-of-Solana/program-rishipunna/assets"
	"github.com/School-of-Solana/program-rishipunna/internal/game"
)

// ErrEmptyList is returned when no usable word survives normalization.
var ErrEmptyList = errors.New("words: answers list is empty")

// List is an immutable, ordered set of candidate solutions.
type List struct {
	words []string
	set   map[string]struct{}
}

// Load reads the list from path, or from the embedded defaults when path is "".
func Load(path string) (*List, error) {
	var raw []string
	var err error
	if path != "" {
		raw, err = readWordFile(path)
		if err != nil {
			return nil, fmt.Errorf("read %s: %w", path, err)
		}
	} else {
		raw, err = assets.AnswersList()
		if err != nil {
			return nil, fmt.Errorf("read embedded answers: %w", err)
		}
	}
	return NewList(raw)
}

// NewList builds a List from raw words, normalizing and de-duplicating them.
func NewList(raw []string) (*List, error) {
	l := &List{set: make(map[string]struct{}, len(raw))}
	for _, w := range raw {
		w = normalize(w)
		if w == "" {
			continue
		}
		if _, dup := l.set[w]; dup {
			continue
		}
		l.set[w] = struct{}{}
		l.words = append(l.words, w)
	}
	if len(l.words) == 0 {
		return nil, ErrEmptyList
	}
	return l, nil
}

// readWordFile loads one word per line from a file.
func readWordFile(path string) ([]string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	var out []string
	sc := bufio.NewScanner(f)
	for sc.Scan() {
		line := strings.TrimSpace(sc.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		out = append(out, line)
	}
	return out, sc.Err()
}

// normalize upper-cases w and returns "" if it is not 5 letters A-Z.
func normalize(w string) string {
	w = strings.ToUpper(strings.TrimSpace(w))
	if len(w) != game.WordLength || !isAlpha(w) {
		return ""
	}
	return w
}

// isAlpha reports whether s is all uppercase ASCII letters.
func isAlpha(s string) bool {
	for _, r := range s {
		if r < 'A' || r > 'Z' {
			return false
		}
	}
	return true
}

// Len returns the number of words.
func (l *List) Len() int { return len(l.words) }

// At returns the i-th word.
func (l *List) At(i int) string { return l.words[i] }

// Contains reports whether w (any case) is in the list.
func (l *List) Contains(w string) bool {
	_, ok := l.set[strings.ToUpper(w)]
	return ok
}
