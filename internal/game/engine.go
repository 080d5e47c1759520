// internal/game/engine.go
//
// Core state machine for a single player's Wordle record.
// Responsibilities:
//   - Create new games with a fixed 6x5 board and an immutable solution.
//   - Normalize and validate guesses (length, then letters).
//   - Score guesses using the classic two-pass Wordle algorithm.
//   - Track tries, the sticky solved flag, and the 6-try ceiling.
//
// Notes:
//   - Everything here is pure and synchronous; persistence, identity and
//     word selection live in other packages.
//   - A rejected guess leaves the State untouched.
package game

import (
	"strings"
	"unicode/utf8"
)

// New constructs a fresh game owned by player.
// The solution must already be 5 uppercase ASCII letters.
func New(player, solution string) (*State, error) {
	if len(solution) != WordLength || !isUpperAlpha(solution) {
		return nil, ErrInvalidSolution
	}
	return &State{
		Player:   player,
		Solution: solution,
	}, nil
}

// NormalizeGuess upper-cases raw and checks its shape.
// Length is counted in characters and checked before the alphabet.
func NormalizeGuess(raw string) (string, error) {
	guess := strings.ToUpper(raw)
	if utf8.RuneCountInString(guess) != WordLength {
		return "", ErrInvalidGuessLength
	}
	if !isUpperAlpha(guess) {
		return "", ErrInvalidCharacters
	}
	return guess, nil
}

// SubmitGuess validates raw and, if accepted, records it in row Tries.
//
// Validation order: length, characters, remaining tries.
// On success the guess row and both match rows are written, Tries is
// incremented, and IsSolved is set when the guess equals the solution.
// Solving does not end the game; only the 6-try ceiling does.
func (g *State) SubmitGuess(raw string) error {
	guess, err := NormalizeGuess(raw)
	if err != nil {
		return err
	}
	if g.Tries >= MaxTries {
		return ErrTriesExhausted
	}

	row := g.Tries
	marks := Evaluate(g.Solution, guess)
	for j, m := range marks {
		switch m {
		case MarkHit:
			g.CorrectCharPos[row][j] = true
		case MarkPresent:
			g.CorrectCharNotPos[row][j] = true
		}
	}
	g.Guesses[row] = guess
	g.Tries++

	if guess == g.Solution {
		g.IsSolved = true
	}
	return nil
}

// Status reports the lifecycle state of the game.
func (g *State) Status() Status {
	switch {
	case g.IsSolved:
		return StatusSolved
	case g.Tries >= MaxTries:
		return StatusExhausted
	default:
		return StatusActive
	}
}

// CanGuess reports whether another guess would be accepted (shape aside).
func (g *State) CanGuess() bool { return g.Tries < MaxTries }

// Marks returns the scored row i as marks, or nil if row i is not filled.
func (g *State) Marks(i int) []Mark {
	if i < 0 || i >= g.Tries {
		return nil
	}
	out := make([]Mark, WordLength)
	for j := range out {
		switch {
		case g.CorrectCharPos[i][j]:
			out[j] = MarkHit
		case g.CorrectCharNotPos[i][j]:
			out[j] = MarkPresent
		default:
			out[j] = MarkMiss
		}
	}
	return out
}

// AuthorizeRemoval returns ErrUnauthorized unless requester owns the game.
func (g *State) AuthorizeRemoval(requester string) error {
	if requester != g.Player {
		return ErrUnauthorized
	}
	return nil
}

// Evaluate implements the standard Wordle two-pass scoring algorithm.
//
// Pass 1:
//   - Mark exact matches as Hit.
//   - Count the solution letters at the positions that did not match.
//
// Pass 2 (left to right):
//   - For each non-hit guess letter: if that letter still has a remaining
//     count, mark Present and decrement; otherwise mark Miss.
//
// Both arguments must be 5 uppercase ASCII letters.
func Evaluate(solution, guess string) [WordLength]Mark {
	var res [WordLength]Mark

	// Letter supply for the non-hit solution positions (A-Z).
	var remaining [26]int

	for i := 0; i < WordLength; i++ {
		if guess[i] == solution[i] {
			res[i] = MarkHit
		} else {
			remaining[idx(solution[i])]++
		}
	}

	for i := 0; i < WordLength; i++ {
		if res[i] == MarkHit {
			continue
		}
		j := idx(guess[i])
		if remaining[j] > 0 {
			res[i] = MarkPresent
			remaining[j]--
		} else {
			res[i] = MarkMiss
		}
	}
	return res
}

// idx maps an uppercase ASCII letter to 0..25.
func idx(c byte) int { return int(c - 'A') }

// isUpperAlpha reports whether s consists only of A-Z.
func isUpperAlpha(s string) bool {
	for i := 0; i < len(s); i++ {
		if s[i] < 'A' || s[i] > 'Z' {
			return false
		}
	}
	return true
}
