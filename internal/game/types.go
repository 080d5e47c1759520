// internal/game/types.go
//
// Core type definitions for the Wordle game state machine.
// Defines:
//   - Mark: per-letter result of a guess (hit/present/miss).
//   - Status: coarse lifecycle state derived from the record.
//   - State: the per-player game record.
//   - Record: a tagged Absent | Present(State) variant for the read path.

package game

const (
	// MaxTries is the number of guess rows on the board.
	MaxTries = 6
	// WordLength is the number of letters in a solution and in every guess.
	WordLength = 5
	// AccountSpace is the serialized size in bytes of a stored game record,
	// including the 8-byte discriminator. Storage deposits are sized from it.
	AccountSpace = 8 + 32 + (4 + WordLength) + 1 + 1 +
		MaxTries*WordLength + MaxTries*WordLength + MaxTries*(4+WordLength)
)

// Mark represents the evaluation result for a single letter in a guess.
//   - "hit":     letter is correct and in the correct position.
//   - "present": letter exists in the solution but in a different position.
//   - "miss":    letter is not in the solution (or all its copies are used up).
type Mark string

const (
	MarkHit     Mark = "hit"
	MarkPresent Mark = "present"
	MarkMiss    Mark = "miss"
)

// Status is the lifecycle state of a game.
type Status string

const (
	StatusActive    Status = "active"
	StatusSolved    Status = "solved"
	StatusExhausted Status = "exhausted"
)

// State holds a single player's game.
//
// Slot i of Guesses and row i of both matrices are filled exactly when
// Tries > i. State is a plain value; assigning it copies the whole board.
type State struct {
	Player            string                     `json:"player"`
	Solution          string                     `json:"solution"`
	Tries             int                        `json:"tries"`
	IsSolved          bool                       `json:"isSolved"`
	Guesses           [MaxTries]string           `json:"guesses"`
	CorrectCharPos    [MaxTries][WordLength]bool `json:"correctCharPos"`
	CorrectCharNotPos [MaxTries][WordLength]bool `json:"correctCharNotPos"`
}

// Record is the result of looking a player's game up: either absent, or
// present with its state.
type Record struct {
	Present bool
	State   State
}

// Absent returns the empty variant.
func Absent() Record { return Record{} }

// Present wraps s in the present variant.
func Present(s State) Record { return Record{Present: true, State: s} }
