package game

import (
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const player = "7xKXtg2CW87d97TXJSDpbD5jBkheTqA83TZRuJosgAsU"

func newGame(t *testing.T, solution string) *State {
	t.Helper()
	g, err := New(player, solution)
	require.NoError(t, err)
	return g
}

// checkInvariants asserts the structural invariants of a record.
func checkInvariants(t *testing.T, g *State) {
	t.Helper()
	require.GreaterOrEqual(t, g.Tries, 0)
	require.LessOrEqual(t, g.Tries, MaxTries)
	for i := 0; i < MaxTries; i++ {
		if i >= g.Tries {
			assert.Empty(t, g.Guesses[i], "row %d", i)
			assert.Equal(t, [WordLength]bool{}, g.CorrectCharPos[i], "row %d", i)
			assert.Equal(t, [WordLength]bool{}, g.CorrectCharNotPos[i], "row %d", i)
			continue
		}
		assert.Len(t, g.Guesses[i], WordLength)
		assert.True(t, isUpperAlpha(g.Guesses[i]), "row %d: %q", i, g.Guesses[i])
		for j := 0; j < WordLength; j++ {
			assert.False(t, g.CorrectCharPos[i][j] && g.CorrectCharNotPos[i][j], "cell %d,%d", i, j)
		}
	}
}

func TestNewStartsActiveAndEmpty(t *testing.T) {
	g := newGame(t, "CRANE")

	assert.Equal(t, player, g.Player)
	assert.Equal(t, "CRANE", g.Solution)
	assert.Equal(t, 0, g.Tries)
	assert.False(t, g.IsSolved)
	assert.Equal(t, StatusActive, g.Status())
	assert.Equal(t, [MaxTries]string{}, g.Guesses)
	checkInvariants(t, g)
}

func TestNewRejectsMalformedSolution(t *testing.T) {
	for _, sol := range []string{"", "CRAN", "CRANES", "crane", "CR4NE"} {
		_, err := New(player, sol)
		assert.ErrorIs(t, err, ErrInvalidSolution, sol)
	}
}

func TestAccountSpace(t *testing.T) {
	assert.Equal(t, 165, AccountSpace)
}

func TestEvaluate(t *testing.T) {
	tests := []struct {
		name     string
		solution string
		guess    string
		want     [WordLength]Mark
	}{
		{
			name: "duplicate guess letters beyond supply", solution: "ALLOY", guess: "LOLLY",
			want: [WordLength]Mark{MarkPresent, MarkPresent, MarkHit, MarkMiss, MarkHit},
		},
		{
			name: "two unmatched copies in solution", solution: "ERASE", guess: "SPEED",
			want: [WordLength]Mark{MarkPresent, MarkMiss, MarkPresent, MarkPresent, MarkMiss},
		},
		{
			name: "hits consume supply first", solution: "TOTAL", guess: "TTTTT",
			want: [WordLength]Mark{MarkHit, MarkMiss, MarkHit, MarkMiss, MarkMiss},
		},
		{
			name: "left to right decrement", solution: "ABBEY", guess: "BXBXB",
			want: [WordLength]Mark{MarkPresent, MarkMiss, MarkHit, MarkMiss, MarkMiss},
		},
		{
			name: "exact", solution: "CRANE", guess: "CRANE",
			want: [WordLength]Mark{MarkHit, MarkHit, MarkHit, MarkHit, MarkHit},
		},
		{
			name: "nothing in common", solution: "CRANE", guess: "PLUSH",
			want: [WordLength]Mark{MarkMiss, MarkMiss, MarkMiss, MarkMiss, MarkMiss},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Evaluate(tt.solution, tt.guess))
		})
	}
}

func TestSubmitGuessDuplicateLetters(t *testing.T) {
	g := newGame(t, "ALLOY")

	require.NoError(t, g.SubmitGuess("LOLLY"))

	assert.Equal(t, [WordLength]bool{false, false, true, false, true}, g.CorrectCharPos[0])
	assert.Equal(t, [WordLength]bool{true, true, false, false, false}, g.CorrectCharNotPos[0])
	checkInvariants(t, g)
}

func TestSubmitGuessExactMatchSolves(t *testing.T) {
	for try := 0; try < MaxTries; try++ {
		g := newGame(t, "CRANE")
		for i := 0; i < try; i++ {
			require.NoError(t, g.SubmitGuess("PLUSH"))
		}

		require.NoError(t, g.SubmitGuess("crane"))

		assert.True(t, g.IsSolved, "try %d", try)
		assert.Equal(t, [WordLength]bool{true, true, true, true, true}, g.CorrectCharPos[try])
		assert.Equal(t, [WordLength]bool{}, g.CorrectCharNotPos[try])
		assert.Equal(t, StatusSolved, g.Status())
		checkInvariants(t, g)
	}
}

func TestSubmitGuessNormalizesCase(t *testing.T) {
	for _, raw := range []string{"world", "WoRlD", "WORLD"} {
		g := newGame(t, "CRANE")
		require.NoError(t, g.SubmitGuess(raw))
		assert.Equal(t, "WORLD", g.Guesses[0])
	}
}

func TestSubmitGuessRejectsBadShapeWithoutMutation(t *testing.T) {
	tests := []struct {
		guess string
		want  error
	}{
		{"", ErrInvalidGuessLength},
		{"A", ErrInvalidGuessLength},
		{"ABC", ErrInvalidGuessLength},
		{"TEST", ErrInvalidGuessLength},
		{"TESTED", ErrInvalidGuessLength},
		{"THISISWAYTOOLONG", ErrInvalidGuessLength},
		{"1234", ErrInvalidGuessLength},
		{"12345", ErrInvalidCharacters},
		{"AB-DE", ErrInvalidCharacters},
		{" CRAN", ErrInvalidCharacters},
		{"ÉCRAN", ErrInvalidCharacters},
	}
	g := newGame(t, "CRANE")
	require.NoError(t, g.SubmitGuess("SLATE"))
	before := *g

	for _, tt := range tests {
		err := g.SubmitGuess(tt.guess)
		assert.ErrorIs(t, err, tt.want, "guess %q", tt.guess)
		assert.Equal(t, before, *g, "guess %q mutated state", tt.guess)
	}
}

func TestExhaustionScenario(t *testing.T) {
	g := newGame(t, "CRANE")
	for _, w := range []string{"WRONG", "GUESS", "TESTS", "TRIES", "NEVER", "FINAL"} {
		require.NoError(t, g.SubmitGuess(w))
		checkInvariants(t, g)
	}
	assert.Equal(t, 6, g.Tries)
	assert.False(t, g.IsSolved)
	assert.Equal(t, StatusExhausted, g.Status())
	assert.False(t, g.CanGuess())

	before := *g
	err := g.SubmitGuess("CRANE")
	assert.ErrorIs(t, err, ErrTriesExhausted)
	assert.Equal(t, before, *g)
	assert.Equal(t, 6, g.Tries)
}

func TestLengthCheckedBeforeExhaustion(t *testing.T) {
	g := newGame(t, "CRANE")
	for i := 0; i < MaxTries; i++ {
		require.NoError(t, g.SubmitGuess("PLUSH"))
	}
	assert.ErrorIs(t, g.SubmitGuess("TOOLONG"), ErrInvalidGuessLength)
	assert.ErrorIs(t, g.SubmitGuess("12345"), ErrInvalidCharacters)
}

func TestWinThenContinue(t *testing.T) {
	g := newGame(t, "CRANE")

	require.NoError(t, g.SubmitGuess("CRANE"))
	assert.Equal(t, 1, g.Tries)
	assert.True(t, g.IsSolved)

	require.NoError(t, g.SubmitGuess("SLATE"))
	assert.Equal(t, 2, g.Tries)
	assert.True(t, g.IsSolved)
	assert.Equal(t, "SLATE", g.Guesses[1])

	for g.CanGuess() {
		require.NoError(t, g.SubmitGuess("PLUSH"))
		assert.True(t, g.IsSolved)
	}
	assert.Equal(t, StatusSolved, g.Status())
	assert.ErrorIs(t, g.SubmitGuess("CRANE"), ErrTriesExhausted)
	checkInvariants(t, g)
}

func TestTriesAreMonotonic(t *testing.T) {
	g := newGame(t, "CRANE")
	inputs := []string{"SLATE", "bad", "12345", "crane", "PLUSH", "", "TRIES", "NEVER", "FINAL", "EXTRA"}
	prev := 0
	for _, in := range inputs {
		err := g.SubmitGuess(in)
		if err == nil {
			assert.Equal(t, prev+1, g.Tries, "input %q", in)
		} else {
			assert.Equal(t, prev, g.Tries, "input %q", in)
		}
		prev = g.Tries
	}
	assert.Equal(t, MaxTries, g.Tries)
}

// TestEvaluateAgainstReference compares Evaluate with a straightforward
// position-claiming scorer over random words drawn from a small alphabet,
// so repeated letters are frequent.
func TestEvaluateAgainstReference(t *testing.T) {
	rng := rand.New(rand.NewSource(1))
	word := func() string {
		b := make([]byte, WordLength)
		for i := range b {
			b[i] = "ABCDE"[rng.Intn(5)]
		}
		return string(b)
	}

	for n := 0; n < 2000; n++ {
		sol, guess := word(), word()
		got := Evaluate(sol, guess)
		assert.Equal(t, referenceScore(sol, guess), got, "solution %s guess %s", sol, guess)

		g := newGame(t, sol)
		require.NoError(t, g.SubmitGuess(guess))
		checkInvariants(t, g)
	}
}

// referenceScore claims solution positions one by one: exact positions
// first, then the first unclaimed matching position for each remaining
// guess letter.
func referenceScore(solution, guess string) [WordLength]Mark {
	var out [WordLength]Mark
	var used [WordLength]bool
	for i := 0; i < WordLength; i++ {
		if guess[i] == solution[i] {
			out[i] = MarkHit
			used[i] = true
		}
	}
	for i := 0; i < WordLength; i++ {
		if out[i] == MarkHit {
			continue
		}
		out[i] = MarkMiss
		for j := 0; j < WordLength; j++ {
			if !used[j] && solution[j] == guess[i] {
				out[i] = MarkPresent
				used[j] = true
				break
			}
		}
	}
	return out
}

func TestMarks(t *testing.T) {
	g := newGame(t, "ALLOY")
	require.NoError(t, g.SubmitGuess("LOLLY"))

	assert.Equal(t, []Mark{MarkPresent, MarkPresent, MarkHit, MarkMiss, MarkHit}, g.Marks(0))
	assert.Nil(t, g.Marks(1))
	assert.Nil(t, g.Marks(-1))
}

func TestKeyboardKeepsBestMark(t *testing.T) {
	g := newGame(t, "CRANE")
	require.NoError(t, g.SubmitGuess("NACRE")) // N,A,C,R present; E hit
	require.NoError(t, g.SubmitGuess("CRONY")) // C,R,N hit; O,Y miss

	kb := g.Keyboard()

	assert.Equal(t, MarkHit, kb["C"])
	assert.Equal(t, MarkHit, kb["R"])
	assert.Equal(t, MarkHit, kb["E"])
	assert.Equal(t, MarkPresent, kb["A"])
	assert.Equal(t, MarkHit, kb["N"])
	assert.Equal(t, MarkMiss, kb["O"])
	assert.Equal(t, MarkMiss, kb["Y"])
	_, seen := kb["Z"]
	assert.False(t, seen)
}

func TestAuthorizeRemoval(t *testing.T) {
	g := newGame(t, "CRANE")

	assert.NoError(t, g.AuthorizeRemoval(player))
	assert.ErrorIs(t, g.AuthorizeRemoval("someone-else"), ErrUnauthorized)
}

func TestRecordVariant(t *testing.T) {
	assert.False(t, Absent().Present)

	g := newGame(t, "CRANE")
	r := Present(*g)
	assert.True(t, r.Present)
	assert.Equal(t, "CRANE", r.State.Solution)
}
