package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"
)

// Output handles formatting output based on the configured format
type Output struct {
	format string
	w      io.Writer
}

// NewOutput creates a new Output formatter writing to w
func NewOutput(format string, w io.Writer) *Output {
	return &Output{format: format, w: w}
}

// Print outputs data in the configured format
func (o *Output) Print(data any) {
	if o.format == "json" {
		o.printJSON(data)
	} else {
		o.printText(data)
	}
}

// PrintMessage outputs a simple message
func (o *Output) PrintMessage(msg string) {
	if o.format == "json" {
		o.printJSON(map[string]string{"message": msg})
	} else {
		fmt.Fprintln(o.w, msg)
	}
}

func (o *Output) printJSON(data any) {
	enc := json.NewEncoder(o.w)
	enc.SetIndent("", "  ")
	_ = enc.Encode(data)
}

func (o *Output) printText(data any) {
	switch v := data.(type) {
	case GameResult:
		o.printGame(v)
	case RemoveResult:
		o.printRemove(v)
	case LoginResult:
		fmt.Fprintf(o.w, "Logged in as %s (token expires %s)\n", v.Player, v.ExpiresAt.Format(time.RFC3339))
	case KeyResult:
		fmt.Fprintf(o.w, "Address: %s\nKeypair: %s\n", v.Address, v.Path)
	case HealthResult:
		status := "ok"
		if !v.OK {
			status = "unhealthy"
		}
		fmt.Fprintf(o.w, "Status: %s\n", status)
	default:
		// Fallback to JSON for unknown types
		o.printJSON(data)
	}
}

// Game response type (matches API)
type Game struct {
	Player   string            `json:"player"`
	Solution string            `json:"solution,omitempty"`
	Status   string            `json:"status"`
	Tries    int               `json:"tries"`
	IsSolved bool              `json:"isSolved"`
	Guesses  []string          `json:"guesses"`
	Rows     [][]string        `json:"rows"`
	Keyboard map[string]string `json:"keyboard"`
}

// GameResult is the response of every game endpoint
type GameResult struct {
	Present bool  `json:"present"`
	Game    *Game `json:"game,omitempty"`
}

// Refund is the deposit returned on removal
type Refund struct {
	Payer    string `json:"payer"`
	Lamports uint64 `json:"lamports"`
}

// RemoveResult is the response of DELETE /games/{player}
type RemoveResult struct {
	Refund Refund `json:"refund"`
}

// LoginResult is the response of /auth/verify
type LoginResult struct {
	Player    string    `json:"player"`
	Token     string    `json:"token"`
	ExpiresAt time.Time `json:"expiresAt"`
}

// KeyResult describes a generated keypair
type KeyResult struct {
	Address string `json:"address"`
	Path    string `json:"path"`
}

// HealthResult is the response of /health
type HealthResult struct {
	OK bool `json:"ok"`
}

const (
	maxTries   = 6
	wordLength = 5
)

var keyboardRows = []string{"QWERTYUIOP", "ASDFGHJKL", "ZXCVBNM"}

// tile renders one letter: [A] in place, (A) elsewhere in the word, " A " absent.
func tile(letter byte, mark string) string {
	switch mark {
	case "hit":
		return "[" + string(letter) + "]"
	case "present":
		return "(" + string(letter) + ")"
	default:
		return " " + string(letter) + " "
	}
}

// key renders a keyboard letter; eliminated letters are dotted out.
func key(letter byte, mark string) string {
	if mark == "miss" {
		return " . "
	}
	return tile(letter, mark)
}

// RenderBoard writes the guess grid, keyboard hints and status for g.
func RenderBoard(w io.Writer, g *Game) {
	for i := 0; i < maxTries; i++ {
		cells := make([]string, wordLength)
		if i < len(g.Rows) && i < len(g.Guesses) && len(g.Guesses[i]) == wordLength {
			for j := 0; j < wordLength; j++ {
				mark := ""
				if j < len(g.Rows[i]) {
					mark = g.Rows[i][j]
				}
				cells[j] = tile(g.Guesses[i][j], mark)
			}
		} else {
			for j := range cells {
				cells[j] = " _ "
			}
		}
		fmt.Fprintln(w, strings.Join(cells, " "))
	}
	fmt.Fprintln(w)

	for _, row := range keyboardRows {
		keys := make([]string, len(row))
		for j := 0; j < len(row); j++ {
			keys[j] = key(row[j], g.Keyboard[string(row[j])])
		}
		fmt.Fprintln(w, strings.Join(keys, ""))
	}
	fmt.Fprintln(w)

	switch g.Status {
	case "solved":
		fmt.Fprintf(w, "Solved! The word was %s. (%d/%d tries used)\n", g.Solution, g.Tries, maxTries)
	case "exhausted":
		fmt.Fprintf(w, "Out of tries. The word was %s.\n", g.Solution)
	default:
		fmt.Fprintf(w, "%d/%d tries used.\n", g.Tries, maxTries)
	}
}

func (o *Output) printGame(r GameResult) {
	if !r.Present || r.Game == nil {
		fmt.Fprintln(o.w, "No game. Start one with `wordlectl new`.")
		return
	}
	RenderBoard(o.w, r.Game)
}

func (o *Output) printRemove(r RemoveResult) {
	fmt.Fprintf(o.w, "Game closed. Refunded %d lamports (%s SOL) to %s\n",
		r.Refund.Lamports, formatSOL(r.Refund.Lamports), r.Refund.Payer)
}

// formatSOL renders lamports as SOL without trailing zeros.
func formatSOL(lamports uint64) string {
	return strconv.FormatFloat(float64(lamports)/1e9, 'f', -1, 64)
}
