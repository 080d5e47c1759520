// internal/httpserver/routes_games.go
//
// Game routes, keyed by player address.
//   - GET    /games/{player}          → {present:false} or {present:true, game}
//   - POST   /games/{player}          → create (owner only)
//   - POST   /games/{player}/guesses  → submit {guess} (owner only)
//   - POST   /games/{player}/reset    → remove then create (owner only)
//   - DELETE /games/{player}          → remove, returns the deposit refund
//
// The solution is withheld while a game is still active.

package httpserver

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/School-of-Solana/program-rishipunna/internal/game"
	"github.com/School-of-Solana/program-rishipunna/internal/service"
)

// gameView is the wire form of a game.
type gameView struct {
	Player            string                               `json:"player"`
	Solution          string                               `json:"solution,omitempty"`
	Status            game.Status                          `json:"status"`
	Tries             int                                  `json:"tries"`
	IsSolved          bool                                 `json:"isSolved"`
	Guesses           [game.MaxTries]string                `json:"guesses"`
	CorrectCharPos    [game.MaxTries][game.WordLength]bool `json:"correctCharPos"`
	CorrectCharNotPos [game.MaxTries][game.WordLength]bool `json:"correctCharNotPos"`
	Rows              [][]game.Mark                        `json:"rows"`
	Keyboard          map[string]game.Mark                 `json:"keyboard"`
}

type gameRes struct {
	Present bool      `json:"present"`
	Game    *gameView `json:"game,omitempty"`
}

type guessReq struct {
	Guess string `json:"guess"`
}

type removeRes struct {
	Refund service.Refund `json:"refund"`
}

func viewOf(st *game.State) *gameView {
	v := &gameView{
		Player:            st.Player,
		Status:            st.Status(),
		Tries:             st.Tries,
		IsSolved:          st.IsSolved,
		Guesses:           st.Guesses,
		CorrectCharPos:    st.CorrectCharPos,
		CorrectCharNotPos: st.CorrectCharNotPos,
		Rows:              make([][]game.Mark, 0, st.Tries),
		Keyboard:          st.Keyboard(),
	}
	if v.Status != game.StatusActive {
		v.Solution = st.Solution
	}
	for i := 0; i < st.Tries; i++ {
		v.Rows = append(v.Rows, st.Marks(i))
	}
	return v
}

// mountGameRoutes registers /games/*.
func (s *Server) mountGameRoutes() {
	s.r.Route("/games/{player}", func(r chi.Router) {
		r.Get("/", s.handleGetGame)
		r.With(s.requireAuth).Post("/", s.handleCreateGame)
		r.With(s.requireAuth).Delete("/", s.handleRemoveGame)
		r.With(s.requireAuth).Post("/guesses", s.handleGuess)
		r.With(s.requireAuth).Post("/reset", s.handleReset)
	})
}

func (s *Server) handleGetGame(w http.ResponseWriter, r *http.Request) {
	rec, err := s.games.Fetch(r.Context(), chi.URLParam(r, "player"))
	if err != nil {
		writeError(w, r, err)
		return
	}
	if !rec.Present {
		writeJSON(w, http.StatusOK, gameRes{Present: false})
		return
	}
	writeJSON(w, http.StatusOK, gameRes{Present: true, Game: viewOf(&rec.State)})
}

func (s *Server) handleCreateGame(w http.ResponseWriter, r *http.Request) {
	st, err := s.games.Create(r.Context(), playerFrom(r.Context()), chi.URLParam(r, "player"))
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, gameRes{Present: true, Game: viewOf(st)})
}

func (s *Server) handleGuess(w http.ResponseWriter, r *http.Request) {
	var req guessReq
	if err := decodeJSON(w, r, &req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorBody{Error: "bad_json"})
		return
	}
	st, err := s.games.Guess(r.Context(), playerFrom(r.Context()), chi.URLParam(r, "player"), req.Guess)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, gameRes{Present: true, Game: viewOf(st)})
}

func (s *Server) handleReset(w http.ResponseWriter, r *http.Request) {
	st, err := s.games.Reset(r.Context(), playerFrom(r.Context()), chi.URLParam(r, "player"))
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, gameRes{Present: true, Game: viewOf(st)})
}

func (s *Server) handleRemoveGame(w http.ResponseWriter, r *http.Request) {
	refund, err := s.games.Remove(r.Context(), playerFrom(r.Context()), chi.URLParam(r, "player"))
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, removeRes{Refund: refund})
}
