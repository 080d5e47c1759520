package httpserver

import (
	"errors"
	"net/http"

	"github.com/rs/zerolog/log"

	"github.com/School-of-Solana/program-rishipunna/internal/auth"
	"github.com/School-of-Solana/program-rishipunna/internal/game"
)

// errorBody is the JSON shape of every error response.
type errorBody struct {
	Error   string `json:"error"`
	Message string `json:"message,omitempty"`
}

// classify maps an error to its wire code and HTTP status.
func classify(err error) (string, int) {
	switch {
	case errors.Is(err, game.ErrGameAlreadyExists):
		return "game_already_exists", http.StatusConflict
	case errors.Is(err, game.ErrInvalidGuessLength):
		return "invalid_guess_length", http.StatusBadRequest
	case errors.Is(err, game.ErrInvalidCharacters):
		return "invalid_characters", http.StatusBadRequest
	case errors.Is(err, game.ErrTriesExhausted):
		return "tries_exhausted", http.StatusConflict
	case errors.Is(err, game.ErrUnauthorized):
		return "unauthorized", http.StatusForbidden
	case errors.Is(err, game.ErrNotFound):
		return "not_found", http.StatusNotFound
	case errors.Is(err, auth.ErrInvalidPlayer):
		return "invalid_player", http.StatusBadRequest
	case errors.Is(err, auth.ErrNoChallenge):
		return "no_challenge", http.StatusUnauthorized
	case errors.Is(err, auth.ErrChallengeExpired):
		return "challenge_expired", http.StatusUnauthorized
	case errors.Is(err, auth.ErrBadSignature):
		return "bad_signature", http.StatusUnauthorized
	case errors.Is(err, auth.ErrInvalidToken):
		return "invalid_token", http.StatusUnauthorized
	default:
		return "internal", http.StatusInternalServerError
	}
}

// writeError classifies err and writes it. Internal errors are logged and
// their text is not sent to the client.
func writeError(w http.ResponseWriter, r *http.Request, err error) {
	code, status := classify(err)
	msg := err.Error()
	if status == http.StatusInternalServerError {
		log.Error().Err(err).Str("path", r.URL.Path).Msg("request failed")
		msg = ""
	}
	writeJSON(w, status, errorBody{Error: code, Message: msg})
}
