// internal/httpserver/routes_auth.go
//
// Wallet login routes and session plumbing.
//   - POST /auth/challenge {player}            → message to sign
//   - POST /auth/verify    {player, signature} → session token + cookie
//   - POST /auth/logout                         → clears the cookie
//   - GET  /auth/me                             → the logged-in player

package httpserver

import (
	"context"
	"net/http"
	"strings"
	"time"
)

// ctxPlayerKey is the context key for the authenticated player.
type ctxPlayerKey struct{}

type challengeReq struct {
	Player string `json:"player"`
}

type verifyReq struct {
	Player    string `json:"player"`
	Signature string `json:"signature"`
}

type verifyRes struct {
	Player    string    `json:"player"`
	Token     string    `json:"token"`
	ExpiresAt time.Time `json:"expiresAt"`
}

// mountAuthRoutes registers /auth/*.
func (s *Server) mountAuthRoutes() {
	s.r.Post("/auth/challenge", s.handleChallenge)
	s.r.Post("/auth/verify", s.handleVerify)
	s.r.Post("/auth/logout", s.handleLogout)
	s.r.With(s.requireAuth).Get("/auth/me", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{"player": playerFrom(r.Context())})
	})
}

func (s *Server) handleChallenge(w http.ResponseWriter, r *http.Request) {
	var req challengeReq
	if err := decodeJSON(w, r, &req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorBody{Error: "bad_json"})
		return
	}
	c, err := s.auth.NewChallenge(strings.TrimSpace(req.Player))
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, c)
}

// handleVerify checks the signed challenge, then sets the auth cookie and
// returns the token for non-browser clients.
func (s *Server) handleVerify(w http.ResponseWriter, r *http.Request) {
	var req verifyReq
	if err := decodeJSON(w, r, &req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorBody{Error: "bad_json"})
		return
	}
	player := strings.TrimSpace(req.Player)
	tok, exp, err := s.auth.Verify(player, strings.TrimSpace(req.Signature))
	if err != nil {
		writeError(w, r, err)
		return
	}
	s.setAuthCookie(w, tok, exp)
	writeJSON(w, http.StatusOK, verifyRes{Player: player, Token: tok, ExpiresAt: exp})
}

// handleLogout clears the auth cookie.
func (s *Server) handleLogout(w http.ResponseWriter, r *http.Request) {
	s.clearAuthCookie(w)
	writeJSON(w, http.StatusOK, map[string]bool{"ok": true})
}

// requireAuth enforces a valid token and puts its player into the context.
func (s *Server) requireAuth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		tok := s.bearerOrCookie(r)
		if tok == "" {
			writeJSON(w, http.StatusUnauthorized, errorBody{Error: "auth_required"})
			return
		}
		player, err := s.auth.Parse(tok)
		if err != nil {
			writeError(w, r, err)
			return
		}
		ctx := context.WithValue(r.Context(), ctxPlayerKey{}, player)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// playerFrom returns the authenticated player, or "" outside requireAuth.
func playerFrom(ctx context.Context) string {
	p, _ := ctx.Value(ctxPlayerKey{}).(string)
	return p
}

// ------------------------------ cookies ------------------------------------

func (s *Server) sameSite() http.SameSite {
	if s.opts.CookieSecure {
		return http.SameSiteNoneMode // required for third-party contexts when Secure
	}
	return http.SameSiteLaxMode
}

// setAuthCookie writes the auth token cookie with appropriate security attributes.
func (s *Server) setAuthCookie(w http.ResponseWriter, token string, exp time.Time) {
	http.SetCookie(w, &http.Cookie{
		Name:     s.opts.CookieName,
		Value:    token,
		Path:     "/",
		HttpOnly: true,
		Secure:   s.opts.CookieSecure,
		SameSite: s.sameSite(),
		Expires:  exp,
	})
}

// clearAuthCookie deletes the auth token cookie.
func (s *Server) clearAuthCookie(w http.ResponseWriter) {
	http.SetCookie(w, &http.Cookie{
		Name:     s.opts.CookieName,
		Value:    "",
		Path:     "/",
		HttpOnly: true,
		Secure:   s.opts.CookieSecure,
		SameSite: s.sameSite(),
		MaxAge:   -1,
	})
}

// bearerOrCookie extracts a bearer token from Authorization header or auth cookie.
func (s *Server) bearerOrCookie(r *http.Request) string {
	if a := r.Header.Get("Authorization"); strings.HasPrefix(strings.ToLower(a), "bearer ") {
		return strings.TrimSpace(a[7:])
	}
	if c, err := r.Cookie(s.opts.CookieName); err == nil {
		return c.Value
	}
	return ""
}
