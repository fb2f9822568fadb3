package http

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"kakeibo/internal/core"
)

type contextKey string

const (
	// userContextKey carries the authenticated user through the request.
	userContextKey contextKey = "user"
	// requestIDKey carries the request ID for tracing.
	requestIDKey contextKey = "request_id"
	// SessionCookieName is the name of the session cookie.
	SessionCookieName = "session"
)

// userFromContext retrieves the authenticated user, or nil.
func userFromContext(r *http.Request) *core.User {
	if user, ok := r.Context().Value(userContextKey).(*core.User); ok {
		return user
	}
	return nil
}

// requireAuth resolves the session cookie against the store on every
// request; there is no in-process cache of auth state. Each authorized
// request rolls the session expiry forward, so active users stay
// logged in while idle sessions expire.
func (s *Server) requireAuth(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		cookie, err := r.Cookie(SessionCookieName)
		if err != nil || cookie.Value == "" {
			s.rejectUnauthenticated(w, r)
			return
		}

		user, err := s.sessions.SessionUser(r.Context(), cookie.Value)
		if err != nil {
			s.clearSessionCookie(w)
			s.rejectUnauthenticated(w, r)
			return
		}

		s.maybeRenewSession(w, r, cookie.Value)

		ctx := context.WithValue(r.Context(), userContextKey, &user)
		next(w, r.WithContext(ctx))
	}
}

func (s *Server) maybeRenewSession(w http.ResponseWriter, r *http.Request, token string) {
	// Renewal is best effort; a failed renewal leaves a still-valid
	// session in place.
	expiresAt := time.Now().Add(s.sessionTTL)
	if err := s.sessions.RenewSession(r.Context(), token, expiresAt); err != nil {
		slog.WarnContext(r.Context(), "Failed to renew session", "error", err)
		return
	}
	s.setSessionCookie(w, token)
}

func (s *Server) rejectUnauthenticated(w http.ResponseWriter, r *http.Request) {
	// Fragment requests get a status the client can react to; full page
	// loads bounce to the login form.
	if isHTMX(r) || r.Method == http.MethodPost {
		w.WriteHeader(http.StatusUnauthorized)
		_, _ = w.Write([]byte(`<div class="error">Please log in to continue</div>`))
		return
	}
	http.Redirect(w, r, "/login", http.StatusFound)
}

func (s *Server) setSessionCookie(w http.ResponseWriter, token string) {
	http.SetCookie(w, &http.Cookie{
		Name:     SessionCookieName,
		Value:    token,
		Path:     "/",
		MaxAge:   int(s.sessionTTL.Seconds()),
		HttpOnly: true,
		Secure:   s.secureCookie,
		SameSite: http.SameSiteLaxMode,
	})
}

func (s *Server) clearSessionCookie(w http.ResponseWriter) {
	http.SetCookie(w, &http.Cookie{
		Name:     SessionCookieName,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   s.secureCookie,
		SameSite: http.SameSiteLaxMode,
	})
}
