package http

import (
	"log/slog"
	"net/http"
	"time"

	"kakeibo/internal/auth"
)

// LoginViewModel holds data for the login page.
type LoginViewModel struct {
	Error string
}

func (s *Server) handleLoginForm(w http.ResponseWriter, r *http.Request) {
	// Already logged in? Straight to the app.
	if cookie, err := r.Cookie(SessionCookieName); err == nil && cookie.Value != "" {
		if _, err := s.sessions.SessionUser(r.Context(), cookie.Value); err == nil {
			http.Redirect(w, r, "/", http.StatusFound)
			return
		}
	}
	s.renderLogin(w, r, LoginViewModel{})
}

func (s *Server) handleLogin(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		s.renderLogin(w, r, LoginViewModel{Error: "Invalid form submission"})
		return
	}

	username := sanitizeInput(r.FormValue("username"))
	password := r.FormValue("password")

	if username == "" || password == "" {
		s.renderLogin(w, r, LoginViewModel{Error: "Username and password are required"})
		return
	}

	user, err := s.users.UserByName(r.Context(), username)
	if err != nil || !auth.CheckPassword(password, user.PasswordHash) {
		// Same message for unknown user and wrong password.
		s.renderLogin(w, r, LoginViewModel{Error: "Invalid username or password"})
		return
	}

	token, err := auth.GenerateSessionToken()
	if err != nil {
		slog.ErrorContext(r.Context(), "Failed to generate session token", "error", err)
		s.renderLogin(w, r, LoginViewModel{Error: "An error occurred. Please try again."})
		return
	}

	expiresAt := time.Now().Add(s.sessionTTL)
	if err := s.sessions.CreateSession(r.Context(), token, user.ID, expiresAt); err != nil {
		slog.ErrorContext(r.Context(), "Failed to create session", "error", err, "user_id", user.ID)
		s.renderLogin(w, r, LoginViewModel{Error: "An error occurred. Please try again."})
		return
	}

	s.setSessionCookie(w, token)
	slog.InfoContext(r.Context(), "User logged in", "user_id", user.ID)
	http.Redirect(w, r, "/", http.StatusFound)
}

func (s *Server) handleLogout(w http.ResponseWriter, r *http.Request) {
	if cookie, err := r.Cookie(SessionCookieName); err == nil && cookie.Value != "" {
		if err := s.sessions.DeleteSession(r.Context(), cookie.Value); err != nil {
			slog.WarnContext(r.Context(), "Failed to delete session", "error", err)
		}
	}
	s.clearSessionCookie(w)
	http.Redirect(w, r, "/login", http.StatusFound)
}

func (s *Server) renderLogin(w http.ResponseWriter, r *http.Request, vm LoginViewModel) {
	if s.templates == nil {
		http.Error(w, "templates not loaded", http.StatusInternalServerError)
		return
	}
	if vm.Error != "" {
		w.WriteHeader(http.StatusUnprocessableEntity)
	}
	if err := s.templates.ExecuteTemplate(w, "login.html", vm); err != nil {
		slog.ErrorContext(r.Context(), "Login template execution failed", "error", err)
	}
}
