package handler

import (
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/mpreston/tripdesk/backend/internal/domain"
	"github.com/mpreston/tripdesk/backend/internal/middleware"
)

type credentialsRequest struct {
	Email       string `json:"email"`
	Password    string `json:"password"`
	DisplayName string `json:"display_name"`
}

type sessionJSON struct {
	Token     string    `json:"token"`
	ExpiresAt time.Time `json:"expires_at"`
}

type userJSON struct {
	ID          uuid.UUID `json:"id"`
	Email       string    `json:"email"`
	DisplayName string    `json:"display_name,omitempty"`
}

// signUp handles POST /auth/signup.
func (s *Server) signUp(w http.ResponseWriter, r *http.Request) {
	var req credentialsRequest
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, http.StatusUnprocessableEntity, "validation_error", err.Error())
		return
	}

	user, sess, err := s.auth.SignUp(r.Context(), req.Email, req.Password, req.DisplayName)
	if err != nil {
		respondDomainError(w, s.log, err, "user not found")
		return
	}

	setSessionCookie(w, sess)
	respondJSON(w, http.StatusCreated, struct {
		User    userJSON    `json:"user"`
		Session sessionJSON `json:"session"`
	}{
		User:    userJSON{ID: user.ID, Email: user.Email, DisplayName: user.DisplayName},
		Session: sessionJSON{Token: sess.Token, ExpiresAt: sess.ExpiresAt},
	})
}

// signIn handles POST /auth/signin.
func (s *Server) signIn(w http.ResponseWriter, r *http.Request) {
	var req credentialsRequest
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, http.StatusUnprocessableEntity, "validation_error", err.Error())
		return
	}

	sess, err := s.auth.SignIn(r.Context(), req.Email, req.Password)
	if err != nil {
		respondDomainError(w, s.log, err, "user not found")
		return
	}

	setSessionCookie(w, sess)
	respondJSON(w, http.StatusOK, sessionJSON{Token: sess.Token, ExpiresAt: sess.ExpiresAt})
}

// logout handles POST /auth/logout. Idempotent: succeeds even when no
// session is present.
func (s *Server) logout(w http.ResponseWriter, r *http.Request) {
	if token := middleware.RequestToken(r); token != "" {
		if err := s.auth.Logout(r.Context(), token); err != nil {
			respondDomainError(w, s.log, err, "session not found")
			return
		}
	}
	clearSessionCookie(w)
	w.WriteHeader(http.StatusNoContent)
}

// issueCode handles POST /auth/code: mints a single-use authorization code
// for the authenticated caller, exchangeable once at /auth/callback.
func (s *Server) issueCode(w http.ResponseWriter, r *http.Request) {
	code, err := s.auth.IssueCode(r.Context())
	if err != nil {
		respondDomainError(w, s.log, err, "user not found")
		return
	}

	respondJSON(w, http.StatusCreated, struct {
		Code      string    `json:"code"`
		ExpiresAt time.Time `json:"expires_at"`
	}{Code: code.Code, ExpiresAt: code.ExpiresAt})
}

// authCallback handles GET /auth/callback?code=...&next=...:
// exchanges the authorization code for a session, sets the session cookie,
// and redirects to next (default "/"). On failure it redirects to the
// sign-in page with the reason in an error query parameter.
func (s *Server) authCallback(w http.ResponseWriter, r *http.Request) {
	next := sanitizeNext(r.URL.Query().Get("next"))

	code := r.URL.Query().Get("code")
	if code == "" {
		redirectSignIn(w, r, "missing_code")
		return
	}

	sess, err := s.auth.Exchange(r.Context(), code)
	if err != nil {
		s.log.Warn("auth callback exchange failed", "error", err)
		redirectSignIn(w, r, "invalid_code")
		return
	}

	setSessionCookie(w, sess)
	http.Redirect(w, r, next, http.StatusSeeOther)
}

// sanitizeNext keeps redirect targets on this site: relative paths only.
func sanitizeNext(next string) string {
	if next == "" || !strings.HasPrefix(next, "/") || strings.HasPrefix(next, "//") {
		return "/"
	}
	return next
}

func redirectSignIn(w http.ResponseWriter, r *http.Request, reason string) {
	http.Redirect(w, r, "/signin?error="+url.QueryEscape(reason), http.StatusSeeOther)
}

func setSessionCookie(w http.ResponseWriter, sess domain.Session) {
	http.SetCookie(w, &http.Cookie{
		Name:     middleware.SessionCookie,
		Value:    sess.Token,
		Path:     "/",
		Expires:  sess.ExpiresAt,
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
}

func clearSessionCookie(w http.ResponseWriter) {
	http.SetCookie(w, &http.Cookie{
		Name:     middleware.SessionCookie,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
}
