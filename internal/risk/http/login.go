package http

import (
	"errors"
	"net/http"
	"time"

	"github.com/aussiebroadwan/creditrisk/internal/risk/domain"
	"github.com/aussiebroadwan/creditrisk/internal/risk/service"
	"github.com/aussiebroadwan/creditrisk/pkg/httpx"
	"github.com/aussiebroadwan/creditrisk/pkg/jwtx"
	"github.com/aussiebroadwan/creditrisk/pkg/slogx"
)

// SessionCookieName holds the signed session token of the HTML pages.
const SessionCookieName = "creditrisk_session"

const invalidCredentialsMessage = "Invalid username or password"

// LoginHandler serves the login and logout pages.
type LoginHandler struct {
	AuthService  *service.AuthService
	Verifier     jwtx.Verifier
	SecureCookie bool

	pages *pages
}

// HandleGet renders the login page, or sends a signed in user to the form.
func (h *LoginHandler) HandleGet(w http.ResponseWriter, r *http.Request) {
	if raw := httpx.SessionToken(r, SessionCookieName); raw != "" {
		if _, err := h.Verifier.Verify(raw); err == nil {
			http.Redirect(w, r, "/", http.StatusSeeOther)
			return
		}
	}
	h.pages.render(w, r, h.pages.login, http.StatusOK, h.pages.data())
}

// HandlePost checks the submitted credentials and sets the session cookie.
func (h *LoginHandler) HandlePost(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		h.renderError(w, r, http.StatusBadRequest, "", "Invalid form submission")
		return
	}
	username := r.PostForm.Get("username")

	sess, err := h.AuthService.Login(r.Context(), service.LoginRequest{
		Username:   username,
		Password:   r.PostForm.Get("password"),
		RemoteAddr: httpx.IPKeyExtractor(r),
		UserAgent:  r.UserAgent(),
	})
	if errors.Is(err, domain.ErrInvalidCredentials) {
		h.renderError(w, r, http.StatusUnauthorized, username, invalidCredentialsMessage)
		return
	}
	if err != nil {
		slogx.FromContext(r.Context()).Error("failed to issue session", "err", err)
		h.renderError(w, r, http.StatusInternalServerError, username, "Login is unavailable, please try again later")
		return
	}

	http.SetCookie(w, &http.Cookie{
		Name:     SessionCookieName,
		Value:    sess.Token,
		Path:     "/",
		MaxAge:   int(sess.ExpiresIn / time.Second),
		HttpOnly: true,
		Secure:   h.SecureCookie || r.TLS != nil,
		SameSite: http.SameSiteLaxMode,
	})
	http.Redirect(w, r, "/", http.StatusSeeOther)
}

// HandleLogout clears the session cookie. Tokens are stateless, so an
// already issued bearer token stays valid until it expires.
func (h *LoginHandler) HandleLogout(w http.ResponseWriter, r *http.Request) {
	http.SetCookie(w, &http.Cookie{
		Name:     SessionCookieName,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   h.SecureCookie || r.TLS != nil,
		SameSite: http.SameSiteLaxMode,
	})
	http.Redirect(w, r, "/login", http.StatusSeeOther)
}

// RejectTooManyAttempts renders the login page for rate limited submissions.
func (h *LoginHandler) RejectTooManyAttempts(w http.ResponseWriter, r *http.Request, _ time.Duration) {
	h.renderError(w, r, http.StatusTooManyRequests, r.PostFormValue("username"), "Too many login attempts. Please try again later.")
}

func (h *LoginHandler) renderError(w http.ResponseWriter, r *http.Request, code int, username, msg string) {
	data := h.pages.data()
	data.LoginName = username
	data.Error = msg
	h.pages.render(w, r, h.pages.login, code, data)
}

// redirectToLogin is the page session middleware's answer to a missing or
// expired session.
func redirectToLogin(w http.ResponseWriter, r *http.Request) {
	http.Redirect(w, r, "/login", http.StatusSeeOther)
}
