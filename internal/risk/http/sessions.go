package http

import (
	"errors"
	"net/http"
	"time"

	"github.com/aussiebroadwan/creditrisk/internal/risk/domain"
	"github.com/aussiebroadwan/creditrisk/internal/risk/service"
	"github.com/aussiebroadwan/creditrisk/pkg/httpx"
	"github.com/aussiebroadwan/creditrisk/pkg/risksdk"
	"github.com/aussiebroadwan/creditrisk/pkg/slogx"
)

// SessionsHandler serves POST /v1/sessions.
type SessionsHandler struct {
	AuthService *service.AuthService
}

// ServeHTTP godoc
//
//	@Summary		Create Session
//	@Description	Exchanges a username and password for a signed session token.
//	@Description	Unknown usernames and wrong passwords produce the same response.
//	@Tags			Sessions
//	@Accept			json
//	@Produce		json
//	@Param			request	body		risksdk.SessionRequest	true	"Credentials"
//	@Success		200		{object}	risksdk.SessionResponse	"access_token, token_type, expires_in"
//	@Failure		400		{object}	httpx.ErrorResponse		"error, error_description"
//	@Failure		401		{object}	httpx.ErrorResponse		"error, error_description"
//	@Failure		429		{object}	httpx.ErrorResponse		"error, error_description"
//	@Header			200		{string}	Cache-Control			"no-store"
//	@Router			/v1/sessions [post].
func (h *SessionsHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	var req risksdk.SessionRequest
	if !decodeJSONBody(w, r, &req) {
		return
	}

	sess, err := h.AuthService.Login(r.Context(), service.LoginRequest{
		Username:   req.Username,
		Password:   req.Password,
		RemoteAddr: httpx.IPKeyExtractor(r),
		UserAgent:  r.UserAgent(),
	})
	if errors.Is(err, domain.ErrInvalidCredentials) {
		risksdk.ErrInvalidCredentials.WriteError(w)
		return
	}
	if err != nil {
		slogx.FromContext(r.Context()).Error("failed to issue session", "err", err)
		risksdk.ErrServer.WriteError(w)
		return
	}

	httpx.WriteJSON(w, http.StatusOK, risksdk.SessionResponse{
		AccessToken: sess.Token,
		TokenType:   "Bearer",
		ExpiresIn:   int(sess.ExpiresIn / time.Second),
	})
}
