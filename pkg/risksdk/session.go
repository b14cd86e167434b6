package risksdk

import (
	"context"
	"time"
)

// Session is an authenticated view of the API. Session tokens are not
// refreshed; log in again once Expired reports true.
type Session struct {
	client *SDKClient

	accessToken string
	expiresAt   time.Time
}

func newSession(client *SDKClient, resp *SessionResponse) *Session {
	return &Session{
		client:      client,
		accessToken: resp.AccessToken,
		expiresAt:   time.Now().Add(time.Duration(resp.ExpiresIn) * time.Second),
	}
}

// AccessToken returns the bearer token of this session.
func (s *Session) AccessToken() string { return s.accessToken }

// Expired reports whether the token has passed its expiry.
func (s *Session) Expired() bool { return !time.Now().Before(s.expiresAt) }

// Predict requests a verdict for one applicant.
func (s *Session) Predict(ctx context.Context, req PredictionRequest) (*PredictionResponse, error) {
	return s.client.predict(ctx, s.accessToken, req)
}
