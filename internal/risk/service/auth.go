package service

import (
	"context"
	"time"

	"github.com/aussiebroadwan/creditrisk/internal/risk/domain"
	"github.com/aussiebroadwan/creditrisk/internal/risk/store"
	"github.com/aussiebroadwan/creditrisk/pkg/idx"
	"github.com/aussiebroadwan/creditrisk/pkg/jwtx"
	"github.com/aussiebroadwan/creditrisk/pkg/slogx"
)

// Authenticator checks a username/password pair.
type Authenticator interface {
	Authenticate(username, password string) bool
}

// LoginRequest carries the credentials and client details of one login.
type LoginRequest struct {
	Username   string
	Password   string
	RemoteAddr string
	UserAgent  string
}

// Session is a signed session token issued after a successful login.
type Session struct {
	Token     string
	Username  string
	ExpiresIn time.Duration
}

// AuthService turns a successful password check into a signed session and
// records every attempt in the audit store.
type AuthService struct {
	Credentials Authenticator
	Signer      jwtx.Signer
	Audit       store.LoginAttempts // optional
	Metrics     *Metrics            // optional

	Issuer   string
	Audience []string
	TTL      time.Duration

	Now func() time.Time
}

func (s *AuthService) now() time.Time {
	if s.Now != nil {
		return s.Now().UTC()
	}
	return time.Now().UTC()
}

// Login returns domain.ErrInvalidCredentials for unknown users and wrong
// passwords alike.
func (s *AuthService) Login(ctx context.Context, req LoginRequest) (Session, error) {
	log := slogx.FromContext(ctx)
	now := s.now()

	ok := s.Credentials.Authenticate(req.Username, req.Password)
	s.audit(ctx, req, ok, now)

	if !ok {
		log.Info("login failed", "username", req.Username)
		return Session{}, domain.ErrInvalidCredentials
	}

	ttl := s.TTL
	if ttl <= 0 {
		ttl = jwtx.DefaultSessionTTL
	}

	token, err := s.Signer.Sign(jwtx.NewSessionClaims(req.Username, idx.NewAt(now).String(), ttl, s.Issuer, s.Audience, now))
	if err != nil {
		return Session{}, err
	}

	log.Info("login succeeded", "username", req.Username)
	return Session{Token: token, Username: req.Username, ExpiresIn: ttl}, nil
}

// audit records the attempt. Failures are logged and never block a login.
func (s *AuthService) audit(ctx context.Context, req LoginRequest, ok bool, at time.Time) {
	if s.Metrics != nil {
		outcome := "failure"
		if ok {
			outcome = "success"
		}
		s.Metrics.LoginAttemptsTotal.WithLabelValues(outcome).Inc()
	}

	if s.Audit == nil {
		return
	}
	err := s.Audit.RecordLoginAttempt(ctx, domain.LoginAttempt{
		ID:          idx.NewAt(at).String(),
		Username:    req.Username,
		Success:     ok,
		RemoteAddr:  req.RemoteAddr,
		UserAgent:   req.UserAgent,
		AttemptedAt: at,
	})
	if err != nil {
		slogx.FromContext(ctx).Error("failed to record login attempt", "err", err)
		return
	}

	if !ok {
		s.warnRepeatedFailures(ctx, req.Username, at)
	}
}

// Repeated failures are only reported; the authenticator has no lockout.
const (
	failureWindow    = 15 * time.Minute
	failureThreshold = 5
)

func (s *AuthService) warnRepeatedFailures(ctx context.Context, username string, at time.Time) {
	n, err := s.Audit.CountFailedLoginAttemptsSince(ctx, username, at.Add(-failureWindow))
	if err != nil {
		slogx.FromContext(ctx).Error("failed to count login failures", "err", err)
		return
	}
	if n >= failureThreshold {
		slogx.FromContext(ctx).Warn("repeated login failures",
			"username", username,
			"failures", n,
			"window", failureWindow,
		)
	}
}
