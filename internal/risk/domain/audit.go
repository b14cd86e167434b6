package domain

import "time"

// LoginAttempt is one audited login, successful or not.
type LoginAttempt struct {
	ID          string
	Username    string
	Success     bool
	RemoteAddr  string
	UserAgent   string
	AttemptedAt time.Time
}
