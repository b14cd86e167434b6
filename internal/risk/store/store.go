package store

import (
	"context"
	"time"

	"github.com/aussiebroadwan/creditrisk/internal/risk/domain"
)

// Store is the root data access interface for the audit database. Concrete
// drivers implement it.
type Store interface {
	LoginAttempts() LoginAttempts

	ApplyMigrations() error

	// Close releases any underlying resources.
	Close() error

	// Ping verifies the database connection is still alive.
	Ping(ctx context.Context) error
}

type LoginAttempts interface {
	// RecordLoginAttempt inserts an attempt (id is provided by the app via ULID).
	RecordLoginAttempt(ctx context.Context, a domain.LoginAttempt) error

	// ListRecentLoginAttempts returns the newest attempts for username first.
	ListRecentLoginAttempts(ctx context.Context, username string, limit int) ([]domain.LoginAttempt, error)

	// CountFailedLoginAttemptsSince counts failures for username at or after since.
	CountFailedLoginAttemptsSince(ctx context.Context, username string, since time.Time) (int64, error)

	// DeleteLoginAttemptsBefore purges attempts older than cutoff and
	// reports how many were removed.
	DeleteLoginAttemptsBefore(ctx context.Context, cutoff time.Time) (int64, error)
}
