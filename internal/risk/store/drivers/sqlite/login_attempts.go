package sqlite

import (
	"context"
	"time"

	"github.com/aussiebroadwan/creditrisk/internal/risk/domain"
	"github.com/aussiebroadwan/creditrisk/internal/risk/store/drivers/sqlite/gen"
)

type loginAttemptsRepo struct {
	q *gen.Queries
}

func (r *loginAttemptsRepo) RecordLoginAttempt(ctx context.Context, a domain.LoginAttempt) error {
	return r.q.RecordLoginAttempt(ctx, gen.RecordLoginAttemptParams{
		ID:          a.ID,
		Username:    a.Username,
		Success:     a.Success,
		RemoteAddr:  a.RemoteAddr,
		UserAgent:   a.UserAgent,
		AttemptedAt: toMillis(a.AttemptedAt),
	})
}

func (r *loginAttemptsRepo) ListRecentLoginAttempts(
	ctx context.Context,
	username string,
	limit int,
) ([]domain.LoginAttempt, error) {
	rows, err := r.q.ListRecentLoginAttempts(ctx, gen.ListRecentLoginAttemptsParams{
		Username: username,
		Limit:    int64(limit),
	})
	if err != nil {
		return nil, err
	}

	out := make([]domain.LoginAttempt, 0, len(rows))
	for _, row := range rows {
		out = append(out, mapLoginAttempt(row))
	}
	return out, nil
}

func (r *loginAttemptsRepo) CountFailedLoginAttemptsSince(
	ctx context.Context,
	username string,
	since time.Time,
) (int64, error) {
	return r.q.CountFailedLoginAttemptsSince(ctx, gen.CountFailedLoginAttemptsSinceParams{
		Username:    username,
		AttemptedAt: toMillis(since),
	})
}

func (r *loginAttemptsRepo) DeleteLoginAttemptsBefore(ctx context.Context, cutoff time.Time) (int64, error) {
	return r.q.DeleteLoginAttemptsBefore(ctx, toMillis(cutoff))
}

func mapLoginAttempt(row gen.LoginAttempt) domain.LoginAttempt {
	return domain.LoginAttempt{
		ID:          row.ID,
		Username:    row.Username,
		Success:     row.Success,
		RemoteAddr:  row.RemoteAddr,
		UserAgent:   row.UserAgent,
		AttemptedAt: fromMillis(row.AttemptedAt),
	}
}
