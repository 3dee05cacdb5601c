package db

import (
	"context"
	"log/slog"
	"time"

	"github.com/cenkalti/backoff/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// ConnectBackOff is the wait schedule between connection attempts:
// 500ms doubling up to 10s, with 20% jitter.
func ConnectBackOff() backoff.BackOff {
	b := backoff.NewExponentialBackOff()
	b.InitialInterval = 500 * time.Millisecond
	b.Multiplier = 2
	b.MaxInterval = 10 * time.Second
	b.RandomizationFactor = 0.2

	return b
}

// ConnectWithRetry calls NewPool up to attempts times. Postgres often comes up
// after the API in docker-compose.
func ConnectWithRetry(ctx context.Context, dbURL string, maxConns int32, attempts int, log *slog.Logger) (*pgxpool.Pool, error) {
	return connectWithRetry(ctx, attempts, log, ConnectBackOff(), func() (*pgxpool.Pool, error) {
		return NewPool(ctx, dbURL, maxConns)
	})
}

func connectWithRetry(
	ctx context.Context,
	attempts int,
	log *slog.Logger,
	b backoff.BackOff,
	connect backoff.Operation[*pgxpool.Pool],
) (*pgxpool.Pool, error) {
	if attempts < 1 {
		attempts = 1
	}

	tries := 0

	return backoff.Retry(ctx, func() (*pgxpool.Pool, error) {
		tries++
		return connect()
	},
		backoff.WithBackOff(b),
		backoff.WithMaxTries(uint(attempts)),
		backoff.WithMaxElapsedTime(0),
		backoff.WithNotify(func(err error, wait time.Duration) {
			log.WarnContext(ctx, "db not ready, retrying", "attempt", tries, "of", attempts, "wait", wait, "err", err)
		}),
	)
}
