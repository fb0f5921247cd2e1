package db

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	_ "github.com/jackc/pgx/v5/stdlib"

	apperrors "github.com/yungbote/placesync/internal/pkg/errors"
	"github.com/yungbote/placesync/internal/platform/logger"
)

// DefaultProbeInterval is the fixed sleep between failed readiness probes.
const DefaultProbeInterval = 2 * time.Second

// Prober attempts a single connect-and-close probe against the store.
type Prober func(ctx context.Context) error

// DSNProber probes a Postgres endpoint over the pgx database/sql driver.
func DSNProber(dsn string) Prober {
	return func(ctx context.Context) error {
		conn, err := sql.Open("pgx", dsn)
		if err != nil {
			return err
		}
		defer conn.Close()
		return conn.PingContext(ctx)
	}
}

// WaitForReady probes until the store answers or the retry budget runs out.
// Bounded retry only: fixed interval, no backoff. On exhaustion the returned
// error wraps ErrStoreUnavailable.
func WaitForReady(ctx context.Context, probe Prober, maxAttempts int, interval time.Duration, log *logger.Logger) error {
	for attempt := 1; attempt <= maxAttempts; attempt++ {
		err := probe(ctx)
		if err == nil {
			log.Info("store is ready", "attempt", attempt)
			return nil
		}
		log.Warn("store not ready, waiting",
			"attempt", attempt,
			"max_attempts", maxAttempts,
			"error", err)

		if attempt == maxAttempts {
			break
		}
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(interval):
		}
	}
	return fmt.Errorf("%w after %d attempts", apperrors.ErrStoreUnavailable, maxAttempts)
}
