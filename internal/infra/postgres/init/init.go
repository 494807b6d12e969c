package infra_pg_init

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/humanbelnik/columns/core/internal/config"
	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"
)

func DSN(cfg config.Postgres) string {
	return fmt.Sprintf("host=%s port=%s user=%s password=%s dbname=%s sslmode=%s",
		cfg.Host,
		cfg.Port,
		cfg.User,
		cfg.Password,
		cfg.DBName,
		cfg.SSLMode,
	)
}

// Open prepares the pool without touching the network; use WaitReady to
// find out when the database answers.
func Open(cfg config.Postgres) (*sqlx.DB, error) {
	return sqlx.Open("postgres", DSN(cfg))
}

// WaitReady pings db every retryDelay until it answers or ctx is done.
func WaitReady(ctx context.Context, db *sqlx.DB, retryDelay time.Duration, logger *slog.Logger) error {
	for attempt := 1; ; attempt++ {
		err := db.PingContext(ctx)
		if err == nil {
			logger.Info("database reachable", "attempt", attempt)
			return nil
		}
		logger.Warn("database unreachable, retrying",
			"attempt", attempt,
			"retry_in", retryDelay,
			"error", err)

		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(retryDelay):
		}
	}
}
