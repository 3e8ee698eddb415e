package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"io/fs"
	"time"

	"github.com/golang-migrate/migrate/v4"
	migratepg "github.com/golang-migrate/migrate/v4/database/postgres"
	"github.com/golang-migrate/migrate/v4/source/iofs"
	_ "github.com/lib/pq"
	"go.uber.org/zap"

	"github.com/srgjo27/ticket_inventory/internal/platform/config"
	"github.com/srgjo27/ticket_inventory/internal/platform/logger"
)

const retryDelay = 2 * time.Second

// NewPostgresDB opens the pool and pings it, retrying while the database is
// still starting up.
func NewPostgresDB(ctx context.Context, cfg config.Postgres, log *zap.Logger) (*sql.DB, error) {
	maxRetries := cfg.ConnectRetries
	if maxRetries < 1 {
		maxRetries = 1
	}

	var err error
	for i := 1; i <= maxRetries; i++ {
		logger.Info(ctx, log, "Connecting to database",
			zap.String("host", cfg.Host),
			zap.Int("attempt", i),
			zap.Int("max_attempts", maxRetries),
		)

		var db *sql.DB
		db, err = sql.Open("postgres", cfg.DSN())
		if err == nil {
			err = db.PingContext(ctx)
		}

		if err == nil {
			db.SetMaxOpenConns(cfg.MaxOpenConns)
			db.SetMaxIdleConns(cfg.MaxIdleConns)
			db.SetConnMaxLifetime(cfg.ConnMaxLifetime)

			logger.Info(ctx, log, "Database connected")
			return db, nil
		}

		if db != nil {
			_ = db.Close()
		}

		logger.Warn(ctx, log, "Database not ready yet", zap.Error(err), zap.Duration("retry_in", retryDelay))

		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-time.After(retryDelay):
		}
	}

	return nil, fmt.Errorf("failed to connect to database after %d attempts: %w", maxRetries, err)
}

// Migrate applies every pending migration found under dir in fsys.
func Migrate(db *sql.DB, fsys fs.FS, dir string) error {
	src, err := iofs.New(fsys, dir)
	if err != nil {
		return fmt.Errorf("failed to open migrations: %w", err)
	}

	driver, err := migratepg.WithInstance(db, &migratepg.Config{})
	if err != nil {
		return fmt.Errorf("failed to create migration driver: %w", err)
	}

	m, err := migrate.NewWithInstance("iofs", src, "postgres", driver)
	if err != nil {
		return fmt.Errorf("failed to create migrator: %w", err)
	}

	if err := m.Up(); err != nil && !errors.Is(err, migrate.ErrNoChange) {
		return fmt.Errorf("failed to apply migrations: %w", err)
	}

	return nil
}
