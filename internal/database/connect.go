package database

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
	"github.com/sirupsen/logrus"

	"uid-intake-bot/internal/config"
)

// Postgres error codes the repositories react to
const (
	codeUndefinedColumn = "42703"
	codeUndefinedTable  = "42P01"
)

// Connect opens the database connection, configures the pool, and verifies connectivity
func Connect(cfg config.DatabaseConfig, logger *logrus.Logger) (*sqlx.DB, error) {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	start := time.Now()
	db, err := sqlx.ConnectContext(ctx, "postgres", cfg.URL)
	if err != nil {
		return nil, fmt.Errorf("db connect: %w", err)
	}

	db.SetMaxOpenConns(cfg.MaxConnections)
	db.SetMaxIdleConns(cfg.MaxConnections / 2)
	db.SetConnMaxLifetime(60 * time.Minute)

	logger.WithFields(logrus.Fields{
		"pool_open": cfg.MaxConnections,
		"duration":  time.Since(start).Round(time.Millisecond),
	}).Info("Database connected")

	return db, nil
}

// pqCode returns the Postgres error code carried by err, if any
func pqCode(err error) (string, *pq.Error) {
	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		return string(pqErr.Code), pqErr
	}
	return "", nil
}
