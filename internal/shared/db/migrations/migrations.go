package migrations

import (
	"github.com/golang-migrate/migrate/v4"
	_ "github.com/golang-migrate/migrate/v4/database/postgres"
	_ "github.com/golang-migrate/migrate/v4/source/file"
	"github.com/subastando/auction-api/internal/shared/logger"
	"go.uber.org/zap"
)

var log = logger.GetLogger()

// Run applies all pending SQL migrations against the given database URL.
func Run(dbURL string) error {
	log.Info("Running database migrations")
	m, err := migrate.New(
		"file://internal/shared/db/migrations/sql",
		dbURL,
	)
	if err != nil {
		return err
	}
	if err := m.Up(); err != nil && err != migrate.ErrNoChange {
		return err
	}
	log.Info("Database migrations completed", zap.String("source", "internal/shared/db/migrations/sql"))
	return nil
}
