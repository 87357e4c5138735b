// Package migrations applies the embedded schema with golang-migrate
package migrations

import (
	"embed"
	"errors"
	"fmt"
	"strings"

	"github.com/golang-migrate/migrate/v4"
	_ "github.com/golang-migrate/migrate/v4/database/pgx/v5"
	"github.com/golang-migrate/migrate/v4/source/iofs"
	"github.com/rs/zerolog"
)

//go:embed sql/*.sql
var sqlFiles embed.FS

// Migrator runs the embedded migrations against one database
type Migrator struct {
	dsn    string
	logger zerolog.Logger
}

// NewMigrator creates a migrator for a postgres:// connection string
func NewMigrator(postgresURL string, logger zerolog.Logger) *Migrator {
	return &Migrator{
		dsn:    DriverURL(postgresURL),
		logger: logger.With().Str("component", "migrations").Logger(),
	}
}

// DriverURL rewrites a postgres:// or postgresql:// URL to the pgx5:// scheme
// the migrate driver registers under
func DriverURL(postgresURL string) string {
	for _, prefix := range []string{"postgresql://", "postgres://"} {
		if strings.HasPrefix(postgresURL, prefix) {
			return "pgx5://" + strings.TrimPrefix(postgresURL, prefix)
		}
	}
	return postgresURL
}

// Up applies every pending migration
func (m *Migrator) Up() error {
	mig, err := m.open()
	if err != nil {
		return err
	}
	defer m.close(mig)

	if err := mig.Up(); err != nil {
		if errors.Is(err, migrate.ErrNoChange) {
			m.logger.Info().Msg("Schema is up to date")
			return nil
		}
		return fmt.Errorf("failed to apply migrations: %w", err)
	}

	version, dirty, err := mig.Version()
	if err != nil {
		return fmt.Errorf("failed to read schema version: %w", err)
	}
	m.logger.Info().Uint("version", version).Bool("dirty", dirty).Msg("Migrations applied")
	return nil
}

func (m *Migrator) open() (*migrate.Migrate, error) {
	source, err := iofs.New(sqlFiles, "sql")
	if err != nil {
		return nil, fmt.Errorf("failed to load embedded migrations: %w", err)
	}

	mig, err := migrate.NewWithSourceInstance("iofs", source, m.dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize migrations: %w", err)
	}
	return mig, nil
}

func (m *Migrator) close(mig *migrate.Migrate) {
	srcErr, dbErr := mig.Close()
	if srcErr != nil || dbErr != nil {
		m.logger.Warn().AnErr("source", srcErr).AnErr("database", dbErr).Msg("Failed to close migrator")
	}
}
