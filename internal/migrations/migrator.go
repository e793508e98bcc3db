package migrations

import (
	"fmt"

	"github.com/VladPetriv/flastel/pkg/logger"
	"github.com/jmoiron/sqlx"
	"github.com/lopezator/migrator"
)

const migrationsTable = "flastel_migrations"

// MigrateDB applies pending migrations and returns the resulting schema version.
func MigrateDB(log *logger.Logger, db *sqlx.DB, dbName string, migrations []any) (int, error) {
	logger := log.Named("MigrateDB").With().Str("dbName", dbName).Logger()

	m, err := migrator.New(
		migrator.TableName(migrationsTable),
		migrator.WithLogger(migrator.LoggerFunc(func(msg string, args ...interface{}) {
			logger.Debug().Msgf(msg, args...)
		})),
		migrator.Migrations(migrations...),
	)
	if err != nil {
		return 0, fmt.Errorf("init migrator: %w", err)
	}

	// Pending fails until the migrations table exists, the schema is empty then.
	version := 0
	pending, err := m.Pending(db.DB)
	if err == nil {
		version = len(migrations) - len(pending)
	}

	logger.Info().Int("dbVersion", version).Msg("current database version")

	if version == len(migrations) {
		logger.Info().Msg("no new migrations were found")
		return version, nil
	}

	logger.Info().Int("pending", len(migrations)-version).Msg("running migrations ...")

	err = m.Migrate(db.DB)
	if err != nil {
		return version, fmt.Errorf("run migrations: %w", err)
	}

	logger.Info().Int("updatedDatabaseVersion", len(migrations)).Msg("migrations were successfully completed")

	return len(migrations), nil
}
