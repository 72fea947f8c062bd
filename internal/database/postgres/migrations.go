package postgres

import (
	"context"
	"embed"
	"io/fs"

	"github.com/kunnaall04/Criminal-Face-Identification-System/internal/database"
)

//go:embed migrations/*.sql
var migrationsFS embed.FS

var dialect = database.Dialect{
	Backend: "postgres",
	VersionTable: `CREATE TABLE IF NOT EXISTS schema_migrations (
		version VARCHAR(255) PRIMARY KEY,
		applied_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
	)`,
	RecordVersion: "INSERT INTO schema_migrations (version) VALUES ($1)",
	Transactional: true,
}

func (p *Pool) migrator() *database.Migrator {
	files, _ := fs.Sub(migrationsFS, "migrations") //nolint:errcheck // the directory is embedded
	return database.NewMigrator(p.db, files, dialect)
}

// Migrate creates or upgrades the criminaldata table.
func (p *Pool) Migrate(ctx context.Context) error {
	_, err := p.migrator().Migrate(ctx)
	return err
}

// MigrationsApplied returns the applied schema files in order.
func (p *Pool) MigrationsApplied(ctx context.Context) ([]string, error) {
	return p.migrator().Applied(ctx)
}
