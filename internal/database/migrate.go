package database

import (
	"context"
	"database/sql"
	"fmt"
	"io/fs"
	"sort"
	"strings"

	"github.com/sirupsen/logrus"

	"github.com/kunnaall04/Criminal-Face-Identification-System/internal/event"
)

// Dialect holds the SQL a backend needs to track the record schema.
type Dialect struct {
	// Backend names the driver in log fields and errors.
	Backend string
	// VersionTable creates the schema_migrations table if it is missing.
	VersionTable string
	// RecordVersion inserts one applied file name; it takes a single placeholder.
	RecordVersion string
	// Transactional runs each file and its version row in one transaction.
	// MySQL commits DDL implicitly, so it applies files one statement at a time.
	Transactional bool
}

// Migrator applies the numbered .sql files of a backend's schema directory to
// the criminaldata database, in file name order, recording each one in
// schema_migrations.
type Migrator struct {
	db      *sql.DB
	files   fs.FS
	dialect Dialect
	log     *logrus.Entry
}

// NewMigrator creates a migrator for the .sql files at the root of files.
func NewMigrator(db *sql.DB, files fs.FS, d Dialect) *Migrator {
	return &Migrator{
		db:      db,
		files:   files,
		dialect: d,
		log:     event.Log.WithField("backend", d.Backend),
	}
}

// PendingFiles returns the .sql files of files not in applied, sorted so
// 001_ runs before 002_.
func PendingFiles(files fs.FS, applied map[string]bool) ([]string, error) {
	entries, err := fs.ReadDir(files, ".")
	if err != nil {
		return nil, fmt.Errorf("read schema directory: %w", err)
	}

	var pending []string
	for _, e := range entries {
		if e.IsDir() || !strings.HasSuffix(e.Name(), ".sql") || applied[e.Name()] {
			continue
		}
		pending = append(pending, e.Name())
	}
	sort.Strings(pending)
	return pending, nil
}

// Applied returns the recorded schema versions in order.
func (m *Migrator) Applied(ctx context.Context) ([]string, error) {
	if _, err := m.db.ExecContext(ctx, m.dialect.VersionTable); err != nil {
		return nil, fmt.Errorf("%s: create schema_migrations: %w", m.dialect.Backend, err)
	}

	rows, err := m.db.QueryContext(ctx, "SELECT version FROM schema_migrations ORDER BY version")
	if err != nil {
		return nil, fmt.Errorf("%s: query schema versions: %w", m.dialect.Backend, err)
	}
	defer rows.Close()

	var versions []string
	for rows.Next() {
		var v string
		if err := rows.Scan(&v); err != nil {
			return nil, fmt.Errorf("%s: scan schema version: %w", m.dialect.Backend, err)
		}
		versions = append(versions, v)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%s: iterate schema versions: %w", m.dialect.Backend, err)
	}
	return versions, nil
}

// Migrate applies every pending file and returns how many ran. A failed file
// stops the run and is not recorded, so it is retried on the next start.
func (m *Migrator) Migrate(ctx context.Context) (int, error) {
	versions, err := m.Applied(ctx)
	if err != nil {
		return 0, err
	}
	applied := make(map[string]bool, len(versions))
	for _, v := range versions {
		applied[v] = true
	}

	pending, err := PendingFiles(m.files, applied)
	if err != nil {
		return 0, err
	}
	if len(pending) == 0 {
		m.log.WithField("applied", len(versions)).Debug("record schema is up to date")
		return 0, nil
	}

	for i, file := range pending {
		stmt, err := fs.ReadFile(m.files, file)
		if err != nil {
			return i, fmt.Errorf("%s: read %s: %w", m.dialect.Backend, file, err)
		}
		if err := m.apply(ctx, file, string(stmt)); err != nil {
			return i, fmt.Errorf("%s: migration %s: %w", m.dialect.Backend, file, err)
		}
		m.log.WithField("migration", file).Info("applied record schema migration")
	}
	return len(pending), nil
}

func (m *Migrator) apply(ctx context.Context, file, stmt string) error {
	if !m.dialect.Transactional {
		if _, err := m.db.ExecContext(ctx, stmt); err != nil {
			return err
		}
		_, err := m.db.ExecContext(ctx, m.dialect.RecordVersion, file)
		return err
	}

	tx, err := m.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	if _, err := tx.ExecContext(ctx, stmt); err != nil {
		tx.Rollback() //nolint:errcheck // the exec error is reported
		return err
	}
	if _, err := tx.ExecContext(ctx, m.dialect.RecordVersion, file); err != nil {
		tx.Rollback() //nolint:errcheck // the exec error is reported
		return err
	}
	return tx.Commit()
}
