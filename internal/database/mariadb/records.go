package mariadb

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/go-sql-driver/mysql"

	"github.com/kunnaall04/Criminal-Face-Identification-System/internal/database"
)

// errDupEntry is the MySQL error number for a duplicate unique key.
const errDupEntry = 1062

const recordColumns = `id, name, father_name, mother_name, gender, dob, blood_group,
	identification_mark, nationality, religion, crimes, created_at`

// RecordRepository provides MariaDB-backed record storage.
type RecordRepository struct {
	pool *Pool
}

// NewRecordRepository creates a new MariaDB record repository.
func NewRecordRepository(pool *Pool) *RecordRepository {
	return &RecordRepository{pool: pool}
}

// Lookup retrieves a record by normalized name.
func (r *RecordRepository) Lookup(ctx context.Context, name string) (*database.Record, error) {
	query := `SELECT ` + recordColumns + ` FROM criminaldata WHERE normalized_name = ?`

	var rec database.Record
	err := r.pool.db.QueryRowContext(ctx, query, database.NormalizeName(name)).Scan(
		&rec.ID, &rec.Name, &rec.FatherName, &rec.MotherName, &rec.Gender, &rec.DOB,
		&rec.BloodGroup, &rec.IdentificationMark, &rec.Nationality, &rec.Religion,
		&rec.Crimes, &rec.CreatedAt,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, database.ErrRecordNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get record: %w", err)
	}
	return &rec, nil
}

// Count returns the total number of records.
func (r *RecordRepository) Count(ctx context.Context) (int, error) {
	var count int
	if err := r.pool.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM criminaldata").Scan(&count); err != nil {
		return 0, fmt.Errorf("count records: %w", err)
	}
	return count, nil
}

// Create stores a new record.
func (r *RecordRepository) Create(ctx context.Context, rec *database.Record) (int64, error) {
	if err := rec.Validate(); err != nil {
		return 0, err
	}

	query := `
		INSERT INTO criminaldata (name, normalized_name, father_name, mother_name, gender, dob,
			blood_group, identification_mark, nationality, religion, crimes)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`
	result, err := r.pool.db.ExecContext(ctx, query,
		rec.Name, rec.NormalizedName(), rec.FatherName, rec.MotherName, rec.Gender, rec.DOB,
		rec.BloodGroup, rec.IdentificationMark, rec.Nationality, rec.Religion, rec.Crimes,
	)
	if err != nil {
		var myErr *mysql.MySQLError
		if errors.As(err, &myErr) && myErr.Number == errDupEntry {
			return 0, fmt.Errorf("%w: %s", database.ErrDuplicateRecord, rec.Name)
		}
		return 0, fmt.Errorf("insert record: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("insert record: %w", err)
	}
	log.Debugf("mariadb: stored record %d for %s", id, rec.Name)
	return id, nil
}

// Delete removes the record for name.
func (r *RecordRepository) Delete(ctx context.Context, name string) error {
	result, err := r.pool.db.ExecContext(ctx, "DELETE FROM criminaldata WHERE normalized_name = ?", database.NormalizeName(name))
	if err != nil {
		return fmt.Errorf("delete record: %w", err)
	}
	n, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("delete record: %w", err)
	}
	if n == 0 {
		return database.ErrRecordNotFound
	}
	return nil
}

// Close closes the underlying pool.
func (r *RecordRepository) Close() error {
	return r.pool.Close()
}

// Verify interface compliance
var _ database.RecordStore = (*RecordRepository)(nil)
