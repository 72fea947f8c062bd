package database

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

// Record is the case file kept for an enrolled identity.
type Record struct {
	ID                 int64     `json:"id"`
	Name               string    `json:"name"`
	FatherName         string    `json:"father_name"`
	MotherName         string    `json:"mother_name"`
	Gender             string    `json:"gender"`
	DOB                string    `json:"dob"` // yyyy-mm-dd
	BloodGroup         string    `json:"blood_group"`
	IdentificationMark string    `json:"identification_mark"`
	Nationality        string    `json:"nationality"`
	Religion           string    `json:"religion"`
	Crimes             string    `json:"crimes"`
	CreatedAt          time.Time `json:"created_at"`
}

var (
	// ErrRecordNotFound is returned when no record matches a name.
	ErrRecordNotFound = errors.New("record not found")
	// ErrDuplicateRecord is returned when a record with the same normalized name exists.
	ErrDuplicateRecord = errors.New("record already exists")
	// ErrInvalidRecord is returned by Validate.
	ErrInvalidRecord = errors.New("invalid record")
)

// Validate checks the fields the store relies on.
func (r *Record) Validate() error {
	if strings.TrimSpace(r.Name) == "" {
		return fmt.Errorf("%w: name is required", ErrInvalidRecord)
	}
	if r.DOB != "" {
		if _, err := time.Parse(time.DateOnly, r.DOB); err != nil {
			return fmt.Errorf("%w: dob %q is not yyyy-mm-dd", ErrInvalidRecord, r.DOB)
		}
	}
	return nil
}

// NormalizedName is the lookup key of the record.
func (r *Record) NormalizedName() string {
	return NormalizeName(r.Name)
}
