package database

import (
	"errors"
	"testing"
)

func TestRecordValidate(t *testing.T) {
	tests := []struct {
		name    string
		record  Record
		wantErr bool
	}{
		{"name only", Record{Name: "Kunal"}, false},
		{"full record", Record{Name: "Kunal", DOB: "1990-04-12", Gender: "Male"}, false},
		{"missing name", Record{DOB: "1990-04-12"}, true},
		{"blank name", Record{Name: "   "}, true},
		{"bad dob", Record{Name: "Kunal", DOB: "12/04/1990"}, true},
		{"impossible dob", Record{Name: "Kunal", DOB: "1990-02-30"}, true},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			err := tc.record.Validate()
			if tc.wantErr && !errors.Is(err, ErrInvalidRecord) {
				t.Errorf("Validate() = %v, want ErrInvalidRecord", err)
			}
			if !tc.wantErr && err != nil {
				t.Errorf("Validate() = %v, want nil", err)
			}
		})
	}
}
