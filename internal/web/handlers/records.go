package handlers

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/kunnaall04/Criminal-Face-Identification-System/internal/database"
)

// RecordsHandler manages the case records of enrolled identities.
type RecordsHandler struct {
	records database.RecordStore
}

// NewRecordsHandler creates a records handler. A nil store disables every endpoint.
func NewRecordsHandler(records database.RecordStore) *RecordsHandler {
	return &RecordsHandler{records: records}
}

func (h *RecordsHandler) available(w http.ResponseWriter) bool {
	if h.records == nil {
		respondError(w, http.StatusServiceUnavailable, errRecordsDisabled)
		return false
	}
	return true
}

// Create stores a new record.
func (h *RecordsHandler) Create(w http.ResponseWriter, r *http.Request) {
	if !h.available(w) {
		return
	}

	var rec database.Record
	if err := json.NewDecoder(r.Body).Decode(&rec); err != nil {
		respondError(w, http.StatusBadRequest, errInvalidRequestBody)
		return
	}

	id, err := createRecord(r, h.records, &rec)
	if err != nil {
		respondRecordError(w, err)
		return
	}
	rec.ID = id

	respondJSON(w, http.StatusCreated, rec)
}

// Get returns the record for the {name} path parameter.
func (h *RecordsHandler) Get(w http.ResponseWriter, r *http.Request) {
	if !h.available(w) {
		return
	}

	rec, err := h.records.Lookup(r.Context(), chi.URLParam(r, "name"))
	if err != nil {
		respondRecordError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, rec)
}

// Delete removes the record for the {name} path parameter.
func (h *RecordsHandler) Delete(w http.ResponseWriter, r *http.Request) {
	if !h.available(w) {
		return
	}

	name := chi.URLParam(r, "name")
	if err := h.records.Delete(r.Context(), name); err != nil {
		respondRecordError(w, err)
		return
	}
	log.Infof("web: deleted record %s", sanitizeForLog(name))
	w.WriteHeader(http.StatusNoContent)
}

// createRecord validates and stores rec.
func createRecord(r *http.Request, store database.RecordWriter, rec *database.Record) (int64, error) {
	if err := rec.Validate(); err != nil {
		return 0, err
	}
	id, err := store.Create(r.Context(), rec)
	if err != nil {
		return 0, err
	}
	log.Infof("web: created record %d for %s", id, sanitizeForLog(rec.Name))
	return id, nil
}

// respondRecordError maps record store errors to status codes.
func respondRecordError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, database.ErrRecordNotFound):
		respondError(w, http.StatusNotFound, err.Error())
	case errors.Is(err, database.ErrDuplicateRecord):
		respondError(w, http.StatusConflict, err.Error())
	case errors.Is(err, database.ErrInvalidRecord):
		respondError(w, http.StatusBadRequest, err.Error())
	default:
		log.Errorf("web: record store: %v", err)
		respondError(w, http.StatusInternalServerError, "record store error")
	}
}
