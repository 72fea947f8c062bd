package handlers

import (
	"errors"
	"fmt"
	"image"
	"io"
	"mime/multipart"
	"net/http"

	"github.com/kunnaall04/Criminal-Face-Identification-System/internal/constants"
	"github.com/kunnaall04/Criminal-Face-Identification-System/internal/database"
	"github.com/kunnaall04/Criminal-Face-Identification-System/internal/enroll"
	"github.com/kunnaall04/Criminal-Face-Identification-System/internal/imageio"
)

// EnrollHandler registers new identities from uploaded images.
type EnrollHandler struct {
	enroller *enroll.Enroller
	gallery  *GalleryHandler
	records  database.RecordStore // optional
}

// NewEnrollHandler creates an enroll handler. The gallery is rebuilt after
// every successful enrollment.
func NewEnrollHandler(e *enroll.Enroller, g *GalleryHandler, records database.RecordStore) *EnrollHandler {
	return &EnrollHandler{enroller: e, gallery: g, records: records}
}

// EnrollResponse reports a finished enrollment.
type EnrollResponse struct {
	Enrollment enroll.Summary  `json:"enrollment"`
	RecordID   int64           `json:"record_id,omitempty"`
	Gallery    GalleryResponse `json:"gallery"`
}

// decodeUploadedImages decodes every multipart file as an image.
func decodeUploadedImages(files []*multipart.FileHeader) ([]image.Image, error) {
	images := make([]image.Image, 0, len(files))
	for _, fileHeader := range files {
		img, err := func() (image.Image, error) {
			file, err := fileHeader.Open()
			if err != nil {
				return nil, fmt.Errorf("failed to open file: %s", fileHeader.Filename)
			}
			defer file.Close()

			data, err := io.ReadAll(file)
			if err != nil {
				return nil, fmt.Errorf("failed to read file: %s", fileHeader.Filename)
			}
			img, err := imageio.Decode(data)
			if err != nil {
				return nil, fmt.Errorf("%s: %w", fileHeader.Filename, err)
			}
			return img, nil
		}()
		if err != nil {
			return nil, err
		}
		images = append(images, img)
	}
	return images, nil
}

// recordFromForm reads the optional case record fields of an enrollment.
func recordFromForm(r *http.Request, name string) *database.Record {
	return &database.Record{
		Name:               name,
		FatherName:         r.FormValue("father_name"),
		MotherName:         r.FormValue("mother_name"),
		Gender:             r.FormValue("gender"),
		DOB:                r.FormValue("dob"),
		BloodGroup:         r.FormValue("blood_group"),
		IdentificationMark: r.FormValue("identification_mark"),
		Nationality:        r.FormValue("nationality"),
		Religion:           r.FormValue("religion"),
		Crimes:             r.FormValue("crimes"),
	}
}

// Enroll handles a multipart registration: a name, one or more "images"
// files and the optional record fields.
func (h *EnrollHandler) Enroll(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseMultipartForm(constants.MaxUploadSize); err != nil {
		respondError(w, http.StatusBadRequest, "failed to parse multipart form")
		return
	}

	name := r.FormValue("name")
	if err := h.enroller.ValidateName(name); err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}

	files := r.MultipartForm.File["images"]
	if len(files) == 0 {
		respondError(w, http.StatusBadRequest, "no images provided")
		return
	}

	images, err := decodeUploadedImages(files)
	if err != nil {
		if errors.Is(err, imageio.ErrUnsupportedType) {
			respondError(w, http.StatusUnsupportedMediaType, err.Error())
			return
		}
		if errors.Is(err, imageio.ErrTooManyPixels) {
			respondError(w, http.StatusRequestEntityTooLarge, err.Error())
			return
		}
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}

	// Validate the record before anything is written to the enrollment tree.
	var rec *database.Record
	if h.records != nil {
		rec = recordFromForm(r, name)
		if err := rec.Validate(); err != nil {
			respondRecordError(w, err)
			return
		}
	}

	sum, err := h.enroller.Enroll(r.Context(), name, images)
	switch {
	case errors.Is(err, enroll.ErrInvalidName):
		respondError(w, http.StatusBadRequest, err.Error())
		return
	case errors.Is(err, enroll.ErrNoFaces):
		respondError(w, http.StatusUnprocessableEntity, err.Error())
		return
	case err != nil:
		log.Errorf("web: enrolling %s: %v", sanitizeForLog(name), err)
		respondError(w, http.StatusInternalServerError, "failed to enroll")
		return
	}

	resp := EnrollResponse{Enrollment: sum}
	if rec != nil {
		id, err := createRecord(r, h.records, rec)
		switch {
		case errors.Is(err, database.ErrDuplicateRecord):
			// extending a known identity keeps its record
			log.Infof("web: record for %s already exists", sanitizeForLog(name))
		case err != nil:
			log.Errorf("web: creating record for %s: %v", sanitizeForLog(name), err)
		default:
			resp.RecordID = id
		}
	}

	g, err := h.gallery.rebuild(r.Context())
	if err != nil {
		log.Errorf("web: rebuilding gallery after enrolling %s: %v", sanitizeForLog(name), err)
		respondError(w, http.StatusInternalServerError, "enrolled but failed to rebuild gallery")
		return
	}
	resp.Gallery = newGalleryResponse(g)

	respondJSON(w, http.StatusCreated, resp)
}
