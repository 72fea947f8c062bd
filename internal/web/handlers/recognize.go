package handlers

import (
	"errors"
	"image"
	"io"
	"net/http"
	"strconv"

	"github.com/kunnaall04/Criminal-Face-Identification-System/internal/constants"
	"github.com/kunnaall04/Criminal-Face-Identification-System/internal/database"
	"github.com/kunnaall04/Criminal-Face-Identification-System/internal/facevec"
	"github.com/kunnaall04/Criminal-Face-Identification-System/internal/imageio"
	"github.com/kunnaall04/Criminal-Face-Identification-System/internal/recognizer"
)

// RecognizeHandler runs frame recognition on uploaded images.
type RecognizeHandler struct {
	recognizer *recognizer.Recognizer
	records    database.RecordReader // optional
}

// NewRecognizeHandler creates a recognize handler. records may be nil.
func NewRecognizeHandler(r *recognizer.Recognizer, records database.RecordReader) *RecognizeHandler {
	return &RecognizeHandler{recognizer: r, records: records}
}

// RecognizeResponse is the verdict for one frame.
type RecognizeResponse struct {
	Width      int                         `json:"width"`
	Height     int                         `json:"height"`
	Faces      []recognizer.FaceOutcome    `json:"faces"`
	Recognized []recognizer.Recognition    `json:"recognized"`
	Records    map[string]*database.Record `json:"records,omitempty"`
}

// readImage reads the raw request body as an image.
func readImage(w http.ResponseWriter, r *http.Request) (image.Image, bool) {
	data, err := io.ReadAll(http.MaxBytesReader(w, r.Body, constants.MaxUploadSize))
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			respondError(w, http.StatusRequestEntityTooLarge, "image too large")
			return nil, false
		}
		respondError(w, http.StatusBadRequest, "failed to read request body")
		return nil, false
	}
	if len(data) == 0 {
		respondError(w, http.StatusBadRequest, "empty request body")
		return nil, false
	}

	img, err := imageio.Decode(data)
	if err != nil {
		if errors.Is(err, imageio.ErrUnsupportedType) {
			respondError(w, http.StatusUnsupportedMediaType, "expected a png, jpeg or bmp image")
			return nil, false
		}
		if errors.Is(err, imageio.ErrTooManyPixels) {
			respondError(w, http.StatusRequestEntityTooLarge, "image dimensions too large")
			return nil, false
		}
		respondError(w, http.StatusBadRequest, "failed to decode image")
		return nil, false
	}
	return img, true
}

// Recognize detects and matches every face of the posted frame. With
// ?annotate=true the annotated frame is returned as png instead of JSON.
func (h *RecognizeHandler) Recognize(w http.ResponseWriter, r *http.Request) {
	img, ok := readImage(w, r)
	if !ok {
		return
	}

	res, err := h.recognizer.Frame(r.Context(), facevec.ToGray(img))
	if err != nil {
		log.Errorf("web: recognizing frame: %v", err)
		respondError(w, http.StatusInternalServerError, "failed to recognize faces")
		return
	}

	if annotate, _ := strconv.ParseBool(r.URL.Query().Get("annotate")); annotate {
		png, err := imageio.EncodePNG(recognizer.Annotate(img, res))
		if err != nil {
			respondError(w, http.StatusInternalServerError, "failed to encode annotated frame")
			return
		}
		w.Header().Set("Content-Type", "image/png")
		w.WriteHeader(http.StatusOK)
		w.Write(png) //nolint:errcheck // client went away
		return
	}

	b := img.Bounds()
	resp := RecognizeResponse{
		Width:      b.Dx(),
		Height:     b.Dy(),
		Faces:      res.Faces,
		Recognized: res.Recognized,
	}
	if h.records != nil && len(res.Recognized) > 0 {
		resp.Records = make(map[string]*database.Record, len(res.Recognized))
		for _, rec := range res.Recognized {
			record, err := h.records.Lookup(r.Context(), rec.Name)
			switch {
			case errors.Is(err, database.ErrRecordNotFound):
				log.Warnf("web: no record for recognized identity %s", sanitizeForLog(rec.Name))
			case err != nil:
				log.Errorf("web: looking up record for %s: %v", sanitizeForLog(rec.Name), err)
			default:
				resp.Records[rec.Name] = record
			}
		}
	}

	respondJSON(w, http.StatusOK, resp)
}
