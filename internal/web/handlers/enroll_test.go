package handlers

import (
	"bytes"
	"image"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/kunnaall04/Criminal-Face-Identification-System/internal/database/mock"
	"github.com/kunnaall04/Criminal-Face-Identification-System/internal/enroll"
)

// enrollRequest builds a multipart enrollment with the given form fields
// and images.
func enrollRequest(t *testing.T, fields map[string]string, images ...[]byte) *http.Request {
	t.Helper()
	var body bytes.Buffer
	mw := multipart.NewWriter(&body)
	for k, v := range fields {
		if err := mw.WriteField(k, v); err != nil {
			t.Fatalf("failed to write field: %v", err)
		}
	}
	for i, data := range images {
		part, err := mw.CreateFormFile("images", "capture"+string(rune('a'+i))+".png")
		if err != nil {
			t.Fatalf("failed to create form file: %v", err)
		}
		part.Write(data)
	}
	mw.Close()

	req := httptest.NewRequest("POST", "/api/v1/enroll", &body)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	return req
}

func TestEnrollHandler_NewIdentity(t *testing.T) {
	engine := newTestEngine(t)
	records := mock.NewMockRecordStore()
	handler := NewEnrollHandler(engine.enroller, engine.galleryHandler(), records)
	recorder := httptest.NewRecorder()

	req := enrollRequest(t,
		map[string]string{"name": "carol", "crimes": "smuggling", "dob": "1979-12-01"},
		encodePNG(t, faceImage(33, 0)),
		encodePNG(t, image.NewGray(image.Rect(0, 0, 50, 50))),
		encodePNG(t, faceImage(33, 1)),
	)
	handler.Enroll(recorder, req)

	assertStatusCode(t, recorder, http.StatusCreated)
	var result EnrollResponse
	parseJSONResponse(t, recorder, &result)

	if result.Enrollment.Saved != 2 || result.Enrollment.Skipped != 1 {
		t.Errorf("expected 2 saved and 1 skipped, got %+v", result.Enrollment)
	}
	if result.RecordID == 0 {
		t.Error("expected a record to be created")
	}
	if result.Gallery.Images != 8 || len(result.Gallery.Identities) != 3 {
		t.Errorf("expected 8 images in 3 identities, got %d in %d", result.Gallery.Images, len(result.Gallery.Identities))
	}
	if _, err := os.Stat(filepath.Join(engine.root, "temp_criminal")); !os.IsNotExist(err) {
		t.Errorf("expected the temporary directory to be removed, got %v", err)
	}

	// the new identity is recognized right away
	recognize := NewRecognizeHandler(engine.recognizer, records)
	recorder = httptest.NewRecorder()
	recognize.Recognize(recorder, postImage(encodePNG(t, faceImage(33, 0)), ""))
	var rec RecognizeResponse
	parseJSONResponse(t, recorder, &rec)
	if len(rec.Recognized) != 1 || rec.Recognized[0].Name != "carol" {
		t.Errorf("expected carol to be recognized, got %+v", rec.Recognized)
	}
	if r := rec.Records["carol"]; r == nil || r.Crimes != "smuggling" {
		t.Errorf("expected carol's record, got %+v", rec.Records)
	}
}

func TestEnrollHandler_ExistingIdentityKeepsRecord(t *testing.T) {
	engine := newTestEngine(t)
	records := mock.NewMockRecordStore()
	handler := NewEnrollHandler(engine.enroller, engine.galleryHandler(), records)

	for range 2 {
		recorder := httptest.NewRecorder()
		handler.Enroll(recorder, enrollRequest(t, map[string]string{"name": "alice"}, encodePNG(t, faceImage(11, 5))))
		assertStatusCode(t, recorder, http.StatusCreated)
	}

	matches, _ := filepath.Glob(filepath.Join(engine.root, "alice", "*.png"))
	if len(matches) != 5 {
		t.Errorf("expected 5 images for alice, got %d", len(matches))
	}
	if n, _ := records.Count(t.Context()); n != 1 {
		t.Errorf("expected one record, got %d", n)
	}
}

func TestEnrollHandler_Rejects(t *testing.T) {
	engine := newTestEngine(t)
	handler := NewEnrollHandler(engine.enroller, engine.galleryHandler(), nil)
	face := encodePNG(t, faceImage(33, 0))
	blank := encodePNG(t, image.NewGray(image.Rect(0, 0, 50, 50)))

	tests := []struct {
		name       string
		req        *http.Request
		wantStatus int
	}{
		{"not multipart", httptest.NewRequest("POST", "/api/v1/enroll", nil), http.StatusBadRequest},
		{"missing name", enrollRequest(t, nil, face), http.StatusBadRequest},
		{"reserved name", enrollRequest(t, map[string]string{"name": "Temp_Criminal"}, face), http.StatusBadRequest},
		{"path traversal", enrollRequest(t, map[string]string{"name": "../etc"}, face), http.StatusBadRequest},
		{"no images", enrollRequest(t, map[string]string{"name": "dave"}), http.StatusBadRequest},
		{"not an image", enrollRequest(t, map[string]string{"name": "dave"}, []byte("plain text")), http.StatusUnsupportedMediaType},
		{"oversized dimensions", enrollRequest(t, map[string]string{"name": "dave"}, face, oversizedPNG(t)), http.StatusRequestEntityTooLarge},
		{"no faces", enrollRequest(t, map[string]string{"name": "dave"}, blank), http.StatusUnprocessableEntity},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			recorder := httptest.NewRecorder()

			handler.Enroll(recorder, tc.req)

			assertStatusCode(t, recorder, tc.wantStatus)
		})
	}

	if _, err := os.Stat(filepath.Join(engine.root, "dave")); !os.IsNotExist(err) {
		t.Errorf("expected no directory for a rejected enrollment, got %v", err)
	}
}

func TestEnrollHandler_InvalidRecordWritesNothing(t *testing.T) {
	engine := newTestEngine(t)
	handler := NewEnrollHandler(engine.enroller, engine.galleryHandler(), mock.NewMockRecordStore())
	recorder := httptest.NewRecorder()

	handler.Enroll(recorder, enrollRequest(t,
		map[string]string{"name": "erin", "dob": "yesterday"},
		encodePNG(t, faceImage(44, 0)),
	))

	assertStatusCode(t, recorder, http.StatusBadRequest)
	if _, err := os.Stat(filepath.Join(engine.root, "erin")); !os.IsNotExist(err) {
		t.Errorf("expected no directory for erin, got %v", err)
	}
}

func TestEnrollHandler_ReservedNameFollowsEnroller(t *testing.T) {
	engine := newTestEngine(t)
	enroller := enroll.New(engine.root, "staging", engine.enroller.Size(), wholeFrameDetector{})
	handler := NewEnrollHandler(enroller, engine.galleryHandler(), nil)
	recorder := httptest.NewRecorder()

	handler.Enroll(recorder, enrollRequest(t,
		map[string]string{"name": "Staging"},
		encodePNG(t, faceImage(55, 0)),
	))

	assertStatusCode(t, recorder, http.StatusBadRequest)
	assertJSONError(t, recorder, `invalid identity name: "Staging" is reserved`)
	if _, err := os.Stat(filepath.Join(engine.root, "Staging")); !os.IsNotExist(err) {
		t.Errorf("expected no directory for a reserved name, got %v", err)
	}
}
