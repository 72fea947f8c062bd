package handlers

import (
	"bytes"
	"context"
	"encoding/binary"
	"encoding/json"
	"hash/crc32"
	"image"
	"image/png"
	"math/rand"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/go-chi/chi/v5"

	"github.com/kunnaall04/Criminal-Face-Identification-System/internal/detect"
	"github.com/kunnaall04/Criminal-Face-Identification-System/internal/enroll"
	"github.com/kunnaall04/Criminal-Face-Identification-System/internal/gallery"
	"github.com/kunnaall04/Criminal-Face-Identification-System/internal/matcher"
	"github.com/kunnaall04/Criminal-Face-Identification-System/internal/recognizer"
)

// wholeFrameDetector reports the whole frame as one face unless the frame
// is blank.
type wholeFrameDetector struct{}

func (wholeFrameDetector) Detect(_ context.Context, frame *image.Gray) ([]detect.Detection, error) {
	for _, p := range frame.Pix {
		if p != 0 {
			return []detect.Detection{{Box: frame.Bounds()}}, nil
		}
	}
	return nil, nil
}

func (wholeFrameDetector) Downscale() int { return 1 }

// faceImage returns a 112x92 face-like pattern. Images with the same seed
// differ by small per-sample noise.
func faceImage(seed, sample int64) *image.Gray {
	base := rand.New(rand.NewSource(seed))
	noise := rand.New(rand.NewSource(seed*1000 + sample))
	img := image.NewGray(image.Rect(0, 0, 112, 92))
	for i := range img.Pix {
		img.Pix[i] = uint8(base.Intn(200) + 28 + noise.Intn(9) - 4)
	}
	return img
}

func encodePNG(t *testing.T, img image.Image) []byte {
	t.Helper()
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		t.Fatalf("failed to encode png: %v", err)
	}
	return buf.Bytes()
}

// oversizedPNG returns a small png whose header declares 20000x20000 pixels.
func oversizedPNG(t *testing.T) []byte {
	t.Helper()
	data := encodePNG(t, faceImage(11, 0))
	binary.BigEndian.PutUint32(data[16:20], 20000)
	binary.BigEndian.PutUint32(data[20:24], 20000)
	binary.BigEndian.PutUint32(data[29:33], crc32.ChecksumIEEE(data[12:29]))
	return data
}

// writeIdentity stores three samples of the face with the given seed under root/name.
func writeIdentity(t *testing.T, root, name string, seed int64) {
	t.Helper()
	dir := filepath.Join(root, name)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		t.Fatalf("failed to create %s: %v", dir, err)
	}
	for s := range int64(3) {
		path := filepath.Join(dir, name+string(rune('0'+s))+".png")
		if err := os.WriteFile(path, encodePNG(t, faceImage(seed, s)), 0o644); err != nil {
			t.Fatalf("failed to write %s: %v", path, err)
		}
	}
}

// testEngine wires the engine over a temporary enrollment tree holding
// alice (seed 11) and bob (seed 22).
type testEngine struct {
	root       string
	store      *gallery.Store
	builder    *gallery.Builder
	recognizer *recognizer.Recognizer
	enroller   *enroll.Enroller
}

func newTestEngine(t *testing.T) *testEngine {
	t.Helper()
	root := t.TempDir()
	writeIdentity(t, root, "alice", 11)
	writeIdentity(t, root, "bob", 22)

	opts := gallery.DefaultOptions()
	opts.Workers = 2
	builder := gallery.NewBuilder(opts)
	store := gallery.NewStore(nil)
	if _, err := store.Rebuild(context.Background(), builder, root); err != nil {
		t.Fatalf("failed to build gallery: %v", err)
	}

	det := wholeFrameDetector{}
	return &testEngine{
		root:       root,
		store:      store,
		builder:    builder,
		recognizer: recognizer.New(det, matcher.New(matcher.DefaultConfig()), store),
		enroller:   enroll.New(root, opts.TempDir, opts.Size, det),
	}
}

func (e *testEngine) galleryHandler() *GalleryHandler {
	return NewGalleryHandler(e.store, e.builder, e.root)
}

// requestWithChiParams creates a request with chi URL parameters
func requestWithChiParams(r *http.Request, params map[string]string) *http.Request {
	rctx := chi.NewRouteContext()
	for key, value := range params {
		rctx.URLParams.Add(key, value)
	}
	return r.WithContext(context.WithValue(r.Context(), chi.RouteCtxKey, rctx))
}

// parseJSONResponse parses a JSON response body into the target type
func parseJSONResponse(t *testing.T, recorder *httptest.ResponseRecorder, target any) {
	t.Helper()
	if err := json.Unmarshal(recorder.Body.Bytes(), target); err != nil {
		t.Fatalf("failed to parse JSON response: %v\nBody: %s", err, recorder.Body.String())
	}
}

// assertStatusCode checks if the response has the expected status code
func assertStatusCode(t *testing.T, recorder *httptest.ResponseRecorder, expected int) {
	t.Helper()
	if recorder.Code != expected {
		t.Errorf("expected status %d, got %d\nBody: %s", expected, recorder.Code, recorder.Body.String())
	}
}

// assertContentType checks if the response has the expected content type
func assertContentType(t *testing.T, recorder *httptest.ResponseRecorder, expected string) {
	t.Helper()
	ct := recorder.Header().Get("Content-Type")
	if ct != expected {
		t.Errorf("expected Content-Type '%s', got '%s'", expected, ct)
	}
}

// assertJSONError checks if the response is a JSON error with the expected message
func assertJSONError(t *testing.T, recorder *httptest.ResponseRecorder, expectedMessage string) {
	t.Helper()
	var result map[string]string
	if err := json.Unmarshal(recorder.Body.Bytes(), &result); err != nil {
		t.Fatalf("failed to parse error response: %v\nBody: %s", err, recorder.Body.String())
	}
	if result["error"] != expectedMessage {
		t.Errorf("expected error '%s', got '%s'", expectedMessage, result["error"])
	}
}
