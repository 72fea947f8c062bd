// Package recognizer drives detection and matching over whole frames.
package recognizer

import (
	"context"
	"fmt"
	"image"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/kunnaall04/Criminal-Face-Identification-System/internal/detect"
	"github.com/kunnaall04/Criminal-Face-Identification-System/internal/event"
	"github.com/kunnaall04/Criminal-Face-Identification-System/internal/facevec"
	"github.com/kunnaall04/Criminal-Face-Identification-System/internal/gallery"
	"github.com/kunnaall04/Criminal-Face-Identification-System/internal/matcher"
)

var log = event.Log

// FaceOutcome is the verdict for one detected face.
type FaceOutcome struct {
	Box      image.Rectangle `json:"box"`
	Result   matcher.Result  `json:"result"`
	Accepted bool            `json:"accepted"`
}

// Recognition is an accepted identity in a frame.
type Recognition struct {
	Label       int     `json:"label"`
	Name        string  `json:"name"`
	DisplayName string  `json:"display_name"`
	Confidence  float64 `json:"confidence"`
}

// FrameResult holds every face found in a frame and the identities accepted.
// Each name appears at most once in Recognized.
type FrameResult struct {
	Faces      []FaceOutcome `json:"faces"`
	Recognized []Recognition `json:"recognized"`
}

// Recognizer matches every face of a frame against the current gallery.
type Recognizer struct {
	detector detect.Detector
	matcher  *matcher.Matcher
	store    *gallery.Store
}

// New creates a recognizer. The gallery is read from store on every frame,
// so a rebuild takes effect on the next frame.
func New(d detect.Detector, m *matcher.Matcher, store *gallery.Store) *Recognizer {
	return &Recognizer{detector: d, matcher: m, store: store}
}

// Frame detects and matches every face in frame.
func (r *Recognizer) Frame(ctx context.Context, frame *image.Gray) (*FrameResult, error) {
	if facevec.Empty(frame) {
		return &FrameResult{Faces: []FaceOutcome{}, Recognized: []Recognition{}}, nil
	}

	dets, err := r.detector.Detect(ctx, frame)
	if err != nil {
		return nil, fmt.Errorf("detecting faces: %w", err)
	}

	boxes := make([]image.Rectangle, 0, len(dets))
	for _, d := range dets {
		boxes = append(boxes, detect.ToFrame(d, frame.Bounds(), r.detector.Downscale()))
	}
	return r.Match(frame, boxes), nil
}

// Match matches the given face boxes of frame in order. Empty boxes are
// skipped. Once a name is accepted, later faces with that name are rejected.
func (r *Recognizer) Match(frame *image.Gray, boxes []image.Rectangle) *FrameResult {
	g := r.store.Load()
	res := &FrameResult{Faces: []FaceOutcome{}, Recognized: []Recognition{}}
	seen := make(map[string]struct{})

	for i, box := range boxes {
		crop := facevec.Crop(frame, box)
		if facevec.Empty(crop) {
			continue
		}

		m := r.matcher.Query(crop, g)
		outcome := FaceOutcome{Box: box.Intersect(frame.Bounds()), Result: m}

		if m.Matched {
			if _, dup := seen[m.Name]; dup {
				log.Debugf("recognizer: face %d duplicates %s in this frame", i, m.Name)
			} else {
				seen[m.Name] = struct{}{}
				outcome.Accepted = true
				res.Recognized = append(res.Recognized, Recognition{
					Label:       m.Label,
					Name:        m.Name,
					DisplayName: DisplayName(m.Name),
					Confidence:  m.Confidence,
				})
				log.Infof("recognizer: recognized %s (%.1f%%)", m.Name, m.Confidence)
			}
		}
		res.Faces = append(res.Faces, outcome)
	}
	return res
}

// DisplayName upper-cases the first letter of name and lower-cases the rest.
func DisplayName(name string) string {
	first, size := utf8.DecodeRuneInString(name)
	if first == utf8.RuneError {
		return name
	}
	return string(unicode.ToUpper(first)) + strings.ToLower(name[size:])
}
