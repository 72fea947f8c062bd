// Package enroll registers a new identity: it detects the face in every
// submitted image, stores normalized crops under a reserved temporary
// directory and moves them into the identity's directory when done.
package enroll

import (
	"context"
	"errors"
	"fmt"
	"image"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/google/uuid"

	"github.com/kunnaall04/Criminal-Face-Identification-System/internal/detect"
	"github.com/kunnaall04/Criminal-Face-Identification-System/internal/event"
	"github.com/kunnaall04/Criminal-Face-Identification-System/internal/facevec"
	"github.com/kunnaall04/Criminal-Face-Identification-System/internal/imageio"
)

var log = event.Log

var (
	// ErrInvalidName is returned for names that cannot be an identity directory.
	ErrInvalidName = errors.New("invalid identity name")
	// ErrNoFaces is returned when none of the images contained a face.
	ErrNoFaces = errors.New("no face found in any image")
)

// Summary reports the outcome of one enrollment.
type Summary struct {
	Name    string `json:"name"`
	Dir     string `json:"dir"`
	Saved   int    `json:"saved"`
	Skipped int    `json:"skipped"`
}

// Enroller writes new identities into an enrollment tree.
type Enroller struct {
	root     string
	tempDir  string
	size     facevec.Size
	detector detect.Detector

	// the temporary directory is shared, one enrollment at a time
	mu sync.Mutex
}

// New creates an enroller for the tree at root.
func New(root, tempDir string, size facevec.Size, d detect.Detector) *Enroller {
	return &Enroller{root: root, tempDir: tempDir, size: size, detector: d}
}

// ValidateName checks that name can be used as an identity directory.
func ValidateName(name, tempDir string) error {
	switch {
	case strings.TrimSpace(name) == "":
		return fmt.Errorf("%w: empty", ErrInvalidName)
	case strings.ContainsAny(name, `/\`) || name == "..":
		return fmt.Errorf("%w: %q contains a path separator", ErrInvalidName, name)
	case strings.HasPrefix(name, "."):
		return fmt.Errorf("%w: %q is hidden", ErrInvalidName, name)
	case strings.EqualFold(name, tempDir):
		return fmt.Errorf("%w: %q is reserved", ErrInvalidName, name)
	}
	return nil
}

// ValidateName checks name against the enroller's reserved temporary directory.
func (e *Enroller) ValidateName(name string) error {
	return ValidateName(name, e.tempDir)
}

// Size is the normalized crop size written by the enroller.
func (e *Enroller) Size() facevec.Size { return e.size }

// Enroll stores the largest face of each image under root/name. Images
// without a face are skipped. Existing identities are extended.
func (e *Enroller) Enroll(ctx context.Context, name string, images []image.Image) (Summary, error) {
	name = strings.TrimSpace(name)
	if err := ValidateName(name, e.tempDir); err != nil {
		return Summary{}, err
	}

	e.mu.Lock()
	defer e.mu.Unlock()

	tmp := filepath.Join(e.root, e.tempDir)
	if err := os.RemoveAll(tmp); err != nil {
		return Summary{}, fmt.Errorf("clearing %s: %w", tmp, err)
	}
	if err := os.MkdirAll(tmp, 0o755); err != nil {
		return Summary{}, fmt.Errorf("creating %s: %w", tmp, err)
	}
	defer os.RemoveAll(tmp)

	sum := Summary{Name: name, Dir: filepath.Join(e.root, name)}
	for i, img := range images {
		face, ok, err := e.extract(ctx, img)
		if err != nil {
			return Summary{}, err
		}
		if !ok {
			log.Warnf("enroll: no face found in image %d for %s", i, name)
			sum.Skipped++
			continue
		}
		path := filepath.Join(tmp, uuid.NewString()+".png")
		if err := imageio.WritePNG(path, face); err != nil {
			return Summary{}, err
		}
		sum.Saved++
	}

	if sum.Saved == 0 {
		return sum, ErrNoFaces
	}

	if err := commit(tmp, sum.Dir); err != nil {
		return Summary{}, err
	}

	log.Infof("enroll: saved %d images for %s (%d skipped)", sum.Saved, name, sum.Skipped)
	return sum, nil
}

// extract returns the largest detected face of img resized to the
// canonical size.
func (e *Enroller) extract(ctx context.Context, img image.Image) (*image.Gray, bool, error) {
	gray := facevec.ToGray(img)
	dets, err := e.detector.Detect(ctx, gray)
	if err != nil {
		return nil, false, fmt.Errorf("detecting faces: %w", err)
	}
	best, ok := detect.Largest(dets)
	if !ok {
		return nil, false, nil
	}

	crop := facevec.Crop(gray, detect.ToFrame(best, gray.Bounds(), e.detector.Downscale()))
	if facevec.Empty(crop) {
		return nil, false, nil
	}
	return facevec.Resize(crop, e.size), true, nil
}

// commit moves the files of tmp into dir, renaming the whole directory when
// dir does not exist yet.
func commit(tmp, dir string) error {
	if _, err := os.Stat(dir); errors.Is(err, fs.ErrNotExist) {
		if err := os.Rename(tmp, dir); err != nil {
			return fmt.Errorf("moving enrollment into %s: %w", dir, err)
		}
		return nil
	}

	entries, err := os.ReadDir(tmp)
	if err != nil {
		return fmt.Errorf("reading %s: %w", tmp, err)
	}
	for _, de := range entries {
		if err := os.Rename(filepath.Join(tmp, de.Name()), filepath.Join(dir, de.Name())); err != nil {
			return fmt.Errorf("moving %s into %s: %w", de.Name(), dir, err)
		}
	}
	return nil
}
