package detect

import (
	"context"
	"errors"
	"fmt"
	"image"
	"os"

	pigo "github.com/esimov/pigo/core"

	"github.com/kunnaall04/Criminal-Face-Identification-System/internal/config"
	"github.com/kunnaall04/Criminal-Face-Identification-System/internal/facevec"
)

// ErrNoCascade is returned when no cascade file is configured.
var ErrNoCascade = errors.New("no face detection cascade configured (set PIGO_CASCADE_PATH)")

// PigoDetector detects faces with a pigo pixel-intensity cascade.
type PigoDetector struct {
	cfg config.DetectorConfig

	// search runs the cascade on one frame; replaced in tests.
	search func(img *image.Gray) []Detection
}

// NewPigoDetector loads the cascade named by cfg.CascadePath.
func NewPigoDetector(cfg config.DetectorConfig) (*PigoDetector, error) {
	if cfg.CascadePath == "" {
		return nil, ErrNoCascade
	}
	data, err := os.ReadFile(cfg.CascadePath)
	if err != nil {
		return nil, fmt.Errorf("failed to read pigo cascade file: %w", err)
	}
	return NewPigoDetectorFromCascade(data, cfg)
}

// NewPigoDetectorFromCascade builds a detector from raw cascade bytes.
func NewPigoDetectorFromCascade(cascade []byte, cfg config.DetectorConfig) (*PigoDetector, error) {
	classifier, err := pigo.NewPigo().Unpack(cascade)
	if err != nil {
		return nil, fmt.Errorf("failed to unpack pigo cascade: %w", err)
	}

	d := newPigoDetector(cfg)
	d.search = func(img *image.Gray) []Detection {
		return d.runCascade(classifier, img)
	}
	return d, nil
}

func newPigoDetector(cfg config.DetectorConfig) *PigoDetector {
	if cfg.Downscale <= 0 {
		cfg.Downscale = 1
	}
	return &PigoDetector{cfg: cfg}
}

// Downscale returns the factor frames are shrunk by before detection.
func (d *PigoDetector) Downscale() int {
	return d.cfg.Downscale
}

// Detect searches the downscaled frame and, when that finds nothing, its
// horizontal mirror.
func (d *PigoDetector) Detect(ctx context.Context, frame *image.Gray) ([]Detection, error) {
	if facevec.Empty(frame) {
		return nil, nil
	}
	b := frame.Bounds()
	w, h := scaledLen(b.Dx(), d.cfg.Downscale), scaledLen(b.Dy(), d.cfg.Downscale)
	if w == 0 || h == 0 {
		return nil, nil
	}
	mini := facevec.Resize(frame, facevec.Size{Width: w, Height: h})

	if err := ctx.Err(); err != nil {
		return nil, err
	}
	dets := d.search(mini)
	if len(dets) > 0 {
		return dets, nil
	}

	if err := ctx.Err(); err != nil {
		return nil, err
	}
	dets = d.search(facevec.Mirror(mini))
	for i := range dets {
		dets[i].Mirrored = true
	}
	if len(dets) > 0 {
		log.Debugf("detect: %d faces found on mirrored frame", len(dets))
	}
	return dets, nil
}

// runCascade runs the classifier over img and returns square boxes above the
// quality threshold with overlaps removed.
func (d *PigoDetector) runCascade(classifier *pigo.Pigo, img *image.Gray) []Detection {
	b := img.Bounds()
	params := pigo.CascadeParams{
		MinSize:     d.cfg.MinSize,
		MaxSize:     d.cfg.MaxSize,
		ShiftFactor: d.cfg.ShiftFactor,
		ScaleFactor: d.cfg.ScaleFactor,
		ImageParams: pigo.ImageParams{
			Pixels: img.Pix,
			Rows:   b.Dy(),
			Cols:   b.Dx(),
			Dim:    img.Stride,
		},
	}

	raw := classifier.RunCascade(params, 0.0)
	raw = classifier.ClusterDetections(raw, d.cfg.IoUThreshold)

	dets := make([]Detection, 0, len(raw))
	for _, det := range raw {
		if det.Q <= d.cfg.QualityThreshold {
			continue
		}
		x := det.Col - det.Scale/2
		y := det.Row - det.Scale/2
		box := Clip(image.Rect(x, y, x+det.Scale, y+det.Scale), b)
		if box.Empty() {
			continue
		}
		dets = append(dets, Detection{Box: box, Quality: det.Q})
	}
	return Suppress(dets, d.cfg.IoUThreshold)
}
