// Package detect locates faces in grayscale frames.
package detect

import (
	"context"
	"image"

	"github.com/kunnaall04/Criminal-Face-Identification-System/internal/event"
)

var log = event.Log

// Detection is one face found by a Detector. Box is expressed in the
// downscaled coordinate space of the frame the detector actually searched;
// when Mirrored is set that frame was the horizontal mirror of the input.
type Detection struct {
	Box      image.Rectangle
	Mirrored bool
	Quality  float32
}

// Detector finds faces in a frame. Implementations shrink the frame by
// Downscale before searching and retry on the mirrored frame when the first
// pass finds nothing.
type Detector interface {
	Detect(ctx context.Context, frame *image.Gray) ([]Detection, error)
	Downscale() int
}

// ToFrame maps a detection back to full-frame coordinates of a frame with
// the given bounds, clipped to those bounds.
func ToFrame(d Detection, bounds image.Rectangle, downscale int) image.Rectangle {
	box := d.Box
	if d.Mirrored {
		box = Unmirror(box, scaledLen(bounds.Dx(), downscale))
	}
	box = Rescale(box, downscale).Add(bounds.Min)
	return Clip(box, bounds)
}

// scaledLen is the length of a frame side after downscaling.
func scaledLen(n, downscale int) int {
	if downscale <= 1 {
		return n
	}
	return n / downscale
}
