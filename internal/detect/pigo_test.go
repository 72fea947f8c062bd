package detect

import (
	"context"
	"errors"
	"image"
	"path/filepath"
	"testing"

	"github.com/kunnaall04/Criminal-Face-Identification-System/internal/config"
)

func fakeDetector(search func(img *image.Gray) []Detection) *PigoDetector {
	d := newPigoDetector(config.DetectorConfig{Downscale: 2})
	d.search = search
	return d
}

func TestPigoDetector_FirstPass(t *testing.T) {
	var seen []image.Rectangle
	d := fakeDetector(func(img *image.Gray) []Detection {
		seen = append(seen, img.Bounds())
		return []Detection{{Box: image.Rect(1, 1, 5, 5), Quality: 7}}
	})

	dets, err := d.Detect(context.Background(), image.NewGray(image.Rect(0, 0, 64, 48)))
	if err != nil {
		t.Fatalf("Detect: %v", err)
	}
	if len(seen) != 1 || seen[0] != image.Rect(0, 0, 32, 24) {
		t.Errorf("searched frames %v, want one 32x24 frame", seen)
	}
	if len(dets) != 1 || dets[0].Mirrored {
		t.Errorf("Detect = %+v", dets)
	}
}

func TestPigoDetector_MirrorRetry(t *testing.T) {
	frame := image.NewGray(image.Rect(0, 0, 40, 40))
	frame.Pix[0] = 255

	calls := 0
	d := fakeDetector(func(img *image.Gray) []Detection {
		calls++
		// only the mirrored frame has its bright pixel in the top right corner
		if img.GrayAt(img.Bounds().Dx()-1, 0).Y == 0 {
			return nil
		}
		return []Detection{{Box: image.Rect(0, 0, 4, 4)}}
	})

	dets, err := d.Detect(context.Background(), frame)
	if err != nil {
		t.Fatalf("Detect: %v", err)
	}
	if calls != 2 {
		t.Errorf("search called %d times, want 2", calls)
	}
	if len(dets) != 1 || !dets[0].Mirrored {
		t.Errorf("Detect = %+v, want one mirrored detection", dets)
	}
}

func TestPigoDetector_NothingFound(t *testing.T) {
	d := fakeDetector(func(*image.Gray) []Detection { return nil })

	dets, err := d.Detect(context.Background(), image.NewGray(image.Rect(0, 0, 10, 10)))
	if err != nil || len(dets) != 0 {
		t.Errorf("Detect = %v, %v", dets, err)
	}
}

func TestPigoDetector_TinyFrame(t *testing.T) {
	d := fakeDetector(func(*image.Gray) []Detection {
		t.Fatal("search must not run on an empty frame")
		return nil
	})

	dets, err := d.Detect(context.Background(), image.NewGray(image.Rect(0, 0, 1, 1)))
	if err != nil || dets != nil {
		t.Errorf("Detect = %v, %v", dets, err)
	}
}

func TestPigoDetector_Cancelled(t *testing.T) {
	d := fakeDetector(func(*image.Gray) []Detection { return nil })
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := d.Detect(ctx, image.NewGray(image.Rect(0, 0, 10, 10)))
	if !errors.Is(err, context.Canceled) {
		t.Errorf("Detect error = %v, want context.Canceled", err)
	}
}

func TestNewPigoDetector_Errors(t *testing.T) {
	if _, err := NewPigoDetector(config.DetectorConfig{}); !errors.Is(err, ErrNoCascade) {
		t.Errorf("empty cascade path error = %v", err)
	}
	if _, err := NewPigoDetector(config.DetectorConfig{CascadePath: filepath.Join(t.TempDir(), "missing")}); err == nil {
		t.Error("missing cascade file should fail")
	}
}
