package cmd

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"

	"github.com/schollz/progressbar/v3"

	"github.com/kunnaall04/Criminal-Face-Identification-System/internal/config"
	"github.com/kunnaall04/Criminal-Face-Identification-System/internal/database"
	"github.com/kunnaall04/Criminal-Face-Identification-System/internal/detect"
	"github.com/kunnaall04/Criminal-Face-Identification-System/internal/facevec"
	"github.com/kunnaall04/Criminal-Face-Identification-System/internal/gallery"
	"github.com/kunnaall04/Criminal-Face-Identification-System/internal/matcher"

	// record store backends register themselves with the database package
	_ "github.com/kunnaall04/Criminal-Face-Identification-System/internal/database/mariadb"
	_ "github.com/kunnaall04/Criminal-Face-Identification-System/internal/database/postgres"
)

// faceSize returns the canonical face size from the matcher config.
func faceSize(cfg *config.Config) facevec.Size {
	return facevec.Size{Width: cfg.Matcher.Width, Height: cfg.Matcher.Height}
}

// newBuilder creates a gallery builder from cfg. progress may be nil.
func newBuilder(cfg *config.Config, progress func(done, total int)) *gallery.Builder {
	return gallery.NewBuilder(gallery.Options{
		Size:           faceSize(cfg),
		ThresholdFloor: cfg.Matcher.ThresholdFloor,
		SigmaFactor:    cfg.Matcher.SigmaFactor,
		Workers:        cfg.Workers,
		TempDir:        cfg.Enrollment.TempDir,
		Progress:       progress,
	})
}

func newMatcher(cfg *config.Config) *matcher.Matcher {
	return matcher.New(matcher.Config{
		GlobalThreshold: cfg.Matcher.GlobalThreshold,
		MarginThreshold: cfg.Matcher.MarginThreshold,
	})
}

func newDetector(cfg *config.Config) (*detect.PigoDetector, error) {
	d, err := detect.NewPigoDetector(cfg.Detector)
	if err != nil {
		if errors.Is(err, detect.ErrNoCascade) {
			return nil, fmt.Errorf("%w: set PIGO_CASCADE_PATH to a pigo facefinder cascade", err)
		}
		return nil, err
	}
	return d, nil
}

// buildGallery builds the gallery from the enrollment root, with a
// progress bar when showProgress is set.
func buildGallery(ctx context.Context, cfg *config.Config, showProgress bool) (*gallery.Gallery, error) {
	var progress func(done, total int)
	if showProgress {
		var bar *progressbar.ProgressBar
		progress = func(done, total int) {
			if bar == nil {
				bar = progressbar.NewOptions(total,
					progressbar.OptionSetDescription("Reading face samples"),
					progressbar.OptionShowCount(),
					progressbar.OptionShowIts(),
					progressbar.OptionSetItsString("images"),
					progressbar.OptionShowElapsedTimeOnFinish(),
					progressbar.OptionSetPredictTime(true),
					progressbar.OptionFullWidth(),
				)
			}
			bar.Set(done) //nolint:errcheck // progress output only
			if done == total {
				fmt.Println()
			}
		}
	}

	g, err := newBuilder(cfg, progress).Build(ctx, cfg.Enrollment.Root)
	if err != nil {
		return nil, fmt.Errorf("building gallery from %s: %w", cfg.Enrollment.Root, err)
	}
	return g, nil
}

// openRecords connects to the configured record store.
func openRecords(cfg *config.Config) (database.RecordStore, error) {
	store, err := database.Open(&cfg.Database)
	if err != nil {
		return nil, fmt.Errorf("opening record store: %w", err)
	}
	return store, nil
}

func outputJSON(data any) error {
	encoder := json.NewEncoder(os.Stdout)
	encoder.SetIndent("", "  ")
	if err := encoder.Encode(data); err != nil {
		return fmt.Errorf("encoding JSON output: %w", err)
	}
	return nil
}
