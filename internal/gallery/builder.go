package gallery

import (
	"context"
	"errors"
	"fmt"
	"image"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/karrick/godirwalk"
	"github.com/montanaflynn/stats"
	"golang.org/x/sync/errgroup"

	"github.com/kunnaall04/Criminal-Face-Identification-System/internal/constants"
	"github.com/kunnaall04/Criminal-Face-Identification-System/internal/facevec"
	"github.com/kunnaall04/Criminal-Face-Identification-System/internal/imageio"
)

// Options configures gallery construction.
type Options struct {
	Size           facevec.Size
	ThresholdFloor float64
	SigmaFactor    float64
	Workers        int
	TempDir        string // reserved in-progress enrollment directory, skipped

	// Progress, when set, is called after each image is processed.
	Progress func(done, total int)
}

// DefaultOptions returns the standard tuning.
func DefaultOptions() Options {
	return Options{
		Size:           facevec.Size{Width: constants.FaceWidth, Height: constants.FaceHeight},
		ThresholdFloor: constants.AdaptiveThresholdFloor,
		SigmaFactor:    constants.AdaptiveSigmaFactor,
		Workers:        constants.WorkerPoolSize,
		TempDir:        constants.TempEnrollmentDir,
	}
}

// Builder scans an enrollment tree and produces a Gallery.
type Builder struct {
	opts Options
}

// NewBuilder creates a builder. Zero-valued options fall back to defaults.
func NewBuilder(opts Options) *Builder {
	def := DefaultOptions()
	if opts.Size.Width <= 0 || opts.Size.Height <= 0 {
		opts.Size = def.Size
	}
	if opts.Workers <= 0 {
		opts.Workers = 1
	}
	if opts.TempDir == "" {
		opts.TempDir = def.TempDir
	}
	if opts.SigmaFactor < 0 {
		opts.SigmaFactor = def.SigmaFactor
	}
	return &Builder{opts: opts}
}

// identity is an enrollment directory selected for processing.
type identity struct {
	label int
	name  string
	path  string
}

// job is one enrollment image to read.
type job struct {
	label int
	path  string
}

// Build scans root and returns the trained gallery. Unreadable images are
// logged and skipped. A missing root yields an empty gallery.
func (b *Builder) Build(ctx context.Context, root string) (*Gallery, error) {
	identities, err := b.listIdentities(root)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			log.Warnf("gallery: enrollment directory %s does not exist", root)
			return New(b.opts.Size), nil
		}
		return nil, fmt.Errorf("listing enrollment directory: %w", err)
	}

	names := make(map[int]string, len(identities))
	var jobs []job
	for _, id := range identities {
		names[id.label] = id.name
		files, err := b.listImages(id.path)
		if err != nil {
			log.Warnf("gallery: skipping %s, unable to list images: %v", id.path, err)
			continue
		}
		for _, f := range files {
			jobs = append(jobs, job{label: id.label, path: f})
		}
	}

	vectors, err := b.readAll(ctx, jobs)
	if err != nil {
		return nil, err
	}

	var entries []Entry
	for i, v := range vectors {
		if v == nil {
			continue
		}
		entries = append(entries, Entry{Vector: v, Label: jobs[i].label, Source: jobs[i].path})
	}

	if len(entries) == 0 {
		log.Warnf("gallery: no usable enrollment images under %s", root)
	}
	g := b.Assemble(names, entries)

	log.Infof("gallery: %d images, %d identities", len(g.Entries), len(g.Centroids))
	return g, nil
}

// Assemble trains a gallery from already normalized entries. names maps
// every label, including labels without entries, to its identity name.
func (b *Builder) Assemble(names map[int]string, entries []Entry) *Gallery {
	g := New(b.opts.Size)
	for l, n := range names {
		g.Names[l] = n
	}
	if len(entries) > 0 {
		g.Entries = entries
		b.train(g)
	}
	g.BuiltAt = time.Now()
	return g
}

// listIdentities returns identity directories sorted by name, labels
// assigned sequentially from 0.
func (b *Builder) listIdentities(root string) ([]identity, error) {
	dirents, err := godirwalk.ReadDirents(root, nil)
	if err != nil {
		return nil, err
	}
	sort.Sort(dirents)

	var out []identity
	for _, de := range dirents {
		name := de.Name()
		if strings.HasPrefix(name, ".") || strings.EqualFold(name, b.opts.TempDir) {
			continue
		}
		path := filepath.Join(root, name)
		if !isDir(de, path) {
			continue
		}
		out = append(out, identity{label: len(out), name: name, path: path})
	}
	return out, nil
}

// listImages returns the image files directly inside dir. Nested
// directories are not descended into.
func (b *Builder) listImages(dir string) ([]string, error) {
	dirents, err := godirwalk.ReadDirents(dir, nil)
	if err != nil {
		return nil, err
	}
	sort.Sort(dirents)

	var files []string
	for _, de := range dirents {
		path := filepath.Join(dir, de.Name())
		if isDir(de, path) {
			continue
		}
		if !IsImageFile(de.Name()) {
			continue
		}
		files = append(files, path)
	}
	return files, nil
}

// IsImageFile reports whether name carries a supported raster extension.
func IsImageFile(name string) bool {
	_, ok := constants.ImageExtensions[strings.ToLower(filepath.Ext(name))]
	return ok
}

func isDir(de *godirwalk.Dirent, path string) bool {
	if de.IsDir() {
		return true
	}
	if de.IsSymlink() {
		fi, err := os.Stat(path)
		return err == nil && fi.IsDir()
	}
	return false
}

// readAll normalizes every job on a bounded worker pool. The result is
// indexed like jobs; failed reads leave a nil slot.
func (b *Builder) readAll(ctx context.Context, jobs []job) ([]facevec.FaceVector, error) {
	vectors := make([]facevec.FaceVector, len(jobs))

	var mu sync.Mutex
	done := 0

	eg, ctx := errgroup.WithContext(ctx)
	eg.SetLimit(b.opts.Workers)
	for i := range jobs {
		eg.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			img, err := LoadGray(jobs[i].path)
			if err != nil {
				log.Warnf("gallery: skipping %s, unable to read image: %v", jobs[i].path, err)
			} else {
				_, vectors[i] = facevec.Normalize(img, b.opts.Size)
			}

			if b.opts.Progress != nil {
				mu.Lock()
				done++
				b.opts.Progress(done, len(jobs))
				mu.Unlock()
			}
			return nil
		})
	}
	if err := eg.Wait(); err != nil {
		return nil, fmt.Errorf("reading enrollment images: %w", err)
	}
	return vectors, nil
}

// train computes centroids and adaptive thresholds for every label present.
func (b *Builder) train(g *Gallery) {
	byLabel := make(map[int][]facevec.FaceVector)
	for _, e := range g.Entries {
		byLabel[e.Label] = append(byLabel[e.Label], e.Vector)
	}

	for label, vectors := range byLabel {
		centroid := facevec.Centroid(vectors)
		g.Centroids[label] = centroid

		sims := make(stats.Float64Data, len(vectors))
		for i, v := range vectors {
			sims[i] = facevec.Similarity(v, centroid)
		}
		mu, _ := stats.Mean(sims)
		sigma, _ := stats.StandardDeviationPopulation(sims)

		g.Thresholds[label] = max(b.opts.ThresholdFloor, mu-b.opts.SigmaFactor*sigma)
		log.Debugf("gallery: %s mu=%.3f sigma=%.3f threshold=%.3f", g.Names[label], mu, sigma, g.Thresholds[label])
	}
}

// LoadGray decodes an image file (png, jpeg or bmp) as 8-bit grayscale.
func LoadGray(path string) (*image.Gray, error) {
	img, err := imageio.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return facevec.ToGray(img), nil
}
