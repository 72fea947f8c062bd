// Package gallery holds the trained state of the matching engine: every
// enrolled face vector with its identity label, plus per-identity centroids
// and adaptive acceptance thresholds.
package gallery

import (
	"sort"
	"strconv"
	"time"

	"github.com/kunnaall04/Criminal-Face-Identification-System/internal/event"
	"github.com/kunnaall04/Criminal-Face-Identification-System/internal/facevec"
)

var log = event.Log

// Entry is one enrolled face vector.
type Entry struct {
	Vector facevec.FaceVector
	Label  int
	Source string // enrollment image path
}

// Gallery is immutable once built. A gallery with no entries is valid and
// rejects every query. Every label present in Entries has exactly one
// centroid and one threshold.
type Gallery struct {
	Entries    []Entry
	Centroids  map[int]facevec.FaceVector
	Thresholds map[int]float64
	Names      map[int]string
	Size       facevec.Size
	BuiltAt    time.Time
}

// New returns an empty gallery for faces of the given size.
func New(size facevec.Size) *Gallery {
	return &Gallery{
		Entries:    []Entry{},
		Centroids:  map[int]facevec.FaceVector{},
		Thresholds: map[int]float64{},
		Names:      map[int]string{},
		Size:       size,
		BuiltAt:    time.Now(),
	}
}

// Len returns the number of enrolled vectors.
func (g *Gallery) Len() int {
	if g == nil {
		return 0
	}
	return len(g.Entries)
}

// IsEmpty reports whether the gallery has no vectors.
func (g *Gallery) IsEmpty() bool {
	return g.Len() == 0
}

// Name returns the display name for a label, or the label number when unknown.
func (g *Gallery) Name(label int) string {
	if name, ok := g.Names[label]; ok {
		return name
	}
	return strconv.Itoa(label)
}

// Threshold returns the adaptive threshold of a label.
func (g *Gallery) Threshold(label int) (float64, bool) {
	t, ok := g.Thresholds[label]
	return t, ok
}

// Centroid returns the centroid of a label.
func (g *Gallery) Centroid(label int) (facevec.FaceVector, bool) {
	c, ok := g.Centroids[label]
	return c, ok
}

// Labels returns every known label in ascending order, including identities
// that contributed no vectors.
func (g *Gallery) Labels() []int {
	labels := make([]int, 0, len(g.Names))
	for l := range g.Names {
		labels = append(labels, l)
	}
	sort.Ints(labels)
	return labels
}

// Count returns the number of vectors enrolled under each label.
func (g *Gallery) Count() map[int]int {
	counts := make(map[int]int, len(g.Centroids))
	for _, e := range g.Entries {
		counts[e.Label]++
	}
	return counts
}

// IdentitySummary describes one identity of the gallery.
type IdentitySummary struct {
	Label     int     `json:"label"`
	Name      string  `json:"name"`
	Images    int     `json:"images"`
	Threshold float64 `json:"threshold,omitempty"`
}

// Summarize lists every identity by label.
func Summarize(g *Gallery) []IdentitySummary {
	counts := g.Count()
	out := make([]IdentitySummary, 0, len(g.Names))
	for _, l := range g.Labels() {
		out = append(out, IdentitySummary{
			Label:     l,
			Name:      g.Names[l],
			Images:    counts[l],
			Threshold: g.Thresholds[l],
		})
	}
	return out
}
