// Package matcher decides whether a face crop belongs to an enrolled
// identity by comparing it against every vector of a gallery.
package matcher

import (
	"image"

	"github.com/kunnaall04/Criminal-Face-Identification-System/internal/constants"
	"github.com/kunnaall04/Criminal-Face-Identification-System/internal/event"
	"github.com/kunnaall04/Criminal-Face-Identification-System/internal/facevec"
	"github.com/kunnaall04/Criminal-Face-Identification-System/internal/gallery"
)

var log = event.Log

// NoLabel is the label of a result that matched nothing.
const NoLabel = -1

// Config holds the acceptance tuning.
type Config struct {
	// GlobalThreshold is the lowest similarity any identity accepts.
	GlobalThreshold float64
	// MarginThreshold is reported in diagnostics only. It never gates acceptance.
	MarginThreshold float64
}

// DefaultConfig returns the standard tuning.
func DefaultConfig() Config {
	return Config{
		GlobalThreshold: constants.GlobalSimilarityThreshold,
		MarginThreshold: constants.MarginThreshold,
	}
}

// Result is the outcome of one query. When Matched is false the result is a
// NoMatch; the other fields still describe the nearest identity when the
// gallery was not empty.
type Result struct {
	Matched    bool    `json:"matched"`
	Label      int     `json:"label"`
	Name       string  `json:"name,omitempty"`
	Similarity float64 `json:"similarity"`
	Required   float64 `json:"required"`
	Margin     float64 `json:"margin"`
	Mirrored   bool    `json:"mirrored"`
	Confidence float64 `json:"confidence"`
}

// NoMatch returns the result of a query that had nothing to compare against.
func NoMatch() Result {
	return Result{Label: NoLabel}
}

// Matcher is stateless apart from its tuning and is safe for concurrent use.
type Matcher struct {
	cfg Config
}

// New creates a matcher.
func New(cfg Config) *Matcher {
	return &Matcher{cfg: cfg}
}

// Config returns the tuning in effect.
func (m *Matcher) Config() Config {
	return m.cfg
}

// Query normalizes crop in both orientations and matches it against g.
// An empty crop or an empty gallery yields NoMatch.
func (m *Matcher) Query(crop *image.Gray, g *gallery.Gallery) Result {
	if facevec.Empty(crop) || g.IsEmpty() {
		return NoMatch()
	}

	eq, v := facevec.Normalize(crop, g.Size)
	_, vFlip := facevec.Normalize(facevec.Mirror(eq), g.Size)
	return m.QueryVectors(v, vFlip, g)
}

// QueryVectors matches an already normalized vector and its mirrored
// counterpart against g.
func (m *Matcher) QueryVectors(v, vFlip facevec.FaceVector, g *gallery.Gallery) Result {
	if g.IsEmpty() {
		return NoMatch()
	}

	orig := scan(v, g)
	flip := scan(vFlip, g)

	best, mirrored := orig, false
	if flip.top > orig.top {
		best, mirrored = flip, true
	}

	label := g.Entries[best.index].Label
	sim := best.top
	if centroid, ok := g.Centroid(label); ok {
		sim = max(sim, facevec.Similarity(v, centroid))
	}

	required := m.cfg.GlobalThreshold
	if t, ok := g.Threshold(label); ok {
		required = max(required, t)
	}
	margin := sim - max(-1, best.second)

	res := Result{
		Matched:    sim >= required,
		Label:      label,
		Name:       g.Name(label),
		Similarity: sim,
		Required:   required,
		Margin:     margin,
		Mirrored:   mirrored,
		Confidence: min(max(100*sim, 0), 100),
	}

	log.Debugf("matcher: best=%s sim=%.3f required=%.3f margin=%.3f mirrored=%t matched=%t",
		res.Name, sim, required, margin, mirrored, res.Matched)
	if res.Matched && margin < m.cfg.MarginThreshold {
		log.Debugf("matcher: %s accepted with low margin %.3f", res.Name, margin)
	}
	return res
}

// ranking is the top and runner-up similarity of one orientation.
type ranking struct {
	index  int
	top    float64
	second float64
}

// scan compares v against every gallery vector. With fewer than two
// vectors the runner-up is -1.
func scan(v facevec.FaceVector, g *gallery.Gallery) ranking {
	r := ranking{index: 0, top: facevec.Similarity(v, g.Entries[0].Vector), second: -1}
	for i := 1; i < len(g.Entries); i++ {
		s := facevec.Similarity(v, g.Entries[i].Vector)
		switch {
		case s > r.top:
			r.second = r.top
			r.index, r.top = i, s
		case s > r.second:
			r.second = s
		}
	}
	return r
}
