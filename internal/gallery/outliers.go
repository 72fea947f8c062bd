package gallery

import (
	"sort"

	"github.com/kunnaall04/Criminal-Face-Identification-System/internal/facevec"
)

// Outlier is an enrollment image that scores below its own identity's
// threshold against the identity centroid. Such images usually are
// mislabeled or badly cropped.
type Outlier struct {
	Label      int     `json:"label"`
	Name       string  `json:"name"`
	Source     string  `json:"source"`
	Similarity float64 `json:"similarity"`
	Threshold  float64 `json:"threshold"`
}

// Outliers lists entries below their identity threshold, least similar first.
func Outliers(g *Gallery) []Outlier {
	var out []Outlier
	for _, e := range g.Entries {
		centroid, ok := g.Centroids[e.Label]
		if !ok {
			continue
		}
		threshold := g.Thresholds[e.Label]
		sim := facevec.Similarity(e.Vector, centroid)
		if sim >= threshold {
			continue
		}
		out = append(out, Outlier{
			Label:      e.Label,
			Name:       g.Name(e.Label),
			Source:     e.Source,
			Similarity: sim,
			Threshold:  threshold,
		})
	}

	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Similarity < out[j].Similarity
	})
	return out
}
