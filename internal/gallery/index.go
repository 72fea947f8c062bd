package gallery

import (
	"sort"

	"github.com/coder/hnsw"

	"github.com/kunnaall04/Criminal-Face-Identification-System/internal/facevec"
)

// indexMaxNeighbors is the HNSW M parameter.
const indexMaxNeighbors = 16

// Neighbor is a gallery entry close to a query vector.
type Neighbor struct {
	Entry      Entry
	Name       string
	Similarity float64
}

// Index is an approximate nearest-neighbor view over a gallery, used for
// diagnostics. Matching itself always scans the full gallery. The graph is
// never modified after NewIndex, so concurrent Neighbors calls need no lock.
type Index struct {
	graph   *hnsw.Graph[int]
	gallery *Gallery
	size    int
}

// NewIndex builds an index over every non-zero vector of g.
func NewIndex(g *Gallery) *Index {
	idx := &Index{gallery: g}
	if g.IsEmpty() {
		return idx
	}

	graph := hnsw.NewGraph[int]()
	graph.M = indexMaxNeighbors
	graph.Ml = 1.0 / float64(indexMaxNeighbors)
	graph.Distance = hnsw.CosineDistance

	added := 0
	for i, e := range g.Entries {
		// cosine distance is undefined for the zero vector
		if e.Vector.IsZero() {
			continue
		}
		graph.Add(hnsw.MakeNode(i, e.Vector.Float32()))
		added++
	}
	if added > 0 {
		idx.graph = graph
		idx.size = added
	}
	return idx
}

// Len returns the number of indexed vectors.
func (idx *Index) Len() int {
	return idx.size
}

// Neighbors returns up to k entries nearest to v, most similar first.
// Similarities are recomputed exactly from the gallery vectors.
func (idx *Index) Neighbors(v facevec.FaceVector, k int) []Neighbor {
	if idx.graph == nil || k <= 0 || v.IsZero() {
		return nil
	}

	nodes := idx.graph.Search(v.Float32(), k)
	out := make([]Neighbor, 0, len(nodes))
	for _, n := range nodes {
		e := idx.gallery.Entries[n.Key]
		out = append(out, Neighbor{
			Entry:      e,
			Name:       idx.gallery.Name(e.Label),
			Similarity: facevec.Similarity(v, e.Vector),
		})
	}

	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Similarity > out[j].Similarity
	})
	return out
}
