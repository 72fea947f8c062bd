package handlers

import (
	"context"
	"net/http"
	"time"

	"github.com/kunnaall04/Criminal-Face-Identification-System/internal/gallery"
)

// GalleryHandler exposes the trained gallery and rebuilds it on demand.
type GalleryHandler struct {
	store   *gallery.Store
	builder *gallery.Builder
	root    string
}

// NewGalleryHandler creates a gallery handler for the enrollment tree at root.
func NewGalleryHandler(store *gallery.Store, builder *gallery.Builder, root string) *GalleryHandler {
	return &GalleryHandler{store: store, builder: builder, root: root}
}

// GalleryResponse summarizes a gallery.
type GalleryResponse struct {
	Images     int                       `json:"images"`
	Identities []gallery.IdentitySummary `json:"identities"`
	BuiltAt    time.Time                 `json:"built_at"`
}

func newGalleryResponse(g *gallery.Gallery) GalleryResponse {
	return GalleryResponse{
		Images:     g.Len(),
		Identities: gallery.Summarize(g),
		BuiltAt:    g.BuiltAt,
	}
}

// Get returns the current gallery summary.
func (h *GalleryHandler) Get(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, newGalleryResponse(h.store.Load()))
}

// Rebuild rescans the enrollment tree and swaps the new gallery in.
func (h *GalleryHandler) Rebuild(w http.ResponseWriter, r *http.Request) {
	g, err := h.rebuild(r.Context())
	if err != nil {
		log.Errorf("web: rebuilding gallery: %v", err)
		respondError(w, http.StatusInternalServerError, "failed to rebuild gallery")
		return
	}
	respondJSON(w, http.StatusOK, newGalleryResponse(g))
}

// Outliers lists enrollment images that fall below their identity's threshold.
func (h *GalleryHandler) Outliers(w http.ResponseWriter, r *http.Request) {
	out := gallery.Outliers(h.store.Load())
	if out == nil {
		out = []gallery.Outlier{}
	}
	respondJSON(w, http.StatusOK, out)
}

func (h *GalleryHandler) rebuild(ctx context.Context) (*gallery.Gallery, error) {
	return h.store.Rebuild(ctx, h.builder, h.root)
}
