package web

import (
	"github.com/go-chi/chi/v5"

	"github.com/kunnaall04/Criminal-Face-Identification-System/internal/web/handlers"
)

func (s *Server) setupRoutes() {
	root := s.config.Enrollment.Root

	configHandler := handlers.NewConfigHandler(s.config)
	galleryHandler := handlers.NewGalleryHandler(s.deps.Store, s.deps.Builder, root)
	recognizeHandler := handlers.NewRecognizeHandler(s.deps.Recognizer, s.deps.Records)
	recordsHandler := handlers.NewRecordsHandler(s.deps.Records)
	enrollHandler := handlers.NewEnrollHandler(s.deps.Enroller, galleryHandler, s.deps.Records)

	s.router.Get("/api/v1/health", handlers.HealthCheck)

	s.router.Route("/api/v1", func(r chi.Router) {
		r.Get("/config", configHandler.Get)

		// Gallery
		r.Get("/gallery", galleryHandler.Get)
		r.Post("/gallery/rebuild", galleryHandler.Rebuild)
		r.Get("/gallery/outliers", galleryHandler.Outliers)

		// Recognition and registration
		r.Post("/recognize", recognizeHandler.Recognize)
		r.Post("/enroll", enrollHandler.Enroll)

		// Records
		r.Post("/records", recordsHandler.Create)
		r.Get("/records/{name}", recordsHandler.Get)
		r.Delete("/records/{name}", recordsHandler.Delete)
	})
}
