package workflow

import (
	"github.com/go-chi/chi/v5"
)

// RegisterRoutes registers workflow session routes
func RegisterRoutes(r chi.Router, h *Handler) {
	r.Route("/sessions", func(r chi.Router) {
		r.Post("/", h.CreateSession)
		r.Get("/{id}", h.GetSession)
		r.Delete("/{id}", h.DeleteSession)
		r.Post("/{id}/project", h.SubmitProject)
		r.Post("/{id}/document", h.UploadDocument)
		r.Post("/{id}/visual", h.GenerateVisual)
		r.Post("/{id}/back", h.BackToUpload)
		r.Post("/{id}/exports", h.CreateExport)
		r.Get("/{id}/exports/{export_id}", h.DownloadExport)
	})
}
