package handlers

import "github.com/go-chi/chi/v5"

// RegisterRoutes mounts the allocation engine's endpoints onto the given
// router.
func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Post("/allocate", h.HandleAllocate)
	r.Post("/analyze", h.HandleAnalyze)
}
