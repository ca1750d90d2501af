// internal/app/features/gardens/routes.go
package gardens

import "github.com/go-chi/chi/v5"

// Routes returns the router for garden endpoints. The membership
// lifecycle router is mounted under each garden so its handlers can
// read the garden key from the "id" URL parameter.
func Routes(h *Handler, membershipRoutes chi.Router) chi.Router {
	r := chi.NewRouter()

	r.Post("/", h.HandleCreate)
	r.Get("/", h.HandleList)
	r.Get("/{id}", h.HandleView)
	r.Mount("/{id}/memberships", membershipRoutes)

	return r
}
