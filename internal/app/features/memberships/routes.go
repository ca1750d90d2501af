// internal/app/features/memberships/routes.go
package memberships

import "github.com/go-chi/chi/v5"

// Routes returns the router for membership lifecycle endpoints. It is
// mounted under /gardens/{id}/memberships so handlers read the garden
// key from the "id" URL parameter.
func Routes(h *Handler) chi.Router {
	r := chi.NewRouter()

	r.Post("/", h.HandleInvite)
	r.Post("/accept", h.HandleAccept)
	r.Post("/leave", h.HandleLeave)
	r.Post("/revoke", h.HandleRevoke)
	r.Post("/role", h.HandleRoleChange)

	return r
}
