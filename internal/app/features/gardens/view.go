// internal/app/features/gardens/view.go
package gardens

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"

	gardenstore "github.com/dalemusser/gardenhub/internal/app/store/gardens"
	membershipstore "github.com/dalemusser/gardenhub/internal/app/store/memberships"
	profilestore "github.com/dalemusser/gardenhub/internal/app/store/profiles"
	"github.com/dalemusser/gardenhub/internal/app/system/apperror"
	"github.com/dalemusser/gardenhub/internal/app/system/auth"
	"github.com/dalemusser/gardenhub/internal/app/system/authz"
	"github.com/dalemusser/gardenhub/internal/app/system/timeouts"
	"github.com/dalemusser/gardenhub/internal/domain/models"
)

// HandleView handles GET /gardens/{id}.
//
// Public gardens are visible to any signed-in client. Hidden gardens
// answer not-found to non-members so their existence is not revealed.
func (h *Handler) HandleView(w http.ResponseWriter, r *http.Request) {
	c, err := auth.RequireClient(r)
	if err != nil {
		apperror.WriteJSON(w, h.Log, err)
		return
	}
	gardenID := chi.URLParam(r, "id")

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	notFound := apperror.NotFound("Garden not found.")

	g, err := gardenstore.New(h.DB).GetByID(ctx, gardenID)
	if err == mongo.ErrNoDocuments {
		apperror.WriteJSON(w, h.Log, notFound)
		return
	}
	if err != nil {
		h.Log.Error("garden view: load garden", zap.Error(err), zap.String("garden_id", gardenID))
		apperror.WriteJSON(w, h.Log, apperror.Persistence("Could not load garden."))
		return
	}
	if g.Visibility != models.VisibilityPublic && !authz.IsMember(&g, c.ProfileID) {
		apperror.WriteJSON(w, h.Log, notFound)
		return
	}

	list, err := membershipstore.New(h.DB).ListByGarden(ctx, g.ID)
	if err != nil {
		h.Log.Error("garden view: load memberships", zap.Error(err), zap.String("garden_id", gardenID))
		apperror.WriteJSON(w, h.Log, apperror.Persistence("Could not load garden."))
		return
	}

	ids := make([]primitive.ObjectID, 0, len(list))
	for _, m := range list {
		ids = append(ids, m.UserID)
	}
	profiles, err := profilestore.New(h.DB).GetByIDs(ctx, ids)
	if err != nil {
		h.Log.Error("garden view: load profiles", zap.Error(err), zap.String("garden_id", gardenID))
		apperror.WriteJSON(w, h.Log, apperror.Persistence("Could not load garden."))
		return
	}
	usernames := make(map[primitive.ObjectID]string, len(profiles))
	for _, p := range profiles {
		usernames[p.ID] = p.Username
	}

	view := gardenView{Garden: g, Members: make([]memberView, 0, len(list))}
	for _, m := range list {
		view.Members = append(view.Members, memberView{
			ProfileID:  m.UserID.Hex(),
			Username:   usernames[m.UserID],
			Role:       m.Role,
			Status:     m.Status,
			AcceptedAt: m.AcceptedAt,
		})
	}

	writeJSON(w, http.StatusOK, view)
}
