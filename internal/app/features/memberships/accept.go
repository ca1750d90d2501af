// internal/app/features/memberships/accept.go
package memberships

import (
	"context"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"

	membershipstore "github.com/dalemusser/gardenhub/internal/app/store/memberships"
	"github.com/dalemusser/gardenhub/internal/app/system/apperror"
	"github.com/dalemusser/gardenhub/internal/app/system/auth"
	"github.com/dalemusser/gardenhub/internal/app/system/timeouts"
	"github.com/dalemusser/gardenhub/internal/domain/models"
)

// HandleAccept handles POST /gardens/{id}/memberships/accept.
//
// Accepts the client's own pending invite. The garden's role set
// already carries the ID, so only the membership document changes.
func (h *Handler) HandleAccept(w http.ResponseWriter, r *http.Request) {
	c, err := auth.RequireClient(r)
	if err != nil {
		apperror.WriteJSON(w, h.Log, err)
		return
	}
	gardenID := chi.URLParam(r, "id")

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Short())
	defer cancel()

	memberships := membershipstore.New(h.DB)

	m, err := memberships.Get(ctx, gardenID, c.ProfileID)
	if err == mongo.ErrNoDocuments {
		apperror.WriteJSON(w, h.Log, apperror.NotFound("The invite to this garden does not exist."))
		return
	}
	if err != nil {
		h.Log.Error("membership accept: load membership", zap.Error(err), zap.String("garden_id", gardenID))
		apperror.WriteJSON(w, h.Log, apperror.Persistence("Failed to accept the invite."))
		return
	}
	if m.Status == models.MembershipAccepted {
		apperror.WriteJSON(w, h.Log, apperror.Conflict("The invite to this garden is already accepted."))
		return
	}

	if err := memberships.Accept(ctx, m.ID, time.Now().UTC()); err != nil {
		h.Log.Error("membership accept: update", zap.Error(err), zap.String("membership_id", m.ID.Hex()))
		apperror.WriteJSON(w, h.Log, apperror.Persistence("Failed to accept the invite."))
		return
	}

	h.Log.Info("membership accepted",
		zap.String("garden_id", gardenID),
		zap.String("profile_id", c.ProfileID.Hex()))

	w.WriteHeader(http.StatusNoContent)
}
