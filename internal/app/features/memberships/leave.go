// internal/app/features/memberships/leave.go
package memberships

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"

	gardenstore "github.com/dalemusser/gardenhub/internal/app/store/gardens"
	membershipstore "github.com/dalemusser/gardenhub/internal/app/store/memberships"
	"github.com/dalemusser/gardenhub/internal/app/system/apperror"
	"github.com/dalemusser/gardenhub/internal/app/system/auth"
	"github.com/dalemusser/gardenhub/internal/app/system/timeouts"
	"github.com/dalemusser/gardenhub/internal/app/system/txn"
)

// HandleLeave handles POST /gardens/{id}/memberships/leave.
//
// Deletes the client's own membership, pending or accepted, and pulls
// the ID out of the garden's role sets in the same transaction. The
// creator cannot leave: the creator holds an admin membership for the
// garden's whole lifetime.
func (h *Handler) HandleLeave(w http.ResponseWriter, r *http.Request) {
	c, err := auth.RequireClient(r)
	if err != nil {
		apperror.WriteJSON(w, h.Log, err)
		return
	}
	gardenID := chi.URLParam(r, "id")

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	gardens := gardenstore.New(h.DB)
	memberships := membershipstore.New(h.DB)

	g, err := gardens.GetByID(ctx, gardenID)
	if err == mongo.ErrNoDocuments {
		apperror.WriteJSON(w, h.Log, apperror.NotFound("Garden not found."))
		return
	}
	if err != nil {
		h.Log.Error("membership leave: load garden", zap.Error(err), zap.String("garden_id", gardenID))
		apperror.WriteJSON(w, h.Log, apperror.Persistence("Failed to leave the garden."))
		return
	}
	if c.ProfileID == g.CreatorID {
		apperror.WriteJSON(w, h.Log, apperror.Validation("The garden's creator cannot leave the garden."))
		return
	}

	m, err := memberships.Get(ctx, gardenID, c.ProfileID)
	if err == mongo.ErrNoDocuments {
		apperror.WriteJSON(w, h.Log, apperror.NotFound("The membership in this garden does not exist."))
		return
	}
	if err != nil {
		h.Log.Error("membership leave: load membership", zap.Error(err), zap.String("garden_id", gardenID))
		apperror.WriteJSON(w, h.Log, apperror.Persistence("Failed to leave the garden."))
		return
	}

	err = txn.Run(ctx, h.DB.Client(), h.Log, func(ctx context.Context) error {
		if err := memberships.Delete(ctx, m.ID); err != nil {
			return err
		}
		return gardens.PullFromRoleSets(ctx, gardenID, c.ProfileID)
	})
	if err != nil {
		h.Log.Error("membership leave: transaction", zap.Error(err), zap.String("garden_id", gardenID))
		apperror.WriteJSON(w, h.Log, apperror.Persistence("Failed to leave the garden."))
		return
	}

	h.Log.Info("membership left",
		zap.String("garden_id", gardenID),
		zap.String("profile_id", c.ProfileID.Hex()))

	w.WriteHeader(http.StatusNoContent)
}
