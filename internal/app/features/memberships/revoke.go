// internal/app/features/memberships/revoke.go
package memberships

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"

	"github.com/dalemusser/gardenhub/internal/app/policy/gardenpolicy"
	gardenstore "github.com/dalemusser/gardenhub/internal/app/store/gardens"
	membershipstore "github.com/dalemusser/gardenhub/internal/app/store/memberships"
	"github.com/dalemusser/gardenhub/internal/app/system/apperror"
	"github.com/dalemusser/gardenhub/internal/app/system/auth"
	"github.com/dalemusser/gardenhub/internal/app/system/authz"
	"github.com/dalemusser/gardenhub/internal/app/system/timeouts"
	"github.com/dalemusser/gardenhub/internal/app/system/txn"
)

// HandleRevoke handles POST /gardens/{id}/memberships/revoke.
//
// Admin only, and never against the admin's own membership (that is
// what leave is for) or the creator's (the creator holds an admin
// membership for the garden's whole lifetime).
func (h *Handler) HandleRevoke(w http.ResponseWriter, r *http.Request) {
	c, err := auth.RequireClient(r)
	if err != nil {
		apperror.WriteJSON(w, h.Log, err)
		return
	}
	gardenID := chi.URLParam(r, "id")

	var req targetRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		apperror.WriteJSON(w, h.Log, apperror.Validation("Request body must be valid JSON."))
		return
	}
	targetID, err := req.profileID()
	if err != nil {
		apperror.WriteJSON(w, h.Log, err)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	g, err := gardenpolicy.RequireRole(ctx, h.DB, c.ProfileID, gardenID, authz.RoleAdmin)
	if err != nil {
		apperror.WriteJSON(w, h.Log, err)
		return
	}
	if targetID == c.ProfileID {
		apperror.WriteJSON(w, h.Log, apperror.Validation("Cannot revoke own membership - leave instead."))
		return
	}
	if targetID == g.CreatorID {
		apperror.WriteJSON(w, h.Log, apperror.Validation("You cannot revoke the membership of the garden's creator."))
		return
	}

	gardens := gardenstore.New(h.DB)
	memberships := membershipstore.New(h.DB)

	m, err := memberships.Get(ctx, gardenID, targetID)
	if err == mongo.ErrNoDocuments {
		apperror.WriteJSON(w, h.Log, apperror.NotFound("The membership in this garden does not exist."))
		return
	}
	if err != nil {
		h.Log.Error("membership revoke: load membership", zap.Error(err), zap.String("garden_id", gardenID))
		apperror.WriteJSON(w, h.Log, apperror.Persistence("Failed to revoke the membership."))
		return
	}

	err = txn.Run(ctx, h.DB.Client(), h.Log, func(ctx context.Context) error {
		if err := memberships.Delete(ctx, m.ID); err != nil {
			return err
		}
		return gardens.PullFromRoleSets(ctx, gardenID, targetID)
	})
	if err != nil {
		h.Log.Error("membership revoke: transaction", zap.Error(err), zap.String("garden_id", gardenID))
		apperror.WriteJSON(w, h.Log, apperror.Persistence("Failed to revoke the membership."))
		return
	}

	h.Log.Info("membership revoked",
		zap.String("garden_id", gardenID),
		zap.String("profile_id", targetID.Hex()),
		zap.String("revoked_by", c.ProfileID.Hex()))

	w.WriteHeader(http.StatusNoContent)
}
