// internal/app/features/memberships/rolechange.go
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

// HandleRoleChange handles POST /gardens/{id}/memberships/role.
//
// Admin only. The admin's own role and the creator's role are off
// limits, and the new role must differ from the current one. The ID
// moves between role sets and the membership document is updated in
// one transaction.
func (h *Handler) HandleRoleChange(w http.ResponseWriter, r *http.Request) {
	c, err := auth.RequireClient(r)
	if err != nil {
		apperror.WriteJSON(w, h.Log, err)
		return
	}
	gardenID := chi.URLParam(r, "id")

	var req roleChangeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		apperror.WriteJSON(w, h.Log, apperror.Validation("Request body must be valid JSON."))
		return
	}
	targetID, err := req.profileID()
	if err != nil {
		apperror.WriteJSON(w, h.Log, err)
		return
	}
	newRole, err := req.newRole()
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
		apperror.WriteJSON(w, h.Log, apperror.Validation("You cannot change the role of your own membership."))
		return
	}
	if targetID == g.CreatorID {
		apperror.WriteJSON(w, h.Log, apperror.Validation("You cannot change the role of the garden's creator."))
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
		h.Log.Error("membership role change: load membership", zap.Error(err), zap.String("garden_id", gardenID))
		apperror.WriteJSON(w, h.Log, apperror.Persistence("Failed to change the role."))
		return
	}
	if string(newRole) == m.Role {
		apperror.WriteJSON(w, h.Log,
			apperror.Validation("Role to be changed is not different.").WithField("newRole", "The user already has this role."))
		return
	}

	// The membership exists, so the ID must be in one of the role sets.
	if _, ok := authz.RoleOf(g, targetID); !ok {
		h.Log.Error("membership role change: id missing from role sets",
			zap.String("garden_id", gardenID),
			zap.String("profile_id", targetID.Hex()))
		apperror.WriteJSON(w, h.Log, apperror.Persistence("Something went wrong."))
		return
	}

	err = txn.Run(ctx, h.DB.Client(), h.Log, func(ctx context.Context) error {
		if err := gardens.MoveRole(ctx, gardenID, targetID, newRole); err != nil {
			return err
		}
		return memberships.UpdateRole(ctx, m.ID, newRole)
	})
	if err != nil {
		h.Log.Error("membership role change: transaction", zap.Error(err), zap.String("garden_id", gardenID))
		apperror.WriteJSON(w, h.Log, apperror.Persistence("Failed to change the role."))
		return
	}

	h.Log.Info("membership role changed",
		zap.String("garden_id", gardenID),
		zap.String("profile_id", targetID.Hex()),
		zap.String("old_role", m.Role),
		zap.String("new_role", string(newRole)),
		zap.String("changed_by", c.ProfileID.Hex()))

	w.WriteHeader(http.StatusNoContent)
}
