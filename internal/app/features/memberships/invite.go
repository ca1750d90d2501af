// internal/app/features/memberships/invite.go
package memberships

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"

	"github.com/dalemusser/gardenhub/internal/app/policy/gardenpolicy"
	gardenstore "github.com/dalemusser/gardenhub/internal/app/store/gardens"
	membershipstore "github.com/dalemusser/gardenhub/internal/app/store/memberships"
	profilestore "github.com/dalemusser/gardenhub/internal/app/store/profiles"
	"github.com/dalemusser/gardenhub/internal/app/system/apperror"
	"github.com/dalemusser/gardenhub/internal/app/system/auth"
	"github.com/dalemusser/gardenhub/internal/app/system/authz"
	"github.com/dalemusser/gardenhub/internal/app/system/timeouts"
	"github.com/dalemusser/gardenhub/internal/app/system/txn"
)

// HandleInvite handles POST /gardens/{id}/memberships.
//
// Admin only. Usernames already holding a role in the garden are
// silently dropped; the rest get a pending membership and their ID
// added to the matching role set, all in one transaction. Empty
// invite lists are a no-op that reports zero invited.
func (h *Handler) HandleInvite(w http.ResponseWriter, r *http.Request) {
	c, err := auth.RequireClient(r)
	if err != nil {
		apperror.WriteJSON(w, h.Log, err)
		return
	}
	gardenID := chi.URLParam(r, "id")

	var req inviteRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		apperror.WriteJSON(w, h.Log, apperror.Validation("Request body must be valid JSON."))
		return
	}
	if err := req.validate(); err != nil {
		apperror.WriteJSON(w, h.Log, err)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Long())
	defer cancel()

	g, err := gardenpolicy.RequireRole(ctx, h.DB, c.ProfileID, gardenID, authz.RoleAdmin)
	if err != nil {
		apperror.WriteJSON(w, h.Log, err)
		return
	}

	gardens := gardenstore.New(h.DB)
	memberships := membershipstore.New(h.DB)
	profiles := profilestore.New(h.DB)
	failed := apperror.Persistence("Failed to invite users.")

	adminIDs, err1 := profiles.ResolveNewMemberIDs(ctx, req.AdminInvites, g)
	editorIDs, err2 := profiles.ResolveNewMemberIDs(ctx, req.EditorInvites, g)
	viewerIDs, err3 := profiles.ResolveNewMemberIDs(ctx, req.ViewerInvites, g)
	if err := errors.Join(err1, err2, err3); err != nil {
		h.Log.Error("membership invite: resolve invitees", zap.Error(err), zap.String("garden_id", gardenID))
		apperror.WriteJSON(w, h.Log, failed)
		return
	}

	// An ID named in several role lists lands in the most privileged one.
	editorIDs = withoutIDs(editorIDs, adminIDs)
	viewerIDs = withoutIDs(viewerIDs, append(adminIDs, editorIDs...))

	err = txn.Run(ctx, h.DB.Client(), h.Log, func(ctx context.Context) error {
		for _, invite := range []struct {
			role authz.Role
			ids  []primitive.ObjectID
		}{
			{authz.RoleAdmin, adminIDs},
			{authz.RoleEditor, editorIDs},
			{authz.RoleViewer, viewerIDs},
		} {
			if len(invite.ids) == 0 {
				continue
			}
			if err := gardens.AddToRoleSet(ctx, g.ID, invite.role, invite.ids); err != nil {
				return err
			}
			if err := memberships.InsertInvites(ctx, g.ID, c.ProfileID, invite.role, invite.ids); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		h.Log.Error("membership invite: transaction", zap.Error(err), zap.String("garden_id", gardenID))
		apperror.WriteJSON(w, h.Log, failed)
		return
	}

	h.Log.Info("memberships invited",
		zap.String("garden_id", g.ID),
		zap.String("inviter_id", c.ProfileID.Hex()),
		zap.Int("count", len(adminIDs)+len(editorIDs)+len(viewerIDs)))

	writeJSON(w, http.StatusOK, map[string]int{
		"invited": len(adminIDs) + len(editorIDs) + len(viewerIDs),
	})
}

// withoutIDs returns ids minus any that appear in exclude.
func withoutIDs(ids, exclude []primitive.ObjectID) []primitive.ObjectID {
	out := make([]primitive.ObjectID, 0, len(ids))
	for _, id := range ids {
		skip := false
		for _, ex := range exclude {
			if id == ex {
				skip = true
				break
			}
		}
		if !skip {
			out = append(out, id)
		}
	}
	return out
}
