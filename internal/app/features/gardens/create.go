// internal/app/features/gardens/create.go
package gardens

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"

	gardenstore "github.com/dalemusser/gardenhub/internal/app/store/gardens"
	membershipstore "github.com/dalemusser/gardenhub/internal/app/store/memberships"
	profilestore "github.com/dalemusser/gardenhub/internal/app/store/profiles"
	"github.com/dalemusser/gardenhub/internal/app/system/apperror"
	"github.com/dalemusser/gardenhub/internal/app/system/auth"
	"github.com/dalemusser/gardenhub/internal/app/system/authz"
	"github.com/dalemusser/gardenhub/internal/app/system/timeouts"
	"github.com/dalemusser/gardenhub/internal/app/system/txn"
	"github.com/dalemusser/gardenhub/internal/domain/models"
)

// HandleCreate handles POST /gardens.
//
// Resolves invitee usernames to profile IDs, force-adds the creator to
// the admin set, then inserts the garden, the creator's accepted
// membership and one pending membership per invitee in one transaction.
func (h *Handler) HandleCreate(w http.ResponseWriter, r *http.Request) {
	c, err := auth.RequireClient(r)
	if err != nil {
		apperror.WriteJSON(w, h.Log, err)
		return
	}

	var req createRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		apperror.WriteJSON(w, h.Log, apperror.Validation("Request body must be valid JSON."))
		return
	}
	if err := req.validate(); err != nil {
		apperror.WriteJSON(w, h.Log, err)
		return
	}
	if req.ID == "" {
		req.ID = uuid.NewString()
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Long())
	defer cancel()

	gardens := gardenstore.New(h.DB)
	memberships := membershipstore.New(h.DB)
	profiles := profilestore.New(h.DB)
	failed := apperror.Persistence("Failed to create garden.")
	keyTaken := apperror.Conflict("Garden ID already exists.").WithField("id", "Key already exists.")

	exists, err := gardens.Exists(ctx, req.ID)
	if err != nil {
		h.Log.Error("garden create: key lookup", zap.Error(err))
		apperror.WriteJSON(w, h.Log, failed)
		return
	}
	if exists {
		apperror.WriteJSON(w, h.Log, keyTaken)
		return
	}

	adminIDs, err1 := profiles.ResolveNewMemberIDs(ctx, req.AdminInvites, nil)
	editorIDs, err2 := profiles.ResolveNewMemberIDs(ctx, req.EditorInvites, nil)
	viewerIDs, err3 := profiles.ResolveNewMemberIDs(ctx, req.ViewerInvites, nil)
	if err := errors.Join(err1, err2, err3); err != nil {
		h.Log.Error("garden create: resolve invitees", zap.Error(err))
		apperror.WriteJSON(w, h.Log, failed)
		return
	}

	// The creator is always an admin; an ID invited into several role
	// lists lands in the most privileged one so the sets stay disjoint.
	inviteeAdmins := withoutIDs(adminIDs, c.ProfileID)
	editorIDs = withoutIDs(editorIDs, append(inviteeAdmins, c.ProfileID)...)
	viewerIDs = withoutIDs(viewerIDs, append(append(inviteeAdmins, editorIDs...), c.ProfileID)...)
	adminIDs = append([]primitive.ObjectID{c.ProfileID}, inviteeAdmins...)

	var created models.Garden
	err = txn.Run(ctx, h.DB.Client(), h.Log, func(ctx context.Context) error {
		var err error
		created, err = gardens.Insert(ctx, models.Garden{
			ID:          req.ID,
			Name:        req.Name,
			Visibility:  req.Visibility,
			Description: req.Description,
			CreatorID:   c.ProfileID,
			AdminIDs:    adminIDs,
			EditorIDs:   editorIDs,
			ViewerIDs:   viewerIDs,
		})
		if err != nil {
			return err
		}
		if err := memberships.InsertAccepted(ctx, created.ID, c.ProfileID, authz.RoleAdmin); err != nil {
			return err
		}
		for _, invite := range []struct {
			role authz.Role
			ids  []primitive.ObjectID
		}{
			{authz.RoleAdmin, inviteeAdmins},
			{authz.RoleEditor, editorIDs},
			{authz.RoleViewer, viewerIDs},
		} {
			if err := memberships.InsertInvites(ctx, created.ID, c.ProfileID, invite.role, invite.ids); err != nil {
				return err
			}
		}
		return nil
	})
	if errors.Is(err, gardenstore.ErrDuplicateKey) {
		apperror.WriteJSON(w, h.Log, keyTaken)
		return
	}
	if err != nil {
		h.Log.Error("garden create: transaction", zap.Error(err), zap.String("garden_id", req.ID))
		apperror.WriteJSON(w, h.Log, failed)
		return
	}
	if created.ID == "" {
		apperror.WriteJSON(w, h.Log, failed)
		return
	}

	h.Log.Info("garden created",
		zap.String("garden_id", created.ID),
		zap.String("creator_id", c.ProfileID.Hex()))

	writeJSON(w, http.StatusCreated, created)
}

// withoutIDs returns ids minus any that appear in exclude.
func withoutIDs(ids []primitive.ObjectID, exclude ...primitive.ObjectID) []primitive.ObjectID {
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
