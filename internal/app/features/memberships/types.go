// internal/app/features/memberships/types.go
package memberships

import (
	"fmt"
	"strings"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/dalemusser/gardenhub/internal/app/system/apperror"
	"github.com/dalemusser/gardenhub/internal/app/system/authz"
	"github.com/dalemusser/gardenhub/internal/app/system/inputval"
)

// inviteRequest is the JSON body for POST /gardens/{id}/memberships.
type inviteRequest struct {
	AdminInvites  []string `json:"adminInvites"`
	EditorInvites []string `json:"editorInvites"`
	ViewerInvites []string `json:"viewerInvites"`
}

func (req *inviteRequest) validate() error {
	e := apperror.Validation("Invites were rejected.")
	for _, field := range []struct {
		name  string
		names []string
	}{
		{"adminInvites", req.AdminInvites},
		{"editorInvites", req.EditorInvites},
		{"viewerInvites", req.ViewerInvites},
	} {
		for _, u := range field.names {
			if !inputval.IsValidUsername(strings.TrimSpace(u)) {
				e.WithField(field.name, fmt.Sprintf("%q is not a valid username.", u))
				break
			}
		}
	}
	if len(e.FieldErrors) > 0 {
		return e
	}
	return nil
}

// targetRequest is the JSON body for revoke: the profile whose
// membership the admin acts on.
type targetRequest struct {
	ProfileID string `json:"profileId"`
}

func (req *targetRequest) profileID() (primitive.ObjectID, error) {
	id, err := primitive.ObjectIDFromHex(strings.TrimSpace(req.ProfileID))
	if err != nil {
		return primitive.NilObjectID, apperror.Validation("Request was rejected.").
			WithField("profileId", "Enter a valid profile ID.")
	}
	return id, nil
}

// roleChangeRequest is the JSON body for POST .../memberships/role.
type roleChangeRequest struct {
	targetRequest
	NewRole string `json:"newRole"`
}

func (req *roleChangeRequest) newRole() (authz.Role, error) {
	role, err := authz.ParseRole(strings.TrimSpace(req.NewRole))
	if err != nil {
		return "", apperror.Validation("Request was rejected.").
			WithField("newRole", "Role must be admin, editor or viewer.")
	}
	return role, nil
}
