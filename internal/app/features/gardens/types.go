// internal/app/features/gardens/types.go
package gardens

import (
	"fmt"
	"strings"
	"time"

	"github.com/dalemusser/gardenhub/internal/app/system/apperror"
	"github.com/dalemusser/gardenhub/internal/app/system/inputval"
	"github.com/dalemusser/gardenhub/internal/app/system/sanitize"
	"github.com/dalemusser/gardenhub/internal/domain/models"
)

// createRequest is the JSON body for POST /gardens.
// ID may be blank, in which case the server generates a key.
type createRequest struct {
	ID            string   `json:"id"`
	Name          string   `json:"name"`
	Visibility    string   `json:"visibility"`
	Description   string   `json:"description"`
	AdminInvites  []string `json:"adminInvites"`
	EditorInvites []string `json:"editorInvites"`
	ViewerInvites []string `json:"viewerInvites"`
}

func (req *createRequest) validate() error {
	req.ID = strings.TrimSpace(req.ID)
	req.Name = sanitize.Plain(req.Name)
	req.Description = sanitize.Description(req.Description)
	if req.Visibility == "" {
		req.Visibility = models.VisibilityHidden
	}

	e := apperror.Validation("Garden was rejected.")
	if req.ID != "" {
		switch {
		case len(req.ID) < inputval.GardenKeyMinLen:
			e.WithField("id", fmt.Sprintf("Key must be at least %d characters.", inputval.GardenKeyMinLen))
		case len(req.ID) > inputval.GardenKeyMaxLen:
			e.WithField("id", fmt.Sprintf("Key must be at most %d characters.", inputval.GardenKeyMaxLen))
		case !inputval.IsValidGardenKey(req.ID):
			e.WithField("id", "Key may only contain lowercase letters, numbers and hyphens.")
		}
	}
	switch {
	case req.Name == "":
		e.WithField("name", "Name is required.")
	case len(req.Name) > inputval.GardenNameMaxLen:
		e.WithField("name", fmt.Sprintf("Name must be at most %d characters.", inputval.GardenNameMaxLen))
	}
	if req.Visibility != models.VisibilityPublic && req.Visibility != models.VisibilityHidden {
		e.WithField("visibility", "Visibility must be public or hidden.")
	}
	if len(req.Description) > inputval.DescriptionMaxLen {
		e.WithField("description", fmt.Sprintf("Description must be at most %d characters.", inputval.DescriptionMaxLen))
	}
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

// memberView is one membership row in a garden view.
type memberView struct {
	ProfileID  string     `json:"profile_id"`
	Username   string     `json:"username"`
	Role       string     `json:"role"`
	Status     string     `json:"status"`
	AcceptedAt *time.Time `json:"accepted_at,omitempty"`
}

// gardenView is the JSON shape for GET /gardens/{id}.
type gardenView struct {
	models.Garden
	Members []memberView `json:"members"`
}
