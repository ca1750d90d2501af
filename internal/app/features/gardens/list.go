// internal/app/features/gardens/list.go
package gardens

import (
	"context"
	"net/http"

	"go.uber.org/zap"

	gardenstore "github.com/dalemusser/gardenhub/internal/app/store/gardens"
	"github.com/dalemusser/gardenhub/internal/app/system/apperror"
	"github.com/dalemusser/gardenhub/internal/app/system/auth"
	"github.com/dalemusser/gardenhub/internal/app/system/timeouts"
	"github.com/dalemusser/gardenhub/internal/domain/models"
)

// HandleList handles GET /gardens.
// Returns every garden where the client's profile holds any role.
func (h *Handler) HandleList(w http.ResponseWriter, r *http.Request) {
	c, err := auth.RequireClient(r)
	if err != nil {
		apperror.WriteJSON(w, h.Log, err)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	list, err := gardenstore.New(h.DB).ListByProfile(ctx, c.ProfileID)
	if err != nil {
		h.Log.Error("garden list", zap.Error(err), zap.String("profile_id", c.ProfileID.Hex()))
		apperror.WriteJSON(w, h.Log, apperror.Persistence("Could not load gardens."))
		return
	}
	if list == nil {
		list = []models.Garden{}
	}

	writeJSON(w, http.StatusOK, list)
}
