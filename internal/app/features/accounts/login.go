// internal/app/features/accounts/login.go
package accounts

import (
	"context"
	"encoding/json"
	"net/http"

	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	profilestore "github.com/dalemusser/gardenhub/internal/app/store/profiles"
	userstore "github.com/dalemusser/gardenhub/internal/app/store/users"
	"github.com/dalemusser/gardenhub/internal/app/system/apperror"
	"github.com/dalemusser/gardenhub/internal/app/system/ratelimit"
	"github.com/dalemusser/gardenhub/internal/app/system/timeouts"
)

// HandleLogin handles POST /accounts/login.
// Attempts are rate limited per IP and per email, and failures never
// reveal whether the email exists.
func (h *Handler) HandleLogin(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		apperror.WriteJSON(w, h.Log, apperror.Validation("Request body must be valid JSON."))
		return
	}
	if err := req.validate(); err != nil {
		apperror.WriteJSON(w, h.Log, err)
		return
	}

	if ok, reason := h.LoginLimiter.Check(r, req.Email); !ok {
		h.Log.Warn("login: rate limited", zap.String("ip", ratelimit.ClientIP(r)))
		w.Header().Set("Retry-After", "60")
		writeJSON(w, http.StatusTooManyRequests, map[string]string{"error": reason})
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Short())
	defer cancel()

	badCredentials := apperror.Authentication("Invalid email or password.")

	user, err := userstore.New(h.DB).GetByEmail(ctx, req.Email)
	if err == mongo.ErrNoDocuments {
		apperror.WriteJSON(w, h.Log, badCredentials)
		return
	}
	if err != nil {
		h.Log.Error("login: load account", zap.Error(err))
		apperror.WriteJSON(w, h.Log, apperror.Persistence("Could not sign in."))
		return
	}
	if user.Status != "active" || user.PasswordHash == nil {
		apperror.WriteJSON(w, h.Log, badCredentials)
		return
	}
	if bcrypt.CompareHashAndPassword([]byte(*user.PasswordHash), []byte(req.Password)) != nil {
		apperror.WriteJSON(w, h.Log, badCredentials)
		return
	}

	profile, err := profilestore.New(h.DB).GetByUserID(ctx, user.ID)
	if err != nil {
		h.Log.Error("login: load profile", zap.Error(err), zap.String("user_id", user.ID.Hex()))
		apperror.WriteJSON(w, h.Log, apperror.Persistence("Could not sign in."))
		return
	}

	if err := h.SessionMgr.SignIn(w, r, user.ID); err != nil {
		h.Log.Error("login: sign in", zap.Error(err), zap.String("user_id", user.ID.Hex()))
		apperror.WriteJSON(w, h.Log, apperror.Persistence("Could not sign in."))
		return
	}

	h.LoginLimiter.ResetEmail(req.Email)

	writeJSON(w, http.StatusOK, accountResponse{
		ID:       user.ID.Hex(),
		Email:    user.Email,
		Username: profile.Username,
	})
}

// HandleLogout handles POST /accounts/logout.
func (h *Handler) HandleLogout(w http.ResponseWriter, r *http.Request) {
	if err := h.SessionMgr.SignOut(w, r); err != nil {
		h.Log.Warn("logout: clear session", zap.Error(err))
	}
	w.WriteHeader(http.StatusNoContent)
}
