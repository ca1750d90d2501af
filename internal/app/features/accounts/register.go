// internal/app/features/accounts/register.go
package accounts

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	profilestore "github.com/dalemusser/gardenhub/internal/app/store/profiles"
	userstore "github.com/dalemusser/gardenhub/internal/app/store/users"
	"github.com/dalemusser/gardenhub/internal/app/system/apperror"
	"github.com/dalemusser/gardenhub/internal/app/system/timeouts"
	"github.com/dalemusser/gardenhub/internal/app/system/txn"
	"github.com/dalemusser/gardenhub/internal/domain/models"
)

const bcryptCost = 12

// HandleRegister handles POST /accounts/register.
// Creates the account and its profile together, then signs the new
// account in.
func (h *Handler) HandleRegister(w http.ResponseWriter, r *http.Request) {
	var req registerRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		apperror.WriteJSON(w, h.Log, apperror.Validation("Request body must be valid JSON."))
		return
	}
	if err := req.validate(); err != nil {
		apperror.WriteJSON(w, h.Log, err)
		return
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcryptCost)
	if err != nil {
		h.Log.Error("register: hash password", zap.Error(err))
		apperror.WriteJSON(w, h.Log, apperror.Persistence("Could not create the account."))
		return
	}
	hashStr := string(hash)

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	users := userstore.New(h.DB)
	profiles := profilestore.New(h.DB)

	var user models.User
	var profile models.Profile
	err = txn.Run(ctx, h.DB.Client(), h.Log, func(ctx context.Context) error {
		var err error
		user, err = users.Create(ctx, models.User{
			Email:        req.Email,
			PasswordHash: &hashStr,
		})
		if err != nil {
			return err
		}
		profile, err = profiles.Create(ctx, user.ID, req.Username)
		return err
	})
	switch {
	case errors.Is(err, userstore.ErrDuplicateEmail):
		apperror.WriteJSON(w, h.Log,
			apperror.Conflict("Registration was rejected.").WithField("email", "An account with this email already exists."))
		return
	case errors.Is(err, profilestore.ErrDuplicateUsername):
		apperror.WriteJSON(w, h.Log,
			apperror.Conflict("Registration was rejected.").WithField("username", "This username is taken."))
		return
	case err != nil:
		h.Log.Error("register: create account", zap.Error(err))
		apperror.WriteJSON(w, h.Log, apperror.Persistence("Could not create the account."))
		return
	}

	if err := h.SessionMgr.SignIn(w, r, user.ID); err != nil {
		h.Log.Error("register: sign in", zap.Error(err), zap.String("user_id", user.ID.Hex()))
		apperror.WriteJSON(w, h.Log, apperror.Persistence("Account created, but sign-in failed."))
		return
	}

	h.Log.Info("account registered",
		zap.String("user_id", user.ID.Hex()),
		zap.String("username", profile.Username))

	writeJSON(w, http.StatusCreated, accountResponse{
		ID:       user.ID.Hex(),
		Email:    user.Email,
		Username: profile.Username,
	})
}
