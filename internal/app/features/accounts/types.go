// internal/app/features/accounts/types.go
package accounts

import (
	"fmt"
	"strings"

	"github.com/dalemusser/gardenhub/internal/app/system/apperror"
	"github.com/dalemusser/gardenhub/internal/app/system/inputval"
)

// registerRequest is the JSON body for POST /accounts/register.
type registerRequest struct {
	Email    string `json:"email"`
	Username string `json:"username"`
	Password string `json:"password"`
}

// loginRequest is the JSON body for POST /accounts/login.
type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// accountResponse is what register and login return on success.
type accountResponse struct {
	ID       string `json:"id"`
	Email    string `json:"email"`
	Username string `json:"username"`
}

func (req *registerRequest) validate() error {
	req.Email = strings.TrimSpace(req.Email)
	req.Username = strings.TrimSpace(req.Username)

	e := apperror.Validation("Registration was rejected.")
	if !inputval.IsValidEmail(req.Email) {
		e.WithField("email", "Enter a valid email address.")
	}
	switch {
	case len(req.Username) < inputval.UsernameMinLen:
		e.WithField("username", fmt.Sprintf("Username must be at least %d characters.", inputval.UsernameMinLen))
	case len(req.Username) > inputval.UsernameMaxLen:
		e.WithField("username", fmt.Sprintf("Username must be at most %d characters.", inputval.UsernameMaxLen))
	case !inputval.IsValidUsername(req.Username):
		e.WithField("username", "Username may only contain letters, numbers, hyphens and underscores.")
	}
	if len(req.Password) < inputval.PasswordMinLen {
		e.WithField("password", fmt.Sprintf("Password must be at least %d characters.", inputval.PasswordMinLen))
	}
	if len(e.FieldErrors) > 0 {
		return e
	}
	return nil
}

func (req *loginRequest) validate() error {
	req.Email = strings.TrimSpace(req.Email)
	if req.Email == "" || req.Password == "" {
		return apperror.Authentication("Invalid email or password.")
	}
	return nil
}
