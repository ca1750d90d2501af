// internal/app/features/authgoogle/handler.go
package authgoogle

import (
	"context"
	"crypto/rand"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"

	"github.com/dalemusser/gardenhub/internal/app/store/oauthstate"
	profilestore "github.com/dalemusser/gardenhub/internal/app/store/profiles"
	userstore "github.com/dalemusser/gardenhub/internal/app/store/users"
	"github.com/dalemusser/gardenhub/internal/app/system/auth"
	"github.com/dalemusser/gardenhub/internal/app/system/inputval"
	"github.com/dalemusser/gardenhub/internal/app/system/timeouts"
	"github.com/dalemusser/gardenhub/internal/app/system/txn"
	"github.com/dalemusser/gardenhub/internal/domain/models"
)

// Handler handles Google OAuth authentication.
type Handler struct {
	DB         *mongo.Database
	Log        *zap.Logger
	SessionMgr *auth.SessionManager
	StateStore *oauthstate.Store

	ClientID     string
	ClientSecret string
	RedirectURL  string // e.g., "https://gardenhub.app/auth/google/callback"
}

// NewHandler creates a new Google OAuth handler.
func NewHandler(
	db *mongo.Database,
	sessionMgr *auth.SessionManager,
	stateStore *oauthstate.Store,
	clientID, clientSecret, baseURL string,
	logger *zap.Logger,
) *Handler {
	return &Handler{
		DB:           db,
		Log:          logger,
		SessionMgr:   sessionMgr,
		StateStore:   stateStore,
		ClientID:     clientID,
		ClientSecret: clientSecret,
		RedirectURL:  baseURL + "/auth/google/callback",
	}
}

// oauth2Config returns the Google OAuth2 configuration.
func (h *Handler) oauth2Config() *oauth2.Config {
	return &oauth2.Config{
		ClientID:     h.ClientID,
		ClientSecret: h.ClientSecret,
		RedirectURL:  h.RedirectURL,
		Scopes: []string{
			"openid",
			"https://www.googleapis.com/auth/userinfo.email",
			"https://www.googleapis.com/auth/userinfo.profile",
		},
		Endpoint: google.Endpoint,
	}
}

// IsConfigured returns true if Google OAuth is configured.
func (h *Handler) IsConfigured() bool {
	return h.ClientID != "" && h.ClientSecret != ""
}

// ServeLogin handles GET /auth/google/login.
// Initiates the OAuth flow by redirecting to Google's consent screen.
func (h *Handler) ServeLogin(w http.ResponseWriter, r *http.Request) {
	if !h.IsConfigured() {
		h.Log.Warn("Google OAuth not configured")
		http.Redirect(w, r, "/?error=google_not_configured", http.StatusSeeOther)
		return
	}

	state, err := generateState()
	if err != nil {
		h.Log.Error("failed to generate OAuth state", zap.Error(err))
		http.Redirect(w, r, "/?error=internal", http.StatusSeeOther)
		return
	}

	returnURL := r.URL.Query().Get("return")
	if !strings.HasPrefix(returnURL, "/") {
		returnURL = ""
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Short())
	defer cancel()

	expiresAt := time.Now().UTC().Add(10 * time.Minute)
	if err := h.StateStore.Save(ctx, state, returnURL, expiresAt); err != nil {
		h.Log.Error("failed to save OAuth state", zap.Error(err))
		http.Redirect(w, r, "/?error=internal", http.StatusSeeOther)
		return
	}

	url := h.oauth2Config().AuthCodeURL(state, oauth2.AccessTypeOffline)

	h.Log.Debug("initiating Google OAuth flow",
		zap.String("redirect_url", url),
		zap.String("return_url", returnURL))

	http.Redirect(w, r, url, http.StatusTemporaryRedirect)
}

// ServeCallback handles GET /auth/google/callback.
// Exchanges the code for tokens, fetches user info, then signs the
// matching account in, creating account and profile on first visit.
func (h *Handler) ServeCallback(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	if errParam := r.URL.Query().Get("error"); errParam != "" {
		h.Log.Warn("Google OAuth error",
			zap.String("error", errParam),
			zap.String("description", r.URL.Query().Get("error_description")))
		http.Redirect(w, r, "/?error=google_denied", http.StatusSeeOther)
		return
	}

	state := r.URL.Query().Get("state")
	if state == "" {
		h.Log.Warn("missing OAuth state parameter")
		http.Redirect(w, r, "/?error=invalid_state", http.StatusSeeOther)
		return
	}

	ctxTimeout, cancel := context.WithTimeout(ctx, timeouts.Short())
	defer cancel()

	returnURL, valid, err := h.StateStore.Validate(ctxTimeout, state)
	if err != nil {
		h.Log.Error("failed to validate OAuth state", zap.Error(err))
		http.Redirect(w, r, "/?error=internal", http.StatusSeeOther)
		return
	}
	if !valid {
		h.Log.Warn("invalid or expired OAuth state")
		http.Redirect(w, r, "/?error=invalid_state", http.StatusSeeOther)
		return
	}

	code := r.URL.Query().Get("code")
	if code == "" {
		h.Log.Warn("missing OAuth code parameter")
		http.Redirect(w, r, "/?error=invalid_code", http.StatusSeeOther)
		return
	}

	token, err := h.oauth2Config().Exchange(ctx, code)
	if err != nil {
		h.Log.Error("failed to exchange OAuth code", zap.Error(err))
		http.Redirect(w, r, "/?error=token_exchange", http.StatusSeeOther)
		return
	}

	googleUser, err := fetchGoogleUserInfo(ctx, token)
	if err != nil {
		h.Log.Error("failed to fetch Google user info", zap.Error(err))
		http.Redirect(w, r, "/?error=user_info", http.StatusSeeOther)
		return
	}

	user, err := h.findOrCreateUser(ctx, googleUser)
	if err != nil {
		if err == errUserDisabled {
			h.Log.Info("Google OAuth: account disabled",
				zap.String("google_id", googleUser.ID),
				zap.String("email", googleUser.Email))
			http.Redirect(w, r, "/?error=account_disabled", http.StatusSeeOther)
			return
		}
		h.Log.Error("failed to resolve Google account", zap.Error(err))
		http.Redirect(w, r, "/?error=internal", http.StatusSeeOther)
		return
	}

	if err := h.SessionMgr.SignIn(w, r, user.ID); err != nil {
		h.Log.Error("Google OAuth: sign in", zap.Error(err), zap.String("user_id", user.ID.Hex()))
		http.Redirect(w, r, "/?error=internal", http.StatusSeeOther)
		return
	}

	if returnURL == "" {
		returnURL = "/"
	}
	http.Redirect(w, r, returnURL, http.StatusSeeOther)
}

var errUserDisabled = errors.New("user disabled")

// googleUserInfo represents user info returned from Google.
type googleUserInfo struct {
	ID            string `json:"id"`
	Email         string `json:"email"`
	EmailVerified bool   `json:"verified_email"`
	Name          string `json:"name"`
	GivenName     string `json:"given_name"`
	FamilyName    string `json:"family_name"`
	Picture       string `json:"picture"`
}

// fetchGoogleUserInfo retrieves user information from Google's userinfo endpoint.
func fetchGoogleUserInfo(ctx context.Context, token *oauth2.Token) (*googleUserInfo, error) {
	client := oauth2.NewClient(ctx, oauth2.StaticTokenSource(token))

	resp, err := client.Get("https://www.googleapis.com/oauth2/v2/userinfo")
	if err != nil {
		return nil, fmt.Errorf("failed to fetch user info: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("unexpected status code: %d", resp.StatusCode)
	}

	var info googleUserInfo
	if err := json.NewDecoder(resp.Body).Decode(&info); err != nil {
		return nil, fmt.Errorf("failed to decode user info: %w", err)
	}

	return &info, nil
}

// findOrCreateUser resolves a Google identity to an account:
//  1. an account already linked to the Google ID;
//  2. an account with the same email, which gets the Google ID linked;
//  3. a brand new account plus profile, username derived from the email.
func (h *Handler) findOrCreateUser(ctx context.Context, gu *googleUserInfo) (*models.User, error) {
	lookupCtx, cancel := context.WithTimeout(ctx, timeouts.Medium())
	defer cancel()

	users := userstore.New(h.DB)
	profiles := profilestore.New(h.DB)

	user, err := users.GetByGoogleID(lookupCtx, gu.ID)
	if err == nil {
		if user.Status != "active" {
			return nil, errUserDisabled
		}
		return user, nil
	}
	if err != mongo.ErrNoDocuments {
		return nil, err
	}

	user, err = users.GetByEmail(lookupCtx, gu.Email)
	if err == nil {
		if user.Status != "active" {
			return nil, errUserDisabled
		}
		if linkErr := users.LinkGoogleID(lookupCtx, user.ID, gu.ID); linkErr != nil {
			return nil, linkErr
		}
		return user, nil
	}
	if err != mongo.ErrNoDocuments {
		return nil, err
	}

	var created models.User
	err = txn.Run(lookupCtx, h.DB.Client(), h.Log, func(ctx context.Context) error {
		var err error
		created, err = users.Create(ctx, models.User{
			Email:    gu.Email,
			GoogleID: gu.ID,
		})
		if err != nil {
			return err
		}
		username, err := h.pickUsername(ctx, profiles, gu.Email)
		if err != nil {
			return err
		}
		_, err = profiles.Create(ctx, created.ID, username)
		return err
	})
	if err != nil {
		return nil, err
	}

	h.Log.Info("account created from Google sign-in",
		zap.String("user_id", created.ID.Hex()),
		zap.String("email", created.Email))

	return &created, nil
}

// pickUsername derives a username from the email local part, suffixing
// random digits until it is free.
func (h *Handler) pickUsername(ctx context.Context, profiles *profilestore.Store, email string) (string, error) {
	base := email
	if at := strings.IndexByte(base, '@'); at > 0 {
		base = base[:at]
	}
	var b strings.Builder
	for _, r := range base {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9', r == '-', r == '_':
			b.WriteRune(r)
		case r == '.':
			b.WriteByte('_')
		}
	}
	base = b.String()
	if len(base) < inputval.UsernameMinLen {
		base = "gardener"
	}
	if len(base) > inputval.UsernameMaxLen-7 {
		base = base[:inputval.UsernameMaxLen-7]
	}

	candidate := base
	for attempt := 0; attempt < 5; attempt++ {
		taken, err := profiles.UsernameTaken(ctx, candidate)
		if err != nil {
			return "", err
		}
		if !taken {
			return candidate, nil
		}
		suffix, err := randomDigits(6)
		if err != nil {
			return "", err
		}
		candidate = base + "_" + suffix
	}
	return "", fmt.Errorf("could not find a free username for %q", base)
}

// generateState returns a cryptographically secure random state string.
func generateState() (string, error) {
	b := make([]byte, 32)
	if _, err := rand.Read(b); err != nil {
		return "", err
	}
	return base64.RawURLEncoding.EncodeToString(b), nil
}

func randomDigits(n int) (string, error) {
	b := make([]byte, n)
	if _, err := rand.Read(b); err != nil {
		return "", err
	}
	digits := make([]byte, n)
	for i, v := range b {
		digits[i] = '0' + v%10
	}
	return string(digits), nil
}
