// internal/app/system/auth/auth.go
package auth

// Terminology: Identifiers
//   - AccountID: the users collection _id (credentials, status)
//   - ProfileID: the profiles collection _id; the only identifier that
//     appears in garden role sets and membership documents

import (
	"context"
	"fmt"
	"net/http"

	"github.com/dalemusser/gardenhub/internal/app/system/apperror"
	"github.com/gorilla/sessions"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"
)

const (
	isAuthKey    = "is_authenticated"
	accountIDKey = "account_id"
)

// Client is the resolved acting principal: the account plus its profile.
// It is loaded fresh on every request so disabled accounts and username
// changes take effect immediately.
type Client struct {
	AccountID primitive.ObjectID
	ProfileID primitive.ObjectID
	Username  string
	Email     string
}

// ClientFetcher loads the client for a session's account ID. Returning
// nil means the session is no longer valid (account missing/disabled).
type ClientFetcher interface {
	FetchClient(ctx context.Context, accountID string) *Client
}

type ctxKey string

const currentClientKey ctxKey = "currentClient"

// SessionManager owns the session cookie and per-request client loading.
type SessionManager struct {
	store   *sessions.CookieStore
	name    string
	fetcher ClientFetcher
	log     *zap.Logger
}

// NewSessionManager builds the cookie store. The session key must be a
// strong random value; short keys are tolerated with a warning so local
// dev still boots.
func NewSessionManager(sessionKey, sessionName, domain string, secure bool, logger *zap.Logger) (*SessionManager, error) {
	if sessionKey == "" {
		return nil, fmt.Errorf("session key is empty; provide ≥32 random chars")
	}
	if len(sessionKey) < 32 {
		logger.Warn("session key is short; 32+ chars recommended",
			zap.Int("length", len(sessionKey)))
	}

	store := sessions.NewCookieStore([]byte(sessionKey))
	opts := &sessions.Options{
		Domain:   domain,
		Path:     "/",
		Secure:   secure,
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	}
	if secure {
		opts.SameSite = http.SameSiteNoneMode
	}
	store.Options = opts

	logger.Info("session store initialized",
		zap.Bool("secure", secure),
		zap.String("domain", domain))

	return &SessionManager{store: store, name: sessionName, log: logger}, nil
}

// SetClientFetcher wires the DB-backed fetcher. Must be called before
// LoadClient is mounted; kept separate so bootstrap can construct the
// manager before stores exist.
func (sm *SessionManager) SetClientFetcher(f ClientFetcher) { sm.fetcher = f }

// SignIn marks the session authenticated for the given account.
func (sm *SessionManager) SignIn(w http.ResponseWriter, r *http.Request, accountID primitive.ObjectID) error {
	sess, _ := sm.store.Get(r, sm.name)
	sess.Values[isAuthKey] = true
	sess.Values[accountIDKey] = accountID.Hex()
	return sess.Save(r, w)
}

// SignOut clears the session.
func (sm *SessionManager) SignOut(w http.ResponseWriter, r *http.Request) error {
	sess, _ := sm.store.Get(r, sm.name)
	sess.Options.MaxAge = -1
	sess.Values = map[interface{}]interface{}{}
	return sess.Save(r, w)
}

// LoadClient injects the resolved Client into the request context when a
// valid authenticated session is present. Missing or stale sessions pass
// through; handlers decide whether authentication is required.
func (sm *SessionManager) LoadClient(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		sess, _ := sm.store.Get(r, sm.name)

		if isAuth, _ := sess.Values[isAuthKey].(bool); isAuth && sm.fetcher != nil {
			accountID, _ := sess.Values[accountIDKey].(string)
			if c := sm.fetcher.FetchClient(r.Context(), accountID); c != nil {
				r = r.WithContext(context.WithValue(r.Context(), currentClientKey, c))
			}
		}
		next.ServeHTTP(w, r)
	})
}

// CurrentClient returns the client in context and a found flag.
func CurrentClient(r *http.Request) (*Client, bool) {
	c, ok := r.Context().Value(currentClientKey).(*Client)
	return c, ok
}

// RequireClient returns the client or an authentication fault. Every
// command handler calls this first; accept/leave need nothing more.
func RequireClient(r *http.Request) (*Client, error) {
	c, ok := CurrentClient(r)
	if !ok {
		return nil, apperror.Authentication("Sign in required.")
	}
	return c, nil
}

// WithClient returns a request carrying the given client. Test helper;
// handler tests use it to act as a signed-in user without cookies.
func WithClient(r *http.Request, c *Client) *http.Request {
	return r.WithContext(context.WithValue(r.Context(), currentClientKey, c))
}
