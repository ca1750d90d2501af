// internal/app/features/accounts/handler.go
package accounts

import (
	"encoding/json"
	"net/http"

	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"

	"github.com/dalemusser/gardenhub/internal/app/system/auth"
	"github.com/dalemusser/gardenhub/internal/app/system/ratelimit"
)

// Handler is the shared dependency container for the accounts feature.
type Handler struct {
	DB           *mongo.Database
	Log          *zap.Logger
	SessionMgr   *auth.SessionManager
	LoginLimiter *ratelimit.LoginLimiter
}

// NewHandler constructs an accounts Handler. It is typically called from
// the bootstrap BuildHandler function where the DB and logger are ready.
func NewHandler(db *mongo.Database, sm *auth.SessionManager, logger *zap.Logger) *Handler {
	return &Handler{
		DB:           db,
		Log:          logger,
		SessionMgr:   sm,
		LoginLimiter: ratelimit.NewLoginLimiter(),
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
