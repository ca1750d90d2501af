// internal/app/bootstrap/startup.go
package bootstrap

import (
	"context"
	"time"

	"github.com/dalemusser/waffle/config"
	"go.uber.org/zap"

	"github.com/dalemusser/gardenhub/internal/app/store/oauthstate"
	"github.com/dalemusser/gardenhub/internal/app/system/workers"
)

// Background workers started here and stopped in Shutdown.
var (
	reconcileWorker  *workers.Reconcile
	oauthStateWorker *workers.OAuthStateCleanup
)

// Startup runs one-time application initialization after DB connections
// and schema setup are complete, but before the HTTP handler is built.
// GardenHub starts its background workers here: the reconcile sweep
// that repairs garden role sets, and the OAuth state cleanup.
func Startup(ctx context.Context, coreCfg *config.CoreConfig, appCfg AppConfig, deps DBDeps, logger *zap.Logger) error {
	reconcileWorker = workers.NewReconcile(deps.GardenHubMongoDatabase, logger, appCfg.ReconcileInterval)
	reconcileWorker.Start()

	oauthStateWorker = workers.NewOAuthStateCleanup(oauthstate.New(deps.GardenHubMongoDatabase), logger, 1*time.Hour)
	oauthStateWorker.Start()

	return nil
}
