// internal/app/bootstrap/shutdown.go
package bootstrap

import (
	"context"

	"github.com/dalemusser/waffle/config"
	"go.uber.org/zap"
)

// Shutdown stops background workers and cleanly tears down DB
// connections.
func Shutdown(ctx context.Context, coreCfg *config.CoreConfig, appCfg AppConfig, deps DBDeps, logger *zap.Logger) error {
	if reconcileWorker != nil {
		reconcileWorker.Stop()
	}
	if oauthStateWorker != nil {
		oauthStateWorker.Stop()
	}

	if deps.GardenHubMongoClient != nil {
		logger.Info("disconnecting GardenHub MongoDB client")
		if err := deps.GardenHubMongoClient.Disconnect(ctx); err != nil {
			logger.Error("MongoDB disconnect failed", zap.Error(err))
			return err
		}
	}
	return nil
}
