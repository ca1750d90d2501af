// internal/app/bootstrap/routes.go
package bootstrap

import (
	"net/http"

	"github.com/dalemusser/waffle/config"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"

	accountsfeature "github.com/dalemusser/gardenhub/internal/app/features/accounts"
	authgooglefeature "github.com/dalemusser/gardenhub/internal/app/features/authgoogle"
	gardensfeature "github.com/dalemusser/gardenhub/internal/app/features/gardens"
	healthfeature "github.com/dalemusser/gardenhub/internal/app/features/health"
	membershipsfeature "github.com/dalemusser/gardenhub/internal/app/features/memberships"
	"github.com/dalemusser/gardenhub/internal/app/store/oauthstate"
	userstore "github.com/dalemusser/gardenhub/internal/app/store/users"
	"github.com/dalemusser/gardenhub/internal/app/system/auth"
	"github.com/dalemusser/gardenhub/internal/app/system/limits"
)

// BuildHandler constructs the root HTTP handler (router) for this WAFFLE app.
//
// WAFFLE calls this after configuration, DB connections, schema setup,
// and the Startup hook have completed. GardenHub applies the session
// middleware globally and mounts the JSON feature routers: accounts,
// Google OAuth, gardens with their nested membership lifecycle, and
// the health check.
func BuildHandler(coreCfg *config.CoreConfig, appCfg AppConfig, deps DBDeps, logger *zap.Logger) (http.Handler, error) {
	// Secure cookies are enabled in production mode.
	secure := coreCfg.Env == "prod"
	sessionMgr, err := auth.NewSessionManager(appCfg.SessionKey, appCfg.SessionName, appCfg.SessionDomain, secure, logger)
	if err != nil {
		logger.Error("session manager init failed", zap.Error(err))
		return nil, err
	}

	db := deps.GardenHubMongoDatabase

	// LoadClient fetches fresh account and profile data on each request,
	// so disabled accounts and username changes take effect immediately.
	sessionMgr.SetClientFetcher(userstore.NewFetcher(db))

	r := chi.NewRouter()

	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)
	r.Use(middleware.RequestSize(limits.MaxJSONBodySize))

	// Global auth middleware: loads the Client into context if signed in.
	r.Use(sessionMgr.LoadClient)

	// Health check endpoint for load balancers and orchestrators
	healthHandler := healthfeature.NewHandler(deps.GardenHubMongoClient, logger)
	r.Mount("/health", healthfeature.Routes(healthHandler))

	// Account registration and password sign-in
	accountsHandler := accountsfeature.NewHandler(db, sessionMgr, logger)
	r.Mount("/accounts", accountsfeature.Routes(accountsHandler))

	// Google OAuth sign-in
	googleHandler := authgooglefeature.NewHandler(
		db, sessionMgr, oauthstate.New(db),
		appCfg.GoogleClientID, appCfg.GoogleClientSecret, appCfg.BaseURL,
		logger)
	r.Mount("/auth/google", authgooglefeature.Routes(googleHandler))

	// Gardens and the membership lifecycle nested under each garden
	gardensHandler := gardensfeature.NewHandler(db, logger)
	membershipsHandler := membershipsfeature.NewHandler(db, logger)
	r.Mount("/gardens", gardensfeature.Routes(gardensHandler, membershipsfeature.Routes(membershipsHandler)))

	return r, nil
}
