// Package app provides application-level wiring and dependency injection
// for the auth service.
package app

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"

	"github.com/Yet-Another-Check-In-System/auth-ms/internal/api"
	"github.com/Yet-Another-Check-In-System/auth-ms/internal/config"
	"github.com/Yet-Another-Check-In-System/auth-ms/internal/db/repository"
	"github.com/Yet-Another-Check-In-System/auth-ms/internal/service/cleanup"
	"github.com/Yet-Another-Check-In-System/auth-ms/internal/service/security"
)

// Deps holds the external dependencies that main() must provide: database
// handles, config, and the root logger.
type Deps struct {
	Cfg     *config.Config
	WriteDB *sql.DB
	ReadDB  *sql.DB
	Logger  *slog.Logger
}

// Services groups all service pointers the API handler and the CLI need.
type Services struct {
	Auth          *security.AuthService
	Federation    *security.FederationService
	Token         *security.TokenService
	Authorization *security.AuthorizationService
	User          *security.UserService
	Group         *security.GroupService
	Permission    *security.PermissionService
	Cleanup       *cleanup.Service
}

// App holds the fully-wired application.
type App struct {
	Services Services
	Handler  *api.Handler
}

// New wires repositories and services from the provided deps and seeds the
// default permission catalog.
func New(ctx context.Context, deps Deps) (*App, error) {
	cfg := deps.Cfg

	// === Repositories (write-pool) ===
	userRepo := repository.NewUserRepo(deps.WriteDB)
	groupRepo := repository.NewGroupRepo(deps.WriteDB)
	permissionRepo := repository.NewPermissionRepo(deps.WriteDB)
	cleanupRepo := repository.NewCleanupRepo(deps.WriteDB)

	// === Repositories (read-pool) ===
	// The authorization path is read-only and hot; it gets the read pool.
	authzUserRepo := repository.NewUserRepo(deps.ReadDB)
	authzGroupRepo := repository.NewGroupRepo(deps.ReadDB)
	authzPermissionRepo := repository.NewPermissionRepo(deps.ReadDB)

	tokenSvc, err := security.NewTokenService(cfg.JWTSecret)
	if err != nil {
		return nil, fmt.Errorf("token service: %w", err)
	}

	authzSvc := security.NewAuthorizationService(authzUserRepo, authzGroupRepo, authzPermissionRepo)
	authSvc := security.NewAuthService(userRepo, security.NewBcryptHasher(), deps.Logger)

	providers := make(map[string]security.ProviderConfig, len(cfg.Providers))
	for name, pc := range cfg.Providers {
		providers[name] = security.ProviderConfig{IssuerURL: pc.IssuerURL, ClientID: pc.ClientID}
	}
	federationSvc, err := security.NewFederationService(ctx, userRepo, providers, deps.Logger)
	if err != nil {
		return nil, fmt.Errorf("federation service: %w", err)
	}

	userSvc := security.NewUserService(userRepo, deps.Logger)
	groupSvc := security.NewGroupService(groupRepo, userRepo, deps.Logger)
	permissionSvc := security.NewPermissionService(permissionRepo, groupRepo, deps.Logger)
	cleanupSvc := cleanup.NewService(cleanupRepo, deps.Logger)

	if err := seedPermissions(ctx, permissionRepo, deps.Logger); err != nil {
		return nil, fmt.Errorf("seed permissions: %w", err)
	}

	handler := api.NewHandler(
		authSvc, federationSvc, tokenSvc, authzSvc,
		userSvc, groupSvc, permissionSvc, deps.Logger,
	)

	return &App{
		Services: Services{
			Auth:          authSvc,
			Federation:    federationSvc,
			Token:         tokenSvc,
			Authorization: authzSvc,
			User:          userSvc,
			Group:         groupSvc,
			Permission:    permissionSvc,
			Cleanup:       cleanupSvc,
		},
		Handler: handler,
	}, nil
}
