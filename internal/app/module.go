package app

import (
	"context"
	"os"

	"go.uber.org/fx"
	"go.uber.org/zap"

	"github.com/nordmarket/authcore/internal/account"
	"github.com/nordmarket/authcore/internal/api"
	"github.com/nordmarket/authcore/internal/auth"
	"github.com/nordmarket/authcore/internal/ban"
	"github.com/nordmarket/authcore/internal/cache"
	"github.com/nordmarket/authcore/internal/database"
	"github.com/nordmarket/authcore/internal/migration"
	"github.com/nordmarket/authcore/internal/server"
)

// Module combines all application modules
func Module() fx.Option {
	return fx.Options(
		// Logger
		fx.Provide(newLogger),

		// Configuration
		fx.Provide(server.LoadConfig),

		// Infrastructure
		database.Module(),
		migration.Module(),
		cache.Module(),

		// Domain modules
		account.NewModule(),
		ban.NewModule(),
		auth.NewModule(),
		api.NewModule(),

		// Server
		fx.Provide(server.NewServer),

		// Start the server
		fx.Invoke(registerHooks),
	)
}

func newLogger() (*zap.Logger, error) {
	env := os.Getenv("APP_ENV")
	return server.NewLogger(env)
}

func registerHooks(
	lifecycle fx.Lifecycle,
	srv *server.Server,
	log *zap.Logger,
) {
	lifecycle.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			go func() {
				if err := srv.Start(); err != nil {
					log.Error("failed to start server", zap.Error(err))
				}
			}()
			return nil
		},
		OnStop: func(ctx context.Context) error {
			log.Info("shutting down server...")
			srv.Stop()
			return nil
		},
	})
}
