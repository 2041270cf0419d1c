package cache

import (
	"context"

	"go.uber.org/fx"
	"go.uber.org/zap"

	"github.com/nordmarket/authcore/internal/config"
)

func Module() fx.Option {
	return fx.Options(
		fx.Provide(
			fx.Annotate(
				func(cfg *config.AppConfig) Store {
					return NewRedisStore(&cfg.Redis)
				},
			),
		),
		fx.Invoke(registerHooks),
	)
}

func registerHooks(
	lifecycle fx.Lifecycle,
	store Store,
	logger *zap.Logger,
) {
	lifecycle.Append(fx.Hook{
		OnStop: func(ctx context.Context) error {
			if closer, ok := store.(interface{ Close() error }); ok {
				logger.Info("Closing cache connections")
				return closer.Close()
			}
			return nil
		},
	})
}
