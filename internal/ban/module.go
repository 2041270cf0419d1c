package ban

import (
	"context"

	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/nordmarket/authcore/internal/account"
	"github.com/nordmarket/authcore/internal/config"
)

// NewModule returns the ban module options
func NewModule() fx.Option {
	return fx.Options(
		fx.Provide(
			fx.Annotate(
				func(db *gorm.DB) Repository {
					return NewRepository(db)
				},
			),
			fx.Annotate(
				func(log *zap.Logger, bans Repository, accounts account.Repository) *Service {
					return NewService(log, bans, accounts)
				},
			),
			fx.Annotate(
				func(cfg *config.AppConfig, log *zap.Logger, svc *Service) *Sweeper {
					return NewSweeper(log, svc, cfg.Ban.SweepInterval)
				},
			),
		),
		fx.Invoke(registerHooks),
	)
}

func registerHooks(
	lifecycle fx.Lifecycle,
	sweeper *Sweeper,
	logger *zap.Logger,
) {
	lifecycle.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			logger.Info("starting ban sweeper")
			sweeper.Start()
			return nil
		},
		OnStop: func(ctx context.Context) error {
			logger.Info("stopping ban sweeper")
			sweeper.Stop()
			return nil
		},
	})
}
