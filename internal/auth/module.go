package auth

import (
	"go.uber.org/fx"
	"go.uber.org/zap"

	"github.com/nordmarket/authcore/internal/account"
	"github.com/nordmarket/authcore/internal/attempt"
	"github.com/nordmarket/authcore/internal/ban"
	"github.com/nordmarket/authcore/internal/cache"
	"github.com/nordmarket/authcore/internal/config"
	"github.com/nordmarket/authcore/internal/token"
)

// NewModule returns the auth module options
func NewModule() fx.Option {
	return fx.Options(
		fx.Provide(
			fx.Annotate(
				func(store cache.Store, log *zap.Logger) *attempt.Tracker {
					return attempt.NewTracker(store, log)
				},
			),
			fx.Annotate(
				func(cfg *config.AppConfig) *token.Issuer {
					return token.NewIssuer(&cfg.Auth)
				},
			),
			fx.Annotate(
				func(
					cfg *config.AppConfig,
					log *zap.Logger,
					accounts account.Repository,
					attempts *attempt.Tracker,
					tokens *token.Issuer,
					bans *ban.Service,
				) *Service {
					return NewService(&cfg.Auth, log, accounts, attempts, tokens, bans)
				},
			),
		),
	)
}
