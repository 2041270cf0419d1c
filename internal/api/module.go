package api

import (
	"go.uber.org/fx"
	"go.uber.org/zap"

	"github.com/nordmarket/authcore/internal/account"
	"github.com/nordmarket/authcore/internal/auth"
	"github.com/nordmarket/authcore/internal/ban"
	"github.com/nordmarket/authcore/internal/token"
)

// NewModule returns the api module options
func NewModule() fx.Option {
	return fx.Options(
		fx.Provide(
			fx.Annotate(
				func(log *zap.Logger, authSvc *auth.Service, banSvc *ban.Service, accountSvc *account.Service) *Handler {
					return NewHandler(log, authSvc, banSvc, accountSvc)
				},
			),
			fx.Annotate(
				func(tokens *token.Issuer, accounts account.Repository, log *zap.Logger) *Middleware {
					return NewMiddleware(tokens, accounts, log)
				},
			),
		),
	)
}
