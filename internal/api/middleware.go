package api

import (
	"context"
	"net/http"
	"strings"

	"go.uber.org/zap"

	"github.com/nordmarket/authcore/internal/account"
	"github.com/nordmarket/authcore/internal/apperr"
	"github.com/nordmarket/authcore/internal/token"
)

type contextKey string

const accountContextKey contextKey = "account"

// Guard is one predicate in the ordered chain evaluated before a handler
// body. A guard either enriches the request context or rejects with a
// specific taxonomy error.
type Guard func(r *http.Request) (*http.Request, error)

// Chain runs guards in order and only then the handler.
func Chain(log *zap.Logger, h http.HandlerFunc, guards ...Guard) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		for _, guard := range guards {
			next, err := guard(r)
			if err != nil {
				writeError(w, log, err)
				return
			}
			r = next
		}
		h(w, r)
	}
}

type Middleware struct {
	tokens   *token.Issuer
	accounts account.Repository
	log      *zap.Logger
}

func NewMiddleware(tokens *token.Issuer, accounts account.Repository, log *zap.Logger) *Middleware {
	return &Middleware{
		tokens:   tokens,
		accounts: accounts,
		log:      log,
	}
}

// Authenticated verifies the bearer token and attaches the account
// summary to the request context.
func (m *Middleware) Authenticated(r *http.Request) (*http.Request, error) {
	raw, err := bearerToken(r)
	if err != nil {
		return nil, err
	}

	claims, err := m.tokens.Verify(raw)
	if err != nil {
		return nil, err
	}

	acc, err := m.accounts.FindByID(r.Context(), claims.AccountID)
	if err != nil {
		return nil, apperr.Authentication(apperr.ReasonInvalid, "account not found for token")
	}

	ctx := context.WithValue(r.Context(), accountContextKey, acc.Summary())
	return r.WithContext(ctx), nil
}

// HasRole gates on an exact role match. Runs after Authenticated.
func (m *Middleware) HasRole(role account.Role) Guard {
	return func(r *http.Request) (*http.Request, error) {
		summary, ok := AccountFromContext(r.Context())
		if !ok {
			return nil, apperr.Authentication(apperr.ReasonInvalid, "missing authentication")
		}
		if summary.Role != role {
			m.log.Warn("role check failed",
				zap.String("account_id", summary.ID),
				zap.String("required_role", string(role)),
				zap.String("actual_role", string(summary.Role)))
			return nil, apperr.Authorization("insufficient role")
		}
		return r, nil
	}
}

// NotBanned rejects requests from accounts carrying the banned flag.
func (m *Middleware) NotBanned(r *http.Request) (*http.Request, error) {
	summary, ok := AccountFromContext(r.Context())
	if !ok {
		return nil, apperr.Authentication(apperr.ReasonInvalid, "missing authentication")
	}
	if summary.IsBanned {
		return nil, apperr.Authorization("account is banned")
	}
	return r, nil
}

// AccountFromContext returns the authenticated account summary.
func AccountFromContext(ctx context.Context) (account.Summary, bool) {
	summary, ok := ctx.Value(accountContextKey).(account.Summary)
	return summary, ok
}

func bearerToken(r *http.Request) (string, error) {
	header := r.Header.Get("Authorization")
	if header == "" {
		return "", apperr.Authentication(apperr.ReasonInvalid, "missing authorization header")
	}

	parts := strings.SplitN(header, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
		return "", apperr.Authentication(apperr.ReasonInvalid, "malformed authorization header")
	}
	return parts[1], nil
}
