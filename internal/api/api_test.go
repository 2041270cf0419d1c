package api

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/gorilla/mux"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"github.com/nordmarket/authcore/internal/account"
	"github.com/nordmarket/authcore/internal/attempt"
	"github.com/nordmarket/authcore/internal/auth"
	"github.com/nordmarket/authcore/internal/ban"
	"github.com/nordmarket/authcore/internal/cache"
	"github.com/nordmarket/authcore/internal/config"
	"github.com/nordmarket/authcore/internal/token"
)

type testAPI struct {
	router   *mux.Router
	accounts account.Repository
	bans     *ban.Service
	tokens   *token.Issuer
}

func newTestAPI(t *testing.T) *testAPI {
	t.Helper()

	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })

	log := zap.NewNop()
	cfg := &config.AuthConfig{
		JWTSecret:            "test-secret-key",
		AccessTokenDuration:  time.Hour,
		RefreshTokenDuration: 24 * time.Hour,
		BcryptCost:           bcrypt.MinCost,
		MaxLoginAttempts:     3,
		BlockDuration:        10 * time.Minute,
	}

	accounts := account.NewMockRepository()
	banRepo := ban.NewMockRepository()
	bans := ban.NewService(log, banRepo, accounts)
	tracker := attempt.NewTracker(cache.NewStoreFromClient(client), log)
	tokens := token.NewIssuer(cfg)
	authSvc := auth.NewService(cfg, log, accounts, tracker, tokens, bans)
	accountSvc := account.NewService(log, accounts)

	handler := NewHandler(log, authSvc, bans, accountSvc)
	middleware := NewMiddleware(tokens, accounts, log)

	return &testAPI{
		router:   NewRouter(handler, middleware),
		accounts: accounts,
		bans:     bans,
		tokens:   tokens,
	}
}

func (a *testAPI) do(t *testing.T, method, path, bearer string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()

	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}

	req := httptest.NewRequest(method, path, &buf)
	if bearer != "" {
		req.Header.Set("Authorization", "Bearer "+bearer)
	}

	rec := httptest.NewRecorder()
	a.router.ServeHTTP(rec, req)
	return rec
}

func (a *testAPI) seedAdmin(t *testing.T) (adminID, bearer string) {
	t.Helper()

	admin := &account.Account{Email: "admin@example.com", Role: account.RoleAdmin}
	require.NoError(t, a.accounts.Create(context.Background(), admin))

	pair, err := a.tokens.IssuePair(admin.ID)
	require.NoError(t, err)
	return admin.ID, pair.AccessToken
}

func registerBody(email string) map[string]interface{} {
	return map[string]interface{}{
		"email":       email,
		"password":    "password1",
		"name":        "Test",
		"surname":     "User",
		"phoneNumber": "+15550100",
	}
}
