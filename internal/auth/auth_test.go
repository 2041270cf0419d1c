package auth

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"github.com/nordmarket/authcore/internal/account"
	"github.com/nordmarket/authcore/internal/attempt"
	"github.com/nordmarket/authcore/internal/ban"
	"github.com/nordmarket/authcore/internal/cache"
	"github.com/nordmarket/authcore/internal/config"
	"github.com/nordmarket/authcore/internal/token"
)

func newTestConfig() *config.AuthConfig {
	return &config.AuthConfig{
		JWTSecret:            "test-secret-key",
		AccessTokenDuration:  time.Hour,
		RefreshTokenDuration: 15 * 24 * time.Hour,
		BcryptCost:           bcrypt.MinCost,
		MaxLoginAttempts:     3,
		BlockDuration:        600 * time.Second,
	}
}

// testEnv wires the orchestrator to a miniredis-backed tracker, map-backed
// stores and a real ban service, so the login/attempt/ban interplay runs
// end to end.
type testEnv struct {
	svc      *Service
	accounts account.Repository
	banRepo  ban.Repository
	bans     *ban.Service
	tracker  *attempt.Tracker
	tokens   *token.Issuer
	redis    *miniredis.Miniredis
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })

	log := zap.NewNop()
	cfg := newTestConfig()
	accounts := account.NewMockRepository()
	banRepo := ban.NewMockRepository()
	bans := ban.NewService(log, banRepo, accounts)
	tracker := attempt.NewTracker(cache.NewStoreFromClient(client), log)
	tokens := token.NewIssuer(cfg)

	return &testEnv{
		svc:      NewService(cfg, log, accounts, tracker, tokens, bans),
		accounts: accounts,
		banRepo:  banRepo,
		bans:     bans,
		tracker:  tracker,
		tokens:   tokens,
		redis:    mr,
	}
}

func (e *testEnv) register(t *testing.T, email, password string) *Response {
	t.Helper()
	resp, err := e.svc.RegisterByEmail(context.Background(), RegisterRequest{
		Email:    email,
		Password: password,
		Name:     "Test",
		Surname:  "User",
		Phone:    "+15550100",
	})
	require.NoError(t, err)
	return resp
}
