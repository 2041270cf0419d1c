package auth

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nordmarket/authcore/internal/account"
	"github.com/nordmarket/authcore/internal/apperr"
	"github.com/nordmarket/authcore/internal/oauth"
)

func TestService_RegisterByEmail(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	resp := env.register(t, "new@example.com", "password1")
	assert.Equal(t, "new@example.com", resp.User.Email)
	assert.Equal(t, account.RoleUser, resp.User.Role)
	assert.False(t, resp.User.IsBanned)
	assert.NotEmpty(t, resp.AccessToken)
	assert.NotEmpty(t, resp.RefreshToken)

	// Registration stores a hash, never the raw password.
	acc, err := env.accounts.FindByEmail(ctx, "new@example.com")
	require.NoError(t, err)
	assert.NotEmpty(t, acc.PasswordHash)
	assert.NotEqual(t, "password1", acc.PasswordHash)

	// Duplicate email conflicts.
	_, err = env.svc.RegisterByEmail(ctx, RegisterRequest{
		Email:    "new@example.com",
		Password: "password2",
		Name:     "Other",
		Surname:  "User",
		Phone:    "+15550101",
	})
	assert.True(t, apperr.IsKind(err, apperr.KindConflict))
}

func TestService_RegisterByEmail_RoleOverride(t *testing.T) {
	env := newTestEnv(t)

	resp, err := env.svc.RegisterByEmail(context.Background(), RegisterRequest{
		Email:    "admin@example.com",
		Password: "password1",
		Name:     "Admin",
		Surname:  "User",
		Phone:    "+15550102",
		Role:     account.RoleAdmin,
	})
	require.NoError(t, err)
	assert.Equal(t, account.RoleAdmin, resp.User.Role)
}

func TestService_LoginByEmail(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	env.register(t, "user@example.com", "password1")

	resp, err := env.svc.LoginByEmail(ctx, LoginRequest{Email: "user@example.com", Password: "password1"})
	require.NoError(t, err)
	assert.Equal(t, "user@example.com", resp.User.Email)
	assert.NotEmpty(t, resp.AccessToken)
}

func TestService_LoginByEmail_InvalidCredentialsIndistinguishable(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	env.register(t, "user@example.com", "password1")

	_, errWrong := env.svc.LoginByEmail(ctx, LoginRequest{Email: "user@example.com", Password: "wrong-pass1"})
	_, errMissing := env.svc.LoginByEmail(ctx, LoginRequest{Email: "nobody@example.com", Password: "whatever1"})

	require.Error(t, errWrong)
	require.Error(t, errMissing)
	assert.True(t, apperr.IsKind(errWrong, apperr.KindAuthentication))
	assert.True(t, apperr.IsKind(errMissing, apperr.KindAuthentication))
	// Same message either way, so callers cannot tell which part was wrong.
	assert.Equal(t, errWrong.Error(), errMissing.Error())
}

func TestService_LoginByEmail_OAuthOnlyAccountHasNoPassword(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	_, err := env.svc.HandleOAuthUser(ctx, oauth.Profile{
		Email:     "oauth@example.com",
		GivenName: "O",
		Provider:  oauth.ProviderGoogle,
	})
	require.NoError(t, err)

	_, err = env.svc.LoginByEmail(ctx, LoginRequest{Email: "oauth@example.com", Password: "anything1"})
	assert.True(t, apperr.IsKind(err, apperr.KindAuthentication))
}

func TestService_LoginByEmail_SuccessResetsCounter(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	env.register(t, "user@example.com", "password1")

	for i := 0; i < 2; i++ {
		_, err := env.svc.LoginByEmail(ctx, LoginRequest{Email: "user@example.com", Password: "wrong-pass1"})
		require.Error(t, err)
	}

	count, err := env.tracker.Get(ctx, "user@example.com")
	require.NoError(t, err)
	assert.Equal(t, 2, count)

	_, err = env.svc.LoginByEmail(ctx, LoginRequest{Email: "user@example.com", Password: "password1"})
	require.NoError(t, err)

	count, err = env.tracker.Get(ctx, "user@example.com")
	require.NoError(t, err)
	assert.Zero(t, count)
}

// The ban fires on the attempt that observes the threshold already
// reached, not on the failure that first reaches it.
func TestService_LoginByEmail_ThresholdAndAutoBan(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	resp := env.register(t, "a@x.com", "password1")
	accountID := resp.User.ID

	// Failures 1 and 2: plain authentication errors.
	for i := 0; i < 2; i++ {
		_, err := env.svc.LoginByEmail(ctx, LoginRequest{Email: "a@x.com", Password: "wrong-pass1"})
		assert.True(t, apperr.IsKind(err, apperr.KindAuthentication))
	}

	// Failure 3 reaches the threshold: rejected as authorization, but no
	// ban record exists yet.
	_, err := env.svc.LoginByEmail(ctx, LoginRequest{Email: "a@x.com", Password: "wrong-pass1"})
	assert.True(t, apperr.IsKind(err, apperr.KindAuthorization))

	banned, err := env.bans.IsUserBanned(ctx, accountID)
	require.NoError(t, err)
	assert.False(t, banned)

	// Attempt 4 observes the saturated counter: auto-ban plus rejection,
	// even with the correct password.
	_, err = env.svc.LoginByEmail(ctx, LoginRequest{Email: "a@x.com", Password: "password1"})
	assert.True(t, apperr.IsKind(err, apperr.KindAuthorization))

	banned, err = env.bans.IsUserBanned(ctx, accountID)
	require.NoError(t, err)
	assert.True(t, banned)

	// Once the ban's end passes, the account reads as not banned again.
	active, err := env.banRepo.FindActiveByAccount(ctx, accountID)
	require.NoError(t, err)
	assert.InDelta(t, 600*time.Second, time.Until(active.EndsAt), float64(5*time.Second))

	active.EndsAt = time.Now().Add(-time.Second)
	require.NoError(t, env.banRepo.Update(ctx, active))

	banned, err = env.bans.IsUserBanned(ctx, accountID)
	require.NoError(t, err)
	assert.False(t, banned)
}

func TestService_LoginByEmail_BelowThresholdNeverBans(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	resp := env.register(t, "careful@example.com", "password1")

	for i := 0; i < 2; i++ {
		_, err := env.svc.LoginByEmail(ctx, LoginRequest{Email: "careful@example.com", Password: "wrong-pass1"})
		require.Error(t, err)
	}

	_, err := env.bans.GetUserBans(ctx, resp.User.ID)
	assert.True(t, apperr.IsKind(err, apperr.KindNotFound))
}

// A failing auto-ban side effect must never mask the primary rejection.
func TestService_LoginByEmail_BanFailureDoesNotMask(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	// No such account, so AutoBanUser will fail internally each time.
	for i := 0; i < 3; i++ {
		_, err := env.svc.LoginByEmail(ctx, LoginRequest{Email: "ghost@example.com", Password: "wrong-pass1"})
		require.Error(t, err)
	}

	_, err := env.svc.LoginByEmail(ctx, LoginRequest{Email: "ghost@example.com", Password: "wrong-pass1"})
	assert.True(t, apperr.IsKind(err, apperr.KindAuthorization))
}

func TestService_LoginByEmail_CounterExpiryFailsOpen(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	env.register(t, "user@example.com", "password1")

	for i := 0; i < 3; i++ {
		_, err := env.svc.LoginByEmail(ctx, LoginRequest{Email: "user@example.com", Password: "wrong-pass1"})
		require.Error(t, err)
	}

	// After the block window passes untouched, the counter vanishes and
	// a correct login goes through again.
	env.redis.FastForward(601 * time.Second)

	_, err := env.svc.LoginByEmail(ctx, LoginRequest{Email: "user@example.com", Password: "password1"})
	require.NoError(t, err)
}

func TestService_HandleOAuthUser(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	profile := oauth.Profile{
		Email:      "g@example.com",
		GivenName:  "Grace",
		FamilyName: "Hopper",
		AvatarURL:  "http://photo",
		Provider:   oauth.ProviderGoogle,
	}

	first, err := env.svc.HandleOAuthUser(ctx, profile)
	require.NoError(t, err)
	assert.Equal(t, "g@example.com", first.User.Email)

	acc, err := env.accounts.FindByEmail(ctx, "g@example.com")
	require.NoError(t, err)
	assert.Empty(t, acc.PasswordHash)
	assert.Equal(t, "Grace", acc.Name)
	assert.Equal(t, "http://photo", acc.Avatar)

	// A second OAuth login finds the same account instead of creating one.
	second, err := env.svc.HandleOAuthUser(ctx, profile)
	require.NoError(t, err)
	assert.Equal(t, first.User.ID, second.User.ID)

	_, err = env.svc.HandleOAuthUser(ctx, oauth.Profile{Provider: oauth.ProviderGitHub})
	assert.True(t, apperr.IsKind(err, apperr.KindValidation))
}

func TestService_GetNewTokens(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	registered := env.register(t, "b@x.com", "password1")

	refreshed, err := env.svc.GetNewTokens(ctx, registered.RefreshToken)
	require.NoError(t, err)

	// New pair, same account embedded.
	assert.NotEqual(t, registered.AccessToken, refreshed.AccessToken)
	claims, err := env.tokens.Verify(refreshed.AccessToken)
	require.NoError(t, err)
	assert.Equal(t, registered.User.ID, claims.AccountID)
}

func TestService_GetNewTokens_Failures(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	_, err := env.svc.GetNewTokens(ctx, "")
	assert.True(t, apperr.IsKind(err, apperr.KindAuthentication))
	assert.Equal(t, apperr.ReasonInvalid, apperr.ReasonOf(err))

	_, err = env.svc.GetNewTokens(ctx, "not.a.token")
	assert.True(t, apperr.IsKind(err, apperr.KindAuthentication))
	assert.Equal(t, apperr.ReasonInvalid, apperr.ReasonOf(err))
}

func TestService_GetNewTokens_AccountDeleted(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	registered := env.register(t, "gone@example.com", "password1")

	require.NoError(t, env.accounts.Delete(ctx, registered.User.ID))

	_, err := env.svc.GetNewTokens(ctx, registered.RefreshToken)
	assert.True(t, apperr.IsKind(err, apperr.KindNotFound))
}
