package auth

import (
	"context"
	"errors"
	"time"

	"go.uber.org/zap"

	"github.com/nordmarket/authcore/internal/account"
	"github.com/nordmarket/authcore/internal/apperr"
	"github.com/nordmarket/authcore/internal/attempt"
	"github.com/nordmarket/authcore/internal/config"
	"github.com/nordmarket/authcore/internal/oauth"
	"github.com/nordmarket/authcore/internal/token"
)

const autoBanReason = "Too many login attempts"

// BanManager is the slice of the ban service the login path needs.
type BanManager interface {
	AutoBanUser(ctx context.Context, email, reason string, duration time.Duration) error
}

// Service composes credential validation, attempt tracking, auto-banning
// and token issuance into login, registration, OAuth login and refresh.
type Service struct {
	config   *config.AuthConfig
	log      *zap.Logger
	accounts account.Repository
	attempts *attempt.Tracker
	tokens   *token.Issuer
	bans     BanManager
}

func NewService(
	config *config.AuthConfig,
	log *zap.Logger,
	accounts account.Repository,
	attempts *attempt.Tracker,
	tokens *token.Issuer,
	bans BanManager,
) *Service {
	return &Service{
		config:   config,
		log:      log,
		accounts: accounts,
		attempts: attempts,
		tokens:   tokens,
		bans:     bans,
	}
}

// Response is what every auth operation returns: the account summary
// (never the hash) plus a fresh token pair.
type Response struct {
	User account.Summary `json:"user"`
	token.Pair
}

// LoginByEmail authenticates a password login. The attempt counter is
// consulted first: once it has reached the threshold, the attempt that
// observes it triggers the auto-ban and is rejected outright. Errors from
// the ban side effect never mask the primary failure.
func (s *Service) LoginByEmail(ctx context.Context, req LoginRequest) (*Response, error) {
	count, err := s.attempts.Get(ctx, req.Email)
	if err != nil {
		return nil, s.internal("failed to read login attempts", err)
	}

	if count >= s.config.MaxLoginAttempts {
		if banErr := s.bans.AutoBanUser(ctx, req.Email, autoBanReason, s.config.BlockDuration); banErr != nil {
			s.log.Error("auto ban failed", zap.String("email", req.Email), zap.Error(banErr))
		}
		return nil, apperr.Authorization("too many failed login attempts, please try again later")
	}

	acc, err := s.validateCredentials(ctx, req.Email, req.Password)
	if err != nil {
		if apperr.IsKind(err, apperr.KindAuthentication) {
			attempts, incErr := s.attempts.Increment(ctx, req.Email, s.config.BlockDuration)
			if incErr != nil {
				s.log.Error("failed to increment login attempts",
					zap.String("email", req.Email), zap.Error(incErr))
			} else if attempts >= s.config.MaxLoginAttempts {
				return nil, apperr.Authorization("too many failed login attempts, please try again later")
			}
		}
		return nil, err
	}

	if err := s.attempts.Reset(ctx, req.Email); err != nil {
		return nil, s.internal("failed to reset login attempts", err)
	}

	pair, err := s.tokens.IssuePair(acc.ID)
	if err != nil {
		return nil, err
	}

	s.log.Info("login succeeded", zap.String("email", acc.Email))
	return &Response{User: acc.Summary(), Pair: pair}, nil
}

// RegisterByEmail creates an account and logs it in immediately.
func (s *Service) RegisterByEmail(ctx context.Context, req RegisterRequest) (*Response, error) {
	if _, err := s.accounts.FindByEmail(ctx, req.Email); err == nil {
		return nil, apperr.Conflict("user with this email already exists")
	} else if !errors.Is(err, account.ErrAccountNotFound) {
		return nil, s.internal("failed to check existing account", err)
	}

	role := req.Role
	if role == "" {
		role = account.RoleUser
	}
	if !role.Valid() {
		return nil, apperr.Validation("invalid role")
	}

	hash, err := s.hashPassword(req.Password)
	if err != nil {
		return nil, s.internal("failed to hash password", err)
	}

	acc := &account.Account{
		Email:        req.Email,
		PasswordHash: hash,
		Name:         req.Name,
		Surname:      req.Surname,
		Phone:        req.Phone,
		Role:         role,
	}

	if err := s.accounts.Create(ctx, acc); err != nil {
		if errors.Is(err, account.ErrAccountExists) {
			return nil, apperr.Conflict("user with this email already exists")
		}
		return nil, s.internal("failed to create account", err)
	}

	pair, err := s.tokens.IssuePair(acc.ID)
	if err != nil {
		return nil, err
	}

	s.log.Info("user registered", zap.String("email", acc.Email))
	return &Response{User: acc.Summary(), Pair: pair}, nil
}

// HandleOAuthUser finds the account matching a normalized provider
// profile, or creates one without a local password, then issues a pair.
func (s *Service) HandleOAuthUser(ctx context.Context, profile oauth.Profile) (*Response, error) {
	if profile.Email == "" {
		return nil, apperr.Validation("provider profile carries no email")
	}

	acc, err := s.accounts.FindByEmail(ctx, profile.Email)
	if errors.Is(err, account.ErrAccountNotFound) {
		acc = &account.Account{
			Email:   profile.Email,
			Name:    profile.GivenName,
			Surname: profile.FamilyName,
			Avatar:  profile.AvatarURL,
			Role:    account.RoleUser,
		}
		if createErr := s.accounts.Create(ctx, acc); createErr != nil {
			return nil, s.internal("failed to create oauth account", createErr)
		}
		s.log.Info("oauth account created",
			zap.String("email", acc.Email), zap.String("provider", string(profile.Provider)))
	} else if err != nil {
		return nil, s.internal("failed to load account", err)
	}

	pair, err := s.tokens.IssuePair(acc.ID)
	if err != nil {
		return nil, err
	}

	s.log.Info("oauth login processed",
		zap.String("email", acc.Email), zap.String("provider", string(profile.Provider)))
	return &Response{User: acc.Summary(), Pair: pair}, nil
}

// GetNewTokens exchanges a valid refresh token for a fresh pair. An
// expired refresh token is reported distinctly from a malformed one.
func (s *Service) GetNewTokens(ctx context.Context, refreshToken string) (*Response, error) {
	if refreshToken == "" {
		return nil, apperr.Authentication(apperr.ReasonInvalid, "invalid token or you did not sign in")
	}

	claims, err := s.tokens.Verify(refreshToken)
	if err != nil {
		return nil, err
	}

	acc, err := s.accounts.FindByID(ctx, claims.AccountID)
	if err != nil {
		if errors.Is(err, account.ErrAccountNotFound) {
			return nil, apperr.NotFound("account not found for this token")
		}
		return nil, s.internal("failed to load account", err)
	}

	pair, err := s.tokens.IssuePair(acc.ID)
	if err != nil {
		return nil, err
	}

	s.log.Info("tokens refreshed", zap.String("account_id", acc.ID))
	return &Response{User: acc.Summary(), Pair: pair}, nil
}

func (s *Service) internal(msg string, err error) error {
	s.log.Error(msg, zap.Error(err))
	return apperr.Internal(msg, err)
}
