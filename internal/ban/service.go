package ban

import (
	"context"
	"errors"
	"time"

	"go.uber.org/zap"

	"github.com/nordmarket/authcore/internal/account"
	"github.com/nordmarket/authcore/internal/apperr"
)

const hoursPerDay = 24

// Service owns ban records and their active/expired state. A ban moves
// Active -> Expired when time passes its end (observed lazily by readers
// or flipped by the periodic sweep), Active -> Deactivated on explicit
// removal, and Active -> Active on extension.
type Service struct {
	log      *zap.Logger
	bans     Repository
	accounts account.Repository
}

func NewService(log *zap.Logger, bans Repository, accounts account.Repository) *Service {
	return &Service{
		log:      log,
		bans:     bans,
		accounts: accounts,
	}
}

type SetBanParams struct {
	AccountID    string
	Reason       string
	Notes        string
	AdminID      string
	DurationDays float64
}

// Status is the read-only projection of an account's active ban.
type Status struct {
	AccountID    string    `json:"accountId"`
	Reason       string    `json:"reason"`
	EndsAt       time.Time `json:"endsAt"`
	DurationDays float64   `json:"durationDays"`
}

// SetBan creates an active ban for the account and flips its banned flag.
// Fails with a conflict when an active, not-yet-expired ban already exists.
func (s *Service) SetBan(ctx context.Context, p SetBanParams) (*Ban, error) {
	if p.DurationDays <= 0 {
		return nil, apperr.Validation("ban duration must be positive")
	}

	if _, err := s.accounts.FindByID(ctx, p.AccountID); err != nil {
		if errors.Is(err, account.ErrAccountNotFound) {
			return nil, apperr.NotFound("account not found")
		}
		return nil, s.internal("failed to load account", p.AccountID, err)
	}

	now := time.Now()
	existing, err := s.bans.FindActiveByAccount(ctx, p.AccountID)
	switch {
	case err == nil && !existing.Expired(now):
		s.log.Warn("account already has an active ban",
			zap.String("account_id", p.AccountID), zap.Time("ends_at", existing.EndsAt))
		return nil, apperr.Conflict("account already has an active ban")
	case err == nil:
		// Expired but not yet swept; retire it so the new ban can take the
		// one-active-per-account slot.
		existing.Active = false
		if err := s.bans.Update(ctx, existing); err != nil {
			return nil, s.internal("failed to retire expired ban", p.AccountID, err)
		}
	case !errors.Is(err, ErrBanNotFound):
		return nil, s.internal("failed to check active ban", p.AccountID, err)
	}

	b := &Ban{
		AccountID:    p.AccountID,
		Reason:       p.Reason,
		Notes:        p.Notes,
		AdminID:      p.AdminID,
		StartsAt:     now,
		EndsAt:       now.Add(time.Duration(p.DurationDays * float64(hoursPerDay) * float64(time.Hour))),
		Active:       true,
		DurationDays: p.DurationDays,
	}

	if err := s.bans.Create(ctx, b); err != nil {
		if errors.Is(err, ErrActiveBanExists) {
			return nil, apperr.Conflict("account already has an active ban")
		}
		return nil, s.internal("failed to persist ban", p.AccountID, err)
	}

	if err := s.accounts.SetBannedFlag(ctx, p.AccountID, true); err != nil {
		return nil, s.internal("failed to flag account as banned", p.AccountID, err)
	}

	s.log.Info("account banned",
		zap.String("account_id", p.AccountID),
		zap.Float64("duration_days", p.DurationDays),
		zap.String("reason", p.Reason))
	return b, nil
}

// AutoBanUser bans by email; it runs from the login path before an account
// id is resolved. Idempotent: an existing active, not-yet-expired ban is
// logged and left alone.
func (s *Service) AutoBanUser(ctx context.Context, email, reason string, duration time.Duration) error {
	acc, err := s.accounts.FindByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, account.ErrAccountNotFound) {
			return apperr.NotFound("account not found")
		}
		return s.internal("failed to load account", email, err)
	}

	now := time.Now()
	existing, err := s.bans.FindActiveByAccount(ctx, acc.ID)
	if err == nil && !existing.Expired(now) {
		s.log.Warn("account is already banned",
			zap.String("email", email), zap.Time("ends_at", existing.EndsAt))
		return nil
	}
	if err == nil {
		existing.Active = false
		if err := s.bans.Update(ctx, existing); err != nil {
			return s.internal("failed to retire expired ban", acc.ID, err)
		}
	} else if !errors.Is(err, ErrBanNotFound) {
		return s.internal("failed to check active ban", acc.ID, err)
	}

	b := &Ban{
		AccountID:    acc.ID,
		Reason:       reason,
		StartsAt:     now,
		EndsAt:       now.Add(duration),
		Active:       true,
		DurationDays: duration.Hours() / hoursPerDay,
	}

	if err := s.bans.Create(ctx, b); err != nil {
		if errors.Is(err, ErrActiveBanExists) {
			// Concurrent auto-ban won the race; same outcome.
			return nil
		}
		return s.internal("failed to persist auto ban", acc.ID, err)
	}

	s.log.Info("account auto-banned",
		zap.String("email", email),
		zap.Time("ends_at", b.EndsAt),
		zap.String("reason", reason))
	return nil
}

// RemoveBan deactivates the account's active ban immediately, regardless
// of its end timestamp, and clears the account's banned flag.
func (s *Service) RemoveBan(ctx context.Context, accountID string) error {
	if _, err := s.accounts.FindByID(ctx, accountID); err != nil {
		if errors.Is(err, account.ErrAccountNotFound) {
			return apperr.NotFound("account not found")
		}
		return s.internal("failed to load account", accountID, err)
	}

	b, err := s.bans.FindActiveByAccount(ctx, accountID)
	if err != nil {
		if errors.Is(err, ErrBanNotFound) {
			return apperr.NotFound("no active ban found for account")
		}
		return s.internal("failed to load active ban", accountID, err)
	}

	b.Active = false
	if err := s.bans.Update(ctx, b); err != nil {
		return s.internal("failed to deactivate ban", accountID, err)
	}

	if err := s.accounts.SetBannedFlag(ctx, accountID, false); err != nil {
		return s.internal("failed to clear banned flag", accountID, err)
	}

	s.log.Info("ban removed", zap.String("account_id", accountID))
	return nil
}

// ExtendBan pushes the active ban's end forward by additionalDays. The
// extension must be positive; an end timestamp never moves backward.
func (s *Service) ExtendBan(ctx context.Context, accountID string, additionalDays int) (*Ban, error) {
	if additionalDays <= 0 {
		return nil, apperr.Validation("extension must be a positive number of days")
	}

	b, err := s.bans.FindActiveByAccount(ctx, accountID)
	if err != nil {
		if errors.Is(err, ErrBanNotFound) {
			return nil, apperr.NotFound("no active ban found for account")
		}
		return nil, s.internal("failed to load active ban", accountID, err)
	}

	b.EndsAt = b.EndsAt.Add(time.Duration(additionalDays) * hoursPerDay * time.Hour)
	b.DurationDays += float64(additionalDays)
	if err := s.bans.Update(ctx, b); err != nil {
		return nil, s.internal("failed to extend ban", accountID, err)
	}

	s.log.Info("ban extended",
		zap.String("account_id", accountID),
		zap.Int("additional_days", additionalDays),
		zap.Time("ends_at", b.EndsAt))
	return b, nil
}

// DeactivateExpiredBans is the periodic sweep. Idempotent: already
// deactivated bans are untouched, so an immediate re-run mutates nothing.
func (s *Service) DeactivateExpiredBans(ctx context.Context) (int64, error) {
	count, err := s.bans.DeactivateExpired(ctx, time.Now())
	if err != nil {
		s.log.Error("failed to deactivate expired bans", zap.Error(err))
		return 0, apperr.Internal("failed to deactivate expired bans", err)
	}

	s.log.Info("deactivated expired bans", zap.Int64("count", count))
	return count, nil
}

// IsUserBanned reports whether an active ban exists whose end timestamp
// has not passed. The end is re-checked here; a stale active flag alone
// never counts.
func (s *Service) IsUserBanned(ctx context.Context, accountID string) (bool, error) {
	if _, err := s.accounts.FindByID(ctx, accountID); err != nil {
		if errors.Is(err, account.ErrAccountNotFound) {
			return false, apperr.NotFound("account not found")
		}
		return false, s.internal("failed to load account", accountID, err)
	}

	b, err := s.bans.FindActiveByAccount(ctx, accountID)
	if err != nil {
		if errors.Is(err, ErrBanNotFound) {
			return false, nil
		}
		return false, s.internal("failed to load active ban", accountID, err)
	}

	return !b.Expired(time.Now()), nil
}

// GetUserBans returns the account's ban history, newest first.
func (s *Service) GetUserBans(ctx context.Context, accountID string) ([]Ban, error) {
	bans, err := s.bans.ListByAccount(ctx, accountID)
	if err != nil {
		return nil, s.internal("failed to list bans", accountID, err)
	}
	if len(bans) == 0 {
		return nil, apperr.NotFound("no bans found for account")
	}
	return bans, nil
}

// GetBannedUsers lists accounts currently carrying the banned flag.
func (s *Service) GetBannedUsers(ctx context.Context) ([]account.Account, error) {
	accounts, err := s.accounts.ListBanned(ctx)
	if err != nil {
		s.log.Error("failed to list banned accounts", zap.Error(err))
		return nil, apperr.Internal("failed to list banned accounts", err)
	}
	if len(accounts) == 0 {
		return nil, apperr.NotFound("no banned accounts found")
	}
	return accounts, nil
}

// GetUserStatus projects the account's active ban.
func (s *Service) GetUserStatus(ctx context.Context, accountID string) (*Status, error) {
	if _, err := s.accounts.FindByID(ctx, accountID); err != nil {
		if errors.Is(err, account.ErrAccountNotFound) {
			return nil, apperr.NotFound("account not found")
		}
		return nil, s.internal("failed to load account", accountID, err)
	}

	b, err := s.bans.FindActiveByAccount(ctx, accountID)
	if err != nil {
		if errors.Is(err, ErrBanNotFound) {
			return nil, apperr.NotFound("no active ban found for account")
		}
		return nil, s.internal("failed to load active ban", accountID, err)
	}

	return &Status{
		AccountID:    b.AccountID,
		Reason:       b.Reason,
		EndsAt:       b.EndsAt,
		DurationDays: b.DurationDays,
	}, nil
}

func (s *Service) internal(msg, subject string, err error) error {
	s.log.Error(msg, zap.String("subject", subject), zap.Error(err))
	return apperr.Internal(msg, err)
}
