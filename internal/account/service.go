package account

import (
	"context"
	"errors"

	"go.uber.org/zap"

	"github.com/nordmarket/authcore/internal/apperr"
)

// Service exposes read/admin operations over accounts. Registration and
// the banned flag are driven by the auth and ban services respectively.
type Service struct {
	log        *zap.Logger
	repository Repository
}

func NewService(log *zap.Logger, repo Repository) *Service {
	return &Service{
		log:        log,
		repository: repo,
	}
}

func (s *Service) GetByID(ctx context.Context, id string) (*Account, error) {
	acc, err := s.repository.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, ErrAccountNotFound) {
			return nil, apperr.NotFound("account not found")
		}
		s.log.Error("failed to load account", zap.String("account_id", id), zap.Error(err))
		return nil, apperr.Internal("failed to load account", err)
	}
	return acc, nil
}

func (s *Service) GetByEmail(ctx context.Context, email string) (*Account, error) {
	acc, err := s.repository.FindByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, ErrAccountNotFound) {
			return nil, apperr.NotFound("account not found")
		}
		s.log.Error("failed to load account", zap.String("email", email), zap.Error(err))
		return nil, apperr.Internal("failed to load account", err)
	}
	return acc, nil
}

func (s *Service) Delete(ctx context.Context, id string) error {
	if err := s.repository.Delete(ctx, id); err != nil {
		if errors.Is(err, ErrAccountNotFound) {
			return apperr.NotFound("account not found")
		}
		s.log.Error("failed to delete account", zap.String("account_id", id), zap.Error(err))
		return apperr.Internal("failed to delete account", err)
	}
	s.log.Info("account deleted", zap.String("account_id", id))
	return nil
}

// UpdateProfile mutates the display fields only; email, role, credentials
// and the banned flag have their own paths.
func (s *Service) UpdateProfile(ctx context.Context, id, name, surname, phone, avatar string) (*Account, error) {
	acc, err := s.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	acc.Name = name
	acc.Surname = surname
	acc.Phone = phone
	acc.Avatar = avatar

	if err := s.repository.Update(ctx, acc); err != nil {
		s.log.Error("failed to update account", zap.String("account_id", id), zap.Error(err))
		return nil, apperr.Internal("failed to update account", err)
	}
	return acc, nil
}

func (s *Service) List(ctx context.Context, searchTerm string) ([]Account, error) {
	accounts, err := s.repository.List(ctx, searchTerm)
	if err != nil {
		s.log.Error("failed to list accounts", zap.Error(err))
		return nil, apperr.Internal("failed to list accounts", err)
	}
	return accounts, nil
}

func (s *Service) ListByRole(ctx context.Context, role Role, limit int) ([]Account, error) {
	if !role.Valid() {
		return nil, apperr.Validation("invalid role")
	}
	accounts, err := s.repository.ListByRole(ctx, role, limit)
	if err != nil {
		s.log.Error("failed to list accounts by role", zap.String("role", string(role)), zap.Error(err))
		return nil, apperr.Internal("failed to list accounts", err)
	}
	return accounts, nil
}
