package auth

import (
	"context"
	"errors"

	"golang.org/x/crypto/bcrypt"

	"github.com/nordmarket/authcore/internal/account"
	"github.com/nordmarket/authcore/internal/apperr"
)

func (s *Service) hashPassword(password string) (string, error) {
	cost := s.config.BcryptCost
	if cost == 0 {
		cost = bcrypt.DefaultCost
	}
	bytes, err := bcrypt.GenerateFromPassword([]byte(password), cost)
	return string(bytes), err
}

func (s *Service) checkPasswordHash(password, hash string) bool {
	err := bcrypt.CompareHashAndPassword([]byte(hash), []byte(password))
	return err == nil
}

// validateCredentials checks a submitted password against the stored hash.
// A missing account and a wrong password are indistinguishable to the
// caller; both surface as the same generic failure.
func (s *Service) validateCredentials(ctx context.Context, email, password string) (*account.Account, error) {
	acc, err := s.accounts.FindByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, account.ErrAccountNotFound) {
			s.hashPassword("dummy") // Prevent timing attacks
			return nil, apperr.Authentication(apperr.ReasonInvalid, "invalid credentials")
		}
		return nil, s.internal("failed to load account", err)
	}

	// OAuth-only accounts have no local password.
	if acc.PasswordHash == "" || !s.checkPasswordHash(password, acc.PasswordHash) {
		return nil, apperr.Authentication(apperr.ReasonInvalid, "invalid credentials")
	}

	return acc, nil
}
