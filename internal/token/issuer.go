// Package token issues and verifies the signed session token pair. Tokens
// are stateless: validity is proven solely by signature and expiry.
package token

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"github.com/nordmarket/authcore/internal/apperr"
	"github.com/nordmarket/authcore/internal/config"
)

type Claims struct {
	AccountID string `json:"account_id"`
	jwt.RegisteredClaims
}

type Pair struct {
	AccessToken  string `json:"accessToken"`
	RefreshToken string `json:"refreshToken"`
}

type Issuer struct {
	config *config.AuthConfig
}

func NewIssuer(config *config.AuthConfig) *Issuer {
	return &Issuer{config: config}
}

// IssuePair signs an access/refresh token pair for the account. The access
// token always expires before the refresh token (enforced by config
// validation at startup).
func (i *Issuer) IssuePair(accountID string) (Pair, error) {
	accessToken, err := i.sign(accountID, i.config.AccessTokenDuration)
	if err != nil {
		return Pair{}, apperr.Internal("failed to sign access token", err)
	}

	refreshToken, err := i.sign(accountID, i.config.RefreshTokenDuration)
	if err != nil {
		return Pair{}, apperr.Internal("failed to sign refresh token", err)
	}

	return Pair{
		AccessToken:  accessToken,
		RefreshToken: refreshToken,
	}, nil
}

func (i *Issuer) sign(accountID string, lifetime time.Duration) (string, error) {
	now := time.Now()
	claims := &Claims{
		AccountID: accountID,
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        uuid.NewString(),
			ExpiresAt: jwt.NewNumericDate(now.Add(lifetime)),
			IssuedAt:  jwt.NewNumericDate(now),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(i.config.JWTSecret))
}

// Verify parses and validates a token. Expiry is reported separately from
// every other failure: callers treat "expired" as a normal user-facing
// condition, anything else as tampering.
func (i *Issuer) Verify(tokenString string) (*Claims, error) {
	claims := &Claims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, errors.New("unexpected signing method")
		}
		return []byte(i.config.JWTSecret), nil
	})

	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, apperr.Authentication(apperr.ReasonExpired, "token has expired")
		}
		return nil, apperr.Authentication(apperr.ReasonInvalid, "invalid token")
	}

	if !token.Valid {
		return nil, apperr.Authentication(apperr.ReasonInvalid, "invalid token")
	}

	return claims, nil
}
