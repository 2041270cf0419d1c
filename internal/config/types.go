package config

import (
	"fmt"
	"time"
)

type ServerConfig struct {
	Host string `mapstructure:"host"`
	Port string `mapstructure:"port"`
}

type DatabaseConfig struct {
	Host     string `mapstructure:"host"`
	Port     int    `mapstructure:"port"`
	User     string `mapstructure:"user"`
	Password string `mapstructure:"password"`
	Name     string `mapstructure:"name"`
	SSLMode  string `mapstructure:"ssl_mode"`
}

type RedisConfig struct {
	Addr     string `mapstructure:"addr"`
	Password string `mapstructure:"password"`
	DB       int    `mapstructure:"db"`
}

type AuthConfig struct {
	JWTSecret            string        `mapstructure:"jwt_secret"`
	AccessTokenDuration  time.Duration `mapstructure:"access_token_duration"`
	RefreshTokenDuration time.Duration `mapstructure:"refresh_token_duration"`
	BcryptCost           int           `mapstructure:"bcrypt_cost"`
	MaxLoginAttempts     int           `mapstructure:"max_login_attempts"`
	BlockDuration        time.Duration `mapstructure:"block_duration"`
}

type BanConfig struct {
	SweepInterval time.Duration `mapstructure:"sweep_interval"`
}

type AppConfig struct {
	Server   ServerConfig   `mapstructure:"server"`
	Database DatabaseConfig `mapstructure:"database"`
	Redis    RedisConfig    `mapstructure:"redis"`
	Auth     AuthConfig     `mapstructure:"auth"`
	Ban      BanConfig      `mapstructure:"ban"`
}

// Validate rejects configurations that would break token or lockout
// invariants at issue time rather than at first use.
func (c *AuthConfig) Validate() error {
	if c.JWTSecret == "" {
		return fmt.Errorf("auth.jwt_secret must be set")
	}
	if c.AccessTokenDuration <= 0 || c.RefreshTokenDuration <= 0 {
		return fmt.Errorf("token durations must be positive")
	}
	if c.AccessTokenDuration >= c.RefreshTokenDuration {
		return fmt.Errorf("access token duration (%s) must be shorter than refresh token duration (%s)",
			c.AccessTokenDuration, c.RefreshTokenDuration)
	}
	if c.MaxLoginAttempts <= 0 {
		return fmt.Errorf("auth.max_login_attempts must be positive")
	}
	if c.BlockDuration <= 0 {
		return fmt.Errorf("auth.block_duration must be positive")
	}
	return nil
}
