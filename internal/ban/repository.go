package ban

import (
	"context"
	"errors"
	"strings"
	"time"

	"gorm.io/gorm"
)

var (
	ErrBanNotFound     = errors.New("ban not found")
	ErrActiveBanExists = errors.New("active ban already exists")
)

type Repository interface {
	Create(ctx context.Context, ban *Ban) error
	FindActiveByAccount(ctx context.Context, accountID string) (*Ban, error)
	Update(ctx context.Context, ban *Ban) error
	ListByAccount(ctx context.Context, accountID string) ([]Ban, error)
	// DeactivateExpired flips active=false on every active ban whose end has
	// passed and returns the number of rows mutated.
	DeactivateExpired(ctx context.Context, now time.Time) (int64, error)
}

type repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) Create(ctx context.Context, ban *Ban) error {
	err := r.db.WithContext(ctx).Create(ban).Error
	if err != nil && isUniqueViolation(err) {
		// Partial unique index on (account_id) WHERE active caught a
		// concurrent writer that passed the business check.
		return ErrActiveBanExists
	}
	return err
}

func (r *repository) FindActiveByAccount(ctx context.Context, accountID string) (*Ban, error) {
	var ban Ban
	err := r.db.WithContext(ctx).
		Where("account_id = ? AND active = ?", accountID, true).
		First(&ban).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrBanNotFound
		}
		return nil, err
	}
	return &ban, nil
}

func (r *repository) Update(ctx context.Context, ban *Ban) error {
	return r.db.WithContext(ctx).Save(ban).Error
}

func (r *repository) ListByAccount(ctx context.Context, accountID string) ([]Ban, error) {
	var bans []Ban
	err := r.db.WithContext(ctx).
		Where("account_id = ?", accountID).
		Order("starts_at DESC").
		Find(&bans).Error
	if err != nil {
		return nil, err
	}
	return bans, nil
}

func (r *repository) DeactivateExpired(ctx context.Context, now time.Time) (int64, error) {
	result := r.db.WithContext(ctx).
		Model(&Ban{}).
		Where("active = ? AND ends_at <= ?", true, now).
		Update("active", false)
	return result.RowsAffected, result.Error
}

func isUniqueViolation(err error) bool {
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}
	return strings.Contains(err.Error(), "23505") ||
		strings.Contains(err.Error(), "duplicate key")
}
