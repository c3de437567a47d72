package storage

import (
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"

	"github.com/kirtanupdate/server/internal/domain"
)

// FcmTokenRepo provides access to push-notification tokens.
type FcmTokenRepo struct {
	db *gorm.DB
}

func NewFcmTokenRepo(db *gorm.DB) *FcmTokenRepo {
	return &FcmTokenRepo{db: db}
}

// Save stores the token, returning the existing record if it is already
// registered. Registrations are idempotent so clients can re-send freely.
func (r *FcmTokenRepo) Save(token string) (*domain.FcmToken, error) {
	var existing domain.FcmToken
	err := r.db.First(&existing, "token = ?", token).Error
	if err == nil {
		return &existing, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("find fcm token: %w", err)
	}

	now := time.Now()
	rec := domain.FcmToken{Token: token, CreatedAt: now, LastUsed: now}
	if err := r.db.Create(&rec).Error; err != nil {
		return nil, fmt.Errorf("create fcm token: %w", err)
	}
	return &rec, nil
}

func (r *FcmTokenRepo) All() ([]domain.FcmToken, error) {
	var out []domain.FcmToken
	if err := r.db.Find(&out).Error; err != nil {
		return nil, fmt.Errorf("list fcm tokens: %w", err)
	}
	return out, nil
}

func (r *FcmTokenRepo) Delete(token string) error {
	result := r.db.Delete(&domain.FcmToken{}, "token = ?", token)
	if err := result.Error; err != nil {
		return fmt.Errorf("delete fcm token: %w", err)
	}
	if result.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *FcmTokenRepo) Exists(token string) (bool, error) {
	var count int64
	if err := r.db.Model(&domain.FcmToken{}).Where("token = ?", token).Count(&count).Error; err != nil {
		return false, fmt.Errorf("check fcm token: %w", err)
	}
	return count > 0, nil
}
