package storage

import (
	"errors"
	"fmt"

	"gorm.io/gorm"

	"github.com/kirtanupdate/server/internal/domain"
)

// RecordedRepo provides access to recorded-samagam entries.
type RecordedRepo struct {
	db *gorm.DB
}

func NewRecordedRepo(db *gorm.DB) *RecordedRepo {
	return &RecordedRepo{db: db}
}

func (r *RecordedRepo) Get(id int) (*domain.RecordedSamagam, error) {
	var rec domain.RecordedSamagam
	if err := r.db.First(&rec, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("find recorded samagam: %w", err)
	}
	return &rec, nil
}

func (r *RecordedRepo) Paginated(limit, offset int) ([]domain.RecordedSamagam, int64, error) {
	var out []domain.RecordedSamagam
	if err := r.db.Limit(limit).Offset(offset).Find(&out).Error; err != nil {
		return nil, 0, fmt.Errorf("list recorded samagams: %w", err)
	}
	var total int64
	if err := r.db.Model(&domain.RecordedSamagam{}).Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("count recorded samagams: %w", err)
	}
	return out, total, nil
}

func (r *RecordedRepo) Create(rec *domain.RecordedSamagam) error {
	if err := r.db.Create(rec).Error; err != nil {
		return fmt.Errorf("create recorded samagam: %w", err)
	}
	return nil
}

func (r *RecordedRepo) Update(id int, rec *domain.RecordedSamagam) (*domain.RecordedSamagam, error) {
	rec.ID = id
	result := r.db.Model(&domain.RecordedSamagam{}).Where("id = ?", id).
		Select("Title", "Description", "YoutubeURL", "Date").Updates(rec)
	if err := result.Error; err != nil {
		return nil, fmt.Errorf("update recorded samagam: %w", err)
	}
	if result.RowsAffected == 0 {
		return nil, ErrNotFound
	}
	return r.Get(id)
}

func (r *RecordedRepo) Delete(id int) error {
	result := r.db.Delete(&domain.RecordedSamagam{}, "id = ?", id)
	if err := result.Error; err != nil {
		return fmt.Errorf("delete recorded samagam: %w", err)
	}
	if result.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}
