package storage

import (
	"fmt"

	"gorm.io/gorm"

	"github.com/kirtanupdate/server/internal/domain"
)

// LocationRepo provides access to gathering venues.
type LocationRepo struct {
	db *gorm.DB
}

func NewLocationRepo(db *gorm.DB) *LocationRepo {
	return &LocationRepo{db: db}
}

func (r *LocationRepo) All() ([]domain.Location, error) {
	var out []domain.Location
	if err := r.db.Find(&out).Error; err != nil {
		return nil, fmt.Errorf("list locations: %w", err)
	}
	return out, nil
}

func (r *LocationRepo) Create(loc *domain.Location) error {
	if err := r.db.Create(loc).Error; err != nil {
		return fmt.Errorf("create location: %w", err)
	}
	return nil
}

func (r *LocationRepo) Update(id int, loc *domain.Location) (*domain.Location, error) {
	loc.ID = id
	result := r.db.Model(&domain.Location{}).Where("id = ?", id).
		Select("Name", "Address", "Coordinates", "Description").Updates(loc)
	if err := result.Error; err != nil {
		return nil, fmt.Errorf("update location: %w", err)
	}
	if result.RowsAffected == 0 {
		return nil, ErrNotFound
	}
	var updated domain.Location
	if err := r.db.First(&updated, "id = ?", id).Error; err != nil {
		return nil, fmt.Errorf("find location: %w", err)
	}
	return &updated, nil
}

func (r *LocationRepo) Delete(id int) error {
	result := r.db.Delete(&domain.Location{}, "id = ?", id)
	if err := result.Error; err != nil {
		return fmt.Errorf("delete location: %w", err)
	}
	if result.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}
