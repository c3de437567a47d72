package storage

import (
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"

	"github.com/kirtanupdate/server/internal/domain"
)

// SamagamRepo provides access to upcoming-event listings.
type SamagamRepo struct {
	db *gorm.DB
}

func NewSamagamRepo(db *gorm.DB) *SamagamRepo {
	return &SamagamRepo{db: db}
}

func (r *SamagamRepo) Get(id int) (*domain.Samagam, error) {
	var s domain.Samagam
	if err := r.db.First(&s, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("find samagam: %w", err)
	}
	return &s, nil
}

// Paginated returns one page ordered by date ascending plus the total count.
func (r *SamagamRepo) Paginated(limit, offset int) ([]domain.Samagam, int64, error) {
	var out []domain.Samagam
	if err := r.db.Order("date asc").Limit(limit).Offset(offset).Find(&out).Error; err != nil {
		return nil, 0, fmt.Errorf("list samagams: %w", err)
	}
	var total int64
	if err := r.db.Model(&domain.Samagam{}).Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("count samagams: %w", err)
	}
	return out, total, nil
}

// Calendar lists events from the start of today onward, trimmed to what
// the calendar page renders.
func (r *SamagamRepo) Calendar(now time.Time) ([]domain.CalendarEntry, error) {
	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
	var out []domain.CalendarEntry
	err := r.db.Model(&domain.Samagam{}).
		Select("id, title, date, color").
		Where("date >= ?", today).
		Order("date asc").
		Find(&out).Error
	if err != nil {
		return nil, fmt.Errorf("list calendar samagams: %w", err)
	}
	return out, nil
}

func (r *SamagamRepo) Create(s *domain.Samagam) error {
	if s.Color == "" {
		s.Color = domain.DefaultSamagamColor
	}
	if err := r.db.Create(s).Error; err != nil {
		return fmt.Errorf("create samagam: %w", err)
	}
	return nil
}

func (r *SamagamRepo) Update(id int, s *domain.Samagam) (*domain.Samagam, error) {
	s.ID = id
	if s.Color == "" {
		s.Color = domain.DefaultSamagamColor
	}
	// Select pins the column set; a struct Updates would skip zero values,
	// so an emptied ImageURL could never clear the stored image.
	result := r.db.Model(&domain.Samagam{}).Where("id = ?", id).
		Select("Title", "Description", "Date", "TimeFrom", "TimeTo",
			"Location", "Organizer", "ContactInfo", "ImageURL", "Color").
		Updates(s)
	if err := result.Error; err != nil {
		return nil, fmt.Errorf("update samagam: %w", err)
	}
	if result.RowsAffected == 0 {
		return nil, ErrNotFound
	}
	return r.Get(id)
}

func (r *SamagamRepo) Delete(id int) error {
	result := r.db.Delete(&domain.Samagam{}, "id = ?", id)
	if err := result.Error; err != nil {
		return fmt.Errorf("delete samagam: %w", err)
	}
	if result.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

// DeleteExpired removes events dated before the cutoff, returning how many
// went away. The cleanup scheduler calls this with the start of today.
func (r *SamagamRepo) DeleteExpired(before time.Time) (int64, error) {
	result := r.db.Delete(&domain.Samagam{}, "date < ?", before)
	if err := result.Error; err != nil {
		return 0, fmt.Errorf("delete expired samagams: %w", err)
	}
	return result.RowsAffected, nil
}
