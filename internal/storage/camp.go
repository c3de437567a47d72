package storage

import (
	"errors"
	"fmt"

	"gorm.io/gorm"

	"github.com/kirtanupdate/server/internal/domain"
)

// ErrDuplicateEmail is returned when an email is already registered.
var ErrDuplicateEmail = errors.New("email already registered")

// CampRepo provides access to Gurmat camp registrations.
type CampRepo struct {
	db *gorm.DB
}

func NewCampRepo(db *gorm.DB) *CampRepo {
	return &CampRepo{db: db}
}

func (r *CampRepo) Create(reg *domain.CampRegistration) error {
	var count int64
	if err := r.db.Model(&domain.CampRegistration{}).Where("email = ?", reg.Email).Count(&count).Error; err != nil {
		return fmt.Errorf("check registration email: %w", err)
	}
	if count > 0 {
		return ErrDuplicateEmail
	}
	if err := r.db.Create(reg).Error; err != nil {
		return fmt.Errorf("create registration: %w", err)
	}
	return nil
}

func (r *CampRepo) GetByEmail(email string) (*domain.CampRegistration, error) {
	var reg domain.CampRegistration
	if err := r.db.First(&reg, "email = ?", email).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("find registration: %w", err)
	}
	return &reg, nil
}

// All lists registrations newest first for the admin view.
func (r *CampRepo) All() ([]domain.CampRegistration, error) {
	var out []domain.CampRegistration
	if err := r.db.Order("created_at desc").Find(&out).Error; err != nil {
		return nil, fmt.Errorf("list registrations: %w", err)
	}
	return out, nil
}
