package storage

import (
	"errors"
	"fmt"

	"gorm.io/gorm"

	"github.com/kirtanupdate/server/internal/domain"
)

// BroadcastRepo persists the at-most-one live-broadcast record.
type BroadcastRepo struct {
	db *gorm.DB
}

func NewBroadcastRepo(db *gorm.DB) *BroadcastRepo {
	return &BroadcastRepo{db: db}
}

// Replace drops any prior record and inserts the new one in a single
// transaction, so the table never holds more than one row.
func (r *BroadcastRepo) Replace(sessionID, roomName string) (*domain.LiveBroadcast, error) {
	rec := domain.LiveBroadcast{SessionID: sessionID, RoomName: roomName}
	err := r.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("1 = 1").Delete(&domain.LiveBroadcast{}).Error; err != nil {
			return err
		}
		return tx.Create(&rec).Error
	})
	if err != nil {
		return nil, fmt.Errorf("replace live broadcast: %w", err)
	}
	return &rec, nil
}

// Current returns the active record, or nil when none exists.
func (r *BroadcastRepo) Current() (*domain.LiveBroadcast, error) {
	var rec domain.LiveBroadcast
	if err := r.db.First(&rec).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("find live broadcast: %w", err)
	}
	return &rec, nil
}

// DeleteByOwner removes the record owned by the session, reporting whether
// one existed.
func (r *BroadcastRepo) DeleteByOwner(sessionID string) (bool, error) {
	result := r.db.Delete(&domain.LiveBroadcast{}, "session_id = ?", sessionID)
	if err := result.Error; err != nil {
		return false, fmt.Errorf("delete live broadcast: %w", err)
	}
	return result.RowsAffected > 0, nil
}

// Clear removes every record. Run at startup to discard rows a crashed
// process left behind.
func (r *BroadcastRepo) Clear() error {
	if err := r.db.Where("1 = 1").Delete(&domain.LiveBroadcast{}).Error; err != nil {
		return fmt.Errorf("clear live broadcasts: %w", err)
	}
	return nil
}

// Count reports how many records exist. Exists to assert the zero-or-one
// invariant from the outside.
func (r *BroadcastRepo) Count() (int64, error) {
	var n int64
	if err := r.db.Model(&domain.LiveBroadcast{}).Count(&n).Error; err != nil {
		return 0, fmt.Errorf("count live broadcasts: %w", err)
	}
	return n, nil
}
