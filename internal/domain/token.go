package domain

import "time"

// FcmToken is a registered push-notification token.
type FcmToken struct {
	ID        int       `gorm:"primarykey" json:"id"`
	Token     string    `gorm:"size:500;uniqueIndex;not null" json:"token"`
	CreatedAt time.Time `json:"createdAt"`
	LastUsed  time.Time `json:"lastUsed"`
}

func (FcmToken) TableName() string { return "fcm_tokens" }
