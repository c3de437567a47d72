package domain

import "time"

// LiveBroadcast is the durable record of the single currently-live
// broadcast. At most one row exists at any time; the broadcast coordinator
// owns its whole lifecycle.
type LiveBroadcast struct {
	ID        int       `gorm:"primarykey" json:"id"`
	SessionID string    `gorm:"size:64;not null;index" json:"sessionId"`
	RoomName  string    `gorm:"size:64;not null" json:"roomName"`
	CreatedAt time.Time `json:"createdAt"`
}

func (LiveBroadcast) TableName() string { return "live_broadcasts" }
