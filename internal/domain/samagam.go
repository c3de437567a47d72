package domain

import "time"

const DefaultSamagamColor = "#3B82F6"

// Samagam is a scheduled community kirtan gathering, the primary listable
// entity of the site.
type Samagam struct {
	ID          int       `gorm:"primarykey" json:"id"`
	Title       string    `gorm:"size:200;not null" json:"title"`
	Description string    `gorm:"not null" json:"description"`
	Date        time.Time `gorm:"not null;index" json:"date"`
	TimeFrom    string    `gorm:"size:20;not null" json:"timeFrom"`
	TimeTo      string    `gorm:"size:20;not null" json:"timeTo"`
	Location    string    `gorm:"size:200;not null" json:"location"`
	Organizer   string    `gorm:"size:100;not null" json:"organizer"`
	ContactInfo string    `gorm:"size:100;not null" json:"contactInfo"`
	ImageURL    string    `gorm:"size:500" json:"imageUrl,omitempty"`
	Color       string    `gorm:"size:20;not null;default:'#3B82F6'" json:"color"`
}

func (Samagam) TableName() string { return "samagams" }

// RecordedSamagam is a past gathering available as a YouTube recording.
type RecordedSamagam struct {
	ID          int       `gorm:"primarykey" json:"id"`
	Title       string    `gorm:"size:200;not null" json:"title"`
	Description string    `gorm:"not null" json:"description"`
	YoutubeURL  string    `gorm:"size:500;not null" json:"youtubeUrl"`
	Date        time.Time `gorm:"not null" json:"date"`
	AddedBy     int       `json:"addedBy,omitempty"`
}

func (RecordedSamagam) TableName() string { return "recorded_samagams" }

// CalendarEntry is the trimmed samagam view used by the calendar page.
type CalendarEntry struct {
	ID    int       `json:"id"`
	Title string    `json:"title"`
	Date  time.Time `json:"date"`
	Color string    `json:"color"`
}
