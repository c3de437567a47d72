package domain

import (
	"database/sql/driver"
	"encoding/json"
	"errors"
	"fmt"
)

var ErrBadCoordinates = errors.New("coordinates must be a {lat, lng} object")

// Coordinates is stored as a JSON blob, matching the shape the map UI
// consumes directly.
type Coordinates struct {
	Lat float64 `json:"lat"`
	Lng float64 `json:"lng"`
}

func (c Coordinates) Value() (driver.Value, error) {
	return json.Marshal(c)
}

func (c *Coordinates) Scan(value any) error {
	switch v := value.(type) {
	case []byte:
		return json.Unmarshal(v, c)
	case string:
		return json.Unmarshal([]byte(v), c)
	default:
		return fmt.Errorf("%w: unexpected type %T", ErrBadCoordinates, value)
	}
}

// Location is a regular gathering venue shown on the locations page.
type Location struct {
	ID          int         `gorm:"primarykey" json:"id"`
	Name        string      `gorm:"size:200;not null" json:"name"`
	Address     string      `gorm:"size:500;not null" json:"address"`
	Coordinates Coordinates `gorm:"type:text;not null" json:"coordinates"`
	Description string      `json:"description,omitempty"`
	AddedBy     int         `json:"addedBy,omitempty"`
}

func (Location) TableName() string { return "locations" }
