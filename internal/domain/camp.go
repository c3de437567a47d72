package domain

import "time"

// CampRegistration is one Gurmat camp sign-up. Email is unique so a
// family cannot double-register the same child.
type CampRegistration struct {
	ID            int       `gorm:"primarykey" json:"id"`
	Name          string    `gorm:"size:100;not null" json:"name"`
	Age           string    `gorm:"size:10;not null" json:"age"`
	Gender        string    `gorm:"size:20;not null" json:"gender"`
	Address       string    `gorm:"size:500;not null" json:"address"`
	FatherName    string    `gorm:"size:100;not null" json:"fatherName"`
	MotherName    string    `gorm:"size:100;not null" json:"motherName"`
	ContactNumber string    `gorm:"size:20;not null" json:"contactNumber"`
	Email         string    `gorm:"size:200;uniqueIndex;not null" json:"email"`
	CreatedAt     time.Time `json:"createdAt"`
}

func (CampRegistration) TableName() string { return "camp_registrations" }
