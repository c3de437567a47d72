package domain

import "errors"

const (
	MaxUsernameLen = 36
	MaxNameLen     = 100
)

var (
	ErrUsernameEmpty   = errors.New("username empty")
	ErrUsernameTooLong = errors.New("username too long")
	ErrNameEmpty       = errors.New("name empty")
)

// User is a registered account. Password holds the bcrypt hash, never the
// plain text.
type User struct {
	ID       int    `gorm:"primarykey" json:"id"`
	Username string `gorm:"size:36;uniqueIndex;not null" json:"username"`
	Password string `gorm:"not null" json:"-"`
	Name     string `gorm:"size:100;not null" json:"name"`
	IsAdmin  bool   `gorm:"not null;default:false" json:"isAdmin"`
}

func (User) TableName() string { return "users" }

// NewUser is a tiny helper to avoid ad-hoc struct literals in adapters.
// The password must already be hashed by the caller.
func NewUser(username, hashedPassword, name string) (*User, error) {
	if username == "" {
		return nil, ErrUsernameEmpty
	}
	if len(username) > MaxUsernameLen {
		return nil, ErrUsernameTooLong
	}
	if name == "" {
		return nil, ErrNameEmpty
	}
	return &User{Username: username, Password: hashedPassword, Name: name}, nil
}

// Identity strips the account down to what a session needs to carry.
func (u *User) Identity() *Identity {
	return &Identity{
		UserID:   u.ID,
		Username: u.Username,
		Name:     u.Name,
		Admin:    u.IsAdmin,
	}
}
