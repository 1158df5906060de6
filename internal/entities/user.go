package entities

import (
	"fmt"
	"time"
)

// User is an account record. The password is stored only as a bcrypt hash.
type User struct {
	ID           string    `gorm:"primaryKey;size:36" json:"id"`
	Email        string    `gorm:"uniqueIndex;size:255" json:"email"`
	PasswordHash string    `gorm:"size:128" json:"-"`
	CreatedAt    time.Time `json:"-"`
}

// String keeps the password hash out of logs and error messages.
func (u User) String() string {
	return fmt.Sprintf("User{ID: %s, Email: %s, PasswordHash: [redacted]}", u.ID, u.Email)
}

// GoString mirrors String so %#v cannot leak the hash either.
func (u User) GoString() string {
	return u.String()
}
