package models

import (
	"time"

	"github.com/google/uuid"
)

// User represents the database model
type User struct {
	UUID         uuid.UUID `gorm:"type:uuid;primaryKey;" json:"uuid"`
	Email        string    `gorm:"not null;uniqueIndex" json:"email"`
	PasswordHash string    `gorm:"not null" json:"-"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// Profile holds the editable account details, one row per user
type Profile struct {
	UUID      uuid.UUID `gorm:"type:uuid;primaryKey;" json:"uuid"`
	UserID    uuid.UUID `gorm:"not null;uniqueIndex" json:"user_id"`
	FullName  string    `json:"full_name"`
	Phone     string    `json:"phone"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
