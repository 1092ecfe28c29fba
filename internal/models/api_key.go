package models

import (
	"time"

	"github.com/google/uuid"
)

// ApiKey stores the user's generative API credential, one row per user
type ApiKey struct {
	UUID      uuid.UUID `gorm:"type:uuid;primaryKey;" json:"uuid"`
	UserID    uuid.UUID `gorm:"not null;uniqueIndex" json:"user_id"`
	Key       string    `gorm:"not null" json:"-"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Masked returns the key with everything but the last four characters hidden,
// safe to echo back to the client.
func (k ApiKey) Masked() string {
	if len(k.Key) <= 4 {
		return "****"
	}
	return "****" + k.Key[len(k.Key)-4:]
}
