package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Moderator is an entry of the moderator directory.
type Moderator struct {
	ID          string `gorm:"primaryKey;type:varchar(36)"`
	DisplayName string `gorm:"type:varchar(128);not null"`
	CreatedAt   time.Time
}

// BeforeCreate generates a UUID for the moderator if none is set.
func (m *Moderator) BeforeCreate(tx *gorm.DB) (err error) {
	if m.ID == "" {
		m.ID = uuid.New().String()
	}
	return
}
