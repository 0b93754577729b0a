package model

import (
	"time"

	"github.com/google/uuid"
)

// Team is the sharing target for adapters. Team management lives in the
// surrounding application; this record exists to carry the membership
// relation.
type Team struct {
	ID   uuid.UUID `gorm:"primaryKey;type:uuid"`
	Name string    `gorm:"uniqueIndex;not null"`

	CreateTime time.Time `gorm:"column:create_time;autoCreateTime"`
	UpdateTime time.Time `gorm:"column:update_time;autoUpdateTime"`
}

type TeamList []Team
