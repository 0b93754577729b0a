package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

type SyncRunStatus string

const (
	SyncRunStatusRunning   SyncRunStatus = "Running"
	SyncRunStatusSucceeded SyncRunStatus = "Succeeded"
	SyncRunStatusFailed    SyncRunStatus = "Failed"
	SyncRunStatusSkipped   SyncRunStatus = "Skipped"
)

// SyncRun records one catalog sync attempt for an adapter. The sync itself is
// fire-and-forget from the caller's perspective; these rows are how operators
// see what happened.
type SyncRun struct {
	ID        uuid.UUID      `gorm:"primaryKey;type:uuid"`
	AdapterID uuid.UUID      `gorm:"column:adapter_id;type:uuid;not null;index"`
	Status    SyncRunStatus  `gorm:"column:status;not null"`
	Error     string         `gorm:"column:error"`
	Summary   datatypes.JSON `gorm:"column:summary"`

	StartedAt  time.Time  `gorm:"column:started_at;autoCreateTime"`
	FinishedAt *time.Time `gorm:"column:finished_at"`
}

type SyncRunList []SyncRun

func (r *SyncRun) BeforeCreate(tx *gorm.DB) error {
	if r.ID == uuid.Nil {
		r.ID = uuid.New()
	}
	return nil
}
