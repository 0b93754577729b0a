package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// SyncStatus tracks the outcome of the most recent catalog sync for an adapter.
type SyncStatus string

const (
	SyncStatusNeverSynced SyncStatus = "NeverSynced"
	SyncStatusSucceeded   SyncStatus = "Succeeded"
	SyncStatusFailed      SyncStatus = "Failed"
	SyncStatusSkipped     SyncStatus = "Skipped"
)

type Adapter struct {
	ID     uuid.UUID `gorm:"primaryKey;type:uuid"`
	UserID uuid.UUID `gorm:"column:user_id;type:uuid;index"`
	Name   string    `gorm:"uniqueIndex;not null"`

	// Provider binding. API holds the provider API identifier reported by
	// the remote /meta endpoint; empty until the first successful metadata
	// sync binds the adapter to a provider identity.
	Endpoint string `gorm:"column:endpoint"`
	API      string `gorm:"column:api"`

	ServerNickName  string `gorm:"column:server_nick_name"`
	DefaultRegion   string `gorm:"column:default_region"`
	DefaultSize     string `gorm:"column:default_size"`
	CanReboot       bool   `gorm:"column:can_reboot"`
	CanRename       bool   `gorm:"column:can_rename"`
	InternalIface   string `gorm:"column:internal_iface"`
	ExternalIface   string `gorm:"column:external_iface"`
	SSHUser         string `gorm:"column:ssh_user"`
	SSHAuthMethod   string `gorm:"column:ssh_auth_method"`
	SSHKeyMethod    string `gorm:"column:ssh_key_method"`
	BootstrapScript string `gorm:"column:bootstrap_script"`
	Instructions    string `gorm:"column:instructions"`

	// UnlinkCode is the revocation/identity token handed to the provider
	// side; generated once on create.
	UnlinkCode string `gorm:"column:unlink_code;not null"`
	Global     bool   `gorm:"column:global;not null;default:false"`

	SyncStatus              SyncStatus `gorm:"column:sync_status;not null;default:NeverSynced"`
	ConsecutiveSyncFailures int        `gorm:"column:consecutive_sync_failures;not null;default:0"`
	NextSyncAt              *time.Time `gorm:"column:next_sync_at"`
	LastSyncedAt            *time.Time `gorm:"column:last_synced_at"`

	Regions          []Region          `gorm:"foreignKey:AdapterID;constraint:OnDelete:RESTRICT"`
	CredentialFields []CredentialField `gorm:"foreignKey:AdapterID;constraint:OnDelete:RESTRICT"`
	Teams            []Team            `gorm:"many2many:adapter_teams"`

	CreateTime time.Time `gorm:"column:create_time;autoCreateTime"`
	UpdateTime time.Time `gorm:"column:update_time;autoUpdateTime"`
}

type AdapterList []Adapter

func (a *Adapter) BeforeCreate(tx *gorm.DB) error {
	if a.ID == uuid.Nil {
		a.ID = uuid.New()
	}
	if a.UnlinkCode == "" {
		a.UnlinkCode = NewUnlinkCode()
	}
	if a.SyncStatus == "" {
		a.SyncStatus = SyncStatusNeverSynced
	}
	return nil
}
