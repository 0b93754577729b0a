package model

import (
	"time"

	"github.com/google/uuid"
)

// CredentialField is a named input the provider requires from the user, e.g.
// an API token. Upserted by (adapter, key) during metadata sync; sync never
// deletes these.
type CredentialField struct {
	ID        uint      `gorm:"primaryKey"`
	AdapterID uuid.UUID `gorm:"column:adapter_id;type:uuid;not null;uniqueIndex:ux_credential_fields_adapter_key,priority:1"`
	Key       string    `gorm:"column:key;not null;uniqueIndex:ux_credential_fields_adapter_key,priority:2"`
	Label     string    `gorm:"column:label"`

	CreateTime time.Time `gorm:"column:create_time;autoCreateTime"`
	UpdateTime time.Time `gorm:"column:update_time;autoUpdateTime"`
}

type CredentialFieldList []CredentialField
