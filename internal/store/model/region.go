package model

import (
	"time"

	"github.com/google/uuid"
)

// Region is one provider region offered by an adapter. Rows are identified by
// the (adapter, provider-supplied code) natural key and are never deleted by
// catalog sync; Active toggles instead.
type Region struct {
	ID        uint      `gorm:"primaryKey"`
	AdapterID uuid.UUID `gorm:"column:adapter_id;type:uuid;not null;uniqueIndex:ux_regions_adapter_code,priority:1"`
	Code      string    `gorm:"column:code;not null;uniqueIndex:ux_regions_adapter_code,priority:2"`
	Name      string    `gorm:"column:name"`
	Active    bool      `gorm:"column:active;not null;default:false"`

	Plans []Plan `gorm:"foreignKey:RegionID"`

	CreateTime time.Time `gorm:"column:create_time;autoCreateTime"`
	UpdateTime time.Time `gorm:"column:update_time;autoUpdateTime"`
}

type RegionList []Region
