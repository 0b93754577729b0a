package model

import "time"

// Plan is one pricing plan within a region, identified by the
// (region, provider-supplied code) natural key.
type Plan struct {
	ID       uint   `gorm:"primaryKey"`
	RegionID uint   `gorm:"column:region_id;not null;uniqueIndex:ux_plans_region_code,priority:1"`
	Code     string `gorm:"column:code;not null;uniqueIndex:ux_plans_region_code,priority:2"`
	Name     string `gorm:"column:name"`
	Active   bool   `gorm:"column:active;not null;default:false"`

	Specs []Spec `gorm:"foreignKey:PlanID"`

	CreateTime time.Time `gorm:"column:create_time;autoCreateTime"`
	UpdateTime time.Time `gorm:"column:update_time;autoUpdateTime"`
}

type PlanList []Plan
