package model

import "time"

// Spec is one hardware configuration within a plan, identified by the
// (plan, provider-supplied code) natural key.
type Spec struct {
	ID     uint   `gorm:"primaryKey"`
	PlanID uint   `gorm:"column:plan_id;not null;uniqueIndex:ux_specs_plan_code,priority:1"`
	Code   string `gorm:"column:code;not null;uniqueIndex:ux_specs_plan_code,priority:2"`

	RAM          int     `gorm:"column:ram"`
	CPU          int     `gorm:"column:cpu"`
	Disk         int     `gorm:"column:disk"`
	Transfer     int     `gorm:"column:transfer"`
	DollarsPerHr float64 `gorm:"column:dollars_per_hr"`
	DollarsPerMo float64 `gorm:"column:dollars_per_mo"`
	Active       bool    `gorm:"column:active;not null;default:false"`

	CreateTime time.Time `gorm:"column:create_time;autoCreateTime"`
	UpdateTime time.Time `gorm:"column:update_time;autoUpdateTime"`
}

type SpecList []Spec
