package models

import (
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type ResourceKind string

const (
	ResourceEquipment ResourceKind = "equipment"
	ResourceLabor     ResourceKind = "labor"
)

// ProjectResource is a named equipment or labor resource configured per
// project, referenced from installation method descriptions.
type ProjectResource struct {
	BaseUUIDModel
	ProjectID  uuid.UUID       `gorm:"type:uuid;not null;index" json:"projectId"`
	Name       string          `gorm:"type:text;not null"       json:"name"`
	Kind       ResourceKind    `gorm:"type:text;not null"       json:"kind"`
	Unit       string          `gorm:"type:text"                json:"unit"`
	HourlyRate decimal.Decimal `gorm:"type:decimal(12,2)"       json:"hourlyRate"`
	IsActive   bool            `gorm:"type:bool;default:true"   json:"isActive"`
}

// IsValid reports whether the resource kind is one of the known values
func (k ResourceKind) IsValid() bool {
	return k == ResourceEquipment || k == ResourceLabor
}
