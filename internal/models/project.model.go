package models

import (
	"github.com/google/uuid"
)

// ModelUnits is the linear unit the 3D model is authored in
type ModelUnits string

const (
	UnitsMeters      ModelUnits = "m"
	UnitsMillimeters ModelUnits = "mm"
	UnitsFeet        ModelUnits = "ft"
)

// MetersPerUnit returns the conversion factor to meters, defaulting to 1
func (u ModelUnits) MetersPerUnit() float64 {
	switch u {
	case UnitsMillimeters:
		return 0.001
	case UnitsFeet:
		return 0.3048
	default:
		return 1
	}
}

type Project struct {
	BaseUUIDModel
	Name     string     `gorm:"type:text;not null"      json:"name"`
	Code     string     `gorm:"type:text;uniqueIndex"   json:"code"`
	Units    ModelUnits `gorm:"type:text;default:'m'"   json:"units"`
	IsActive bool       `gorm:"type:bool;default:true"  json:"isActive"`

	Members []ProjectMember `gorm:"foreignKey:ProjectID" json:"members,omitempty"`
}

type ProjectRole string

const (
	ProjectRoleAdmin  ProjectRole = "admin"
	ProjectRoleMember ProjectRole = "member"
)

type ProjectMember struct {
	BaseUUIDModel
	ProjectID uuid.UUID   `gorm:"type:uuid;not null;uniqueIndex:idx_project_user" json:"projectId"`
	UserID    uuid.UUID   `gorm:"type:uuid;not null;uniqueIndex:idx_project_user" json:"userId"`
	Role      ProjectRole `gorm:"type:text;default:'member'"                      json:"role"`

	User *User `gorm:"foreignKey:UserID" json:"user,omitempty"`
}

// IsProjectAdmin reports whether the membership grants project admin rights
func (m *ProjectMember) IsProjectAdmin() bool {
	return m.Role == ProjectRoleAdmin
}
