package models

import (
	"github.com/google/uuid"
)

// MappingTarget names a sitelog field a model property can be mapped onto
type MappingTarget string

const (
	TargetAssemblyMark MappingTarget = "assembly_mark"
	TargetObjectGUID   MappingTarget = "object_guid"
	TargetMethod       MappingTarget = "method"
	TargetWeight       MappingTarget = "weight"
	TargetProfile      MappingTarget = "profile"
)

// PropertyMapping binds a model property (set + name) to a sitelog field.
// Multiple candidate mappings per target are allowed; SortOrder decides
// which one wins when several match an object.
type PropertyMapping struct {
	BaseUUIDModel
	ProjectID    uuid.UUID     `gorm:"type:uuid;not null;index" json:"projectId"`
	PropertySet  string        `gorm:"type:text;not null"       json:"propertySet"`
	PropertyName string        `gorm:"type:text;not null"       json:"propertyName"`
	Target       MappingTarget `gorm:"type:text;not null"       json:"target"`
	SortOrder    int           `gorm:"type:int;default:0"       json:"sortOrder"`
	IsActive     bool          `gorm:"type:bool;default:true"   json:"isActive"`
}

// IsValid reports whether the mapping target is one of the known fields
func (t MappingTarget) IsValid() bool {
	switch t {
	case TargetAssemblyMark, TargetObjectGUID, TargetMethod, TargetWeight, TargetProfile:
		return true
	}
	return false
}
