package models

import (
	"github.com/google/uuid"
)

// InspectionType is the top level of the configurable checklist hierarchy:
// type -> category -> checkpoint.
type InspectionType struct {
	BaseUUIDModel
	ProjectID   uuid.UUID `gorm:"type:uuid;not null;index" json:"projectId"`
	Name        string    `gorm:"type:text;not null"       json:"name"`
	Description string    `gorm:"type:text"                json:"description"`
	SortOrder   int       `gorm:"type:int;default:0"       json:"sortOrder"`
	IsActive    bool      `gorm:"type:bool;default:true"   json:"isActive"`

	Categories []InspectionCategory `gorm:"foreignKey:TypeID" json:"categories,omitempty"`
}

type InspectionCategory struct {
	BaseUUIDModel
	TypeID    uuid.UUID `gorm:"type:uuid;not null;index" json:"typeId"`
	Name      string    `gorm:"type:text;not null"       json:"name"`
	SortOrder int       `gorm:"type:int;default:0"       json:"sortOrder"`
	IsActive  bool      `gorm:"type:bool;default:true"   json:"isActive"`

	Checkpoints []InspectionCheckpoint `gorm:"foreignKey:CategoryID" json:"checkpoints,omitempty"`
}

type InspectionCheckpoint struct {
	BaseUUIDModel
	CategoryID  uuid.UUID `gorm:"type:uuid;not null;index" json:"categoryId"`
	Name        string    `gorm:"type:text;not null"       json:"name"`
	Description string    `gorm:"type:text"                json:"description"`
	SortOrder   int       `gorm:"type:int;default:0"       json:"sortOrder"`
	IsActive    bool      `gorm:"type:bool;default:true"   json:"isActive"`
	IsRequired  bool      `gorm:"type:bool;default:false"  json:"isRequired"`

	ResponseOptions []ResponseOption       `gorm:"foreignKey:CheckpointID" json:"responseOptions,omitempty"`
	Attachments     []CheckpointAttachment `gorm:"foreignKey:CheckpointID" json:"attachments,omitempty"`
}

// ResponseOption is one selectable answer on a checkpoint
type ResponseOption struct {
	BaseUUIDModel
	CheckpointID    uuid.UUID `gorm:"type:uuid;not null;index" json:"checkpointId"`
	Value           string    `gorm:"type:text;not null"       json:"value"`
	Label           string    `gorm:"type:text"                json:"label"`
	Color           string    `gorm:"type:text"                json:"color"`
	RequiresPhoto   bool      `gorm:"type:bool;default:false"  json:"requiresPhoto"`
	RequiresComment bool      `gorm:"type:bool;default:false"  json:"requiresComment"`
	SortOrder       int       `gorm:"type:int;default:0"       json:"sortOrder"`
}

type AttachmentKind string

const (
	AttachmentLink     AttachmentKind = "link"
	AttachmentVideo    AttachmentKind = "video"
	AttachmentDocument AttachmentKind = "document"
	AttachmentImage    AttachmentKind = "image"
)

// CheckpointAttachment is reference material shown alongside a checkpoint
type CheckpointAttachment struct {
	BaseUUIDModel
	CheckpointID uuid.UUID      `gorm:"type:uuid;not null;index" json:"checkpointId"`
	Kind         AttachmentKind `gorm:"type:text;not null"       json:"kind"`
	Title        string         `gorm:"type:text"                json:"title"`
	URL          string         `gorm:"type:text;not null"       json:"url"`
	SortOrder    int            `gorm:"type:int;default:0"       json:"sortOrder"`
}

// IsValid reports whether the attachment kind is one of the known values
func (k AttachmentKind) IsValid() bool {
	switch k {
	case AttachmentLink, AttachmentVideo, AttachmentDocument, AttachmentImage:
		return true
	}
	return false
}
