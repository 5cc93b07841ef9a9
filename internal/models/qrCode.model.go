package models

import (
	"time"

	"github.com/google/uuid"
)

// QRCode binds a short printed code to a model object GUID. Codes are
// generated inactive and activated in the field by scanning against an
// object; an active code must be released before it can be re-bound.
type QRCode struct {
	BaseUUIDModel
	ProjectID     uuid.UUID  `gorm:"type:uuid;not null;index" json:"projectId"`
	Code          string     `gorm:"type:text;uniqueIndex"    json:"code"`
	Label         string     `gorm:"type:text"                json:"label"`
	ObjectGUID    *string    `gorm:"type:text;index"          json:"objectGuid,omitempty"`
	ActivatedAt   *time.Time `gorm:"type:timestamp"           json:"activatedAt,omitempty"`
	ActivatedByID *uuid.UUID `gorm:"type:uuid"                json:"activatedById,omitempty"`
}

// IsActivated reports whether the code is currently bound to an object
func (q *QRCode) IsActivated() bool {
	return q.ObjectGUID != nil && *q.ObjectGUID != ""
}
