package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// MonthKeyLayout is the canonical format for installation month keys
const MonthKeyLayout = "2006-01"

// Installation is one record per installed model object
type Installation struct {
	BaseUUIDModel
	ProjectID    uuid.UUID      `gorm:"type:uuid;not null;uniqueIndex:idx_project_guid" json:"projectId"`
	GUID         string         `gorm:"type:text;not null;uniqueIndex:idx_project_guid" json:"guid"`
	GUIDFormat   string         `gorm:"type:text"                                       json:"guidFormat"`
	AssemblyMark string         `gorm:"type:text;index"                                 json:"assemblyMark"`
	InstalledAt  time.Time      `gorm:"type:timestamp;not null;index"                   json:"installedAt"`
	RecordedByID uuid.UUID      `gorm:"type:uuid;not null"                              json:"recordedById"`
	TeamMembers  string         `gorm:"type:text"                                       json:"teamMembers"`
	Method       string         `gorm:"type:text"                                       json:"method"`
	Notes        string         `gorm:"type:text"                                       json:"notes"`
	Properties   datatypes.JSON `gorm:"type:jsonb"                                      json:"properties,omitempty"`

	RecordedBy *User `gorm:"foreignKey:RecordedByID" json:"recordedBy,omitempty"`
}

func (i *Installation) BeforeCreate(tx *gorm.DB) error {
	if i.InstalledAt.IsZero() {
		i.InstalledAt = time.Now().UTC()
	}
	return nil
}

// MonthKey returns the YYYY-MM bucket key of the install timestamp
func (i *Installation) MonthKey() string {
	return i.InstalledAt.Format(MonthKeyLayout)
}

// DayKey returns the YYYY-MM-DD bucket key of the install timestamp
func (i *Installation) DayKey() string {
	return i.InstalledAt.Format("2006-01-02")
}

// InstallationMonthLock prevents edits and deletes of installations in a
// project month once set. Admin only.
type InstallationMonthLock struct {
	BaseUUIDModel
	ProjectID uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_project_month" json:"projectId"`
	Month     string    `gorm:"type:text;not null;uniqueIndex:idx_project_month" json:"month"`
	Reason    string    `gorm:"type:text"                                        json:"reason"`
	// LockedByID is nil for locks created by the nightly auto-lock job
	LockedByID *uuid.UUID `gorm:"type:uuid" json:"lockedById,omitempty"`

	LockedBy *User `gorm:"foreignKey:LockedByID" json:"lockedBy,omitempty"`
}

// ValidMonthKey reports whether s is a well-formed YYYY-MM key
func ValidMonthKey(s string) bool {
	_, err := time.Parse(MonthKeyLayout, s)
	return err == nil
}
