package models

import (
	"time"

	"github.com/google/uuid"
)

// CoordinateSetting is the per-project coordinate system choice together
// with the fitted model-to-GPS similarity transform. One row per project.
type CoordinateSetting struct {
	BaseUUIDModel
	ProjectID    uuid.UUID  `gorm:"type:uuid;not null;uniqueIndex" json:"projectId"`
	System       string     `gorm:"type:text"                      json:"system"`
	Units        ModelUnits `gorm:"type:text;default:'m'"          json:"units"`
	RotationRad  float64    `gorm:"type:double precision"          json:"rotationRad"`
	Scale        float64    `gorm:"type:double precision"          json:"scale"`
	TranslateE   float64    `gorm:"type:double precision"          json:"translateE"`
	TranslateN   float64    `gorm:"type:double precision"          json:"translateN"`
	OriginLat    float64    `gorm:"type:double precision"          json:"originLat"`
	OriginLng    float64    `gorm:"type:double precision"          json:"originLng"`
	RMSEMeters   float64    `gorm:"type:double precision"          json:"rmseMeters"`
	PointCount   int        `gorm:"type:int;default:0"             json:"pointCount"`
	CalibratedAt *time.Time `gorm:"type:timestamp"                 json:"calibratedAt,omitempty"`
}

// IsCalibrated reports whether a transform has been fitted
func (s *CoordinateSetting) IsCalibrated() bool {
	return s.CalibratedAt != nil && s.PointCount >= 2
}

// CalibrationPoint is one model XYZ to GPS lat/lng correspondence sample
type CalibrationPoint struct {
	BaseUUIDModel
	ProjectID uuid.UUID `gorm:"type:uuid;not null;index" json:"projectId"`
	Label     string    `gorm:"type:text"                json:"label"`
	ModelX    float64   `gorm:"type:double precision"    json:"modelX"`
	ModelY    float64   `gorm:"type:double precision"    json:"modelY"`
	ModelZ    float64   `gorm:"type:double precision"    json:"modelZ"`
	Latitude  float64   `gorm:"type:double precision"    json:"latitude"`
	Longitude float64   `gorm:"type:double precision"    json:"longitude"`
	IsEnabled bool      `gorm:"type:bool;default:true"   json:"isEnabled"`
}
