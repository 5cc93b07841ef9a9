package calibrationController

import (
	"context"
	"errors"
	"time"

	"sitelog/config"
	"sitelog/internal/database"
	"sitelog/internal/events"
	"sitelog/internal/logger"
	. "sitelog/internal/models"
	"sitelog/internal/repositories"
	"sitelog/internal/services"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

var (
	ErrPointNotFound = errors.New("calibration point not found")
	ErrNotCalibrated = errors.New("project has no fitted transform")
)

type CalibrationController struct {
	calibrationRepo    repositories.CalibrationRepository
	calibrationService *services.CalibrationService
	transactionService *services.TransactionService
	eventBus           *events.EventBus
	db                 database.DB
	Config             config.Config
	log                logger.Logger
}

type UpsertSettingRequest struct {
	System string     `json:"system"`
	Units  ModelUnits `json:"units"`
}

type CreatePointRequest struct {
	Label     string  `json:"label"`
	ModelX    float64 `json:"modelX"`
	ModelY    float64 `json:"modelY"`
	ModelZ    float64 `json:"modelZ"`
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
}

type UpdatePointRequest struct {
	Label     *string  `json:"label,omitempty"`
	ModelX    *float64 `json:"modelX,omitempty"`
	ModelY    *float64 `json:"modelY,omitempty"`
	ModelZ    *float64 `json:"modelZ,omitempty"`
	Latitude  *float64 `json:"latitude,omitempty"`
	Longitude *float64 `json:"longitude,omitempty"`
	IsEnabled *bool    `json:"isEnabled,omitempty"`
}

type RecalibrateResponse struct {
	Setting   *CoordinateSetting       `json:"setting"`
	Residuals []services.PointResidual `json:"residuals"`
}

type ConvertRequest struct {
	ModelX    *float64 `json:"modelX,omitempty"`
	ModelY    *float64 `json:"modelY,omitempty"`
	Latitude  *float64 `json:"latitude,omitempty"`
	Longitude *float64 `json:"longitude,omitempty"`
}

type ConvertResponse struct {
	ModelX    float64 `json:"modelX"`
	ModelY    float64 `json:"modelY"`
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
}

type CalibrationControllerInterface interface {
	GetSetting(ctx context.Context, projectID uuid.UUID) (*CoordinateSetting, error)
	UpdateSetting(ctx context.Context, projectID uuid.UUID, request *UpsertSettingRequest) (*CoordinateSetting, error)

	ListPoints(ctx context.Context, projectID uuid.UUID) ([]CalibrationPoint, error)
	CreatePoint(ctx context.Context, projectID uuid.UUID, request *CreatePointRequest) (*CalibrationPoint, error)
	UpdatePoint(ctx context.Context, pointID uuid.UUID, request *UpdatePointRequest) (*CalibrationPoint, error)
	DeletePoint(ctx context.Context, pointID uuid.UUID) error

	Recalibrate(ctx context.Context, projectID uuid.UUID) (*RecalibrateResponse, error)
	ModelToGPS(ctx context.Context, projectID uuid.UUID, x, y float64) (*ConvertResponse, error)
	GPSToModel(ctx context.Context, projectID uuid.UUID, lat, lng float64) (*ConvertResponse, error)
}

func New(
	repos repositories.Repository,
	services services.Service,
	eventBus *events.EventBus,
	config config.Config,
	db database.DB,
) CalibrationControllerInterface {
	return &CalibrationController{
		calibrationRepo:    repos.Calibration,
		calibrationService: services.Calibration,
		transactionService: services.Transaction,
		eventBus:           eventBus,
		db:                 db,
		Config:             config,
		log:                logger.New("calibrationController"),
	}
}

func (c *CalibrationController) GetSetting(ctx context.Context, projectID uuid.UUID) (*CoordinateSetting, error) {
	log := c.log.Function("GetSetting")

	setting, err := c.calibrationRepo.GetSetting(ctx, projectID)
	if err != nil {
		return nil, log.Err("failed to get coordinate setting", err, "projectID", projectID)
	}
	if setting == nil {
		// Projects start with an empty, uncalibrated setting
		return &CoordinateSetting{ProjectID: projectID, Units: UnitsMeters}, nil
	}

	return setting, nil
}

func (c *CalibrationController) UpdateSetting(ctx context.Context, projectID uuid.UUID, request *UpsertSettingRequest) (*CoordinateSetting, error) {
	log := c.log.Function("UpdateSetting")

	setting, err := c.GetSetting(ctx, projectID)
	if err != nil {
		return nil, err
	}

	setting.System = request.System
	if request.Units != "" {
		setting.Units = request.Units
	}

	if err := c.calibrationRepo.UpsertSetting(ctx, setting); err != nil {
		return nil, log.Err("failed to save coordinate setting", err, "projectID", projectID)
	}

	return setting, nil
}

func (c *CalibrationController) ListPoints(ctx context.Context, projectID uuid.UUID) ([]CalibrationPoint, error) {
	return c.calibrationRepo.ListPoints(ctx, projectID)
}

func (c *CalibrationController) CreatePoint(ctx context.Context, projectID uuid.UUID, request *CreatePointRequest) (*CalibrationPoint, error) {
	log := c.log.Function("CreatePoint")

	point := &CalibrationPoint{
		ProjectID: projectID,
		Label:     request.Label,
		ModelX:    request.ModelX,
		ModelY:    request.ModelY,
		ModelZ:    request.ModelZ,
		Latitude:  request.Latitude,
		Longitude: request.Longitude,
		IsEnabled: true,
	}

	if err := c.calibrationRepo.CreatePoint(ctx, point); err != nil {
		return nil, log.Err("failed to create calibration point", err, "projectID", projectID)
	}

	return point, nil
}

func (c *CalibrationController) UpdatePoint(ctx context.Context, pointID uuid.UUID, request *UpdatePointRequest) (*CalibrationPoint, error) {
	log := c.log.Function("UpdatePoint")

	point, err := c.calibrationRepo.GetPoint(ctx, pointID)
	if err != nil {
		return nil, log.Err("failed to get calibration point", err, "pointID", pointID)
	}
	if point == nil {
		return nil, ErrPointNotFound
	}

	if request.Label != nil {
		point.Label = *request.Label
	}
	if request.ModelX != nil {
		point.ModelX = *request.ModelX
	}
	if request.ModelY != nil {
		point.ModelY = *request.ModelY
	}
	if request.ModelZ != nil {
		point.ModelZ = *request.ModelZ
	}
	if request.Latitude != nil {
		point.Latitude = *request.Latitude
	}
	if request.Longitude != nil {
		point.Longitude = *request.Longitude
	}
	if request.IsEnabled != nil {
		point.IsEnabled = *request.IsEnabled
	}

	if err := c.calibrationRepo.UpdatePoint(ctx, point); err != nil {
		return nil, log.Err("failed to update calibration point", err, "pointID", pointID)
	}

	return point, nil
}

func (c *CalibrationController) DeletePoint(ctx context.Context, pointID uuid.UUID) error {
	return c.calibrationRepo.DeletePoint(ctx, pointID)
}

// Recalibrate refits the transform from the current point set and persists
// it on the project's coordinate setting.
func (c *CalibrationController) Recalibrate(ctx context.Context, projectID uuid.UUID) (*RecalibrateResponse, error) {
	log := c.log.Function("Recalibrate")

	points, err := c.calibrationRepo.ListPoints(ctx, projectID)
	if err != nil {
		return nil, log.Err("failed to list calibration points", err, "projectID", projectID)
	}

	fit, err := c.calibrationService.Fit(points)
	if err != nil {
		return nil, err
	}

	setting, err := c.GetSetting(ctx, projectID)
	if err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	setting.RotationRad = fit.Transform.Rotation()
	setting.Scale = fit.Transform.Scale()
	setting.TranslateE = fit.Transform.TranslateE
	setting.TranslateN = fit.Transform.TranslateN
	setting.OriginLat = fit.Transform.OriginLat
	setting.OriginLng = fit.Transform.OriginLng
	setting.RMSEMeters = fit.RMSEMeters
	setting.PointCount = fit.PointCount
	setting.CalibratedAt = &now

	err = c.transactionService.Execute(ctx, func(ctx context.Context, tx *gorm.DB) error {
		return c.calibrationRepo.UpsertSetting(ctx, setting)
	})
	if err != nil {
		return nil, log.Err("failed to persist calibration", err, "projectID", projectID)
	}

	if err := c.eventBus.PublishProjectEvent(projectID, events.CALIBRATION_UPDATED, map[string]any{
		"rmseMeters": fit.RMSEMeters,
		"pointCount": fit.PointCount,
	}); err != nil {
		log.Warn("failed to publish calibration event", "projectID", projectID, "error", err)
	}

	return &RecalibrateResponse{
		Setting:   setting,
		Residuals: fit.Residuals,
	}, nil
}

func (c *CalibrationController) ModelToGPS(ctx context.Context, projectID uuid.UUID, x, y float64) (*ConvertResponse, error) {
	setting, err := c.fittedSetting(ctx, projectID)
	if err != nil {
		return nil, err
	}

	transform := services.TransformFromSetting(setting)
	lat, lng := c.calibrationService.ModelToGPS(transform, x, y)

	return &ConvertResponse{ModelX: x, ModelY: y, Latitude: lat, Longitude: lng}, nil
}

func (c *CalibrationController) GPSToModel(ctx context.Context, projectID uuid.UUID, lat, lng float64) (*ConvertResponse, error) {
	setting, err := c.fittedSetting(ctx, projectID)
	if err != nil {
		return nil, err
	}

	transform := services.TransformFromSetting(setting)
	x, y, err := c.calibrationService.GPSToModel(transform, lat, lng)
	if err != nil {
		return nil, err
	}

	return &ConvertResponse{ModelX: x, ModelY: y, Latitude: lat, Longitude: lng}, nil
}

func (c *CalibrationController) fittedSetting(ctx context.Context, projectID uuid.UUID) (*CoordinateSetting, error) {
	setting, err := c.calibrationRepo.GetSetting(ctx, projectID)
	if err != nil {
		return nil, err
	}
	if setting == nil || !setting.IsCalibrated() {
		return nil, ErrNotCalibrated
	}
	return setting, nil
}
