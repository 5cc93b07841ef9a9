package repositories

import (
	"context"
	"errors"

	"sitelog/internal/constants"
	contextutil "sitelog/internal/context"
	"sitelog/internal/database"
	"sitelog/internal/logger"
	. "sitelog/internal/models"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type CalibrationRepository interface {
	GetSetting(ctx context.Context, projectID uuid.UUID) (*CoordinateSetting, error)
	UpsertSetting(ctx context.Context, setting *CoordinateSetting) error

	ListPoints(ctx context.Context, projectID uuid.UUID) ([]CalibrationPoint, error)
	GetPoint(ctx context.Context, id uuid.UUID) (*CalibrationPoint, error)
	CreatePoint(ctx context.Context, point *CalibrationPoint) error
	UpdatePoint(ctx context.Context, point *CalibrationPoint) error
	DeletePoint(ctx context.Context, id uuid.UUID) error
}

type calibrationRepository struct {
	db  database.DB
	log logger.Logger
}

func NewCalibrationRepository(db database.DB) CalibrationRepository {
	return &calibrationRepository{
		db:  db,
		log: logger.New("calibrationRepository"),
	}
}

func (r *calibrationRepository) getDB(ctx context.Context) *gorm.DB {
	if tx, ok := contextutil.GetTransaction(ctx); ok {
		return tx
	}
	return r.db.SQLWithContext(ctx)
}

func (r *calibrationRepository) GetSetting(ctx context.Context, projectID uuid.UUID) (*CoordinateSetting, error) {
	log := r.log.Function("GetSetting")

	cacheKey := constants.TransformCachePrefix + ":" + projectID.String()

	var cached CoordinateSetting
	found, err := database.NewCacheBuilder(r.db.Cache.Project, cacheKey).WithContext(ctx).Get(&cached)
	if err != nil {
		log.Warn("failed to read transform cache", "projectID", projectID, "error", err)
	} else if found {
		return &cached, nil
	}

	var setting CoordinateSetting
	err = r.getDB(ctx).First(&setting, "project_id = ?", projectID).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, log.Err("failed to get coordinate setting", err, "projectID", projectID)
	}

	err = database.NewCacheBuilder(r.db.Cache.Project, cacheKey).
		WithContext(ctx).
		WithStruct(setting).
		WithTTL(constants.ProjectCacheExpiry).
		Set()
	if err != nil {
		log.Warn("failed to cache coordinate setting", "projectID", projectID, "error", err)
	}

	return &setting, nil
}

func (r *calibrationRepository) UpsertSetting(ctx context.Context, setting *CoordinateSetting) error {
	log := r.log.Function("UpsertSetting")

	var existing CoordinateSetting
	err := r.getDB(ctx).First(&existing, "project_id = ?", setting.ProjectID).Error
	switch {
	case errors.Is(err, gorm.ErrRecordNotFound):
		if err := r.getDB(ctx).Create(setting).Error; err != nil {
			return log.Err("failed to create coordinate setting", err, "projectID", setting.ProjectID)
		}
	case err != nil:
		return log.Err("failed to look up coordinate setting", err, "projectID", setting.ProjectID)
	default:
		setting.ID = existing.ID
		setting.CreatedAt = existing.CreatedAt
		if err := r.getDB(ctx).Save(setting).Error; err != nil {
			return log.Err("failed to update coordinate setting", err, "projectID", setting.ProjectID)
		}
	}

	r.invalidateSetting(ctx, setting.ProjectID)
	return nil
}

func (r *calibrationRepository) ListPoints(ctx context.Context, projectID uuid.UUID) ([]CalibrationPoint, error) {
	log := r.log.Function("ListPoints")

	var points []CalibrationPoint
	err := r.getDB(ctx).
		Where("project_id = ?", projectID).
		Order("created_at asc").
		Find(&points).Error
	if err != nil {
		return nil, log.Err("failed to list calibration points", err, "projectID", projectID)
	}

	return points, nil
}

func (r *calibrationRepository) GetPoint(ctx context.Context, id uuid.UUID) (*CalibrationPoint, error) {
	log := r.log.Function("GetPoint")

	var point CalibrationPoint
	if err := r.getDB(ctx).First(&point, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, log.Err("failed to get calibration point", err, "id", id)
	}

	return &point, nil
}

func (r *calibrationRepository) CreatePoint(ctx context.Context, point *CalibrationPoint) error {
	log := r.log.Function("CreatePoint")

	if err := r.getDB(ctx).Create(point).Error; err != nil {
		return log.Err("failed to create calibration point", err, "projectID", point.ProjectID)
	}

	return nil
}

func (r *calibrationRepository) UpdatePoint(ctx context.Context, point *CalibrationPoint) error {
	log := r.log.Function("UpdatePoint")

	if err := r.getDB(ctx).Save(point).Error; err != nil {
		return log.Err("failed to update calibration point", err, "pointID", point.ID)
	}

	return nil
}

func (r *calibrationRepository) DeletePoint(ctx context.Context, id uuid.UUID) error {
	log := r.log.Function("DeletePoint")

	if err := r.getDB(ctx).Delete(&CalibrationPoint{}, "id = ?", id).Error; err != nil {
		return log.Err("failed to delete calibration point", err, "pointID", id)
	}

	return nil
}

func (r *calibrationRepository) invalidateSetting(ctx context.Context, projectID uuid.UUID) {
	cacheKey := constants.TransformCachePrefix + ":" + projectID.String()
	if err := database.NewCacheBuilder(r.db.Cache.Project, cacheKey).WithContext(ctx).Delete(); err != nil {
		r.log.Function("invalidateSetting").
			Warn("failed to invalidate transform cache", "projectID", projectID, "error", err)
	}
}
