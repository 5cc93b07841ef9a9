package repositories

import (
	"context"
	"errors"
	"time"

	"sitelog/internal/constants"
	contextutil "sitelog/internal/context"
	"sitelog/internal/database"
	"sitelog/internal/logger"
	. "sitelog/internal/models"
	"sitelog/internal/utils"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type InstallationRepository interface {
	GetByID(ctx context.Context, id uuid.UUID) (*Installation, error)
	GetByProjectAndGUID(ctx context.Context, projectID uuid.UUID, guid string) (*Installation, error)
	ListByProject(ctx context.Context, projectID uuid.UUID) ([]Installation, error)
	ListByProjectMonth(ctx context.Context, projectID uuid.UUID, month string) ([]Installation, error)
	ListGUIDsByProject(ctx context.Context, projectID uuid.UUID, guids []string) (map[string]uuid.UUID, error)
	Create(ctx context.Context, installation *Installation) error
	CreateBatch(ctx context.Context, installations []*Installation) error
	Update(ctx context.Context, installation *Installation) error
	Delete(ctx context.Context, id uuid.UUID) error

	ListMonthLocks(ctx context.Context, projectID uuid.UUID) ([]InstallationMonthLock, error)
	IsMonthLocked(ctx context.Context, projectID uuid.UUID, month string) (bool, error)
	CreateMonthLock(ctx context.Context, lock *InstallationMonthLock) error
	DeleteMonthLock(ctx context.Context, projectID uuid.UUID, month string) error
	ListMonthsBefore(ctx context.Context, projectID uuid.UUID, cutoff time.Time) ([]string, error)
}

type installationRepository struct {
	db  database.DB
	log logger.Logger
}

func NewInstallationRepository(db database.DB) InstallationRepository {
	return &installationRepository{
		db:  db,
		log: logger.New("installationRepository"),
	}
}

func (r *installationRepository) getDB(ctx context.Context) *gorm.DB {
	if tx, ok := contextutil.GetTransaction(ctx); ok {
		return tx
	}
	return r.db.SQLWithContext(ctx)
}

func (r *installationRepository) GetByID(ctx context.Context, id uuid.UUID) (*Installation, error) {
	log := r.log.Function("GetByID")

	var installation Installation
	err := r.getDB(ctx).Preload("RecordedBy").First(&installation, "id = ?", id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, log.Err("failed to get installation", err, "id", id)
	}

	return &installation, nil
}

func (r *installationRepository) GetByProjectAndGUID(ctx context.Context, projectID uuid.UUID, guid string) (*Installation, error) {
	log := r.log.Function("GetByProjectAndGUID")

	// Match every encoding of the identifier so an object recorded under
	// its IFC form is found when looked up by UUID and vice versa.
	var installation Installation
	err := r.getDB(ctx).
		Preload("RecordedBy").
		First(&installation, "project_id = ? AND guid IN ?", projectID, utils.GUIDVariants(guid)).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, log.Err("failed to get installation by GUID", err, "projectID", projectID, "guid", guid)
	}

	return &installation, nil
}

func (r *installationRepository) ListByProject(ctx context.Context, projectID uuid.UUID) ([]Installation, error) {
	log := r.log.Function("ListByProject")

	var installations []Installation
	err := r.getDB(ctx).
		Preload("RecordedBy").
		Where("project_id = ?", projectID).
		Order("installed_at desc").
		Find(&installations).Error
	if err != nil {
		return nil, log.Err("failed to list installations", err, "projectID", projectID)
	}

	return installations, nil
}

func (r *installationRepository) ListByProjectMonth(ctx context.Context, projectID uuid.UUID, month string) ([]Installation, error) {
	log := r.log.Function("ListByProjectMonth")

	start, err := time.Parse(MonthKeyLayout, month)
	if err != nil {
		return nil, log.Err("invalid month key", err, "month", month)
	}
	end := start.AddDate(0, 1, 0)

	var installations []Installation
	err = r.getDB(ctx).
		Preload("RecordedBy").
		Where("project_id = ? AND installed_at >= ? AND installed_at < ?", projectID, start, end).
		Order("installed_at desc").
		Find(&installations).Error
	if err != nil {
		return nil, log.Err("failed to list installations by month", err, "projectID", projectID, "month", month)
	}

	return installations, nil
}

// ListGUIDsByProject returns the subset of guids that already have an
// installation in the project. The result is keyed by the canonical GUID
// form so callers compare across encodings.
func (r *installationRepository) ListGUIDsByProject(ctx context.Context, projectID uuid.UUID, guids []string) (map[string]uuid.UUID, error) {
	log := r.log.Function("ListGUIDsByProject")

	if len(guids) == 0 {
		return map[string]uuid.UUID{}, nil
	}

	variants := make([]string, 0, len(guids)*3)
	for _, guid := range guids {
		variants = append(variants, utils.GUIDVariants(guid)...)
	}

	type row struct {
		ID   uuid.UUID
		GUID string
	}

	var rows []row
	err := r.getDB(ctx).
		Model(&Installation{}).
		Select("id, guid").
		Where("project_id = ? AND guid IN ?", projectID, variants).
		Find(&rows).Error
	if err != nil {
		return nil, log.Err("failed to look up existing GUIDs", err, "projectID", projectID)
	}

	existing := make(map[string]uuid.UUID, len(rows))
	for _, rec := range rows {
		existing[utils.CanonicalGUID(rec.GUID)] = rec.ID
	}

	return existing, nil
}

func (r *installationRepository) Create(ctx context.Context, installation *Installation) error {
	log := r.log.Function("Create")

	if err := r.getDB(ctx).Create(installation).Error; err != nil {
		return log.Err("failed to create installation", err, "projectID", installation.ProjectID, "guid", installation.GUID)
	}

	return nil
}

func (r *installationRepository) CreateBatch(ctx context.Context, installations []*Installation) error {
	log := r.log.Function("CreateBatch")

	if len(installations) == 0 {
		return nil
	}

	if err := r.getDB(ctx).CreateInBatches(installations, 500).Error; err != nil {
		return log.Err("failed to create installation batch", err, "count", len(installations))
	}

	return nil
}

func (r *installationRepository) Update(ctx context.Context, installation *Installation) error {
	log := r.log.Function("Update")

	if err := r.getDB(ctx).Save(installation).Error; err != nil {
		return log.Err("failed to update installation", err, "installationID", installation.ID)
	}

	return nil
}

func (r *installationRepository) Delete(ctx context.Context, id uuid.UUID) error {
	log := r.log.Function("Delete")

	if err := r.getDB(ctx).Delete(&Installation{}, "id = ?", id).Error; err != nil {
		return log.Err("failed to delete installation", err, "installationID", id)
	}

	return nil
}

func (r *installationRepository) ListMonthLocks(ctx context.Context, projectID uuid.UUID) ([]InstallationMonthLock, error) {
	log := r.log.Function("ListMonthLocks")

	cacheKey := constants.MonthLocksCachePrefix + ":" + projectID.String()

	var cached []InstallationMonthLock
	found, err := database.NewCacheBuilder(r.db.Cache.Project, cacheKey).WithContext(ctx).Get(&cached)
	if err != nil {
		log.Warn("failed to read month lock cache", "projectID", projectID, "error", err)
	} else if found {
		return cached, nil
	}

	var locks []InstallationMonthLock
	err = r.getDB(ctx).
		Preload("LockedBy").
		Where("project_id = ?", projectID).
		Order("month desc").
		Find(&locks).Error
	if err != nil {
		return nil, log.Err("failed to list month locks", err, "projectID", projectID)
	}

	err = database.NewCacheBuilder(r.db.Cache.Project, cacheKey).
		WithContext(ctx).
		WithStruct(locks).
		WithTTL(constants.ProjectCacheExpiry).
		Set()
	if err != nil {
		log.Warn("failed to cache month locks", "projectID", projectID, "error", err)
	}

	return locks, nil
}

func (r *installationRepository) IsMonthLocked(ctx context.Context, projectID uuid.UUID, month string) (bool, error) {
	log := r.log.Function("IsMonthLocked")

	var count int64
	err := r.getDB(ctx).
		Model(&InstallationMonthLock{}).
		Where("project_id = ? AND month = ?", projectID, month).
		Count(&count).Error
	if err != nil {
		return false, log.Err("failed to check month lock", err, "projectID", projectID, "month", month)
	}

	return count > 0, nil
}

func (r *installationRepository) CreateMonthLock(ctx context.Context, lock *InstallationMonthLock) error {
	log := r.log.Function("CreateMonthLock")

	if err := r.getDB(ctx).Create(lock).Error; err != nil {
		return log.Err("failed to create month lock", err, "projectID", lock.ProjectID, "month", lock.Month)
	}

	r.invalidateMonthLocks(ctx, lock.ProjectID)
	return nil
}

func (r *installationRepository) DeleteMonthLock(ctx context.Context, projectID uuid.UUID, month string) error {
	log := r.log.Function("DeleteMonthLock")

	err := r.getDB(ctx).
		Where("project_id = ? AND month = ?", projectID, month).
		Delete(&InstallationMonthLock{}).Error
	if err != nil {
		return log.Err("failed to delete month lock", err, "projectID", projectID, "month", month)
	}

	r.invalidateMonthLocks(ctx, projectID)
	return nil
}

// ListMonthsBefore returns the distinct unlocked month keys whose
// installations all predate the cutoff. Used by the auto lock job.
func (r *installationRepository) ListMonthsBefore(ctx context.Context, projectID uuid.UUID, cutoff time.Time) ([]string, error) {
	log := r.log.Function("ListMonthsBefore")

	var months []string
	err := r.getDB(ctx).
		Model(&Installation{}).
		Distinct("to_char(installed_at, 'YYYY-MM')").
		Where("project_id = ? AND installed_at < ?", projectID, cutoff).
		Where("to_char(installed_at, 'YYYY-MM') NOT IN (?)",
			r.getDB(ctx).Model(&InstallationMonthLock{}).
				Select("month").
				Where("project_id = ?", projectID),
		).
		Pluck("to_char(installed_at, 'YYYY-MM')", &months).Error
	if err != nil {
		return nil, log.Err("failed to list lockable months", err, "projectID", projectID)
	}

	return months, nil
}

func (r *installationRepository) invalidateMonthLocks(ctx context.Context, projectID uuid.UUID) {
	cacheKey := constants.MonthLocksCachePrefix + ":" + projectID.String()
	if err := database.NewCacheBuilder(r.db.Cache.Project, cacheKey).WithContext(ctx).Delete(); err != nil {
		r.log.Function("invalidateMonthLocks").
			Warn("failed to invalidate month lock cache", "projectID", projectID, "error", err)
	}
}
