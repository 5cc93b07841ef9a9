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

// InspectionRepository manages the per-project checklist hierarchy. The
// assembled tree is cached per project and invalidated on any write.
type InspectionRepository interface {
	GetChecklist(ctx context.Context, projectID uuid.UUID) ([]InspectionType, error)
	InvalidateChecklist(ctx context.Context, projectID uuid.UUID)

	GetType(ctx context.Context, id uuid.UUID) (*InspectionType, error)
	CreateType(ctx context.Context, t *InspectionType) error
	UpdateType(ctx context.Context, t *InspectionType) error
	DeleteType(ctx context.Context, id uuid.UUID) error
	TypeNameExists(ctx context.Context, projectID uuid.UUID, name string, excludeID uuid.UUID) (bool, error)

	GetCategory(ctx context.Context, id uuid.UUID) (*InspectionCategory, error)
	CreateCategory(ctx context.Context, c *InspectionCategory) error
	UpdateCategory(ctx context.Context, c *InspectionCategory) error
	DeleteCategory(ctx context.Context, id uuid.UUID) error
	CategoryNameExists(ctx context.Context, typeID uuid.UUID, name string, excludeID uuid.UUID) (bool, error)

	GetCheckpoint(ctx context.Context, id uuid.UUID) (*InspectionCheckpoint, error)
	CreateCheckpoint(ctx context.Context, cp *InspectionCheckpoint) error
	UpdateCheckpoint(ctx context.Context, cp *InspectionCheckpoint) error
	DeleteCheckpoint(ctx context.Context, id uuid.UUID) error
	CheckpointNameExists(ctx context.Context, categoryID uuid.UUID, name string, excludeID uuid.UUID) (bool, error)

	CreateResponseOption(ctx context.Context, option *ResponseOption) error
	UpdateResponseOption(ctx context.Context, option *ResponseOption) error
	DeleteResponseOption(ctx context.Context, id uuid.UUID) error

	CreateAttachment(ctx context.Context, attachment *CheckpointAttachment) error
	DeleteAttachment(ctx context.Context, id uuid.UUID) error
}

type inspectionRepository struct {
	db  database.DB
	log logger.Logger
}

func NewInspectionRepository(db database.DB) InspectionRepository {
	return &inspectionRepository{
		db:  db,
		log: logger.New("inspectionRepository"),
	}
}

func (r *inspectionRepository) getDB(ctx context.Context) *gorm.DB {
	if tx, ok := contextutil.GetTransaction(ctx); ok {
		return tx
	}
	return r.db.SQLWithContext(ctx)
}

func (r *inspectionRepository) GetChecklist(ctx context.Context, projectID uuid.UUID) ([]InspectionType, error) {
	log := r.log.Function("GetChecklist")

	cacheKey := constants.ChecklistCachePrefix + ":" + projectID.String()

	var cached []InspectionType
	found, err := database.NewCacheBuilder(r.db.Cache.Project, cacheKey).WithContext(ctx).Get(&cached)
	if err != nil {
		log.Warn("failed to read checklist cache", "projectID", projectID, "error", err)
	} else if found {
		return cached, nil
	}

	var types []InspectionType
	err = r.getDB(ctx).
		Preload("Categories", sortOrdered).
		Preload("Categories.Checkpoints", sortOrdered).
		Preload("Categories.Checkpoints.ResponseOptions", sortOrdered).
		Preload("Categories.Checkpoints.Attachments", sortOrdered).
		Where("project_id = ?", projectID).
		Order("sort_order asc, name asc").
		Find(&types).Error
	if err != nil {
		return nil, log.Err("failed to load checklist", err, "projectID", projectID)
	}

	err = database.NewCacheBuilder(r.db.Cache.Project, cacheKey).
		WithContext(ctx).
		WithStruct(types).
		WithTTL(constants.ProjectCacheExpiry).
		Set()
	if err != nil {
		log.Warn("failed to cache checklist", "projectID", projectID, "error", err)
	}

	return types, nil
}

func sortOrdered(db *gorm.DB) *gorm.DB {
	return db.Order("sort_order asc")
}

func (r *inspectionRepository) InvalidateChecklist(ctx context.Context, projectID uuid.UUID) {
	cacheKey := constants.ChecklistCachePrefix + ":" + projectID.String()
	if err := database.NewCacheBuilder(r.db.Cache.Project, cacheKey).WithContext(ctx).Delete(); err != nil {
		r.log.Function("InvalidateChecklist").
			Warn("failed to invalidate checklist cache", "projectID", projectID, "error", err)
	}
}

func (r *inspectionRepository) GetType(ctx context.Context, id uuid.UUID) (*InspectionType, error) {
	log := r.log.Function("GetType")

	var t InspectionType
	if err := r.getDB(ctx).First(&t, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, log.Err("failed to get inspection type", err, "id", id)
	}

	return &t, nil
}

func (r *inspectionRepository) CreateType(ctx context.Context, t *InspectionType) error {
	log := r.log.Function("CreateType")

	if err := r.getDB(ctx).Create(t).Error; err != nil {
		return log.Err("failed to create inspection type", err, "projectID", t.ProjectID)
	}

	r.InvalidateChecklist(ctx, t.ProjectID)
	return nil
}

func (r *inspectionRepository) UpdateType(ctx context.Context, t *InspectionType) error {
	log := r.log.Function("UpdateType")

	if err := r.getDB(ctx).Save(t).Error; err != nil {
		return log.Err("failed to update inspection type", err, "typeID", t.ID)
	}

	r.InvalidateChecklist(ctx, t.ProjectID)
	return nil
}

// DeleteType soft-deletes a type and its whole subtree. Children go
// first, bottom up, so the subqueries still see their live parents; the
// caller is expected to run this inside a transaction.
func (r *inspectionRepository) DeleteType(ctx context.Context, id uuid.UUID) error {
	log := r.log.Function("DeleteType")

	t, err := r.GetType(ctx, id)
	if err != nil {
		return err
	}
	if t == nil {
		return nil
	}

	db := r.getDB(ctx)
	categoryIDs := db.Model(&InspectionCategory{}).Select("id").Where("type_id = ?", id)
	checkpointIDs := db.Model(&InspectionCheckpoint{}).Select("id").Where("category_id IN (?)", categoryIDs)

	if err := r.deleteCheckpointChildren(db, checkpointIDs); err != nil {
		return log.Err("failed to delete checkpoint children", err, "typeID", id)
	}
	if err := db.Where("category_id IN (?)", categoryIDs).Delete(&InspectionCheckpoint{}).Error; err != nil {
		return log.Err("failed to delete checkpoints", err, "typeID", id)
	}
	if err := db.Where("type_id = ?", id).Delete(&InspectionCategory{}).Error; err != nil {
		return log.Err("failed to delete categories", err, "typeID", id)
	}
	if err := db.Delete(&InspectionType{}, "id = ?", id).Error; err != nil {
		return log.Err("failed to delete inspection type", err, "typeID", id)
	}

	r.InvalidateChecklist(ctx, t.ProjectID)
	return nil
}

// TypeNameExists reports whether another type in the project already
// carries the name, case insensitively. excludeID skips the row being
// updated.
func (r *inspectionRepository) TypeNameExists(ctx context.Context, projectID uuid.UUID, name string, excludeID uuid.UUID) (bool, error) {
	log := r.log.Function("TypeNameExists")

	var count int64
	err := r.getDB(ctx).
		Model(&InspectionType{}).
		Where("project_id = ? AND lower(name) = lower(?) AND id <> ?", projectID, name, excludeID).
		Count(&count).Error
	if err != nil {
		return false, log.Err("failed to check type name", err, "projectID", projectID, "name", name)
	}

	return count > 0, nil
}

func (r *inspectionRepository) CategoryNameExists(ctx context.Context, typeID uuid.UUID, name string, excludeID uuid.UUID) (bool, error) {
	log := r.log.Function("CategoryNameExists")

	var count int64
	err := r.getDB(ctx).
		Model(&InspectionCategory{}).
		Where("type_id = ? AND lower(name) = lower(?) AND id <> ?", typeID, name, excludeID).
		Count(&count).Error
	if err != nil {
		return false, log.Err("failed to check category name", err, "typeID", typeID, "name", name)
	}

	return count > 0, nil
}

func (r *inspectionRepository) CheckpointNameExists(ctx context.Context, categoryID uuid.UUID, name string, excludeID uuid.UUID) (bool, error) {
	log := r.log.Function("CheckpointNameExists")

	var count int64
	err := r.getDB(ctx).
		Model(&InspectionCheckpoint{}).
		Where("category_id = ? AND lower(name) = lower(?) AND id <> ?", categoryID, name, excludeID).
		Count(&count).Error
	if err != nil {
		return false, log.Err("failed to check checkpoint name", err, "categoryID", categoryID, "name", name)
	}

	return count > 0, nil
}

// deleteCheckpointChildren soft-deletes the options and attachments of
// every checkpoint matched by the given id subquery.
func (r *inspectionRepository) deleteCheckpointChildren(db *gorm.DB, checkpointIDs *gorm.DB) error {
	if err := db.Where("checkpoint_id IN (?)", checkpointIDs).Delete(&ResponseOption{}).Error; err != nil {
		return err
	}
	return db.Where("checkpoint_id IN (?)", checkpointIDs).Delete(&CheckpointAttachment{}).Error
}

func (r *inspectionRepository) GetCategory(ctx context.Context, id uuid.UUID) (*InspectionCategory, error) {
	log := r.log.Function("GetCategory")

	var c InspectionCategory
	if err := r.getDB(ctx).First(&c, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, log.Err("failed to get inspection category", err, "id", id)
	}

	return &c, nil
}

func (r *inspectionRepository) CreateCategory(ctx context.Context, c *InspectionCategory) error {
	log := r.log.Function("CreateCategory")

	if err := r.getDB(ctx).Create(c).Error; err != nil {
		return log.Err("failed to create inspection category", err, "typeID", c.TypeID)
	}

	r.invalidateByTypeID(ctx, c.TypeID)
	return nil
}

func (r *inspectionRepository) UpdateCategory(ctx context.Context, c *InspectionCategory) error {
	log := r.log.Function("UpdateCategory")

	if err := r.getDB(ctx).Save(c).Error; err != nil {
		return log.Err("failed to update inspection category", err, "categoryID", c.ID)
	}

	r.invalidateByTypeID(ctx, c.TypeID)
	return nil
}

func (r *inspectionRepository) DeleteCategory(ctx context.Context, id uuid.UUID) error {
	log := r.log.Function("DeleteCategory")

	c, err := r.GetCategory(ctx, id)
	if err != nil {
		return err
	}
	if c == nil {
		return nil
	}

	db := r.getDB(ctx)
	checkpointIDs := db.Model(&InspectionCheckpoint{}).Select("id").Where("category_id = ?", id)

	if err := r.deleteCheckpointChildren(db, checkpointIDs); err != nil {
		return log.Err("failed to delete checkpoint children", err, "categoryID", id)
	}
	if err := db.Where("category_id = ?", id).Delete(&InspectionCheckpoint{}).Error; err != nil {
		return log.Err("failed to delete checkpoints", err, "categoryID", id)
	}
	if err := db.Delete(&InspectionCategory{}, "id = ?", id).Error; err != nil {
		return log.Err("failed to delete inspection category", err, "categoryID", id)
	}

	r.invalidateByTypeID(ctx, c.TypeID)
	return nil
}

func (r *inspectionRepository) GetCheckpoint(ctx context.Context, id uuid.UUID) (*InspectionCheckpoint, error) {
	log := r.log.Function("GetCheckpoint")

	var cp InspectionCheckpoint
	err := r.getDB(ctx).
		Preload("ResponseOptions", sortOrdered).
		Preload("Attachments", sortOrdered).
		First(&cp, "id = ?", id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, log.Err("failed to get checkpoint", err, "id", id)
	}

	return &cp, nil
}

func (r *inspectionRepository) CreateCheckpoint(ctx context.Context, cp *InspectionCheckpoint) error {
	log := r.log.Function("CreateCheckpoint")

	if err := r.getDB(ctx).Create(cp).Error; err != nil {
		return log.Err("failed to create checkpoint", err, "categoryID", cp.CategoryID)
	}

	r.invalidateByCategoryID(ctx, cp.CategoryID)
	return nil
}

func (r *inspectionRepository) UpdateCheckpoint(ctx context.Context, cp *InspectionCheckpoint) error {
	log := r.log.Function("UpdateCheckpoint")

	if err := r.getDB(ctx).Save(cp).Error; err != nil {
		return log.Err("failed to update checkpoint", err, "checkpointID", cp.ID)
	}

	r.invalidateByCategoryID(ctx, cp.CategoryID)
	return nil
}

func (r *inspectionRepository) DeleteCheckpoint(ctx context.Context, id uuid.UUID) error {
	log := r.log.Function("DeleteCheckpoint")

	cp, err := r.GetCheckpoint(ctx, id)
	if err != nil {
		return err
	}
	if cp == nil {
		return nil
	}

	db := r.getDB(ctx)
	if err := db.Where("checkpoint_id = ?", id).Delete(&ResponseOption{}).Error; err != nil {
		return log.Err("failed to delete response options", err, "checkpointID", id)
	}
	if err := db.Where("checkpoint_id = ?", id).Delete(&CheckpointAttachment{}).Error; err != nil {
		return log.Err("failed to delete attachments", err, "checkpointID", id)
	}
	if err := db.Delete(&InspectionCheckpoint{}, "id = ?", id).Error; err != nil {
		return log.Err("failed to delete checkpoint", err, "checkpointID", id)
	}

	r.invalidateByCategoryID(ctx, cp.CategoryID)
	return nil
}

func (r *inspectionRepository) CreateResponseOption(ctx context.Context, option *ResponseOption) error {
	log := r.log.Function("CreateResponseOption")

	if err := r.getDB(ctx).Create(option).Error; err != nil {
		return log.Err("failed to create response option", err, "checkpointID", option.CheckpointID)
	}

	r.invalidateByCheckpointID(ctx, option.CheckpointID)
	return nil
}

func (r *inspectionRepository) UpdateResponseOption(ctx context.Context, option *ResponseOption) error {
	log := r.log.Function("UpdateResponseOption")

	if err := r.getDB(ctx).Save(option).Error; err != nil {
		return log.Err("failed to update response option", err, "optionID", option.ID)
	}

	r.invalidateByCheckpointID(ctx, option.CheckpointID)
	return nil
}

func (r *inspectionRepository) DeleteResponseOption(ctx context.Context, id uuid.UUID) error {
	log := r.log.Function("DeleteResponseOption")

	var option ResponseOption
	if err := r.getDB(ctx).First(&option, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil
		}
		return log.Err("failed to get response option", err, "optionID", id)
	}

	if err := r.getDB(ctx).Delete(&ResponseOption{}, "id = ?", id).Error; err != nil {
		return log.Err("failed to delete response option", err, "optionID", id)
	}

	r.invalidateByCheckpointID(ctx, option.CheckpointID)
	return nil
}

func (r *inspectionRepository) CreateAttachment(ctx context.Context, attachment *CheckpointAttachment) error {
	log := r.log.Function("CreateAttachment")

	if err := r.getDB(ctx).Create(attachment).Error; err != nil {
		return log.Err("failed to create attachment", err, "checkpointID", attachment.CheckpointID)
	}

	r.invalidateByCheckpointID(ctx, attachment.CheckpointID)
	return nil
}

func (r *inspectionRepository) DeleteAttachment(ctx context.Context, id uuid.UUID) error {
	log := r.log.Function("DeleteAttachment")

	var attachment CheckpointAttachment
	if err := r.getDB(ctx).First(&attachment, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil
		}
		return log.Err("failed to get attachment", err, "attachmentID", id)
	}

	if err := r.getDB(ctx).Delete(&CheckpointAttachment{}, "id = ?", id).Error; err != nil {
		return log.Err("failed to delete attachment", err, "attachmentID", id)
	}

	r.invalidateByCheckpointID(ctx, attachment.CheckpointID)
	return nil
}

// invalidateByTypeID walks up to the owning project to drop its cached tree
func (r *inspectionRepository) invalidateByTypeID(ctx context.Context, typeID uuid.UUID) {
	t, err := r.GetType(ctx, typeID)
	if err != nil || t == nil {
		return
	}
	r.InvalidateChecklist(ctx, t.ProjectID)
}

func (r *inspectionRepository) invalidateByCategoryID(ctx context.Context, categoryID uuid.UUID) {
	c, err := r.GetCategory(ctx, categoryID)
	if err != nil || c == nil {
		return
	}
	r.invalidateByTypeID(ctx, c.TypeID)
}

func (r *inspectionRepository) invalidateByCheckpointID(ctx context.Context, checkpointID uuid.UUID) {
	var cp InspectionCheckpoint
	if err := r.getDB(ctx).First(&cp, "id = ?", checkpointID).Error; err != nil {
		return
	}
	r.invalidateByCategoryID(ctx, cp.CategoryID)
}
