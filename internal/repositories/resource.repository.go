package repositories

import (
	"context"
	"errors"

	contextutil "sitelog/internal/context"
	"sitelog/internal/database"
	"sitelog/internal/logger"
	. "sitelog/internal/models"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type ResourceRepository interface {
	GetByID(ctx context.Context, id uuid.UUID) (*ProjectResource, error)
	ListByProject(ctx context.Context, projectID uuid.UUID) ([]ProjectResource, error)
	Create(ctx context.Context, resource *ProjectResource) error
	Update(ctx context.Context, resource *ProjectResource) error
	Delete(ctx context.Context, id uuid.UUID) error
	NameExists(ctx context.Context, projectID uuid.UUID, name string, excludeID uuid.UUID) (bool, error)
}

type resourceRepository struct {
	db  database.DB
	log logger.Logger
}

func NewResourceRepository(db database.DB) ResourceRepository {
	return &resourceRepository{
		db:  db,
		log: logger.New("resourceRepository"),
	}
}

func (r *resourceRepository) getDB(ctx context.Context) *gorm.DB {
	if tx, ok := contextutil.GetTransaction(ctx); ok {
		return tx
	}
	return r.db.SQLWithContext(ctx)
}

func (r *resourceRepository) GetByID(ctx context.Context, id uuid.UUID) (*ProjectResource, error) {
	log := r.log.Function("GetByID")

	var resource ProjectResource
	if err := r.getDB(ctx).First(&resource, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, log.Err("failed to get resource", err, "id", id)
	}

	return &resource, nil
}

func (r *resourceRepository) ListByProject(ctx context.Context, projectID uuid.UUID) ([]ProjectResource, error) {
	log := r.log.Function("ListByProject")

	var resources []ProjectResource
	err := r.getDB(ctx).
		Where("project_id = ?", projectID).
		Order("kind asc, name asc").
		Find(&resources).Error
	if err != nil {
		return nil, log.Err("failed to list resources", err, "projectID", projectID)
	}

	return resources, nil
}

func (r *resourceRepository) Create(ctx context.Context, resource *ProjectResource) error {
	log := r.log.Function("Create")

	if err := r.getDB(ctx).Create(resource).Error; err != nil {
		return log.Err("failed to create resource", err, "projectID", resource.ProjectID, "name", resource.Name)
	}

	return nil
}

func (r *resourceRepository) Update(ctx context.Context, resource *ProjectResource) error {
	log := r.log.Function("Update")

	if err := r.getDB(ctx).Save(resource).Error; err != nil {
		return log.Err("failed to update resource", err, "resourceID", resource.ID)
	}

	return nil
}

// NameExists reports whether another resource in the project already
// carries the name, case insensitively. excludeID skips the row being
// updated.
func (r *resourceRepository) NameExists(ctx context.Context, projectID uuid.UUID, name string, excludeID uuid.UUID) (bool, error) {
	log := r.log.Function("NameExists")

	var count int64
	err := r.getDB(ctx).
		Model(&ProjectResource{}).
		Where("project_id = ? AND lower(name) = lower(?) AND id <> ?", projectID, name, excludeID).
		Count(&count).Error
	if err != nil {
		return false, log.Err("failed to check resource name", err, "projectID", projectID, "name", name)
	}

	return count > 0, nil
}

func (r *resourceRepository) Delete(ctx context.Context, id uuid.UUID) error {
	log := r.log.Function("Delete")

	if err := r.getDB(ctx).Delete(&ProjectResource{}, "id = ?", id).Error; err != nil {
		return log.Err("failed to delete resource", err, "resourceID", id)
	}

	return nil
}
