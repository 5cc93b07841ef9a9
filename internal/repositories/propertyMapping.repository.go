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

type PropertyMappingRepository interface {
	GetByID(ctx context.Context, id uuid.UUID) (*PropertyMapping, error)
	ListByProject(ctx context.Context, projectID uuid.UUID) ([]PropertyMapping, error)
	Create(ctx context.Context, mapping *PropertyMapping) error
	Update(ctx context.Context, mapping *PropertyMapping) error
	Delete(ctx context.Context, id uuid.UUID) error
	ReplaceAll(ctx context.Context, projectID uuid.UUID, mappings []*PropertyMapping) error
}

type propertyMappingRepository struct {
	db  database.DB
	log logger.Logger
}

func NewPropertyMappingRepository(db database.DB) PropertyMappingRepository {
	return &propertyMappingRepository{
		db:  db,
		log: logger.New("propertyMappingRepository"),
	}
}

func (r *propertyMappingRepository) getDB(ctx context.Context) *gorm.DB {
	if tx, ok := contextutil.GetTransaction(ctx); ok {
		return tx
	}
	return r.db.SQLWithContext(ctx)
}

func (r *propertyMappingRepository) GetByID(ctx context.Context, id uuid.UUID) (*PropertyMapping, error) {
	log := r.log.Function("GetByID")

	var mapping PropertyMapping
	if err := r.getDB(ctx).First(&mapping, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, log.Err("failed to get property mapping", err, "id", id)
	}

	return &mapping, nil
}

func (r *propertyMappingRepository) ListByProject(ctx context.Context, projectID uuid.UUID) ([]PropertyMapping, error) {
	log := r.log.Function("ListByProject")

	var mappings []PropertyMapping
	err := r.getDB(ctx).
		Where("project_id = ?", projectID).
		Order("target asc, sort_order asc").
		Find(&mappings).Error
	if err != nil {
		return nil, log.Err("failed to list property mappings", err, "projectID", projectID)
	}

	return mappings, nil
}

func (r *propertyMappingRepository) Create(ctx context.Context, mapping *PropertyMapping) error {
	log := r.log.Function("Create")

	if err := r.getDB(ctx).Create(mapping).Error; err != nil {
		return log.Err("failed to create property mapping", err, "projectID", mapping.ProjectID)
	}

	return nil
}

func (r *propertyMappingRepository) Update(ctx context.Context, mapping *PropertyMapping) error {
	log := r.log.Function("Update")

	if err := r.getDB(ctx).Save(mapping).Error; err != nil {
		return log.Err("failed to update property mapping", err, "mappingID", mapping.ID)
	}

	return nil
}

func (r *propertyMappingRepository) Delete(ctx context.Context, id uuid.UUID) error {
	log := r.log.Function("Delete")

	if err := r.getDB(ctx).Delete(&PropertyMapping{}, "id = ?", id).Error; err != nil {
		return log.Err("failed to delete property mapping", err, "mappingID", id)
	}

	return nil
}

// ReplaceAll swaps a project's whole mapping set in one shot. Callers run
// this inside a transaction so a failed insert keeps the old set.
func (r *propertyMappingRepository) ReplaceAll(ctx context.Context, projectID uuid.UUID, mappings []*PropertyMapping) error {
	log := r.log.Function("ReplaceAll")

	db := r.getDB(ctx)

	err := db.Where("project_id = ?", projectID).Delete(&PropertyMapping{}).Error
	if err != nil {
		return log.Err("failed to clear property mappings", err, "projectID", projectID)
	}

	if len(mappings) == 0 {
		return nil
	}

	if err := db.Create(mappings).Error; err != nil {
		return log.Err("failed to insert property mappings", err, "projectID", projectID, "count", len(mappings))
	}

	return nil
}
