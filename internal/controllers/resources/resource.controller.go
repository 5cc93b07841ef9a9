package resourceController

import (
	"context"
	"errors"

	"sitelog/config"
	"sitelog/internal/database"
	"sitelog/internal/logger"
	. "sitelog/internal/models"
	"sitelog/internal/repositories"
	"sitelog/internal/services"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

var (
	ErrResourceNotFound = errors.New("resource not found")
	ErrInvalidKind      = errors.New("invalid resource kind")
	ErrNameRequired     = errors.New("name is required")
	ErrNameTaken        = errors.New("name is already in use")
)

type ResourceController struct {
	resourceRepo repositories.ResourceRepository
	db           database.DB
	Config       config.Config
	log          logger.Logger
}

type ResourceRequest struct {
	Name       string           `json:"name" validate:"required"`
	Kind       ResourceKind     `json:"kind" validate:"required"`
	Unit       string           `json:"unit"`
	HourlyRate *decimal.Decimal `json:"hourlyRate,omitempty"`
	IsActive   *bool            `json:"isActive,omitempty"`
}

type ResourceControllerInterface interface {
	List(ctx context.Context, projectID uuid.UUID) ([]ProjectResource, error)
	Create(ctx context.Context, projectID uuid.UUID, request *ResourceRequest) (*ProjectResource, error)
	Update(ctx context.Context, resourceID uuid.UUID, request *ResourceRequest) (*ProjectResource, error)
	Delete(ctx context.Context, resourceID uuid.UUID) error
}

func New(
	repos repositories.Repository,
	services services.Service,
	config config.Config,
	db database.DB,
) ResourceControllerInterface {
	return &ResourceController{
		resourceRepo: repos.Resource,
		db:           db,
		Config:       config,
		log:          logger.New("resourceController"),
	}
}

func (c *ResourceController) List(ctx context.Context, projectID uuid.UUID) ([]ProjectResource, error) {
	log := c.log.Function("List")

	resources, err := c.resourceRepo.ListByProject(ctx, projectID)
	if err != nil {
		return nil, log.Err("failed to list resources", err, "projectID", projectID)
	}

	return resources, nil
}

func (c *ResourceController) Create(ctx context.Context, projectID uuid.UUID, request *ResourceRequest) (*ProjectResource, error) {
	log := c.log.Function("Create")

	if request.Name == "" {
		return nil, ErrNameRequired
	}
	if !request.Kind.IsValid() {
		return nil, ErrInvalidKind
	}

	taken, err := c.resourceRepo.NameExists(ctx, projectID, request.Name, uuid.Nil)
	if err != nil {
		return nil, log.Err("failed to check resource name", err, "projectID", projectID)
	}
	if taken {
		return nil, ErrNameTaken
	}

	resource := &ProjectResource{
		ProjectID: projectID,
		Name:      request.Name,
		Kind:      request.Kind,
		Unit:      request.Unit,
		IsActive:  true,
	}
	if request.HourlyRate != nil {
		resource.HourlyRate = *request.HourlyRate
	}

	if err := c.resourceRepo.Create(ctx, resource); err != nil {
		return nil, log.Err("failed to create resource", err, "projectID", projectID)
	}

	return resource, nil
}

func (c *ResourceController) Update(ctx context.Context, resourceID uuid.UUID, request *ResourceRequest) (*ProjectResource, error) {
	log := c.log.Function("Update")

	resource, err := c.resourceRepo.GetByID(ctx, resourceID)
	if err != nil {
		return nil, log.Err("failed to get resource", err, "resourceID", resourceID)
	}
	if resource == nil {
		return nil, ErrResourceNotFound
	}

	if request.Name != "" && request.Name != resource.Name {
		taken, err := c.resourceRepo.NameExists(ctx, resource.ProjectID, request.Name, resource.ID)
		if err != nil {
			return nil, log.Err("failed to check resource name", err, "resourceID", resourceID)
		}
		if taken {
			return nil, ErrNameTaken
		}
		resource.Name = request.Name
	}
	if request.Kind != "" {
		if !request.Kind.IsValid() {
			return nil, ErrInvalidKind
		}
		resource.Kind = request.Kind
	}
	resource.Unit = request.Unit
	if request.HourlyRate != nil {
		resource.HourlyRate = *request.HourlyRate
	}
	if request.IsActive != nil {
		resource.IsActive = *request.IsActive
	}

	if err := c.resourceRepo.Update(ctx, resource); err != nil {
		return nil, log.Err("failed to update resource", err, "resourceID", resourceID)
	}

	return resource, nil
}

func (c *ResourceController) Delete(ctx context.Context, resourceID uuid.UUID) error {
	log := c.log.Function("Delete")

	if err := c.resourceRepo.Delete(ctx, resourceID); err != nil {
		return log.Err("failed to delete resource", err, "resourceID", resourceID)
	}

	return nil
}
