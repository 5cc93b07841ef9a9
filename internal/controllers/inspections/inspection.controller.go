package inspectionController

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
	"gorm.io/gorm"
)

var (
	ErrNameRequired          = errors.New("name is required")
	ErrNameTaken             = errors.New("name is already in use")
	ErrTypeNotFound          = errors.New("inspection type not found")
	ErrCategoryNotFound      = errors.New("inspection category not found")
	ErrCheckpointNotFound    = errors.New("checkpoint not found")
	ErrInvalidAttachmentKind = errors.New("invalid attachment kind")
	ErrValueRequired         = errors.New("value is required")
	ErrURLRequired           = errors.New("url is required")
)

type InspectionController struct {
	inspectionRepo     repositories.InspectionRepository
	transactionService *services.TransactionService
	db                 database.DB
	Config             config.Config
	log                logger.Logger
}

type TypeRequest struct {
	Name        string `json:"name" validate:"required"`
	Description string `json:"description"`
	SortOrder   int    `json:"sortOrder"`
	IsActive    *bool  `json:"isActive,omitempty"`
}

type CategoryRequest struct {
	Name      string `json:"name" validate:"required"`
	SortOrder int    `json:"sortOrder"`
	IsActive  *bool  `json:"isActive,omitempty"`
}

type CheckpointRequest struct {
	Name        string `json:"name" validate:"required"`
	Description string `json:"description"`
	SortOrder   int    `json:"sortOrder"`
	IsRequired  bool   `json:"isRequired"`
	IsActive    *bool  `json:"isActive,omitempty"`
}

type ResponseOptionRequest struct {
	Value           string `json:"value" validate:"required"`
	Label           string `json:"label"`
	Color           string `json:"color"`
	RequiresPhoto   bool   `json:"requiresPhoto"`
	RequiresComment bool   `json:"requiresComment"`
	SortOrder       int    `json:"sortOrder"`
}

type AttachmentRequest struct {
	Kind  AttachmentKind `json:"kind" validate:"required"`
	Title string         `json:"title"`
	URL   string         `json:"url"  validate:"required"`
}

type InspectionControllerInterface interface {
	GetChecklist(ctx context.Context, projectID uuid.UUID) ([]InspectionType, error)

	CreateType(ctx context.Context, projectID uuid.UUID, request *TypeRequest) (*InspectionType, error)
	UpdateType(ctx context.Context, typeID uuid.UUID, request *TypeRequest) (*InspectionType, error)
	DeleteType(ctx context.Context, typeID uuid.UUID) error

	CreateCategory(ctx context.Context, typeID uuid.UUID, request *CategoryRequest) (*InspectionCategory, error)
	UpdateCategory(ctx context.Context, categoryID uuid.UUID, request *CategoryRequest) (*InspectionCategory, error)
	DeleteCategory(ctx context.Context, categoryID uuid.UUID) error

	CreateCheckpoint(ctx context.Context, categoryID uuid.UUID, request *CheckpointRequest) (*InspectionCheckpoint, error)
	UpdateCheckpoint(ctx context.Context, checkpointID uuid.UUID, request *CheckpointRequest) (*InspectionCheckpoint, error)
	DeleteCheckpoint(ctx context.Context, checkpointID uuid.UUID) error

	CreateResponseOption(ctx context.Context, checkpointID uuid.UUID, request *ResponseOptionRequest) (*ResponseOption, error)
	DeleteResponseOption(ctx context.Context, optionID uuid.UUID) error

	CreateAttachment(ctx context.Context, checkpointID uuid.UUID, request *AttachmentRequest) (*CheckpointAttachment, error)
	DeleteAttachment(ctx context.Context, attachmentID uuid.UUID) error
}

func New(
	repos repositories.Repository,
	services services.Service,
	config config.Config,
	db database.DB,
) InspectionControllerInterface {
	return &InspectionController{
		inspectionRepo:     repos.Inspection,
		transactionService: services.Transaction,
		db:                 db,
		Config:             config,
		log:                logger.New("inspectionController"),
	}
}

func (c *InspectionController) GetChecklist(ctx context.Context, projectID uuid.UUID) ([]InspectionType, error) {
	log := c.log.Function("GetChecklist")

	checklist, err := c.inspectionRepo.GetChecklist(ctx, projectID)
	if err != nil {
		return nil, log.Err("failed to get checklist", err, "projectID", projectID)
	}

	return checklist, nil
}

func (c *InspectionController) CreateType(ctx context.Context, projectID uuid.UUID, request *TypeRequest) (*InspectionType, error) {
	log := c.log.Function("CreateType")

	if request.Name == "" {
		return nil, ErrNameRequired
	}

	taken, err := c.inspectionRepo.TypeNameExists(ctx, projectID, request.Name, uuid.Nil)
	if err != nil {
		return nil, log.Err("failed to check type name", err, "projectID", projectID)
	}
	if taken {
		return nil, ErrNameTaken
	}

	t := &InspectionType{
		ProjectID:   projectID,
		Name:        request.Name,
		Description: request.Description,
		SortOrder:   request.SortOrder,
		IsActive:    true,
	}

	if err := c.inspectionRepo.CreateType(ctx, t); err != nil {
		return nil, log.Err("failed to create inspection type", err, "projectID", projectID)
	}

	return t, nil
}

func (c *InspectionController) UpdateType(ctx context.Context, typeID uuid.UUID, request *TypeRequest) (*InspectionType, error) {
	log := c.log.Function("UpdateType")

	t, err := c.inspectionRepo.GetType(ctx, typeID)
	if err != nil {
		return nil, log.Err("failed to get inspection type", err, "typeID", typeID)
	}
	if t == nil {
		return nil, ErrTypeNotFound
	}

	if request.Name != "" && request.Name != t.Name {
		taken, err := c.inspectionRepo.TypeNameExists(ctx, t.ProjectID, request.Name, t.ID)
		if err != nil {
			return nil, log.Err("failed to check type name", err, "typeID", typeID)
		}
		if taken {
			return nil, ErrNameTaken
		}
		t.Name = request.Name
	}
	t.Description = request.Description
	t.SortOrder = request.SortOrder
	if request.IsActive != nil {
		t.IsActive = *request.IsActive
	}

	if err := c.inspectionRepo.UpdateType(ctx, t); err != nil {
		return nil, log.Err("failed to update inspection type", err, "typeID", typeID)
	}

	return t, nil
}

// DeleteType removes a type and everything under it in one transaction,
// so a half-deleted subtree never becomes visible.
func (c *InspectionController) DeleteType(ctx context.Context, typeID uuid.UUID) error {
	return c.transactionService.Execute(ctx, func(ctx context.Context, tx *gorm.DB) error {
		return c.inspectionRepo.DeleteType(ctx, typeID)
	})
}

func (c *InspectionController) CreateCategory(ctx context.Context, typeID uuid.UUID, request *CategoryRequest) (*InspectionCategory, error) {
	log := c.log.Function("CreateCategory")

	if request.Name == "" {
		return nil, ErrNameRequired
	}

	t, err := c.inspectionRepo.GetType(ctx, typeID)
	if err != nil {
		return nil, log.Err("failed to get inspection type", err, "typeID", typeID)
	}
	if t == nil {
		return nil, ErrTypeNotFound
	}

	taken, err := c.inspectionRepo.CategoryNameExists(ctx, typeID, request.Name, uuid.Nil)
	if err != nil {
		return nil, log.Err("failed to check category name", err, "typeID", typeID)
	}
	if taken {
		return nil, ErrNameTaken
	}

	category := &InspectionCategory{
		TypeID:    typeID,
		Name:      request.Name,
		SortOrder: request.SortOrder,
		IsActive:  true,
	}

	if err := c.inspectionRepo.CreateCategory(ctx, category); err != nil {
		return nil, log.Err("failed to create category", err, "typeID", typeID)
	}

	return category, nil
}

func (c *InspectionController) UpdateCategory(ctx context.Context, categoryID uuid.UUID, request *CategoryRequest) (*InspectionCategory, error) {
	log := c.log.Function("UpdateCategory")

	category, err := c.inspectionRepo.GetCategory(ctx, categoryID)
	if err != nil {
		return nil, log.Err("failed to get category", err, "categoryID", categoryID)
	}
	if category == nil {
		return nil, ErrCategoryNotFound
	}

	if request.Name != "" && request.Name != category.Name {
		taken, err := c.inspectionRepo.CategoryNameExists(ctx, category.TypeID, request.Name, category.ID)
		if err != nil {
			return nil, log.Err("failed to check category name", err, "categoryID", categoryID)
		}
		if taken {
			return nil, ErrNameTaken
		}
		category.Name = request.Name
	}
	category.SortOrder = request.SortOrder
	if request.IsActive != nil {
		category.IsActive = *request.IsActive
	}

	if err := c.inspectionRepo.UpdateCategory(ctx, category); err != nil {
		return nil, log.Err("failed to update category", err, "categoryID", categoryID)
	}

	return category, nil
}

func (c *InspectionController) DeleteCategory(ctx context.Context, categoryID uuid.UUID) error {
	return c.transactionService.Execute(ctx, func(ctx context.Context, tx *gorm.DB) error {
		return c.inspectionRepo.DeleteCategory(ctx, categoryID)
	})
}

func (c *InspectionController) CreateCheckpoint(ctx context.Context, categoryID uuid.UUID, request *CheckpointRequest) (*InspectionCheckpoint, error) {
	log := c.log.Function("CreateCheckpoint")

	if request.Name == "" {
		return nil, ErrNameRequired
	}

	category, err := c.inspectionRepo.GetCategory(ctx, categoryID)
	if err != nil {
		return nil, log.Err("failed to get category", err, "categoryID", categoryID)
	}
	if category == nil {
		return nil, ErrCategoryNotFound
	}

	taken, err := c.inspectionRepo.CheckpointNameExists(ctx, categoryID, request.Name, uuid.Nil)
	if err != nil {
		return nil, log.Err("failed to check checkpoint name", err, "categoryID", categoryID)
	}
	if taken {
		return nil, ErrNameTaken
	}

	checkpoint := &InspectionCheckpoint{
		CategoryID:  categoryID,
		Name:        request.Name,
		Description: request.Description,
		SortOrder:   request.SortOrder,
		IsRequired:  request.IsRequired,
		IsActive:    true,
	}

	if err := c.inspectionRepo.CreateCheckpoint(ctx, checkpoint); err != nil {
		return nil, log.Err("failed to create checkpoint", err, "categoryID", categoryID)
	}

	return checkpoint, nil
}

func (c *InspectionController) UpdateCheckpoint(ctx context.Context, checkpointID uuid.UUID, request *CheckpointRequest) (*InspectionCheckpoint, error) {
	log := c.log.Function("UpdateCheckpoint")

	checkpoint, err := c.inspectionRepo.GetCheckpoint(ctx, checkpointID)
	if err != nil {
		return nil, log.Err("failed to get checkpoint", err, "checkpointID", checkpointID)
	}
	if checkpoint == nil {
		return nil, ErrCheckpointNotFound
	}

	if request.Name != "" && request.Name != checkpoint.Name {
		taken, err := c.inspectionRepo.CheckpointNameExists(ctx, checkpoint.CategoryID, request.Name, checkpoint.ID)
		if err != nil {
			return nil, log.Err("failed to check checkpoint name", err, "checkpointID", checkpointID)
		}
		if taken {
			return nil, ErrNameTaken
		}
		checkpoint.Name = request.Name
	}
	checkpoint.Description = request.Description
	checkpoint.SortOrder = request.SortOrder
	checkpoint.IsRequired = request.IsRequired
	if request.IsActive != nil {
		checkpoint.IsActive = *request.IsActive
	}

	if err := c.inspectionRepo.UpdateCheckpoint(ctx, checkpoint); err != nil {
		return nil, log.Err("failed to update checkpoint", err, "checkpointID", checkpointID)
	}

	return checkpoint, nil
}

func (c *InspectionController) DeleteCheckpoint(ctx context.Context, checkpointID uuid.UUID) error {
	return c.transactionService.Execute(ctx, func(ctx context.Context, tx *gorm.DB) error {
		return c.inspectionRepo.DeleteCheckpoint(ctx, checkpointID)
	})
}

func (c *InspectionController) CreateResponseOption(ctx context.Context, checkpointID uuid.UUID, request *ResponseOptionRequest) (*ResponseOption, error) {
	log := c.log.Function("CreateResponseOption")

	if request.Value == "" {
		return nil, ErrValueRequired
	}

	checkpoint, err := c.inspectionRepo.GetCheckpoint(ctx, checkpointID)
	if err != nil {
		return nil, log.Err("failed to get checkpoint", err, "checkpointID", checkpointID)
	}
	if checkpoint == nil {
		return nil, ErrCheckpointNotFound
	}

	option := &ResponseOption{
		CheckpointID:    checkpointID,
		Value:           request.Value,
		Label:           request.Label,
		Color:           request.Color,
		RequiresPhoto:   request.RequiresPhoto,
		RequiresComment: request.RequiresComment,
		SortOrder:       request.SortOrder,
	}

	if err := c.inspectionRepo.CreateResponseOption(ctx, option); err != nil {
		return nil, log.Err("failed to create response option", err, "checkpointID", checkpointID)
	}

	return option, nil
}

func (c *InspectionController) DeleteResponseOption(ctx context.Context, optionID uuid.UUID) error {
	return c.inspectionRepo.DeleteResponseOption(ctx, optionID)
}

func (c *InspectionController) CreateAttachment(ctx context.Context, checkpointID uuid.UUID, request *AttachmentRequest) (*CheckpointAttachment, error) {
	log := c.log.Function("CreateAttachment")

	if !request.Kind.IsValid() {
		return nil, ErrInvalidAttachmentKind
	}
	if request.URL == "" {
		return nil, ErrURLRequired
	}

	checkpoint, err := c.inspectionRepo.GetCheckpoint(ctx, checkpointID)
	if err != nil {
		return nil, log.Err("failed to get checkpoint", err, "checkpointID", checkpointID)
	}
	if checkpoint == nil {
		return nil, ErrCheckpointNotFound
	}

	attachment := &CheckpointAttachment{
		CheckpointID: checkpointID,
		Kind:         request.Kind,
		Title:        request.Title,
		URL:          request.URL,
	}

	if err := c.inspectionRepo.CreateAttachment(ctx, attachment); err != nil {
		return nil, log.Err("failed to create attachment", err, "checkpointID", checkpointID)
	}

	return attachment, nil
}

func (c *InspectionController) DeleteAttachment(ctx context.Context, attachmentID uuid.UUID) error {
	return c.inspectionRepo.DeleteAttachment(ctx, attachmentID)
}
