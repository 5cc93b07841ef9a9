package installationController

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"sitelog/config"
	"sitelog/internal/database"
	"sitelog/internal/events"
	"sitelog/internal/logger"
	. "sitelog/internal/models"
	"sitelog/internal/repositories"
	"sitelog/internal/services"
	"sitelog/internal/utils"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

var (
	ErrMonthLocked           = errors.New("month is locked for editing")
	ErrInstallationNotFound  = errors.New("installation not found")
	ErrDuplicateInstallation = errors.New("object is already installed")
	ErrInvalidMonthKey       = errors.New("invalid month key")
	ErrMonthAlreadyLocked    = errors.New("month is already locked")
	ErrGUIDRequired          = errors.New("object GUID is required")
)

type InstallationController struct {
	installationRepo   repositories.InstallationRepository
	transactionService *services.TransactionService
	eventBus           *events.EventBus
	db                 database.DB
	Config             config.Config
	log                logger.Logger
}

type CreateInstallationRequest struct {
	GUID         string         `json:"guid"        validate:"required"`
	AssemblyMark string         `json:"assemblyMark"`
	InstalledAt  *time.Time     `json:"installedAt,omitempty"`
	TeamMembers  string         `json:"teamMembers"`
	Method       string         `json:"method"`
	Notes        string         `json:"notes"`
	Properties   map[string]any `json:"properties,omitempty"`
}

type UpdateInstallationRequest struct {
	InstalledAt *time.Time `json:"installedAt,omitempty"`
	TeamMembers *string    `json:"teamMembers,omitempty"`
	Method      *string    `json:"method,omitempty"`
	Notes       *string    `json:"notes,omitempty"`
}

type BatchSaveRequest struct {
	Installations []CreateInstallationRequest `json:"installations" validate:"required"`
}

// BatchSaveResult splits a batch into what was written and what already
// existed. Duplicates are reported, never overwritten.
type BatchSaveResult struct {
	Created    []Installation `json:"created"`
	Duplicates []string       `json:"duplicates"`
	Locked     []string       `json:"locked"`
}

type LockMonthRequest struct {
	Month  string `json:"month" validate:"required"`
	Reason string `json:"reason"`
}

type InstallationControllerInterface interface {
	ListGrouped(ctx context.Context, projectID uuid.UUID) ([]utils.MonthGroup, error)
	Get(ctx context.Context, id uuid.UUID) (*Installation, error)
	Create(ctx context.Context, projectID uuid.UUID, user *User, request *CreateInstallationRequest) (*Installation, error)
	BatchSave(ctx context.Context, projectID uuid.UUID, user *User, request *BatchSaveRequest) (*BatchSaveResult, error)
	Update(ctx context.Context, id uuid.UUID, request *UpdateInstallationRequest) (*Installation, error)
	Delete(ctx context.Context, id uuid.UUID) error

	ListMonthLocks(ctx context.Context, projectID uuid.UUID) ([]InstallationMonthLock, error)
	LockMonth(ctx context.Context, projectID uuid.UUID, user *User, request *LockMonthRequest) (*InstallationMonthLock, error)
	UnlockMonth(ctx context.Context, projectID uuid.UUID, month string) error
}

func New(
	repos repositories.Repository,
	services services.Service,
	eventBus *events.EventBus,
	config config.Config,
	db database.DB,
) InstallationControllerInterface {
	return &InstallationController{
		installationRepo:   repos.Installation,
		transactionService: services.Transaction,
		eventBus:           eventBus,
		db:                 db,
		Config:             config,
		log:                logger.New("installationController"),
	}
}

// ListGrouped returns the project's installations bucketed by month and
// day, newest first, with a stable color per month bucket.
func (c *InstallationController) ListGrouped(ctx context.Context, projectID uuid.UUID) ([]utils.MonthGroup, error) {
	log := c.log.Function("ListGrouped")

	installations, err := c.installationRepo.ListByProject(ctx, projectID)
	if err != nil {
		return nil, log.Err("failed to list installations", err, "projectID", projectID)
	}

	return utils.GroupInstallationsByMonth(installations), nil
}

func (c *InstallationController) Get(ctx context.Context, id uuid.UUID) (*Installation, error) {
	installation, err := c.installationRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if installation == nil {
		return nil, ErrInstallationNotFound
	}
	return installation, nil
}

func (c *InstallationController) Create(ctx context.Context, projectID uuid.UUID, user *User, request *CreateInstallationRequest) (*Installation, error) {
	log := c.log.Function("Create")

	installation, err := c.buildInstallation(projectID, user, request)
	if err != nil {
		return nil, err
	}

	err = c.transactionService.Execute(ctx, func(ctx context.Context, tx *gorm.DB) error {
		locked, err := c.installationRepo.IsMonthLocked(ctx, projectID, installation.MonthKey())
		if err != nil {
			return err
		}
		if locked {
			return ErrMonthLocked
		}

		existing, err := c.installationRepo.GetByProjectAndGUID(ctx, projectID, installation.GUID)
		if err != nil {
			return err
		}
		if existing != nil {
			return ErrDuplicateInstallation
		}

		return c.installationRepo.Create(ctx, installation)
	})
	if err != nil {
		if errors.Is(err, ErrMonthLocked) || errors.Is(err, ErrDuplicateInstallation) {
			return nil, err
		}
		return nil, log.Err("failed to create installation", err, "projectID", projectID, "guid", request.GUID)
	}

	c.publish(projectID, events.INSTALLATION_CREATED, map[string]any{
		"installationId": installation.ID.String(),
		"guid":           installation.GUID,
		"month":          installation.MonthKey(),
	})

	return installation, nil
}

// BatchSave writes a whole scan session in one transaction. Objects that
// already have an installation are returned as duplicates, objects whose
// month is locked are skipped; neither fails the batch.
func (c *InstallationController) BatchSave(ctx context.Context, projectID uuid.UUID, user *User, request *BatchSaveRequest) (*BatchSaveResult, error) {
	log := c.log.Function("BatchSave")

	candidates := make([]*Installation, 0, len(request.Installations))
	for i := range request.Installations {
		installation, err := c.buildInstallation(projectID, user, &request.Installations[i])
		if err != nil {
			return nil, err
		}
		candidates = append(candidates, installation)
	}

	result := &BatchSaveResult{
		Created:    []Installation{},
		Duplicates: []string{},
		Locked:     []string{},
	}

	err := c.transactionService.Execute(ctx, func(ctx context.Context, tx *gorm.DB) error {
		guids := make([]string, len(candidates))
		for i, installation := range candidates {
			guids[i] = installation.GUID
		}

		existing, err := c.installationRepo.ListGUIDsByProject(ctx, projectID, guids)
		if err != nil {
			return err
		}

		locks, err := c.installationRepo.ListMonthLocks(ctx, projectID)
		if err != nil {
			return err
		}
		lockedMonths := make(map[string]bool, len(locks))
		for _, lock := range locks {
			lockedMonths[lock.Month] = true
		}

		toCreate, duplicates, lockedOut := splitBatch(candidates, existing, lockedMonths)
		result.Duplicates = duplicates
		result.Locked = lockedOut

		if err := c.installationRepo.CreateBatch(ctx, toCreate); err != nil {
			return err
		}

		for _, installation := range toCreate {
			result.Created = append(result.Created, *installation)
		}

		return nil
	})
	if err != nil {
		return nil, log.Err("failed to save installation batch", err, "projectID", projectID, "count", len(candidates))
	}

	log.Info(
		"Installation batch saved",
		"projectID", projectID,
		"created", len(result.Created),
		"duplicates", len(result.Duplicates),
		"locked", len(result.Locked),
	)

	if len(result.Created) > 0 {
		c.publish(projectID, events.INSTALLATION_CREATED, map[string]any{
			"count": len(result.Created),
		})
	}

	return result, nil
}

// splitBatch partitions a candidate batch into writable records, GUIDs
// that already exist (in the database or earlier in the same batch), and
// GUIDs falling into a locked month. Existence is compared on the
// canonical GUID form, so the same object scanned under its IFC and UUID
// encodings counts as one.
func splitBatch(
	candidates []*Installation,
	existing map[string]uuid.UUID,
	lockedMonths map[string]bool,
) (toCreate []*Installation, duplicates, locked []string) {
	toCreate = make([]*Installation, 0, len(candidates))
	duplicates = []string{}
	locked = []string{}

	seen := make(map[string]bool, len(candidates))
	for _, installation := range candidates {
		key := utils.CanonicalGUID(installation.GUID)
		switch {
		case existing[key] != uuid.Nil || seen[key]:
			duplicates = append(duplicates, installation.GUID)
		case lockedMonths[installation.MonthKey()]:
			locked = append(locked, installation.GUID)
		default:
			seen[key] = true
			toCreate = append(toCreate, installation)
		}
	}

	return toCreate, duplicates, locked
}

func (c *InstallationController) Update(ctx context.Context, id uuid.UUID, request *UpdateInstallationRequest) (*Installation, error) {
	log := c.log.Function("Update")

	installation, err := c.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	err = c.transactionService.Execute(ctx, func(ctx context.Context, tx *gorm.DB) error {
		// Both the current month and the target month must be open
		months := []string{installation.MonthKey()}
		if request.InstalledAt != nil {
			months = append(months, request.InstalledAt.Format(MonthKeyLayout))
		}
		for _, month := range months {
			locked, err := c.installationRepo.IsMonthLocked(ctx, installation.ProjectID, month)
			if err != nil {
				return err
			}
			if locked {
				return ErrMonthLocked
			}
		}

		if request.InstalledAt != nil {
			installation.InstalledAt = *request.InstalledAt
		}
		if request.TeamMembers != nil {
			installation.TeamMembers = *request.TeamMembers
		}
		if request.Method != nil {
			installation.Method = *request.Method
		}
		if request.Notes != nil {
			installation.Notes = *request.Notes
		}

		return c.installationRepo.Update(ctx, installation)
	})
	if err != nil {
		if errors.Is(err, ErrMonthLocked) {
			return nil, err
		}
		return nil, log.Err("failed to update installation", err, "installationID", id)
	}

	return installation, nil
}

func (c *InstallationController) Delete(ctx context.Context, id uuid.UUID) error {
	log := c.log.Function("Delete")

	installation, err := c.Get(ctx, id)
	if err != nil {
		return err
	}

	err = c.transactionService.Execute(ctx, func(ctx context.Context, tx *gorm.DB) error {
		locked, err := c.installationRepo.IsMonthLocked(ctx, installation.ProjectID, installation.MonthKey())
		if err != nil {
			return err
		}
		if locked {
			return ErrMonthLocked
		}

		return c.installationRepo.Delete(ctx, id)
	})
	if err != nil {
		if errors.Is(err, ErrMonthLocked) {
			return err
		}
		return log.Err("failed to delete installation", err, "installationID", id)
	}

	c.publish(installation.ProjectID, events.INSTALLATION_DELETED, map[string]any{
		"installationId": id.String(),
		"guid":           installation.GUID,
	})

	return nil
}

func (c *InstallationController) ListMonthLocks(ctx context.Context, projectID uuid.UUID) ([]InstallationMonthLock, error) {
	return c.installationRepo.ListMonthLocks(ctx, projectID)
}

func (c *InstallationController) LockMonth(ctx context.Context, projectID uuid.UUID, user *User, request *LockMonthRequest) (*InstallationMonthLock, error) {
	log := c.log.Function("LockMonth")

	if !ValidMonthKey(request.Month) {
		return nil, ErrInvalidMonthKey
	}

	lock := &InstallationMonthLock{
		ProjectID:  projectID,
		Month:      request.Month,
		LockedByID: &user.ID,
		Reason:     request.Reason,
	}

	err := c.transactionService.Execute(ctx, func(ctx context.Context, tx *gorm.DB) error {
		locked, err := c.installationRepo.IsMonthLocked(ctx, projectID, request.Month)
		if err != nil {
			return err
		}
		if locked {
			return ErrMonthAlreadyLocked
		}

		return c.installationRepo.CreateMonthLock(ctx, lock)
	})
	if err != nil {
		if errors.Is(err, ErrMonthAlreadyLocked) {
			return nil, err
		}
		return nil, log.Err("failed to lock month", err, "projectID", projectID, "month", request.Month)
	}

	log.Info("Month locked", "projectID", projectID, "month", request.Month, "lockedBy", user.ID)

	c.publish(projectID, events.MONTH_LOCK_CHANGED, map[string]any{
		"month":  request.Month,
		"locked": true,
	})

	return lock, nil
}

func (c *InstallationController) UnlockMonth(ctx context.Context, projectID uuid.UUID, month string) error {
	log := c.log.Function("UnlockMonth")

	if !ValidMonthKey(month) {
		return ErrInvalidMonthKey
	}

	if err := c.installationRepo.DeleteMonthLock(ctx, projectID, month); err != nil {
		return log.Err("failed to unlock month", err, "projectID", projectID, "month", month)
	}

	log.Info("Month unlocked", "projectID", projectID, "month", month)

	c.publish(projectID, events.MONTH_LOCK_CHANGED, map[string]any{
		"month":  month,
		"locked": false,
	})

	return nil
}

func (c *InstallationController) buildInstallation(projectID uuid.UUID, user *User, request *CreateInstallationRequest) (*Installation, error) {
	if request.GUID == "" {
		return nil, ErrGUIDRequired
	}

	guid, format := utils.NormalizeGUID(request.GUID)

	installedAt := time.Now().UTC()
	if request.InstalledAt != nil {
		installedAt = request.InstalledAt.UTC()
	}

	installation := &Installation{
		ProjectID:    projectID,
		GUID:         guid,
		GUIDFormat:   string(format),
		AssemblyMark: request.AssemblyMark,
		InstalledAt:  installedAt,
		RecordedByID: user.ID,
		TeamMembers:  request.TeamMembers,
		Method:       request.Method,
		Notes:        request.Notes,
	}

	if len(request.Properties) > 0 {
		properties, err := json.Marshal(request.Properties)
		if err != nil {
			return nil, c.log.Function("buildInstallation").
				Err("failed to encode properties", err, "guid", guid)
		}
		installation.Properties = datatypes.JSON(properties)
	}

	return installation, nil
}

func (c *InstallationController) publish(projectID uuid.UUID, eventType events.MessageType, data map[string]any) {
	if err := c.eventBus.PublishProjectEvent(projectID, eventType, data); err != nil {
		c.log.Function("publish").Warn("failed to publish event", "type", eventType, "error", err)
	}
}
