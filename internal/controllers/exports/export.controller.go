package exportController

import (
	"context"
	"errors"
	"io"

	"sitelog/config"
	"sitelog/internal/database"
	"sitelog/internal/events"
	"sitelog/internal/logger"
	"sitelog/internal/repositories"
	"sitelog/internal/services"

	"github.com/google/uuid"
	"github.com/xuri/excelize/v2"
)

var ErrProjectNotFound = errors.New("project not found")

type ExportController struct {
	projectRepo      repositories.ProjectRepository
	installationRepo repositories.InstallationRepository
	exportService    *services.ExportService
	eventBus         *events.EventBus
	db               database.DB
	Config           config.Config
	log              logger.Logger
}

type ExportControllerInterface interface {
	StreamInstallations(ctx context.Context, projectID uuid.UUID, w io.Writer) (string, error)
	SaveInstallations(ctx context.Context, projectID uuid.UUID) (string, error)
}

func New(
	repos repositories.Repository,
	services services.Service,
	eventBus *events.EventBus,
	config config.Config,
	db database.DB,
) ExportControllerInterface {
	return &ExportController{
		projectRepo:      repos.Project,
		installationRepo: repos.Installation,
		exportService:    services.Export,
		eventBus:         eventBus,
		db:               db,
		Config:           config,
		log:              logger.New("exportController"),
	}
}

// StreamInstallations writes the report workbook to w and returns the
// suggested file name.
func (c *ExportController) StreamInstallations(ctx context.Context, projectID uuid.UUID, w io.Writer) (string, error) {
	log := c.log.Function("StreamInstallations")

	f, fileName, err := c.buildWorkbook(ctx, projectID)
	if err != nil {
		return "", err
	}
	defer f.Close()

	if err := c.exportService.Stream(f, w); err != nil {
		return "", log.Err("failed to stream workbook", err, "projectID", projectID)
	}

	return fileName, nil
}

// SaveInstallations writes the report workbook to the export directory
// and announces it on the project channel.
func (c *ExportController) SaveInstallations(ctx context.Context, projectID uuid.UUID) (string, error) {
	log := c.log.Function("SaveInstallations")

	f, _, err := c.buildWorkbook(ctx, projectID)
	if err != nil {
		return "", err
	}
	defer f.Close()

	project, err := c.projectRepo.GetByID(ctx, projectID)
	if err != nil {
		return "", err
	}
	if project == nil {
		return "", ErrProjectNotFound
	}

	path, err := c.exportService.Save(f, project)
	if err != nil {
		return "", log.Err("failed to save workbook", err, "projectID", projectID)
	}

	if err := c.eventBus.PublishProjectEvent(projectID, events.EXPORT_READY, map[string]any{
		"path": path,
	}); err != nil {
		log.Warn("failed to publish export event", "projectID", projectID, "error", err)
	}

	return path, nil
}

func (c *ExportController) buildWorkbook(ctx context.Context, projectID uuid.UUID) (*excelize.File, string, error) {
	log := c.log.Function("buildWorkbook")

	project, err := c.projectRepo.GetByID(ctx, projectID)
	if err != nil {
		return nil, "", err
	}
	if project == nil {
		return nil, "", ErrProjectNotFound
	}

	installations, err := c.installationRepo.ListByProject(ctx, projectID)
	if err != nil {
		return nil, "", err
	}

	locks, err := c.installationRepo.ListMonthLocks(ctx, projectID)
	if err != nil {
		return nil, "", err
	}

	f, err := c.exportService.BuildWorkbook(project, installations, locks)
	if err != nil {
		return nil, "", log.Err("failed to build workbook", err, "projectID", projectID)
	}

	return f, c.exportService.FileName(project.Code), nil
}
