package handlers

import (
	"errors"

	"sitelog/internal/app"
	"sitelog/internal/handlers/middleware"
	"sitelog/internal/logger"
	"sitelog/internal/models"

	authController "sitelog/internal/controllers/auth"
	calibrationController "sitelog/internal/controllers/calibration"
	exportController "sitelog/internal/controllers/exports"
	inspectionController "sitelog/internal/controllers/inspections"
	installationController "sitelog/internal/controllers/installations"
	mappingController "sitelog/internal/controllers/mappings"
	projectController "sitelog/internal/controllers/projects"
	qrController "sitelog/internal/controllers/qrcodes"
	resourceController "sitelog/internal/controllers/resources"
	userController "sitelog/internal/controllers/users"
	"sitelog/internal/services"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/websocket/v2"
	"github.com/google/uuid"
)

type Handler struct {
	middleware middleware.Middleware
	log        logger.Logger
	router     fiber.Router
}

func Router(router fiber.Router, app *app.App) error {
	setupWebSocketRoute(router, app)

	api := router.Group("/api")
	HealthHandler(api, app.Config)
	NewAuthHandler(*app, api).Register()
	NewUserHandler(*app, api).Register()
	NewProjectHandler(*app, api).Register()
	NewInspectionHandler(*app, api).Register()
	NewInstallationHandler(*app, api).Register()
	NewCalibrationHandler(*app, api).Register()
	NewResourceHandler(*app, api).Register()
	NewMappingHandler(*app, api).Register()
	NewQRHandler(*app, api).Register()
	NewExportHandler(*app, api).Register()

	return nil
}

func setupWebSocketRoute(router fiber.Router, app *app.App) {
	router.Use("/ws", func(c *fiber.Ctx) error {
		if websocket.IsWebSocketUpgrade(c) {
			c.Locals("allowed", true)
			return c.Next()
		}
		return fiber.ErrUpgradeRequired
	})
	router.Get("/ws", websocket.New(func(c *websocket.Conn) {
		app.Websocket.HandleWebSocket(c)
	}))
}

// parseParamID reads a UUID path parameter, writing a 400 response and
// returning false when it is malformed.
func parseParamID(c *fiber.Ctx, name string) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.Params(name))
	if err != nil {
		_ = c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid " + name,
		})
		return uuid.Nil, false
	}
	return id, true
}

// requireMember loads the authenticated user and verifies they belong to the
// project, writing the error response itself when either check fails.
func requireMember(
	c *fiber.Ctx,
	projects projectController.ProjectControllerInterface,
	projectID uuid.UUID,
) (*models.User, bool) {
	user := middleware.GetUser(c)
	if user == nil {
		_ = c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
			"error": "Authentication required",
		})
		return nil, false
	}

	if _, err := projects.RequireMember(c.Context(), projectID, user); err != nil {
		_ = respondError(c, err)
		return nil, false
	}

	return user, true
}

// requireProjectAdmin is requireMember plus a project admin role check.
func requireProjectAdmin(
	c *fiber.Ctx,
	projects projectController.ProjectControllerInterface,
	projectID uuid.UUID,
) (*models.User, bool) {
	user := middleware.GetUser(c)
	if user == nil {
		_ = c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
			"error": "Authentication required",
		})
		return nil, false
	}

	if err := projects.RequireProjectAdmin(c.Context(), projectID, user); err != nil {
		_ = respondError(c, err)
		return nil, false
	}

	return user, true
}

// statusForError maps known controller errors onto HTTP statuses.
// Anything unrecognized is a 500.
func statusForError(err error) int {
	switch {
	case errors.Is(err, authController.ErrInvalidCredentials),
		errors.Is(err, services.ErrInvalidToken),
		errors.Is(err, services.ErrSessionExpired):
		return fiber.StatusUnauthorized

	case errors.Is(err, projectController.ErrNotMember):
		return fiber.StatusForbidden

	case errors.Is(err, projectController.ErrProjectNotFound),
		errors.Is(err, userController.ErrUserNotFound),
		errors.Is(err, installationController.ErrInstallationNotFound),
		errors.Is(err, inspectionController.ErrTypeNotFound),
		errors.Is(err, inspectionController.ErrCategoryNotFound),
		errors.Is(err, inspectionController.ErrCheckpointNotFound),
		errors.Is(err, calibrationController.ErrPointNotFound),
		errors.Is(err, resourceController.ErrResourceNotFound),
		errors.Is(err, qrController.ErrCodeNotFound),
		errors.Is(err, exportController.ErrProjectNotFound):
		return fiber.StatusNotFound

	case errors.Is(err, installationController.ErrMonthLocked),
		errors.Is(err, installationController.ErrMonthAlreadyLocked),
		errors.Is(err, installationController.ErrDuplicateInstallation),
		errors.Is(err, projectController.ErrCodeTaken),
		errors.Is(err, projectController.ErrAlreadyMember),
		errors.Is(err, userController.ErrEmailTaken),
		errors.Is(err, qrController.ErrCodeActive),
		errors.Is(err, qrController.ErrCodeInactive),
		errors.Is(err, qrController.ErrObjectBound),
		errors.Is(err, inspectionController.ErrNameTaken),
		errors.Is(err, resourceController.ErrNameTaken):
		return fiber.StatusConflict

	case errors.Is(err, installationController.ErrInvalidMonthKey),
		errors.Is(err, installationController.ErrGUIDRequired),
		errors.Is(err, inspectionController.ErrNameRequired),
		errors.Is(err, inspectionController.ErrValueRequired),
		errors.Is(err, inspectionController.ErrURLRequired),
		errors.Is(err, inspectionController.ErrInvalidAttachmentKind),
		errors.Is(err, resourceController.ErrNameRequired),
		errors.Is(err, resourceController.ErrInvalidKind),
		errors.Is(err, mappingController.ErrInvalidTarget),
		errors.Is(err, qrController.ErrInvalidBatchSize),
		errors.Is(err, qrController.ErrGUIDRequired),
		errors.Is(err, userController.ErrEmailRequired),
		errors.Is(err, services.ErrInsufficientPoints),
		errors.Is(err, services.ErrDegenerateGeometry),
		errors.Is(err, calibrationController.ErrNotCalibrated):
		return fiber.StatusBadRequest
	}

	return fiber.StatusInternalServerError
}

// respondError writes the mapped status with the controller error message
// for client errors and a generic message for server errors.
func respondError(c *fiber.Ctx, err error) error {
	status := statusForError(err)

	message := err.Error()
	if status == fiber.StatusInternalServerError {
		message = "Internal server error"
	}

	return c.Status(status).JSON(fiber.Map{
		"error": message,
	})
}
