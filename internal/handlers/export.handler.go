package handlers

import (
	"bytes"

	"sitelog/internal/app"
	exportController "sitelog/internal/controllers/exports"
	projectController "sitelog/internal/controllers/projects"
	"sitelog/internal/logger"

	"github.com/gofiber/fiber/v2"
)

const xlsxContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

type ExportHandler struct {
	Handler
	exportController  exportController.ExportControllerInterface
	projectController projectController.ProjectControllerInterface
}

func NewExportHandler(app app.App, router fiber.Router) *ExportHandler {
	log := logger.New("handlers").File("export_handler")
	return &ExportHandler{
		exportController:  app.Controllers.Export,
		projectController: app.Controllers.Project,
		Handler: Handler{
			log:        log,
			router:     router,
			middleware: app.Middleware,
		},
	}
}

func (h *ExportHandler) Register() {
	exports := h.router.Group("/projects/:projectId/exports", h.middleware.RequireAuth())

	exports.Get("/installations", h.downloadInstallations)
	exports.Post("/installations", h.saveInstallations)
}

func (h *ExportHandler) downloadInstallations(c *fiber.Ctx) error {
	log := h.log.Function("downloadInstallations")

	projectID, ok := parseParamID(c, "projectId")
	if !ok {
		return nil
	}

	if _, ok := requireMember(c, h.projectController, projectID); !ok {
		return nil
	}

	var buf bytes.Buffer
	fileName, err := h.exportController.StreamInstallations(c.Context(), projectID, &buf)
	if err != nil {
		if statusForError(err) == fiber.StatusInternalServerError {
			_ = log.Err("Failed to build installation export", err, "projectID", projectID)
		}
		return respondError(c, err)
	}

	c.Set(fiber.HeaderContentType, xlsxContentType)
	c.Set(fiber.HeaderContentDisposition, `attachment; filename="`+fileName+`"`)
	return c.Send(buf.Bytes())
}

func (h *ExportHandler) saveInstallations(c *fiber.Ctx) error {
	log := h.log.Function("saveInstallations")

	projectID, ok := parseParamID(c, "projectId")
	if !ok {
		return nil
	}

	if _, ok := requireMember(c, h.projectController, projectID); !ok {
		return nil
	}

	path, err := h.exportController.SaveInstallations(c.Context(), projectID)
	if err != nil {
		if statusForError(err) == fiber.StatusInternalServerError {
			_ = log.Err("Failed to save installation export", err, "projectID", projectID)
		}
		return respondError(c, err)
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"path": path,
	})
}
