package handlers

import (
	"sitelog/internal/app"
	mappingController "sitelog/internal/controllers/mappings"
	projectController "sitelog/internal/controllers/projects"
	"sitelog/internal/logger"

	"github.com/gofiber/fiber/v2"
)

type MappingHandler struct {
	Handler
	mappingController mappingController.MappingControllerInterface
	projectController projectController.ProjectControllerInterface
}

func NewMappingHandler(app app.App, router fiber.Router) *MappingHandler {
	log := logger.New("handlers").File("mapping_handler")
	return &MappingHandler{
		mappingController: app.Controllers.Mapping,
		projectController: app.Controllers.Project,
		Handler: Handler{
			log:        log,
			router:     router,
			middleware: app.Middleware,
		},
	}
}

func (h *MappingHandler) Register() {
	mappings := h.router.Group("/projects/:projectId/property-mappings", h.middleware.RequireAuth())

	mappings.Get("", h.listMappings)
	mappings.Put("", h.replaceMappings)
	mappings.Post("/suggest", h.suggestMappings)
}

func (h *MappingHandler) listMappings(c *fiber.Ctx) error {
	log := h.log.Function("listMappings")

	projectID, ok := parseParamID(c, "projectId")
	if !ok {
		return nil
	}

	if _, ok := requireMember(c, h.projectController, projectID); !ok {
		return nil
	}

	mappings, err := h.mappingController.List(c.Context(), projectID)
	if err != nil {
		_ = log.Err("Failed to list property mappings", err, "projectID", projectID)
		return respondError(c, err)
	}

	return c.JSON(fiber.Map{
		"mappings": mappings,
	})
}

func (h *MappingHandler) replaceMappings(c *fiber.Ctx) error {
	log := h.log.Function("replaceMappings")

	projectID, ok := parseParamID(c, "projectId")
	if !ok {
		return nil
	}

	if _, ok := requireProjectAdmin(c, h.projectController, projectID); !ok {
		return nil
	}

	var req mappingController.ReplaceMappingsRequest
	if err := c.BodyParser(&req); err != nil {
		log.Warn("Invalid request body", "error", err, "projectID", projectID)
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid request body",
		})
	}

	mappings, err := h.mappingController.ReplaceAll(c.Context(), projectID, &req)
	if err != nil {
		if statusForError(err) == fiber.StatusInternalServerError {
			_ = log.Err("Failed to replace property mappings", err, "projectID", projectID)
		}
		return respondError(c, err)
	}

	return c.JSON(fiber.Map{
		"mappings": mappings,
	})
}

func (h *MappingHandler) suggestMappings(c *fiber.Ctx) error {
	log := h.log.Function("suggestMappings")

	projectID, ok := parseParamID(c, "projectId")
	if !ok {
		return nil
	}

	if _, ok := requireMember(c, h.projectController, projectID); !ok {
		return nil
	}

	var req mappingController.SuggestRequest
	if err := c.BodyParser(&req); err != nil {
		log.Warn("Invalid request body", "error", err, "projectID", projectID)
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid request body",
		})
	}

	return c.JSON(fiber.Map{
		"suggestions": h.mappingController.Suggest(c.Context(), &req),
	})
}
