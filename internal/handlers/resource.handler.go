package handlers

import (
	"sitelog/internal/app"
	projectController "sitelog/internal/controllers/projects"
	resourceController "sitelog/internal/controllers/resources"
	"sitelog/internal/logger"

	"github.com/gofiber/fiber/v2"
)

type ResourceHandler struct {
	Handler
	resourceController resourceController.ResourceControllerInterface
	projectController  projectController.ProjectControllerInterface
}

func NewResourceHandler(app app.App, router fiber.Router) *ResourceHandler {
	log := logger.New("handlers").File("resource_handler")
	return &ResourceHandler{
		resourceController: app.Controllers.Resource,
		projectController:  app.Controllers.Project,
		Handler: Handler{
			log:        log,
			router:     router,
			middleware: app.Middleware,
		},
	}
}

func (h *ResourceHandler) Register() {
	resources := h.router.Group("/projects/:projectId/resources", h.middleware.RequireAuth())

	resources.Get("", h.listResources)
	resources.Post("", h.createResource)
	resources.Put("/:resourceId", h.updateResource)
	resources.Delete("/:resourceId", h.deleteResource)
}

func (h *ResourceHandler) listResources(c *fiber.Ctx) error {
	log := h.log.Function("listResources")

	projectID, ok := parseParamID(c, "projectId")
	if !ok {
		return nil
	}

	if _, ok := requireMember(c, h.projectController, projectID); !ok {
		return nil
	}

	resources, err := h.resourceController.List(c.Context(), projectID)
	if err != nil {
		_ = log.Err("Failed to list resources", err, "projectID", projectID)
		return respondError(c, err)
	}

	return c.JSON(fiber.Map{
		"resources": resources,
	})
}

func (h *ResourceHandler) createResource(c *fiber.Ctx) error {
	log := h.log.Function("createResource")

	projectID, ok := parseParamID(c, "projectId")
	if !ok {
		return nil
	}

	if _, ok := requireProjectAdmin(c, h.projectController, projectID); !ok {
		return nil
	}

	var req resourceController.ResourceRequest
	if err := c.BodyParser(&req); err != nil {
		log.Warn("Invalid request body", "error", err, "projectID", projectID)
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid request body",
		})
	}

	resource, err := h.resourceController.Create(c.Context(), projectID, &req)
	if err != nil {
		if statusForError(err) == fiber.StatusInternalServerError {
			_ = log.Err("Failed to create resource", err, "projectID", projectID)
		}
		return respondError(c, err)
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"resource": resource,
	})
}

func (h *ResourceHandler) updateResource(c *fiber.Ctx) error {
	log := h.log.Function("updateResource")

	projectID, ok := parseParamID(c, "projectId")
	if !ok {
		return nil
	}

	resourceID, ok := parseParamID(c, "resourceId")
	if !ok {
		return nil
	}

	if _, ok := requireProjectAdmin(c, h.projectController, projectID); !ok {
		return nil
	}

	var req resourceController.ResourceRequest
	if err := c.BodyParser(&req); err != nil {
		log.Warn("Invalid request body", "error", err, "resourceID", resourceID)
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid request body",
		})
	}

	resource, err := h.resourceController.Update(c.Context(), resourceID, &req)
	if err != nil {
		if statusForError(err) == fiber.StatusInternalServerError {
			_ = log.Err("Failed to update resource", err, "resourceID", resourceID)
		}
		return respondError(c, err)
	}

	return c.JSON(fiber.Map{
		"resource": resource,
	})
}

func (h *ResourceHandler) deleteResource(c *fiber.Ctx) error {
	log := h.log.Function("deleteResource")

	projectID, ok := parseParamID(c, "projectId")
	if !ok {
		return nil
	}

	resourceID, ok := parseParamID(c, "resourceId")
	if !ok {
		return nil
	}

	if _, ok := requireProjectAdmin(c, h.projectController, projectID); !ok {
		return nil
	}

	if err := h.resourceController.Delete(c.Context(), resourceID); err != nil {
		if statusForError(err) == fiber.StatusInternalServerError {
			_ = log.Err("Failed to delete resource", err, "resourceID", resourceID)
		}
		return respondError(c, err)
	}

	return c.Status(fiber.StatusNoContent).Send(nil)
}
