package handlers

import (
	"sitelog/internal/app"
	inspectionController "sitelog/internal/controllers/inspections"
	projectController "sitelog/internal/controllers/projects"
	"sitelog/internal/logger"

	"github.com/gofiber/fiber/v2"
)

type InspectionHandler struct {
	Handler
	inspectionController inspectionController.InspectionControllerInterface
	projectController    projectController.ProjectControllerInterface
}

func NewInspectionHandler(app app.App, router fiber.Router) *InspectionHandler {
	log := logger.New("handlers").File("inspection_handler")
	return &InspectionHandler{
		inspectionController: app.Controllers.Inspection,
		projectController:    app.Controllers.Project,
		Handler: Handler{
			log:        log,
			router:     router,
			middleware: app.Middleware,
		},
	}
}

func (h *InspectionHandler) Register() {
	projects := h.router.Group("/projects/:projectId", h.middleware.RequireAuth())

	projects.Get("/checklist", h.getChecklist)

	projects.Post("/inspection-types", h.createType)
	projects.Put("/inspection-types/:typeId", h.updateType)
	projects.Delete("/inspection-types/:typeId", h.deleteType)

	projects.Post("/inspection-types/:typeId/categories", h.createCategory)
	projects.Put("/categories/:categoryId", h.updateCategory)
	projects.Delete("/categories/:categoryId", h.deleteCategory)

	projects.Post("/categories/:categoryId/checkpoints", h.createCheckpoint)
	projects.Put("/checkpoints/:checkpointId", h.updateCheckpoint)
	projects.Delete("/checkpoints/:checkpointId", h.deleteCheckpoint)

	projects.Post("/checkpoints/:checkpointId/options", h.createResponseOption)
	projects.Delete("/options/:optionId", h.deleteResponseOption)

	projects.Post("/checkpoints/:checkpointId/attachments", h.createAttachment)
	projects.Delete("/attachments/:attachmentId", h.deleteAttachment)
}

func (h *InspectionHandler) getChecklist(c *fiber.Ctx) error {
	log := h.log.Function("getChecklist")

	projectID, ok := parseParamID(c, "projectId")
	if !ok {
		return nil
	}

	if _, ok := requireMember(c, h.projectController, projectID); !ok {
		return nil
	}

	checklist, err := h.inspectionController.GetChecklist(c.Context(), projectID)
	if err != nil {
		_ = log.Err("Failed to get checklist", err, "projectID", projectID)
		return respondError(c, err)
	}

	return c.JSON(fiber.Map{
		"checklist": checklist,
	})
}

func (h *InspectionHandler) createType(c *fiber.Ctx) error {
	log := h.log.Function("createType")

	projectID, ok := parseParamID(c, "projectId")
	if !ok {
		return nil
	}

	if _, ok := requireProjectAdmin(c, h.projectController, projectID); !ok {
		return nil
	}

	var req inspectionController.TypeRequest
	if err := c.BodyParser(&req); err != nil {
		log.Warn("Invalid request body", "error", err, "projectID", projectID)
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid request body",
		})
	}

	inspectionType, err := h.inspectionController.CreateType(c.Context(), projectID, &req)
	if err != nil {
		if statusForError(err) == fiber.StatusInternalServerError {
			_ = log.Err("Failed to create inspection type", err, "projectID", projectID)
		}
		return respondError(c, err)
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"inspectionType": inspectionType,
	})
}

func (h *InspectionHandler) updateType(c *fiber.Ctx) error {
	log := h.log.Function("updateType")

	projectID, ok := parseParamID(c, "projectId")
	if !ok {
		return nil
	}

	typeID, ok := parseParamID(c, "typeId")
	if !ok {
		return nil
	}

	if _, ok := requireProjectAdmin(c, h.projectController, projectID); !ok {
		return nil
	}

	var req inspectionController.TypeRequest
	if err := c.BodyParser(&req); err != nil {
		log.Warn("Invalid request body", "error", err, "typeID", typeID)
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid request body",
		})
	}

	inspectionType, err := h.inspectionController.UpdateType(c.Context(), typeID, &req)
	if err != nil {
		if statusForError(err) == fiber.StatusInternalServerError {
			_ = log.Err("Failed to update inspection type", err, "typeID", typeID)
		}
		return respondError(c, err)
	}

	return c.JSON(fiber.Map{
		"inspectionType": inspectionType,
	})
}

func (h *InspectionHandler) deleteType(c *fiber.Ctx) error {
	log := h.log.Function("deleteType")

	projectID, ok := parseParamID(c, "projectId")
	if !ok {
		return nil
	}

	typeID, ok := parseParamID(c, "typeId")
	if !ok {
		return nil
	}

	if _, ok := requireProjectAdmin(c, h.projectController, projectID); !ok {
		return nil
	}

	if err := h.inspectionController.DeleteType(c.Context(), typeID); err != nil {
		if statusForError(err) == fiber.StatusInternalServerError {
			_ = log.Err("Failed to delete inspection type", err, "typeID", typeID)
		}
		return respondError(c, err)
	}

	return c.Status(fiber.StatusNoContent).Send(nil)
}

func (h *InspectionHandler) createCategory(c *fiber.Ctx) error {
	log := h.log.Function("createCategory")

	projectID, ok := parseParamID(c, "projectId")
	if !ok {
		return nil
	}

	typeID, ok := parseParamID(c, "typeId")
	if !ok {
		return nil
	}

	if _, ok := requireProjectAdmin(c, h.projectController, projectID); !ok {
		return nil
	}

	var req inspectionController.CategoryRequest
	if err := c.BodyParser(&req); err != nil {
		log.Warn("Invalid request body", "error", err, "typeID", typeID)
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid request body",
		})
	}

	category, err := h.inspectionController.CreateCategory(c.Context(), typeID, &req)
	if err != nil {
		if statusForError(err) == fiber.StatusInternalServerError {
			_ = log.Err("Failed to create category", err, "typeID", typeID)
		}
		return respondError(c, err)
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"category": category,
	})
}

func (h *InspectionHandler) updateCategory(c *fiber.Ctx) error {
	log := h.log.Function("updateCategory")

	projectID, ok := parseParamID(c, "projectId")
	if !ok {
		return nil
	}

	categoryID, ok := parseParamID(c, "categoryId")
	if !ok {
		return nil
	}

	if _, ok := requireProjectAdmin(c, h.projectController, projectID); !ok {
		return nil
	}

	var req inspectionController.CategoryRequest
	if err := c.BodyParser(&req); err != nil {
		log.Warn("Invalid request body", "error", err, "categoryID", categoryID)
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid request body",
		})
	}

	category, err := h.inspectionController.UpdateCategory(c.Context(), categoryID, &req)
	if err != nil {
		if statusForError(err) == fiber.StatusInternalServerError {
			_ = log.Err("Failed to update category", err, "categoryID", categoryID)
		}
		return respondError(c, err)
	}

	return c.JSON(fiber.Map{
		"category": category,
	})
}

func (h *InspectionHandler) deleteCategory(c *fiber.Ctx) error {
	log := h.log.Function("deleteCategory")

	projectID, ok := parseParamID(c, "projectId")
	if !ok {
		return nil
	}

	categoryID, ok := parseParamID(c, "categoryId")
	if !ok {
		return nil
	}

	if _, ok := requireProjectAdmin(c, h.projectController, projectID); !ok {
		return nil
	}

	if err := h.inspectionController.DeleteCategory(c.Context(), categoryID); err != nil {
		if statusForError(err) == fiber.StatusInternalServerError {
			_ = log.Err("Failed to delete category", err, "categoryID", categoryID)
		}
		return respondError(c, err)
	}

	return c.Status(fiber.StatusNoContent).Send(nil)
}

func (h *InspectionHandler) createCheckpoint(c *fiber.Ctx) error {
	log := h.log.Function("createCheckpoint")

	projectID, ok := parseParamID(c, "projectId")
	if !ok {
		return nil
	}

	categoryID, ok := parseParamID(c, "categoryId")
	if !ok {
		return nil
	}

	if _, ok := requireProjectAdmin(c, h.projectController, projectID); !ok {
		return nil
	}

	var req inspectionController.CheckpointRequest
	if err := c.BodyParser(&req); err != nil {
		log.Warn("Invalid request body", "error", err, "categoryID", categoryID)
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid request body",
		})
	}

	checkpoint, err := h.inspectionController.CreateCheckpoint(c.Context(), categoryID, &req)
	if err != nil {
		if statusForError(err) == fiber.StatusInternalServerError {
			_ = log.Err("Failed to create checkpoint", err, "categoryID", categoryID)
		}
		return respondError(c, err)
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"checkpoint": checkpoint,
	})
}

func (h *InspectionHandler) updateCheckpoint(c *fiber.Ctx) error {
	log := h.log.Function("updateCheckpoint")

	projectID, ok := parseParamID(c, "projectId")
	if !ok {
		return nil
	}

	checkpointID, ok := parseParamID(c, "checkpointId")
	if !ok {
		return nil
	}

	if _, ok := requireProjectAdmin(c, h.projectController, projectID); !ok {
		return nil
	}

	var req inspectionController.CheckpointRequest
	if err := c.BodyParser(&req); err != nil {
		log.Warn("Invalid request body", "error", err, "checkpointID", checkpointID)
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid request body",
		})
	}

	checkpoint, err := h.inspectionController.UpdateCheckpoint(c.Context(), checkpointID, &req)
	if err != nil {
		if statusForError(err) == fiber.StatusInternalServerError {
			_ = log.Err("Failed to update checkpoint", err, "checkpointID", checkpointID)
		}
		return respondError(c, err)
	}

	return c.JSON(fiber.Map{
		"checkpoint": checkpoint,
	})
}

func (h *InspectionHandler) deleteCheckpoint(c *fiber.Ctx) error {
	log := h.log.Function("deleteCheckpoint")

	projectID, ok := parseParamID(c, "projectId")
	if !ok {
		return nil
	}

	checkpointID, ok := parseParamID(c, "checkpointId")
	if !ok {
		return nil
	}

	if _, ok := requireProjectAdmin(c, h.projectController, projectID); !ok {
		return nil
	}

	if err := h.inspectionController.DeleteCheckpoint(c.Context(), checkpointID); err != nil {
		if statusForError(err) == fiber.StatusInternalServerError {
			_ = log.Err("Failed to delete checkpoint", err, "checkpointID", checkpointID)
		}
		return respondError(c, err)
	}

	return c.Status(fiber.StatusNoContent).Send(nil)
}

func (h *InspectionHandler) createResponseOption(c *fiber.Ctx) error {
	log := h.log.Function("createResponseOption")

	projectID, ok := parseParamID(c, "projectId")
	if !ok {
		return nil
	}

	checkpointID, ok := parseParamID(c, "checkpointId")
	if !ok {
		return nil
	}

	if _, ok := requireProjectAdmin(c, h.projectController, projectID); !ok {
		return nil
	}

	var req inspectionController.ResponseOptionRequest
	if err := c.BodyParser(&req); err != nil {
		log.Warn("Invalid request body", "error", err, "checkpointID", checkpointID)
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid request body",
		})
	}

	option, err := h.inspectionController.CreateResponseOption(c.Context(), checkpointID, &req)
	if err != nil {
		if statusForError(err) == fiber.StatusInternalServerError {
			_ = log.Err("Failed to create response option", err, "checkpointID", checkpointID)
		}
		return respondError(c, err)
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"option": option,
	})
}

func (h *InspectionHandler) deleteResponseOption(c *fiber.Ctx) error {
	log := h.log.Function("deleteResponseOption")

	projectID, ok := parseParamID(c, "projectId")
	if !ok {
		return nil
	}

	optionID, ok := parseParamID(c, "optionId")
	if !ok {
		return nil
	}

	if _, ok := requireProjectAdmin(c, h.projectController, projectID); !ok {
		return nil
	}

	if err := h.inspectionController.DeleteResponseOption(c.Context(), optionID); err != nil {
		if statusForError(err) == fiber.StatusInternalServerError {
			_ = log.Err("Failed to delete response option", err, "optionID", optionID)
		}
		return respondError(c, err)
	}

	return c.Status(fiber.StatusNoContent).Send(nil)
}

func (h *InspectionHandler) createAttachment(c *fiber.Ctx) error {
	log := h.log.Function("createAttachment")

	projectID, ok := parseParamID(c, "projectId")
	if !ok {
		return nil
	}

	checkpointID, ok := parseParamID(c, "checkpointId")
	if !ok {
		return nil
	}

	if _, ok := requireProjectAdmin(c, h.projectController, projectID); !ok {
		return nil
	}

	var req inspectionController.AttachmentRequest
	if err := c.BodyParser(&req); err != nil {
		log.Warn("Invalid request body", "error", err, "checkpointID", checkpointID)
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid request body",
		})
	}

	attachment, err := h.inspectionController.CreateAttachment(c.Context(), checkpointID, &req)
	if err != nil {
		if statusForError(err) == fiber.StatusInternalServerError {
			_ = log.Err("Failed to create attachment", err, "checkpointID", checkpointID)
		}
		return respondError(c, err)
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"attachment": attachment,
	})
}

func (h *InspectionHandler) deleteAttachment(c *fiber.Ctx) error {
	log := h.log.Function("deleteAttachment")

	projectID, ok := parseParamID(c, "projectId")
	if !ok {
		return nil
	}

	attachmentID, ok := parseParamID(c, "attachmentId")
	if !ok {
		return nil
	}

	if _, ok := requireProjectAdmin(c, h.projectController, projectID); !ok {
		return nil
	}

	if err := h.inspectionController.DeleteAttachment(c.Context(), attachmentID); err != nil {
		if statusForError(err) == fiber.StatusInternalServerError {
			_ = log.Err("Failed to delete attachment", err, "attachmentID", attachmentID)
		}
		return respondError(c, err)
	}

	return c.Status(fiber.StatusNoContent).Send(nil)
}
