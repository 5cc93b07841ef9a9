package handlers

import (
	"sitelog/internal/app"
	installationController "sitelog/internal/controllers/installations"
	projectController "sitelog/internal/controllers/projects"
	"sitelog/internal/logger"

	"github.com/gofiber/fiber/v2"
)

type InstallationHandler struct {
	Handler
	installationController installationController.InstallationControllerInterface
	projectController      projectController.ProjectControllerInterface
}

func NewInstallationHandler(app app.App, router fiber.Router) *InstallationHandler {
	log := logger.New("handlers").File("installation_handler")
	return &InstallationHandler{
		installationController: app.Controllers.Installation,
		projectController:      app.Controllers.Project,
		Handler: Handler{
			log:        log,
			router:     router,
			middleware: app.Middleware,
		},
	}
}

func (h *InstallationHandler) Register() {
	projects := h.router.Group("/projects/:projectId", h.middleware.RequireAuth())

	installations := projects.Group("/installations")
	installations.Get("", h.listGrouped)
	installations.Post("", h.createInstallation)
	installations.Post("/batch", h.batchSave)
	installations.Put("/:id", h.updateInstallation)
	installations.Delete("/:id", h.deleteInstallation)

	locks := projects.Group("/month-locks")
	locks.Get("", h.listMonthLocks)
	locks.Post("", h.lockMonth)
	locks.Delete("/:month", h.unlockMonth)
}

func (h *InstallationHandler) listGrouped(c *fiber.Ctx) error {
	log := h.log.Function("listGrouped")

	projectID, ok := parseParamID(c, "projectId")
	if !ok {
		return nil
	}

	if _, ok := requireMember(c, h.projectController, projectID); !ok {
		return nil
	}

	groups, err := h.installationController.ListGrouped(c.Context(), projectID)
	if err != nil {
		_ = log.Err("Failed to list installations", err, "projectID", projectID)
		return respondError(c, err)
	}

	return c.JSON(fiber.Map{
		"months": groups,
	})
}

func (h *InstallationHandler) createInstallation(c *fiber.Ctx) error {
	log := h.log.Function("createInstallation")

	projectID, ok := parseParamID(c, "projectId")
	if !ok {
		return nil
	}

	user, ok := requireMember(c, h.projectController, projectID)
	if !ok {
		return nil
	}

	var req installationController.CreateInstallationRequest
	if err := c.BodyParser(&req); err != nil {
		log.Warn("Invalid request body", "error", err, "projectID", projectID)
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid request body",
		})
	}

	installation, err := h.installationController.Create(c.Context(), projectID, user, &req)
	if err != nil {
		if statusForError(err) == fiber.StatusInternalServerError {
			_ = log.Err("Failed to create installation", err, "projectID", projectID, "guid", req.GUID)
		}
		return respondError(c, err)
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"installation": installation,
	})
}

func (h *InstallationHandler) batchSave(c *fiber.Ctx) error {
	log := h.log.Function("batchSave")

	projectID, ok := parseParamID(c, "projectId")
	if !ok {
		return nil
	}

	user, ok := requireMember(c, h.projectController, projectID)
	if !ok {
		return nil
	}

	var req installationController.BatchSaveRequest
	if err := c.BodyParser(&req); err != nil {
		log.Warn("Invalid request body", "error", err, "projectID", projectID)
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid request body",
		})
	}

	result, err := h.installationController.BatchSave(c.Context(), projectID, user, &req)
	if err != nil {
		if statusForError(err) == fiber.StatusInternalServerError {
			_ = log.Err("Failed to batch save installations", err, "projectID", projectID, "count", len(req.Installations))
		}
		return respondError(c, err)
	}

	return c.Status(fiber.StatusCreated).JSON(result)
}

func (h *InstallationHandler) updateInstallation(c *fiber.Ctx) error {
	log := h.log.Function("updateInstallation")

	projectID, ok := parseParamID(c, "projectId")
	if !ok {
		return nil
	}

	installationID, ok := parseParamID(c, "id")
	if !ok {
		return nil
	}

	if _, ok := requireMember(c, h.projectController, projectID); !ok {
		return nil
	}

	var req installationController.UpdateInstallationRequest
	if err := c.BodyParser(&req); err != nil {
		log.Warn("Invalid request body", "error", err, "installationID", installationID)
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid request body",
		})
	}

	installation, err := h.installationController.Update(c.Context(), installationID, &req)
	if err != nil {
		if statusForError(err) == fiber.StatusInternalServerError {
			_ = log.Err("Failed to update installation", err, "installationID", installationID)
		}
		return respondError(c, err)
	}

	return c.JSON(fiber.Map{
		"installation": installation,
	})
}

func (h *InstallationHandler) deleteInstallation(c *fiber.Ctx) error {
	log := h.log.Function("deleteInstallation")

	projectID, ok := parseParamID(c, "projectId")
	if !ok {
		return nil
	}

	installationID, ok := parseParamID(c, "id")
	if !ok {
		return nil
	}

	if _, ok := requireMember(c, h.projectController, projectID); !ok {
		return nil
	}

	if err := h.installationController.Delete(c.Context(), installationID); err != nil {
		if statusForError(err) == fiber.StatusInternalServerError {
			_ = log.Err("Failed to delete installation", err, "installationID", installationID)
		}
		return respondError(c, err)
	}

	return c.Status(fiber.StatusNoContent).Send(nil)
}

func (h *InstallationHandler) listMonthLocks(c *fiber.Ctx) error {
	log := h.log.Function("listMonthLocks")

	projectID, ok := parseParamID(c, "projectId")
	if !ok {
		return nil
	}

	if _, ok := requireMember(c, h.projectController, projectID); !ok {
		return nil
	}

	locks, err := h.installationController.ListMonthLocks(c.Context(), projectID)
	if err != nil {
		_ = log.Err("Failed to list month locks", err, "projectID", projectID)
		return respondError(c, err)
	}

	return c.JSON(fiber.Map{
		"locks": locks,
	})
}

func (h *InstallationHandler) lockMonth(c *fiber.Ctx) error {
	log := h.log.Function("lockMonth")

	projectID, ok := parseParamID(c, "projectId")
	if !ok {
		return nil
	}

	user, ok := requireProjectAdmin(c, h.projectController, projectID)
	if !ok {
		return nil
	}

	var req installationController.LockMonthRequest
	if err := c.BodyParser(&req); err != nil {
		log.Warn("Invalid request body", "error", err, "projectID", projectID)
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid request body",
		})
	}

	lock, err := h.installationController.LockMonth(c.Context(), projectID, user, &req)
	if err != nil {
		if statusForError(err) == fiber.StatusInternalServerError {
			_ = log.Err("Failed to lock month", err, "projectID", projectID, "month", req.Month)
		}
		return respondError(c, err)
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"lock": lock,
	})
}

func (h *InstallationHandler) unlockMonth(c *fiber.Ctx) error {
	log := h.log.Function("unlockMonth")

	projectID, ok := parseParamID(c, "projectId")
	if !ok {
		return nil
	}

	if _, ok := requireProjectAdmin(c, h.projectController, projectID); !ok {
		return nil
	}

	month := c.Params("month")
	if err := h.installationController.UnlockMonth(c.Context(), projectID, month); err != nil {
		if statusForError(err) == fiber.StatusInternalServerError {
			_ = log.Err("Failed to unlock month", err, "projectID", projectID, "month", month)
		}
		return respondError(c, err)
	}

	return c.Status(fiber.StatusNoContent).Send(nil)
}
