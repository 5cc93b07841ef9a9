package handlers

import (
	"sitelog/internal/app"
	projectController "sitelog/internal/controllers/projects"
	"sitelog/internal/handlers/middleware"
	"sitelog/internal/logger"

	"github.com/gofiber/fiber/v2"
)

type ProjectHandler struct {
	Handler
	projectController projectController.ProjectControllerInterface
}

func NewProjectHandler(app app.App, router fiber.Router) *ProjectHandler {
	log := logger.New("handlers").File("project_handler")
	return &ProjectHandler{
		projectController: app.Controllers.Project,
		Handler: Handler{
			log:        log,
			router:     router,
			middleware: app.Middleware,
		},
	}
}

func (h *ProjectHandler) Register() {
	projects := h.router.Group("/projects", h.middleware.RequireAuth())

	projects.Get("", h.listProjects)
	projects.Post("", h.createProject)
	projects.Get("/:projectId", h.getProject)
	projects.Put("/:projectId", h.updateProject)
	projects.Delete("/:projectId", h.deleteProject)

	projects.Get("/:projectId/members", h.listMembers)
	projects.Post("/:projectId/members", h.addMember)
	projects.Delete("/:projectId/members/:userId", h.removeMember)
}

func (h *ProjectHandler) listProjects(c *fiber.Ctx) error {
	log := h.log.Function("listProjects")

	user := middleware.GetUser(c)
	if user == nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
			"error": "Authentication required",
		})
	}

	projects, err := h.projectController.ListForUser(c.Context(), user)
	if err != nil {
		_ = log.Err("Failed to list projects", err, "userID", user.ID)
		return respondError(c, err)
	}

	return c.JSON(fiber.Map{
		"projects": projects,
	})
}

func (h *ProjectHandler) createProject(c *fiber.Ctx) error {
	log := h.log.Function("createProject")

	user := middleware.GetUser(c)
	if user == nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
			"error": "Authentication required",
		})
	}

	var req projectController.CreateProjectRequest
	if err := c.BodyParser(&req); err != nil {
		log.Warn("Invalid request body", "error", err)
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid request body",
		})
	}

	project, err := h.projectController.Create(c.Context(), user, &req)
	if err != nil {
		if statusForError(err) == fiber.StatusInternalServerError {
			_ = log.Err("Failed to create project", err, "userID", user.ID)
		}
		return respondError(c, err)
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"project": project,
	})
}

func (h *ProjectHandler) getProject(c *fiber.Ctx) error {
	log := h.log.Function("getProject")

	projectID, ok := parseParamID(c, "projectId")
	if !ok {
		return nil
	}

	if _, ok := requireMember(c, h.projectController, projectID); !ok {
		return nil
	}

	project, err := h.projectController.Get(c.Context(), projectID)
	if err != nil {
		if statusForError(err) == fiber.StatusInternalServerError {
			_ = log.Err("Failed to get project", err, "projectID", projectID)
		}
		return respondError(c, err)
	}

	return c.JSON(fiber.Map{
		"project": project,
	})
}

func (h *ProjectHandler) updateProject(c *fiber.Ctx) error {
	log := h.log.Function("updateProject")

	projectID, ok := parseParamID(c, "projectId")
	if !ok {
		return nil
	}

	if _, ok := requireProjectAdmin(c, h.projectController, projectID); !ok {
		return nil
	}

	var req projectController.UpdateProjectRequest
	if err := c.BodyParser(&req); err != nil {
		log.Warn("Invalid request body", "error", err, "projectID", projectID)
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid request body",
		})
	}

	project, err := h.projectController.Update(c.Context(), projectID, &req)
	if err != nil {
		if statusForError(err) == fiber.StatusInternalServerError {
			_ = log.Err("Failed to update project", err, "projectID", projectID)
		}
		return respondError(c, err)
	}

	return c.JSON(fiber.Map{
		"project": project,
	})
}

func (h *ProjectHandler) deleteProject(c *fiber.Ctx) error {
	log := h.log.Function("deleteProject")

	projectID, ok := parseParamID(c, "projectId")
	if !ok {
		return nil
	}

	if _, ok := requireProjectAdmin(c, h.projectController, projectID); !ok {
		return nil
	}

	if err := h.projectController.Delete(c.Context(), projectID); err != nil {
		if statusForError(err) == fiber.StatusInternalServerError {
			_ = log.Err("Failed to delete project", err, "projectID", projectID)
		}
		return respondError(c, err)
	}

	return c.Status(fiber.StatusNoContent).Send(nil)
}

func (h *ProjectHandler) listMembers(c *fiber.Ctx) error {
	log := h.log.Function("listMembers")

	projectID, ok := parseParamID(c, "projectId")
	if !ok {
		return nil
	}

	if _, ok := requireMember(c, h.projectController, projectID); !ok {
		return nil
	}

	members, err := h.projectController.ListMembers(c.Context(), projectID)
	if err != nil {
		_ = log.Err("Failed to list project members", err, "projectID", projectID)
		return respondError(c, err)
	}

	return c.JSON(fiber.Map{
		"members": members,
	})
}

func (h *ProjectHandler) addMember(c *fiber.Ctx) error {
	log := h.log.Function("addMember")

	projectID, ok := parseParamID(c, "projectId")
	if !ok {
		return nil
	}

	if _, ok := requireProjectAdmin(c, h.projectController, projectID); !ok {
		return nil
	}

	var req projectController.AddMemberRequest
	if err := c.BodyParser(&req); err != nil {
		log.Warn("Invalid request body", "error", err, "projectID", projectID)
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid request body",
		})
	}

	member, err := h.projectController.AddMember(c.Context(), projectID, &req)
	if err != nil {
		if statusForError(err) == fiber.StatusInternalServerError {
			_ = log.Err("Failed to add project member", err, "projectID", projectID)
		}
		return respondError(c, err)
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"member": member,
	})
}

func (h *ProjectHandler) removeMember(c *fiber.Ctx) error {
	log := h.log.Function("removeMember")

	projectID, ok := parseParamID(c, "projectId")
	if !ok {
		return nil
	}

	userID, ok := parseParamID(c, "userId")
	if !ok {
		return nil
	}

	if _, ok := requireProjectAdmin(c, h.projectController, projectID); !ok {
		return nil
	}

	if err := h.projectController.RemoveMember(c.Context(), projectID, userID); err != nil {
		if statusForError(err) == fiber.StatusInternalServerError {
			_ = log.Err("Failed to remove project member", err, "projectID", projectID, "userID", userID)
		}
		return respondError(c, err)
	}

	return c.Status(fiber.StatusNoContent).Send(nil)
}
