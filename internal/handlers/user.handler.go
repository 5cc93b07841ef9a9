package handlers

import (
	"sitelog/internal/app"
	userController "sitelog/internal/controllers/users"
	"sitelog/internal/logger"

	"github.com/gofiber/fiber/v2"
)

type UserHandler struct {
	Handler
	userController userController.UserControllerInterface
}

func NewUserHandler(app app.App, router fiber.Router) *UserHandler {
	log := logger.New("handlers").File("user_handler")
	return &UserHandler{
		userController: app.Controllers.User,
		Handler: Handler{
			log:        log,
			router:     router,
			middleware: app.Middleware,
		},
	}
}

func (h *UserHandler) Register() {
	users := h.router.Group("/users", h.middleware.RequireAuth(), h.middleware.RequireAdmin())

	users.Get("", h.listUsers)
	users.Post("", h.createUser)
	users.Put("/:id", h.updateUser)
	users.Delete("/:id", h.deactivateUser)
}

func (h *UserHandler) listUsers(c *fiber.Ctx) error {
	log := h.log.Function("listUsers")

	users, err := h.userController.List(c.Context())
	if err != nil {
		_ = log.Err("Failed to list users", err)
		return respondError(c, err)
	}

	return c.JSON(fiber.Map{
		"users": users,
	})
}

func (h *UserHandler) createUser(c *fiber.Ctx) error {
	log := h.log.Function("createUser")

	var req userController.CreateUserRequest
	if err := c.BodyParser(&req); err != nil {
		log.Warn("Invalid request body", "error", err)
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid request body",
		})
	}

	user, err := h.userController.Create(c.Context(), &req)
	if err != nil {
		if statusForError(err) == fiber.StatusInternalServerError {
			_ = log.Err("Failed to create user", err, "email", req.Email)
		}
		return respondError(c, err)
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"user": user,
	})
}

func (h *UserHandler) updateUser(c *fiber.Ctx) error {
	log := h.log.Function("updateUser")

	userID, ok := parseParamID(c, "id")
	if !ok {
		return nil
	}

	var req userController.UpdateUserRequest
	if err := c.BodyParser(&req); err != nil {
		log.Warn("Invalid request body", "error", err, "userID", userID)
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid request body",
		})
	}

	user, err := h.userController.Update(c.Context(), userID, &req)
	if err != nil {
		if statusForError(err) == fiber.StatusInternalServerError {
			_ = log.Err("Failed to update user", err, "userID", userID)
		}
		return respondError(c, err)
	}

	return c.JSON(fiber.Map{
		"user": user,
	})
}

func (h *UserHandler) deactivateUser(c *fiber.Ctx) error {
	log := h.log.Function("deactivateUser")

	userID, ok := parseParamID(c, "id")
	if !ok {
		return nil
	}

	if err := h.userController.Deactivate(c.Context(), userID); err != nil {
		if statusForError(err) == fiber.StatusInternalServerError {
			_ = log.Err("Failed to deactivate user", err, "userID", userID)
		}
		return respondError(c, err)
	}

	return c.Status(fiber.StatusNoContent).Send(nil)
}
