package handlers

import (
	"sitelog/internal/app"
	authController "sitelog/internal/controllers/auth"
	"sitelog/internal/handlers/middleware"
	"sitelog/internal/logger"

	"github.com/gofiber/fiber/v2"
)

type AuthHandler struct {
	Handler
	authController authController.AuthControllerInterface
}

func NewAuthHandler(app app.App, router fiber.Router) *AuthHandler {
	log := logger.New("handlers").File("auth_handler")
	return &AuthHandler{
		authController: app.Controllers.Auth,
		Handler: Handler{
			log:        log,
			router:     router,
			middleware: app.Middleware,
		},
	}
}

func (h *AuthHandler) Register() {
	auth := h.router.Group("/auth")

	auth.Post("/login", h.login)

	protected := auth.Group("/", h.middleware.RequireAuth())
	protected.Get("/me", h.getCurrentUser)
	protected.Post("/logout", h.logout)
}

func (h *AuthHandler) login(c *fiber.Ctx) error {
	log := h.log.Function("login")

	var req authController.LoginRequest
	if err := c.BodyParser(&req); err != nil {
		log.Warn("Invalid request body", "error", err)
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid request body",
		})
	}

	response, err := h.authController.Login(c.Context(), &req)
	if err != nil {
		if statusForError(err) == fiber.StatusInternalServerError {
			_ = log.Err("Failed to log in", err, "email", req.Email)
		}
		return respondError(c, err)
	}

	return c.JSON(response)
}

func (h *AuthHandler) getCurrentUser(c *fiber.Ctx) error {
	user := middleware.GetUser(c)
	if user == nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
			"error": "Authentication required",
		})
	}

	return c.JSON(fiber.Map{
		"user": h.authController.GetProfile(c.Context(), user),
	})
}

func (h *AuthHandler) logout(c *fiber.Ctx) error {
	log := h.log.Function("logout")

	tokenID := middleware.GetTokenID(c)
	if tokenID == "" {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
			"error": "Authentication required",
		})
	}

	if err := h.authController.Logout(c.Context(), tokenID); err != nil {
		_ = log.Err("Failed to revoke session", err)
		return respondError(c, err)
	}

	return c.JSON(fiber.Map{
		"message": "Logout successful",
	})
}
