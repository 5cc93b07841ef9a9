package handlers

import (
	"sitelog/internal/app"
	projectController "sitelog/internal/controllers/projects"
	qrController "sitelog/internal/controllers/qrcodes"
	"sitelog/internal/logger"

	"github.com/gofiber/fiber/v2"
)

type QRHandler struct {
	Handler
	qrController      qrController.QRControllerInterface
	projectController projectController.ProjectControllerInterface
}

func NewQRHandler(app app.App, router fiber.Router) *QRHandler {
	log := logger.New("handlers").File("qr_handler")
	return &QRHandler{
		qrController:      app.Controllers.QR,
		projectController: app.Controllers.Project,
		Handler: Handler{
			log:        log,
			router:     router,
			middleware: app.Middleware,
		},
	}
}

func (h *QRHandler) Register() {
	projects := h.router.Group("/projects/:projectId/qr-codes", h.middleware.RequireAuth())
	projects.Get("", h.listCodes)
	projects.Post("", h.generateBatch)

	// Scanned codes carry no project context, so these resolve the
	// project from the code itself before checking membership.
	codes := h.router.Group("/qr-codes", h.middleware.RequireAuth())
	codes.Get("/:code", h.resolveCode)
	codes.Post("/:code/activate", h.activateCode)
	codes.Post("/:code/release", h.releaseCode)
}

func (h *QRHandler) listCodes(c *fiber.Ctx) error {
	log := h.log.Function("listCodes")

	projectID, ok := parseParamID(c, "projectId")
	if !ok {
		return nil
	}

	if _, ok := requireMember(c, h.projectController, projectID); !ok {
		return nil
	}

	codes, err := h.qrController.List(c.Context(), projectID)
	if err != nil {
		_ = log.Err("Failed to list QR codes", err, "projectID", projectID)
		return respondError(c, err)
	}

	return c.JSON(fiber.Map{
		"codes": codes,
	})
}

func (h *QRHandler) generateBatch(c *fiber.Ctx) error {
	log := h.log.Function("generateBatch")

	projectID, ok := parseParamID(c, "projectId")
	if !ok {
		return nil
	}

	if _, ok := requireProjectAdmin(c, h.projectController, projectID); !ok {
		return nil
	}

	var req qrController.GenerateBatchRequest
	if err := c.BodyParser(&req); err != nil {
		log.Warn("Invalid request body", "error", err, "projectID", projectID)
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid request body",
		})
	}

	codes, err := h.qrController.GenerateBatch(c.Context(), projectID, &req)
	if err != nil {
		if statusForError(err) == fiber.StatusInternalServerError {
			_ = log.Err("Failed to generate QR codes", err, "projectID", projectID)
		}
		return respondError(c, err)
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"codes": codes,
	})
}

func (h *QRHandler) resolveCode(c *fiber.Ctx) error {
	log := h.log.Function("resolveCode")

	code := c.Params("code")
	qr, err := h.qrController.Resolve(c.Context(), code)
	if err != nil {
		if statusForError(err) == fiber.StatusInternalServerError {
			_ = log.Err("Failed to resolve QR code", err, "code", code)
		}
		return respondError(c, err)
	}

	if _, ok := requireMember(c, h.projectController, qr.ProjectID); !ok {
		return nil
	}

	return c.JSON(fiber.Map{
		"code": qr,
	})
}

func (h *QRHandler) activateCode(c *fiber.Ctx) error {
	log := h.log.Function("activateCode")

	code := c.Params("code")
	qr, err := h.qrController.Resolve(c.Context(), code)
	if err != nil {
		if statusForError(err) == fiber.StatusInternalServerError {
			_ = log.Err("Failed to resolve QR code", err, "code", code)
		}
		return respondError(c, err)
	}

	user, ok := requireMember(c, h.projectController, qr.ProjectID)
	if !ok {
		return nil
	}

	var req qrController.ActivateRequest
	if err := c.BodyParser(&req); err != nil {
		log.Warn("Invalid request body", "error", err, "code", code)
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid request body",
		})
	}

	qr, err = h.qrController.Activate(c.Context(), code, user, &req)
	if err != nil {
		if statusForError(err) == fiber.StatusInternalServerError {
			_ = log.Err("Failed to activate QR code", err, "code", code)
		}
		return respondError(c, err)
	}

	return c.JSON(fiber.Map{
		"code": qr,
	})
}

func (h *QRHandler) releaseCode(c *fiber.Ctx) error {
	log := h.log.Function("releaseCode")

	code := c.Params("code")
	qr, err := h.qrController.Resolve(c.Context(), code)
	if err != nil {
		if statusForError(err) == fiber.StatusInternalServerError {
			_ = log.Err("Failed to resolve QR code", err, "code", code)
		}
		return respondError(c, err)
	}

	if _, ok := requireMember(c, h.projectController, qr.ProjectID); !ok {
		return nil
	}

	qr, err = h.qrController.Release(c.Context(), code)
	if err != nil {
		if statusForError(err) == fiber.StatusInternalServerError {
			_ = log.Err("Failed to release QR code", err, "code", code)
		}
		return respondError(c, err)
	}

	return c.JSON(fiber.Map{
		"code": qr,
	})
}
