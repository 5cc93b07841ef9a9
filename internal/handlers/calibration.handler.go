package handlers

import (
	"sitelog/internal/app"
	calibrationController "sitelog/internal/controllers/calibration"
	projectController "sitelog/internal/controllers/projects"
	"sitelog/internal/logger"

	"github.com/gofiber/fiber/v2"
)

type CalibrationHandler struct {
	Handler
	calibrationController calibrationController.CalibrationControllerInterface
	projectController     projectController.ProjectControllerInterface
}

func NewCalibrationHandler(app app.App, router fiber.Router) *CalibrationHandler {
	log := logger.New("handlers").File("calibration_handler")
	return &CalibrationHandler{
		calibrationController: app.Controllers.Calibration,
		projectController:     app.Controllers.Project,
		Handler: Handler{
			log:        log,
			router:     router,
			middleware: app.Middleware,
		},
	}
}

func (h *CalibrationHandler) Register() {
	calibration := h.router.Group("/projects/:projectId/calibration", h.middleware.RequireAuth())

	calibration.Get("/setting", h.getSetting)
	calibration.Put("/setting", h.updateSetting)

	calibration.Get("/points", h.listPoints)
	calibration.Post("/points", h.createPoint)
	calibration.Put("/points/:pointId", h.updatePoint)
	calibration.Delete("/points/:pointId", h.deletePoint)

	calibration.Post("/recalibrate", h.recalibrate)
	calibration.Post("/model-to-gps", h.modelToGPS)
	calibration.Post("/gps-to-model", h.gpsToModel)
}

func (h *CalibrationHandler) getSetting(c *fiber.Ctx) error {
	log := h.log.Function("getSetting")

	projectID, ok := parseParamID(c, "projectId")
	if !ok {
		return nil
	}

	if _, ok := requireMember(c, h.projectController, projectID); !ok {
		return nil
	}

	setting, err := h.calibrationController.GetSetting(c.Context(), projectID)
	if err != nil {
		_ = log.Err("Failed to get coordinate setting", err, "projectID", projectID)
		return respondError(c, err)
	}

	return c.JSON(fiber.Map{
		"setting": setting,
	})
}

func (h *CalibrationHandler) updateSetting(c *fiber.Ctx) error {
	log := h.log.Function("updateSetting")

	projectID, ok := parseParamID(c, "projectId")
	if !ok {
		return nil
	}

	if _, ok := requireProjectAdmin(c, h.projectController, projectID); !ok {
		return nil
	}

	var req calibrationController.UpsertSettingRequest
	if err := c.BodyParser(&req); err != nil {
		log.Warn("Invalid request body", "error", err, "projectID", projectID)
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid request body",
		})
	}

	setting, err := h.calibrationController.UpdateSetting(c.Context(), projectID, &req)
	if err != nil {
		if statusForError(err) == fiber.StatusInternalServerError {
			_ = log.Err("Failed to update coordinate setting", err, "projectID", projectID)
		}
		return respondError(c, err)
	}

	return c.JSON(fiber.Map{
		"setting": setting,
	})
}

func (h *CalibrationHandler) listPoints(c *fiber.Ctx) error {
	log := h.log.Function("listPoints")

	projectID, ok := parseParamID(c, "projectId")
	if !ok {
		return nil
	}

	if _, ok := requireMember(c, h.projectController, projectID); !ok {
		return nil
	}

	points, err := h.calibrationController.ListPoints(c.Context(), projectID)
	if err != nil {
		_ = log.Err("Failed to list calibration points", err, "projectID", projectID)
		return respondError(c, err)
	}

	return c.JSON(fiber.Map{
		"points": points,
	})
}

func (h *CalibrationHandler) createPoint(c *fiber.Ctx) error {
	log := h.log.Function("createPoint")

	projectID, ok := parseParamID(c, "projectId")
	if !ok {
		return nil
	}

	if _, ok := requireMember(c, h.projectController, projectID); !ok {
		return nil
	}

	var req calibrationController.CreatePointRequest
	if err := c.BodyParser(&req); err != nil {
		log.Warn("Invalid request body", "error", err, "projectID", projectID)
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid request body",
		})
	}

	point, err := h.calibrationController.CreatePoint(c.Context(), projectID, &req)
	if err != nil {
		if statusForError(err) == fiber.StatusInternalServerError {
			_ = log.Err("Failed to create calibration point", err, "projectID", projectID)
		}
		return respondError(c, err)
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"point": point,
	})
}

func (h *CalibrationHandler) updatePoint(c *fiber.Ctx) error {
	log := h.log.Function("updatePoint")

	projectID, ok := parseParamID(c, "projectId")
	if !ok {
		return nil
	}

	pointID, ok := parseParamID(c, "pointId")
	if !ok {
		return nil
	}

	if _, ok := requireMember(c, h.projectController, projectID); !ok {
		return nil
	}

	var req calibrationController.UpdatePointRequest
	if err := c.BodyParser(&req); err != nil {
		log.Warn("Invalid request body", "error", err, "pointID", pointID)
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid request body",
		})
	}

	point, err := h.calibrationController.UpdatePoint(c.Context(), pointID, &req)
	if err != nil {
		if statusForError(err) == fiber.StatusInternalServerError {
			_ = log.Err("Failed to update calibration point", err, "pointID", pointID)
		}
		return respondError(c, err)
	}

	return c.JSON(fiber.Map{
		"point": point,
	})
}

func (h *CalibrationHandler) deletePoint(c *fiber.Ctx) error {
	log := h.log.Function("deletePoint")

	projectID, ok := parseParamID(c, "projectId")
	if !ok {
		return nil
	}

	pointID, ok := parseParamID(c, "pointId")
	if !ok {
		return nil
	}

	if _, ok := requireMember(c, h.projectController, projectID); !ok {
		return nil
	}

	if err := h.calibrationController.DeletePoint(c.Context(), pointID); err != nil {
		if statusForError(err) == fiber.StatusInternalServerError {
			_ = log.Err("Failed to delete calibration point", err, "pointID", pointID)
		}
		return respondError(c, err)
	}

	return c.Status(fiber.StatusNoContent).Send(nil)
}

func (h *CalibrationHandler) recalibrate(c *fiber.Ctx) error {
	log := h.log.Function("recalibrate")

	projectID, ok := parseParamID(c, "projectId")
	if !ok {
		return nil
	}

	if _, ok := requireMember(c, h.projectController, projectID); !ok {
		return nil
	}

	result, err := h.calibrationController.Recalibrate(c.Context(), projectID)
	if err != nil {
		if statusForError(err) == fiber.StatusInternalServerError {
			_ = log.Err("Failed to recalibrate", err, "projectID", projectID)
		}
		return respondError(c, err)
	}

	return c.JSON(result)
}

func (h *CalibrationHandler) modelToGPS(c *fiber.Ctx) error {
	log := h.log.Function("modelToGPS")

	projectID, ok := parseParamID(c, "projectId")
	if !ok {
		return nil
	}

	if _, ok := requireMember(c, h.projectController, projectID); !ok {
		return nil
	}

	var req calibrationController.ConvertRequest
	if err := c.BodyParser(&req); err != nil {
		log.Warn("Invalid request body", "error", err, "projectID", projectID)
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid request body",
		})
	}

	if req.ModelX == nil || req.ModelY == nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "modelX and modelY are required",
		})
	}

	result, err := h.calibrationController.ModelToGPS(c.Context(), projectID, *req.ModelX, *req.ModelY)
	if err != nil {
		if statusForError(err) == fiber.StatusInternalServerError {
			_ = log.Err("Failed to convert model coordinates", err, "projectID", projectID)
		}
		return respondError(c, err)
	}

	return c.JSON(result)
}

func (h *CalibrationHandler) gpsToModel(c *fiber.Ctx) error {
	log := h.log.Function("gpsToModel")

	projectID, ok := parseParamID(c, "projectId")
	if !ok {
		return nil
	}

	if _, ok := requireMember(c, h.projectController, projectID); !ok {
		return nil
	}

	var req calibrationController.ConvertRequest
	if err := c.BodyParser(&req); err != nil {
		log.Warn("Invalid request body", "error", err, "projectID", projectID)
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid request body",
		})
	}

	if req.Latitude == nil || req.Longitude == nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "latitude and longitude are required",
		})
	}

	result, err := h.calibrationController.GPSToModel(c.Context(), projectID, *req.Latitude, *req.Longitude)
	if err != nil {
		if statusForError(err) == fiber.StatusInternalServerError {
			_ = log.Err("Failed to convert GPS coordinates", err, "projectID", projectID)
		}
		return respondError(c, err)
	}

	return c.JSON(result)
}
