package controllers

import (
	"sitelog/config"
	"sitelog/internal/database"
	"sitelog/internal/events"
	"sitelog/internal/repositories"
	"sitelog/internal/services"

	authController "sitelog/internal/controllers/auth"
	calibrationController "sitelog/internal/controllers/calibration"
	exportController "sitelog/internal/controllers/exports"
	inspectionController "sitelog/internal/controllers/inspections"
	installationController "sitelog/internal/controllers/installations"
	mappingController "sitelog/internal/controllers/mappings"
	projectController "sitelog/internal/controllers/projects"
	qrController "sitelog/internal/controllers/qrcodes"
	resourceController "sitelog/internal/controllers/resources"
	userController "sitelog/internal/controllers/users"
)

type Controllers struct {
	Auth         authController.AuthControllerInterface
	User         userController.UserControllerInterface
	Project      projectController.ProjectControllerInterface
	Inspection   inspectionController.InspectionControllerInterface
	Installation installationController.InstallationControllerInterface
	Calibration  calibrationController.CalibrationControllerInterface
	Resource     resourceController.ResourceControllerInterface
	Mapping      mappingController.MappingControllerInterface
	QR           qrController.QRControllerInterface
	Export       exportController.ExportControllerInterface
}

func New(
	services services.Service,
	repos repositories.Repository,
	eventBus *events.EventBus,
	config config.Config,
	db database.DB,
) Controllers {
	return Controllers{
		Auth:         authController.New(services, repos, db),
		User:         userController.New(repos, services, config, db),
		Project:      projectController.New(repos, services, config, db),
		Inspection:   inspectionController.New(repos, services, config, db),
		Installation: installationController.New(repos, services, eventBus, config, db),
		Calibration:  calibrationController.New(repos, services, eventBus, config, db),
		Resource:     resourceController.New(repos, services, config, db),
		Mapping:      mappingController.New(repos, services, config, db),
		QR:           qrController.New(repos, services, config, db),
		Export:       exportController.New(repos, services, eventBus, config, db),
	}
}
