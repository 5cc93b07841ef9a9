package app

import (
	"context"

	"sitelog/config"
	"sitelog/internal/controllers"
	"sitelog/internal/database"
	"sitelog/internal/events"
	"sitelog/internal/handlers/middleware"
	"sitelog/internal/jobs"
	"sitelog/internal/logger"
	"sitelog/internal/repositories"
	"sitelog/internal/services"
	"sitelog/internal/websockets"
)

type App struct {
	Database   database.DB
	Middleware middleware.Middleware
	Websocket  *websockets.Manager
	EventBus   *events.EventBus
	Config     config.Config

	Services    services.Service
	Repos       repositories.Repository
	Controllers controllers.Controllers
}

func New() (*App, error) {
	log := logger.New("app").Function("New")

	config, err := config.InitConfig()
	if err != nil {
		return &App{}, log.Err("failed to initialize config", err)
	}

	db, err := database.New(config)
	if err != nil {
		return &App{}, log.Err("failed to create database", err)
	}

	eventBus := events.New(db.Cache.Events, config)

	repos := repositories.New(db)

	appServices, err := services.New(db, config)
	if err != nil {
		return &App{}, log.Err("failed to create services", err)
	}

	websocket, err := websockets.New(db, eventBus, config, repos, appServices.Auth)
	if err != nil {
		return &App{}, log.Err("failed to create websocket manager", err)
	}

	appMiddleware := middleware.New(db, eventBus, config, repos, appServices.Auth)
	appControllers := controllers.New(appServices, repos, eventBus, config, db)

	if config.SchedulerEnabled {
		exportCleanupJob := jobs.NewExportCleanupJob(appServices.Export, services.NightlyClean)
		if err := appServices.Scheduler.AddJob(exportCleanupJob); err != nil {
			return &App{}, log.Err("failed to register export cleanup job", err)
		}

		monthLockJob := jobs.NewMonthLockJob(repos, eventBus, config, services.NightlyLocks)
		if err := appServices.Scheduler.AddJob(monthLockJob); err != nil {
			return &App{}, log.Err("failed to register month lock job", err)
		}

		if err := appServices.Scheduler.Start(context.Background()); err != nil {
			return &App{}, log.Err("failed to start scheduler", err)
		}
	}

	app := &App{
		Database:    db,
		Middleware:  appMiddleware,
		Websocket:   websocket,
		EventBus:    eventBus,
		Config:      config,
		Services:    appServices,
		Repos:       repos,
		Controllers: appControllers,
	}

	if err := app.validate(); err != nil {
		return &App{}, log.Err("failed to validate app", err)
	}

	return app, nil
}

func (a *App) validate() error {
	log := logger.New("app").Function("validate")

	if a.Database.SQL == nil {
		return log.ErrMsg("database is nil")
	}

	if a.Config == (config.Config{}) {
		return log.ErrMsg("config is nil")
	}

	nilChecks := []any{
		a.Websocket,
		a.EventBus,
		a.Services.Transaction,
		a.Services.Scheduler,
		a.Services.Auth,
		a.Services.Calibration,
		a.Services.Export,
		a.Repos.User,
		a.Repos.Project,
		a.Repos.Inspection,
		a.Repos.Installation,
		a.Repos.Calibration,
		a.Repos.Resource,
		a.Repos.PropertyMapping,
		a.Repos.QRCode,
		a.Controllers.Auth,
		a.Controllers.User,
		a.Controllers.Project,
		a.Controllers.Inspection,
		a.Controllers.Installation,
		a.Controllers.Calibration,
		a.Controllers.Resource,
		a.Controllers.Mapping,
		a.Controllers.QR,
		a.Controllers.Export,
	}

	for _, check := range nilChecks {
		if check == nil {
			return log.ErrMsg("nil check failed")
		}
	}

	return nil
}

func (a *App) Close() (err error) {
	if a.EventBus != nil {
		if closeErr := a.EventBus.Close(); closeErr != nil {
			err = closeErr
		}
	}

	if a.Services.Scheduler != nil {
		if closeErr := a.Services.Scheduler.Stop(context.Background()); closeErr != nil {
			err = closeErr
		}
	}

	if dbErr := a.Database.Close(); dbErr != nil {
		err = dbErr
	}

	return err
}
