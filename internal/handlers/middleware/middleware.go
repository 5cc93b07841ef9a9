package middleware

import (
	"sitelog/config"
	"sitelog/internal/database"
	"sitelog/internal/events"
	"sitelog/internal/logger"
	"sitelog/internal/repositories"
	"sitelog/internal/services"
)

type Middleware struct {
	DB          database.DB
	userRepo    repositories.UserRepository
	projectRepo repositories.ProjectRepository
	authService *services.AuthService
	Config      config.Config
	log         logger.Logger
	eventBus    *events.EventBus
}

func New(
	db database.DB,
	eventBus *events.EventBus,
	config config.Config,
	repos repositories.Repository,
	authService *services.AuthService,
) Middleware {
	return Middleware{
		DB:          db,
		userRepo:    repos.User,
		projectRepo: repos.Project,
		authService: authService,
		Config:      config,
		log:         logger.New("middleware"),
		eventBus:    eventBus,
	}
}
