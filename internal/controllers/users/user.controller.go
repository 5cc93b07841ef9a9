package userController

import (
	"context"
	"errors"

	"sitelog/config"
	"sitelog/internal/database"
	"sitelog/internal/logger"
	. "sitelog/internal/models"
	"sitelog/internal/repositories"
	"sitelog/internal/services"

	"github.com/google/uuid"
)

var (
	ErrEmailRequired = errors.New("email is required")
	ErrEmailTaken    = errors.New("email is already registered")
	ErrUserNotFound  = errors.New("user not found")
)

type UserController struct {
	userRepo repositories.UserRepository
	db       database.DB
	Config   config.Config
	log      logger.Logger
}

type CreateUserRequest struct {
	Name     string `json:"name"`
	Email    string `json:"email"    validate:"required"`
	Password string `json:"password" validate:"required"`
	IsAdmin  bool   `json:"isAdmin"`
}

type UpdateUserRequest struct {
	Name     *string `json:"name,omitempty"`
	Password *string `json:"password,omitempty"`
	IsAdmin  *bool   `json:"isAdmin,omitempty"`
	IsActive *bool   `json:"isActive,omitempty"`
}

type UserControllerInterface interface {
	List(ctx context.Context) ([]UserProfile, error)
	Create(ctx context.Context, request *CreateUserRequest) (*UserProfile, error)
	Update(ctx context.Context, userID uuid.UUID, request *UpdateUserRequest) (*UserProfile, error)
	Deactivate(ctx context.Context, userID uuid.UUID) error
}

func New(
	repos repositories.Repository,
	services services.Service,
	config config.Config,
	db database.DB,
) UserControllerInterface {
	return &UserController{
		userRepo: repos.User,
		db:       db,
		Config:   config,
		log:      logger.New("userController"),
	}
}

func (c *UserController) List(ctx context.Context) ([]UserProfile, error) {
	log := c.log.Function("List")

	users, err := c.userRepo.List(ctx)
	if err != nil {
		return nil, log.Err("failed to list users", err)
	}

	profiles := make([]UserProfile, len(users))
	for i := range users {
		profiles[i] = users[i].ToProfile()
	}

	return profiles, nil
}

func (c *UserController) Create(ctx context.Context, request *CreateUserRequest) (*UserProfile, error) {
	log := c.log.Function("Create")

	if request.Email == "" {
		return nil, ErrEmailRequired
	}

	existing, err := c.userRepo.GetByEmail(ctx, request.Email)
	if err != nil {
		return nil, log.Err("failed to check for existing user", err, "email", request.Email)
	}
	if existing != nil {
		return nil, ErrEmailTaken
	}

	user := &User{
		Name:     request.Name,
		Email:    request.Email,
		IsAdmin:  request.IsAdmin,
		IsActive: true,
	}
	if err := user.SetPassword(request.Password); err != nil {
		return nil, log.Err("failed to hash password", err, "email", request.Email)
	}

	if err := c.userRepo.Create(ctx, user); err != nil {
		return nil, log.Err("failed to create user", err, "email", request.Email)
	}

	log.Info("User created", "userID", user.ID, "isAdmin", user.IsAdmin)

	profile := user.ToProfile()
	return &profile, nil
}

func (c *UserController) Update(ctx context.Context, userID uuid.UUID, request *UpdateUserRequest) (*UserProfile, error) {
	log := c.log.Function("Update")

	user, err := c.userRepo.GetByID(ctx, userID)
	if err != nil {
		return nil, log.Err("failed to get user", err, "userID", userID)
	}
	if user == nil {
		return nil, ErrUserNotFound
	}

	if request.Name != nil {
		user.Name = *request.Name
	}
	if request.Password != nil && *request.Password != "" {
		if err := user.SetPassword(*request.Password); err != nil {
			return nil, log.Err("failed to hash password", err, "userID", userID)
		}
	}
	if request.IsAdmin != nil {
		user.IsAdmin = *request.IsAdmin
	}
	if request.IsActive != nil {
		user.IsActive = *request.IsActive
	}

	if err := c.userRepo.Update(ctx, user); err != nil {
		return nil, log.Err("failed to update user", err, "userID", userID)
	}

	profile := user.ToProfile()
	return &profile, nil
}

func (c *UserController) Deactivate(ctx context.Context, userID uuid.UUID) error {
	log := c.log.Function("Deactivate")

	user, err := c.userRepo.GetByID(ctx, userID)
	if err != nil {
		return log.Err("failed to get user", err, "userID", userID)
	}
	if user == nil {
		return ErrUserNotFound
	}

	user.IsActive = false
	if err := c.userRepo.Update(ctx, user); err != nil {
		return log.Err("failed to deactivate user", err, "userID", userID)
	}

	log.Info("User deactivated", "userID", userID)
	return nil
}
