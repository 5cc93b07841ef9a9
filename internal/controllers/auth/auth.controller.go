package authController

import (
	"context"
	"errors"
	"time"

	"sitelog/internal/database"
	"sitelog/internal/logger"
	. "sitelog/internal/models"
	"sitelog/internal/repositories"
	"sitelog/internal/services"
)

var ErrInvalidCredentials = errors.New("invalid email or password")

type AuthController struct {
	userRepo    repositories.UserRepository
	authService *services.AuthService
	db          database.DB
	log         logger.Logger
}

type LoginRequest struct {
	Email    string `json:"email"    validate:"required"`
	Password string `json:"password" validate:"required"`
}

type LoginResponse struct {
	Token     string      `json:"token"`
	ExpiresAt time.Time   `json:"expiresAt"`
	User      UserProfile `json:"user"`
}

type AuthControllerInterface interface {
	Login(ctx context.Context, request *LoginRequest) (*LoginResponse, error)
	Logout(ctx context.Context, tokenID string) error
	GetProfile(ctx context.Context, user *User) UserProfile
}

func New(
	services services.Service,
	repos repositories.Repository,
	db database.DB,
) AuthControllerInterface {
	return &AuthController{
		userRepo:    repos.User,
		authService: services.Auth,
		db:          db,
		log:         logger.New("authController"),
	}
}

func (c *AuthController) Login(ctx context.Context, request *LoginRequest) (*LoginResponse, error) {
	log := c.log.Function("Login")

	if request.Email == "" || request.Password == "" {
		return nil, ErrInvalidCredentials
	}

	user, err := c.userRepo.GetByEmail(ctx, request.Email)
	if err != nil {
		return nil, log.Err("failed to look up user", err, "email", request.Email)
	}
	if user == nil || !user.IsActive {
		return nil, ErrInvalidCredentials
	}

	if !user.CheckPassword(request.Password) {
		log.Warn("Password mismatch", "email", request.Email)
		return nil, ErrInvalidCredentials
	}

	token, expiresAt, err := c.authService.IssueToken(ctx, user)
	if err != nil {
		return nil, log.Err("failed to issue token", err, "userID", user.ID)
	}

	now := time.Now().UTC()
	user.LastLoginAt = &now
	if err := c.userRepo.Update(ctx, user); err != nil {
		log.Warn("failed to record login time", "userID", user.ID, "error", err)
	}

	log.Info("User logged in", "userID", user.ID)

	return &LoginResponse{
		Token:     token,
		ExpiresAt: expiresAt,
		User:      user.ToProfile(),
	}, nil
}

func (c *AuthController) Logout(ctx context.Context, tokenID string) error {
	return c.authService.RevokeSession(ctx, tokenID)
}

func (c *AuthController) GetProfile(ctx context.Context, user *User) UserProfile {
	return user.ToProfile()
}
