package projectController

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
	ErrProjectNotFound = errors.New("project not found")
	ErrCodeTaken       = errors.New("project code is already in use")
	ErrNotMember       = errors.New("user is not a member of the project")
	ErrAlreadyMember   = errors.New("user is already a member of the project")
)

type ProjectController struct {
	projectRepo repositories.ProjectRepository
	userRepo    repositories.UserRepository
	db          database.DB
	Config      config.Config
	log         logger.Logger
}

type CreateProjectRequest struct {
	Name  string     `json:"name"  validate:"required"`
	Code  string     `json:"code"  validate:"required"`
	Units ModelUnits `json:"units"`
}

type UpdateProjectRequest struct {
	Name     *string     `json:"name,omitempty"`
	Units    *ModelUnits `json:"units,omitempty"`
	IsActive *bool       `json:"isActive,omitempty"`
}

type AddMemberRequest struct {
	UserID uuid.UUID   `json:"userId" validate:"required"`
	Role   ProjectRole `json:"role"`
}

type ProjectControllerInterface interface {
	ListForUser(ctx context.Context, user *User) ([]Project, error)
	Get(ctx context.Context, projectID uuid.UUID) (*Project, error)
	Create(ctx context.Context, user *User, request *CreateProjectRequest) (*Project, error)
	Update(ctx context.Context, projectID uuid.UUID, request *UpdateProjectRequest) (*Project, error)
	Delete(ctx context.Context, projectID uuid.UUID) error

	ListMembers(ctx context.Context, projectID uuid.UUID) ([]ProjectMember, error)
	AddMember(ctx context.Context, projectID uuid.UUID, request *AddMemberRequest) (*ProjectMember, error)
	RemoveMember(ctx context.Context, projectID, userID uuid.UUID) error
	RequireMember(ctx context.Context, projectID uuid.UUID, user *User) (*ProjectMember, error)
	RequireProjectAdmin(ctx context.Context, projectID uuid.UUID, user *User) error
}

func New(
	repos repositories.Repository,
	services services.Service,
	config config.Config,
	db database.DB,
) ProjectControllerInterface {
	return &ProjectController{
		projectRepo: repos.Project,
		userRepo:    repos.User,
		db:          db,
		Config:      config,
		log:         logger.New("projectController"),
	}
}

func (c *ProjectController) ListForUser(ctx context.Context, user *User) ([]Project, error) {
	log := c.log.Function("ListForUser")

	if user.IsAdmin {
		projects, err := c.projectRepo.ListAll(ctx)
		if err != nil {
			return nil, log.Err("failed to list projects", err)
		}
		return projects, nil
	}

	projects, err := c.projectRepo.ListForUser(ctx, user.ID)
	if err != nil {
		return nil, log.Err("failed to list member projects", err, "userID", user.ID)
	}

	return projects, nil
}

func (c *ProjectController) Get(ctx context.Context, projectID uuid.UUID) (*Project, error) {
	log := c.log.Function("Get")

	project, err := c.projectRepo.GetByID(ctx, projectID)
	if err != nil {
		return nil, log.Err("failed to get project", err, "projectID", projectID)
	}
	if project == nil {
		return nil, ErrProjectNotFound
	}

	return project, nil
}

func (c *ProjectController) Create(ctx context.Context, user *User, request *CreateProjectRequest) (*Project, error) {
	log := c.log.Function("Create")

	existing, err := c.projectRepo.GetByCode(ctx, request.Code)
	if err != nil {
		return nil, log.Err("failed to check project code", err, "code", request.Code)
	}
	if existing != nil {
		return nil, ErrCodeTaken
	}

	units := request.Units
	if units == "" {
		units = UnitsMeters
	}

	project := &Project{
		Name:     request.Name,
		Code:     request.Code,
		Units:    units,
		IsActive: true,
	}

	if err := c.projectRepo.Create(ctx, project); err != nil {
		return nil, log.Err("failed to create project", err, "code", request.Code)
	}

	// Creator becomes the first project admin
	member := &ProjectMember{
		ProjectID: project.ID,
		UserID:    user.ID,
		Role:      ProjectRoleAdmin,
	}
	if err := c.projectRepo.AddMember(ctx, member); err != nil {
		return nil, log.Err("failed to add creating member", err, "projectID", project.ID)
	}

	log.Info("Project created", "projectID", project.ID, "code", project.Code)
	return project, nil
}

func (c *ProjectController) Update(ctx context.Context, projectID uuid.UUID, request *UpdateProjectRequest) (*Project, error) {
	log := c.log.Function("Update")

	project, err := c.Get(ctx, projectID)
	if err != nil {
		return nil, err
	}

	if request.Name != nil {
		project.Name = *request.Name
	}
	if request.Units != nil {
		project.Units = *request.Units
	}
	if request.IsActive != nil {
		project.IsActive = *request.IsActive
	}

	if err := c.projectRepo.Update(ctx, project); err != nil {
		return nil, log.Err("failed to update project", err, "projectID", projectID)
	}

	return project, nil
}

func (c *ProjectController) Delete(ctx context.Context, projectID uuid.UUID) error {
	log := c.log.Function("Delete")

	if _, err := c.Get(ctx, projectID); err != nil {
		return err
	}

	if err := c.projectRepo.Delete(ctx, projectID); err != nil {
		return log.Err("failed to delete project", err, "projectID", projectID)
	}

	log.Info("Project deleted", "projectID", projectID)
	return nil
}

func (c *ProjectController) ListMembers(ctx context.Context, projectID uuid.UUID) ([]ProjectMember, error) {
	log := c.log.Function("ListMembers")

	members, err := c.projectRepo.ListMembers(ctx, projectID)
	if err != nil {
		return nil, log.Err("failed to list members", err, "projectID", projectID)
	}

	return members, nil
}

func (c *ProjectController) AddMember(ctx context.Context, projectID uuid.UUID, request *AddMemberRequest) (*ProjectMember, error) {
	log := c.log.Function("AddMember")

	if _, err := c.Get(ctx, projectID); err != nil {
		return nil, err
	}

	existing, err := c.projectRepo.GetMember(ctx, projectID, request.UserID)
	if err != nil {
		return nil, log.Err("failed to check membership", err, "projectID", projectID, "userID", request.UserID)
	}
	if existing != nil {
		return nil, ErrAlreadyMember
	}

	role := request.Role
	if role == "" {
		role = ProjectRoleMember
	}

	member := &ProjectMember{
		ProjectID: projectID,
		UserID:    request.UserID,
		Role:      role,
	}
	if err := c.projectRepo.AddMember(ctx, member); err != nil {
		return nil, log.Err("failed to add member", err, "projectID", projectID, "userID", request.UserID)
	}

	return member, nil
}

func (c *ProjectController) RemoveMember(ctx context.Context, projectID, userID uuid.UUID) error {
	log := c.log.Function("RemoveMember")

	if err := c.projectRepo.RemoveMember(ctx, projectID, userID); err != nil {
		return log.Err("failed to remove member", err, "projectID", projectID, "userID", userID)
	}

	return nil
}

// RequireMember returns the caller's membership, treating global admins as
// implicit project admins.
func (c *ProjectController) RequireMember(ctx context.Context, projectID uuid.UUID, user *User) (*ProjectMember, error) {
	log := c.log.Function("RequireMember")

	if user.IsAdmin {
		return &ProjectMember{ProjectID: projectID, UserID: user.ID, Role: ProjectRoleAdmin}, nil
	}

	member, err := c.projectRepo.GetMember(ctx, projectID, user.ID)
	if err != nil {
		return nil, log.Err("failed to check membership", err, "projectID", projectID, "userID", user.ID)
	}
	if member == nil {
		return nil, ErrNotMember
	}

	return member, nil
}

func (c *ProjectController) RequireProjectAdmin(ctx context.Context, projectID uuid.UUID, user *User) error {
	member, err := c.RequireMember(ctx, projectID, user)
	if err != nil {
		return err
	}
	if !member.IsProjectAdmin() {
		return ErrNotMember
	}
	return nil
}
