package repositories

import (
	"context"
	"errors"

	contextutil "sitelog/internal/context"
	"sitelog/internal/database"
	"sitelog/internal/logger"
	. "sitelog/internal/models"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type ProjectRepository interface {
	GetByID(ctx context.Context, id uuid.UUID) (*Project, error)
	GetByCode(ctx context.Context, code string) (*Project, error)
	ListForUser(ctx context.Context, userID uuid.UUID) ([]Project, error)
	ListAll(ctx context.Context) ([]Project, error)
	Create(ctx context.Context, project *Project) error
	Update(ctx context.Context, project *Project) error
	Delete(ctx context.Context, id uuid.UUID) error

	GetMember(ctx context.Context, projectID, userID uuid.UUID) (*ProjectMember, error)
	ListMembers(ctx context.Context, projectID uuid.UUID) ([]ProjectMember, error)
	AddMember(ctx context.Context, member *ProjectMember) error
	UpdateMember(ctx context.Context, member *ProjectMember) error
	RemoveMember(ctx context.Context, projectID, userID uuid.UUID) error
}

type projectRepository struct {
	db  database.DB
	log logger.Logger
}

func NewProjectRepository(db database.DB) ProjectRepository {
	return &projectRepository{
		db:  db,
		log: logger.New("projectRepository"),
	}
}

func (r *projectRepository) getDB(ctx context.Context) *gorm.DB {
	if tx, ok := contextutil.GetTransaction(ctx); ok {
		return tx
	}
	return r.db.SQLWithContext(ctx)
}

func (r *projectRepository) GetByID(ctx context.Context, id uuid.UUID) (*Project, error) {
	log := r.log.Function("GetByID")

	var project Project
	if err := r.getDB(ctx).First(&project, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, log.Err("failed to get project by id", err, "id", id)
	}

	return &project, nil
}

func (r *projectRepository) GetByCode(ctx context.Context, code string) (*Project, error) {
	log := r.log.Function("GetByCode")

	var project Project
	if err := r.getDB(ctx).First(&project, "code = ?", code).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, log.Err("failed to get project by code", err, "code", code)
	}

	return &project, nil
}

func (r *projectRepository) ListForUser(ctx context.Context, userID uuid.UUID) ([]Project, error) {
	log := r.log.Function("ListForUser")

	var projects []Project
	err := r.getDB(ctx).
		Joins("JOIN project_members ON project_members.project_id = projects.id").
		Where("project_members.user_id = ? AND project_members.deleted_at IS NULL", userID).
		Order("projects.name asc").
		Find(&projects).Error
	if err != nil {
		return nil, log.Err("failed to list projects for user", err, "userID", userID)
	}

	return projects, nil
}

func (r *projectRepository) ListAll(ctx context.Context) ([]Project, error) {
	log := r.log.Function("ListAll")

	var projects []Project
	if err := r.getDB(ctx).Order("name asc").Find(&projects).Error; err != nil {
		return nil, log.Err("failed to list projects", err)
	}

	return projects, nil
}

func (r *projectRepository) Create(ctx context.Context, project *Project) error {
	log := r.log.Function("Create")

	if err := r.getDB(ctx).Create(project).Error; err != nil {
		return log.Err("failed to create project", err, "code", project.Code)
	}

	return nil
}

func (r *projectRepository) Update(ctx context.Context, project *Project) error {
	log := r.log.Function("Update")

	if err := r.getDB(ctx).Save(project).Error; err != nil {
		return log.Err("failed to update project", err, "projectID", project.ID)
	}

	return nil
}

func (r *projectRepository) Delete(ctx context.Context, id uuid.UUID) error {
	log := r.log.Function("Delete")

	if err := r.getDB(ctx).Delete(&Project{}, "id = ?", id).Error; err != nil {
		return log.Err("failed to delete project", err, "projectID", id)
	}

	return nil
}

func (r *projectRepository) GetMember(ctx context.Context, projectID, userID uuid.UUID) (*ProjectMember, error) {
	log := r.log.Function("GetMember")

	var member ProjectMember
	err := r.getDB(ctx).
		First(&member, "project_id = ? AND user_id = ?", projectID, userID).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, log.Err("failed to get project member", err, "projectID", projectID, "userID", userID)
	}

	return &member, nil
}

func (r *projectRepository) ListMembers(ctx context.Context, projectID uuid.UUID) ([]ProjectMember, error) {
	log := r.log.Function("ListMembers")

	var members []ProjectMember
	err := r.getDB(ctx).
		Preload("User").
		Where("project_id = ?", projectID).
		Find(&members).Error
	if err != nil {
		return nil, log.Err("failed to list project members", err, "projectID", projectID)
	}

	return members, nil
}

func (r *projectRepository) AddMember(ctx context.Context, member *ProjectMember) error {
	log := r.log.Function("AddMember")

	if err := r.getDB(ctx).Create(member).Error; err != nil {
		return log.Err("failed to add project member", err, "projectID", member.ProjectID, "userID", member.UserID)
	}

	return nil
}

func (r *projectRepository) UpdateMember(ctx context.Context, member *ProjectMember) error {
	log := r.log.Function("UpdateMember")

	if err := r.getDB(ctx).Save(member).Error; err != nil {
		return log.Err("failed to update project member", err, "memberID", member.ID)
	}

	return nil
}

func (r *projectRepository) RemoveMember(ctx context.Context, projectID, userID uuid.UUID) error {
	log := r.log.Function("RemoveMember")

	err := r.getDB(ctx).
		Where("project_id = ? AND user_id = ?", projectID, userID).
		Delete(&ProjectMember{}).Error
	if err != nil {
		return log.Err("failed to remove project member", err, "projectID", projectID, "userID", userID)
	}

	return nil
}
