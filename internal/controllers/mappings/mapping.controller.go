package mappingController

import (
	"context"
	"errors"
	"strings"

	"sitelog/config"
	"sitelog/internal/database"
	"sitelog/internal/logger"
	. "sitelog/internal/models"
	"sitelog/internal/repositories"
	"sitelog/internal/services"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

var ErrInvalidTarget = errors.New("invalid mapping target")

type MappingController struct {
	mappingRepo        repositories.PropertyMappingRepository
	transactionService *services.TransactionService
	db                 database.DB
	Config             config.Config
	log                logger.Logger
}

type MappingRequest struct {
	PropertySet  string        `json:"propertySet"  validate:"required"`
	PropertyName string        `json:"propertyName" validate:"required"`
	Target       MappingTarget `json:"target"       validate:"required"`
	SortOrder    int           `json:"sortOrder"`
}

type ReplaceMappingsRequest struct {
	Mappings []MappingRequest `json:"mappings"`
}

// MappingSuggestion pairs an observed model property with the target it
// most likely maps to.
type MappingSuggestion struct {
	PropertySet  string        `json:"propertySet"`
	PropertyName string        `json:"propertyName"`
	Target       MappingTarget `json:"target"`
}

type SuggestRequest struct {
	Properties []struct {
		PropertySet  string `json:"propertySet"`
		PropertyName string `json:"propertyName"`
	} `json:"properties"`
}

type MappingControllerInterface interface {
	List(ctx context.Context, projectID uuid.UUID) ([]PropertyMapping, error)
	ReplaceAll(ctx context.Context, projectID uuid.UUID, request *ReplaceMappingsRequest) ([]PropertyMapping, error)
	Suggest(ctx context.Context, request *SuggestRequest) []MappingSuggestion
}

func New(
	repos repositories.Repository,
	services services.Service,
	config config.Config,
	db database.DB,
) MappingControllerInterface {
	return &MappingController{
		mappingRepo:        repos.PropertyMapping,
		transactionService: services.Transaction,
		db:                 db,
		Config:             config,
		log:                logger.New("mappingController"),
	}
}

func (c *MappingController) List(ctx context.Context, projectID uuid.UUID) ([]PropertyMapping, error) {
	log := c.log.Function("List")

	mappings, err := c.mappingRepo.ListByProject(ctx, projectID)
	if err != nil {
		return nil, log.Err("failed to list mappings", err, "projectID", projectID)
	}

	return mappings, nil
}

// ReplaceAll swaps the project's mapping set atomically so the viewer
// never sees a half-applied configuration.
func (c *MappingController) ReplaceAll(ctx context.Context, projectID uuid.UUID, request *ReplaceMappingsRequest) ([]PropertyMapping, error) {
	log := c.log.Function("ReplaceAll")

	mappings := make([]*PropertyMapping, 0, len(request.Mappings))
	for _, m := range request.Mappings {
		if !m.Target.IsValid() {
			return nil, ErrInvalidTarget
		}
		mappings = append(mappings, &PropertyMapping{
			ProjectID:    projectID,
			PropertySet:  m.PropertySet,
			PropertyName: m.PropertyName,
			Target:       m.Target,
			SortOrder:    m.SortOrder,
			IsActive:     true,
		})
	}

	err := c.transactionService.Execute(ctx, func(ctx context.Context, tx *gorm.DB) error {
		return c.mappingRepo.ReplaceAll(ctx, projectID, mappings)
	})
	if err != nil {
		return nil, log.Err("failed to replace mappings", err, "projectID", projectID)
	}

	result := make([]PropertyMapping, len(mappings))
	for i, m := range mappings {
		result[i] = *m
	}

	return result, nil
}

// Suggest matches observed property names against common naming patterns
// from BIM authoring tools and proposes a target for each recognized one.
func (c *MappingController) Suggest(ctx context.Context, request *SuggestRequest) []MappingSuggestion {
	suggestions := []MappingSuggestion{}

	for _, p := range request.Properties {
		target, ok := suggestTarget(p.PropertyName)
		if !ok {
			continue
		}
		suggestions = append(suggestions, MappingSuggestion{
			PropertySet:  p.PropertySet,
			PropertyName: p.PropertyName,
			Target:       target,
		})
	}

	return suggestions
}

func suggestTarget(propertyName string) (MappingTarget, bool) {
	name := strings.ToLower(propertyName)
	name = strings.NewReplacer(" ", "", "_", "", "-", "").Replace(name)

	switch {
	case strings.Contains(name, "assemblymark"),
		strings.Contains(name, "assemblypos"),
		strings.Contains(name, "castunitpos"),
		name == "mark":
		return TargetAssemblyMark, true
	case strings.Contains(name, "guid"), strings.Contains(name, "globalid"):
		return TargetObjectGUID, true
	case strings.Contains(name, "method"), strings.Contains(name, "erection"):
		return TargetMethod, true
	case strings.Contains(name, "weight"), strings.Contains(name, "mass"):
		return TargetWeight, true
	case strings.Contains(name, "profile"), strings.Contains(name, "section"):
		return TargetProfile, true
	}

	return "", false
}
