package seed

import (
	"sitelog/config"
	"sitelog/internal/logger"
	. "sitelog/internal/models"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// Seed loads a demo project with users, a checklist, calibration points,
// resources and property mappings for local development.
func Seed(db *gorm.DB, config config.Config, log logger.Logger) error {
	log = log.Function("Seed")
	log.Info("Seeding development data")

	admin := User{
		Name:    "Site Admin",
		Email:   "admin@example.com",
		IsAdmin: true,
	}
	if err := admin.SetPassword("password"); err != nil {
		return log.Err("failed to hash admin password", err)
	}

	fieldUser := User{
		Name:  "Field Engineer",
		Email: "field@example.com",
	}
	if err := fieldUser.SetPassword("password"); err != nil {
		return log.Err("failed to hash field user password", err)
	}

	for _, user := range []*User{&admin, &fieldUser} {
		if err := db.Create(user).Error; err != nil {
			return log.Err("failed to create user", err, "email", user.Email)
		}
	}

	project := Project{
		Name:     "Harbor Terminal Extension",
		Code:     "HTE-2026",
		Units:    UnitsMillimeters,
		IsActive: true,
	}
	if err := db.Create(&project).Error; err != nil {
		return log.Err("failed to create project", err)
	}

	members := []ProjectMember{
		{ProjectID: project.ID, UserID: admin.ID, Role: ProjectRoleAdmin},
		{ProjectID: project.ID, UserID: fieldUser.ID, Role: ProjectRoleMember},
	}
	if err := db.Create(&members).Error; err != nil {
		return log.Err("failed to create project members", err)
	}

	if err := seedChecklist(db, project, log); err != nil {
		return err
	}

	if err := seedCalibration(db, project, log); err != nil {
		return err
	}

	resources := []ProjectResource{
		{ProjectID: project.ID, Name: "Mobile crane 90t", Kind: ResourceEquipment, Unit: "h", HourlyRate: decimal.NewFromFloat(185), IsActive: true},
		{ProjectID: project.ID, Name: "Erection crew", Kind: ResourceLabor, Unit: "h", HourlyRate: decimal.NewFromFloat(240), IsActive: true},
	}
	if err := db.Create(&resources).Error; err != nil {
		return log.Err("failed to create resources", err)
	}

	mappings := []PropertyMapping{
		{ProjectID: project.ID, PropertySet: "Tekla Common", PropertyName: "AssemblyPos", Target: TargetAssemblyMark, SortOrder: 1, IsActive: true},
		{ProjectID: project.ID, PropertySet: "IFC", PropertyName: "GlobalId", Target: TargetObjectGUID, SortOrder: 2, IsActive: true},
		{ProjectID: project.ID, PropertySet: "HTE", PropertyName: "ErectionMethod", Target: TargetMethod, SortOrder: 3, IsActive: true},
	}
	if err := db.Create(&mappings).Error; err != nil {
		return log.Err("failed to create property mappings", err)
	}

	log.Info("Seeding complete", "project", project.Code)
	return nil
}

func seedChecklist(db *gorm.DB, project Project, log logger.Logger) error {
	inspectionType := InspectionType{
		ProjectID:   project.ID,
		Name:        "Precast element erection",
		Description: "Checks performed when a precast element is installed",
		SortOrder:   1,
		IsActive:    true,
	}
	if err := db.Create(&inspectionType).Error; err != nil {
		return log.Err("failed to create inspection type", err)
	}

	category := InspectionCategory{
		TypeID:    inspectionType.ID,
		Name:      "Positioning",
		SortOrder: 1,
		IsActive:  true,
	}
	if err := db.Create(&category).Error; err != nil {
		return log.Err("failed to create inspection category", err)
	}

	checkpoint := InspectionCheckpoint{
		CategoryID:  category.ID,
		Name:        "Element plumb within tolerance",
		Description: "Max deviation 1:500 of element height",
		SortOrder:   1,
		IsActive:    true,
		IsRequired:  true,
	}
	if err := db.Create(&checkpoint).Error; err != nil {
		return log.Err("failed to create checkpoint", err)
	}

	options := []ResponseOption{
		{CheckpointID: checkpoint.ID, Value: "ok", Label: "OK", Color: "#2e7d32", SortOrder: 1},
		{CheckpointID: checkpoint.ID, Value: "deviation", Label: "Deviation", Color: "#c62828", RequiresPhoto: true, RequiresComment: true, SortOrder: 2},
	}
	if err := db.Create(&options).Error; err != nil {
		return log.Err("failed to create response options", err)
	}

	attachment := CheckpointAttachment{
		CheckpointID: checkpoint.ID,
		Kind:         AttachmentDocument,
		Title:        "Erection tolerances",
		URL:          "https://docs.example.com/hte/tolerances.pdf",
		SortOrder:    1,
	}
	if err := db.Create(&attachment).Error; err != nil {
		return log.Err("failed to create attachment", err)
	}

	return nil
}

func seedCalibration(db *gorm.DB, project Project, log logger.Logger) error {
	setting := CoordinateSetting{
		ProjectID: project.ID,
		System:    "local grid",
		Units:     project.Units,
	}
	if err := db.Create(&setting).Error; err != nil {
		return log.Err("failed to create coordinate setting", err)
	}

	points := []CalibrationPoint{
		{ProjectID: project.ID, Label: "Grid A1", ModelX: 0, ModelY: 0, Latitude: 59.4370, Longitude: 24.7536, IsEnabled: true},
		{ProjectID: project.ID, Label: "Grid A9", ModelX: 48000, ModelY: 0, Latitude: 59.4370, Longitude: 24.7544, IsEnabled: true},
		{ProjectID: project.ID, Label: "Grid F1", ModelX: 0, ModelY: 30000, Latitude: 59.4373, Longitude: 24.7536, IsEnabled: true},
	}
	if err := db.Create(&points).Error; err != nil {
		return log.Err("failed to create calibration points", err)
	}

	return nil
}
