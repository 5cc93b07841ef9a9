package database

import (
	"sitelog/internal/logger"
	"sitelog/internal/models"
)

// MigrateModels runs GORM AutoMigrate for all models
func (db *DB) MigrateModels() error {
	log := logger.New("database").Function("MigrateModels")
	log.Info("Starting database migration")

	modelsToMigrate := []interface{}{
		&models.User{},
		&models.Project{},
		&models.ProjectMember{},

		// Inspection checklist hierarchy
		&models.InspectionType{},
		&models.InspectionCategory{},
		&models.InspectionCheckpoint{},
		&models.ResponseOption{},
		&models.CheckpointAttachment{},

		// Field records
		&models.Installation{},
		&models.InstallationMonthLock{},

		// Coordinate calibration
		&models.CoordinateSetting{},
		&models.CalibrationPoint{},

		// Per-project configuration
		&models.ProjectResource{},
		&models.PropertyMapping{},
		&models.QRCode{},
	}

	for _, model := range modelsToMigrate {
		if err := db.SQL.AutoMigrate(model); err != nil {
			log.Error("Failed to migrate model", "model", model, "error", err)
			return err
		}
	}

	log.Info("Database migration completed successfully")
	return nil
}

// CreateIndexes creates additional indexes that GORM doesn't create automatically
func (db *DB) CreateIndexes() error {
	log := logger.New("database").Function("CreateIndexes")
	log.Info("Creating additional database indexes")

	indexes := []string{
		"CREATE INDEX IF NOT EXISTS idx_installations_project_installed_at ON installations(project_id, installed_at DESC)",
		"CREATE INDEX IF NOT EXISTS idx_installations_project_assembly ON installations(project_id, assembly_mark)",
		"CREATE INDEX IF NOT EXISTS idx_calibration_points_project_enabled ON calibration_points(project_id, is_enabled)",
		"CREATE INDEX IF NOT EXISTS idx_qr_codes_project_object ON qr_codes(project_id, object_guid)",
	}

	for _, indexSQL := range indexes {
		if err := db.SQL.Exec(indexSQL).Error; err != nil {
			log.Warn("Failed to create index", "sql", indexSQL, "error", err)
			// Continue with other indexes even if one fails
		}
	}

	log.Info("Additional database indexes created")
	return nil
}
