package repositories

import (
	"sitelog/internal/database"
)

type Repository struct {
	User            UserRepository
	Project         ProjectRepository
	Inspection      InspectionRepository
	Installation    InstallationRepository
	Calibration     CalibrationRepository
	Resource        ResourceRepository
	PropertyMapping PropertyMappingRepository
	QRCode          QRCodeRepository
}

func New(db database.DB) Repository {
	return Repository{
		User:            NewUserRepository(db),
		Project:         NewProjectRepository(db),
		Inspection:      NewInspectionRepository(db),
		Installation:    NewInstallationRepository(db),
		Calibration:     NewCalibrationRepository(db),
		Resource:        NewResourceRepository(db),
		PropertyMapping: NewPropertyMappingRepository(db),
		QRCode:          NewQRCodeRepository(db),
	}
}
