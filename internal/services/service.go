package services

import (
	"sitelog/config"
	"sitelog/internal/database"
)

type Service struct {
	Transaction *TransactionService
	Scheduler   *SchedulerService
	Auth        *AuthService
	Calibration *CalibrationService
	Export      *ExportService
}

func New(db database.DB, config config.Config) (Service, error) {
	transactionService := NewTransactionService(db)
	schedulerService := NewSchedulerService()
	calibrationService := NewCalibrationService()

	authService, err := NewAuthService(config, db)
	if err != nil {
		return Service{}, err
	}

	exportService, err := NewExportService(config)
	if err != nil {
		return Service{}, err
	}

	return Service{
		Transaction: transactionService,
		Scheduler:   schedulerService,
		Auth:        authService,
		Calibration: calibrationService,
		Export:      exportService,
	}, nil
}
