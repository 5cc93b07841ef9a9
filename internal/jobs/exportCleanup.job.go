package jobs

import (
	"context"

	"sitelog/internal/logger"
	"sitelog/internal/services"
)

type ExportCleanupJob struct {
	exportService *services.ExportService
	log           logger.Logger
	schedule      services.Schedule
}

func NewExportCleanupJob(
	exportService *services.ExportService,
	schedule services.Schedule,
) *ExportCleanupJob {
	return &ExportCleanupJob{
		exportService: exportService,
		log:           logger.New("exportCleanupJob"),
		schedule:      schedule,
	}
}

func (j *ExportCleanupJob) Name() string {
	return "ExportCleanup"
}

func (j *ExportCleanupJob) Execute(ctx context.Context) error {
	log := j.log.Function("Execute")

	log.Info("Starting stale export cleanup")

	if _, err := j.exportService.CleanupStale(); err != nil {
		return log.Err("export cleanup failed", err)
	}

	log.Info("Stale export cleanup completed")
	return nil
}

func (j *ExportCleanupJob) Schedule() services.Schedule {
	return j.schedule
}
