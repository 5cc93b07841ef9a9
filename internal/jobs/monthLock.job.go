package jobs

import (
	"context"
	"time"

	"sitelog/config"
	"sitelog/internal/events"
	"sitelog/internal/logger"
	"sitelog/internal/models"
	"sitelog/internal/repositories"
	"sitelog/internal/services"
)

// MonthLockJob locks reporting months once they are old enough to be
// considered closed, so late edits cannot change past monthly reports.
type MonthLockJob struct {
	projectRepo      repositories.ProjectRepository
	installationRepo repositories.InstallationRepository
	eventBus         *events.EventBus
	log              logger.Logger
	schedule         services.Schedule
	afterMonths      int
}

func NewMonthLockJob(
	repos repositories.Repository,
	eventBus *events.EventBus,
	config config.Config,
	schedule services.Schedule,
) *MonthLockJob {
	return &MonthLockJob{
		projectRepo:      repos.Project,
		installationRepo: repos.Installation,
		eventBus:         eventBus,
		log:              logger.New("monthLockJob"),
		schedule:         schedule,
		afterMonths:      config.AutoLockAfterMonths,
	}
}

func (j *MonthLockJob) Name() string {
	return "MonthAutoLock"
}

func (j *MonthLockJob) Execute(ctx context.Context) error {
	log := j.log.Function("Execute")

	if j.afterMonths <= 0 {
		log.Debug("Auto lock disabled")
		return nil
	}

	cutoff := lockCutoff(time.Now().UTC(), j.afterMonths)

	projects, err := j.projectRepo.ListAll(ctx)
	if err != nil {
		return log.Err("failed to list projects", err)
	}

	locked := 0
	for _, project := range projects {
		months, err := j.installationRepo.ListMonthsBefore(ctx, project.ID, cutoff)
		if err != nil {
			_ = log.Err("failed to list lockable months", err, "projectID", project.ID)
			continue
		}

		for _, month := range months {
			lock := &models.InstallationMonthLock{
				ProjectID: project.ID,
				Month:     month,
				Reason:    "Automatically locked",
			}
			if err := j.installationRepo.CreateMonthLock(ctx, lock); err != nil {
				_ = log.Err("failed to auto lock month", err,
					"projectID", project.ID, "month", month)
				continue
			}

			locked++
			if err := j.eventBus.PublishProjectEvent(project.ID, events.MONTH_LOCK_CHANGED, map[string]any{
				"month":  month,
				"locked": true,
			}); err != nil {
				log.Warn("Failed to publish lock event", "projectID", project.ID, "month", month)
			}
		}
	}

	log.Info("Auto lock pass completed", "cutoff", cutoff.Format(models.MonthKeyLayout), "locked", locked)
	return nil
}

func (j *MonthLockJob) Schedule() services.Schedule {
	return j.schedule
}

// lockCutoff is the start of the oldest month still open for editing.
// Months whose installations all predate it are eligible for locking.
func lockCutoff(now time.Time, afterMonths int) time.Time {
	monthStart := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, time.UTC)
	return monthStart.AddDate(0, -afterMonths, 0)
}
