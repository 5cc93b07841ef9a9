package repositories_test

import (
	"testing"
	"time"

	"sitelog/internal/models"

	"github.com/stretchr/testify/assert"
)

func TestInstallationMonthWindow(t *testing.T) {
	// ListByProjectMonth builds a half-open [start, end) window from the
	// month key; verify the boundary arithmetic it relies on.
	start, err := time.Parse(models.MonthKeyLayout, "2026-01")
	assert.NoError(t, err)

	end := start.AddDate(0, 1, 0)
	assert.Equal(t, "2026-02", end.Format(models.MonthKeyLayout))

	inside := models.Installation{InstalledAt: time.Date(2026, 1, 31, 23, 59, 59, 0, time.UTC)}
	outside := models.Installation{InstalledAt: end}

	assert.Equal(t, "2026-01", inside.MonthKey())
	assert.Equal(t, "2026-02", outside.MonthKey())

	// December rolls over the year boundary
	dec, err := time.Parse(models.MonthKeyLayout, "2025-12")
	assert.NoError(t, err)
	assert.Equal(t, "2026-01", dec.AddDate(0, 1, 0).Format(models.MonthKeyLayout))
}

func TestInstallationBatchSplit(t *testing.T) {
	// CreateBatch inserts in chunks of 500; verify the chunking covers
	// every record exactly once.
	installations := make([]*models.Installation, 1250)

	batchSize := 500
	batches := 0
	total := 0

	for i := 0; i < len(installations); i += batchSize {
		end := i + batchSize
		if end > len(installations) {
			end = len(installations)
		}
		total += end - i
		batches++
	}

	assert.Equal(t, 3, batches)
	assert.Equal(t, len(installations), total)
}
