package utils

import (
	"testing"
	"time"

	"sitelog/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func installationAt(guid string, installedAt time.Time) models.Installation {
	return models.Installation{GUID: guid, InstalledAt: installedAt}
}

func TestGroupInstallationsByMonth_BucketsPartitionInput(t *testing.T) {
	installations := []models.Installation{
		installationAt("a", time.Date(2025, 3, 7, 10, 0, 0, 0, time.UTC)),
		installationAt("b", time.Date(2025, 3, 7, 14, 0, 0, 0, time.UTC)),
		installationAt("c", time.Date(2025, 3, 12, 9, 0, 0, 0, time.UTC)),
		installationAt("d", time.Date(2025, 1, 2, 8, 0, 0, 0, time.UTC)),
		installationAt("e", time.Date(2024, 12, 30, 16, 0, 0, 0, time.UTC)),
	}

	groups := GroupInstallationsByMonth(installations)

	require.Len(t, groups, 3)
	assert.Equal(t, "2025-03", groups[0].Month)
	assert.Equal(t, "2025-01", groups[1].Month)
	assert.Equal(t, "2024-12", groups[2].Month)

	// Union of all buckets equals the input set
	seen := make(map[string]int)
	total := 0
	for _, month := range groups {
		count := 0
		for _, day := range month.Days {
			for _, installation := range day.Installations {
				seen[installation.GUID]++
				count++
			}
		}
		assert.Equal(t, count, month.Count)
		total += count
	}
	assert.Equal(t, len(installations), total)
	for _, installation := range installations {
		assert.Equal(t, 1, seen[installation.GUID], "guid %s", installation.GUID)
	}
}

func TestGroupInstallationsByMonth_DaysSortedDescending(t *testing.T) {
	installations := []models.Installation{
		installationAt("a", time.Date(2025, 3, 7, 10, 0, 0, 0, time.UTC)),
		installationAt("b", time.Date(2025, 3, 12, 9, 0, 0, 0, time.UTC)),
		installationAt("c", time.Date(2025, 3, 1, 9, 0, 0, 0, time.UTC)),
	}

	groups := GroupInstallationsByMonth(installations)

	require.Len(t, groups, 1)
	require.Len(t, groups[0].Days, 3)
	assert.Equal(t, "2025-03-12", groups[0].Days[0].Date)
	assert.Equal(t, "2025-03-07", groups[0].Days[1].Date)
	assert.Equal(t, "2025-03-01", groups[0].Days[2].Date)
}

func TestGroupInstallationsByMonth_ItemsWithinDayNewestFirst(t *testing.T) {
	installations := []models.Installation{
		installationAt("early", time.Date(2025, 3, 7, 8, 0, 0, 0, time.UTC)),
		installationAt("late", time.Date(2025, 3, 7, 17, 0, 0, 0, time.UTC)),
	}

	groups := GroupInstallationsByMonth(installations)

	require.Len(t, groups, 1)
	require.Len(t, groups[0].Days, 1)
	items := groups[0].Days[0].Installations
	require.Len(t, items, 2)
	assert.Equal(t, "late", items[0].GUID)
	assert.Equal(t, "early", items[1].GUID)
}

func TestGroupInstallationsByMonth_StableColors(t *testing.T) {
	installations := []models.Installation{
		installationAt("a", time.Date(2025, 3, 7, 10, 0, 0, 0, time.UTC)),
		installationAt("b", time.Date(2025, 2, 7, 10, 0, 0, 0, time.UTC)),
	}

	first := GroupInstallationsByMonth(installations)
	second := GroupInstallationsByMonth(installations)

	require.Len(t, first, 2)
	assert.Equal(t, first[0].Color, second[0].Color)
	assert.Equal(t, first[1].Color, second[1].Color)
	assert.NotEqual(t, first[0].Color, first[1].Color)
}

func TestGroupInstallationsByMonth_Empty(t *testing.T) {
	assert.Empty(t, GroupInstallationsByMonth(nil))
}
