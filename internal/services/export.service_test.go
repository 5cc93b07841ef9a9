package services

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"sitelog/config"
	. "sitelog/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestExportService(t *testing.T) *ExportService {
	t.Helper()

	service, err := NewExportService(config.Config{
		ExportDir:           t.TempDir(),
		ExportRetentionDays: 7,
	})
	require.NoError(t, err)
	return service
}

func TestBuildWorkbookSheets(t *testing.T) {
	service := newTestExportService(t)

	project := &Project{Name: "Harbor Terminal", Code: "HT-01"}
	installations := []Installation{
		{
			GUID:         "1a2b3c4d5e6f7a8b9c0d1e",
			AssemblyMark: "B-101",
			InstalledAt:  time.Date(2026, 3, 12, 10, 0, 0, 0, time.UTC),
			Method:       "crane",
		},
		{
			GUID:         "2b3c4d5e6f7a8b9c0d1e2f",
			AssemblyMark: "B-102",
			InstalledAt:  time.Date(2026, 2, 2, 9, 30, 0, 0, time.UTC),
		},
	}
	locks := []InstallationMonthLock{{Month: "2026-02"}}

	f, err := service.BuildWorkbook(project, installations, locks)
	require.NoError(t, err)
	defer f.Close()

	assert.ElementsMatch(t, []string{summarySheet, detailSheet}, f.GetSheetList())

	name, err := f.GetCellValue(summarySheet, "B1")
	require.NoError(t, err)
	assert.Equal(t, "Harbor Terminal", name)

	// Months are newest first, with the lock flag from the month lock rows
	month, err := f.GetCellValue(summarySheet, "A6")
	require.NoError(t, err)
	assert.Equal(t, "2026-03", month)

	locked, err := f.GetCellValue(summarySheet, "C7")
	require.NoError(t, err)
	assert.Equal(t, "TRUE", locked)

	guid, err := f.GetCellValue(detailSheet, "A2")
	require.NoError(t, err)
	assert.Equal(t, "1a2b3c4d5e6f7a8b9c0d1e", guid)
}

func TestFileName(t *testing.T) {
	service := newTestExportService(t)

	name := service.FileName("HT 01")
	assert.Regexp(t, `^ht-01-installations-\d{8}-\d{6}\.xlsx$`, name)

	fallback := service.FileName("")
	assert.Regexp(t, `^project-installations-`, fallback)
}

func TestSaveNestsByProject(t *testing.T) {
	service := newTestExportService(t)

	project := &Project{Name: "Harbor Terminal", Code: "HT 01"}
	f, err := service.BuildWorkbook(project, nil, nil)
	require.NoError(t, err)
	defer f.Close()

	path, err := service.Save(f, project)
	require.NoError(t, err)

	assert.Equal(t, filepath.Join(service.exportDir, "ht-01"), filepath.Dir(path))
	assert.FileExists(t, path)
}

func TestCleanupStale(t *testing.T) {
	service := newTestExportService(t)

	projectDir := filepath.Join(service.exportDir, "ht-01")
	require.NoError(t, os.MkdirAll(projectDir, 0o755))

	stale := filepath.Join(service.exportDir, "old.xlsx")
	staleNested := filepath.Join(projectDir, "older.xlsx")
	fresh := filepath.Join(projectDir, "new.xlsx")
	other := filepath.Join(service.exportDir, "notes.txt")

	for _, path := range []string{stale, staleNested, fresh, other} {
		require.NoError(t, os.WriteFile(path, []byte("x"), 0o644))
	}

	oldTime := time.Now().Add(-30 * 24 * time.Hour)
	for _, path := range []string{stale, staleNested, other} {
		require.NoError(t, os.Chtimes(path, oldTime, oldTime))
	}

	removed, err := service.CleanupStale()
	require.NoError(t, err)
	assert.Equal(t, 2, removed)

	assert.NoFileExists(t, stale)
	assert.NoFileExists(t, staleNested)
	assert.FileExists(t, fresh)
	assert.FileExists(t, other)
}
