package services

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"sitelog/config"
	"sitelog/internal/logger"
	. "sitelog/internal/models"
	"sitelog/internal/utils"

	"github.com/xuri/excelize/v2"
)

const summarySheet = "Summary"
const detailSheet = "Installations"

var detailHeaders = []string{
	"GUID",
	"Assembly Mark",
	"Installed At",
	"Recorded By",
	"Team Members",
	"Method",
	"Notes",
}

// ExportService builds installation report workbooks and manages the
// on-disk export directory.
type ExportService struct {
	exportDir     string
	retentionDays int
	log           logger.Logger
}

func NewExportService(config config.Config) (*ExportService, error) {
	log := logger.New("exportService")

	if err := os.MkdirAll(config.ExportDir, 0o755); err != nil {
		return nil, log.Err("failed to create export directory", err, "dir", config.ExportDir)
	}

	return &ExportService{
		exportDir:     config.ExportDir,
		retentionDays: config.ExportRetentionDays,
		log:           log,
	}, nil
}

// BuildWorkbook renders a project's installations into a workbook with a
// per-month summary sheet and a detail sheet. Months and rows are ordered
// newest first, matching the installation list view.
func (s *ExportService) BuildWorkbook(project *Project, installations []Installation, locks []InstallationMonthLock) (*excelize.File, error) {
	log := s.log.Function("BuildWorkbook")

	f := excelize.NewFile()

	index, err := f.NewSheet(summarySheet)
	if err != nil {
		return nil, log.Err("failed to create summary sheet", err)
	}
	f.SetActiveSheet(index)

	if _, err := f.NewSheet(detailSheet); err != nil {
		return nil, log.Err("failed to create detail sheet", err)
	}
	if err := f.DeleteSheet("Sheet1"); err != nil {
		return nil, log.Err("failed to drop default sheet", err)
	}

	lockedMonths := make(map[string]bool, len(locks))
	for _, lock := range locks {
		lockedMonths[lock.Month] = true
	}

	f.SetCellValue(summarySheet, "A1", "Project")
	f.SetCellValue(summarySheet, "B1", project.Name)
	f.SetCellValue(summarySheet, "A2", "Code")
	f.SetCellValue(summarySheet, "B2", project.Code)
	f.SetCellValue(summarySheet, "A3", "Exported At")
	f.SetCellValue(summarySheet, "B3", time.Now().UTC().Format(time.RFC3339))

	f.SetCellValue(summarySheet, "A5", "Month")
	f.SetCellValue(summarySheet, "B5", "Installations")
	f.SetCellValue(summarySheet, "C5", "Locked")

	groups := utils.GroupInstallationsByMonth(installations)
	for i, group := range groups {
		row := i + 6
		f.SetCellValue(summarySheet, fmt.Sprintf("A%d", row), group.Month)
		f.SetCellValue(summarySheet, fmt.Sprintf("B%d", row), group.Count)
		f.SetCellValue(summarySheet, fmt.Sprintf("C%d", row), lockedMonths[group.Month])
	}

	for col, header := range detailHeaders {
		cell, err := excelize.CoordinatesToCellName(col+1, 1)
		if err != nil {
			return nil, log.Err("failed to resolve header cell", err)
		}
		f.SetCellValue(detailSheet, cell, header)
	}

	row := 2
	for _, group := range groups {
		for _, day := range group.Days {
			for _, item := range day.Installations {
				recordedBy := ""
				if item.RecordedBy != nil {
					recordedBy = item.RecordedBy.Name
				}

				f.SetCellValue(detailSheet, fmt.Sprintf("A%d", row), item.GUID)
				f.SetCellValue(detailSheet, fmt.Sprintf("B%d", row), item.AssemblyMark)
				f.SetCellValue(detailSheet, fmt.Sprintf("C%d", row), item.InstalledAt.UTC().Format(time.RFC3339))
				f.SetCellValue(detailSheet, fmt.Sprintf("D%d", row), recordedBy)
				f.SetCellValue(detailSheet, fmt.Sprintf("E%d", row), item.TeamMembers)
				f.SetCellValue(detailSheet, fmt.Sprintf("F%d", row), item.Method)
				f.SetCellValue(detailSheet, fmt.Sprintf("G%d", row), item.Notes)
				row++
			}
		}
	}

	return f, nil
}

// Stream writes the workbook to w without touching disk
func (s *ExportService) Stream(f *excelize.File, w io.Writer) error {
	if err := f.Write(w); err != nil {
		return s.log.Function("Stream").Err("failed to write workbook", err)
	}
	return nil
}

// Save writes the workbook into the project's subdirectory of the export
// dir and returns the absolute path of the saved file.
func (s *ExportService) Save(f *excelize.File, project *Project) (string, error) {
	log := s.log.Function("Save")

	dir := filepath.Join(s.exportDir, codeSlug(project.Code))
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", log.Err("failed to create project export directory", err, "dir", dir)
	}

	path := filepath.Join(dir, s.FileName(project.Code))
	if err := f.SaveAs(path); err != nil {
		return "", log.Err("failed to save workbook", err, "path", path)
	}

	log.Info("Workbook saved", "path", path)
	return path, nil
}

// FileName builds a timestamped export file name for a project code
func (s *ExportService) FileName(projectCode string) string {
	return fmt.Sprintf("%s-installations-%s.xlsx", codeSlug(projectCode), time.Now().UTC().Format("20060102-150405"))
}

// codeSlug turns a project code into a filesystem-safe directory name
func codeSlug(projectCode string) string {
	code := strings.ToLower(strings.ReplaceAll(projectCode, " ", "-"))
	if code == "" {
		code = "project"
	}
	return code
}

// CleanupStale removes export files older than the retention window from
// the export dir and its per-project subdirectories, and returns how many
// were deleted.
func (s *ExportService) CleanupStale() (int, error) {
	log := s.log.Function("CleanupStale")

	entries, err := os.ReadDir(s.exportDir)
	if err != nil {
		return 0, log.Err("failed to read export directory", err, "dir", s.exportDir)
	}

	cutoff := time.Now().Add(-time.Duration(s.retentionDays) * 24 * time.Hour)
	removed := s.cleanDir(s.exportDir, entries, cutoff)

	for _, entry := range entries {
		if !entry.IsDir() {
			continue
		}

		dir := filepath.Join(s.exportDir, entry.Name())
		children, err := os.ReadDir(dir)
		if err != nil {
			log.Warn("Skipping unreadable export subdirectory", "dir", dir, "error", err)
			continue
		}
		removed += s.cleanDir(dir, children, cutoff)
	}

	if removed > 0 {
		log.Info("Stale exports removed", "count", removed)
	}

	return removed, nil
}

func (s *ExportService) cleanDir(dir string, entries []os.DirEntry, cutoff time.Time) int {
	log := s.log.Function("cleanDir")

	removed := 0
	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), ".xlsx") {
			continue
		}

		info, err := entry.Info()
		if err != nil {
			log.Warn("Skipping unreadable export file", "file", entry.Name(), "error", err)
			continue
		}

		if info.ModTime().After(cutoff) {
			continue
		}

		path := filepath.Join(dir, entry.Name())
		if err := os.Remove(path); err != nil {
			log.Warn("Failed to remove stale export", "path", path, "error", err)
			continue
		}
		removed++
	}

	return removed
}
