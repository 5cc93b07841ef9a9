package installationController

import (
	"testing"
	"time"

	. "sitelog/internal/models"
	"sitelog/internal/utils"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
)

func makeInstallation(guid string, installedAt time.Time) *Installation {
	return &Installation{GUID: guid, InstalledAt: installedAt}
}

func TestSplitBatch(t *testing.T) {
	january := time.Date(2026, 1, 15, 12, 0, 0, 0, time.UTC)
	february := time.Date(2026, 2, 3, 8, 0, 0, 0, time.UTC)

	existingID := uuid.New()
	crossID := uuid.MustParse("4dd2d1b1-f9fb-4b0e-9e3a-1d2c3b4a5f60")

	tests := []struct {
		name           string
		candidates     []*Installation
		existing       map[string]uuid.UUID
		lockedMonths   map[string]bool
		wantCreated    []string
		wantDuplicates []string
		wantLocked     []string
	}{
		{
			name: "all new",
			candidates: []*Installation{
				makeInstallation("aaa", february),
				makeInstallation("bbb", february),
			},
			existing:       map[string]uuid.UUID{},
			lockedMonths:   map[string]bool{},
			wantCreated:    []string{"aaa", "bbb"},
			wantDuplicates: []string{},
			wantLocked:     []string{},
		},
		{
			name: "existing GUID is reported not rewritten",
			candidates: []*Installation{
				makeInstallation("aaa", february),
				makeInstallation("bbb", february),
			},
			existing:       map[string]uuid.UUID{"aaa": existingID},
			lockedMonths:   map[string]bool{},
			wantCreated:    []string{"bbb"},
			wantDuplicates: []string{"aaa"},
			wantLocked:     []string{},
		},
		{
			name: "repeated GUID within the batch",
			candidates: []*Installation{
				makeInstallation("aaa", february),
				makeInstallation("aaa", february),
			},
			existing:       map[string]uuid.UUID{},
			lockedMonths:   map[string]bool{},
			wantCreated:    []string{"aaa"},
			wantDuplicates: []string{"aaa"},
			wantLocked:     []string{},
		},
		{
			name: "locked month is skipped",
			candidates: []*Installation{
				makeInstallation("aaa", january),
				makeInstallation("bbb", february),
			},
			existing:       map[string]uuid.UUID{},
			lockedMonths:   map[string]bool{"2026-01": true},
			wantCreated:    []string{"bbb"},
			wantDuplicates: []string{},
			wantLocked:     []string{"aaa"},
		},
		{
			name: "same object under IFC and UUID encodings",
			candidates: []*Installation{
				makeInstallation(utils.UUIDToIFC(crossID), february),
				makeInstallation(crossID.String(), february),
			},
			existing:       map[string]uuid.UUID{},
			lockedMonths:   map[string]bool{},
			wantCreated:    []string{utils.UUIDToIFC(crossID)},
			wantDuplicates: []string{crossID.String()},
			wantLocked:     []string{},
		},
		{
			name: "stored encoding differs from the scanned one",
			candidates: []*Installation{
				makeInstallation(utils.UUIDToIFC(crossID), february),
			},
			existing:       map[string]uuid.UUID{crossID.String(): existingID},
			lockedMonths:   map[string]bool{},
			wantCreated:    []string{},
			wantDuplicates: []string{utils.UUIDToIFC(crossID)},
			wantLocked:     []string{},
		},
		{
			name: "duplicate beats lock check",
			candidates: []*Installation{
				makeInstallation("aaa", january),
			},
			existing:       map[string]uuid.UUID{"aaa": existingID},
			lockedMonths:   map[string]bool{"2026-01": true},
			wantCreated:    []string{},
			wantDuplicates: []string{"aaa"},
			wantLocked:     []string{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			toCreate, duplicates, locked := splitBatch(tt.candidates, tt.existing, tt.lockedMonths)

			created := make([]string, len(toCreate))
			for i, installation := range toCreate {
				created[i] = installation.GUID
			}

			assert.Equal(t, tt.wantCreated, created)
			assert.Equal(t, tt.wantDuplicates, duplicates)
			assert.Equal(t, tt.wantLocked, locked)
		})
	}
}

func TestBuildInstallationNormalizesGUID(t *testing.T) {
	controller := &InstallationController{}
	user := &User{}
	user.ID = uuid.New()

	installation, err := controller.buildInstallation(uuid.New(), user, &CreateInstallationRequest{
		GUID: "0A1B2C3D4E5F60718293A4B5C6D7E8F9",
	})
	assert.NoError(t, err)
	assert.Equal(t, "0a1b2c3d4e5f60718293a4b5c6d7e8f9", installation.GUID)
	assert.Equal(t, "hex", installation.GUIDFormat)
	assert.Equal(t, user.ID, installation.RecordedByID)
	assert.False(t, installation.InstalledAt.IsZero())
}

func TestBuildInstallationRequiresGUID(t *testing.T) {
	controller := &InstallationController{}

	_, err := controller.buildInstallation(uuid.New(), &User{}, &CreateInstallationRequest{})
	assert.ErrorIs(t, err, ErrGUIDRequired)
}
