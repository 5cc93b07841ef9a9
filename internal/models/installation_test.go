package models

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestInstallation_MonthAndDayKeys(t *testing.T) {
	installedAt := time.Date(2025, time.March, 7, 14, 30, 0, 0, time.UTC)
	installation := Installation{InstalledAt: installedAt}

	assert.Equal(t, "2025-03", installation.MonthKey())
	assert.Equal(t, "2025-03-07", installation.DayKey())
}

func TestValidMonthKey(t *testing.T) {
	tests := []struct {
		input string
		valid bool
	}{
		{"2025-03", true},
		{"2024-12", true},
		{"2025-13", false},
		{"2025-3", false},
		{"2025-03-01", false},
		{"", false},
		{"march", false},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			assert.Equal(t, tt.valid, ValidMonthKey(tt.input))
		})
	}
}

func TestUser_PasswordRoundTrip(t *testing.T) {
	user := User{Email: "field@example.com"}

	err := user.SetPassword("correct horse")
	assert.NoError(t, err)
	assert.NotEmpty(t, user.PasswordHash)
	assert.NotEqual(t, "correct horse", user.PasswordHash)

	assert.True(t, user.CheckPassword("correct horse"))
	assert.False(t, user.CheckPassword("wrong horse"))
}

func TestQRCode_IsActivated(t *testing.T) {
	code := QRCode{}
	assert.False(t, code.IsActivated())

	guid := ""
	code.ObjectGUID = &guid
	assert.False(t, code.IsActivated())

	guid = "1kTvXnbbzCWw8lcMd1dR4o"
	assert.True(t, code.IsActivated())
}

func TestModelUnits_MetersPerUnit(t *testing.T) {
	assert.Equal(t, 1.0, UnitsMeters.MetersPerUnit())
	assert.Equal(t, 0.001, UnitsMillimeters.MetersPerUnit())
	assert.InDelta(t, 0.3048, UnitsFeet.MetersPerUnit(), 1e-9)
	assert.Equal(t, 1.0, ModelUnits("").MetersPerUnit())
}
