package jobs

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestLockCutoff(t *testing.T) {
	tests := []struct {
		name        string
		now         time.Time
		afterMonths int
		expected    time.Time
	}{
		{
			name:        "two months back from mid month",
			now:         time.Date(2026, 8, 15, 13, 45, 0, 0, time.UTC),
			afterMonths: 2,
			expected:    time.Date(2026, 6, 1, 0, 0, 0, 0, time.UTC),
		},
		{
			name:        "crosses a year boundary",
			now:         time.Date(2026, 1, 3, 0, 0, 0, 0, time.UTC),
			afterMonths: 3,
			expected:    time.Date(2025, 10, 1, 0, 0, 0, 0, time.UTC),
		},
		{
			name:        "one month keeps previous month open",
			now:         time.Date(2026, 8, 1, 0, 0, 0, 0, time.UTC),
			afterMonths: 1,
			expected:    time.Date(2026, 7, 1, 0, 0, 0, 0, time.UTC),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, lockCutoff(tt.now, tt.afterMonths))
		})
	}
}
