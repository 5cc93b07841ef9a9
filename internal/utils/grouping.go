package utils

import (
	"sort"

	"sitelog/internal/models"
)

// DayGroup is one day bucket inside a month group
type DayGroup struct {
	Date          string                `json:"date"`
	Installations []models.Installation `json:"installations"`
}

// MonthGroup is one month bucket of installations with a display color
type MonthGroup struct {
	Month string     `json:"month"`
	Color string     `json:"color"`
	Count int        `json:"count"`
	Days  []DayGroup `json:"days"`
}

// GroupInstallationsByMonth buckets a flat list into month then day groups.
// Months and days are sorted descending by key; installations inside a day
// keep install-time descending order. The union of all buckets equals the
// input set.
func GroupInstallationsByMonth(installations []models.Installation) []MonthGroup {
	byMonth := make(map[string]map[string][]models.Installation)

	for _, installation := range installations {
		monthKey := installation.MonthKey()
		dayKey := installation.DayKey()

		if byMonth[monthKey] == nil {
			byMonth[monthKey] = make(map[string][]models.Installation)
		}
		byMonth[monthKey][dayKey] = append(byMonth[monthKey][dayKey], installation)
	}

	monthKeys := make([]string, 0, len(byMonth))
	for key := range byMonth {
		monthKeys = append(monthKeys, key)
	}
	sort.Sort(sort.Reverse(sort.StringSlice(monthKeys)))

	groups := make([]MonthGroup, 0, len(monthKeys))
	for i, monthKey := range monthKeys {
		days := byMonth[monthKey]

		dayKeys := make([]string, 0, len(days))
		for key := range days {
			dayKeys = append(dayKeys, key)
		}
		sort.Sort(sort.Reverse(sort.StringSlice(dayKeys)))

		group := MonthGroup{
			Month: monthKey,
			Color: BucketColor(i),
			Days:  make([]DayGroup, 0, len(dayKeys)),
		}

		for _, dayKey := range dayKeys {
			items := days[dayKey]
			sort.Slice(items, func(a, b int) bool {
				return items[a].InstalledAt.After(items[b].InstalledAt)
			})
			group.Count += len(items)
			group.Days = append(group.Days, DayGroup{Date: dayKey, Installations: items})
		}

		groups = append(groups, group)
	}

	return groups
}
