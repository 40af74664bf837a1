// Package export renders the booking table as month-grid calendars in PDF
// and Excel form. Both renderers consume the same grouping produced by
// BuildMonthGrids, so the calendar math lives in one place.
package export

import (
	"fmt"
	"sort"
	"time"

	"github.com/jwlam-hk/interview-scheduler/internal/models"
)

// Weekdays are the grid column headers; weeks start on Sunday.
var Weekdays = []string{"Sun", "Mon", "Tue", "Wed", "Thu", "Fri", "Sat"}

// Day is one grid cell. Num is 0 for padding cells outside the month.
type Day struct {
	Num     int
	Entries []models.Booking
}

// Week is one 7-column grid row, Sunday first.
type Week [7]Day

// MaxEntries returns the largest entry count in any day of the week, used
// for dynamic row sizing.
func (w Week) MaxEntries() int {
	max := 0
	for _, d := range w {
		if len(d.Entries) > max {
			max = len(d.Entries)
		}
	}
	return max
}

// MonthGrid is one calendar month of bookings.
type MonthGrid struct {
	Year  int
	Month time.Month
	Weeks []Week
}

// Title returns the human month heading, e.g. "March 2025".
func (g MonthGrid) Title() string {
	return fmt.Sprintf("%s %d", g.Month.String(), g.Year)
}

// SheetName returns the month's worksheet name, e.g. "2025-03".
func (g MonthGrid) SheetName() string {
	return fmt.Sprintf("%04d-%02d", g.Year, int(g.Month))
}

// BuildMonthGrids groups bookings into per-month week grids. Rows whose
// Date+Time fail to parse are excluded; every other booking lands in exactly
// one day cell, sorted by time-of-day within the day. Months are ascending.
func BuildMonthGrids(snap models.Snapshot) []MonthGrid {
	type monthKey struct {
		year  int
		month time.Month
	}

	byDay := map[monthKey]map[int][]models.Booking{}
	for _, b := range snap {
		ts, ok := b.StartsAt()
		if !ok {
			continue
		}
		key := monthKey{ts.Year(), ts.Month()}
		if byDay[key] == nil {
			byDay[key] = map[int][]models.Booking{}
		}
		byDay[key][ts.Day()] = append(byDay[key][ts.Day()], b)
	}

	keys := make([]monthKey, 0, len(byDay))
	for k := range byDay {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool {
		if keys[i].year != keys[j].year {
			return keys[i].year < keys[j].year
		}
		return keys[i].month < keys[j].month
	})

	grids := make([]MonthGrid, 0, len(keys))
	for _, k := range keys {
		days := byDay[k]
		for _, entries := range days {
			sort.SliceStable(entries, func(i, j int) bool {
				return entries[i].Time < entries[j].Time
			})
		}
		grids = append(grids, MonthGrid{
			Year:  k.year,
			Month: k.month,
			Weeks: monthWeeks(k.year, k.month, days),
		})
	}
	return grids
}

// monthWeeks lays out a month as Sunday-first weeks with zero-padded cells
// before the 1st and after the last day.
func monthWeeks(year int, month time.Month, entries map[int][]models.Booking) []Week {
	first := time.Date(year, month, 1, 0, 0, 0, 0, time.UTC)
	daysInMonth := first.AddDate(0, 1, -1).Day()
	offset := int(first.Weekday()) // Sunday == 0

	var weeks []Week
	var current Week
	col := 0
	for i := 0; i < offset; i++ {
		current[col] = Day{}
		col++
	}
	for day := 1; day <= daysInMonth; day++ {
		current[col] = Day{Num: day, Entries: entries[day]}
		col++
		if col == 7 {
			weeks = append(weeks, current)
			current = Week{}
			col = 0
		}
	}
	if col > 0 {
		weeks = append(weeks, current)
	}
	return weeks
}
