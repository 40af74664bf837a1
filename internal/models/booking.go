package models

import (
	"fmt"
	"sort"
	"strings"
	"time"
)

const (
	// DateLayout is the canonical on-sheet date format.
	DateLayout = "2006-01-02"
	// TimeLayout is the canonical on-sheet time-of-day format.
	TimeLayout = "15:04"
	// TimestampLayout is how LastUpdated is stored in the sheet.
	TimestampLayout = "2006-01-02 15:04:05"
)

// Columns is the sheet column order. LastUpdated is always last.
var Columns = []string{"Name", "ID", "Date", "Time", "Notes", "LastUpdated"}

// Booking represents one scheduled interview slot.
type Booking struct {
	Name        string    `json:"name"`
	ID          string    `json:"id"`
	Date        string    `json:"date"`
	Time        string    `json:"time"`
	Notes       string    `json:"notes"`
	LastUpdated time.Time `json:"last_updated,omitzero"`
}

// Snapshot is the full in-memory booking table held by one session.
// It is replaced wholesale on every successful save or refresh.
type Snapshot []Booking

// emptyMarkers are null sentinels left behind by spreadsheet clients that
// serialize missing values as text.
var emptyMarkers = map[string]bool{
	"NaT":  true,
	"nan":  true,
	"None": true,
	"<NA>": true,
}

var dateLayouts = []string{
	DateLayout,
	TimestampLayout,
	time.RFC3339,
	"2006/01/02",
}

var timeLayouts = []string{
	"15:04:05",
	TimeLayout,
}

var timestampLayouts = []string{
	TimestampLayout,
	time.RFC3339,
	DateLayout,
}

// CleanText trims a cell and blanks null sentinels.
func CleanText(s string) string {
	s = strings.TrimSpace(s)
	if emptyMarkers[s] {
		return ""
	}
	return s
}

// NormalizeDate coerces a date cell into YYYY-MM-DD, or "" when unparseable.
func NormalizeDate(s string) string {
	s = CleanText(s)
	if s == "" {
		return ""
	}
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t.Format(DateLayout)
		}
	}
	return ""
}

// NormalizeTime coerces a time cell into HH:MM, tolerating HH:MM:SS input.
// Returns "" when unparseable.
func NormalizeTime(s string) string {
	s = CleanText(s)
	if s == "" {
		return ""
	}
	for _, layout := range timeLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t.Format(TimeLayout)
		}
	}
	return ""
}

// ParseTimestamp parses a LastUpdated cell, returning the zero time when the
// value is absent or unparseable.
func ParseTimestamp(s string) time.Time {
	s = CleanText(s)
	if s == "" {
		return time.Time{}
	}
	for _, layout := range timestampLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t
		}
	}
	return time.Time{}
}

// Normalize returns the booking with every field coerced to canonical form.
// Unparseable dates and times degrade to "" rather than failing the row.
func (b Booking) Normalize() Booking {
	return Booking{
		Name:        CleanText(b.Name),
		ID:          CleanText(b.ID),
		Date:        NormalizeDate(b.Date),
		Time:        NormalizeTime(b.Time),
		Notes:       CleanText(b.Notes),
		LastUpdated: b.LastUpdated,
	}
}

// StartsAt combines Date and Time into a single orderable instant.
// The second return value is false when either part is missing or malformed.
func (b Booking) StartsAt() (time.Time, bool) {
	if b.Date == "" || b.Time == "" {
		return time.Time{}, false
	}
	t, err := time.Parse(DateLayout+" "+TimeLayout, b.Date+" "+b.Time)
	if err != nil {
		return time.Time{}, false
	}
	return t, true
}

// Normalize normalizes every row of the snapshot.
func (s Snapshot) Normalize() Snapshot {
	out := make(Snapshot, len(s))
	for i, b := range s {
		out[i] = b.Normalize()
	}
	return out
}

// Clone returns an independent copy of the snapshot.
func (s Snapshot) Clone() Snapshot {
	out := make(Snapshot, len(s))
	copy(out, s)
	return out
}

// MaxLastUpdated returns the latest LastUpdated across all rows, or the zero
// time when the snapshot is empty or no row carries a timestamp.
func (s Snapshot) MaxLastUpdated() time.Time {
	var max time.Time
	for _, b := range s {
		if b.LastUpdated.After(max) {
			max = b.LastUpdated
		}
	}
	return max
}

// CountAt counts bookings occupying the given date and time slot.
func (s Snapshot) CountAt(date, timeOfDay string) int {
	n := 0
	for _, b := range s {
		if b.Date == date && b.Time == timeOfDay {
			n++
		}
	}
	return n
}

// Stamp returns a copy of the snapshot with every row's LastUpdated set to t.
// All rows of one save share a single timestamp, so "latest write" detection
// works at the granularity of a whole save.
func (s Snapshot) Stamp(t time.Time) Snapshot {
	out := make(Snapshot, len(s))
	for i, b := range s {
		b.LastUpdated = t
		out[i] = b
	}
	return out
}

// SortedByStart returns the rows with a parseable Date+Time, ascending.
// Rows whose Date+Time fail to parse are omitted.
func (s Snapshot) SortedByStart() Snapshot {
	out := make(Snapshot, 0, len(s))
	for _, b := range s {
		if _, ok := b.StartsAt(); ok {
			out = append(out, b)
		}
	}
	sort.SliceStable(out, func(i, j int) bool {
		ti, _ := out[i].StartsAt()
		tj, _ := out[j].StartsAt()
		return ti.Before(tj)
	})
	return out
}

const (
	slotFirstHour = 9
	slotLastHour  = 23
)

// TimeSlots returns the bookable half-hour lattice, 09:00 through 23:30.
func TimeSlots() []string {
	slots := make([]string, 0, (slotLastHour-slotFirstHour+1)*2)
	for h := slotFirstHour; h <= slotLastHour; h++ {
		for _, m := range []int{0, 30} {
			slots = append(slots, fmt.Sprintf("%02d:%02d", h, m))
		}
	}
	return slots
}

// IsValidSlot reports whether a normalized HH:MM value lies on the bookable
// half-hour lattice.
func IsValidSlot(timeOfDay string) bool {
	for _, slot := range TimeSlots() {
		if slot == timeOfDay {
			return true
		}
	}
	return false
}
