package models

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCleanText(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{"plain value", "中文", "中文"},
		{"trims whitespace", "  9A  ", "9A"},
		{"NaT sentinel", "NaT", ""},
		{"nan sentinel", "nan", ""},
		{"None sentinel", "None", ""},
		{"NA sentinel", "<NA>", ""},
		{"empty", "", ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, CleanText(tt.input))
		})
	}
}

func TestNormalizeDate(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{"canonical", "2025-03-01", "2025-03-01"},
		{"datetime input", "2025-03-01 14:30:00", "2025-03-01"},
		{"slash separated", "2025/03/01", "2025-03-01"},
		{"garbage", "not-a-date", ""},
		{"sentinel", "NaT", ""},
		{"empty", "", ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, NormalizeDate(tt.input))
		})
	}
}

func TestNormalizeTime(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{"with seconds", "14:30:00", "14:30"},
		{"without seconds", "14:30", "14:30"},
		{"garbage", "half past two", ""},
		{"empty", "", ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, NormalizeTime(tt.input))
		})
	}
}

func TestParseTimestamp(t *testing.T) {
	ts := ParseTimestamp("2025-03-01 14:30:05")
	assert.Equal(t, time.Date(2025, 3, 1, 14, 30, 5, 0, time.UTC), ts)

	assert.True(t, ParseTimestamp("").IsZero())
	assert.True(t, ParseTimestamp("NaT").IsZero())
	assert.True(t, ParseTimestamp("garbage").IsZero())
}

func TestNormalizeIsIdempotent(t *testing.T) {
	snap := Snapshot{
		{Name: " 英文 ", ID: "nan", Date: "2025/03/01", Time: "09:30:00", Notes: "NaT"},
		{Name: "數學", Date: "bogus", Time: "late"},
	}

	once := snap.Normalize()
	twice := once.Normalize()
	assert.Equal(t, once, twice)

	assert.Equal(t, "英文", once[0].Name)
	assert.Equal(t, "", once[0].ID)
	assert.Equal(t, "2025-03-01", once[0].Date)
	assert.Equal(t, "09:30", once[0].Time)
	assert.Equal(t, "", once[0].Notes)
	assert.Equal(t, "", once[1].Date, "unparseable date degrades to empty")
	assert.Equal(t, "", once[1].Time, "unparseable time degrades to empty")
}

func TestStartsAt(t *testing.T) {
	b := Booking{Date: "2025-03-01", Time: "09:30"}
	ts, ok := b.StartsAt()
	require.True(t, ok)
	assert.Equal(t, time.Date(2025, 3, 1, 9, 30, 0, 0, time.UTC), ts)

	_, ok = Booking{Date: "", Time: "09:30"}.StartsAt()
	assert.False(t, ok)
	_, ok = Booking{Date: "2025-03-01", Time: ""}.StartsAt()
	assert.False(t, ok)
	_, ok = Booking{Date: "2025-13-01", Time: "09:30"}.StartsAt()
	assert.False(t, ok)
}

func TestMaxLastUpdated(t *testing.T) {
	assert.True(t, Snapshot{}.MaxLastUpdated().IsZero())

	t1 := time.Date(2025, 3, 1, 10, 0, 0, 0, time.UTC)
	t2 := time.Date(2025, 3, 2, 10, 0, 0, 0, time.UTC)
	snap := Snapshot{
		{Name: "a", LastUpdated: t1},
		{Name: "b", LastUpdated: t2},
		{Name: "c"},
	}
	assert.Equal(t, t2, snap.MaxLastUpdated())
}

func TestCountAt(t *testing.T) {
	snap := Snapshot{
		{Name: "a", Date: "2025-03-01", Time: "09:30"},
		{Name: "b", Date: "2025-03-01", Time: "09:30"},
		{Name: "c", Date: "2025-03-01", Time: "10:00"},
		{Name: "d", Date: "2025-03-02", Time: "09:30"},
	}
	assert.Equal(t, 2, snap.CountAt("2025-03-01", "09:30"))
	assert.Equal(t, 1, snap.CountAt("2025-03-01", "10:00"))
	assert.Equal(t, 0, snap.CountAt("2025-03-03", "09:30"))
}

func TestStampSetsUniformTimestamp(t *testing.T) {
	now := time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)
	snap := Snapshot{
		{Name: "a", LastUpdated: now.Add(-time.Hour)},
		{Name: "b"},
	}

	stamped := snap.Stamp(now)
	for _, b := range stamped {
		assert.Equal(t, now, b.LastUpdated)
	}
	// original left untouched
	assert.True(t, snap[1].LastUpdated.IsZero())
}

func TestSortedByStart(t *testing.T) {
	snap := Snapshot{
		{Name: "late", Date: "2025-03-01", Time: "14:00"},
		{Name: "broken", Date: "", Time: "09:00"},
		{Name: "early", Date: "2025-03-01", Time: "09:30"},
		{Name: "previous-day", Date: "2025-02-28", Time: "23:30"},
	}

	sorted := snap.SortedByStart()
	require.Len(t, sorted, 3)
	assert.Equal(t, "previous-day", sorted[0].Name)
	assert.Equal(t, "early", sorted[1].Name)
	assert.Equal(t, "late", sorted[2].Name)
}

func TestTimeSlots(t *testing.T) {
	slots := TimeSlots()
	require.Len(t, slots, 30)
	assert.Equal(t, "09:00", slots[0])
	assert.Equal(t, "23:30", slots[len(slots)-1])
	assert.Contains(t, slots, "12:30")
}

func TestIsValidSlot(t *testing.T) {
	assert.True(t, IsValidSlot("09:00"))
	assert.True(t, IsValidSlot("23:30"))
	assert.False(t, IsValidSlot("08:30"))
	assert.False(t, IsValidSlot("09:15"))
	assert.False(t, IsValidSlot(""))
}
