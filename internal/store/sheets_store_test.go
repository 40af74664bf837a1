package store

import (
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/api/googleapi"

	"github.com/jwlam-hk/interview-scheduler/internal/models"
)

func TestSnapshotFromValues(t *testing.T) {
	t.Run("empty grid", func(t *testing.T) {
		assert.Empty(t, SnapshotFromValues(nil))
		assert.Empty(t, SnapshotFromValues([][]interface{}{}))
	})

	t.Run("header only", func(t *testing.T) {
		values := [][]interface{}{{"Name", "ID", "Date", "Time", "Notes", "LastUpdated"}}
		assert.Empty(t, SnapshotFromValues(values))
	})

	t.Run("normalizes rows", func(t *testing.T) {
		values := [][]interface{}{
			{"Name", "ID", "Date", "Time", "Notes", "LastUpdated"},
			{"英文", "9A", "2025/03/01", "09:30:00", "NaT", "2025-03-01 10:00:00"},
			{"數學", "", "2025-03-02", "14:00"},
		}

		snap := SnapshotFromValues(values)
		require.Len(t, snap, 2)

		assert.Equal(t, "英文", snap[0].Name)
		assert.Equal(t, "2025-03-01", snap[0].Date)
		assert.Equal(t, "09:30", snap[0].Time)
		assert.Equal(t, "", snap[0].Notes)
		assert.Equal(t, time.Date(2025, 3, 1, 10, 0, 0, 0, time.UTC), snap[0].LastUpdated)

		assert.Equal(t, "14:00", snap[1].Time, "short rows tolerated")
		assert.True(t, snap[1].LastUpdated.IsZero())
	})

	t.Run("missing columns default empty", func(t *testing.T) {
		values := [][]interface{}{
			{"Name", "Date", "Time"},
			{"中文", "2025-03-01", "10:30"},
		}

		snap := SnapshotFromValues(values)
		require.Len(t, snap, 1)
		assert.Equal(t, "中文", snap[0].Name)
		assert.Equal(t, "", snap[0].ID)
		assert.Equal(t, "", snap[0].Notes)
	})

	t.Run("non-string cells coerced to text", func(t *testing.T) {
		values := [][]interface{}{
			{"Name", "ID", "Date", "Time", "Notes", "LastUpdated"},
			{"物理", 42, "2025-03-01", "09:00", nil, ""},
		}

		snap := SnapshotFromValues(values)
		require.Len(t, snap, 1)
		assert.Equal(t, "42", snap[0].ID)
		assert.Equal(t, "", snap[0].Notes)
	})
}

func TestValuesFromSnapshot(t *testing.T) {
	stamp := time.Date(2025, 3, 1, 10, 30, 45, 0, time.UTC)
	snap := models.Snapshot{
		{Name: "英文", ID: "9A", Date: "2025-03-01", Time: "09:30", Notes: "remote", LastUpdated: stamp},
		{Name: "數學"},
	}

	values := ValuesFromSnapshot(snap)
	require.Len(t, values, 3)
	assert.Equal(t, []interface{}{"Name", "ID", "Date", "Time", "Notes", "LastUpdated"}, values[0])
	assert.Equal(t, []interface{}{"英文", "9A", "2025-03-01", "09:30", "remote", "2025-03-01 10:30:45"}, values[1])
	assert.Equal(t, []interface{}{"數學", "", "", "", "", ""}, values[2], "zero LastUpdated serializes empty")
}

func TestRoundTripThroughValues(t *testing.T) {
	stamp := time.Date(2025, 3, 1, 10, 30, 45, 0, time.UTC)
	snap := models.Snapshot{
		{Name: "英文", ID: "9A", Date: "2025-03-01", Time: "09:30", Notes: "n", LastUpdated: stamp},
		{Name: "中史", ID: "", Date: "2025-04-15", Time: "23:30", Notes: "", LastUpdated: stamp},
	}

	back := SnapshotFromValues(ValuesFromSnapshot(snap))
	assert.Equal(t, snap, back)
}

func TestClassify(t *testing.T) {
	tests := []struct {
		name        string
		err         error
		rateLimited bool
	}{
		{"http 429", &googleapi.Error{Code: 429, Message: "Quota exceeded"}, true},
		{
			"http 403 rate limit reason",
			&googleapi.Error{Code: 403, Errors: []googleapi.ErrorItem{{Reason: "rateLimitExceeded"}}},
			true,
		},
		{
			"http 403 user rate limit reason",
			&googleapi.Error{Code: 403, Errors: []googleapi.ErrorItem{{Reason: "userRateLimitExceeded"}}},
			true,
		},
		{"http 403 other reason", &googleapi.Error{Code: 403, Errors: []googleapi.ErrorItem{{Reason: "forbidden"}}}, false},
		{"http 500", &googleapi.Error{Code: 500}, false},
		{"plain error", errors.New("connection reset"), false},
		{"wrapped 429", fmt.Errorf("outer: %w", &googleapi.Error{Code: 429}), true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := classify("failed to read worksheet", tt.err)
			require.Error(t, err)
			assert.Equal(t, tt.rateLimited, IsRateLimited(err))
			assert.Contains(t, err.Error(), "failed to read worksheet")
		})
	}
}

func TestNewSheetsStore_Validation(t *testing.T) {
	_, err := NewSheetsStore(t.Context(), []byte("{}"), "", "Sheet1")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "spreadsheet ID")

	_, err = NewSheetsStore(t.Context(), []byte("{}"), "sheet-id", "")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "worksheet name")
}
