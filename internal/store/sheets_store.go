package store

import (
	"context"
	"errors"
	"fmt"

	"github.com/jwlam-hk/interview-scheduler/internal/models"
	"google.golang.org/api/googleapi"
	"google.golang.org/api/option"
	"google.golang.org/api/sheets/v4"
)

// SheetsStore persists the booking table in one Google Sheets worksheet.
// All columns are text at rest; LastUpdated is serialized as
// "2006-01-02 15:04:05".
type SheetsStore struct {
	svc           *sheets.Service
	spreadsheetID string
	worksheet     string
}

// NewSheetsStore connects to the Sheets API with service-account credentials.
func NewSheetsStore(ctx context.Context, credentialsJSON []byte, spreadsheetID, worksheet string) (*SheetsStore, error) {
	if spreadsheetID == "" {
		return nil, fmt.Errorf("spreadsheet ID is not configured")
	}
	if worksheet == "" {
		return nil, fmt.Errorf("worksheet name is not configured")
	}

	svc, err := sheets.NewService(ctx, option.WithCredentialsJSON(credentialsJSON))
	if err != nil {
		return nil, fmt.Errorf("failed to create sheets service: %w", err)
	}

	return &SheetsStore{
		svc:           svc,
		spreadsheetID: spreadsheetID,
		worksheet:     worksheet,
	}, nil
}

func (s *SheetsStore) readRange() string {
	return fmt.Sprintf("%s!A:F", s.worksheet)
}

// Load fetches the full worksheet and normalizes every row.
func (s *SheetsStore) Load(ctx context.Context) (models.Snapshot, error) {
	resp, err := s.svc.Spreadsheets.Values.Get(s.spreadsheetID, s.readRange()).Context(ctx).Do()
	if err != nil {
		return nil, classify("failed to read worksheet", err)
	}
	return SnapshotFromValues(resp.Values), nil
}

// Save overwrites the worksheet wholesale with the given snapshot.
func (s *SheetsStore) Save(ctx context.Context, snap models.Snapshot) error {
	if _, err := s.svc.Spreadsheets.Values.Clear(s.spreadsheetID, s.readRange(), &sheets.ClearValuesRequest{}).Context(ctx).Do(); err != nil {
		return classify("failed to clear worksheet", err)
	}

	vr := &sheets.ValueRange{Values: ValuesFromSnapshot(snap)}
	_, err := s.svc.Spreadsheets.Values.Update(s.spreadsheetID, s.readRange(), vr).
		ValueInputOption("RAW").
		Context(ctx).
		Do()
	if err != nil {
		return classify("failed to write worksheet", err)
	}
	return nil
}

// SnapshotFromValues converts a raw cell grid into a normalized snapshot.
// The first row is the header; columns are matched by name so missing or
// reordered columns are tolerated, absent fields default to empty.
func SnapshotFromValues(values [][]interface{}) models.Snapshot {
	if len(values) == 0 {
		return models.Snapshot{}
	}

	index := map[string]int{}
	for i, cell := range values[0] {
		index[cellText(cell)] = i
	}

	field := func(row []interface{}, column string) string {
		i, ok := index[column]
		if !ok || i >= len(row) {
			return ""
		}
		return cellText(row[i])
	}

	snap := make(models.Snapshot, 0, len(values)-1)
	for _, row := range values[1:] {
		b := models.Booking{
			Name:        field(row, "Name"),
			ID:          field(row, "ID"),
			Date:        field(row, "Date"),
			Time:        field(row, "Time"),
			Notes:       field(row, "Notes"),
			LastUpdated: models.ParseTimestamp(field(row, "LastUpdated")),
		}
		snap = append(snap, b.Normalize())
	}
	return snap
}

// ValuesFromSnapshot serializes a snapshot into a header row plus one text
// row per booking, in sheet column order.
func ValuesFromSnapshot(snap models.Snapshot) [][]interface{} {
	values := make([][]interface{}, 0, len(snap)+1)

	header := make([]interface{}, len(models.Columns))
	for i, c := range models.Columns {
		header[i] = c
	}
	values = append(values, header)

	for _, b := range snap {
		updated := ""
		if !b.LastUpdated.IsZero() {
			updated = b.LastUpdated.Format(models.TimestampLayout)
		}
		values = append(values, []interface{}{b.Name, b.ID, b.Date, b.Time, b.Notes, updated})
	}
	return values
}

// cellText coerces any cell value the API hands back to text.
func cellText(v interface{}) string {
	if v == nil {
		return ""
	}
	if s, ok := v.(string); ok {
		return s
	}
	return fmt.Sprintf("%v", v)
}

// classify wraps a Sheets API failure, tagging rate-limit responses so the
// caller can tell "try again shortly" apart from "the store is broken".
func classify(msg string, err error) error {
	if isRateLimitResponse(err) {
		return fmt.Errorf("%s: %w: %v", msg, ErrRateLimited, err)
	}
	return fmt.Errorf("%s: %w", msg, err)
}

func isRateLimitResponse(err error) bool {
	var gerr *googleapi.Error
	if !errors.As(err, &gerr) {
		return false
	}
	if gerr.Code == 429 {
		return true
	}
	if gerr.Code == 403 {
		for _, item := range gerr.Errors {
			if item.Reason == "rateLimitExceeded" || item.Reason == "userRateLimitExceeded" {
				return true
			}
		}
	}
	return false
}
