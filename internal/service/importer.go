package service

import (
	"encoding/csv"
	"fmt"
	"io"

	"github.com/jwlam-hk/interview-scheduler/internal/models"
)

// ImportCSV parses a CSV backup into bookings ready for the save protocol.
// The file must carry a Name column; other columns are optional and default
// to empty. LastUpdated is never taken from the file, the save path stamps
// it.
func ImportCSV(r io.Reader) ([]models.Booking, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1 // tolerate ragged rows
	reader.TrimLeadingSpace = true

	header, err := reader.Read()
	if err == io.EOF {
		return nil, fmt.Errorf("CSV file is empty")
	}
	if err != nil {
		return nil, fmt.Errorf("invalid CSV: %w", err)
	}

	index := map[string]int{}
	for i, col := range header {
		index[col] = i
	}
	if _, ok := index["Name"]; !ok {
		return nil, fmt.Errorf("CSV is missing the required Name column")
	}

	field := func(record []string, column string) string {
		i, ok := index[column]
		if !ok || i >= len(record) {
			return ""
		}
		return record[i]
	}

	var bookings []models.Booking
	for {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("invalid CSV: %w", err)
		}
		b := models.Booking{
			Name:  field(record, "Name"),
			ID:    field(record, "ID"),
			Date:  field(record, "Date"),
			Time:  field(record, "Time"),
			Notes: field(record, "Notes"),
		}
		bookings = append(bookings, b.Normalize())
	}
	return bookings, nil
}
