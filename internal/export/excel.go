package export

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/xuri/excelize/v2"

	"github.com/jwlam-hk/interview-scheduler/internal/models"
)

const (
	excelColWidth   = 20.0
	excelBaseRowH   = 50.0 // minimum week row height
	excelLineHeight = 15.0
)

// WriteExcel renders the bookings as a workbook with one month-grid sheet
// per calendar month present in the data.
func WriteExcel(w io.Writer, snap models.Snapshot) error {
	f := excelize.NewFile()
	defer func() {
		_ = f.Close()
	}()

	styles, err := newExcelStyles(f)
	if err != nil {
		return fmt.Errorf("building cell styles: %w", err)
	}

	for i, g := range BuildMonthGrids(snap) {
		name := g.SheetName()
		if i == 0 {
			if err := f.SetSheetName("Sheet1", name); err != nil {
				return fmt.Errorf("naming sheet %s: %w", name, err)
			}
		} else {
			if _, err := f.NewSheet(name); err != nil {
				return fmt.Errorf("adding sheet %s: %w", name, err)
			}
		}
		if err := writeMonthSheet(f, name, g, styles); err != nil {
			return fmt.Errorf("rendering sheet %s: %w", name, err)
		}
	}

	return f.Write(w)
}

type excelStyles struct {
	title  int
	header int
	cell   int
}

func newExcelStyles(f *excelize.File) (excelStyles, error) {
	title, err := f.NewStyle(&excelize.Style{
		Font:      &excelize.Font{Bold: true, Size: 14},
		Alignment: &excelize.Alignment{Horizontal: "center"},
	})
	if err != nil {
		return excelStyles{}, err
	}

	header, err := f.NewStyle(&excelize.Style{
		Font:      &excelize.Font{Bold: true},
		Alignment: &excelize.Alignment{Horizontal: "center"},
		Fill:      excelize.Fill{Type: "pattern", Color: []string{"DDDDDD"}, Pattern: 1},
	})
	if err != nil {
		return excelStyles{}, err
	}

	thin := []excelize.Border{
		{Type: "left", Color: "000000", Style: 1},
		{Type: "right", Color: "000000", Style: 1},
		{Type: "top", Color: "000000", Style: 1},
		{Type: "bottom", Color: "000000", Style: 1},
	}
	cell, err := f.NewStyle(&excelize.Style{
		Border:    thin,
		Alignment: &excelize.Alignment{Horizontal: "center", Vertical: "top", WrapText: true},
	})
	if err != nil {
		return excelStyles{}, err
	}

	return excelStyles{title: title, header: header, cell: cell}, nil
}

func writeMonthSheet(f *excelize.File, sheet string, g MonthGrid, styles excelStyles) error {
	if err := f.MergeCell(sheet, "A1", "G1"); err != nil {
		return err
	}
	if err := f.SetCellValue(sheet, "A1", g.Title()); err != nil {
		return err
	}
	if err := f.SetCellStyle(sheet, "A1", "G1", styles.title); err != nil {
		return err
	}
	if err := f.SetColWidth(sheet, "A", "G", excelColWidth); err != nil {
		return err
	}

	for i, name := range Weekdays {
		cell, err := excelize.CoordinatesToCellName(i+1, 2)
		if err != nil {
			return err
		}
		if err := f.SetCellValue(sheet, cell, name); err != nil {
			return err
		}
		if err := f.SetCellStyle(sheet, cell, cell, styles.header); err != nil {
			return err
		}
	}

	row := 3
	for _, week := range g.Weeks {
		for col, day := range week {
			cell, err := excelize.CoordinatesToCellName(col+1, row)
			if err != nil {
				return err
			}
			if err := f.SetCellStyle(sheet, cell, cell, styles.cell); err != nil {
				return err
			}
			if day.Num == 0 {
				continue
			}
			if err := f.SetCellValue(sheet, cell, dayCellText(day)); err != nil {
				return err
			}
		}

		height := excelBaseRowH
		if n := week.MaxEntries(); n > 0 {
			if h := excelLineHeight * float64(n+1); h > height {
				height = h
			}
		}
		if err := f.SetRowHeight(sheet, row, height); err != nil {
			return err
		}
		row++
	}
	return nil
}

// dayCellText renders one day cell: the day number, then "Name (Time)" per
// booking, one per line.
func dayCellText(day Day) string {
	lines := make([]string, 0, len(day.Entries)+1)
	lines = append(lines, strconv.Itoa(day.Num))
	for _, e := range day.Entries {
		lines = append(lines, fmt.Sprintf("%s (%s)", e.Name, e.Time))
	}
	return strings.Join(lines, "\n")
}
