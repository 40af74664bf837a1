package export

import (
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/go-pdf/fpdf"

	"github.com/jwlam-hk/interview-scheduler/internal/logger"
	"github.com/jwlam-hk/interview-scheduler/internal/models"
)

const (
	pdfColWidth     = 110.0
	pdfHeaderHeight = 20.0
	pdfBaseRowH     = 40.0 // minimum week row height
	pdfEntryRowH    = 25.0 // added per entry in the fullest day of the week
	pdfLineHeight   = 11.0
)

const customFontName = "CustomScheduler"

// WritePDF renders the bookings as one landscape month-grid calendar page
// per month. If a font asset exists at fontBase(.ttf|.otf) it is registered
// for full glyph coverage; otherwise the built-in Helvetica is used and
// non-Latin glyphs may not render.
func WritePDF(w io.Writer, snap models.Snapshot, fontBase string, log *logger.Logger) error {
	pdf := fpdf.New("L", "pt", "A4", "")
	pdf.SetMargins(36, 30, 36)
	pdf.SetAutoPageBreak(false, 30)

	font := registerFont(pdf, fontBase, log)

	for _, g := range BuildMonthGrids(snap) {
		writeMonthPage(pdf, g, font)
	}
	if pdf.PageCount() == 0 {
		pdf.AddPage()
	}
	return pdf.Output(w)
}

// registerFont loads the optional font asset, falling back to Helvetica on
// any failure. Best effort only; the export never fails over fonts.
func registerFont(pdf *fpdf.Fpdf, fontBase string, log *logger.Logger) string {
	path, ok := FindFontAsset(fontBase)
	if !ok {
		return "Helvetica"
	}

	pdf.AddUTF8Font(customFontName, "", path)
	pdf.AddUTF8Font(customFontName, "B", path)
	if pdf.Err() {
		log.Warn("Font asset could not be registered, falling back to Helvetica",
			logger.Action("export_pdf"),
			logger.Path(path),
			logger.Error(pdf.Error()))
		pdf.ClearError()
		return "Helvetica"
	}
	log.Info("Export font registered", logger.Action("export_pdf"), logger.Path(path))
	return customFontName
}

// FindFontAsset checks for the optional font file, trying both supported
// extensions in order.
func FindFontAsset(base string) (string, bool) {
	if base == "" {
		return "", false
	}
	for _, ext := range []string{".ttf", ".otf"} {
		path := base + ext
		if _, err := os.Stat(path); err == nil {
			return path, true
		}
	}
	return "", false
}

func writeMonthPage(pdf *fpdf.Fpdf, g MonthGrid, font string) {
	pdf.AddPage()

	pdf.SetFont(font, "B", 16)
	pdf.CellFormat(0, 20, g.Title(), "", 1, "L", false, 0, "")
	pdf.Ln(10)

	writeWeekdayHeader(pdf, font)

	_, pageH := pdf.GetPageSize()
	left, _, _, bottom := pdf.GetMargins()

	for _, week := range g.Weeks {
		rowH := pdfBaseRowH + float64(week.MaxEntries())*pdfEntryRowH
		if pdf.GetY()+rowH > pageH-bottom {
			pdf.AddPage()
			writeWeekdayHeader(pdf, font)
		}
		y := pdf.GetY()
		for col, day := range week {
			x := left + float64(col)*pdfColWidth
			pdf.Rect(x, y, pdfColWidth, rowH, "D")
			if day.Num == 0 {
				continue
			}
			pdf.SetXY(x+3, y+3)
			pdf.SetFont(font, "B", 9)
			pdf.CellFormat(pdfColWidth-6, pdfLineHeight, strconv.Itoa(day.Num), "", 2, "L", false, 0, "")
			if len(day.Entries) > 0 {
				lines := make([]string, 0, len(day.Entries))
				for _, e := range day.Entries {
					lines = append(lines, e.Name+"\n"+e.Time)
				}
				pdf.SetFont(font, "", 9)
				pdf.SetXY(x+3, y+3+pdfLineHeight)
				pdf.MultiCell(pdfColWidth-6, pdfLineHeight, strings.Join(lines, "\n"), "", "L", false)
			}
		}
		pdf.SetXY(left, y+rowH)
	}
}

func writeWeekdayHeader(pdf *fpdf.Fpdf, font string) {
	pdf.SetFont(font, "B", 9)
	pdf.SetFillColor(211, 211, 211)
	for _, name := range Weekdays {
		pdf.CellFormat(pdfColWidth, pdfHeaderHeight, name, "1", 0, "C", true, 0, "")
	}
	pdf.Ln(pdfHeaderHeight)
}
