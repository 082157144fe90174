package render

import (
	"bytes"
	"fmt"
	"time"

	"github.com/phpdave11/gofpdf"

	"github.com/iafilius/UserMetricChart/src/metrics"
	"github.com/iafilius/UserMetricChart/src/types"
)

// TablePDF lays rows out as a two-column A4 table followed by a summary line.
func TablePDF(title string, rows []types.TableRow, generated time.Time) ([]byte, error) {
	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.SetTitle(title, true)
	tr := pdf.UnicodeTranslatorFromDescriptor("")
	pdf.AddPage()

	pdf.SetFont("Helvetica", "B", 16)
	pdf.Cell(0, 10, tr(title))
	pdf.Ln(10)
	pdf.SetFont("Helvetica", "", 10)
	pdf.Cell(0, 6, "Generated: "+generated.UTC().Format(time.RFC3339))
	pdf.Ln(10)

	pdf.SetFont("Helvetica", "B", 11)
	pdf.CellFormat(110, 7, "User", "1", 0, "L", false, 0, "")
	pdf.CellFormat(40, 7, "Value", "1", 0, "R", false, 0, "")
	pdf.Ln(7)

	pdf.SetFont("Helvetica", "", 11)
	if len(rows) == 0 {
		pdf.CellFormat(150, 7, "(no rows)", "1", 0, "C", false, 0, "")
		pdf.Ln(7)
	}
	points := make([]types.ChartPoint, len(rows))
	for i, r := range rows {
		pdf.CellFormat(110, 7, tr(r.User), "1", 0, "L", false, 0, "")
		pdf.CellFormat(40, 7, FormatNumericTick(r.Value), "1", 0, "R", false, 0, "")
		pdf.Ln(7)
		points[i] = types.ChartPoint{Label: r.User, Value: r.Value}
	}

	s := metrics.Summarize(points)
	pdf.Ln(4)
	pdf.SetFont("Helvetica", "I", 10)
	pdf.Cell(0, 6, fmt.Sprintf("count=%d min=%s max=%s mean=%.2f total=%s",
		s.Count, FormatNumericTick(s.Min), FormatNumericTick(s.Max), s.Mean, FormatNumericTick(s.Total)))

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, fmt.Errorf("render table pdf: %w", err)
	}
	return buf.Bytes(), nil
}
