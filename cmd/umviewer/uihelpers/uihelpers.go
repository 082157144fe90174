package uihelpers

import (
	"math"

	"github.com/iafilius/UserMetricChart/src/render"
	"github.com/iafilius/UserMetricChart/src/types"
)

// ComputeChartCanvasSize derives the chart size from the window width: ~95% of it minus a
// scrollbar margin, at a 1:2 aspect, then clamped like every other chart.
func ComputeChartCanvasSize(winW float32) (int, int) {
	if winW <= 0 {
		return render.ComputeChartDimensions(render.DefaultWidth, render.DefaultHeight)
	}
	w := int(math.Round(float64(winW)*0.95)) - 12
	return render.ComputeChartDimensions(w, 0)
}

// ComputeTableColumnWidths returns the widths of the User and Value columns.
func ComputeTableColumnWidths(winW float32) [2]float32 {
	const compactBreakpoint = 600
	if winW > 0 && winW < compactBreakpoint {
		return [2]float32{180, 70}
	}
	return [2]float32{320, 120}
}

// TableCellText returns the text of a table cell. Row 0 is the header; the value column
// header carries the metric label when known.
func TableCellText(rows []types.TableRow, valueHeader string, row, col int) string {
	if row == 0 {
		if col == 0 {
			return "User"
		}
		if valueHeader == "" {
			return "Value"
		}
		return valueHeader
	}
	i := row - 1
	if i < 0 || i >= len(rows) {
		return ""
	}
	if col == 0 {
		return rows[i].User
	}
	return render.FormatNumericTick(rows[i].Value)
}

// TableSize is the (rows, cols) pair the table widget asks for: the header plus one row per entry.
func TableSize(rows []types.TableRow) (int, int) {
	return len(rows) + 1, 2
}
