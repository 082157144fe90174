package main

import (
	"testing"

	"fyne.io/fyne/v2/canvas"
	"fyne.io/fyne/v2/test"
	"fyne.io/fyne/v2/widget"

	"github.com/iafilius/UserMetricChart/src/metrics"
	"github.com/iafilius/UserMetricChart/src/types"
)

func TestSelectedMetric(t *testing.T) {
	if got := selectedMetric("Email length"); got != metrics.EmailLength {
		t.Fatalf("label lookup: got %q", got)
	}
	if got := selectedMetric(""); got != metrics.All[0] {
		t.Fatalf("empty selection should fall back to first metric, got %q", got)
	}
}

func TestChartSize_NoWindow(t *testing.T) {
	w, h := chartSize(nil)
	if w != 900 || h != 450 {
		t.Fatalf("got %dx%d want 900x450", w, h)
	}
}

func TestFyneVisor_RendersIntoWidgets(t *testing.T) {
	a := test.NewApp()
	defer a.Quit()
	s := &uiState{app: a, window: a.NewWindow("t")}
	s.visor = &fyneVisor{state: s}
	s.chartTitle = widget.NewLabel("")
	s.tableTitle = widget.NewLabel("")
	s.chartImg = canvas.NewImageFromImage(nil)
	s.table = newTable(s.visor)

	data := types.BarChartData{
		Values: [][]float64{{3, 5}},
		Series: []string{"Username length"},
		Labels: []string{"A", "B"},
	}
	if err := s.visor.RenderBarChart(types.ChartSurface, data, types.BarChartOptions{XLabel: "Users", YLabel: "Username length"}); err != nil {
		t.Fatalf("render chart: %v", err)
	}
	rows := []types.TableRow{{User: "A", Value: 3}, {User: "B", Value: 5}}
	if err := s.visor.RenderTable(types.TableSurface, rows); err != nil {
		t.Fatalf("render table: %v", err)
	}

	got, header := s.visor.snapshot()
	if len(got) != 2 || header != "Username length" {
		t.Fatalf("snapshot rows=%d header=%q", len(got), header)
	}
	rows[0].User = "mutated"
	if got, _ := s.visor.snapshot(); got[0].User != "A" {
		t.Fatalf("visor must keep its own copy of rows")
	}
}
