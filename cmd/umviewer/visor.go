package main

import (
	"image"
	"sync"

	fyne "fyne.io/fyne/v2"
	"fyne.io/fyne/v2/canvas"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/widget"

	"github.com/iafilius/UserMetricChart/cmd/umviewer/uihelpers"
	"github.com/iafilius/UserMetricChart/src/render"
	"github.com/iafilius/UserMetricChart/src/types"
)

// fyneVisor renders the chart and table surfaces into the "Charts" tab. Render calls arrive
// on the plot goroutine; widget updates are posted with fyne.Do.
type fyneVisor struct {
	state *uiState

	mu          sync.RWMutex
	rows        []types.TableRow
	valueHeader string
}

func (v *fyneVisor) Open() error {
	fyne.Do(func() {
		if v.state.tabs != nil && v.state.chartsTab != nil {
			v.state.tabs.Select(v.state.chartsTab)
		}
	})
	return nil
}

func (v *fyneVisor) Close() error {
	fyne.Do(func() {
		if v.state.tabs != nil && v.state.controlsTab != nil {
			v.state.tabs.Select(v.state.controlsTab)
		}
	})
	return nil
}

func (v *fyneVisor) RenderBarChart(s types.Surface, data types.BarChartData, opts types.BarChartOptions) error {
	opts.Width, opts.Height = chartSize(v.state)
	img := render.BarChartImage(data, opts)
	v.mu.Lock()
	if len(data.Series) > 0 {
		v.valueHeader = data.Series[0]
	}
	v.mu.Unlock()
	fyne.Do(func() {
		v.state.chartTitle.SetText(s.Name)
		setImage(v.state.chartImg, img)
	})
	return nil
}

func (v *fyneVisor) RenderTable(s types.Surface, rows []types.TableRow) error {
	v.mu.Lock()
	v.rows = append([]types.TableRow(nil), rows...)
	v.mu.Unlock()
	fyne.Do(func() {
		v.state.tableTitle.SetText(s.Name)
		v.state.table.Refresh()
	})
	return nil
}

func (v *fyneVisor) snapshot() ([]types.TableRow, string) {
	v.mu.RLock()
	defer v.mu.RUnlock()
	return v.rows, v.valueHeader
}

func setImage(c *canvas.Image, img image.Image) {
	if c == nil || img == nil {
		return
	}
	c.Image = img
	c.Refresh()
}

// newTable builds the table widget reading rows from the visor.
func newTable(v *fyneVisor) *widget.Table {
	t := widget.NewTable(
		func() (int, int) {
			rows, _ := v.snapshot()
			return uihelpers.TableSize(rows)
		},
		func() fyne.CanvasObject { return widget.NewLabel("") },
		func(id widget.TableCellID, o fyne.CanvasObject) {
			rows, header := v.snapshot()
			o.(*widget.Label).SetText(uihelpers.TableCellText(rows, header, id.Row, id.Col))
		},
	)
	return t
}

func applyColumnWidths(t *widget.Table, winW float32) {
	widths := uihelpers.ComputeTableColumnWidths(winW)
	for i, w := range widths {
		t.SetColumnWidth(i, w)
	}
}

// chartsContent lays out the Charts tab: chart title and image, then the table.
func chartsContent(state *uiState) fyne.CanvasObject {
	chart := container.NewBorder(state.chartTitle, nil, nil, nil, state.chartImg)
	table := container.NewBorder(state.tableTitle, nil, nil, nil, state.table)
	return container.NewVSplit(chart, table)
}
