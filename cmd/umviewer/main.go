package main

import (
	"bytes"
	"context"
	"flag"
	"image"
	"image/png"
	"time"

	fyne "fyne.io/fyne/v2"
	"fyne.io/fyne/v2/app"
	"fyne.io/fyne/v2/canvas"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/dialog"
	"fyne.io/fyne/v2/widget"

	"github.com/iafilius/UserMetricChart/cmd/umviewer/uihelpers"
	"github.com/iafilius/UserMetricChart/src/fetcher"
	"github.com/iafilius/UserMetricChart/src/logging"
	"github.com/iafilius/UserMetricChart/src/metrics"
	"github.com/iafilius/UserMetricChart/src/multiply"
	"github.com/iafilius/UserMetricChart/src/presenter"
	"github.com/iafilius/UserMetricChart/src/types"
)

type uiState struct {
	app    fyne.App
	window fyne.Window

	presenter *presenter.Presenter
	visor     *fyneVisor

	metricSelect *widget.Select
	plotBtn      *widget.Button
	statusLabel  *widget.Label
	chartTitle   *widget.Label
	chartImg     *canvas.Image
	tableTitle   *widget.Label
	table        *widget.Table

	tabs        *container.AppTabs
	controlsTab *container.TabItem
	chartsTab   *container.TabItem
}

func chartSize(state *uiState) (int, int) {
	if state == nil || state.window == nil || state.window.Canvas() == nil {
		return uihelpers.ComputeChartCanvasSize(0)
	}
	return uihelpers.ComputeChartCanvasSize(state.window.Canvas().Size().Width)
}

// selectedMetric maps the select's label back to a metric; an empty selection plots the
// first metric.
func selectedMetric(label string) metrics.Metric {
	if m, ok := metrics.MetricFromLabel(label); ok {
		return m
	}
	return metrics.All[0]
}

// onPlot is the Plot button handler. The button stays disabled until the plot finishes.
func onPlot(state *uiState) {
	if state.presenter.Busy() {
		return
	}
	m := selectedMetric(state.metricSelect.Selected)
	state.plotBtn.Disable()
	go func() {
		state.presenter.Trigger(context.Background(), m)
		fyne.Do(state.plotBtn.Enable)
	}()
}

func exportChartPNG(state *uiState) {
	if state.chartImg == nil || state.chartImg.Image == nil {
		dialog.ShowInformation("Export", "No chart to export.", state.window)
		return
	}
	var buf bytes.Buffer
	if err := png.Encode(&buf, state.chartImg.Image); err != nil {
		dialog.ShowError(err, state.window)
		return
	}
	fs := dialog.NewFileSave(func(wc fyne.URIWriteCloser, err error) {
		if err != nil || wc == nil {
			return
		}
		defer wc.Close()
		if _, err := wc.Write(buf.Bytes()); err != nil {
			logging.Warnf("[viewer] export chart: %v", err)
		}
	}, state.window)
	fs.SetFileName("users-metric-chart.png")
	fs.Show()
}

func main() {
	urlFlag := flag.String("url", types.DefaultUsersURL, "Users endpoint")
	timeout := flag.Duration("http-timeout", fetcher.DefaultTimeout, "Total timeout of the users request")
	logLevel := flag.String("log-level", "info", "Log level (debug|info|warn|error)")
	flag.Parse()
	logging.SetLogLevel(*logLevel)

	a := app.NewWithID("com.umc.viewer")
	w := a.NewWindow("User Metric Chart")
	w.Resize(fyne.NewSize(1100, 800))

	state := &uiState{app: a, window: w}
	state.visor = &fyneVisor{state: state}

	var demo bytes.Buffer
	multiply.Demonstrate(&demo, multiply.DemoArgs...)
	multiplyLabel := widget.NewLabel(string(bytes.TrimSpace(demo.Bytes())))

	state.statusLabel = widget.NewLabel("Pick a metric and press Plot.")
	status := &presenter.StatusText{OnChange: func(s string) {
		fyne.Do(func() { state.statusLabel.SetText(s) })
	}}
	state.presenter = presenter.New(fetcher.New(*urlFlag, *timeout), state.visor, status)

	state.metricSelect = widget.NewSelect(metrics.Labels(), nil)
	state.metricSelect.SetSelected(metrics.All[0].Label())
	state.plotBtn = widget.NewButton("Plot", func() { onPlot(state) })

	state.chartTitle = widget.NewLabel(types.ChartSurface.Name)
	cw, chh := chartSize(state)
	state.chartImg = canvas.NewImageFromImage(image.NewRGBA(image.Rect(0, 0, cw, chh)))
	state.chartImg.FillMode = canvas.ImageFillContain
	state.chartImg.SetMinSize(fyne.NewSize(900, 320))
	state.tableTitle = widget.NewLabel(types.TableSurface.Name)
	state.table = newTable(state.visor)
	applyColumnWidths(state.table, 0)

	controls := container.NewVBox(
		multiplyLabel,
		widget.NewSeparator(),
		container.NewHBox(widget.NewLabel("Metric:"), state.metricSelect, state.plotBtn,
			widget.NewButton("Export chart…", func() { exportChartPNG(state) })),
		state.statusLabel,
	)
	state.controlsTab = container.NewTabItem("Controls", controls)
	state.chartsTab = container.NewTabItem(types.ChartSurface.Tab, chartsContent(state))
	state.tabs = container.NewAppTabs(state.controlsTab, state.chartsTab)
	state.tabs.SetTabLocation(container.TabLocationTop)
	w.SetContent(state.tabs)

	// Keep table columns in step with the window width.
	done := make(chan struct{})
	w.SetOnClosed(func() { close(done) })
	go func() {
		t := time.NewTicker(500 * time.Millisecond)
		defer t.Stop()
		prevW := float32(-1)
		for {
			select {
			case <-done:
				return
			case <-t.C:
				fyne.Do(func() {
					cur := w.Canvas().Size().Width
					if cur != prevW {
						prevW = cur
						applyColumnWidths(state.table, cur)
					}
				})
			}
		}
	}()

	w.ShowAndRun()
}
