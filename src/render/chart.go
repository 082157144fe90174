// Package render draws bar charts and tables for the named surfaces of a visor.
package render

import (
	"bytes"
	"fmt"
	"image"
	"image/color"
	"image/draw"
	"image/png"
	"math"
	"strings"
	"unicode/utf8"

	chart "github.com/wcharczuk/go-chart/v2"
	"github.com/wcharczuk/go-chart/v2/drawing"
	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/math/fixed"

	"github.com/iafilius/UserMetricChart/src/logging"
	"github.com/iafilius/UserMetricChart/src/types"
)

const (
	DefaultWidth  = 900
	DefaultHeight = 450
)

var barColor = drawing.Color{R: 66, G: 133, B: 244, A: 255}

// DefaultBarChartOptions returns the axis captions and size used for a metric plot.
func DefaultBarChartOptions(metricLabel string) types.BarChartOptions {
	return types.BarChartOptions{XLabel: "Users", YLabel: metricLabel, Width: DefaultWidth, Height: DefaultHeight}
}

// bars flattens data into chart values. With more than one series each bar label carries
// the series name.
func bars(data types.BarChartData) []chart.Value {
	var out []chart.Value
	for si, series := range data.Values {
		for i, v := range series {
			label := ""
			if i < len(data.Labels) {
				label = data.Labels[i]
			}
			if len(data.Values) > 1 && si < len(data.Series) {
				label = label + " · " + data.Series[si]
			}
			out = append(out, chart.Value{Value: v, Label: label, Style: chart.Style{FillColor: barColor, StrokeColor: barColor}})
		}
	}
	return out
}

// BarChartPNG renders data as a PNG. An empty dataset yields a blank canvas with a hint
// instead of an error.
func BarChartPNG(data types.BarChartData, opts types.BarChartOptions) ([]byte, error) {
	w, h := ComputeChartDimensions(opts.Width, opts.Height)
	values := bars(data)
	if len(values) == 0 {
		var buf bytes.Buffer
		if err := png.Encode(&buf, drawHint(blank(w, h), "No data: the endpoint returned no users")); err != nil {
			return nil, fmt.Errorf("png encode: %w", err)
		}
		return buf.Bytes(), nil
	}

	minV, maxV := 0.0, 0.0
	longest := 0
	for i, v := range values {
		if v.Value < minV {
			minV = v.Value
		}
		if v.Value > maxV {
			maxV = v.Value
		}
		values[i].Label = truncateLabel(v.Label, maxXLabelRunes)
		if n := utf8.RuneCountInString(values[i].Label); n > longest {
			longest = n
		}
	}
	tickVals := BuildNumericTicks(minV, maxV, 6)
	ticks := make([]chart.Tick, len(tickVals))
	for i, tv := range tickVals {
		ticks[i] = chart.Tick{Value: tv, Label: FormatNumericTick(tv)}
	}
	yMin, yMax := tickVals[0], tickVals[len(tickVals)-1]

	bc := chart.BarChart{
		Title:        opts.YLabel,
		TitleStyle:   chart.Style{FontSize: 12},
		Width:        w,
		Height:       h,
		BarWidth:     ComputeBarWidth(w, len(values)),
		UseBaseValue: true,
		BaseValue:    0,
		Background:   chart.Style{Padding: chart.Box{Top: 40, Left: 16, Right: 16, Bottom: bottomPadding(longest, opts.XLabel != "", h)}},
		XAxis:        chart.Style{FontSize: 8, TextRotationDegrees: 45},
		YAxis: chart.YAxis{
			Name:  opts.YLabel,
			Range: &chart.ContinuousRange{Min: yMin, Max: yMax},
			Ticks: ticks,
		},
		Bars: values,
	}
	if opts.XLabel != "" {
		bc.Elements = []chart.Renderable{axisCaption(opts.XLabel, h)}
	}
	var buf bytes.Buffer
	if err := bc.Render(chart.PNG, &buf); err != nil {
		return nil, fmt.Errorf("render bar chart: %w", err)
	}
	return buf.Bytes(), nil
}

// maxXLabelRunes is the longest bar label drawn under the axis; longer names get "...".
const maxXLabelRunes = 18

func truncateLabel(s string, n int) string {
	if utf8.RuneCountInString(s) <= n {
		return s
	}
	r := []rune(s)
	return string(r[:n-3]) + "..."
}

// bottomPadding reserves room under the plot for 45 degree labels of the given rune count
// plus the axis caption row. Capped at half the canvas.
func bottomPadding(longestRunes int, caption bool, h int) int {
	pad := 20 + int(math.Ceil(float64(longestRunes)*4.5))
	if caption {
		pad += 18
	}
	if pad > h/2 {
		pad = h / 2
	}
	return pad
}

// axisCaption draws text centered along the bottom edge of the chart.
func axisCaption(text string, h int) chart.Renderable {
	return func(r chart.Renderer, cb chart.Box, defaults chart.Style) {
		style := chart.Style{FontSize: 9, FontColor: drawing.ColorBlack}.InheritFrom(defaults)
		style.WriteToRenderer(r)
		tb := r.MeasureText(text)
		x := cb.Left + (cb.Width()-tb.Width())/2
		chart.Draw.Text(r, text, x, h-6, style)
	}
}

// BarChartImage is BarChartPNG decoded, for front ends that display an image.Image.
// Render failures fall back to a blank canvas carrying the error text.
func BarChartImage(data types.BarChartData, opts types.BarChartOptions) image.Image {
	b, err := BarChartPNG(data, opts)
	if err != nil {
		w, h := ComputeChartDimensions(opts.Width, opts.Height)
		logging.Warnf("[render] bar chart render error: %v; showing blank fallback", err)
		return drawHint(blank(w, h), err.Error())
	}
	img, err := png.Decode(bytes.NewReader(b))
	if err != nil {
		w, h := ComputeChartDimensions(opts.Width, opts.Height)
		logging.Warnf("[render] bar chart decode error: %v; showing blank fallback", err)
		return blank(w, h)
	}
	return img
}

func blank(w, h int) image.Image {
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	draw.Draw(img, img.Bounds(), image.NewUniform(color.RGBA{R: 245, G: 245, B: 245, A: 255}), image.Point{}, draw.Src)
	return img
}

// drawHint writes text near the vertical centre of img on a dark strip.
func drawHint(img image.Image, text string) image.Image {
	if img == nil || strings.TrimSpace(text) == "" {
		return img
	}
	b := img.Bounds()
	rgba := image.NewRGBA(b)
	draw.Draw(rgba, b, img, b.Min, draw.Src)
	face := basicfont.Face7x13
	dr := &font.Drawer{Dst: rgba, Src: image.NewUniform(color.RGBA{R: 255, G: 255, B: 255, A: 255}), Face: face}
	tw := dr.MeasureString(text).Ceil()
	x := b.Min.X + (b.Dx()-tw)/2
	if x < b.Min.X+8 {
		x = b.Min.X + 8
	}
	y := b.Min.Y + b.Dy()/2
	pad := 6
	bg := image.NewUniform(color.RGBA{R: 0, G: 0, B: 0, A: 200})
	rect := image.Rect(x-pad, y-face.Metrics().Ascent.Ceil()-pad, x+tw+pad, y+pad)
	draw.Draw(rgba, rect, bg, image.Point{}, draw.Over)
	dr.Dot = fixed.Point26_6{X: fixed.I(x), Y: fixed.I(y)}
	dr.DrawString(text)
	return rgba
}
