// Package presenter runs one plot cycle: fetch users, transform them with a metric and hand
// the result to a chart facility, reporting progress on a status sink.
package presenter

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"

	"github.com/iafilius/UserMetricChart/src/logging"
	"github.com/iafilius/UserMetricChart/src/metrics"
	"github.com/iafilius/UserMetricChart/src/render"
	"github.com/iafilius/UserMetricChart/src/types"
)

// Status texts shown during a plot.
const (
	StatusFetching     = "Fetching users..."
	StatusTransforming = "Transforming data..."
	StatusPlotting     = "Plotting chart (open the visor)..."
	StatusDone         = "Done. Open the visor to see the chart."
)

// ErrBusy is returned when Plot is called while another plot is still running.
var ErrBusy = errors.New("a plot is already in progress")

// StatusSink receives user-visible progress text.
type StatusSink interface {
	SetStatus(text string)
}

// ChartFacility renders onto named surfaces of a visor.
type ChartFacility interface {
	Open() error
	Close() error
	RenderBarChart(s types.Surface, data types.BarChartData, opts types.BarChartOptions) error
	RenderTable(s types.Surface, rows []types.TableRow) error
}

// UserSource yields the records to plot.
type UserSource interface {
	FetchUsers(ctx context.Context) ([]types.User, error)
}

// Result describes a completed plot.
type Result struct {
	RunID   string
	Metric  string
	Points  []types.ChartPoint
	Summary metrics.Summary
	Elapsed time.Duration
}

// Presenter wires the collaborators together. Only one Plot runs at a time.
type Presenter struct {
	source UserSource
	visor  ChartFacility
	status StatusSink

	busy atomic.Bool
}

func New(source UserSource, visor ChartFacility, status StatusSink) *Presenter {
	return &Presenter{source: source, visor: visor, status: status}
}

// Busy reports whether a plot is in flight. Front ends use it to disable their trigger.
func (p *Presenter) Busy() bool { return p.busy.Load() }

// Plot runs one fetch/transform/render cycle. Any failure is written to the status sink as
// "Error: <message>", logged, and returned. Overlapping calls get ErrBusy and leave the
// status untouched.
func (p *Presenter) Plot(ctx context.Context, sel metrics.Selector) (*Result, error) {
	if !p.busy.CompareAndSwap(false, true) {
		return nil, ErrBusy
	}
	defer p.busy.Store(false)

	runID := uuid.NewString()
	key := "<none>"
	if sel != nil {
		key = sel.Key()
	}
	start := time.Now()
	res, err := p.plot(ctx, sel)
	if err != nil {
		logging.Errorf("[plot %s] metric=%s: %v", runID, key, err)
		p.setStatus("Error: " + err.Error())
		return nil, err
	}
	res.RunID = runID
	res.Elapsed = time.Since(start)
	logging.Infof("[plot %s] metric=%s users=%d min=%s max=%s mean=%.2f time=%dms",
		runID, res.Metric, res.Summary.Count, render.FormatNumericTick(res.Summary.Min),
		render.FormatNumericTick(res.Summary.Max), res.Summary.Mean, res.Elapsed.Milliseconds())
	return res, nil
}

func (p *Presenter) plot(ctx context.Context, sel metrics.Selector) (*Result, error) {
	if sel == nil {
		return nil, fmt.Errorf("no metric selected")
	}
	p.setStatus(StatusFetching)
	users, err := p.source.FetchUsers(ctx)
	if err != nil {
		return nil, err
	}

	p.setStatus(StatusTransforming)
	points := metrics.TransformUsers(users, sel)

	p.setStatus(StatusPlotting)
	label := sel.Label()
	if err := p.visor.Open(); err != nil {
		return nil, fmt.Errorf("open visor: %w", err)
	}
	if err := p.visor.RenderBarChart(types.ChartSurface, metrics.ToBarChartData(points, label), render.DefaultBarChartOptions(label)); err != nil {
		return nil, err
	}
	if err := p.visor.RenderTable(types.TableSurface, metrics.ToTableRows(points)); err != nil {
		return nil, err
	}

	p.setStatus(StatusDone)
	return &Result{Metric: sel.Key(), Points: points, Summary: metrics.Summarize(points)}, nil
}

// Trigger is the click handler form of Plot: the error has already been reported on the
// status sink, so it is dropped here. ErrBusy is silent.
func (p *Presenter) Trigger(ctx context.Context, sel metrics.Selector) {
	_, _ = p.Plot(ctx, sel)
}

func (p *Presenter) setStatus(s string) {
	if p.status != nil {
		p.status.SetStatus(s)
	}
}

// StatusText is a StatusSink that remembers the latest text and every text it was given.
type StatusText struct {
	mu      sync.RWMutex
	current string
	history []string
	// OnChange, when set, is called with each new text after it is stored.
	OnChange func(string)
}

func (s *StatusText) SetStatus(text string) {
	s.mu.Lock()
	s.current = text
	s.history = append(s.history, text)
	fn := s.OnChange
	s.mu.Unlock()
	if fn != nil {
		fn(text)
	}
}

func (s *StatusText) Text() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.current
}

func (s *StatusText) History() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]string(nil), s.history...)
}
