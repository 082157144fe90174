package render

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"sync"
	"time"

	"github.com/iafilius/UserMetricChart/src/logging"
	"github.com/iafilius/UserMetricChart/src/types"
)

// Facility is the set of operations a visor offers: open/close the panel and render a
// bar chart or table onto a named surface.
type Facility interface {
	Open() error
	Close() error
	RenderBarChart(s types.Surface, data types.BarChartData, opts types.BarChartOptions) error
	RenderTable(s types.Surface, rows []types.TableRow) error
}

// DirVisor writes each surface to Dir: bar charts as <slug>.png, tables as <slug>.pdf.
type DirVisor struct {
	Dir string
	// Now stamps generated tables; time.Now when nil.
	Now func() time.Time

	mu      sync.Mutex
	written []string
}

func NewDirVisor(dir string) *DirVisor { return &DirVisor{Dir: dir} }

func (v *DirVisor) Open() error {
	if err := os.MkdirAll(v.Dir, 0o755); err != nil {
		return fmt.Errorf("create out dir: %w", err)
	}
	return nil
}

// Close logs the files written since Open.
func (v *DirVisor) Close() error {
	v.mu.Lock()
	defer v.mu.Unlock()
	for _, p := range v.written {
		logging.Infof("[visor] wrote %s", p)
	}
	v.written = nil
	return nil
}

// Written returns the paths written since the last Close.
func (v *DirVisor) Written() []string {
	v.mu.Lock()
	defer v.mu.Unlock()
	return append([]string(nil), v.written...)
}

func (v *DirVisor) RenderBarChart(s types.Surface, data types.BarChartData, opts types.BarChartOptions) error {
	b, err := BarChartPNG(data, opts)
	if err != nil {
		return err
	}
	return v.write(Slug(s.Name)+".png", b)
}

func (v *DirVisor) RenderTable(s types.Surface, rows []types.TableRow) error {
	now := time.Now
	if v.Now != nil {
		now = v.Now
	}
	b, err := TablePDF(s.Name, rows, now())
	if err != nil {
		return err
	}
	return v.write(Slug(s.Name)+".pdf", b)
}

func (v *DirVisor) write(name string, b []byte) error {
	p := filepath.Join(v.Dir, name)
	if err := os.WriteFile(p, b, 0o644); err != nil {
		return fmt.Errorf("write %s: %w", p, err)
	}
	v.mu.Lock()
	v.written = append(v.written, p)
	v.mu.Unlock()
	return nil
}

// SurfaceContent is what a MemoryVisor holds for one surface.
type SurfaceContent struct {
	Surface   types.Surface
	Slug      string
	PNG       []byte
	Data      *types.BarChartData
	Options   types.BarChartOptions
	Rows      []types.TableRow
	IsTable   bool
	UpdatedAt time.Time
}

// MemoryVisor keeps the latest render of every surface for another goroutine (an HTTP
// handler, a UI loop) to read.
type MemoryVisor struct {
	mu       sync.RWMutex
	open     bool
	surfaces map[string]SurfaceContent
}

func NewMemoryVisor() *MemoryVisor {
	return &MemoryVisor{surfaces: map[string]SurfaceContent{}}
}

func (v *MemoryVisor) Open() error {
	v.mu.Lock()
	v.open = true
	v.mu.Unlock()
	return nil
}

func (v *MemoryVisor) Close() error {
	v.mu.Lock()
	v.open = false
	v.mu.Unlock()
	return nil
}

func (v *MemoryVisor) IsOpen() bool {
	v.mu.RLock()
	defer v.mu.RUnlock()
	return v.open
}

func (v *MemoryVisor) RenderBarChart(s types.Surface, data types.BarChartData, opts types.BarChartOptions) error {
	b, err := BarChartPNG(data, opts)
	if err != nil {
		return err
	}
	d := data
	v.store(SurfaceContent{Surface: s, PNG: b, Data: &d, Options: opts})
	return nil
}

func (v *MemoryVisor) RenderTable(s types.Surface, rows []types.TableRow) error {
	v.store(SurfaceContent{Surface: s, Rows: append([]types.TableRow(nil), rows...), IsTable: true})
	return nil
}

func (v *MemoryVisor) store(c SurfaceContent) {
	c.Slug = Slug(c.Surface.Name)
	c.UpdatedAt = time.Now()
	v.mu.Lock()
	v.surfaces[c.Slug] = c
	v.mu.Unlock()
}

// Surface looks a surface up by slug.
func (v *MemoryVisor) Surface(slug string) (SurfaceContent, bool) {
	v.mu.RLock()
	defer v.mu.RUnlock()
	c, ok := v.surfaces[slug]
	return c, ok
}

// Surfaces returns every rendered surface ordered by tab, then name.
func (v *MemoryVisor) Surfaces() []SurfaceContent {
	v.mu.RLock()
	out := make([]SurfaceContent, 0, len(v.surfaces))
	for _, c := range v.surfaces {
		out = append(out, c)
	}
	v.mu.RUnlock()
	sort.Slice(out, func(i, j int) bool {
		if out[i].Surface.Tab != out[j].Surface.Tab {
			return out[i].Surface.Tab < out[j].Surface.Tab
		}
		return out[i].Surface.Name < out[j].Surface.Name
	})
	return out
}

// Multi fans every call out to all facilities, in order. All are attempted; the errors
// are joined.
type Multi []Facility

func (m Multi) Open() error {
	var errs []error
	for _, f := range m {
		errs = append(errs, f.Open())
	}
	return errors.Join(errs...)
}

func (m Multi) Close() error {
	var errs []error
	for _, f := range m {
		errs = append(errs, f.Close())
	}
	return errors.Join(errs...)
}

func (m Multi) RenderBarChart(s types.Surface, data types.BarChartData, opts types.BarChartOptions) error {
	var errs []error
	for _, f := range m {
		errs = append(errs, f.RenderBarChart(s, data, opts))
	}
	return errors.Join(errs...)
}

func (m Multi) RenderTable(s types.Surface, rows []types.TableRow) error {
	var errs []error
	for _, f := range m {
		errs = append(errs, f.RenderTable(s, rows))
	}
	return errors.Join(errs...)
}
