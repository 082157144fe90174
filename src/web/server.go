// Package web serves the plot page: a metric form, the status line and the surfaces of an
// in-memory visor.
package web

import (
	"bytes"
	"encoding/json"
	"errors"
	"html/template"
	"net/http"
	"sync"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/iafilius/UserMetricChart/src/fetcher"
	"github.com/iafilius/UserMetricChart/src/logging"
	"github.com/iafilius/UserMetricChart/src/metrics"
	"github.com/iafilius/UserMetricChart/src/multiply"
	"github.com/iafilius/UserMetricChart/src/presenter"
	"github.com/iafilius/UserMetricChart/src/render"
	"github.com/iafilius/UserMetricChart/src/types"
)

// Server owns the presenter and the memory visor it renders into.
type Server struct {
	source    presenter.UserSource
	visor     *render.MemoryVisor
	status    *presenter.StatusText
	presenter *presenter.Presenter
	router    chi.Router

	mu      sync.Mutex
	lastKey string
}

// NewServer builds the routes. extra facilities (for example a DirVisor) receive the same
// renders as the page.
func NewServer(source presenter.UserSource, extra ...render.Facility) *Server {
	s := &Server{
		source: source,
		visor:  render.NewMemoryVisor(),
		status: &presenter.StatusText{},
	}
	var facility presenter.ChartFacility = s.visor
	if len(extra) > 0 {
		facility = append(render.Multi{s.visor}, extra...)
	}
	s.presenter = presenter.New(source, facility, s.status)
	s.status.SetStatus("Pick a metric and press Plot.")
	s.setupRoutes()
	return s
}

func (s *Server) setupRoutes() {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(60 * time.Second))

	r.Get("/", s.handleIndex)
	r.Post("/plot", s.handlePlot)
	r.Get("/surfaces/{slug}.png", s.handleSurfacePNG)
	r.Get("/api/points", s.handlePoints)
	r.Get("/api/status", s.handleStatus)
	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})
	s.router = r
}

func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) { s.router.ServeHTTP(w, r) }

type metricOption struct {
	Key      string
	Label    string
	Selected bool
}

type pageData struct {
	Multiply string
	Status   string
	Busy     bool
	Options  []metricOption
	Chart    *render.SurfaceContent
	Table    *render.SurfaceContent
	Version  int64
}

func (s *Server) handleIndex(w http.ResponseWriter, r *http.Request) {
	var demo bytes.Buffer
	multiply.Demonstrate(&demo, multiply.DemoArgs...)
	data := pageData{
		Multiply: demo.String(),
		Status:   s.status.Text(),
		Busy:     s.presenter.Busy(),
	}
	s.mu.Lock()
	last := s.lastKey
	s.mu.Unlock()
	for _, m := range metrics.All {
		data.Options = append(data.Options, metricOption{Key: m.Key(), Label: m.Label(), Selected: m.Key() == last})
	}
	if c, ok := s.visor.Surface(render.Slug(types.ChartSurface.Name)); ok {
		data.Chart = &c
		data.Version = c.UpdatedAt.UnixNano()
	}
	if c, ok := s.visor.Surface(render.Slug(types.TableSurface.Name)); ok {
		data.Table = &c
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := pageTmpl.Execute(w, data); err != nil {
		logging.Warnf("[web] render page: %v", err)
	}
}

// selectorFromRequest reads `expr` (CEL) first, then `metric`. Unknown metric keys are
// accepted and plot zeros.
func selectorFromRequest(r *http.Request) (metrics.Selector, error) {
	if expr := r.FormValue("expr"); expr != "" {
		return metrics.CompileExpr(expr, r.FormValue("label"))
	}
	m, ok := metrics.ParseMetric(r.FormValue("metric"))
	if !ok {
		logging.Warnf("[web] unknown metric %q, values will be 0", r.FormValue("metric"))
	}
	return m, nil
}

func (s *Server) handlePlot(w http.ResponseWriter, r *http.Request) {
	sel, err := selectorFromRequest(r)
	if err != nil {
		s.status.SetStatus("Error: " + err.Error())
		http.Redirect(w, r, "/", http.StatusSeeOther)
		return
	}
	s.mu.Lock()
	s.lastKey = sel.Key()
	s.mu.Unlock()
	if _, err := s.presenter.Plot(r.Context(), sel); errors.Is(err, presenter.ErrBusy) {
		http.Error(w, err.Error(), http.StatusConflict)
		return
	}
	http.Redirect(w, r, "/", http.StatusSeeOther)
}

func (s *Server) handleSurfacePNG(w http.ResponseWriter, r *http.Request) {
	c, ok := s.visor.Surface(chi.URLParam(r, "slug"))
	if !ok || len(c.PNG) == 0 {
		http.NotFound(w, r)
		return
	}
	w.Header().Set("Content-Type", "image/png")
	w.Header().Set("Cache-Control", "no-store")
	_, _ = w.Write(c.PNG)
}

type pointsResponse struct {
	Metric  string             `json:"metric"`
	Label   string             `json:"label"`
	Points  []types.ChartPoint `json:"points"`
	Summary metrics.Summary    `json:"summary"`
}

// handlePoints fetches and transforms without touching the visor.
func (s *Server) handlePoints(w http.ResponseWriter, r *http.Request) {
	sel, err := selectorFromRequest(r)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": err.Error()})
		return
	}
	users, err := s.source.FetchUsers(r.Context())
	if err != nil {
		var se *fetcher.StatusError
		body := map[string]any{"error": err.Error()}
		if errors.As(err, &se) {
			body["upstream_status"] = se.StatusCode
		}
		writeJSON(w, http.StatusBadGateway, body)
		return
	}
	pts := metrics.TransformUsers(users, sel)
	writeJSON(w, http.StatusOK, pointsResponse{Metric: sel.Key(), Label: sel.Label(), Points: pts, Summary: metrics.Summarize(pts)})
}

func (s *Server) handleStatus(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{"status": s.status.Text(), "busy": s.presenter.Busy(), "visor_open": s.visor.IsOpen()})
}

func writeJSON(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		logging.Warnf("[web] encode response: %v", err)
	}
}

var pageTmpl = template.Must(template.New("page").Parse(`<!doctype html>
<html>
<head><meta charset="utf-8"><title>User Metric Chart</title></head>
<body>
<h1>User Metric Chart</h1>
<p id="multiplyResult">{{.Multiply}}</p>
<form method="post" action="/plot">
  <label for="metric">Metric</label>
  <select id="metric" name="metric">
  {{range .Options}}<option value="{{.Key}}"{{if .Selected}} selected{{end}}>{{.Label}}</option>
  {{end}}</select>
  <button id="plotBtn" type="submit"{{if .Busy}} disabled{{end}}>Plot</button>
</form>
<p id="status">{{.Status}}</p>
{{with .Chart}}<h2>{{.Surface.Name}}</h2>
<img src="/surfaces/{{.Slug}}.png?v={{$.Version}}" width="{{.Options.Width}}" alt="{{.Surface.Name}}">
{{end}}
{{with .Table}}<h2>{{.Surface.Name}}</h2>
<table border="1">
<tr><th>user</th><th>value</th></tr>
{{range .Rows}}<tr><td>{{.User}}</td><td>{{.Value}}</td></tr>
{{else}}<tr><td colspan="2">(no rows)</td></tr>
{{end}}</table>
{{end}}
</body>
</html>
`))
