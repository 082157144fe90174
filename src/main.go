// User Metric Chart entrypoint.
//
// Two modes:
//  1. Plot mode (default): print the multiply demonstration, fetch the users once, derive the
//     selected metric and write the visor surfaces (bar chart PNG, table PDF) under --out.
//  2. Serve mode (--serve addr): serve the plot page; each Plot press runs one cycle and the
//     page shows the surfaces from memory (and writes them under --out when it is given).
//
// Design notes:
//   - A plot is fetch -> transform -> render, run by presenter.Presenter; the visor and status sink
//     are injected so both modes share it.
//   - A metric is either a built-in key (--metric) or a CEL expression over `user` (--expr).
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/iafilius/UserMetricChart/src/fetcher"
	"github.com/iafilius/UserMetricChart/src/logging"
	"github.com/iafilius/UserMetricChart/src/metrics"
	"github.com/iafilius/UserMetricChart/src/multiply"
	"github.com/iafilius/UserMetricChart/src/presenter"
	"github.com/iafilius/UserMetricChart/src/render"
	"github.com/iafilius/UserMetricChart/src/types"
	"github.com/iafilius/UserMetricChart/src/web"
)

type options struct {
	url         string
	metric      string
	expr        string
	label       string
	outDir      string
	outSet      bool
	httpTimeout time.Duration
	logLevel    string
	multiply    string
	serve       string
	geoipDB     string
}

func parseFlags(args []string, stderr io.Writer) (*options, error) {
	fs := flag.NewFlagSet("usermetricchart", flag.ContinueOnError)
	fs.SetOutput(stderr)
	o := &options{}
	fs.StringVar(&o.url, "url", types.DefaultUsersURL, "Users endpoint (GET, JSON array)")
	fs.StringVar(&o.metric, "metric", string(metrics.CompanyNameLength), "Metric: "+metricKeys())
	fs.StringVar(&o.expr, "expr", "", "CEL expression over `user` used instead of --metric (e.g. size(user.email))")
	fs.StringVar(&o.label, "label", "", "Series label for --expr (defaults to the expression)")
	fs.StringVar(&o.outDir, "out", "./visor", "Directory receiving the rendered surfaces")
	fs.DurationVar(&o.httpTimeout, "http-timeout", fetcher.DefaultTimeout, "Total timeout of the users request")
	fs.StringVar(&o.logLevel, "log-level", "info", "Log level (debug|info|warn|error)")
	fs.StringVar(&o.multiply, "multiply", "", "Comma separated numbers for the multiply demonstration (default 2,3,4,5)")
	fs.StringVar(&o.serve, "serve", "", "Serve the plot page on this address (e.g. :8080) instead of plotting once")
	fs.StringVar(&o.geoipDB, "geoip-db", "", "GeoLite2 country database for debug diagnostics of the remote IP")
	if err := fs.Parse(args); err != nil {
		return nil, err
	}
	fs.Visit(func(f *flag.Flag) {
		if f.Name == "out" {
			o.outSet = true
		}
	})
	return o, nil
}

func metricKeys() string {
	keys := make([]string, len(metrics.All))
	for i, m := range metrics.All {
		keys[i] = string(m)
	}
	return strings.Join(keys, "|")
}

func selector(o *options) (metrics.Selector, error) {
	if o.expr != "" {
		return metrics.CompileExpr(o.expr, o.label)
	}
	m, ok := metrics.ParseMetric(o.metric)
	if !ok {
		logging.Warnf("[init] unknown metric %q; every value will be 0 (known: %s)", o.metric, metricKeys())
	}
	return m, nil
}

// showMultiply prints the demonstration line; failures are shown, not fatal.
func showMultiply(out io.Writer, list string) {
	if strings.TrimSpace(list) == "" {
		multiply.Demonstrate(out, multiply.DemoArgs...)
		return
	}
	var tokens []string
	for _, tok := range strings.Split(list, ",") {
		if tok = strings.TrimSpace(tok); tok != "" {
			tokens = append(tokens, tok)
		}
	}
	res, err := multiply.ParseAndMultiply(tokens)
	if err != nil {
		fmt.Fprintln(out, err.Error())
		return
	}
	fmt.Fprintf(out, "multiplyAll(%s) = %g\n", strings.Join(tokens, ", "), res)
}

// printTable writes the transformed rows after a successful plot.
func printTable(out io.Writer, label string, pts []types.ChartPoint, sum metrics.Summary) {
	width := len("user")
	for _, p := range pts {
		if len(p.Label) > width {
			width = len(p.Label)
		}
	}
	fmt.Fprintf(out, "%-*s  %s\n", width, "user", label)
	for _, p := range pts {
		fmt.Fprintf(out, "%-*s  %s\n", width, p.Label, render.FormatNumericTick(p.Value))
	}
	fmt.Fprintf(out, "count=%d min=%s max=%s mean=%.2f\n", sum.Count,
		render.FormatNumericTick(sum.Min), render.FormatNumericTick(sum.Max), sum.Mean)
}

func newClient(o *options) *fetcher.Client {
	c := fetcher.New(o.url, o.httpTimeout)
	if o.geoipDB != "" {
		c.GeoIPPaths = append([]string{o.geoipDB}, c.GeoIPPaths...)
	}
	return c
}

// plotOnce runs one cycle into a DirVisor. Status lines go to stdout.
func plotOnce(ctx context.Context, o *options, stdout io.Writer) error {
	sel, err := selector(o)
	if err != nil {
		fmt.Fprintf(stdout, "Error: %v\n", err)
		return err
	}
	visor := render.NewDirVisor(o.outDir)
	defer visor.Close()
	status := &presenter.StatusText{OnChange: func(s string) { fmt.Fprintf(stdout, "[status] %s\n", s) }}
	p := presenter.New(newClient(o), visor, status)

	res, err := p.Plot(ctx, sel)
	if err != nil {
		return err
	}
	printTable(stdout, sel.Label(), res.Points, res.Summary)
	for _, path := range visor.Written() {
		fmt.Fprintf(stdout, "surface: %s\n", path)
	}
	return nil
}

func serve(ctx context.Context, o *options) error {
	var extra []render.Facility
	if o.outSet {
		extra = append(extra, render.NewDirVisor(o.outDir))
	}
	srv := &http.Server{
		Addr:              o.serve,
		Handler:           web.NewServer(newClient(o), extra...),
		ReadHeaderTimeout: 10 * time.Second,
	}
	errCh := make(chan error, 1)
	go func() {
		logging.Infof("[serve] listening on %s", o.serve)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()
	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}
	logging.Infof("[serve] shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}

// run is main without the process exit, returning the exit code.
func run(ctx context.Context, args []string, stdout, stderr io.Writer) int {
	o, err := parseFlags(args, stderr)
	if err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return 0
		}
		return 2
	}
	logging.SetLogLevel(o.logLevel)
	logging.EnableOTELFromEnv(ctx)
	defer func() {
		if err := logging.Shutdown(context.Background()); err != nil {
			fmt.Fprintf(stderr, "log shutdown: %v\n", err)
		}
	}()

	showMultiply(stdout, o.multiply)

	if o.serve != "" {
		if err := serve(ctx, o); err != nil {
			fmt.Fprintf(stderr, "[serve] %v\n", err)
			return 1
		}
		return 0
	}
	if err := plotOnce(ctx, o, stdout); err != nil {
		return 1
	}
	return 0
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	code := run(ctx, os.Args[1:], os.Stdout, os.Stderr)
	stop()
	os.Exit(code)
}
