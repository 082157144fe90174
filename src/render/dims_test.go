package render

import (
	"math"
	"testing"
)

func TestComputeChartDimensions(t *testing.T) {
	cases := []struct {
		w, h         int
		wantW, wantH int
	}{
		{0, 0, 900, 450},
		{900, 450, 900, 450},
		{100, 0, 480, 280},
		{5000, 5000, 2400, 900},
		{1000, 100, 1000, 280},
	}
	for _, c := range cases {
		w, h := ComputeChartDimensions(c.w, c.h)
		if w != c.wantW || h != c.wantH {
			t.Fatalf("ComputeChartDimensions(%d,%d) = %d,%d want %d,%d", c.w, c.h, w, h, c.wantW, c.wantH)
		}
	}
}

func TestComputeBarWidth(t *testing.T) {
	if got := ComputeBarWidth(900, 0); got != 60 {
		t.Fatalf("no bars = %d", got)
	}
	if got := ComputeBarWidth(900, 10); got != 60 {
		t.Fatalf("10 bars = %d, want clamp 60", got)
	}
	if got := ComputeBarWidth(900, 1000); got != 6 {
		t.Fatalf("1000 bars = %d, want clamp 6", got)
	}
	if got := ComputeBarWidth(1000, 20); got != 35 {
		t.Fatalf("20 bars = %d, want 35", got)
	}
}

func TestBuildNumericTicks(t *testing.T) {
	ticks := BuildNumericTicks(0, 24, 6)
	if len(ticks) < 2 {
		t.Fatalf("too few ticks: %v", ticks)
	}
	if ticks[0] != 0 || ticks[len(ticks)-1] < 24 {
		t.Fatalf("ticks do not cover range: %v", ticks)
	}
	for i := 1; i < len(ticks); i++ {
		if ticks[i] <= ticks[i-1] {
			t.Fatalf("ticks not increasing: %v", ticks)
		}
	}
	if got := BuildNumericTicks(0, 0, 6); len(got) < 2 || got[len(got)-1] < 1 {
		t.Fatalf("degenerate range ticks: %v", got)
	}
	if BuildNumericTicks(0, 1, 1) != nil || BuildNumericTicks(math.NaN(), 1, 5) != nil {
		t.Fatalf("invalid input should return nil")
	}
}

func TestFormatNumericTick(t *testing.T) {
	cases := map[float64]string{0: "0", 20: "20", 2.5: "2.50", 12.5: "12.5", -3: "-3"}
	for in, want := range cases {
		if got := FormatNumericTick(in); got != want {
			t.Fatalf("FormatNumericTick(%v) = %q, want %q", in, got, want)
		}
	}
}

func TestSlug(t *testing.T) {
	cases := map[string]string{
		"Users Metric Chart":     "users-metric-chart",
		"Transformed Data Table": "transformed-data-table",
		"  --Odd__Name!! ":       "odd-name",
		"":                       "surface",
		"Ünïcode":                "n-code",
	}
	for in, want := range cases {
		if got := Slug(in); got != want {
			t.Fatalf("Slug(%q) = %q, want %q", in, got, want)
		}
	}
}
