package render

import (
	"math"
	"strconv"
)

// ComputeChartDimensions clamps a requested canvas size. Width stays within [480, 2400];
// a non-positive height is derived from the width at 1:2 and clamped to [280, 900].
func ComputeChartDimensions(rawW, rawH int) (int, int) {
	w := rawW
	if w <= 0 {
		w = DefaultWidth
	}
	if w < 480 {
		w = 480
	}
	if w > 2400 {
		w = 2400
	}
	h := rawH
	if h <= 0 {
		h = int(float32(w) * 0.5)
	}
	if h < 280 {
		h = 280
	}
	if h > 900 {
		h = 900
	}
	return w, h
}

// ComputeBarWidth spreads n bars over roughly 70% of the canvas width, clamped to [6, 60].
func ComputeBarWidth(canvasW, n int) int {
	if n <= 0 {
		return 60
	}
	bw := int(float64(canvasW) * 0.7 / float64(n))
	if bw < 6 {
		bw = 6
	}
	if bw > 60 {
		bw = 60
	}
	return bw
}

// BuildNumericTicks generates up to n tick marks spanning [min,max] using a 1,2,2.5,5 step
// pattern. Returns raw positions; labels are left to FormatNumericTick.
func BuildNumericTicks(min, max float64, n int) []float64 {
	if n < 2 || math.IsNaN(min) || math.IsNaN(max) {
		return nil
	}
	if max <= min {
		max = min + 1
	}
	span := max - min
	mag := math.Pow(10, math.Floor(math.Log10(span/float64(n-1))))
	candidates := []float64{1, 2, 2.5, 5, 10}
	bestStep := mag
	bestScore := math.MaxFloat64
	for _, c := range candidates {
		step := c * mag
		count := math.Ceil(span/step) + 1
		if count < 2 {
			count = 2
		}
		diff := math.Abs(count - float64(n))
		if diff < bestScore {
			bestScore = diff
			bestStep = step
		}
	}
	start := math.Floor(min/bestStep) * bestStep
	end := math.Ceil(max/bestStep) * bestStep
	var out []float64
	for v := start; v <= end+bestStep*0.5; v += bestStep {
		out = append(out, round6(v))
	}
	if len(out) < 2 {
		out = []float64{min, max}
	}
	return out
}

func round6(v float64) float64 { return math.Round(v*1e6) / 1e6 }

// FormatNumericTick gives whole numbers without decimals and fractions with up to two.
func FormatNumericTick(v float64) string {
	if v == math.Trunc(v) {
		return strconv.FormatInt(int64(v), 10)
	}
	av := math.Abs(v)
	switch {
	case av >= 10:
		return strconv.FormatFloat(v, 'f', 1, 64)
	default:
		return strconv.FormatFloat(v, 'f', 2, 64)
	}
}

// Slug turns a surface name into a file-name-safe token: lowercase, runs of anything other
// than [a-z0-9] collapse into one '-'.
func Slug(name string) string {
	out := make([]byte, 0, len(name))
	dash := false
	for _, r := range name {
		switch {
		case r >= 'A' && r <= 'Z':
			out = append(out, byte(r-'A'+'a'))
			dash = false
		case (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9'):
			out = append(out, byte(r))
			dash = false
		default:
			if !dash && len(out) > 0 {
				out = append(out, '-')
				dash = true
			}
		}
	}
	if n := len(out); n > 0 && out[n-1] == '-' {
		out = out[:n-1]
	}
	if len(out) == 0 {
		return "surface"
	}
	return string(out)
}
