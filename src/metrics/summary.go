package metrics

import "github.com/iafilius/UserMetricChart/src/types"

// Summary aggregates one transformed dataset.
type Summary struct {
	Count int     `json:"count"`
	Min   float64 `json:"min"`
	Max   float64 `json:"max"`
	Mean  float64 `json:"mean"`
	Total float64 `json:"total"`
}

// Summarize returns the zero Summary for no points.
func Summarize(points []types.ChartPoint) Summary {
	if len(points) == 0 {
		return Summary{}
	}
	s := Summary{Count: len(points), Min: points[0].Value, Max: points[0].Value}
	for _, p := range points {
		s.Total += p.Value
		if p.Value < s.Min {
			s.Min = p.Value
		}
		if p.Value > s.Max {
			s.Max = p.Value
		}
	}
	s.Mean = s.Total / float64(s.Count)
	return s
}
