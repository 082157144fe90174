// Package metrics derives one number per user and shapes the results for the chart
// facilities. Every function here is pure.
package metrics

import (
	"unicode/utf8"

	"github.com/iafilius/UserMetricChart/src/types"
)

// Selector picks the value plotted for each user.
type Selector interface {
	Key() string
	Label() string
	Value(u types.User) float64
}

// Metric is one of the built-in length metrics.
type Metric string

const (
	CompanyNameLength Metric = "companyNameLength"
	UsernameLength    Metric = "usernameLength"
	EmailLength       Metric = "emailLength"
	CityNameLength    Metric = "cityNameLength"
)

// All lists the built-in metrics in display order.
var All = []Metric{CompanyNameLength, UsernameLength, EmailLength, CityNameLength}

var labels = map[Metric]string{
	CompanyNameLength: "Company name length",
	UsernameLength:    "Username length",
	EmailLength:       "Email length",
	CityNameLength:    "City name length",
}

// ParseMetric matches s exactly against the metric keys. Unknown keys are returned as-is
// with ok=false; such a metric still transforms, to zeros.
func ParseMetric(s string) (Metric, bool) {
	for _, m := range All {
		if s == string(m) {
			return m, true
		}
	}
	return Metric(s), false
}

// MetricFromLabel is the inverse of Label for the built-in metrics.
func MetricFromLabel(label string) (Metric, bool) {
	for m, l := range labels {
		if l == label {
			return m, true
		}
	}
	return "", false
}

// Labels returns the display labels of All, in order.
func Labels() []string {
	out := make([]string, len(All))
	for i, m := range All {
		out[i] = labels[m]
	}
	return out
}

func (m Metric) Key() string { return string(m) }

// Label is the axis/series caption.
func (m Metric) Label() string {
	if l, ok := labels[m]; ok {
		return l
	}
	return "Unknown metric (" + string(m) + ")"
}

func (m Metric) Value(u types.User) float64 { return ComputeMetricValue(u, m) }

// ComputeMetricValue returns the character length of the field m selects. Missing fields,
// missing parents and unknown metrics all yield 0.
func ComputeMetricValue(u types.User, m Metric) float64 {
	switch m {
	case CompanyNameLength:
		if u.Company == nil {
			return 0
		}
		return length(u.Company.Name)
	case UsernameLength:
		return length(u.Username)
	case EmailLength:
		return length(u.Email)
	case CityNameLength:
		if u.Address == nil {
			return 0
		}
		return length(u.Address.City)
	}
	return 0
}

func length(s string) float64 { return float64(utf8.RuneCountInString(s)) }

// TransformUsers maps users to chart points in input order, labelled by user name.
func TransformUsers(users []types.User, sel Selector) []types.ChartPoint {
	out := make([]types.ChartPoint, len(users))
	for i, u := range users {
		out[i] = types.ChartPoint{Label: u.Name, Value: sel.Value(u)}
	}
	return out
}

// ToBarChartData lays points out as a single series named seriesLabel.
func ToBarChartData(points []types.ChartPoint, seriesLabel string) types.BarChartData {
	values := make([]float64, len(points))
	lbls := make([]string, len(points))
	for i, p := range points {
		values[i] = p.Value
		lbls[i] = p.Label
	}
	return types.BarChartData{
		Values: [][]float64{values},
		Series: []string{seriesLabel},
		Labels: lbls,
	}
}

// ToTableRows converts points to table rows, preserving order.
func ToTableRows(points []types.ChartPoint) []types.TableRow {
	rows := make([]types.TableRow, len(points))
	for i, p := range points {
		rows[i] = types.TableRow{User: p.Label, Value: p.Value}
	}
	return rows
}
