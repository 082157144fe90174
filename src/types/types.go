// Package types holds the records shared between the fetcher, the metric transformer
// and the chart facilities.
package types

// DefaultUsersURL is the public endpoint the fetcher reads when no URL is configured.
const DefaultUsersURL = "https://jsonplaceholder.typicode.com/users"

// Geo is the coordinate pair attached to an address. The endpoint encodes both as strings.
type Geo struct {
	Lat string `json:"lat"`
	Lng string `json:"lng"`
}

type Address struct {
	Street  string `json:"street"`
	Suite   string `json:"suite"`
	City    string `json:"city"`
	Zipcode string `json:"zipcode"`
	Geo     *Geo   `json:"geo,omitempty"`
}

type Company struct {
	Name        string `json:"name"`
	CatchPhrase string `json:"catchPhrase"`
	BS          string `json:"bs"`
}

// User is one record of the users endpoint. Address and Company are optional and stay nil
// when the payload omits them.
type User struct {
	ID       int      `json:"id"`
	Name     string   `json:"name"`
	Username string   `json:"username"`
	Email    string   `json:"email"`
	Phone    string   `json:"phone,omitempty"`
	Website  string   `json:"website,omitempty"`
	Address  *Address `json:"address,omitempty"`
	Company  *Company `json:"company,omitempty"`
}

// ChartPoint is one bar: the user's display name and the derived value.
type ChartPoint struct {
	Label string  `json:"label"`
	Value float64 `json:"value"`
}

// Surface names a render target on a visor. Tab groups surfaces visually.
type Surface struct {
	Name string `json:"name"`
	Tab  string `json:"tab"`
}

// Surfaces used by a plot cycle.
var (
	ChartSurface = Surface{Name: "Users Metric Chart", Tab: "Charts"}
	TableSurface = Surface{Name: "Transformed Data Table", Tab: "Charts"}
)

// BarChartData mirrors the series layout the chart facilities accept: Values[i] is the
// series named Series[i], and Labels names each bar position.
type BarChartData struct {
	Values [][]float64 `json:"values"`
	Series []string    `json:"series"`
	Labels []string    `json:"labels"`
}

// BarChartOptions controls axis labels and the requested canvas size in pixels.
type BarChartOptions struct {
	XLabel string `json:"xLabel"`
	YLabel string `json:"yLabel"`
	Width  int    `json:"width"`
	Height int    `json:"height"`
}

// TableRow is one row of the transformed data table.
type TableRow struct {
	User  string  `json:"user"`
	Value float64 `json:"value"`
}
