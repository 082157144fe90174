// Package fetcher retrieves user records from the users endpoint with a single GET.
package fetcher

import (
	"context"
	"encoding/json"
	"fmt"
	"net"
	"net/http"
	"net/http/httptrace"
	"time"

	"github.com/iafilius/UserMetricChart/src/logging"
	"github.com/iafilius/UserMetricChart/src/types"
)

// DefaultTimeout bounds the whole request including body transfer.
const DefaultTimeout = 15 * time.Second

// StatusError reports a response outside the 2xx range.
type StatusError struct {
	StatusCode int
	Status     string
	URL        string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("failed to fetch users. Status: %d", e.StatusCode)
}

// Client fetches users from URL. The zero value is not usable; use New.
type Client struct {
	URL        string
	HTTPClient *http.Client
	UserAgent  string
	// GeoIPPaths lists GeoLite2 country databases consulted for debug diagnostics.
	GeoIPPaths []string
}

// New returns a Client for url (DefaultUsersURL when empty) with the given total timeout
// (DefaultTimeout when <= 0).
func New(url string, timeout time.Duration) *Client {
	if url == "" {
		url = types.DefaultUsersURL
	}
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	return &Client{
		URL:        url,
		HTTPClient: &http.Client{Timeout: timeout},
		UserAgent:  "user-metric-chart/1.0",
		GeoIPPaths: defaultCountryDBPaths,
	}
}

// Diagnostics describes one completed request.
type Diagnostics struct {
	RemoteIP   string
	Country    string
	StatusCode int
	TTFB       time.Duration
	Duration   time.Duration
}

// FetchUsers issues the GET and decodes the JSON array of users. A non-2xx status yields a
// *StatusError; transport and decode failures are wrapped with their cause.
func (c *Client) FetchUsers(ctx context.Context) ([]types.User, error) {
	users, _, err := c.FetchUsersWithDiagnostics(ctx)
	return users, err
}

// FetchUsersWithDiagnostics is FetchUsers that also reports connection details.
func (c *Client) FetchUsersWithDiagnostics(ctx context.Context) ([]types.User, Diagnostics, error) {
	var diag Diagnostics
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.URL, nil)
	if err != nil {
		return nil, diag, fmt.Errorf("fetch users: build request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	if c.UserAgent != "" {
		req.Header.Set("User-Agent", c.UserAgent)
	}

	var gotFirstByteT time.Time
	trace := &httptrace.ClientTrace{
		GotConn: func(info httptrace.GotConnInfo) {
			if ta, ok := info.Conn.RemoteAddr().(*net.TCPAddr); ok {
				diag.RemoteIP = ta.IP.String()
			} else {
				diag.RemoteIP = info.Conn.RemoteAddr().String()
			}
		},
		GotFirstResponseByte: func() { gotFirstByteT = time.Now() },
	}
	req = req.WithContext(httptrace.WithClientTrace(req.Context(), trace))

	hc := c.HTTPClient
	if hc == nil {
		hc = http.DefaultClient
	}
	logging.Debugf("[fetch] GET %s", c.URL)
	start := time.Now()
	resp, err := hc.Do(req)
	if err != nil {
		logging.Warnf("[fetch] GET %s failed: %v", c.URL, err)
		return nil, diag, fmt.Errorf("fetch users: %w", err)
	}
	defer resp.Body.Close()
	diag.StatusCode = resp.StatusCode
	if !gotFirstByteT.IsZero() {
		diag.TTFB = gotFirstByteT.Sub(start)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		diag.Duration = time.Since(start)
		return nil, diag, &StatusError{StatusCode: resp.StatusCode, Status: resp.Status, URL: c.URL}
	}

	var users []types.User
	if err := json.NewDecoder(resp.Body).Decode(&users); err != nil {
		diag.Duration = time.Since(start)
		return nil, diag, fmt.Errorf("fetch users: decode body: %w", err)
	}
	diag.Duration = time.Since(start)

	if logging.GetLogLevel() <= logging.LevelDebug {
		if cc, ok := lookupCountry(net.ParseIP(diag.RemoteIP), c.GeoIPPaths); ok {
			diag.Country = cc
		}
		logging.Debugf("[fetch] done status=%d users=%d remote_ip=%s country=%s ttfb=%dms time=%dms",
			diag.StatusCode, len(users), diag.RemoteIP, diag.Country, diag.TTFB.Milliseconds(), diag.Duration.Milliseconds())
	}
	return users, diag, nil
}
