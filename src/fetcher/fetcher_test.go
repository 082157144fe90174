package fetcher

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"
)

const usersJSON = `[
  {"id":1,"name":"Leanne Graham","username":"Bret","email":"Sincere@april.biz",
   "address":{"street":"Kulas Light","city":"Gwenborough","geo":{"lat":"-37.3159","lng":"81.1496"}},
   "company":{"name":"Romaguera-Crona","catchPhrase":"Multi-layered","bs":"harness"}},
  {"id":2,"name":"Ervin Howell","username":"Antonette","email":"Shanna@melissa.tv"}
]`

func TestFetchUsers_Success(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodGet {
			t.Errorf("method = %s, want GET", r.Method)
		}
		if got := r.Header.Get("Accept"); got != "application/json" {
			t.Errorf("Accept = %q", got)
		}
		w.Header().Set("Content-Type", "application/json")
		fmt.Fprint(w, usersJSON)
	}))
	defer srv.Close()

	users, diag, err := New(srv.URL, time.Second).FetchUsersWithDiagnostics(context.Background())
	if err != nil {
		t.Fatalf("FetchUsers: %v", err)
	}
	if len(users) != 2 {
		t.Fatalf("got %d users, want 2", len(users))
	}
	if users[0].Company == nil || users[0].Company.Name != "Romaguera-Crona" {
		t.Fatalf("company not decoded: %+v", users[0].Company)
	}
	if users[0].Address == nil || users[0].Address.City != "Gwenborough" || users[0].Address.Geo == nil {
		t.Fatalf("address not decoded: %+v", users[0].Address)
	}
	if users[1].Company != nil || users[1].Address != nil {
		t.Fatalf("absent optional parts should stay nil: %+v", users[1])
	}
	if diag.StatusCode != http.StatusOK {
		t.Fatalf("diag status = %d", diag.StatusCode)
	}
	if net.ParseIP(diag.RemoteIP) == nil {
		t.Fatalf("remote ip not captured: %q", diag.RemoteIP)
	}
}

func TestFetchUsers_EmptyArray(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `[]`)
	}))
	defer srv.Close()
	users, err := New(srv.URL, time.Second).FetchUsers(context.Background())
	if err != nil {
		t.Fatalf("FetchUsers: %v", err)
	}
	if len(users) != 0 {
		t.Fatalf("got %d users, want 0", len(users))
	}
}

func TestFetchUsers_NonSuccessStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "down", http.StatusServiceUnavailable)
	}))
	defer srv.Close()

	_, err := New(srv.URL, time.Second).FetchUsers(context.Background())
	var se *StatusError
	if !errors.As(err, &se) {
		t.Fatalf("err = %v, want *StatusError", err)
	}
	if se.StatusCode != http.StatusServiceUnavailable {
		t.Fatalf("status = %d", se.StatusCode)
	}
	if !strings.Contains(err.Error(), "503") {
		t.Fatalf("message should contain status code: %q", err.Error())
	}
}

func TestFetchUsers_TransportError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	url := srv.URL
	srv.Close()

	_, err := New(url, time.Second).FetchUsers(context.Background())
	if err == nil {
		t.Fatalf("expected transport error")
	}
	var se *StatusError
	if errors.As(err, &se) {
		t.Fatalf("transport failure must not be a StatusError: %v", err)
	}
	if !strings.HasPrefix(err.Error(), "fetch users:") {
		t.Fatalf("error not wrapped: %v", err)
	}
}

func TestFetchUsers_Timeout(t *testing.T) {
	release := make(chan struct{})
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-release:
		case <-r.Context().Done():
		}
	}))
	defer srv.Close()
	defer close(release)

	_, err := New(srv.URL, 50*time.Millisecond).FetchUsers(context.Background())
	if err == nil {
		t.Fatalf("expected timeout error")
	}
}

func TestFetchUsers_BadBody(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `{"not":"an array"}`)
	}))
	defer srv.Close()
	_, err := New(srv.URL, time.Second).FetchUsers(context.Background())
	if err == nil || !strings.Contains(err.Error(), "decode body") {
		t.Fatalf("err = %v, want decode error", err)
	}
}

func TestNew_Defaults(t *testing.T) {
	c := New("", 0)
	if c.URL != "https://jsonplaceholder.typicode.com/users" {
		t.Fatalf("default url = %q", c.URL)
	}
	if c.HTTPClient.Timeout != DefaultTimeout {
		t.Fatalf("default timeout = %v", c.HTTPClient.Timeout)
	}
}

func TestLookupCountry_NoDatabase(t *testing.T) {
	if _, ok := lookupCountry(net.ParseIP("127.0.0.1"), []string{t.TempDir() + "/missing.mmdb"}); ok {
		t.Fatalf("lookup should fail without a database")
	}
	if _, ok := lookupCountry(nil, defaultCountryDBPaths); ok {
		t.Fatalf("nil ip should not resolve")
	}
}
