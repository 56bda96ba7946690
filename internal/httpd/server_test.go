package httpd_test

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/demoapp/userapi/internal/httpd"
	"github.com/demoapp/userapi/internal/testutil"
)

func setup(t *testing.T) (*httpd.Server, *testutil.Client) {
	t.Helper()
	srv := httpd.New(":0", false)
	ts := httptest.NewServer(srv)
	t.Cleanup(ts.Close)
	return srv, testutil.NewClient(t, ts)
}

func TestUnknownRouteIsJSON404(t *testing.T) {
	_, tc := setup(t)

	resp := tc.Get("/nope")
	resp.AssertStatus(404)
	if resp.JSONMap()["error"] != "Route not found" {
		t.Fatalf("unexpected body: %s", resp.Body)
	}
}

func TestWrongMethodIsJSON404(t *testing.T) {
	srv, tc := setup(t)
	srv.Router.Get("/only-get", func(w http.ResponseWriter, _ *http.Request) {
		httpd.JSON(w, http.StatusOK, map[string]string{"ok": "yes"})
	})

	resp := tc.Post("/only-get", nil)
	resp.AssertStatus(404)
	resp.AssertBodyContains("Route not found")
}

func TestPanicBecomesGeneric500(t *testing.T) {
	srv, tc := setup(t)
	srv.Router.Get("/boom", func(http.ResponseWriter, *http.Request) {
		panic("kaboom: secret internal detail")
	})

	resp := tc.Get("/boom")
	resp.AssertStatus(500)
	m := resp.JSONMap()
	if m["error"] != "Internal server error" {
		t.Fatalf("unexpected body: %s", resp.Body)
	}
	// The panic value must not leak to the caller.
	if string(resp.Body) == "" || strings.Contains(string(resp.Body), "kaboom") {
		t.Fatalf("panic detail leaked: %s", resp.Body)
	}
}

func TestCORSPreflight(t *testing.T) {
	_, tc := setup(t)

	resp := tc.DoWithHeaders("OPTIONS", "/v1/users", nil, map[string]string{
		"Origin":                        "http://localhost:4200",
		"Access-Control-Request-Method": "POST",
	})
	resp.AssertStatus(204)
	if resp.Headers.Get("Access-Control-Allow-Origin") != "*" {
		t.Fatalf("missing CORS headers: %v", resp.Headers)
	}
}
