package command

import (
	"net/http"
	"strings"
	"testing"
	"time"
)

func statusHandler(peers []map[string]any) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		jsonResponse(w, http.StatusOK, map[string]any{
			"node":           "127.0.0.1:7946/7947",
			"state":          "listening",
			"version":        "dev",
			"mirror_objects": 4,
			"peers":          peers,
		})
	}
}

func TestStatus(t *testing.T) {
	srv := newMockServer(t)
	srv.handle("GET /admin/v1/status", statusHandler([]map[string]any{{
		"id":           "conn-01hzy8k9m2n3p4q5r6s7t8v9w0",
		"remote_addr":  "10.0.0.2:51000",
		"local_addr":   "10.0.0.1:7946",
		"inbound":      true,
		"connected_at": time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC),
	}}))

	out, err := runApp(t, srv.URL, "status")
	if err != nil {
		t.Fatalf("status: %v", err)
	}
	for _, want := range []string{"listening", "Objects: 4", "Peers:   1", "REMOTE_ADDR", "10.0.0.2:51000", "2026-01-02T03:04:05Z"} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q:\n%s", want, out)
		}
	}
	if strings.Contains(out, "10.0.0.1:7946") {
		t.Error("local_addr is a wide column")
	}
}

func TestStatus_NoPeers(t *testing.T) {
	srv := newMockServer(t)
	srv.handle("GET /admin/v1/status", statusHandler(nil))

	out, err := runApp(t, srv.URL, "--no-headers", "status")
	if err != nil {
		t.Fatalf("status: %v", err)
	}
	if strings.Contains(out, "REMOTE_ADDR") {
		t.Errorf("no peer table expected:\n%s", out)
	}
}

func TestStatus_Unauthorized(t *testing.T) {
	srv := newMockServer(t)
	srv.handle("GET /admin/v1/status", func(w http.ResponseWriter, r *http.Request) {
		errorResponse(w, http.StatusUnauthorized, "AAA-AUTH-4010", "missing or invalid bearer token")
	})

	_, err := runApp(t, srv.URL, "status")
	if err == nil || !strings.Contains(err.Error(), "AAA-AUTH-4010") {
		t.Errorf("err = %v, want the API error code", err)
	}
}

func TestStatus_Unreachable(t *testing.T) {
	if _, err := runApp(t, "127.0.0.1:1", "status"); err == nil {
		t.Error("expected a connection error")
	}
}
