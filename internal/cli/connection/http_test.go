package connection

import (
	"context"
	"crypto/tls"
	"crypto/x509"
	"errors"
	"io"
	"net"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestNewHTTPClient(t *testing.T) {
	tests := []struct {
		server string
		want   string
	}{
		{"http://localhost:9110", "http://localhost:9110"},
		{"https://node-a:9110/", "https://node-a:9110"},
		{"127.0.0.1:9110", "http://127.0.0.1:9110"},
		{"unix:///run/aaamesh/admin.sock", "http://local"},
	}
	for _, tt := range tests {
		if got := NewHTTPClient(tt.server, "").BaseURL(); got != tt.want {
			t.Errorf("BaseURL(%q) = %q, want %q", tt.server, got, tt.want)
		}
	}
}

func TestHTTPClient_Get(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodGet || r.URL.Path != "/admin/v1/status" {
			t.Errorf("request = %s %s", r.Method, r.URL.Path)
		}
		if got := r.Header.Get("Authorization"); got != "Bearer tok" {
			t.Errorf("Authorization = %q", got)
		}
		if !strings.HasPrefix(r.Header.Get("User-Agent"), "aaamesh-node/") {
			t.Errorf("User-Agent = %q", r.Header.Get("User-Agent"))
		}
		_, _ = io.WriteString(w, `{"code":"OK","message":"Success","data":{"state":"listening"}}`)
	}))
	defer srv.Close()

	var out struct {
		State string `json:"state"`
	}
	if err := NewHTTPClient(srv.URL, "tok").Get(context.Background(), "/admin/v1/status", &out); err != nil {
		t.Fatalf("Get() error = %v", err)
	}
	if out.State != "listening" {
		t.Errorf("State = %q, want listening", out.State)
	}
}

func TestHTTPClient_Post(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("Content-Type") != "application/json" {
			t.Errorf("Content-Type = %q", r.Header.Get("Content-Type"))
		}
		body, _ := io.ReadAll(r.Body)
		if string(body) != `{"user_id":"alice"}` {
			t.Errorf("body = %s", body)
		}
		if r.Header.Get("Authorization") != "" {
			t.Error("no token configured, Authorization must be empty")
		}
		w.WriteHeader(http.StatusCreated)
		_, _ = io.WriteString(w, `{"code":"OK","data":{"id":"aaass-x"}}`)
	}))
	defer srv.Close()

	var out map[string]string
	err := NewHTTPClient(srv.URL, "").Post(context.Background(), "/sessions", map[string]string{"user_id": "alice"}, &out)
	if err != nil {
		t.Fatalf("Post() error = %v", err)
	}
	if out["id"] != "aaass-x" {
		t.Errorf("id = %q", out["id"])
	}
}

func TestHTTPClient_APIError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
		_, _ = io.WriteString(w, `{"code":"AAA-SESS-4040","message":"session not found"}`)
	}))
	defer srv.Close()

	err := NewHTTPClient(srv.URL, "").Get(context.Background(), "/sessions/x", nil)
	var apiErr *APIError
	if !errors.As(err, &apiErr) {
		t.Fatalf("error = %v, want *APIError", err)
	}
	if apiErr.Status != http.StatusNotFound || apiErr.Code != "AAA-SESS-4040" {
		t.Errorf("apiErr = %+v", apiErr)
	}
	if apiErr.Error() != "[AAA-SESS-4040] session not found" {
		t.Errorf("Error() = %q", apiErr.Error())
	}
}

func TestHTTPClient_NonJSONError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "bad gateway", http.StatusBadGateway)
	}))
	defer srv.Close()

	err := NewHTTPClient(srv.URL, "").Get(context.Background(), "/", nil)
	if err == nil || err.Error() != "request failed with status 502" {
		t.Errorf("error = %v", err)
	}
}

func TestHTTPClient_UnixSocket(t *testing.T) {
	dir, err := os.MkdirTemp("", "aaam")
	if err != nil {
		t.Fatal(err)
	}
	defer os.RemoveAll(dir)
	sock := filepath.Join(dir, "admin.sock")

	ln, err := net.Listen("unix", sock)
	if err != nil {
		t.Fatal(err)
	}
	srv := &http.Server{Handler: http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = io.WriteString(w, `{"code":"OK","data":{"path":"`+r.URL.Path+`"}}`)
	})}
	go func() { _ = srv.Serve(ln) }()
	defer srv.Close()

	var got struct {
		Path string `json:"path"`
	}
	if err := NewHTTPClient("unix://"+sock, "").Get(context.Background(), "/admin/v1/status", &got); err != nil {
		t.Fatalf("Get() error = %v", err)
	}
	if got.Path != "/admin/v1/status" {
		t.Errorf("path = %q", got.Path)
	}
}

func TestHTTPClient_TLS(t *testing.T) {
	srv := httptest.NewTLSServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = io.WriteString(w, `{"code":"OK"}`)
	}))
	defer srv.Close()

	if err := NewHTTPClient(srv.URL, "").Get(context.Background(), "/health", nil); err == nil {
		t.Error("an untrusted certificate should fail")
	}

	pool := x509.NewCertPool()
	pool.AddCert(srv.Certificate())
	client := NewHTTPClient(srv.URL, "", WithTLSConfig(&tls.Config{RootCAs: pool, MinVersion: tls.VersionTLS12}))
	if err := client.Get(context.Background(), "/health", nil); err != nil {
		t.Errorf("Get() with trusted CA error = %v", err)
	}
}
