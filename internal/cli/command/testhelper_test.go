package command

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"sync"
	"testing"
)

// mockServer is a fake admin API recording the requests it receives.
type mockServer struct {
	*httptest.Server
	mux *http.ServeMux

	mu       sync.Mutex
	requests []recordedRequest
}

type recordedRequest struct {
	Method string
	Path   string
	Auth   string
	Body   map[string]any
}

func newMockServer(t *testing.T) *mockServer {
	t.Helper()
	m := &mockServer{mux: http.NewServeMux()}
	m.Server = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		rec := recordedRequest{Method: r.Method, Path: r.URL.Path, Auth: r.Header.Get("Authorization")}
		if r.Body != nil {
			_ = json.NewDecoder(r.Body).Decode(&rec.Body)
		}
		m.mu.Lock()
		m.requests = append(m.requests, rec)
		m.mu.Unlock()
		m.mux.ServeHTTP(w, r)
	}))
	t.Cleanup(m.Close)
	return m
}

func (m *mockServer) handle(pattern string, handler http.HandlerFunc) {
	m.mux.HandleFunc(pattern, handler)
}

func (m *mockServer) last() recordedRequest {
	m.mu.Lock()
	defer m.mu.Unlock()
	if len(m.requests) == 0 {
		return recordedRequest{}
	}
	return m.requests[len(m.requests)-1]
}

// jsonResponse writes a success envelope around data.
func jsonResponse(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(map[string]any{
		"code":    "OK",
		"message": "Success",
		"data":    data,
	})
}

// errorResponse writes an error envelope.
func errorResponse(w http.ResponseWriter, status int, code, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(map[string]string{
		"code":    code,
		"message": message,
	})
}

// runApp runs the CLI against server with an empty client config and
// returns what it printed.
func runApp(t *testing.T, server string, args ...string) (string, error) {
	t.Helper()
	clearClientEnv(t)

	var out bytes.Buffer
	app := App()
	app.Writer = &out
	app.ErrWriter = &out

	full := []string{AppName, "--cli-config", filepath.Join(t.TempDir(), "cli.yaml")}
	if server != "" {
		full = append(full, "--server", server)
	}
	err := app.Run(append(full, args...))
	return out.String(), err
}

// clearClientEnv unsets the client variables for the test. An empty but
// present variable would count as set.
func clearClientEnv(t *testing.T) {
	t.Helper()
	for _, key := range []string{"AAAMESH_SERVER", "AAAMESH_TOKEN", "AAAMESH_CLI_CONFIG", "AAAMESH_CONFIG", "AAAMESH_CA_FILE"} {
		prev, ok := os.LookupEnv(key)
		_ = os.Unsetenv(key)
		if ok {
			t.Cleanup(func() { _ = os.Setenv(key, prev) })
		}
	}
}
