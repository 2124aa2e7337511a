package command

import (
	"net/http"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"testing"

	"github.com/urfave/cli/v2"
)

func TestApp(t *testing.T) {
	app := App()
	if app.Name != AppName {
		t.Errorf("Name = %q, want %q", app.Name, AppName)
	}

	names := make(map[string]bool)
	for _, cmd := range app.Commands {
		names[cmd.Name] = true
	}
	for _, want := range []string{"run", "config", "status", "session", "claim", "shell", "version"} {
		if !names[want] {
			t.Errorf("missing command: %s", want)
		}
	}
}

func TestGlobalFlags(t *testing.T) {
	flags := make(map[string]bool)
	for _, f := range globalFlags() {
		for _, n := range f.Names() {
			flags[n] = true
		}
	}
	for _, want := range []string{"server", "s", "token", "output", "o", "wide", "w", "no-headers", "cli-config"} {
		if !flags[want] {
			t.Errorf("missing global flag: %s", want)
		}
	}
}

func TestApplyCLIConfig(t *testing.T) {
	srv := newMockServer(t)
	srv.handle("GET /admin/v1/status", func(w http.ResponseWriter, r *http.Request) {
		jsonResponse(w, http.StatusOK, map[string]any{"node": "n", "state": "listening"})
	})

	dir := t.TempDir()
	path := filepath.Join(dir, "cli.yaml")
	content := "server: " + srv.URL + "\ntoken: from-file\noutput: json\n"
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatal(err)
	}
	clearClientEnv(t)

	var out strings.Builder
	app := App()
	app.Writer = &out
	if err := app.Run([]string{AppName, "--cli-config", path, "status"}); err != nil {
		t.Fatalf("Run: %v", err)
	}

	if got := srv.last().Auth; got != "Bearer from-file" {
		t.Errorf("Authorization = %q, want token from the file", got)
	}
	if !strings.Contains(out.String(), `"node": "n"`) {
		t.Errorf("output should be JSON per the file: %q", out.String())
	}

	// Flags win over the file.
	out.Reset()
	if err := app.Run([]string{AppName, "--cli-config", path, "--token", "flag", "-o", "table", "status"}); err != nil {
		t.Fatalf("Run: %v", err)
	}
	if got := srv.last().Auth; got != "Bearer flag" {
		t.Errorf("Authorization = %q, want flag token", got)
	}
	if !strings.Contains(out.String(), "State:") {
		t.Errorf("output should be a table: %q", out.String())
	}
}

func TestApplyCLIConfig_InvalidFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "cli.yaml")
	if err := os.WriteFile(path, []byte("server: [\n"), 0o600); err != nil {
		t.Fatal(err)
	}
	app := App()
	app.Writer = &strings.Builder{}
	if err := app.Run([]string{AppName, "--cli-config", path, "version"}); err == nil {
		t.Error("expected an error for an unparsable client config")
	}
}

func TestVersionCommand(t *testing.T) {
	out, err := runApp(t, "", "version")
	if err != nil {
		t.Fatalf("version: %v", err)
	}
	if !strings.HasPrefix(out, "aaamesh ") {
		t.Errorf("output = %q", out)
	}

	out, err = runApp(t, "", "-o", "json", "version")
	if err != nil {
		t.Fatalf("version: %v", err)
	}
	if !strings.Contains(out, `"go_version"`) {
		t.Errorf("json output = %q", out)
	}
}

func TestCommandPaths(t *testing.T) {
	cmds := []*cli.Command{
		{Name: "run"},
		{Name: "session", Subcommands: []*cli.Command{{Name: "get"}, {Name: "list"}}},
		{Name: "hidden", Hidden: true},
		{Name: "status"},
	}
	got := commandPaths(cmds, "")
	sort.Strings(got)
	want := []string{"session", "session get", "session list", "status"}
	if strings.Join(got, "|") != strings.Join(want, "|") {
		t.Errorf("commandPaths = %v, want %v", got, want)
	}
}

func TestCAFile_Missing(t *testing.T) {
	_, err := runApp(t, "https://127.0.0.1:1", "--ca-file", filepath.Join(t.TempDir(), "none.pem"), "status")
	if err == nil || !strings.Contains(err.Error(), "none.pem") {
		t.Errorf("err = %v, want a CA file error", err)
	}
}
