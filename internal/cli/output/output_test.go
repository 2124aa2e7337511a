package output

import (
	"bytes"
	"strings"
	"testing"
	"time"
)

type peerRow struct {
	ID        string    `json:"id"`
	Remote    string    `json:"remote_addr"`
	Local     string    `json:"local_addr" table:"wide"`
	Secret    string    `json:"secret" table:"-"`
	Inbound   bool      `json:"inbound"`
	Since     time.Time `json:"since"`
	unexposed int
}

func TestParseFormat(t *testing.T) {
	tests := []struct {
		in      string
		want    Format
		wantErr bool
	}{
		{"", FormatTable, false},
		{"table", FormatTable, false},
		{"JSON", FormatJSON, false},
		{"yaml", FormatYAML, false},
		{"xml", "", true},
	}
	for _, tt := range tests {
		got, err := ParseFormat(tt.in)
		if (err != nil) != tt.wantErr {
			t.Errorf("ParseFormat(%q) error = %v, wantErr %v", tt.in, err, tt.wantErr)
			continue
		}
		if got != tt.want {
			t.Errorf("ParseFormat(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestNewFormatter(t *testing.T) {
	if _, ok := NewFormatter(FormatJSON, false).(*JSONFormatter); !ok {
		t.Error("expected JSONFormatter")
	}
	if _, ok := NewFormatter(FormatYAML, false).(*YAMLFormatter); !ok {
		t.Error("expected YAMLFormatter")
	}
	tf, ok := NewFormatter(FormatTable, true).(*TableFormatter)
	if !ok || !tf.Wide {
		t.Error("expected wide TableFormatter")
	}
}

func TestTable_Render(t *testing.T) {
	tbl := &Table{Headers: []string{"NAME", "VALUE"}}
	tbl.AddRow("cluster.port", "32110")

	var buf bytes.Buffer
	if err := (&TableFormatter{}).Format(&buf, tbl); err != nil {
		t.Fatalf("Format() error = %v", err)
	}
	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	if len(lines) != 2 || !strings.HasPrefix(lines[0], "NAME") {
		t.Fatalf("unexpected output:\n%s", buf.String())
	}

	buf.Reset()
	if err := (&TableFormatter{NoHeaders: true}).Format(&buf, *tbl); err != nil {
		t.Fatalf("Format() error = %v", err)
	}
	if strings.Contains(buf.String(), "NAME") {
		t.Error("headers printed with NoHeaders")
	}
}

func TestTableFormatter_Slice(t *testing.T) {
	rows := []*peerRow{
		{ID: "conn-a", Remote: "10.0.0.2:1", Local: "10.0.0.1:2", Secret: "x", Inbound: true},
		nil,
	}

	var buf bytes.Buffer
	if err := (&TableFormatter{}).Format(&buf, rows); err != nil {
		t.Fatalf("Format() error = %v", err)
	}
	out := buf.String()
	for _, want := range []string{"ID", "REMOTE_ADDR", "INBOUND", "conn-a", "true"} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q:\n%s", want, out)
		}
	}
	for _, hidden := range []string{"LOCAL_ADDR", "SECRET", "UNEXPOSED"} {
		if strings.Contains(out, hidden) {
			t.Errorf("output should not contain %q:\n%s", hidden, out)
		}
	}

	buf.Reset()
	if err := (&TableFormatter{Wide: true}).Format(&buf, rows); err != nil {
		t.Fatalf("Format() error = %v", err)
	}
	if !strings.Contains(buf.String(), "LOCAL_ADDR") {
		t.Error("wide output missing LOCAL_ADDR")
	}
}

func TestTableFormatter_MapSorted(t *testing.T) {
	var buf bytes.Buffer
	data := map[string]any{"b": 2, "a": "x", "c": []string{"p", "q"}}
	if err := (&TableFormatter{}).Format(&buf, data); err != nil {
		t.Fatalf("Format() error = %v", err)
	}
	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	if len(lines) != 4 {
		t.Fatalf("lines = %d, want 4:\n%s", len(lines), buf.String())
	}
	if !strings.HasPrefix(lines[1], "a") || !strings.HasPrefix(lines[3], "c") {
		t.Errorf("rows not sorted:\n%s", buf.String())
	}
	if !strings.Contains(lines[3], "p,q") {
		t.Errorf("slice not joined: %q", lines[3])
	}
}

func TestTableFormatter_Struct(t *testing.T) {
	var buf bytes.Buffer
	row := peerRow{ID: "conn-b"}
	if err := (&TableFormatter{}).Format(&buf, &row); err != nil {
		t.Fatalf("Format() error = %v", err)
	}
	out := buf.String()
	if !strings.Contains(out, "FIELD") || !strings.Contains(out, "conn-b") {
		t.Errorf("unexpected output:\n%s", out)
	}
	if !strings.Contains(out, "since") || !strings.Contains(out, "-") {
		t.Errorf("zero time should render as -:\n%s", out)
	}
}

func TestTableFormatter_Unsupported(t *testing.T) {
	if err := (&TableFormatter{}).Format(&bytes.Buffer{}, 42); err == nil {
		t.Error("Format(42) should fail")
	}
}

func TestFormatValue_Duration(t *testing.T) {
	var buf bytes.Buffer
	_ = (&TableFormatter{}).Format(&buf, map[string]time.Duration{"timeout": 1500 * time.Millisecond})
	if !strings.Contains(buf.String(), "1.5s") {
		t.Errorf("duration not formatted:\n%s", buf.String())
	}
}

func TestJSONFormatter(t *testing.T) {
	var buf bytes.Buffer
	if err := (&JSONFormatter{}).Format(&buf, peerRow{ID: "conn-a"}); err != nil {
		t.Fatalf("Format() error = %v", err)
	}
	if !strings.Contains(buf.String(), `"id": "conn-a"`) {
		t.Errorf("unexpected JSON:\n%s", buf.String())
	}
}

func TestYAMLFormatter_UsesJSONNames(t *testing.T) {
	var buf bytes.Buffer
	if err := (&YAMLFormatter{}).Format(&buf, peerRow{ID: "conn-a", Remote: "10.0.0.2:1"}); err != nil {
		t.Fatalf("Format() error = %v", err)
	}
	out := buf.String()
	if !strings.Contains(out, "id: conn-a") || !strings.Contains(out, "remote_addr: 10.0.0.2:1") {
		t.Errorf("unexpected YAML:\n%s", out)
	}
}
