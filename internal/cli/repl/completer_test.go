package repl

import (
	"reflect"
	"testing"
)

func TestCompleter_Complete(t *testing.T) {
	c := NewCompleter([]string{"session", "session list", "session get", "claim", "claim get", "status"})

	tests := []struct {
		name   string
		prefix string
		want   []string
	}{
		{"session prefix", "session", []string{"session", "session get", "session list"}},
		{"session l prefix", "session l", []string{"session list"}},
		{"builtin", "ex", []string{"exit"}},
		{"h prefix", "h", []string{"history"}},
		{"no match", "zzz", nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := c.Complete(tt.prefix)
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("Complete(%q) = %v, want %v", tt.prefix, got, tt.want)
			}
		})
	}
}

func TestCompleter_EmptyPrefixListsAll(t *testing.T) {
	c := NewCompleter([]string{"status"})
	if got := len(c.Complete("")); got != 4 {
		t.Errorf("len(Complete(\"\")) = %d, want 4", got)
	}
}

func TestNewCompleter_DoesNotAliasInput(t *testing.T) {
	in := []string{"b", "a"}
	NewCompleter(in)
	if in[0] != "b" {
		t.Error("NewCompleter reordered the caller's slice")
	}
}
