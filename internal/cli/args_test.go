package cli

import (
	"strings"
	"testing"
)

func TestArgumentValidation(t *testing.T) {
	// Point at a closed port so nothing reaches a real server.
	t.Setenv("HOME", t.TempDir())
	t.Setenv("PD_SERVER_URL", "http://127.0.0.1:1")

	tests := []struct {
		name    string
		args    []string
		wantErr string
	}{
		{"property add needs address", []string{"property", "add"}, "requires at least 1 arg"},
		{"property show needs id", []string{"property", "show"}, "accepts 1 arg"},
		{"property show numeric id", []string{"property", "show", "abc"}, "invalid property ID: abc"},
		{"property list bad state", []string{"property", "list", "--state", "leased"}, "invalid state: leased"},
		{"client add needs name", []string{"client", "add"}, "requires at least 1 arg"},
		{"agent show positive id", []string{"agent", "show", "0"}, "invalid agent ID: 0"},
		{"contract list needs property", []string{"contract", "list"}, "--property is required"},
		{"sale create takes no args", []string{"sale", "create", "5"}, "unknown command"},
		{"sale delete needs id", []string{"sale", "delete"}, "accepts 1 arg"},
		{"sale delete numeric id", []string{"sale", "delete", "x"}, "invalid sale ID: x"},
		{"rental status needs two args", []string{"rental", "status", "1"}, "accepts 2 arg"},
		{"rental update needs id", []string{"rental", "update"}, "accepts 1 arg"},
		{"rental list bad status", []string{"rental", "list", "--status", "late"}, "invalid status: late"},
		{"visit status numeric id", []string{"visit", "status", "one", "completed"}, "invalid visit ID: one"},
		{"visit list bad status", []string{"visit", "list", "--status", "done"}, "invalid status: done"},
		{"config set-server bad url", []string{"config", "set-server", "not a url"}, "invalid server URL"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := executeCommand(tt.args...)
			if err == nil {
				t.Fatal("expected error")
			}
			if !strings.Contains(err.Error(), tt.wantErr) {
				t.Errorf("error = %q, want it to contain %q", err.Error(), tt.wantErr)
			}
		})
	}
}
