package root

import (
	"testing"

	"github.com/esqtui/esq/internal/config"
	"github.com/esqtui/esq/internal/state"
)

func TestRootRegistersQueryFlag(t *testing.T) {
	t.Parallel()

	s := &state.State{Config: &config.Config{}}
	cmd, err := NewCmdRoot(s)
	if err != nil {
		t.Fatalf("NewCmdRoot: %v", err)
	}

	f := cmd.PersistentFlags().Lookup("query")
	if f == nil {
		t.Fatal("--query flag not registered")
	}
	if f.DefValue != "" {
		t.Fatalf("default = %q, want empty", f.DefValue)
	}
}
