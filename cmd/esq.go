package cmd

import (
	"fmt"
	"os"

	"github.com/esqtui/esq/internal/state"
	"github.com/esqtui/esq/pkg/cmd/root"
)

func Execute() {
	s, err := state.NewState()
	if err != nil {
		fmt.Fprintln(os.Stderr, "esq:", err)
		os.Exit(1)
	}
	defer s.Close()

	rootCmd, err := root.NewCmdRoot(s)
	if err != nil {
		fmt.Fprintln(os.Stderr, "esq:", err)
		os.Exit(1)
	}

	if err := rootCmd.Execute(); err != nil {
		s.Close()
		os.Exit(1)
	}
}
