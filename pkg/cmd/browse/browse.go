package browse

import (
	"fmt"
	"os"
	"strings"

	"github.com/MakeNowJust/heredoc/v2"
	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/esqtui/esq/internal/search"
	"github.com/esqtui/esq/internal/state"
	"github.com/esqtui/esq/internal/tui/browser"
)

func NewCmdBrowse(s *state.State) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "browse [query]",
		Aliases: []string{"b"},
		Short:   "Open the interactive result browser.",
		Long: heredoc.Doc(`
			Open the full-screen browser. An optional query argument is submitted
			immediately; otherwise the search prompt starts focused.

			The browser needs a terminal. In a pipeline, use find instead.
		`),
		Args: cobra.ArbitraryArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if !term.IsTerminal(int(os.Stdout.Fd())) {
				return fmt.Errorf("stdout is not a terminal; use esq find for scripted searches")
			}

			orch := search.NewOrchestrator(s.Fast, s.Content, s.Timeout(), s.Logger)
			defer orch.Cancel()

			flagQuery, _ := cmd.Flags().GetString("query")
			return browser.Run(s.Config, orch, s.History, s.Logger, s.Warnings,
				initialQuery(flagQuery, args))
		},
	}

	return cmd
}

// initialQuery picks the seed search: positional arguments win over the
// --query flag when both are given.
func initialQuery(flagValue string, args []string) string {
	if len(args) > 0 {
		return strings.Join(args, " ")
	}
	return strings.TrimSpace(flagValue)
}
