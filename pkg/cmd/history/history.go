package history

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/esqtui/esq/internal/state"
)

func NewCmdHistory(s *state.State) *cobra.Command {
	var limit int

	cmd := &cobra.Command{
		Use:     "history",
		Aliases: []string{"h"},
		Short:   "List recent queries, newest first.",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if s.History == nil {
				return fmt.Errorf("query history unavailable")
			}

			recent, err := s.History.Recent(limit)
			if err != nil {
				return err
			}
			for _, q := range recent {
				fmt.Fprintln(cmd.OutOrStdout(), q)
			}
			return nil
		},
	}

	cmd.Flags().IntVarP(&limit, "limit", "n", 20, "number of queries to show")

	return cmd
}
