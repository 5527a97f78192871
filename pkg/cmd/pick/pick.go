package pick

import (
	"errors"
	"fmt"
	"strings"

	"github.com/MakeNowJust/heredoc/v2"
	"github.com/spf13/cobra"

	"github.com/esqtui/esq/internal/fzf"
	"github.com/esqtui/esq/internal/search"
	"github.com/esqtui/esq/internal/state"
)

func NewCmdPick(s *state.State) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "pick <query>",
		Aliases: []string{"p"},
		Short:   "Fuzzy-pick one result and print its path.",
		Long: heredoc.Doc(`
			Run one search, fuzzy-select over the matches and print the chosen
			path, for use in shell substitutions:

			  vim "$(esq pick notes)"
		`),
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			q := s.NewQuery(strings.Join(args, " "))

			set, err := search.RunOnce(s.Fast, s.Content, s.Timeout(), s.Logger, q)
			if err != nil {
				return err
			}
			if s.History != nil {
				s.History.Append(q.Text)
			}
			if len(set.Items) == 0 {
				return fmt.Errorf("no results for %q", q.Text)
			}

			finder := fzf.NewFinder(set.Items, fmt.Sprintf("%d results", len(set.Items)))
			item, err := finder.Run("")
			if err != nil {
				if errors.Is(err, fzf.ErrNothingSelected) {
					return nil
				}
				return err
			}

			fmt.Fprintln(cmd.OutOrStdout(), item.Path)
			return nil
		},
	}

	return cmd
}
