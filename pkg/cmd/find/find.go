package find

import (
	"fmt"
	"strings"

	"github.com/MakeNowJust/heredoc/v2"
	"github.com/spf13/cobra"

	"github.com/esqtui/esq/internal/export"
	"github.com/esqtui/esq/internal/search"
	"github.com/esqtui/esq/internal/state"
)

func NewCmdFind(s *state.State) *cobra.Command {
	var (
		output      string
		regex       bool
		caseSense   bool
		wholeWord   bool
		matchPath   bool
		filesOnly   bool
		foldersOnly bool
		pathScope   string
	)

	cmd := &cobra.Command{
		Use:     "find <query>",
		Aliases: []string{"f"},
		Short:   "Run one search and print or export the results.",
		Long: heredoc.Doc(`
			Run a single search without the browser. Paths are printed one per
			line; with --output the results are written in the format implied
			by the file extension (txt, csv, efu, m3u, m3u8).

			  esq find "*.pdf" --path ~/docs
			  esq find "content:invoice" -o invoices.csv
		`),
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			q := s.NewQuery(strings.Join(args, " "))
			q.Regex = regex
			q.CaseSensitive = caseSense
			q.WholeWord = wholeWord
			q.MatchPath = matchPath
			q.FilesOnly = filesOnly
			q.FoldersOnly = foldersOnly
			q.PathFilter = pathScope

			set, err := search.RunOnce(s.Fast, s.Content, s.Timeout(), s.Logger, q)
			if err != nil {
				return err
			}
			if s.History != nil {
				s.History.Append(q.Text)
			}

			if summary := set.FailureSummary(); summary != "" {
				fmt.Fprintln(cmd.ErrOrStderr(), "warning:", summary)
			}

			if output != "" {
				format, err := export.FormatForPath(output)
				if err != nil {
					return err
				}
				if err := export.WriteFile(output, format, set.Items); err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "exported %d results to %s\n",
					len(set.Items), output)
				return nil
			}

			for _, item := range set.Items {
				fmt.Fprintln(cmd.OutOrStdout(), item.Path)
			}
			return nil
		},
	}

	flags := cmd.Flags()
	flags.StringVarP(&output, "output", "o", "", "export destination file")
	flags.BoolVar(&regex, "regex", false, "treat the query as a regex")
	flags.BoolVar(&caseSense, "case", false, "case-sensitive matching")
	flags.BoolVar(&wholeWord, "whole-word", false, "whole-word matching")
	flags.BoolVar(&matchPath, "match-path", false, "match the full path, not just the name")
	flags.BoolVar(&filesOnly, "files", false, "files only")
	flags.BoolVar(&foldersOnly, "folders", false, "folders only")
	flags.StringVar(&pathScope, "path", "", "restrict matches to a path prefix")

	return cmd
}
