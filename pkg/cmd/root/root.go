package root

import (
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/esqtui/esq/internal/state"
	"github.com/esqtui/esq/pkg/cmd/browse"
	"github.com/esqtui/esq/pkg/cmd/find"
	"github.com/esqtui/esq/pkg/cmd/history"
	"github.com/esqtui/esq/pkg/cmd/pick"
)

func NewCmdRoot(s *state.State) (*cobra.Command, error) {
	cmd := &cobra.Command{
		Use:   "esq [query]",
		Short: "Interactive file search over the Everything index and a content index.",
		Long: `Search-as-you-type file browser. Filename queries run against the es
command line tool; content: terms run against a local full-text index.

  esq report                      browse filename matches
  esq "content:invoice *.pdf"     also search file contents
  esq find "*.go" -o files.txt    one-shot search to a file
`,
		Args: cobra.ArbitraryArgs,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return s.Init()
		},
		// Browse is the default when invoked without a subcommand.
		RunE: browse.NewCmdBrowse(s).RunE,
	}

	pf := cmd.PersistentFlags()
	pf.String("query", "", "seed the initial search (alternative to the positional form)")
	pf.BoolVar(&s.Debug, "debug", false, "enable debug logging")
	pf.StringVar(&s.Config.LogFile, "log-file", s.Config.LogFile, "debug log destination")
	pf.StringVar(&s.Config.EsPath, "es-path", s.Config.EsPath, "path to the es executable")
	pf.StringVar(&s.Config.ExifToolPath, "exiftool-path", s.Config.ExifToolPath, "path to exiftool")
	pf.StringVar(&s.Config.IndexPath, "index-path", s.Config.IndexPath, "path to the content index")
	pf.IntVar(&s.Config.MaxResults, "max-results", s.Config.MaxResults, "result cap per search")
	pf.IntVar(&s.Config.SearchTimeout, "timeout", s.Config.SearchTimeout, "per-search timeout in seconds")
	pf.BoolVar(&s.Config.SearchContent, "content", s.Config.SearchContent, "always run the content backend")
	viper.BindPFlag("es_path", pf.Lookup("es-path"))
	viper.BindPFlag("index_path", pf.Lookup("index-path"))
	viper.BindPFlag("max_results", pf.Lookup("max-results"))

	cmd.AddCommand(
		browse.NewCmdBrowse(s),
		find.NewCmdFind(s),
		pick.NewCmdPick(s),
		history.NewCmdHistory(s),
	)

	return cmd, nil
}
