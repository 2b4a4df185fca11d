package main

import (
	"strings"

	"github.com/spf13/cobra"

	"SearchRerank/internal/app"
	"SearchRerank/internal/config"
	"SearchRerank/internal/format"
	"SearchRerank/internal/usecase"
)

func newSearchCmd(c *cli) *cobra.Command {
	var (
		engines  []string
		count    int
		noFilter bool
		rf       rerankFlags
	)

	cmd := &cobra.Command{
		Use:   "search QUERY...",
		Short: "Search the configured engines and print reranked results",
		Example: `  searchrerank search python tutorial
  searchrerank search -e bing -n 20 --show-scores golang generics
  searchrerank search --no-filter -j "rust async"`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := c.cfg
			flags := cmd.Flags()
			if flags.Changed("engines") {
				cfg.Providers.Engines = config.NormalizeEngines(engines)
			}
			if flags.Changed("num-results") {
				cfg.Providers.ResultsPerEngine = count
			}
			rf.apply(flags, &cfg.Rerank)

			formatter, err := format.ByName(rf.formatName())
			if err != nil {
				return err
			}

			application, err := app.New(cfg, c.logger)
			if err != nil {
				return err
			}

			c.logger.Debug("search", "engines", cfg.Providers.Engines, "count", cfg.Providers.ResultsPerEngine)
			res, err := application.Search(cmd.Context(), usecase.SearchRequest{
				Query:    strings.Join(args, " "),
				NoFilter: noFilter,
			})
			if err != nil {
				return err
			}
			return formatter.Format(cmd.OutOrStdout(), res.Page(rf.showScores))
		},
	}

	flags := cmd.Flags()
	flags.StringSliceVarP(&engines, "engines", "e", nil, "engines to query, like `bing,baidu`")
	flags.IntVarP(&count, "num-results", "n", 10, "results to request from each engine")
	flags.BoolVar(&noFilter, "no-filter", false, "skip reranking and print raw results")
	rf.register(flags)
	return cmd
}
