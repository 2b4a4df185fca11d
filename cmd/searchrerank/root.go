package main

import (
	"log/slog"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"SearchRerank/internal/config"
	"SearchRerank/internal/logging"
)

// cli carries state shared by subcommands once the root has loaded config.
type cli struct {
	configPath string
	logLevel   string
	logFormat  string

	cfg    config.Config
	logger *slog.Logger
}

func newRootCmd() *cobra.Command {
	c := &cli{}
	root := &cobra.Command{
		Use:   "searchrerank",
		Short: "Multi-engine web search with result reranking",
		Long: `searchrerank queries several web search engines, then filters, scores,
diversifies and deduplicates the combined results before printing them.

Configuration is read from the YAML file given by --config or
SEARCH_RERANK_CONFIG, then environment overrides, then flags.`,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			return c.load(cmd)
		},
	}

	flags := root.PersistentFlags()
	flags.StringVarP(&c.configPath, "config", "c", "", "config file path")
	flags.StringVar(&c.logLevel, "log-level", "", "`debug/info/warn/error`")
	flags.StringVar(&c.logFormat, "log-format", "", "`text/json`")

	root.AddCommand(newSearchCmd(c), newRerankCmd(c), newServeCmd(c))
	return root
}

func (c *cli) load(cmd *cobra.Command) error {
	cfg, err := config.Load(c.configPath)
	if err != nil {
		return err
	}
	if cmd.Flags().Changed("log-level") {
		cfg.Logging.Level = c.logLevel
	}
	if cmd.Flags().Changed("log-format") {
		cfg.Logging.Format = c.logFormat
	}

	c.cfg = cfg
	c.logger = logging.New(cfg.Logging.Level, cfg.Logging.Format, cmd.ErrOrStderr())
	return nil
}

// rerankFlags are the threshold overrides shared by search and rerank.
type rerankFlags struct {
	minScore           float64
	maxPerDomain       int
	duplicateThreshold float64
	showScores         bool
	json               bool
}

func (f *rerankFlags) register(flags *pflag.FlagSet) {
	flags.Float64Var(&f.minScore, "min-score", 0, "drop results whose final score is below this (0-1)")
	flags.IntVar(&f.maxPerDomain, "max-per-domain", 0, "keep at most this many results per domain")
	flags.Float64Var(&f.duplicateThreshold, "dup-threshold", 0, "title similarity above which results are duplicates (0-1)")
	flags.BoolVar(&f.showScores, "show-scores", false, "print relevance, diversity and final scores")
	flags.BoolVarP(&f.json, "json", "j", false, "print JSON instead of Markdown")
}

// apply overrides only the thresholds the user set explicitly.
func (f *rerankFlags) apply(flags *pflag.FlagSet, cfg *config.RerankConfig) {
	if flags.Changed("min-score") {
		cfg.MinScore = f.minScore
	}
	if flags.Changed("max-per-domain") {
		cfg.MaxPerDomain = f.maxPerDomain
	}
	if flags.Changed("dup-threshold") {
		cfg.DuplicateThreshold = f.duplicateThreshold
	}
}

func (f *rerankFlags) formatName() string {
	if f.json {
		return "json"
	}
	return "markdown"
}
