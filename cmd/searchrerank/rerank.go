package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"SearchRerank/internal/app"
	"SearchRerank/internal/domain"
	"SearchRerank/internal/format"
	"SearchRerank/internal/usecase"
)

// batchFile is the input of the rerank command: either a bare array of
// results or an object carrying the query alongside them.
type batchFile struct {
	Query   string             `json:"query"`
	Results []domain.RawResult `json:"results"`
}

func newRerankCmd(c *cli) *cobra.Command {
	var (
		input     string
		query     string
		dedupOnly bool
		rf        rerankFlags
	)

	cmd := &cobra.Command{
		Use:   "rerank",
		Short: "Rerank a JSON batch of results without searching",
		Example: `  searchrerank rerank --input results.json --query "python tutorial"
  cat results.json | searchrerank rerank --dedup-only -j`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			batch, err := readBatch(cmd.InOrStdin(), input)
			if err != nil {
				return err
			}
			if cmd.Flags().Changed("query") {
				batch.Query = query
			}

			cfg := c.cfg
			overrides := cfg.Rerank
			rf.apply(cmd.Flags(), &overrides)
			opts := overrides.Options()

			formatter, err := format.ByName(rf.formatName())
			if err != nil {
				return err
			}

			application, err := app.New(cfg, c.logger)
			if err != nil {
				return err
			}

			var res usecase.SearchResult
			if dedupOnly {
				res, err = application.Deduplicate(batch.Results, batch.Query)
			} else {
				res, err = application.Rerank(batch.Results, batch.Query, &opts)
			}
			if err != nil {
				return err
			}
			return formatter.Format(cmd.OutOrStdout(), res.Page(rf.showScores))
		},
	}

	flags := cmd.Flags()
	flags.StringVarP(&input, "input", "i", "-", "JSON file with results, `-` for stdin")
	flags.StringVarP(&query, "query", "q", "", "query the results were fetched for")
	flags.BoolVar(&dedupOnly, "dedup-only", false, "only remove near-duplicates and low-quality results, ignoring thresholds")
	rf.register(flags)
	return cmd
}

func readBatch(stdin io.Reader, path string) (batchFile, error) {
	var raw []byte
	var err error
	if path == "" || path == "-" {
		raw, err = io.ReadAll(stdin)
	} else {
		raw, err = os.ReadFile(path)
	}
	if err != nil {
		return batchFile{}, fmt.Errorf("read input: %w", err)
	}

	trimmed := strings.TrimSpace(string(raw))
	if trimmed == "" {
		return batchFile{}, errors.New("input is empty")
	}

	var batch batchFile
	if strings.HasPrefix(trimmed, "[") {
		err = json.Unmarshal([]byte(trimmed), &batch.Results)
	} else {
		err = json.Unmarshal([]byte(trimmed), &batch)
	}
	if err != nil {
		return batchFile{}, fmt.Errorf("decode input: %w", err)
	}
	return batch, nil
}
