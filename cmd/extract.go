package main

import (
	"encoding/json"
	"io"
	"os"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/sells-group/report-cli/internal/cost"
)

var (
	extractFile     string
	extractStrategy string
)

var extractCmd = &cobra.Command{
	Use:   "extract",
	Short: "Extract structured metrics from financial commentary",
	Long:  "Reads narrative text from a file or stdin and prints the extracted report as JSON.",
	RunE: func(cmd *cobra.Command, args []string) error {
		var (
			raw []byte
			err error
		)
		if extractFile != "" {
			raw, err = os.ReadFile(extractFile)
		} else {
			raw, err = io.ReadAll(cmd.InOrStdin())
		}
		if err != nil {
			return eris.Wrap(err, "read input")
		}
		if len(raw) == 0 {
			return eris.New("no input text")
		}

		if extractStrategy != "" {
			cfg.Extraction.Strategy = extractStrategy
		}

		client, model, err := newCompletionClient(cfg)
		if err != nil {
			return err
		}

		tracker := cost.NewTracker(cost.NewCalculator(cfg.Pricing))
		extractor, err := newExtractor(client, model, cfg, tracker)
		if err != nil {
			return err
		}

		rep, err := extractor.Extract(cmd.Context(), string(raw))
		if err != nil {
			// The default structure is still printed; zero metrics is a
			// quality failure, not a crash.
			zap.L().Warn("extraction produced no metrics", zap.Error(err))
		}
		tracker.Log("extraction usage")

		enc := json.NewEncoder(cmd.OutOrStdout())
		enc.SetIndent("", "  ")
		return enc.Encode(rep)
	},
}

func init() {
	extractCmd.Flags().StringVarP(&extractFile, "file", "f", "", "input text file (default stdin)")
	extractCmd.Flags().StringVar(&extractStrategy, "strategy", "", "extraction strategy: single or partitioned (default from config)")
	rootCmd.AddCommand(extractCmd)
}
