package main

import (
	"time"

	"github.com/rotisserie/eris"

	"github.com/sells-group/report-cli/internal/config"
	"github.com/sells-group/report-cli/internal/cost"
	"github.com/sells-group/report-cli/internal/report"
	"github.com/sells-group/report-cli/pkg/openai"
)

// newCompletionClient builds the chat client for the configured provider.
func newCompletionClient(cfg *config.Config) (openai.Client, string, error) {
	pc, err := cfg.Active()
	if err != nil {
		return nil, "", err
	}

	client := openai.NewClient(pc.Key,
		openai.WithBaseURL(pc.BaseURL),
		openai.WithModel(pc.Model),
	)
	return client, pc.Model, nil
}

// newExtractor assembles a per-request extraction pipeline. The tracker
// collects this request's token usage and cost.
func newExtractor(client openai.Client, model string, cfg *config.Config, tracker *cost.Tracker) (*report.Extractor, error) {
	ex := cfg.Extraction

	completer := report.NewClientCompleter(
		client,
		model,
		ex.Temperature,
		ex.MaxTokens,
		time.Duration(ex.CallTimeoutSecs)*time.Second,
		tracker,
	)

	opts := []report.ExtractorOption{}
	switch ex.Strategy {
	case string(report.StrategySingle):
		opts = append(opts, report.WithStrategy(report.StrategySingle))
	case string(report.StrategyPartitioned), "":
		opts = append(opts, report.WithStrategy(report.StrategyPartitioned))
	default:
		return nil, eris.Errorf("unknown extraction strategy %q", ex.Strategy)
	}

	if ex.Preprocess {
		opts = append(opts, report.WithPreprocessor(
			report.NewPreprocessor(completer, ex.PreprocessThreshold),
		))
	}

	return report.NewExtractor(completer, opts...), nil
}
