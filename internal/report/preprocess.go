package report

import (
	"context"

	"go.uber.org/zap"

	"github.com/sells-group/report-cli/pkg/openai"
)

// DefaultPreprocessThreshold is the input length, in bytes, above which the
// filtering pass runs. Shorter narratives go straight to extraction.
const DefaultPreprocessThreshold = 6000

// Preprocessor is an optional first stage that asks the model to strip a
// large narrative down to the recognized KPI vocabulary and recent periods
// before the main extraction.
type Preprocessor struct {
	completer Completer
	threshold int
}

// NewPreprocessor creates a Preprocessor. A threshold of 0 uses the default.
func NewPreprocessor(completer Completer, threshold int) *Preprocessor {
	if threshold <= 0 {
		threshold = DefaultPreprocessThreshold
	}
	return &Preprocessor{completer: completer, threshold: threshold}
}

// Process returns the filtered narrative. Inputs under the threshold pass
// through untouched, and any failure falls back to the original text since
// the extractor can always work from the raw narrative.
func (p *Preprocessor) Process(ctx context.Context, text string) string {
	if len(text) < p.threshold {
		return text
	}

	messages := []openai.Message{
		{Role: "system", Content: preprocessSystemPrompt},
		{Role: "user", Content: BuildPreprocessUserPrompt(text)},
	}

	filtered, err := p.completer.Generate(ctx, messages)
	if err != nil {
		zap.L().Warn("preprocess pass failed, using raw text", zap.Error(err))
		return text
	}
	if filtered == "" {
		return text
	}

	zap.L().Debug("preprocess pass complete",
		zap.Int("raw_len", len(text)),
		zap.Int("filtered_len", len(filtered)),
	)
	return filtered
}
