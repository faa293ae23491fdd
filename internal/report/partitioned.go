package report

import (
	"context"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/sells-group/report-cli/pkg/openai"
)

// extractPartitioned fans the three category prompts out concurrently and
// concatenates their results in fixed order. Each category writes to its own
// slot, so the merge is a pure read after the group settles. A failed or
// timed-out category contributes an empty slice; it never fails the whole
// extraction.
func (e *Extractor) extractPartitioned(ctx context.Context, text string) *Report {
	slots := make([][]Metric, len(Categories))

	g, gctx := errgroup.WithContext(ctx)
	for i, cat := range Categories {
		i, cat := i, cat
		g.Go(func() error {
			metrics, err := e.extractCategory(gctx, cat, text)
			if err != nil {
				zap.L().Warn("category extraction failed",
					zap.String("category", string(cat)),
					zap.Error(err),
				)
				return nil // degrade this category, keep the others
			}
			slots[i] = metrics
			return nil
		})
	}
	_ = g.Wait() // goroutines only ever return nil

	rep := DefaultReport()
	for _, metrics := range slots {
		rep.Metrics = append(rep.Metrics, metrics...)
	}
	return rep
}

// extractCategory runs one category-scoped prompt and parses its metric list.
func (e *Extractor) extractCategory(ctx context.Context, cat Category, text string) ([]Metric, error) {
	messages := []openai.Message{
		{Role: "system", Content: categorySystemPrompt},
		{Role: "user", Content: BuildCategoryUserPrompt(cat, text)},
	}

	raw, err := e.completer.Generate(ctx, messages)
	if err != nil {
		return nil, err
	}

	var wire struct {
		Metrics []wireMetric `json:"metrics"`
	}
	if err := Sanitize(raw, &wire); err != nil {
		return nil, err
	}

	return convertMetrics(wire.Metrics), nil
}
