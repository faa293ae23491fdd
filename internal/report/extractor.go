package report

import (
	"context"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"github.com/sells-group/report-cli/pkg/openai"
)

// ErrNoMetrics is returned alongside the default report when extraction
// produced literally zero metrics. It is the only failure that propagates
// out of the pipeline; callers decide how to surface it.
var ErrNoMetrics = eris.New("report: no metrics extracted")

// Strategy selects how the extractor partitions its prompts.
type Strategy string

const (
	// StrategySingle issues one prompt covering every metric.
	StrategySingle Strategy = "single"
	// StrategyPartitioned issues three concurrent category-scoped prompts.
	StrategyPartitioned Strategy = "partitioned"
)

// wire types mirror the JSON shape the prompts request from the model.
// Percentage KPIs are deliberately absent: they are computed locally from the
// series, never trusted from the model.
type wirePoint struct {
	Name    string `json:"name"`
	Series1 Number `json:"series1"`
	Series2 Number `json:"series2"`
	Series3 Number `json:"series3"`
}

type wireKPIs struct {
	PreviousLabel string `json:"previous_label"`
	LatestLabel   string `json:"latest_label"`
}

type wireMetric struct {
	Name         string      `json:"name"`
	Value        string      `json:"value"`
	Label        string      `json:"label"`
	KPIs         *wireKPIs   `json:"kpis"`
	BulletPoints []string    `json:"bullet_points"`
	ChartData    []wirePoint `json:"chart_data"`
}

type wireReport struct {
	Title    string       `json:"title"`
	Subtitle string       `json:"subtitle"`
	Date     string       `json:"date"`
	Metrics  []wireMetric `json:"metrics"`
}

// Extractor turns raw financial commentary into a structured Report.
type Extractor struct {
	completer Completer
	strategy  Strategy
	pre       *Preprocessor
}

// ExtractorOption configures an Extractor.
type ExtractorOption func(*Extractor)

// WithStrategy selects the extraction strategy (default single-pass).
func WithStrategy(s Strategy) ExtractorOption {
	return func(e *Extractor) {
		e.strategy = s
	}
}

// WithPreprocessor enables the narrative-filtering pass before extraction.
func WithPreprocessor(p *Preprocessor) ExtractorOption {
	return func(e *Extractor) {
		e.pre = p
	}
}

// NewExtractor creates an Extractor backed by the given completer.
func NewExtractor(completer Completer, opts ...ExtractorOption) *Extractor {
	e := &Extractor{
		completer: completer,
		strategy:  StrategySingle,
	}
	for _, o := range opts {
		o(e)
	}
	return e
}

// Extract runs the full pipeline on raw narrative text. It always returns a
// usable Report; ErrNoMetrics accompanies the default structure when nothing
// could be extracted.
func (e *Extractor) Extract(ctx context.Context, text string) (*Report, error) {
	if e.pre != nil {
		text = e.pre.Process(ctx, text)
	}

	var rep *Report
	switch e.strategy {
	case StrategyPartitioned:
		rep = e.extractPartitioned(ctx, text)
	default:
		rep = e.extractSingle(ctx, text)
	}

	if len(rep.Metrics) == 0 {
		return rep, ErrNoMetrics
	}
	return rep, nil
}

// extractSingle runs the one-shot extraction. Any failure degrades to the
// default empty structure rather than propagating.
func (e *Extractor) extractSingle(ctx context.Context, text string) *Report {
	messages := []openai.Message{
		{Role: "system", Content: singleSystemPrompt},
		{Role: "user", Content: BuildSingleUserPrompt(text)},
	}

	raw, err := e.completer.Generate(ctx, messages)
	if err != nil {
		zap.L().Warn("single-pass completion failed", zap.Error(err))
		return DefaultReport()
	}

	var wire wireReport
	if err := Sanitize(raw, &wire); err != nil {
		zap.L().Warn("single-pass response unrecoverable", zap.Error(err))
		return DefaultReport()
	}

	rep := DefaultReport()
	if wire.Title != "" {
		rep.Title = wire.Title
	}
	if wire.Subtitle != "" {
		rep.Subtitle = wire.Subtitle
	}
	if wire.Date != "" {
		rep.ReportDate = wire.Date
	}
	rep.Metrics = convertMetrics(wire.Metrics)
	return rep
}

// convertMetrics normalizes wire metrics: series get sorted chronologically
// (insertion order from the model is not trusted), KPIs are derived locally,
// and a missing display value falls back to the latest point.
func convertMetrics(wires []wireMetric) []Metric {
	metrics := make([]Metric, 0, len(wires))
	for _, w := range wires {
		series := make([]DataPoint, 0, len(w.ChartData))
		for _, p := range w.ChartData {
			series = append(series, DataPoint{
				PeriodLabel: p.Name,
				Primary:     float64(p.Series1),
				Secondary:   float64(p.Series2),
				Tertiary:    float64(p.Series3),
			})
		}
		series = SortSeries(series)

		var hints LabelHints
		if w.KPIs != nil {
			hints = LabelHints{PreviousLabel: w.KPIs.PreviousLabel, LatestLabel: w.KPIs.LatestLabel}
		}

		m := Metric{
			Name:            w.Name,
			DisplayValue:    w.Value,
			DisplayLabel:    w.Label,
			Series:          series,
			KPIs:            DeriveKPIs(series, hints),
			NarrativePoints: w.BulletPoints,
		}
		if m.DisplayValue == "" && len(series) > 0 {
			latest := series[len(series)-1]
			m.DisplayValue = FormatAmount(latest.Primary)
			if m.DisplayLabel == "" {
				m.DisplayLabel = "Latest Period (" + latest.PeriodLabel + ")"
			}
		}
		metrics = append(metrics, m)
	}
	return metrics
}
