package report

import (
	"context"
	"errors"
	"math"
	"strconv"
	"strings"
	"testing"

	"github.com/sells-group/report-cli/pkg/openai"
)

// stubCompleter returns canned responses keyed by a substring of the user
// prompt, in the order messages arrive.
type stubCompleter struct {
	respond func(messages []openai.Message) (string, error)
	calls   int
}

func (s *stubCompleter) Generate(_ context.Context, messages []openai.Message) (string, error) {
	s.calls++
	return s.respond(messages)
}

func userContent(messages []openai.Message) string {
	for _, m := range messages {
		if m.Role == "user" {
			return m.Content
		}
	}
	return ""
}

const incomeSinglePayload = `{
	"title": "Financial Analysis Report",
	"subtitle": "Jan 2021 to Feb 2021",
	"date": "February 2021",
	"metrics": [
		{
			"name": "Income",
			"value": "$88,912",
			"label": "Latest Period (Feb 2021)",
			"kpis": {"previous_label": "Jan 2021", "latest_label": "Feb 2021"},
			"bullet_points": ["Income rose from $84,629 in Jan 2021 to $88,912 in Feb 2021."],
			"chart_data": [
				{"name": "Feb 2021", "series1": 88912, "series2": 0, "series3": 0},
				{"name": "Jan 2021", "series1": 84629, "series2": 0, "series3": 0}
			]
		}
	]
}`

func TestExtract_SinglePassEndToEnd(t *testing.T) {
	stub := &stubCompleter{
		respond: func(messages []openai.Message) (string, error) {
			// Model responses arrive fenced; the pipeline must cope.
			return "```json\n" + incomeSinglePayload + "\n```", nil
		},
	}

	ex := NewExtractor(stub, WithStrategy(StrategySingle))
	rep, err := ex.Extract(context.Background(), "Income $88,912 in Feb 2021 vs $84,629 in Jan 2021")
	if err != nil {
		t.Fatalf("Extract: %v", err)
	}

	if len(rep.Metrics) != 1 {
		t.Fatalf("expected 1 metric, got %d", len(rep.Metrics))
	}
	m := rep.Metrics[0]
	if m.Name != "Income" {
		t.Errorf("name = %q", m.Name)
	}

	// Insertion order from the model is reversed; extraction must re-sort.
	if m.Series[0].PeriodLabel != "Jan 2021" || m.Series[1].PeriodLabel != "Feb 2021" {
		t.Errorf("series not chronological: %v", m.Series)
	}
	if m.Series[0].Primary != 84629 || m.Series[1].Primary != 88912 {
		t.Errorf("series values wrong: %v", m.Series)
	}

	if m.KPIs.Sequential == nil {
		t.Fatal("expected sequential KPI")
	}
	if math.Abs(m.KPIs.Sequential.Percent-5.0609) > 0.001 {
		t.Errorf("percent = %f, want ~+5.06", m.KPIs.Sequential.Percent)
	}
	if m.KPIs.Sequential.Kind != KindMoM {
		t.Errorf("kind = %q, want MoM", m.KPIs.Sequential.Kind)
	}
	if !strings.HasPrefix(m.KPIs.Sequential.SignedPercent(), "+") {
		t.Errorf("signed percent missing sign: %q", m.KPIs.Sequential.SignedPercent())
	}
}

func TestExtract_SinglePassFailureYieldsDefault(t *testing.T) {
	stub := &stubCompleter{
		respond: func([]openai.Message) (string, error) {
			return "", errors.New("upstream: rate limited")
		},
	}

	ex := NewExtractor(stub, WithStrategy(StrategySingle))
	rep, err := ex.Extract(context.Background(), "whatever")

	if !errors.Is(err, ErrNoMetrics) {
		t.Errorf("expected ErrNoMetrics, got %v", err)
	}
	if rep == nil {
		t.Fatal("default report must still be returned")
	}
	if rep.Title != "Financial Analysis Report" || len(rep.Metrics) != 0 {
		t.Errorf("unexpected default report: %+v", rep)
	}
}

func TestExtract_SinglePassUnparseableYieldsDefault(t *testing.T) {
	stub := &stubCompleter{
		respond: func([]openai.Message) (string, error) {
			return "I was unable to find any financial data.", nil
		},
	}

	ex := NewExtractor(stub, WithStrategy(StrategySingle))
	rep, err := ex.Extract(context.Background(), "no numbers here")

	if !errors.Is(err, ErrNoMetrics) {
		t.Errorf("expected ErrNoMetrics, got %v", err)
	}
	if len(rep.Metrics) != 0 {
		t.Errorf("expected empty metrics, got %v", rep.Metrics)
	}
}

func categoryPayload(name, prev string, prevVal float64, latest string, latestVal float64) string {
	return `{"metrics":[{"name":"` + name + `","value":"$0","label":"Latest (` + latest + `)",` +
		`"kpis":{"previous_label":"` + prev + `","latest_label":"` + latest + `"},` +
		`"bullet_points":["` + name + ` moved."],` +
		`"chart_data":[` +
		`{"name":"` + prev + `","series1":` + strconv.FormatFloat(prevVal, 'f', -1, 64) + `,"series2":0,"series3":0},` +
		`{"name":"` + latest + `","series1":` + strconv.FormatFloat(latestVal, 'f', -1, 64) + `,"series2":0,"series3":0}]}]}`
}

func TestExtract_PartitionedMergesAllCategories(t *testing.T) {
	stub := &stubCompleter{
		respond: func(messages []openai.Message) (string, error) {
			prompt := userContent(messages)
			switch {
			case strings.Contains(prompt, "Gross Profit"):
				return categoryPayload("Income", "Aug 2024", 9384, "Sep 2024", 5200), nil
			case strings.Contains(prompt, "EBITDA"):
				return categoryPayload("Net Income", "Aug 2024", 10874, "Sep 2024", 5097), nil
			default:
				return categoryPayload("Cash Flow", "Aug 2024", 790, "Sep 2024", 1471), nil
			}
		},
	}

	ex := NewExtractor(stub, WithStrategy(StrategyPartitioned))
	rep, err := ex.Extract(context.Background(), "some commentary")
	if err != nil {
		t.Fatalf("Extract: %v", err)
	}

	if stub.calls != 3 {
		t.Errorf("expected 3 category calls, got %d", stub.calls)
	}
	if len(rep.Metrics) != 3 {
		t.Fatalf("expected 3 metrics, got %d: %+v", len(rep.Metrics), rep.Metrics)
	}

	// Merge order is fixed: revenue, profitability, operational.
	wantOrder := []string{"Income", "Net Income", "Cash Flow"}
	for i, want := range wantOrder {
		if rep.Metrics[i].Name != want {
			t.Errorf("metric %d = %q, want %q", i, rep.Metrics[i].Name, want)
		}
	}
}

func TestExtract_PartitionedToleratesCategoryFailure(t *testing.T) {
	stub := &stubCompleter{
		respond: func(messages []openai.Message) (string, error) {
			prompt := userContent(messages)
			switch {
			case strings.Contains(prompt, "Gross Profit"):
				return categoryPayload("Income", "Aug 2024", 9384, "Sep 2024", 5200), nil
			case strings.Contains(prompt, "EBITDA"):
				return categoryPayload("EBITDA", "Aug 2024", 10874, "Sep 2024", 5097), nil
			default:
				// Operational category blows up.
				return "", errors.New("upstream: timeout")
			}
		},
	}

	ex := NewExtractor(stub, WithStrategy(StrategyPartitioned))
	rep, err := ex.Extract(context.Background(), "some commentary")
	if err != nil {
		t.Fatalf("one failed category must not fail the extraction: %v", err)
	}

	if len(rep.Metrics) != 2 {
		t.Fatalf("expected 2 metrics from surviving categories, got %d", len(rep.Metrics))
	}
	for _, m := range rep.Metrics {
		if m.Name == "Cash Flow" {
			t.Error("failed category leaked metrics")
		}
	}
}

func TestExtract_PartitionedAllFail(t *testing.T) {
	stub := &stubCompleter{
		respond: func([]openai.Message) (string, error) {
			return "", errors.New("upstream: down")
		},
	}

	ex := NewExtractor(stub, WithStrategy(StrategyPartitioned))
	rep, err := ex.Extract(context.Background(), "some commentary")

	if !errors.Is(err, ErrNoMetrics) {
		t.Errorf("expected ErrNoMetrics, got %v", err)
	}
	if len(rep.Metrics) != 0 {
		t.Errorf("expected empty metrics, got %v", rep.Metrics)
	}
}

func TestConvertMetrics_DisplayFallback(t *testing.T) {
	metrics := convertMetrics([]wireMetric{
		{
			Name: "Income",
			ChartData: []wirePoint{
				{Name: "Jan 2021", Series1: 84629},
				{Name: "Feb 2021", Series1: 88912},
			},
		},
	})

	if len(metrics) != 1 {
		t.Fatalf("got %d metrics", len(metrics))
	}
	if metrics[0].DisplayValue != "$88,912" {
		t.Errorf("display value = %q, want $88,912", metrics[0].DisplayValue)
	}
	if metrics[0].DisplayLabel != "Latest Period (Feb 2021)" {
		t.Errorf("display label = %q", metrics[0].DisplayLabel)
	}
}
