package report

import (
	"encoding/json"
	"strconv"
	"strings"
	"time"
)

// ComparisonKind classifies a period-over-period delta.
type ComparisonKind string

const (
	// KindMoM is a month-over-month comparison.
	KindMoM ComparisonKind = "MoM"
	// KindQoQ is a quarter-over-quarter comparison.
	KindQoQ ComparisonKind = "QoQ"
	// KindYoY is a year-over-year comparison.
	KindYoY ComparisonKind = "YoY"
	// KindGeneric is the "vs Previous" fallback when period labels carry no
	// recognizable month, quarter, or year tokens.
	KindGeneric ComparisonKind = "vs Previous"
)

// Delta is a derived percentage change between two periods.
type Delta struct {
	Percent   float64        `json:"pct"`
	FromValue float64        `json:"from"`
	ToValue   float64        `json:"to"`
	FromLabel string         `json:"from_label"`
	ToLabel   string         `json:"to_label"`
	Kind      ComparisonKind `json:"kind"`
}

// KPISet holds the deltas derived from a metric's series. Either entry is nil
// when it cannot be computed (fewer than two points, or a zero divisor).
type KPISet struct {
	Sequential *Delta `json:"sequential_change,omitempty"`
	Annual     *Delta `json:"annual_change,omitempty"`
}

// DataPoint is one period's values for a metric. Secondary and tertiary
// series exist for metrics the narrative reports with more than one figure;
// they default to zero.
type DataPoint struct {
	PeriodLabel string  `json:"name"`
	Primary     float64 `json:"series1"`
	Secondary   float64 `json:"series2"`
	Tertiary    float64 `json:"series3"`
}

// Metric is one financial indicator extracted from narrative text.
type Metric struct {
	Name            string      `json:"name"`
	DisplayValue    string      `json:"display_value"`
	DisplayLabel    string      `json:"display_label"`
	Series          []DataPoint `json:"series"`
	KPIs            KPISet      `json:"kpis"`
	NarrativePoints []string    `json:"narrative_points"`
}

// Report is the merged extraction result for one request. It is built fresh
// per invocation and never persisted.
type Report struct {
	Title      string   `json:"title"`
	Subtitle   string   `json:"subtitle"`
	ReportDate string   `json:"report_date"`
	Metrics    []Metric `json:"metrics"`
}

// DefaultReport returns the placeholder structure used when extraction
// produced nothing usable.
func DefaultReport() *Report {
	return &Report{
		Title:      "Financial Analysis Report",
		Subtitle:   "Comprehensive Financial Overview",
		ReportDate: time.Now().Format("January 2006"),
		Metrics:    []Metric{},
	}
}

// Category is a disjoint metric family used by partitioned extraction.
type Category string

const (
	CategoryRevenue       Category = "revenue"
	CategoryProfitability Category = "profitability"
	CategoryOperational   Category = "operational"
)

// Categories lists the partitioned families in merge order.
var Categories = []Category{CategoryRevenue, CategoryProfitability, CategoryOperational}

// CategoryMetrics maps each family to the canonical metric names it covers.
var CategoryMetrics = map[Category][]string{
	CategoryRevenue:       {"Income", "Gross Profit", "Cost of Sale"},
	CategoryProfitability: {"EBITDA", "Net Income", "Expenses"},
	CategoryOperational:   {"Cash Flow", "Customer Collection Days", "Supplier Payment Days", "Inventory Days"},
}

// RecognizedMetrics is the full KPI vocabulary the system actively looks for.
func RecognizedMetrics() []string {
	var names []string
	for _, cat := range Categories {
		names = append(names, CategoryMetrics[cat]...)
	}
	return names
}

// Number is a float64 that tolerates the shapes LLMs put numbers in:
// plain numbers, quoted numbers, currency strings ("$88,912"), or null.
// Anything unrecognizable coerces to zero rather than failing the metric.
type Number float64

// UnmarshalJSON implements json.Unmarshaler.
func (n *Number) UnmarshalJSON(data []byte) error {
	s := strings.TrimSpace(string(data))
	if s == "" || s == "null" {
		*n = 0
		return nil
	}
	if f, err := strconv.ParseFloat(s, 64); err == nil {
		*n = Number(f)
		return nil
	}

	var str string
	if err := json.Unmarshal(data, &str); err != nil {
		*n = 0
		return nil //nolint:nilerr // coercion, not validation
	}
	str = strings.TrimSpace(str)
	str = strings.TrimPrefix(str, "$")
	str = strings.ReplaceAll(str, ",", "")
	str = strings.TrimSuffix(str, "%")
	f, err := strconv.ParseFloat(str, 64)
	if err != nil {
		*n = 0
		return nil //nolint:nilerr
	}
	*n = Number(f)
	return nil
}
