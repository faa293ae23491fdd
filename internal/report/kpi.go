package report

import (
	"regexp"
	"strconv"
	"strings"
)

var yearTokenRe = regexp.MustCompile(`20\d{2}`)

var monthTokens = []string{
	"january", "february", "march", "april", "june",
	"july", "august", "september", "october", "november", "december",
	"jan", "feb", "mar", "apr", "may", "jun",
	"jul", "aug", "sep", "oct", "nov", "dec",
}

var quarterTokens = []string{"q1", "q2", "q3", "q4", "quarter"}

// ClassifyComparison determines how a pair of period labels relate.
// Precedence is fixed: YoY, then QoQ, then MoM, then the generic fallback.
// Because the year check runs first, a month transition that crosses a
// calendar year ("Dec 2020" to "Jan 2021") classifies as YoY even though the
// months are adjacent. That precedence is intentional and pinned by tests;
// do not reorder the checks.
func ClassifyComparison(fromLabel, toLabel string) ComparisonKind {
	if fromLabel == "" || toLabel == "" {
		return KindGeneric
	}

	from := strings.ToLower(fromLabel)
	to := strings.ToLower(toLabel)

	fromYear := yearTokenRe.FindString(from)
	toYear := yearTokenRe.FindString(to)
	if fromYear != "" && toYear != "" {
		fy, _ := strconv.Atoi(fromYear)
		ty, _ := strconv.Atoi(toYear)
		if abs(ty-fy) >= 1 {
			return KindYoY
		}
	}

	if containsAny(from, quarterTokens) && containsAny(to, quarterTokens) {
		return KindQoQ
	}

	if containsAny(from, monthTokens) && containsAny(to, monthTokens) {
		return KindMoM
	}

	return KindGeneric
}

// LabelHints carries the extractor's optional suggestion of which two periods
// a comparison should span. The deriver prefers pairs it can find in the
// series itself and falls back to these.
type LabelHints struct {
	PreviousLabel string
	LatestLabel   string
}

// DeriveKPIs computes the sequential and annual deltas for a chronologically
// sorted series. A delta whose starting value is zero is omitted entirely so
// division by zero never reaches output.
func DeriveKPIs(series []DataPoint, hints LabelHints) KPISet {
	var set KPISet
	if len(series) < 2 {
		return set
	}

	from, to := series[len(series)-2], series[len(series)-1]
	if p, ok := findPoint(series, hints.PreviousLabel); ok {
		if l, ok := findPoint(series, hints.LatestLabel); ok && p.PeriodLabel != l.PeriodLabel {
			from, to = p, l
		}
	}
	set.Sequential = newDelta(from, to)

	if annualFrom, ok := yearAgoPoint(series, to); ok {
		set.Annual = newDelta(annualFrom, to)
	}

	return set
}

// newDelta builds a Delta between two points, or nil when the starting value
// is zero.
func newDelta(from, to DataPoint) *Delta {
	if from.Primary == 0 {
		return nil
	}
	return &Delta{
		Percent:   (to.Primary - from.Primary) / from.Primary * 100,
		FromValue: from.Primary,
		ToValue:   to.Primary,
		FromLabel: from.PeriodLabel,
		ToLabel:   to.PeriodLabel,
		Kind:      ClassifyComparison(from.PeriodLabel, to.PeriodLabel),
	}
}

// yearAgoPoint finds the series entry whose period parses to exactly one
// year before the given point.
func yearAgoPoint(series []DataPoint, latest DataPoint) (DataPoint, bool) {
	latestKey := PeriodSortKey(latest.PeriodLabel)
	if latestKey.Equal(farFuture) {
		return DataPoint{}, false
	}
	want := latestKey.AddDate(-1, 0, 0)
	for _, dp := range series {
		if PeriodSortKey(dp.PeriodLabel).Equal(want) {
			return dp, true
		}
	}
	return DataPoint{}, false
}

func findPoint(series []DataPoint, label string) (DataPoint, bool) {
	if label == "" {
		return DataPoint{}, false
	}
	for _, dp := range series {
		if strings.EqualFold(dp.PeriodLabel, label) {
			return dp, true
		}
	}
	return DataPoint{}, false
}

func containsAny(s string, tokens []string) bool {
	for _, tok := range tokens {
		if strings.Contains(s, tok) {
			return true
		}
	}
	return false
}

func abs(n int) int {
	if n < 0 {
		return -n
	}
	return n
}
