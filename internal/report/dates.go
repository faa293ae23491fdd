package report

import (
	"sort"
	"time"
)

// periodLayouts are tried in order; the first one that parses wins.
var periodLayouts = []string{
	"Jan 2006",     // "Jan 2021"
	"January 2006", // "January 2021"
	"01/2006",      // "01/2021"
	"2006-01",      // "2021-01"
}

// farFuture is the sentinel sort key for labels no layout can parse, so they
// sort after every real period.
var farFuture = time.Date(9999, time.December, 31, 0, 0, 0, 0, time.UTC)

// PeriodSortKey converts a free-text period label into a sortable time.
// Unparseable labels ("Period 1", "Q-unknown") map to the far-future sentinel.
func PeriodSortKey(label string) time.Time {
	for _, layout := range periodLayouts {
		if t, err := time.Parse(layout, label); err == nil {
			return t
		}
	}
	return farFuture
}

// SortSeries orders a series chronologically by period label. The sort is
// stable, so ties (including all unparseable labels) keep their original
// relative order, and sorting an already-sorted series is a no-op.
func SortSeries(series []DataPoint) []DataPoint {
	if len(series) < 2 {
		return series
	}
	sorted := make([]DataPoint, len(series))
	copy(sorted, series)
	sort.SliceStable(sorted, func(i, j int) bool {
		return PeriodSortKey(sorted[i].PeriodLabel).Before(PeriodSortKey(sorted[j].PeriodLabel))
	})
	return sorted
}
