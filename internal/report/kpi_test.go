package report

import (
	"math"
	"testing"
)

func TestClassifyComparison_Precedence(t *testing.T) {
	tests := []struct {
		from, to string
		want     ComparisonKind
	}{
		{"Aug 2024", "Sep 2024", KindMoM},
		{"August 2024", "September 2024", KindMoM},
		{"Q1 2024", "Q2 2024", KindQoQ},
		{"Q4", "Q1", KindQoQ},
		{"Sep 2023", "Sep 2024", KindYoY},
		{"2023-09", "2024-09", KindYoY},
		{"Period 1", "Period 2", KindGeneric},
		{"", "Sep 2024", KindGeneric},
		{"previous", "latest", KindGeneric},
	}

	for _, tt := range tests {
		if got := ClassifyComparison(tt.from, tt.to); got != tt.want {
			t.Errorf("ClassifyComparison(%q, %q) = %q, want %q", tt.from, tt.to, got, tt.want)
		}
	}
}

// The year-token check runs before the month check, so adjacent months that
// straddle a calendar year classify as YoY. Downstream consumers depend on
// this exact precedence; a change here is a behavior change, not a cleanup.
func TestClassifyComparison_YearBoundaryPinned(t *testing.T) {
	if got := ClassifyComparison("Dec 2020", "Jan 2021"); got != KindYoY {
		t.Errorf("ClassifyComparison(Dec 2020, Jan 2021) = %q, want %q (pinned precedence)", got, KindYoY)
	}
}

func TestDeriveKPIs_Sequential(t *testing.T) {
	series := []DataPoint{
		{PeriodLabel: "Jan 2021", Primary: 84629},
		{PeriodLabel: "Feb 2021", Primary: 88912},
	}

	set := DeriveKPIs(series, LabelHints{})
	if set.Sequential == nil {
		t.Fatal("expected sequential delta")
	}

	d := set.Sequential
	if math.Abs(d.Percent-5.0609) > 0.001 {
		t.Errorf("percent = %f, want ~5.0609", d.Percent)
	}
	if d.Kind != KindMoM {
		t.Errorf("kind = %q, want MoM", d.Kind)
	}
	if d.FromLabel != "Jan 2021" || d.ToLabel != "Feb 2021" {
		t.Errorf("labels = %q -> %q", d.FromLabel, d.ToLabel)
	}
	if d.FromValue != 84629 || d.ToValue != 88912 {
		t.Errorf("values = %f -> %f", d.FromValue, d.ToValue)
	}
}

func TestDeriveKPIs_ZeroDivisorOmitted(t *testing.T) {
	series := []DataPoint{
		{PeriodLabel: "Aug 2024", Primary: 0},
		{PeriodLabel: "Sep 2024", Primary: 5200},
	}

	set := DeriveKPIs(series, LabelHints{})
	if set.Sequential != nil {
		t.Errorf("expected omitted delta for zero divisor, got %+v", set.Sequential)
	}
}

func TestDeriveKPIs_NeverNaNOrInf(t *testing.T) {
	series := []DataPoint{
		{PeriodLabel: "Period 1", Primary: 0},
		{PeriodLabel: "Period 2", Primary: 0},
	}

	set := DeriveKPIs(series, LabelHints{})
	for _, d := range []*Delta{set.Sequential, set.Annual} {
		if d == nil {
			continue
		}
		if math.IsNaN(d.Percent) || math.IsInf(d.Percent, 0) {
			t.Errorf("non-finite percent leaked: %f", d.Percent)
		}
	}
}

func TestDeriveKPIs_TooFewPoints(t *testing.T) {
	set := DeriveKPIs([]DataPoint{{PeriodLabel: "Sep 2024", Primary: 5200}}, LabelHints{})
	if set.Sequential != nil || set.Annual != nil {
		t.Errorf("expected empty KPI set, got %+v", set)
	}
}

func TestDeriveKPIs_Annual(t *testing.T) {
	series := []DataPoint{
		{PeriodLabel: "Sep 2023", Primary: 4150},
		{PeriodLabel: "Aug 2024", Primary: 9384},
		{PeriodLabel: "Sep 2024", Primary: 5200},
	}

	set := DeriveKPIs(series, LabelHints{})
	if set.Annual == nil {
		t.Fatal("expected annual delta")
	}
	if set.Annual.Kind != KindYoY {
		t.Errorf("annual kind = %q, want YoY", set.Annual.Kind)
	}
	if set.Annual.FromLabel != "Sep 2023" || set.Annual.ToLabel != "Sep 2024" {
		t.Errorf("annual span = %q -> %q", set.Annual.FromLabel, set.Annual.ToLabel)
	}
	if math.Abs(set.Annual.Percent-25.301) > 0.01 {
		t.Errorf("annual percent = %f, want ~25.3", set.Annual.Percent)
	}
}

func TestDeriveKPIs_HintsSelectPair(t *testing.T) {
	series := []DataPoint{
		{PeriodLabel: "Jul 2024", Primary: 12186},
		{PeriodLabel: "Aug 2024", Primary: 9384},
		{PeriodLabel: "Sep 2024", Primary: 5200},
	}

	set := DeriveKPIs(series, LabelHints{PreviousLabel: "Jul 2024", LatestLabel: "Sep 2024"})
	if set.Sequential == nil {
		t.Fatal("expected sequential delta")
	}
	if set.Sequential.FromLabel != "Jul 2024" || set.Sequential.ToLabel != "Sep 2024" {
		t.Errorf("hints ignored: %q -> %q", set.Sequential.FromLabel, set.Sequential.ToLabel)
	}
}

func TestDeriveKPIs_UnknownHintsFallBack(t *testing.T) {
	series := []DataPoint{
		{PeriodLabel: "Aug 2024", Primary: 9384},
		{PeriodLabel: "Sep 2024", Primary: 5200},
	}

	set := DeriveKPIs(series, LabelHints{PreviousLabel: "Mar 2019", LatestLabel: "Apr 2019"})
	if set.Sequential == nil {
		t.Fatal("expected sequential delta")
	}
	if set.Sequential.FromLabel != "Aug 2024" {
		t.Errorf("expected fallback to last two points, got from=%q", set.Sequential.FromLabel)
	}
}

func TestSignedPercent(t *testing.T) {
	tests := []struct {
		pct  float64
		want string
	}{
		{5.06, "+5.1%"},
		{-44.6, "-44.6%"},
		{0, "+0.0%"},
	}
	for _, tt := range tests {
		d := &Delta{Percent: tt.pct}
		if got := d.SignedPercent(); got != tt.want {
			t.Errorf("SignedPercent(%f) = %q, want %q", tt.pct, got, tt.want)
		}
	}

	var nilDelta *Delta
	if nilDelta.SignedPercent() != "" {
		t.Error("nil delta should render empty")
	}
}

func TestCaption(t *testing.T) {
	d := &Delta{Kind: KindMoM, FromLabel: "Aug 2024", ToLabel: "Sep 2024"}
	if got := d.Caption(); got != "MoM (Aug 2024 → Sep 2024)" {
		t.Errorf("Caption() = %q", got)
	}

	bare := &Delta{Kind: KindGeneric}
	if got := bare.Caption(); got != "vs Previous" {
		t.Errorf("Caption() = %q", got)
	}
}

func TestFormatAmount(t *testing.T) {
	if got := FormatAmount(84629); got != "$84,629" {
		t.Errorf("FormatAmount(84629) = %q", got)
	}
	if got := FormatAmount(103); got != "$103" {
		t.Errorf("FormatAmount(103) = %q", got)
	}
}
