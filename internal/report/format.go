package report

import (
	"golang.org/x/text/language"
	"golang.org/x/text/message"
	"golang.org/x/text/number"
)

var printer = message.NewPrinter(language.English)

// SignedPercent renders a delta's percentage with an explicit leading sign,
// as human-facing strings always carry one ("+5.1%", "-44.6%").
func (d *Delta) SignedPercent() string {
	if d == nil {
		return ""
	}
	return printer.Sprintf("%+.1f%%", d.Percent)
}

// Caption renders the delta's comparison kind with its period span, matching
// the slide captions ("MoM (Aug 2024 → Sep 2024)").
func (d *Delta) Caption() string {
	if d == nil {
		return ""
	}
	if d.FromLabel == "" || d.ToLabel == "" {
		return string(d.Kind)
	}
	return printer.Sprintf("%s (%s → %s)", string(d.Kind), d.FromLabel, d.ToLabel)
}

// FormatAmount renders a currency headline figure with thousands grouping,
// used when the extractor did not supply a display value.
func FormatAmount(v float64) string {
	return printer.Sprintf("$%v", number.Decimal(v, number.MaxFractionDigits(0)))
}
