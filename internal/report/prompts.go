package report

import (
	"fmt"
	"strings"
)

const singleSystemPrompt = `You are a financial data analyst. Parse the financial text and extract structured data.

Return ONLY valid JSON with this structure:
{
    "title": "Financial Analysis Report",
    "subtitle": "May 2019 to Sep 2024",
    "date": "September 2024",
    "metrics": [
        {
            "name": "Income",
            "value": "$155,815",
            "label": "Peak Revenue (Dec 2020)",
            "kpis": {
                "previous_label": "Aug 2024",
                "latest_label": "Sep 2024"
            },
            "bullet_points": [
                "Income reached its highest point in December 2020 at $155,815."
            ],
            "chart_data": [
                {"name": "May 2019", "series1": 8321, "series2": 0, "series3": 0},
                {"name": "Dec 2020", "series1": 155815, "series2": 0, "series3": 0}
            ]
        }
    ]
}`

const categorySystemPrompt = `You are a financial data analyst. Parse the financial text and extract structured data for the requested metrics only.

Return ONLY valid JSON with this structure:
{
    "metrics": [
        {
            "name": "Income",
            "value": "$88,912",
            "label": "Latest Period (Feb 2021)",
            "kpis": {
                "previous_label": "Jan 2021",
                "latest_label": "Feb 2021"
            },
            "bullet_points": [
                "Income rose from $84,629 in Jan 2021 to $88,912 in Feb 2021."
            ],
            "chart_data": [
                {"name": "Jan 2021", "series1": 84629, "series2": 0, "series3": 0},
                {"name": "Feb 2021", "series1": 88912, "series2": 0, "series3": 0}
            ]
        }
    ]
}`

const extractionRules = `RULES:
- Extract EVERY number mentioned for each metric, with its date or period.
- If dates are given (Jan 2021, Feb 2021), use them as "name"; otherwise use "Period 1", "Period 2", etc.
- Remove $ and commas from numbers.
- chart_data arrays must NEVER be empty if numbers exist in the text.
- Each metric needs "value" (the latest or most significant figure, with $) and a descriptive "label".
- "bullet_points" holds 2-5 complete-sentence insights with specific numbers, timeframes, and percentages.
- In "kpis", report only "previous_label" and "latest_label" naming the two most recent periods; percentage changes are computed downstream.`

// BuildSingleUserPrompt builds the user message for single-pass extraction.
func BuildSingleUserPrompt(text string) string {
	return fmt.Sprintf(`Parse this financial text and extract EVERY metric (%s, and any others mentioned) with ALL of its data points:

%s

%s

Return complete JSON with ALL metrics and ALL their data points.`,
		strings.Join(RecognizedMetrics(), ", "), text, extractionRules)
}

// BuildCategoryUserPrompt builds the user message for one partitioned
// category call, scoped to that family's metrics.
func BuildCategoryUserPrompt(cat Category, text string) string {
	return fmt.Sprintf(`Parse this financial text and extract ONLY these metrics: %s.
Ignore every other metric family.

%s

%s

Return JSON with a single "metrics" array covering only the requested metrics.`,
		strings.Join(CategoryMetrics[cat], ", "), text, extractionRules)
}

const preprocessSystemPrompt = `You are a financial data assistant. You condense long financial commentary without inventing or altering any figures.`

// BuildPreprocessUserPrompt builds the user message for the noise-filtering
// preprocessing pass.
func BuildPreprocessUserPrompt(text string) string {
	return fmt.Sprintf(`From the following commentary, keep ONLY sentences that mention these metrics: %s.
Keep every number with its period label exactly as written. Prefer recent periods when the text is repetitive. Drop everything else. Return plain text, not JSON.

%s`, strings.Join(RecognizedMetrics(), ", "), text)
}
