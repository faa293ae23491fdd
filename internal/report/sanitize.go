package report

import (
	"encoding/json"
	"fmt"
	"regexp"
	"strings"

	jsonrepair "github.com/RealAlexandreAI/json-repair"
)

// previewLen bounds how much of an unparseable response a SanitizeError keeps.
const previewLen = 200

// SanitizeError reports that no JSON object could be recovered from a model
// response, even after the repair pass. It keeps the original parser error
// and a truncated preview of the offending text.
type SanitizeError struct {
	Err     error
	Preview string
}

func (e *SanitizeError) Error() string {
	return fmt.Sprintf("sanitize: unrecoverable JSON (%v): %q", e.Err, e.Preview)
}

func (e *SanitizeError) Unwrap() error {
	return e.Err
}

var (
	// "...}," or "...]," before a closing brace/bracket.
	trailingCommaRe = regexp.MustCompile(`,\s*([}\]])`)
	// Two object literals jammed together without a separator.
	adjacentObjectsRe = regexp.MustCompile(`}\s*{`)
	// A bare quote inside a string value, sitting between word characters.
	// Best effort only; legitimate quotes near delimiters can mis-fire.
	unescapedQuoteRe = regexp.MustCompile(`([a-zA-Z0-9])"([a-zA-Z0-9])`)
)

// Sanitize recovers a JSON object from a raw model response and decodes it
// into v. It strips Markdown fences and surrounding prose, slices to the
// outermost braces, and on a strict-parse failure applies the repair
// heuristics before retrying. Semantically wrong but syntactically valid
// JSON (missing fields and so on) is the caller's problem, not an error here.
func Sanitize(raw string, v any) error {
	text := CleanResponse(raw)

	strictErr := json.Unmarshal([]byte(text), v)
	if strictErr == nil {
		return nil
	}

	repaired := RepairJSON(text)
	if err := json.Unmarshal([]byte(repaired), v); err == nil {
		return nil
	}

	// Last resort: structural repair via the json-repair library. It runs
	// after the targeted heuristics so their behavior stays observable.
	if rescued, err := jsonrepair.RepairJSON(text); err == nil {
		if err := json.Unmarshal([]byte(rescued), v); err == nil {
			return nil
		}
	}

	return &SanitizeError{Err: strictErr, Preview: truncate(raw, previewLen)}
}

// CleanResponse strips Markdown code fences and prose, then slices the text
// to the span between the first '{' and the last '}'. Text with no braces
// passes through unchanged and will fail the parse downstream.
func CleanResponse(text string) string {
	text = strings.TrimSpace(text)

	if strings.HasPrefix(text, "```json") {
		text = strings.TrimPrefix(text, "```json")
		if idx := strings.LastIndex(text, "```"); idx >= 0 {
			text = text[:idx]
		}
	} else if strings.HasPrefix(text, "```") {
		text = strings.TrimPrefix(text, "```")
		if idx := strings.LastIndex(text, "```"); idx >= 0 {
			text = text[:idx]
		}
	}

	start := strings.Index(text, "{")
	end := strings.LastIndex(text, "}")
	if start >= 0 && end > start {
		text = text[start : end+1]
	}

	return strings.TrimSpace(text)
}

// RepairJSON applies the three repair heuristics in order, each to the
// previous result: drop trailing commas, separate adjacent object literals,
// escape bare quotes inside string values. The quote heuristic only targets
// the common word"word pattern.
func RepairJSON(text string) string {
	text = trailingCommaRe.ReplaceAllString(text, "$1")
	text = adjacentObjectsRe.ReplaceAllString(text, "},{")
	text = unescapedQuoteRe.ReplaceAllString(text, `$1\"$2`)
	return text
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n] + "..."
}
