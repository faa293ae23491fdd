package cost

import (
	"sync"
	"time"

	"go.uber.org/zap"
)

// Tracker accumulates token usage across the completion calls of one request
// and prices them. It satisfies the pipeline's usage-sink contract and is
// safe for the concurrent category calls.
type Tracker struct {
	calc *Calculator

	mu               sync.Mutex
	calls            int
	promptTokens     int
	completionTokens int
	elapsed          time.Duration
	costUSD          float64
}

// NewTracker creates a Tracker pricing usage with the given calculator.
func NewTracker(calc *Calculator) *Tracker {
	return &Tracker{calc: calc}
}

// Record tallies one completion call.
func (t *Tracker) Record(model string, promptTokens, completionTokens int, elapsed time.Duration) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.calls++
	t.promptTokens += promptTokens
	t.completionTokens += completionTokens
	t.elapsed += elapsed
	t.costUSD += t.calc.Completion(model, promptTokens, completionTokens)
}

// Summary is a point-in-time view of accumulated usage.
type Summary struct {
	Calls            int           `json:"calls"`
	PromptTokens     int           `json:"prompt_tokens"`
	CompletionTokens int           `json:"completion_tokens"`
	TotalTokens      int           `json:"total_tokens"`
	Elapsed          time.Duration `json:"-"`
	CostUSD          float64       `json:"cost_usd"`
}

// Summary returns the usage accumulated so far.
func (t *Tracker) Summary() Summary {
	t.mu.Lock()
	defer t.mu.Unlock()
	return Summary{
		Calls:            t.calls,
		PromptTokens:     t.promptTokens,
		CompletionTokens: t.completionTokens,
		TotalTokens:      t.promptTokens + t.completionTokens,
		Elapsed:          t.elapsed,
		CostUSD:          t.costUSD,
	}
}

// Log emits the summary as a structured diagnostic line.
func (t *Tracker) Log(msg string) {
	s := t.Summary()
	zap.L().Info(msg,
		zap.Int("calls", s.Calls),
		zap.Int("prompt_tokens", s.PromptTokens),
		zap.Int("completion_tokens", s.CompletionTokens),
		zap.Int("total_tokens", s.TotalTokens),
		zap.Duration("elapsed", s.Elapsed),
		zap.Float64("cost_usd", s.CostUSD),
	)
}
