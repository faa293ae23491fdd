// Package cost estimates completion spend from token usage.
package cost

// Rates holds per-model token pricing (USD per million tokens).
type Rates map[string]ModelRate

// ModelRate holds input/output token pricing for one model.
type ModelRate struct {
	Input  float64 `yaml:"input" mapstructure:"input"`
	Output float64 `yaml:"output" mapstructure:"output"`
}

// Calculator computes costs for completion API usage.
type Calculator struct {
	rates Rates
}

// NewCalculator creates a Calculator with the given rates.
func NewCalculator(rates Rates) *Calculator {
	return &Calculator{rates: rates}
}

// Completion computes the cost of one call. Unknown models cost zero.
func (c *Calculator) Completion(model string, promptTokens, completionTokens int) float64 {
	rate, ok := c.rates[model]
	if !ok {
		return 0
	}
	return (float64(promptTokens)/1e6)*rate.Input + (float64(completionTokens)/1e6)*rate.Output
}

// DefaultRates returns the default pricing rates.
func DefaultRates() Rates {
	return Rates{
		"gpt-4":         {Input: 30.00, Output: 60.00},
		"gpt-4o":        {Input: 2.50, Output: 10.00},
		"gpt-4o-mini":   {Input: 0.15, Output: 0.60},
		"deepseek-chat": {Input: 0.27, Output: 1.10},
	}
}
