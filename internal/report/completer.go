package report

import (
	"context"
	"time"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"github.com/sells-group/report-cli/pkg/openai"
)

// Completer produces free-form text for a conversation. The pipeline only
// needs this one operation from the model layer.
type Completer interface {
	Generate(ctx context.Context, messages []openai.Message) (string, error)
}

// UsageSink receives per-call token and timing diagnostics. Implementations
// must not be depended on programmatically by callers of Generate.
type UsageSink interface {
	Record(model string, promptTokens, completionTokens int, elapsed time.Duration)
}

// ClientCompleter adapts an OpenAI-compatible client to the Completer
// contract, applying the configured model, temperature, token budget, and
// per-call timeout. Failures are returned as-is; retrying is the caller's
// decision.
type ClientCompleter struct {
	client      openai.Client
	model       string
	temperature float64
	maxTokens   int
	timeout     time.Duration
	sink        UsageSink
}

// NewClientCompleter wires a completion client with its generation settings.
// A zero timeout disables the per-call bound; a nil sink disables usage
// recording.
func NewClientCompleter(client openai.Client, model string, temperature float64, maxTokens int, timeout time.Duration, sink UsageSink) *ClientCompleter {
	return &ClientCompleter{
		client:      client,
		model:       model,
		temperature: temperature,
		maxTokens:   maxTokens,
		timeout:     timeout,
		sink:        sink,
	}
}

// Generate runs one chat completion and returns the assistant text.
func (c *ClientCompleter) Generate(ctx context.Context, messages []openai.Message) (string, error) {
	if c.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.timeout)
		defer cancel()
	}

	req := openai.ChatCompletionRequest{
		Model:    c.model,
		Messages: messages,
	}
	if c.temperature > 0 {
		req.Temperature = &c.temperature
	}
	if c.maxTokens > 0 {
		req.MaxTokens = &c.maxTokens
	}

	start := time.Now()
	resp, err := c.client.ChatCompletion(ctx, req)
	elapsed := time.Since(start)
	if err != nil {
		return "", eris.Wrap(err, "report: completion")
	}

	text := resp.Text()
	if text == "" {
		return "", eris.New("report: completion returned no choices")
	}

	perSec := 0.0
	if secs := elapsed.Seconds(); secs > 0 {
		perSec = float64(resp.Usage.TotalTokens) / secs
	}
	zap.L().Debug("completion finished",
		zap.String("model", c.model),
		zap.Int("prompt_tokens", resp.Usage.PromptTokens),
		zap.Int("completion_tokens", resp.Usage.CompletionTokens),
		zap.Duration("elapsed", elapsed),
		zap.Float64("tokens_per_sec", perSec),
	)

	if c.sink != nil {
		c.sink.Record(c.model, resp.Usage.PromptTokens, resp.Usage.CompletionTokens, elapsed)
	}

	return text, nil
}
