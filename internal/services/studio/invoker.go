package studio

import (
	"context"
	"encoding/json"
	"time"

	"github.com/ternarybob/arbor"

	"github.com/ternarybob/magstudio/internal/services/llm"
)

// ContentGenerator is the transport the invoker calls; *llm.ProviderFactory satisfies it
type ContentGenerator interface {
	GenerateContent(ctx context.Context, request *llm.ContentRequest) (*llm.ContentResponse, error)
}

// Invoker performs one structured generation call and checks the reply against its schema.
// It never returns a partial result.
type Invoker struct {
	generator ContentGenerator
	logger    arbor.ILogger
}

// NewInvoker creates an invoker over the given transport
func NewInvoker(generator ContentGenerator, logger arbor.ILogger) *Invoker {
	return &Invoker{generator: generator, logger: logger}
}

// Invoke sends prompt to model with schema as the required response shape
func (i *Invoker) Invoke(ctx context.Context, model, prompt string, schema map[string]interface{}, grounded bool) (map[string]interface{}, error) {
	start := time.Now()

	resp, err := i.generator.GenerateContent(ctx, &llm.ContentRequest{
		Model:        model,
		Prompt:       prompt,
		OutputSchema: schema,
		Grounded:     grounded,
	})
	if err != nil {
		return nil, &TransportError{Model: model, Err: err}
	}

	parsed, err := decodeObject(resp.Text, schema)
	if err != nil {
		i.logger.Warn().
			Str("model", model).
			Str("kind", ErrorKind(err)).
			Err(err).
			Msg("Generation response rejected")
		return nil, err
	}

	i.logger.Debug().
		Str("model", model).
		Str("provider", string(resp.Provider)).
		Int("response_chars", len(resp.Text)).
		Dur("elapsed", time.Since(start)).
		Msg("Generation response accepted")

	return parsed, nil
}

// decodeObject parses text as JSON and validates it against schema
func decodeObject(text string, schema map[string]interface{}) (map[string]interface{}, error) {
	body := stripFences(text)

	var value interface{}
	if err := json.Unmarshal([]byte(body), &value); err != nil {
		return nil, &MalformedResponseError{Snippet: snippet(body, 80), Err: err}
	}

	if err := validateSchema(value, schema, ""); err != nil {
		return nil, err
	}

	obj, ok := value.(map[string]interface{})
	if !ok {
		return nil, &SchemaViolationError{Reason: "expected object, got " + describe(value)}
	}
	return obj, nil
}

func snippet(s string, n int) string {
	runes := []rune(s)
	if len(runes) <= n {
		return s
	}
	return string(runes[:n]) + "..."
}
