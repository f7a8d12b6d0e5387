package llm

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"

	"github.com/yungbote/promptcraft-backend/internal/observability"
	"github.com/yungbote/promptcraft-backend/internal/platform/ctxutil"
	"github.com/yungbote/promptcraft-backend/internal/platform/logger"
)

const (
	ProviderGemini = "gemini"
	ProviderOpenAI = "openai"

	DefaultGeminiModel = "gemini-2.5-flash"
	DefaultOpenAIModel = "gpt-4o-mini"
)

// ErrMalformedOutput is returned when the model output cannot be parsed as
// JSON or does not match the requested schema.
var ErrMalformedOutput = errors.New("llm: malformed structured output")

// Client is the narrow completion surface the refiner needs.
type Client interface {
	// Structured output constrained by a JSON schema. The result has been
	// parsed and validated against schema.
	GenerateJSON(ctx context.Context, system string, user string, schemaName string, schema map[string]any) (map[string]any, error)

	// Plain text. Empty output is returned as "" with no error.
	GenerateText(ctx context.Context, system string, user string) (string, error)

	Provider() string
	Model() string
}

type Config struct {
	Provider      string
	Model         string
	Temperature   float64
	GoogleAPIKey  string
	OpenAIAPIKey  string
	OpenAIBaseURL string
	// Timeout bounds a single call. Zero leaves the caller's context as the only limit.
	Timeout time.Duration
}

// ProviderError carries the upstream HTTP status when the provider reported one.
type ProviderError struct {
	Provider   string
	StatusCode int
	Err        error
}

func (e *ProviderError) Error() string {
	if e.StatusCode > 0 {
		return fmt.Sprintf("%s: status %d: %v", e.Provider, e.StatusCode, e.Err)
	}
	return fmt.Sprintf("%s: %v", e.Provider, e.Err)
}

func (e *ProviderError) Unwrap() error { return e.Err }

func (e *ProviderError) HTTPStatusCode() int { return e.StatusCode }

// NewClient selects the backend named by cfg.Provider.
func NewClient(ctx context.Context, cfg Config, log *logger.Logger) (Client, error) {
	if log == nil {
		log = logger.NewNop()
	}
	provider := strings.ToLower(strings.TrimSpace(cfg.Provider))
	if provider == "" {
		provider = ProviderGemini
	}
	switch provider {
	case ProviderGemini:
		if strings.TrimSpace(cfg.GoogleAPIKey) == "" {
			return nil, fmt.Errorf("missing GOOGLE_API_KEY")
		}
		if strings.TrimSpace(cfg.Model) == "" {
			cfg.Model = DefaultGeminiModel
		}
		return newGemini(ctx, cfg, log)
	case ProviderOpenAI:
		if strings.TrimSpace(cfg.OpenAIAPIKey) == "" {
			return nil, fmt.Errorf("missing OPENAI_API_KEY")
		}
		if strings.TrimSpace(cfg.Model) == "" {
			cfg.Model = DefaultOpenAIModel
		}
		return newOpenAI(cfg, log), nil
	default:
		return nil, fmt.Errorf("unknown LLM_PROVIDER %q", cfg.Provider)
	}
}

// call wraps one provider round trip with the timeout, a span, a metric and a debug log.
func call(ctx context.Context, log *logger.Logger, timeout time.Duration, provider, model, operation string, fn func(ctx context.Context) (int, error)) error {
	if timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, timeout)
		defer cancel()
	}
	ctx, span := observability.StartSpan(ctx, "llm."+operation,
		attribute.String("llm.provider", provider),
		attribute.String("llm.model", model),
	)
	defer span.End()

	start := time.Now()
	outLen, err := fn(ctx)
	dur := time.Since(start)

	status := "ok"
	switch {
	case errors.Is(err, ErrMalformedOutput):
		status = "malformed"
	case err != nil:
		status = "error"
	}
	observability.Current().ObserveLLMRequest(provider, model, operation, status, dur)

	fields := append([]interface{}{
		"provider", provider,
		"model", model,
		"operation", operation,
		"status", status,
		"duration_ms", dur.Milliseconds(),
		"output_len", outLen,
	}, ctxutil.LogFields(ctx)...)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, status)
		log.Warn("llm call failed", append(fields, "error", err)...)
		return err
	}
	log.Debug("llm call", fields...)
	return nil
}
