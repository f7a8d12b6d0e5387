package llm

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"google.golang.org/genai"

	"github.com/yungbote/promptcraft-backend/internal/platform/logger"
	"github.com/yungbote/promptcraft-backend/internal/platform/promptstyle"
)

type geminiClient struct {
	log         *logger.Logger
	client      *genai.Client
	model       string
	temperature float32
	cfg         Config
}

func newGemini(ctx context.Context, cfg Config, log *logger.Logger) (*geminiClient, error) {
	return newGeminiWithHTTP(ctx, cfg, log, nil, "")
}

// newGeminiWithHTTP allows tests to point the SDK at a local server.
func newGeminiWithHTTP(ctx context.Context, cfg Config, log *logger.Logger, httpClient *http.Client, baseURL string) (*geminiClient, error) {
	cc := &genai.ClientConfig{
		APIKey:     cfg.GoogleAPIKey,
		Backend:    genai.BackendGeminiAPI,
		HTTPClient: httpClient,
	}
	if baseURL != "" {
		cc.HTTPOptions = genai.HTTPOptions{BaseURL: baseURL}
	}
	c, err := genai.NewClient(ctx, cc)
	if err != nil {
		return nil, fmt.Errorf("init gemini client: %w", err)
	}
	return &geminiClient{
		log:         log.With("client", "GeminiClient"),
		client:      c,
		model:       cfg.Model,
		temperature: float32(cfg.Temperature),
		cfg:         cfg,
	}, nil
}

func (g *geminiClient) Provider() string { return ProviderGemini }
func (g *geminiClient) Model() string    { return g.model }

func (g *geminiClient) GenerateJSON(ctx context.Context, system string, user string, schemaName string, schema map[string]any) (map[string]any, error) {
	if schemaName == "" {
		return nil, errors.New("schemaName required")
	}
	if schema == nil {
		return nil, errors.New("schema required")
	}
	config := g.baseConfig(promptstyle.ApplySystem(system, "json"))
	config.ResponseMIMEType = "application/json"
	config.ResponseJsonSchema = schema

	var out map[string]any
	err := call(ctx, g.log, g.cfg.Timeout, ProviderGemini, g.model, "generate_json", func(ctx context.Context) (int, error) {
		text, err := g.generate(ctx, user, config)
		if err != nil {
			return 0, err
		}
		obj, err := DecodeStructured(schemaName, schema, text)
		if err != nil {
			return len(text), err
		}
		out = obj
		return len(text), nil
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

func (g *geminiClient) GenerateText(ctx context.Context, system string, user string) (string, error) {
	config := g.baseConfig(promptstyle.ApplySystem(system, "text"))
	var out string
	err := call(ctx, g.log, g.cfg.Timeout, ProviderGemini, g.model, "generate_text", func(ctx context.Context) (int, error) {
		text, err := g.generate(ctx, user, config)
		if err != nil {
			return 0, err
		}
		out = text
		return len(text), nil
	})
	if err != nil {
		return "", err
	}
	return out, nil
}

func (g *geminiClient) baseConfig(system string) *genai.GenerateContentConfig {
	config := &genai.GenerateContentConfig{
		Temperature: genai.Ptr(g.temperature),
	}
	if strings.TrimSpace(system) != "" {
		config.SystemInstruction = genai.NewContentFromText(system, genai.RoleUser)
	}
	return config
}

func (g *geminiClient) generate(ctx context.Context, user string, config *genai.GenerateContentConfig) (string, error) {
	resp, err := g.client.Models.GenerateContent(ctx, g.model, genai.Text(user), config)
	if err != nil {
		return "", wrapGeminiError(err)
	}
	if resp == nil {
		return "", nil
	}
	if resp.PromptFeedback != nil && resp.PromptFeedback.BlockReason != "" {
		return "", &ProviderError{Provider: ProviderGemini, Err: fmt.Errorf("prompt blocked: %s", resp.PromptFeedback.BlockReason)}
	}
	return resp.Text(), nil
}

func wrapGeminiError(err error) error {
	var apiErr genai.APIError
	if errors.As(err, &apiErr) {
		return &ProviderError{Provider: ProviderGemini, StatusCode: apiErr.Code, Err: err}
	}
	return &ProviderError{Provider: ProviderGemini, Err: err}
}
