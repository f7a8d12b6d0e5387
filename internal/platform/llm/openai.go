package llm

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"

	openai "github.com/openai/openai-go/v3"
	"github.com/openai/openai-go/v3/option"

	"github.com/yungbote/promptcraft-backend/internal/platform/logger"
	"github.com/yungbote/promptcraft-backend/internal/platform/promptstyle"
)

type openAIClient struct {
	log    *logger.Logger
	client openai.Client
	model  string
	cfg    Config
}

func newOpenAI(cfg Config, log *logger.Logger) *openAIClient {
	return newOpenAIWithHTTP(cfg, log, nil)
}

func newOpenAIWithHTTP(cfg Config, log *logger.Logger, httpClient *http.Client) *openAIClient {
	opts := []option.RequestOption{
		option.WithAPIKey(cfg.OpenAIAPIKey),
		// Failed calls surface to the user, who resubmits.
		option.WithMaxRetries(0),
	}
	if base := strings.TrimSpace(cfg.OpenAIBaseURL); base != "" {
		opts = append(opts, option.WithBaseURL(base))
	}
	if httpClient != nil {
		opts = append(opts, option.WithHTTPClient(httpClient))
	}
	return &openAIClient{
		log:    log.With("client", "OpenAIClient"),
		client: openai.NewClient(opts...),
		model:  cfg.Model,
		cfg:    cfg,
	}
}

func (o *openAIClient) Provider() string { return ProviderOpenAI }
func (o *openAIClient) Model() string    { return o.model }

func (o *openAIClient) GenerateJSON(ctx context.Context, system string, user string, schemaName string, schema map[string]any) (map[string]any, error) {
	if schemaName == "" {
		return nil, errors.New("schemaName required")
	}
	if schema == nil {
		return nil, errors.New("schema required")
	}
	params := o.baseParams(promptstyle.ApplySystem(system, "json"), user)
	params.ResponseFormat = openai.ChatCompletionNewParamsResponseFormatUnion{
		OfJSONSchema: &openai.ResponseFormatJSONSchemaParam{
			JSONSchema: openai.ResponseFormatJSONSchemaJSONSchemaParam{
				Name:   schemaName,
				Schema: schema,
				Strict: openai.Bool(false),
			},
		},
	}

	var out map[string]any
	err := call(ctx, o.log, o.cfg.Timeout, ProviderOpenAI, o.model, "generate_json", func(ctx context.Context) (int, error) {
		text, err := o.complete(ctx, params)
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

func (o *openAIClient) GenerateText(ctx context.Context, system string, user string) (string, error) {
	params := o.baseParams(promptstyle.ApplySystem(system, "text"), user)
	var out string
	err := call(ctx, o.log, o.cfg.Timeout, ProviderOpenAI, o.model, "generate_text", func(ctx context.Context) (int, error) {
		text, err := o.complete(ctx, params)
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

func (o *openAIClient) baseParams(system, user string) openai.ChatCompletionNewParams {
	msgs := make([]openai.ChatCompletionMessageParamUnion, 0, 2)
	if strings.TrimSpace(system) != "" {
		msgs = append(msgs, openai.SystemMessage(system))
	}
	msgs = append(msgs, openai.UserMessage(user))
	return openai.ChatCompletionNewParams{
		Model:       openai.ChatModel(o.model),
		Messages:    msgs,
		Temperature: openai.Float(o.cfg.Temperature),
	}
}

func (o *openAIClient) complete(ctx context.Context, params openai.ChatCompletionNewParams) (string, error) {
	resp, err := o.client.Chat.Completions.New(ctx, params)
	if err != nil {
		return "", wrapOpenAIError(err)
	}
	if resp == nil || len(resp.Choices) == 0 {
		return "", nil
	}
	msg := resp.Choices[0].Message
	if msg.Refusal != "" {
		return "", &ProviderError{Provider: ProviderOpenAI, Err: fmt.Errorf("model refused: %s", msg.Refusal)}
	}
	return msg.Content, nil
}

func wrapOpenAIError(err error) error {
	var apiErr *openai.Error
	if errors.As(err, &apiErr) {
		return &ProviderError{Provider: ProviderOpenAI, StatusCode: apiErr.StatusCode, Err: err}
	}
	return &ProviderError{Provider: ProviderOpenAI, Err: err}
}
