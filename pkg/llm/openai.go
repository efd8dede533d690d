package llm

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"

	openai "github.com/openai/openai-go"
	"github.com/openai/openai-go/option"
)

const maxToolRounds = 8

// OpenAIClient implements Client on the official openai-go SDK using chat
// completions with function calling.
type OpenAIClient struct {
	model  string
	opts   []option.RequestOption
	logger *slog.Logger
}

// OpenAIConfig configures an OpenAIClient. BaseURL is optional and supports
// OpenAI-compatible gateways.
type OpenAIConfig struct {
	Model   string
	APIKey  string
	BaseURL string
}

// NewOpenAIClient creates a completion client from configuration.
func NewOpenAIClient(cfg OpenAIConfig, logger *slog.Logger) (*OpenAIClient, error) {
	if cfg.Model == "" {
		return nil, fmt.Errorf("llm model is required")
	}

	if cfg.APIKey == "" {
		return nil, fmt.Errorf("llm api key is required")
	}

	opts := []option.RequestOption{option.WithAPIKey(cfg.APIKey)}
	if cfg.BaseURL != "" {
		opts = append(opts, option.WithBaseURL(cfg.BaseURL))
	}

	return &OpenAIClient{
		model: cfg.Model,
		opts:  opts,
		logger: logger.With(
			"module", "llm",
			"model", cfg.Model,
		),
	}, nil
}

// Complete sends the request and, when the model invokes declared tools,
// dispatches them and feeds the results back until final text is produced.
func (c *OpenAIClient) Complete(ctx context.Context, req Request) (string, error) {
	client := openai.NewClient(c.opts...)

	params := openai.ChatCompletionNewParams{
		Model: openai.ChatModel(c.model),
		Messages: []openai.ChatCompletionMessageParamUnion{
			openai.SystemMessage(req.System),
			openai.UserMessage(req.User),
		},
	}

	if len(req.Tools) > 0 {
		tools := make([]openai.ChatCompletionToolParam, 0, len(req.Tools))

		for _, tool := range req.Tools {
			tools = append(tools, openai.ChatCompletionToolParam{
				Function: openai.FunctionDefinitionParam{
					Name:        tool.Name,
					Description: openai.String(tool.Description),
					Parameters:  openai.FunctionParameters(tool.Parameters),
				},
			})
		}

		params.Tools = tools
	}

	for round := 0; round < maxToolRounds; round++ {
		resp, err := client.Chat.Completions.New(ctx, params)
		if err != nil {
			return "", fmt.Errorf("chat completion failed: %w", err)
		}

		if len(resp.Choices) == 0 {
			return "", ErrEmptyCompletion
		}

		message := resp.Choices[0].Message
		if len(message.ToolCalls) == 0 {
			return message.Content, nil
		}

		params.Messages = append(params.Messages, message.ToParam())

		for _, call := range message.ToolCalls {
			output, err := c.dispatchToolCall(ctx, req.Tools, call.Function.Name, call.Function.Arguments)
			if err != nil {
				// The model gets the failure as tool output and may recover;
				// the completion itself is not aborted.
				c.logger.WarnContext(ctx, "Tool call failed",
					"tool", call.Function.Name,
					"error", err)

				output = fmt.Sprintf(`{"error": %q}`, err.Error())
			}

			params.Messages = append(params.Messages, openai.ToolMessage(output, call.ID))
		}
	}

	return "", ErrToolRoundsExceeded
}

func (c *OpenAIClient) dispatchToolCall(ctx context.Context, tools []Tool, name, rawArgs string) (string, error) {
	for _, tool := range tools {
		if tool.Name != name {
			continue
		}

		args := make(map[string]any)

		if rawArgs != "" {
			err := json.Unmarshal([]byte(rawArgs), &args)
			if err != nil {
				return "", fmt.Errorf("invalid arguments for tool %s: %w", name, err)
			}
		}

		return tool.Handler(ctx, args)
	}

	return "", fmt.Errorf("%w: %s", ErrUnknownTool, name)
}
