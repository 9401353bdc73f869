package llm

import (
	"context"
	"strings"

	"github.com/pkg/errors"
	"github.com/sashabaranov/go-openai"
	"go.uber.org/zap"
)

// ErrEmptyCompletion is returned when the model answers with no choices or blank text.
var ErrEmptyCompletion = errors.New("empty completion")

// Options tune a single chat completion.
type Options struct {
	Model       string
	Temperature float32
	MaxTokens   int
}

// OpenAIClient sends one-shot chat completions with a fixed system prompt.
type OpenAIClient struct {
	Client             *openai.Client
	SystemInstructions string
	Options            Options
	logger             *zap.SugaredLogger
}

// NewOpenAIClient builds a client. baseURL may be empty for the public API.
func NewOpenAIClient(apiKey, baseURL, systemInstructions string, opts Options, logger *zap.SugaredLogger) (*OpenAIClient, error) {
	if apiKey == "" {
		return nil, errors.New("OpenAI API key is required")
	}
	if opts.Model == "" {
		opts.Model = openai.GPT3Dot5Turbo
	}
	if logger == nil {
		logger = zap.NewNop().Sugar()
	}

	cfg := openai.DefaultConfig(apiKey)
	if baseURL != "" {
		cfg.BaseURL = baseURL
	}
	return &OpenAIClient{
		Client:             openai.NewClientWithConfig(cfg),
		SystemInstructions: systemInstructions,
		Options:            opts,
		logger:             logger,
	}, nil
}

// Complete sends input as the user turn and returns the trimmed reply.
func (c *OpenAIClient) Complete(ctx context.Context, input string) (string, error) {
	c.logger.Debugf("Sending input to OpenAI (%s): %s", c.Options.Model, input)

	messages := make([]openai.ChatCompletionMessage, 0, 2)
	if c.SystemInstructions != "" {
		messages = append(messages, openai.ChatCompletionMessage{
			Role:    openai.ChatMessageRoleSystem,
			Content: c.SystemInstructions,
		})
	}
	messages = append(messages, openai.ChatCompletionMessage{
		Role:    openai.ChatMessageRoleUser,
		Content: input,
	})

	resp, err := c.Client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model:       c.Options.Model,
		Messages:    messages,
		Temperature: c.Options.Temperature,
		MaxTokens:   c.Options.MaxTokens,
	})
	if err != nil {
		return "", errors.Wrap(err, "chat completion")
	}
	if len(resp.Choices) == 0 {
		return "", ErrEmptyCompletion
	}

	out := strings.TrimSpace(resp.Choices[0].Message.Content)
	if out == "" {
		return "", ErrEmptyCompletion
	}
	return out, nil
}
