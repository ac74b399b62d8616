package llm

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog"
	openai "github.com/sashabaranov/go-openai"
)

const defaultTimeout = 30 * time.Second

// Config holds connection details for the DeepSeek completion API. The API
// is OpenAI-compatible, so the client only needs a base URL and model name.
type Config struct {
	APIKey      string
	BaseURL     string
	Model       string
	Temperature float64
	Timeout     time.Duration
}

// Client wraps the chat-completion endpoint behind quiz.CompletionProvider.
type Client struct {
	api         *openai.Client
	model       string
	temperature float32
	timeout     time.Duration
	logger      zerolog.Logger
}

func NewClient(cfg Config, logger zerolog.Logger) *Client {
	apiCfg := openai.DefaultConfig(cfg.APIKey)
	if cfg.BaseURL != "" {
		apiCfg.BaseURL = cfg.BaseURL
	}
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = defaultTimeout
	}
	return &Client{
		api:         openai.NewClientWithConfig(apiCfg),
		model:       cfg.Model,
		temperature: float32(cfg.Temperature),
		timeout:     timeout,
		logger:      logger.With().Str("component", "deepseek_client").Logger(),
	}
}

// Complete requests a single text completion. The call is bounded by the
// configured timeout; caller cancellation propagates through ctx, so an
// aborted request never commits output downstream.
func (c *Client) Complete(ctx context.Context, system, user string) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	started := time.Now()
	resp, err := c.api.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model: c.model,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleSystem, Content: system},
			{Role: openai.ChatMessageRoleUser, Content: user},
		},
		Temperature: c.temperature,
	})
	if err != nil {
		return "", fmt.Errorf("chat completion: %w", err)
	}
	if len(resp.Choices) == 0 || resp.Choices[0].Message.Content == "" {
		return "", errors.New("provider returned no content")
	}

	c.logger.Debug().
		Str("model", c.model).
		Dur("elapsed", time.Since(started)).
		Msg("completion received")
	return resp.Choices[0].Message.Content, nil
}
