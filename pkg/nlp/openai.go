package nlp

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/sashabaranov/go-openai"
	"go.uber.org/zap"

	"github.com/orza-hq/orza-engine/pkg/logging"
	"github.com/orza-hq/orza-engine/pkg/models"
)

// OpenAIExtractor extracts intents via an OpenAI-compatible chat endpoint.
type OpenAIExtractor struct {
	client       *openai.Client
	model        string
	systemPrompt string
	logger       *zap.Logger
}

// OpenAIConfig holds settings for the OpenAI-compatible extractor.
type OpenAIConfig struct {
	Endpoint string // Base URL, e.g. "https://api.openai.com/v1"
	Model    string // Model name, e.g. "gpt-4o-mini"
	APIKey   string // Optional for local endpoints
}

// NewOpenAIExtractor creates an extractor backed by an OpenAI-compatible API.
func NewOpenAIExtractor(cfg *OpenAIConfig, logger *zap.Logger) (*OpenAIExtractor, error) {
	if cfg.Model == "" {
		return nil, fmt.Errorf("model is required")
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	clientConfig := openai.DefaultConfig(cfg.APIKey)
	if cfg.Endpoint != "" {
		clientConfig.BaseURL = strings.TrimSuffix(cfg.Endpoint, "/")
	}

	return &OpenAIExtractor{
		client:       openai.NewClientWithConfig(clientConfig),
		model:        cfg.Model,
		systemPrompt: BuildSystemPrompt(),
		logger:       logger.Named("nlp"),
	}, nil
}

// ExtractIntent sends the question to the model and decodes the returned
// intent JSON.
func (e *OpenAIExtractor) ExtractIntent(ctx context.Context, question string) (*models.Intent, error) {
	e.logger.Debug("Intent extraction request",
		zap.String("model", e.model),
		zap.String("question", logging.TruncateString(question, logging.MaxQuestionLogLength)))

	start := time.Now()

	resp, err := e.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model: e.model,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleSystem, Content: e.systemPrompt},
			{Role: openai.ChatMessageRoleUser, Content: question},
		},
		Temperature: extractionTemperature,
		ResponseFormat: &openai.ChatCompletionResponseFormat{
			Type: openai.ChatCompletionResponseFormatTypeJSONObject,
		},
	})
	if err != nil {
		e.logger.Error("Intent extraction failed",
			zap.Duration("elapsed", time.Since(start)),
			zap.Error(err))
		return nil, fmt.Errorf("intent extraction request: %w", err)
	}

	if len(resp.Choices) == 0 {
		return nil, fmt.Errorf("no choices in extraction response")
	}

	in, err := decodeIntent(resp.Choices[0].Message.Content)
	if err != nil {
		return nil, err
	}

	e.logger.Info("Intent extracted",
		zap.String("intent", in.Kind),
		zap.Int("prompt_tokens", resp.Usage.PromptTokens),
		zap.Int("completion_tokens", resp.Usage.CompletionTokens),
		zap.Duration("elapsed", time.Since(start)))

	return in, nil
}
