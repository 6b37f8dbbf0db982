package nlp

import (
	"context"
	"fmt"
	"time"

	"github.com/liushuangls/go-anthropic/v2"
	"go.uber.org/zap"

	"github.com/orza-hq/orza-engine/pkg/logging"
	"github.com/orza-hq/orza-engine/pkg/models"
)

// anthropicMaxTokens bounds the extraction response. Intents are small; a
// well-formed one never comes close to this.
const anthropicMaxTokens = 1024

// AnthropicExtractor extracts intents via the Anthropic Messages API.
type AnthropicExtractor struct {
	client       *anthropic.Client
	model        string
	systemPrompt string
	logger       *zap.Logger
}

// AnthropicConfig holds settings for the Anthropic extractor.
type AnthropicConfig struct {
	Model  string
	APIKey string
}

// NewAnthropicExtractor creates an extractor backed by the Anthropic API.
func NewAnthropicExtractor(cfg *AnthropicConfig, logger *zap.Logger) (*AnthropicExtractor, error) {
	if cfg.Model == "" {
		return nil, fmt.Errorf("model is required")
	}
	if cfg.APIKey == "" {
		return nil, fmt.Errorf("api key is required")
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	return &AnthropicExtractor{
		client:       anthropic.NewClient(cfg.APIKey),
		model:        cfg.Model,
		systemPrompt: BuildSystemPrompt(),
		logger:       logger.Named("nlp"),
	}, nil
}

// ExtractIntent sends the question to the model and decodes the returned
// intent JSON.
func (e *AnthropicExtractor) ExtractIntent(ctx context.Context, question string) (*models.Intent, error) {
	e.logger.Debug("Intent extraction request",
		zap.String("model", e.model),
		zap.String("question", logging.TruncateString(question, logging.MaxQuestionLogLength)))

	start := time.Now()
	temp := float32(extractionTemperature)

	resp, err := e.client.CreateMessages(ctx, anthropic.MessagesRequest{
		Model:       anthropic.Model(e.model),
		MaxTokens:   anthropicMaxTokens,
		System:      e.systemPrompt,
		Temperature: &temp,
		Messages: []anthropic.Message{
			anthropic.NewUserTextMessage(question),
		},
	})
	if err != nil {
		e.logger.Error("Intent extraction failed",
			zap.Duration("elapsed", time.Since(start)),
			zap.Error(err))
		return nil, fmt.Errorf("intent extraction request: %w", err)
	}

	var responseText string
	for _, block := range resp.Content {
		if block.Type == anthropic.MessagesContentTypeText && block.Text != nil {
			responseText = *block.Text
			break
		}
	}
	if responseText == "" {
		return nil, fmt.Errorf("no text content in extraction response")
	}

	in, err := decodeIntent(responseText)
	if err != nil {
		return nil, err
	}

	e.logger.Info("Intent extracted",
		zap.String("intent", in.Kind),
		zap.Duration("elapsed", time.Since(start)))

	return in, nil
}
