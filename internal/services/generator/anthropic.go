package generator

import (
	"context"
	"net/http"
	"strings"
	"time"

	"github.com/chefmate/chefmate-backend/internal/models"

	"github.com/anthropics/anthropic-sdk-go"
	"github.com/anthropics/anthropic-sdk-go/option"
	fiberlog "github.com/gofiber/fiber/v2/log"
)

const (
	defaultAnthropicModel    = "claude-sonnet-4-20250514"
	anthropicMaxOutputTokens = 8192
)

// AnthropicGenerator produces recipes through the Anthropic messages API.
type AnthropicGenerator struct {
	client *anthropic.Client
	model  string
}

func NewAnthropicGenerator(cfg models.ProviderConfig) (*AnthropicGenerator, error) {
	if cfg.APIKey == "" {
		return nil, models.NewValidationError("anthropic api key not configured", nil)
	}

	opts := []option.RequestOption{
		option.WithAPIKey(cfg.APIKey),
	}
	if cfg.BaseURL != "" {
		opts = append(opts, option.WithBaseURL(cfg.BaseURL))
	}
	if cfg.TimeoutMs > 0 {
		httpClient := &http.Client{Timeout: time.Duration(cfg.TimeoutMs) * time.Millisecond}
		opts = append(opts, option.WithHTTPClient(httpClient))
	}

	model := cfg.Model
	if model == "" {
		model = defaultAnthropicModel
	}

	client := anthropic.NewClient(opts...)
	return &AnthropicGenerator{client: &client, model: model}, nil
}

func (g *AnthropicGenerator) Name() string {
	return string(models.ProviderAnthropic)
}

func (g *AnthropicGenerator) Generate(ctx context.Context, req models.GenerationRequest, count int) ([]models.Recipe, error) {
	params := anthropic.MessageNewParams{
		Model:     anthropic.Model(g.model),
		MaxTokens: anthropicMaxOutputTokens,
		System: []anthropic.TextBlockParam{
			{Text: systemPrompt},
		},
		Messages: []anthropic.MessageParam{
			anthropic.NewUserMessage(anthropic.NewTextBlock(buildPrompt(req, count))),
		},
	}

	start := time.Now()
	message, err := g.client.Messages.New(ctx, params)
	if err != nil {
		fiberlog.Errorf("AnthropicGenerator: request failed after %v: %v", time.Since(start), err)
		return nil, classifyProviderError(g.Name(), err)
	}

	var text strings.Builder
	for _, block := range message.Content {
		if block.Type == "text" {
			text.WriteString(block.Text)
		}
	}

	recipes, err := parseRecipes(g.Name(), text.String())
	if err != nil {
		return nil, err
	}

	fiberlog.Infof("AnthropicGenerator: generated %d recipes in %v", len(recipes), time.Since(start))
	return recipes, nil
}
