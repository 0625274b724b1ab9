package generator

import (
	"context"
	"net/http"
	"time"

	"github.com/chefmate/chefmate-backend/internal/models"

	fiberlog "github.com/gofiber/fiber/v2/log"
	openai "github.com/openai/openai-go/v2"
	openaiOption "github.com/openai/openai-go/v2/option"
	"github.com/openai/openai-go/v2/shared"
)

const defaultOpenAIModel = "gpt-4o-mini"

// OpenAIGenerator produces recipes through the OpenAI chat completions API.
type OpenAIGenerator struct {
	client *openai.Client
	model  string
}

func NewOpenAIGenerator(cfg models.ProviderConfig) (*OpenAIGenerator, error) {
	if cfg.APIKey == "" {
		return nil, models.NewValidationError("openai api key not configured", nil)
	}

	opts := []openaiOption.RequestOption{
		openaiOption.WithAPIKey(cfg.APIKey),
	}
	if cfg.BaseURL != "" {
		opts = append(opts, openaiOption.WithBaseURL(cfg.BaseURL))
	}
	if cfg.TimeoutMs > 0 {
		httpClient := &http.Client{Timeout: time.Duration(cfg.TimeoutMs) * time.Millisecond}
		opts = append(opts, openaiOption.WithHTTPClient(httpClient))
	}

	model := cfg.Model
	if model == "" {
		model = defaultOpenAIModel
	}

	client := openai.NewClient(opts...)
	return &OpenAIGenerator{client: &client, model: model}, nil
}

func (g *OpenAIGenerator) Name() string {
	return string(models.ProviderOpenAI)
}

func (g *OpenAIGenerator) Generate(ctx context.Context, req models.GenerationRequest, count int) ([]models.Recipe, error) {
	params := openai.ChatCompletionNewParams{
		Model: shared.ChatModel(g.model),
		Messages: []openai.ChatCompletionMessageParamUnion{
			openai.SystemMessage(systemPrompt),
			openai.UserMessage(buildPrompt(req, count)),
		},
	}

	start := time.Now()
	resp, err := g.client.Chat.Completions.New(ctx, params)
	if err != nil {
		fiberlog.Errorf("OpenAIGenerator: request failed after %v: %v", time.Since(start), err)
		return nil, classifyProviderError(g.Name(), err)
	}

	if len(resp.Choices) == 0 {
		return nil, models.NewGenerationError(models.GenerationErrorInvalidResponse,
			"openai returned no choices", nil)
	}

	recipes, err := parseRecipes(g.Name(), resp.Choices[0].Message.Content)
	if err != nil {
		return nil, err
	}

	fiberlog.Infof("OpenAIGenerator: generated %d recipes in %v", len(recipes), time.Since(start))
	return recipes, nil
}
