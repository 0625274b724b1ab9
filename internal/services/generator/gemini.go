package generator

import (
	"context"
	"fmt"
	"time"

	"github.com/chefmate/chefmate-backend/internal/models"

	fiberlog "github.com/gofiber/fiber/v2/log"
	"google.golang.org/genai"
)

const defaultGeminiModel = "gemini-2.5-flash"

// GeminiGenerator produces recipes through the Gemini API.
type GeminiGenerator struct {
	client *genai.Client
	model  string
}

func NewGeminiGenerator(ctx context.Context, cfg models.ProviderConfig) (*GeminiGenerator, error) {
	if cfg.APIKey == "" {
		return nil, models.NewValidationError("gemini api key not configured", nil)
	}

	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  cfg.APIKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create gemini client: %w", err)
	}

	model := cfg.Model
	if model == "" {
		model = defaultGeminiModel
	}

	return &GeminiGenerator{client: client, model: model}, nil
}

func (g *GeminiGenerator) Name() string {
	return string(models.ProviderGemini)
}

func (g *GeminiGenerator) Generate(ctx context.Context, req models.GenerationRequest, count int) ([]models.Recipe, error) {
	config := &genai.GenerateContentConfig{
		SystemInstruction: genai.NewContentFromText(systemPrompt, genai.RoleModel),
		ResponseMIMEType:  "application/json",
	}
	contents := []*genai.Content{
		genai.NewContentFromText(buildPrompt(req, count), genai.RoleUser),
	}

	start := time.Now()
	resp, err := g.client.Models.GenerateContent(ctx, g.model, contents, config)
	if err != nil {
		fiberlog.Errorf("GeminiGenerator: request failed after %v: %v", time.Since(start), err)
		return nil, classifyProviderError(g.Name(), err)
	}

	recipes, err := parseRecipes(g.Name(), resp.Text())
	if err != nil {
		return nil, err
	}

	fiberlog.Infof("GeminiGenerator: generated %d recipes in %v", len(recipes), time.Since(start))
	return recipes, nil
}
