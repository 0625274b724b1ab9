// Package generator is the remote tier of recipe generation. A Generator
// produces brand new recipes for a request; the sequential fallback chain
// and the per-provider circuit breakers live here, never in the
// orchestrator.
package generator

import (
	"context"
	"errors"
	"net/http"

	"github.com/chefmate/chefmate-backend/internal/models"

	anthropicsdk "github.com/anthropics/anthropic-sdk-go"
	openaisdk "github.com/openai/openai-go/v2"
	"google.golang.org/genai"
)

// Generator produces recipes for a validated request. Implementations must
// return either a non-empty recipe slice or a generation-typed error with
// the failure kind preserved.
type Generator interface {
	Name() string
	Generate(ctx context.Context, req models.GenerationRequest, count int) ([]models.Recipe, error)
}

// classifyProviderError maps an SDK error onto the generation failure
// taxonomy. Distinct kinds are never collapsed: the caller decides what is
// retryable based on the kind, so losing it here would lose that decision.
func classifyProviderError(provider string, err error) *models.AppError {
	if appErr, ok := models.AsAppError(err); ok && appErr.Type == models.ErrorTypeGeneration {
		return appErr
	}

	kind := models.GenerationErrorNetworkUnavailable

	var openaiErr *openaisdk.Error
	var anthropicErr *anthropicsdk.Error
	var genaiErr genai.APIError

	switch {
	case errors.As(err, &openaiErr):
		kind = kindForStatus(openaiErr.StatusCode)
	case errors.As(err, &anthropicErr):
		kind = kindForStatus(anthropicErr.StatusCode)
	case errors.As(err, &genaiErr):
		kind = kindForStatus(genaiErr.Code)
	}

	return models.NewGenerationError(kind, provider+" generation failed", err)
}

func kindForStatus(status int) models.GenerationErrorKind {
	switch status {
	case http.StatusUnauthorized, http.StatusForbidden:
		return models.GenerationErrorAuthenticationFailed
	case http.StatusTooManyRequests:
		return models.GenerationErrorRateLimited
	default:
		return models.GenerationErrorNetworkUnavailable
	}
}
