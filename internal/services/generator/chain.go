package generator

import (
	"context"
	"time"

	"github.com/chefmate/chefmate-backend/internal/models"
	"github.com/chefmate/chefmate-backend/internal/services/circuitbreaker"

	fiberlog "github.com/gofiber/fiber/v2/log"
	"github.com/redis/go-redis/v9"
)

const defaultRecipeCount = 3

// Chain tries providers in configured order until one produces recipes.
// Each provider sits behind its own circuit breaker so a dead provider is
// skipped instead of taxed with a timeout on every request.
type Chain struct {
	generators  []Generator
	breakers    map[string]circuitbreaker.Breaker
	recipeCount int
}

// NewChain builds the provider chain from configuration. Provider order in
// the config is fallback order.
func NewChain(ctx context.Context, cfg models.GeneratorConfig, redisClient *redis.Client) (*Chain, error) {
	if len(cfg.Providers) == 0 {
		return nil, models.NewValidationError("at least one generation provider must be configured", nil)
	}

	generators := make([]Generator, 0, len(cfg.Providers))
	for _, providerCfg := range cfg.Providers {
		var (
			gen Generator
			err error
		)
		switch providerCfg.Provider {
		case models.ProviderOpenAI:
			gen, err = NewOpenAIGenerator(providerCfg)
		case models.ProviderAnthropic:
			gen, err = NewAnthropicGenerator(providerCfg)
		case models.ProviderGemini:
			gen, err = NewGeminiGenerator(ctx, providerCfg)
		default:
			return nil, models.NewValidationError("unknown generation provider: "+string(providerCfg.Provider), nil)
		}
		if err != nil {
			return nil, err
		}
		generators = append(generators, gen)
	}

	return NewChainWithGenerators(generators, cfg, redisClient), nil
}

// NewChainWithGenerators wires an already-built generator list behind fresh
// circuit breakers.
func NewChainWithGenerators(generators []Generator, cfg models.GeneratorConfig, redisClient *redis.Client) *Chain {
	breakerCfg := circuitbreaker.Config{
		FailureThreshold: cfg.CircuitBreaker.FailureThreshold,
		SuccessThreshold: cfg.CircuitBreaker.SuccessThreshold,
		Cooldown:         time.Duration(cfg.CircuitBreaker.CooldownMs) * time.Millisecond,
	}

	breakers := make(map[string]circuitbreaker.Breaker, len(generators))
	for _, gen := range generators {
		breakers[gen.Name()] = circuitbreaker.New(redisClient, gen.Name(), breakerCfg)
	}

	recipeCount := cfg.RecipeCount
	if recipeCount <= 0 {
		recipeCount = defaultRecipeCount
	}

	return &Chain{generators: generators, breakers: breakers, recipeCount: recipeCount}
}

func (c *Chain) Name() string {
	return "chain"
}

// Generate runs the fallback sequence. The error of the last attempted
// provider is returned with its failure kind intact; if every breaker is
// open the request fails as network_unavailable without touching any
// provider.
func (c *Chain) Generate(ctx context.Context, req models.GenerationRequest, count int) ([]models.Recipe, error) {
	if count <= 0 {
		count = c.recipeCount
	}

	var lastErr error
	attempted := false

	for _, gen := range c.generators {
		breaker := c.breakers[gen.Name()]
		if !breaker.CanExecute() {
			fiberlog.Warnf("GeneratorChain: skipping %s, circuit breaker is %s", gen.Name(), breaker.GetState())
			continue
		}

		attempted = true
		recipes, err := gen.Generate(ctx, req, count)
		if err != nil {
			breaker.RecordFailure()
			fiberlog.Warnf("GeneratorChain: %s failed: %v", gen.Name(), err)
			lastErr = err
			if ctx.Err() != nil {
				break
			}
			continue
		}

		breaker.RecordSuccess()
		return recipes, nil
	}

	if !attempted && lastErr == nil {
		return nil, models.NewGenerationError(models.GenerationErrorNetworkUnavailable,
			"all generation providers are unavailable", nil)
	}
	return nil, lastErr
}

var _ Generator = (*Chain)(nil)
