package models

// GeneratorProvider names a remote generation backend.
type GeneratorProvider string

const (
	ProviderOpenAI    GeneratorProvider = "openai"
	ProviderAnthropic GeneratorProvider = "anthropic"
	ProviderGemini    GeneratorProvider = "gemini"
)

// ProviderConfig holds configuration for one generation provider.
type ProviderConfig struct {
	Provider  GeneratorProvider `yaml:"provider" json:"provider"`
	APIKey    string            `yaml:"api_key" json:"api_key,omitempty"`
	Model     string            `yaml:"model" json:"model,omitempty"`
	BaseURL   string            `yaml:"base_url,omitempty" json:"base_url,omitempty"`
	TimeoutMs int               `yaml:"timeout_ms,omitempty" json:"timeout_ms,omitempty"`
}

// CircuitBreakerConfig tunes the per-provider circuit breaker used by the
// generator fallback chain.
type CircuitBreakerConfig struct {
	FailureThreshold int `yaml:"failure_threshold,omitempty" json:"failure_threshold,omitempty"`
	SuccessThreshold int `yaml:"success_threshold,omitempty" json:"success_threshold,omitempty"`
	CooldownMs       int `yaml:"cooldown_ms,omitempty" json:"cooldown_ms,omitempty"`
}

// GeneratorConfig holds the ordered provider chain tried sequentially on
// each remote generation. Retry and fallback policy lives here, inside the
// generator collaborator, never in the orchestrator.
type GeneratorConfig struct {
	Providers      []ProviderConfig     `yaml:"providers" json:"providers"`
	RecipeCount    int                  `yaml:"recipe_count,omitempty" json:"recipe_count,omitempty"`
	CircuitBreaker CircuitBreakerConfig `yaml:"circuit_breaker,omitempty" json:"circuit_breaker,omitempty"`
}
