package llm

import (
	"fmt"
	"os"
	"time"
)

// Provider names.
const (
	ProviderAnthropic  = "anthropic"
	ProviderOpenAI     = "openai"
	ProviderOpenRouter = "openrouter"
	ProviderGemini     = "gemini"
	ProviderMock       = "mock"
)

// Config selects and configures one provider.
type Config struct {
	Provider string

	Anthropic  AnthropicConfig
	OpenAI     OpenAIConfig
	Gemini     GeminiConfig
	OpenRouter OpenRouterConfig
	Retry      RetryConfig

	// Timeout bounds one Generate call including retries.
	Timeout time.Duration
}

type AnthropicConfig struct {
	APIKey string
	Model  string
}

type OpenAIConfig struct {
	APIKey  string
	Model   string
	BaseURL string // optional, for compatible APIs
}

type GeminiConfig struct {
	APIKey string
	Model  string
}

type OpenRouterConfig struct {
	APIKey  string
	Model   string
	BaseURL string
}

type RetryConfig struct {
	MaxAttempts int
	InitialWait time.Duration
	MaxWait     time.Duration
	Multiplier  float64
}

func DefaultConfig() Config {
	return Config{
		Provider:   ProviderAnthropic,
		Anthropic:  AnthropicConfig{Model: "claude-haiku"},
		OpenAI:     OpenAIConfig{Model: "gpt-mini"},
		Gemini:     GeminiConfig{Model: "gemini-flash"},
		OpenRouter: OpenRouterConfig{Model: "google/gemini-2.5-flash"},
		Retry: RetryConfig{
			MaxAttempts: 3,
			InitialWait: time.Second,
			MaxWait:     10 * time.Second,
			Multiplier:  2,
		},
		Timeout: 30 * time.Second,
	}
}

// envKeys names the api key variables per provider: the careerquest-specific
// one first, then the vendor's conventional one.
var envKeys = map[string][2]string{
	ProviderGemini:     {"CAREERQUEST_GEMINI_API_KEY", "GEMINI_API_KEY"},
	ProviderOpenAI:     {"CAREERQUEST_OPENAI_API_KEY", "OPENAI_API_KEY"},
	ProviderAnthropic:  {"CAREERQUEST_ANTHROPIC_API_KEY", "ANTHROPIC_API_KEY"},
	ProviderOpenRouter: {"CAREERQUEST_OPENROUTER_API_KEY", "OPENROUTER_API_KEY"},
}

// discoveryOrder is the order providers are probed when none is chosen.
var discoveryOrder = []string{ProviderGemini, ProviderOpenAI, ProviderAnthropic, ProviderOpenRouter}

func lookupKey(provider string) string {
	for _, k := range envKeys[provider] {
		if v := os.Getenv(k); v != "" {
			return v
		}
	}
	return ""
}

// ConfigFromEnv reads keys and model overrides from the environment. When
// provider is empty, the first provider with a key set is picked; ok is
// false if there is none.
func ConfigFromEnv(provider string) (cfg Config, ok bool) {
	cfg = DefaultConfig()
	cfg.Anthropic.APIKey = lookupKey(ProviderAnthropic)
	cfg.OpenAI.APIKey = lookupKey(ProviderOpenAI)
	cfg.Gemini.APIKey = lookupKey(ProviderGemini)
	cfg.OpenRouter.APIKey = lookupKey(ProviderOpenRouter)
	if u := os.Getenv("CAREERQUEST_OPENAI_BASE_URL"); u != "" {
		cfg.OpenAI.BaseURL = u
	}

	if provider != "" {
		cfg.Provider = provider
		return cfg, true
	}
	for _, p := range discoveryOrder {
		if lookupKey(p) != "" {
			cfg.Provider = p
			return cfg, true
		}
	}
	return cfg, false
}

// WithModel overrides the model of the selected provider. Empty keeps the
// default.
func (c Config) WithModel(model string) Config {
	if model == "" {
		return c
	}
	switch c.Provider {
	case ProviderAnthropic:
		c.Anthropic.Model = model
	case ProviderOpenAI:
		c.OpenAI.Model = model
	case ProviderGemini:
		c.Gemini.Model = model
	case ProviderOpenRouter:
		c.OpenRouter.Model = model
	}
	return c
}

// Validate checks the selected provider has its key.
func (c Config) Validate() error {
	var key string
	switch c.Provider {
	case ProviderMock:
		return nil
	case ProviderAnthropic:
		key = c.Anthropic.APIKey
	case ProviderOpenAI:
		key = c.OpenAI.APIKey
	case ProviderGemini:
		key = c.Gemini.APIKey
	case ProviderOpenRouter:
		key = c.OpenRouter.APIKey
	default:
		return fmt.Errorf("unknown model provider %q", c.Provider)
	}
	if key == "" {
		return fmt.Errorf("%s provider needs %s or %s", c.Provider, envKeys[c.Provider][0], envKeys[c.Provider][1])
	}
	return nil
}
