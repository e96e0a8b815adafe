// Package config loads scopewise settings from the environment and an
// optional .env file.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strings"

	"github.com/alexanderramin/scopewise/internal/domain"
	"github.com/alexanderramin/scopewise/internal/llm"
	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

// EnvPrefix is prepended to every variable name below.
const EnvPrefix = "SCOPEWISE_"

// Config holds the application configuration.
type Config struct {
	LLM   LLMSettings  `envPrefix:"LLM_"`
	Rates RateSettings `envPrefix:"RATE_"`

	// Largest reported-vs-recomputed total difference that is not a warning.
	Tolerance float64 `env:"TOLERANCE" envDefault:"1.0"`

	// Line that separates a markdown summary from the JSON block.
	Marker string `env:"MARKER" envDefault:"Structured estimate JSON:"`

	LogLevel  string `env:"LOG_LEVEL" envDefault:"warn"`
	LogFormat string `env:"LOG_FORMAT" envDefault:"console"`
}

// LLMSettings selects and configures the generation backend. Empty Endpoint
// and Model fall back to the provider defaults.
type LLMSettings struct {
	Provider  string `env:"PROVIDER" envDefault:"openai"`
	Endpoint  string `env:"ENDPOINT"`
	Model     string `env:"MODEL"`
	APIKey    string `env:"API_KEY"`
	TimeoutMs int    `env:"TIMEOUT_MS" envDefault:"180000"`
	LogCalls  bool   `env:"LOG_CALLS" envDefault:"false"`
}

// RateSettings holds hourly rates in USD and the costing variant.
type RateSettings struct {
	Variant   string  `env:"VARIANT" envDefault:"pm-qa-excluded"`
	Fullstack float64 `env:"FULLSTACK" envDefault:"25"`
	AI        float64 `env:"AI" envDefault:"30"`
	UIUX      float64 `env:"UI_UX" envDefault:"30"`
	PM        float64 `env:"PM" envDefault:"30"`
	QA        float64 `env:"QA" envDefault:"25"`
}

// Load reads envFiles (default ".env") into the process environment without
// overriding variables that are already set, then parses Config. Missing
// files are not an error.
func Load(envFiles ...string) (*Config, error) {
	if len(envFiles) == 0 {
		envFiles = []string{".env"}
	}
	for _, f := range envFiles {
		if err := godotenv.Load(f); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("loading %s: %w", f, err)
		}
	}

	cfg := &Config{}
	if err := env.ParseWithOptions(cfg, env.Options{Prefix: EnvPrefix}); err != nil {
		return nil, fmt.Errorf("parsing environment: %w", err)
	}
	cfg.normalize()

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) normalize() {
	c.LLM.Provider = strings.ToLower(strings.TrimSpace(c.LLM.Provider))
	c.Rates.Variant = strings.ToLower(strings.TrimSpace(c.Rates.Variant))
	c.LogLevel = strings.ToLower(strings.TrimSpace(c.LogLevel))
	c.LogFormat = strings.ToLower(strings.TrimSpace(c.LogFormat))

	if c.LLM.APIKey == "" {
		switch llm.Provider(c.LLM.Provider) {
		case llm.ProviderOpenAI:
			c.LLM.APIKey = os.Getenv("OPENAI_API_KEY")
		case llm.ProviderGemini:
			c.LLM.APIKey = domain.CoalesceStr(os.Getenv("GEMINI_API_KEY"), os.Getenv("GOOGLE_API_KEY"))
		}
	}
}

// Validate reports every invalid value at once. A missing API key is not a
// configuration error here; the client constructor reports it.
func (c *Config) Validate() error {
	var problems []string

	if !llm.ValidProvider(llm.Provider(c.LLM.Provider)) {
		problems = append(problems, fmt.Sprintf("%sLLM_PROVIDER must be one of openai, ollama, gemini, got %q", EnvPrefix, c.LLM.Provider))
	}
	if c.LLM.TimeoutMs <= 0 {
		problems = append(problems, fmt.Sprintf("%sLLM_TIMEOUT_MS must be positive, got %d", EnvPrefix, c.LLM.TimeoutMs))
	}
	switch c.Rates.Variant {
	case domain.VariantPMQAExcluded, domain.VariantFullCosting:
	default:
		problems = append(problems, fmt.Sprintf("%sRATE_VARIANT must be %s or %s, got %q",
			EnvPrefix, domain.VariantPMQAExcluded, domain.VariantFullCosting, c.Rates.Variant))
	}
	if err := c.RateTable().Validate(); err != nil {
		problems = append(problems, err.Error())
	}
	if c.Tolerance < 0 {
		problems = append(problems, fmt.Sprintf("%sTOLERANCE must not be negative, got %.2f", EnvPrefix, c.Tolerance))
	}
	switch c.LogFormat {
	case "console", "json":
	default:
		problems = append(problems, fmt.Sprintf("%sLOG_FORMAT must be console or json, got %q", EnvPrefix, c.LogFormat))
	}
	if _, err := parseLevel(c.LogLevel); err != nil {
		problems = append(problems, fmt.Sprintf("%sLOG_LEVEL: %v", EnvPrefix, err))
	}

	if len(problems) > 0 {
		return fmt.Errorf("configuration validation errors:\n  - %s", strings.Join(problems, "\n  - "))
	}
	return nil
}

// RateTable builds the domain rate table for the configured variant.
func (c *Config) RateTable() domain.RateTable {
	t := domain.RateTable{
		{Role: domain.RoleFullstack, Rate: c.Rates.Fullstack, Costed: true},
		{Role: domain.RoleAI, Rate: c.Rates.AI, Costed: true},
		{Role: domain.RoleUIUX, Rate: c.Rates.UIUX, Costed: true},
		{Role: domain.RolePM, Rate: c.Rates.PM},
		{Role: domain.RoleQA, Rate: c.Rates.QA},
	}
	if c.Rates.Variant == domain.VariantFullCosting {
		t = t.WithCosted(true, domain.RolePM, domain.RoleQA)
	}
	return t
}

// LLMConfig merges the settings over the provider defaults.
func (c *Config) LLMConfig() llm.LLMConfig {
	cfg := llm.DefaultConfig(llm.Provider(c.LLM.Provider))
	if c.LLM.Endpoint != "" {
		cfg.Endpoint = c.LLM.Endpoint
	}
	if c.LLM.Model != "" {
		cfg.Model = c.LLM.Model
	}
	cfg.APIKey = c.LLM.APIKey
	if c.LLM.TimeoutMs > 0 {
		cfg.TimeoutMs = c.LLM.TimeoutMs
	}
	cfg.LogCalls = c.LLM.LogCalls
	return cfg
}
