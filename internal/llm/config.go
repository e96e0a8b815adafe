package llm

// TaskType identifies the kind of LLM task being performed.
type TaskType string

const (
	TaskEstimate TaskType = "estimate"
)

// Provider selects the generation backend.
type Provider string

const (
	ProviderOpenAI Provider = "openai"
	ProviderOllama Provider = "ollama"
	ProviderGemini Provider = "gemini"
)

// TaskConfig holds per-task LLM parameters. Zero values leave the
// provider default in place.
type TaskConfig struct {
	Temperature float64
	MaxTokens   int
	TimeoutMs   int // overrides global if > 0
}

// LLMConfig holds all configuration for the LLM subsystem. The API key is
// carried here explicitly; clients never read the environment.
type LLMConfig struct {
	Provider  Provider
	Endpoint  string
	Model     string
	APIKey    string
	TimeoutMs int
	LogCalls  bool
	Tasks     map[TaskType]TaskConfig
}

// DefaultConfig returns an LLMConfig with sensible defaults for provider.
func DefaultConfig(provider Provider) LLMConfig {
	cfg := LLMConfig{
		Provider:  provider,
		TimeoutMs: 180000,
		Tasks: map[TaskType]TaskConfig{
			TaskEstimate: {},
		},
	}
	switch provider {
	case ProviderOllama:
		cfg.Endpoint = "http://localhost:11434"
		cfg.Model = "llama3.2"
		cfg.Tasks[TaskEstimate] = TaskConfig{Temperature: 0.2, MaxTokens: 8192}
	case ProviderGemini:
		cfg.Model = "gemini-2.5-flash"
	default:
		cfg.Provider = ProviderOpenAI
		cfg.Endpoint = "https://api.openai.com/v1"
		cfg.Model = "gpt-5"
	}
	return cfg
}

// RequiresAPIKey reports whether the provider refuses calls without a key.
func (c LLMConfig) RequiresAPIKey() bool {
	return c.Provider == ProviderOpenAI || c.Provider == ProviderGemini
}

// TaskTimeout returns the effective timeout for a given task type.
// Uses the task-specific timeout if set, otherwise the global timeout.
func (c LLMConfig) TaskTimeout(task TaskType) int {
	if tc, ok := c.Tasks[task]; ok && tc.TimeoutMs > 0 {
		return tc.TimeoutMs
	}
	return c.TimeoutMs
}

// ValidProvider reports whether p names a supported backend.
func ValidProvider(p Provider) bool {
	switch p {
	case ProviderOpenAI, ProviderOllama, ProviderGemini:
		return true
	}
	return false
}
