package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

// Config aggregates all service configuration.
type Config struct {
	Server    ServerConfig
	Inference InferenceConfig
	Store     StoreConfig
	Calendar  CalendarConfig
}

// Load reads configuration from environment variables.
func Load() (*Config, error) {
	server, err := loadServerConfig()
	if err != nil {
		return nil, err
	}

	inference, err := loadInferenceConfig()
	if err != nil {
		return nil, err
	}

	storeCfg, err := loadStoreConfig()
	if err != nil {
		return nil, err
	}

	calendar, err := loadCalendarConfig()
	if err != nil {
		return nil, err
	}

	return &Config{Server: server, Inference: inference, Store: storeCfg, Calendar: calendar}, nil
}

// ServerConfig describes the HTTP listener.
type ServerConfig struct {
	Addr string
}

func loadServerConfig() (ServerConfig, error) {
	port := strings.TrimSpace(os.Getenv("PORT"))
	if port == "" {
		port = "8080"
	}

	if strings.Contains(port, ":") {
		// Allow ":8080" or "127.0.0.1:8080" directly.
		return ServerConfig{Addr: port}, nil
	}

	if strings.Contains(port, " ") {
		return ServerConfig{}, fmt.Errorf("invalid PORT value: %q", port)
	}

	return ServerConfig{Addr: ":" + port}, nil
}

// ProviderConfig holds one inference provider's endpoint and credential.
type ProviderConfig struct {
	Name    string
	BaseURL string
	APIKey  string
	Model   string
}

// Configured reports whether the provider can be placed in the try order.
func (p ProviderConfig) Configured() bool {
	return p.APIKey != "" && p.Model != ""
}

// InferenceConfig describes the provider list and sampling parameters.
type InferenceConfig struct {
	Primary     ProviderConfig
	Secondary   ProviderConfig
	Temperature float64
	MaxTokens   int
	Timeout     time.Duration
}

// Enabled reports whether at least one provider credential is present.
func (c InferenceConfig) Enabled() bool {
	return c.Primary.Configured() || c.Secondary.Configured()
}

func loadInferenceConfig() (InferenceConfig, error) {
	temperature := 0.7
	if override, err := parseOptionalFloatEnv("INFERENCE_TEMPERATURE"); err != nil {
		return InferenceConfig{}, err
	} else if override != nil {
		temperature = *override
	}

	maxTokens := 1024
	if override, err := parseOptionalIntEnv("INFERENCE_MAX_TOKENS"); err != nil {
		return InferenceConfig{}, err
	} else if override != nil {
		maxTokens = *override
	}

	timeoutSeconds := 60
	if override, err := parseOptionalIntEnv("INFERENCE_TIMEOUT"); err != nil {
		return InferenceConfig{}, err
	} else if override != nil {
		timeoutSeconds = *override
	}

	return InferenceConfig{
		Primary: ProviderConfig{
			Name:    "groq",
			BaseURL: getEnvOrDefault("GROQ_BASE_URL", "https://api.groq.com/openai/v1"),
			APIKey:  strings.TrimSpace(os.Getenv("GROQ_API_KEY")),
			Model:   getEnvOrDefault("GROQ_MODEL", "llama3-70b-8192"),
		},
		Secondary: ProviderConfig{
			Name:    "mistral",
			BaseURL: getEnvOrDefault("MISTRAL_BASE_URL", "https://api.mistral.ai/v1"),
			APIKey:  strings.TrimSpace(os.Getenv("MISTRAL_API_KEY")),
			Model:   getEnvOrDefault("MISTRAL_MODEL", "mistral-large-latest"),
		},
		Temperature: temperature,
		MaxTokens:   maxTokens,
		Timeout:     time.Duration(timeoutSeconds) * time.Second,
	}, nil
}

// StoreConfig describes the session history store. An empty DBPath keeps
// history in process memory.
type StoreConfig struct {
	DBPath string
	TTL    time.Duration
}

func loadStoreConfig() (StoreConfig, error) {
	ttlHours := 24
	if override, err := parseOptionalIntEnv("HISTORY_TTL_HOURS"); err != nil {
		return StoreConfig{}, err
	} else if override != nil {
		if *override < 1 {
			ttlHours = 1
		} else {
			ttlHours = *override
		}
	}

	return StoreConfig{
		DBPath: strings.TrimSpace(os.Getenv("HISTORY_DB_PATH")),
		TTL:    time.Duration(ttlHours) * time.Hour,
	}, nil
}

// CalendarConfig describes the optional Cal.com integration.
type CalendarConfig struct {
	APIKey         string
	BaseURL        string
	ExecuteActions bool
}

// Enabled reports whether action execution may be wired in.
func (c CalendarConfig) Enabled() bool {
	return c.ExecuteActions && c.APIKey != ""
}

func loadCalendarConfig() (CalendarConfig, error) {
	execute, err := parseBoolEnv("SCHEDULER_EXECUTE_ACTIONS", false)
	if err != nil {
		return CalendarConfig{}, err
	}

	return CalendarConfig{
		APIKey:         strings.TrimSpace(os.Getenv("CAL_API_KEY")),
		BaseURL:        getEnvOrDefault("CAL_BASE_URL", ""),
		ExecuteActions: execute,
	}, nil
}

func getEnvOrDefault(key, defaultValue string) string {
	if value := strings.TrimSpace(os.Getenv(key)); value != "" {
		return value
	}
	return defaultValue
}

func parseBoolEnv(key string, defaultValue bool) (bool, error) {
	raw := strings.TrimSpace(os.Getenv(key))
	if raw == "" {
		return defaultValue, nil
	}

	val, err := strconv.ParseBool(raw)
	if err != nil {
		return false, fmt.Errorf("invalid %s value %q: %w", key, raw, err)
	}
	return val, nil
}

func parseOptionalFloatEnv(key string) (*float64, error) {
	raw, ok := os.LookupEnv(key)
	if !ok {
		return nil, nil
	}

	value := strings.TrimSpace(raw)
	if value == "" {
		return nil, nil
	}

	val, err := strconv.ParseFloat(value, 64)
	if err != nil {
		return nil, fmt.Errorf("invalid %s value %q: %w", key, value, err)
	}
	return &val, nil
}

func parseOptionalIntEnv(key string) (*int, error) {
	raw, ok := os.LookupEnv(key)
	if !ok {
		return nil, nil
	}

	value := strings.TrimSpace(raw)
	if value == "" {
		return nil, nil
	}

	val, err := strconv.Atoi(value)
	if err != nil {
		return nil, fmt.Errorf("invalid %s value %q: %w", key, value, err)
	}
	return &val, nil
}
