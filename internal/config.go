package internal

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"
)

// Defaults applied when the environment leaves a setting empty
const (
	DefaultPort             = "5000"
	DefaultBaseURL          = "https://api.openai.com/v1"
	DefaultMaxTokens        = 512
	DefaultUpstreamTimeout  = 60 * time.Second
	DefaultModelsFile       = "config/models.json"
	DefaultStaticDir        = "static"
	DefaultSystemPrompt     = "You are an experienced code reviewer. Give concise, actionable feedback on the code you are shown."
	DefaultUserPromptPrefix = "Review the following code and suggest improvements:\n\n"
)

// ErrMissingAPIKey is returned when no upstream API key is configured
var ErrMissingAPIKey = errors.New("missing API key: set API_KEY")

// ProxyConfig holds everything the completion proxy needs to talk to the API
type ProxyConfig struct {
	APIKey           string
	BaseURL          string
	SystemPrompt     string
	UserPromptPrefix string
	MaxTokens        int
	Timeout          time.Duration
	// RateLimitPerMinute caps upstream calls made by this process. Zero disables it.
	RateLimitPerMinute int
}

// Config is the full server configuration
type Config struct {
	Port           string
	AllowedOrigins string
	ModelsFile     string
	StaticDir      string
	JWTSecret      string
	LogLevel       string
	LogFormat      string
	Proxy          ProxyConfig
}

// LoadConfig reads the configuration from the process environment.
// If envFile is non-empty it is loaded first; variables already set in the
// environment win over the file.
func LoadConfig(envFile string) (*Config, error) {
	if envFile != "" {
		if err := godotenv.Load(envFile); err != nil {
			if !os.IsNotExist(err) {
				return nil, fmt.Errorf("failed to load %s: %w", envFile, err)
			}
			logrus.Warnf("%s not found, using process environment only", envFile)
		}
	}
	return configFromLookup(os.LookupEnv)
}

func configFromLookup(lookup func(string) (string, bool)) (*Config, error) {
	get := func(key, def string) string {
		if v, ok := lookup(key); ok && strings.TrimSpace(v) != "" {
			return v
		}
		return def
	}

	timeout := DefaultUpstreamTimeout
	if raw := get("UPSTREAM_TIMEOUT", ""); raw != "" {
		d, err := time.ParseDuration(raw)
		if err != nil || d <= 0 {
			return nil, fmt.Errorf("invalid UPSTREAM_TIMEOUT %q", raw)
		}
		timeout = d
	}

	rpm := 0
	if raw := get("UPSTREAM_RATE_LIMIT_PER_MINUTE", ""); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 0 {
			return nil, fmt.Errorf("invalid UPSTREAM_RATE_LIMIT_PER_MINUTE %q", raw)
		}
		rpm = n
	}

	cfg := &Config{
		Port:           get("PORT", DefaultPort),
		AllowedOrigins: get("ALLOWED_ORIGINS", "*"),
		ModelsFile:     get("MODELS_FILE", DefaultModelsFile),
		StaticDir:      get("STATIC_DIR", DefaultStaticDir),
		JWTSecret:      get("JWT_SECRET_KEY", ""),
		LogLevel:       get("LOG_LEVEL", "info"),
		LogFormat:      get("LOG_FORMAT", "text"),
		Proxy: ProxyConfig{
			APIKey:             get("API_KEY", ""),
			BaseURL:            get("BASE_URL", DefaultBaseURL),
			SystemPrompt:       get("SYSTEM_PROMPT", DefaultSystemPrompt),
			UserPromptPrefix:   get("USER_PROMPT_SHORT", DefaultUserPromptPrefix),
			MaxTokens:          DefaultMaxTokens,
			Timeout:            timeout,
			RateLimitPerMinute: rpm,
		},
	}

	if err := cfg.Proxy.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks that the proxy can be started with this configuration
func (c ProxyConfig) Validate() error {
	if strings.TrimSpace(c.APIKey) == "" {
		return ErrMissingAPIKey
	}
	if c.BaseURL == "" {
		return errors.New("base URL must not be empty")
	}
	if c.MaxTokens <= 0 {
		return fmt.Errorf("max tokens must be positive, got %d", c.MaxTokens)
	}
	return nil
}
