// Package config provides configuration loading and validation for the CLI.
package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/spf13/viper"
)

// EnvPrefix is prepended to every environment override, e.g. LIGHTWALKER_LLM_MODEL
const EnvPrefix = "LIGHTWALKER"

// Config is the full CLI configuration. Values come from defaults, an
// optional YAML/JSON file, then the environment.
type Config struct {
	LLM         LLMConfig         `mapstructure:"llm" yaml:"llm"`
	Enhancement EnhancementConfig `mapstructure:"enhancement" yaml:"enhancement"`
	Database    DatabaseConfig    `mapstructure:"database" yaml:"database"`
	Logger      LoggerConfig      `mapstructure:"logger" yaml:"logger"`
}

// LLMConfig selects and tunes the completion provider
type LLMConfig struct {
	Provider    string        `mapstructure:"provider" yaml:"provider" validate:"oneof=openrouter anthropic"`
	Model       string        `mapstructure:"model" yaml:"model"`
	BaseURL     string        `mapstructure:"base_url" yaml:"base_url"`
	MaxTokens   int64         `mapstructure:"max_tokens" yaml:"max_tokens" validate:"gt=0"`
	Temperature float64       `mapstructure:"temperature" yaml:"temperature" validate:"gte=0,lte=2"`
	TopP        float64       `mapstructure:"top_p" yaml:"top_p" validate:"gt=0,lte=1"`
	CallTimeout time.Duration `mapstructure:"call_timeout" yaml:"call_timeout" validate:"gte=0"`
	AppURL      string        `mapstructure:"app_url" yaml:"app_url"`
	AppName     string        `mapstructure:"app_name" yaml:"app_name"`

	// APIKey wins over the provider-specific keys when set
	APIKey           string `mapstructure:"api_key" yaml:"-"`
	OpenRouterAPIKey string `mapstructure:"openrouter_api_key" yaml:"-"`
	AnthropicAPIKey  string `mapstructure:"anthropic_api_key" yaml:"-"`
}

// ResolvedAPIKey returns the key for the configured provider
func (l LLMConfig) ResolvedAPIKey() string {
	if l.APIKey != "" {
		return l.APIKey
	}
	if l.Provider == "anthropic" {
		return l.AnthropicAPIKey
	}
	return l.OpenRouterAPIKey
}

// EnhancementConfig controls the retry loop and the batch run
type EnhancementConfig struct {
	MaxRetries     int           `mapstructure:"max_retries" yaml:"max_retries" validate:"gte=1,lte=10"`
	RetryDelay     time.Duration `mapstructure:"retry_delay" yaml:"retry_delay" validate:"gte=0"`
	RateLimitDelay time.Duration `mapstructure:"rate_limit_delay" yaml:"rate_limit_delay" validate:"gte=0"`
	Limit          int           `mapstructure:"limit" yaml:"limit" validate:"gte=0"`
	DryRun         bool          `mapstructure:"dry_run" yaml:"dry_run"`
	UserLevel      string        `mapstructure:"user_level" yaml:"user_level" validate:"oneof=beginner intermediate advanced"`
	AvailableTime  string        `mapstructure:"available_time" yaml:"available_time" validate:"oneof=2-5min 5-15min 15-30min"`
	PreferredStyle string        `mapstructure:"preferred_style" yaml:"preferred_style" validate:"oneof=structured flexible creative"`
}

// DatabaseConfig names the role model store
type DatabaseConfig struct {
	URL string `mapstructure:"url" yaml:"url"`
}

// LoggerConfig configures the zap logger
type LoggerConfig struct {
	Level       string      `mapstructure:"level" yaml:"level" validate:"oneof=debug info warn error"`
	Format      string      `mapstructure:"format" yaml:"format" validate:"oneof=console json"`
	AddSource   bool        `mapstructure:"add_source" yaml:"add_source"`
	ServiceName string      `mapstructure:"service_name" yaml:"service_name"`
	LogFile     string      `mapstructure:"log_file" yaml:"log_file"`
	MaxSize     int         `mapstructure:"max_size" yaml:"max_size"`
	MaxBackups  int         `mapstructure:"max_backups" yaml:"max_backups"`
	MaxAge      int         `mapstructure:"max_age" yaml:"max_age"`
	Compress    bool        `mapstructure:"compress" yaml:"compress"`
	Colors      ColorConfig `mapstructure:"colors" yaml:"colors"`
}

// ColorConfig names the console color of each log level
type ColorConfig struct {
	Debug string `mapstructure:"debug" yaml:"debug"`
	Info  string `mapstructure:"info" yaml:"info"`
	Warn  string `mapstructure:"warn" yaml:"warn"`
	Error string `mapstructure:"error" yaml:"error"`
}

// SetDefaults registers every key with its default value
func SetDefaults(v *viper.Viper) {
	// -- LLM --
	v.SetDefault("llm.provider", "openrouter")
	v.SetDefault("llm.model", "")
	v.SetDefault("llm.base_url", "")
	v.SetDefault("llm.max_tokens", 1500)
	v.SetDefault("llm.temperature", 0.3)
	v.SetDefault("llm.top_p", 1.0)
	v.SetDefault("llm.call_timeout", "60s")
	v.SetDefault("llm.app_url", "https://lightwalker.app")
	v.SetDefault("llm.app_name", "Lightwalker")
	v.SetDefault("llm.api_key", "")
	v.SetDefault("llm.openrouter_api_key", "")
	v.SetDefault("llm.anthropic_api_key", "")

	// -- Enhancement --
	v.SetDefault("enhancement.max_retries", 3)
	v.SetDefault("enhancement.retry_delay", "1s")
	v.SetDefault("enhancement.rate_limit_delay", "2s")
	v.SetDefault("enhancement.limit", 0)
	v.SetDefault("enhancement.dry_run", false)
	v.SetDefault("enhancement.user_level", "beginner")
	v.SetDefault("enhancement.available_time", "5-15min")
	v.SetDefault("enhancement.preferred_style", "structured")

	// -- Database --
	v.SetDefault("database.url", "")

	// -- Logger --
	v.SetDefault("logger.level", "info")
	v.SetDefault("logger.format", "console")
	v.SetDefault("logger.add_source", false)
	v.SetDefault("logger.service_name", "lightwalker")
	v.SetDefault("logger.log_file", "")
	v.SetDefault("logger.max_size", 100)
	v.SetDefault("logger.max_backups", 5)
	v.SetDefault("logger.max_age", 30)
	v.SetDefault("logger.compress", true)
	v.SetDefault("logger.colors.debug", "cyan")
	v.SetDefault("logger.colors.info", "green")
	v.SetDefault("logger.colors.warn", "yellow")
	v.SetDefault("logger.colors.error", "red")
}

// NewDefaultConfig returns the configuration with only defaults applied
func NewDefaultConfig() *Config {
	v := viper.New()
	SetDefaults(v)

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		panic(fmt.Sprintf("failed to unmarshal default config: %v", err))
	}
	return &cfg
}

// Load reads the configuration into v. An empty path searches the working
// directory for config.yaml; a missing search result is not an error, a
// missing explicit path is.
func Load(v *viper.Viper, path string) (*Config, error) {
	SetDefaults(v)

	if path != "" {
		v.SetConfigFile(path)
	} else {
		v.AddConfigPath(".")
		v.SetConfigName("config")
		v.SetConfigType("yaml")
	}

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// conventional names used by hosting platforms
	_ = v.BindEnv("llm.openrouter_api_key", EnvPrefix+"_LLM_OPENROUTER_API_KEY", "OPENROUTER_API_KEY")
	_ = v.BindEnv("llm.anthropic_api_key", EnvPrefix+"_LLM_ANTHROPIC_API_KEY", "ANTHROPIC_API_KEY")
	_ = v.BindEnv("database.url", EnvPrefix+"_DATABASE_URL", "DATABASE_URL")

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if path != "" || !errors.As(err, &notFound) {
			return nil, &ConfigurationError{Message: "failed to read config file", Cause: err}
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, &ConfigurationError{Message: "failed to decode config", Cause: err}
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate checks numeric ranges and enumerated values. It does not require
// an API key, since not every command calls the LLM.
func (c *Config) Validate() error {
	validate := validator.New()
	if err := validate.Struct(c); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) && len(verrs) > 0 {
			fe := verrs[0]
			return &ConfigurationError{
				Field:   fieldKey(fe.Namespace()),
				Message: fmt.Sprintf("failed %q check (got %v)", fe.Tag(), fe.Value()),
			}
		}
		return &ConfigurationError{Message: "invalid configuration", Cause: err}
	}
	return nil
}

// RequireAPIKey fails when no key is available for the configured provider
func (c *Config) RequireAPIKey() error {
	if c.LLM.ResolvedAPIKey() != "" {
		return nil
	}
	env := "OPENROUTER_API_KEY"
	if c.LLM.Provider == "anthropic" {
		env = "ANTHROPIC_API_KEY"
	}
	return &ConfigurationError{Field: "llm.api_key", Message: fmt.Sprintf("API key is required (set %s)", env)}
}

// fieldKey converts "Config.LLM.MaxTokens" to "llm.max_tokens"
func fieldKey(namespace string) string {
	parts := strings.Split(namespace, ".")
	if len(parts) > 1 {
		parts = parts[1:]
	}
	for i, p := range parts {
		parts[i] = snakeCase(p)
	}
	return strings.Join(parts, ".")
}

func snakeCase(s string) string {
	var sb strings.Builder
	runes := []rune(s)
	for i, r := range runes {
		upper := r >= 'A' && r <= 'Z'
		if upper && i > 0 {
			prevLower := runes[i-1] >= 'a' && runes[i-1] <= 'z'
			nextLower := i+1 < len(runes) && runes[i+1] >= 'a' && runes[i+1] <= 'z'
			if prevLower || nextLower {
				sb.WriteByte('_')
			}
		}
		if upper {
			r += 'a' - 'A'
		}
		sb.WriteRune(r)
	}
	return sb.String()
}
