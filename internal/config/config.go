package config

import (
	"strings"

	"github.com/rotisserie/eris"
	"github.com/spf13/viper"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/sells-group/report-cli/internal/cost"
)

// Config holds the full application configuration.
type Config struct {
	Provider   string           `yaml:"provider" mapstructure:"provider"`
	OpenAI     ProviderConfig   `yaml:"openai" mapstructure:"openai"`
	DeepSeek   ProviderConfig   `yaml:"deepseek" mapstructure:"deepseek"`
	Extraction ExtractionConfig `yaml:"extraction" mapstructure:"extraction"`
	Pricing    cost.Rates       `yaml:"pricing" mapstructure:"pricing"`
	Server     ServerConfig     `yaml:"server" mapstructure:"server"`
	Log        LogConfig        `yaml:"log" mapstructure:"log"`
}

// ProviderConfig holds one completion provider's settings.
type ProviderConfig struct {
	Key     string `yaml:"key" mapstructure:"key"`
	Model   string `yaml:"model" mapstructure:"model"`
	BaseURL string `yaml:"base_url" mapstructure:"base_url"`
}

// ExtractionConfig configures pipeline behavior.
type ExtractionConfig struct {
	Strategy            string  `yaml:"strategy" mapstructure:"strategy"`
	Temperature         float64 `yaml:"temperature" mapstructure:"temperature"`
	MaxTokens           int     `yaml:"max_tokens" mapstructure:"max_tokens"`
	CallTimeoutSecs     int     `yaml:"call_timeout_secs" mapstructure:"call_timeout_secs"`
	Preprocess          bool    `yaml:"preprocess" mapstructure:"preprocess"`
	PreprocessThreshold int     `yaml:"preprocess_threshold" mapstructure:"preprocess_threshold"`
}

// ServerConfig configures the HTTP server.
type ServerConfig struct {
	Port int `yaml:"port" mapstructure:"port"`
}

// LogConfig configures logging.
type LogConfig struct {
	Level  string `yaml:"level" mapstructure:"level"`
	Format string `yaml:"format" mapstructure:"format"`
}

// Active returns the selected provider's settings, failing when the provider
// is unknown or missing its API key.
func (c *Config) Active() (ProviderConfig, error) {
	var pc ProviderConfig
	switch c.Provider {
	case "openai":
		pc = c.OpenAI
	case "deepseek":
		pc = c.DeepSeek
	default:
		return ProviderConfig{}, eris.Errorf("config: unsupported provider %q", c.Provider)
	}
	if pc.Key == "" {
		return ProviderConfig{}, eris.Errorf("config: no API key configured for provider %q", c.Provider)
	}
	return pc, nil
}

// Load reads configuration from file and environment.
func Load() (*Config, error) {
	v := viper.New()

	// Config file
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")

	// Environment
	v.SetEnvPrefix("REPORT")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// Defaults
	v.SetDefault("provider", "openai")
	v.SetDefault("openai.model", "gpt-4")
	v.SetDefault("openai.base_url", "https://api.openai.com/v1")
	v.SetDefault("deepseek.model", "deepseek-chat")
	v.SetDefault("deepseek.base_url", "https://api.deepseek.com")
	v.SetDefault("extraction.strategy", "partitioned")
	v.SetDefault("extraction.temperature", 0.7)
	v.SetDefault("extraction.max_tokens", 4000)
	v.SetDefault("extraction.call_timeout_secs", 120)
	v.SetDefault("extraction.preprocess", false)
	v.SetDefault("extraction.preprocess_threshold", 6000)
	v.SetDefault("server.port", 8000)
	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "json")
	for model, rate := range cost.DefaultRates() {
		v.SetDefault("pricing."+model+".input", rate.Input)
		v.SetDefault("pricing."+model+".output", rate.Output)
	}

	// Read config file (optional)
	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, eris.Wrap(err, "config: read file")
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, eris.Wrap(err, "config: unmarshal")
	}

	return &cfg, nil
}

// InitLogger initializes the global zap logger.
func InitLogger(cfg LogConfig) error {
	var zapCfg zap.Config
	if cfg.Format == "console" {
		zapCfg = zap.NewDevelopmentConfig()
	} else {
		zapCfg = zap.NewProductionConfig()
	}

	level, err := zapcore.ParseLevel(cfg.Level)
	if err != nil {
		return eris.Wrap(err, "config: parse log level")
	}
	zapCfg.Level.SetLevel(level)

	logger, err := zapCfg.Build()
	if err != nil {
		return eris.Wrap(err, "config: build logger")
	}
	zap.ReplaceGlobals(logger)

	return nil
}
