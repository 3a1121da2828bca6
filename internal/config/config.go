// Package config loads application configuration and wires the global logger.
package config

import (
	"strings"

	"github.com/rotisserie/eris"
	"github.com/spf13/viper"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Config holds the full application configuration.
type Config struct {
	Fetch     FetchConfig     `yaml:"fetch" mapstructure:"fetch"`
	Anthropic AnthropicConfig `yaml:"anthropic" mapstructure:"anthropic"`
	Synth     SynthConfig     `yaml:"synth" mapstructure:"synth"`
	Scorer    ScorerConfig    `yaml:"scorer" mapstructure:"scorer"`
	Funnel    FunnelConfig    `yaml:"funnel" mapstructure:"funnel"`
	Batch     BatchConfig     `yaml:"batch" mapstructure:"batch"`
	Server    ServerConfig    `yaml:"server" mapstructure:"server"`
	Log       LogConfig       `yaml:"log" mapstructure:"log"`
}

// FetchConfig configures the document fetcher.
type FetchConfig struct {
	TimeoutSecs int    `yaml:"timeout_secs" mapstructure:"timeout_secs"`
	UserAgent   string `yaml:"user_agent" mapstructure:"user_agent"`
	RatePerSec  int    `yaml:"rate_per_sec" mapstructure:"rate_per_sec"`
}

// AnthropicConfig holds Anthropic API settings.
type AnthropicConfig struct {
	Key       string `yaml:"key" mapstructure:"key"`
	Model     string `yaml:"model" mapstructure:"model"`
	MaxTokens int64  `yaml:"max_tokens" mapstructure:"max_tokens"`
}

// SynthConfig configures the recommendation synthesizer.
// The timeout is deliberately independent of the fetch budget.
type SynthConfig struct {
	TimeoutSecs int `yaml:"timeout_secs" mapstructure:"timeout_secs"`
	MinItems    int `yaml:"min_items" mapstructure:"min_items"`
	MaxItems    int `yaml:"max_items" mapstructure:"max_items"`
}

// ScorerConfig holds lead-score factor weights and the threshold below which
// a factor is considered to need improvement.
type ScorerConfig struct {
	WebsiteQualityWeight float64 `yaml:"website_quality_weight" mapstructure:"website_quality_weight"`
	TechStackWeight      float64 `yaml:"tech_stack_weight" mapstructure:"tech_stack_weight"`
	ContentQualityWeight float64 `yaml:"content_quality_weight" mapstructure:"content_quality_weight"`
	SEOReadinessWeight   float64 `yaml:"seo_readiness_weight" mapstructure:"seo_readiness_weight"`
	ImprovementThreshold float64 `yaml:"improvement_threshold" mapstructure:"improvement_threshold"`
	NeutralFallbackScore float64 `yaml:"neutral_fallback_score" mapstructure:"neutral_fallback_score"`
}

// FunnelConfig holds the pipeline-leak severity thresholds.
type FunnelConfig struct {
	HighConversionCut   float64 `yaml:"high_conversion_cut" mapstructure:"high_conversion_cut"`
	MediumConversionCut float64 `yaml:"medium_conversion_cut" mapstructure:"medium_conversion_cut"`
	DwellDaysCut        float64 `yaml:"dwell_days_cut" mapstructure:"dwell_days_cut"`
}

// BatchConfig configures batch audit processing.
type BatchConfig struct {
	MaxConcurrent int `yaml:"max_concurrent" mapstructure:"max_concurrent"`
}

// ServerConfig configures the assessment API server.
type ServerConfig struct {
	Port int `yaml:"port" mapstructure:"port"`
}

// LogConfig configures logging.
type LogConfig struct {
	Level  string `yaml:"level" mapstructure:"level"`
	Format string `yaml:"format" mapstructure:"format"`
}

// Load reads configuration from file and environment.
func Load() (*Config, error) {
	v := viper.New()

	// Config file
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")

	// Environment
	v.SetEnvPrefix("ASSESS")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// Defaults
	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "json")
	v.SetDefault("server.port", 8080)
	v.SetDefault("fetch.timeout_secs", 10)
	v.SetDefault("fetch.user_agent", "Mozilla/5.0 (compatible; MaruWebsiteAudit/1.0)")
	v.SetDefault("fetch.rate_per_sec", 20)
	v.SetDefault("anthropic.model", "claude-sonnet-4-5-20250929")
	v.SetDefault("anthropic.max_tokens", 2000)
	v.SetDefault("synth.timeout_secs", 8)
	v.SetDefault("synth.min_items", 3)
	v.SetDefault("synth.max_items", 5)
	v.SetDefault("scorer.website_quality_weight", 30)
	v.SetDefault("scorer.tech_stack_weight", 25)
	v.SetDefault("scorer.content_quality_weight", 25)
	v.SetDefault("scorer.seo_readiness_weight", 20)
	v.SetDefault("scorer.improvement_threshold", 60)
	v.SetDefault("scorer.neutral_fallback_score", 50)
	v.SetDefault("funnel.high_conversion_cut", 30)
	v.SetDefault("funnel.medium_conversion_cut", 50)
	v.SetDefault("funnel.dwell_days_cut", 30)
	v.SetDefault("batch.max_concurrent", 5)

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
