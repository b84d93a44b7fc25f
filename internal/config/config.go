// Package config loads application configuration from file and environment.
package config

import (
	"strings"
	"time"

	"github.com/rotisserie/eris"
	"github.com/spf13/viper"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Config holds the full application configuration.
type Config struct {
	Store     StoreConfig     `yaml:"store" mapstructure:"store"`
	Directory DirectoryConfig `yaml:"directory" mapstructure:"directory"`
	CodeHost  CodeHostConfig  `yaml:"codehost" mapstructure:"codehost"`
	Enrich    EnrichConfig    `yaml:"enrich" mapstructure:"enrich"`
	Scorer    ScorerConfig    `yaml:"scorer" mapstructure:"scorer"`
	Sender    SenderConfig    `yaml:"sender" mapstructure:"sender"`
	Followup  FollowupConfig  `yaml:"followup" mapstructure:"followup"`
	Server    ServerConfig    `yaml:"server" mapstructure:"server"`
	Log       LogConfig       `yaml:"log" mapstructure:"log"`
}

// StoreConfig configures the database backend.
type StoreConfig struct {
	Driver      string `yaml:"driver" mapstructure:"driver"`             // "sqlite" or "postgres"
	DatabaseURL string `yaml:"database_url" mapstructure:"database_url"` // postgres conn string
	SQLitePath  string `yaml:"sqlite_path" mapstructure:"sqlite_path"`
}

// DirectoryConfig configures the startup-directory data sources.
type DirectoryConfig struct {
	PagedBaseURL  string   `yaml:"paged_base_url" mapstructure:"paged_base_url"`
	StaticBaseURL string   `yaml:"static_base_url" mapstructure:"static_base_url"`
	PagesBaseURL  string   `yaml:"pages_base_url" mapstructure:"pages_base_url"`
	Batches       []string `yaml:"batches" mapstructure:"batches"`
}

// CodeHostConfig configures the code-host search source.
type CodeHostConfig struct {
	BaseURL string `yaml:"base_url" mapstructure:"base_url"`
	Token   string `yaml:"token" mapstructure:"token"`
}

// EnrichConfig configures the enrichment coordinator.
type EnrichConfig struct {
	CandidateLimit  int `yaml:"candidate_limit" mapstructure:"candidate_limit"`
	MaxContacts     int `yaml:"max_contacts" mapstructure:"max_contacts"`
	BudgetLimit     int `yaml:"budget_limit" mapstructure:"budget_limit"`
	PacingMS        int `yaml:"pacing_ms" mapstructure:"pacing_ms"`
	HTTPTimeoutSecs int `yaml:"http_timeout_secs" mapstructure:"http_timeout_secs"`
}

// Pacing returns the inter-call pacing delay.
func (c EnrichConfig) Pacing() time.Duration {
	return time.Duration(c.PacingMS) * time.Millisecond
}

// HTTPTimeout returns the per-call HTTP timeout.
func (c EnrichConfig) HTTPTimeout() time.Duration {
	return time.Duration(c.HTTPTimeoutSecs) * time.Second
}

// ScorerConfig holds relevance rubric weights and keyword lists.
type ScorerConfig struct {
	AIWeight         int      `yaml:"ai_weight" mapstructure:"ai_weight"`
	HiringWeight     int      `yaml:"hiring_weight" mapstructure:"hiring_weight"`
	LocationWeight   int      `yaml:"location_weight" mapstructure:"location_weight"`
	TeamSizeWeight   int      `yaml:"team_size_weight" mapstructure:"team_size_weight"`
	InfraWeight      int      `yaml:"infra_weight" mapstructure:"infra_weight"`
	MinTeamSize      int      `yaml:"min_team_size" mapstructure:"min_team_size"`
	MaxTeamSize      int      `yaml:"max_team_size" mapstructure:"max_team_size"`
	AIKeywords       []string `yaml:"ai_keywords" mapstructure:"ai_keywords"`
	LocationKeywords []string `yaml:"location_keywords" mapstructure:"location_keywords"`
	InfraKeywords    []string `yaml:"infra_keywords" mapstructure:"infra_keywords"`
}

// SenderConfig identifies the person on whose behalf drafts are generated.
type SenderConfig struct {
	Name       string `yaml:"name" mapstructure:"name"`
	School     string `yaml:"school" mapstructure:"school"`
	Degree     string `yaml:"degree" mapstructure:"degree"`
	Graduation string `yaml:"graduation" mapstructure:"graduation"`
	Location   string `yaml:"location" mapstructure:"location"`
	Visa       string `yaml:"visa" mapstructure:"visa"`
}

// FollowupConfig configures the outreach follow-up tracker.
type FollowupConfig struct {
	AfterDays int `yaml:"after_days" mapstructure:"after_days"`
}

// ServerConfig configures the API server.
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
	v.SetEnvPrefix("OUTREACH")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// Defaults
	v.SetDefault("store.driver", "sqlite")
	v.SetDefault("store.sqlite_path", "data/outreach.db")
	v.SetDefault("directory.paged_base_url", "https://api.ycombinator.com/v0.1/companies")
	v.SetDefault("directory.static_base_url", "https://yc-oss.github.io/api")
	v.SetDefault("directory.pages_base_url", "https://www.ycombinator.com/companies")
	v.SetDefault("directory.batches", []string{"W23", "S23", "W24", "S24", "W25"})
	v.SetDefault("codehost.base_url", "https://api.github.com")
	v.SetDefault("enrich.candidate_limit", 100)
	v.SetDefault("enrich.max_contacts", 2)
	v.SetDefault("enrich.budget_limit", 50)
	v.SetDefault("enrich.pacing_ms", 1500)
	v.SetDefault("enrich.http_timeout_secs", 15)
	v.SetDefault("scorer.ai_weight", 30)
	v.SetDefault("scorer.hiring_weight", 20)
	v.SetDefault("scorer.location_weight", 15)
	v.SetDefault("scorer.team_size_weight", 10)
	v.SetDefault("scorer.infra_weight", 5)
	v.SetDefault("scorer.min_team_size", 2)
	v.SetDefault("scorer.max_team_size", 50)
	v.SetDefault("followup.after_days", 3)
	v.SetDefault("server.port", 8080)
	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "json")

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
