// Package config builds the run configuration from flags, environment and an optional file.
package config

import (
	"fmt"
	"maps"
	"strings"
	"time"

	"github.com/joho/godotenv"
	apperrors "github.com/naka-gawa/github-stats-box/internal/errors"
	"github.com/spf13/viper"
)

// LookbackWindow is how far back the coding activity report looks for commits.
const LookbackWindow = 14 * 24 * time.Hour

// Report versions select the optional line on the stats card.
const (
	ReportVersionPRs       = 1
	ReportVersionDiskUsage = 2
)

// Default values for configuration.
const (
	DefaultWorkers           = 8
	MaxWorkers               = 64
	DefaultHTTPTimeout       = 30 * time.Second
	DefaultMaxRateLimitSleep = time.Hour
)

// ReportTarget is the gist a report is published to.
type ReportTarget struct {
	GistID string
	// FileName selects the gist file by exact name. Empty means "the only file".
	FileName string
}

// LogConfig holds logging configuration
type LogConfig struct {
	Level  string
	Format string // "json" or "text"
}

// Config holds the validated, final configuration for one run.
type Config struct {
	Token string

	Stats  ReportTarget
	Coding ReportTarget

	CountAllCommits bool
	CompactNumbers  bool
	ReportVersion   int

	Workers           int
	HTTPTimeout       time.Duration
	MaxRateLimitSleep time.Duration

	Log LogConfig

	// ExcludedExtensions holds lower-case extensions dropped from coding activity.
	ExcludedExtensions map[string]struct{}
	// ExtensionNames maps lower-case extensions to report display names.
	ExtensionNames map[string]string
}

// rawInput holds the unvalidated values resolved by viper.
type rawInput struct {
	Token             string        `mapstructure:"token"`
	StatsGistID       string        `mapstructure:"stats-gist-id"`
	StatsGistFile     string        `mapstructure:"stats-gist-file"`
	CodingGistID      string        `mapstructure:"coding-gist-id"`
	CodingGistFile    string        `mapstructure:"coding-gist-file"`
	AllCommits        bool          `mapstructure:"all-commits"`
	KFormat           bool          `mapstructure:"k-format"`
	ReportVersion     int           `mapstructure:"report-version"`
	Workers           int           `mapstructure:"workers"`
	HTTPTimeout       time.Duration `mapstructure:"http-timeout"`
	MaxRateLimitSleep time.Duration `mapstructure:"max-rate-limit-sleep"`
	LogLevel          string        `mapstructure:"log-level"`
	LogFormat         string        `mapstructure:"log-format"`
	ExcludeExtensions []string      `mapstructure:"exclude-extensions"`
}

// envBindings lists the environment variables accepted for each key, highest precedence first.
var envBindings = map[string][]string{
	"token":                {"GH_TOKEN", "GITHUB_TOKEN"},
	"stats-gist-id":        {"STATS_GIST_ID", "GIST_ID"},
	"stats-gist-file":      {"STATS_GIST_FILE"},
	"coding-gist-id":       {"CODING_GIST_ID"},
	"coding-gist-file":     {"CODING_GIST_FILE"},
	"all-commits":          {"ALL_COMMITS"},
	"k-format":             {"K_FORMAT"},
	"report-version":       {"REPORT_VERSION"},
	"workers":              {"WORKERS"},
	"http-timeout":         {"HTTP_TIMEOUT"},
	"max-rate-limit-sleep": {"MAX_RATE_LIMIT_SLEEP"},
	"log-level":            {"LOG_LEVEL"},
	"log-format":           {"LOG_FORMAT"},
	"exclude-extensions":   {"EXCLUDE_EXTENSIONS"},
}

// Load resolves configuration from v, which may already have cobra flags bound.
// A .env file in the working directory is loaded first when present.
func Load(v *viper.Viper) (*Config, error) {
	// Optional; variables already set in the environment win.
	_ = godotenv.Load(".env")

	for key, envs := range envBindings {
		if err := v.BindEnv(append([]string{key}, envs...)...); err != nil {
			return nil, fmt.Errorf("failed to bind environment for %s: %w", key, err)
		}
	}

	v.SetDefault("report-version", ReportVersionPRs)
	v.SetDefault("workers", DefaultWorkers)
	v.SetDefault("http-timeout", DefaultHTTPTimeout)
	v.SetDefault("max-rate-limit-sleep", DefaultMaxRateLimitSleep)
	v.SetDefault("log-level", "info")
	v.SetDefault("log-format", "text")

	if err := readConfigFile(v); err != nil {
		return nil, err
	}

	var input rawInput
	if err := v.Unmarshal(&input); err != nil {
		return nil, fmt.Errorf("unable to unmarshal config: %w", err)
	}

	cfg := fromInput(&input)
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// readConfigFile reads the file named by the "config" key, or .github-stats-box.yaml
// from the working or home directory. A missing default file is not an error.
func readConfigFile(v *viper.Viper) error {
	if configFile := v.GetString("config"); configFile != "" {
		v.SetConfigFile(configFile)
	} else {
		v.SetConfigName(".github-stats-box")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		v.AddConfigPath("$HOME")
	}

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return fmt.Errorf("error reading config file: %w", err)
		}
	}
	return nil
}

func fromInput(input *rawInput) *Config {
	excluded := make(map[string]struct{}, len(DefaultExcludedExtensions)+len(input.ExcludeExtensions))
	for _, ext := range DefaultExcludedExtensions {
		excluded[ext] = struct{}{}
	}
	for _, ext := range input.ExcludeExtensions {
		ext = strings.ToLower(strings.TrimPrefix(strings.TrimSpace(ext), "."))
		if ext != "" {
			excluded[ext] = struct{}{}
		}
	}

	return &Config{
		Token: strings.TrimSpace(input.Token),
		Stats: ReportTarget{
			GistID:   strings.TrimSpace(input.StatsGistID),
			FileName: input.StatsGistFile,
		},
		Coding: ReportTarget{
			GistID:   strings.TrimSpace(input.CodingGistID),
			FileName: input.CodingGistFile,
		},
		CountAllCommits:    input.AllCommits,
		CompactNumbers:     input.KFormat,
		ReportVersion:      input.ReportVersion,
		Workers:            input.Workers,
		HTTPTimeout:        input.HTTPTimeout,
		MaxRateLimitSleep:  input.MaxRateLimitSleep,
		Log:                LogConfig{Level: input.LogLevel, Format: input.LogFormat},
		ExcludedExtensions: excluded,
		ExtensionNames:     maps.Clone(DefaultExtensionNames),
	}
}

// Validate checks the settings every command needs.
func (c *Config) Validate() error {
	if c.Token == "" {
		return apperrors.Configuration("GH_TOKEN is not defined")
	}
	if c.ReportVersion != ReportVersionPRs && c.ReportVersion != ReportVersionDiskUsage {
		return apperrors.Configuration(fmt.Sprintf("invalid report version: %d (expected 1 or 2)", c.ReportVersion))
	}
	if c.Workers < 1 || c.Workers > MaxWorkers {
		return apperrors.Configuration(fmt.Sprintf("invalid workers: %d (expected 1-%d)", c.Workers, MaxWorkers))
	}
	if c.HTTPTimeout <= 0 {
		return apperrors.Configuration(fmt.Sprintf("invalid http timeout: %s", c.HTTPTimeout))
	}
	return nil
}

// ValidateForSync checks the gist ids of the reports that will be written.
func (c *Config) ValidateForSync(stats, coding bool) error {
	if stats && c.Stats.GistID == "" {
		return apperrors.Configuration("GIST_ID is not defined")
	}
	if coding && c.Coding.GistID == "" {
		return apperrors.Configuration("CODING_GIST_ID is not defined")
	}
	return nil
}
