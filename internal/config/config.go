package config

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/viper"

	"github.com/EliotAtlani/personal-news/internal/domain"
)

// Defaults applied during sanitization.
const (
	defaultSummaryLength  = "medium"
	defaultTimeRangeHours = 24
	defaultMaxArticles    = 10
	defaultMinArticles    = 1
	defaultMaxConcurrent  = 5
)

// Config is the full preferences file: shared credentials and stores plus
// one entry per newsletter profile. Loaded once, never mutated by the run.
type Config struct {
	Logging        Logging            `mapstructure:"logging"`
	History        History            `mapstructure:"history"`
	APIKeys        APIKeys            `mapstructure:"api_keys"`
	AI             AI                 `mapstructure:"ai"`
	Profiles       map[string]Profile `mapstructure:"profiles"`
	PublishersFile string             `mapstructure:"publishers_file"`
}

// Logging holds log output settings.
type Logging struct {
	Level string `mapstructure:"level"`
}

// History points at the durable sent-article store.
type History struct {
	Path string `mapstructure:"path"`
}

// APIKeys carries per-provider credentials. Values support ${ENV} expansion
// and are treated as opaque: they are never logged.
type APIKeys struct {
	NewsAPI       string `mapstructure:"newsapi"`
	Guardian      string `mapstructure:"guardian"`
	EventRegistry string `mapstructure:"eventregistry"`
	OpenAI        string `mapstructure:"openai"`
	Anthropic     string `mapstructure:"anthropic"`
	Gemini        string `mapstructure:"gemini"`
}

// AI configures the summarization provider chain.
type AI struct {
	// Providers is the fallback order, e.g. ["gemini", "openai", "anthropic"].
	Providers      []string `mapstructure:"providers"`
	OpenAIModel    string   `mapstructure:"openai_model"`
	AnthropicModel string   `mapstructure:"anthropic_model"`
	GeminiModel    string   `mapstructure:"gemini_model"`
	MaxConcurrent  int      `mapstructure:"max_concurrent"`
}

// Schedule is advisory metadata for the external scheduler.
type Schedule struct {
	DayOfWeek int    `mapstructure:"day_of_week"`
	Time      string `mapstructure:"time"`
}

// Content holds per-profile curation thresholds.
type Content struct {
	TimeRangeHours    int     `mapstructure:"time_range_hours"`
	MaxArticles       int     `mapstructure:"max_articles"`
	MinArticles       int     `mapstructure:"min_articles"`
	SummaryLength     string  `mapstructure:"summary_length"`
	MinRelevanceScore float64 `mapstructure:"min_relevance_score"`
}

// Profile is one named newsletter configuration.
type Profile struct {
	Name          string   `mapstructure:"-"`
	SubjectPrefix string   `mapstructure:"subject_prefix"`
	Topics        []string `mapstructure:"topics"`
	Sources       []string `mapstructure:"sources"`
	Schedule      Schedule `mapstructure:"schedule"`
	Content       Content  `mapstructure:"content"`
}

// Length returns the profile's summary length as a domain value.
func (p Profile) Length() domain.SummaryLength {
	return domain.SummaryLength(p.Content.SummaryLength)
}

// Load reads, expands, sanitizes and validates the preferences file.
// Environment references (${VAR}) in the file are expanded before decoding,
// so secrets can stay out of the file itself.
func Load(path string) (*Config, error) {
	path = strings.TrimSpace(path)
	if path == "" {
		return nil, &domain.ConfigError{Field: "path", Reason: "preferences file path is empty"}
	}

	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read preferences file: %w", err)
	}
	expanded := []byte(os.ExpandEnv(string(raw)))

	v := viper.New()
	v.SetConfigType(configType(filepath.Ext(path)))
	if err := v.ReadConfig(bytes.NewReader(expanded)); err != nil {
		return nil, fmt.Errorf("decode preferences file: %w", err)
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("unmarshal preferences: %w", err)
	}

	sanitize(&cfg)
	if err := validate(&cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func configType(ext string) string {
	switch strings.ToLower(ext) {
	case ".json":
		return "json"
	default:
		return "yaml"
	}
}

// sanitize trims fields and fills defaults so validation sees final values.
func sanitize(cfg *Config) {
	cfg.History.Path = strings.TrimSpace(cfg.History.Path)
	cfg.PublishersFile = strings.TrimSpace(cfg.PublishersFile)
	cfg.Logging.Level = strings.ToLower(strings.TrimSpace(cfg.Logging.Level))

	if cfg.AI.MaxConcurrent <= 0 {
		cfg.AI.MaxConcurrent = defaultMaxConcurrent
	}
	for i, p := range cfg.AI.Providers {
		cfg.AI.Providers[i] = strings.ToLower(strings.TrimSpace(p))
	}

	for name, profile := range cfg.Profiles {
		profile.Name = strings.TrimSpace(name)
		profile.SubjectPrefix = strings.TrimSpace(profile.SubjectPrefix)
		profile.Topics = cleanList(profile.Topics)
		profile.Sources = cleanList(profile.Sources)

		if profile.Content.SummaryLength == "" {
			profile.Content.SummaryLength = defaultSummaryLength
		}
		profile.Content.SummaryLength = strings.ToLower(strings.TrimSpace(profile.Content.SummaryLength))
		if profile.Content.TimeRangeHours <= 0 {
			profile.Content.TimeRangeHours = defaultTimeRangeHours
		}
		if profile.Content.MaxArticles <= 0 {
			profile.Content.MaxArticles = defaultMaxArticles
		}
		if profile.Content.MinArticles <= 0 {
			profile.Content.MinArticles = defaultMinArticles
		}

		cfg.Profiles[name] = profile
	}
}

func cleanList(values []string) []string {
	out := make([]string, 0, len(values))
	for _, v := range values {
		if v = strings.ToLower(strings.TrimSpace(v)); v != "" {
			out = append(out, v)
		}
	}
	return out
}

// validate checks required fields. Any failure is a ConfigError and aborts
// the run before any fetch happens.
func validate(cfg *Config) error {
	if cfg.History.Path == "" {
		return &domain.ConfigError{Field: "history.path", Reason: "is required"}
	}
	if len(cfg.Profiles) == 0 {
		return &domain.ConfigError{Field: "profiles", Reason: "at least one profile is required"}
	}

	for name, profile := range cfg.Profiles {
		if len(profile.Topics) == 0 {
			return &domain.ConfigError{Profile: name, Field: "topics", Reason: "at least one topic is required"}
		}
		if len(profile.Sources) == 0 {
			return &domain.ConfigError{Profile: name, Field: "sources", Reason: "at least one source is required"}
		}
		switch domain.SummaryLength(profile.Content.SummaryLength) {
		case domain.LengthShort, domain.LengthMedium, domain.LengthLong:
		default:
			return &domain.ConfigError{
				Profile: name,
				Field:   "content.summary_length",
				Reason:  fmt.Sprintf("%q is not one of short, medium, long", profile.Content.SummaryLength),
			}
		}
		if profile.Content.MinRelevanceScore < 0 || profile.Content.MinRelevanceScore > 1 {
			return &domain.ConfigError{
				Profile: name,
				Field:   "content.min_relevance_score",
				Reason:  "must be between 0.0 and 1.0",
			}
		}
		if profile.Content.MinArticles > profile.Content.MaxArticles {
			return &domain.ConfigError{
				Profile: name,
				Field:   "content.min_articles",
				Reason:  "must not exceed content.max_articles",
			}
		}
		if profile.Schedule.DayOfWeek < 0 || profile.Schedule.DayOfWeek > 7 {
			return &domain.ConfigError{
				Profile: name,
				Field:   "schedule.day_of_week",
				Reason:  "must be between 0 and 7",
			}
		}
	}

	for _, p := range cfg.AI.Providers {
		switch p {
		case "openai", "anthropic", "gemini":
		default:
			return &domain.ConfigError{Field: "ai.providers", Reason: fmt.Sprintf("unknown provider %q", p)}
		}
	}

	return nil
}

// ProfileByName returns the named profile.
func (c *Config) ProfileByName(name string) (Profile, error) {
	profile, ok := c.Profiles[name]
	if !ok {
		return Profile{}, &domain.ConfigError{Profile: name, Field: "profiles", Reason: "profile not found"}
	}
	return profile, nil
}
