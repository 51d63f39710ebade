package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

const (
	EnvConfigPath   = "LANGSALARY_CONFIG"
	EnvSuperJobKey  = "SJ_SECRET_KEY"
	EnvDatabaseURL  = "DATABASE_URL"
	EnvHHUserAgent  = "HH_USER_AGENT"
	defaultFileName = "config.yaml"
)

// Config represents the application configuration
type Config struct {
	Languages    []string         `yaml:"languages"`
	Workers      int              `yaml:"workers"`
	MinVacancies int              `yaml:"min_vacancies"`
	RelevantOnly bool             `yaml:"relevant_only"`
	HTTP         HTTPConfig       `yaml:"http"`
	HeadHunter   HeadHunterConfig `yaml:"headhunter"`
	SuperJob     SuperJobConfig   `yaml:"superjob"`
	Database     DatabaseConfig   `yaml:"database"`
}

type HTTPConfig struct {
	Timeout   time.Duration `yaml:"timeout"`
	Proxy     string        `yaml:"proxy"`
	UserAgent string        `yaml:"user_agent"` // Prefer HH_USER_AGENT env var
}

type HeadHunterConfig struct {
	Enabled           bool    `yaml:"enabled"`
	Title             string  `yaml:"title"`
	BaseURL           string  `yaml:"base_url"`
	SearchPrefix      string  `yaml:"search_prefix"`
	Area              int     `yaml:"area"`
	OnlyWithSalary    bool    `yaml:"only_with_salary"`
	PeriodDays        int     `yaml:"period_days"`
	PerPage           int     `yaml:"per_page"`
	RequestsPerSecond float64 `yaml:"requests_per_second"`
}

type SuperJobConfig struct {
	Enabled             bool    `yaml:"enabled"`
	Title               string  `yaml:"title"`
	BaseURL             string  `yaml:"base_url"`
	APIKey              string  `yaml:"api_key"` // Prefer SJ_SECRET_KEY env var
	Town                int     `yaml:"town"`
	Count               int     `yaml:"count"`
	PublishedWithinDays int     `yaml:"published_within_days"`
	RequestsPerSecond   float64 `yaml:"requests_per_second"`
}

type DatabaseConfig struct {
	URL   string `yaml:"url"` // Prefer DATABASE_URL env var
	Table string `yaml:"table"`
}

// Default returns the configuration used when no config file is present
func Default() *Config {
	return &Config{
		Languages: []string{"Go", "C#", "C", "C++", "PHP", "Python", "Java", "JavaScript"},
		Workers:   1,
		HTTP: HTTPConfig{
			Timeout: 30 * time.Second,
		},
		HeadHunter: HeadHunterConfig{
			Enabled:           true,
			Title:             "HeadHunter Moscow",
			BaseURL:           "https://api.hh.ru",
			SearchPrefix:      "Программист",
			Area:              1,
			OnlyWithSalary:    true,
			PeriodDays:        30,
			PerPage:           100,
			RequestsPerSecond: 5,
		},
		SuperJob: SuperJobConfig{
			Enabled:             true,
			Title:               "SuperJob Moscow",
			BaseURL:             "https://api.superjob.ru",
			Town:                4,
			Count:               40,
			PublishedWithinDays: 30,
			RequestsPerSecond:   2,
		},
		Database: DatabaseConfig{
			Table: "language_salaries",
		},
	}
}

// LoadDotEnv loads variables from .env files into the process environment.
// Missing files are ignored; variables already set win.
func LoadDotEnv(paths ...string) error {
	if len(paths) == 0 {
		paths = []string{".env"}
	}
	for _, p := range paths {
		if err := godotenv.Load(p); err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				continue
			}
			return fmt.Errorf("error loading %s: %w", p, err)
		}
	}
	return nil
}

// Load reads the configuration from path, or from the first config.yaml found
// when path is empty, then applies environment overrides and validates it.
func Load(path string) (*Config, error) {
	cfg := Default()

	explicit := path != ""
	if !explicit {
		path = findConfigPath()
	}

	data, err := os.ReadFile(path)
	switch {
	case err == nil:
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("error decoding config %s: %w", path, err)
		}
	case errors.Is(err, fs.ErrNotExist) && !explicit:
		// defaults
	default:
		return nil, fmt.Errorf("error opening config file: %w", err)
	}

	cfg.applyEnv()

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return cfg, nil
}

func findConfigPath() string {
	paths := []string{
		os.Getenv(EnvConfigPath),
		defaultFileName,
	}
	if home, err := os.UserConfigDir(); err == nil {
		paths = append(paths, filepath.Join(home, "langsalary", defaultFileName))
	}

	for _, p := range paths {
		if p == "" {
			continue
		}
		if _, err := os.Stat(p); err == nil {
			return p
		}
	}
	return defaultFileName
}

func (c *Config) applyEnv() {
	if key := strings.TrimSpace(os.Getenv(EnvSuperJobKey)); key != "" {
		c.SuperJob.APIKey = key
	}
	if dsn := strings.TrimSpace(os.Getenv(EnvDatabaseURL)); dsn != "" {
		c.Database.URL = dsn
	}
	if ua := strings.TrimSpace(os.Getenv(EnvHHUserAgent)); ua != "" {
		c.HTTP.UserAgent = ua
	}
}

// Validate checks if the configuration is valid
func (c *Config) Validate() error {
	if len(c.Languages) == 0 {
		return fmt.Errorf("at least one language is required")
	}
	for _, lang := range c.Languages {
		if strings.TrimSpace(lang) == "" {
			return fmt.Errorf("languages must not contain blank entries")
		}
	}
	if c.Workers <= 0 {
		return fmt.Errorf("workers must be positive")
	}
	if c.MinVacancies < 0 {
		return fmt.Errorf("min_vacancies must not be negative")
	}
	if c.HTTP.Timeout <= 0 {
		return fmt.Errorf("http.timeout must be positive")
	}
	if !c.HeadHunter.Enabled && !c.SuperJob.Enabled {
		return fmt.Errorf("no source enabled")
	}
	if c.HeadHunter.Enabled {
		if c.HeadHunter.BaseURL == "" {
			return fmt.Errorf("headhunter.base_url is required")
		}
		if c.HeadHunter.PerPage < 1 || c.HeadHunter.PerPage > 100 {
			return fmt.Errorf("headhunter.per_page must be between 1 and 100")
		}
		if c.HeadHunter.PeriodDays < 0 {
			return fmt.Errorf("headhunter.period_days must not be negative")
		}
	}
	if c.SuperJob.Enabled {
		if c.SuperJob.BaseURL == "" {
			return fmt.Errorf("superjob.base_url is required")
		}
		if c.SuperJob.Count < 1 || c.SuperJob.Count > 100 {
			return fmt.Errorf("superjob.count must be between 1 and 100")
		}
		if c.SuperJob.PublishedWithinDays < 0 {
			return fmt.Errorf("superjob.published_within_days must not be negative")
		}
	}
	if c.Database.URL != "" && strings.TrimSpace(c.Database.Table) == "" {
		return fmt.Errorf("database.table is required when database.url is set")
	}
	return nil
}
