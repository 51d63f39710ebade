package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("Failed to create %s: %v", name, err)
	}
	return path
}

func TestLoad(t *testing.T) {
	t.Setenv(EnvSuperJobKey, "")
	t.Setenv(EnvDatabaseURL, "")

	content := `languages: [Go, Rust]
workers: 3
min_vacancies: 100
http:
  timeout: 10s
headhunter:
  area: 2
  title: HeadHunter Saint Petersburg
superjob:
  enabled: false
`
	path := writeFile(t, t.TempDir(), "config.yaml", content)

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if len(cfg.Languages) != 2 || cfg.Languages[1] != "Rust" {
		t.Errorf("Expected languages [Go Rust], got %v", cfg.Languages)
	}
	if cfg.Workers != 3 {
		t.Errorf("Expected Workers = 3, got %d", cfg.Workers)
	}
	if cfg.MinVacancies != 100 {
		t.Errorf("Expected MinVacancies = 100, got %d", cfg.MinVacancies)
	}
	if cfg.HTTP.Timeout != 10*time.Second {
		t.Errorf("Expected timeout 10s, got %v", cfg.HTTP.Timeout)
	}
	if cfg.HeadHunter.Area != 2 {
		t.Errorf("Expected area 2, got %d", cfg.HeadHunter.Area)
	}
	// keys absent from the file keep their defaults
	if cfg.HeadHunter.PerPage != 100 || !cfg.HeadHunter.OnlyWithSalary {
		t.Errorf("Expected headhunter defaults to survive, got %+v", cfg.HeadHunter)
	}
	if cfg.SuperJob.Enabled {
		t.Error("Expected superjob to be disabled")
	}
}

func TestLoadMissingExplicitFile(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "missing.yaml")); err == nil {
		t.Fatal("Expected error for missing explicit config file")
	}
}

func TestLoadDefaultsWithoutFile(t *testing.T) {
	dir := t.TempDir()
	wd, err := os.Getwd()
	if err != nil {
		t.Fatal(err)
	}
	if err := os.Chdir(dir); err != nil {
		t.Fatal(err)
	}
	defer os.Chdir(wd)

	t.Setenv(EnvConfigPath, "")
	t.Setenv("XDG_CONFIG_HOME", dir)
	t.Setenv("HOME", dir)
	t.Setenv(EnvSuperJobKey, "sj-key")
	t.Setenv(EnvDatabaseURL, "postgres://localhost/langsalary")

	cfg, err := Load("")
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if len(cfg.Languages) != 8 || cfg.Languages[0] != "Go" {
		t.Errorf("Expected default languages, got %v", cfg.Languages)
	}
	if cfg.SuperJob.APIKey != "sj-key" {
		t.Errorf("Expected API key from env, got %q", cfg.SuperJob.APIKey)
	}
	if cfg.Database.URL != "postgres://localhost/langsalary" {
		t.Errorf("Expected database URL from env, got %q", cfg.Database.URL)
	}
}

func TestLoadDotEnv(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, ".env", "SJ_SECRET_KEY=from-dotenv\n")

	os.Unsetenv(EnvSuperJobKey)
	t.Cleanup(func() { os.Unsetenv(EnvSuperJobKey) })

	if err := LoadDotEnv(path, filepath.Join(dir, "missing.env")); err != nil {
		t.Fatalf("LoadDotEnv() error = %v", err)
	}
	if got := os.Getenv(EnvSuperJobKey); got != "from-dotenv" {
		t.Errorf("Expected SJ_SECRET_KEY from .env, got %q", got)
	}
}

func TestConfig_Validate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr bool
	}{
		{
			name:   "valid config",
			mutate: func(c *Config) {},
		},
		{
			name:    "no languages",
			mutate:  func(c *Config) { c.Languages = nil },
			wantErr: true,
		},
		{
			name:    "blank language",
			mutate:  func(c *Config) { c.Languages = []string{"Go", " "} },
			wantErr: true,
		},
		{
			name:    "zero workers",
			mutate:  func(c *Config) { c.Workers = 0 },
			wantErr: true,
		},
		{
			name:    "negative threshold",
			mutate:  func(c *Config) { c.MinVacancies = -1 },
			wantErr: true,
		},
		{
			name:    "per page above API maximum",
			mutate:  func(c *Config) { c.HeadHunter.PerPage = 500 },
			wantErr: true,
		},
		{
			name:    "superjob count zero",
			mutate:  func(c *Config) { c.SuperJob.Count = 0 },
			wantErr: true,
		},
		{
			name: "disabled source is not validated",
			mutate: func(c *Config) {
				c.SuperJob.Enabled = false
				c.SuperJob.Count = 0
			},
		},
		{
			name: "all sources disabled",
			mutate: func(c *Config) {
				c.SuperJob.Enabled = false
				c.HeadHunter.Enabled = false
			},
			wantErr: true,
		},
		{
			name: "database without table",
			mutate: func(c *Config) {
				c.Database.URL = "postgres://localhost/db"
				c.Database.Table = ""
			},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.mutate(cfg)
			if err := cfg.Validate(); (err != nil) != tt.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}
