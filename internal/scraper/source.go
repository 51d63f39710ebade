package scraper

import (
	"context"
	"fmt"
	"net/http"

	"github.com/fr4nk3nst1ner/langsalary/internal/client"
	"github.com/fr4nk3nst1ner/langsalary/internal/config"
	"github.com/fr4nk3nst1ner/langsalary/internal/models"
	"github.com/pterm/pterm"
)

// Source is a job board that can list every vacancy for a programming language
type Source interface {
	Name() string
	FetchVacancies(ctx context.Context, language string) ([]models.Vacancy, error)
}

// FromConfig builds the named source with its filters, pacing and credentials
func FromConfig(name string, cfg *config.Config, httpClient *http.Client, logger *pterm.Logger) (Source, error) {
	opts := []client.Option{client.WithLogger(logger)}
	if cfg.HTTP.UserAgent != "" {
		opts = append(opts, client.WithHeader("User-Agent", cfg.HTTP.UserAgent))
	}

	switch name {
	case models.SourceHeadHunter:
		hh := cfg.HeadHunter
		opts = append(opts, client.WithRateLimit(hh.RequestsPerSecond, 1))
		return NewHeadHunter(client.NewAPIClient(httpClient, opts...), hh.BaseURL, HeadHunterParams{
			SearchPrefix:   hh.SearchPrefix,
			Area:           hh.Area,
			OnlyWithSalary: hh.OnlyWithSalary,
			PeriodDays:     hh.PeriodDays,
			PerPage:        hh.PerPage,
		}, logger), nil

	case models.SourceSuperJob:
		sj := cfg.SuperJob
		auth, err := SuperJobAuth(sj.APIKey)
		if err != nil {
			return nil, err
		}
		opts = append(opts, auth, client.WithRateLimit(sj.RequestsPerSecond, 1))
		return NewSuperJob(client.NewAPIClient(httpClient, opts...), sj.BaseURL, SuperJobParams{
			Town:                sj.Town,
			Count:               sj.Count,
			PublishedWithinDays: sj.PublishedWithinDays,
		}, logger), nil
	}

	return nil, fmt.Errorf("unknown source %q", name)
}

// Title returns the table title configured for the named source
func Title(name string, cfg *config.Config) string {
	switch name {
	case models.SourceHeadHunter:
		return cfg.HeadHunter.Title
	case models.SourceSuperJob:
		return cfg.SuperJob.Title
	}
	return name
}

// Enabled lists the sources switched on in cfg, SuperJob first
func Enabled(cfg *config.Config) []string {
	var names []string
	if cfg.SuperJob.Enabled {
		names = append(names, models.SourceSuperJob)
	}
	if cfg.HeadHunter.Enabled {
		names = append(names, models.SourceHeadHunter)
	}
	return names
}
