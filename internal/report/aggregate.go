// Package report turns fetched vacancies into per-language salary rows.
package report

import (
	"context"
	"errors"
	"fmt"
	"math"
	"sync"

	"github.com/fr4nk3nst1ner/langsalary/internal/models"
	"github.com/fr4nk3nst1ner/langsalary/internal/salary"
	"github.com/fr4nk3nst1ner/langsalary/internal/utils"
	"github.com/pterm/pterm"
)

// FetchFunc returns every vacancy a job board lists for a language
type FetchFunc func(ctx context.Context, language string) ([]models.Vacancy, error)

// Options tunes how a report is built. The zero value builds it sequentially
// with no filter and no sample-size threshold.
type Options struct {
	// Workers bounds how many languages are fetched at once.
	Workers int
	// MinVacancies marks rows with fewer found vacancies as LowSample.
	MinVacancies int
	// Filter drops vacancies before they are counted.
	Filter func(language string, v models.Vacancy) bool
	// OnLanguageDone is called once per finished row. Calls never overlap.
	OnLanguageDone func(models.LanguageReport)
	Logger         *pterm.Logger
}

// RelevantTo keeps vacancies whose title or snippet names the language
func RelevantTo(language string, v models.Vacancy) bool {
	return utils.MentionsLanguage(v.Title+" "+v.Snippet, language)
}

// Build fetches and summarizes every language. Rows come back in the order of
// languages. The first fetch error aborts the build.
func Build(ctx context.Context, languages []string, fetch FetchFunc, predict salary.Predictor, opts Options) ([]models.LanguageReport, error) {
	if fetch == nil {
		return nil, errors.New("report: fetch func is nil")
	}
	if predict == nil {
		predict = salary.PredictRubSalary
	}

	workers := opts.Workers
	if workers < 1 {
		workers = 1
	}
	if workers > len(languages) {
		workers = len(languages)
	}

	if workers <= 1 {
		rows := make([]models.LanguageReport, 0, len(languages))
		for _, language := range languages {
			row, err := buildRow(ctx, language, fetch, predict, opts)
			if err != nil {
				return nil, err
			}
			if opts.OnLanguageDone != nil {
				opts.OnLanguageDone(row)
			}
			rows = append(rows, row)
		}
		return rows, nil
	}

	return buildConcurrently(ctx, languages, fetch, predict, opts, workers)
}

func buildConcurrently(ctx context.Context, languages []string, fetch FetchFunc, predict salary.Predictor, opts Options, workers int) ([]models.LanguageReport, error) {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	rows := make([]models.LanguageReport, len(languages))
	errs := make([]error, len(languages))

	semaphore := make(chan struct{}, workers)
	var wg sync.WaitGroup
	var doneMu sync.Mutex

	for i, language := range languages {
		wg.Add(1)
		go func(i int, language string) {
			defer wg.Done()
			semaphore <- struct{}{}        // Acquire semaphore
			defer func() { <-semaphore }() // Release semaphore

			if err := ctx.Err(); err != nil {
				errs[i] = err
				return
			}

			row, err := buildRow(ctx, language, fetch, predict, opts)
			if err != nil {
				errs[i] = err
				cancel()
				return
			}
			rows[i] = row

			if opts.OnLanguageDone != nil {
				doneMu.Lock()
				opts.OnLanguageDone(row)
				doneMu.Unlock()
			}
		}(i, language)
	}

	wg.Wait()

	if err := firstCause(errs); err != nil {
		return nil, err
	}
	return rows, nil
}

// firstCause prefers a real failure over the cancellations it triggered
func firstCause(errs []error) error {
	var canceled error
	for _, err := range errs {
		if err == nil {
			continue
		}
		if errors.Is(err, context.Canceled) {
			if canceled == nil {
				canceled = err
			}
			continue
		}
		return err
	}
	return canceled
}

func buildRow(ctx context.Context, language string, fetch FetchFunc, predict salary.Predictor, opts Options) (models.LanguageReport, error) {
	vacancies, err := fetch(ctx, language)
	if err != nil {
		return models.LanguageReport{}, fmt.Errorf("fetch %s: %w", language, err)
	}

	if opts.Filter != nil {
		kept := vacancies[:0:0]
		for _, v := range vacancies {
			if opts.Filter(language, v) {
				kept = append(kept, v)
			}
		}
		if opts.Logger != nil {
			opts.Logger.Debug("filtered vacancies", opts.Logger.Args("language", language, "fetched", len(vacancies), "kept", len(kept)))
		}
		vacancies = kept
	}

	row := Summarize(language, vacancies, predict, opts.MinVacancies)
	if opts.Logger != nil {
		opts.Logger.Debug("language summarized", opts.Logger.Args(
			"language", row.Language,
			"found", row.Found,
			"processed", row.Processed,
			"average", row.AverageSalary.String(),
		))
	}
	return row, nil
}

// Summarize computes one report row from the vacancies fetched for language
func Summarize(language string, vacancies []models.Vacancy, predict salary.Predictor, minVacancies int) models.LanguageReport {
	if predict == nil {
		predict = salary.PredictRubSalary
	}

	var sum float64
	processed := 0
	for _, v := range vacancies {
		if value, ok := predict(v.Salary); ok {
			sum += value
			processed++
		}
	}

	row := models.LanguageReport{
		Language:  language,
		Found:     len(vacancies),
		Processed: processed,
		LowSample: minVacancies > 0 && len(vacancies) < minVacancies,
	}
	if processed > 0 {
		row.AverageSalary = models.KnownAverage(int(math.Round(sum / float64(processed))))
	}
	return row
}

// WithoutLowSample drops rows below the sample-size threshold
func WithoutLowSample(rows []models.LanguageReport) []models.LanguageReport {
	out := make([]models.LanguageReport, 0, len(rows))
	for _, row := range rows {
		if row.LowSample {
			continue
		}
		out = append(out, row)
	}
	return out
}
