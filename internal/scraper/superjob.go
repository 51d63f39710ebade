package scraper

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/fr4nk3nst1ner/langsalary/internal/client"
	"github.com/fr4nk3nst1ner/langsalary/internal/models"
	"github.com/fr4nk3nst1ner/langsalary/internal/utils"
	"github.com/pterm/pterm"
)

const (
	sjDefaultBaseURL = "https://api.superjob.ru"
	sjAPIKeyHeader   = "X-Api-App-Id"
	sjMaxCount       = 100
)

// ErrMissingAPIKey is returned when SuperJob is used without an application key
var ErrMissingAPIKey = errors.New("superjob: API key is required (set SJ_SECRET_KEY)")

// SuperJobParams holds the search filters sent with every SuperJob request
type SuperJobParams struct {
	Town                int
	Count               int
	PublishedWithinDays int
}

func (p SuperJobParams) count() int {
	if p.Count <= 0 || p.Count > sjMaxCount {
		return sjMaxCount
	}
	return p.Count
}

// Encode builds the query string for one page. Pages are 0-based.
func (p SuperJobParams) Encode(language string, page int, now time.Time) url.Values {
	values := url.Values{}
	if p.Town > 0 {
		values.Set("town", strconv.Itoa(p.Town))
	}
	values.Set("keyword", language)
	values.Set("count", strconv.Itoa(p.count()))
	if p.PublishedWithinDays > 0 {
		values.Set("date_published_from", strconv.FormatInt(publishedSince(now, p.PublishedWithinDays).Unix(), 10))
	}
	if page > 0 {
		values.Set("page", strconv.Itoa(page))
	}
	return values
}

// publishedSince is local midnight of the day that lies days before now
func publishedSince(now time.Time, days int) time.Time {
	d := now.AddDate(0, 0, -days)
	return time.Date(d.Year(), d.Month(), d.Day(), 0, 0, 0, 0, d.Location())
}

// SuperJob fetches vacancies from the api.superjob.ru search endpoint
type SuperJob struct {
	api     *client.APIClient
	baseURL string
	params  SuperJobParams
	logger  *pterm.Logger
	now     func() time.Time
}

// NewSuperJob creates a SuperJob source. The api client must already carry the
// X-Api-App-Id header, see SuperJobAuth.
func NewSuperJob(api *client.APIClient, baseURL string, params SuperJobParams, logger *pterm.Logger) *SuperJob {
	if strings.TrimSpace(baseURL) == "" {
		baseURL = sjDefaultBaseURL
	}
	return &SuperJob{
		api:     api,
		baseURL: strings.TrimRight(baseURL, "/"),
		params:  params,
		logger:  logger,
		now:     time.Now,
	}
}

// SuperJobAuth returns the client option that authenticates SuperJob requests
func SuperJobAuth(apiKey string) (client.Option, error) {
	if strings.TrimSpace(apiKey) == "" {
		return nil, ErrMissingAPIKey
	}
	return client.WithHeader(sjAPIKeyHeader, apiKey), nil
}

func (s *SuperJob) Name() string {
	return models.SourceSuperJob
}

// FetchVacancies returns every vacancy matching the language, across all pages
func (s *SuperJob) FetchVacancies(ctx context.Context, language string) ([]models.Vacancy, error) {
	endpoint := s.baseURL + "/2.0/vacancies/"
	now := s.now()
	count := s.params.count()

	items, err := collectPages(ctx, 0, func(ctx context.Context, page int) ([]sjVacancy, int, error) {
		var resp sjSearchResponse
		if err := s.api.GetJSON(ctx, endpoint, s.params.Encode(language, page, now), &resp); err != nil {
			return nil, 0, err
		}
		pages := pageCount(resp.Total, count)
		if s.logger != nil {
			s.logger.Debug("superjob page", s.logger.Args("language", language, "page", page, "pages", pages, "items", len(resp.Objects)))
		}
		return resp.Objects, pages, nil
	})
	if err != nil {
		return nil, fmt.Errorf("superjob %s: %w", language, err)
	}

	vacancies := make([]models.Vacancy, len(items))
	for i, item := range items {
		vacancies[i] = item.toVacancy()
	}
	return vacancies, nil
}

type sjSearchResponse struct {
	Objects []sjVacancy `json:"objects"`
	Total   int         `json:"total"`
	More    bool        `json:"more"`
}

// sjVacancy carries the salary as flat fields; 0 means "not specified"
type sjVacancy struct {
	ID          int     `json:"id"`
	Profession  string  `json:"profession"`
	Link        string  `json:"link"`
	PaymentFrom float64 `json:"payment_from"`
	PaymentTo   float64 `json:"payment_to"`
	Currency    string  `json:"currency"`
	Candidat    string  `json:"candidat"`
}

func (v sjVacancy) toVacancy() models.Vacancy {
	from, to := v.PaymentFrom, v.PaymentTo
	return models.Vacancy{
		ID:      strconv.Itoa(v.ID),
		Title:   v.Profession,
		URL:     v.Link,
		Snippet: utils.StripHTML(v.Candidat),
		Source:  models.SourceSuperJob,
		Salary: &models.Salary{
			Currency: v.Currency,
			From:     &from,
			To:       &to,
		},
	}
}
