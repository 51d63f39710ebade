package scraper

import (
	"context"
	"fmt"
	"net/url"
	"strconv"
	"strings"

	"github.com/fr4nk3nst1ner/langsalary/internal/client"
	"github.com/fr4nk3nst1ner/langsalary/internal/models"
	"github.com/fr4nk3nst1ner/langsalary/internal/utils"
	"github.com/pterm/pterm"
)

const (
	hhDefaultBaseURL = "https://api.hh.ru"
	hhMaxPerPage     = 100
)

// HeadHunterParams holds the search filters sent with every HeadHunter request
type HeadHunterParams struct {
	SearchPrefix   string
	Area           int
	OnlyWithSalary bool
	PeriodDays     int
	PerPage        int
}

// Encode builds the query string for one page of the search for language.
// Page 0 is the first page and is sent without a page parameter.
func (p HeadHunterParams) Encode(language string, page int) url.Values {
	values := url.Values{}
	values.Set("text", strings.TrimSpace(p.SearchPrefix+" "+language))
	if p.Area > 0 {
		values.Set("area", strconv.Itoa(p.Area))
	}
	values.Set("only_with_salary", strconv.FormatBool(p.OnlyWithSalary))
	if p.PeriodDays > 0 {
		values.Set("period", strconv.Itoa(p.PeriodDays))
	}

	perPage := p.PerPage
	if perPage <= 0 || perPage > hhMaxPerPage {
		perPage = hhMaxPerPage
	}
	values.Set("per_page", strconv.Itoa(perPage))

	if page > 0 {
		values.Set("page", strconv.Itoa(page))
	}
	return values
}

// HeadHunter fetches vacancies from the api.hh.ru search endpoint
type HeadHunter struct {
	api     *client.APIClient
	baseURL string
	params  HeadHunterParams
	logger  *pterm.Logger
}

func NewHeadHunter(api *client.APIClient, baseURL string, params HeadHunterParams, logger *pterm.Logger) *HeadHunter {
	if strings.TrimSpace(baseURL) == "" {
		baseURL = hhDefaultBaseURL
	}
	return &HeadHunter{
		api:     api,
		baseURL: strings.TrimRight(baseURL, "/"),
		params:  params,
		logger:  logger,
	}
}

func (h *HeadHunter) Name() string {
	return models.SourceHeadHunter
}

// FetchVacancies returns every vacancy matching the language, across all pages
func (h *HeadHunter) FetchVacancies(ctx context.Context, language string) ([]models.Vacancy, error) {
	endpoint := h.baseURL + "/vacancies"

	items, err := collectPages(ctx, 0, func(ctx context.Context, page int) ([]hhVacancy, int, error) {
		var resp hhSearchResponse
		if err := h.api.GetJSON(ctx, endpoint, h.params.Encode(language, page), &resp); err != nil {
			return nil, 0, err
		}
		if h.logger != nil {
			h.logger.Debug("headhunter page", h.logger.Args("language", language, "page", page, "pages", resp.Pages, "items", len(resp.Items)))
		}
		return resp.Items, resp.Pages, nil
	})
	if err != nil {
		return nil, fmt.Errorf("headhunter %s: %w", language, err)
	}

	vacancies := make([]models.Vacancy, len(items))
	for i, item := range items {
		vacancies[i] = item.toVacancy()
	}
	return vacancies, nil
}

type hhSearchResponse struct {
	Items   []hhVacancy `json:"items"`
	Found   int         `json:"found"`
	Pages   int         `json:"pages"`
	Page    int         `json:"page"`
	PerPage int         `json:"per_page"`
}

type hhVacancy struct {
	ID           string    `json:"id"`
	Name         string    `json:"name"`
	AlternateURL string    `json:"alternate_url"`
	Salary       *hhSalary `json:"salary"`
	Snippet      struct {
		Requirement    string `json:"requirement"`
		Responsibility string `json:"responsibility"`
	} `json:"snippet"`
}

// hhSalary is the nested salary object; HeadHunter sends null when the
// employer did not publish one.
type hhSalary struct {
	From     *float64 `json:"from"`
	To       *float64 `json:"to"`
	Currency string   `json:"currency"`
	Gross    bool     `json:"gross"`
}

func (v hhVacancy) toVacancy() models.Vacancy {
	vacancy := models.Vacancy{
		ID:      v.ID,
		Title:   v.Name,
		URL:     v.AlternateURL,
		Snippet: utils.StripHTML(v.Snippet.Requirement + " " + v.Snippet.Responsibility),
		Source:  models.SourceHeadHunter,
	}
	if v.Salary != nil {
		vacancy.Salary = &models.Salary{
			Currency: v.Salary.Currency,
			From:     v.Salary.From,
			To:       v.Salary.To,
		}
	}
	return vacancy
}
