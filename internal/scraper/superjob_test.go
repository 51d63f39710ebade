package scraper

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strconv"
	"sync"
	"testing"
	"time"

	"github.com/fr4nk3nst1ner/langsalary/internal/client"
	"github.com/fr4nk3nst1ner/langsalary/internal/config"
	"github.com/fr4nk3nst1ner/langsalary/internal/models"
)

func TestSuperJobFetchVacancies(t *testing.T) {
	var mu sync.Mutex
	var pagesSeen []string
	var keys []string

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/2.0/vacancies/" {
			http.NotFound(w, r)
			return
		}
		mu.Lock()
		pagesSeen = append(pagesSeen, r.URL.Query().Get("page"))
		keys = append(keys, r.Header.Get("X-Api-App-Id"))
		mu.Unlock()

		page, _ := strconv.Atoi(r.URL.Query().Get("page"))
		n := 40
		if page == 2 {
			n = 5
		}
		objects := make([]map[string]any, n)
		for i := range objects {
			objects[i] = map[string]any{
				"id":           page*100 + i,
				"profession":   "Python developer",
				"payment_from": 1000,
				"payment_to":   0,
				"currency":     "rub",
			}
		}
		json.NewEncoder(w).Encode(map[string]any{"objects": objects, "total": 85, "more": page < 2})
	}))
	defer server.Close()

	auth, err := SuperJobAuth("secret")
	if err != nil {
		t.Fatal(err)
	}
	sj := NewSuperJob(client.NewAPIClient(server.Client(), auth), server.URL, SuperJobParams{Town: 4, Count: 40, PublishedWithinDays: 30}, nil)

	vacancies, err := sj.FetchVacancies(context.Background(), "Python")
	if err != nil {
		t.Fatalf("FetchVacancies() error = %v", err)
	}

	if len(vacancies) != 85 {
		t.Fatalf("Expected 85 vacancies, got %d", len(vacancies))
	}
	if vacancies[0].ID != "0" || vacancies[40].ID != "100" || vacancies[84].ID != "204" {
		t.Errorf("Vacancies not in page order: %s, %s, %s", vacancies[0].ID, vacancies[40].ID, vacancies[84].ID)
	}

	mu.Lock()
	defer mu.Unlock()
	if len(pagesSeen) != 3 || pagesSeen[0] != "" || pagesSeen[1] != "1" || pagesSeen[2] != "2" {
		t.Errorf("Unexpected page sequence %q", pagesSeen)
	}
	for _, key := range keys {
		if key != "secret" {
			t.Errorf("Expected API key on every request, got %q", key)
		}
	}

	salary := vacancies[0].Salary
	if salary == nil || salary.Currency != "rub" || *salary.From != 1000 || *salary.To != 0 {
		t.Errorf("Unexpected salary adaptation: %+v", salary)
	}
}

func TestSuperJobHTTPError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, `{"error":{"code":403,"message":"Invalid app id"}}`, http.StatusForbidden)
	}))
	defer server.Close()

	auth, _ := SuperJobAuth("wrong")
	sj := NewSuperJob(client.NewAPIClient(server.Client(), auth), server.URL, SuperJobParams{Count: 40}, nil)

	_, err := sj.FetchVacancies(context.Background(), "Go")
	var httpErr *client.HTTPError
	if !errors.As(err, &httpErr) || httpErr.StatusCode != http.StatusForbidden {
		t.Fatalf("Expected 403 HTTPError, got %v", err)
	}
}

func TestSuperJobAuthRequiresKey(t *testing.T) {
	if _, err := SuperJobAuth("  "); !errors.Is(err, ErrMissingAPIKey) {
		t.Errorf("Expected ErrMissingAPIKey, got %v", err)
	}
}

func TestPublishedSince(t *testing.T) {
	now := time.Date(2024, time.March, 15, 17, 42, 0, 0, time.UTC)
	got := publishedSince(now, 30)
	want := time.Date(2024, time.February, 14, 0, 0, 0, 0, time.UTC)
	if !got.Equal(want) {
		t.Errorf("publishedSince() = %v, want %v", got, want)
	}
}

func TestFromConfig(t *testing.T) {
	cfg := config.Default()

	hh, err := FromConfig(models.SourceHeadHunter, cfg, nil, nil)
	if err != nil {
		t.Fatalf("FromConfig(headhunter) error = %v", err)
	}
	if hh.Name() != models.SourceHeadHunter {
		t.Errorf("Expected headhunter, got %s", hh.Name())
	}

	if _, err := FromConfig(models.SourceSuperJob, cfg, nil, nil); !errors.Is(err, ErrMissingAPIKey) {
		t.Errorf("Expected ErrMissingAPIKey without a key, got %v", err)
	}

	cfg.SuperJob.APIKey = "key"
	sj, err := FromConfig(models.SourceSuperJob, cfg, nil, nil)
	if err != nil {
		t.Fatalf("FromConfig(superjob) error = %v", err)
	}
	if sj.Name() != models.SourceSuperJob {
		t.Errorf("Expected superjob, got %s", sj.Name())
	}

	if _, err := FromConfig("linkedin", cfg, nil, nil); err == nil {
		t.Error("Expected error for unknown source")
	}

	if got := Enabled(cfg); len(got) != 2 || got[0] != models.SourceSuperJob {
		t.Errorf("Expected SuperJob first, got %v", got)
	}
	if Title(models.SourceHeadHunter, cfg) != "HeadHunter Moscow" {
		t.Errorf("Unexpected title %q", Title(models.SourceHeadHunter, cfg))
	}
}
