package models

import (
	"strconv"
	"time"
)

// Salary is the canonical compensation shape shared by every source.
// A nil or zero bound means the posting did not specify it.
type Salary struct {
	Currency string   `json:"currency"`
	From     *float64 `json:"from,omitempty"`
	To       *float64 `json:"to,omitempty"`
}

// Vacancy represents one job posting returned by a recruiting API
type Vacancy struct {
	ID      string  `json:"id"`
	Title   string  `json:"title"`
	URL     string  `json:"url"`
	Snippet string  `json:"snippet,omitempty"`
	Source  string  `json:"source"`
	Salary  *Salary `json:"salary,omitempty"`
}

// AverageSalary is the mean predicted salary for a language, if any vacancy had one.
type AverageSalary struct {
	Value int
	Known bool
}

// KnownAverage wraps a computed average.
func KnownAverage(value int) AverageSalary {
	return AverageSalary{Value: value, Known: true}
}

func (a AverageSalary) String() string {
	if !a.Known {
		return "unknown"
	}
	return strconv.Itoa(a.Value)
}

// MarshalJSON emits the number, or null when no vacancy had a usable salary.
func (a AverageSalary) MarshalJSON() ([]byte, error) {
	if !a.Known {
		return []byte("null"), nil
	}
	return []byte(strconv.Itoa(a.Value)), nil
}

// LanguageReport is one report row
type LanguageReport struct {
	Language      string        `json:"language"`
	Found         int           `json:"found"`
	Processed     int           `json:"processed"`
	AverageSalary AverageSalary `json:"average_salary"`
	LowSample     bool          `json:"low_sample,omitempty"`
}

// SourceReport groups the rows computed for one job board
type SourceReport struct {
	Source      string           `json:"source"`
	Title       string           `json:"title"`
	GeneratedAt time.Time        `json:"generated_at"`
	Rows        []LanguageReport `json:"rows"`
}

// Job board identifiers
const (
	SourceHeadHunter = "headhunter"
	SourceSuperJob   = "superjob"
)
