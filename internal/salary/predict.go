// Package salary reduces an advertised salary range to a single expected value.
package salary

import (
	"strings"

	"github.com/fr4nk3nst1ner/langsalary/internal/models"
)

const (
	ceilingFactor = 0.8 // only "to" is known
	floorFactor   = 1.2 // only "from" is known
)

// Predictor turns a salary into one monthly figure, or reports that it cannot.
type Predictor func(*models.Salary) (float64, bool)

// IsRuble reports whether code names the Russian ruble. HeadHunter uses "RUR",
// SuperJob uses "rub", and newer HeadHunter responses may use "RUB".
func IsRuble(code string) bool {
	switch strings.ToLower(strings.TrimSpace(code)) {
	case "rur", "rub":
		return true
	}
	return false
}

// PredictRubSalary estimates the monthly ruble salary of a posting.
func PredictRubSalary(s *models.Salary) (float64, bool) {
	if s == nil {
		return 0, false
	}
	if !IsRuble(s.Currency) {
		return 0, false
	}

	from, hasFrom := bound(s.From)
	to, hasTo := bound(s.To)

	switch {
	case !hasFrom && !hasTo:
		return 0, false
	case !hasFrom:
		return to * ceilingFactor, true
	case !hasTo:
		return from * floorFactor, true
	default:
		return (from + to) / 2, true
	}
}

func bound(v *float64) (float64, bool) {
	if v == nil || *v <= 0 {
		return 0, false
	}
	return *v, true
}
