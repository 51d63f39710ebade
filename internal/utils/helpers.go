package utils

import (
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/PuerkitoBio/goquery"
	"github.com/dustin/go-humanize"
	"github.com/fr4nk3nst1ner/langsalary/internal/models"
)

const rubleSign = "₽"

var sourceAliases = map[string]string{
	"headhunter": models.SourceHeadHunter,
	"hh":         models.SourceHeadHunter,
	"hh.ru":      models.SourceHeadHunter,
	"superjob":   models.SourceSuperJob,
	"sj":         models.SourceSuperJob,
}

// NormalizeSource maps a user supplied source name to its canonical identifier
func NormalizeSource(source string) (string, bool) {
	name, ok := sourceAliases[strings.ToLower(strings.TrimSpace(source))]
	return name, ok
}

// IsValidSource checks if the source is supported
func IsValidSource(source string) bool {
	_, ok := NormalizeSource(source)
	return ok
}

// SplitCSV splits a comma separated list, dropping blanks
func SplitCSV(value string) []string {
	if strings.TrimSpace(value) == "" {
		return nil
	}
	parts := strings.Split(value, ",")
	out := make([]string, 0, len(parts))
	for _, part := range parts {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		out = append(out, part)
	}
	if len(out) == 0 {
		return nil
	}
	return out
}

// FormatSalary formats an average salary with thousands separators and the ruble sign
func FormatSalary(avg models.AverageSalary) string {
	if !avg.Known {
		return avg.String()
	}
	return humanize.Comma(int64(avg.Value)) + " " + rubleSign
}

// StripHTML returns the visible text of an HTML fragment with whitespace collapsed.
// HeadHunter snippets wrap matches in <highlighttext>, SuperJob sends rich text.
func StripHTML(fragment string) string {
	if !strings.ContainsAny(fragment, "<&") {
		return strings.Join(strings.Fields(fragment), " ")
	}

	doc, err := goquery.NewDocumentFromReader(strings.NewReader(fragment))
	if err != nil {
		return strings.Join(strings.Fields(fragment), " ")
	}

	var parts []string
	collectText(doc.Selection, &parts)
	return strings.Join(strings.Fields(strings.Join(parts, " ")), " ")
}

// collectText appends text nodes in document order, keeping block boundaries as spaces
func collectText(s *goquery.Selection, parts *[]string) {
	s.Contents().Each(func(_ int, c *goquery.Selection) {
		switch goquery.NodeName(c) {
		case "#text":
			*parts = append(*parts, c.Text())
		case "script", "style":
		default:
			collectText(c, parts)
		}
	})
}

// MentionsLanguage reports whether text names the language as a standalone token.
// "+" and "#" count as part of a token so that C, C++ and C# stay distinct.
func MentionsLanguage(text, language string) bool {
	lang := strings.ToLower(strings.TrimSpace(language))
	if lang == "" {
		return false
	}
	text = strings.ToLower(text)

	offset := 0
	for {
		i := strings.Index(text[offset:], lang)
		if i < 0 {
			return false
		}
		start := offset + i
		end := start + len(lang)
		if !tokenRuneBefore(text, start) && !tokenRuneAfter(text, end) {
			return true
		}
		offset = start + 1
	}
}

func tokenRuneBefore(s string, i int) bool {
	if i == 0 {
		return false
	}
	r, _ := utf8.DecodeLastRuneInString(s[:i])
	return isTokenRune(r)
}

func tokenRuneAfter(s string, i int) bool {
	if i >= len(s) {
		return false
	}
	r, _ := utf8.DecodeRuneInString(s[i:])
	return isTokenRune(r)
}

func isTokenRune(r rune) bool {
	return unicode.IsLetter(r) || unicode.IsDigit(r) || r == '+' || r == '#'
}
