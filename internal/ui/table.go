package ui

import (
	"encoding/json"
	"fmt"
	"io"
	"strconv"

	"github.com/fr4nk3nst1ner/langsalary/internal/models"
	"github.com/pterm/pterm"
)

const lowSampleMarker = " (low sample)"

var tableHeader = []string{"Language", "Found", "Processed", "Average salary"}

// RenderTable writes a titled, boxed table with one row per language
func RenderTable(w io.Writer, title string, rows []models.LanguageReport) error {
	data := pterm.TableData{tableHeader}
	for _, row := range rows {
		language := row.Language
		if row.LowSample {
			language += lowSampleMarker
		}
		data = append(data, []string{
			language,
			strconv.Itoa(row.Found),
			strconv.Itoa(row.Processed),
			ColorizeSalary(row.AverageSalary),
		})
	}

	table, err := pterm.DefaultTable.
		WithHasHeader().
		WithBoxed().
		WithData(data).
		Srender()
	if err != nil {
		return fmt.Errorf("render %s table: %w", title, err)
	}

	if _, err := fmt.Fprint(w, pterm.DefaultSection.Sprint(title)); err != nil {
		return err
	}
	_, err = fmt.Fprintln(w, table)
	return err
}

// WriteJSON writes every source report as one indented JSON document
func WriteJSON(w io.Writer, reports []models.SourceReport) error {
	if reports == nil {
		reports = []models.SourceReport{}
	}
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	enc.SetEscapeHTML(false)
	return enc.Encode(reports)
}
