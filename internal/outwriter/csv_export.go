package outwriter

import (
	"fmt"
	"io"
	"regexp"
	"strings"
	"time"
	"unicode"

	"github.com/huangsam/douremember/core"
	"github.com/huangsam/douremember/schema"
	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// NoDate is shown in place of a missing report date.
const NoDate = "Sin fecha"

// Abbreviated month names as rendered by the es-CO locale.
var monthsCO = [12]string{"ene", "feb", "mar", "abr", "may", "jun", "jul", "ago", "sept", "oct", "nov", "dic"}

var nonAlphanumeric = regexp.MustCompile(`[^a-z0-9]+`)

// FormatDateCO renders t as an es-CO medium date with short time,
// e.g. "2 ene 2024, 10:30 a. m.". The zero time reads "Sin fecha".
func FormatDateCO(t time.Time) string {
	if t.IsZero() {
		return NoDate
	}
	suffix := "a. m."
	if t.Hour() >= 12 {
		suffix = "p. m."
	}
	hour := t.Hour() % 12
	if hour == 0 {
		hour = 12
	}
	return fmt.Sprintf("%d %s %d, %d:%02d %s", t.Day(), monthsCO[t.Month()-1], t.Year(), hour, t.Minute(), suffix)
}

// ReportsCSVHeader returns the Spanish header row of the report export.
func ReportsCSVHeader() []string {
	header := make([]string, 0, schema.NumCriteria+3)
	header = append(header, "Fecha", "Tipo de reporte")
	for _, c := range schema.AllCriteria {
		header = append(header, c.Label()+" (1-5)")
	}
	return append(header, "Puntaje global (1-5)")
}

// WriteReportsCSV writes the report export: every field quoted with embedded
// quotes doubled, rows joined by CRLF and no trailing newline.
// Dates are formatted in their own location.
func WriteReportsCSV(w io.Writer, views []schema.ReportView) error {
	rows := make([][]string, 0, len(views)+1)
	rows = append(rows, ReportsCSVHeader())
	for _, v := range views {
		row := make([]string, 0, schema.NumCriteria+3)
		row = append(row, FormatDateCO(v.Date), core.FormatReportKind(v.Kind))
		for _, c := range schema.AllCriteria {
			row = append(row, core.FormatScore(v.Scores.Get(c), 1))
		}
		row = append(row, core.FormatScore(v.GlobalScore, 1))
		rows = append(rows, row)
	}
	return writeQuotedRows(w, rows)
}

// writeQuotedRows renders rows with forced quoting and CRLF separators.
func writeQuotedRows(w io.Writer, rows [][]string) error {
	var b strings.Builder
	for i, row := range rows {
		if i > 0 {
			b.WriteString("\r\n")
		}
		for j, field := range row {
			if j > 0 {
				b.WriteByte(',')
			}
			b.WriteByte('"')
			b.WriteString(strings.ReplaceAll(field, `"`, `""`))
			b.WriteByte('"')
		}
	}
	if _, err := io.WriteString(w, b.String()); err != nil {
		return fmt.Errorf("failed to write CSV export: %w", err)
	}
	return nil
}

// sanitizeForFilename lowercases s, folds accents and collapses everything
// that is not [a-z0-9] into single underscores.
func sanitizeForFilename(s string) string {
	folder := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	folded, _, err := transform.String(folder, strings.ToLower(s))
	if err != nil {
		folded = strings.ToLower(s)
	}
	folded = strings.Trim(nonAlphanumeric.ReplaceAllString(folded, "_"), "_")
	if folded == "" {
		return "paciente"
	}
	return folded
}

// CSVFileName builds the export file name
// reportes_<patient>_<filter|todos>_<YYYY-MM-DD>.csv, dated in UTC.
func CSVFileName(patientName, kindFilter string, now time.Time) string {
	filter := core.AllKinds
	if kindFilter != "" && !strings.EqualFold(kindFilter, core.AllKinds) {
		filter = sanitizeForFilename(core.FormatReportKind(kindFilter))
	}
	return fmt.Sprintf("reportes_%s_%s_%s.csv", sanitizeForFilename(patientName), filter, now.UTC().Format("2006-01-02"))
}
