package outwriter

import (
	"encoding/csv"
	"fmt"
	"io"
	"strings"

	"github.com/huangsam/douremember/core"
	"github.com/huangsam/douremember/internal/contract"
	"github.com/huangsam/douremember/schema"
	"github.com/olekukonko/tablewriter"
	"github.com/olekukonko/tablewriter/tw"
)

// PrintSummary outputs the dashboard aggregates, dispatching based on the output format configured.
func PrintSummary(summary schema.ReportSummary, cfg *contract.Config) error {
	switch cfg.Output {
	case schema.JSONOut:
		if err := writeWithFile(cfg.OutputFile, func(w io.Writer) error {
			return writeJSON(w, summary)
		}, "Wrote JSON summary"); err != nil {
			return fmt.Errorf("error writing JSON output: %w", err)
		}
	case schema.CSVOut:
		if err := writeWithFile(cfg.OutputFile, func(w io.Writer) error {
			return WriteSummaryCSV(w, summary, cfg.Precision)
		}, "Wrote CSV summary"); err != nil {
			return fmt.Errorf("error writing CSV output: %w", err)
		}
	case schema.ParquetOut:
		return fmt.Errorf("parquet output is only available for report lists")
	default:
		if err := writeWithFile(cfg.OutputFile, func(w io.Writer) error {
			return WriteSummaryTable(w, summary, cfg)
		}, "Wrote summary"); err != nil {
			return fmt.Errorf("error writing summary output: %w", err)
		}
	}
	return nil
}

// summaryRow is one criterion line of the summary: average, then the
// benchmark, latest and delta columns when a comparison exists.
func summaryRow(summary schema.ReportSummary, c schema.Criterion, fmtFloat func(float64) string) []string {
	row := []string{c.Label(), fmtFloat(summary.Averages.Get(c))}
	if cmp := summary.Comparison; cmp != nil {
		row = append(row,
			fmtFloat(cmp.Benchmark.Scores.Get(c)),
			fmtFloat(cmp.Latest.Scores.Get(c)),
			formatDelta(cmp.Delta.Get(c), fmtFloat))
	}
	return row
}

func formatDelta(v float64, fmtFloat func(float64) string) string {
	if v > 0 {
		return "+" + fmtFloat(v)
	}
	return fmtFloat(v)
}

// WriteSummaryTable renders the summary as a header block plus a criterion table.
func WriteSummaryTable(w io.Writer, summary schema.ReportSummary, cfg *contract.Config) error {
	fmtFloat := createFormatters(cfg.Precision)

	_, _ = fmt.Fprintf(w, "Paciente: %s (%s)\n", summary.PatientName, summary.PatientID)
	_, _ = fmt.Fprintf(w, "Reportes: %d\n", summary.TotalReports)
	if summary.Averages == nil {
		_, err := fmt.Fprintln(w, "Aún no hay reportes para este paciente.")
		return err
	}
	kinds := make([]string, 0, len(summary.Kinds))
	for _, k := range summary.Kinds {
		kinds = append(kinds, core.FormatReportKind(k))
	}
	_, _ = fmt.Fprintf(w, "Tipos: %s\n", strings.Join(kinds, ", "))
	_, _ = fmt.Fprintf(w, "Promedio global: %s (%s)\n",
		fmtFloat(summary.GlobalAverage), selectLabel(summary.GlobalAverage, cfg.UseColors))
	if summary.Benchmark == nil {
		_, _ = fmt.Fprintln(w, "Sin reporte inicial de referencia.")
	}

	table := tablewriter.NewWriter(w)
	headers := []string{"Criterio", "Promedio"}
	if summary.Comparison != nil {
		headers = append(headers, "Inicial", "Último", "Cambio")
	}
	table.Header(headers)
	table.Configure(func(cfg *tablewriter.Config) {
		cfg.Row.Alignment.Global = tw.AlignRight
	})

	var data [][]string
	for _, c := range schema.AllCriteria {
		data = append(data, summaryRow(summary, c, fmtFloat))
	}
	if err := table.Bulk(data); err != nil {
		return err
	}
	if err := table.Render(); err != nil {
		return err
	}

	if cmp := summary.Comparison; cmp != nil {
		_, _ = fmt.Fprintf(w, "Cambio global desde %s: %s\n",
			FormatDateCO(cmp.Benchmark.Date), formatDelta(cmp.GlobalDelta, fmtFloat))
	}
	return nil
}

// WriteSummaryCSV writes one row per criterion.
func WriteSummaryCSV(w io.Writer, summary schema.ReportSummary, precision int) error {
	fmtFloat := createFormatters(precision)
	header := []string{"criterion", "average", "benchmark", "latest", "delta"}
	return writeCSVWithHeader(w, header, func(cw *csv.Writer) error {
		if summary.Averages == nil {
			return nil
		}
		for _, c := range schema.AllCriteria {
			row := []string{c.Key(), fmtFloat(summary.Averages.Get(c)), "", "", ""}
			if cmp := summary.Comparison; cmp != nil {
				row[2] = fmtFloat(cmp.Benchmark.Scores.Get(c))
				row[3] = fmtFloat(cmp.Latest.Scores.Get(c))
				row[4] = fmtFloat(cmp.Delta.Get(c))
			}
			if err := cw.Write(row); err != nil {
				return err
			}
		}
		return cw.Write([]string{"global", fmtFloat(summary.GlobalAverage), "", "", globalDelta(summary, fmtFloat)})
	})
}

func globalDelta(summary schema.ReportSummary, fmtFloat func(float64) string) string {
	if summary.Comparison == nil {
		return ""
	}
	return fmtFloat(summary.Comparison.GlobalDelta)
}
