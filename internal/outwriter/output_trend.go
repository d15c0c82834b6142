package outwriter

import (
	"encoding/csv"
	"fmt"
	"io"

	"github.com/huangsam/douremember/core"
	"github.com/huangsam/douremember/internal/contract"
	"github.com/huangsam/douremember/schema"
	"github.com/olekukonko/tablewriter"
	"github.com/olekukonko/tablewriter/tw"
)

// PrintTrend outputs the trend series, dispatching based on the output format configured.
func PrintTrend(points []schema.TrendPoint, cfg *contract.Config) error {
	if cfg.Location != nil {
		localized := make([]schema.TrendPoint, len(points))
		for i, p := range points {
			p.Date = p.Date.In(cfg.Location)
			localized[i] = p
		}
		points = localized
	}

	switch cfg.Output {
	case schema.JSONOut:
		if err := writeWithFile(cfg.OutputFile, func(w io.Writer) error {
			return writeJSON(w, points)
		}, "Wrote JSON trend"); err != nil {
			return fmt.Errorf("error writing JSON output: %w", err)
		}
	case schema.CSVOut:
		if err := writeWithFile(cfg.OutputFile, func(w io.Writer) error {
			return WriteTrendCSV(w, points, cfg.Precision)
		}, "Wrote CSV trend"); err != nil {
			return fmt.Errorf("error writing CSV output: %w", err)
		}
	case schema.ParquetOut:
		return fmt.Errorf("parquet output is only available for report lists")
	default:
		if err := writeWithFile(cfg.OutputFile, func(w io.Writer) error {
			return WriteTrendTable(w, points, cfg)
		}, "Wrote trend"); err != nil {
			return fmt.Errorf("error writing trend output: %w", err)
		}
	}
	return nil
}

// WriteTrendTable prints the series oldest first with a percent bar column.
func WriteTrendTable(w io.Writer, points []schema.TrendPoint, cfg *contract.Config) error {
	fmtFloat := createFormatters(cfg.Precision)

	table := tablewriter.NewWriter(w)
	table.Header([]string{"Fecha", "Tipo", "Puntaje global", "%", "Estado"})
	table.Configure(func(cfg *tablewriter.Config) {
		cfg.Row.Alignment.Global = tw.AlignRight
	})

	var data [][]string
	for _, p := range points {
		data = append(data, []string{
			FormatDateCO(p.Date),
			core.FormatReportKind(p.Kind),
			fmtFloat(p.Value),
			fmt.Sprintf("%d%%", core.ScoreToPercent(p.Value)),
			selectLabel(p.Value, cfg.UseColors),
		})
	}
	if err := table.Bulk(data); err != nil {
		return err
	}
	return table.Render()
}

// WriteTrendCSV writes the series with RFC 3339 dates.
func WriteTrendCSV(w io.Writer, points []schema.TrendPoint, precision int) error {
	fmtFloat := createFormatters(precision)
	header := []string{"report_id", "kind", "date", "value"}
	return writeCSVWithHeader(w, header, func(cw *csv.Writer) error {
		for _, p := range points {
			row := []string{p.ReportID, p.Kind, p.Date.Format(contract.DateTimeFormat), fmtFloat(p.Value)}
			if err := cw.Write(row); err != nil {
				return err
			}
		}
		return nil
	})
}
