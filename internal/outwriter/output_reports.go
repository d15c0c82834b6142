package outwriter

import (
	"fmt"
	"io"
	"os"

	"github.com/huangsam/douremember/core"
	"github.com/huangsam/douremember/internal/contract"
	"github.com/huangsam/douremember/internal/parquet"
	"github.com/huangsam/douremember/schema"
	"github.com/olekukonko/tablewriter"
	"github.com/olekukonko/tablewriter/tw"
)

// PrintReports outputs the report list, dispatching based on the output format configured.
func PrintReports(views []schema.ReportView, cfg *contract.Config) error {
	views = localizeViews(views, cfg.Location)

	switch cfg.Output {
	case schema.JSONOut:
		if err := writeWithFile(cfg.OutputFile, func(w io.Writer) error {
			return writeJSON(w, views)
		}, "Wrote JSON reports"); err != nil {
			return fmt.Errorf("error writing JSON output: %w", err)
		}
	case schema.CSVOut:
		if err := writeWithFile(cfg.OutputFile, func(w io.Writer) error {
			return WriteReportsCSV(w, views)
		}, "Wrote CSV reports"); err != nil {
			return fmt.Errorf("error writing CSV output: %w", err)
		}
	case schema.ParquetOut:
		if err := parquet.WriteReportsParquet(parquet.ConvertReportViews(views), cfg.OutputFile); err != nil {
			return fmt.Errorf("error writing parquet output: %w", err)
		}
		fmt.Fprintf(os.Stderr, "💾 Wrote parquet reports to %s\n", cfg.OutputFile)
	default:
		if err := writeWithFile(cfg.OutputFile, func(w io.Writer) error {
			return WriteReportsTable(w, views, cfg)
		}, "Wrote report table"); err != nil {
			return fmt.Errorf("error writing report table output: %w", err)
		}
	}
	return nil
}

// reportsFixedWidth covers the date, seven score, global and label columns.
const reportsFixedWidth = 24 + 9*6 + 10

// WriteReportsTable renders the report list as a table, newest first as given.
func WriteReportsTable(w io.Writer, views []schema.ReportView, cfg *contract.Config) error {
	if len(views) == 0 {
		_, err := fmt.Fprintln(w, "Aún no hay reportes para este paciente.")
		return err
	}
	fmtFloat := createFormatters(cfg.Precision)
	kindWidth := GetMaxTableTextWidth(cfg, reportsFixedWidth)

	table := tablewriter.NewWriter(w)

	headers := []string{"Fecha", "Tipo"}
	for _, c := range schema.AllCriteria {
		headers = append(headers, c.Label())
	}
	headers = append(headers, "Global", "Estado")
	table.Header(headers)

	table.Configure(func(cfg *tablewriter.Config) {
		cfg.Row.Alignment.Global = tw.AlignRight
	})

	var data [][]string
	for _, v := range views {
		row := []string{FormatDateCO(v.Date), truncateText(core.FormatReportKind(v.Kind), kindWidth)}
		for _, c := range schema.AllCriteria {
			row = append(row, fmtFloat(v.Scores.Get(c)))
		}
		row = append(row, fmtFloat(v.GlobalScore), selectLabel(v.GlobalScore, cfg.UseColors))
		data = append(data, row)
	}

	if err := table.Bulk(data); err != nil {
		return err
	}
	if err := table.Render(); err != nil {
		return err
	}

	_, err := fmt.Fprintf(w, "%d reportes de %s. Promedio global: %s\n",
		len(views), views[0].PatientName, fmtFloat(core.ComputeGlobalAverage(views)))
	return err
}
