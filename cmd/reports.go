package cmd

import (
	"fmt"
	"os"
	"time"

	"github.com/huangsam/douremember/core"
	"github.com/huangsam/douremember/internal/outwriter"
	"github.com/spf13/cobra"
)

// reportsCmd groups the caregiver dashboard commands.
var reportsCmd = &cobra.Command{
	Use:   "reports",
	Short: "Caregiver dashboard over the patient's evaluation reports.",
	Long: `Read the evaluation reports of the acting user's patient.

Caregivers and doctors see the patient of their care group. Any other user
sees their own reports. Use --kind to keep a single report kind.`,
	PersistentPreRunE: sharedSetupWrapper,
}

var reportsListCmd = &cobra.Command{
	Use:   "list",
	Short: "List the patient's reports, newest first.",
	RunE: func(_ *cobra.Command, _ []string) error {
		reports, err := loadReports()
		if err != nil {
			return err
		}
		return outwriter.NewOutWriter().WriteReports(reports.Views, cfg)
	},
}

var reportsSummaryCmd = &cobra.Command{
	Use:   "summary",
	Short: "Show criterion averages and the comparison against the initial report.",
	RunE: func(_ *cobra.Command, _ []string) error {
		reports, err := loadReports()
		if err != nil {
			return err
		}
		summary := core.BuildSummary(reports.PatientID, reports.PatientName, reports.Views)
		return outwriter.NewOutWriter().WriteSummary(summary, cfg)
	},
}

var reportsTrendCmd = &cobra.Command{
	Use:   "trend",
	Short: "Show the global score series, oldest first.",
	RunE: func(_ *cobra.Command, _ []string) error {
		reports, err := loadReports()
		if err != nil {
			return err
		}
		return outwriter.NewOutWriter().WriteTrend(core.BuildTrendSeries(reports.Views), cfg)
	},
}

var reportsExportCmd = &cobra.Command{
	Use:   "export",
	Short: "Download the filtered reports as the Spanish CSV file.",
	Long: `Write the filtered reports as CSV. Without --output-file the file is created
in the current directory as reportes_<paciente>_<tipo>_<fecha>.csv.`,
	RunE: func(_ *cobra.Command, _ []string) error {
		reports, err := loadReports()
		if err != nil {
			return err
		}
		if len(reports.Views) == 0 {
			return fmt.Errorf("no reports to export for %s", reports.PatientName)
		}

		path := cfg.OutputFile
		if path == "" {
			path = outwriter.CSVFileName(reports.PatientName, cfg.KindFilter, time.Now())
		}
		views := reports.Views
		for i := range views {
			views[i].Date = views[i].Date.In(cfg.Location)
		}

		file, err := os.Create(path)
		if err != nil {
			return fmt.Errorf("failed to create export file: %w", err)
		}
		defer func() { _ = file.Close() }()
		if err := outwriter.WriteReportsCSV(file, views); err != nil {
			return fmt.Errorf("failed to write export file: %w", err)
		}
		fmt.Fprintf(os.Stderr, "💾 Exported %d reports to %s\n", len(views), path)
		return nil
	},
}

var reportsDeleteCmd = &cobra.Command{
	Use:   "delete <report-id>",
	Short: "Delete one report by ID.",
	Args:  cobra.ExactArgs(1),
	RunE: func(_ *cobra.Command, args []string) error {
		store, err := dataStore()
		if err != nil {
			return err
		}
		if err := store.DeleteReport(rootCtx, args[0]); err != nil {
			return fmt.Errorf("failed to delete report: %w", err)
		}
		fmt.Fprintf(os.Stderr, "🗑️  Deleted report %s\n", args[0])
		return nil
	},
}

// loadReports resolves the acting user's patient and loads the filtered views.
func loadReports() (core.PatientReports, error) {
	if err := requireUser(); err != nil {
		return core.PatientReports{}, err
	}
	store, err := dataStore()
	if err != nil {
		return core.PatientReports{}, err
	}
	return core.LoadPatientReports(rootCtx, store, cfg.UserID, cfg.KindFilter)
}
