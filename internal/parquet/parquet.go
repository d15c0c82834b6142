// Package parquet exports evaluation reports to Parquet files using
// github.com/parquet-go/parquet-go.
package parquet

import (
	"fmt"
	"io"
	"math"
	"os"
	"time"

	"github.com/huangsam/douremember/schema"
	"github.com/parquet-go/parquet-go"
)

// ReportRow is one evaluation report as a Parquet row.
// Scores are optional so a stored null survives the export as null.
type ReportRow struct {
	ReportID    string  `parquet:"report_id,snappy"`
	UserID      string  `parquet:"user_id,snappy"`
	PatientName *string `parquet:"patient_name,optional,snappy"`
	Kind        string  `parquet:"kind,snappy"`

	// CreatedAt is stored as TIMESTAMP with nanosecond precision
	CreatedAt time.Time `parquet:"created_at,snappy"`

	TopicalConsistency   *float64 `parquet:"topical_consistency,optional,snappy"`
	LogicalFlow          *float64 `parquet:"logica_flow,optional,snappy"`
	LinguisticComplexity *float64 `parquet:"linguistic_complexity,optional,snappy"`
	PresenceEntities     *float64 `parquet:"presence_entities,optional,snappy"`
	AccuracyDetails      *float64 `parquet:"accuracy_details,optional,snappy"`
	OmissionRate         *float64 `parquet:"omission_rate,optional,snappy"`
	ComissionRate        *float64 `parquet:"comission_rate,optional,snappy"`

	// GlobalScore is only set for normalized exports
	GlobalScore *float64 `parquet:"global_score,optional,snappy"`
}

func optionalScore(v float64) *float64 {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return nil
	}
	return &v
}

func optionalString(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}

func withScores(row ReportRow, s schema.CriterionScores) ReportRow {
	row.TopicalConsistency = optionalScore(s.TopicalConsistency)
	row.LogicalFlow = optionalScore(s.LogicalFlow)
	row.LinguisticComplexity = optionalScore(s.LinguisticComplexity)
	row.PresenceEntities = optionalScore(s.PresenceEntities)
	row.AccuracyDetails = optionalScore(s.AccuracyDetails)
	row.OmissionRate = optionalScore(s.OmissionRate)
	row.ComissionRate = optionalScore(s.ComissionRate)
	return row
}

// ConvertReportRecords converts stored reports to rows with raw scores.
func ConvertReportRecords(records []schema.ReportRecord) []ReportRow {
	result := make([]ReportRow, len(records))
	for i, record := range records {
		result[i] = withScores(ReportRow{
			ReportID:    record.ID,
			UserID:      record.UserID,
			PatientName: optionalString(record.PatientName),
			Kind:        record.Kind,
			CreatedAt:   record.CreatedAt,
		}, record.Scores)
	}
	return result
}

// ConvertReportViews converts normalized views to rows carrying the global score.
func ConvertReportViews(views []schema.ReportView) []ReportRow {
	result := make([]ReportRow, len(views))
	for i, view := range views {
		row := withScores(ReportRow{
			ReportID:    view.ID,
			UserID:      view.UserID,
			PatientName: optionalString(view.PatientName),
			Kind:        view.Kind,
			CreatedAt:   view.Date,
		}, view.Scores)
		row.GlobalScore = optionalScore(view.GlobalScore)
		result[i] = row
	}
	return result
}

// WriteReports writes rows to w as a Parquet stream.
func WriteReports(w io.Writer, data []ReportRow) error {
	writer := parquet.NewGenericWriter[ReportRow](w)
	if _, err := writer.Write(data); err != nil {
		_ = writer.Close()
		return fmt.Errorf("failed to write data to parquet file: %w", err)
	}
	return writer.Close()
}

// WriteReportsParquet writes rows to a Parquet file at outputPath.
func WriteReportsParquet(data []ReportRow, outputPath string) error {
	file, err := os.Create(outputPath)
	if err != nil {
		return fmt.Errorf("failed to create output file: %w", err)
	}
	if err := WriteReports(file, data); err != nil {
		_ = file.Close()
		return err
	}
	return file.Close()
}
