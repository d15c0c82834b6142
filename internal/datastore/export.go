package datastore

import (
	"context"
	"fmt"

	"github.com/huangsam/douremember/internal/contract"
	"github.com/huangsam/douremember/internal/parquet"
)

// ExportReportsParquet writes a user's stored reports, raw and unclamped, to a
// Parquet file. It returns the number of rows written.
func ExportReportsParquet(ctx context.Context, store contract.ReportStore, userID, outputPath string) (int, error) {
	if userID == "" {
		return 0, fmt.Errorf("user is required for export")
	}
	records, err := store.ListReports(ctx, userID)
	if err != nil {
		return 0, fmt.Errorf("failed to list reports: %w", err)
	}
	rows := parquet.ConvertReportRecords(records)
	if err := parquet.WriteReportsParquet(rows, outputPath); err != nil {
		return 0, err
	}
	return len(rows), nil
}
