package parquet

import (
	"io"
	"math"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/huangsam/douremember/schema"
	"github.com/parquet-go/parquet-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sampleRecords() []schema.ReportRecord {
	created := time.Date(2024, 1, 2, 15, 30, 0, 0, time.UTC)
	return []schema.ReportRecord{
		{
			Report: schema.Report{
				ID: "r2", UserID: "p1", Kind: "reporte_general", CreatedAt: created.Add(24 * time.Hour),
				Scores: schema.CriterionScores{
					TopicalConsistency: 4, LogicalFlow: 3, LinguisticComplexity: 2, PresenceEntities: 5,
					AccuracyDetails: 4, OmissionRate: math.NaN(), ComissionRate: 1,
				},
			},
			PatientName: "Ana",
		},
		{
			Report: schema.Report{
				ID: "r1", UserID: "p1", Kind: "reporte_inicial", CreatedAt: created,
				Scores: schema.ScoresFromValues([schema.NumCriteria]float64{3, 3, 3, 3, 3, 3, 3}),
			},
		},
	}
}

func TestReportRowStructTags(t *testing.T) {
	s := parquet.SchemaOf(new(ReportRow))
	require.NotNil(t, s)

	expectedColumns := []string{"report_id", "user_id", "patient_name", "kind", "created_at", "global_score"}
	for _, c := range schema.AllCriteria {
		expectedColumns = append(expectedColumns, c.Key())
	}
	for _, colName := range expectedColumns {
		col, ok := s.Lookup(colName)
		require.True(t, ok, "Column %s should exist in schema", colName)
		require.NotNil(t, col)
	}
}

func TestConvertReportRecords(t *testing.T) {
	rows := ConvertReportRecords(sampleRecords())
	require.Len(t, rows, 2)

	assert.Equal(t, "r2", rows[0].ReportID)
	require.NotNil(t, rows[0].PatientName)
	assert.Equal(t, "Ana", *rows[0].PatientName)
	assert.Nil(t, rows[0].OmissionRate, "NaN exports as null")
	require.NotNil(t, rows[0].PresenceEntities)
	assert.Equal(t, 5.0, *rows[0].PresenceEntities)
	assert.Nil(t, rows[0].GlobalScore)

	assert.Nil(t, rows[1].PatientName)
}

func TestConvertReportViews(t *testing.T) {
	views := []schema.ReportView{{
		ID: "r1", UserID: "p1", Kind: "reporte_inicial",
		Scores: schema.ScoresFromValues([schema.NumCriteria]float64{1, 2, 3, 4, 5, 5, 5}), GlobalScore: 3.6,
	}}
	rows := ConvertReportViews(views)
	require.Len(t, rows, 1)
	require.NotNil(t, rows[0].GlobalScore)
	assert.Equal(t, 3.6, *rows[0].GlobalScore)
	assert.Equal(t, 1.0, *rows[0].TopicalConsistency)
}

func TestWriteReportsParquet(t *testing.T) {
	outputPath := filepath.Join(t.TempDir(), "reports.parquet")
	data := ConvertReportRecords(sampleRecords())

	require.NoError(t, WriteReportsParquet(data, outputPath))

	info, err := os.Stat(outputPath)
	require.NoError(t, err)
	assert.Greater(t, info.Size(), int64(0))

	file, err := os.Open(outputPath)
	require.NoError(t, err)
	defer func() { _ = file.Close() }()

	reader := parquet.NewGenericReader[ReportRow](file)
	defer func() { _ = reader.Close() }()

	readData := make([]ReportRow, reader.NumRows())
	n, err := reader.Read(readData)
	if err != nil && err != io.EOF {
		require.NoError(t, err)
	}
	require.Equal(t, len(data), n)

	for i := range data {
		assert.Equal(t, data[i].ReportID, readData[i].ReportID)
		assert.Equal(t, data[i].Kind, readData[i].Kind)
		assert.WithinDuration(t, data[i].CreatedAt, readData[i].CreatedAt, time.Nanosecond)
	}
	assert.Nil(t, readData[0].OmissionRate)
	require.NotNil(t, readData[0].AccuracyDetails)
	assert.Equal(t, 4.0, *readData[0].AccuracyDetails)
}

func TestWriteReportsParquet_BadPath(t *testing.T) {
	err := WriteReportsParquet(nil, filepath.Join(t.TempDir(), "missing", "out.parquet"))
	assert.ErrorContains(t, err, "failed to create output file")
}
