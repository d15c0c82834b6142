package core

import (
	"math"
	"testing"
	"time"

	"github.com/huangsam/douremember/schema"
	"github.com/stretchr/testify/assert"
)

func scoresOf(values ...float64) schema.CriterionScores {
	var arr [schema.NumCriteria]float64
	copy(arr[:], values)
	return schema.ScoresFromValues(arr)
}

func TestNormalizeScore(t *testing.T) {
	tests := []struct {
		name     string
		input    float64
		expected float64
	}{
		{"in range", 3.7, 3.7},
		{"lower bound", 1, 1},
		{"upper bound", 5, 5},
		{"below range", -2, 1},
		{"zero", 0, 1},
		{"above range", 9.5, 5},
		{"nan", math.NaN(), 1},
		{"positive infinity", math.Inf(1), 1},
		{"negative infinity", math.Inf(-1), 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, NormalizeScore(tt.input))
		})
	}
}

func TestNormalizeAny(t *testing.T) {
	assert.Equal(t, 4.5, NormalizeAny("4.5"))
	assert.Equal(t, 2.0, NormalizeAny(" 2 "))
	assert.Equal(t, 1.0, NormalizeAny("abc"))
	assert.Equal(t, 1.0, NormalizeAny(nil))
	assert.Equal(t, 5.0, NormalizeAny(7))
	assert.Equal(t, 3.0, NormalizeAny(int64(3)))
	assert.Equal(t, 1.0, NormalizeAny(true))
}

func TestRoundTo(t *testing.T) {
	tests := []struct {
		input    float64
		digits   int
		expected float64
	}{
		{2.125, 2, 2.13},   // exact half rounds away from zero
		{1.005, 2, 1.0},    // binary value sits below the half
		{3.14159, 2, 3.14},
		{2.25, 1, 2.3},
		{-2.25, 1, -2.3},
		{4, 1, 4},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.expected, roundTo(tt.input, tt.digits), "roundTo(%v, %d)", tt.input, tt.digits)
	}
	assert.True(t, math.IsNaN(roundTo(math.NaN(), 2)))
}

func TestFormatScore(t *testing.T) {
	assert.Equal(t, "4.0", FormatScore(4, 1))
	assert.Equal(t, "1.0", FormatScore(math.NaN(), 1))
	assert.Equal(t, "5.0", FormatScore(12, 1))
	assert.Equal(t, "3.33", FormatScore(3.333, 2))
}

func TestToReportView(t *testing.T) {
	created := time.Date(2024, 1, 2, 10, 30, 0, 0, time.UTC)
	r := schema.Report{
		ID:        "r1",
		UserID:    "p1",
		Kind:      "General",
		CreatedAt: created,
		Scores:    scoresOf(4.333, 7, -1, math.NaN(), 3, 2.5, 5),
	}

	v := ToReportView(r)
	assert.Equal(t, "r1", v.ID)
	assert.Equal(t, "p1", v.UserID)
	assert.Equal(t, "General", v.Kind)
	assert.Equal(t, created, v.Date)
	assert.Equal(t, scoresOf(4.33, 5, 1, 1, 3, 2.5, 5), v.Scores)
	// (4.33 + 5 + 1 + 1 + 3 + 2.5 + 5) / 7 = 3.1185...
	assert.Equal(t, 3.12, v.GlobalScore)
}

func TestToReportView_Idempotent(t *testing.T) {
	r := schema.Report{ID: "r", Scores: scoresOf(1.234, 9, math.Inf(1), 2.555, 3, 4.999, 0)}
	once := ToReportView(r)
	twice := ToReportView(once.Raw())
	assert.Equal(t, once, twice)
}

func TestToReportViews(t *testing.T) {
	records := []schema.ReportRecord{
		{Report: schema.Report{ID: "a"}, PatientName: "Ana"},
		{Report: schema.Report{ID: "b"}},
	}
	views := ToReportViews(records)
	assert.Len(t, views, 2)
	assert.Equal(t, "Ana", views[0].PatientName)
	assert.Equal(t, schema.DefaultPatientName, views[1].PatientName)
	assert.Equal(t, 1.0, views[1].GlobalScore)

	assert.Empty(t, ToReportViews(nil))
}
