package core

import (
	"testing"
	"time"

	"github.com/huangsam/douremember/schema"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func viewOn(id, kind string, date time.Time, score float64) schema.ReportView {
	return ToReportView(schema.Report{
		ID:        id,
		UserID:    "p1",
		Kind:      kind,
		CreatedAt: date,
		Scores:    scoresOf(score, score, score, score, score, score, score),
	})
}

func day(year int, month time.Month, d int) time.Time {
	return time.Date(year, month, d, 9, 0, 0, 0, time.UTC)
}

func TestComputeAverages(t *testing.T) {
	assert.Nil(t, ComputeAverages(nil))
	assert.Nil(t, ComputeAverages([]schema.ReportView{}))

	allThree := []schema.ReportView{
		viewOn("a", "General", day(2024, 1, 1), 3),
		viewOn("b", "General", day(2024, 1, 2), 3),
	}
	avg := ComputeAverages(allThree)
	require.NotNil(t, avg)
	for _, c := range schema.AllCriteria {
		assert.Equal(t, 3.0, avg.Get(c), c.Key())
	}

	mixed := []schema.ReportView{
		ToReportView(schema.Report{Scores: scoresOf(1, 2, 3, 4, 5, 1, 2)}),
		ToReportView(schema.Report{Scores: scoresOf(2, 2, 4, 4, 5, 2, 2)}),
		ToReportView(schema.Report{Scores: scoresOf(2, 2, 4, 5, 5, 2, 2)}),
	}
	avg = ComputeAverages(mixed)
	require.NotNil(t, avg)
	assert.Equal(t, 1.7, avg.TopicalConsistency)
	assert.Equal(t, 3.7, avg.LinguisticComplexity)
	assert.Equal(t, 4.3, avg.PresenceEntities)
	assert.Equal(t, 5.0, avg.AccuracyDetails)
}

func TestComputeGlobalAverage(t *testing.T) {
	assert.Equal(t, 0.0, ComputeGlobalAverage(nil))

	views := []schema.ReportView{
		viewOn("a", "General", day(2024, 1, 1), 3),
		viewOn("b", "General", day(2024, 1, 2), 4),
		viewOn("c", "General", day(2024, 1, 3), 4),
	}
	assert.Equal(t, 3.7, ComputeGlobalAverage(views))
}

func TestBuildTrendSeries(t *testing.T) {
	views := []schema.ReportView{
		viewOn("mar", "General", day(2024, 3, 1), 4),
		viewOn("jan", "Inicial", day(2024, 1, 1), 2),
		viewOn("feb", "General", day(2024, 2, 1), 3),
	}
	points := BuildTrendSeries(views)
	require.Len(t, points, 3)
	assert.Equal(t, "jan", points[0].ReportID)
	assert.Equal(t, "feb", points[1].ReportID)
	assert.Equal(t, "mar", points[2].ReportID)
	assert.Equal(t, 2.0, points[0].Value)
	assert.Equal(t, "Inicial", points[0].Kind)

	// Input order is untouched
	assert.Equal(t, "mar", views[0].ID)
}

func TestBuildTrendSeries_StableTies(t *testing.T) {
	same := day(2024, 5, 5)
	views := []schema.ReportView{
		viewOn("first", "General", same, 3),
		viewOn("earlier", "General", day(2024, 5, 4), 3),
		viewOn("second", "General", same, 3),
		viewOn("third", "General", same, 3),
	}
	points := BuildTrendSeries(views)
	ids := make([]string, 0, len(points))
	for _, p := range points {
		ids = append(ids, p.ReportID)
	}
	assert.Equal(t, []string{"earlier", "first", "second", "third"}, ids)
	assert.Empty(t, BuildTrendSeries(nil))
}

func TestFindBenchmark(t *testing.T) {
	tests := []struct {
		name   string
		kinds  []string
		wantID string
	}{
		{"correct spelling", []string{"General", "Inicial"}, "r1"},
		{"misspelling", []string{"inical", "General"}, "r0"},
		{"case insensitive", []string{"General", "INICIAL"}, "r1"},
		{"first match wins", []string{"Inicial", "inical"}, "r0"},
		{"no match", []string{"General", "Seguimiento"}, ""},
		{"empty", nil, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var views []schema.ReportView
			for i, kind := range tt.kinds {
				views = append(views, viewOn("r"+string(rune('0'+i)), kind, day(2024, 1, i+1), 3))
			}
			got := FindBenchmark(views)
			if tt.wantID == "" {
				assert.Nil(t, got)
				return
			}
			require.NotNil(t, got)
			assert.Equal(t, tt.wantID, got.ID)
		})
	}
}

func TestFilterByKind(t *testing.T) {
	views := []schema.ReportView{
		viewOn("a", "General", day(2024, 1, 1), 3),
		viewOn("b", "Inicial", day(2024, 1, 2), 3),
		viewOn("c", "general", day(2024, 1, 3), 3),
	}
	assert.Len(t, FilterByKind(views, ""), 3)
	assert.Len(t, FilterByKind(views, "todos"), 3)
	assert.Len(t, FilterByKind(views, "General"), 2)
	assert.Len(t, FilterByKind(views, "inicial"), 1)
	assert.Empty(t, FilterByKind(views, "Mensual"))
}

func TestReportKinds(t *testing.T) {
	views := []schema.ReportView{
		viewOn("a", "General", day(2024, 1, 1), 3),
		viewOn("b", "Inicial", day(2024, 1, 2), 3),
		viewOn("c", "General", day(2024, 1, 3), 3),
		viewOn("d", "", day(2024, 1, 4), 3),
	}
	assert.Equal(t, []string{"General", "Inicial"}, ReportKinds(views))
	assert.Equal(t, []string{}, ReportKinds(nil))
}

func TestCompareWithBenchmark(t *testing.T) {
	views := []schema.ReportView{
		viewOn("latest", "General", day(2024, 3, 1), 4),
		viewOn("base", "Inicial", day(2024, 1, 1), 2.5),
		viewOn("mid", "General", day(2024, 2, 1), 3),
	}
	cmp := CompareWithBenchmark(views)
	require.NotNil(t, cmp)
	assert.Equal(t, "base", cmp.Benchmark.ID)
	assert.Equal(t, "latest", cmp.Latest.ID)
	assert.Equal(t, 1.5, cmp.Delta.TopicalConsistency)
	assert.Equal(t, 1.5, cmp.GlobalDelta)

	assert.Nil(t, CompareWithBenchmark(views[:1]))
	assert.Nil(t, CompareWithBenchmark(nil))
}

func TestFormatReportKind(t *testing.T) {
	tests := map[string]string{
		"general":               "General",
		"INICIAL":               "Inicial",
		"seguimiento_mensual":   "Seguimiento Mensual",
		"  evaluación   final ": "Evaluación Final",
		"a__b":                  "A B",
		"":                      "Sin tipo",
		"   ":                   "Sin tipo",
	}
	for input, want := range tests {
		assert.Equal(t, want, FormatReportKind(input), "FormatReportKind(%q)", input)
	}
}

func TestScoreToPercent(t *testing.T) {
	assert.Equal(t, 0, ScoreToPercent(1))
	assert.Equal(t, 50, ScoreToPercent(3))
	assert.Equal(t, 100, ScoreToPercent(5))
	assert.Equal(t, 100, ScoreToPercent(42))
	assert.Equal(t, 0, ScoreToPercent(-1))
	assert.Equal(t, 68, ScoreToPercent(3.7))
}

func TestBuildSummary(t *testing.T) {
	views := []schema.ReportView{
		viewOn("b", "General", day(2024, 2, 1), 4),
		viewOn("a", "inical", day(2024, 1, 1), 2),
	}
	summary := BuildSummary("p1", "Ana", views)
	assert.Equal(t, "p1", summary.PatientID)
	assert.Equal(t, "Ana", summary.PatientName)
	assert.Equal(t, 2, summary.TotalReports)
	require.NotNil(t, summary.Averages)
	assert.Equal(t, 3.0, summary.Averages.OmissionRate)
	assert.Equal(t, 3.0, summary.GlobalAverage)
	require.NotNil(t, summary.Benchmark)
	assert.Equal(t, "a", summary.Benchmark.ID)
	require.NotNil(t, summary.Comparison)
	assert.Equal(t, 2.0, summary.Comparison.GlobalDelta)
	assert.Equal(t, []string{"General", "inical"}, summary.Kinds)

	empty := BuildSummary("p1", "Ana", nil)
	assert.Nil(t, empty.Averages)
	assert.Equal(t, 0.0, empty.GlobalAverage)
	assert.Nil(t, empty.Benchmark)
	assert.Nil(t, empty.Comparison)
}
