package core

import (
	"math"
	"slices"
	"strings"
	"unicode"

	"github.com/huangsam/douremember/schema"
)

// AllKinds is the filter value that keeps every report kind.
const AllKinds = "todos"

// ComputeAverages returns the per-criterion mean across reports, normalized and
// rounded to one decimal. It returns nil for an empty list so callers can tell
// "no data" apart from low scores.
func ComputeAverages(reports []schema.ReportView) *schema.CriterionScores {
	if len(reports) == 0 {
		return nil
	}
	var totals [schema.NumCriteria]float64
	for _, r := range reports {
		for i, v := range r.Scores.Values() {
			totals[i] += v
		}
	}
	n := float64(len(reports))
	for i := range totals {
		totals[i] = roundTo(NormalizeScore(totals[i]/n), 1)
	}
	avg := schema.ScoresFromValues(totals)
	return &avg
}

// ComputeGlobalAverage returns the mean global score rounded to one decimal, or 0
// for an empty list.
func ComputeGlobalAverage(reports []schema.ReportView) float64 {
	if len(reports) == 0 {
		return 0
	}
	var sum float64
	for _, r := range reports {
		sum += r.GlobalScore
	}
	return roundTo(sum/float64(len(reports)), 1)
}

// BuildTrendSeries returns the chart series sorted ascending by date.
// Reports on the same instant keep their input order.
func BuildTrendSeries(reports []schema.ReportView) []schema.TrendPoint {
	points := make([]schema.TrendPoint, 0, len(reports))
	for _, r := range reports {
		points = append(points, schema.TrendPoint{
			ReportID: r.ID,
			Kind:     r.Kind,
			Date:     r.Date,
			Value:    NormalizeScore(r.GlobalScore),
		})
	}
	slices.SortStableFunc(points, func(a, b schema.TrendPoint) int {
		return a.Date.Compare(b.Date)
	})
	return points
}

// FindBenchmark returns the first initial assessment in the list, or nil.
func FindBenchmark(reports []schema.ReportView) *schema.ReportView {
	for i := range reports {
		if schema.IsInitialKind(reports[i].Kind) {
			found := reports[i]
			return &found
		}
	}
	return nil
}

// FilterByKind keeps reports of one kind. An empty kind or "todos" keeps all.
func FilterByKind(reports []schema.ReportView, kind string) []schema.ReportView {
	kind = strings.TrimSpace(kind)
	if kind == "" || strings.EqualFold(kind, AllKinds) {
		return reports
	}
	var out []schema.ReportView
	for _, r := range reports {
		if strings.EqualFold(r.Kind, kind) {
			out = append(out, r)
		}
	}
	return out
}

// ReportKinds returns the distinct non-empty kinds in first-seen order.
func ReportKinds(reports []schema.ReportView) []string {
	seen := make(map[string]struct{})
	kinds := []string{}
	for _, r := range reports {
		if r.Kind == "" {
			continue
		}
		if _, ok := seen[r.Kind]; ok {
			continue
		}
		seen[r.Kind] = struct{}{}
		kinds = append(kinds, r.Kind)
	}
	return kinds
}

// latestReport returns the report with the greatest date; the first wins on ties.
func latestReport(reports []schema.ReportView) *schema.ReportView {
	if len(reports) == 0 {
		return nil
	}
	latest := reports[0]
	for _, r := range reports[1:] {
		if r.Date.After(latest.Date) {
			latest = r
		}
	}
	return &latest
}

// CompareWithBenchmark compares the newest report against the benchmark.
// It returns nil when there is no benchmark.
func CompareWithBenchmark(reports []schema.ReportView) *schema.BenchmarkComparison {
	benchmark := FindBenchmark(reports)
	latest := latestReport(reports)
	if benchmark == nil || latest == nil {
		return nil
	}

	var delta [schema.NumCriteria]float64
	bv, lv := benchmark.Scores.Values(), latest.Scores.Values()
	for i := range delta {
		delta[i] = roundTo(lv[i]-bv[i], 2)
	}
	return &schema.BenchmarkComparison{
		Benchmark:   *benchmark,
		Latest:      *latest,
		Delta:       schema.ScoresFromValues(delta),
		GlobalDelta: roundTo(latest.GlobalScore-benchmark.GlobalScore, 2),
	}
}

// FormatReportKind turns a stored kind like "segui_miento  MENSUAL" into
// "Segui Miento Mensual". Empty kinds read "Sin tipo".
func FormatReportKind(kind string) string {
	words := strings.Fields(strings.ReplaceAll(kind, "_", " "))
	if len(words) == 0 {
		return "Sin tipo"
	}
	for i, w := range words {
		runes := []rune(strings.ToLower(w))
		runes[0] = unicode.ToUpper(runes[0])
		words[i] = string(runes)
	}
	return strings.Join(words, " ")
}

// ScoreToPercent maps a score onto 0-100 for progress bars.
func ScoreToPercent(score float64) int {
	return int(math.Round((NormalizeScore(score) - schema.MinScore) / (schema.MaxScore - schema.MinScore) * 100))
}

// BuildSummary computes the dashboard aggregates for one patient's reports.
func BuildSummary(patientID, patientName string, reports []schema.ReportView) schema.ReportSummary {
	return schema.ReportSummary{
		PatientID:     patientID,
		PatientName:   patientName,
		TotalReports:  len(reports),
		Averages:      ComputeAverages(reports),
		GlobalAverage: ComputeGlobalAverage(reports),
		Benchmark:     FindBenchmark(reports),
		Comparison:    CompareWithBenchmark(reports),
		Kinds:         ReportKinds(reports),
	}
}
