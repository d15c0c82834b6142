// Package core has the report normalizer, aggregates and the daily test session.
package core

import (
	"math"
	"math/big"
	"strconv"
	"strings"

	"github.com/huangsam/douremember/schema"
)

// NormalizeScore maps any raw value onto the closed [1, 5] scale.
// Non-finite values become the scale minimum. It never fails.
func NormalizeScore(raw float64) float64 {
	if math.IsNaN(raw) || math.IsInf(raw, 0) {
		return schema.MinScore
	}
	return math.Min(math.Max(raw, schema.MinScore), schema.MaxScore)
}

// NormalizeAny coerces loosely typed input (numbers, numeric strings, nil)
// before normalizing it. Anything that is not a number becomes the minimum.
func NormalizeAny(raw any) float64 {
	switch v := raw.(type) {
	case float64:
		return NormalizeScore(v)
	case float32:
		return NormalizeScore(float64(v))
	case int:
		return NormalizeScore(float64(v))
	case int64:
		return NormalizeScore(float64(v))
	case int32:
		return NormalizeScore(float64(v))
	case string:
		f, err := strconv.ParseFloat(strings.TrimSpace(v), 64)
		if err != nil {
			return schema.MinScore
		}
		return NormalizeScore(f)
	default:
		return schema.MinScore
	}
}

// roundTo rounds to a fixed number of decimals using the exact binary value
// of v, with halves rounded away from zero.
func roundTo(v float64, digits int) float64 {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return v
	}
	s := new(big.Rat).SetFloat64(v).FloatString(digits)
	out, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return v
	}
	return out
}

// FormatScore renders a normalized score with the given number of decimals.
func FormatScore(v float64, digits int) string {
	return strconv.FormatFloat(roundTo(NormalizeScore(v), digits), 'f', digits, 64)
}

// ToReportView normalizes every criterion to two decimals and derives the global score.
func ToReportView(r schema.Report) schema.ReportView {
	var (
		values [schema.NumCriteria]float64
		sum    float64
	)
	for i, v := range r.Scores.Values() {
		values[i] = roundTo(NormalizeScore(v), 2)
		sum += values[i]
	}
	return schema.ReportView{
		ID:          r.ID,
		UserID:      r.UserID,
		Kind:        r.Kind,
		Date:        r.CreatedAt,
		Scores:      schema.ScoresFromValues(values),
		GlobalScore: roundTo(sum/schema.NumCriteria, 2),
	}
}

// ToReportViews converts stored records, keeping the store's order.
// Records without an owner name get the default patient name.
func ToReportViews(records []schema.ReportRecord) []schema.ReportView {
	views := make([]schema.ReportView, 0, len(records))
	for _, rec := range records {
		view := ToReportView(rec.Report)
		view.PatientName = rec.PatientName
		if view.PatientName == "" {
			view.PatientName = schema.DefaultPatientName
		}
		views = append(views, view)
	}
	return views
}
