package core

import (
	"math"
	"testing"

	"github.com/huangsam/douremember/schema"
)

// FuzzNormalizeScore checks that every input lands on the 1-5 scale.
func FuzzNormalizeScore(f *testing.F) {
	for _, seed := range []float64{0, 1, 2.5, 5, -3, 100, math.NaN(), math.Inf(1), math.Inf(-1), math.SmallestNonzeroFloat64} {
		f.Add(seed)
	}

	f.Fuzz(func(t *testing.T, raw float64) {
		got := NormalizeScore(raw)
		if got < schema.MinScore || got > schema.MaxScore || math.IsNaN(got) {
			t.Fatalf("NormalizeScore(%v) = %v, out of range", raw, got)
		}

		view := ToReportView(schema.Report{Scores: scoresOf(raw, raw, raw, raw, raw, raw, raw)})
		if view.GlobalScore < schema.MinScore || view.GlobalScore > schema.MaxScore {
			t.Fatalf("global score %v out of range for %v", view.GlobalScore, raw)
		}
		if again := ToReportView(view.Raw()); again != view {
			t.Fatalf("ToReportView not idempotent for %v: %+v vs %+v", raw, view, again)
		}
	})
}
