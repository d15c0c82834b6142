// Package schema has models and constants shared by every part of douremember.
package schema

import "time"

// Report is one stored evaluation outcome. Scores are raw and may hold NaN for
// missing columns or values outside the 1-5 scale.
type Report struct {
	ID        string          `json:"id"`
	UserID    string          `json:"user_id"`
	Kind      string          `json:"kind"`
	CreatedAt time.Time       `json:"created_at"`
	Scores    CriterionScores `json:"scores"`
}

// ReportView is a display-safe report: every score is clamped to [1, 5].
type ReportView struct {
	ID          string          `json:"id"`
	UserID      string          `json:"user_id"`
	PatientName string          `json:"patient_name,omitempty"`
	Kind        string          `json:"kind"`
	Date        time.Time       `json:"date"`
	Scores      CriterionScores `json:"scores"`
	GlobalScore float64         `json:"global_score"`
}

// Raw returns the view as a stored report, dropping the derived global score.
func (v ReportView) Raw() Report {
	return Report{
		ID:        v.ID,
		UserID:    v.UserID,
		Kind:      v.Kind,
		CreatedAt: v.Date,
		Scores:    v.Scores,
	}
}

// ReportRecord is a stored report joined with the owner's display name.
type ReportRecord struct {
	Report
	PatientName string
}

// TrendPoint is one chart point of the global score series.
type TrendPoint struct {
	ReportID string    `json:"report_id"`
	Kind     string    `json:"kind"`
	Date     time.Time `json:"date"`
	Value    float64   `json:"value"`
}

// BenchmarkComparison compares the most recent report to the benchmark report.
type BenchmarkComparison struct {
	Benchmark   ReportView      `json:"benchmark"`
	Latest      ReportView      `json:"latest"`
	Delta       CriterionScores `json:"delta"`
	GlobalDelta float64         `json:"global_delta"`
}

// ReportSummary bundles the aggregate views shown on a caregiver dashboard.
type ReportSummary struct {
	PatientID     string               `json:"patient_id"`
	PatientName   string               `json:"patient_name"`
	TotalReports  int                  `json:"total_reports"`
	Averages      *CriterionScores     `json:"averages"`
	GlobalAverage float64              `json:"global_average"`
	Benchmark     *ReportView          `json:"benchmark"`
	Comparison    *BenchmarkComparison `json:"comparison"`
	Kinds         []string             `json:"kinds"`
}

// Image is a stimulus picture with the caregiver's reference description.
type Image struct {
	ID          string `json:"id"`
	GroupID     string `json:"group_id"`
	Description string `json:"description"`
	URL         string `json:"url"`
}

// Group is the doctor, caregiver and patient triad.
type Group struct {
	ID          string `json:"id"`
	DoctorID    string `json:"doctor_id"`
	CaregiverID string `json:"caregiver_id"`
	PatientID   string `json:"patient_id"`
}

// Profile is a user's public profile.
type Profile struct {
	ID   string `json:"id"`
	Name string `json:"name"`
	Role Role   `json:"role"`
}

// DescriptionPair is one (reference, patient) description sent to the scorer.
type DescriptionPair struct {
	Original string `json:"original_desc"`
	Patient  string `json:"patient_desc"`
}
