package core

import (
	"context"
	"fmt"

	"github.com/huangsam/douremember/internal/contract"
	"github.com/huangsam/douremember/schema"
)

// CareStore is what patient resolution needs from the store.
type CareStore interface {
	contract.GroupStore
	contract.ProfileStore
}

// ResolvePatient returns the patient assigned to the user's care group.
// It returns nil when the user has no group, the group has no patient, or the
// user is the patient. A patient profile that cannot be read falls back to a
// placeholder name.
func ResolvePatient(ctx context.Context, store CareStore, userID string) (*schema.Profile, error) {
	group, err := store.FindGroupForUser(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve care group: %w", err)
	}
	if group == nil || group.PatientID == "" || group.PatientID == userID {
		return nil, nil
	}

	fallback := &schema.Profile{ID: group.PatientID, Name: schema.DefaultPatientName, Role: schema.PatientRole}
	profile, err := store.GetProfile(ctx, group.PatientID)
	if err != nil {
		contract.LogWarn(fmt.Sprintf("Failed to load patient profile %s", group.PatientID), err)
		return fallback, nil
	}
	if profile == nil {
		return fallback, nil
	}
	return profile, nil
}

// ReportTarget returns whose reports the user should see and the display name.
// Caregivers and doctors see their patient; everyone else sees their own.
func ReportTarget(ctx context.Context, store CareStore, userID string) (string, string, error) {
	patient, err := ResolvePatient(ctx, store, userID)
	if err != nil {
		return "", "", err
	}
	if patient != nil {
		return patient.ID, patient.Name, nil
	}

	self, err := store.GetProfile(ctx, userID)
	if err != nil {
		return "", "", fmt.Errorf("failed to load profile: %w", err)
	}
	if self == nil || self.Name == "" {
		return userID, schema.DefaultPatientName, nil
	}
	return userID, self.Name, nil
}

// ReportSource is what loading a patient's reports needs from the store.
type ReportSource interface {
	CareStore
	contract.ReportStore
}

// PatientReports holds the normalized reports of the resolved target.
type PatientReports struct {
	PatientID   string
	PatientName string
	Views       []schema.ReportView
}

// LoadPatientReports resolves the user's target, then loads and normalizes its
// reports, newest first, keeping only kind (empty or "todos" keeps all).
func LoadPatientReports(ctx context.Context, store ReportSource, userID, kind string) (PatientReports, error) {
	patientID, patientName, err := ReportTarget(ctx, store, userID)
	if err != nil {
		return PatientReports{}, err
	}
	records, err := store.ListReports(ctx, patientID)
	if err != nil {
		return PatientReports{}, fmt.Errorf("failed to load reports: %w", err)
	}
	views := FilterByKind(ToReportViews(records), kind)
	if views == nil {
		views = []schema.ReportView{}
	}
	for i := range views {
		views[i].PatientName = patientName
	}
	return PatientReports{PatientID: patientID, PatientName: patientName, Views: views}, nil
}
