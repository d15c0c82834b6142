package datastore

import (
	"bytes"
	"context"
	"math"
	"testing"
	"time"

	"github.com/huangsam/douremember/internal/contract"
	"github.com/huangsam/douremember/schema"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newMemoryStore(t *testing.T) *DataStoreImpl {
	t.Helper()
	store, err := NewDataStore(schema.SQLiteBackend, ":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { _ = store.Close() })
	return store
}

func uniformScores(v float64) schema.CriterionScores {
	var values [schema.NumCriteria]float64
	for i := range values {
		values[i] = v
	}
	return schema.ScoresFromValues(values)
}

func TestDataStore_UnsupportedBackend(t *testing.T) {
	_, err := NewDataStore(schema.DatabaseBackend("oracle"), "")
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "unsupported backend")
}

func TestDataStore_Reports(t *testing.T) {
	ctx := context.Background()
	store := newMemoryStore(t)

	require.NoError(t, store.UpsertProfile(ctx, schema.Profile{ID: "p1", Name: "José Pérez", Role: schema.PatientRole}))

	base := time.Date(2024, 3, 1, 9, 0, 0, 0, time.UTC)
	for i := range 3 {
		_, err := store.InsertReport(ctx, schema.Report{
			UserID:    "p1",
			Kind:      schema.GeneralKind,
			CreatedAt: base.AddDate(0, 0, i),
			Scores:    uniformScores(float64(i + 2)),
		})
		require.NoError(t, err)
	}
	_, err := store.InsertReport(ctx, schema.Report{UserID: "other", Kind: schema.InitialKind, CreatedAt: base})
	require.NoError(t, err)

	records, err := store.ListReports(ctx, "p1")
	require.NoError(t, err)
	require.Len(t, records, 3)
	assert.True(t, base.AddDate(0, 0, 2).Equal(records[0].CreatedAt), "newest first")
	assert.Equal(t, 4.0, records[0].Scores.TopicalConsistency)
	assert.Equal(t, "José Pérez", records[0].PatientName)
	assert.NotEmpty(t, records[0].ID)

	latest, err := store.LatestReport(ctx, "p1")
	require.NoError(t, err)
	require.NotNil(t, latest)
	assert.Equal(t, records[0].ID, latest.ID)

	none, err := store.LatestReport(ctx, "nobody")
	require.NoError(t, err)
	assert.Nil(t, none)

	count, err := store.CountReports(ctx, "p1")
	require.NoError(t, err)
	assert.Equal(t, 3, count)

	require.NoError(t, store.DeleteReport(ctx, latest.ID))
	count, err = store.CountReports(ctx, "p1")
	require.NoError(t, err)
	assert.Equal(t, 2, count)

	err = store.DeleteReport(ctx, latest.ID)
	assert.ErrorIs(t, err, contract.ErrNotFound)
}

func TestDataStore_NullScoresBecomeNaN(t *testing.T) {
	ctx := context.Background()
	store := newMemoryStore(t)

	scores := uniformScores(3)
	scores.OmissionRate = math.NaN()
	_, err := store.InsertReport(ctx, schema.Report{UserID: "p1", Kind: "General", Scores: scores})
	require.NoError(t, err)

	records, err := store.ListReports(ctx, "p1")
	require.NoError(t, err)
	require.Len(t, records, 1)
	assert.True(t, math.IsNaN(records[0].Scores.OmissionRate))
	assert.Equal(t, 3.0, records[0].Scores.ComissionRate)
	assert.Empty(t, records[0].PatientName)
}

func TestDataStore_Images(t *testing.T) {
	ctx := context.Background()
	store := newMemoryStore(t)

	img, err := store.InsertImage(ctx, schema.Image{GroupID: "g1", Description: "Un perro en el parque", URL: "file:///a.png"})
	require.NoError(t, err)
	require.NotEmpty(t, img.ID)
	_, err = store.InsertImage(ctx, schema.Image{GroupID: "g1", Description: "Una casa", URL: "file:///b.png"})
	require.NoError(t, err)
	_, err = store.InsertImage(ctx, schema.Image{GroupID: "g2", Description: "Otra", URL: "file:///c.png"})
	require.NoError(t, err)

	images, err := store.ListImages(ctx, "g1")
	require.NoError(t, err)
	assert.Len(t, images, 2)

	img.URL = "file:///a2.png"
	require.NoError(t, store.UpdateImage(ctx, img))
	got, err := store.GetImage(ctx, img.ID)
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, "file:///a2.png", got.URL)

	// Updating with identical values still matches the row
	require.NoError(t, store.UpdateImage(ctx, img))

	assert.ErrorIs(t, store.UpdateImage(ctx, schema.Image{ID: "missing"}), contract.ErrNotFound)

	require.NoError(t, store.DeleteImage(ctx, img.ID))
	got, err = store.GetImage(ctx, img.ID)
	require.NoError(t, err)
	assert.Nil(t, got)
}

func TestDataStore_Groups(t *testing.T) {
	ctx := context.Background()
	store := newMemoryStore(t)

	group, err := store.InsertGroup(ctx, schema.Group{DoctorID: "d1", CaregiverID: "c1", PatientID: "p1"})
	require.NoError(t, err)

	for _, user := range []string{"d1", "c1", "p1"} {
		found, err := store.FindGroupForUser(ctx, user)
		require.NoError(t, err)
		require.NotNil(t, found, user)
		assert.Equal(t, group.ID, found.ID)
		assert.Equal(t, "p1", found.PatientID)
	}

	missing, err := store.FindGroupForUser(ctx, "stranger")
	require.NoError(t, err)
	assert.Nil(t, missing)

	_, err = store.InsertGroup(ctx, schema.Group{CaregiverID: "c2"})
	require.NoError(t, err)
	orphan, err := store.FindGroupForUser(ctx, "c2")
	require.NoError(t, err)
	require.NotNil(t, orphan)
	assert.Empty(t, orphan.PatientID)
}

func TestDataStore_Profiles(t *testing.T) {
	ctx := context.Background()
	store := newMemoryStore(t)

	require.NoError(t, store.UpsertProfile(ctx, schema.Profile{ID: "p1", Name: "Ana", Role: schema.PatientRole}))
	require.NoError(t, store.UpsertProfile(ctx, schema.Profile{ID: "p1", Name: "Ana María", Role: schema.PatientRole}))

	p, err := store.GetProfile(ctx, "p1")
	require.NoError(t, err)
	require.NotNil(t, p)
	assert.Equal(t, "Ana María", p.Name)
	assert.Equal(t, schema.PatientRole, p.Role)

	missing, err := store.GetProfile(ctx, "nobody")
	require.NoError(t, err)
	assert.Nil(t, missing)
}

func TestDataStore_Status(t *testing.T) {
	ctx := context.Background()
	store := newMemoryStore(t)

	status, err := store.GetStatus(ctx)
	require.NoError(t, err)
	assert.True(t, status.Connected)
	assert.Equal(t, "sqlite", status.Backend)
	assert.Equal(t, int64(0), status.TableSizes[reportsTable])
	assert.True(t, status.LastReportTime.IsZero())

	first := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	last := time.Date(2024, 2, 1, 0, 0, 0, 0, time.UTC)
	for _, ts := range []time.Time{last, first} {
		_, err := store.InsertReport(ctx, schema.Report{UserID: "p1", Kind: "General", CreatedAt: ts, Scores: uniformScores(3)})
		require.NoError(t, err)
	}

	status, err = store.GetStatus(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(2), status.TableSizes[reportsTable])
	assert.True(t, last.Equal(status.LastReportTime))
	assert.True(t, first.Equal(status.OldestReportTime))

	var buf bytes.Buffer
	PrintStoreStatus(&buf, status)
	assert.Contains(t, buf.String(), "Store Backend: sqlite")
	assert.Contains(t, buf.String(), "reports: 2 rows")
}

func TestDBTimeScan(t *testing.T) {
	var ts dbTime
	require.NoError(t, ts.Scan("2024-01-02T03:04:05.000000000Z"))
	assert.Equal(t, 2024, ts.Year())
	require.NoError(t, ts.Scan([]byte("2024-01-02 03:04:05")))
	assert.Equal(t, 3, ts.Hour())
	require.NoError(t, ts.Scan(nil))
	assert.True(t, ts.IsZero())
	assert.Error(t, ts.Scan(42))
	assert.Error(t, ts.Scan("yesterday"))
}

func TestRebind(t *testing.T) {
	q := "SELECT * FROM t WHERE a = ? AND b = ?"
	assert.Equal(t, q, rebind(schema.SQLiteBackend, q))
	assert.Equal(t, q, rebind(schema.MySQLBackend, q))
	assert.Equal(t, "SELECT * FROM t WHERE a = $1 AND b = $2", rebind(schema.PostgreSQLBackend, q))
}

func TestNormalizeMySQLDSN(t *testing.T) {
	dsn, err := normalizeMySQLDSN("user:pass@tcp(localhost:3306)/douremember")
	require.NoError(t, err)
	assert.Contains(t, dsn, "parseTime=true")
	assert.Contains(t, dsn, "clientFoundRows=true")
	assert.Contains(t, dsn, "multiStatements=true")

	_, err = normalizeMySQLDSN("not a dsn")
	assert.Error(t, err)
}
