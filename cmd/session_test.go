package cmd

import (
	"bytes"
	"context"
	"strings"
	"testing"
	"time"

	"github.com/huangsam/douremember/core"
	"github.com/huangsam/douremember/internal/datastore"
	"github.com/huangsam/douremember/schema"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubScorer struct {
	calls int
	pairs []schema.DescriptionPair
}

func (s *stubScorer) Score(_ context.Context, pairs []schema.DescriptionPair) ([]schema.CriterionScores, error) {
	s.calls++
	s.pairs = pairs
	out := make([]schema.CriterionScores, len(pairs))
	for i := range out {
		out[i] = schema.ScoresFromValues([schema.NumCriteria]float64{4, 4, 4, 4, 4, 4, 4})
	}
	return out, nil
}

func sessionStore(t *testing.T) *datastore.DataStoreImpl {
	t.Helper()
	ctx := context.Background()
	store, err := datastore.NewDataStore(schema.SQLiteBackend, ":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { _ = store.Close() })

	_, err = store.InsertGroup(ctx, schema.Group{ID: "g1", DoctorID: "d1", CaregiverID: "c1", PatientID: "p1"})
	require.NoError(t, err)
	for _, desc := range []string{"un perro", "una casa"} {
		_, err := store.InsertImage(ctx, schema.Image{GroupID: "g1", Description: desc, URL: "file:///img/" + desc})
		require.NoError(t, err)
	}
	return store
}

func TestRunSessionLoop(t *testing.T) {
	now := time.Date(2024, 3, 5, 9, 0, 0, 0, time.UTC)

	t.Run("completes and saves one report", func(t *testing.T) {
		store := sessionStore(t)
		sc := &stubScorer{}
		ctrl := core.NewSessionController(store, sc, core.WithClock(func() time.Time { return now }))

		var out bytes.Buffer
		in := strings.NewReader("un perro café\n\n  \nuna casa roja\n")
		report, err := runSessionLoop(context.Background(), ctrl, "p1", in, &out)
		require.NoError(t, err)
		require.NotNil(t, report)

		assert.Equal(t, 1, sc.calls)
		require.Len(t, sc.pairs, 2)
		assert.Equal(t, "un perro café", sc.pairs[0].Patient)
		assert.Equal(t, "una casa roja", sc.pairs[1].Patient)
		assert.Equal(t, schema.GeneralKind, report.Kind)
		assert.Equal(t, "p1", report.UserID)

		text := out.String()
		assert.Contains(t, text, "Imagen 1 de 2")
		assert.Contains(t, text, "Imagen 2 de 2")
		assert.Equal(t, 2, strings.Count(text, "Escribe una descripción antes de continuar."))
		assert.Contains(t, text, "¡Sesión completada!")

		count, err := store.CountReports(context.Background(), "p1")
		require.NoError(t, err)
		assert.Equal(t, 1, count)
	})

	t.Run("blocked after today's report", func(t *testing.T) {
		store := sessionStore(t)
		_, err := store.InsertReport(context.Background(), schema.Report{UserID: "p1", Kind: schema.GeneralKind, CreatedAt: now.Add(-time.Hour)})
		require.NoError(t, err)
		sc := &stubScorer{}
		ctrl := core.NewSessionController(store, sc, core.WithClock(func() time.Time { return now }))

		var out bytes.Buffer
		report, err := runSessionLoop(context.Background(), ctrl, "p1", strings.NewReader(""), &out)
		require.NoError(t, err)
		assert.Nil(t, report)
		assert.Contains(t, out.String(), core.BlockedNotice)
		assert.Zero(t, sc.calls)
	})

	t.Run("cancel writes nothing", func(t *testing.T) {
		store := sessionStore(t)
		sc := &stubScorer{}
		ctrl := core.NewSessionController(store, sc, core.WithClock(func() time.Time { return now }))

		var out bytes.Buffer
		report, err := runSessionLoop(context.Background(), ctrl, "p1", strings.NewReader("algo\n:cancelar\n"), &out)
		require.NoError(t, err)
		assert.Nil(t, report)
		assert.Contains(t, out.String(), "Sesión cancelada.")
		assert.Zero(t, sc.calls)

		count, err := store.CountReports(context.Background(), "p1")
		require.NoError(t, err)
		assert.Zero(t, count)
	})

	t.Run("input ends early", func(t *testing.T) {
		store := sessionStore(t)
		sc := &stubScorer{}
		ctrl := core.NewSessionController(store, sc, core.WithClock(func() time.Time { return now }))

		_, err := runSessionLoop(context.Background(), ctrl, "p1", strings.NewReader("solo una\n"), &bytes.Buffer{})
		require.ErrorIs(t, err, errSessionInputClosed)
		assert.Zero(t, sc.calls)
	})

	t.Run("patient without group", func(t *testing.T) {
		store := sessionStore(t)
		ctrl := core.NewSessionController(store, &stubScorer{})
		_, err := runSessionLoop(context.Background(), ctrl, "nobody", strings.NewReader(""), &bytes.Buffer{})
		require.ErrorIs(t, err, core.ErrNoGroup)
	})
}
