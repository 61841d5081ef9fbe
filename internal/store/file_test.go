package store

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFileStoreRoundTrip(t *testing.T) {
	dir := t.TempDir()
	s, err := NewFileStore(dir)
	require.NoError(t, err)
	ctx := context.Background()

	// A kind that was never written reads back empty, not as an error.
	records, err := s.LoadAll(ctx, KindAdmissions)
	require.NoError(t, err)
	assert.Empty(t, records)

	docs := []json.RawMessage{
		json.RawMessage(`{"admissionId":"a1","bedNo":"B1"}`),
		json.RawMessage(`{"admissionId":"a2","bedNo":"B2"}`),
	}
	require.NoError(t, s.SaveAll(ctx, KindAdmissions, docs))

	got, err := s.LoadAll(ctx, KindAdmissions)
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.JSONEq(t, string(docs[0]), string(got[0]))
	assert.JSONEq(t, string(docs[1]), string(got[1]))

	// Kinds are independent files.
	other, err := s.LoadAll(ctx, KindAppointments)
	require.NoError(t, err)
	assert.Empty(t, other)

	// Saving again fully replaces the previous snapshot.
	require.NoError(t, s.SaveAll(ctx, KindAdmissions, docs[:1]))
	got, err = s.LoadAll(ctx, KindAdmissions)
	require.NoError(t, err)
	assert.Len(t, got, 1)
}

func TestFileStoreSurvivesProcessRestart(t *testing.T) {
	dir := t.TempDir()
	ctx := context.Background()

	s1, err := NewFileStore(dir)
	require.NoError(t, err)
	require.NoError(t, s1.SaveAll(ctx, KindPatients, []json.RawMessage{
		json.RawMessage(`{"patientId":"p1"}`),
	}))

	s2, err := NewFileStore(dir)
	require.NoError(t, err)
	got, err := s2.LoadAll(ctx, KindPatients)
	require.NoError(t, err)
	require.Len(t, got, 1)
}

func TestFileStoreLeavesNoTempFiles(t *testing.T) {
	dir := t.TempDir()
	s, err := NewFileStore(dir)
	require.NoError(t, err)

	require.NoError(t, s.SaveAll(context.Background(), KindLabTests, nil))

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, "labtests.json", entries[0].Name())
	assert.Equal(t, ".json", filepath.Ext(entries[0].Name()))
}

func TestFileStoreRejectsCorruptSnapshot(t *testing.T) {
	dir := t.TempDir()
	s, err := NewFileStore(dir)
	require.NoError(t, err)

	require.NoError(t, os.WriteFile(filepath.Join(dir, "admissions.json"), []byte("{not json"), 0644))

	_, err = s.LoadAll(context.Background(), KindAdmissions)
	assert.Error(t, err)
}

func TestMemoryStoreIsolation(t *testing.T) {
	s := NewMemoryStore()
	ctx := context.Background()

	doc := []json.RawMessage{json.RawMessage(`{"id":1}`)}
	require.NoError(t, s.SaveAll(ctx, KindAdmissions, doc))

	got, err := s.LoadAll(ctx, KindAdmissions)
	require.NoError(t, err)
	require.Len(t, got, 1)

	// Mutating the returned slice must not affect the stored snapshot.
	got[0] = json.RawMessage(`{"id":2}`)
	again, err := s.LoadAll(ctx, KindAdmissions)
	require.NoError(t, err)
	assert.JSONEq(t, `{"id":1}`, string(again[0]))
}
