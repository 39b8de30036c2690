package database

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/truthlens/truthlens/internal/models"
)

func newTestStore(t *testing.T) *SQLiteStore {
	t.Helper()
	store, err := NewSQLiteStore(filepath.Join(t.TempDir(), "truthlens.db"))
	require.NoError(t, err)
	t.Cleanup(func() { store.Close() })
	return store
}

func testRecord(id string, kind models.AnalysisKind, createdAt time.Time) *models.AnalysisRecord {
	return &models.AnalysisRecord{
		ID:        id,
		Kind:      kind,
		Verdict:   "AI-generated",
		Score:     91,
		Summary:   "Warped hands and garbled text.",
		Result:    []byte(`{"classification":"AI-generated","confidence":91}`),
		Degraded:  false,
		CreatedAt: createdAt,
	}
}

func TestSaveAndGetRecord(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	rec := testRecord("rec-1", models.KindImage, time.Now())
	rec.Degraded = true
	require.NoError(t, store.SaveRecord(ctx, rec))

	got, err := store.GetRecord(ctx, "rec-1")
	require.NoError(t, err)
	require.NotNil(t, got)

	assert.Equal(t, rec.ID, got.ID)
	assert.Equal(t, rec.Kind, got.Kind)
	assert.Equal(t, rec.Verdict, got.Verdict)
	assert.Equal(t, rec.Score, got.Score)
	assert.Equal(t, rec.Summary, got.Summary)
	assert.JSONEq(t, string(rec.Result), string(got.Result))
	assert.True(t, got.Degraded)
	assert.WithinDuration(t, rec.CreatedAt, got.CreatedAt, time.Second)
}

func TestGetRecordMissing(t *testing.T) {
	store := newTestStore(t)

	got, err := store.GetRecord(context.Background(), "does-not-exist")
	require.NoError(t, err)
	assert.Nil(t, got)
}

func TestListRecords(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()
	base := time.Now().Add(-time.Hour)

	require.NoError(t, store.SaveRecord(ctx, testRecord("a", models.KindImage, base)))
	require.NoError(t, store.SaveRecord(ctx, testRecord("b", models.KindArticle, base.Add(time.Minute))))
	require.NoError(t, store.SaveRecord(ctx, testRecord("c", models.KindImage, base.Add(2*time.Minute))))

	all, err := store.ListRecords(ctx, "", 10, 0)
	require.NoError(t, err)
	require.Len(t, all, 3)
	assert.Equal(t, "c", all[0].ID)
	assert.Equal(t, "b", all[1].ID)
	assert.Equal(t, "a", all[2].ID)

	images, err := store.ListRecords(ctx, models.KindImage, 10, 0)
	require.NoError(t, err)
	require.Len(t, images, 2)
	assert.Equal(t, "c", images[0].ID)
	assert.Equal(t, "a", images[1].ID)

	page, err := store.ListRecords(ctx, "", 1, 1)
	require.NoError(t, err)
	require.Len(t, page, 1)
	assert.Equal(t, "b", page[0].ID)

	none, err := store.ListRecords(ctx, models.KindVoice, 10, 0)
	require.NoError(t, err)
	assert.Empty(t, none)
}

func TestLogRequest(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	entry := &models.RequestLog{
		ID:           "req-1",
		Endpoint:     "/api/v1/analyze/image",
		Method:       "POST",
		RequestSize:  2048,
		ResponseCode: 200,
		DurationMs:   112,
		Timestamp:    time.Now(),
	}
	require.NoError(t, store.LogRequest(ctx, entry))

	var count int
	require.NoError(t, store.db.QueryRow(
		`SELECT COUNT(*) FROM request_logs WHERE endpoint = ?`, entry.Endpoint).Scan(&count))
	assert.Equal(t, 1, count)
}

func TestMigrateIsIdempotent(t *testing.T) {
	store := newTestStore(t)
	require.NoError(t, store.Migrate())
	require.NoError(t, store.Migrate())
}
