package sqlite

import (
	"database/sql"
	"errors"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"iflytek-asr/internal/app/repository"
)

func TestSQLiteDAO_Interface(t *testing.T) {
	var _ repository.TranscriptionDAO = (*SQLiteDB)(nil)
}

func newTestDB(t *testing.T) *SQLiteDB {
	t.Helper()

	dbPath := filepath.Join(t.TempDir(), "transcription.db")
	sdb, err := NewSQLiteDB(dbPath)
	require.NoError(t, err)
	t.Cleanup(func() { sdb.Close() })
	return sdb
}

func TestNewSQLiteDB_CreatesSchema(t *testing.T) {
	sdb := newTestDB(t)

	// The table exists and starts empty.
	recent, err := sdb.GetRecent(10)
	require.NoError(t, err)
	assert.Empty(t, recent)
}

func TestSQLiteDB_RecordAndCheckProcessed(t *testing.T) {
	sdb := newTestDB(t)

	err := sdb.RecordToDB("alice", "/input", "talk.wav", "iflytek", "order-1", 120,
		"hello world", time.Now(), 0, "")
	require.NoError(t, err)

	id, err := sdb.CheckIfFileProcessed("talk.wav")
	require.NoError(t, err)
	assert.Greater(t, id, 0)

	_, err = sdb.CheckIfFileProcessed("missing.wav")
	assert.True(t, errors.Is(err, sql.ErrNoRows))
}

func TestSQLiteDB_ErrorRowsAreNotProcessed(t *testing.T) {
	sdb := newTestDB(t)

	err := sdb.RecordToDB("alice", "/input", "broken.wav", "iflytek", "", 0,
		"", time.Now(), 1, "upload: api error 10011: invalid audio file")
	require.NoError(t, err)

	// A failed attempt must not mark the file as done, a later run retries it.
	_, err = sdb.CheckIfFileProcessed("broken.wav")
	assert.True(t, errors.Is(err, sql.ErrNoRows))
}

func TestSQLiteDB_GetAllByUser(t *testing.T) {
	sdb := newTestDB(t)

	base := time.Date(2025, 3, 1, 10, 0, 0, 0, time.UTC)
	require.NoError(t, sdb.RecordToDB("alice", "/in", "a.wav", "iflytek", "o-1", 60,
		"first", base, 0, ""))
	require.NoError(t, sdb.RecordToDB("alice", "/in", "b.mp3", "openai", "", 90,
		"second", base.Add(time.Hour), 0, ""))
	require.NoError(t, sdb.RecordToDB("bob", "/in", "c.wav", "iflytek", "o-3", 30,
		"other user", base, 0, ""))
	require.NoError(t, sdb.RecordToDB("alice", "/in", "bad.wav", "iflytek", "", 0,
		"", base, 1, "boom"))

	got, err := sdb.GetAllByUser("alice")
	require.NoError(t, err)
	require.Len(t, got, 2)

	// Newest first, error rows excluded.
	assert.Equal(t, "b.mp3", got[0].FileName)
	assert.Equal(t, "openai", got[0].Provider)
	assert.Equal(t, "second", got[0].Transcription)
	assert.Equal(t, "a.wav", got[1].FileName)
	assert.Equal(t, "o-1", got[1].OrderID)
	assert.Equal(t, float64(60), got[1].AudioDuration)

	empty, err := sdb.GetAllByUser("nobody")
	require.NoError(t, err)
	assert.Empty(t, empty)
}

func TestSQLiteDB_GetByID(t *testing.T) {
	sdb := newTestDB(t)

	when := time.Date(2025, 3, 1, 10, 0, 0, 0, time.UTC)
	require.NoError(t, sdb.RecordToDB("alice", "/in", "a.wav", "iflytek", "o-1", 60,
		"transcript", when, 0, ""))

	id, err := sdb.CheckIfFileProcessed("a.wav")
	require.NoError(t, err)

	got, err := sdb.GetByID(id)
	require.NoError(t, err)
	assert.Equal(t, "alice", got.User)
	assert.Equal(t, "iflytek", got.Provider)
	assert.Equal(t, "o-1", got.OrderID)
	assert.Equal(t, "transcript", got.Transcription)
	assert.Equal(t, when.Unix(), got.LastConversionTime.Unix())

	_, err = sdb.GetByID(99999)
	assert.True(t, errors.Is(err, sql.ErrNoRows))
}

func TestSQLiteDB_GetRecent(t *testing.T) {
	sdb := newTestDB(t)

	base := time.Date(2025, 3, 1, 10, 0, 0, 0, time.UTC)
	for i, name := range []string{"a.wav", "b.wav", "c.wav"} {
		require.NoError(t, sdb.RecordToDB("alice", "/in", name, "iflytek", "", 10,
			"text "+name, base.Add(time.Duration(i)*time.Minute), 0, ""))
	}

	got, err := sdb.GetRecent(2)
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, "c.wav", got[0].FileName)
	assert.Equal(t, "b.wav", got[1].FileName)
}

func TestSQLiteDB_Close(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "transcription.db")
	sdb, err := NewSQLiteDB(dbPath)
	require.NoError(t, err)

	require.NoError(t, sdb.Close())

	_, err = sdb.CheckIfFileProcessed("any.wav")
	assert.Error(t, err)
}
