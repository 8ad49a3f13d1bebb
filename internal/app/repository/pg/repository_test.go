package pg

import (
	"database/sql"
	"errors"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"iflytek-asr/internal/app/repository"
)

func TestPostgresDAO_Interface(t *testing.T) {
	var _ repository.TranscriptionDAO = (*PostgresDB)(nil)
}

func newMockDB(t *testing.T) (*PostgresDB, sqlmock.Sqlmock) {
	t.Helper()

	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	return &PostgresDB{db: db}, mock
}

func transcriptionColumns() []string {
	return []string{"id", "user_nickname", "provider", "order_id", "file_name",
		"audio_duration", "transcription", "last_conversion_time", "has_error", "error_message"}
}

func TestPostgresDB_CheckIfFileProcessed(t *testing.T) {
	tests := []struct {
		name        string
		fileName    string
		mockSetup   func(mock sqlmock.Sqlmock)
		expectedID  int
		expectedErr error
	}{
		{
			name:     "existing_processed_file",
			fileName: "talk.wav",
			mockSetup: func(mock sqlmock.Sqlmock) {
				rows := sqlmock.NewRows([]string{"id"}).AddRow(123)
				mock.ExpectQuery(regexp.QuoteMeta("SELECT id FROM transcriptions WHERE file_name = $1 AND has_error = 0")).
					WithArgs("talk.wav").
					WillReturnRows(rows)
			},
			expectedID: 123,
		},
		{
			name:     "unknown_file",
			fileName: "missing.wav",
			mockSetup: func(mock sqlmock.Sqlmock) {
				mock.ExpectQuery(regexp.QuoteMeta("SELECT id FROM transcriptions WHERE file_name = $1 AND has_error = 0")).
					WithArgs("missing.wav").
					WillReturnError(sql.ErrNoRows)
			},
			expectedErr: sql.ErrNoRows,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			pdb, mock := newMockDB(t)
			tt.mockSetup(mock)

			id, err := pdb.CheckIfFileProcessed(tt.fileName)

			if tt.expectedErr != nil {
				assert.True(t, errors.Is(err, tt.expectedErr))
			} else {
				require.NoError(t, err)
				assert.Equal(t, tt.expectedID, id)
			}
			assert.NoError(t, mock.ExpectationsWereMet())
		})
	}
}

func TestPostgresDB_RecordToDB(t *testing.T) {
	pdb, mock := newMockDB(t)

	when := time.Date(2025, 3, 1, 10, 0, 0, 0, time.UTC)
	mock.ExpectExec(regexp.QuoteMeta("INSERT INTO transcriptions")).
		WithArgs("alice", "/in", "talk.wav", "iflytek", "order-1", 120,
			"hello world", when, 0, "").
		WillReturnResult(sqlmock.NewResult(1, 1))

	err := pdb.RecordToDB("alice", "/in", "talk.wav", "iflytek", "order-1", 120,
		"hello world", when, 0, "")
	require.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresDB_RecordToDB_InsertError(t *testing.T) {
	pdb, mock := newMockDB(t)

	mock.ExpectExec(regexp.QuoteMeta("INSERT INTO transcriptions")).
		WillReturnError(errors.New("connection reset"))

	err := pdb.RecordToDB("alice", "/in", "talk.wav", "iflytek", "", 0,
		"", time.Now(), 1, "boom")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "insert transcription")
}

func TestPostgresDB_GetAllByUser(t *testing.T) {
	pdb, mock := newMockDB(t)

	when := time.Date(2025, 3, 1, 10, 0, 0, 0, time.UTC)
	rows := sqlmock.NewRows(transcriptionColumns()).
		AddRow(2, "alice", "openai", "", "b.mp3", 90.0, "second", when.Add(time.Hour), 0, "").
		AddRow(1, "alice", "iflytek", "o-1", "a.wav", 60.0, "first", when, 0, "")

	mock.ExpectQuery("SELECT (.+) FROM transcriptions").
		WithArgs("alice").
		WillReturnRows(rows)

	got, err := pdb.GetAllByUser("alice")
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, "b.mp3", got[0].FileName)
	assert.Equal(t, "openai", got[0].Provider)
	assert.Equal(t, "o-1", got[1].OrderID)
	assert.Equal(t, float64(60), got[1].AudioDuration)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresDB_GetAllByUser_QueryError(t *testing.T) {
	pdb, mock := newMockDB(t)

	mock.ExpectQuery("SELECT (.+) FROM transcriptions").
		WithArgs("alice").
		WillReturnError(errors.New("relation does not exist"))

	_, err := pdb.GetAllByUser("alice")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "query failed")
}

func TestPostgresDB_GetRecent(t *testing.T) {
	pdb, mock := newMockDB(t)

	when := time.Date(2025, 3, 1, 10, 0, 0, 0, time.UTC)
	rows := sqlmock.NewRows(transcriptionColumns()).
		AddRow(3, "bob", "iflytek", "o-3", "c.wav", 30.0, "newest", when, 0, "")

	mock.ExpectQuery("SELECT (.+) FROM transcriptions").
		WithArgs(1).
		WillReturnRows(rows)

	got, err := pdb.GetRecent(1)
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "c.wav", got[0].FileName)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresDB_GetByID(t *testing.T) {
	pdb, mock := newMockDB(t)

	when := time.Date(2025, 3, 1, 10, 0, 0, 0, time.UTC)
	rows := sqlmock.NewRows(transcriptionColumns()).
		AddRow(7, "alice", "iflytek", "o-7", "a.wav", 60.0, "transcript", when, 0, "")

	mock.ExpectQuery("SELECT (.+) FROM transcriptions").
		WithArgs(7).
		WillReturnRows(rows)

	got, err := pdb.GetByID(7)
	require.NoError(t, err)
	assert.Equal(t, 7, got.ID)
	assert.Equal(t, "o-7", got.OrderID)
	assert.Equal(t, when, got.LastConversionTime)

	mock.ExpectQuery("SELECT (.+) FROM transcriptions").
		WithArgs(99).
		WillReturnError(sql.ErrNoRows)

	_, err = pdb.GetByID(99)
	assert.True(t, errors.Is(err, sql.ErrNoRows))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresDB_Close(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)

	pdb := &PostgresDB{db: db}
	mock.ExpectClose()

	require.NoError(t, pdb.Close())
	assert.NoError(t, mock.ExpectationsWereMet())
}
