package sqlite

import (
	"database/sql"
	"fmt"
	"time"

	"iflytek-asr/internal/app/model"

	_ "github.com/mattn/go-sqlite3"
)

type SQLiteDB struct {
	db *sql.DB
}

// NewSQLiteDB opens (or creates) the history database at dbFilePath and
// makes sure the transcriptions table exists.
func NewSQLiteDB(dbFilePath string) (*SQLiteDB, error) {
	db, err := sql.Open("sqlite3", fmt.Sprintf("file:%s?cache=shared&mode=rwc", dbFilePath))
	if err != nil {
		return nil, fmt.Errorf("open sqlite database: %w", err)
	}
	if _, err := db.Exec(createTableSQL); err != nil {
		db.Close()
		return nil, fmt.Errorf("create transcriptions table: %w", err)
	}
	return &SQLiteDB{db: db}, nil
}

func (sdb *SQLiteDB) Close() error {
	return sdb.db.Close()
}

func (sdb *SQLiteDB) CheckIfFileProcessed(fileName string) (int, error) {
	query := `SELECT id FROM transcriptions WHERE file_name = ? AND has_error = 0`
	row := sdb.db.QueryRow(query, fileName)
	var id int
	err := row.Scan(&id)
	return id, err
}

func (sdb *SQLiteDB) RecordToDB(user, inputDir, fileName, provider, orderID string, audioDuration int,
	transcription string, lastConversionTime time.Time, hasError int, errorMessage string) error {
	insertSQL := `INSERT INTO transcriptions (user_nickname, input_dir, file_name, provider, order_id, audio_duration, transcription, last_conversion_time, has_error, error_message) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?);`
	_, err := sdb.db.Exec(insertSQL, user, inputDir, fileName, provider, orderID, audioDuration, transcription, lastConversionTime, hasError, errorMessage)
	if err != nil {
		return fmt.Errorf("insert transcription: %w", err)
	}
	return nil
}

func (sdb *SQLiteDB) GetAllByUser(userNickname string) ([]model.Transcription, error) {
	sqlStr := `
		SELECT id, user_nickname, provider, order_id, file_name, audio_duration, transcription, last_conversion_time, has_error, error_message
		FROM transcriptions
		WHERE has_error = 0
		  AND user_nickname = ?
		ORDER BY last_conversion_time DESC;`
	rows, err := sdb.db.Query(sqlStr, userNickname)
	if err != nil {
		return nil, fmt.Errorf("query failed: %v", err)
	}
	defer rows.Close()

	return scanTranscriptions(rows)
}

func (sdb *SQLiteDB) GetRecent(limit int) ([]model.Transcription, error) {
	sqlStr := `
		SELECT id, user_nickname, provider, order_id, file_name, audio_duration, transcription, last_conversion_time, has_error, error_message
		FROM transcriptions
		ORDER BY last_conversion_time DESC
		LIMIT ?;`
	rows, err := sdb.db.Query(sqlStr, limit)
	if err != nil {
		return nil, fmt.Errorf("query failed: %v", err)
	}
	defer rows.Close()

	return scanTranscriptions(rows)
}

func (sdb *SQLiteDB) GetByID(id int) (*model.Transcription, error) {
	sqlStr := `
		SELECT id, user_nickname, provider, order_id, file_name, audio_duration, transcription, last_conversion_time, has_error, error_message
		FROM transcriptions
		WHERE id = ?;`
	row := sdb.db.QueryRow(sqlStr, id)

	var t model.Transcription
	err := row.Scan(&t.ID, &t.User, &t.Provider, &t.OrderID, &t.FileName, &t.AudioDuration,
		&t.Transcription, &t.LastConversionTime, &t.HasError, &t.ErrorMessage)
	if err != nil {
		return nil, err
	}
	return &t, nil
}

func scanTranscriptions(rows *sql.Rows) ([]model.Transcription, error) {
	transcriptions := make([]model.Transcription, 0)

	for rows.Next() {
		var t model.Transcription
		err := rows.Scan(&t.ID, &t.User, &t.Provider, &t.OrderID, &t.FileName, &t.AudioDuration,
			&t.Transcription, &t.LastConversionTime, &t.HasError, &t.ErrorMessage)
		if err != nil {
			return nil, fmt.Errorf("db scan failed: %v", err)
		}

		transcriptions = append(transcriptions, t)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows iteration failed: %v", err)
	}
	return transcriptions, nil
}
