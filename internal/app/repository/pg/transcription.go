package pg

import (
	"database/sql"
	"fmt"
	"time"

	"iflytek-asr/internal/app/model"

	_ "github.com/lib/pq"
)

type PostgresDB struct {
	db *sql.DB
}

// NewPostgresDB connects with the given DSN and makes sure the
// transcriptions table exists.
func NewPostgresDB(connectionString string) (*PostgresDB, error) {
	db, err := sql.Open("postgres", connectionString)
	if err != nil {
		return nil, err
	}
	if _, err := db.Exec(createTableSQL); err != nil {
		db.Close()
		return nil, fmt.Errorf("create transcriptions table: %w", err)
	}
	return &PostgresDB{db: db}, nil
}

func (pdb *PostgresDB) Close() error {
	return pdb.db.Close()
}

func (pdb *PostgresDB) CheckIfFileProcessed(fileName string) (int, error) {
	query := `SELECT id FROM transcriptions WHERE file_name = $1 AND has_error = 0`
	row := pdb.db.QueryRow(query, fileName)
	var id int
	err := row.Scan(&id)
	return id, err
}

func (pdb *PostgresDB) RecordToDB(user, inputDir, fileName, provider, orderID string, audioDuration int,
	transcription string, lastConversionTime time.Time, hasError int, errorMessage string) error {
	insertSQL := `INSERT INTO transcriptions (user_nickname, input_dir, file_name, provider, order_id, audio_duration, transcription, last_conversion_time, has_error, error_message) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10);`
	_, err := pdb.db.Exec(insertSQL, user, inputDir, fileName, provider, orderID, audioDuration, transcription, lastConversionTime, hasError, errorMessage)
	if err != nil {
		return fmt.Errorf("insert transcription: %w", err)
	}
	return nil
}

func (pdb *PostgresDB) GetAllByUser(userNickname string) ([]model.Transcription, error) {
	query := `
		SELECT id, user_nickname, provider, order_id, file_name, audio_duration, transcription, last_conversion_time, has_error, error_message
		FROM transcriptions
		WHERE has_error = 0
		  AND user_nickname = $1
		ORDER BY last_conversion_time DESC`

	rows, err := pdb.db.Query(query, userNickname)
	if err != nil {
		return nil, fmt.Errorf("query failed: %v", err)
	}
	defer rows.Close()

	return scanTranscriptions(rows)
}

func (pdb *PostgresDB) GetRecent(limit int) ([]model.Transcription, error) {
	query := `
		SELECT id, user_nickname, provider, order_id, file_name, audio_duration, transcription, last_conversion_time, has_error, error_message
		FROM transcriptions
		ORDER BY last_conversion_time DESC
		LIMIT $1`

	rows, err := pdb.db.Query(query, limit)
	if err != nil {
		return nil, fmt.Errorf("query failed: %v", err)
	}
	defer rows.Close()

	return scanTranscriptions(rows)
}

func (pdb *PostgresDB) GetByID(id int) (*model.Transcription, error) {
	query := `
		SELECT id, user_nickname, provider, order_id, file_name, audio_duration, transcription, last_conversion_time, has_error, error_message
		FROM transcriptions
		WHERE id = $1`
	row := pdb.db.QueryRow(query, id)

	var t model.Transcription
	err := row.Scan(&t.ID, &t.User, &t.Provider, &t.OrderID, &t.FileName, &t.AudioDuration,
		&t.Transcription, &t.LastConversionTime, &t.HasError, &t.ErrorMessage)
	if err != nil {
		return nil, err
	}
	return &t, nil
}

func scanTranscriptions(rows *sql.Rows) ([]model.Transcription, error) {
	var transcriptions []model.Transcription

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
