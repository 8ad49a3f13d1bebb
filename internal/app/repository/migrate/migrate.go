package migrate

import (
	"database/sql"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	_ "github.com/lib/pq"
	_ "github.com/mattn/go-sqlite3"
)

const batchSize = 1000

// checkpointFile remembers the last copied row so an interrupted run can
// resume without duplicating history.
const checkpointFile = "last_id.txt"

func getLastID() int {
	data, err := os.ReadFile(checkpointFile)
	if err != nil {
		return 0
	}

	lastID, err := strconv.Atoi(strings.TrimSpace(string(data)))
	if err != nil {
		return 0
	}

	return lastID
}

func saveLastID(lastID int) error {
	return os.WriteFile(checkpointFile, []byte(strconv.Itoa(lastID)), 0644)
}

// ToPostgres copies one batch of history rows from the sqlite database into
// Postgres, starting after the last checkpointed id. Run repeatedly until it
// reports zero copied rows.
func ToPostgres(sqliteDB, postgresDB *sql.DB) (int, error) {
	lastID := getLastID()

	rows, err := sqliteDB.Query(`SELECT id, user_nickname, provider, order_id, input_dir, file_name, audio_duration, transcription, last_conversion_time, has_error, error_message FROM transcriptions WHERE id > ? ORDER BY id LIMIT ?`, lastID, batchSize)
	if err != nil {
		return 0, fmt.Errorf("read sqlite rows: %w", err)
	}
	defer rows.Close()

	tx, err := postgresDB.Begin()
	if err != nil {
		return 0, fmt.Errorf("begin postgres transaction: %w", err)
	}
	defer tx.Rollback()

	stmt, err := tx.Prepare(`INSERT INTO transcriptions (id, user_nickname, provider, order_id, input_dir, file_name, audio_duration, transcription, last_conversion_time, has_error, error_message) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11) ON CONFLICT (id) DO NOTHING`)
	if err != nil {
		return 0, fmt.Errorf("prepare insert: %w", err)
	}
	defer stmt.Close()

	copied := 0
	for rows.Next() {
		var id, audioDuration, hasError int
		var user, provider, orderID, inputDir, fileName, transcription, errorMessage string
		var lastConversionTime time.Time

		err = rows.Scan(&id, &user, &provider, &orderID, &inputDir, &fileName, &audioDuration,
			&transcription, &lastConversionTime, &hasError, &errorMessage)
		if err != nil {
			return copied, fmt.Errorf("read row after id %d: %w", lastID, err)
		}

		if strings.TrimSpace(fileName) == "" {
			fmt.Printf("Skipping row %d: empty file_name\n", id)
			lastID = id
			continue
		}

		if _, err := stmt.Exec(id, user, provider, orderID, inputDir, fileName, audioDuration,
			transcription, lastConversionTime, hasError, errorMessage); err != nil {
			return copied, fmt.Errorf("insert row %d: %w", id, err)
		}
		lastID = id
		copied++
	}
	if err := rows.Err(); err != nil {
		return copied, fmt.Errorf("iterate sqlite rows: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return copied, fmt.Errorf("commit: %w", err)
	}

	if err := saveLastID(lastID); err != nil {
		return copied, fmt.Errorf("save checkpoint: %w", err)
	}

	return copied, nil
}
