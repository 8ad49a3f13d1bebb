package pg

import (
	"database/sql"
	"fmt"

	"iflytek-asr/internal/config"

	_ "github.com/lib/pq"
)

const createTableSQL = `
CREATE TABLE IF NOT EXISTS transcriptions (
	id                   SERIAL PRIMARY KEY,
	user_nickname        TEXT NOT NULL,
	provider             TEXT NOT NULL DEFAULT 'iflytek',
	order_id             TEXT NOT NULL DEFAULT '',
	input_dir            TEXT NOT NULL DEFAULT '',
	file_name            TEXT NOT NULL,
	audio_duration       INTEGER NOT NULL DEFAULT 0,
	transcription        TEXT NOT NULL DEFAULT '',
	last_conversion_time TIMESTAMPTZ NOT NULL,
	has_error            INTEGER NOT NULL DEFAULT 0,
	error_message        TEXT NOT NULL DEFAULT ''
);
CREATE INDEX IF NOT EXISTS idx_transcriptions_file_name ON transcriptions(file_name);
CREATE INDEX IF NOT EXISTS idx_transcriptions_user ON transcriptions(user_nickname);
`

// GetConnection opens a connection using DATABASE_URL or the DB_* env vars.
func GetConnection() (*sql.DB, error) {
	postgresDB, err := sql.Open("postgres", config.GetNetworkConfig().GetPostgresConnectionString())
	if err != nil {
		return nil, fmt.Errorf("open postgres database: %w", err)
	}
	return postgresDB, nil
}
