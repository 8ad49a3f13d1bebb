package sqlite

import (
	"fmt"
	"path/filepath"

	"iflytek-asr/internal/config"
)

const createTableSQL = `
CREATE TABLE IF NOT EXISTS transcriptions (
	id                   INTEGER PRIMARY KEY AUTOINCREMENT,
	user_nickname        TEXT NOT NULL,
	provider             TEXT NOT NULL DEFAULT 'iflytek',
	order_id             TEXT NOT NULL DEFAULT '',
	input_dir            TEXT NOT NULL DEFAULT '',
	file_name            TEXT NOT NULL,
	audio_duration       INTEGER NOT NULL DEFAULT 0,
	transcription        TEXT NOT NULL DEFAULT '',
	last_conversion_time TIMESTAMP NOT NULL,
	has_error            INTEGER NOT NULL DEFAULT 0,
	error_message        TEXT NOT NULL DEFAULT ''
);
CREATE INDEX IF NOT EXISTS idx_transcriptions_file_name ON transcriptions(file_name);
CREATE INDEX IF NOT EXISTS idx_transcriptions_user ON transcriptions(user_nickname);
`

// DefaultDBPath returns the history database location under the
// application config directory (~/.a2t/transcription.db).
func DefaultDBPath() (string, error) {
	dir, err := config.ConfigDir()
	if err != nil {
		return "", fmt.Errorf("resolve config dir: %w", err)
	}
	return filepath.Join(dir, "transcription.db"), nil
}
