package storage

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"
)

const timestampLayout = "20060102_150405"

// LocalStore writes artifacts into a directory on disk, one
// <base>_<timestamp>.json and one <base>_<timestamp>.txt per file.
type LocalStore struct {
	dir string
}

func NewLocalStore(dir string) *LocalStore {
	return &LocalStore{dir: dir}
}

func (s *LocalStore) SaveArtifacts(_ context.Context, baseName string, raw json.RawMessage, transcript string) (*Artifacts, error) {
	if err := os.MkdirAll(s.dir, os.ModePerm); err != nil {
		return nil, fmt.Errorf("create output dir: %w", err)
	}

	stem := fmt.Sprintf("%s_%s", baseName, time.Now().Format(timestampLayout))

	jsonPath := filepath.Join(s.dir, stem+".json")
	if err := os.WriteFile(jsonPath, prettyJSON(raw), 0644); err != nil {
		return nil, fmt.Errorf("write raw result: %w", err)
	}

	txtPath := filepath.Join(s.dir, stem+".txt")
	if err := os.WriteFile(txtPath, []byte(transcript), 0644); err != nil {
		return nil, fmt.Errorf("write transcript: %w", err)
	}

	return &Artifacts{RawJSONPath: jsonPath, TranscriptPath: txtPath}, nil
}

// prettyJSON indents the payload for humans; an unindentable payload is
// written as received.
func prettyJSON(raw json.RawMessage) []byte {
	var buf bytes.Buffer
	if err := json.Indent(&buf, raw, "", "  "); err != nil {
		return raw
	}
	return buf.Bytes()
}
