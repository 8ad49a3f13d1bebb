package storage

import (
	"context"
	"encoding/json"
)

// Artifacts names the files written for one completed transcription.
type Artifacts struct {
	RawJSONPath    string `json:"rawJsonPath"`
	TranscriptPath string `json:"transcriptPath"`
}

// ArtifactStore persists the raw provider payload and the extracted
// transcript for one audio file.
type ArtifactStore interface {
	SaveArtifacts(ctx context.Context, baseName string, raw json.RawMessage, transcript string) (*Artifacts, error)
}
