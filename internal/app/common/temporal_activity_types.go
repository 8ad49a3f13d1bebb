package common

import (
	"encoding/json"
	"time"
)

// TranscribeActivityRequest is the input for the transcription activity.
type TranscribeActivityRequest struct {
	JobID    string                 `json:"job_id"`
	FilePath string                 `json:"file_path"`
	Provider string                 `json:"provider"`
	Language string                 `json:"language"`
	Options  map[string]interface{} `json:"options"`
}

// TranscribeActivityResult carries the transcript plus the provider's raw
// response so downstream activities can persist both.
type TranscribeActivityResult struct {
	JobID          string          `json:"job_id"`
	Transcript     string          `json:"transcript"`
	Provider       string          `json:"provider"`
	OrderID        string          `json:"order_id,omitempty"`
	RawResult      json.RawMessage `json:"raw_result,omitempty"`
	ProcessingTime time.Duration   `json:"processing_time"`
}

// SaveArtifactsRequest is the input for the artifact persistence activity.
type SaveArtifactsRequest struct {
	JobID      string          `json:"job_id"`
	FilePath   string          `json:"file_path"`
	Transcript string          `json:"transcript"`
	RawResult  json.RawMessage `json:"raw_result,omitempty"`
}

// SaveArtifactsResult reports where the raw response and transcript landed.
type SaveArtifactsResult struct {
	RawJSONPath    string `json:"raw_json_path,omitempty"`
	TranscriptPath string `json:"transcript_path,omitempty"`
}

// RecordHistoryRequest is the input for the history persistence activity.
type RecordHistoryRequest struct {
	JobID      string `json:"job_id"`
	FilePath   string `json:"file_path"`
	User       string `json:"user"`
	Provider   string `json:"provider"`
	OrderID    string `json:"order_id,omitempty"`
	Transcript string `json:"transcript"`
	Failed     bool   `json:"failed"`
	ErrMessage string `json:"err_message,omitempty"`
}
