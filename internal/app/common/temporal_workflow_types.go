package common

import "time"

// SingleFileWorkflowRequest is the input for the single file transcription
// workflow. FilePath must be readable from the worker host; distributed
// deployments share the audio directory or run the worker next to it.
type SingleFileWorkflowRequest struct {
	JobID    string                 `json:"job_id"`
	FilePath string                 `json:"file_path"`
	User     string                 `json:"user"`
	Provider string                 `json:"provider"` // optional, default provider if empty
	Language string                 `json:"language"`
	Options  map[string]interface{} `json:"options"`
}

// SingleFileWorkflowResult is the output of the single file transcription
// workflow. Artifact paths point at the worker's artifact store, either a
// local directory or object keys in a shared bucket.
type SingleFileWorkflowResult struct {
	JobID          string        `json:"job_id"`
	Transcript     string        `json:"transcript"`
	Provider       string        `json:"provider"`
	OrderID        string        `json:"order_id,omitempty"`
	RawJSONPath    string        `json:"raw_json_path,omitempty"`
	TranscriptPath string        `json:"transcript_path,omitempty"`
	ProcessingTime time.Duration `json:"processing_time"`
	Error          string        `json:"error,omitempty"`
}
