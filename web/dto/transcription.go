package dto

import (
	"time"

	"iflytek-asr/internal/app/api/provider"
	"iflytek-asr/internal/app/model"
	"iflytek-asr/web/errors"
)

// CreateTranscriptionRequest represents the request to create a transcription
type CreateTranscriptionRequest struct {
	FilePath string `json:"file_path" binding:"required"`
	User     string `json:"user,omitempty"`
	Provider string `json:"provider,omitempty"`
	Language string `json:"language,omitempty"`
}

// Validate performs domain-specific validation
func (r *CreateTranscriptionRequest) Validate() error {
	validationErrors := make(map[string]string)

	if r.FilePath == "" {
		validationErrors["file_path"] = "file path is required"
	} else if provider.GetAudioFormatFromFilename(r.FilePath) == "" {
		validationErrors["file_path"] = "unsupported audio format"
	}

	if len(validationErrors) > 0 {
		return errors.NewValidationError("Invalid transcription request", validationErrors)
	}

	return nil
}

// JobResponse represents an async transcription job in API responses
type JobResponse struct {
	JobID          string     `json:"job_id"`
	Status         string     `json:"status"`
	FilePath       string     `json:"file_path"`
	User           string     `json:"user,omitempty"`
	Provider       string     `json:"provider,omitempty"`
	OrderID        string     `json:"order_id,omitempty"`
	Transcript     string     `json:"transcript,omitempty"`
	RawJSONPath    string     `json:"raw_json_path,omitempty"`
	TranscriptPath string     `json:"transcript_path,omitempty"`
	Error          string     `json:"error,omitempty"`
	SubmittedAt    time.Time  `json:"submitted_at"`
	CompletedAt    *time.Time `json:"completed_at,omitempty"`
}

// TranscriptionResponse represents a history row in API responses
type TranscriptionResponse struct {
	ID            int       `json:"id"`
	User          string    `json:"user"`
	Provider      string    `json:"provider,omitempty"`
	OrderID       string    `json:"order_id,omitempty"`
	FileName      string    `json:"file_name"`
	Status        string    `json:"status"`
	Duration      float64   `json:"duration,omitempty"`
	Transcription string    `json:"transcription,omitempty"`
	Error         string    `json:"error,omitempty"`
	ConvertedAt   time.Time `json:"converted_at"`
}

// ListTranscriptionsQuery represents query parameters for listing transcriptions
type ListTranscriptionsQuery struct {
	User  string `form:"user"`
	Limit int    `form:"limit,default=20" binding:"min=1,max=100"`
}

// ToTranscriptionResponse converts a model to response DTO
func ToTranscriptionResponse(t *model.Transcription) TranscriptionResponse {
	return TranscriptionResponse{
		ID:            t.ID,
		User:          t.User,
		Provider:      t.Provider,
		OrderID:       t.OrderID,
		FileName:      t.FileName,
		Status:        DetermineStatus(t),
		Duration:      t.AudioDuration,
		Transcription: t.Transcription,
		Error:         t.ErrorMessage,
		ConvertedAt:   t.LastConversionTime,
	}
}

// DetermineStatus maps a history row to a terminal status. Rows are written
// after the attempt finishes, so there is no in-flight state here.
func DetermineStatus(t *model.Transcription) string {
	if t.HasError == 1 {
		return "failed"
	}
	return "completed"
}
