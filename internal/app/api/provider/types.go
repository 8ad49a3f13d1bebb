package provider

import (
	"context"
	"encoding/json"
	"strings"
	"time"
)

// AudioFormat defines supported audio formats
type AudioFormat string

const (
	FormatWAV AudioFormat = "wav"
	FormatMP3 AudioFormat = "mp3"
	FormatM4A AudioFormat = "m4a"
	FormatAMR AudioFormat = "amr"
)

// ProviderType defines how a transcription provider runs
type ProviderType string

const (
	ProviderTypeLocal  ProviderType = "local"
	ProviderTypeRemote ProviderType = "remote"
)

// TranscriptionRequest represents a transcription request with all options
type TranscriptionRequest struct {
	InputFilePath string `json:"input_file_path"`

	// Language hint, e.g. "zh", "en", "auto"
	Language string `json:"language,omitempty"`

	// Provider-specific model identifier
	Model string `json:"model,omitempty"`

	// Context prompt for providers that accept one
	Prompt string `json:"prompt,omitempty"`

	// Provider-specific options
	ProviderOptions map[string]interface{} `json:"provider_options,omitempty"`

	// Context for cancellation and timeouts
	Context context.Context `json:"-"`
}

// TranscriptionResponse represents the response from a transcription provider
type TranscriptionResponse struct {
	Text string `json:"text"`

	// Provider that produced this response, filled by the fallback chain
	Provider string `json:"provider,omitempty"`

	Language string        `json:"language,omitempty"`
	Duration time.Duration `json:"duration,omitempty"`

	// OrderID is the remote job identifier, for providers that process
	// asynchronously on their side
	OrderID string `json:"order_id,omitempty"`

	// RawResult preserves the provider's terminal payload for archival
	RawResult json.RawMessage `json:"raw_result,omitempty"`

	ProcessingTime time.Duration `json:"processing_time,omitempty"`
	ModelUsed      string        `json:"model_used,omitempty"`
}

// ProviderInfo contains metadata about a transcription provider
type ProviderInfo struct {
	Name        string       `json:"name"`
	DisplayName string       `json:"display_name"`
	Type        ProviderType `json:"type"`
	Version     string       `json:"version,omitempty"`

	SupportedFormats   []AudioFormat `json:"supported_formats"`
	SupportedLanguages []string      `json:"supported_languages,omitempty"`
	MaxFileSizeMB      int           `json:"max_file_size_mb,omitempty"`
	MaxDurationSec     int           `json:"max_duration_sec,omitempty"`

	RequiresInternet bool `json:"requires_internet"`
	RequiresAPIKey   bool `json:"requires_api_key"`
}

// TranscriptionError represents provider-specific errors
type TranscriptionError struct {
	Code        string   `json:"code"`
	Message     string   `json:"message"`
	Provider    string   `json:"provider"`
	Retryable   bool     `json:"retryable"`
	Suggestions []string `json:"suggestions,omitempty"`
}

func (e *TranscriptionError) Error() string {
	return e.Message
}

// IsValidAudioFormat checks if the given format is supported
func IsValidAudioFormat(format string) bool {
	switch AudioFormat(format) {
	case FormatWAV, FormatMP3, FormatM4A, FormatAMR:
		return true
	default:
		return false
	}
}

// GetAudioFormatFromFilename extracts the audio format from a filename
func GetAudioFormatFromFilename(filename string) AudioFormat {
	idx := strings.LastIndex(filename, ".")
	if idx < 0 || idx == len(filename)-1 {
		return ""
	}

	format := AudioFormat(strings.ToLower(filename[idx+1:]))
	if IsValidAudioFormat(string(format)) {
		return format
	}
	return ""
}
