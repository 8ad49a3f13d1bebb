package whisper

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/sashabaranov/go-openai"

	"iflytek-asr/internal/app/api/provider"
)

// Config holds the settings for the OpenAI Whisper provider.
type Config struct {
	APIKey   string `yaml:"api_key"`
	Model    string `yaml:"model"`
	Language string `yaml:"language"`
	Prompt   string `yaml:"prompt"`
	BaseURL  string `yaml:"base_url"`
}

// RemoteTranscriber implements transcription through the OpenAI audio
// API. It serves as the fallback provider for recordings the primary
// service cannot process.
type RemoteTranscriber struct {
	client *openai.Client
	config Config
}

// NewRemoteTranscriber creates a new RemoteTranscriber instance.
func NewRemoteTranscriber(config Config) *RemoteTranscriber {
	clientConfig := openai.DefaultConfig(config.APIKey)
	if config.BaseURL != "" {
		clientConfig.BaseURL = config.BaseURL
	}
	if config.Model == "" {
		config.Model = string(openai.Whisper1)
	}

	return &RemoteTranscriber{
		client: openai.NewClientWithConfig(clientConfig),
		config: config,
	}
}

// NewRemoteTranscriberFromSettings creates a provider from generic settings.
func NewRemoteTranscriberFromSettings(settings map[string]interface{}, apiKey string) (*RemoteTranscriber, error) {
	config := Config{APIKey: apiKey}

	if model, ok := settings["model"].(string); ok {
		config.Model = model
	}
	if language, ok := settings["language"].(string); ok {
		config.Language = language
	}
	if prompt, ok := settings["prompt"].(string); ok {
		config.Prompt = prompt
	}
	if baseURL, ok := settings["base_url"].(string); ok {
		config.BaseURL = baseURL
	}

	return NewRemoteTranscriber(config), nil
}

// Transcript implements the original Transcriber interface.
func (rt *RemoteTranscriber) Transcript(inputFilePath string) (string, error) {
	response, err := rt.TranscriptWithOptions(context.Background(), &provider.TranscriptionRequest{
		InputFilePath: inputFilePath,
	})
	if err != nil {
		return "", err
	}
	return response.Text, nil
}

// TranscriptWithOptions implements the enhanced transcription interface.
func (rt *RemoteTranscriber) TranscriptWithOptions(ctx context.Context, request *provider.TranscriptionRequest) (*provider.TranscriptionResponse, error) {
	startTime := time.Now()

	if request.InputFilePath == "" {
		return nil, &provider.TranscriptionError{
			Code:      "invalid_input",
			Message:   "input file path is required",
			Provider:  "openai",
			Retryable: false,
		}
	}

	if _, err := os.Stat(request.InputFilePath); os.IsNotExist(err) {
		return nil, &provider.TranscriptionError{
			Code:      "file_not_found",
			Message:   fmt.Sprintf("input file not found: %s", request.InputFilePath),
			Provider:  "openai",
			Retryable: false,
		}
	}

	if ctx == nil {
		ctx = context.Background()
	}

	audioRequest := openai.AudioRequest{
		Model:    rt.getModel(request),
		FilePath: request.InputFilePath,
		Language: rt.getLanguage(request),
		Prompt:   rt.getPrompt(request),
	}

	resp, err := rt.client.CreateTranscription(ctx, audioRequest)
	if err != nil {
		return nil, rt.handleAPIError(err)
	}

	return &provider.TranscriptionResponse{
		Text:           resp.Text,
		Language:       resp.Language,
		ProcessingTime: time.Since(startTime),
		ModelUsed:      audioRequest.Model,
	}, nil
}

func (rt *RemoteTranscriber) getModel(request *provider.TranscriptionRequest) string {
	if request.Model != "" {
		return request.Model
	}
	return rt.config.Model
}

func (rt *RemoteTranscriber) getLanguage(request *provider.TranscriptionRequest) string {
	language := rt.config.Language
	if request.Language != "" {
		language = request.Language
	}
	// The API auto-detects when no language is sent.
	if language == "auto" {
		return ""
	}
	return language
}

func (rt *RemoteTranscriber) getPrompt(request *provider.TranscriptionRequest) string {
	if request.Prompt != "" {
		return request.Prompt
	}
	return rt.config.Prompt
}

// handleAPIError converts OpenAI API errors to TranscriptionError
func (rt *RemoteTranscriber) handleAPIError(err error) error {
	var apiErr *openai.APIError
	if errors.As(err, &apiErr) {
		switch apiErr.HTTPStatusCode {
		case 401:
			return &provider.TranscriptionError{
				Code:        "authentication_failed",
				Message:     "OpenAI API key is invalid or missing",
				Provider:    "openai",
				Retryable:   false,
				Suggestions: []string{"Check your OPENAI_API_KEY environment variable"},
			}
		case 429:
			return &provider.TranscriptionError{
				Code:        "rate_limit_exceeded",
				Message:     "OpenAI API rate limit exceeded",
				Provider:    "openai",
				Retryable:   true,
				Suggestions: []string{"Wait a moment and try again"},
			}
		case 413:
			return &provider.TranscriptionError{
				Code:        "file_too_large",
				Message:     "Audio file is too large for OpenAI API",
				Provider:    "openai",
				Retryable:   false,
				Suggestions: []string{"Reduce file size", "Split into smaller chunks"},
			}
		case 400:
			return &provider.TranscriptionError{
				Code:        "invalid_audio",
				Message:     "Invalid audio file format or corrupted file",
				Provider:    "openai",
				Retryable:   false,
				Suggestions: []string{"Check file format", "Try converting to a supported format"},
			}
		default:
			return &provider.TranscriptionError{
				Code:      "api_error",
				Message:   fmt.Sprintf("OpenAI API error: %v", apiErr.Message),
				Provider:  "openai",
				Retryable: true,
			}
		}
	}

	return &provider.TranscriptionError{
		Code:      "network_error",
		Message:   fmt.Sprintf("transcription failed: %v", err),
		Provider:  "openai",
		Retryable: true,
	}
}

// GetProviderInfo returns metadata about the OpenAI provider
func (rt *RemoteTranscriber) GetProviderInfo() provider.ProviderInfo {
	return provider.ProviderInfo{
		Name:        "openai",
		DisplayName: "OpenAI Whisper API",
		Type:        provider.ProviderTypeRemote,
		Version:     "1.0.0",
		SupportedFormats: []provider.AudioFormat{
			provider.FormatMP3,
			provider.FormatM4A,
			provider.FormatWAV,
		},
		SupportedLanguages: []string{},
		MaxFileSizeMB:      25,
		RequiresInternet:   true,
		RequiresAPIKey:     true,
	}
}

// ValidateConfiguration validates the provider configuration
func (rt *RemoteTranscriber) ValidateConfiguration() error {
	if rt.config.APIKey == "" {
		return fmt.Errorf("OpenAI API key is required")
	}
	if !strings.HasPrefix(rt.config.APIKey, "sk-") {
		return fmt.Errorf("OpenAI API key should start with 'sk-'")
	}
	return nil
}

// HealthCheck performs a health check on the provider
func (rt *RemoteTranscriber) HealthCheck(ctx context.Context) error {
	if err := rt.ValidateConfiguration(); err != nil {
		return fmt.Errorf("configuration validation failed: %w", err)
	}

	if ctx == nil {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
	}

	_, err := rt.client.ListModels(ctx)
	if err != nil {
		return fmt.Errorf("OpenAI API health check failed: %w", err)
	}
	return nil
}
