package iflytek

import (
	"context"
	"errors"
	"fmt"
	"os"
	"time"

	"iflytek-asr/internal/app/api/provider"
)

// ProviderName is the registry name of the hosted LFASR provider.
const ProviderName = "iflytek"

// Service limits for long-form transcription orders.
const (
	maxUploadSizeMB  = 500
	maxDurationHours = 5
)

// Config collects the settings for the hosted LFASR provider.
type Config struct {
	AppID           string `yaml:"app_id"`
	SecretKey       string `yaml:"secret_key"`
	Host            string `yaml:"host"`
	ResultType      string `yaml:"result_type"`
	MaxAttempts     int    `yaml:"max_attempts"`
	PollIntervalSec int    `yaml:"poll_interval_sec"`
}

// Provider adapts Client to the TranscriptionProvider interface so the
// hosted service can take part in provider selection and fallback.
type Provider struct {
	config Config
	client *Client
}

// NewProvider creates an LFASR-backed provider. Additional options are
// handed to the underlying client after the config-derived ones, so
// callers can attach loggers or event subscribers.
func NewProvider(config Config, opts ...Option) *Provider {
	if config.Host == "" {
		config.Host = DefaultHost
	}
	if config.ResultType == "" {
		config.ResultType = DefaultResultType
	}
	if config.MaxAttempts <= 0 {
		config.MaxAttempts = DefaultMaxAttempts
	}
	if config.PollIntervalSec <= 0 {
		config.PollIntervalSec = int(DefaultPollInterval / time.Second)
	}

	clientOpts := append([]Option{
		WithHost(config.Host),
		WithResultType(config.ResultType),
		WithMaxAttempts(config.MaxAttempts),
		WithPollInterval(time.Duration(config.PollIntervalSec) * time.Second),
	}, opts...)

	return &Provider{
		config: config,
		client: NewClient(Credentials{AppID: config.AppID, SecretKey: config.SecretKey}, clientOpts...),
	}
}

// NewProviderFromSettings creates a provider from generic settings.
func NewProviderFromSettings(settings map[string]interface{}, appID, secretKey string, opts ...Option) (*Provider, error) {
	config := Config{
		AppID:     appID,
		SecretKey: secretKey,
	}

	if host, ok := settings["host"].(string); ok {
		config.Host = host
	}
	if resultType, ok := settings["result_type"].(string); ok {
		config.ResultType = resultType
	}
	if attempts, ok := settings["max_attempts"].(int); ok {
		config.MaxAttempts = attempts
	}
	if interval, ok := settings["poll_interval_sec"].(int); ok {
		config.PollIntervalSec = interval
	}

	return NewProvider(config, opts...), nil
}

// Transcript implements the original Transcriber interface.
func (p *Provider) Transcript(inputFilePath string) (string, error) {
	response, err := p.TranscriptWithOptions(context.Background(), &provider.TranscriptionRequest{
		InputFilePath: inputFilePath,
	})
	if err != nil {
		return "", err
	}
	return response.Text, nil
}

// TranscriptWithOptions uploads the file, waits for the order to reach a
// terminal status and extracts the transcript text.
func (p *Provider) TranscriptWithOptions(ctx context.Context, request *provider.TranscriptionRequest) (*provider.TranscriptionResponse, error) {
	startTime := time.Now()

	if request.InputFilePath == "" {
		return nil, &provider.TranscriptionError{
			Code:      "invalid_input",
			Message:   "input file path is required",
			Provider:  ProviderName,
			Retryable: false,
		}
	}

	fileInfo, err := os.Stat(request.InputFilePath)
	if err != nil {
		code := "file_error"
		if os.IsNotExist(err) {
			code = "file_not_found"
		}
		return nil, &provider.TranscriptionError{
			Code:      code,
			Message:   fmt.Sprintf("cannot access input file: %v", err),
			Provider:  ProviderName,
			Retryable: false,
		}
	}

	if fileInfo.Size() > maxUploadSizeMB*1024*1024 {
		return nil, &provider.TranscriptionError{
			Code:        "file_too_large",
			Message:     fmt.Sprintf("file size exceeds %dMB limit", maxUploadSizeMB),
			Provider:    ProviderName,
			Retryable:   false,
			Suggestions: []string{"Split the recording into smaller files"},
		}
	}

	transcription, err := p.client.Transcribe(ctx, request.InputFilePath)
	if err != nil {
		return nil, mapProviderError(err)
	}

	return &provider.TranscriptionResponse{
		Text:           transcription.Text,
		OrderID:        transcription.OrderID,
		RawResult:      transcription.Result.Raw,
		Duration:       time.Duration(EstimateDuration(fileInfo.Size())) * time.Second,
		ProcessingTime: time.Since(startTime),
	}, nil
}

// mapProviderError converts the client's typed errors into provider
// errors. Context errors pass through unchanged so callers can detect
// cancellation with errors.Is.
func mapProviderError(err error) error {
	var (
		fileErr      *FileError
		transportErr *TransportError
		malformedErr *MalformedResponseError
		apiErr       *APIError
		failedErr    *TranscriptionFailedError
		timeoutErr   *PollingTimeoutError
	)

	switch {
	case errors.As(err, &fileErr):
		code := "file_error"
		if os.IsNotExist(fileErr.Err) {
			code = "file_not_found"
		}
		return &provider.TranscriptionError{
			Code:      code,
			Message:   fileErr.Error(),
			Provider:  ProviderName,
			Retryable: false,
		}

	case errors.As(err, &transportErr):
		return &provider.TranscriptionError{
			Code:        "network_error",
			Message:     fmt.Sprintf("failed to call iFlytek API: %v", transportErr),
			Provider:    ProviderName,
			Retryable:   true,
			Suggestions: []string{"Check network connectivity", "Retry after a short wait"},
		}

	case errors.As(err, &malformedErr):
		return &provider.TranscriptionError{
			Code:      "response_parse_error",
			Message:   malformedErr.Error(),
			Provider:  ProviderName,
			Retryable: false,
		}

	case errors.As(err, &apiErr):
		return mapAPIError(apiErr)

	case errors.As(err, &failedErr):
		return &provider.TranscriptionError{
			Code:        "transcription_failed",
			Message:     failedErr.Error(),
			Provider:    ProviderName,
			Retryable:   false,
			Suggestions: []string{"Verify the audio file contains audible speech"},
		}

	case errors.As(err, &timeoutErr):
		return &provider.TranscriptionError{
			Code:        "polling_timeout",
			Message:     timeoutErr.Error(),
			Provider:    ProviderName,
			Retryable:   true,
			Suggestions: []string{"Increase max_attempts or poll_interval_sec for long recordings"},
		}
	}

	return err
}

// mapAPIError refines application error codes into provider error codes
// with retry hints.
func mapAPIError(apiErr *APIError) *provider.TranscriptionError {
	te := &provider.TranscriptionError{
		Code:     "api_error",
		Message:  apiErr.Error(),
		Provider: ProviderName,
	}

	switch apiErr.Code {
	case CodeInvalidSignature, CodeInvalidAppID:
		te.Code = "authentication_failed"
		te.Suggestions = []string{"Check XFYUN_APP_ID and XFYUN_SECRET_KEY"}
	case CodeSignatureExpired:
		te.Code = "authentication_failed"
		te.Retryable = true
		te.Suggestions = []string{"Check the system clock; signatures embed a timestamp"}
	case CodeRateLimited, CodeConcurrencyExceeded:
		te.Code = "rate_limit_exceeded"
		te.Retryable = true
		te.Suggestions = []string{"Wait a moment and try again"}
	case CodeInsufficientBalance:
		te.Code = "insufficient_balance"
		te.Suggestions = []string{"Top up the iFlytek account quota"}
	case CodeInvalidParameter, CodeBadInput:
		te.Code = "invalid_request"
	case CodeInvalidOrderID, CodeOrderNotFound:
		te.Code = "order_not_found"
	case CodeInvalidAudioFile, CodeInvalidAudioFormat:
		te.Code = "invalid_audio"
		te.Suggestions = []string{"Convert the file to 16kHz mono wav or mp3"}
	case CodeDurationExceeded:
		te.Code = "audio_too_long"
		te.Suggestions = []string{fmt.Sprintf("Split recordings longer than %d hours", maxDurationHours)}
	case CodeTranscribeFailed:
		te.Code = "transcription_failed"
	case CodeTranscribeTimeout, CodeInternalError:
		te.Code = "server_error"
		te.Retryable = true
	}

	return te
}

// GetProviderInfo returns provider information
func (p *Provider) GetProviderInfo() provider.ProviderInfo {
	return provider.ProviderInfo{
		Name:               ProviderName,
		DisplayName:        "iFlytek Long-Form ASR",
		Type:               provider.ProviderTypeRemote,
		Version:            "v2",
		SupportedFormats:   []provider.AudioFormat{provider.FormatWAV, provider.FormatMP3, provider.FormatM4A, provider.FormatAMR},
		SupportedLanguages: []string{"zh", "en"},
		MaxFileSizeMB:      maxUploadSizeMB,
		MaxDurationSec:     maxDurationHours * 3600,
		RequiresInternet:   true,
		RequiresAPIKey:     true,
	}
}

// ValidateConfiguration validates the provider configuration
func (p *Provider) ValidateConfiguration() error {
	if p.config.AppID == "" {
		return fmt.Errorf("iFlytek app id is required")
	}
	if p.config.SecretKey == "" {
		return fmt.Errorf("iFlytek secret key is required")
	}
	if p.config.MaxAttempts <= 0 {
		return fmt.Errorf("max_attempts must be positive")
	}
	if p.config.PollIntervalSec <= 0 {
		return fmt.Errorf("poll_interval_sec must be positive")
	}
	return nil
}

// HealthCheck performs a health check on the provider
func (p *Provider) HealthCheck(ctx context.Context) error {
	if err := p.ValidateConfiguration(); err != nil {
		return fmt.Errorf("configuration validation failed: %w", err)
	}

	if ctx == nil {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
	}

	// Query a known-bad order id. A well-formed application error proves
	// the endpoint is reachable and the signature passed verification.
	_, err := p.client.queryOrder(ctx, OrderHandle{OrderID: "health-check"})
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		switch apiErr.Code {
		case CodeInvalidSignature, CodeSignatureExpired, CodeInvalidAppID:
			return fmt.Errorf("credential check failed: %w", apiErr)
		}
		return nil
	}
	if err != nil {
		return fmt.Errorf("iFlytek API health check failed: %w", err)
	}
	return nil
}
