package provider

import (
	"context"
	"time"
)

// TranscriptionProvider is the contract every transcription backend
// implements. New providers register a creator in their package init and
// are selected by name through the factory, so adding one never touches
// existing code.
type TranscriptionProvider interface {
	// Core transcription, compatible with the plain Transcriber interface
	Transcript(inputFilePath string) (string, error)

	// Transcription with full options and context support
	TranscriptWithOptions(ctx context.Context, request *TranscriptionRequest) (*TranscriptionResponse, error)

	// Provider metadata and capabilities
	GetProviderInfo() ProviderInfo

	// Configuration validation
	ValidateConfiguration() error

	// Health check to verify the provider is reachable and functioning
	HealthCheck(ctx context.Context) error
}

// ProviderRegistry manages live provider instances
type ProviderRegistry interface {
	// Register a provider
	RegisterProvider(name string, provider TranscriptionProvider) error

	// Get a provider by name
	GetProvider(name string) (TranscriptionProvider, error)

	// List all registered providers
	ListProviders() []string

	// Get the default provider
	GetDefaultProvider() (TranscriptionProvider, error)

	// Set the default provider
	SetDefaultProvider(name string) error

	// Health check all providers
	HealthCheckAll(ctx context.Context) map[string]error
}

// ProviderMetrics records per-provider usage and outcome metrics
type ProviderMetrics interface {
	// Record a successful transcription
	RecordSuccess(provider string, latency time.Duration, audioSeconds float64)

	// Record a failed transcription
	RecordFailure(provider string, errorType string)
}
