package common

import "os"

const (
	// Temporal constants
	DefaultTaskQueue = "a2t-transcription-queue"
	DefaultNamespace = "default"

	// Default service addresses
	DefaultTemporalHost = "127.0.0.1:7233"

	// SingleFileWorkflowName is the registered name of the single file
	// transcription workflow. Clients start it by name so they do not need
	// to link the workflows package.
	SingleFileWorkflowName = "SingleFileTranscriptionWorkflow"
)

// GetEnv returns the value of the environment variable or the fallback.
func GetEnv(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}
