package activities

import (
	"context"
	"fmt"
	"time"

	"go.temporal.io/sdk/activity"

	"iflytek-asr/internal/app/api/provider"
	"iflytek-asr/internal/app/common"
)

// TranscribeActivities runs transcriptions through the provider registry.
type TranscribeActivities struct {
	registry provider.ProviderRegistry
}

// NewTranscribeActivities creates a new instance of transcription activities
func NewTranscribeActivities(registry provider.ProviderRegistry) *TranscribeActivities {
	return &TranscribeActivities{
		registry: registry,
	}
}

// TranscribeFile transcribes one audio file with the requested provider, or
// the registry default when the request names none. Long provider calls run
// in a goroutine so the activity can keep heartbeating.
func (a *TranscribeActivities) TranscribeFile(ctx context.Context, req common.TranscribeActivityRequest) (common.TranscribeActivityResult, error) {
	logger := activity.GetLogger(ctx)
	logger.Info("Starting transcription", "jobId", req.JobID, "provider", req.Provider)

	activity.RecordHeartbeat(ctx, fmt.Sprintf("Processing file: %s", req.FilePath))

	startTime := time.Now()

	var transcriber provider.TranscriptionProvider
	var err error

	if req.Provider != "" {
		transcriber, err = a.registry.GetProvider(req.Provider)
	} else {
		transcriber, err = a.registry.GetDefaultProvider()
	}

	if err != nil {
		logger.Error("Failed to get provider", "error", err)
		return common.TranscribeActivityResult{JobID: req.JobID}, err
	}

	providerReq := &provider.TranscriptionRequest{
		InputFilePath:   req.FilePath,
		Language:        req.Language,
		ProviderOptions: req.Options,
		Context:         ctx,
	}

	heartbeatTicker := time.NewTicker(10 * time.Second)
	defer heartbeatTicker.Stop()

	done := make(chan struct{})
	var response *provider.TranscriptionResponse
	var transcribeErr error

	go func() {
		response, transcribeErr = transcriber.TranscriptWithOptions(ctx, providerReq)
		close(done)
	}()

	for {
		select {
		case <-done:
			if transcribeErr != nil {
				logger.Error("Transcription failed", "error", transcribeErr)
				return common.TranscribeActivityResult{JobID: req.JobID}, transcribeErr
			}

			result := common.TranscribeActivityResult{
				JobID:          req.JobID,
				Transcript:     response.Text,
				Provider:       transcriber.GetProviderInfo().Name,
				OrderID:        response.OrderID,
				RawResult:      response.RawResult,
				ProcessingTime: time.Since(startTime),
			}

			logger.Info("Transcription completed",
				"jobId", req.JobID,
				"provider", result.Provider,
				"duration", result.ProcessingTime)

			return result, nil

		case <-heartbeatTicker.C:
			activity.RecordHeartbeat(ctx, fmt.Sprintf("Still processing file: %s", req.FilePath))

		case <-ctx.Done():
			return common.TranscribeActivityResult{JobID: req.JobID}, ctx.Err()
		}
	}
}
