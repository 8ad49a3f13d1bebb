package activities

import (
	"context"
	"path/filepath"
	"strings"

	"go.temporal.io/sdk/activity"

	"iflytek-asr/internal/app/common"
	"iflytek-asr/internal/app/storage"
)

// ArtifactActivities persists transcription artifacts through the worker's
// artifact store.
type ArtifactActivities struct {
	store storage.ArtifactStore
}

// NewArtifactActivities creates a new instance of artifact activities
func NewArtifactActivities(store storage.ArtifactStore) *ArtifactActivities {
	return &ArtifactActivities{
		store: store,
	}
}

// SaveArtifacts writes the raw provider payload and the plain transcript next
// to each other, named after the audio file.
func (a *ArtifactActivities) SaveArtifacts(ctx context.Context, req common.SaveArtifactsRequest) (common.SaveArtifactsResult, error) {
	logger := activity.GetLogger(ctx)

	base := filepath.Base(req.FilePath)
	base = strings.TrimSuffix(base, filepath.Ext(base))

	artifacts, err := a.store.SaveArtifacts(ctx, base, req.RawResult, req.Transcript)
	if err != nil {
		logger.Error("Failed to save artifacts", "jobId", req.JobID, "error", err)
		return common.SaveArtifactsResult{}, err
	}

	logger.Info("Artifacts saved",
		"jobId", req.JobID,
		"rawJson", artifacts.RawJSONPath,
		"transcript", artifacts.TranscriptPath)

	return common.SaveArtifactsResult{
		RawJSONPath:    artifacts.RawJSONPath,
		TranscriptPath: artifacts.TranscriptPath,
	}, nil
}
