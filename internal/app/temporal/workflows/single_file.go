package workflows

import (
	"fmt"
	"time"

	"go.temporal.io/sdk/temporal"
	"go.temporal.io/sdk/workflow"

	"iflytek-asr/internal/app/common"
)

// SingleFileTranscriptionWorkflow transcribes one audio file and persists the
// outcome: transcribe, save artifacts, record history. Artifact and history
// failures after a successful transcription fail the workflow rather than
// silently dropping the result.
func SingleFileTranscriptionWorkflow(ctx workflow.Context, req common.SingleFileWorkflowRequest) (common.SingleFileWorkflowResult, error) {
	logger := workflow.GetLogger(ctx)
	logger.Info("Starting single file transcription workflow", "jobId", req.JobID, "file", req.FilePath)

	startTime := workflow.Now(ctx)

	activityOptions := workflow.ActivityOptions{
		StartToCloseTimeout: 30 * time.Minute,
		HeartbeatTimeout:    30 * time.Second,
		RetryPolicy: &temporal.RetryPolicy{
			InitialInterval:    time.Second,
			BackoffCoefficient: 2.0,
			MaximumInterval:    100 * time.Second,
			MaximumAttempts:    3,
		},
	}
	ctx = workflow.WithActivityOptions(ctx, activityOptions)

	var transcription common.TranscribeActivityResult
	err := workflow.ExecuteActivity(ctx, "TranscribeFile", common.TranscribeActivityRequest{
		JobID:    req.JobID,
		FilePath: req.FilePath,
		Provider: req.Provider,
		Language: req.Language,
		Options:  req.Options,
	}).Get(ctx, &transcription)

	if err != nil {
		logger.Error("Failed to transcribe file", "error", err)
		recordFailure(ctx, req, err)
		return common.SingleFileWorkflowResult{
			JobID: req.JobID,
			Error: fmt.Sprintf("Failed to transcribe: %v", err),
		}, err
	}

	var artifacts common.SaveArtifactsResult
	err = workflow.ExecuteActivity(ctx, "SaveArtifacts", common.SaveArtifactsRequest{
		JobID:      req.JobID,
		FilePath:   req.FilePath,
		Transcript: transcription.Transcript,
		RawResult:  transcription.RawResult,
	}).Get(ctx, &artifacts)

	if err != nil {
		logger.Error("Failed to save artifacts", "error", err)
		recordFailure(ctx, req, err)
		return common.SingleFileWorkflowResult{
			JobID: req.JobID,
			Error: fmt.Sprintf("Failed to save artifacts: %v", err),
		}, err
	}

	err = workflow.ExecuteActivity(ctx, "RecordHistory", common.RecordHistoryRequest{
		JobID:      req.JobID,
		FilePath:   req.FilePath,
		User:       req.User,
		Provider:   transcription.Provider,
		OrderID:    transcription.OrderID,
		Transcript: transcription.Transcript,
	}).Get(ctx, nil)

	if err != nil {
		logger.Error("Failed to record history", "error", err)
		return common.SingleFileWorkflowResult{
			JobID: req.JobID,
			Error: fmt.Sprintf("Failed to record history: %v", err),
		}, err
	}

	processingTime := workflow.Now(ctx).Sub(startTime)

	result := common.SingleFileWorkflowResult{
		JobID:          req.JobID,
		Transcript:     transcription.Transcript,
		Provider:       transcription.Provider,
		OrderID:        transcription.OrderID,
		RawJSONPath:    artifacts.RawJSONPath,
		TranscriptPath: artifacts.TranscriptPath,
		ProcessingTime: processingTime,
	}

	logger.Info("Single file transcription completed",
		"jobId", req.JobID,
		"provider", result.Provider,
		"duration", result.ProcessingTime)

	return result, nil
}

// recordFailure writes an error row so batch runs will retry the file. The
// write is best effort, the workflow error is already on its way out.
func recordFailure(ctx workflow.Context, req common.SingleFileWorkflowRequest, cause error) {
	err := workflow.ExecuteActivity(ctx, "RecordHistory", common.RecordHistoryRequest{
		JobID:      req.JobID,
		FilePath:   req.FilePath,
		User:       req.User,
		Provider:   req.Provider,
		Failed:     true,
		ErrMessage: cause.Error(),
	}).Get(ctx, nil)
	if err != nil {
		workflow.GetLogger(ctx).Error("Failed to record failure row", "error", err)
	}
}
