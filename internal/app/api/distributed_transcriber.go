package api

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.temporal.io/sdk/client"

	"iflytek-asr/internal/app/common"
	temporalcommon "iflytek-asr/internal/app/temporal/pkg/common"
)

// DistributedTranscriber submits transcription jobs to Temporal workers
// instead of transcribing in-process. Artifacts and history are written by
// the worker that picks the job up.
type DistributedTranscriber struct {
	temporalClient client.Client
	taskQueue      string
}

// TranscriptionJob represents a transcription job
type TranscriptionJob struct {
	ID             string    `json:"id"`
	FilePath       string    `json:"file_path"`
	Status         string    `json:"status"`
	Result         string    `json:"result,omitempty"`
	TranscriptPath string    `json:"transcript_path,omitempty"`
	Error          string    `json:"error,omitempty"`
	SubmittedAt    time.Time `json:"submitted_at"`
	CompletedAt    time.Time `json:"completed_at,omitempty"`
	WorkflowID     string    `json:"workflow_id"`
}

// NewDistributedTranscriber creates a new distributed transcriber
func NewDistributedTranscriber(temporalHost string) (*DistributedTranscriber, error) {
	c, err := client.Dial(client.Options{
		HostPort: temporalHost,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create Temporal client: %w", err)
	}

	return &DistributedTranscriber{
		temporalClient: c,
		taskQueue:      temporalcommon.DefaultTaskQueue,
	}, nil
}

// SubmitJob submits a single file for transcription
func (dt *DistributedTranscriber) SubmitJob(ctx context.Context, filePath, user, providerName string) (*TranscriptionJob, error) {
	jobID := uuid.New().String()
	workflowID := fmt.Sprintf("transcribe-%s-%d", jobID, time.Now().Unix())

	request := common.SingleFileWorkflowRequest{
		JobID:    jobID,
		FilePath: filePath,
		User:     user,
		Provider: providerName,
	}

	options := client.StartWorkflowOptions{
		ID:        workflowID,
		TaskQueue: dt.taskQueue,
	}

	we, err := dt.temporalClient.ExecuteWorkflow(ctx, options, temporalcommon.SingleFileWorkflowName, request)
	if err != nil {
		return nil, fmt.Errorf("failed to start workflow: %w", err)
	}

	job := &TranscriptionJob{
		ID:          jobID,
		FilePath:    filePath,
		Status:      "submitted",
		SubmittedAt: time.Now(),
		WorkflowID:  we.GetID(),
	}

	return job, nil
}

// GetJobStatus retrieves the status of a job
func (dt *DistributedTranscriber) GetJobStatus(ctx context.Context, workflowID string) (*TranscriptionJob, error) {
	desc, err := dt.temporalClient.DescribeWorkflowExecution(ctx, workflowID, "")
	if err != nil {
		return nil, fmt.Errorf("failed to describe workflow: %w", err)
	}

	job := &TranscriptionJob{
		WorkflowID: workflowID,
	}

	if desc.WorkflowExecutionInfo.Status.String() == "Running" {
		job.Status = "processing"
		return job, nil
	}

	job.Status = "completed"

	we := dt.temporalClient.GetWorkflow(ctx, workflowID, "")
	var result common.SingleFileWorkflowResult
	if err := we.Get(ctx, &result); err == nil {
		job.Result = result.Transcript
		job.TranscriptPath = result.TranscriptPath
		if result.Error != "" {
			job.Status = "failed"
			job.Error = result.Error
		}
	}

	return job, nil
}

// WaitForResult waits for a workflow to complete and returns the result
func (dt *DistributedTranscriber) WaitForResult(ctx context.Context, workflowID string) (*TranscriptionJob, error) {
	we := dt.temporalClient.GetWorkflow(ctx, workflowID, "")

	var result common.SingleFileWorkflowResult
	err := we.Get(ctx, &result)
	if err != nil {
		return nil, fmt.Errorf("workflow failed: %w", err)
	}

	job := &TranscriptionJob{
		WorkflowID:     workflowID,
		Status:         "completed",
		Result:         result.Transcript,
		TranscriptPath: result.TranscriptPath,
		CompletedAt:    time.Now(),
	}

	if result.Error != "" {
		job.Status = "failed"
		job.Error = result.Error
	}

	return job, nil
}

// Transcript implements the Transcriber interface by submitting a job and
// blocking until the worker finishes it.
func (dt *DistributedTranscriber) Transcript(inputFilePath string) (string, error) {
	ctx := context.Background()

	job, err := dt.SubmitJob(ctx, inputFilePath, "", "")
	if err != nil {
		return "", err
	}

	done, err := dt.WaitForResult(ctx, job.WorkflowID)
	if err != nil {
		return "", err
	}
	if done.Status == "failed" {
		return "", fmt.Errorf("transcription failed: %s", done.Error)
	}

	return done.Result, nil
}

// Close closes the distributed transcriber
func (dt *DistributedTranscriber) Close() {
	if dt.temporalClient != nil {
		dt.temporalClient.Close()
	}
}
