package activities

import (
	"context"
	"path/filepath"
	"time"

	"go.temporal.io/sdk/activity"

	"iflytek-asr/internal/app/common"
	"iflytek-asr/internal/app/repository"
)

// HistoryActivities records transcription outcomes in the history repository.
type HistoryActivities struct {
	dao repository.TranscriptionDAO
}

// NewHistoryActivities creates a new instance of history activities
func NewHistoryActivities(dao repository.TranscriptionDAO) *HistoryActivities {
	return &HistoryActivities{
		dao: dao,
	}
}

// RecordHistory appends one row to the transcription history. Failed jobs are
// recorded with has_error=1 so batch runs will retry the file later.
func (a *HistoryActivities) RecordHistory(ctx context.Context, req common.RecordHistoryRequest) error {
	logger := activity.GetLogger(ctx)

	hasError := 0
	if req.Failed {
		hasError = 1
	}

	err := a.dao.RecordToDB(req.User, filepath.Dir(req.FilePath), filepath.Base(req.FilePath),
		req.Provider, req.OrderID, 0, req.Transcript, time.Now(), hasError, req.ErrMessage)
	if err != nil {
		logger.Error("Failed to record history", "jobId", req.JobID, "error", err)
		return err
	}

	logger.Info("History recorded", "jobId", req.JobID, "hasError", hasError)
	return nil
}
