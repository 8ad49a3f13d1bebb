package services

import (
	"context"
	"database/sql"
	"encoding/json"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"iflytek-asr/internal/app/api/provider"
	"iflytek-asr/internal/app/model"
	"iflytek-asr/internal/app/repository"
	"iflytek-asr/internal/app/storage"
	"iflytek-asr/internal/app/utils"
	"iflytek-asr/web/dto"
	"iflytek-asr/web/errors"
)

// TranscriptionService exposes transcription jobs and history to the API layer.
type TranscriptionService interface {
	SubmitJob(ctx context.Context, req *dto.CreateTranscriptionRequest) (*dto.JobResponse, error)
	GetJob(jobID string) (*dto.JobResponse, error)
	ListTranscriptions(ctx context.Context, query dto.ListTranscriptionsQuery) ([]dto.TranscriptionResponse, error)
	GetTranscription(ctx context.Context, id int) (*dto.TranscriptionResponse, error)
}

// TranscriptionServiceImpl implements TranscriptionService. Jobs run async in
// the server process; submitting the same file twice while the first job is
// still running is rejected by content hash.
type TranscriptionServiceImpl struct {
	registry provider.ProviderRegistry
	dao      repository.TranscriptionDAO
	store    storage.ArtifactStore
	logger   *zap.Logger

	mu       sync.RWMutex
	jobs     map[string]*dto.JobResponse
	inFlight map[string]string // file hash -> job ID
}

// NewTranscriptionService creates a new transcription service
func NewTranscriptionService(
	registry provider.ProviderRegistry,
	dao repository.TranscriptionDAO,
	store storage.ArtifactStore,
	logger *zap.Logger,
) *TranscriptionServiceImpl {
	return &TranscriptionServiceImpl{
		registry: registry,
		dao:      dao,
		store:    store,
		logger:   logger,
		jobs:     make(map[string]*dto.JobResponse),
		inFlight: make(map[string]string),
	}
}

// SubmitJob validates the request and starts an async transcription job.
func (s *TranscriptionServiceImpl) SubmitJob(ctx context.Context, req *dto.CreateTranscriptionRequest) (*dto.JobResponse, error) {
	size, err := utils.GetFileSize(req.FilePath)
	if err != nil {
		return nil, errors.NewBadRequestError("File not accessible: " + req.FilePath)
	}
	if size == 0 {
		return nil, errors.NewBadRequestError("File is empty: " + req.FilePath)
	}

	fileHash, err := utils.CalculateFileHash(req.FilePath)
	if err != nil {
		return nil, errors.NewInternalError("Failed to hash file")
	}

	s.mu.Lock()
	if jobID, running := s.inFlight[fileHash]; running {
		s.mu.Unlock()
		return nil, errors.NewConflictError("File is already being transcribed in job " + jobID)
	}

	job := &dto.JobResponse{
		JobID:       uuid.New().String(),
		Status:      "processing",
		FilePath:    req.FilePath,
		User:        req.User,
		Provider:    req.Provider,
		SubmittedAt: time.Now(),
	}
	s.jobs[job.JobID] = job
	s.inFlight[fileHash] = job.JobID
	s.mu.Unlock()

	go s.process(job.JobID, fileHash, req)

	snapshot := *job
	return &snapshot, nil
}

// process runs the transcription and records artifacts and history. It uses a
// background context: the job must outlive the HTTP request that started it.
func (s *TranscriptionServiceImpl) process(jobID, fileHash string, req *dto.CreateTranscriptionRequest) {
	ctx := context.Background()

	resp, err := s.transcribe(ctx, req)
	if err != nil {
		s.logger.Error("transcription job failed",
			zap.String("job_id", jobID), zap.String("file", req.FilePath), zap.Error(err))
		s.recordError(req, err.Error())
		s.completeJob(jobID, fileHash, func(job *dto.JobResponse) {
			job.Status = "failed"
			job.Error = err.Error()
		})
		return
	}

	artifacts, err := s.store.SaveArtifacts(ctx, jobBaseName(req.FilePath), rawPayload(resp), resp.Text)
	if err != nil {
		s.logger.Error("artifact write failed",
			zap.String("job_id", jobID), zap.Error(err))
		s.recordError(req, "artifact error: "+err.Error())
		s.completeJob(jobID, fileHash, func(job *dto.JobResponse) {
			job.Status = "failed"
			job.Error = "artifact error: " + err.Error()
		})
		return
	}

	err = s.dao.RecordToDB(req.User, filepath.Dir(req.FilePath), filepath.Base(req.FilePath),
		resp.Provider, resp.OrderID, int(resp.Duration.Seconds()), resp.Text, time.Now(), 0, "")
	if err != nil {
		s.logger.Warn("failed to record history row",
			zap.String("job_id", jobID), zap.Error(err))
	}

	s.completeJob(jobID, fileHash, func(job *dto.JobResponse) {
		job.Status = "completed"
		job.Provider = resp.Provider
		job.OrderID = resp.OrderID
		job.Transcript = resp.Text
		job.RawJSONPath = artifacts.RawJSONPath
		job.TranscriptPath = artifacts.TranscriptPath
	})

	s.logger.Info("transcription job completed",
		zap.String("job_id", jobID), zap.String("provider", resp.Provider))
}

func (s *TranscriptionServiceImpl) transcribe(ctx context.Context, req *dto.CreateTranscriptionRequest) (*provider.TranscriptionResponse, error) {
	var p provider.TranscriptionProvider
	var err error

	if req.Provider != "" {
		p, err = s.registry.GetProvider(req.Provider)
	} else {
		p, err = s.registry.GetDefaultProvider()
	}
	if err != nil {
		return nil, err
	}

	resp, err := p.TranscriptWithOptions(ctx, &provider.TranscriptionRequest{
		InputFilePath: req.FilePath,
		Language:      req.Language,
	})
	if err != nil {
		return nil, err
	}

	if resp.Provider == "" {
		resp.Provider = p.GetProviderInfo().Name
	}
	return resp, nil
}

func (s *TranscriptionServiceImpl) recordError(req *dto.CreateTranscriptionRequest, message string) {
	err := s.dao.RecordToDB(req.User, filepath.Dir(req.FilePath), filepath.Base(req.FilePath),
		req.Provider, "", 0, "", time.Now(), 1, message)
	if err != nil {
		s.logger.Warn("failed to record error row", zap.Error(err))
	}
}

func (s *TranscriptionServiceImpl) completeJob(jobID, fileHash string, update func(*dto.JobResponse)) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if job, ok := s.jobs[jobID]; ok {
		update(job)
		now := time.Now()
		job.CompletedAt = &now
	}
	delete(s.inFlight, fileHash)
}

// GetJob returns the current snapshot of an async job.
func (s *TranscriptionServiceImpl) GetJob(jobID string) (*dto.JobResponse, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	job, ok := s.jobs[jobID]
	if !ok {
		return nil, errors.NewNotFoundError("job")
	}

	snapshot := *job
	return &snapshot, nil
}

// ListTranscriptions lists history rows, newest first.
func (s *TranscriptionServiceImpl) ListTranscriptions(ctx context.Context, query dto.ListTranscriptionsQuery) ([]dto.TranscriptionResponse, error) {
	var rows []model.Transcription
	var err error

	if query.User != "" {
		rows, err = s.dao.GetAllByUser(query.User)
		if err == nil && len(rows) > query.Limit {
			rows = rows[:query.Limit]
		}
	} else {
		rows, err = s.dao.GetRecent(query.Limit)
	}
	if err != nil {
		return nil, errors.NewInternalError("Failed to list transcriptions")
	}

	responses := make([]dto.TranscriptionResponse, len(rows))
	for i := range rows {
		responses[i] = dto.ToTranscriptionResponse(&rows[i])
	}
	return responses, nil
}

// GetTranscription returns one history row by ID.
func (s *TranscriptionServiceImpl) GetTranscription(ctx context.Context, id int) (*dto.TranscriptionResponse, error) {
	row, err := s.dao.GetByID(id)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, errors.NewNotFoundError("transcription")
		}
		return nil, errors.NewInternalError("Failed to retrieve transcription")
	}

	resp := dto.ToTranscriptionResponse(row)
	return &resp, nil
}

// rawPayload picks what to archive as the raw result: the provider's own
// terminal payload when it has one, otherwise the response itself.
func rawPayload(resp *provider.TranscriptionResponse) json.RawMessage {
	if len(resp.RawResult) > 0 {
		return resp.RawResult
	}
	raw, err := json.Marshal(resp)
	if err != nil {
		return json.RawMessage(`{}`)
	}
	return raw
}

func jobBaseName(filePath string) string {
	base := filepath.Base(filePath)
	return strings.TrimSuffix(base, filepath.Ext(base))
}
