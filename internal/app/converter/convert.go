package converter

import (
	"context"
	"encoding/json"
	"fmt"
	"path/filepath"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"go.uber.org/zap"

	"iflytek-asr/internal/app/api/provider"
	"iflytek-asr/internal/app/model"
	"iflytek-asr/internal/app/repository"
	"iflytek-asr/internal/app/storage"
	"iflytek-asr/internal/app/util/files"
)

// Transcriber is the transcription backend the converter drives. The
// provider fallback chain and the distributed client both satisfy it.
type Transcriber interface {
	Transcript(inputFilePath string) (string, error)
	TranscriptWithOptions(ctx context.Context, request *provider.TranscriptionRequest) (*provider.TranscriptionResponse, error)
}

// Outcome reports one converted file.
type Outcome struct {
	Text      string
	Provider  string
	OrderID   string
	Artifacts *storage.Artifacts
}

type Converter struct {
	transcriber Transcriber
	db          repository.TranscriptionDAO
	store       storage.ArtifactStore
	logger      *zap.Logger
	progress    ProgressConfig
}

func NewConverter(transcriber Transcriber, transcriptionDAO repository.TranscriptionDAO,
	store storage.ArtifactStore, logger *zap.Logger) *Converter {
	return &Converter{
		transcriber: transcriber,
		db:          transcriptionDAO,
		store:       store,
		logger:      logger,
		progress:    ProgressConfig{Enabled: ShouldShowProgress(false)},
	}
}

// SetProgress overrides the progress bar configuration, which defaults to
// enabled on a TTY.
func (c *Converter) SetProgress(config ProgressConfig) {
	c.progress = config
}

func (c *Converter) Close() error {
	return c.db.Close()
}

// Do transcribes up to convertCount unprocessed audio files from inputDir,
// running at most parallel files at once.
func (c *Converter) Do(ctx context.Context, userNickname, inputDir string, convertCount, parallel int) error {
	fileInfos, err := files.GetAllAudioFiles(inputDir)
	if err != nil {
		return fmt.Errorf("scan input dir: %w", err)
	}

	filesToProcess := c.filterUnProcessedFiles(fileInfos, convertCount)
	if len(filesToProcess) == 0 {
		c.logger.Info("no unprocessed audio files found", zap.String("dir", inputDir))
		return nil
	}
	if parallel < 1 {
		parallel = 1
	}

	progressManager := NewProgressManager(c.progress)
	bar := progressManager.CreateBar(len(filesToProcess), FormatProgressDescription("Transcribing", userNickname))

	var wg sync.WaitGroup
	sem := make(chan struct{}, parallel)
	var failed int64

	for _, file := range filesToProcess {
		wg.Add(1)
		go func(file model.FileInfo) {
			defer wg.Done()
			defer bar.Increment()

			sem <- struct{}{}
			_, err := c.ConvertToText(ctx, userNickname, file)
			<-sem

			if err != nil {
				atomic.AddInt64(&failed, 1)
				c.logger.Error("transcription failed",
					zap.String("file", file.Name), zap.Error(err))
				return
			}
			c.logger.Info("transcription completed", zap.String("file", file.Name))
		}(file)
	}
	wg.Wait()
	bar.Complete()
	progressManager.Wait()

	if n := atomic.LoadInt64(&failed); n > 0 {
		return fmt.Errorf("%d of %d files failed", n, len(filesToProcess))
	}
	return nil
}

// ConvertFile transcribes a single explicitly named file, bypassing the
// already-processed check.
func (c *Converter) ConvertFile(ctx context.Context, userNickname, filePath string) (*Outcome, error) {
	return c.ConvertToText(ctx, userNickname, model.FileInfo{
		FullPath: filePath,
		Name:     filepath.Base(filePath),
	})
}

func (c *Converter) filterUnProcessedFiles(fileInfos []model.FileInfo, convertCount int) []model.FileInfo {
	filesToProcess := make([]model.FileInfo, 0, convertCount)

	for _, fileInfo := range fileInfos {
		id, err := c.db.CheckIfFileProcessed(fileInfo.Name)
		if err == nil {
			c.logger.Info("file already processed, skipping",
				zap.String("file", fileInfo.Name), zap.Int("id", id))
			continue
		}

		filesToProcess = append(filesToProcess, fileInfo)
		if len(filesToProcess) >= convertCount {
			break
		}
	}
	return filesToProcess
}

// ConvertToText transcribes one file, writes its artifacts, and records the
// outcome in the history repository. Failed attempts are recorded with
// has_error=1 so the next batch run retries them.
func (c *Converter) ConvertToText(ctx context.Context, userNickname string, file model.FileInfo) (*Outcome, error) {
	c.logger.Info("processing file", zap.String("file", file.Name))
	inputDir := filepath.Dir(file.FullPath)

	response, err := c.transcriber.TranscriptWithOptions(ctx, &provider.TranscriptionRequest{
		InputFilePath: file.FullPath,
	})
	if err != nil {
		c.recordError(userNickname, inputDir, file.Name, fmt.Sprintf("transcription error: %v", err))
		return nil, fmt.Errorf("transcription error: %w", err)
	}

	artifacts, err := c.store.SaveArtifacts(ctx, baseName(file.Name), rawPayload(response), response.Text)
	if err != nil {
		c.recordError(userNickname, inputDir, file.Name, fmt.Sprintf("artifact error: %v", err))
		return nil, fmt.Errorf("artifact error: %w", err)
	}

	err = c.db.RecordToDB(userNickname, inputDir, file.Name, response.Provider, response.OrderID,
		int(response.Duration.Seconds()), response.Text, time.Now(), 0, "")
	if err != nil {
		return nil, fmt.Errorf("record transcription: %w", err)
	}

	return &Outcome{
		Text:      response.Text,
		Provider:  response.Provider,
		OrderID:   response.OrderID,
		Artifacts: artifacts,
	}, nil
}

func (c *Converter) recordError(userNickname, inputDir, fileName, message string) {
	err := c.db.RecordToDB(userNickname, inputDir, fileName, "", "", 0, "", time.Now(), 1, message)
	if err != nil {
		c.logger.Warn("failed to record error row",
			zap.String("file", fileName), zap.Error(err))
	}
}

// rawPayload picks what to archive as the raw result: the provider's own
// terminal payload when it has one, otherwise the response itself.
func rawPayload(response *provider.TranscriptionResponse) json.RawMessage {
	if len(response.RawResult) > 0 {
		return response.RawResult
	}
	raw, err := json.Marshal(response)
	if err != nil {
		return json.RawMessage(`{}`)
	}
	return raw
}

func baseName(fileName string) string {
	return strings.TrimSuffix(fileName, filepath.Ext(fileName))
}
