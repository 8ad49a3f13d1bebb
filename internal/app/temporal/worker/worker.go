package worker

import (
	"context"
	"fmt"
	"os"
	"time"

	sdkworker "go.temporal.io/sdk/worker"
	"go.uber.org/zap"

	"iflytek-asr/internal/app/api/provider"
	"iflytek-asr/internal/app/repository"
	"iflytek-asr/internal/app/storage"
	"iflytek-asr/internal/app/temporal/activities"
	"iflytek-asr/internal/app/temporal/pkg/common"
	"iflytek-asr/internal/app/temporal/workflows"
)

// Worker hosts the transcription workflow and its activities on the shared
// task queue. Each worker process owns its provider registry, artifact store
// and history repository, so jobs land wherever the worker runs.
type Worker struct {
	logger   *zap.Logger
	registry provider.ProviderRegistry
	dao      repository.TranscriptionDAO
	store    storage.ArtifactStore
}

// NewWorker creates a new transcription worker
func NewWorker(logger *zap.Logger, registry provider.ProviderRegistry,
	dao repository.TranscriptionDAO, store storage.ArtifactStore) *Worker {
	return &Worker{
		logger:   logger,
		registry: registry,
		dao:      dao,
		store:    store,
	}
}

// Run connects to Temporal and processes jobs until ctx is cancelled.
func (w *Worker) Run(ctx context.Context) error {
	config := common.DefaultTemporalConfig()
	identity := common.GetEnv("WORKER_IDENTITY", fmt.Sprintf("a2t-worker-%s", hostname()))

	w.logger.Info("Starting a2t Temporal worker",
		zap.String("temporalHost", config.HostPort),
		zap.String("taskQueue", config.TaskQueue),
		zap.String("namespace", config.Namespace),
		zap.String("identity", identity),
	)

	temporalClient, err := common.NewTemporalClient(config)
	if err != nil {
		return fmt.Errorf("failed to create Temporal client: %w", err)
	}
	defer temporalClient.Close()

	tw := sdkworker.New(temporalClient, config.TaskQueue, sdkworker.Options{
		Identity:                               identity,
		MaxConcurrentActivityExecutionSize:     10,
		MaxConcurrentWorkflowTaskExecutionSize: 10,
	})

	tw.RegisterWorkflow(workflows.SingleFileTranscriptionWorkflow)

	transcribeActivities := activities.NewTranscribeActivities(w.registry)
	artifactActivities := activities.NewArtifactActivities(w.store)
	historyActivities := activities.NewHistoryActivities(w.dao)

	tw.RegisterActivity(transcribeActivities.TranscribeFile)
	tw.RegisterActivity(artifactActivities.SaveArtifacts)
	tw.RegisterActivity(historyActivities.RecordHistory)

	healthStatus := w.buildHealthStatus(ctx, identity, config)
	healthPort := common.GetEnv("HEALTH_PORT", ":8081")
	startHealthServer(healthPort, healthStatus)
	w.logger.Info("Health server started", zap.String("port", healthPort))

	stopCh := make(chan interface{})
	go func() {
		<-ctx.Done()
		w.logger.Info("Shutting down worker...")
		close(stopCh)
	}()

	if err := tw.Run(stopCh); err != nil {
		return fmt.Errorf("worker failed: %w", err)
	}

	w.logger.Info("Worker stopped")
	return nil
}

func (w *Worker) buildHealthStatus(ctx context.Context, identity string, config common.TemporalConfig) *HealthStatus {
	status := &HealthStatus{
		WorkerID:  identity,
		TaskQueue: config.TaskQueue,
		Status:    "running",
		StartedAt: time.Now(),
		Temporal: ConnectionStatus{
			Connected: true,
			Endpoint:  config.HostPort,
		},
	}

	for _, name := range w.registry.ListProviders() {
		p, err := w.registry.GetProvider(name)
		if err != nil {
			continue
		}

		info := p.GetProviderInfo()
		ps := ProviderStatus{
			Name:      info.Name,
			Type:      string(info.Type),
			Available: true,
		}
		if err := p.HealthCheck(ctx); err != nil {
			ps.Available = false
			ps.Error = err.Error()
		}
		status.Providers = append(status.Providers, ps)
	}

	return status
}

func hostname() string {
	name, err := os.Hostname()
	if err != nil {
		return "unknown"
	}
	return name
}
