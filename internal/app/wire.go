//go:build wireinject
// +build wireinject

package app

import (
	"github.com/google/wire"

	"iflytek-asr/internal/app/converter"
	"iflytek-asr/internal/app/temporal/worker"
	"iflytek-asr/web"
	"iflytek-asr/web/services"
)

// InitializeConverter assembles the batch converter: the provider fallback
// chain, the history repository and the artifact store.
func InitializeConverter() *converter.Converter {
	wire.Build(converter.NewConverter, provideTranscriber, provideTranscriptionDAO, provideArtifactStore, provideLogger)
	return &converter.Converter{}
}

// InitializeServer assembles the HTTP API server.
func InitializeServer(cfg web.Config) (*web.Server, error) {
	wire.Build(
		web.NewServer,
		services.NewTranscriptionService,
		wire.Bind(new(services.TranscriptionService), new(*services.TranscriptionServiceImpl)),
		provideProviderRegistry,
		provideTranscriptionDAO,
		provideArtifactStore,
		provideLogger,
	)
	return nil, nil
}

// InitializeWorker assembles the Temporal worker.
func InitializeWorker() (*worker.Worker, error) {
	wire.Build(worker.NewWorker, provideProviderRegistry, provideTranscriptionDAO, provideArtifactStore, provideLogger)
	return nil, nil
}
