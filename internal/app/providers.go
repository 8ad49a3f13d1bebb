package app

import (
	"log"
	"os"

	"go.uber.org/zap"

	"iflytek-asr/internal/app/api/provider"
	"iflytek-asr/internal/app/converter"
	"iflytek-asr/internal/app/logger"
	"iflytek-asr/internal/app/repository"
	"iflytek-asr/internal/app/repository/pg"
	"iflytek-asr/internal/app/repository/sqlite"
	"iflytek-asr/internal/app/storage"
	"iflytek-asr/internal/config"
)

func provideLogger() *zap.Logger {
	return logger.MustNewLogger(os.Getenv("ENV") == "development")
}

// provideTranscriber builds the provider fallback chain from providers.yaml.
// The chain respects the runtime --provider override when one is set.
func provideTranscriber() converter.Transcriber {
	return provider.NewFallbackTranscriber()
}

// provideTranscriptionDAO selects the history backend: PostgreSQL when
// DATABASE_URL is set, otherwise SQLite under ~/.a2t.
func provideTranscriptionDAO() repository.TranscriptionDAO {
	if connStr := os.Getenv("DATABASE_URL"); connStr != "" {
		dao, err := pg.NewPostgresDB(connStr)
		if err != nil {
			log.Fatalf("Failed to open PostgreSQL history database: %v", err)
		}
		return dao
	}

	dbPath, err := sqlite.DefaultDBPath()
	if err != nil {
		log.Fatalf("Failed to resolve history database path: %v", err)
	}

	dao, err := sqlite.NewSQLiteDB(dbPath)
	if err != nil {
		log.Fatalf("Failed to open history database %s: %v", dbPath, err)
	}
	return dao
}

// provideArtifactStore selects where transcripts and raw results land:
// a MinIO bucket when A2T_STORAGE=minio, otherwise a local directory. The
// directory comes from A2T_OUTPUT_DIR, falling back to the configured
// global output_dir.
func provideArtifactStore() storage.ArtifactStore {
	if os.Getenv("A2T_STORAGE") == "minio" {
		store, err := storage.NewMinioStore(*config.GetNetworkConfig())
		if err != nil {
			log.Fatalf("Failed to connect to MinIO artifact store: %v", err)
		}
		return store
	}

	outputDir := os.Getenv("A2T_OUTPUT_DIR")
	if outputDir == "" {
		cfg, err := provider.NewConfigManager(provider.ConfigPath()).LoadConfig()
		if err == nil && cfg.Global.OutputDir != "" {
			outputDir = cfg.Global.OutputDir
		} else {
			outputDir = "results"
		}
	}
	return storage.NewLocalStore(outputDir)
}

// provideProviderRegistry creates and configures the provider registry used
// by the Temporal worker. Providers that fail to build are skipped so one
// bad credential does not take the worker down.
func provideProviderRegistry() (provider.ProviderRegistry, error) {
	cfg, err := provider.NewConfigManager(provider.ConfigPath()).LoadConfig()
	if err != nil {
		return nil, err
	}

	registry := provider.NewProviderRegistry()
	factory := provider.NewProviderFactory()

	for name, pc := range cfg.Providers {
		if !pc.Enabled {
			continue
		}

		p, err := factory.CreateProvider(pc.Type, map[string]interface{}{
			"settings": pc.Settings,
			"auth":     map[string]interface{}{"api_key": pc.Auth.APIKey, "base_url": pc.Auth.BaseURL},
		})
		if err != nil {
			log.Printf("Failed to create provider %s: %v", name, err)
			continue
		}

		if err := registry.RegisterProvider(name, p); err != nil {
			log.Printf("Failed to register provider %s: %v", name, err)
			continue
		}

		log.Printf("Registered provider: %s (%s)", name, pc.Type)
	}

	if cfg.DefaultProvider != "" {
		if err := registry.SetDefaultProvider(cfg.DefaultProvider); err != nil {
			log.Printf("Warning: Failed to set default provider %s: %v", cfg.DefaultProvider, err)
		}
	}

	return registry, nil
}
