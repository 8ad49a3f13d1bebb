package provider

import (
	"context"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"time"

	"github.com/samber/lo"

	"iflytek-asr/internal/config"
)

// FallbackTranscriber runs transcriptions through the configured provider
// chain: the selected provider first, then each fallback in order. Every
// attempt is recorded in the provider metrics.
type FallbackTranscriber struct {
	chain   []TranscriptionProvider
	metrics ProviderMetrics
	timeout time.Duration
}

// ConfigPath resolves the providers.yaml location: a file in the working
// directory wins, otherwise ~/.a2t/providers.yaml is used (and created on
// first run).
func ConfigPath() string {
	if _, err := os.Stat("providers.yaml"); err == nil {
		return "providers.yaml"
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "providers.yaml"
	}
	return filepath.Join(home, ".a2t", "providers.yaml")
}

// NewFallbackTranscriber builds the provider chain from providers.yaml.
// The chain starts with the runtime provider override when one is set,
// otherwise the configured default; the fallback chain follows. It exits
// the process on a broken configuration, matching CLI startup behavior.
func NewFallbackTranscriber() *FallbackTranscriber {
	configPath := ConfigPath()

	cfg, err := NewConfigManager(configPath).LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load provider configuration from %s: %v", configPath, err)
	}

	selected := cfg.DefaultProvider
	if rc := GetRuntimeConfig(); rc != nil && rc.ProviderName != "" {
		selected = rc.ProviderName
	}
	if selected == "" {
		selected = "iflytek"
	}

	names := lo.Uniq(append([]string{selected}, cfg.FallbackChain...))

	factory := NewProviderFactory()
	var chain []TranscriptionProvider
	for _, name := range names {
		pc, exists := cfg.Providers[name]
		if !exists {
			log.Fatalf("Provider '%s' not found in configuration", name)
		}
		if !pc.Enabled && name != selected {
			continue
		}

		p, err := factory.CreateProvider(pc.Type, map[string]interface{}{
			"settings": pc.Settings,
			"auth":     map[string]interface{}{"api_key": pc.Auth.APIKey, "base_url": pc.Auth.BaseURL},
		})
		if err != nil {
			log.Fatalf("Failed to create provider '%s': %v", name, err)
		}
		chain = append(chain, p)
	}

	if len(chain) == 0 {
		log.Fatalf("No enabled providers in %s", configPath)
	}

	timeout := config.GetProviderDefaults(cfg.Providers[selected].Type).Timeout
	if cfg.Global.GlobalTimeoutSec > 0 {
		timeout = time.Duration(cfg.Global.GlobalTimeoutSec) * time.Second
	}

	return &FallbackTranscriber{
		chain:   chain,
		metrics: NewProviderMetrics(),
		timeout: timeout,
	}
}

// Transcript implements the Transcriber interface
func (t *FallbackTranscriber) Transcript(inputFilePath string) (string, error) {
	resp, err := t.TranscriptWithOptions(context.Background(), &TranscriptionRequest{
		InputFilePath: inputFilePath,
	})
	if err != nil {
		return "", err
	}
	return resp.Text, nil
}

// TranscriptWithOptions tries each provider in the chain until one
// succeeds. A missing input file aborts without falling back; falling
// back cannot help when there is nothing to upload.
func (t *FallbackTranscriber) TranscriptWithOptions(ctx context.Context, request *TranscriptionRequest) (*TranscriptionResponse, error) {
	if _, err := os.Stat(request.InputFilePath); err != nil {
		return nil, &TranscriptionError{
			Code:      "file_not_found",
			Message:   fmt.Sprintf("input file not accessible: %v", err),
			Retryable: false,
		}
	}

	if _, hasDeadline := ctx.Deadline(); !hasDeadline {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, t.timeout)
		defer cancel()
	}

	var lastErr error
	for _, p := range t.chain {
		name := p.GetProviderInfo().Name
		start := time.Now()

		resp, err := p.TranscriptWithOptions(ctx, request)
		if err == nil {
			if resp.Provider == "" {
				resp.Provider = name
			}
			t.metrics.RecordSuccess(name, time.Since(start), resp.Duration.Seconds())
			return resp, nil
		}

		lastErr = err
		t.metrics.RecordFailure(name, errorType(err))

		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
	}

	return nil, fmt.Errorf("all providers failed: %w", lastErr)
}

func errorType(err error) string {
	if terr, ok := err.(*TranscriptionError); ok && terr.Code != "" {
		return terr.Code
	}
	return "unknown"
}
