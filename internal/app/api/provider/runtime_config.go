package provider

import "sync"

// RuntimeConfig carries per-invocation overrides, such as the --provider
// flag the CLI parses before dependency wiring runs.
type RuntimeConfig struct {
	ProviderName string
}

var (
	runtimeConfig   *RuntimeConfig
	runtimeConfigMu sync.RWMutex
)

// SetRuntimeConfig sets the runtime configuration
func SetRuntimeConfig(config *RuntimeConfig) {
	runtimeConfigMu.Lock()
	defer runtimeConfigMu.Unlock()
	runtimeConfig = config
}

// GetRuntimeConfig gets the runtime configuration, nil when unset
func GetRuntimeConfig() *RuntimeConfig {
	runtimeConfigMu.RLock()
	defer runtimeConfigMu.RUnlock()
	return runtimeConfig
}
