package provider

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

// ProviderConfiguration represents the complete provider configuration
type ProviderConfiguration struct {
	// Default provider to use when none is specified
	DefaultProvider string `yaml:"default_provider"`

	// Provider-specific configurations
	Providers map[string]ProviderConfig `yaml:"providers"`

	// Ordered provider names to try when the selected one fails
	FallbackChain []string `yaml:"fallback_chain,omitempty"`

	// Global settings
	Global GlobalConfig `yaml:"global,omitempty"`
}

// ProviderConfig represents configuration for a single provider
type ProviderConfig struct {
	// Provider type (iflytek, openai)
	Type string `yaml:"type"`

	// Whether this provider is enabled
	Enabled bool `yaml:"enabled"`

	// Provider-specific settings
	Settings map[string]interface{} `yaml:"settings,omitempty"`

	// Authentication settings
	Auth AuthConfig `yaml:"auth,omitempty"`
}

// AuthConfig represents authentication configuration
type AuthConfig struct {
	// API key, may reference an environment variable like ${OPENAI_API_KEY}
	APIKey string `yaml:"api_key,omitempty"`

	// Base URL override for HTTP-based providers
	BaseURL string `yaml:"base_url,omitempty"`
}

// GlobalConfig represents global configuration settings
type GlobalConfig struct {
	// Timeout applied to every transcription when the caller sets none
	GlobalTimeoutSec int `yaml:"global_timeout_sec,omitempty"`

	// Directory where transcripts and raw results are written
	OutputDir string `yaml:"output_dir,omitempty"`
}

// ConfigManager manages provider configuration
type ConfigManager struct {
	configPath string
	config     *ProviderConfiguration
}

// NewConfigManager creates a new configuration manager
func NewConfigManager(configPath string) *ConfigManager {
	return &ConfigManager{
		configPath: configPath,
	}
}

// LoadConfig loads configuration from the YAML file, creating a default
// file on first use.
func (cm *ConfigManager) LoadConfig() (*ProviderConfiguration, error) {
	if _, err := os.Stat(cm.configPath); os.IsNotExist(err) {
		defaultConfig := cm.createDefaultConfig()
		if err := cm.SaveConfig(defaultConfig); err != nil {
			return nil, fmt.Errorf("failed to create default config: %w", err)
		}
		cm.config = defaultConfig
		return defaultConfig, nil
	}

	data, err := os.ReadFile(cm.configPath)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	var config ProviderConfiguration
	if err := yaml.Unmarshal(data, &config); err != nil {
		return nil, fmt.Errorf("failed to parse config YAML: %w", err)
	}

	expandEnvironmentVariables(&config)

	if err := validateConfig(&config); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	cm.config = &config
	return &config, nil
}

// SaveConfig saves configuration to the YAML file
func (cm *ConfigManager) SaveConfig(config *ProviderConfiguration) error {
	dir := filepath.Dir(cm.configPath)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	data, err := yaml.Marshal(config)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	if err := os.WriteFile(cm.configPath, data, 0644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	return nil
}

func (cm *ConfigManager) createDefaultConfig() *ProviderConfiguration {
	return &ProviderConfiguration{
		DefaultProvider: "iflytek",
		Providers: map[string]ProviderConfig{
			"iflytek": {
				Type:    "iflytek",
				Enabled: true,
				Settings: map[string]interface{}{
					"result_type":       "transfer,predict",
					"max_attempts":      3,
					"poll_interval_sec": 5,
				},
			},
			"openai": {
				Type:    "openai",
				Enabled: false,
				Settings: map[string]interface{}{
					"model": "whisper-1",
				},
				Auth: AuthConfig{
					APIKey: "${OPENAI_API_KEY}",
				},
			},
		},
		FallbackChain: []string{"iflytek", "openai"},
		Global: GlobalConfig{
			GlobalTimeoutSec: 1800,
			OutputDir:        "results",
		},
	}
}

// expandEnvironmentVariables resolves ${VAR} references in auth settings
func expandEnvironmentVariables(config *ProviderConfiguration) {
	for name, pc := range config.Providers {
		pc.Auth.APIKey = expandEnvValue(pc.Auth.APIKey)
		pc.Auth.BaseURL = expandEnvValue(pc.Auth.BaseURL)
		config.Providers[name] = pc
	}
}

func expandEnvValue(value string) string {
	if strings.HasPrefix(value, "${") && strings.HasSuffix(value, "}") {
		return os.Getenv(strings.TrimSuffix(strings.TrimPrefix(value, "${"), "}"))
	}
	return value
}

func validateConfig(config *ProviderConfiguration) error {
	if len(config.Providers) == 0 {
		return fmt.Errorf("no providers configured")
	}

	if config.DefaultProvider != "" {
		if _, ok := config.Providers[config.DefaultProvider]; !ok {
			return fmt.Errorf("default provider '%s' is not configured", config.DefaultProvider)
		}
	}

	for name, pc := range config.Providers {
		if pc.Type == "" {
			return fmt.Errorf("provider '%s' has no type", name)
		}
	}

	for _, name := range config.FallbackChain {
		if _, ok := config.Providers[name]; !ok {
			return fmt.Errorf("fallback provider '%s' is not configured", name)
		}
	}

	return nil
}
