package provider

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestConfigManager_CreatesDefaultConfig(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "providers.yaml")

	config, err := NewConfigManager(path).LoadConfig()
	require.NoError(t, err)
	assert.FileExists(t, path)

	assert.Equal(t, "iflytek", config.DefaultProvider)
	require.Contains(t, config.Providers, "iflytek")
	require.Contains(t, config.Providers, "openai")
	assert.True(t, config.Providers["iflytek"].Enabled)
	assert.False(t, config.Providers["openai"].Enabled)
	assert.Equal(t, []string{"iflytek", "openai"}, config.FallbackChain)
	assert.Equal(t, 1800, config.Global.GlobalTimeoutSec)
	assert.Equal(t, "results", config.Global.OutputDir)
	assert.Equal(t, "transfer,predict", config.Providers["iflytek"].Settings["result_type"])
}

func TestConfigManager_RoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "providers.yaml")

	original := &ProviderConfiguration{
		DefaultProvider: "iflytek",
		Providers: map[string]ProviderConfig{
			"iflytek": {
				Type:     "iflytek",
				Enabled:  true,
				Settings: map[string]interface{}{"language": "cn"},
				Auth:     AuthConfig{APIKey: "app123:secret456"},
			},
		},
		Global: GlobalConfig{GlobalTimeoutSec: 600, OutputDir: "out"},
	}
	require.NoError(t, NewConfigManager(path).SaveConfig(original))

	loaded, err := NewConfigManager(path).LoadConfig()
	require.NoError(t, err)
	assert.Equal(t, "iflytek", loaded.DefaultProvider)
	assert.Equal(t, "app123:secret456", loaded.Providers["iflytek"].Auth.APIKey)
	assert.Equal(t, "cn", loaded.Providers["iflytek"].Settings["language"])
	assert.Equal(t, 600, loaded.Global.GlobalTimeoutSec)
	assert.Equal(t, "out", loaded.Global.OutputDir)
}

func TestConfigManager_ExpandsEnvironmentVariables(t *testing.T) {
	t.Setenv("A2T_TEST_API_KEY", "app123:secret456")

	path := filepath.Join(t.TempDir(), "providers.yaml")
	body := `default_provider: iflytek
providers:
  iflytek:
    type: iflytek
    enabled: true
    auth:
      api_key: ${A2T_TEST_API_KEY}
      base_url: plain-value
`
	require.NoError(t, os.WriteFile(path, []byte(body), 0o644))

	config, err := NewConfigManager(path).LoadConfig()
	require.NoError(t, err)
	assert.Equal(t, "app123:secret456", config.Providers["iflytek"].Auth.APIKey)
	assert.Equal(t, "plain-value", config.Providers["iflytek"].Auth.BaseURL)
}

func TestConfigManager_RejectsInvalidConfig(t *testing.T) {
	tests := []struct {
		name    string
		body    string
		wantErr string
	}{
		{
			name:    "no providers",
			body:    "default_provider: iflytek\n",
			wantErr: "no providers configured",
		},
		{
			name: "unknown default provider",
			body: "default_provider: missing\nproviders:\n  iflytek:\n    type: iflytek\n",
			wantErr: "default provider 'missing' is not configured",
		},
		{
			name:    "provider without type",
			body:    "providers:\n  iflytek:\n    enabled: true\n",
			wantErr: "has no type",
		},
		{
			name: "unknown fallback provider",
			body: "providers:\n  iflytek:\n    type: iflytek\nfallback_chain: [iflytek, missing]\n",
			wantErr: "fallback provider 'missing' is not configured",
		},
		{
			name:    "malformed yaml",
			body:    "providers: [broken\n",
			wantErr: "failed to parse config YAML",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), "providers.yaml")
			require.NoError(t, os.WriteFile(path, []byte(tt.body), 0o644))

			_, err := NewConfigManager(path).LoadConfig()
			assert.ErrorContains(t, err, tt.wantErr)
		})
	}
}
