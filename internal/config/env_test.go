package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/joho/godotenv"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGetAPIKeys(t *testing.T) {
	testCases := []struct {
		name          string
		appID         string
		secretKey     string
		openaiKey     string
		expectError   bool
		errorContains string
	}{
		{
			name:        "valid iflytek pair",
			appID:       "abcd1234",
			secretKey:   "0123456789abcdef0123456789abcdef",
			expectError: false,
		},
		{
			name:        "valid openai key",
			openaiKey:   "sk-1234567890abcdef1234567890abcdef",
			expectError: false,
		},
		{
			name:        "all keys",
			appID:       "abcd1234",
			secretKey:   "0123456789abcdef0123456789abcdef",
			openaiKey:   "sk-1234567890abcdef1234567890abcdef",
			expectError: false,
		},
		{
			name:        "empty keys are allowed",
			expectError: false,
		},
		{
			name:          "app id without secret key",
			appID:         "abcd1234",
			expectError:   true,
			errorContains: "XFYUN_SECRET_KEY is missing",
		},
		{
			name:          "secret key without app id",
			secretKey:     "0123456789abcdef0123456789abcdef",
			expectError:   true,
			errorContains: "XFYUN_APP_ID is missing",
		},
		{
			name:          "invalid openai key format",
			openaiKey:     "invalid-key-1234567890",
			expectError:   true,
			errorContains: "invalid OPENAI_API_KEY format",
		},
		{
			name:          "openai key too short",
			openaiKey:     "sk-short",
			expectError:   true,
			errorContains: "too short",
		},
		{
			name:        "whitespace is trimmed",
			appID:       "  abcd1234  ",
			secretKey:   " secret ",
			expectError: false,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			t.Setenv("XFYUN_APP_ID", tc.appID)
			t.Setenv("XFYUN_SECRET_KEY", tc.secretKey)
			t.Setenv("OPENAI_API_KEY", tc.openaiKey)

			apiKeys, err := GetAPIKeys()

			if tc.expectError {
				require.Error(t, err)
				assert.Contains(t, err.Error(), tc.errorContains)
				return
			}

			require.NoError(t, err)
			assert.NotContains(t, apiKeys.XfyunAppID, " ")
			assert.NotContains(t, apiKeys.XfyunSecretKey, " ")
		})
	}
}

func TestRequireXfyunKeys(t *testing.T) {
	testCases := []struct {
		name        string
		apiKeys     *APIKeys
		expectError bool
	}{
		{
			name:        "both present",
			apiKeys:     &APIKeys{XfyunAppID: "abcd1234", XfyunSecretKey: "secret"},
			expectError: false,
		},
		{
			name:        "missing app id",
			apiKeys:     &APIKeys{XfyunSecretKey: "secret"},
			expectError: true,
		},
		{
			name:        "missing secret key",
			apiKeys:     &APIKeys{XfyunAppID: "abcd1234"},
			expectError: true,
		},
		{
			name:        "both missing",
			apiKeys:     &APIKeys{},
			expectError: true,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			err := RequireXfyunKeys(tc.apiKeys)
			if tc.expectError {
				assert.Error(t, err)
				assert.Contains(t, err.Error(), "a2t config")
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

// TestSaveXfyunCredentials verifies the round trip through the per-user
// env file, including merging with values already stored there.
func TestSaveXfyunCredentials(t *testing.T) {
	t.Setenv("HOME", t.TempDir())

	envPath, err := SaveXfyunCredentials("abcd1234", "topsecret")
	require.NoError(t, err)
	assert.FileExists(t, envPath)

	env, err := godotenv.Read(envPath)
	require.NoError(t, err)
	assert.Equal(t, "abcd1234", env["XFYUN_APP_ID"])
	assert.Equal(t, "topsecret", env["XFYUN_SECRET_KEY"])

	// Existing unrelated entries survive a rewrite
	env["OPENAI_API_KEY"] = "sk-keepme"
	require.NoError(t, godotenv.Write(env, envPath))

	_, err = SaveXfyunCredentials("other5678", "newsecret")
	require.NoError(t, err)

	env, err = godotenv.Read(envPath)
	require.NoError(t, err)
	assert.Equal(t, "other5678", env["XFYUN_APP_ID"])
	assert.Equal(t, "sk-keepme", env["OPENAI_API_KEY"])
}

func TestLoadEnv_ReadsConfigDirFile(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)

	// godotenv.Load never overrides variables that are present, even when
	// empty, so genuinely unset them (t.Setenv registers the restore).
	t.Setenv("XFYUN_APP_ID", "")
	t.Setenv("XFYUN_SECRET_KEY", "")
	require.NoError(t, os.Unsetenv("XFYUN_APP_ID"))
	require.NoError(t, os.Unsetenv("XFYUN_SECRET_KEY"))

	// Run from an empty working directory so only the config dir file is
	// in scope.
	cwd, err := os.Getwd()
	require.NoError(t, err)
	require.NoError(t, os.Chdir(t.TempDir()))
	defer func() { _ = os.Chdir(cwd) }()

	dir := filepath.Join(home, ".a2t")
	require.NoError(t, os.MkdirAll(dir, 0755))
	require.NoError(t, os.WriteFile(filepath.Join(dir, ".env"),
		[]byte("XFYUN_APP_ID=fromfile\nXFYUN_SECRET_KEY=filesecret\n"), 0644))

	require.NoError(t, LoadEnv())
	assert.Equal(t, "fromfile", os.Getenv("XFYUN_APP_ID"))
	assert.Equal(t, "filesecret", os.Getenv("XFYUN_SECRET_KEY"))
}

func TestValidateConcurrency(t *testing.T) {
	assert.NoError(t, ValidateConcurrency(1, "test"))
	assert.NoError(t, ValidateConcurrency(100, "test"))
	assert.Error(t, ValidateConcurrency(0, "test"))
	assert.Error(t, ValidateConcurrency(-1, "test"))
	assert.Error(t, ValidateConcurrency(101, "test"))
}

func TestValidateAttempts(t *testing.T) {
	assert.NoError(t, ValidateAttempts(3))
	assert.Error(t, ValidateAttempts(0))
	assert.Error(t, ValidateAttempts(101))
}
