package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/joho/godotenv"
)

// APIKeys holds all service credentials loaded from environment
type APIKeys struct {
	XfyunAppID     string
	XfyunSecretKey string
	OpenAI         string
}

// ConfigDir returns the per-user configuration directory, creating it on
// first use.
func ConfigDir() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("cannot resolve home directory: %w", err)
	}

	dir := filepath.Join(home, ".a2t")
	if err := os.MkdirAll(dir, 0755); err != nil {
		return "", fmt.Errorf("cannot create config directory: %w", err)
	}
	return dir, nil
}

// LoadEnv loads environment variables from the first .env file found.
// Not finding one is fine since variables may be set system-wide.
func LoadEnv() error {
	envPaths := []string{
		".env",
		".env.local",
	}
	if dir, err := ConfigDir(); err == nil {
		envPaths = append(envPaths, filepath.Join(dir, ".env"))
	}

	for _, envPath := range envPaths {
		if _, err := os.Stat(envPath); err == nil {
			if err := godotenv.Load(envPath); err != nil {
				return fmt.Errorf("error loading %s file: %w", envPath, err)
			}
			break
		}
	}

	return nil
}

// GetAPIKeys retrieves and validates credentials from environment variables
func GetAPIKeys() (*APIKeys, error) {
	apiKeys := &APIKeys{
		XfyunAppID:     strings.TrimSpace(os.Getenv("XFYUN_APP_ID")),
		XfyunSecretKey: strings.TrimSpace(os.Getenv("XFYUN_SECRET_KEY")),
		OpenAI:         strings.TrimSpace(os.Getenv("OPENAI_API_KEY")),
	}

	if apiKeys.OpenAI != "" {
		if !strings.HasPrefix(apiKeys.OpenAI, "sk-") {
			return nil, fmt.Errorf("invalid OPENAI_API_KEY format: must start with 'sk-'")
		}
		if len(apiKeys.OpenAI) < 20 {
			return nil, fmt.Errorf("invalid OPENAI_API_KEY format: too short")
		}
	}

	// iFlytek credentials only work as a pair
	if apiKeys.XfyunAppID == "" && apiKeys.XfyunSecretKey != "" {
		return nil, fmt.Errorf("XFYUN_SECRET_KEY is set but XFYUN_APP_ID is missing")
	}
	if apiKeys.XfyunAppID != "" && apiKeys.XfyunSecretKey == "" {
		return nil, fmt.Errorf("XFYUN_APP_ID is set but XFYUN_SECRET_KEY is missing")
	}

	return apiKeys, nil
}

// ValidateAPIKeys reports which credentials are available without failing
func ValidateAPIKeys(apiKeys *APIKeys) error {
	var availableKeys []string
	if apiKeys.XfyunAppID != "" && apiKeys.XfyunSecretKey != "" {
		availableKeys = append(availableKeys, "iFlytek")
	}
	if apiKeys.OpenAI != "" {
		availableKeys = append(availableKeys, "OpenAI")
	}

	if len(availableKeys) > 0 {
		fmt.Printf("✅ API keys available: %s\n", strings.Join(availableKeys, ", "))
	} else {
		fmt.Printf("ℹ️  No API keys configured (transcription will fail until they are set)\n")
	}

	return nil
}

// RequireXfyunKeys validates that the transcription credentials are both
// present. Fail-fast entry point for commands that upload audio.
func RequireXfyunKeys(apiKeys *APIKeys) error {
	if apiKeys.XfyunAppID == "" || apiKeys.XfyunSecretKey == "" {
		return fmt.Errorf("transcription requires XFYUN_APP_ID and XFYUN_SECRET_KEY in environment or .env file - run 'a2t config' to store them")
	}
	return nil
}

// SaveXfyunCredentials persists the credentials to the per-user env file
// so later runs pick them up without exported variables. Returns the path
// written.
func SaveXfyunCredentials(appID, secretKey string) (string, error) {
	dir, err := ConfigDir()
	if err != nil {
		return "", err
	}
	envPath := filepath.Join(dir, ".env")

	env, err := godotenv.Read(envPath)
	if err != nil {
		env = map[string]string{}
	}
	env["XFYUN_APP_ID"] = strings.TrimSpace(appID)
	env["XFYUN_SECRET_KEY"] = strings.TrimSpace(secretKey)

	if err := godotenv.Write(env, envPath); err != nil {
		return "", fmt.Errorf("cannot write %s: %w", envPath, err)
	}
	return envPath, nil
}

// InitializeConfig loads environment and validates configuration
// This is the main entry point for configuration loading
func InitializeConfig() (*APIKeys, error) {
	if err := LoadEnv(); err != nil {
		return nil, fmt.Errorf("failed to load environment: %w", err)
	}

	apiKeys, err := GetAPIKeys()
	if err != nil {
		return nil, fmt.Errorf("failed to get API keys: %w", err)
	}

	ValidateAPIKeys(apiKeys)

	return apiKeys, nil
}
