package whisper

import (
	"fmt"
	"os"
	"strings"

	"iflytek-asr/internal/app/api/provider"
)

func init() {
	provider.RegisterProvider("openai", createOpenAIProvider)
}

// createOpenAIProvider creates an OpenAI Whisper provider from
// configuration, falling back to OPENAI_API_KEY for the key.
func createOpenAIProvider(config map[string]interface{}) (provider.TranscriptionProvider, error) {
	settings, ok := config["settings"].(map[string]interface{})
	if !ok {
		settings = make(map[string]interface{})
	}

	auth, ok := config["auth"].(map[string]interface{})
	if !ok {
		auth = make(map[string]interface{})
	}

	apiKey, _ := auth["api_key"].(string)
	if apiKey == "" {
		apiKey = strings.TrimSpace(os.Getenv("OPENAI_API_KEY"))
	}
	if apiKey == "" {
		return nil, fmt.Errorf("openai provider requires 'api_key' in auth configuration")
	}

	return NewRemoteTranscriberFromSettings(settings, apiKey)
}
