package iflytek

import (
	"fmt"
	"os"
	"strings"

	"iflytek-asr/internal/app/api/provider"
	"iflytek-asr/internal/app/logger"
)

func init() {
	provider.RegisterProvider("iflytek", createIflytekProvider)
}

// createIflytekProvider creates an LFASR provider from configuration.
// Credentials come from the config file when present and fall back to
// the XFYUN_APP_ID and XFYUN_SECRET_KEY environment variables.
func createIflytekProvider(config map[string]interface{}) (provider.TranscriptionProvider, error) {
	settings, ok := config["settings"].(map[string]interface{})
	if !ok {
		settings = make(map[string]interface{})
	}

	auth, ok := config["auth"].(map[string]interface{})
	if !ok {
		auth = make(map[string]interface{})
	}

	appID, _ := settings["app_id"].(string)
	if appID == "" {
		appID = strings.TrimSpace(os.Getenv("XFYUN_APP_ID"))
	}

	secretKey, _ := auth["api_key"].(string)
	if secretKey == "" {
		secretKey = strings.TrimSpace(os.Getenv("XFYUN_SECRET_KEY"))
	}

	if appID == "" || secretKey == "" {
		return nil, fmt.Errorf("iflytek provider requires XFYUN_APP_ID and XFYUN_SECRET_KEY (or app_id/api_key in configuration)")
	}

	log := logger.MustNewLogger(os.Getenv("ENV") == "development")
	return NewProviderFromSettings(settings, appID, secretKey, WithLogger(log.Named("iflytek")))
}
