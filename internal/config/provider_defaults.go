package config

import "time"

// Provider default configuration constants
const (
	// Long-form orders can take most of the audio length to process
	DefaultIflytekTimeout = 30 * time.Minute
	DefaultOpenAITimeout  = 60 * time.Second

	// The hosted service caps concurrent orders per account
	DefaultIflytekConcurrency = 3
	DefaultOpenAIConcurrency  = 5

	// Network defaults
	DefaultHTTPPort = "8080"
)

// ProviderDefaults holds tuning defaults for a provider
type ProviderDefaults struct {
	Timeout     time.Duration
	Concurrency int
}

// GetProviderDefaults returns default configuration for a given provider type
func GetProviderDefaults(providerType string) ProviderDefaults {
	switch providerType {
	case "iflytek":
		return ProviderDefaults{
			Timeout:     DefaultIflytekTimeout,
			Concurrency: DefaultIflytekConcurrency,
		}
	case "openai":
		return ProviderDefaults{
			Timeout:     DefaultOpenAITimeout,
			Concurrency: DefaultOpenAIConcurrency,
		}
	default:
		return ProviderDefaults{
			Timeout:     60 * time.Second,
			Concurrency: 1,
		}
	}
}
