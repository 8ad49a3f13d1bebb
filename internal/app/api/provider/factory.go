package provider

import (
	"fmt"
)

// DefaultProviderFactory creates providers from registered creators
type DefaultProviderFactory struct{}

// NewProviderFactory creates a new provider factory
func NewProviderFactory() *DefaultProviderFactory {
	return &DefaultProviderFactory{}
}

// CreateProvider creates a provider instance based on type and configuration
func (f *DefaultProviderFactory) CreateProvider(providerType string, config map[string]interface{}) (TranscriptionProvider, error) {
	switch providerType {
	case "iflytek":
		return f.createFromRegistry("iflytek", config)
	case "openai":
		return f.createFromRegistry("openai", config)
	default:
		return nil, fmt.Errorf("unknown provider type: %s", providerType)
	}
}

// GetAvailableProviders returns a list of registered provider types
func (f *DefaultProviderFactory) GetAvailableProviders() []string {
	return ListRegisteredProviders()
}

func (f *DefaultProviderFactory) createFromRegistry(providerType string, config map[string]interface{}) (TranscriptionProvider, error) {
	creator, err := GetProviderCreator(providerType)
	if err != nil {
		return nil, fmt.Errorf("%s provider not registered: %w", providerType, err)
	}
	return creator(config)
}
