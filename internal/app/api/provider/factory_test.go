package provider

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// registerStubCreator installs a creator for the given type and records
// the config it was invoked with. Creators registered here stay in the
// package-level registry for the rest of the test binary, so tests only
// ever register under the "iflytek" type.
func registerStubCreator(t *testing.T, providerType string, created *mockProvider) *map[string]interface{} {
	t.Helper()

	var seen map[string]interface{}
	RegisterProvider(providerType, func(config map[string]interface{}) (TranscriptionProvider, error) {
		seen = config
		return created, nil
	})
	return &seen
}

func TestProviderFactory_CreateProvider(t *testing.T) {
	stub := &mockProvider{name: "iflytek"}
	seen := registerStubCreator(t, "iflytek", stub)

	factory := NewProviderFactory()
	config := map[string]interface{}{
		"settings": map[string]interface{}{"language": "cn"},
		"auth":     map[string]interface{}{"api_key": "app:secret"},
	}

	created, err := factory.CreateProvider("iflytek", config)
	require.NoError(t, err)
	assert.Same(t, stub, created)
	assert.Equal(t, config, *seen)
}

func TestProviderFactory_CreateProvider_CreatorError(t *testing.T) {
	RegisterProvider("iflytek", func(config map[string]interface{}) (TranscriptionProvider, error) {
		return nil, errors.New("credentials missing")
	})

	factory := NewProviderFactory()
	_, err := factory.CreateProvider("iflytek", map[string]interface{}{})
	assert.ErrorContains(t, err, "credentials missing")
}

func TestProviderFactory_CreateProvider_NotRegistered(t *testing.T) {
	factory := NewProviderFactory()

	// The openai creator registers from its package init, which test
	// binaries for this package never link.
	_, err := factory.CreateProvider("openai", map[string]interface{}{})
	assert.ErrorContains(t, err, "not registered")
}

func TestProviderFactory_CreateProvider_UnknownType(t *testing.T) {
	factory := NewProviderFactory()

	for _, providerType := range []string{"unknown", ""} {
		_, err := factory.CreateProvider(providerType, map[string]interface{}{})
		assert.ErrorContains(t, err, "unknown provider type")
	}
}

func TestProviderFactory_GetAvailableProviders(t *testing.T) {
	registerStubCreator(t, "iflytek", &mockProvider{name: "iflytek"})

	factory := NewProviderFactory()
	assert.Contains(t, factory.GetAvailableProviders(), "iflytek")
}

func TestGetProviderCreator(t *testing.T) {
	stub := &mockProvider{name: "iflytek"}
	registerStubCreator(t, "iflytek", stub)

	creator, err := GetProviderCreator("iflytek")
	require.NoError(t, err)

	created, err := creator(nil)
	require.NoError(t, err)
	assert.Same(t, stub, created)

	_, err = GetProviderCreator("never-registered")
	assert.ErrorContains(t, err, "not registered")
}
