package whisper

import (
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"iflytek-asr/internal/app/api/provider"
)

func newTranscriptionServer(t *testing.T, status int, body string) *httptest.Server {
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.NotEmpty(t, r.Header.Get("Authorization"))
		assert.Contains(t, r.Header.Get("Content-Type"), "multipart/form-data")

		if err := r.ParseMultipartForm(32 << 20); err != nil {
			t.Errorf("failed to parse multipart form: %v", err)
		}
		assert.Equal(t, "whisper-1", r.FormValue("model"))

		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		_, _ = w.Write([]byte(body))
	}))
}

func writeTempAudio(t *testing.T) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "audio.mp3")
	require.NoError(t, os.WriteFile(path, []byte("fake audio content"), 0644))
	return path
}

// TestRemoteTranscriber_Transcript tests the happy path against a mock
// transcription endpoint.
func TestRemoteTranscriber_Transcript(t *testing.T) {
	server := newTranscriptionServer(t, http.StatusOK, `{"text": "Hello, 世界!"}`)
	defer server.Close()

	rt := NewRemoteTranscriber(Config{
		APIKey:  "sk-test-key",
		BaseURL: server.URL + "/v1",
	})

	text, err := rt.Transcript(writeTempAudio(t))
	require.NoError(t, err)
	assert.Equal(t, "Hello, 世界!", text)
}

// TestRemoteTranscriber_APIErrors verifies HTTP failures map to typed
// provider errors with retry hints.
func TestRemoteTranscriber_APIErrors(t *testing.T) {
	tests := []struct {
		name          string
		status        int
		body          string
		wantCode      string
		wantRetryable bool
	}{
		{
			name:          "unauthorized",
			status:        http.StatusUnauthorized,
			body:          `{"error": {"message": "Invalid API key", "type": "invalid_request_error"}}`,
			wantCode:      "authentication_failed",
			wantRetryable: false,
		},
		{
			name:          "rate_limited",
			status:        http.StatusTooManyRequests,
			body:          `{"error": {"message": "Rate limit exceeded", "type": "rate_limit_error"}}`,
			wantCode:      "rate_limit_exceeded",
			wantRetryable: true,
		},
		{
			name:          "bad_request",
			status:        http.StatusBadRequest,
			body:          `{"error": {"message": "Unsupported file", "type": "invalid_request_error"}}`,
			wantCode:      "invalid_audio",
			wantRetryable: false,
		},
		{
			name:          "server_error",
			status:        http.StatusInternalServerError,
			body:          `{"error": {"message": "Internal server error", "type": "server_error"}}`,
			wantCode:      "api_error",
			wantRetryable: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			server := newTranscriptionServer(t, tt.status, tt.body)
			defer server.Close()

			rt := NewRemoteTranscriber(Config{
				APIKey:  "sk-test-key",
				BaseURL: server.URL + "/v1",
			})

			_, err := rt.Transcript(writeTempAudio(t))

			var te *provider.TranscriptionError
			require.ErrorAs(t, err, &te)
			assert.Equal(t, tt.wantCode, te.Code)
			assert.Equal(t, tt.wantRetryable, te.Retryable)
			assert.Equal(t, "openai", te.Provider)
		})
	}
}

// TestRemoteTranscriber_MissingFile verifies the pre-flight check fires
// before any network traffic.
func TestRemoteTranscriber_MissingFile(t *testing.T) {
	rt := NewRemoteTranscriber(Config{APIKey: "sk-test-key"})

	_, err := rt.Transcript(filepath.Join(t.TempDir(), "missing.mp3"))

	var te *provider.TranscriptionError
	require.ErrorAs(t, err, &te)
	assert.Equal(t, "file_not_found", te.Code)
}

// TestRemoteTranscriber_ValidateConfiguration covers key format checks.
func TestRemoteTranscriber_ValidateConfiguration(t *testing.T) {
	tests := []struct {
		name    string
		apiKey  string
		wantErr string
	}{
		{"valid_key", "sk-proj-abcdef", ""},
		{"empty_key", "", "required"},
		{"wrong_prefix", "pk-wrong", "sk-"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := NewRemoteTranscriber(Config{APIKey: tt.apiKey}).ValidateConfiguration()
			if tt.wantErr == "" {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

// TestRemoteTranscriber_LanguageSelection verifies "auto" is never sent
// to the API and request values override configuration.
func TestRemoteTranscriber_LanguageSelection(t *testing.T) {
	rt := NewRemoteTranscriber(Config{APIKey: "sk-test", Language: "zh"})

	assert.Equal(t, "zh", rt.getLanguage(&provider.TranscriptionRequest{}))
	assert.Equal(t, "en", rt.getLanguage(&provider.TranscriptionRequest{Language: "en"}))
	assert.Equal(t, "", rt.getLanguage(&provider.TranscriptionRequest{Language: "auto"}))

	auto := NewRemoteTranscriber(Config{APIKey: "sk-test", Language: "auto"})
	assert.Equal(t, "", auto.getLanguage(&provider.TranscriptionRequest{}))
}

// TestRemoteTranscriber_GetProviderInfo pins the static metadata.
func TestRemoteTranscriber_GetProviderInfo(t *testing.T) {
	info := NewRemoteTranscriber(Config{APIKey: "sk-test"}).GetProviderInfo()

	assert.Equal(t, "openai", info.Name)
	assert.Equal(t, provider.ProviderTypeRemote, info.Type)
	assert.Equal(t, 25, info.MaxFileSizeMB)
	assert.True(t, strings.HasPrefix(info.DisplayName, "OpenAI"))
}
