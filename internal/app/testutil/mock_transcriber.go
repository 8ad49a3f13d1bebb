package testutil

import (
	"context"
	"encoding/json"
	"sync"
	"time"

	"iflytek-asr/internal/app/api/provider"
)

// MockTranscriber is a configurable in-memory transcription backend for
// converter and service tests.
type MockTranscriber struct {
	mu sync.Mutex

	DefaultResponse string
	ErrorMap        map[string]error
	ResponseMap     map[string]*provider.TranscriptionResponse
	Latency         time.Duration

	callCount int
	calls     []string
}

func NewMockTranscriber() *MockTranscriber {
	return &MockTranscriber{
		DefaultResponse: "This is a mock transcription result.",
		ErrorMap:        make(map[string]error),
		ResponseMap:     make(map[string]*provider.TranscriptionResponse),
	}
}

// WithDefaultResponse sets the text returned for files without a
// per-file response.
func (m *MockTranscriber) WithDefaultResponse(text string) *MockTranscriber {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.DefaultResponse = text
	return m
}

// WithError makes transcription of the given file path fail.
func (m *MockTranscriber) WithError(inputFilePath string, err error) *MockTranscriber {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.ErrorMap[inputFilePath] = err
	return m
}

// WithResponse sets the full response returned for the given file path.
func (m *MockTranscriber) WithResponse(inputFilePath string, resp *provider.TranscriptionResponse) *MockTranscriber {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.ResponseMap[inputFilePath] = resp
	return m
}

// WithLatency makes every call sleep for d before returning.
func (m *MockTranscriber) WithLatency(d time.Duration) *MockTranscriber {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Latency = d
	return m
}

func (m *MockTranscriber) Transcript(inputFilePath string) (string, error) {
	resp, err := m.TranscriptWithOptions(context.Background(), &provider.TranscriptionRequest{
		InputFilePath: inputFilePath,
	})
	if err != nil {
		return "", err
	}
	return resp.Text, nil
}

func (m *MockTranscriber) TranscriptWithOptions(ctx context.Context, request *provider.TranscriptionRequest) (*provider.TranscriptionResponse, error) {
	m.mu.Lock()
	m.callCount++
	m.calls = append(m.calls, request.InputFilePath)
	latency := m.Latency
	err := m.ErrorMap[request.InputFilePath]
	custom := m.ResponseMap[request.InputFilePath]
	text := m.DefaultResponse
	m.mu.Unlock()

	if latency > 0 {
		select {
		case <-time.After(latency):
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}

	if err != nil {
		return nil, err
	}
	if custom != nil {
		resp := *custom
		return &resp, nil
	}

	return &provider.TranscriptionResponse{
		Text:      text,
		Provider:  "mock",
		OrderID:   "mock-order",
		Duration:  time.Second,
		RawResult: json.RawMessage(`{"mock":true}`),
	}, nil
}

// GetCallCount returns how many transcriptions were requested.
func (m *MockTranscriber) GetCallCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.callCount
}

// GetCalls returns the input file paths in call order.
func (m *MockTranscriber) GetCalls() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	calls := make([]string, len(m.calls))
	copy(calls, m.calls)
	return calls
}
