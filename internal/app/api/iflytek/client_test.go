package iflytek

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"io/fs"
	"net/http"
	"net/http/httptest"
	"net/url"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// scriptedOrder drives the fake LFASR endpoints: each status query
// consumes the next entry of Statuses, and the last entry repeats once
// the script runs out.
type scriptedOrder struct {
	OrderID         string
	Statuses        []int
	OrderResult     string
	UploadCode      int
	QueryHTTPStatus int
}

type orderServerState struct {
	mu          sync.Mutex
	uploads     int
	queries     int
	uploadBytes int64
	uploadQuery url.Values
	contentType string
}

func (s *orderServerState) Uploads() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.uploads
}

func (s *orderServerState) Queries() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.queries
}

func (s *orderServerState) UploadedBytes() int64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.uploadBytes
}

func (s *orderServerState) UploadQuery() url.Values {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.uploadQuery
}

func (s *orderServerState) ContentType() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.contentType
}

// assertSignedQuery checks that the request carries a signature derived
// from its own ts parameter, which is how the service verifies callers.
func assertSignedQuery(t *testing.T, creds Credentials, q url.Values) {
	t.Helper()
	assert.Equal(t, creds.AppID, q.Get("appId"))
	assert.NotEmpty(t, q.Get("ts"))
	assert.Equal(t, creds.Sign(q.Get("ts")).Value, q.Get("signa"))
}

func newOrderServer(t *testing.T, creds Credentials, script *scriptedOrder) (*httptest.Server, *orderServerState) {
	state := &orderServerState{}

	mux := http.NewServeMux()
	mux.HandleFunc("/upload", func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query()
		assertSignedQuery(t, creds, q)

		body, err := io.ReadAll(r.Body)
		assert.NoError(t, err)

		state.mu.Lock()
		state.uploads++
		state.uploadBytes = int64(len(body))
		state.uploadQuery = q
		state.contentType = r.Header.Get("Content-Type")
		state.mu.Unlock()

		if script.UploadCode != 0 {
			writeJSON(t, w, map[string]interface{}{
				"code":     script.UploadCode,
				"descInfo": "failed",
			})
			return
		}

		writeJSON(t, w, map[string]interface{}{
			"code":     0,
			"descInfo": "success",
			"content":  map[string]interface{}{"orderId": script.OrderID},
		})
	})

	mux.HandleFunc("/getResult", func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query()
		assertSignedQuery(t, creds, q)
		assert.Equal(t, script.OrderID, q.Get("orderId"))
		assert.NotEmpty(t, q.Get("resultType"))

		state.mu.Lock()
		idx := state.queries
		state.queries++
		state.mu.Unlock()

		if script.QueryHTTPStatus != 0 {
			w.WriteHeader(script.QueryHTTPStatus)
			return
		}

		if idx >= len(script.Statuses) {
			idx = len(script.Statuses) - 1
		}
		status := script.Statuses[idx]

		content := map[string]interface{}{
			"orderInfo": map[string]int{"status": status, "failType": 0},
		}
		if status == int(StatusComplete) {
			content["orderResult"] = script.OrderResult
		}
		writeJSON(t, w, map[string]interface{}{
			"code":     0,
			"descInfo": "success",
			"content":  content,
		})
	})

	return httptest.NewServer(mux), state
}

func writeJSON(t *testing.T, w http.ResponseWriter, v interface{}) {
	t.Helper()
	w.Header().Set("Content-Type", "application/json")
	assert.NoError(t, json.NewEncoder(w).Encode(v))
}

func writeTempAudio(t *testing.T, name string, size int) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, bytes.Repeat([]byte{0x5a}, size), 0644))
	return path
}

// TestClient_Transcribe_EndToEnd runs the full upload, poll and extract
// sequence against a scripted server.
func TestClient_Transcribe_EndToEnd(t *testing.T) {
	creds := Credentials{AppID: "app123", SecretKey: "secret456"}
	script := &scriptedOrder{
		OrderID:  "abc123",
		Statuses: []int{1, 1, 4},
		OrderResult: `{"lattice":[` +
			`{"json_1best":{"st":{"rt":[{"ws":[{"cw":[{"w":"测"}]},{"cw":[{"w":"试"}]}]}]}}}]}`,
	}
	server, state := newOrderServer(t, creds, script)
	defer server.Close()

	audio := writeTempAudio(t, "speech.wav", 32000)
	client := NewClient(creds,
		WithHost(server.URL),
		WithPollInterval(5*time.Millisecond))

	transcription, err := client.Transcribe(context.Background(), audio)
	require.NoError(t, err)

	assert.Equal(t, "abc123", transcription.OrderID)
	assert.Equal(t, "测试", transcription.Text)
	assert.Equal(t, StatusComplete, transcription.Result.Status)
	assert.NotEmpty(t, transcription.Result.Raw)

	assert.Equal(t, 1, state.Uploads())
	assert.Equal(t, 3, state.Queries())
	assert.Equal(t, int64(32000), state.UploadedBytes())
	assert.Equal(t, "application/octet-stream", state.ContentType())

	q := state.UploadQuery()
	assert.Equal(t, "speech.wav", q.Get("fileName"))
	assert.Equal(t, "32000", q.Get("fileSize"))
	assert.Equal(t, "1", q.Get("duration"))
}

// TestClient_AwaitResult_InProgressDoesNotConsumeAttempts polls through
// every in-progress status with a budget of one attempt; the order still
// completes because waiting never spends the budget.
func TestClient_AwaitResult_InProgressDoesNotConsumeAttempts(t *testing.T) {
	creds := Credentials{AppID: "app", SecretKey: "secret"}
	script := &scriptedOrder{
		OrderID:     "order-1",
		Statuses:    []int{0, 1, 3, 3, 1, 4},
		OrderResult: `{"sentences":[{"words":[{"w":"ok"}]}]}`,
	}
	server, state := newOrderServer(t, creds, script)
	defer server.Close()

	client := NewClient(creds,
		WithHost(server.URL),
		WithMaxAttempts(1),
		WithPollInterval(time.Millisecond))

	result, err := client.AwaitResult(context.Background(), OrderHandle{OrderID: "order-1"})
	require.NoError(t, err)
	assert.Equal(t, StatusComplete, result.Status)
	assert.Equal(t, 6, state.Queries())
}

// TestClient_AwaitResult_FailedStatusStopsImmediately verifies status 5
// fails the order on the spot instead of burning retry attempts.
func TestClient_AwaitResult_FailedStatusStopsImmediately(t *testing.T) {
	creds := Credentials{AppID: "app", SecretKey: "secret"}
	script := &scriptedOrder{OrderID: "order-2", Statuses: []int{5}}
	server, state := newOrderServer(t, creds, script)
	defer server.Close()

	client := NewClient(creds,
		WithHost(server.URL),
		WithMaxAttempts(3),
		WithPollInterval(time.Millisecond))

	_, err := client.AwaitResult(context.Background(), OrderHandle{OrderID: "order-2"})

	var failErr *TranscriptionFailedError
	require.ErrorAs(t, err, &failErr)
	assert.Equal(t, "order-2", failErr.OrderID)
	assert.Equal(t, 1, state.Queries())
}

// TestClient_AwaitResult_TransportErrorsExhaustBudget verifies repeated
// HTTP failures consume exactly the configured number of attempts.
func TestClient_AwaitResult_TransportErrorsExhaustBudget(t *testing.T) {
	creds := Credentials{AppID: "app", SecretKey: "secret"}
	script := &scriptedOrder{OrderID: "order-3", QueryHTTPStatus: http.StatusBadGateway}
	server, state := newOrderServer(t, creds, script)
	defer server.Close()

	client := NewClient(creds,
		WithHost(server.URL),
		WithMaxAttempts(3),
		WithPollInterval(time.Millisecond))

	_, err := client.AwaitResult(context.Background(), OrderHandle{OrderID: "order-3"})

	var timeoutErr *PollingTimeoutError
	require.ErrorAs(t, err, &timeoutErr)
	assert.Equal(t, 3, timeoutErr.Attempts)
	assert.Equal(t, "order-3", timeoutErr.OrderID)
	assert.Equal(t, 3, state.Queries())
}

// TestClient_AwaitResult_UnknownStatusConsumesAttempts covers status 2,
// which the service defines but never delivers results under; it counts
// against the budget like any other unexpected answer.
func TestClient_AwaitResult_UnknownStatusConsumesAttempts(t *testing.T) {
	creds := Credentials{AppID: "app", SecretKey: "secret"}
	script := &scriptedOrder{OrderID: "order-4", Statuses: []int{2}}
	server, state := newOrderServer(t, creds, script)
	defer server.Close()

	client := NewClient(creds,
		WithHost(server.URL),
		WithMaxAttempts(2),
		WithPollInterval(time.Millisecond))

	_, err := client.AwaitResult(context.Background(), OrderHandle{OrderID: "order-4"})

	var timeoutErr *PollingTimeoutError
	require.ErrorAs(t, err, &timeoutErr)
	assert.Equal(t, 2, timeoutErr.Attempts)
	assert.Equal(t, 2, state.Queries())
}

// TestClient_AwaitResult_ContextCancellation verifies a deadline stops an
// order that never leaves the in-progress statuses.
func TestClient_AwaitResult_ContextCancellation(t *testing.T) {
	creds := Credentials{AppID: "app", SecretKey: "secret"}
	script := &scriptedOrder{OrderID: "order-5", Statuses: []int{1}}
	server, _ := newOrderServer(t, creds, script)
	defer server.Close()

	client := NewClient(creds,
		WithHost(server.URL),
		WithMaxAttempts(3),
		WithPollInterval(10*time.Millisecond))

	ctx, cancel := context.WithTimeout(context.Background(), 60*time.Millisecond)
	defer cancel()

	_, err := client.AwaitResult(ctx, OrderHandle{OrderID: "order-5"})
	assert.ErrorIs(t, err, context.DeadlineExceeded)
}

// TestClient_Upload_APIError verifies a non-zero application code maps to
// a typed error with the table description.
func TestClient_Upload_APIError(t *testing.T) {
	creds := Credentials{AppID: "app", SecretKey: "wrong"}
	script := &scriptedOrder{OrderID: "unused", UploadCode: CodeInvalidSignature}
	server, state := newOrderServer(t, creds, script)
	defer server.Close()

	audio := writeTempAudio(t, "clip.mp3", 1024)
	client := NewClient(creds, WithHost(server.URL))

	_, err := client.Upload(context.Background(), audio)

	var apiErr *APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, CodeInvalidSignature, apiErr.Code)
	assert.Contains(t, err.Error(), "invalid signature")
	assert.Equal(t, 0, state.Queries())
}

// TestClient_Upload_MissingFile verifies a nonexistent input surfaces as
// a file error before any network traffic.
func TestClient_Upload_MissingFile(t *testing.T) {
	creds := Credentials{AppID: "app", SecretKey: "secret"}
	server, state := newOrderServer(t, creds, &scriptedOrder{OrderID: "unused"})
	defer server.Close()

	client := NewClient(creds, WithHost(server.URL))

	_, err := client.Upload(context.Background(), filepath.Join(t.TempDir(), "missing.wav"))

	var fileErr *FileError
	require.ErrorAs(t, err, &fileErr)
	assert.ErrorIs(t, err, fs.ErrNotExist)
	assert.Equal(t, 0, state.Uploads())
}

// TestClient_Upload_HTTPError verifies a non-200 upload answer surfaces
// as a transport error with the status code.
func TestClient_Upload_HTTPError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer server.Close()

	audio := writeTempAudio(t, "clip.wav", 64)
	client := NewClient(Credentials{AppID: "app", SecretKey: "secret"}, WithHost(server.URL))

	_, err := client.Upload(context.Background(), audio)

	var transportErr *TransportError
	require.ErrorAs(t, err, &transportErr)
	assert.Equal(t, http.StatusInternalServerError, transportErr.StatusCode)
	assert.Contains(t, err.Error(), "unexpected HTTP status 500")
}

// TestClient_Upload_MalformedResponse verifies an undecodable body maps
// to a malformed response error.
func TestClient_Upload_MalformedResponse(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte("<html>not json</html>"))
	}))
	defer server.Close()

	audio := writeTempAudio(t, "clip.wav", 64)
	client := NewClient(Credentials{AppID: "app", SecretKey: "secret"}, WithHost(server.URL))

	_, err := client.Upload(context.Background(), audio)

	var malformedErr *MalformedResponseError
	assert.ErrorAs(t, err, &malformedErr)
}

// TestClient_Transcribe_Events verifies the event stream bookends: one
// upload event first, one completion event last.
func TestClient_Transcribe_Events(t *testing.T) {
	creds := Credentials{AppID: "app", SecretKey: "secret"}
	script := &scriptedOrder{
		OrderID:     "order-6",
		Statuses:    []int{1, 4},
		OrderResult: `{"sentences":[{"words":[{"w":"done"}]}]}`,
	}
	server, _ := newOrderServer(t, creds, script)
	defer server.Close()

	var events []Event
	client := NewClient(creds,
		WithHost(server.URL),
		WithPollInterval(time.Millisecond),
		WithEventFunc(func(ev Event) { events = append(events, ev) }))

	_, err := client.Transcribe(context.Background(), writeTempAudio(t, "clip.wav", 100))
	require.NoError(t, err)

	require.GreaterOrEqual(t, len(events), 3)
	assert.Equal(t, EventUploaded, events[0].Kind)
	assert.Equal(t, EventPolling, events[1].Kind)
	assert.Equal(t, EventCompleted, events[len(events)-1].Kind)
	for _, ev := range events {
		assert.Equal(t, "order-6", ev.OrderID)
	}
}

// TestEstimateDuration verifies the 32KB-per-second heuristic truncates
// toward zero.
func TestEstimateDuration(t *testing.T) {
	tests := []struct {
		name string
		size int64
		want int64
	}{
		{"empty_file", 0, 0},
		{"just_below_one_second", 31999, 0},
		{"exactly_one_second", 32000, 1},
		{"two_seconds", 64000, 2},
		{"truncates_remainder", 4*32000 + 123, 4},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, EstimateDuration(tt.size))
		})
	}
}

// TestClient_Transcribe_UnparseableResultKeepsRaw verifies extraction
// problems degrade to a sentinel transcript while the raw payload is
// still returned for archival.
func TestClient_Transcribe_UnparseableResultKeepsRaw(t *testing.T) {
	creds := Credentials{AppID: "app", SecretKey: "secret"}
	script := &scriptedOrder{
		OrderID:     "order-7",
		Statuses:    []int{4},
		OrderResult: `{"totally":"different"}`,
	}
	server, _ := newOrderServer(t, creds, script)
	defer server.Close()

	client := NewClient(creds, WithHost(server.URL), WithPollInterval(time.Millisecond))

	transcription, err := client.Transcribe(context.Background(), writeTempAudio(t, "clip.wav", 100))
	require.NoError(t, err)
	assert.Equal(t, UnrecognizedResultText, transcription.Text)
	assert.NotEmpty(t, transcription.Result.Raw)

	var payload map[string]interface{}
	require.NoError(t, json.Unmarshal(transcription.Result.Raw, &payload))
}
