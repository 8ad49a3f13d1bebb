package iflytek

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/url"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"go.uber.org/zap"
)

const (
	// DefaultHost is the production LFASR endpoint.
	DefaultHost = "https://raasr.xfyun.cn/v2/api"

	uploadPath    = "/upload"
	getResultPath = "/getResult"

	// DefaultResultType requests both the transfer and predict result sets.
	DefaultResultType = "transfer,predict"

	DefaultMaxAttempts  = 3
	DefaultPollInterval = 5 * time.Second
)

// EstimateDuration approximates the audio length in seconds from the file
// size, assuming roughly 32KB per second (16kHz 16bit mono). It is a
// heuristic the upload endpoint accepts, not a decode of the audio.
func EstimateDuration(sizeBytes int64) int64 {
	return sizeBytes / 32000
}

// Client talks to the iFlytek long-form speech transcription service.
// All blocking calls honor their context; signatures are derived per
// request from the immutable credentials, so a single client may serve
// concurrent jobs.
type Client struct {
	host         string
	creds        Credentials
	httpClient   *http.Client
	maxAttempts  int
	pollInterval time.Duration
	resultType   string
	logger       *zap.Logger
	onEvent      EventFunc
}

// Option configures a Client.
type Option func(*Client)

// WithHost overrides the service endpoint, mainly for tests.
func WithHost(host string) Option {
	return func(c *Client) { c.host = host }
}

// WithHTTPClient substitutes the underlying HTTP client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.httpClient = hc }
}

// WithMaxAttempts sets the budget of failed status queries tolerated
// before the poll loop gives up.
func WithMaxAttempts(n int) Option {
	return func(c *Client) { c.maxAttempts = n }
}

// WithPollInterval sets the wait between status queries.
func WithPollInterval(d time.Duration) Option {
	return func(c *Client) { c.pollInterval = d }
}

// WithResultType sets the resultType parameter sent on status queries.
func WithResultType(rt string) Option {
	return func(c *Client) { c.resultType = rt }
}

// WithLogger attaches a logger for phase transitions.
func WithLogger(l *zap.Logger) Option {
	return func(c *Client) { c.logger = l }
}

// WithEventFunc subscribes a callback to progress events.
func WithEventFunc(fn EventFunc) Option {
	return func(c *Client) { c.onEvent = fn }
}

// NewClient creates a client for the given credentials.
func NewClient(creds Credentials, opts ...Option) *Client {
	c := &Client{
		host:         DefaultHost,
		creds:        creds,
		httpClient:   &http.Client{Timeout: 60 * time.Second},
		maxAttempts:  DefaultMaxAttempts,
		pollInterval: DefaultPollInterval,
		resultType:   DefaultResultType,
		logger:       zap.NewNop(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

func (c *Client) emit(ev Event) {
	if c.onEvent != nil {
		c.onEvent(ev)
	}
}

// Upload submits the audio file and returns the order handle the service
// assigned. The query carries a fresh signature plus the file name, byte
// size and estimated duration; the body is the raw file content.
func (c *Client) Upload(ctx context.Context, filePath string) (OrderHandle, error) {
	info, err := os.Stat(filePath)
	if err != nil {
		return OrderHandle{}, &FileError{Path: filePath, Err: err}
	}

	data, err := os.ReadFile(filePath)
	if err != nil {
		return OrderHandle{}, &FileError{Path: filePath, Err: err}
	}

	sig := c.creds.SignNow()
	q := url.Values{}
	q.Set("appId", c.creds.AppID)
	q.Set("signa", sig.Value)
	q.Set("ts", sig.TS)
	q.Set("fileSize", strconv.FormatInt(info.Size(), 10))
	q.Set("fileName", filepath.Base(filePath))
	q.Set("duration", strconv.FormatInt(EstimateDuration(info.Size()), 10))

	req, err := http.NewRequestWithContext(ctx, http.MethodPost,
		c.host+uploadPath+"?"+q.Encode(), bytes.NewReader(data))
	if err != nil {
		return OrderHandle{}, &TransportError{Op: "upload", Err: err}
	}
	req.Header.Set("Content-Type", "application/octet-stream")

	c.logger.Debug("uploading audio file",
		zap.String("file", filePath),
		zap.Int64("size", info.Size()))

	resp, err := c.httpClient.Do(req)
	if err != nil {
		uploadFailures.Inc()
		return OrderHandle{}, &TransportError{Op: "upload", Err: err}
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		uploadFailures.Inc()
		return OrderHandle{}, &TransportError{Op: "upload", StatusCode: resp.StatusCode, Err: err}
	}
	if resp.StatusCode != http.StatusOK {
		uploadFailures.Inc()
		return OrderHandle{}, &TransportError{Op: "upload", StatusCode: resp.StatusCode}
	}

	var ur uploadResponse
	if err := json.Unmarshal(body, &ur); err != nil {
		uploadFailures.Inc()
		return OrderHandle{}, &MalformedResponseError{Op: "upload", Err: err}
	}
	if ur.Code != CodeSuccess {
		uploadFailures.Inc()
		return OrderHandle{}, &APIError{Op: "upload", Code: ur.Code}
	}

	uploadsTotal.Inc()
	c.logger.Info("upload accepted", zap.String("orderId", ur.Content.OrderID))
	c.emit(Event{Kind: EventUploaded, OrderID: ur.Content.OrderID})

	return OrderHandle{OrderID: ur.Content.OrderID}, nil
}

// AwaitResult polls the order until it reaches a terminal status.
//
// Statuses 0, 1 and 3 mean the service is still working; they are waited
// out without touching the attempt budget, so a slow order can poll
// indefinitely unless the context imposes a deadline. Transport errors,
// non-zero application codes and unknown statuses each consume one
// attempt. Status 4 returns the full result; status 5 fails immediately
// regardless of remaining budget.
func (c *Client) AwaitResult(ctx context.Context, handle OrderHandle) (*Result, error) {
	attempts := 0

	for attempts < c.maxAttempts {
		result, err := c.queryOrder(ctx, handle)
		pollsTotal.Inc()

		if err != nil {
			if ctx.Err() != nil {
				return nil, ctx.Err()
			}
			attempts++
			c.logger.Warn("status query failed",
				zap.String("orderId", handle.OrderID),
				zap.Int("attempt", attempts),
				zap.Error(err))
			c.emit(Event{Kind: EventPolling, OrderID: handle.OrderID, Attempt: attempts, Err: err})
			if err := c.wait(ctx); err != nil {
				return nil, err
			}
			continue
		}

		c.logger.Debug("order status",
			zap.String("orderId", handle.OrderID),
			zap.Stringer("status", result.Status))

		switch {
		case result.Status == StatusComplete:
			ordersTotal.WithLabelValues("complete").Inc()
			c.emit(Event{Kind: EventCompleted, OrderID: handle.OrderID, Status: result.Status})
			return result, nil

		case result.Status == StatusFailed:
			ordersTotal.WithLabelValues("failed").Inc()
			failErr := &TranscriptionFailedError{OrderID: handle.OrderID}
			c.emit(Event{Kind: EventFailed, OrderID: handle.OrderID, Status: result.Status, Err: failErr})
			return nil, failErr

		case result.Status.InProgress():
			c.emit(Event{Kind: EventPolling, OrderID: handle.OrderID, Attempt: attempts, Status: result.Status})

		default:
			attempts++
			c.logger.Warn("unknown order status",
				zap.String("orderId", handle.OrderID),
				zap.Stringer("status", result.Status),
				zap.Int("attempt", attempts))
			c.emit(Event{Kind: EventPolling, OrderID: handle.OrderID, Attempt: attempts, Status: result.Status})
		}

		if err := c.wait(ctx); err != nil {
			return nil, err
		}
	}

	ordersTotal.WithLabelValues("timeout").Inc()
	timeoutErr := &PollingTimeoutError{OrderID: handle.OrderID, Attempts: attempts}
	c.emit(Event{Kind: EventFailed, OrderID: handle.OrderID, Err: timeoutErr})
	return nil, timeoutErr
}

func (c *Client) queryOrder(ctx context.Context, handle OrderHandle) (*Result, error) {
	sig := c.creds.SignNow()
	q := url.Values{}
	q.Set("appId", c.creds.AppID)
	q.Set("signa", sig.Value)
	q.Set("ts", sig.TS)
	q.Set("orderId", handle.OrderID)
	q.Set("resultType", c.resultType)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet,
		c.host+getResultPath+"?"+q.Encode(), nil)
	if err != nil {
		return nil, &TransportError{Op: "query", Err: err}
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, &TransportError{Op: "query", Err: err}
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, &TransportError{Op: "query", StatusCode: resp.StatusCode, Err: err}
	}
	if resp.StatusCode != http.StatusOK {
		return nil, &TransportError{Op: "query", StatusCode: resp.StatusCode}
	}

	var qr queryResponse
	if err := json.Unmarshal(body, &qr); err != nil {
		return nil, &MalformedResponseError{Op: "query", Err: err}
	}
	if qr.Code != CodeSuccess {
		return nil, &APIError{Op: "query", Code: qr.Code}
	}

	return &Result{
		OrderID:     handle.OrderID,
		Status:      OrderStatus(qr.Content.OrderInfo.Status),
		OrderResult: qr.Content.OrderResult,
		Raw:         json.RawMessage(body),
	}, nil
}

func (c *Client) wait(ctx context.Context) error {
	timer := time.NewTimer(c.pollInterval)
	defer timer.Stop()

	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}

// Transcription bundles the extracted text with the raw terminal result.
type Transcription struct {
	OrderID string
	Text    string
	Result  *Result
}

// Transcribe runs the full upload, poll and extract sequence for one file.
// Extraction never fails: unparseable payloads surface as a sentinel text
// while the raw result stays available for archival.
func (c *Client) Transcribe(ctx context.Context, filePath string) (*Transcription, error) {
	handle, err := c.Upload(ctx, filePath)
	if err != nil {
		return nil, err
	}

	result, err := c.AwaitResult(ctx, handle)
	if err != nil {
		return nil, err
	}

	return &Transcription{
		OrderID: handle.OrderID,
		Text:    ExtractTranscript(result.OrderResult),
		Result:  result,
	}, nil
}
