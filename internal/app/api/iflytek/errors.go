package iflytek

import "fmt"

// FileError reports an input file that does not exist or cannot be read.
type FileError struct {
	Path string
	Err  error
}

func (e *FileError) Error() string {
	return fmt.Sprintf("audio file %q: %v", e.Path, e.Err)
}

func (e *FileError) Unwrap() error { return e.Err }

// TransportError reports a failed network exchange: either the request
// never completed or the server answered with an unexpected HTTP status.
type TransportError struct {
	Op         string // "upload" or "query"
	StatusCode int    // zero when the request never completed
	Err        error
}

func (e *TransportError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Op, e.Err)
	}
	return fmt.Sprintf("%s: unexpected HTTP status %d", e.Op, e.StatusCode)
}

func (e *TransportError) Unwrap() error { return e.Err }

// MalformedResponseError reports a response body that could not be decoded.
type MalformedResponseError struct {
	Op  string
	Err error
}

func (e *MalformedResponseError) Error() string {
	return fmt.Sprintf("%s: malformed response: %v", e.Op, e.Err)
}

func (e *MalformedResponseError) Unwrap() error { return e.Err }

// APIError reports a non-zero application code from the service. Message
// resolution goes through the fixed code table so callers can render a
// useful description without knowing the protocol.
type APIError struct {
	Op   string
	Code int
}

func (e *APIError) Error() string {
	return fmt.Sprintf("%s: api error %d: %s", e.Op, e.Code, CodeMessage(e.Code))
}

// Message returns the table description for the error's code.
func (e *APIError) Message() string { return CodeMessage(e.Code) }

// TranscriptionFailedError reports an order that reached the failed
// terminal status. It is never retried.
type TranscriptionFailedError struct {
	OrderID string
}

func (e *TranscriptionFailedError) Error() string {
	return fmt.Sprintf("order %s: transcription failed", e.OrderID)
}

// PollingTimeoutError reports that the attempt budget was exhausted
// before the order reached a terminal status.
type PollingTimeoutError struct {
	OrderID  string
	Attempts int
}

func (e *PollingTimeoutError) Error() string {
	return fmt.Sprintf("order %s: no result after %d failed attempts", e.OrderID, e.Attempts)
}
