package iflytek

// EventKind identifies a phase transition while an order is processed.
type EventKind string

const (
	EventUploaded  EventKind = "uploaded"
	EventPolling   EventKind = "polling"
	EventCompleted EventKind = "completed"
	EventFailed    EventKind = "failed"
)

// Event is a structured progress notification emitted by the client.
// Collaborators (CLI progress bars, API job trackers, tests) subscribe
// through WithEventFunc instead of scraping log output.
type Event struct {
	Kind    EventKind
	OrderID string

	// Attempt is the number of attempts consumed so far. Only meaningful
	// for polling events; non-terminal statuses do not advance it.
	Attempt int

	// Status is the last observed order status, for polling events.
	Status OrderStatus

	// Err carries the failure cause, for failed events.
	Err error
}

// EventFunc receives progress events. It runs on the transcribing
// goroutine and must not block.
type EventFunc func(Event)
