package iflytek

import (
	"encoding/json"
	"strings"
)

// OrderStatus is the processing state the service reports for an order.
type OrderStatus int

const (
	StatusQueued     OrderStatus = 0
	StatusProcessing OrderStatus = 1
	StatusDone       OrderStatus = 2
	StatusPartial    OrderStatus = 3
	StatusComplete   OrderStatus = 4
	StatusFailed     OrderStatus = 5
)

// InProgress reports whether the status means the service is still working
// on the order. Only these statuses are waited out without consuming an
// attempt; anything else that is not a terminal status counts against the
// attempt budget.
func (s OrderStatus) InProgress() bool {
	return s == StatusQueued || s == StatusProcessing || s == StatusPartial
}

func (s OrderStatus) String() string {
	switch s {
	case StatusQueued:
		return "queued"
	case StatusProcessing:
		return "processing"
	case StatusDone:
		return "done"
	case StatusPartial:
		return "partial"
	case StatusComplete:
		return "complete"
	case StatusFailed:
		return "failed"
	default:
		return "unknown"
	}
}

// OrderHandle identifies a submitted transcription order. The handle has a
// single owner; no two polling loops may run for the same order at once.
type OrderHandle struct {
	OrderID string
}

// Result is the terminal payload for a completed order. Raw preserves the
// exact response body for archival; OrderResult is the stringified
// sub-document the transcript is extracted from.
type Result struct {
	OrderID     string
	Status      OrderStatus
	OrderResult string
	Raw         json.RawMessage
}

// Sentinel transcripts produced when the order result cannot be
// interpreted. Extraction never fails hard so the raw payload can still
// be persisted next to the sentinel.
const (
	UnrecognizedResultText = "unable to parse transcription result"
	ExtractFailedText      = "failed to extract transcript text"
)

type uploadResponse struct {
	Code     int    `json:"code"`
	DescInfo string `json:"descInfo"`
	Content  struct {
		OrderID string `json:"orderId"`
	} `json:"content"`
}

type queryResponse struct {
	Code     int    `json:"code"`
	DescInfo string `json:"descInfo"`
	Content  struct {
		OrderInfo struct {
			Status   int `json:"status"`
			FailType int `json:"failType"`
		} `json:"orderInfo"`
		OrderResult string `json:"orderResult"`
	} `json:"content"`
}

type json1Best struct {
	St struct {
		Rt []struct {
			Ws []struct {
				Cw []struct {
					W string `json:"w"`
				} `json:"cw"`
			} `json:"ws"`
		} `json:"rt"`
	} `json:"st"`
}

// UnmarshalJSON accepts both encodings the service has shipped: the
// sub-document inline, or double-encoded as a JSON string.
func (j *json1Best) UnmarshalJSON(data []byte) error {
	if len(data) > 0 && data[0] == '"' {
		var inner string
		if err := json.Unmarshal(data, &inner); err != nil {
			return err
		}
		data = []byte(inner)
	}

	type plain json1Best
	var p plain
	if err := json.Unmarshal(data, &p); err != nil {
		return err
	}
	*j = json1Best(p)
	return nil
}

type latticeEntry struct {
	JSON1Best json1Best `json:"json_1best"`
}

type sentenceEntry struct {
	Words []struct {
		W string `json:"w"`
	} `json:"words"`
}

// ExtractTranscript flattens the stringified order result into plain text.
// Two schemas are known: lattice entries holding word candidates under
// json_1best.st.rt[].ws[].cw[].w, and sentence entries holding them under
// words[].w. Words are concatenated without separators, matching how the
// service tokenizes. A payload matching neither schema yields
// UnrecognizedResultText; a payload that cannot be decoded yields
// ExtractFailedText.
func ExtractTranscript(orderResult string) string {
	var doc map[string]json.RawMessage
	if err := json.Unmarshal([]byte(orderResult), &doc); err != nil {
		return ExtractFailedText
	}

	if raw, ok := doc["lattice"]; ok {
		return extractLattice(raw)
	}
	if raw, ok := doc["sentences"]; ok {
		return extractSentences(raw)
	}
	return UnrecognizedResultText
}

func extractLattice(raw json.RawMessage) string {
	var entries []latticeEntry
	if err := json.Unmarshal(raw, &entries); err != nil {
		return ExtractFailedText
	}

	var b strings.Builder
	for _, entry := range entries {
		for _, rt := range entry.JSON1Best.St.Rt {
			for _, ws := range rt.Ws {
				for _, cw := range ws.Cw {
					b.WriteString(cw.W)
				}
			}
		}
	}
	return b.String()
}

func extractSentences(raw json.RawMessage) string {
	var entries []sentenceEntry
	if err := json.Unmarshal(raw, &entries); err != nil {
		return ExtractFailedText
	}

	var b strings.Builder
	for _, entry := range entries {
		for _, word := range entry.Words {
			b.WriteString(word.W)
		}
	}
	return b.String()
}
