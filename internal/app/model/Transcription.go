package model

import "time"

// Transcription is a single history row: one audio file sent to a
// transcription provider and the transcript (or error) that came back.
type Transcription struct {
	ID                 int
	User               string
	Provider           string
	OrderID            string
	FileName           string
	AudioDuration      float64
	Transcription      string
	LastConversionTime time.Time
	HasError           int
	ErrorMessage       string
}
