package api

// Transcriber defines a transcription interface for converting audio files to
// text. The provider fallback chain and the distributed Temporal client both
// implement it.
type Transcriber interface {
	Transcript(inputFilePath string) (string, error)
}
