package model

import "time"

// FileInfo describes an audio file discovered during a directory scan.
type FileInfo struct {
	FullPath string
	ModTime  time.Time
	Name     string
}
