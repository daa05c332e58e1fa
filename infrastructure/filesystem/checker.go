package filesystem

import (
	"os"

	"media-viewer/domain/media"
)

// Checker implements media.FileChecker and media.SourceReader using the os package
type Checker struct{}

// NewChecker creates a new filesystem checker
func NewChecker() *Checker {
	return &Checker{}
}

// Exists returns true if the file exists
func (c *Checker) Exists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}

// ReadFile returns the contents of path verbatim
func (c *Checker) ReadFile(path string) ([]byte, error) {
	return os.ReadFile(path)
}

// Ensure Checker implements the media ports
var (
	_ media.FileChecker  = (*Checker)(nil)
	_ media.SourceReader = (*Checker)(nil)
)
