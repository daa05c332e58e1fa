package media

import "fmt"

// Content block discriminators
const (
	BlockText    = "text"
	BlockImage   = "image"
	SourceBase64 = "base64"
)

// ImageSource carries a base64 encoded image payload
type ImageSource struct {
	Type      string `json:"type"`
	MediaType string `json:"media_type"`
	Data      string `json:"data"`
}

// ContentBlock is a single text or image block of a Result
type ContentBlock struct {
	Type   string       `json:"type"`
	Text   string       `json:"text,omitempty"`
	Source *ImageSource `json:"source,omitempty"`
}

// Result is the response returned to the tool-call layer
type Result struct {
	Content []ContentBlock `json:"content"`
	IsError bool           `json:"is_error,omitempty"`
}

// NewSuccessResult builds the caption + image response for an artifact
func NewSuccessResult(a *VisualArtifact) Result {
	return Result{
		Content: []ContentBlock{
			{Type: BlockText, Text: a.Caption},
			{
				Type: BlockImage,
				Source: &ImageSource{
					Type:      SourceBase64,
					MediaType: a.MediaType,
					Data:      a.Base64(),
				},
			},
		},
	}
}

// NewErrorResult builds a single text block response flagged as an error
func NewErrorResult(message string) Result {
	return Result{
		Content: []ContentBlock{{Type: BlockText, Text: message}},
		IsError: true,
	}
}

// Text returns the first text block of the result
func (r Result) Text() string {
	for _, b := range r.Content {
		if b.Type == BlockText {
			return b.Text
		}
	}
	return ""
}

// Image returns the image block source, or nil for error results
func (r Result) Image() *ImageSource {
	for _, b := range r.Content {
		if b.Type == BlockImage {
			return b.Source
		}
	}
	return nil
}

// Caption returns the caption for an artifact of the given class
func Caption(class HandlingClass, filename string) string {
	switch class {
	case Image:
		return fmt.Sprintf("Displaying image: %s", filename)
	case Audio:
		return fmt.Sprintf("Generated spectrogram for audio file: %s", filename)
	case Video:
		return fmt.Sprintf("Extracted middle frame from video file: %s", filename)
	default:
		return filename
	}
}
