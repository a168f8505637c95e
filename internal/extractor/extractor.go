// Package extractor turns media files and video URLs into textual evidence.
package extractor

import (
	"context"
	"strings"
)

// Provenance identifies where a piece of evidence came from.
type Provenance string

const (
	// ProvenanceTranscript marks text fetched from a video platform's captions.
	ProvenanceTranscript Provenance = "transcript"
	// ProvenanceFile marks text extracted from an uploaded image or video.
	ProvenanceFile Provenance = "file"
	// ProvenanceURL marks a summary of generic web links.
	ProvenanceURL Provenance = "url"
)

// EvidenceFragment is a unit of extracted text with its provenance.
// Empty extractions never become fragments.
type EvidenceFragment struct {
	Provenance Provenance
	Text       string
}

// AttachmentKind is the coarse MIME category of an uploaded file.
type AttachmentKind string

const (
	KindImage   AttachmentKind = "image"
	KindVideo   AttachmentKind = "video"
	KindUnknown AttachmentKind = "unknown"
)

// Attachment is a request-owned temporary file on the local filesystem.
// It is created by the upload layer and deleted by it once the pipeline
// has drained all events for the request.
type Attachment struct {
	Path string
	MIME string
}

// Kind derives the attachment category from its declared MIME type.
func (a Attachment) Kind() AttachmentKind {
	switch {
	case strings.HasPrefix(a.MIME, "image/"):
		return KindImage
	case strings.HasPrefix(a.MIME, "video/"):
		return KindVideo
	default:
		return KindUnknown
	}
}

// UploadState is the lifecycle state of a file handed to an asynchronous
// processing capability.
type UploadState string

const (
	UploadProcessing UploadState = "processing"
	UploadReady      UploadState = "ready"
	UploadFailed     UploadState = "failed"
)

// FileUpload is the handle returned by an asynchronous file capability.
type FileUpload struct {
	Handle string
	State  UploadState
	URI    string
	MIME   string
}

// VisionReader extracts visible text from a local image file.
type VisionReader interface {
	ReadImageText(ctx context.Context, path string) (string, error)
}

// FileStore uploads local files to a capability that processes them
// asynchronously and reports their readiness.
type FileStore interface {
	Upload(ctx context.Context, path string) (*FileUpload, error)
	State(ctx context.Context, handle string) (*FileUpload, error)
}

// Transcriber produces a verbatim transcription of a ready upload.
type Transcriber interface {
	TranscribeUpload(ctx context.Context, upload *FileUpload) (string, error)
}
