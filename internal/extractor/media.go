package extractor

import (
	"context"
	"log/slog"
	"os"
	"strings"
	"time"
)

const (
	defaultPollInterval = 2 * time.Second
	defaultMaxPolls     = 30
)

// MediaExtractor extracts text from uploaded images and videos.
// Extraction is best-effort: a missing file or a capability failure yields
// ("", false) and a diagnostic log line, never an error to the caller.
type MediaExtractor struct {
	vision       VisionReader
	files        FileStore
	transcriber  Transcriber
	logger       *slog.Logger
	pollInterval time.Duration
	maxPolls     int
}

// NewMediaExtractor creates a media extractor on top of the given capabilities.
func NewMediaExtractor(vision VisionReader, files FileStore, transcriber Transcriber, logger *slog.Logger) *MediaExtractor {
	return &MediaExtractor{
		vision:       vision,
		files:        files,
		transcriber:  transcriber,
		logger:       logger,
		pollInterval: defaultPollInterval,
		maxPolls:     defaultMaxPolls,
	}
}

// ExtractImageText runs OCR on the image at path.
func (m *MediaExtractor) ExtractImageText(ctx context.Context, path string) (string, bool) {
	if !fileExists(path) {
		return "", false
	}

	text, err := m.vision.ReadImageText(ctx, path)
	if err != nil {
		m.logger.Error("image text extraction failed", "path", path, "error", err)
		return "", false
	}

	text = strings.TrimSpace(text)
	if text == "" {
		return "", false
	}
	return text, true
}

// ExtractVideoText uploads the video at path, waits for the capability to
// finish processing it, then requests a full transcription of the spoken
// audio and any on-screen text.
func (m *MediaExtractor) ExtractVideoText(ctx context.Context, path string) (string, bool) {
	if !fileExists(path) {
		return "", false
	}

	upload, err := m.files.Upload(ctx, path)
	if err != nil {
		m.logger.Error("video upload failed", "path", path, "error", err)
		return "", false
	}

	upload, ok := m.waitUntilReady(ctx, upload)
	if !ok {
		return "", false
	}

	text, err := m.transcriber.TranscribeUpload(ctx, upload)
	if err != nil {
		m.logger.Error("video transcription failed", "path", path, "error", err)
		return "", false
	}

	text = strings.TrimSpace(text)
	if text == "" {
		return "", false
	}
	return text, true
}

// waitUntilReady polls the upload state at a fixed interval until it becomes
// ready, fails, or the attempt budget runs out.
func (m *MediaExtractor) waitUntilReady(ctx context.Context, upload *FileUpload) (*FileUpload, bool) {
	for attempt := 0; attempt < m.maxPolls; attempt++ {
		switch upload.State {
		case UploadReady:
			return upload, true
		case UploadFailed:
			m.logger.Error("upload processing failed", "handle", upload.Handle)
			return nil, false
		}

		select {
		case <-ctx.Done():
			return nil, false
		case <-time.After(m.pollInterval):
		}

		refreshed, err := m.files.State(ctx, upload.Handle)
		if err != nil {
			m.logger.Error("upload state poll failed", "handle", upload.Handle, "error", err)
			return nil, false
		}
		upload = refreshed
	}

	m.logger.Error("upload never became ready", "handle", upload.Handle, "attempts", m.maxPolls)
	return nil, false
}

func fileExists(path string) bool {
	info, err := os.Stat(path)
	return err == nil && !info.IsDir()
}
