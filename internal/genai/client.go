// Package genai adapts the Gemini SDK to the narrow capability interfaces
// consumed by the extraction pipeline.
package genai

import (
	"context"
	"fmt"
	"mime"
	"os"
	"path/filepath"
	"strings"

	"google.golang.org/genai"

	"fact-check-assistant/internal/config"
	"fact-check-assistant/internal/extractor"
)

const imageTextPrompt = "Extract all visible text from this image, verbatim and in its original language. " +
	"Return only the extracted text, without commentary. If the image contains no text, return an empty response."

const videoTranscriptPrompt = "Transcribe this video in full: all spoken audio verbatim and in its original language, " +
	"plus any text shown on screen. Return only the transcription, without commentary."

// Client wraps the Gemini API behind the capability interfaces of the
// extractor and llm packages. It is stateless between requests and safe
// for concurrent use.
type Client struct {
	gc    *genai.Client
	model string
}

// NewClient creates a Gemini client from the application configuration.
func NewClient(ctx context.Context, cfg *config.AppConfig) (*Client, error) {
	gc, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  cfg.GeminiAPIKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create Gemini client: %w", err)
	}

	return &Client{gc: gc, model: cfg.GeminiModel}, nil
}

// ReadImageText implements extractor.VisionReader using inline image bytes.
func (c *Client) ReadImageText(ctx context.Context, path string) (string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("read image: %w", err)
	}

	parts := []*genai.Part{
		genai.NewPartFromText(imageTextPrompt),
		genai.NewPartFromBytes(data, mimeForPath(path, "image/jpeg")),
	}
	contents := []*genai.Content{genai.NewContentFromParts(parts, genai.RoleUser)}

	resp, err := c.gc.Models.GenerateContent(ctx, c.model, contents, nil)
	if err != nil {
		return "", fmt.Errorf("gemini image request: %w", err)
	}
	return resp.Text(), nil
}

// Upload implements extractor.FileStore by pushing the file to the Gemini
// Files API, which processes videos asynchronously.
func (c *Client) Upload(ctx context.Context, path string) (*extractor.FileUpload, error) {
	file, err := c.gc.Files.UploadFromPath(ctx, path, &genai.UploadFileConfig{
		MIMEType: mimeForPath(path, "video/mp4"),
	})
	if err != nil {
		return nil, fmt.Errorf("gemini file upload: %w", err)
	}
	return toFileUpload(file), nil
}

// State implements extractor.FileStore.
func (c *Client) State(ctx context.Context, handle string) (*extractor.FileUpload, error) {
	file, err := c.gc.Files.Get(ctx, handle, nil)
	if err != nil {
		return nil, fmt.Errorf("gemini file state: %w", err)
	}
	return toFileUpload(file), nil
}

// TranscribeUpload implements extractor.Transcriber against a ready upload.
func (c *Client) TranscribeUpload(ctx context.Context, upload *extractor.FileUpload) (string, error) {
	parts := []*genai.Part{
		genai.NewPartFromText(videoTranscriptPrompt),
		genai.NewPartFromURI(upload.URI, upload.MIME),
	}
	contents := []*genai.Content{genai.NewContentFromParts(parts, genai.RoleUser)}

	resp, err := c.gc.Models.GenerateContent(ctx, c.model, contents, nil)
	if err != nil {
		return "", fmt.Errorf("gemini transcription request: %w", err)
	}
	return resp.Text(), nil
}

// GenerateWithSearch implements llm.SearchGenerator: one completion with
// Google Search grounding enabled, used to summarize web links.
func (c *Client) GenerateWithSearch(ctx context.Context, prompt string) (string, error) {
	contents := []*genai.Content{genai.NewContentFromText(prompt, genai.RoleUser)}
	cfg := &genai.GenerateContentConfig{
		Tools: []*genai.Tool{{GoogleSearch: &genai.GoogleSearch{}}},
	}

	resp, err := c.gc.Models.GenerateContent(ctx, c.model, contents, cfg)
	if err != nil {
		return "", fmt.Errorf("gemini search request: %w", err)
	}
	return resp.Text(), nil
}

func toFileUpload(file *genai.File) *extractor.FileUpload {
	state := extractor.UploadProcessing
	switch file.State {
	case genai.FileStateActive:
		state = extractor.UploadReady
	case genai.FileStateFailed:
		state = extractor.UploadFailed
	}
	return &extractor.FileUpload{
		Handle: file.Name,
		State:  state,
		URI:    file.URI,
		MIME:   file.MIMEType,
	}
}

// mimeForPath guesses the MIME type from the file extension.
func mimeForPath(path, fallback string) string {
	mimeType := mime.TypeByExtension(strings.ToLower(filepath.Ext(path)))
	if mimeType == "" {
		return fallback
	}
	return mimeType
}
