// Package api provides the HTTP handlers consuming the fact-check pipeline.
package api

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"mime/multipart"
	"net/http"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	gocache "github.com/patrickmn/go-cache"

	"fact-check-assistant/internal/config"
	"fact-check-assistant/internal/extractor"
	"fact-check-assistant/internal/pipeline"
	"fact-check-assistant/internal/telegram"
)

// allowedUploadTypes mirrors the upload contract of the chat UI.
var allowedUploadTypes = map[string]bool{
	"image/png":  true,
	"image/jpeg": true,
	"image/webp": true,
	"video/mp4":  true,
	"video/webm": true,
}

const maxUploadBytes = 64 << 20

// webhookTimeout bounds background processing of one Telegram update.
const webhookTimeout = 5 * time.Minute

// PipelineRunner runs the extraction-and-verification pipeline.
type PipelineRunner interface {
	Run(ctx context.Context, prompt string, attachments []extractor.Attachment) <-chan pipeline.Event
}

// TranscriptSource fetches YouTube transcripts for the /youtube endpoint.
type TranscriptSource interface {
	FetchTranscript(ctx context.Context, videoID string) ([]extractor.CaptionSegment, error)
}

// TelegramAPI is the slice of the Bot API the webhook needs.
type TelegramAPI interface {
	SendMessage(ctx context.Context, chatID int64, text string) error
	DownloadFile(ctx context.Context, fileID string) (string, error)
}

// Handler holds the dependencies of all HTTP handlers.
type Handler struct {
	Config      *config.AppConfig
	Pipeline    PipelineRunner
	Transcripts TranscriptSource
	Telegram    TelegramAPI

	// seenUpdates deduplicates Telegram webhook deliveries: the Bot API
	// redelivers an update when the previous delivery was not ACKed fast
	// enough.
	seenUpdates *gocache.Cache
	logger      *slog.Logger
}

// NewHandler creates a Handler.
func NewHandler(cfg *config.AppConfig, p PipelineRunner, transcripts TranscriptSource,
	tg TelegramAPI, logger *slog.Logger) *Handler {
	return &Handler{
		Config:      cfg,
		Pipeline:    p,
		Transcripts: transcripts,
		Telegram:    tg,
		seenUpdates: gocache.New(10*time.Minute, 15*time.Minute),
		logger:      logger,
	}
}

// HandleChatMessage accepts a multipart chat message with optional media
// files and streams pipeline events back as server-sent events.
func (h *Handler) HandleChatMessage(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "Only POST method is allowed", http.StatusMethodNotAllowed)
		return
	}

	if err := r.ParseMultipartForm(maxUploadBytes); err != nil {
		http.Error(w, fmt.Sprintf("Invalid multipart payload: %v", err), http.StatusBadRequest)
		return
	}
	message := r.FormValue("message")

	var fileHeaders []*multipart.FileHeader
	if r.MultipartForm != nil {
		fileHeaders = r.MultipartForm.File["files"]
	}

	attachments, cleanup, err := h.saveUploads(fileHeaders)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	// Temporary files are owned by this request and deleted once the
	// event stream has been fully drained.
	defer cleanup()

	flusher, ok := w.(http.Flusher)
	if !ok {
		http.Error(w, "Streaming not supported", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")
	w.WriteHeader(http.StatusOK)

	for event := range h.Pipeline.Run(r.Context(), message, attachments) {
		if err := writeSSE(w, flusher, event); err != nil {
			h.logger.Warn("client disconnected during stream", "error", err)
			return
		}
	}
}

// HandleYouTube fetches the transcript of a video id and runs the pipeline
// with the transcript text as the prompt, streaming events as SSE.
func (h *Handler) HandleYouTube(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Only GET method is allowed", http.StatusMethodNotAllowed)
		return
	}

	videoID := strings.Trim(strings.TrimPrefix(r.URL.Path, "/youtube/"), "/")
	if videoID == "" || strings.Contains(videoID, "/") {
		http.Error(w, "Video id is required", http.StatusBadRequest)
		return
	}

	segments, err := h.Transcripts.FetchTranscript(r.Context(), videoID)
	if err != nil {
		h.logger.Warn("transcript fetch failed", "video_id", videoID, "error", err)
		http.Error(w, "No transcript available for this video", http.StatusNotFound)
		return
	}

	flusher, ok := w.(http.Flusher)
	if !ok {
		http.Error(w, "Streaming not supported", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")
	w.WriteHeader(http.StatusOK)

	for event := range h.Pipeline.Run(r.Context(), extractor.JoinSegments(segments), nil) {
		if err := writeSSE(w, flusher, event); err != nil {
			h.logger.Warn("client disconnected during stream", "error", err)
			return
		}
	}
}

// HandleTelegramWebhook acknowledges the update immediately and relays the
// message through the pipeline in the background, sending the assembled
// answer back to the chat.
func (h *Handler) HandleTelegramWebhook(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "Only POST method is allowed", http.StatusMethodNotAllowed)
		return
	}
	if h.Telegram == nil {
		http.Error(w, "Telegram bot is not configured", http.StatusServiceUnavailable)
		return
	}

	var update telegram.Update
	if err := json.NewDecoder(r.Body).Decode(&update); err != nil {
		http.Error(w, fmt.Sprintf("Invalid update payload: %v", err), http.StatusBadRequest)
		return
	}

	// Always ACK with 200: Telegram keeps redelivering otherwise.
	w.WriteHeader(http.StatusOK)

	if update.Message == nil {
		return
	}
	if update.Message.PromptText() == "" && len(update.Message.Photo) == 0 && update.Message.Video == nil {
		return
	}

	key := strconv.FormatInt(update.UpdateID, 10)
	if _, seen := h.seenUpdates.Get(key); seen {
		h.logger.Info("duplicate telegram update ignored", "update_id", update.UpdateID)
		return
	}
	h.seenUpdates.Set(key, struct{}{}, gocache.DefaultExpiration)

	go h.processTelegramMessage(update.Message)
}

// processTelegramMessage downloads attached media, runs the pipeline and
// sends the assembled answer back to the chat.
func (h *Handler) processTelegramMessage(msg *telegram.Message) {
	ctx, cancel := context.WithTimeout(context.Background(), webhookTimeout)
	defer cancel()

	log := h.logger.With("chat_id", msg.Chat.ID, "message_id", msg.MessageID)

	var attachments []extractor.Attachment
	defer func() {
		for _, att := range attachments {
			if err := os.Remove(att.Path); err != nil {
				log.Warn("failed to remove temp file", "path", att.Path, "error", err)
			}
		}
	}()

	if len(msg.Photo) > 0 {
		// The last photo size is the original resolution.
		fileID := msg.Photo[len(msg.Photo)-1].FileID
		if path, err := h.Telegram.DownloadFile(ctx, fileID); err != nil {
			log.Error("photo download failed", "error", err)
		} else {
			attachments = append(attachments, extractor.Attachment{Path: path, MIME: "image/jpeg"})
		}
	}

	if msg.Video != nil {
		mimeType := msg.Video.MIMEType
		if mimeType == "" {
			mimeType = "video/mp4"
		}
		if path, err := h.Telegram.DownloadFile(ctx, msg.Video.FileID); err != nil {
			log.Error("video download failed", "error", err)
		} else {
			attachments = append(attachments, extractor.Attachment{Path: path, MIME: mimeType})
		}
	}

	// Steps are a web-UI affordance; the bot only relays the answer.
	var answer strings.Builder
	for event := range h.Pipeline.Run(ctx, msg.PromptText(), attachments) {
		if event.Type == pipeline.EventToken {
			answer.WriteString(event.Data)
		}
	}

	text := strings.TrimSpace(answer.String())
	if text == "" {
		text = "Désolé, je n'ai pas pu obtenir de réponse. Veuillez réessayer plus tard."
	}

	if err := h.Telegram.SendMessage(ctx, msg.Chat.ID, text); err != nil {
		log.Error("failed to send telegram reply", "error", err)
	}
}

// HandleHealth reports service liveness.
func (h *Handler) HandleHealth(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	if _, err := fmt.Fprintf(w, `{"status":"healthy","timestamp":"%s"}`, time.Now().Format(time.RFC3339)); err != nil {
		h.logger.Warn("failed to write health check response", "error", err)
	}
}

// saveUploads writes uploaded files to uniquely named temporary files and
// returns the attachments plus a cleanup function deleting them.
func (h *Handler) saveUploads(fileHeaders []*multipart.FileHeader) ([]extractor.Attachment, func(), error) {
	var attachments []extractor.Attachment

	cleanup := func() {
		for _, att := range attachments {
			if err := os.Remove(att.Path); err != nil {
				h.logger.Warn("failed to remove temp file", "path", att.Path, "error", err)
			}
		}
	}

	for _, fh := range fileHeaders {
		mimeType := fh.Header.Get("Content-Type")
		if !allowedUploadTypes[mimeType] {
			cleanup()
			return nil, func() {}, fmt.Errorf("unsupported file type: %s", mimeType)
		}

		src, err := fh.Open()
		if err != nil {
			cleanup()
			return nil, func() {}, fmt.Errorf("failed to read upload %s", fh.Filename)
		}

		tempPath := filepath.Join(os.TempDir(), uuid.NewString()+"-"+filepath.Base(fh.Filename))
		dst, err := os.Create(tempPath)
		if err != nil {
			src.Close()
			cleanup()
			return nil, func() {}, fmt.Errorf("failed to store upload %s", fh.Filename)
		}

		_, copyErr := io.Copy(dst, src)
		src.Close()
		dst.Close()
		if copyErr != nil {
			os.Remove(tempPath)
			cleanup()
			return nil, func() {}, fmt.Errorf("failed to store upload %s", fh.Filename)
		}

		attachments = append(attachments, extractor.Attachment{Path: tempPath, MIME: mimeType})
	}

	return attachments, cleanup, nil
}
