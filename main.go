package main

import (
	"compress/gzip"
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"fact-check-assistant/internal/api"
	"fact-check-assistant/internal/config"
	"fact-check-assistant/internal/extractor"
	"fact-check-assistant/internal/genai"
	"fact-check-assistant/internal/llm"
	"fact-check-assistant/internal/logger"
	"fact-check-assistant/internal/pipeline"
	"fact-check-assistant/internal/telegram"
	"fact-check-assistant/internal/verifier"
)

func main() {
	log.SetFlags(log.LstdFlags | log.Lshortfile)
	slogger := logger.New()

	appConfig, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	// A single, optimized HTTP client shared by all outbound callers.
	httpClient := &http.Client{
		Timeout: 30 * time.Second,
		Transport: &http.Transport{
			MaxIdleConns:        100,
			MaxIdleConnsPerHost: 10,
			IdleConnTimeout:     90 * time.Second,
			ForceAttemptHTTP2:   true,
		},
	}

	ctx := context.Background()

	geminiClient, err := genai.NewClient(ctx, appConfig)
	if err != nil {
		log.Fatalf("Failed to create Gemini client: %v", err)
	}

	youtubeClient, err := extractor.NewYouTubeClient(appConfig, httpClient)
	if err != nil {
		log.Fatalf("Failed to create YouTube client: %v", err)
	}

	media := extractor.NewMediaExtractor(geminiClient, geminiClient, geminiClient, slogger)
	summarizer := llm.NewWebSummarizer(geminiClient, slogger)
	reformulator := llm.NewReformulator(llm.NewOpenAIGenerator(appConfig.OpenAIAPIKey), slogger)
	veraClient := verifier.New(appConfig.VeraAPIURL, appConfig.VeraAPIKey, appConfig.VeraUserID,
		httpClient, slogger)

	pipe := pipeline.New(media, youtubeClient, summarizer, reformulator, veraClient, slogger)

	var botClient api.TelegramAPI
	if appConfig.HasTelegramConfig() {
		// The bot shares the outbound client but needs more headroom for
		// video downloads.
		botClient = telegram.NewClient(appConfig.TelegramBotToken, &http.Client{
			Timeout:   2 * time.Minute,
			Transport: httpClient.Transport,
		})
	} else {
		log.Println("TG_BOT_TOKEN not set, Telegram webhook disabled")
	}

	handler := api.NewHandler(appConfig, pipe, youtubeClient, botClient, slogger)

	mux := http.NewServeMux()
	mux.HandleFunc("/chat/message", handler.HandleChatMessage)
	mux.HandleFunc("/youtube/", handler.HandleYouTube)
	mux.HandleFunc("/telegram/webhook", handler.HandleTelegramWebhook)
	mux.HandleFunc("/health", handler.HandleHealth)

	server := &http.Server{
		Addr:    fmt.Sprintf(":%d", appConfig.GetPort()),
		Handler: gzipMiddleware(timeoutMiddleware(mux)),
		// Long write timeout: responses are token streams fed by slow
		// upstream model calls.
		ReadTimeout:  60 * time.Second,
		WriteTimeout: 5 * time.Minute,
		IdleTimeout:  120 * time.Second,
	}

	go func() {
		log.Printf("Starting server on port %d", appConfig.GetPort())
		log.Printf("Available endpoints:")
		log.Printf("  POST /chat/message     - Fact-check a chat message (SSE stream)")
		log.Printf("  GET  /youtube/{id}     - Fact-check a YouTube video transcript (SSE stream)")
		log.Printf("  POST /telegram/webhook - Telegram bot updates")
		log.Printf("  GET  /health           - Health check endpoint")

		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("Server failed to start: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	<-quit
	log.Println("Shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Printf("Server forced to shutdown: %v", err)
		os.Exit(1)
	}

	log.Println("Server exited gracefully")
}

// gzipMiddleware compresses responses when the client supports it.
// Event streams are exempt: buffering inside the gzip writer would hold
// tokens back from the client.
func gzipMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !strings.Contains(r.Header.Get("Accept-Encoding"), "gzip") ||
			strings.HasPrefix(r.URL.Path, "/chat/") ||
			strings.HasPrefix(r.URL.Path, "/youtube/") {
			next.ServeHTTP(w, r)
			return
		}

		w.Header().Set("Content-Encoding", "gzip")
		w.Header().Set("Vary", "Accept-Encoding")

		gw := gzip.NewWriter(w)
		defer func() {
			if err := gw.Close(); err != nil {
				log.Printf("Error closing gzip writer: %v", err)
			}
		}()

		grw := &gzipResponseWriter{ResponseWriter: w, writer: gw}
		next.ServeHTTP(grw, r)
	})
}

// gzipResponseWriter wraps http.ResponseWriter to compress responses
type gzipResponseWriter struct {
	http.ResponseWriter
	writer *gzip.Writer
}

func (w *gzipResponseWriter) Write(b []byte) (int, error) {
	return w.writer.Write(b)
}

func (w *gzipResponseWriter) Header() http.Header {
	return w.ResponseWriter.Header()
}

// timeoutMiddleware adds request timeout handling
func timeoutMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), 5*time.Minute)
		defer cancel()

		r = r.WithContext(ctx)

		done := make(chan struct{})
		go func() {
			next.ServeHTTP(w, r)
			close(done)
		}()

		select {
		case <-done:
			return
		case <-ctx.Done():
			log.Printf("Request timed out: %s %s", r.Method, r.URL.Path)
			http.Error(w, "Request timeout", http.StatusGatewayTimeout)
			return
		}
	})
}
