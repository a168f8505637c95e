// Package pipeline orchestrates evidence extraction and fact-check
// verification as one lazy stream of progress events and answer tokens.
package pipeline

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/google/uuid"

	"fact-check-assistant/internal/classifier"
	"fact-check-assistant/internal/extractor"
)

// EventType tags pipeline events on the wire.
type EventType string

const (
	// EventStep is a human-readable progress marker.
	EventStep EventType = "step"
	// EventToken is an incremental piece of the final answer.
	EventToken EventType = "token"
)

// Event is the tagged union streamed to the caller.
type Event struct {
	Type EventType `json:"type"`
	Data string    `json:"data"`
}

// User-facing strings. The product UI is French.
const (
	stepVideoAnalysis = "Analyse de la vidéo"
	stepFileAnalysis  = "Analyse des fichiers"
	stepLinkAnalysis  = "Analyse des liens"
	stepReformulation = "Reformulation de la question"

	msgTranscriptUnavailable = "Désolé, je n'ai pas pu récupérer la transcription de cette vidéo. " +
		"Vous pouvez réessayer plus tard ou me décrire son contenu."
)

func unsupportedPlatformMessage(platforms []string) string {
	return fmt.Sprintf("Désolé, je ne peux pas encore analyser les contenus provenant de %s. "+
		"Vous pouvez m'envoyer le fichier directement ou me décrire son contenu.",
		strings.Join(platforms, ", "))
}

// MediaExtractor extracts text from uploaded image and video files.
type MediaExtractor interface {
	ExtractImageText(ctx context.Context, path string) (string, bool)
	ExtractVideoText(ctx context.Context, path string) (string, bool)
}

// TranscriptFetcher retrieves video captions and metadata.
type TranscriptFetcher interface {
	FetchTranscript(ctx context.Context, videoID string) ([]extractor.CaptionSegment, error)
	VideoMeta(ctx context.Context, videoID string) (title, channel string, err error)
}

// URLSummarizer summarizes generic web links.
type URLSummarizer interface {
	SummarizeURLs(ctx context.Context, urls []string, userPrompt string) (string, bool)
}

// Reformulator turns evidence and the user prompt into one question.
type Reformulator interface {
	Reformulate(ctx context.Context, evidence []extractor.EvidenceFragment, userPrompt string) string
}

// AnswerStreamer streams the fact-check answer for a question.
type AnswerStreamer interface {
	StreamAnswer(ctx context.Context, question string) <-chan string
}

// Pipeline wires the extraction and verification collaborators together.
type Pipeline struct {
	media        MediaExtractor
	transcripts  TranscriptFetcher
	summarizer   URLSummarizer
	reformulator Reformulator
	verifier     AnswerStreamer
	logger       *slog.Logger
}

// New creates a Pipeline.
func New(media MediaExtractor, transcripts TranscriptFetcher, summarizer URLSummarizer,
	reformulator Reformulator, verifier AnswerStreamer, logger *slog.Logger) *Pipeline {
	return &Pipeline{
		media:        media,
		transcripts:  transcripts,
		summarizer:   summarizer,
		reformulator: reformulator,
		verifier:     verifier,
		logger:       logger,
	}
}

// Run executes the pipeline for one request and returns its event stream.
// Phases run strictly in sequence; the returned channel is unbuffered, so
// the consumer's drain rate is the backpressure. The channel closes on
// normal completion, early exit and hard stop alike.
func (p *Pipeline) Run(ctx context.Context, prompt string, attachments []extractor.Attachment) <-chan Event {
	events := make(chan Event)

	go func() {
		defer close(events)

		requestID := uuid.NewString()
		log := p.logger.With("request_id", requestID)
		log.Info("pipeline started", "prompt_len", len(prompt), "attachments", len(attachments))

		urls := classifier.Classify(prompt)

		// Unsupported platforms short-circuit before any extraction work.
		if platforms := urls.Unsupported(); len(platforms) > 0 {
			log.Info("unsupported platform detected", "platforms", platforms)
			p.send(ctx, events, Event{EventToken, unsupportedPlatformMessage(platforms)})
			return
		}

		var evidence []extractor.EvidenceFragment

		if len(urls.YouTube) > 0 {
			if !p.send(ctx, events, Event{EventStep, stepVideoAnalysis}) {
				return
			}
			for _, videoURL := range urls.YouTube {
				text, err := p.transcriptText(ctx, videoURL)
				if err != nil {
					// No fallback evidence exists for this source type:
					// the whole run stops here.
					log.Warn("transcript fetch failed", "url", videoURL, "error", err)
					p.send(ctx, events, Event{EventToken, msgTranscriptUnavailable})
					return
				}
				evidence = append(evidence, extractor.EvidenceFragment{
					Provenance: extractor.ProvenanceTranscript,
					Text:       text,
				})
			}
		}

		if len(attachments) > 0 {
			if !p.send(ctx, events, Event{EventStep, stepFileAnalysis}) {
				return
			}
			for _, att := range attachments {
				var text string
				var ok bool
				switch att.Kind() {
				case extractor.KindImage:
					text, ok = p.media.ExtractImageText(ctx, att.Path)
				case extractor.KindVideo:
					text, ok = p.media.ExtractVideoText(ctx, att.Path)
				default:
					log.Warn("attachment with unsupported MIME type skipped", "mime", att.MIME)
				}
				if ok {
					evidence = append(evidence, extractor.EvidenceFragment{
						Provenance: extractor.ProvenanceFile,
						Text:       text,
					})
				}
			}
		}

		if len(urls.Generic) > 0 {
			if !p.send(ctx, events, Event{EventStep, stepLinkAnalysis}) {
				return
			}
			if summary, ok := p.summarizer.SummarizeURLs(ctx, urls.Generic, prompt); ok {
				evidence = append(evidence, extractor.EvidenceFragment{
					Provenance: extractor.ProvenanceURL,
					Text:       summary,
				})
			}
		}

		if !p.send(ctx, events, Event{EventStep, stepReformulation}) {
			return
		}
		question := p.reformulator.Reformulate(ctx, evidence, prompt)
		log.Info("question reformulated", "evidence_fragments", len(evidence), "question_len", len(question))

		for chunk := range p.verifier.StreamAnswer(ctx, question) {
			if !p.send(ctx, events, Event{EventToken, chunk}) {
				return
			}
		}
		log.Info("pipeline finished")
	}()

	return events
}

// transcriptText resolves a YouTube URL to its transcript, prefixed with
// title and channel when the metadata lookup succeeds. Any failure here is
// branch-fatal for the caller.
func (p *Pipeline) transcriptText(ctx context.Context, videoURL string) (string, error) {
	videoID := extractor.ExtractVideoID(videoURL)
	if videoID == "" {
		return "", fmt.Errorf("no video id in URL %s", videoURL)
	}

	segments, err := p.transcripts.FetchTranscript(ctx, videoID)
	if err != nil {
		return "", err
	}

	text := extractor.JoinSegments(segments)
	if text == "" {
		return "", fmt.Errorf("empty transcript for video %s", videoID)
	}

	if title, channel, err := p.transcripts.VideoMeta(ctx, videoID); err == nil {
		text = fmt.Sprintf("Vidéo « %s » (chaîne %s) :\n%s", title, channel, text)
	}

	return text, nil
}

// send delivers an event unless the consumer has gone away.
func (p *Pipeline) send(ctx context.Context, out chan<- Event, ev Event) bool {
	select {
	case out <- ev:
		return true
	case <-ctx.Done():
		return false
	}
}
