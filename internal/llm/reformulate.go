package llm

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"fact-check-assistant/internal/extractor"
)

const reformulateWithPromptSystem = "You reformulate a user's question for a fact-checking service, " +
	"incorporating every concrete fact found in the provided evidence. " +
	"CRITICAL: do NOT omit any names, dates, numbers, statistics or quoted claims - the output will be fact-checked. " +
	"Answer in the same language as the user's question. " +
	"Return only the reformulated question as plain text, without commentary or markdown."

const reformulateWithoutPromptSystem = "You identify the single dominant claim in the provided evidence and phrase it " +
	"as a yes/no fact-check question (\"Is it true that ...?\"), in the dominant language of the evidence. " +
	"CRITICAL: do NOT omit any names, dates, numbers, statistics or quoted claims - the output will be fact-checked. " +
	"Return only the question as plain text, without commentary or markdown."

// Reformulator synthesizes evidence and the user's prompt into one
// fact-checkable question.
type Reformulator struct {
	gen    Generator
	logger *slog.Logger
}

// NewReformulator creates a Reformulator on top of a Generator.
func NewReformulator(gen Generator, logger *slog.Logger) *Reformulator {
	return &Reformulator{gen: gen, logger: logger}
}

// Reformulate returns the reformulated question, or "" when the generative
// call fails (the pipeline continues with an empty question).
func (r *Reformulator) Reformulate(ctx context.Context, evidence []extractor.EvidenceFragment, userPrompt string) string {
	system, user := buildReformulatePrompt(evidence, userPrompt)

	out, err := r.gen.Generate(ctx, system, user)
	if err != nil {
		r.logger.Error("reformulation failed", "error", err)
		return ""
	}
	return strings.TrimSpace(out)
}

// buildReformulatePrompt selects the prompt mode from the trimmed user
// prompt and lays out the evidence as numbered blocks.
func buildReformulatePrompt(evidence []extractor.EvidenceFragment, userPrompt string) (system, user string) {
	userPrompt = strings.TrimSpace(userPrompt)

	var builder strings.Builder
	if userPrompt != "" {
		system = reformulateWithPromptSystem
		builder.WriteString("User question:\n")
		builder.WriteString(userPrompt)
		builder.WriteString("\n\n")
	} else {
		system = reformulateWithoutPromptSystem
	}

	if len(evidence) == 0 {
		builder.WriteString("No evidence was extracted.")
		return system, builder.String()
	}

	builder.WriteString("Extracted evidence:\n\n")
	for i, fragment := range evidence {
		fmt.Fprintf(&builder, "[Content %d - %s]\n%s", i+1, fragment.Provenance, fragment.Text)
		if i < len(evidence)-1 {
			builder.WriteString("\n\n---\n\n")
		}
	}

	return system, builder.String()
}
