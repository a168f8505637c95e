package llm

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
)

// WebSummarizer summarizes generic web links through a search-grounded
// generative capability. It never fetches pages itself.
type WebSummarizer struct {
	search SearchGenerator
	logger *slog.Logger
}

// NewWebSummarizer creates a WebSummarizer on top of a SearchGenerator.
func NewWebSummarizer(search SearchGenerator, logger *slog.Logger) *WebSummarizer {
	return &WebSummarizer{search: search, logger: logger}
}

// SummarizeURLs returns a summary of the given URLs in relation to the
// user's prompt, or ("", false) on empty input or capability failure.
func (s *WebSummarizer) SummarizeURLs(ctx context.Context, urls []string, userPrompt string) (string, bool) {
	if len(urls) == 0 {
		return "", false
	}

	out, err := s.search.GenerateWithSearch(ctx, buildSummaryPrompt(urls, userPrompt))
	if err != nil {
		s.logger.Error("link summarization failed", "url_count", len(urls), "error", err)
		return "", false
	}

	out = strings.TrimSpace(out)
	if out == "" {
		return "", false
	}
	return out, true
}

func buildSummaryPrompt(urls []string, userPrompt string) string {
	var builder strings.Builder
	builder.WriteString("Retrieve and summarize the content of the following web pages. ")
	builder.WriteString("Preserve every name, date, number, statistic and quoted claim - the summary will be fact-checked.\n\n")

	for _, u := range urls {
		fmt.Fprintf(&builder, "- %s\n", u)
	}

	userPrompt = strings.TrimSpace(userPrompt)
	if userPrompt != "" {
		fmt.Fprintf(&builder, "\nSummarize them in relation to this question:\n%s\n", userPrompt)
	} else {
		builder.WriteString("\nSummarize the factual claims these pages make.\n")
	}

	return builder.String()
}
