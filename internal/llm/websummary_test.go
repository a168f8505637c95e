package llm

import (
	"context"
	"errors"
	"strings"
	"testing"
)

// fakeSearchGenerator implements SearchGenerator.
type fakeSearchGenerator struct {
	prompt string
	out    string
	err    error
}

func (f *fakeSearchGenerator) GenerateWithSearch(ctx context.Context, prompt string) (string, error) {
	f.prompt = prompt
	return f.out, f.err
}

func TestSummarizeURLs(t *testing.T) {
	search := &fakeSearchGenerator{out: "Résumé des articles"}
	s := NewWebSummarizer(search, testLogger())

	out, ok := s.SummarizeURLs(context.Background(), []string{"https://news.example.com/article"}, "Is this real?")
	if !ok {
		t.Fatal("expected summarization to succeed")
	}
	if out != "Résumé des articles" {
		t.Errorf("unexpected summary: %q", out)
	}
	if !strings.Contains(search.prompt, "https://news.example.com/article") {
		t.Errorf("URL missing from prompt: %q", search.prompt)
	}
	if !strings.Contains(search.prompt, "Is this real?") {
		t.Errorf("user prompt missing from prompt: %q", search.prompt)
	}
}

func TestSummarizeURLsWithoutPrompt(t *testing.T) {
	search := &fakeSearchGenerator{out: "claims summary"}
	s := NewWebSummarizer(search, testLogger())

	if _, ok := s.SummarizeURLs(context.Background(), []string{"https://example.org"}, "  "); !ok {
		t.Fatal("expected summarization to succeed")
	}
	if !strings.Contains(search.prompt, "factual claims") {
		t.Errorf("expected claims-oriented instruction, got %q", search.prompt)
	}
}

func TestSummarizeURLsEmptyInput(t *testing.T) {
	s := NewWebSummarizer(&fakeSearchGenerator{out: "unused"}, testLogger())

	if _, ok := s.SummarizeURLs(context.Background(), nil, "question"); ok {
		t.Error("expected failure for empty URL list")
	}
}

func TestSummarizeURLsCapabilityFailure(t *testing.T) {
	s := NewWebSummarizer(&fakeSearchGenerator{err: errors.New("search unavailable")}, testLogger())

	if _, ok := s.SummarizeURLs(context.Background(), []string{"https://example.org"}, ""); ok {
		t.Error("expected failure when the capability errors")
	}
}
