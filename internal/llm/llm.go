// Package llm hosts the generative steps of the pipeline: reformulating
// evidence into one fact-checkable question and summarizing web links.
package llm

import "context"

// Generator produces one completion from a system and a user message.
type Generator interface {
	Generate(ctx context.Context, system, user string) (string, error)
}

// SearchGenerator produces one completion grounded in live web search.
type SearchGenerator interface {
	GenerateWithSearch(ctx context.Context, prompt string) (string, error)
}
