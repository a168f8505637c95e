package api

import (
	"encoding/json"
	"fmt"
	"net/http"

	"fact-check-assistant/internal/pipeline"
)

// writeSSE serializes one pipeline event as a server-sent event and
// flushes it immediately so tokens reach the client as they arrive.
func writeSSE(w http.ResponseWriter, flusher http.Flusher, event pipeline.Event) error {
	data, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("marshal event: %w", err)
	}
	if _, err := fmt.Fprintf(w, "data: %s\n\n", data); err != nil {
		return fmt.Errorf("write event: %w", err)
	}
	flusher.Flush()
	return nil
}
