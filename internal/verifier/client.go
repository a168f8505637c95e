// Package verifier streams answers from the Vera fact-checking backend.
package verifier

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"unicode/utf8"
)

// Client issues one question per call and streams the answer back.
type Client struct {
	httpClient *http.Client
	baseURL    string
	apiKey     string
	userID     string
	logger     *slog.Logger
}

// New creates a verification client.
func New(baseURL, apiKey, userID string, httpClient *http.Client, logger *slog.Logger) *Client {
	return &Client{
		httpClient: httpClient,
		baseURL:    baseURL,
		apiKey:     apiKey,
		userID:     userID,
		logger:     logger,
	}
}

// StreamAnswer posts the question to the backend and forwards the response
// body as UTF-8 text chunks, in arrival order. The channel closes when the
// stream ends or on any network failure; the caller must treat an early
// close as end-of-stream, never as a crash. The sequence is not restartable.
func (c *Client) StreamAnswer(ctx context.Context, question string) <-chan string {
	chunks := make(chan string)

	go func() {
		defer close(chunks)

		body, err := json.Marshal(map[string]string{
			"userId": c.userID,
			"query":  question,
		})
		if err != nil {
			c.logger.Error("verification request marshal failed", "error", err)
			return
		}

		req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL, bytes.NewReader(body))
		if err != nil {
			c.logger.Error("verification request build failed", "error", err)
			return
		}
		req.Header.Set("Content-Type", "application/json")
		req.Header.Set("X-API-Key", c.apiKey)

		resp, err := c.httpClient.Do(req)
		if err != nil {
			c.logger.Error("verification request failed", "error", err)
			return
		}
		defer resp.Body.Close()

		if resp.StatusCode != http.StatusOK {
			c.logger.Error("verification backend returned non-200", "status", resp.StatusCode)
			return
		}
		if resp.Body == nil {
			return
		}

		buf := make([]byte, 4096)
		var pending []byte
		for {
			n, err := resp.Body.Read(buf)
			if n > 0 {
				pending = append(pending, buf[:n]...)
				emit, rest := splitCompleteUTF8(pending)
				if len(emit) > 0 {
					select {
					case chunks <- string(emit):
					case <-ctx.Done():
						return
					}
				}
				pending = rest
			}
			if err != nil {
				if err != io.EOF {
					c.logger.Error("verification stream read failed", "error", err)
				}
				if len(pending) > 0 {
					select {
					case chunks <- string(pending):
					case <-ctx.Done():
					}
				}
				return
			}
		}
	}()

	return chunks
}

// splitCompleteUTF8 splits b so that the first part never ends inside a
// multi-byte rune. The held-back tail is at most utf8.UTFMax-1 bytes.
func splitCompleteUTF8(b []byte) (complete, rest []byte) {
	for i := len(b) - 1; i >= 0 && i > len(b)-utf8.UTFMax; i-- {
		if utf8.RuneStart(b[i]) {
			if !utf8.FullRune(b[i:]) {
				return b[:i], b[i:]
			}
			break
		}
	}
	return b, nil
}
