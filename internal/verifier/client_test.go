package verifier

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func testClient(t *testing.T, handler http.HandlerFunc) *Client {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)
	return New(server.URL, "test-api-key", "test-user", server.Client(), testLogger())
}

func collect(ch <-chan string) []string {
	var out []string
	for chunk := range ch {
		out = append(out, chunk)
	}
	return out
}

func TestStreamAnswer(t *testing.T) {
	client := testClient(t, func(w http.ResponseWriter, r *http.Request) {
		if got := r.Header.Get("X-API-Key"); got != "test-api-key" {
			t.Errorf("missing or wrong API key header: %q", got)
		}
		var body map[string]string
		if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
			t.Errorf("failed to decode request: %v", err)
		}
		if body["userId"] != "test-user" || body["query"] != "Is it true?" {
			t.Errorf("unexpected request body: %v", body)
		}

		flusher := w.(http.Flusher)
		for _, part := range []string{"Selon ", "nos vérifications, ", "c'est faux."} {
			io.WriteString(w, part)
			flusher.Flush()
		}
	})

	chunks := collect(client.StreamAnswer(context.Background(), "Is it true?"))
	joined := strings.Join(chunks, "")
	if joined != "Selon nos vérifications, c'est faux." {
		t.Errorf("unexpected assembled answer: %q", joined)
	}
}

func TestStreamAnswerChunksArriveInOrder(t *testing.T) {
	client := testClient(t, func(w http.ResponseWriter, r *http.Request) {
		flusher := w.(http.Flusher)
		for i := 0; i < 5; i++ {
			io.WriteString(w, string(rune('a'+i)))
			flusher.Flush()
		}
	})

	joined := strings.Join(collect(client.StreamAnswer(context.Background(), "q")), "")
	if joined != "abcde" {
		t.Errorf("chunks reordered or lost: %q", joined)
	}
}

func TestStreamAnswerEmptyBody(t *testing.T) {
	client := testClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})

	if chunks := collect(client.StreamAnswer(context.Background(), "q")); len(chunks) != 0 {
		t.Errorf("expected empty sequence, got %v", chunks)
	}
}

func TestStreamAnswerHTTPError(t *testing.T) {
	client := testClient(t, func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "forbidden", http.StatusForbidden)
	})

	if chunks := collect(client.StreamAnswer(context.Background(), "q")); len(chunks) != 0 {
		t.Errorf("expected empty sequence for HTTP error, got %v", chunks)
	}
}

func TestStreamAnswerAbortedMidStream(t *testing.T) {
	client := testClient(t, func(w http.ResponseWriter, r *http.Request) {
		flusher := w.(http.Flusher)
		io.WriteString(w, "début de réponse")
		flusher.Flush()
		panic(http.ErrAbortHandler)
	})

	// The sequence must simply end; no panic, no error surfaced.
	chunks := collect(client.StreamAnswer(context.Background(), "q"))
	if strings.Join(chunks, "") != "début de réponse" {
		t.Errorf("expected the flushed prefix then end-of-stream, got %v", chunks)
	}
}

func TestStreamAnswerUnreachableBackend(t *testing.T) {
	client := New("http://127.0.0.1:1/chat", "k", "u", http.DefaultClient, testLogger())

	if chunks := collect(client.StreamAnswer(context.Background(), "q")); len(chunks) != 0 {
		t.Errorf("expected empty sequence for unreachable backend, got %v", chunks)
	}
}

func TestSplitCompleteUTF8(t *testing.T) {
	// "é" is 0xC3 0xA9; cutting between the two bytes must hold the pair back.
	b := append([]byte("abc"), 0xC3)
	complete, rest := splitCompleteUTF8(b)
	if string(complete) != "abc" || len(rest) != 1 || rest[0] != 0xC3 {
		t.Errorf("unexpected split: complete=%q rest=%v", complete, rest)
	}

	whole := []byte("abcé")
	complete, rest = splitCompleteUTF8(whole)
	if string(complete) != "abcé" || rest != nil {
		t.Errorf("complete rune should not be held back: complete=%q rest=%v", complete, rest)
	}
}
