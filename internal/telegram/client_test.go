package telegram

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"strings"
	"testing"
)

func testClient(t *testing.T, handler http.HandlerFunc) *Client {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	c := NewClient("TEST_TOKEN", server.Client())
	c.apiBase = server.URL
	return c
}

func TestSendMessage(t *testing.T) {
	client := testClient(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/botTEST_TOKEN/sendMessage" {
			t.Errorf("unexpected path: %s", r.URL.Path)
		}
		var body map[string]interface{}
		if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
			t.Errorf("decode: %v", err)
		}
		if body["text"] != "bonjour" {
			t.Errorf("unexpected text: %v", body["text"])
		}
		json.NewEncoder(w).Encode(map[string]interface{}{"ok": true})
	})

	if err := client.SendMessage(context.Background(), 42, "bonjour"); err != nil {
		t.Fatalf("SendMessage failed: %v", err)
	}
}

func TestSendMessageAPIError(t *testing.T) {
	client := testClient(t, func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(map[string]interface{}{
			"ok":          false,
			"description": "Bad Request: chat not found",
		})
	})

	err := client.SendMessage(context.Background(), 42, "bonjour")
	if err == nil || !strings.Contains(err.Error(), "chat not found") {
		t.Fatalf("expected api error with description, got %v", err)
	}
}

func TestDownloadFile(t *testing.T) {
	client := testClient(t, func(w http.ResponseWriter, r *http.Request) {
		switch {
		case strings.HasPrefix(r.URL.Path, "/botTEST_TOKEN/getFile"):
			if r.URL.Query().Get("file_id") != "file123" {
				t.Errorf("unexpected file_id: %s", r.URL.Query().Get("file_id"))
			}
			json.NewEncoder(w).Encode(map[string]interface{}{
				"ok": true,
				"result": map[string]interface{}{
					"file_id":   "file123",
					"file_path": "photos/file_7.jpg",
				},
			})
		case r.URL.Path == "/file/botTEST_TOKEN/photos/file_7.jpg":
			w.Write([]byte("jpeg-bytes"))
		default:
			t.Errorf("unexpected path: %s", r.URL.Path)
			http.NotFound(w, r)
		}
	})

	path, err := client.DownloadFile(context.Background(), "file123")
	if err != nil {
		t.Fatalf("DownloadFile failed: %v", err)
	}
	defer os.Remove(path)

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("reading downloaded file: %v", err)
	}
	if string(data) != "jpeg-bytes" {
		t.Errorf("unexpected content: %q", data)
	}
	if !strings.HasSuffix(path, "-file_7.jpg") {
		t.Errorf("expected unique name keeping the original suffix, got %s", path)
	}
}

func TestDownloadFileMissingPath(t *testing.T) {
	client := testClient(t, func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(map[string]interface{}{"ok": false})
	})

	if _, err := client.DownloadFile(context.Background(), "file123"); err == nil {
		t.Fatal("expected error when getFile fails")
	}
}

func TestMessagePromptText(t *testing.T) {
	m := &Message{Text: "du texte"}
	if m.PromptText() != "du texte" {
		t.Errorf("expected text, got %q", m.PromptText())
	}

	m = &Message{Caption: "une légende", Photo: []PhotoSize{{FileID: "f"}}}
	if m.PromptText() != "une légende" {
		t.Errorf("expected caption, got %q", m.PromptText())
	}
}
