// Package telegram is a minimal Bot API client: send a message, download a
// file. It deliberately avoids a full bot framework, since the webhook only
// relays messages to the fact-checking pipeline.
package telegram

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"path"
	"path/filepath"

	"github.com/google/uuid"
	"golang.org/x/time/rate"
)

const defaultAPIBase = "https://api.telegram.org"

// Client talks to the Telegram Bot API for one bot token.
// Safe for concurrent use; outbound messages share one rate limiter to
// stay under Telegram's global sending limit.
type Client struct {
	token      string
	apiBase    string
	httpClient *http.Client
	limiter    *rate.Limiter
}

// NewClient creates a Bot API client.
func NewClient(token string, httpClient *http.Client) *Client {
	return &Client{
		token:      token,
		apiBase:    defaultAPIBase,
		httpClient: httpClient,
		// Telegram allows ~30 messages per second bot-wide.
		limiter: rate.NewLimiter(rate.Limit(25), 5),
	}
}

// SendMessage sends a plain-text message to a chat.
func (c *Client) SendMessage(ctx context.Context, chatID int64, text string) error {
	if err := c.limiter.Wait(ctx); err != nil {
		return err
	}

	body, err := json.Marshal(map[string]interface{}{
		"chat_id": chatID,
		"text":    text,
	})
	if err != nil {
		return fmt.Errorf("sendMessage marshal: %w", err)
	}

	url := fmt.Sprintf("%s/bot%s/sendMessage", c.apiBase, c.token)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("sendMessage request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("sendMessage http: %w", err)
	}
	defer resp.Body.Close()

	var apiResp apiResponse
	if err := json.NewDecoder(resp.Body).Decode(&apiResp); err != nil {
		return fmt.Errorf("sendMessage decode: %w", err)
	}
	if !apiResp.OK {
		return fmt.Errorf("telegram api error: %s", apiResp.Description)
	}
	return nil
}

// DownloadFile resolves a file id via getFile and downloads the content to
// a uniquely named temporary file. The caller owns the file and must delete
// it once the pipeline has finished with it.
func (c *Client) DownloadFile(ctx context.Context, fileID string) (string, error) {
	infoURL := fmt.Sprintf("%s/bot%s/getFile?file_id=%s", c.apiBase, c.token, fileID)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, infoURL, nil)
	if err != nil {
		return "", fmt.Errorf("getFile request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("getFile http: %w", err)
	}
	defer resp.Body.Close()

	var info fileInfo
	if err := json.NewDecoder(resp.Body).Decode(&info); err != nil {
		return "", fmt.Errorf("getFile decode: %w", err)
	}
	if !info.OK || info.Result.FilePath == "" {
		return "", fmt.Errorf("error while retrieving file info for %s", fileID)
	}

	fileURL := fmt.Sprintf("%s/file/bot%s/%s", c.apiBase, c.token, info.Result.FilePath)
	fileReq, err := http.NewRequestWithContext(ctx, http.MethodGet, fileURL, nil)
	if err != nil {
		return "", fmt.Errorf("file request: %w", err)
	}

	fileResp, err := c.httpClient.Do(fileReq)
	if err != nil {
		return "", fmt.Errorf("file download: %w", err)
	}
	defer fileResp.Body.Close()

	if fileResp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("file download status: %d", fileResp.StatusCode)
	}

	name := uuid.NewString() + "-" + path.Base(info.Result.FilePath)
	tempPath := filepath.Join(os.TempDir(), name)

	out, err := os.Create(tempPath)
	if err != nil {
		return "", fmt.Errorf("create temp file: %w", err)
	}
	defer out.Close()

	if _, err := io.Copy(out, fileResp.Body); err != nil {
		os.Remove(tempPath)
		return "", fmt.Errorf("write temp file: %w", err)
	}

	return tempPath, nil
}
