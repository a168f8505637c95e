package extractor

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"regexp"
	"strings"

	"google.golang.org/api/option"
	"google.golang.org/api/youtube/v3"

	"fact-check-assistant/internal/config"
)

// CaptionSegment is one caption line of a video transcript, in playback order.
type CaptionSegment struct {
	Text  string  `json:"text"`
	Start float64 `json:"start,omitempty"`
	Dur   float64 `json:"dur,omitempty"`
}

// YouTubeClient fetches caption transcripts and video metadata.
// The transcript comes from a public caption endpoint; the optional
// YouTube Data API service only enriches it with title and channel.
type YouTubeClient struct {
	httpClient     *http.Client
	captionURL     string
	captionLang    string
	youtubeService *youtube.Service
}

// NewYouTubeClient creates a YouTubeClient. The metadata service is only
// initialized when a YouTube Data API key is configured.
func NewYouTubeClient(cfg *config.AppConfig, client *http.Client) (*YouTubeClient, error) {
	yc := &YouTubeClient{
		httpClient:  client,
		captionURL:  cfg.TranscriptAPIURL,
		captionLang: cfg.TranscriptLang,
	}

	if cfg.HasYouTubeConfig() {
		ytService, err := youtube.NewService(context.Background(), option.WithAPIKey(cfg.YouTubeAPIKey))
		if err != nil {
			return nil, fmt.Errorf("failed to create YouTube service: %w", err)
		}
		yc.youtubeService = ytService
	}

	return yc, nil
}

// FetchTranscript retrieves the ordered caption segments for a video id.
func (c *YouTubeClient) FetchTranscript(ctx context.Context, videoID string) ([]CaptionSegment, error) {
	bodyMap := map[string]string{
		"videoUrl": "https://www.youtube.com/watch?v=" + videoID,
		"langCode": c.captionLang,
	}
	bodyBytes, err := json.Marshal(bodyMap)
	if err != nil {
		return nil, fmt.Errorf("caption request marshal: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.captionURL, bytes.NewReader(bodyBytes))
	if err != nil {
		return nil, fmt.Errorf("caption request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("caption http: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusCreated {
		return nil, fmt.Errorf("caption status: %d", resp.StatusCode)
	}

	var apiResp struct {
		Captions []CaptionSegment `json:"captions"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&apiResp); err != nil {
		return nil, fmt.Errorf("caption decode: %w", err)
	}

	var segments []CaptionSegment
	for _, seg := range apiResp.Captions {
		if strings.TrimSpace(seg.Text) != "" {
			segments = append(segments, seg)
		}
	}
	if len(segments) == 0 {
		return nil, fmt.Errorf("empty transcript for video %s", videoID)
	}
	return segments, nil
}

// VideoMeta returns the title and channel name of a video, or an error when
// the metadata service is not configured or the lookup fails.
func (c *YouTubeClient) VideoMeta(ctx context.Context, videoID string) (string, string, error) {
	if c.youtubeService == nil {
		return "", "", fmt.Errorf("youtube data api not configured")
	}

	call := c.youtubeService.Videos.List([]string{"snippet"}).Id(videoID).Context(ctx)
	resp, err := call.Do()
	if err != nil {
		return "", "", fmt.Errorf("youtube api video details: %w", err)
	}
	if len(resp.Items) == 0 {
		return "", "", fmt.Errorf("no video details found for %s", videoID)
	}

	snippet := resp.Items[0].Snippet
	return snippet.Title, snippet.ChannelTitle, nil
}

// JoinSegments concatenates caption segments into one transcript string.
func JoinSegments(segments []CaptionSegment) string {
	var builder strings.Builder
	for _, seg := range segments {
		text := strings.TrimSpace(seg.Text)
		if text == "" {
			continue
		}
		if builder.Len() > 0 {
			builder.WriteString(" ")
		}
		builder.WriteString(text)
	}
	return builder.String()
}

// ExtractVideoID extracts the YouTube video id from the common URL forms:
// watch, youtu.be short links, embed, /v/, shorts and live.
// It returns "" when no valid id can be found.
func ExtractVideoID(videoURL string) string {
	if !strings.Contains(videoURL, "://") {
		videoURL = "https://" + videoURL
	}

	parsedURL, err := url.Parse(videoURL)
	if err != nil {
		return ""
	}

	hostname := strings.ToLower(parsedURL.Hostname())

	if hostname == "youtu.be" {
		return validVideoID(strings.TrimPrefix(parsedURL.Path, "/"))
	}

	if !isYouTubeHost(hostname) {
		return ""
	}

	for _, prefix := range []string{"/embed/", "/v/", "/shorts/", "/live/"} {
		if strings.HasPrefix(parsedURL.Path, prefix) {
			if id := validVideoID(strings.TrimPrefix(parsedURL.Path, prefix)); id != "" {
				return id
			}
		}
	}

	if id := parsedURL.Query().Get("v"); id != "" {
		return validVideoID(id)
	}

	return ""
}

func isYouTubeHost(hostname string) bool {
	validDomains := []string{
		"youtube.com",
		"www.youtube.com",
		"m.youtube.com",
		"music.youtube.com",
		"youtube-nocookie.com",
		"www.youtube-nocookie.com",
	}
	for _, domain := range validDomains {
		if hostname == domain {
			return true
		}
	}
	return false
}

var videoIDPattern = regexp.MustCompile(`^[A-Za-z0-9_-]{11}$`)

// validVideoID strips trailing query/fragment leftovers and validates the
// 11-character id format.
func validVideoID(input string) string {
	if idx := strings.IndexAny(input, "?&#/"); idx != -1 {
		input = input[:idx]
	}
	input = strings.TrimSpace(input)
	if videoIDPattern.MatchString(input) {
		return input
	}
	return ""
}
