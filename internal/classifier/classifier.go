// Package classifier partitions URLs found in free text into platform buckets.
package classifier

import (
	"net/url"
	"regexp"
	"strings"
)

// Result holds the URLs found in a prompt, partitioned by platform.
// Within each bucket the original left-to-right order is preserved.
type Result struct {
	Instagram []string
	TikTok    []string
	YouTube   []string
	Facebook  []string
	Twitter   []string
	Generic   []string
}

// urlPattern finds candidate URLs in free text. Trailing punctuation and
// closing brackets are stripped afterwards, not by the pattern itself.
var urlPattern = regexp.MustCompile(`https?://[^\s<>"']+`)

var instagramHosts = []string{"instagram.com", "instagr.am"}
var tiktokHosts = []string{"tiktok.com"}
var youtubeHosts = []string{"youtube.com", "youtu.be", "youtube-nocookie.com"}
var facebookHosts = []string{"facebook.com", "fb.com", "fb.watch"}
var twitterHosts = []string{"twitter.com", "x.com", "t.co"}

// Classify scans text for URLs and sorts each one into exactly one bucket.
// Precedence: Instagram, TikTok, YouTube, Facebook, Twitter, then generic.
// Pure function: no network access, deterministic for a given input.
func Classify(text string) Result {
	var result Result

	for _, raw := range urlPattern.FindAllString(text, -1) {
		candidate := trimTrailing(raw)

		parsed, err := url.Parse(candidate)
		if err != nil || parsed.Hostname() == "" {
			continue
		}
		hostname := strings.ToLower(parsed.Hostname())

		switch {
		case matchesHost(hostname, instagramHosts):
			result.Instagram = append(result.Instagram, candidate)
		case matchesHost(hostname, tiktokHosts):
			result.TikTok = append(result.TikTok, candidate)
		case matchesHost(hostname, youtubeHosts):
			result.YouTube = append(result.YouTube, candidate)
		case matchesHost(hostname, facebookHosts):
			result.Facebook = append(result.Facebook, candidate)
		case matchesHost(hostname, twitterHosts):
			result.Twitter = append(result.Twitter, candidate)
		default:
			result.Generic = append(result.Generic, candidate)
		}
	}

	return result
}

// Unsupported returns the display names of social platforms the pipeline
// cannot access, for buckets that are non-empty, in precedence order.
func (r Result) Unsupported() []string {
	var names []string
	if len(r.Instagram) > 0 {
		names = append(names, "Instagram")
	}
	if len(r.TikTok) > 0 {
		names = append(names, "TikTok")
	}
	if len(r.Facebook) > 0 {
		names = append(names, "Facebook")
	}
	if len(r.Twitter) > 0 {
		names = append(names, "X (Twitter)")
	}
	return names
}

// matchesHost reports whether hostname equals one of the platform hosts
// or is a subdomain of one (www.instagram.com, m.youtube.com, ...).
func matchesHost(hostname string, hosts []string) bool {
	for _, h := range hosts {
		if hostname == h || strings.HasSuffix(hostname, "."+h) {
			return true
		}
	}
	return false
}

// trimTrailing removes punctuation and unbalanced closing brackets that the
// surrounding prose tends to glue onto a URL.
func trimTrailing(raw string) string {
	trimmed := strings.TrimRight(raw, ".,;:!?")
	for len(trimmed) > 0 {
		last := trimmed[len(trimmed)-1]
		switch last {
		case ')':
			if strings.Count(trimmed, "(") >= strings.Count(trimmed, ")") {
				return trimmed
			}
		case ']':
			if strings.Count(trimmed, "[") >= strings.Count(trimmed, "]") {
				return trimmed
			}
		case '}':
			if strings.Count(trimmed, "{") >= strings.Count(trimmed, "}") {
				return trimmed
			}
		default:
			return trimmed
		}
		trimmed = strings.TrimRight(trimmed[:len(trimmed)-1], ".,;:!?")
	}
	return trimmed
}
