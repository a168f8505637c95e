package classifier

import (
	"reflect"
	"testing"
)

func TestClassifyEmptyText(t *testing.T) {
	result := Classify("")

	if len(result.Instagram) != 0 || len(result.TikTok) != 0 || len(result.YouTube) != 0 ||
		len(result.Facebook) != 0 || len(result.Twitter) != 0 || len(result.Generic) != 0 {
		t.Errorf("expected all buckets empty, got %+v", result)
	}
	if len(result.Unsupported()) != 0 {
		t.Errorf("expected no unsupported platforms, got %v", result.Unsupported())
	}
}

func TestClassifyNoURLs(t *testing.T) {
	result := Classify("Est-ce que cette affirmation est vraie ? Aucune source fournie.")
	if len(result.Generic) != 0 {
		t.Errorf("expected no URLs, got %v", result.Generic)
	}
}

func TestClassifyBuckets(t *testing.T) {
	text := "Vu sur https://www.instagram.com/p/xyz et https://youtu.be/dQw4w9WgXcQ " +
		"ainsi que https://news.example.com/article et https://vm.tiktok.com/ZM1234/"

	result := Classify(text)

	if got := result.Instagram; !reflect.DeepEqual(got, []string{"https://www.instagram.com/p/xyz"}) {
		t.Errorf("instagram bucket: %v", got)
	}
	if got := result.YouTube; !reflect.DeepEqual(got, []string{"https://youtu.be/dQw4w9WgXcQ"}) {
		t.Errorf("youtube bucket: %v", got)
	}
	if got := result.TikTok; !reflect.DeepEqual(got, []string{"https://vm.tiktok.com/ZM1234/"}) {
		t.Errorf("tiktok bucket: %v", got)
	}
	if got := result.Generic; !reflect.DeepEqual(got, []string{"https://news.example.com/article"}) {
		t.Errorf("generic bucket: %v", got)
	}
}

func TestClassifyEveryURLInExactlyOneBucket(t *testing.T) {
	text := "https://x.com/user/status/1 https://www.facebook.com/watch?v=2 https://example.org/a"
	result := Classify(text)

	total := len(result.Instagram) + len(result.TikTok) + len(result.YouTube) +
		len(result.Facebook) + len(result.Twitter) + len(result.Generic)
	if total != 3 {
		t.Errorf("expected 3 URLs across all buckets, got %d: %+v", total, result)
	}
	if len(result.Twitter) != 1 || len(result.Facebook) != 1 || len(result.Generic) != 1 {
		t.Errorf("unexpected partition: %+v", result)
	}
}

func TestClassifyTrailingPunctuation(t *testing.T) {
	result := Classify("Regarde (https://news.example.com/article), c'est fou !")
	want := []string{"https://news.example.com/article"}
	if !reflect.DeepEqual(result.Generic, want) {
		t.Errorf("expected %v, got %v", want, result.Generic)
	}
}

func TestClassifyBalancedParenthesesKept(t *testing.T) {
	result := Classify("https://en.example.org/wiki/Go_(programming_language)")
	want := []string{"https://en.example.org/wiki/Go_(programming_language)"}
	if !reflect.DeepEqual(result.Generic, want) {
		t.Errorf("expected %v, got %v", want, result.Generic)
	}
}

func TestClassifyMalformedNearURL(t *testing.T) {
	// Must not panic and must not produce a bucket entry for garbage.
	result := Classify("https:// pas-une-url et http://")
	total := len(result.Instagram) + len(result.TikTok) + len(result.YouTube) +
		len(result.Facebook) + len(result.Twitter) + len(result.Generic)
	if total != 0 {
		t.Errorf("expected no URLs from malformed input, got %+v", result)
	}
}

func TestClassifyOrderPreservedWithinBucket(t *testing.T) {
	text := "https://a.example.com/1 puis https://b.example.com/2 puis https://c.example.com/3"
	result := Classify(text)

	want := []string{"https://a.example.com/1", "https://b.example.com/2", "https://c.example.com/3"}
	if !reflect.DeepEqual(result.Generic, want) {
		t.Errorf("expected order %v, got %v", want, result.Generic)
	}
}

func TestClassifyIdempotent(t *testing.T) {
	text := "https://www.youtube.com/watch?v=dQw4w9WgXcQ https://news.example.com https://instagram.com/p/1"

	first := Classify(text)
	second := Classify(text)

	if !reflect.DeepEqual(first, second) {
		t.Errorf("classification not idempotent: %+v vs %+v", first, second)
	}
}

func TestUnsupportedNames(t *testing.T) {
	result := Classify("https://instagram.com/p/1 https://x.com/s/2")
	want := []string{"Instagram", "X (Twitter)"}
	if !reflect.DeepEqual(result.Unsupported(), want) {
		t.Errorf("expected %v, got %v", want, result.Unsupported())
	}
}

func TestClassifySubdomains(t *testing.T) {
	result := Classify("https://m.youtube.com/watch?v=dQw4w9WgXcQ")
	if len(result.YouTube) != 1 {
		t.Errorf("expected m.youtube.com to land in the YouTube bucket, got %+v", result)
	}
}
