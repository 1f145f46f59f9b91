// Package normalize maps raw adapter items into the canonical content shapes
// before they cross into the store. Every field is clamped to its storage
// limit here so the storage layer never sees a length violation.
package normalize

import (
	"strings"
	"time"

	"trendwatch/internal/domain"
)

// Storage field limits, matching the content table column widths.
const (
	MaxTitleLen       = 300
	MaxChannelLen     = 200
	MaxVideoURLLen    = 300
	MaxSourceLen      = 100
	MaxDescriptionLen = 500
	MaxArticleURLLen  = 500
	MaxKeywordLen     = 200
)

// DefaultPreviewLen caps titles fed into keyword extraction.
const DefaultPreviewLen = 80

// Truncate clamps s to at most max runes. Truncation is rune-safe so
// multibyte titles never get cut mid-character.
func Truncate(s string, max int) string {
	if max <= 0 {
		return ""
	}
	runes := []rune(s)
	if len(runes) <= max {
		return s
	}
	return string(runes[:max])
}

// CleanHeadline strips the publisher attribution some headline feeds append
// to titles ("Some headline - Publisher Name" becomes "Some headline").
// Only the suffix after the last delimiter occurrence is removed.
func CleanHeadline(title string) string {
	if idx := strings.LastIndex(title, " - "); idx >= 0 {
		return title[:idx]
	}
	return title
}

// TitlePreview returns the first n runes of a title for downstream keyword
// extraction, independent of the stored full title.
func TitlePreview(title string, n int) string {
	return Truncate(strings.TrimSpace(title), n)
}

// Video returns a copy of v with all fields clamped to storage limits,
// country stamped, and a published timestamp defaulted to the collection
// instant when the source omitted one.
func Video(v domain.Video, country string, now time.Time) domain.Video {
	v.Title = Truncate(strings.TrimSpace(v.Title), MaxTitleLen)
	v.Channel = Truncate(strings.TrimSpace(v.Channel), MaxChannelLen)
	v.URL = Truncate(v.URL, MaxVideoURLLen)
	v.Country = country
	if v.PublishedAt == "" {
		v.PublishedAt = now.Format(time.RFC3339)
	}
	return v
}

// Article returns a copy of a with all fields clamped to storage limits. The
// headline is cleaned of publisher suffixes before truncation.
func Article(a domain.Article, country string, now time.Time) domain.Article {
	a.Title = Truncate(CleanHeadline(strings.TrimSpace(a.Title)), MaxTitleLen)
	a.Source = Truncate(strings.TrimSpace(a.Source), MaxSourceLen)
	a.Description = Truncate(a.Description, MaxDescriptionLen)
	a.URL = Truncate(a.URL, MaxArticleURLLen)
	a.Country = country
	if a.PublishedAt == "" {
		a.PublishedAt = now.Format(time.RFC3339)
	}
	return a
}
