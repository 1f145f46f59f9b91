package normalize

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"trendwatch/internal/domain"
)

func TestTruncate(t *testing.T) {
	assert.Equal(t, "abc", Truncate("abc", 10))
	assert.Equal(t, "abc", Truncate("abcdef", 3))
	assert.Equal(t, "", Truncate("abc", 0))

	// Rune-safe on multibyte input.
	assert.Equal(t, "단풍", Truncate("단풍놀이", 2))
}

func TestTruncateLongTitleInvariant(t *testing.T) {
	long := strings.Repeat("연", 1000)
	v := Video(domain.Video{VideoID: "v1", Title: long}, "KR", time.Now())
	assert.LessOrEqual(t, len([]rune(v.Title)), MaxTitleLen)
}

func TestCleanHeadline(t *testing.T) {
	assert.Equal(t, "제목", CleanHeadline("제목 - 조선일보"))
	assert.Equal(t, "plain headline", CleanHeadline("plain headline"))

	// Only the last delimiter occurrence is stripped.
	assert.Equal(t, "a - b", CleanHeadline("a - b - Publisher"))
}

func TestTitlePreview(t *testing.T) {
	assert.Equal(t, "short", TitlePreview("  short  ", 20))
	assert.Equal(t, "lo", TitlePreview("long", 2))
}

func TestVideoDefaultsPublishedAt(t *testing.T) {
	now := time.Date(2025, 11, 3, 10, 0, 0, 0, time.UTC)

	v := Video(domain.Video{VideoID: "v1", Title: "t"}, "KR", now)
	assert.Equal(t, now.Format(time.RFC3339), v.PublishedAt)
	assert.Equal(t, "KR", v.Country)

	withDate := Video(domain.Video{VideoID: "v2", PublishedAt: "2025-01-01T00:00:00Z"}, "KR", now)
	assert.Equal(t, "2025-01-01T00:00:00Z", withDate.PublishedAt)
}

func TestVideoClampsAllFields(t *testing.T) {
	v := Video(domain.Video{
		VideoID: "v1",
		Title:   strings.Repeat("t", 500),
		Channel: strings.Repeat("c", 500),
		URL:     "https://youtube.com/watch?v=" + strings.Repeat("x", 500),
	}, "US", time.Now())

	assert.Len(t, v.Title, MaxTitleLen)
	assert.Len(t, v.Channel, MaxChannelLen)
	assert.Len(t, v.URL, MaxVideoURLLen)
}

func TestArticleCleansAndClamps(t *testing.T) {
	now := time.Now()

	a := Article(domain.Article{
		Title:       "속보 헤드라인 - 연합뉴스",
		Source:      strings.Repeat("s", 200),
		Description: strings.Repeat("d", 1000),
		URL:         "https://news.example.com/a",
	}, "KR", now)

	assert.Equal(t, "속보 헤드라인", a.Title)
	assert.Len(t, a.Source, MaxSourceLen)
	assert.Len(t, a.Description, MaxDescriptionLen)
	assert.Equal(t, "KR", a.Country)
	assert.Equal(t, now.Format(time.RFC3339), a.PublishedAt)
}
