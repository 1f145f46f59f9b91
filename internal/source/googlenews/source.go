package googlenews

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/mmcdole/gofeed"

	"trendwatch/internal/domain"
)

const (
	SourceID   = "google_news"
	SourceName = "Google News"

	maxHeadlines = 20
)

// localeParams select the per-country Google News RSS edition.
type localeParams struct {
	hl   string
	gl   string
	ceid string
}

var locales = map[string]localeParams{
	"KR": {hl: "ko", gl: "KR", ceid: "KR:ko"},
	"US": {hl: "en-US", gl: "US", ceid: "US:en"},
	"JP": {hl: "ja", gl: "JP", ceid: "JP:ja"},
	"TW": {hl: "zh-TW", gl: "TW", ceid: "TW:zh-Hant"},
	"ID": {hl: "id", gl: "ID", ceid: "ID:id"},
}

// Config holds Google News source configuration.
type Config struct {
	BaseURL string
	Timeout time.Duration
}

// Source fetches the Google News RSS headline feed for a country. Countries
// without a configured locale fall back to the US edition.
type Source struct {
	parser  *gofeed.Parser
	baseURL string
	logger  *slog.Logger
}

func New(cfg Config, logger *slog.Logger) *Source {
	baseURL := cfg.BaseURL
	if baseURL == "" {
		baseURL = "https://news.google.com/rss"
	}
	timeout := cfg.Timeout
	if timeout == 0 {
		timeout = 10 * time.Second
	}
	parser := gofeed.NewParser()
	parser.UserAgent = "trendwatch/1.0"
	parser.Client = &http.Client{Timeout: timeout}
	return &Source{
		parser:  parser,
		baseURL: baseURL,
		logger:  logger.With("source", SourceID),
	}
}

func (s *Source) FetchHeadlines(ctx context.Context, country string) ([]domain.Article, error) {
	locale, ok := locales[country]
	if !ok {
		locale = locales["US"]
	}

	feedURL := fmt.Sprintf("%s?hl=%s&gl=%s&ceid=%s", s.baseURL, locale.hl, locale.gl, locale.ceid)

	feed, err := s.parser.ParseURLWithContext(feedURL, ctx)
	if err != nil {
		return nil, fmt.Errorf("parse feed: %w", err)
	}

	articles := make([]domain.Article, 0, maxHeadlines)
	for _, item := range feed.Items {
		if len(articles) >= maxHeadlines {
			break
		}
		if item.Title == "" {
			continue
		}
		articles = append(articles, domain.Article{
			Title:       item.Title,
			Source:      SourceName,
			URL:         item.Link,
			PublishedAt: item.Published,
			Country:     country,
		})
	}

	s.logger.Debug("fetched headlines", "country", country, "count", len(articles))
	return articles, nil
}
