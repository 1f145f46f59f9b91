package yahoojp

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"

	"trendwatch/internal/domain"
)

const (
	SourceID   = "yahoo_japan"
	SourceName = "Yahoo! Japan"

	defaultEndpoint = "https://search.yahoo.co.jp/realtime/search"

	maxKeywords = 20
)

// Config holds Yahoo! Japan source configuration.
type Config struct {
	Endpoint string
	Timeout  time.Duration
}

// Source scrapes the Yahoo! Japan realtime search ranking page. Japan-only.
// The page markup shifts occasionally, so extraction tries a list of
// selectors from most to least specific.
type Source struct {
	httpClient *http.Client
	endpoint   string
	logger     *slog.Logger
}

func New(cfg Config, logger *slog.Logger) *Source {
	endpoint := cfg.Endpoint
	if endpoint == "" {
		endpoint = defaultEndpoint
	}
	timeout := cfg.Timeout
	if timeout == 0 {
		timeout = 10 * time.Second
	}
	return &Source{
		httpClient: &http.Client{Timeout: timeout},
		endpoint:   endpoint,
		logger:     logger.With("source", SourceID),
	}
}

func (s *Source) ID() string {
	return SourceID
}

func (s *Source) Name() string {
	return SourceName
}

func (s *Source) Supports(country string) bool {
	return country == "JP"
}

func (s *Source) FetchTrendingKeywords(ctx context.Context, country string) ([]domain.RankedKeyword, error) {
	if !s.Supports(country) {
		return nil, fmt.Errorf("yahoo_japan supports JP only, got %q", country)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, s.endpoint, nil)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("User-Agent", "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0.0.0 Safari/537.36")

	resp, err := s.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("execute request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("unexpected status: %d", resp.StatusCode)
	}

	doc, err := goquery.NewDocumentFromReader(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("parse page: %w", err)
	}

	items := doc.Find(".trend-ranking-list li a")
	if items.Length() == 0 {
		items = doc.Find(".ranking-list li a")
	}
	if items.Length() == 0 {
		items = doc.Find("a[href*='search']")
	}

	seen := make(map[string]struct{})
	var keywords []domain.RankedKeyword
	items.EachWithBreak(func(_ int, sel *goquery.Selection) bool {
		text := strings.TrimSpace(sel.Text())
		if !usableKeyword(text) {
			return true
		}
		if _, dup := seen[text]; dup {
			return true
		}
		seen[text] = struct{}{}
		keywords = append(keywords, domain.RankedKeyword{
			Text:    text,
			Country: country,
			Rank:    len(keywords) + 1,
		})
		return len(keywords) < maxKeywords
	})

	if len(keywords) == 0 {
		s.logger.Warn("no keywords extracted, selectors may be stale")
	} else {
		s.logger.Debug("fetched realtime keywords", "count", len(keywords))
	}
	return keywords, nil
}

// usableKeyword drops rank numbers and other junk the looser selectors pick up.
func usableKeyword(text string) bool {
	if len([]rune(text)) < 2 {
		return false
	}
	for _, r := range text {
		if r < '0' || r > '9' {
			return true
		}
	}
	return false
}
