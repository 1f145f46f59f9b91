package reddit

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"trendwatch/internal/domain"
)

const (
	SourceID   = "reddit"
	SourceName = "Reddit"

	defaultEndpoint = "https://www.reddit.com/r/popular/hot.json"
)

// Config holds Reddit source configuration.
type Config struct {
	Endpoint string
	Limit    int
	Timeout  time.Duration
}

// Source derives globally trending keywords from the hottest posts on
// r/popular. It is the catch-all entry at the end of most fallback chains
// since it works for any country.
type Source struct {
	httpClient *http.Client
	endpoint   string
	limit      int
	logger     *slog.Logger
}

func New(cfg Config, logger *slog.Logger) *Source {
	endpoint := cfg.Endpoint
	if endpoint == "" {
		endpoint = defaultEndpoint
	}
	limit := cfg.Limit
	if limit == 0 {
		limit = 25
	}
	timeout := cfg.Timeout
	if timeout == 0 {
		timeout = 10 * time.Second
	}
	return &Source{
		httpClient: &http.Client{Timeout: timeout},
		endpoint:   endpoint,
		limit:      limit,
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
	return true
}

type listing struct {
	Data struct {
		Children []struct {
			Data struct {
				Title string `json:"title"`
				Ups   int    `json:"ups"`
			} `json:"data"`
		} `json:"children"`
	} `json:"data"`
}

func (s *Source) FetchTrendingKeywords(ctx context.Context, country string) ([]domain.RankedKeyword, error) {
	url := fmt.Sprintf("%s?limit=%d", s.endpoint, s.limit)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	// Reddit rejects default Go user agents.
	req.Header.Set("User-Agent", "trendwatch:keyword-collector:1.0")
	req.Header.Set("Accept", "application/json")

	resp, err := s.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("execute request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("unexpected status: %d", resp.StatusCode)
	}

	var body listing
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return nil, fmt.Errorf("decode listing: %w", err)
	}

	keywords := make([]domain.RankedKeyword, 0, len(body.Data.Children))
	for _, child := range body.Data.Children {
		if child.Data.Title == "" {
			continue
		}
		keywords = append(keywords, domain.RankedKeyword{
			Text:    child.Data.Title,
			Country: country,
			Rank:    len(keywords) + 1,
			Volume:  child.Data.Ups,
		})
	}

	s.logger.Debug("fetched global trends", "count", len(keywords))
	return keywords, nil
}
