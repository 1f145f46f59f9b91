package nate

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
	SourceID   = "nate"
	SourceName = "Nate"

	defaultEndpoint = "https://www.nate.com/js/data/jsonLiveKeywordDataV1.js"
)

// Config holds Nate source configuration.
type Config struct {
	Endpoint string
	Timeout  time.Duration
}

// Source collects realtime search keywords from the Nate portal. The ranking
// endpoint serves a JSON array of rows shaped [rank, keyword, change, delta].
// Nate is Korea-only.
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
	return country == "KR"
}

// FetchTrendingKeywords returns the current realtime keyword ranking. An
// empty slice with a nil error means the call succeeded with no usable rows.
func (s *Source) FetchTrendingKeywords(ctx context.Context, country string) ([]domain.RankedKeyword, error) {
	if !s.Supports(country) {
		return nil, fmt.Errorf("nate supports KR only, got %q", country)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, s.endpoint, nil)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("User-Agent", "Mozilla/5.0 (compatible; trendwatch/1.0)")
	req.Header.Set("Referer", "https://www.nate.com/")

	resp, err := s.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("execute request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("unexpected status: %d", resp.StatusCode)
	}

	var rows [][]string
	if err := json.NewDecoder(resp.Body).Decode(&rows); err != nil {
		return nil, fmt.Errorf("decode ranking: %w", err)
	}

	keywords := make([]domain.RankedKeyword, 0, len(rows))
	for _, row := range rows {
		if len(row) < 2 || row[1] == "" {
			continue
		}
		keywords = append(keywords, domain.RankedKeyword{
			Text:    row[1],
			Country: country,
			Rank:    len(keywords) + 1,
		})
	}

	s.logger.Debug("fetched realtime keywords", "count", len(keywords))
	return keywords, nil
}
