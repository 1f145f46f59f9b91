package youtube

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"trendwatch/internal/domain"
)

const SourceID = "youtube"

// Config holds YouTube Data API v3 configuration.
type Config struct {
	APIKey  string
	BaseURL string
	Timeout time.Duration
}

// Source talks to the YouTube Data API v3 for keyword-driven video search
// and the per-country mostPopular trending chart.
type Source struct {
	httpClient *http.Client
	baseURL    string
	apiKey     string
	logger     *slog.Logger
}

func New(cfg Config, logger *slog.Logger) *Source {
	timeout := cfg.Timeout
	if timeout == 0 {
		timeout = 10 * time.Second
	}
	return &Source{
		httpClient: &http.Client{Timeout: timeout},
		baseURL:    cfg.BaseURL,
		apiKey:     cfg.APIKey,
		logger:     logger.With("source", SourceID),
	}
}

// SearchVideos returns videos matching a keyword. The search endpoint only
// exposes snippet data, so view and like counts stay zero until the video is
// resighted through the trending chart.
func (s *Source) SearchVideos(ctx context.Context, keyword string, limit int) ([]domain.Video, error) {
	params := url.Values{}
	params.Set("part", "snippet")
	params.Set("type", "video")
	params.Set("q", keyword)
	params.Set("maxResults", strconv.Itoa(limit))
	params.Set("key", s.apiKey)

	var body searchResponse
	if err := s.get(ctx, "/search", params, &body); err != nil {
		return nil, fmt.Errorf("search videos: %w", err)
	}

	videos := make([]domain.Video, 0, len(body.Items))
	for _, item := range body.Items {
		if item.ID.VideoID == "" {
			continue
		}
		videos = append(videos, domain.Video{
			VideoID:     item.ID.VideoID,
			Title:       item.Snippet.Title,
			Channel:     item.Snippet.ChannelTitle,
			PublishedAt: item.Snippet.PublishedAt,
			URL:         watchURL(item.ID.VideoID),
		})
	}

	s.logger.Debug("searched videos", "keyword", keyword, "count", len(videos))
	return videos, nil
}

// FetchTrendingVideos returns the mostPopular chart for a country.
func (s *Source) FetchTrendingVideos(ctx context.Context, country string, limit int) ([]domain.Video, error) {
	params := url.Values{}
	params.Set("part", "snippet,statistics")
	params.Set("chart", "mostPopular")
	params.Set("regionCode", country)
	params.Set("maxResults", strconv.Itoa(limit))
	params.Set("key", s.apiKey)

	var body videosResponse
	if err := s.get(ctx, "/videos", params, &body); err != nil {
		return nil, fmt.Errorf("fetch trending videos: %w", err)
	}

	videos := make([]domain.Video, 0, len(body.Items))
	for _, item := range body.Items {
		if item.ID == "" {
			continue
		}
		videos = append(videos, domain.Video{
			VideoID:     item.ID,
			Title:       item.Snippet.Title,
			Channel:     item.Snippet.ChannelTitle,
			Views:       parseCount(item.Statistics.ViewCount),
			Likes:       parseCount(item.Statistics.LikeCount),
			PublishedAt: item.Snippet.PublishedAt,
			URL:         watchURL(item.ID),
		})
	}

	s.logger.Debug("fetched trending videos", "country", country, "count", len(videos))
	return videos, nil
}

func (s *Source) get(ctx context.Context, path string, params url.Values, out any) error {
	reqURL := fmt.Sprintf("%s%s?%s", s.baseURL, path, params.Encode())

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := s.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("execute request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("unexpected status: %d", resp.StatusCode)
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}

func watchURL(videoID string) string {
	return "https://youtube.com/watch?v=" + videoID
}

func parseCount(s string) int64 {
	n, err := strconv.ParseInt(s, 10, 64)
	if err != nil {
		return 0
	}
	return n
}
