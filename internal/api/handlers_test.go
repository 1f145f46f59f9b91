package api

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"trendwatch/internal/domain"
)

type stubTrendService struct {
	collectCountry string
	collectSource  string
	report         *domain.CollectionReport
	platform       *domain.PlatformKeywords
	contents       *domain.TodaysContents
	limit          int
	err            error
}

func (s *stubTrendService) CollectTrendingContents(_ context.Context, country, source string) (*domain.CollectionReport, error) {
	s.collectCountry = country
	s.collectSource = source
	return s.report, s.err
}

func (s *stubTrendService) GetPlatformKeywords(_ context.Context, country string) (*domain.PlatformKeywords, error) {
	return s.platform, s.err
}

func (s *stubTrendService) GetTodaysContents(_ context.Context, country string, limit int) (*domain.TodaysContents, error) {
	s.limit = limit
	return s.contents, s.err
}

func newTestRouter(stub *stubTrendService) http.Handler {
	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelError}))
	return NewServer(NewHandler(stub, logger))
}

func TestCollectTrending(t *testing.T) {
	stub := &stubTrendService{
		report: &domain.CollectionReport{
			Success: true,
			Message: "collected 3 items",
			Stats:   domain.CollectionStats{Country: "KR", Videos: 2, Articles: 1},
		},
	}
	router := newTestRouter(stub)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/trend/collect-trending?country=KR&source=nate", nil)
	router.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "KR", stub.collectCountry)
	assert.Equal(t, "nate", stub.collectSource)

	var report domain.CollectionReport
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &report))
	assert.True(t, report.Success)
	assert.Equal(t, 2, report.Stats.Videos)
}

func TestCollectTrending_Defaults(t *testing.T) {
	stub := &stubTrendService{report: &domain.CollectionReport{Success: true}}
	router := newTestRouter(stub)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/trend/collect-trending", nil)
	router.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "KR", stub.collectCountry)
	assert.Equal(t, "auto", stub.collectSource)
}

func TestCollectTrending_ServiceError(t *testing.T) {
	stub := &stubTrendService{err: errors.New("store unavailable")}
	router := newTestRouter(stub)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/trend/collect-trending", nil)
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusInternalServerError, w.Code)
}

func TestGetTrendingContents(t *testing.T) {
	stub := &stubTrendService{
		contents: &domain.TodaysContents{
			Videos:   []domain.Video{{ID: 1, VideoID: "abc", Title: "Clip"}},
			Articles: []domain.Article{{ID: 2, Title: "Headline"}},
		},
	}
	router := newTestRouter(stub)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/trend/trending/contents?country=KR&limit=10", nil)
	router.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, 10, stub.limit)

	var body struct {
		Country  string           `json:"country"`
		Videos   []domain.Video   `json:"videos"`
		Articles []domain.Article `json:"articles"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, "KR", body.Country)
	assert.Len(t, body.Videos, 1)
	assert.Len(t, body.Articles, 1)
}

func TestGetTrendingContents_DefaultLimit(t *testing.T) {
	stub := &stubTrendService{contents: &domain.TodaysContents{}}
	router := newTestRouter(stub)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/trend/trending/contents", nil)
	router.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, defaultContentLimit, stub.limit)
}

func TestGetTrendingContents_BadLimit(t *testing.T) {
	stub := &stubTrendService{contents: &domain.TodaysContents{}}
	router := newTestRouter(stub)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/trend/trending/contents?limit=zero", nil)
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestGetPlatformKeywords(t *testing.T) {
	stub := &stubTrendService{
		platform: &domain.PlatformKeywords{
			Success:  true,
			Platform: "Nate",
			Keywords: []string{"축제", "선거"},
		},
	}
	router := newTestRouter(stub)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/trend/platform-keywords?country=KR", nil)
	router.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)

	var body domain.PlatformKeywords
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.True(t, body.Success)
	assert.Equal(t, "Nate", body.Platform)
	assert.Len(t, body.Keywords, 2)
}

func TestGetHealth(t *testing.T) {
	router := newTestRouter(&stubTrendService{})

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	router.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"status":"ok"`)
}
