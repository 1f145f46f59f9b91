package yahoojp

import (
	"context"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelError}))
}

func TestFetchTrendingKeywords(t *testing.T) {
	page := `<html><body>
		<ul class="trend-ranking-list">
			<li><a href="/realtime/search?p=1">台風情報</a></li>
			<li><a href="/realtime/search?p=2">新作アニメ</a></li>
			<li><a href="/realtime/search?p=2b">新作アニメ</a></li>
			<li><a href="/realtime/search?p=3">12</a></li>
			<li><a href="/realtime/search?p=4">選挙速報</a></li>
		</ul>
	</body></html>`

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(page))
	}))
	defer server.Close()

	src := New(Config{Endpoint: server.URL, Timeout: time.Second}, testLogger())

	keywords, err := src.FetchTrendingKeywords(context.Background(), "JP")
	require.NoError(t, err)
	require.Len(t, keywords, 3)

	assert.Equal(t, "台風情報", keywords[0].Text)
	assert.Equal(t, 1, keywords[0].Rank)
	// Duplicates and bare rank numbers are dropped.
	assert.Equal(t, "新作アニメ", keywords[1].Text)
	assert.Equal(t, "選挙速報", keywords[2].Text)
	assert.Equal(t, 3, keywords[2].Rank)
}

func TestFetchTrendingKeywords_FallbackSelector(t *testing.T) {
	page := `<html><body>
		<div><a href="https://search.yahoo.co.jp/realtime/search?p=x">夏祭り</a></div>
	</body></html>`

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(page))
	}))
	defer server.Close()

	src := New(Config{Endpoint: server.URL, Timeout: time.Second}, testLogger())

	keywords, err := src.FetchTrendingKeywords(context.Background(), "JP")
	require.NoError(t, err)
	require.Len(t, keywords, 1)
	assert.Equal(t, "夏祭り", keywords[0].Text)
}

func TestFetchTrendingKeywords_UnsupportedCountry(t *testing.T) {
	src := New(Config{}, testLogger())

	_, err := src.FetchTrendingKeywords(context.Background(), "KR")
	assert.Error(t, err)
}

func TestFetchTrendingKeywords_StaleMarkup(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`<html><body><p>redesigned page</p></body></html>`))
	}))
	defer server.Close()

	src := New(Config{Endpoint: server.URL, Timeout: time.Second}, testLogger())

	keywords, err := src.FetchTrendingKeywords(context.Background(), "JP")
	assert.NoError(t, err)
	assert.Empty(t, keywords)
}
