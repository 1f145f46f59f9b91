package googlenews

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

const feedFixture = `<?xml version="1.0" encoding="UTF-8"?>
<rss version="2.0">
  <channel>
    <title>Top stories</title>
    <item>
      <title>Summit talks resume - Example Times</title>
      <link>https://news.example.com/summit</link>
      <pubDate>Mon, 25 Aug 2025 09:00:00 GMT</pubDate>
    </item>
    <item>
      <title></title>
      <link>https://news.example.com/untitled</link>
    </item>
    <item>
      <title>Storm warning issued</title>
      <link>https://news.example.com/storm</link>
      <pubDate>Mon, 25 Aug 2025 10:00:00 GMT</pubDate>
    </item>
  </channel>
</rss>`

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelError}))
}

func TestFetchHeadlines(t *testing.T) {
	var gotQuery string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotQuery = r.URL.RawQuery
		w.Header().Set("Content-Type", "application/rss+xml")
		w.Write([]byte(feedFixture))
	}))
	defer server.Close()

	src := New(Config{BaseURL: server.URL, Timeout: time.Second}, testLogger())

	articles, err := src.FetchHeadlines(context.Background(), "KR")
	require.NoError(t, err)
	require.Len(t, articles, 2)

	assert.Equal(t, "hl=ko&gl=KR&ceid=KR:ko", gotQuery)
	assert.Equal(t, "Summit talks resume - Example Times", articles[0].Title)
	assert.Equal(t, "Google News", articles[0].Source)
	assert.Equal(t, "https://news.example.com/summit", articles[0].URL)
	assert.Equal(t, "KR", articles[0].Country)
	assert.Equal(t, "Storm warning issued", articles[1].Title)
}

func TestFetchHeadlines_UnknownCountryFallsBackToUS(t *testing.T) {
	var gotQuery string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotQuery = r.URL.RawQuery
		w.Write([]byte(feedFixture))
	}))
	defer server.Close()

	src := New(Config{BaseURL: server.URL, Timeout: time.Second}, testLogger())

	_, err := src.FetchHeadlines(context.Background(), "FR")
	require.NoError(t, err)
	assert.Equal(t, "hl=en-US&gl=US&ceid=US:en", gotQuery)
}

func TestFetchHeadlines_UpstreamError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer server.Close()

	src := New(Config{BaseURL: server.URL, Timeout: time.Second}, testLogger())

	_, err := src.FetchHeadlines(context.Background(), "KR")
	assert.Error(t, err)
}
