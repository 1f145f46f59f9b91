package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"

	"trendwatch/internal/config"
	"trendwatch/internal/domain"
	"trendwatch/internal/normalize"
)

// CollectService orchestrates one collection run: keyword fallback chain,
// keyword-driven video searches, trending top-up, headline feed, normalize,
// dedup/upsert into the daily bucket, score recompute, then best-effort
// keyword insight and report publishing.
type CollectService struct {
	keywords  *KeywordFetcher
	videos    VideoSource
	headlines HeadlineSource
	insight   KeywordExtractor
	buckets   BucketStore
	vstore    VideoStore
	astore    ArticleStore
	txManager TransactionManager
	publisher Publisher
	logger    *slog.Logger
	cfg       config.CollectConfig
}

func NewCollectService(
	keywords *KeywordFetcher,
	videos VideoSource,
	headlines HeadlineSource,
	insight KeywordExtractor,
	buckets BucketStore,
	vstore VideoStore,
	astore ArticleStore,
	txManager TransactionManager,
	publisher Publisher,
	logger *slog.Logger,
	cfg config.CollectConfig,
) *CollectService {
	return &CollectService{
		keywords:  keywords,
		videos:    videos,
		headlines: headlines,
		insight:   insight,
		buckets:   buckets,
		vstore:    vstore,
		astore:    astore,
		txManager: txManager,
		publisher: publisher,
		logger:    logger,
		cfg:       cfg,
	}
}

// CollectTrendingContents runs a full collection for one country.
// sourcePreference is either "auto" (fallback chain) or the ID of a single
// keyword source. Adapter failures degrade the run; only an unreachable
// store or an invalid source/country combination fail it.
func (s *CollectService) CollectTrendingContents(ctx context.Context, country, sourcePreference string) (*domain.CollectionReport, error) {
	ctx, cancel := context.WithTimeout(ctx, s.cfg.RequestTimeout)
	defer cancel()

	start := time.Now()
	s.logger.Info("starting collection", "country", country, "source", sourcePreference)

	bucket, err := s.buckets.GetOrCreateDaily(ctx, country, start)
	if err != nil {
		return nil, fmt.Errorf("get or create daily bucket: %w", err)
	}

	keywords, sourceID, err := s.keywords.Fetch(ctx, country, sourcePreference)
	if err != nil {
		return nil, fmt.Errorf("fetch trending keywords: %w", err)
	}

	if len(keywords) > s.cfg.KeywordLimit {
		keywords = keywords[:s.cfg.KeywordLimit]
	}
	topKeywords := make([]string, 0, len(keywords))
	for _, kw := range keywords {
		topKeywords = append(topKeywords, kw.Text)
	}

	if len(keywords) == 0 {
		// No keywords degrades the run but never aborts it: the trending
		// video feed and the headline feed need no keyword.
		s.logger.Warn("no trending keywords collected", "country", country, "source", sourcePreference)
	} else {
		s.logger.Info("collected trending keywords",
			"country", country,
			"source", sourceID,
			"count", len(keywords),
		)
	}

	rawVideos, rawArticles := s.fetchContents(ctx, country, keywords)

	now := time.Now()
	videos := dedupVideos(rawVideos)
	articles := dedupArticles(rawArticles)
	for i := range videos {
		videos[i] = normalize.Video(videos[i], country, now)
	}
	for i := range articles {
		articles[i] = normalize.Article(articles[i], country, now)
	}

	stats := domain.CollectionStats{
		Country:  country,
		BucketID: bucket.ID,
		Keywords: len(keywords),
	}
	s.storeVideos(ctx, bucket.ID, videos, &stats)
	s.storeArticles(ctx, bucket.ID, articles, &stats)

	// Score recomputation is the final write of the run so it observes every
	// completed upsert, including reassignments from earlier buckets.
	refreshed, err := s.buckets.RefreshStats(ctx, bucket.ID)
	switch {
	case err == nil:
		stats.Score = refreshed.Score
	case errors.Is(err, context.DeadlineExceeded) || errors.Is(err, context.Canceled):
		s.logger.Warn("deadline reached before score recompute, reporting partial counts",
			"country", country,
			"bucket_id", bucket.ID,
		)
	default:
		return nil, fmt.Errorf("refresh bucket stats: %w", err)
	}

	stats.Duration = time.Since(start)

	report := &domain.CollectionReport{
		Success:     true,
		Message:     collectionMessage(&stats, topKeywords),
		Stats:       stats,
		TopKeywords: topKeywords,
		AIKeywords:  s.extractInsights(ctx, videos, articles),
	}

	if s.publisher != nil {
		if err := s.publisher.Publish(ctx, report); err != nil {
			s.logger.Warn("failed to publish collection report", "country", country, "error", err)
		}
	}

	s.logger.Info("collection completed",
		"country", country,
		"bucket_id", bucket.ID,
		"videos", stats.Videos,
		"articles", stats.Articles,
		"new", stats.New,
		"reassigned", stats.Reassigned,
		"skipped", stats.Skipped,
		"score", stats.Score,
		"duration", stats.Duration,
	)

	return report, nil
}

// fetchContents fans out the keyword-driven video searches, the trending
// video top-up, and the headline feed. All three touch disjoint upstreams:
// the headline fetch runs concurrently with the whole video phase, and the
// per-keyword searches are bounded to respect upstream rate limits. Adapter
// errors are absorbed here; one failed provider never blocks another.
func (s *CollectService) fetchContents(ctx context.Context, country string, keywords []domain.RankedKeyword) ([]domain.Video, []domain.Article) {
	var (
		mu       sync.Mutex
		videos   []domain.Video
		articles []domain.Article
	)

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		sg, sctx := errgroup.WithContext(gctx)
		sg.SetLimit(s.cfg.SearchConcurrency)
		for _, kw := range keywords {
			sg.Go(func() error {
				found, err := s.videos.SearchVideos(sctx, kw.Text, s.cfg.VideosPerKeyword)
				if err != nil {
					s.logger.Warn("video search failed", "keyword", kw.Text, "error", err)
					return nil
				}
				mu.Lock()
				videos = append(videos, found...)
				mu.Unlock()
				return nil
			})
		}
		_ = sg.Wait()

		mu.Lock()
		collected := len(videos)
		mu.Unlock()
		if collected < s.cfg.TrendingMinVideos {
			trending, err := s.videos.FetchTrendingVideos(gctx, country, s.cfg.TrendingLimit)
			if err != nil {
				s.logger.Warn("trending video fetch failed", "country", country, "error", err)
				return nil
			}
			mu.Lock()
			videos = append(videos, trending...)
			mu.Unlock()
		}
		return nil
	})

	g.Go(func() error {
		headlines, err := s.headlines.FetchHeadlines(gctx, country)
		if err != nil {
			s.logger.Warn("headline fetch failed", "country", country, "error", err)
			return nil
		}
		mu.Lock()
		articles = append(articles, headlines...)
		mu.Unlock()
		return nil
	})

	_ = g.Wait()
	return videos, articles
}

// storeVideos upserts the batch one item per transaction. A malformed or
// failing item is logged and skipped; the rest of the batch proceeds.
func (s *CollectService) storeVideos(ctx context.Context, bucketID int64, videos []domain.Video, stats *domain.CollectionStats) {
	for i := range videos {
		video := &videos[i]
		if video.VideoID == "" {
			s.logger.Warn("skipping video without id", "title", video.Title)
			stats.Skipped++
			continue
		}

		var outcome domain.UpsertOutcome
		err := s.txManager.WithTransaction(ctx, func(txCtx context.Context) error {
			var err error
			outcome, err = s.vstore.Upsert(txCtx, bucketID, video)
			return err
		})
		if err != nil {
			s.logger.Warn("failed to store video", "video_id", video.VideoID, "error", err)
			stats.Skipped++
			continue
		}

		stats.Videos++
		if outcome == domain.OutcomeReassigned {
			stats.Reassigned++
		} else {
			stats.New++
		}
	}
}

func (s *CollectService) storeArticles(ctx context.Context, bucketID int64, articles []domain.Article, stats *domain.CollectionStats) {
	for i := range articles {
		article := &articles[i]
		if article.Title == "" && article.URL == "" {
			s.logger.Warn("skipping empty article")
			stats.Skipped++
			continue
		}

		var outcome domain.UpsertOutcome
		err := s.txManager.WithTransaction(ctx, func(txCtx context.Context) error {
			var err error
			outcome, err = s.astore.Upsert(txCtx, bucketID, article)
			return err
		})
		if err != nil {
			s.logger.Warn("failed to store article", "url", article.URL, "error", err)
			stats.Skipped++
			continue
		}

		stats.Articles++
		if outcome == domain.OutcomeReassigned {
			stats.Reassigned++
		} else {
			stats.New++
		}
	}
}

// extractInsights asks the keyword extractor for marketing keywords over the
// collected titles. Any failure degrades to an empty result.
func (s *CollectService) extractInsights(ctx context.Context, videos []domain.Video, articles []domain.Article) []string {
	titles := make([]string, 0, len(videos)+len(articles))
	for _, v := range videos {
		titles = append(titles, normalize.TitlePreview(v.Title, normalize.DefaultPreviewLen))
	}
	for _, a := range articles {
		titles = append(titles, normalize.TitlePreview(a.Title, normalize.DefaultPreviewLen))
	}
	if len(titles) == 0 {
		return nil
	}
	if len(titles) > s.cfg.InsightTitleLimit {
		titles = titles[:s.cfg.InsightTitleLimit]
	}

	keywords, err := s.insight.ExtractMarketingKeywords(ctx, titles, s.cfg.InsightKeywords)
	if err != nil {
		s.logger.Warn("keyword insight extraction failed", "error", err)
		return nil
	}
	return keywords
}

// GetPlatformKeywords fetches realtime search keywords from the single
// platform configured for a country. No fallback and no merge, just a
// passthrough to one adapter.
func (s *CollectService) GetPlatformKeywords(ctx context.Context, country string) (*domain.PlatformKeywords, error) {
	sourceID, ok := s.cfg.Platforms[country]
	if !ok {
		return &domain.PlatformKeywords{
			Success: false,
			Message: fmt.Sprintf("country %s has no realtime keyword platform", country),
		}, nil
	}

	src, ok := s.keywords.Source(sourceID)
	if !ok {
		return nil, fmt.Errorf("platform source %q is not registered", sourceID)
	}

	callCtx, cancel := context.WithTimeout(ctx, s.cfg.AdapterTimeout)
	defer cancel()

	keywords, err := src.FetchTrendingKeywords(callCtx, country)
	if err != nil {
		s.logger.Warn("platform keyword fetch failed", "platform", src.ID(), "country", country, "error", err)
		return &domain.PlatformKeywords{
			Success:  false,
			Platform: src.Name(),
			Message:  fmt.Sprintf("%s keyword collection failed", src.Name()),
		}, nil
	}
	if len(keywords) == 0 {
		return &domain.PlatformKeywords{
			Success:  false,
			Platform: src.Name(),
			Message:  fmt.Sprintf("%s returned no keywords", src.Name()),
		}, nil
	}

	texts := make([]string, 0, len(keywords))
	for _, kw := range keywords {
		texts = append(texts, kw.Text)
	}

	return &domain.PlatformKeywords{
		Success:  true,
		Platform: src.Name(),
		Keywords: texts,
		Message:  fmt.Sprintf("collected %d keywords from %s", len(texts), src.Name()),
	}, nil
}

// GetTodaysContents returns the contents of today's bucket for a country.
// A missing bucket yields empty lists, not an error.
func (s *CollectService) GetTodaysContents(ctx context.Context, country string, limit int) (*domain.TodaysContents, error) {
	bucket, err := s.buckets.GetDaily(ctx, country, time.Now())
	if err != nil {
		return nil, fmt.Errorf("get daily bucket: %w", err)
	}
	if bucket == nil {
		return &domain.TodaysContents{}, nil
	}

	videos, err := s.vstore.ListByBucket(ctx, bucket.ID, limit)
	if err != nil {
		return nil, fmt.Errorf("list videos: %w", err)
	}
	articles, err := s.astore.ListByBucket(ctx, bucket.ID, limit)
	if err != nil {
		return nil, fmt.Errorf("list articles: %w", err)
	}

	return &domain.TodaysContents{Videos: videos, Articles: articles}, nil
}

// dedupVideos collapses duplicates by provider video id, keeping the last
// occurrence so later (richer) sightings win. Items without an id pass
// through untouched and are rejected at the store step.
func dedupVideos(videos []domain.Video) []domain.Video {
	lastIdx := make(map[string]int, len(videos))
	result := make([]domain.Video, 0, len(videos))
	for _, v := range videos {
		if v.VideoID == "" {
			result = append(result, v)
			continue
		}
		if i, seen := lastIdx[v.VideoID]; seen {
			result[i] = v
			continue
		}
		lastIdx[v.VideoID] = len(result)
		result = append(result, v)
	}
	return result
}

// dedupArticles collapses duplicates by URL. Articles without a URL are not
// deduplicable and are all kept.
func dedupArticles(articles []domain.Article) []domain.Article {
	lastIdx := make(map[string]int, len(articles))
	result := make([]domain.Article, 0, len(articles))
	for _, a := range articles {
		if a.URL == "" {
			result = append(result, a)
			continue
		}
		if i, seen := lastIdx[a.URL]; seen {
			result[i] = a
			continue
		}
		lastIdx[a.URL] = len(result)
		result = append(result, a)
	}
	return result
}

func collectionMessage(stats *domain.CollectionStats, topKeywords []string) string {
	total := stats.Videos + stats.Articles
	if len(topKeywords) == 0 {
		return fmt.Sprintf("collected %d items", total)
	}
	preview := topKeywords
	if len(preview) > 5 {
		preview = preview[:5]
	}
	return fmt.Sprintf("collected %d items (keywords: %s)", total, strings.Join(preview, ", "))
}
