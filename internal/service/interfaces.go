package service

//go:generate mockgen -source=interfaces.go -destination=mocks/mocks.go -package=mocks

import (
	"context"
	"time"

	"trendwatch/internal/domain"
)

// TrendSource is a realtime keyword provider for the fallback chain. A call
// that succeeds with zero keywords and a call that fails are different
// outcomes: the first returns an empty slice with a nil error, the second a
// non-nil error. The orchestrator advances the chain on both but must never
// treat them as the same thing.
type TrendSource interface {
	ID() string
	Name() string
	Supports(country string) bool
	FetchTrendingKeywords(ctx context.Context, country string) ([]domain.RankedKeyword, error)
}

type VideoSource interface {
	SearchVideos(ctx context.Context, keyword string, limit int) ([]domain.Video, error)
	FetchTrendingVideos(ctx context.Context, country string, limit int) ([]domain.Video, error)
}

type HeadlineSource interface {
	FetchHeadlines(ctx context.Context, country string) ([]domain.Article, error)
}

// KeywordExtractor derives marketing keywords from collected titles. It is
// best-effort: callers absorb errors and fall back to an empty result.
type KeywordExtractor interface {
	ExtractMarketingKeywords(ctx context.Context, titles []string, maxCount int) ([]string, error)
}

type BucketStore interface {
	GetOrCreateDaily(ctx context.Context, country string, day time.Time) (*domain.Bucket, error)
	GetDaily(ctx context.Context, country string, day time.Time) (*domain.Bucket, error)
	RefreshStats(ctx context.Context, bucketID int64) (*domain.Bucket, error)
}

type VideoStore interface {
	Upsert(ctx context.Context, bucketID int64, video *domain.Video) (domain.UpsertOutcome, error)
	ListByBucket(ctx context.Context, bucketID int64, limit int) ([]domain.Video, error)
}

type ArticleStore interface {
	Upsert(ctx context.Context, bucketID int64, article *domain.Article) (domain.UpsertOutcome, error)
	ListByBucket(ctx context.Context, bucketID int64, limit int) ([]domain.Article, error)
}

type TransactionManager interface {
	WithTransaction(ctx context.Context, fn func(ctx context.Context) error) error
}

type Publisher interface {
	Publish(ctx context.Context, report *domain.CollectionReport) error
	Close() error
}
