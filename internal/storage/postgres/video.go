package postgres

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"

	"trendwatch/internal/domain"
)

// VideoStore persists collected videos. The provider video id is the natural
// key: resighting an id merges into the existing row (bucket reassignment
// plus refreshed engagement counts) instead of duplicating it.
type VideoStore struct {
	db *sqlx.DB
}

func NewVideoStore(db *sqlx.DB) *VideoStore {
	return &VideoStore{db: db}
}

// Upsert stores a video under the given bucket. On a natural-key match only
// the bucket ownership, the engagement counts, and the collection timestamp
// change; every other field keeps its first-sighting value. The xmax check
// distinguishes the insert arm from the update arm in one round trip.
func (s *VideoStore) Upsert(ctx context.Context, bucketID int64, video *domain.Video) (domain.UpsertOutcome, error) {
	ex := GetExecutor(ctx, s.db)

	query := `
		INSERT INTO videos (
			bucket_id, video_id, title, channel, views, likes,
			published_at, url, country, collected_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, NOW())
		ON CONFLICT (video_id) DO UPDATE SET
			bucket_id = EXCLUDED.bucket_id,
			views = EXCLUDED.views,
			likes = EXCLUDED.likes,
			collected_at = NOW()
		RETURNING id, (xmax = 0) AS inserted`

	var (
		id       int64
		inserted bool
	)
	err := ex.QueryRowxContext(ctx, query,
		bucketID,
		video.VideoID,
		video.Title,
		video.Channel,
		video.Views,
		video.Likes,
		video.PublishedAt,
		video.URL,
		video.Country,
	).Scan(&id, &inserted)
	if err != nil {
		return 0, fmt.Errorf("upsert video: %w", err)
	}

	video.ID = id
	video.BucketID = bucketID
	if inserted {
		return domain.OutcomeInserted, nil
	}
	return domain.OutcomeReassigned, nil
}

func (s *VideoStore) ListByBucket(ctx context.Context, bucketID int64, limit int) ([]domain.Video, error) {
	ex := GetExecutor(ctx, s.db)

	query := `
		SELECT id, bucket_id, video_id, title, channel, views, likes,
		       published_at, url, country, collected_at
		FROM videos
		WHERE bucket_id = $1
		ORDER BY views DESC, id
		LIMIT $2`

	var videos []domain.Video
	if err := sqlx.SelectContext(ctx, ex, &videos, query, bucketID, limit); err != nil {
		return nil, fmt.Errorf("list videos: %w", err)
	}
	return videos, nil
}
