package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"

	"trendwatch/internal/domain"
)

const bucketColumns = "id, country, day, video_count, article_count, score, created_at"

// BucketStore owns the daily per-country collection buckets. The
// (country, day) pair carries a unique constraint; creation goes through
// insert-on-conflict-do-nothing followed by a re-read, so concurrent calls
// for the same day converge on one row instead of racing a check-then-insert.
type BucketStore struct {
	db *sqlx.DB
}

func NewBucketStore(db *sqlx.DB) *BucketStore {
	return &BucketStore{db: db}
}

func (s *BucketStore) GetOrCreateDaily(ctx context.Context, country string, day time.Time) (*domain.Bucket, error) {
	ex := GetExecutor(ctx, s.db)

	var bucket domain.Bucket
	query := `
		INSERT INTO collection_buckets (country, day)
		VALUES ($1, $2)
		ON CONFLICT (country, day) DO NOTHING
		RETURNING ` + bucketColumns

	err := sqlx.GetContext(ctx, ex, &bucket, query, country, dateOf(day))
	if errors.Is(err, sql.ErrNoRows) {
		// Another request inserted the row first; read theirs.
		return s.GetDaily(ctx, country, day)
	}
	if err != nil {
		return nil, fmt.Errorf("insert bucket: %w", err)
	}

	return &bucket, nil
}

// GetDaily returns the bucket for (country, day), or nil when none exists.
func (s *BucketStore) GetDaily(ctx context.Context, country string, day time.Time) (*domain.Bucket, error) {
	ex := GetExecutor(ctx, s.db)

	var bucket domain.Bucket
	query := `SELECT ` + bucketColumns + ` FROM collection_buckets WHERE country = $1 AND day = $2`

	err := sqlx.GetContext(ctx, ex, &bucket, query, country, dateOf(day))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("select bucket: %w", err)
	}

	return &bucket, nil
}

// RefreshStats recomputes the bucket counters and relevance score from the
// content tables in a single statement. It is a full recomputation, not an
// incremental counter, so it stays correct after reassignment-merges move
// items out of older buckets.
func (s *BucketStore) RefreshStats(ctx context.Context, bucketID int64) (*domain.Bucket, error) {
	ex := GetExecutor(ctx, s.db)

	var bucket domain.Bucket
	query := `
		WITH counts AS (
			SELECT
				(SELECT COUNT(*) FROM videos WHERE bucket_id = $1) AS vc,
				(SELECT COUNT(*) FROM articles WHERE bucket_id = $1) AS ac
		)
		UPDATE collection_buckets b
		SET video_count = c.vc,
		    article_count = c.ac,
		    score = 1.5 * c.vc + 1.0 * c.ac
		FROM counts c
		WHERE b.id = $1
		RETURNING b.id, b.country, b.day, b.video_count, b.article_count, b.score, b.created_at`

	err := sqlx.GetContext(ctx, ex, &bucket, query, bucketID)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("bucket %d not found", bucketID)
	}
	if err != nil {
		return nil, fmt.Errorf("refresh bucket stats: %w", err)
	}

	return &bucket, nil
}

// dateOf strips the time-of-day so buckets key on the calendar day.
func dateOf(t time.Time) string {
	return t.Format("2006-01-02")
}
