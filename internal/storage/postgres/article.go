package postgres

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"

	"trendwatch/internal/domain"
)

// ArticleStore persists collected headlines. The URL is the natural key; a
// partial unique index covers only non-empty URLs, so articles without one
// are never deduplicated and always insert as new rows.
type ArticleStore struct {
	db *sqlx.DB
}

func NewArticleStore(db *sqlx.DB) *ArticleStore {
	return &ArticleStore{db: db}
}

// Upsert stores an article under the given bucket. A natural-key match only
// moves bucket ownership and refreshes the collection timestamp; the stored
// content keeps its first-sighting values.
func (s *ArticleStore) Upsert(ctx context.Context, bucketID int64, article *domain.Article) (domain.UpsertOutcome, error) {
	ex := GetExecutor(ctx, s.db)

	if article.URL == "" {
		query := `
			INSERT INTO articles (
				bucket_id, title, source, description, url,
				published_at, country, collected_at
			) VALUES ($1, $2, $3, $4, '', $5, $6, NOW())
			RETURNING id`

		var id int64
		err := ex.QueryRowxContext(ctx, query,
			bucketID,
			article.Title,
			article.Source,
			article.Description,
			article.PublishedAt,
			article.Country,
		).Scan(&id)
		if err != nil {
			return 0, fmt.Errorf("insert article: %w", err)
		}

		article.ID = id
		article.BucketID = bucketID
		return domain.OutcomeInserted, nil
	}

	query := `
		INSERT INTO articles (
			bucket_id, title, source, description, url,
			published_at, country, collected_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, NOW())
		ON CONFLICT (url) WHERE url <> '' DO UPDATE SET
			bucket_id = EXCLUDED.bucket_id,
			collected_at = NOW()
		RETURNING id, (xmax = 0) AS inserted`

	var (
		id       int64
		inserted bool
	)
	err := ex.QueryRowxContext(ctx, query,
		bucketID,
		article.Title,
		article.Source,
		article.Description,
		article.URL,
		article.PublishedAt,
		article.Country,
	).Scan(&id, &inserted)
	if err != nil {
		return 0, fmt.Errorf("upsert article: %w", err)
	}

	article.ID = id
	article.BucketID = bucketID
	if inserted {
		return domain.OutcomeInserted, nil
	}
	return domain.OutcomeReassigned, nil
}

func (s *ArticleStore) ListByBucket(ctx context.Context, bucketID int64, limit int) ([]domain.Article, error) {
	ex := GetExecutor(ctx, s.db)

	query := `
		SELECT id, bucket_id, title, source, description, url,
		       published_at, country, collected_at
		FROM articles
		WHERE bucket_id = $1
		ORDER BY id
		LIMIT $2`

	var articles []domain.Article
	if err := sqlx.SelectContext(ctx, ex, &articles, query, bucketID, limit); err != nil {
		return nil, fmt.Errorf("list articles: %w", err)
	}
	return articles, nil
}
