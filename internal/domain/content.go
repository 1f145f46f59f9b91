package domain

import "time"

// Bucket is the daily per-country accumulation unit for collected content.
// At most one bucket exists per (country, day); the store enforces this.
type Bucket struct {
	ID           int64     `db:"id"`
	Country      string    `db:"country"`
	Day          time.Time `db:"day"`
	VideoCount   int       `db:"video_count"`
	ArticleCount int       `db:"article_count"`
	Score        float64   `db:"score"`
	CreatedAt    time.Time `db:"created_at"`
}

// RankedKeyword is a trending search term as reported by one adapter.
// Rank is 1-based and dense within a single adapter response. Volume is
// the source-reported search volume, 0 when the source does not report one.
// Ranked keywords are ephemeral and never persisted.
type RankedKeyword struct {
	Text    string
	Country string
	Rank    int
	Volume  int
}

// Video is a collected trending video. VideoID is the provider id and
// serves as the natural key for dedup across collection runs.
type Video struct {
	ID          int64     `db:"id" json:"id"`
	BucketID    int64     `db:"bucket_id" json:"bucket_id"`
	VideoID     string    `db:"video_id" json:"video_id"`
	Title       string    `db:"title" json:"title"`
	Channel     string    `db:"channel" json:"channel"`
	Views       int64     `db:"views" json:"views"`
	Likes       int64     `db:"likes" json:"likes"`
	PublishedAt string    `db:"published_at" json:"published_at"`
	URL         string    `db:"url" json:"url"`
	Country     string    `db:"country" json:"country"`
	CollectedAt time.Time `db:"collected_at" json:"collected_at"`
}

// Article is a collected news headline. URL is the natural key; an article
// without a URL is not deduplicable and is always stored as a new row.
type Article struct {
	ID          int64     `db:"id" json:"id"`
	BucketID    int64     `db:"bucket_id" json:"bucket_id"`
	Title       string    `db:"title" json:"title"`
	Source      string    `db:"source" json:"source"`
	Description string    `db:"description" json:"description"`
	URL         string    `db:"url" json:"url"`
	PublishedAt string    `db:"published_at" json:"published_at"`
	Country     string    `db:"country" json:"country"`
	CollectedAt time.Time `db:"collected_at" json:"collected_at"`
}

// UpsertOutcome reports what the store did with an item.
type UpsertOutcome int

const (
	// OutcomeInserted means the item was seen for the first time.
	OutcomeInserted UpsertOutcome = iota
	// OutcomeReassigned means an existing row matched the natural key and
	// was moved to the current bucket.
	OutcomeReassigned
)

func (o UpsertOutcome) String() string {
	if o == OutcomeReassigned {
		return "reassigned"
	}
	return "inserted"
}
