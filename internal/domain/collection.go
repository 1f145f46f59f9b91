package domain

import "time"

// CollectionStats holds counters for one collection run.
type CollectionStats struct {
	Country    string        `json:"country"`
	BucketID   int64         `json:"bucket_id"`
	Keywords   int           `json:"keywords"`
	Videos     int           `json:"videos"`
	Articles   int           `json:"articles"`
	New        int           `json:"new"`
	Reassigned int           `json:"reassigned"`
	Skipped    int           `json:"skipped"`
	Score      float64       `json:"score"`
	Duration   time.Duration `json:"duration"`
}

// CollectionReport is the result of a collection run.
type CollectionReport struct {
	Success     bool            `json:"success"`
	Message     string          `json:"message"`
	Stats       CollectionStats `json:"stats"`
	TopKeywords []string        `json:"top_keywords"`
	AIKeywords  []string        `json:"ai_keywords"`
}

// PlatformKeywords is the result of a single-platform realtime keyword fetch.
type PlatformKeywords struct {
	Success  bool     `json:"success"`
	Platform string   `json:"platform"`
	Keywords []string `json:"keywords"`
	Message  string   `json:"message"`
}

// TodaysContents is a read-only projection of the current daily bucket.
type TodaysContents struct {
	Videos   []Video   `json:"videos"`
	Articles []Article `json:"articles"`
}
