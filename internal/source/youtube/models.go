package youtube

// searchResponse is the Data API v3 search.list response subset we consume.
type searchResponse struct {
	Items []searchItem `json:"items"`
}

type searchItem struct {
	ID      searchItemID `json:"id"`
	Snippet snippet      `json:"snippet"`
}

type searchItemID struct {
	VideoID string `json:"videoId"`
}

// videosResponse is the videos.list (chart=mostPopular) response subset.
type videosResponse struct {
	Items []videoItem `json:"items"`
}

type videoItem struct {
	ID         string     `json:"id"`
	Snippet    snippet    `json:"snippet"`
	Statistics statistics `json:"statistics"`
}

type snippet struct {
	Title        string `json:"title"`
	ChannelTitle string `json:"channelTitle"`
	PublishedAt  string `json:"publishedAt"`
}

// statistics counts arrive as decimal strings.
type statistics struct {
	ViewCount string `json:"viewCount"`
	LikeCount string `json:"likeCount"`
}
