package aggregate

// StatusCounts is the per-status breakdown returned by the stats endpoints.
type StatusCounts struct {
	Total    int64            `json:"total"`
	ByStatus map[string]int64 `json:"by_status"`
}

type contentCount struct {
	Published int64 `json:"published"`
	Drafts    int64 `json:"drafts"`
}

type overviewResponse struct {
	Posts       contentCount `json:"posts"`
	Volumes     contentCount `json:"volumes"`
	Comments    int64        `json:"comments"`
	Views       int64        `json:"views"`
	Downloads   int64        `json:"downloads"`
	NewPrayers  int64        `json:"new_prayers"`
	NewMessages int64        `json:"new_messages"`
	Subscribers int64        `json:"active_subscribers"`
}
