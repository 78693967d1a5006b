package twitter

// SearchResponse is the payload of the standard search endpoint
type SearchResponse struct {
	Statuses       []Tweet         `json:"statuses"`
	SearchMetadata *SearchMetadata `json:"search_metadata"`
}

// SearchMetadata carries pagination state for a search page
type SearchMetadata struct {
	CompletedIn float64 `json:"completed_in"`
	MaxIDStr    string  `json:"max_id_str"`
	SinceIDStr  string  `json:"since_id_str"`
	Count       int     `json:"count"`
	Query       string  `json:"query"`
	// NextResults is the query string for the next page, e.g.
	// "?max_id=123&q=%23golang&count=100". Absent on the last page.
	NextResults string `json:"next_results"`
}

// Tweet is a single search result
type Tweet struct {
	IDStr     string   `json:"id_str"`
	Text      string   `json:"text"`
	CreatedAt string   `json:"created_at"`
	User      User     `json:"user"`
	Entities  Entities `json:"entities"`
}

// User is the author of a tweet
type User struct {
	IDStr      string `json:"id_str"`
	ScreenName string `json:"screen_name"`
	Name       string `json:"name"`
}

// Entities holds the structured metadata attached to a tweet
type Entities struct {
	Hashtags []HashtagEntity `json:"hashtags"`
}

// HashtagEntity is one hashtag occurrence, without the leading '#'
type HashtagEntity struct {
	Text string `json:"text"`
}
