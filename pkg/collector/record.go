package collector

import (
	"time"

	"tagwatch/pkg/store"
)

// Post holds the persisted fields of a collected tweet
type Post struct {
	TweetID   string
	Username  string
	Text      string
	URL       string
	FetchedAt time.Time
}

// Record is a tweet moving through the pipeline. It is created by the
// formatter, its hashtags are rewritten by the normalizer, and its Doc
// and IsNew fields are finalized by the persistence step.
type Record struct {
	Post     Post
	Hashtags []string
	Doc      *store.Document
	IsNew    bool
}

// fields returns the flat document representation of the post
func (p Post) fields() map[string]interface{} {
	return map[string]interface{}{
		"tweetId":  p.TweetID,
		"username": p.Username,
		"tweet":    p.Text,
		"url":      p.URL,
		"time":     p.FetchedAt.Format(time.RFC3339),
	}
}
