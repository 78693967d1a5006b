package collector

import "tagwatch/pkg/twitter"

// TwitterClient defines the search API operations the collector needs
type TwitterClient interface {
	SearchTweets(params twitter.SearchParams) ([]twitter.Tweet, error)
}
