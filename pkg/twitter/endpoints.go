package twitter

import (
	"fmt"
	"net/url"
	"strings"
)

const (
	// BaseURL is the base URL for the Twitter REST API
	BaseURL = "https://api.twitter.com/1.1"

	// SearchEndpoint is the standard search endpoint
	SearchEndpoint = "/search/tweets.json"

	// PermalinkBase is the base URL for tweet permalinks
	PermalinkBase = "https://twitter.com"

	// DefaultCount is the default number of results requested per page
	DefaultCount = 100

	// MaxCount is the maximum the API serves per page
	MaxCount = 100
)

// SearchURL constructs the search URL for the given request parameters
func SearchURL(baseURL string, params url.Values) string {
	return fmt.Sprintf("%s%s?%s", baseURL, SearchEndpoint, params.Encode())
}

// PermalinkURL constructs the public permalink for a tweet
func PermalinkURL(screenName, tweetID string) string {
	return fmt.Sprintf("%s/%s/status/%s", PermalinkBase, screenName, tweetID)
}

// ParseNextResults parses the next_results query string from search
// metadata into request parameters for the continuation page. The value
// arrives with a leading "?" or "&".
func ParseNextResults(nextResults string) (url.Values, error) {
	trimmed := strings.TrimLeft(nextResults, "?&")
	params, err := url.ParseQuery(trimmed)
	if err != nil {
		return nil, fmt.Errorf("failed to parse next_results %q: %w", nextResults, err)
	}
	return params, nil
}
