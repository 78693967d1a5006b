package collector

import (
	"strings"
	"time"

	"tagwatch/pkg/twitter"
)

// FormatTweet converts a raw search result into a pipeline Record. The
// hashtags come from the tweet's structured entities, case-folded, minus
// any hashtag that is part of the search query itself, deduplicated
// preserving first occurrence. There is no free-text fallback for result
// bodies; only the query string is regex-scanned (see ExtractHashtags).
func FormatTweet(tweet twitter.Tweet, opts SearchOptions, fetchedAt time.Time) Record {
	return Record{
		Post: Post{
			TweetID:   tweet.IDStr,
			Username:  tweet.User.ScreenName,
			Text:      tweet.Text,
			URL:       twitter.PermalinkURL(tweet.User.ScreenName, tweet.IDStr),
			FetchedAt: fetchedAt,
		},
		Hashtags: tweetHashtags(tweet, opts),
		Doc:      nil,
		IsNew:    true,
	}
}

// FormatTweets converts raw search results in order
func FormatTweets(tweets []twitter.Tweet, opts SearchOptions, fetchedAt time.Time) []Record {
	records := make([]Record, 0, len(tweets))
	for _, tweet := range tweets {
		records = append(records, FormatTweet(tweet, opts, fetchedAt))
	}
	return records
}

// tweetHashtags extracts the discovered hashtags of a tweet
func tweetHashtags(tweet twitter.Tweet, opts SearchOptions) []string {
	if len(tweet.Entities.Hashtags) == 0 {
		return []string{}
	}

	searchTags := make(map[string]struct{}, len(opts.SearchHashtags))
	for _, tag := range opts.SearchHashtags {
		searchTags[tag] = struct{}{}
	}

	seen := make(map[string]struct{}, len(tweet.Entities.Hashtags))
	hashtags := make([]string, 0, len(tweet.Entities.Hashtags))
	for _, entity := range tweet.Entities.Hashtags {
		tag := strings.ToLower(entity.Text)
		if _, fromQuery := searchTags[tag]; fromQuery {
			continue
		}
		if _, dup := seen[tag]; dup {
			continue
		}
		seen[tag] = struct{}{}
		hashtags = append(hashtags, tag)
	}

	return hashtags
}
