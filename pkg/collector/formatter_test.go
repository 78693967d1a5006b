package collector

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"tagwatch/pkg/twitter"
)

func entityTweet(id, screenName, text string, tags ...string) twitter.Tweet {
	entities := twitter.Entities{Hashtags: make([]twitter.HashtagEntity, 0, len(tags))}
	for _, tag := range tags {
		entities.Hashtags = append(entities.Hashtags, twitter.HashtagEntity{Text: tag})
	}
	return twitter.Tweet{
		IDStr:    id,
		Text:     text,
		User:     twitter.User{ScreenName: screenName},
		Entities: entities,
	}
}

func TestFormatTweet(t *testing.T) {
	opts := SearchOptions{Query: "#golang", SearchHashtags: []string{"golang"}}
	fetchedAt := time.Date(2026, 3, 14, 12, 0, 0, 0, time.UTC)

	tweet := entityTweet("12345", "gopher", "loving #golang and #testing", "golang", "testing")
	record := FormatTweet(tweet, opts, fetchedAt)

	assert.Equal(t, "12345", record.Post.TweetID)
	assert.Equal(t, "gopher", record.Post.Username)
	assert.Equal(t, "loving #golang and #testing", record.Post.Text)
	assert.Equal(t, "https://twitter.com/gopher/status/12345", record.Post.URL)
	assert.Equal(t, fetchedAt, record.Post.FetchedAt)

	// The query's own hashtag is excluded from the discovered set.
	assert.Equal(t, []string{"testing"}, record.Hashtags)

	assert.Nil(t, record.Doc)
	assert.True(t, record.IsNew)
}

func TestTweetHashtags(t *testing.T) {
	opts := SearchOptions{SearchHashtags: []string{"golang"}}

	tests := []struct {
		name     string
		tweet    twitter.Tweet
		expected []string
	}{
		{
			name:     "case folded",
			tweet:    entityTweet("1", "a", "", "GoLang", "Testing"),
			expected: []string{"testing"},
		},
		{
			name:     "duplicates collapse to first occurrence",
			tweet:    entityTweet("2", "a", "", "ux", "design", "UX"),
			expected: []string{"ux", "design"},
		},
		{
			name:     "no entities",
			tweet:    twitter.Tweet{IDStr: "3"},
			expected: []string{},
		},
		{
			name:     "only search hashtags",
			tweet:    entityTweet("4", "a", "", "golang"),
			expected: []string{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			record := FormatTweet(tt.tweet, opts, time.Now())
			assert.Equal(t, tt.expected, record.Hashtags)
		})
	}
}

func TestFormatTweets(t *testing.T) {
	opts := SearchOptions{Query: "#golang", SearchHashtags: []string{"golang"}}
	fetchedAt := time.Now()

	tweets := []twitter.Tweet{
		entityTweet("2", "a", "second"),
		entityTweet("1", "b", "first"),
	}

	records := FormatTweets(tweets, opts, fetchedAt)
	require.Len(t, records, 2)
	assert.Equal(t, "2", records[0].Post.TweetID)
	assert.Equal(t, "1", records[1].Post.TweetID)
}

func TestPostFields(t *testing.T) {
	fetchedAt := time.Date(2026, 3, 14, 12, 0, 0, 0, time.UTC)
	post := Post{
		TweetID:   "12345",
		Username:  "gopher",
		Text:      "hello",
		URL:       "https://twitter.com/gopher/status/12345",
		FetchedAt: fetchedAt,
	}

	fields := post.fields()
	assert.Equal(t, map[string]interface{}{
		"tweetId":  "12345",
		"username": "gopher",
		"tweet":    "hello",
		"url":      "https://twitter.com/gopher/status/12345",
		"time":     "2026-03-14T12:00:00Z",
	}, fields)
}
