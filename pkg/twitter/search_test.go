package twitter

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"tagwatch/pkg/errors"
)

func makeTweets(ids ...string) []Tweet {
	tweets := make([]Tweet, 0, len(ids))
	for _, id := range ids {
		tweets = append(tweets, Tweet{
			IDStr: id,
			Text:  "tweet " + id,
			User:  User{ScreenName: "gopher"},
		})
	}
	return tweets
}

func TestSearchTweetsEmptyQuery(t *testing.T) {
	requests := 0
	client := newTestClient(t, func(req *http.Request) (*http.Response, error) {
		requests++
		return newJSONResponse(SearchResponse{}), nil
	})

	_, err := client.SearchTweets(SearchParams{Query: ""})
	require.Error(t, err)

	var apiErr *errors.Error
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, errors.ErrorTypeInvalidArgument, apiErr.Type)

	// The error is raised before any network traffic.
	assert.Equal(t, 0, requests)
}

func TestSearchTweetsSinglePage(t *testing.T) {
	var captured *http.Request
	client := newTestClient(t, func(req *http.Request) (*http.Response, error) {
		captured = req
		return newJSONResponse(SearchResponse{
			Statuses: makeTweets("3", "2", "1"),
		}), nil
	})

	tweets, err := client.SearchTweets(SearchParams{Query: "#golang", Count: 100, MaxPages: 3})
	require.NoError(t, err)
	require.Len(t, tweets, 3)
	assert.Equal(t, "3", tweets[0].IDStr)

	query := captured.URL.Query()
	assert.Equal(t, "#golang", query.Get("q"))
	assert.Equal(t, "100", query.Get("count"))
	assert.Equal(t, "recent", query.Get("result_type"))
	assert.Empty(t, query.Get("since_id"))
}

func TestSearchTweetsPagination(t *testing.T) {
	var urls []string
	client := newTestClient(t, func(req *http.Request) (*http.Response, error) {
		urls = append(urls, req.URL.String())
		switch len(urls) {
		case 1:
			return newJSONResponse(SearchResponse{
				Statuses: makeTweets("6", "5"),
				SearchMetadata: &SearchMetadata{
					NextResults: "?max_id=4&q=%23golang&count=2",
				},
			}), nil
		case 2:
			return newJSONResponse(SearchResponse{
				Statuses: makeTweets("4", "3"),
				SearchMetadata: &SearchMetadata{
					NextResults: "?max_id=2&q=%23golang&count=2",
				},
			}), nil
		default:
			return newJSONResponse(SearchResponse{
				Statuses: makeTweets("2"),
			}), nil
		}
	})

	tweets, err := client.SearchTweets(SearchParams{Query: "#golang", Count: 2, MaxPages: 3})
	require.NoError(t, err)

	require.Len(t, tweets, 5)
	assert.Equal(t, []string{"6", "5", "4", "3", "2"},
		[]string{tweets[0].IDStr, tweets[1].IDStr, tweets[2].IDStr, tweets[3].IDStr, tweets[4].IDStr})

	// The continuation requests reuse the next_results parameters.
	require.Len(t, urls, 3)
	assert.Contains(t, urls[1], "max_id=4")
	assert.Contains(t, urls[2], "max_id=2")
}

func TestSearchTweetsMaxPagesCap(t *testing.T) {
	requests := 0
	client := newTestClient(t, func(req *http.Request) (*http.Response, error) {
		requests++
		return newJSONResponse(SearchResponse{
			Statuses: makeTweets("2", "1"),
			SearchMetadata: &SearchMetadata{
				NextResults: "?max_id=0&q=%23golang&count=2",
			},
		}), nil
	})

	tweets, err := client.SearchTweets(SearchParams{Query: "#golang", Count: 2, MaxPages: 2})
	require.NoError(t, err)

	assert.Len(t, tweets, 4)
	assert.Equal(t, 2, requests)
}

func TestSearchTweetsStopsOnShortPage(t *testing.T) {
	requests := 0
	client := newTestClient(t, func(req *http.Request) (*http.Response, error) {
		requests++
		return newJSONResponse(SearchResponse{
			Statuses: makeTweets("1"),
			SearchMetadata: &SearchMetadata{
				NextResults: "?max_id=0&q=%23golang&count=2",
			},
		}), nil
	})

	tweets, err := client.SearchTweets(SearchParams{Query: "#golang", Count: 2, MaxPages: 5})
	require.NoError(t, err)

	assert.Len(t, tweets, 1)
	assert.Equal(t, 1, requests)
}

func TestSearchTweetsStopsWithoutNextResults(t *testing.T) {
	requests := 0
	client := newTestClient(t, func(req *http.Request) (*http.Response, error) {
		requests++
		return newJSONResponse(SearchResponse{
			Statuses:       makeTweets("2", "1"),
			SearchMetadata: &SearchMetadata{},
		}), nil
	})

	tweets, err := client.SearchTweets(SearchParams{Query: "#golang", Count: 2, MaxPages: 5})
	require.NoError(t, err)

	assert.Len(t, tweets, 2)
	assert.Equal(t, 1, requests)
}

func TestSearchTweetsEmptyPayload(t *testing.T) {
	client := newTestClient(t, func(req *http.Request) (*http.Response, error) {
		return newResponse(http.StatusOK, "{}"), nil
	})

	tweets, err := client.SearchTweets(SearchParams{Query: "#golang"})
	require.NoError(t, err)
	assert.Empty(t, tweets)
}

func TestSearchTweetsSinceID(t *testing.T) {
	var captured *http.Request
	client := newTestClient(t, func(req *http.Request) (*http.Response, error) {
		captured = req
		return newJSONResponse(SearchResponse{
			Statuses: makeTweets("5", "4", "3"),
		}), nil
	})

	tweets, err := client.SearchTweets(SearchParams{Query: "#golang", SinceID: "3"})
	require.NoError(t, err)

	assert.Equal(t, "3", captured.URL.Query().Get("since_id"))

	// The boundary item itself is dropped from the result.
	require.Len(t, tweets, 2)
	assert.Equal(t, "5", tweets[0].IDStr)
	assert.Equal(t, "4", tweets[1].IDStr)
}

func TestSearchTweetsExtras(t *testing.T) {
	var captured *http.Request
	client := newTestClient(t, func(req *http.Request) (*http.Response, error) {
		captured = req
		return newJSONResponse(SearchResponse{}), nil
	})

	_, err := client.SearchTweets(SearchParams{
		Query:  "#golang",
		Extras: map[string]string{"lang": "en"},
	})
	require.NoError(t, err)
	assert.Equal(t, "en", captured.URL.Query().Get("lang"))
}

func TestSearchTweetsExtrasOverrideCount(t *testing.T) {
	ids := []string{"3", "2", "1"}
	requests := 0
	client := newTestClient(t, func(req *http.Request) (*http.Response, error) {
		requests++
		// Every page is full at the effective count of one.
		resp := SearchResponse{Statuses: makeTweets(ids[requests-1])}
		if requests < len(ids) {
			resp.SearchMetadata = &SearchMetadata{
				NextResults: "?max_id=" + ids[requests] + "&q=%23golang&count=1",
			}
		}
		return newJSONResponse(resp), nil
	})

	tweets, err := client.SearchTweets(SearchParams{
		Query:    "#golang",
		Count:    2,
		MaxPages: 3,
		Extras:   map[string]string{"count": "1"},
	})
	require.NoError(t, err)

	// The Extras count wins over the base count, so single-tweet
	// pages keep pagination going instead of reading as short.
	assert.Equal(t, 3, requests)
	require.Len(t, tweets, 3)
	assert.Equal(t, []string{"3", "2", "1"},
		[]string{tweets[0].IDStr, tweets[1].IDStr, tweets[2].IDStr})
}

func TestSearchTweetsCountClampedToMax(t *testing.T) {
	var captured *http.Request
	client := newTestClient(t, func(req *http.Request) (*http.Response, error) {
		captured = req
		return newJSONResponse(SearchResponse{}), nil
	})

	_, err := client.SearchTweets(SearchParams{Query: "#golang", Count: 500})
	require.NoError(t, err)
	assert.Equal(t, "100", captured.URL.Query().Get("count"))
}

func TestSearchTweetsTransportError(t *testing.T) {
	client := newTestClient(t, func(req *http.Request) (*http.Response, error) {
		return newResponse(http.StatusTooManyRequests, ""), nil
	})

	_, err := client.SearchTweets(SearchParams{Query: "#golang"})
	require.Error(t, err)

	var apiErr *errors.Error
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, errors.ErrorTypeRateLimit, apiErr.Type)
}
