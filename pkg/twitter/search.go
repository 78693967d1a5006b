package twitter

import (
	"net/url"
	"strconv"

	"tagwatch/pkg/errors"
	"tagwatch/pkg/ratelimit"
)

// SearchParams describes one paginated search invocation
type SearchParams struct {
	// Query is the raw search term string. Required.
	Query string
	// Count is the number of results requested per page (default 100)
	Count int
	// SinceID restricts results to tweets newer than this id
	SinceID string
	// ResultType is "recent", "popular" or "mixed" (default "recent")
	ResultType string
	// MaxPages caps the number of page requests; 1 disables pagination
	MaxPages int
	// Extras are merged into the request parameters and may override
	// the base fields
	Extras map[string]string
}

// SearchTweets runs a search and follows pagination cursors, returning
// all collected tweets in arrival order (earlier pages first).
//
// Pagination continues only while the page count is below MaxPages, the
// current page came back full, and the response carries a next_results
// continuation. A fixed delay is honored between consecutive page
// requests. When SinceID is set, a result matching the boundary id
// itself is dropped from the final sequence.
func (c *Client) SearchTweets(p SearchParams) ([]Tweet, error) {
	if p.Query == "" {
		return nil, errors.NewInvalidArgument("you can't make a search without a query")
	}

	count := p.Count
	if count <= 0 {
		count = DefaultCount
	}
	if count > MaxCount {
		count = MaxCount
	}
	resultType := p.ResultType
	if resultType == "" {
		resultType = "recent"
	}
	maxPages := p.MaxPages
	if maxPages <= 0 {
		maxPages = 1
	}

	params := url.Values{}
	params.Set("q", p.Query)
	params.Set("count", strconv.Itoa(count))
	params.Set("result_type", resultType)
	for key, value := range p.Extras {
		params.Set(key, value)
	}
	if p.SinceID != "" {
		params.Set("since_id", p.SinceID)
	}

	// The gate passes immediately on the first request and then spaces
	// out every continuation request by the configured page delay.
	gate := ratelimit.NewInterval(c.pageDelay)

	var tweets []Tweet
	for page := 1; ; page++ {
		gate.Wait()

		var resp SearchResponse
		if err := c.GetJSON(SearchURL(c.baseURL, params), &resp); err != nil {
			return nil, err
		}

		// A response without a results payload is benign: stop here
		// with whatever was collected so far.
		if resp.Statuses == nil {
			break
		}

		tweets = append(tweets, resp.Statuses...)

		if page >= maxPages {
			break
		}
		// A short page signals exhaustion. The comparison uses the
		// count this request actually asked for: Extras may override
		// the base count, and continuation cursors carry their own.
		if len(resp.Statuses) != requestedCount(params, count) {
			break
		}
		if resp.SearchMetadata == nil || resp.SearchMetadata.NextResults == "" {
			break
		}

		next, err := ParseNextResults(resp.SearchMetadata.NextResults)
		if err != nil {
			return nil, &errors.Error{
				Type:    errors.ErrorTypeParsing,
				Message: err.Error(),
			}
		}
		params = next

		c.logger.DebugWithFields("following search pagination", map[string]interface{}{
			"page":      page + 1,
			"max_pages": maxPages,
			"collected": len(tweets),
		})
	}

	// The API may re-include the boundary item itself.
	if p.SinceID != "" {
		filtered := tweets[:0]
		for _, tweet := range tweets {
			if tweet.IDStr != p.SinceID {
				filtered = append(filtered, tweet)
			}
		}
		tweets = filtered
	}

	c.logger.InfoWithFields("search completed", map[string]interface{}{
		"query":   p.Query,
		"results": len(tweets),
	})

	return tweets, nil
}

// requestedCount resolves the count parameter of a request, falling
// back when the value is absent or unparseable
func requestedCount(params url.Values, fallback int) int {
	if parsed, err := strconv.Atoi(params.Get("count")); err == nil && parsed > 0 {
		return parsed
	}
	return fallback
}
