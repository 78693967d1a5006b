// Package twitter provides a client for the Twitter standard search API.
//
// This package includes:
//   - A configurable HTTP client with bearer auth, rate limiting and
//     transport-level retry
//   - Type-safe models for the search response payload
//   - Helper functions for constructing endpoints and permalinks
//   - Cursor-based pagination across search result pages
//
// Example usage:
//
//	client := twitter.NewClient(cfg, log)
//
//	tweets, err := client.SearchTweets(twitter.SearchParams{
//	    Query:    "#golang",
//	    Count:    100,
//	    SinceID:  lastID,
//	    MaxPages: 3,
//	})
//	if err != nil {
//	    if apiErr, ok := err.(*errors.Error); ok {
//	        switch apiErr.Type {
//	        case errors.ErrorTypeRateLimit:
//	            // Handle rate limit
//	        case errors.ErrorTypeAuth:
//	            // Handle bad credentials
//	        }
//	    }
//	}
package twitter
