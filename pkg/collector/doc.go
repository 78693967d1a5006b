// Package collector implements the tweet-processing pipeline.
//
// A run flows raw search results through a fixed sequence of
// transformations:
//
//	search -> format -> blacklist filter -> alias normalize -> save
//
// and finally records the newest result id so the next run resumes
// where this one stopped.
//
// Reference data (search options, blacklist, hashtag aliases) is loaded
// from the document store once per RefData lifetime and memoized; see
// RefData. The transformation steps themselves are pure functions that
// take their reference data explicitly, so they can be exercised without
// a store.
//
// Usage:
//
//	st, _ := store.NewSQLiteStore(cfg.Store.Path)
//	client := twitter.NewClient(cfg, log)
//	c := collector.New(cfg, client, st, log)
//
//	stats, err := c.Run()
package collector
