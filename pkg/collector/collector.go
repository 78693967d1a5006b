package collector

import (
	"fmt"
	"time"

	"tagwatch/pkg/config"
	"tagwatch/pkg/logger"
	"tagwatch/pkg/store"
	"tagwatch/pkg/twitter"
)

// Collector orchestrates one collection run: search, format, filter,
// normalize, persist, and advance the pagination cursor.
//
// A Collector performs a single logical run at a time; concurrent
// invocations against the same store are not coordinated and could
// double-process a window of results (the idempotent persistence step
// keeps that from duplicating stored posts).
type Collector struct {
	client  TwitterClient
	store   store.Store
	refdata *RefData
	config  *config.Config
	logger  logger.Logger
}

// New creates a Collector. A nil logger falls back to the global
// instance.
func New(cfg *config.Config, client TwitterClient, st store.Store, log logger.Logger) *Collector {
	if log == nil {
		log = logger.GetLogger()
	}

	return &Collector{
		client:  client,
		store:   st,
		refdata: NewRefData(st, log),
		config:  cfg,
		logger:  log,
	}
}

// RunStats summarizes one collection run
type RunStats struct {
	Fetched      int
	Blacklisted  int
	Saved        int
	Duplicates   int
	Failed       int
	LastResultID string
}

// Run executes one collection run and returns its outcome. The cursor
// only advances when every record persisted cleanly; after a partial
// failure the next run re-fetches the same window and the idempotent
// save skips what already landed.
func (c *Collector) Run() (*RunStats, error) {
	opts, err := c.refdata.Options()
	if err != nil {
		return nil, err
	}

	lastID, err := c.refdata.LastResultID()
	if err != nil {
		return nil, err
	}

	c.logger.InfoWithFields("starting collection run", map[string]interface{}{
		"query":          opts.Query,
		"since_id":       lastID,
		"max_pages":      c.config.Search.MaxPages,
		"count_per_page": c.config.Search.Count,
	})

	tweets, err := c.client.SearchTweets(searchParams(opts, lastID, &c.config.Search))
	if err != nil {
		return nil, fmt.Errorf("search failed: %w", err)
	}

	stats := &RunStats{Fetched: len(tweets), LastResultID: lastID}
	if len(tweets) == 0 {
		c.logger.Info("no new tweets found")
		return stats, nil
	}

	records := FormatTweets(tweets, opts, time.Now())

	blacklist, err := c.refdata.Blacklist()
	if err != nil {
		return nil, err
	}
	kept := FilterBlacklisted(records, blacklist)
	stats.Blacklisted = len(records) - len(kept)

	aliases, err := c.refdata.Aliases()
	if err != nil {
		return nil, err
	}
	normalized := NormalizeHashtags(kept, aliases)

	result := SaveTweets(c.store, normalized)
	stats.Saved = len(result.New)
	stats.Duplicates = len(normalized) - len(result.New) - len(result.Failed)
	stats.Failed = len(result.Failed)

	for _, failure := range result.Failed {
		c.logger.ErrorWithFields("failed to persist tweet", map[string]interface{}{
			"tweet_id": failure.Record.Post.TweetID,
			"error":    failure.Err.Error(),
		})
	}

	if stats.Failed > 0 {
		c.logger.WarnWithFields("run finished with persistence failures, keeping cursor", map[string]interface{}{
			"saved":  stats.Saved,
			"failed": stats.Failed,
		})
		return stats, nil
	}

	// Results arrive newest first, so the head of the sequence is the
	// boundary for the next run.
	newest := tweets[0].IDStr
	if err := c.refdata.UpdateLastResultID(newest); err != nil {
		return stats, fmt.Errorf("failed to record cursor: %w", err)
	}
	stats.LastResultID = newest

	c.logger.InfoWithFields("collection run completed", map[string]interface{}{
		"fetched":        stats.Fetched,
		"blacklisted":    stats.Blacklisted,
		"saved":          stats.Saved,
		"duplicates":     stats.Duplicates,
		"last_result_id": stats.LastResultID,
	})

	return stats, nil
}

// searchParams builds the search invocation for a run
func searchParams(opts SearchOptions, lastID string, cfg *config.SearchConfig) twitter.SearchParams {
	return twitter.SearchParams{
		Query:      opts.Query,
		Count:      cfg.Count,
		SinceID:    lastID,
		ResultType: cfg.ResultType,
		MaxPages:   cfg.MaxPages,
	}
}
