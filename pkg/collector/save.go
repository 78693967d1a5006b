package collector

import (
	"fmt"

	"golang.org/x/sync/errgroup"

	"tagwatch/pkg/store"
)

// saveConcurrency bounds the number of upserts in flight at once
const saveConcurrency = 4

// SaveFailure pairs a record with the error its upsert produced
type SaveFailure struct {
	Record Record
	Err    error
}

// SaveResult reports the outcome of a batch save. New holds the records
// that were not previously stored, in input order, each with its storage
// handle populated and IsNew set. Failed holds the records whose upsert
// errored; their failure does not roll back the others.
type SaveResult struct {
	New    []Record
	Failed []SaveFailure
}

// SaveTweets performs an idempotent upsert per record: an existing
// stored post with the same external id is reused, never overwritten.
// Upserts are independent and run concurrently up to a bounded limit;
// the returned order follows the input order.
func SaveTweets(st store.Store, records []Record) SaveResult {
	saved := make([]Record, len(records))
	errs := make([]error, len(records))

	var g errgroup.Group
	g.SetLimit(saveConcurrency)
	for i, record := range records {
		i, record := i, record
		g.Go(func() error {
			saved[i], errs[i] = saveTweet(st, record)
			return nil
		})
	}
	// Workers report through the slices, never through the group.
	_ = g.Wait()

	var result SaveResult
	for i := range records {
		if errs[i] != nil {
			result.Failed = append(result.Failed, SaveFailure{Record: records[i], Err: errs[i]})
			continue
		}
		if saved[i].IsNew {
			result.New = append(result.New, saved[i])
		}
	}

	return result
}

// saveTweet looks up the stored post by external id and inserts only if
// absent
func saveTweet(st store.Store, record Record) (Record, error) {
	existing, err := st.FindByField(store.CollectionTweets, "tweetId", record.Post.TweetID)
	if err != nil {
		return record, fmt.Errorf("failed to look up tweet %s: %w", record.Post.TweetID, err)
	}

	if len(existing) > 0 {
		record.Doc = &existing[0]
		record.IsNew = false
		return record, nil
	}

	doc, err := st.Add(store.CollectionTweets, record.Post.fields())
	if err != nil {
		return record, fmt.Errorf("failed to save tweet %s: %w", record.Post.TweetID, err)
	}

	record.Doc = &doc
	record.IsNew = true
	return record, nil
}
