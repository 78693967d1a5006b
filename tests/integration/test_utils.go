package integration

import (
	"fmt"
	"path/filepath"
	"testing"
	"time"

	"tagwatch/pkg/config"
	"tagwatch/pkg/logger"
	"tagwatch/pkg/store"
	"tagwatch/pkg/twitter"
)

// TestHelper provides common test utilities
type TestHelper struct {
	t          *testing.T
	mockServer *MockSearchServer
}

// NewTestHelper creates a new test helper. Resources are released
// through t.Cleanup.
func NewTestHelper(t *testing.T) *TestHelper {
	return &TestHelper{t: t}
}

// SetupMockServer starts the mock search API server
func (h *TestHelper) SetupMockServer() *MockSearchServer {
	h.mockServer = NewMockSearchServer()
	h.t.Cleanup(h.mockServer.Close)
	return h.mockServer
}

// CreateTestLogger creates a capturing test logger
func (h *TestHelper) CreateTestLogger() logger.Logger {
	return logger.NewTestLogger()
}

// CreateTestConfig creates a configuration pointed at the mock server
// with delays shrunk for test speed
func (h *TestHelper) CreateTestConfig() *config.Config {
	cfg := config.DefaultConfig()

	if h.mockServer != nil {
		cfg.Twitter.BaseURL = h.mockServer.GetURL()
	}
	cfg.Twitter.BearerToken = "test-token"
	cfg.Twitter.Timeout = 5 * time.Second

	cfg.Search.Count = 2
	cfg.Search.MaxPages = 5
	cfg.Search.PageDelay = 10 * time.Millisecond

	cfg.RateLimit.RequestsPerMinute = 600
	cfg.RateLimit.MaxRetries = 3
	cfg.RateLimit.RetryDelay = 20 * time.Millisecond
	cfg.RateLimit.BackoffMultiplier = 2.0

	return cfg
}

// CreateMemoryStore creates an in-memory document store
func (h *TestHelper) CreateMemoryStore() store.Store {
	return store.NewMemoryStore()
}

// CreateSQLiteStore creates a file-backed store in a temp directory and
// returns it along with its path for reopen scenarios
func (h *TestHelper) CreateSQLiteStore() (*store.SQLiteStore, string) {
	path := filepath.Join(h.t.TempDir(), "tagwatch.db")
	st, err := store.NewSQLiteStore(path)
	if err != nil {
		h.t.Fatalf("Failed to create sqlite store: %v", err)
	}
	h.t.Cleanup(func() { st.Close() })
	return st, path
}

// SeedSearchOptions writes the search query option, and the pagination
// cursor when lastID is non-empty
func (h *TestHelper) SeedSearchOptions(st store.Store, query, lastID string) {
	if _, err := st.Add(store.CollectionOptions, map[string]interface{}{
		"name":  store.OptionSearch,
		"value": query,
	}); err != nil {
		h.t.Fatalf("Failed to seed search option: %v", err)
	}

	if lastID != "" {
		if _, err := st.Add(store.CollectionOptions, map[string]interface{}{
			"name":  store.OptionLastResultID,
			"value": lastID,
		}); err != nil {
			h.t.Fatalf("Failed to seed cursor option: %v", err)
		}
	}
}

// SeedBlacklist writes one blacklist entry. Either value may be empty.
func (h *TestHelper) SeedBlacklist(st store.Store, hashtag, username string) {
	fields := map[string]interface{}{}
	if hashtag != "" {
		fields["hashtag"] = hashtag
	}
	if username != "" {
		fields["username"] = username
	}
	if _, err := st.Add(store.CollectionBlacklist, fields); err != nil {
		h.t.Fatalf("Failed to seed blacklist entry: %v", err)
	}
}

// SeedAlias writes one hashtag alias mapping
func (h *TestHelper) SeedAlias(st store.Store, from, to string) {
	if _, err := st.Add(store.CollectionAliases, map[string]interface{}{
		"from":    from,
		"hashtag": to,
	}); err != nil {
		h.t.Fatalf("Failed to seed alias: %v", err)
	}
}

// StoredTweetIDs returns the tweetId of every stored post, in insertion
// order
func (h *TestHelper) StoredTweetIDs(st store.Store) []string {
	docs, err := st.GetAll(store.CollectionTweets)
	if err != nil {
		h.t.Fatalf("Failed to read stored tweets: %v", err)
	}

	ids := make([]string, 0, len(docs))
	for _, doc := range docs {
		ids = append(ids, doc.String("tweetId"))
	}
	return ids
}

// StoredCursor returns the persisted lastResultId option value
func (h *TestHelper) StoredCursor(st store.Store) string {
	docs, err := st.FindByField(store.CollectionOptions, "name", store.OptionLastResultID)
	if err != nil {
		h.t.Fatalf("Failed to read cursor option: %v", err)
	}
	if len(docs) == 0 {
		return ""
	}
	return docs[0].String("value")
}

// GenerateTweets generates count sequential search results, newest id
// first, all carrying the search hashtag plus one extra tag per tweet
func GenerateTweets(count int, startID int64, screenName, searchTag string) []twitter.Tweet {
	tweets := make([]twitter.Tweet, 0, count)
	for i := 0; i < count; i++ {
		id := startID - int64(i)
		extraTag := fmt.Sprintf("topic%d", id%3)
		tweets = append(tweets, MakeTweet(id, screenName, fmt.Sprintf("post %d #%s #%s", id, searchTag, extraTag), searchTag, extraTag))
	}
	return tweets
}

// MakeTweet builds a single search result with entity hashtags
func MakeTweet(id int64, screenName, text string, tags ...string) twitter.Tweet {
	entities := twitter.Entities{Hashtags: make([]twitter.HashtagEntity, 0, len(tags))}
	for _, tag := range tags {
		entities.Hashtags = append(entities.Hashtags, twitter.HashtagEntity{Text: tag})
	}

	return twitter.Tweet{
		IDStr:     fmt.Sprintf("%d", id),
		Text:      text,
		CreatedAt: time.Date(2026, 3, 14, 12, 0, 0, 0, time.UTC).Format(time.RubyDate),
		User: twitter.User{
			IDStr:      fmt.Sprintf("u%d", id),
			ScreenName: screenName,
			Name:       screenName,
		},
		Entities: entities,
	}
}
