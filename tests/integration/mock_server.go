package integration

import (
	"encoding/json"
	"fmt"
	"math"
	"net/http"
	"net/http/httptest"
	"net/url"
	"sort"
	"strconv"
	"sync"
	"sync/atomic"
	"time"

	"tagwatch/pkg/twitter"
)

// MockSearchServer simulates the Twitter standard search endpoint with
// realistic pagination and error behavior
type MockSearchServer struct {
	server        *httptest.Server
	requestCount  int32
	rateLimitHits int32

	mu             sync.RWMutex
	tweets         []twitter.Tweet // sorted by id, newest first
	errorResponses map[string]int  // path -> status code
	failNext       int             // consecutive requests to fail
	failCode       int
	delays         map[string]time.Duration
	lastSinceID    string
	lastMaxID      string
}

// NewMockSearchServer creates a mock search API server with no seeded
// results
func NewMockSearchServer() *MockSearchServer {
	m := &MockSearchServer{
		errorResponses: make(map[string]int),
		delays:         make(map[string]time.Duration),
	}

	mux := http.NewServeMux()
	mux.HandleFunc(twitter.SearchEndpoint, m.handleSearch)

	m.server = httptest.NewServer(mux)
	return m
}

// SeedTweets replaces the server's result set. Tweets are served newest
// id first regardless of seed order.
func (m *MockSearchServer) SeedTweets(tweets []twitter.Tweet) {
	m.mu.Lock()
	defer m.mu.Unlock()

	sorted := make([]twitter.Tweet, len(tweets))
	copy(sorted, tweets)
	sort.Slice(sorted, func(i, j int) bool {
		return tweetID(sorted[i]) > tweetID(sorted[j])
	})
	m.tweets = sorted
}

// AddTweet appends a single result to the served set
func (m *MockSearchServer) AddTweet(tweet twitter.Tweet) {
	m.mu.Lock()
	current := make([]twitter.Tweet, len(m.tweets), len(m.tweets)+1)
	copy(current, m.tweets)
	current = append(current, tweet)
	m.mu.Unlock()

	m.SeedTweets(current)
}

// handleSearch serves one page of search results honoring q, count,
// since_id and max_id, emitting a next_results continuation while more
// pages remain
func (m *MockSearchServer) handleSearch(w http.ResponseWriter, r *http.Request) {
	atomic.AddInt32(&m.requestCount, 1)

	if delay := m.getDelay(r.URL.Path); delay > 0 {
		time.Sleep(delay)
	}

	if code := m.consumeFailure(r.URL.Path); code > 0 {
		if code == http.StatusTooManyRequests {
			atomic.AddInt32(&m.rateLimitHits, 1)
			w.Header().Set("Retry-After", "60")
		}
		w.WriteHeader(code)
		json.NewEncoder(w).Encode(map[string]interface{}{
			"errors": []map[string]interface{}{
				{"code": code, "message": fmt.Sprintf("simulated error %d", code)},
			},
		})
		return
	}

	query := r.URL.Query().Get("q")
	if query == "" {
		w.WriteHeader(http.StatusBadRequest)
		json.NewEncoder(w).Encode(map[string]interface{}{
			"errors": []map[string]interface{}{
				{"code": 25, "message": "Query parameters are missing."},
			},
		})
		return
	}

	count := 15
	if raw := r.URL.Query().Get("count"); raw != "" {
		if parsed, err := strconv.Atoi(raw); err == nil && parsed > 0 {
			count = parsed
		}
	}

	sinceID := r.URL.Query().Get("since_id")
	maxID := r.URL.Query().Get("max_id")

	m.mu.Lock()
	m.lastSinceID = sinceID
	m.lastMaxID = maxID
	m.mu.Unlock()

	window := m.selectTweets(sinceID, maxID)

	page := window
	if len(page) > count {
		page = page[:count]
	}

	metadata := &twitter.SearchMetadata{
		Count: count,
		Query: query,
	}
	if len(page) > 0 {
		metadata.MaxIDStr = page[0].IDStr
	}
	if sinceID != "" {
		metadata.SinceIDStr = sinceID
	}

	// More results behind this page: hand out a continuation cursor
	// the way the real API does, one below the oldest id served.
	if len(page) == count && len(window) > count {
		next := url.Values{}
		next.Set("max_id", strconv.FormatInt(tweetID(page[len(page)-1])-1, 10))
		next.Set("q", query)
		next.Set("count", strconv.Itoa(count))
		next.Set("result_type", "recent")
		if sinceID != "" {
			next.Set("since_id", sinceID)
		}
		metadata.NextResults = "?" + next.Encode()
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(twitter.SearchResponse{
		Statuses:       page,
		SearchMetadata: metadata,
	})
}

// selectTweets returns the seeded tweets within the requested id window,
// newest first. The since_id boundary itself is included, which clients
// are expected to drop.
func (m *MockSearchServer) selectTweets(sinceID, maxID string) []twitter.Tweet {
	m.mu.RLock()
	defer m.mu.RUnlock()

	var lower int64
	upper := int64(math.MaxInt64)
	if sinceID != "" {
		lower, _ = strconv.ParseInt(sinceID, 10, 64)
	}
	if maxID != "" {
		upper, _ = strconv.ParseInt(maxID, 10, 64)
	}

	var selected []twitter.Tweet
	for _, tweet := range m.tweets {
		id := tweetID(tweet)
		if id >= lower && id <= upper {
			selected = append(selected, tweet)
		}
	}
	return selected
}

// SetErrorResponse configures the search endpoint to return an error
// code on every request until cleared
func (m *MockSearchServer) SetErrorResponse(path string, code int) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.errorResponses[path] = code
}

// ClearErrorResponse removes the error configuration for a path
func (m *MockSearchServer) ClearErrorResponse(path string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.errorResponses, path)
}

// FailNextRequests makes the next n requests fail with the given status
// before the server resumes serving results
func (m *MockSearchServer) FailNextRequests(n, code int) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.failNext = n
	m.failCode = code
}

// SetDelay configures a response delay for a path
func (m *MockSearchServer) SetDelay(path string, delay time.Duration) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.delays[path] = delay
}

func (m *MockSearchServer) consumeFailure(path string) int {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.failNext > 0 {
		m.failNext--
		return m.failCode
	}
	return m.errorResponses[path]
}

func (m *MockSearchServer) getDelay(path string) time.Duration {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.delays[path]
}

// GetURL returns the base URL of the mock server
func (m *MockSearchServer) GetURL() string {
	return m.server.URL
}

// GetRequestCount returns the total number of requests served
func (m *MockSearchServer) GetRequestCount() int {
	return int(atomic.LoadInt32(&m.requestCount))
}

// GetRateLimitHits returns the number of 429 responses sent
func (m *MockSearchServer) GetRateLimitHits() int {
	return int(atomic.LoadInt32(&m.rateLimitHits))
}

// LastWindow returns the since_id and max_id of the most recent request
func (m *MockSearchServer) LastWindow() (sinceID, maxID string) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.lastSinceID, m.lastMaxID
}

// ResetCounters resets the request counters
func (m *MockSearchServer) ResetCounters() {
	atomic.StoreInt32(&m.requestCount, 0)
	atomic.StoreInt32(&m.rateLimitHits, 0)
}

// Close shuts down the mock server
func (m *MockSearchServer) Close() {
	m.server.Close()
}

// tweetID parses a tweet's id_str for window comparisons
func tweetID(tweet twitter.Tweet) int64 {
	id, _ := strconv.ParseInt(tweet.IDStr, 10, 64)
	return id
}
