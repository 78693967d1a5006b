package integration

import (
	"encoding/json"
	stderrors "errors"
	"net/http"
	"testing"

	"tagwatch/pkg/errors"
	"tagwatch/pkg/twitter"
)

// TestMockServerFunctionality tests that the mock server works correctly
func TestMockServerFunctionality(t *testing.T) {
	helper := NewTestHelper(t)
	mockServer := helper.SetupMockServer()

	mockServer.SeedTweets(GenerateTweets(3, 300, "someone", "golang"))

	resp, err := http.Get(mockServer.GetURL() + twitter.SearchEndpoint + "?q=%23golang&count=10")
	if err != nil {
		t.Fatalf("Failed to search: %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		t.Errorf("Expected status 200, got %d", resp.StatusCode)
	}

	var payload twitter.SearchResponse
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		t.Fatalf("Failed to decode search response: %v", err)
	}

	if len(payload.Statuses) != 3 {
		t.Fatalf("Expected 3 statuses, got %d", len(payload.Statuses))
	}
	if payload.Statuses[0].IDStr != "300" {
		t.Errorf("Expected newest tweet first, got id %s", payload.Statuses[0].IDStr)
	}
	if payload.SearchMetadata == nil || payload.SearchMetadata.Query != "#golang" {
		t.Error("Expected search metadata to echo the query")
	}
	if payload.SearchMetadata.NextResults != "" {
		t.Error("Expected no continuation on a short page")
	}
}

// TestMockServerPagination tests that continuation cursors walk the
// whole result set
func TestMockServerPagination(t *testing.T) {
	helper := NewTestHelper(t)
	mockServer := helper.SetupMockServer()

	mockServer.SeedTweets(GenerateTweets(5, 500, "someone", "golang"))

	var collected []string
	query := "?q=%23golang&count=2"
	for page := 0; page < 5; page++ {
		resp, err := http.Get(mockServer.GetURL() + twitter.SearchEndpoint + query)
		if err != nil {
			t.Fatalf("Page request failed: %v", err)
		}

		var payload twitter.SearchResponse
		if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
			t.Fatalf("Failed to decode page: %v", err)
		}
		resp.Body.Close()

		for _, tweet := range payload.Statuses {
			collected = append(collected, tweet.IDStr)
		}

		if payload.SearchMetadata == nil || payload.SearchMetadata.NextResults == "" {
			break
		}
		query = payload.SearchMetadata.NextResults
	}

	expected := []string{"500", "499", "498", "497", "496"}
	if len(collected) != len(expected) {
		t.Fatalf("Expected %d tweets across pages, got %d", len(expected), len(collected))
	}
	for i, id := range expected {
		if collected[i] != id {
			t.Errorf("Position %d: expected id %s, got %s", i, id, collected[i])
		}
	}
}

// TestErrorSimulation tests error injection and clearing
func TestErrorSimulation(t *testing.T) {
	helper := NewTestHelper(t)
	mockServer := helper.SetupMockServer()

	mockServer.SetErrorResponse(twitter.SearchEndpoint, http.StatusInternalServerError)

	resp, err := http.Get(mockServer.GetURL() + twitter.SearchEndpoint + "?q=%23golang")
	if err != nil {
		t.Fatalf("Failed to make request: %v", err)
	}
	resp.Body.Close()

	if resp.StatusCode != http.StatusInternalServerError {
		t.Errorf("Expected status 500, got %d", resp.StatusCode)
	}

	mockServer.ClearErrorResponse(twitter.SearchEndpoint)

	resp2, err := http.Get(mockServer.GetURL() + twitter.SearchEndpoint + "?q=%23golang")
	if err != nil {
		t.Fatalf("Failed to make request: %v", err)
	}
	resp2.Body.Close()

	if resp2.StatusCode != http.StatusOK {
		t.Errorf("Expected error to be cleared, got status %d", resp2.StatusCode)
	}
}

// TestRateLimitSimulation tests that configured 429 responses are
// counted and then cleared
func TestRateLimitSimulation(t *testing.T) {
	helper := NewTestHelper(t)
	mockServer := helper.SetupMockServer()

	mockServer.FailNextRequests(2, http.StatusTooManyRequests)

	for i := 0; i < 3; i++ {
		resp, err := http.Get(mockServer.GetURL() + twitter.SearchEndpoint + "?q=%23golang")
		if err != nil {
			t.Fatalf("Request %d failed: %v", i, err)
		}
		resp.Body.Close()
	}

	if hits := mockServer.GetRateLimitHits(); hits != 2 {
		t.Errorf("Expected 2 rate limit hits, got %d", hits)
	}
	if total := mockServer.GetRequestCount(); total != 3 {
		t.Errorf("Expected 3 requests, got %d", total)
	}
}

// TestClientAgainstMockServer tests the API client end to end against
// the mock endpoint
func TestClientAgainstMockServer(t *testing.T) {
	helper := NewTestHelper(t)
	mockServer := helper.SetupMockServer()
	cfg := helper.CreateTestConfig()
	log := helper.CreateTestLogger()

	mockServer.SeedTweets(GenerateTweets(5, 105, "someone", "golang"))

	client := twitter.NewClient(cfg, log)

	tweets, err := client.SearchTweets(twitter.SearchParams{
		Query:    "#golang",
		Count:    2,
		MaxPages: 5,
	})
	if err != nil {
		t.Fatalf("Search failed: %v", err)
	}

	if len(tweets) != 5 {
		t.Fatalf("Expected 5 tweets, got %d", len(tweets))
	}
	if tweets[0].IDStr != "105" || tweets[4].IDStr != "101" {
		t.Errorf("Expected ids 105..101, got %s..%s", tweets[0].IDStr, tweets[4].IDStr)
	}
	// 2+2+1: the short third page terminates pagination.
	if requests := mockServer.GetRequestCount(); requests != 3 {
		t.Errorf("Expected 3 page requests, got %d", requests)
	}
}

// TestClientRetriesTransientErrors tests that the client survives a
// transient server error through its transport retry
func TestClientRetriesTransientErrors(t *testing.T) {
	helper := NewTestHelper(t)
	mockServer := helper.SetupMockServer()
	cfg := helper.CreateTestConfig()
	log := helper.CreateTestLogger()

	mockServer.SeedTweets(GenerateTweets(2, 12, "someone", "golang"))
	mockServer.FailNextRequests(1, http.StatusServiceUnavailable)

	client := twitter.NewClient(cfg, log)

	tweets, err := client.SearchTweets(twitter.SearchParams{Query: "#golang", Count: 10, MaxPages: 1})
	if err != nil {
		t.Fatalf("Expected retry to recover, got error: %v", err)
	}
	if len(tweets) != 2 {
		t.Errorf("Expected 2 tweets after retry, got %d", len(tweets))
	}
	if requests := mockServer.GetRequestCount(); requests != 2 {
		t.Errorf("Expected 2 requests (failure plus retry), got %d", requests)
	}
}

// TestClientSurfacesAuthErrors tests that authentication failures are
// not retried and carry the right error type
func TestClientSurfacesAuthErrors(t *testing.T) {
	helper := NewTestHelper(t)
	mockServer := helper.SetupMockServer()
	cfg := helper.CreateTestConfig()
	log := helper.CreateTestLogger()

	mockServer.SetErrorResponse(twitter.SearchEndpoint, http.StatusUnauthorized)

	client := twitter.NewClient(cfg, log)

	_, err := client.SearchTweets(twitter.SearchParams{Query: "#golang"})
	if err == nil {
		t.Fatal("Expected an authentication error")
	}
	var apiErr *errors.Error
	if !stderrors.As(err, &apiErr) || apiErr.Type != errors.ErrorTypeAuth {
		t.Errorf("Expected auth error type, got: %v", err)
	}
	if requests := mockServer.GetRequestCount(); requests != 1 {
		t.Errorf("Expected no retry on auth errors, got %d requests", requests)
	}
}
