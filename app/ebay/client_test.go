package ebay

import (
	"context"
	"net/http"
	"net/http/httptest"
	"regexp"
	"sync"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
)

var fixedNow = time.Date(2025, 1, 10, 12, 0, 0, 0, time.UTC)

type recordedRequest struct {
	Headers http.Header
	Body    searchRequest
}

type fakeFinding struct {
	mu       sync.Mutex
	requests []recordedRequest
	byRegion map[string][]map[string]any
	failing  map[string]int
}

func newFakeFinding(t *testing.T) (*fakeFinding, *httptest.Server) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	fake := &fakeFinding{
		byRegion: make(map[string][]map[string]any),
		failing:  make(map[string]int),
	}

	r := gin.New()
	r.POST("/finding", func(c *gin.Context) {
		var req searchRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}

		fake.mu.Lock()
		fake.requests = append(fake.requests, recordedRequest{Headers: c.Request.Header.Clone(), Body: req})
		fake.mu.Unlock()

		region := filterValue(req, "LocatedIn")
		if status, ok := fake.failing[region]; ok {
			c.String(status, "upstream exploded")
			return
		}

		c.JSON(http.StatusOK, findingResponse(fake.byRegion[region]...))
	})

	srv := httptest.NewServer(r)
	t.Cleanup(srv.Close)

	return fake, srv
}

func newTestClient(srv *httptest.Server) *Client {
	c := NewClient(Config{
		APIURL:     srv.URL + "/finding",
		OAuthToken: "oauth-token",
		AppID:      "app-id",
		UserAgent:  "DealSteal/test",
		Timeout:    5 * time.Second,
	})
	c.now = func() time.Time { return fixedNow }
	return c
}

func filterValue(req searchRequest, name string) string {
	for _, f := range req.ItemFilter {
		if f.Name == name {
			if s, ok := f.Value.(string); ok {
				return s
			}
		}
	}
	return ""
}

func findingResponse(items ...map[string]any) map[string]any {
	list := make([]any, 0, len(items))
	for _, item := range items {
		list = append(list, item)
	}
	return map[string]any{
		"findItemsAdvancedResponse": []any{
			map[string]any{
				"ack":          []any{"Success"},
				"searchResult": []any{map[string]any{"item": list}},
			},
		},
	}
}

func auctionItem(id, country, price, currency string, endsIn time.Duration) map[string]any {
	end := fixedNow.Add(endsIn).Format("2006-01-02T15:04:05.000Z")
	return map[string]any{
		"itemId":      []any{id},
		"title":       []any{"GoPro HERO " + id},
		"country":     []any{country},
		"viewItemURL": []any{"https://www.ebay.com/itm/" + id},
		"primaryCategory": []any{map[string]any{
			"categoryId":   []any{"31388"},
			"categoryName": []any{"Digital Cameras"},
		}},
		"sellingStatus": []any{map[string]any{
			"currentPrice": []any{map[string]any{"@currencyId": currency, "__value__": price}},
		}},
		"listingInfo": []any{map[string]any{
			"listingType": []any{"Auction"},
			"endTime":     []any{end},
		}},
	}
}

func TestSearchFiltersByTimeRemaining(t *testing.T) {
	fake, srv := newFakeFinding(t)
	fake.byRegion["DE"] = []map[string]any{
		auctionItem("1", "DE", "60.0", "EUR", time.Hour),
		auctionItem("2", "DE", "70.0", "EUR", 7*time.Hour),
		auctionItem("3", "DE", "80.0", "EUR", 5*time.Hour+59*time.Minute),
		auctionItem("4", "DE", "90.0", "EUR", 48*time.Hour),
	}

	client := newTestClient(srv)
	results, err := client.Search(context.Background(), Criteria{
		Keywords:         "gopro",
		MaxTimeRemaining: 6 * time.Hour,
	}, []string{"DE"})
	if err != nil {
		t.Fatal(err)
	}

	if len(results) != 2 {
		t.Fatalf("Expected 2 results, got %d", len(results))
	}
	if results[0].ItemID != "1" || results[1].ItemID != "3" {
		t.Errorf("Expected items 1 and 3 in upstream order, got %s and %s", results[0].ItemID, results[1].ItemID)
	}
	if results[0].TimeRemaining != time.Hour {
		t.Errorf("Expected 1h remaining, got %v", results[0].TimeRemaining)
	}
	for _, l := range results {
		if l.TimeRemaining > 6*time.Hour {
			t.Errorf("Item %s exceeds bound: %v", l.ItemID, l.TimeRemaining)
		}
	}
}

func TestSearchWithoutBoundKeepsEverything(t *testing.T) {
	fake, srv := newFakeFinding(t)
	fake.byRegion["DE"] = []map[string]any{
		auctionItem("1", "DE", "60.0", "EUR", time.Hour),
		auctionItem("2", "DE", "70.0", "EUR", 30*24*time.Hour),
	}

	results, err := newTestClient(srv).Search(context.Background(), Criteria{Keywords: "gopro"}, []string{"DE"})
	if err != nil {
		t.Fatal(err)
	}
	if len(results) != 2 {
		t.Errorf("Expected 2 results, got %d", len(results))
	}
}

func TestSearchGoProScenario(t *testing.T) {
	fake, srv := newFakeFinding(t)
	fake.byRegion["DE"] = []map[string]any{
		auctionItem("101", "DE", "150.0", "EUR", 2*time.Hour),
		auctionItem("102", "DE", "250.0", "EUR", 10*time.Hour),
	}
	fake.byRegion["GB"] = []map[string]any{
		auctionItem("201", "GB", "99.99", "GBP", 5*time.Hour),
	}

	client := newTestClient(srv)
	results, err := client.Search(context.Background(), Criteria{
		Keywords:         "gopro -3",
		MinPrice:         50,
		MaxPrice:         500,
		MaxTimeRemaining: 21600 * time.Second,
	}, []string{"DE", "GB"})
	if err != nil {
		t.Fatal(err)
	}

	if len(results) != 2 {
		t.Fatalf("Expected 2 results, got %d", len(results))
	}
	if results[0].ItemID != "101" || results[1].ItemID != "201" {
		t.Errorf("Expected region order DE then GB, got %s, %s", results[0].ItemID, results[1].ItemID)
	}

	pricePattern := regexp.MustCompile(`^\d+(\.\d+)? [A-Z]{3}$`)
	for _, l := range results {
		if !pricePattern.MatchString(l.Price.String()) {
			t.Errorf("Price %q does not match '<amount> <currency>'", l.Price.String())
		}
		if l.TimeRemaining > 6*time.Hour {
			t.Errorf("Item %s ends after the bound", l.ItemID)
		}
	}

	if len(fake.requests) != 2 {
		t.Fatalf("Expected 2 requests, got %d", len(fake.requests))
	}

	req := fake.requests[0]
	if req.Body.Keywords != "gopro -3" {
		t.Errorf("Expected keywords 'gopro -3', got '%s'", req.Body.Keywords)
	}
	if req.Body.PaginationInput.EntriesPerPage != 50 {
		t.Errorf("Expected 50 entries per page, got %d", req.Body.PaginationInput.EntriesPerPage)
	}

	wantFilters := map[string]string{
		"ListingType": "Auction",
		"LocatedIn":   "DE",
		"MaxPrice":    "500",
		"MinPrice":    "50",
	}
	for name, want := range wantFilters {
		if got := filterValue(req.Body, name); got != want {
			t.Errorf("Filter %s: expected %q, got %q", name, want, got)
		}
	}
	if got := filterValue(fake.requests[1].Body, "LocatedIn"); got != "GB" {
		t.Errorf("Expected second request for GB, got %q", got)
	}

	headers := map[string]string{
		"Authorization":                  "Bearer oauth-token",
		"X-Ebay-Soa-Security-Appname":    "app-id",
		"X-Ebay-Soa-Operation-Name":      "findItemsAdvanced",
		"X-Ebay-Soa-Request-Data-Format": "JSON",
		"Content-Type":                   "application/json",
		"User-Agent":                     "DealSteal/test",
	}
	for name, want := range headers {
		if got := req.Headers.Get(name); got != want {
			t.Errorf("Header %s: expected %q, got %q", name, want, got)
		}
	}
}

func TestSearchOmitsAbsentFilters(t *testing.T) {
	fake, srv := newFakeFinding(t)

	_, err := newTestClient(srv).Search(context.Background(), Criteria{Keywords: "lens"}, []string{"FR"})
	if err != nil {
		t.Fatal(err)
	}

	body := fake.requests[0].Body
	if len(body.ItemFilter) != 2 {
		t.Errorf("Expected only ListingType and LocatedIn filters, got %+v", body.ItemFilter)
	}
	if len(body.CategoryID) != 0 {
		t.Errorf("Expected no category IDs, got %v", body.CategoryID)
	}
}

func TestSearchSendsCategoryAndCondition(t *testing.T) {
	fake, srv := newFakeFinding(t)

	_, err := newTestClient(srv).Search(context.Background(), Criteria{
		Keywords:     "lens",
		CategoryIDs:  []string{"3323"},
		ConditionIDs: []string{"1000", "3000"},
	}, []string{"FR"})
	if err != nil {
		t.Fatal(err)
	}

	body := fake.requests[0].Body
	if len(body.CategoryID) != 1 || body.CategoryID[0] != "3323" {
		t.Errorf("Expected category 3323, got %v", body.CategoryID)
	}

	var conditions []any
	for _, f := range body.ItemFilter {
		if f.Name == "Condition" {
			conditions, _ = f.Value.([]any)
		}
	}
	if len(conditions) != 2 || conditions[0] != "1000" || conditions[1] != "3000" {
		t.Errorf("Expected condition filter [1000 3000], got %v", conditions)
	}
}

func TestSearchContinuesAfterRegionFailure(t *testing.T) {
	fake, srv := newFakeFinding(t)
	fake.byRegion["DE"] = []map[string]any{auctionItem("1", "DE", "60.0", "EUR", time.Hour)}
	fake.failing["AT"] = http.StatusInternalServerError
	fake.failing["BE"] = http.StatusUnauthorized
	fake.byRegion["FR"] = []map[string]any{auctionItem("2", "FR", "65.0", "EUR", time.Hour)}

	results, err := newTestClient(srv).Search(context.Background(), Criteria{
		Keywords:         "gopro",
		MaxTimeRemaining: 6 * time.Hour,
	}, []string{"DE", "AT", "BE", "FR"})
	if err != nil {
		t.Fatal(err)
	}

	if len(fake.requests) != 4 {
		t.Errorf("Expected all 4 regions to be queried, got %d", len(fake.requests))
	}
	if len(results) != 2 {
		t.Fatalf("Expected 2 results, got %d", len(results))
	}
	if results[0].Region != "DE" || results[1].Region != "FR" {
		t.Errorf("Expected DE then FR, got %s then %s", results[0].Region, results[1].Region)
	}
}

func TestSearchSurvivesUnreachableService(t *testing.T) {
	_, srv := newFakeFinding(t)
	client := newTestClient(srv)
	srv.Close()

	results, err := client.Search(context.Background(), Criteria{Keywords: "gopro"}, []string{"DE", "FR"})
	if err != nil {
		t.Fatalf("Expected region failures to be swallowed, got %v", err)
	}
	if len(results) != 0 {
		t.Errorf("Expected no results, got %d", len(results))
	}
}

func TestSearchDefaultsToEuropeanRegions(t *testing.T) {
	fake, srv := newFakeFinding(t)

	if _, err := newTestClient(srv).Search(context.Background(), Criteria{Keywords: "gopro"}, nil); err != nil {
		t.Fatal(err)
	}

	if len(fake.requests) != len(EuropeanRegions) {
		t.Fatalf("Expected %d requests, got %d", len(EuropeanRegions), len(fake.requests))
	}
	for i, req := range fake.requests {
		if got := filterValue(req.Body, "LocatedIn"); got != EuropeanRegions[i] {
			t.Errorf("Request %d: expected region %s, got %s", i, EuropeanRegions[i], got)
		}
	}
}

func TestSearchStopsOnCancelledContext(t *testing.T) {
	fake, srv := newFakeFinding(t)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := newTestClient(srv).Search(ctx, Criteria{Keywords: "gopro"}, []string{"DE"})
	if err == nil {
		t.Error("Expected context error")
	}
	if len(fake.requests) != 0 {
		t.Errorf("Expected no requests, got %d", len(fake.requests))
	}
}

func TestFilterByTimeWithoutEndTime(t *testing.T) {
	client := NewClient(Config{})
	client.now = func() time.Time { return fixedNow }

	items := []field{{v: map[string]any{"itemId": []any{"7"}}}}

	if got := client.filterByTime("DE", items, time.Hour); len(got) != 0 {
		t.Errorf("Expected item without end time to be dropped under a bound, got %d", len(got))
	}

	got := client.filterByTime("DE", items, 0)
	if len(got) != 1 {
		t.Fatalf("Expected item to be kept without a bound, got %d", len(got))
	}
	if !got[0].EndTime.IsZero() {
		t.Errorf("Expected zero end time, got %v", got[0].EndTime)
	}
	if got[0].EndTimeRaw != Unknown {
		t.Errorf("Expected raw end time placeholder, got %q", got[0].EndTimeRaw)
	}
}
