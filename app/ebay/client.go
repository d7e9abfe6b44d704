package ebay

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strconv"
	"time"
)

const (
	// EntriesPerPage is the only page fetched per region; later pages are
	// never requested.
	EntriesPerPage = 50

	operationName = "findItemsAdvanced"
)

type Config struct {
	APIURL     string
	OAuthToken string
	AppID      string
	UserAgent  string
	Timeout    time.Duration
}

type Client struct {
	httpClient *http.Client
	apiURL     string
	oauthToken string
	appID      string
	userAgent  string
	now        func() time.Time
}

// NewClient creates a new Finding API client
func NewClient(cfg Config) *Client {
	return &Client{
		httpClient: &http.Client{Timeout: cfg.Timeout},
		apiURL:     cfg.APIURL,
		oauthToken: cfg.OAuthToken,
		appID:      cfg.AppID,
		userAgent:  cfg.UserAgent,
		now:        time.Now,
	}
}

// Search queries every region in turn and returns the auctions that satisfy
// criteria, in region order and then upstream order. A failed region is
// logged and contributes no results; only context cancellation is returned
// as an error.
func (c *Client) Search(ctx context.Context, criteria Criteria, regions []string) ([]Listing, error) {
	if len(regions) == 0 {
		regions = EuropeanRegions
	}

	var results []Listing
	failedRegions := 0

	for _, region := range regions {
		if err := ctx.Err(); err != nil {
			return results, err
		}

		body, err := c.searchRegion(ctx, criteria, region)
		if err != nil {
			slog.Error("Region search failed", "region", region, "keywords", criteria.Keywords, "error", err)
			failedRegions++
			continue
		}

		items := extractItems(body)
		listings := c.filterByTime(region, items, criteria.MaxTimeRemaining)

		slog.Debug("Region searched",
			"region", region,
			"keywords", criteria.Keywords,
			"items", len(items),
			"kept", len(listings))

		results = append(results, listings...)
	}

	slog.Info("Search completed",
		"keywords", criteria.Keywords,
		"regions", len(regions),
		"failed_regions", failedRegions,
		"results", len(results))

	return results, nil
}

func (c *Client) searchRegion(ctx context.Context, criteria Criteria, region string) (field, error) {
	payload, err := json.Marshal(buildRequest(criteria, region))
	if err != nil {
		return field{}, fmt.Errorf("failed to encode request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.apiURL, bytes.NewReader(payload))
	if err != nil {
		return field{}, fmt.Errorf("failed to create request: %w", err)
	}

	req.Header.Set("Authorization", "Bearer "+c.oauthToken)
	req.Header.Set("X-EBAY-SOA-SECURITY-APPNAME", c.appID)
	req.Header.Set("X-EBAY-SOA-OPERATION-NAME", operationName)
	req.Header.Set("X-EBAY-SOA-REQUEST-DATA-FORMAT", "JSON")
	req.Header.Set("Content-Type", "application/json")
	if c.userAgent != "" {
		req.Header.Set("User-Agent", c.userAgent)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return field{}, fmt.Errorf("failed to send request: %w", err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return field{}, fmt.Errorf("failed to read response body: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return field{}, fmt.Errorf("HTTP error: %d %s", resp.StatusCode, string(data))
	}

	decoder := json.NewDecoder(bytes.NewReader(data))
	decoder.UseNumber()

	var body any
	if err := decoder.Decode(&body); err != nil {
		return field{}, fmt.Errorf("failed to decode response: %w", err)
	}

	return field{v: body}, nil
}

func buildRequest(criteria Criteria, region string) searchRequest {
	filters := []itemFilter{
		{Name: "ListingType", Value: "Auction"},
		{Name: "LocatedIn", Value: region},
	}

	if criteria.MaxPrice > 0 {
		filters = append(filters, itemFilter{Name: "MaxPrice", Value: formatPrice(criteria.MaxPrice)})
	}
	if criteria.MinPrice > 0 {
		filters = append(filters, itemFilter{Name: "MinPrice", Value: formatPrice(criteria.MinPrice)})
	}
	if len(criteria.ConditionIDs) > 0 {
		filters = append(filters, itemFilter{Name: "Condition", Value: criteria.ConditionIDs})
	}

	return searchRequest{
		Keywords:        criteria.Keywords,
		CategoryID:      criteria.CategoryIDs,
		PaginationInput: paginationInput{EntriesPerPage: EntriesPerPage},
		ItemFilter:      filters,
	}
}

func (c *Client) filterByTime(region string, items []field, maxRemaining time.Duration) []Listing {
	now := c.now().UTC()
	listings := make([]Listing, 0, len(items))

	for _, item := range items {
		endTime, err := parseEndTime(item.Get("listingInfo", "endTime"))
		if err != nil {
			if maxRemaining > 0 {
				slog.Warn("Dropping item without usable end time",
					"region", region,
					"item_id", item.Get("itemId").String(Unknown),
					"error", err)
				continue
			}
			listings = append(listings, newListing(region, item, time.Time{}, 0))
			continue
		}

		remaining := endTime.Sub(now)
		if maxRemaining > 0 && remaining > maxRemaining {
			continue
		}

		listings = append(listings, newListing(region, item, endTime, remaining))
	}

	return listings
}

func formatPrice(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
