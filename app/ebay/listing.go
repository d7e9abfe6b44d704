package ebay

import (
	"fmt"
	"strings"
	"time"
)

// Placeholders used when an upstream field is absent.
const (
	Unknown         = "Unknown"
	NoTitle         = "No title"
	NoURL           = "No URL available"
	DefaultAmount   = "0"
	DefaultCurrency = "USD"
)

func extractItems(body field) []field {
	return body.Get("findItemsAdvancedResponse", "searchResult", "item").List()
}

// parseEndTime accepts the end time either as a bare string or as a
// single-element list. Timestamps are UTC with optional fractional seconds.
func parseEndTime(raw field) (time.Time, error) {
	s := strings.TrimSpace(raw.String(""))
	if s == "" {
		return time.Time{}, fmt.Errorf("end time is missing")
	}

	t, err := time.Parse(time.RFC3339Nano, s)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid end time %q: %w", s, err)
	}

	return t.UTC(), nil
}

func amount(f field) Amount {
	return Amount{
		Value:    f.Get("__value__").String(DefaultAmount),
		Currency: f.Get("@currencyId").String(DefaultCurrency),
	}
}

func newListing(region string, item field, endTime time.Time, remaining time.Duration) Listing {
	listingInfo := item.Get("listingInfo")
	category := item.Get("primaryCategory")
	condition := item.Get("condition")
	seller := item.Get("sellerInfo")

	return Listing{
		Region:        region,
		Country:       item.Get("country").String(Unknown),
		Title:         item.Get("title").String(NoTitle),
		Price:         amount(item.Get("sellingStatus", "currentPrice")),
		TimeRemaining: remaining,
		URL:           item.Get("viewItemURL").String(NoURL),
		Category:      category.Get("categoryName").String(Unknown),
		CategoryID:    category.Get("categoryId").String(Unknown),
		ItemID:        item.Get("itemId").String(Unknown),
		ConditionID:   condition.Get("conditionId").String(Unknown),
		ConditionName: condition.Get("conditionDisplayName").String(Unknown),
		ListingType:   listingInfo.Get("listingType").String(Unknown),
		StartTime:     listingInfo.Get("startTime").String(Unknown),
		EndTime:       endTime,
		EndTimeRaw:    listingInfo.Get("endTime").String(Unknown),
		SellerID:      seller.Get("sellerUserName").String(Unknown),
		FeedbackScore: seller.Get("feedbackScore").String(Unknown),
		FeedbackPct:   seller.Get("positiveFeedbackPercent").String(Unknown),
		ShippingCost:  amount(item.Get("shippingInfo", "shippingServiceCost")),
		Location:      item.Get("location").String(Unknown),
		GalleryURL:    item.Get("galleryURL").String(NoURL),
	}
}
