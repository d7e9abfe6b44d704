package ebay

import (
	"fmt"
	"time"
)

// Criteria describes one saved search. Zero prices and a zero
// MaxTimeRemaining mean "no bound".
type Criteria struct {
	Keywords         string
	MinPrice         float64
	MaxPrice         float64
	CategoryIDs      []string
	ConditionIDs     []string
	MaxTimeRemaining time.Duration
}

type Amount struct {
	Value    string
	Currency string
}

func (a Amount) String() string {
	return fmt.Sprintf("%s %s", a.Value, a.Currency)
}

// Listing is the flattened view of one auction search result.
type Listing struct {
	Region        string
	Country       string
	Title         string
	Price         Amount
	TimeRemaining time.Duration
	URL           string
	Category      string
	CategoryID    string
	ItemID        string
	ConditionID   string
	ConditionName string
	ListingType   string
	StartTime     string
	EndTime       time.Time // zero when the upstream end time was missing or malformed
	EndTimeRaw    string
	SellerID      string
	FeedbackScore string
	FeedbackPct   string
	ShippingCost  Amount
	Location      string
	GalleryURL    string
}

type itemFilter struct {
	Name  string `json:"name"`
	Value any    `json:"value"`
}

type paginationInput struct {
	EntriesPerPage int `json:"entriesPerPage"`
}

type searchRequest struct {
	Keywords        string          `json:"keywords"`
	CategoryID      []string        `json:"categoryId,omitempty"`
	PaginationInput paginationInput `json:"paginationInput"`
	ItemFilter      []itemFilter    `json:"itemFilter"`
}
