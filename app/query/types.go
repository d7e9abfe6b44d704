package query

import (
	"time"

	"github.com/lysyi3m/dealsteal/app/ebay"
)

// Query is one saved search definition. Zero prices mean no bound and an
// empty Regions list falls back to the configured regions.
type Query struct {
	Name         string   `json:"-" yaml:"-"`
	Keywords     string   `json:"keywords" yaml:"keywords"`
	MinPrice     float64  `json:"min_price" yaml:"min_price"`
	MaxPrice     float64  `json:"max_price" yaml:"max_price"`
	CategoryIDs  []string `json:"category_ids" yaml:"category_ids"`
	ConditionIDs []string `json:"condition_ids" yaml:"condition_ids"`
	Regions      []string `json:"regions" yaml:"regions"`
}

func (q Query) Criteria(maxTimeRemaining time.Duration) ebay.Criteria {
	return ebay.Criteria{
		Keywords:         q.Keywords,
		MinPrice:         q.MinPrice,
		MaxPrice:         q.MaxPrice,
		CategoryIDs:      q.CategoryIDs,
		ConditionIDs:     q.ConditionIDs,
		MaxTimeRemaining: maxTimeRemaining,
	}
}
