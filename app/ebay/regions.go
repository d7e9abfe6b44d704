package ebay

import (
	"fmt"

	"golang.org/x/text/language"
)

// EuropeanRegions is searched when no regions are configured.
var EuropeanRegions = []string{
	"AL", "AD", "AT", "BY", "BE", "BA", "BG", "HR", "CY", "CZ",
	"DK", "EE", "FI", "FR", "DE", "GR", "HU", "IS", "IE", "IT",
	"LV", "LI", "LT", "LU", "MT", "MC", "ME", "NL", "MK", "NO",
	"PL", "PT", "RO", "SM", "RS", "SK", "SI", "ES", "SE", "CH",
	"UA", "GB", "VA",
}

// ValidateRegions checks that every code is a two-letter ISO 3166 country.
func ValidateRegions(regions []string) error {
	for _, code := range regions {
		if len(code) != 2 {
			return fmt.Errorf("invalid region code %q: expected two letters", code)
		}
		region, err := language.ParseRegion(code)
		if err != nil {
			return fmt.Errorf("invalid region code %q: %w", code, err)
		}
		if !region.IsCountry() {
			return fmt.Errorf("region code %q is not a country", code)
		}
	}
	return nil
}
