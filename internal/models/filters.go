package models

import "strings"

// PriceRange bounds a filter; a zero Max means unbounded.
type PriceRange struct {
	Min float64 `json:"min"`
	Max float64 `json:"max"`
}

func (r PriceRange) Contains(price float64) bool {
	if price < r.Min {
		return false
	}
	if r.Max > 0 && price > r.Max {
		return false
	}
	return true
}

// Filters narrows a scrape or search. Zero values mean "don't care".
type Filters struct {
	Categories []Category  `json:"categories,omitempty"`
	Brands     []string    `json:"brands,omitempty"`
	PriceRange *PriceRange `json:"price_range,omitempty"`
	Condition  Condition   `json:"condition,omitempty"`
	Locations  []string    `json:"locations,omitempty"`
}

// SupportedFilters is what a site scraper advertises it can honor.
type SupportedFilters struct {
	Categories []Category
	Brands     []string
	Conditions []Condition
	Locations  []string
}

// SupportedBy reports whether every requested value is advertised by the
// scraper. An unsupported request skips the site rather than silently
// returning partial results.
func (f Filters) SupportedBy(s SupportedFilters) bool {
	for _, c := range f.Categories {
		if !containsCategory(s.Categories, c) {
			return false
		}
	}
	for _, b := range f.Brands {
		if !containsFold(s.Brands, b) {
			return false
		}
	}
	if f.Condition != "" && !containsCondition(s.Conditions, f.Condition) {
		return false
	}
	for _, l := range f.Locations {
		if !containsFold(s.Locations, l) {
			return false
		}
	}
	return true
}

// Matches applies the filters to a scraped deal.
func (d *Deal) Matches(f Filters) bool {
	if len(f.Brands) > 0 && !containsFold(f.Brands, d.Brand) {
		return false
	}
	if f.Condition != "" && d.Condition != f.Condition {
		return false
	}
	if len(f.Categories) > 0 && !containsCategory(f.Categories, d.Category) {
		return false
	}
	if len(f.Locations) > 0 {
		matched := false
		for _, l := range f.Locations {
			if strings.Contains(strings.ToLower(d.Location), strings.ToLower(l)) {
				matched = true
				break
			}
		}
		if !matched {
			return false
		}
	}
	if f.PriceRange != nil && !f.PriceRange.Contains(d.Price) {
		return false
	}
	return true
}

func containsFold(haystack []string, needle string) bool {
	for _, s := range haystack {
		if strings.EqualFold(s, needle) {
			return true
		}
	}
	return false
}

func containsCategory(haystack []Category, needle Category) bool {
	for _, c := range haystack {
		if c == needle {
			return true
		}
	}
	return false
}

func containsCondition(haystack []Condition, needle Condition) bool {
	for _, c := range haystack {
		if c == needle {
			return true
		}
	}
	return false
}
