package pipeline

import (
	"log/slog"
	"regexp"
	"strings"

	"github.com/jrosariodev/dealscout/internal/models"
)

var whitespacePattern = regexp.MustCompile(`\s+`)

// Brand spellings seen in the wild, keyed by their canonical form.
var brandVariants = map[string][]string{
	"Samsung":    {"Samsung", "Smg"},
	"LG":         {"LG", "Lg", "Elgie"},
	"Whirlpool":  {"Whirlpool", "Wirlpool"},
	"Frigidaire": {"Frigidaire", "Frigidare"},
}

// Clean normalizes scraped deals and drops the ones that fail validation.
func Clean(deals []*models.Deal) []*models.Deal {
	logger := slog.Default().With("component", "cleaning")

	cleaned := make([]*models.Deal, 0, len(deals))
	for _, deal := range deals {
		deal.Title = whitespacePattern.ReplaceAllString(strings.TrimSpace(deal.Title), " ")
		deal.Brand = StandardizeBrand(deal.Brand)

		if err := deal.Validate(); err != nil {
			logger.Debug("dropping invalid deal", "url", deal.URL, "error", err)
			continue
		}
		cleaned = append(cleaned, deal)
	}
	return cleaned
}

// StandardizeBrand maps known misspellings onto the canonical brand name.
func StandardizeBrand(brand string) string {
	brand = strings.TrimSpace(brand)
	if brand == "" {
		return brand
	}

	for canonical, variants := range brandVariants {
		for _, v := range variants {
			if strings.EqualFold(v, brand) {
				return canonical
			}
		}
	}
	return titleCase(brand)
}

func titleCase(s string) string {
	lower := strings.ToLower(s)
	return strings.ToUpper(lower[:1]) + lower[1:]
}
