package scraper

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"github.com/jrosariodev/dealscout/internal/models"
)

const plazaLamaBaseURL = "https://plazalama.com.do"

var plazaLamaBrands = []string{
	"Samsung", "LG", "Whirlpool", "Mabe", "TCL", "Hisense", "Oster",
}

var plazaLamaCategoryPaths = map[models.Category]string{
	models.CategoryTV:             "/collections/televisores",
	models.CategoryPhone:          "/collections/celulares",
	models.CategoryLaptop:         "/collections/laptops",
	models.CategoryFridge:         "/collections/neveras",
	models.CategoryWashingMachine: "/collections/lavadoras",
	models.CategoryAirConditioner: "/collections/aires-acondicionados",
	models.CategoryMicrowave:      "/collections/microondas",
	models.CategoryStove:          "/collections/estufas",
}

func init() {
	Register("plazalama", func(f Fetcher) Scraper {
		return NewPlazaLama(f)
	})
}

// PlazaLama scrapes plazalama.com.do collection pages.
type PlazaLama struct {
	fetcher Fetcher
	logger  *slog.Logger
}

func NewPlazaLama(f Fetcher) *PlazaLama {
	return &PlazaLama{
		fetcher: f,
		logger:  slog.Default().With("component", "scraper", "site", "plazalama"),
	}
}

func (s *PlazaLama) SupportedFilters() models.SupportedFilters {
	return models.SupportedFilters{
		Categories: models.Categories(),
		Brands:     plazaLamaBrands,
		Conditions: []models.Condition{models.ConditionNew},
		Locations:  []string{"Santo Domingo"},
	}
}

func (s *PlazaLama) Scrape(ctx context.Context, filters models.Filters) ([]*models.Deal, error) {
	url := plazaLamaBaseURL
	if len(filters.Categories) > 0 {
		if path, ok := plazaLamaCategoryPaths[filters.Categories[0]]; ok {
			url += path
		}
	}
	s.logger.Info("starting scrape", "url", url)

	page, err := s.fetcher.Fetch(ctx, url)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch collection: %w", err)
	}
	defer page.Release()

	html, err := page.Content()
	if err != nil {
		return nil, fmt.Errorf("failed to read page content: %w", err)
	}

	deals, err := s.parseCollection(html)
	if err != nil {
		return nil, err
	}

	matched := deals[:0]
	for _, deal := range deals {
		if deal.Matches(filters) {
			matched = append(matched, deal)
		}
	}

	s.logger.Info("scrape completed", "found", len(deals), "matched", len(matched))
	return matched, nil
}

func (s *PlazaLama) parseCollection(html string) ([]*models.Deal, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return nil, fmt.Errorf("failed to parse HTML: %w", err)
	}

	cards := doc.Find("div.product-card")
	if cards.Length() == 0 {
		cards = doc.Find("div.grid-product")
	}

	var deals []*models.Deal
	cards.Each(func(i int, card *goquery.Selection) {
		deal, err := s.parseCard(card)
		if err != nil {
			s.logger.Debug("skipping unparsable card", "index", i, "error", err)
			return
		}
		deals = append(deals, deal)
	})

	return deals, nil
}

func (s *PlazaLama) parseCard(card *goquery.Selection) (*models.Deal, error) {
	deal := models.NewDeal()

	deal.Title = strings.TrimSpace(card.Find(".product-card__title, .grid-product__title").First().Text())
	deal.Price = parsePrice(card.Find(".product-card__price, .grid-product__price").First().Text())

	if compare := parsePrice(card.Find(".product-card__price--compare, .grid-product__price--original").First().Text()); compare > deal.Price {
		deal.OriginalPrice = compare
	}

	if href, ok := card.Find("a[href]").First().Attr("href"); ok {
		if !strings.HasPrefix(href, "http") {
			href = plazaLamaBaseURL + href
		}
		deal.URL = href
	}
	if img, ok := card.Find("img").First().Attr("src"); ok {
		deal.ImageURL = img
	}

	// Titles lead with the brand on this site.
	if fields := strings.Fields(deal.Title); len(fields) > 0 {
		deal.Brand = fields[0]
	}

	deal.Category = inferCategory(deal.Title, deal.URL)
	deal.Condition = models.ConditionNew
	deal.Location = "Santo Domingo"

	if err := deal.Validate(); err != nil {
		return nil, err
	}
	return deal, nil
}
