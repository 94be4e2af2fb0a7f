package scraper

import (
	"context"
	"fmt"
	"log/slog"
	"regexp"
	"strconv"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"github.com/jrosariodev/dealscout/internal/models"
)

const electrodomesticosBaseURL = "https://electrodomesticos.com.do"

var electrodomesticosBrands = []string{
	"Samsung", "LG", "Whirlpool", "Mabe", "Frigidaire", "JVC", "Sony",
}

var electrodomesticosCategoryPaths = map[models.Category]string{
	models.CategoryTV:             "/electronicos/tv-y-video",
	models.CategoryPhone:          "/electronicos/celulares",
	models.CategoryLaptop:         "/electronicos/computadoras",
	models.CategoryFridge:         "/cocina/refrigeradores",
	models.CategoryWashingMachine: "/lavado/lavadoras",
	models.CategoryAirConditioner: "/aires-y-abanicos/aires-acondicionados",
	models.CategoryMicrowave:      "/cocina/microondas",
	models.CategoryStove:          "/cocina/estufas",
}

var nonPricePattern = regexp.MustCompile(`[^\d.]`)

func init() {
	Register("electrodomesticos", func(f Fetcher) Scraper {
		return NewElectrodomesticos(f)
	})
}

// Electrodomesticos scrapes electrodomesticos.com.do listing pages.
type Electrodomesticos struct {
	fetcher Fetcher
	logger  *slog.Logger
}

func NewElectrodomesticos(f Fetcher) *Electrodomesticos {
	return &Electrodomesticos{
		fetcher: f,
		logger:  slog.Default().With("component", "scraper", "site", "electrodomesticos"),
	}
}

func (s *Electrodomesticos) SupportedFilters() models.SupportedFilters {
	return models.SupportedFilters{
		Categories: models.Categories(),
		Brands:     electrodomesticosBrands,
		Conditions: models.Conditions(),
		Locations:  []string{"Santo Domingo", "Santiago", "La Romana"},
	}
}

func (s *Electrodomesticos) Scrape(ctx context.Context, filters models.Filters) ([]*models.Deal, error) {
	url := s.buildURL(filters)
	s.logger.Info("starting scrape", "url", url)

	page, err := s.fetcher.Fetch(ctx, url)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch listing: %w", err)
	}
	defer page.Release()

	html, err := page.Content()
	if err != nil {
		return nil, fmt.Errorf("failed to read page content: %w", err)
	}
	s.logger.Debug("page fetched", "url", page.URL(), "content_length", len(html))

	deals, err := s.parseListing(html)
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

func (s *Electrodomesticos) buildURL(filters models.Filters) string {
	url := electrodomesticosBaseURL
	if len(filters.Categories) > 0 {
		if path, ok := electrodomesticosCategoryPaths[filters.Categories[0]]; ok {
			url += path
		}
	}
	return url
}

func (s *Electrodomesticos) parseListing(html string) ([]*models.Deal, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return nil, fmt.Errorf("failed to parse HTML: %w", err)
	}

	// The site has cycled through card markups; try the current class first.
	cards := doc.Find("div.product-thumb")
	if cards.Length() == 0 {
		cards = doc.Find("div.item-product")
	}
	if cards.Length() == 0 {
		cards = doc.Find("div.product-item")
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

func (s *Electrodomesticos) parseCard(card *goquery.Selection) (*models.Deal, error) {
	deal := models.NewDeal()

	title := strings.TrimSpace(card.Find("h3").First().Text())
	if title == "" {
		title = strings.TrimSpace(card.Find("div.name a").First().Text())
	}
	deal.Title = title

	model := strings.TrimSpace(card.Find("div.short-desc").First().Text())
	if model != "" {
		deal.Specifications["model"] = model
	}

	deal.Price = parsePrice(card.Find("span.price").First().Text())

	switch {
	case model != "":
		deal.Brand = strings.Fields(model)[0]
	case title != "":
		deal.Brand = strings.TrimSpace(strings.Split(title, ",")[0])
	}

	deal.URL = s.extractURL(card)
	if img, ok := card.Find("img.img-responsive").First().Attr("src"); ok {
		deal.ImageURL = img
	}

	if tax := strings.TrimSpace(card.Find("span.tax_included_notice").First().Text()); tax != "" {
		deal.Specifications["tax_info"] = tax
	}
	if strings.Contains(card.Text(), "Financiable") {
		deal.Specifications["financeable"] = "true"
	}

	deal.Category = inferCategory(deal.Title, deal.URL)
	deal.Condition = models.ConditionNew
	deal.Location = "Santo Domingo"

	if err := deal.Validate(); err != nil {
		return nil, err
	}
	return deal, nil
}

func (s *Electrodomesticos) extractURL(card *goquery.Selection) string {
	var href string
	for _, class := range []string{"a.more-info", "a.thumb", "a.product-link"} {
		if v, ok := card.Find(class).First().Attr("href"); ok && v != "" {
			href = v
			break
		}
	}
	if href == "" {
		if v, ok := card.Find("a[href]").First().Attr("href"); ok {
			href = v
		}
	}
	if href != "" && !strings.HasPrefix(href, "http") {
		href = electrodomesticosBaseURL + href
	}
	return href
}

// parsePrice strips the RD$ currency marker and thousands separators.
func parsePrice(text string) float64 {
	cleaned := nonPricePattern.ReplaceAllString(strings.TrimSpace(text), "")
	if cleaned == "" {
		return 0
	}
	price, err := strconv.ParseFloat(cleaned, 64)
	if err != nil {
		return 0
	}
	return price
}

var categoryKeywords = map[models.Category][]string{
	models.CategoryTV:             {"tv", "televisor", "monitor", "smart tv"},
	models.CategoryPhone:          {"celular", "teléfono", "smartphone"},
	models.CategoryLaptop:         {"laptop", "computadora", "notebook"},
	models.CategoryFridge:         {"nevera", "refrigerador"},
	models.CategoryWashingMachine: {"lavadora"},
	models.CategoryAirConditioner: {"aire acondicionado"},
	models.CategoryMicrowave:      {"microonda"},
	models.CategoryStove:          {"estufa", "cocina"},
}

// inferCategory guesses a category from the URL path, then from title
// keywords, falling back to TV.
func inferCategory(title, url string) models.Category {
	urlLower := strings.ToLower(url)
	for _, c := range models.Categories() {
		if strings.Contains(urlLower, strings.ToLower(string(c))) {
			return c
		}
	}

	titleLower := strings.ToLower(title)
	for _, c := range models.Categories() {
		for _, keyword := range categoryKeywords[c] {
			if strings.Contains(titleLower, keyword) {
				return c
			}
		}
	}

	return models.CategoryTV
}
