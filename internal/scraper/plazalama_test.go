package scraper

import (
	"context"
	"testing"

	"github.com/jrosariodev/dealscout/internal/models"
)

const plazaLamaHTML = `
<html><body>
<div class="product-card">
  <a href="/products/tcl-55-smart-tv"></a>
  <img src="https://cdn.example.test/tcl55.jpg"/>
  <div class="product-card__title">TCL 55" QLED Smart TV</div>
  <span class="product-card__price">RD$27,495.00</span>
  <span class="product-card__price--compare">RD$34,995.00</span>
</div>
<div class="product-card">
  <a href="/products/oster-microondas"></a>
  <div class="product-card__title">Oster Microondas 0.7 pies</div>
  <span class="product-card__price">RD$4,250.00</span>
</div>
</body></html>`

func TestPlazaLamaParsesCollection(t *testing.T) {
	fetcher := &fakeFetcher{page: &fakePage{html: plazaLamaHTML}}
	s := NewPlazaLama(fetcher)

	deals, err := s.Scrape(context.Background(), models.Filters{})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(deals) != 2 {
		t.Fatalf("expected 2 deals, got %d", len(deals))
	}

	tv := deals[0]
	if tv.Brand != "TCL" {
		t.Errorf("unexpected brand: %q", tv.Brand)
	}
	if tv.Price != 27495.00 {
		t.Errorf("unexpected price: %v", tv.Price)
	}
	if tv.OriginalPrice != 34995.00 {
		t.Errorf("discount original price not captured: %v", tv.OriginalPrice)
	}
	if tv.URL != "https://plazalama.com.do/products/tcl-55-smart-tv" {
		t.Errorf("relative URL not resolved: %q", tv.URL)
	}

	micro := deals[1]
	if micro.Category != models.CategoryMicrowave {
		t.Errorf("unexpected category: %v", micro.Category)
	}
	if micro.OriginalPrice != 0 {
		t.Errorf("no compare price expected, got %v", micro.OriginalPrice)
	}
}

func TestPlazaLamaCategoryURL(t *testing.T) {
	fetcher := &fakeFetcher{page: &fakePage{html: "<html></html>"}}
	s := NewPlazaLama(fetcher)

	_, err := s.Scrape(context.Background(), models.Filters{
		Categories: []models.Category{models.CategoryTV},
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if fetcher.fetched[0] != "https://plazalama.com.do/collections/televisores" {
		t.Errorf("unexpected fetch URL: %v", fetcher.fetched)
	}
}
