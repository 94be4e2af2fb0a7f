package models

import (
	"strings"
	"testing"
)

func TestDealValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Deal)
		wantErr bool
	}{
		{"valid", func(d *Deal) {}, false},
		{"missing title", func(d *Deal) { d.Title = "" }, true},
		{"negative price", func(d *Deal) { d.Price = -1 }, true},
		{"negative original price", func(d *Deal) { d.OriginalPrice = -500 }, true},
		{"missing url", func(d *Deal) { d.URL = "" }, true},
		{"zero price allowed", func(d *Deal) { d.Price = 0 }, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d := NewDeal()
			d.Title = "Samsung 55\" Smart TV"
			d.Price = 32000
			d.URL = "https://example.test/tv"
			tt.mutate(d)

			err := d.Validate()
			if (err != nil) != tt.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestSearchTextIsLowercasedAndComplete(t *testing.T) {
	d := NewDeal()
	d.Title = "Samsung Smart TV"
	d.Brand = "Samsung"
	d.Category = CategoryTV
	d.Condition = ConditionNew
	d.Location = "Santo Domingo"
	d.Features = []string{"4K UHD"}
	d.Specifications["model"] = "UN55TU7000"

	text := d.SearchText()
	if text != strings.ToLower(text) {
		t.Error("search text must be lowercased")
	}
	for _, want := range []string{"samsung", "tv", "new", "santo domingo", "4k uhd", "model: un55tu7000"} {
		if !strings.Contains(text, want) {
			t.Errorf("search text missing %q: %s", want, text)
		}
	}
}

func TestCategoryFromString(t *testing.T) {
	tests := []struct {
		input string
		want  Category
		ok    bool
	}{
		{"TV", CategoryTV, true},
		{"tv", CategoryTV, true},
		{"nevera", CategoryFridge, true},
		{"lavadora", CategoryWashingMachine, true},
		{"aire acondicionado", CategoryAirConditioner, true},
		{"Phone", CategoryPhone, true},
		{"submarine", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, ok := CategoryFromString(tt.input)
			if ok != tt.ok || got != tt.want {
				t.Errorf("CategoryFromString(%q) = (%q, %v), want (%q, %v)", tt.input, got, ok, tt.want, tt.ok)
			}
		})
	}
}

func TestConditionFromString(t *testing.T) {
	tests := []struct {
		input string
		want  Condition
		ok    bool
	}{
		{"New", ConditionNew, true},
		{"nuevo", ConditionNew, true},
		{"usado", ConditionUsed, true},
		{"reacondicionado", ConditionRefurbished, true},
		{"broken", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, ok := ConditionFromString(tt.input)
			if ok != tt.ok || got != tt.want {
				t.Errorf("ConditionFromString(%q) = (%q, %v)", tt.input, got, ok)
			}
		})
	}
}

func TestDealMatchesFilters(t *testing.T) {
	deal := NewDeal()
	deal.Title = "LG Refrigerator"
	deal.Brand = "LG"
	deal.Category = CategoryFridge
	deal.Condition = ConditionNew
	deal.Location = "Santo Domingo Este"
	deal.Price = 45000

	tests := []struct {
		name    string
		filters Filters
		want    bool
	}{
		{"empty filters match everything", Filters{}, true},
		{"brand match case-insensitive", Filters{Brands: []string{"lg"}}, true},
		{"brand mismatch", Filters{Brands: []string{"Samsung"}}, false},
		{"condition match", Filters{Condition: ConditionNew}, true},
		{"condition mismatch", Filters{Condition: ConditionUsed}, false},
		{"category match", Filters{Categories: []Category{CategoryFridge}}, true},
		{"location substring match", Filters{Locations: []string{"santo domingo"}}, true},
		{"location mismatch", Filters{Locations: []string{"Santiago"}}, false},
		{"price in range", Filters{PriceRange: &PriceRange{Min: 10000, Max: 50000}}, true},
		{"price below min", Filters{PriceRange: &PriceRange{Min: 50000}}, false},
		{"price above max", Filters{PriceRange: &PriceRange{Min: 0, Max: 40000}}, false},
		{"unbounded max", Filters{PriceRange: &PriceRange{Min: 1000}}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := deal.Matches(tt.filters); got != tt.want {
				t.Errorf("Matches(%+v) = %v, want %v", tt.filters, got, tt.want)
			}
		})
	}
}

func TestFiltersSupportedBy(t *testing.T) {
	supported := SupportedFilters{
		Categories: Categories(),
		Brands:     []string{"Samsung", "LG", "Whirlpool"},
		Conditions: Conditions(),
		Locations:  []string{"Santo Domingo", "Santiago"},
	}

	if ok := (Filters{Brands: []string{"Samsung"}}).SupportedBy(supported); !ok {
		t.Error("supported brand rejected")
	}
	if ok := (Filters{Brands: []string{"Sony"}}).SupportedBy(supported); ok {
		t.Error("unsupported brand accepted")
	}
	if ok := (Filters{Locations: []string{"La Romana"}}).SupportedBy(supported); ok {
		t.Error("unsupported location accepted")
	}
	if ok := (Filters{}).SupportedBy(supported); !ok {
		t.Error("empty filters must always be supported")
	}
}
