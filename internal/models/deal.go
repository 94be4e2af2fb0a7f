package models

import (
	"fmt"
	"strings"
	"time"
)

type Category string

const (
	CategoryTV             Category = "TV"
	CategoryPhone          Category = "Phone"
	CategoryLaptop         Category = "Laptop"
	CategoryFridge         Category = "Fridge"
	CategoryWashingMachine Category = "Washing Machine"
	CategoryAirConditioner Category = "Air Conditioner"
	CategoryMicrowave      Category = "Microwave"
	CategoryStove          Category = "Stove"
)

func Categories() []Category {
	return []Category{
		CategoryTV, CategoryPhone, CategoryLaptop, CategoryFridge,
		CategoryWashingMachine, CategoryAirConditioner, CategoryMicrowave, CategoryStove,
	}
}

// CategoryFromString maps common English and Spanish variants onto a category.
func CategoryFromString(value string) (Category, bool) {
	value = strings.ToLower(strings.TrimSpace(value))
	variants := map[string]Category{
		"television":         CategoryTV,
		"televisor":          CategoryTV,
		"smartphone":         CategoryPhone,
		"mobile":             CategoryPhone,
		"celular":            CategoryPhone,
		"notebook":           CategoryLaptop,
		"computadora":        CategoryLaptop,
		"refrigerator":       CategoryFridge,
		"nevera":             CategoryFridge,
		"refrigerador":       CategoryFridge,
		"lavadora":           CategoryWashingMachine,
		"aire acondicionado": CategoryAirConditioner,
		"microondas":         CategoryMicrowave,
		"estufa":             CategoryStove,
	}
	if c, ok := variants[value]; ok {
		return c, true
	}
	for _, c := range Categories() {
		if strings.ToLower(string(c)) == value {
			return c, true
		}
	}
	return "", false
}

type Condition string

const (
	ConditionNew         Condition = "New"
	ConditionUsed        Condition = "Used"
	ConditionRefurbished Condition = "Refurbished"
)

func Conditions() []Condition {
	return []Condition{ConditionNew, ConditionUsed, ConditionRefurbished}
}

func ConditionFromString(value string) (Condition, bool) {
	value = strings.ToLower(strings.TrimSpace(value))
	variants := map[string]Condition{
		"nuevo":           ConditionNew,
		"usado":           ConditionUsed,
		"reacondicionado": ConditionRefurbished,
	}
	if c, ok := variants[value]; ok {
		return c, true
	}
	for _, c := range Conditions() {
		if strings.ToLower(string(c)) == value {
			return c, true
		}
	}
	return "", false
}

// Deal is one scraped offer. Validation is best-effort: downstream consumers
// get plain data, not guarantees about the page it came from.
type Deal struct {
	Title          string            `json:"title"`
	Price          float64           `json:"price"`
	OriginalPrice  float64           `json:"original_price,omitempty"`
	Currency       string            `json:"currency"`
	Category       Category          `json:"category"`
	Brand          string            `json:"brand"`
	Condition      Condition         `json:"condition"`
	Location       string            `json:"location"`
	URL            string            `json:"url"`
	ImageURL       string            `json:"image_url,omitempty"`
	Description    string            `json:"description,omitempty"`
	Specifications map[string]string `json:"specifications,omitempty"`
	Features       []string          `json:"features,omitempty"`
	Availability   bool              `json:"availability"`
	Seller         string            `json:"seller,omitempty"`
	Rating         float64           `json:"rating,omitempty"`
	ReviewCount    int               `json:"review_count,omitempty"`
	ScrapedAt      time.Time         `json:"scraped_at"`
}

func NewDeal() *Deal {
	return &Deal{
		Currency:       "DOP",
		Availability:   true,
		Specifications: make(map[string]string),
		ScrapedAt:      time.Now().UTC(),
	}
}

func (d *Deal) Validate() error {
	if d.Title == "" {
		return fmt.Errorf("title is required")
	}
	if d.Price < 0 {
		return fmt.Errorf("price cannot be negative")
	}
	if d.OriginalPrice < 0 {
		return fmt.Errorf("original price cannot be negative")
	}
	if d.URL == "" {
		return fmt.Errorf("url is required")
	}
	return nil
}

// SearchText flattens the deal into lowercased text for the search index.
func (d *Deal) SearchText() string {
	parts := []string{
		d.Title,
		d.Brand,
		string(d.Category),
		string(d.Condition),
		d.Location,
		d.Description,
	}
	parts = append(parts, d.Features...)
	for k, v := range d.Specifications {
		parts = append(parts, fmt.Sprintf("%s: %s", k, v))
	}

	nonEmpty := parts[:0]
	for _, p := range parts {
		if p != "" {
			nonEmpty = append(nonEmpty, p)
		}
	}
	return strings.ToLower(strings.Join(nonEmpty, " "))
}
