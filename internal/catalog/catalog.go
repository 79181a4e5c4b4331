// Package catalog provides the embedded game commodity catalog and localized
// product names.
package catalog

import (
	_ "embed"
	"encoding/json"
	"fmt"

	"golang.org/x/text/language"
)

//go:embed catalog.json
var catalogJSON []byte

// Product is one game commodity the player can stock and sell.
type Product struct {
	ID                         string  `json:"id"`
	NameEN                     string  `json:"nameEn"`
	NameES                     string  `json:"nameEs"`
	DefaultMaxPricePerThousand float64 `json:"defaultMaxPricePerThousand"`
}

// Catalog holds the full product catalog with name localization.
type Catalog struct {
	products map[string]Product
	matcher  language.Matcher
}

var supportedLanguages = []language.Tag{
	language.English, // fallback
	language.Spanish,
}

// Load parses the embedded catalog.
func Load() (*Catalog, error) {
	var payload struct {
		Products []Product `json:"products"`
	}
	if err := json.Unmarshal(catalogJSON, &payload); err != nil {
		return nil, fmt.Errorf("failed to parse embedded catalog: %w", err)
	}

	products := make(map[string]Product, len(payload.Products))
	for _, p := range payload.Products {
		products[p.ID] = p
	}
	return &Catalog{
		products: products,
		matcher:  language.NewMatcher(supportedLanguages),
	}, nil
}

// Get returns the catalog product for an id.
func (c *Catalog) Get(id string) (Product, bool) {
	p, ok := c.products[id]
	return p, ok
}

// Len returns the number of catalogued products.
func (c *Catalog) Len() int {
	return len(c.products)
}

// IDs returns all product ids (unordered).
func (c *Catalog) IDs() []string {
	ids := make([]string, 0, len(c.products))
	for id := range c.products {
		ids = append(ids, id)
	}
	return ids
}

// Name returns the product's display name in the closest supported language
// to locale. Unknown ids render as the raw id so a stale state file still
// produces a usable report.
func (c *Catalog) Name(id, locale string) string {
	p, ok := c.products[id]
	if !ok {
		return id
	}
	tag, _ := language.MatchStrings(c.matcher, locale)
	if base, _ := tag.Base(); base.String() == "es" {
		return p.NameES
	}
	return p.NameEN
}
