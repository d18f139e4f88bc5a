// Package storefront derives what the public menu shows from the catalog.
package storefront

import (
	"strings"

	"github.com/talkincode/storefront/internal/domain"
)

// AllCategoryID identifies the pseudo category that lists every item.
const AllCategoryID = "all"

// DisplayItems lists purchasable promotions first, then the products.
func DisplayItems(products []domain.Product, banners []domain.Banner) []domain.Product {
	items := make([]domain.Product, 0, len(products)+len(banners))
	for _, b := range banners {
		if b.Purchasable() {
			items = append(items, b.AsProduct())
		}
	}
	return append(items, products...)
}

// Filter keeps the items of category (AllCategories matches everything)
// whose name or description contains search, ignoring case.
func Filter(items []domain.Product, category, search string) []domain.Product {
	if category == "" {
		category = domain.AllCategories
	}
	needle := strings.ToLower(strings.TrimSpace(search))
	out := make([]domain.Product, 0, len(items))
	for _, it := range items {
		if category != domain.AllCategories && it.Category != category {
			continue
		}
		if needle != "" &&
			!strings.Contains(strings.ToLower(it.Name), needle) &&
			!strings.Contains(strings.ToLower(it.Description), needle) {
			continue
		}
		out = append(out, it)
	}
	return out
}

// DisplayCategories is the menu tab list: "Todos" first, then the catalog
// categories that currently have items, in catalog order.
func DisplayCategories(categories []domain.Category, items []domain.Product) []domain.Category {
	used := make(map[string]bool, len(items))
	for _, it := range items {
		used[it.Category] = true
	}
	out := []domain.Category{{ID: AllCategoryID, Name: domain.AllCategories, Icon: domain.IconHome}}
	for _, c := range categories {
		if used[c.Name] {
			out = append(out, c)
		}
	}
	return out
}

// CartBadge is the number shown on the cart button.
func CartBadge(lines []domain.CartLine) int {
	n := 0
	for _, l := range lines {
		n += l.Quantity
	}
	return n
}

// ProductCategoryChoices lists the categories a product may be filed under.
func ProductCategoryChoices(categories []domain.Category) []domain.Category {
	out := make([]domain.Category, 0, len(categories))
	for _, c := range categories {
		if !c.Protected() {
			out = append(out, c)
		}
	}
	return out
}

// DefaultProductCategory is the category preselected in an empty product
// form.
func DefaultProductCategory(categories []domain.Category) string {
	if choices := ProductCategoryChoices(categories); len(choices) > 0 {
		return choices[0].Name
	}
	return ""
}

// Page is everything the home view renders.
type Page struct {
	Settings   domain.Settings   `json:"settings"`
	Categories []domain.Category `json:"categories"`
	Items      []domain.Product  `json:"items"`
	Banners    []domain.Banner   `json:"banners"`
	Banner     int               `json:"bannerIndex"`
	CartCount  int               `json:"cartCount"`
	Category   string            `json:"category"`
	Search     string            `json:"search"`
}
