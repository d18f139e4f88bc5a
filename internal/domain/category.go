package domain

// PromotionsCategory is the protected system category. It cannot be deleted
// and is not offered in the product category picker.
const PromotionsCategory = "Promociones"

// AllCategories is the pseudo category used by the public menu filter.
const AllCategories = "Todos"

type Category struct {
	ID   string `json:"id"`
	Name string `json:"name"`
	Icon Icon   `json:"icon"`
}

// Protected reports whether the category is the system promotions category.
func (c Category) Protected() bool {
	return c.Name == PromotionsCategory
}
