package domain

// Product is a catalog item shown on the public menu.
type Product struct {
	ID          string  `json:"id"`
	Name        string  `json:"name"`
	Category    string  `json:"category"` // name of a Category (soft reference)
	Price       float64 `json:"price"`    // price in main currency units
	Description string  `json:"description"`
	ImageUrl    string  `json:"imageUrl"`
}

// Banner is a carousel slide. With IsPromotion set it is also sold as an
// item under the Promociones category.
type Banner struct {
	ID          string  `json:"id"`
	Title       string  `json:"title"`
	Subtitle    string  `json:"subtitle"`
	ImageUrl    string  `json:"imageUrl"`
	IsPromotion bool    `json:"isPromotion"`
	Price       float64 `json:"price"`
	Description string  `json:"description"`
}

// Purchasable reports whether the banner is listed as a catalog item.
func (b Banner) Purchasable() bool {
	return b.IsPromotion && b.Price > 0
}

// AsProduct presents a promotion banner as a catalog item.
func (b Banner) AsProduct() Product {
	return Product{
		ID:          b.ID,
		Name:        b.Title,
		Category:    PromotionsCategory,
		Price:       b.Price,
		Description: b.Description,
		ImageUrl:    b.ImageUrl,
	}
}

// Settings is the singleton business profile.
type Settings struct {
	BusinessName   string `json:"businessName"`
	LogoUrl        string `json:"logoUrl"`
	Slogan         string `json:"slogan"`
	WhatsappNumber string `json:"whatsappNumber"` // digits only, country code, no '+'
}
