package catalog

import "github.com/talkincode/storefront/internal/domain"

// Seed data used whenever a collection is absent or unreadable. The
// functions return fresh copies on every call.

func SeedProducts() []domain.Product {
	return []domain.Product{
		{
			ID:          "HB001",
			Name:        "Clásica Suprema",
			Category:    "Hamburguesas",
			Price:       12.99,
			Description: "Carne de res de 150g, queso cheddar, lechuga fresca, tomate, cebolla morada y nuestra salsa secreta.",
			ImageUrl:    "https://placehold.co/800x600/FBBF24/3F3F46?text=Hamburguesa",
		},
		{
			ID:          "HB002",
			Name:        "Doble Bacon BBQ",
			Category:    "Hamburguesas",
			Price:       15.99,
			Description: "Doble carne de 120g, doble queso americano, tiras de bacon crujiente, aros de cebolla y salsa BBQ.",
			ImageUrl:    "https://placehold.co/800x600/F59E0B/3F3F46?text=Hamburguesa+BBQ",
		},
		{
			ID:          "BE001",
			Name:        "Malteada de Vainilla",
			Category:    "Bebidas",
			Price:       6.0,
			Description: "Clásica y cremosa malteada preparada con helado de vainilla premium.",
			ImageUrl:    "https://placehold.co/800x600/A78BFA/3F3F46?text=Malteada",
		},
	}
}

func SeedCategories() []domain.Category {
	return []domain.Category{
		promotionsSeed(),
		{ID: "cat-hamburguesas", Name: "Hamburguesas", Icon: domain.IconUtensils},
		{ID: "cat-bebidas", Name: "Bebidas", Icon: domain.IconCupSoda},
		{ID: "cat-postres", Name: "Postres", Icon: domain.IconCake},
	}
}

func promotionsSeed() domain.Category {
	return domain.Category{ID: "cat-promo", Name: domain.PromotionsCategory, Icon: domain.IconStar}
}

func SeedBanners() []domain.Banner {
	return []domain.Banner{
		{
			ID:          "PROMO-1687530000",
			Title:       "¡Combo del Día!",
			Subtitle:    "Hamburguesa Clásica + Papas + Bebida por solo $18.99",
			ImageUrl:    "https://placehold.co/1200x400/38B2AC/FFFFFF?text=Promo+del+D%C3%ADa",
			IsPromotion: true,
			Price:       18.99,
			Description: "Aprovecha nuestra oferta especial: Hamburguesa Clásica, papas fritas y una bebida refrescante a un precio increíble.",
		},
	}
}

func SeedSettings() domain.Settings {
	return domain.Settings{
		BusinessName:   "Mi Negocio",
		LogoUrl:        "https://placehold.co/200x80/14B8A6/FFFFFF?text=Mi+Logo",
		Slogan:         "Sabor que inspira momentos.",
		WhatsappNumber: "1234567890",
	}
}
