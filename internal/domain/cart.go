package domain

// CartLine is one slot of the in-memory cart.
type CartLine struct {
	Key        int64   `json:"key"` // slot key, unique within a cart
	ProductRef string  `json:"productRef"`
	Name       string  `json:"name"`
	Price      float64 `json:"price"`
	ImageUrl   string  `json:"imageUrl"`
	Quantity   int     `json:"quantity"`
	Note       string  `json:"note"`
}

// Subtotal is price times quantity, unrounded.
func (l CartLine) Subtotal() float64 {
	return l.Price * float64(l.Quantity)
}
