package types

// Product is the wire shape of a catalog entry.
type Product struct {
	ID          string   `json:"id"`
	Name        string   `json:"name"`
	Description string   `json:"description"`
	Price       float64  `json:"price"`
	PriceSale   *float64 `json:"priceSale"`
	ImageURL    *string  `json:"imageUrl"`
}

// CartLine is a stored item joined with its product's current fields.
type CartLine struct {
	ID        string  `json:"id"`
	ProductID string  `json:"productId"`
	Name      string  `json:"name"`
	Price     float64 `json:"price"`
	ImageURL  *string `json:"imageUrl"`
	Quantity  int     `json:"quantity"`
}

// Cart is the aggregated cart returned by every cart endpoint.
type Cart struct {
	ID        string     `json:"id"`
	UserID    string     `json:"userId"`
	Items     []CartLine `json:"items"`
	Total     float64    `json:"total"`
	ItemCount int        `json:"itemCount"`
}

// EmptyCart is the zero-value aggregate used before the first fetch.
func EmptyCart() Cart {
	return Cart{Items: []CartLine{}}
}
