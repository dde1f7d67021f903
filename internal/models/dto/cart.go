package dto

// CartActionRequest is the single cart mutation payload:
// action selects the operation, quantity is ignored for remove/clear.
type CartActionRequest struct {
	Action    string `json:"action"`
	ProductID int64  `json:"product_id"`
	Quantity  int    `json:"quantity"`
}

type CartActionResponse struct {
	CartCount int `json:"cart_count"`
}

type CartLine struct {
	ProductID int64   `json:"product_id"`
	Name      string  `json:"name"`
	Image     string  `json:"image"`
	Price     float64 `json:"price"`
	Quantity  int     `json:"quantity"`
	LineTotal float64 `json:"line_total"`
}

type CartView struct {
	Items     []CartLine `json:"items"`
	CartCount int        `json:"cart_count"`
	Subtotal  float64    `json:"subtotal"`
	Shipping  float64    `json:"shipping"`
	Total     float64    `json:"total"`
}
