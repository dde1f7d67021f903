package models

// ProductStatus marks whether a product is sellable.
type ProductStatus string

const (
	ProductActive   ProductStatus = "active"
	ProductInactive ProductStatus = "inactive"
)

// Product is the catalog view this service needs: enough to render a
// cart line and price it.
type Product struct {
	ID     int64         `json:"id"`
	Name   string        `json:"name"`
	Price  float64       `json:"price"`
	Image  string        `json:"image"`
	Status ProductStatus `json:"status"`
}
