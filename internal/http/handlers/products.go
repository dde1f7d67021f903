package handlers

import (
	"net/http"

	"github.com/reliwe/storefront/internal/http/respond"
	"github.com/reliwe/storefront/internal/logging"
	"github.com/reliwe/storefront/internal/storage"
)

// ProductsHandler serves the active product listing the shop pages
// render from.
type ProductsHandler struct {
	products storage.ProductStore
	logger   logging.Logger
}

// NewProductsHandler constructs the handler.
func NewProductsHandler(products storage.ProductStore, logger logging.Logger) *ProductsHandler {
	return &ProductsHandler{products: products, logger: logger}
}

// Register attaches the product routes.
func (h *ProductsHandler) Register(mux *http.ServeMux) {
	mux.HandleFunc("GET /products", h.handleList)
}

func (h *ProductsHandler) handleList(w http.ResponseWriter, r *http.Request) {
	products, err := h.products.ListActive(r.Context())
	if err != nil {
		h.logger.Error(r.Context(), "list products", "error", err)
		respond.Error(w, http.StatusInternalServerError, "failed to load products")
		return
	}
	respond.JSON(w, http.StatusOK, "products", products)
}
