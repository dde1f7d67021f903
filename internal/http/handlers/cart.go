package handlers

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/reliwe/storefront/internal/cart"
	"github.com/reliwe/storefront/internal/http/respond"
	"github.com/reliwe/storefront/internal/logging"
	"github.com/reliwe/storefront/internal/middleware"
	"github.com/reliwe/storefront/internal/models/dto"
)

// Cart actions accepted by the mutation endpoint.
const (
	cartActionAdd    = "add"
	cartActionUpdate = "update"
	cartActionRemove = "remove"
	cartActionClear  = "clear"
)

// CartHandler exposes the session cart. The cart works for anonymous
// visitors too; only the session cookie is required.
type CartHandler struct {
	catalog cart.Catalog
	logger  logging.Logger
}

// NewCartHandler constructs the handler.
func NewCartHandler(catalog cart.Catalog, logger logging.Logger) *CartHandler {
	return &CartHandler{catalog: catalog, logger: logger}
}

// Register attaches cart routes to the mux.
func (h *CartHandler) Register(mux *http.ServeMux) {
	mux.HandleFunc("POST /cart", h.handleAction)
	mux.HandleFunc("GET /cart", h.handleView)
}

func (h *CartHandler) handleAction(w http.ResponseWriter, r *http.Request) {
	sess, ok := middleware.SessionFrom(r)
	if !ok {
		respond.Error(w, http.StatusInternalServerError, "no session")
		return
	}

	var req dto.CartActionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respond.Error(w, http.StatusBadRequest, "invalid JSON payload")
		return
	}

	c := sess.Cart()
	switch req.Action {
	case cartActionAdd:
		qty := req.Quantity
		if qty == 0 {
			qty = 1
		}
		if err := c.Add(req.ProductID, qty); err != nil {
			if errors.Is(err, cart.ErrInvalidQuantity) {
				respond.Error(w, http.StatusBadRequest, err.Error())
				return
			}
			respond.Error(w, http.StatusInternalServerError, "cart update failed")
			return
		}
	case cartActionUpdate:
		c.SetQuantity(req.ProductID, req.Quantity)
	case cartActionRemove:
		c.Remove(req.ProductID)
	case cartActionClear:
		c.Clear()
	default:
		respond.Error(w, http.StatusBadRequest, "unknown cart action")
		return
	}

	respond.JSON(w, http.StatusOK, "Cart updated", dto.CartActionResponse{CartCount: c.Count()})
}

func (h *CartHandler) handleView(w http.ResponseWriter, r *http.Request) {
	sess, ok := middleware.SessionFrom(r)
	if !ok {
		respond.Error(w, http.StatusInternalServerError, "no session")
		return
	}

	sum, err := sess.Cart().Totals(r.Context(), h.catalog)
	if err != nil {
		h.logger.Error(r.Context(), "price cart", "error", err)
		respond.Error(w, http.StatusInternalServerError, "failed to load cart")
		return
	}

	view := dto.CartView{
		Items:     make([]dto.CartLine, 0, len(sum.Lines)),
		CartCount: sess.Cart().Count(),
		Subtotal:  sum.Subtotal,
		Shipping:  sum.Shipping,
		Total:     sum.Total,
	}
	for _, line := range sum.Lines {
		view.Items = append(view.Items, dto.CartLine{
			ProductID: line.Product.ID,
			Name:      line.Product.Name,
			Image:     line.Product.Image,
			Price:     line.Product.Price,
			Quantity:  line.Quantity,
			LineTotal: line.LineTotal,
		})
	}
	respond.JSON(w, http.StatusOK, "cart", view)
}
