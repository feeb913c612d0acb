package httpapi

import (
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/shopspring/decimal"

	"goflare.io/atelier/checkout"
	"goflare.io/atelier/models"
)

type CartResponse struct {
	Items      []models.CartLine `json:"items"`
	TotalItems int               `json:"total_items"`
	TotalPrice decimal.Decimal   `json:"total_price"`
}

func newCartResponse(cart models.Cart) CartResponse {
	items := cart.Lines
	if items == nil {
		items = []models.CartLine{}
	}
	return CartResponse{
		Items:      items,
		TotalItems: cart.TotalItems(),
		TotalPrice: cart.TotalPrice(),
	}
}

type AddItemRequest struct {
	ProductID string `json:"product_id"`
}

type CustomPieceRequest struct {
	Title       string          `json:"title"`
	Description string          `json:"description"`
	Price       decimal.Decimal `json:"price"`
}

type UpdateQuantityRequest struct {
	Quantity *int `json:"quantity"`
}

func (h *handler) listProducts(w http.ResponseWriter, r *http.Request) {
	products, err := h.svc.ListProducts(r.Context())
	if err != nil {
		h.handleServiceError(w, r, err)
		return
	}
	if products == nil {
		products = []*models.Product{}
	}
	respondJSON(w, http.StatusOK, products)
}

func (h *handler) getProduct(w http.ResponseWriter, r *http.Request) {
	product, err := h.svc.GetProduct(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		h.handleServiceError(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, product)
}

func (h *handler) listTestimonials(w http.ResponseWriter, r *http.Request) {
	testimonials, err := h.svc.ListTestimonials(r.Context())
	if err != nil {
		h.handleServiceError(w, r, err)
		return
	}
	if testimonials == nil {
		testimonials = []*models.Testimonial{}
	}
	respondJSON(w, http.StatusOK, testimonials)
}

func (h *handler) getCart(w http.ResponseWriter, r *http.Request) {
	cart := h.svc.GetCart(r.Context(), sessionFromContext(r.Context()))
	respondJSON(w, http.StatusOK, newCartResponse(cart))
}

func (h *handler) addItem(w http.ResponseWriter, r *http.Request) {
	var req AddItemRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	if req.ProductID == "" {
		respondError(w, http.StatusBadRequest, "invalid_product_id", "product_id is required")
		return
	}

	cart, err := h.svc.AddToCart(r.Context(), sessionFromContext(r.Context()), req.ProductID)
	if err != nil {
		h.handleServiceError(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, newCartResponse(cart))
}

func (h *handler) addCustomPiece(w http.ResponseWriter, r *http.Request) {
	var req CustomPieceRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	cart, err := h.svc.AddCustomPiece(r.Context(), sessionFromContext(r.Context()), req.Title, req.Description, req.Price)
	if err != nil {
		h.handleServiceError(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, newCartResponse(cart))
}

func (h *handler) updateQuantity(w http.ResponseWriter, r *http.Request) {
	var req UpdateQuantityRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	if req.Quantity == nil {
		respondError(w, http.StatusBadRequest, "invalid_quantity", "quantity is required")
		return
	}

	cart := h.svc.UpdateCartQuantity(r.Context(), sessionFromContext(r.Context()), chi.URLParam(r, "product_id"), *req.Quantity)
	respondJSON(w, http.StatusOK, newCartResponse(cart))
}

func (h *handler) removeItem(w http.ResponseWriter, r *http.Request) {
	cart := h.svc.RemoveFromCart(r.Context(), sessionFromContext(r.Context()), chi.URLParam(r, "product_id"))
	respondJSON(w, http.StatusOK, newCartResponse(cart))
}

func (h *handler) clearCart(w http.ResponseWriter, r *http.Request) {
	cart := h.svc.ClearCart(r.Context(), sessionFromContext(r.Context()))
	respondJSON(w, http.StatusOK, newCartResponse(cart))
}

func (h *handler) checkout(w http.ResponseWriter, r *http.Request) {
	var customer checkout.Customer
	if !decodeJSON(w, r, &customer) {
		return
	}

	order, err := h.svc.Checkout(r.Context(), sessionFromContext(r.Context()), customer)
	if err != nil {
		var validation *checkout.ValidationError
		if errors.As(err, &validation) {
			h.observeCheckout("invalid")
		} else {
			h.observeCheckout("failed")
		}
		h.handleServiceError(w, r, err)
		return
	}

	h.observeCheckout("placed")
	respondJSON(w, http.StatusCreated, order)
}

func (h *handler) observeCheckout(result string) {
	if h.metrics != nil {
		h.metrics.ObserveCheckout(result)
	}
}

func (h *handler) signOut(w http.ResponseWriter, r *http.Request) {
	h.svc.SignOut(r.Context(), sessionFromContext(r.Context()))

	http.SetCookie(w, &http.Cookie{
		Name:     SessionCookie,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
	w.WriteHeader(http.StatusNoContent)
}
