package httpapi

import (
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"

	"goflare.io/atelier/models"
	"goflare.io/atelier/models/enum"
	"goflare.io/atelier/order"
)

const dateLayout = "2006-01-02"

type EmailTemplateRequest struct {
	Subject     string `json:"subject"`
	HTMLContent string `json:"html_content"`
}

func (h *handler) adminListProducts(w http.ResponseWriter, r *http.Request) {
	products, err := h.svc.ListAllProducts(r.Context())
	if err != nil {
		h.handleServiceError(w, r, err)
		return
	}
	if products == nil {
		products = []*models.Product{}
	}
	respondJSON(w, http.StatusOK, products)
}

func (h *handler) adminCreateProduct(w http.ResponseWriter, r *http.Request) {
	var product models.Product
	if !decodeJSON(w, r, &product) {
		return
	}
	if err := h.svc.CreateProduct(r.Context(), &product); err != nil {
		h.handleServiceError(w, r, err)
		return
	}
	respondJSON(w, http.StatusCreated, product)
}

func (h *handler) adminUpdateProduct(w http.ResponseWriter, r *http.Request) {
	var product models.Product
	if !decodeJSON(w, r, &product) {
		return
	}
	product.ID = chi.URLParam(r, "id")
	if err := h.svc.UpdateProduct(r.Context(), &product); err != nil {
		h.handleServiceError(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, product)
}

func (h *handler) adminDeleteProduct(w http.ResponseWriter, r *http.Request) {
	if err := h.svc.DeleteProduct(r.Context(), chi.URLParam(r, "id")); err != nil {
		h.handleServiceError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *handler) adminToggleProduct(w http.ResponseWriter, r *http.Request) {
	product, err := h.svc.ToggleProduct(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		h.handleServiceError(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, product)
}

func (h *handler) adminListTestimonials(w http.ResponseWriter, r *http.Request) {
	testimonials, err := h.svc.ListAllTestimonials(r.Context())
	if err != nil {
		h.handleServiceError(w, r, err)
		return
	}
	if testimonials == nil {
		testimonials = []*models.Testimonial{}
	}
	respondJSON(w, http.StatusOK, testimonials)
}

func (h *handler) adminCreateTestimonial(w http.ResponseWriter, r *http.Request) {
	var t models.Testimonial
	if !decodeJSON(w, r, &t) {
		return
	}
	if err := h.svc.CreateTestimonial(r.Context(), &t); err != nil {
		h.handleServiceError(w, r, err)
		return
	}
	respondJSON(w, http.StatusCreated, t)
}

func (h *handler) adminUpdateTestimonial(w http.ResponseWriter, r *http.Request) {
	var t models.Testimonial
	if !decodeJSON(w, r, &t) {
		return
	}
	t.ID = chi.URLParam(r, "id")
	if err := h.svc.UpdateTestimonial(r.Context(), &t); err != nil {
		h.handleServiceError(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, t)
}

func (h *handler) adminDeleteTestimonial(w http.ResponseWriter, r *http.Request) {
	if err := h.svc.DeleteTestimonial(r.Context(), chi.URLParam(r, "id")); err != nil {
		h.handleServiceError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *handler) adminToggleTestimonial(w http.ResponseWriter, r *http.Request) {
	t, err := h.svc.ToggleTestimonial(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		h.handleServiceError(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, t)
}

func (h *handler) adminListEmailTemplates(w http.ResponseWriter, r *http.Request) {
	templates, err := h.svc.ListEmailTemplates(r.Context())
	if err != nil {
		h.handleServiceError(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, templates)
}

func (h *handler) adminUpdateEmailTemplate(w http.ResponseWriter, r *http.Request) {
	var req EmailTemplateRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	template := &models.EmailTemplate{
		Type:        enum.EmailTemplateType(chi.URLParam(r, "type")),
		Subject:     req.Subject,
		HTMLContent: req.HTMLContent,
	}
	if err := h.svc.UpdateEmailTemplate(r.Context(), template); err != nil {
		h.handleServiceError(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, template)
}

func (h *handler) adminDashboard(w http.ResponseWriter, r *http.Request) {
	filter, err := parseListFilter(r)
	if err != nil {
		respondError(w, http.StatusBadRequest, "invalid_filter", err.Error())
		return
	}

	dashboard, err := h.svc.Dashboard(r.Context(), filter)
	if err != nil {
		h.handleServiceError(w, r, err)
		return
	}
	if dashboard.Orders == nil {
		dashboard.Orders = []*models.Order{}
	}
	if dashboard.Products == nil {
		dashboard.Products = []order.ProductSales{}
	}
	respondJSON(w, http.StatusOK, dashboard)
}

// parseListFilter reads from, to (YYYY-MM-DD), limit and offset from the
// query string. Missing values leave the filter open.
func parseListFilter(r *http.Request) (order.ListFilter, error) {
	var filter order.ListFilter
	q := r.URL.Query()

	for _, p := range []struct {
		name string
		dst  *time.Time
	}{{"from", &filter.From}, {"to", &filter.To}} {
		raw := q.Get(p.name)
		if raw == "" {
			continue
		}
		t, err := time.Parse(dateLayout, raw)
		if err != nil {
			return order.ListFilter{}, errInvalidParam(p.name, "a date formatted as YYYY-MM-DD")
		}
		*p.dst = t
	}

	for _, p := range []struct {
		name string
		dst  *int
	}{{"limit", &filter.Limit}, {"offset", &filter.Offset}} {
		raw := q.Get(p.name)
		if raw == "" {
			continue
		}
		n, err := strconv.Atoi(raw)
		if err != nil || n < 0 {
			return order.ListFilter{}, errInvalidParam(p.name, "a non-negative integer")
		}
		*p.dst = n
	}

	if !filter.From.IsZero() && !filter.To.IsZero() && filter.To.Before(filter.From) {
		return order.ListFilter{}, errInvalidParam("to", "on or after from")
	}
	return filter, nil
}

func errInvalidParam(name, want string) error {
	return fmt.Errorf("%s must be %s", name, want)
}
