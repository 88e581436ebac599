// internal/service/catalog/interfaces/http_handler.go
package interfaces

import (
	"encoding/json"
	"net/http"

	"garde/internal/service/catalog/application"
	"garde/internal/service/catalog/domain"

	"github.com/pkg/errors"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/propagation"
)

type CatalogHandler struct {
	service *application.CatalogService
}

func NewCatalogHandler(service *application.CatalogService) *CatalogHandler {
	return &CatalogHandler{service: service}
}

func (h *CatalogHandler) RegisterRoutes(mux *http.ServeMux) {
	mux.HandleFunc("/products", h.handleListProducts)
	mux.HandleFunc("/get_product", h.handleGetProduct)
	mux.HandleFunc("POST /save_request", h.handleSaveRequest)
}

type productView struct {
	ProductID     string `json:"product_id"`
	Name          string `json:"name"`
	Price         string `json:"price"`
	OriginalPrice string `json:"original_price"`
	Stock         int    `json:"stock"`
	ImageURL      string `json:"image_url"`
	Category      string `json:"category"`
	Brand         string `json:"brand"`
	Description   string `json:"description"`
	Benefits      string `json:"benefits"`
}

func toProductView(p *domain.Product) productView {
	return productView{
		ProductID:     p.ProductID,
		Name:          p.Name,
		Price:         p.Price.StringFixed(2),
		OriginalPrice: p.OriginalPrice.StringFixed(2),
		Stock:         p.Stock,
		ImageURL:      p.ImageURL,
		Category:      p.Category,
		Brand:         p.Brand,
		Description:   p.Description,
		Benefits:      p.Benefits,
	}
}

func (h *CatalogHandler) handleListProducts(w http.ResponseWriter, r *http.Request) {
	ctx := otel.GetTextMapPropagator().Extract(r.Context(), propagation.HeaderCarrier(r.Header))

	products, err := h.service.ListProducts(ctx, r.URL.Query().Get("category"))
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	views := make([]productView, 0, len(products))
	for i := range products {
		views = append(views, toProductView(&products[i]))
	}
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(views)
}

type getProductRequest struct {
	ProductID string `json:"product_id"`
}

func (h *CatalogHandler) handleGetProduct(w http.ResponseWriter, r *http.Request) {
	ctx := otel.GetTextMapPropagator().Extract(r.Context(), propagation.HeaderCarrier(r.Header))

	var req getProductRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.ProductID == "" {
		http.Error(w, "invalid request body", http.StatusBadRequest)
		return
	}

	product, err := h.service.GetProduct(ctx, req.ProductID)
	if err != nil {
		if errors.Is(err, domain.ErrProductNotFound) {
			http.Error(w, err.Error(), http.StatusNotFound)
			return
		}
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(toProductView(product))
}

type saveRequestRequest struct {
	ProductName string `json:"product_name"`
	Details     string `json:"details"`
}

func (h *CatalogHandler) handleSaveRequest(w http.ResponseWriter, r *http.Request) {
	ctx := otel.GetTextMapPropagator().Extract(r.Context(), propagation.HeaderCarrier(r.Header))

	var req saveRequestRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid request body", http.StatusBadRequest)
		return
	}

	if err := h.service.SaveRequest(ctx, req.ProductName, req.Details); err != nil {
		if errors.Is(err, domain.ErrMissingRequestName) {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]string{"message": "Request saved successfully"})
}
