// internal/service/cart/interfaces/http_handler.go
package interfaces

import (
	"encoding/json"
	"net/http"

	"garde/internal/service/cart/application"
	"garde/internal/service/cart/domain"

	"github.com/pkg/errors"
	"github.com/shopspring/decimal"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/propagation"
)

// CartHandler 封装了 cart 服务的 HTTP 处理器。
type CartHandler struct {
	service *application.CartService
}

func NewCartHandler(service *application.CartService) *CartHandler {
	return &CartHandler{service: service}
}

// RegisterRoutes 在 ServeMux 上注册所有路由。
func (h *CartHandler) RegisterRoutes(mux *http.ServeMux) {
	mux.HandleFunc("/cart", h.handleGetCart)
	mux.HandleFunc("/cart/items", h.handleAddItem)
	mux.HandleFunc("/cart/items/update", h.handleUpdateQuantity)
	mux.HandleFunc("/cart/items/remove", h.handleRemoveItem)
	mux.HandleFunc("/cart/clear", h.handleClear)
}

// sessionRef 从请求头里解析会话：带 X-User-ID 的走登录用户车，
// 否则用 X-Session-ID 的游客车。
func sessionRef(r *http.Request) (application.SessionRef, bool) {
	if userID := r.Header.Get("X-User-ID"); userID != "" {
		return application.SessionRef{ID: userID, Authenticated: true}, true
	}
	if sessionID := r.Header.Get("X-Session-ID"); sessionID != "" {
		return application.SessionRef{ID: sessionID}, true
	}
	return application.SessionRef{}, false
}

// cartView 是对外的购物车表示，金额在这一层才舍入到两位。
type cartView struct {
	Items     []lineItemView `json:"items"`
	Subtotal  string         `json:"subtotal"`
	ItemCount int            `json:"item_count"`
}

type lineItemView struct {
	ProductID string `json:"product_id"`
	Name      string `json:"name"`
	UnitPrice string `json:"unit_price"`
	LineTotal string `json:"line_total"`
	ImageURL  string `json:"image_url"`
	Quantity  int    `json:"quantity"`
}

func toCartView(cart *domain.Cart) cartView {
	view := cartView{
		Items:     make([]lineItemView, 0, len(cart.Items)),
		Subtotal:  cart.Subtotal().StringFixed(2),
		ItemCount: cart.ItemCount(),
	}
	for _, item := range cart.Items {
		view.Items = append(view.Items, lineItemView{
			ProductID: item.ProductID,
			Name:      item.Name,
			UnitPrice: item.UnitPrice.StringFixed(2),
			LineTotal: item.UnitPrice.Mul(decimal.NewFromInt(int64(item.Quantity))).StringFixed(2),
			ImageURL:  item.ImageURL,
			Quantity:  item.Quantity,
		})
	}
	return view
}

func (h *CartHandler) handleGetCart(w http.ResponseWriter, r *http.Request) {
	ctx := otel.GetTextMapPropagator().Extract(r.Context(), propagation.HeaderCarrier(r.Header))

	ref, ok := sessionRef(r)
	if !ok {
		http.Error(w, "missing session", http.StatusBadRequest)
		return
	}

	cart, err := h.service.GetCart(ctx, ref)
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	writeJSON(w, toCartView(cart))
}

type itemRequest struct {
	ProductID string `json:"product_id"`
	Quantity  int    `json:"quantity"`
}

func (h *CartHandler) handleAddItem(w http.ResponseWriter, r *http.Request) {
	ctx := otel.GetTextMapPropagator().Extract(r.Context(), propagation.HeaderCarrier(r.Header))

	ref, ok := sessionRef(r)
	if !ok {
		http.Error(w, "missing session", http.StatusBadRequest)
		return
	}
	var req itemRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.ProductID == "" {
		http.Error(w, "invalid request body", http.StatusBadRequest)
		return
	}

	cart, err := h.service.AddItem(ctx, ref, req.ProductID, req.Quantity)
	if err != nil {
		if errors.Is(err, application.ErrProductNotFound) {
			http.Error(w, err.Error(), http.StatusNotFound)
			return
		}
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	writeJSON(w, toCartView(cart))
}

func (h *CartHandler) handleUpdateQuantity(w http.ResponseWriter, r *http.Request) {
	ctx := otel.GetTextMapPropagator().Extract(r.Context(), propagation.HeaderCarrier(r.Header))

	ref, ok := sessionRef(r)
	if !ok {
		http.Error(w, "missing session", http.StatusBadRequest)
		return
	}
	var req itemRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.ProductID == "" {
		http.Error(w, "invalid request body", http.StatusBadRequest)
		return
	}

	cart, err := h.service.UpdateQuantity(ctx, ref, req.ProductID, req.Quantity)
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	writeJSON(w, toCartView(cart))
}

func (h *CartHandler) handleRemoveItem(w http.ResponseWriter, r *http.Request) {
	ctx := otel.GetTextMapPropagator().Extract(r.Context(), propagation.HeaderCarrier(r.Header))

	ref, ok := sessionRef(r)
	if !ok {
		http.Error(w, "missing session", http.StatusBadRequest)
		return
	}
	var req itemRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.ProductID == "" {
		http.Error(w, "invalid request body", http.StatusBadRequest)
		return
	}

	cart, err := h.service.RemoveItem(ctx, ref, req.ProductID)
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	writeJSON(w, toCartView(cart))
}

func (h *CartHandler) handleClear(w http.ResponseWriter, r *http.Request) {
	ctx := otel.GetTextMapPropagator().Extract(r.Context(), propagation.HeaderCarrier(r.Header))

	ref, ok := sessionRef(r)
	if !ok {
		http.Error(w, "missing session", http.StatusBadRequest)
		return
	}
	if err := h.service.Clear(ctx, ref); err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	writeJSON(w, map[string]bool{"success": true})
}

func writeJSON(w http.ResponseWriter, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(v)
}
