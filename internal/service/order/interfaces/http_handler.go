// internal/service/order/interfaces/http_handler.go
package interfaces

import (
	"encoding/json"
	"net/http"
	"strconv"

	"garde/internal/service/order/application"
	"garde/internal/service/order/domain"
	"garde/internal/service/order/port"

	"github.com/pkg/errors"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/propagation"
)

// OrderHandler 封装了 order 服务的 HTTP 处理器，
// 覆盖店铺端的结账流程和后台端的订单管理。
type OrderHandler struct {
	service *application.OrderApplicationService
}

func NewOrderHandler(service *application.OrderApplicationService) *OrderHandler {
	return &OrderHandler{service: service}
}

// RegisterRoutes 在 ServeMux 上注册所有路由。
func (h *OrderHandler) RegisterRoutes(mux *http.ServeMux) {
	mux.HandleFunc("POST /checkout", h.handleCheckout)
	mux.HandleFunc("GET /checkout/draft", h.handleGetDraft)
	mux.HandleFunc("POST /checkout/contact", h.handleUpdateContact)
	mux.HandleFunc("POST /checkout/apply_promo", h.handleApplyPromo)

	mux.HandleFunc("GET /orders", h.handleListOrders)
	mux.HandleFunc("GET /orders/{id}", h.handleGetOrder)
	mux.HandleFunc("PUT /orders/{id}/status", h.handleUpdateStatus)
	mux.HandleFunc("GET /admin/analytics", h.handleAnalytics)
	mux.HandleFunc("GET /admin/customers", h.handleListCustomers)
	mux.HandleFunc("GET /admin/payments", h.handleListPayments)
}

// session 从请求头解析会话标识，约定与 cart 服务一致。
func session(r *http.Request) (userID, sessionID string, ok bool) {
	if userID = r.Header.Get("X-User-ID"); userID != "" {
		return userID, userID, true
	}
	if sessionID = r.Header.Get("X-Session-ID"); sessionID != "" {
		return "", sessionID, true
	}
	return "", "", false
}

type checkoutRequest struct {
	Name      string `json:"name"`
	Phone     string `json:"phone"`
	Address   string `json:"address"`
	District  string `json:"district"`
	PromoCode string `json:"promo_code"`
}

func (h *OrderHandler) handleCheckout(w http.ResponseWriter, r *http.Request) {
	ctx := otel.GetTextMapPropagator().Extract(r.Context(), propagation.HeaderCarrier(r.Header))

	userID, sessionID, ok := session(r)
	if !ok {
		http.Error(w, "missing session", http.StatusBadRequest)
		return
	}
	var req checkoutRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid request body", http.StatusBadRequest)
		return
	}

	receipt, err := h.service.PlaceOrder(ctx, &application.CheckoutRequest{
		UserID:    userID,
		SessionID: sessionID,
		Name:      req.Name,
		Phone:     req.Phone,
		Address:   req.Address,
		District:  req.District,
		PromoCode: req.PromoCode,
	})
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrEmptyOrder),
			errors.Is(err, domain.ErrMissingContact):
			http.Error(w, err.Error(), http.StatusBadRequest)
		case errors.Is(err, port.ErrPromoRejected):
			// 订单没有提交，前端提示用户去掉或更换优惠码
			http.Error(w, err.Error(), http.StatusConflict)
		default:
			http.Error(w, err.Error(), http.StatusInternalServerError)
		}
		return
	}
	writeJSON(w, receipt)
}

func (h *OrderHandler) handleGetDraft(w http.ResponseWriter, r *http.Request) {
	ctx := otel.GetTextMapPropagator().Extract(r.Context(), propagation.HeaderCarrier(r.Header))

	_, sessionID, ok := session(r)
	if !ok {
		http.Error(w, "missing session", http.StatusBadRequest)
		return
	}
	draft, err := h.service.GetDraft(ctx, sessionID)
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	writeJSON(w, toDraftView(draft, false))
}

type contactRequest struct {
	Phone    string `json:"phone"`
	Address  string `json:"address"`
	District string `json:"district"`
}

func (h *OrderHandler) handleUpdateContact(w http.ResponseWriter, r *http.Request) {
	ctx := otel.GetTextMapPropagator().Extract(r.Context(), propagation.HeaderCarrier(r.Header))

	_, sessionID, ok := session(r)
	if !ok {
		http.Error(w, "missing session", http.StatusBadRequest)
		return
	}
	var req contactRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid request body", http.StatusBadRequest)
		return
	}

	draft, invalidated, err := h.service.UpdateDraftContact(ctx, sessionID, req.Phone, req.Address, req.District)
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	writeJSON(w, toDraftView(draft, invalidated))
}

type applyPromoRequest struct {
	Phone    string `json:"phone"`
	Address  string `json:"address"`
	District string `json:"district"`
	Code     string `json:"code"`
}

func (h *OrderHandler) handleApplyPromo(w http.ResponseWriter, r *http.Request) {
	ctx := otel.GetTextMapPropagator().Extract(r.Context(), propagation.HeaderCarrier(r.Header))

	userID, sessionID, ok := session(r)
	if !ok {
		http.Error(w, "missing session", http.StatusBadRequest)
		return
	}
	var req applyPromoRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid request body", http.StatusBadRequest)
		return
	}

	draft, err := h.service.ApplyDraftPromo(ctx, &application.CheckoutRequest{
		UserID:    userID,
		SessionID: sessionID,
		Phone:     req.Phone,
		Address:   req.Address,
		District:  req.District,
		PromoCode: req.Code,
	})
	if err != nil {
		if errors.Is(err, port.ErrPromoRejected) {
			http.Error(w, err.Error(), http.StatusConflict)
			return
		}
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	writeJSON(w, toDraftView(draft, false))
}

type draftView struct {
	Phone            string `json:"phone"`
	Address          string `json:"address"`
	District         string `json:"district"`
	PromoCode        string `json:"promo_code,omitempty"`
	Discount         string `json:"discount"`
	PromoInvalidated bool   `json:"promo_invalidated,omitempty"`
}

func toDraftView(draft *application.CheckoutDraft, invalidated bool) draftView {
	return draftView{
		Phone:            draft.Phone,
		Address:          draft.Address,
		District:         draft.District,
		PromoCode:        draft.PromoCode,
		Discount:         draft.Discount.StringFixed(2),
		PromoInvalidated: invalidated,
	}
}

func (h *OrderHandler) handleListOrders(w http.ResponseWriter, r *http.Request) {
	ctx := otel.GetTextMapPropagator().Extract(r.Context(), propagation.HeaderCarrier(r.Header))

	limit := 0
	if raw := r.URL.Query().Get("limit"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed < 0 {
			http.Error(w, "invalid limit", http.StatusBadRequest)
			return
		}
		limit = parsed
	}

	summaries, err := h.service.ListOrders(ctx, r.URL.Query().Get("status"), limit)
	if err != nil {
		if errors.Is(err, domain.ErrInvalidStatus) {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	writeJSON(w, map[string]interface{}{"orders": summaries})
}

func (h *OrderHandler) handleGetOrder(w http.ResponseWriter, r *http.Request) {
	ctx := otel.GetTextMapPropagator().Extract(r.Context(), propagation.HeaderCarrier(r.Header))

	receipt, err := h.service.GetOrder(ctx, r.PathValue("id"))
	if err != nil {
		if errors.Is(err, domain.ErrOrderNotFound) {
			http.Error(w, err.Error(), http.StatusNotFound)
			return
		}
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	writeJSON(w, receipt)
}

type updateStatusRequest struct {
	Status string `json:"status"`
}

func (h *OrderHandler) handleUpdateStatus(w http.ResponseWriter, r *http.Request) {
	ctx := otel.GetTextMapPropagator().Extract(r.Context(), propagation.HeaderCarrier(r.Header))

	var req updateStatusRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid request body", http.StatusBadRequest)
		return
	}

	err := h.service.UpdateStatus(ctx, r.PathValue("id"), req.Status)
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrOrderNotFound):
			http.Error(w, err.Error(), http.StatusNotFound)
		case errors.Is(err, domain.ErrInvalidStatus):
			http.Error(w, err.Error(), http.StatusBadRequest)
		default:
			http.Error(w, err.Error(), http.StatusInternalServerError)
		}
		return
	}
	writeJSON(w, map[string]bool{"success": true})
}

func (h *OrderHandler) handleAnalytics(w http.ResponseWriter, r *http.Request) {
	ctx := otel.GetTextMapPropagator().Extract(r.Context(), propagation.HeaderCarrier(r.Header))

	analytics, err := h.service.GetAnalytics(ctx)
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	writeJSON(w, analytics)
}

func (h *OrderHandler) handleListCustomers(w http.ResponseWriter, r *http.Request) {
	ctx := otel.GetTextMapPropagator().Extract(r.Context(), propagation.HeaderCarrier(r.Header))

	customers, err := h.service.ListCustomers(ctx)
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	writeJSON(w, map[string]interface{}{"customers": customers})
}

func (h *OrderHandler) handleListPayments(w http.ResponseWriter, r *http.Request) {
	ctx := otel.GetTextMapPropagator().Extract(r.Context(), propagation.HeaderCarrier(r.Header))

	report, err := h.service.ListPayments(ctx)
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	writeJSON(w, report)
}

func writeJSON(w http.ResponseWriter, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(v)
}
