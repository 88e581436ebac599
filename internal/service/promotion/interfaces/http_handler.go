// internal/service/promotion/interfaces/http_handler.go
package interfaces

import (
	"encoding/json"
	"net/http"

	"garde/internal/service/promotion/application"
	"garde/internal/service/promotion/domain"

	"github.com/pkg/errors"
	"github.com/shopspring/decimal"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/propagation"
)

// PromotionHandler 封装了 promotion 服务的 HTTP 处理器。
type PromotionHandler struct {
	service *application.PromotionService
}

func NewPromotionHandler(service *application.PromotionService) *PromotionHandler {
	return &PromotionHandler{service: service}
}

// RegisterRoutes 在 ServeMux 上注册所有路由。
func (h *PromotionHandler) RegisterRoutes(mux *http.ServeMux) {
	mux.HandleFunc("/verify_promo", h.handleVerifyPromo)
	mux.HandleFunc("/record_promo", h.handleRecordPromo)
	mux.HandleFunc("/delivery_fee", h.handleDeliveryFee)
}

type verifyPromoRequest struct {
	Phone    string `json:"phone"`
	Address  string `json:"address"`
	District string `json:"district"`
	Code     string `json:"code"`
	Subtotal string `json:"subtotal"`
}

type verifyPromoResponse struct {
	Allowed  bool   `json:"allowed"`
	Code     string `json:"code,omitempty"`
	Rate     string `json:"rate,omitempty"`
	Discount string `json:"discount,omitempty"`
	Message  string `json:"message,omitempty"`
}

func (h *PromotionHandler) handleVerifyPromo(w http.ResponseWriter, r *http.Request) {
	ctx := otel.GetTextMapPropagator().Extract(r.Context(), propagation.HeaderCarrier(r.Header))

	var req verifyPromoRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid request body", http.StatusBadRequest)
		return
	}
	subtotal, err := decimal.NewFromString(req.Subtotal)
	if err != nil {
		http.Error(w, "invalid subtotal", http.StatusBadRequest)
		return
	}

	result, err := h.service.VerifyPromo(ctx, &application.VerifyRequest{
		Phone:    req.Phone,
		Address:  req.Address,
		District: req.District,
		Code:     req.Code,
		Subtotal: subtotal,
	})
	if err != nil {
		// 按错误类型返回不同的 HTTP 状态码，调用方据此分类
		var statusCode int
		switch {
		case errors.Is(err, domain.ErrMissingPrerequisite):
			statusCode = http.StatusBadRequest
		case errors.Is(err, domain.ErrPromoInvalid):
			statusCode = http.StatusNotFound
		case errors.Is(err, domain.ErrPromoAlreadyUsed),
			errors.Is(err, domain.ErrPromoNotApplicable):
			statusCode = http.StatusForbidden // 请求有效，但拒绝放折扣
		default:
			statusCode = http.StatusInternalServerError
		}
		http.Error(w, err.Error(), statusCode)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(verifyPromoResponse{
		Allowed:  true,
		Code:     result.Code,
		Rate:     result.Rate.String(),
		Discount: result.Discount.StringFixed(2),
		Message:  "Promo code applied successfully",
	})
}

type recordPromoRequest struct {
	Phone   string `json:"phone"`
	Address string `json:"address"`
	Code    string `json:"code"`
}

func (h *PromotionHandler) handleRecordPromo(w http.ResponseWriter, r *http.Request) {
	ctx := otel.GetTextMapPropagator().Extract(r.Context(), propagation.HeaderCarrier(r.Header))

	var req recordPromoRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid request body", http.StatusBadRequest)
		return
	}

	if err := h.service.RecordUsage(ctx, req.Phone, req.Address, req.Code); err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]bool{"success": true})
}

func (h *PromotionHandler) handleDeliveryFee(w http.ResponseWriter, r *http.Request) {
	district := r.URL.Query().Get("district")
	fee, note := h.service.DeliveryFee(district)

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]string{
		"district": district,
		"fee":      fee.StringFixed(2),
		"note":     note,
	})
}
