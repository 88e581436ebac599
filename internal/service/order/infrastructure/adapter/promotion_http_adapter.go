// internal/service/order/infrastructure/adapter/promotion_http_adapter.go
package adapter

import (
	"context"
	"net/http"
	"net/url"

	"garde/internal/pkg/httpclient"
	"garde/internal/service/order/port"

	"github.com/pkg/errors"
	"github.com/shopspring/decimal"
)

const promotionServiceName = "promotion-service"

// PromotionHTTPAdapter 是 port.PromotionService 的 HTTP 实现。
// 下游用状态码表达业务结论：4xx 是对这个码的明确拒绝，
// 翻译成 port.ErrPromoRejected；其余是基础设施故障，原样上抛。
type PromotionHTTPAdapter struct {
	client *httpclient.Client
}

func NewPromotionHTTPAdapter(client *httpclient.Client) *PromotionHTTPAdapter {
	return &PromotionHTTPAdapter{client: client}
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
	Code     string `json:"code"`
	Rate     string `json:"rate"`
	Discount string `json:"discount"`
	Message  string `json:"message"`
}

func (a *PromotionHTTPAdapter) VerifyPromo(ctx context.Context, req *port.VerifyPromoRequest) (*port.PromoQuote, error) {
	var resp verifyPromoResponse
	err := a.client.CallServiceJSON(ctx, promotionServiceName, "/verify_promo", verifyPromoRequest{
		Phone:    req.Phone,
		Address:  req.Address,
		District: req.District,
		Code:     req.Code,
		Subtotal: req.Subtotal.String(),
	}, &resp)
	if err != nil {
		var statusErr *httpclient.ErrStatus
		if errors.As(err, &statusErr) && statusErr.StatusCode >= 400 && statusErr.StatusCode < 500 {
			return nil, errors.Wrap(port.ErrPromoRejected, statusErr.Body)
		}
		return nil, err
	}

	rate, err := decimal.NewFromString(resp.Rate)
	if err != nil {
		return nil, errors.Wrap(err, "parse promo rate")
	}
	discount, err := decimal.NewFromString(resp.Discount)
	if err != nil {
		return nil, errors.Wrap(err, "parse promo discount")
	}
	return &port.PromoQuote{Code: resp.Code, Rate: rate, Discount: discount}, nil
}

type deliveryFeeResponse struct {
	Fee  string `json:"fee"`
	Note string `json:"note"`
}

func (a *PromotionHTTPAdapter) DeliveryFee(ctx context.Context, district string) (decimal.Decimal, string, error) {
	params := url.Values{}
	params.Set("district", district)

	var resp deliveryFeeResponse
	if err := a.client.GetServiceJSON(ctx, promotionServiceName, "/delivery_fee", params, http.Header{}, &resp); err != nil {
		return decimal.Zero, "", err
	}
	fee, err := decimal.NewFromString(resp.Fee)
	if err != nil {
		return decimal.Zero, "", errors.Wrap(err, "parse delivery fee")
	}
	return fee, resp.Note, nil
}

type recordPromoRequest struct {
	Phone   string `json:"phone"`
	Address string `json:"address"`
	Code    string `json:"code"`
}

func (a *PromotionHTTPAdapter) RecordUsage(ctx context.Context, phone, address, code string) error {
	return a.client.CallServiceJSON(ctx, promotionServiceName, "/record_promo", recordPromoRequest{
		Phone:   phone,
		Address: address,
		Code:    code,
	}, nil)
}
