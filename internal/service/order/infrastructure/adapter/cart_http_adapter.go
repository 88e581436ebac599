// internal/service/order/infrastructure/adapter/cart_http_adapter.go
package adapter

import (
	"context"
	"net/http"

	"garde/internal/pkg/httpclient"
	"garde/internal/service/order/port"

	"github.com/pkg/errors"
	"github.com/shopspring/decimal"
)

const cartServiceName = "cart-service"

// CartHTTPAdapter 是 port.CartService 的 HTTP 实现。
// 会话标识走 X-User-ID / X-Session-ID 请求头透传给 cart 服务。
type CartHTTPAdapter struct {
	client *httpclient.Client
}

func NewCartHTTPAdapter(client *httpclient.Client) *CartHTTPAdapter {
	return &CartHTTPAdapter{client: client}
}

func sessionHeaders(userID, sessionID string) http.Header {
	headers := http.Header{}
	if userID != "" {
		headers.Set("X-User-ID", userID)
	} else {
		headers.Set("X-Session-ID", sessionID)
	}
	return headers
}

type cartItemView struct {
	ProductID string `json:"product_id"`
	Name      string `json:"name"`
	UnitPrice string `json:"unit_price"`
	Quantity  int    `json:"quantity"`
}

type cartViewResponse struct {
	Items []cartItemView `json:"items"`
}

func (a *CartHTTPAdapter) GetCart(ctx context.Context, userID, sessionID string) (*port.CartSnapshot, error) {
	var resp cartViewResponse
	err := a.client.GetServiceJSON(ctx, cartServiceName, "/cart", nil, sessionHeaders(userID, sessionID), &resp)
	if err != nil {
		return nil, err
	}

	items := make([]port.CartLine, 0, len(resp.Items))
	for _, item := range resp.Items {
		price, err := decimal.NewFromString(item.UnitPrice)
		if err != nil {
			return nil, errors.Wrapf(err, "parse unit price of %s", item.ProductID)
		}
		items = append(items, port.CartLine{
			ProductID: item.ProductID,
			Name:      item.Name,
			Price:     price,
			Quantity:  item.Quantity,
		})
	}
	return &port.CartSnapshot{Items: items}, nil
}

func (a *CartHTTPAdapter) Clear(ctx context.Context, userID, sessionID string) error {
	return a.client.CallServiceJSONHeaders(ctx, cartServiceName, "/cart/clear", sessionHeaders(userID, sessionID), struct{}{}, nil)
}
