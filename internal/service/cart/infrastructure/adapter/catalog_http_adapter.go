// internal/service/cart/infrastructure/adapter/catalog_http_adapter.go
package adapter

import (
	"context"

	"garde/internal/pkg/httpclient"
	"garde/internal/service/cart/port"

	"github.com/shopspring/decimal"
)

const catalogServiceName = "catalog-service"

// CatalogHTTPAdapter 是 port.CatalogProvider 的 HTTP 实现，
// 通过 Nacos 发现 catalog-service 并查询单个商品。
type CatalogHTTPAdapter struct {
	client *httpclient.Client
}

func NewCatalogHTTPAdapter(client *httpclient.Client) *CatalogHTTPAdapter {
	return &CatalogHTTPAdapter{client: client}
}

type getProductRequest struct {
	ProductID string `json:"product_id"`
}

type getProductResponse struct {
	ProductID string `json:"product_id"`
	Name      string `json:"name"`
	Price     string `json:"price"`
	ImageURL  string `json:"image_url"`
	Stock     int    `json:"stock"`
}

func (a *CatalogHTTPAdapter) GetProduct(ctx context.Context, productID string) (*port.ProductInfo, error) {
	var resp getProductResponse
	err := a.client.CallServiceJSON(ctx, catalogServiceName, "/get_product", getProductRequest{ProductID: productID}, &resp)
	if err != nil {
		return nil, err
	}

	price, err := decimal.NewFromString(resp.Price)
	if err != nil {
		return nil, err
	}
	return &port.ProductInfo{
		ProductID: resp.ProductID,
		Name:      resp.Name,
		Price:     price,
		ImageURL:  resp.ImageURL,
		Stock:     resp.Stock,
	}, nil
}
