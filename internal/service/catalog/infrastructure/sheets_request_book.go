// internal/service/catalog/infrastructure/sheets_request_book.go
package infrastructure

import (
	"context"

	"garde/internal/pkg/sheets"
	"garde/internal/service/catalog/domain"
)

const requestsTab = "Requests"

var requestHeaders = []string{"Date", "Product", "Details"}

// SheetsRequestBook 把电子表格的 Requests tab 当到货请求台账。
// 运营直接在表格里看，处理完的行手工删掉即可。
type SheetsRequestBook struct {
	client *sheets.Client
}

func NewSheetsRequestBook(ctx context.Context, client *sheets.Client) (*SheetsRequestBook, error) {
	if err := client.EnsureTab(ctx, requestsTab, requestHeaders); err != nil {
		return nil, err
	}
	return &SheetsRequestBook{client: client}, nil
}

func (b *SheetsRequestBook) Add(ctx context.Context, req *domain.ProductRequest) error {
	return b.client.AppendRow(ctx, requestsTab, []interface{}{
		req.RequestedAt.Format("2006-01-02 15:04:05"),
		req.ProductName,
		req.Details,
	})
}
