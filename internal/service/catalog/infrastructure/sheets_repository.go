// internal/service/catalog/infrastructure/sheets_repository.go
package infrastructure

import (
	"context"
	"strconv"

	"garde/internal/pkg/sheets"
	"garde/internal/service/catalog/domain"

	"github.com/shopspring/decimal"
)

const productsTab = "Products"

// Products tab 的列布局（与运营维护的表格一致）：
// ProductID | ProductName | Price | DiscountPrice | Stock | Description | ImageURL | category | Brand | Benefits
const (
	colProductID = iota
	colProductName
	colPrice
	colDiscountPrice
	colStock
	colDescription
	colImageURL
	colCategory
	colBrand
	colBenefits
	productColumns
)

// SheetsRepository 是 domain.Repository 的电子表格实现。
// 小店直接在表格里维护商品，服务端把它当只读数据库。
type SheetsRepository struct {
	client *sheets.Client
}

func NewSheetsRepository(client *sheets.Client) *SheetsRepository {
	return &SheetsRepository{client: client}
}

func rowToProduct(row []string) domain.Product {
	price, _ := decimal.NewFromString(row[colPrice])
	selling := price
	if d, err := decimal.NewFromString(row[colDiscountPrice]); err == nil && d.IsPositive() {
		selling = d
	}
	stock, _ := strconv.Atoi(row[colStock])

	return domain.Product{
		ProductID:     row[colProductID],
		Name:          row[colProductName],
		Price:         selling,
		OriginalPrice: price,
		Stock:         stock,
		ImageURL:      row[colImageURL],
		Category:      row[colCategory],
		Brand:         row[colBrand],
		Description:   row[colDescription],
		Benefits:      row[colBenefits],
	}
}

func (r *SheetsRepository) ListProducts(ctx context.Context, category string) ([]domain.Product, error) {
	rows, err := r.client.ReadRows(ctx, productsTab, productColumns)
	if err != nil {
		return nil, err
	}

	products := make([]domain.Product, 0, len(rows))
	for _, row := range rows {
		if row[colProductID] == "" {
			continue
		}
		p := rowToProduct(row)
		if category != "" && p.Category != category {
			continue
		}
		products = append(products, p)
	}
	return products, nil
}

func (r *SheetsRepository) FindByID(ctx context.Context, productID string) (*domain.Product, error) {
	// 表格没有索引，按行扫；目录量级是几十个 SKU，可以接受
	rows, err := r.client.ReadRows(ctx, productsTab, productColumns)
	if err != nil {
		return nil, err
	}
	for _, row := range rows {
		if row[colProductID] == productID {
			p := rowToProduct(row)
			return &p, nil
		}
	}
	return nil, domain.ErrProductNotFound
}
