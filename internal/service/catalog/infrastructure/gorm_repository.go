// internal/service/catalog/infrastructure/gorm_repository.go
package infrastructure

import (
	"context"
	"errors"

	"garde/internal/service/catalog/domain"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// ProductModel 对应数据库中的 product 表。
type ProductModel struct {
	gorm.Model
	ProductID     string          `gorm:"uniqueIndex"`
	Name          string
	Price         decimal.Decimal `gorm:"type:decimal(10,2)"`
	DiscountPrice decimal.Decimal `gorm:"type:decimal(10,2)"`
	Stock         int
	ImageURL      string
	Category      string `gorm:"index"`
	Brand         string
	Description   string `gorm:"type:text"`
	Benefits      string `gorm:"type:text"`
}

func (ProductModel) TableName() string {
	return "product"
}

// GormRepository 是 domain.Repository 的 MySQL 实现。
type GormRepository struct {
	db *gorm.DB
}

func NewGormRepository(db *gorm.DB) (*GormRepository, error) {
	if err := db.AutoMigrate(&ProductModel{}); err != nil {
		return nil, err
	}
	return &GormRepository{db: db}, nil
}

// toDomain 把数据库模型转成领域模型。
// 有促销价时促销价即售价，原 Price 成为划线价。
func toDomain(m *ProductModel) domain.Product {
	price := m.Price
	if m.DiscountPrice.IsPositive() {
		price = m.DiscountPrice
	}
	return domain.Product{
		ProductID:     m.ProductID,
		Name:          m.Name,
		Price:         price,
		OriginalPrice: m.Price,
		Stock:         m.Stock,
		ImageURL:      m.ImageURL,
		Category:      m.Category,
		Brand:         m.Brand,
		Description:   m.Description,
		Benefits:      m.Benefits,
	}
}

func (r *GormRepository) ListProducts(ctx context.Context, category string) ([]domain.Product, error) {
	query := r.db.WithContext(ctx).Model(&ProductModel{})
	if category != "" {
		query = query.Where("category = ?", category)
	}

	var models []ProductModel
	if err := query.Order("id asc").Find(&models).Error; err != nil {
		return nil, err
	}

	products := make([]domain.Product, 0, len(models))
	for i := range models {
		products = append(products, toDomain(&models[i]))
	}
	return products, nil
}

func (r *GormRepository) FindByID(ctx context.Context, productID string) (*domain.Product, error) {
	var model ProductModel
	err := r.db.WithContext(ctx).Where("product_id = ?", productID).First(&model).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrProductNotFound
		}
		return nil, err
	}
	product := toDomain(&model)
	return &product, nil
}
