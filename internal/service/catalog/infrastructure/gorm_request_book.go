// internal/service/catalog/infrastructure/gorm_request_book.go
package infrastructure

import (
	"context"
	"time"

	"garde/internal/service/catalog/domain"

	"gorm.io/gorm"
)

// ProductRequestModel 对应数据库中的 product_request 表。
type ProductRequestModel struct {
	ID          uint `gorm:"primarykey"`
	CreatedAt   time.Time
	ProductName string
	Details     string
}

func (ProductRequestModel) TableName() string {
	return "product_request"
}

// GormRequestBook 是 domain.RequestBook 的 MySQL 实现。
type GormRequestBook struct {
	db *gorm.DB
}

func NewGormRequestBook(db *gorm.DB) (*GormRequestBook, error) {
	if err := db.AutoMigrate(&ProductRequestModel{}); err != nil {
		return nil, err
	}
	return &GormRequestBook{db: db}, nil
}

func (b *GormRequestBook) Add(ctx context.Context, req *domain.ProductRequest) error {
	return b.db.WithContext(ctx).Create(&ProductRequestModel{
		CreatedAt:   req.RequestedAt,
		ProductName: req.ProductName,
		Details:     req.Details,
	}).Error
}
