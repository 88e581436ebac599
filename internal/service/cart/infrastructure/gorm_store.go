// internal/service/cart/infrastructure/gorm_store.go
package infrastructure

import (
	"context"
	"time"

	"garde/internal/service/cart/domain"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// CartItemModel 对应数据库中的 cart_item 表。
// 不带 DeletedAt：整体重写依赖物理删除，软删除的残行
// 会占着 (session_id, product_id) 唯一索引，挡住下一次重写。
type CartItemModel struct {
	ID        uint `gorm:"primarykey"`
	CreatedAt time.Time
	UpdatedAt time.Time
	SessionID string `gorm:"index:idx_session_product,unique,priority:1"`
	ProductID string `gorm:"index:idx_session_product,unique,priority:2"`
	Name      string
	UnitPrice decimal.Decimal `gorm:"type:decimal(10,2)"`
	ImageURL  string
	Quantity  int
}

func (CartItemModel) TableName() string {
	return "cart_item"
}

// GormStore 是登录用户购物车的实现：数据库是唯一事实来源，
// 每次变更整体重写，读取时重新组装聚合。
type GormStore struct {
	db *gorm.DB
}

func NewGormStore(db *gorm.DB) (*GormStore, error) {
	if err := db.AutoMigrate(&CartItemModel{}); err != nil {
		return nil, err
	}
	return &GormStore{db: db}, nil
}

func (s *GormStore) Get(ctx context.Context, sessionID string) (*domain.Cart, error) {
	var models []CartItemModel
	err := s.db.WithContext(ctx).
		Where("session_id = ?", sessionID).
		Order("id asc").
		Find(&models).Error
	if err != nil {
		return nil, err
	}

	cart := domain.NewCart(sessionID)
	for _, m := range models {
		cart.Items = append(cart.Items, domain.LineItem{
			ProductID: m.ProductID,
			Name:      m.Name,
			UnitPrice: m.UnitPrice,
			ImageURL:  m.ImageURL,
			Quantity:  m.Quantity,
		})
	}
	return cart, nil
}

// Save 在一个事务里先删后插，保证表内容和聚合一致。
func (s *GormStore) Save(ctx context.Context, cart *domain.Cart) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("session_id = ?", cart.SessionID).Delete(&CartItemModel{}).Error; err != nil {
			return err
		}
		if len(cart.Items) == 0 {
			return nil
		}
		models := make([]CartItemModel, 0, len(cart.Items))
		for _, item := range cart.Items {
			models = append(models, CartItemModel{
				SessionID: cart.SessionID,
				ProductID: item.ProductID,
				Name:      item.Name,
				UnitPrice: item.UnitPrice,
				ImageURL:  item.ImageURL,
				Quantity:  item.Quantity,
			})
		}
		return tx.Create(&models).Error
	})
}

func (s *GormStore) Clear(ctx context.Context, sessionID string) error {
	return s.db.WithContext(ctx).
		Where("session_id = ?", sessionID).
		Delete(&CartItemModel{}).Error
}
