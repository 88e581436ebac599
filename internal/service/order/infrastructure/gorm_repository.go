// internal/service/order/infrastructure/gorm_repository.go
package infrastructure

import (
	"context"
	"time"

	"garde/internal/service/order/domain"

	"github.com/pkg/errors"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// OrderModel 对应数据库中的 order 表。订单号是业务主键，
// 金额字段落库时已经是冻结值，读出后不再重算。
type OrderModel struct {
	ID        uint   `gorm:"primarykey"`
	OrderID   string `gorm:"uniqueIndex;size:64"`
	Name      string
	Phone     string `gorm:"index"`
	Address   string
	District  string
	Status    string `gorm:"index;size:32"`
	PromoCode string

	Subtotal      decimal.Decimal `gorm:"type:decimal(12,2)"`
	DiscountRate  decimal.Decimal `gorm:"type:decimal(5,4)"`
	Discount      decimal.Decimal `gorm:"type:decimal(12,2)"`
	DeliveryFee   decimal.Decimal `gorm:"type:decimal(12,2)"`
	Total         decimal.Decimal `gorm:"type:decimal(12,2)"`
	PaymentMethod string          `gorm:"size:16"`

	CreatedAt time.Time `gorm:"index"`
	UpdatedAt time.Time

	Items []OrderItemModel `gorm:"foreignKey:OrderID;references:OrderID"`
}

func (OrderModel) TableName() string {
	return "order"
}

// OrderItemModel 对应 order_item 表，存下单时刻的商品快照。
type OrderItemModel struct {
	ID        uint   `gorm:"primarykey"`
	OrderID   string `gorm:"index;size:64"`
	ProductID string
	Name      string
	Price     decimal.Decimal `gorm:"type:decimal(10,2)"`
	Quantity  int
}

func (OrderItemModel) TableName() string {
	return "order_item"
}

// GormRepository 是 domain.OrderRepository 的 MySQL 实现。
type GormRepository struct {
	db *gorm.DB
}

func NewGormRepository(db *gorm.DB) (*GormRepository, error) {
	if err := db.AutoMigrate(&OrderModel{}, &OrderItemModel{}); err != nil {
		return nil, err
	}
	return &GormRepository{db: db}, nil
}

func (r *GormRepository) Save(ctx context.Context, order *domain.Order) error {
	model := toOrderModel(order)
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return tx.Create(model).Error
	})
}

func (r *GormRepository) FindByID(ctx context.Context, id string) (*domain.Order, error) {
	var model OrderModel
	err := r.db.WithContext(ctx).
		Preload("Items").
		Where("order_id = ?", id).
		First(&model).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, domain.ErrOrderNotFound
	}
	if err != nil {
		return nil, err
	}
	return toOrderEntity(&model), nil
}

func (r *GormRepository) List(ctx context.Context, filter domain.ListFilter) ([]*domain.Order, error) {
	query := r.db.WithContext(ctx).Preload("Items").Order("created_at desc")
	if filter.Status != "" {
		query = query.Where("status = ?", string(filter.Status))
	}
	if filter.Limit > 0 {
		query = query.Limit(filter.Limit)
	}

	var models []OrderModel
	if err := query.Find(&models).Error; err != nil {
		return nil, err
	}

	orders := make([]*domain.Order, 0, len(models))
	for i := range models {
		orders = append(orders, toOrderEntity(&models[i]))
	}
	return orders, nil
}

func (r *GormRepository) UpdateStatus(ctx context.Context, id string, status domain.Status) error {
	result := r.db.WithContext(ctx).
		Model(&OrderModel{}).
		Where("order_id = ?", id).
		Updates(map[string]interface{}{"status": string(status), "updated_at": time.Now()})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return domain.ErrOrderNotFound
	}
	return nil
}

func toOrderModel(order *domain.Order) *OrderModel {
	items := make([]OrderItemModel, 0, len(order.Items))
	for _, line := range order.Items {
		items = append(items, OrderItemModel{
			OrderID:   order.ID,
			ProductID: line.ProductID,
			Name:      line.Name,
			Price:     line.Price,
			Quantity:  line.Quantity,
		})
	}
	return &OrderModel{
		OrderID:       order.ID,
		Name:          order.Customer.Name,
		Phone:         order.Customer.Phone,
		Address:       order.Customer.Address,
		District:      order.Customer.District,
		Status:        string(order.Status),
		PromoCode:     order.PromoCode,
		Subtotal:      order.Subtotal,
		DiscountRate:  order.DiscountRate,
		Discount:      order.Discount,
		DeliveryFee:   order.DeliveryFee,
		Total:         order.Total,
		PaymentMethod: order.PaymentMethod,
		CreatedAt:     order.CreatedAt,
		UpdatedAt:     order.UpdatedAt,
		Items:         items,
	}
}

func toOrderEntity(model *OrderModel) *domain.Order {
	lines := make([]domain.OrderLine, 0, len(model.Items))
	for _, item := range model.Items {
		lines = append(lines, domain.OrderLine{
			ProductID: item.ProductID,
			Name:      item.Name,
			Price:     item.Price,
			Quantity:  item.Quantity,
		})
	}
	return &domain.Order{
		ID: model.OrderID,
		Customer: domain.Customer{
			Name:     model.Name,
			Phone:    model.Phone,
			Address:  model.Address,
			District: model.District,
		},
		Items:         lines,
		Subtotal:      model.Subtotal,
		PromoCode:     model.PromoCode,
		DiscountRate:  model.DiscountRate,
		Discount:      model.Discount,
		DeliveryFee:   model.DeliveryFee,
		Total:         model.Total,
		PaymentMethod: model.PaymentMethod,
		Status:        domain.Status(model.Status),
		CreatedAt:     model.CreatedAt,
		UpdatedAt:     model.UpdatedAt,
	}
}
