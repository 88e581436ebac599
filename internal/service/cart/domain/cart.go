// internal/service/cart/domain/cart.go
package domain

import (
	"github.com/shopspring/decimal"
)

// LineItem 是购物车里的一行：一个商品和它的数量。
// UnitPrice 是加购时的快照价，之后商品调价不回溯影响已在车里的行。
type LineItem struct {
	ProductID string          `json:"product_id"`
	Name      string          `json:"name"`
	UnitPrice decimal.Decimal `json:"unit_price"`
	ImageURL  string          `json:"image_url"`
	Quantity  int             `json:"quantity"`
}

// ProductSnapshot 是加购时从目录取到的商品信息。
type ProductSnapshot struct {
	ProductID string
	Name      string
	UnitPrice decimal.Decimal
	ImageURL  string
}

// Cart 是购物车聚合。
// 不变量：同一个 ProductID 至多一行；每行 Quantity >= 1。
type Cart struct {
	SessionID string     `json:"session_id"`
	Items     []LineItem `json:"items"`
}

// NewCart 创建一个空购物车。
func NewCart(sessionID string) *Cart {
	return &Cart{SessionID: sessionID}
}

// AddItem 加购。已有同商品的行则数量累加，否则按快照价插入新行。
// quantity 小于 1 时按 1 处理。
func (c *Cart) AddItem(p ProductSnapshot, quantity int) {
	if quantity < 1 {
		quantity = 1
	}
	for i := range c.Items {
		if c.Items[i].ProductID == p.ProductID {
			c.Items[i].Quantity += quantity
			return
		}
	}
	c.Items = append(c.Items, LineItem{
		ProductID: p.ProductID,
		Name:      p.Name,
		UnitPrice: p.UnitPrice,
		ImageURL:  p.ImageURL,
		Quantity:  quantity,
	})
}

// UpdateQuantity 把某一行的数量改成 quantity（覆盖，不是累加）。
// quantity < 1 或商品不在车里时静默忽略；删行走 RemoveItem。
func (c *Cart) UpdateQuantity(productID string, quantity int) {
	if quantity < 1 {
		return
	}
	for i := range c.Items {
		if c.Items[i].ProductID == productID {
			c.Items[i].Quantity = quantity
			return
		}
	}
}

// RemoveItem 删掉某一行。商品不在车里时是无害的空操作。
func (c *Cart) RemoveItem(productID string) {
	for i := range c.Items {
		if c.Items[i].ProductID == productID {
			c.Items = append(c.Items[:i], c.Items[i+1:]...)
			return
		}
	}
}

// Clear 清空购物车。
func (c *Cart) Clear() {
	c.Items = nil
}

// Subtotal 是 Σ 单价×数量，保持未舍入，展示时再取两位。
func (c *Cart) Subtotal() decimal.Decimal {
	subtotal := decimal.Zero
	for _, item := range c.Items {
		subtotal = subtotal.Add(item.UnitPrice.Mul(decimal.NewFromInt(int64(item.Quantity))))
	}
	return subtotal
}

// ItemCount 是所有行数量之和（角标显示的是件数，不是行数）。
func (c *Cart) ItemCount() int {
	count := 0
	for _, item := range c.Items {
		count += item.Quantity
	}
	return count
}

func (c *Cart) IsEmpty() bool {
	return len(c.Items) == 0
}

// Find 返回指定商品的行，不存在返回 nil。
func (c *Cart) Find(productID string) *LineItem {
	for i := range c.Items {
		if c.Items[i].ProductID == productID {
			return &c.Items[i]
		}
	}
	return nil
}
