// internal/service/order/application/draft.go
package application

import (
	"context"

	"github.com/shopspring/decimal"
)

// CheckoutDraft 是结账页的服务端草稿：收货信息加上已套用的优惠。
// 折扣是按（手机号, 地址, 地区）算出来的，这三项任何一项一改，
// 之前的校验结论就不再成立，草稿立即作废已套用的优惠，
// 用户需要重新校验优惠码。
type CheckoutDraft struct {
	Phone    string `json:"phone"`
	Address  string `json:"address"`
	District string `json:"district"`

	PromoCode string          `json:"promo_code,omitempty"`
	Rate      decimal.Decimal `json:"rate"`
	Discount  decimal.Decimal `json:"discount"`
}

func (d *CheckoutDraft) HasPromo() bool {
	return d.PromoCode != ""
}

// ApplyPromo 把一次校验通过的优惠结果记到草稿上。
func (d *CheckoutDraft) ApplyPromo(code string, rate, discount decimal.Decimal) {
	d.PromoCode = code
	d.Rate = rate
	d.Discount = discount
}

// ClearPromo 作废已套用的优惠。
func (d *CheckoutDraft) ClearPromo() {
	d.PromoCode = ""
	d.Rate = decimal.Zero
	d.Discount = decimal.Zero
}

// SetContact 更新收货信息。返回值表示这次更新是否作废了已套用的
// 优惠（有优惠在身且三项指纹字段有任何变化）。
func (d *CheckoutDraft) SetContact(phone, address, district string) bool {
	changed := phone != d.Phone || address != d.Address || district != d.District
	d.Phone = phone
	d.Address = address
	d.District = district

	if changed && d.HasPromo() {
		d.ClearPromo()
		return true
	}
	return false
}

// DraftStore 是草稿的出站存储端口，按会话键控。
// Get 在没有草稿时返回空草稿。
type DraftStore interface {
	Get(ctx context.Context, sessionID string) (*CheckoutDraft, error)
	Save(ctx context.Context, sessionID string, draft *CheckoutDraft) error
	Delete(ctx context.Context, sessionID string) error
}
