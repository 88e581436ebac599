// internal/service/promotion/domain/quote.go
package domain

import "github.com/shopspring/decimal"

// ComputeTotal 计算应付金额：total = subtotal × (1 − rate) + fee。
// 全程保持未舍入的 decimal，只有展示层才取两位小数，
// 避免反复重算时舍入误差累积。
func ComputeTotal(subtotal, discountRate, deliveryFee decimal.Decimal) decimal.Decimal {
	discounted := subtotal.Mul(decimal.NewFromInt(1).Sub(discountRate))
	return discounted.Add(deliveryFee)
}

// DiscountAmount 是折扣减掉的金额。
func DiscountAmount(subtotal, discountRate decimal.Decimal) decimal.Decimal {
	return subtotal.Mul(discountRate)
}
