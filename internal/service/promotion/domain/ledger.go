// internal/service/promotion/domain/ledger.go
package domain

import "context"

// UsageLedger 是优惠码使用台账的出站端口。
// 台账只追加不修改；查询按「规整后的手机号 或 地址」匹配同一个码，
// 两者任一命中都算用过。
type UsageLedger interface {
	// HasUsage 报告 (phone|address, code) 组合是否已经消费过该码。
	HasUsage(ctx context.Context, phone, address, code string) (bool, error)

	// Record 追加一条使用记录。订单已提交后调用，失败不回滚订单。
	Record(ctx context.Context, phone, address, code string) error
}
