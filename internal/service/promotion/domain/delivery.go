// internal/service/promotion/domain/delivery.go
package domain

import (
	"strings"

	"github.com/shopspring/decimal"
)

// FeeSchedule 是按地区分档的运费表，启动时从配置注入。
type FeeSchedule struct {
	tiers      map[string]decimal.Decimal
	defaultFee decimal.Decimal
	note       string
}

func NewFeeSchedule(tiers map[string]int64, defaultFee int64, note string) *FeeSchedule {
	s := &FeeSchedule{
		tiers:      make(map[string]decimal.Decimal, len(tiers)),
		defaultFee: decimal.NewFromInt(defaultFee),
		note:       note,
	}
	for district, fee := range tiers {
		s.tiers[normalizeDistrict(district)] = decimal.NewFromInt(fee)
	}
	return s
}

// FeeFor 返回某地区的运费。
// 空地区表示还没选，返回 0；认识的地区按档收；
// 不认识的地区一律按默认档收——宁可收高档运费也不能漏收。
func (s *FeeSchedule) FeeFor(district string) decimal.Decimal {
	d := normalizeDistrict(district)
	if d == "" {
		return decimal.Zero
	}
	if fee, ok := s.tiers[d]; ok {
		return fee
	}
	return s.defaultFee
}

// DisplayNote 是配送说明文案。实收金额以 FeeFor 为准，
// 文案里的价格区间是展示口径，两者不一致时以实收为准。
func (s *FeeSchedule) DisplayNote() string {
	return s.note
}

func normalizeDistrict(district string) string {
	return strings.ToLower(strings.TrimSpace(district))
}
