// internal/service/promotion/domain/promo.go
package domain

import (
	"strings"
	"unicode"

	"github.com/pkg/errors"
	"github.com/shopspring/decimal"
)

var (
	// ErrPromoInvalid 表示优惠码不在有效码表里。
	ErrPromoInvalid = errors.New("promo code is invalid")
	// ErrPromoAlreadyUsed 表示同一个客户（手机号或地址匹配）已经用过这个码。
	ErrPromoAlreadyUsed = errors.New("promo code has already been used")
	// ErrPromoNotApplicable 表示码有效但附加条件不满足（例如起订金额）。
	ErrPromoNotApplicable = errors.New("promo code conditions not met")
	// ErrMissingPrerequisite 表示手机号或地址为空，校验无从谈起。
	ErrMissingPrerequisite = errors.New("phone and address are required before verifying a promo code")
)

// PromoCode 是码表里的一条：码、折扣率、可选的 CEL 条件表达式。
type PromoCode struct {
	Code string
	Rate decimal.Decimal
	Rule string
}

// PromoTable 是启动时从配置注入的有效码表。
// 码表是数据不是逻辑：轮换码只改配置，不发版。
type PromoTable struct {
	codes map[string]PromoCode
}

func NewPromoTable(codes []PromoCode) *PromoTable {
	table := &PromoTable{codes: make(map[string]PromoCode, len(codes))}
	for _, c := range codes {
		table.codes[NormalizeCode(c.Code)] = c
	}
	return table
}

// Lookup 做语法校验：规整后查表。查不到返回 ErrPromoInvalid。
func (t *PromoTable) Lookup(code string) (PromoCode, error) {
	c, ok := t.codes[NormalizeCode(code)]
	if !ok {
		return PromoCode{}, ErrPromoInvalid
	}
	return c, nil
}

// NormalizeCode 规整优惠码：去空白、统一大写。
func NormalizeCode(code string) string {
	return strings.ToUpper(strings.TrimSpace(code))
}

// NormalizeKey 规整台账匹配键：小写并去掉所有非字母数字字符。
// "077-123 4567" 和 "0771234567" 必须命中同一条使用记录，
// 否则改个空格就能重复领券。
func NormalizeKey(s string) string {
	var b strings.Builder
	b.Grow(len(s))
	for _, r := range strings.ToLower(s) {
		if unicode.IsLower(r) || unicode.IsDigit(r) {
			b.WriteRune(r)
		}
	}
	return b.String()
}

// Fact 是规则引擎求值用的事实集合。
type Fact struct {
	Subtotal float64 `json:"subtotal"`
	Code     string  `json:"code"`
	District string  `json:"district"`
}

// RuleEngine 是优惠条件求值的出站端口，具体实现见 infrastructure/rule。
type RuleEngine interface {
	Evaluate(rule string, fact Fact) (bool, error)
}
