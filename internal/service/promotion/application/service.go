// internal/service/promotion/application/service.go
package application

import (
	"context"
	"strings"

	"garde/internal/pkg/logger"
	"garde/internal/service/promotion/domain"

	"github.com/pkg/errors"
	"github.com/shopspring/decimal"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

// PromotionService 定义了优惠服务提供的所有业务用例。
type PromotionService struct {
	table    *domain.PromoTable
	schedule *domain.FeeSchedule
	ledger   domain.UsageLedger
	rules    domain.RuleEngine
	tracer   trace.Tracer
}

func NewPromotionService(table *domain.PromoTable, schedule *domain.FeeSchedule, ledger domain.UsageLedger, rules domain.RuleEngine, tracer trace.Tracer) *PromotionService {
	return &PromotionService{
		table:    table,
		schedule: schedule,
		ledger:   ledger,
		rules:    rules,
		tracer:   tracer,
	}
}

// VerifyRequest 是一次优惠码校验的输入。
type VerifyRequest struct {
	Phone    string
	Address  string
	District string
	Code     string
	Subtotal decimal.Decimal
}

// VerifyResult 是校验通过时的结果。
type VerifyResult struct {
	Code     string
	Rate     decimal.Decimal
	Discount decimal.Decimal
}

// VerifyPromo 是优惠码校验的核心用例。检查顺序：
// 先决条件（手机号/地址非空，缺了直接失败，不打外部调用）→
// 码表语法校验 → 附加条件求值 → 台账防重放检查。
// 任何一步失败都返回对应的领域错误，折扣保持为零。
func (s *PromotionService) VerifyPromo(ctx context.Context, req *VerifyRequest) (*VerifyResult, error) {
	ctx, span := s.tracer.Start(ctx, "promotion.VerifyPromo")
	defer span.End()
	span.SetAttributes(attribute.String("promo.code", domain.NormalizeCode(req.Code)))

	if strings.TrimSpace(req.Phone) == "" || strings.TrimSpace(req.Address) == "" {
		return nil, domain.ErrMissingPrerequisite
	}

	promo, err := s.table.Lookup(req.Code)
	if err != nil {
		span.AddEvent("promo code not in table")
		return nil, err
	}

	subtotal, _ := req.Subtotal.Float64()
	ok, err := s.rules.Evaluate(promo.Rule, domain.Fact{
		Subtotal: subtotal,
		Code:     promo.Code,
		District: req.District,
	})
	if err != nil {
		// 规则本身有问题是配置错误，不能把折扣放出去
		span.RecordError(err)
		span.SetStatus(codes.Error, "rule evaluation failed")
		return nil, errors.Wrap(err, "promo rule evaluation")
	}
	if !ok {
		return nil, domain.ErrPromoNotApplicable
	}

	used, err := s.ledger.HasUsage(ctx, req.Phone, req.Address, promo.Code)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "usage ledger check failed")
		return nil, errors.Wrap(err, "usage ledger check")
	}
	if used {
		span.AddEvent("promo code already consumed by this customer")
		return nil, domain.ErrPromoAlreadyUsed
	}

	logger.Ctx(ctx).Info().Str("code", promo.Code).Msg("promo code verified")
	return &VerifyResult{
		Code:     promo.Code,
		Rate:     promo.Rate,
		Discount: domain.DiscountAmount(req.Subtotal, promo.Rate),
	}, nil
}

// RecordUsage 在订单提交成功后追加台账记录。
func (s *PromotionService) RecordUsage(ctx context.Context, phone, address, code string) error {
	ctx, span := s.tracer.Start(ctx, "promotion.RecordUsage")
	defer span.End()

	if err := s.ledger.Record(ctx, phone, address, code); err != nil {
		span.RecordError(err)
		return errors.Wrap(err, "record promo usage")
	}
	logger.Ctx(ctx).Info().Str("code", domain.NormalizeCode(code)).Msg("promo usage recorded")
	return nil
}

// DeliveryFee 返回地区运费和配送说明文案。
func (s *PromotionService) DeliveryFee(district string) (decimal.Decimal, string) {
	return s.schedule.FeeFor(district), s.schedule.DisplayNote()
}
