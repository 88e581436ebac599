// internal/service/order/application/service.go
package application

import (
	"context"
	"time"

	"garde/internal/pkg/logger"
	"garde/internal/service/order/application/saga"
	"garde/internal/service/order/domain"
	"garde/internal/service/order/port"

	"github.com/pkg/errors"
	"github.com/shopspring/decimal"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"golang.org/x/sync/errgroup"
)

// OrderApplicationService 负责业务流程编排：结账责任链、
// 结账草稿、后台订单管理和经营统计。
type OrderApplicationService struct {
	repo            domain.OrderRepository
	cartService     port.CartService
	promotion       port.PromotionService
	locker          port.Locker
	notifier        port.NotificationProducer
	drafts          DraftStore
	checkoutTimeout time.Duration
	tracer          trace.Tracer
}

func NewOrderApplicationService(
	repo domain.OrderRepository,
	cartService port.CartService,
	promotion port.PromotionService,
	locker port.Locker,
	notifier port.NotificationProducer,
	drafts DraftStore,
	checkoutTimeout time.Duration,
	tracer trace.Tracer,
) *OrderApplicationService {
	return &OrderApplicationService{
		repo:            repo,
		cartService:     cartService,
		promotion:       promotion,
		locker:          locker,
		notifier:        notifier,
		drafts:          drafts,
		checkoutTimeout: checkoutTimeout,
		tracer:          tracer,
	}
}

// PlaceOrder 是结账入口：把请求装进 OrderContext，跑完责任链。
// 持久化之前的任何失败都没有副作用；持久化之后的环节尽力而为。
func (s *OrderApplicationService) PlaceOrder(ctx context.Context, req *CheckoutRequest) (*Receipt, error) {
	ctx, span := s.tracer.Start(ctx, "app.PlaceOrder")
	defer span.End()

	checkoutCtx, cancel := context.WithTimeout(ctx, s.checkoutTimeout)
	defer cancel()

	orderContext := &saga.OrderContext{
		Ctx:         checkoutCtx,
		Tracer:      s.tracer,
		UserID:      req.UserID,
		SessionID:   req.SessionID,
		Customer:    req.customer(),
		PromoCode:   req.PromoCode,
		CartService: s.cartService,
		Promotion:   s.promotion,
		Locker:      s.locker,
		Notifier:    s.notifier,
		Repo:        s.repo,
	}
	// 链内任何一条早退路径都不能把优惠码的锁留在手里
	defer orderContext.ReleaseLock()

	if err := s.buildChain().Handle(orderContext); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "checkout chain failed")
		ordersFailedTotal.Inc()
		if errors.Is(err, port.ErrPromoRejected) {
			promoRejectionsTotal.Inc()
		}
		orderContext.TriggerCompensation(checkoutCtx)
		return nil, err
	}

	// 草稿的使命到此结束，删不掉也无妨，有 TTL 兜底
	if err := s.drafts.Delete(checkoutCtx, req.SessionID); err != nil {
		logger.Ctx(checkoutCtx).Warn().Err(err).Msg("failed to delete checkout draft")
	}

	ordersPlacedTotal.Inc()
	span.SetAttributes(attribute.String("order.id", orderContext.Order.ID))
	logger.Ctx(checkoutCtx).Info().
		Str("order_id", orderContext.Order.ID).
		Str("total", orderContext.Order.Total.StringFixed(2)).
		Msg("order placed")
	return newReceipt(orderContext.Order), nil
}

func (s *OrderApplicationService) buildChain() saga.Handler {
	chain := new(saga.ValidateHandler)
	chain.
		SetNext(new(saga.PricingHandler)).
		SetNext(new(saga.PromoRecheckHandler)).
		SetNext(new(saga.PersistOrderHandler)).
		SetNext(new(saga.RecordUsageHandler)).
		SetNext(new(saga.NotifyHandler)).
		SetNext(new(saga.ClearCartHandler))
	return chain
}

// GetDraft 返回会话的结账草稿，没有时返回空草稿。
func (s *OrderApplicationService) GetDraft(ctx context.Context, sessionID string) (*CheckoutDraft, error) {
	return s.drafts.Get(ctx, sessionID)
}

// UpdateDraftContact 更新草稿里的收货信息。
// 返回值第二项表示这次更新是否作废了已套用的优惠。
func (s *OrderApplicationService) UpdateDraftContact(ctx context.Context, sessionID, phone, address, district string) (*CheckoutDraft, bool, error) {
	ctx, span := s.tracer.Start(ctx, "app.UpdateDraftContact")
	defer span.End()

	draft, err := s.drafts.Get(ctx, sessionID)
	if err != nil {
		return nil, false, err
	}

	invalidated := draft.SetContact(phone, address, district)
	if invalidated {
		span.AddEvent("applied promo invalidated by contact edit")
		logger.Ctx(ctx).Info().Str("session_id", sessionID).Msg("checkout contact changed, promo cleared")
	}

	if err := s.drafts.Save(ctx, sessionID, draft); err != nil {
		return nil, false, err
	}
	return draft, invalidated, nil
}

// ApplyDraftPromo 对草稿套用优惠码：按当前购物车小计做预校验，
// 通过后把结果记到草稿上。这只是预览，提交时还会权威复核。
func (s *OrderApplicationService) ApplyDraftPromo(ctx context.Context, req *CheckoutRequest) (*CheckoutDraft, error) {
	ctx, span := s.tracer.Start(ctx, "app.ApplyDraftPromo")
	defer span.End()

	cart, err := s.cartService.GetCart(ctx, req.UserID, req.SessionID)
	if err != nil {
		return nil, errors.Wrap(err, "fetch cart snapshot")
	}
	subtotal := decimal.Zero
	for _, item := range cart.Items {
		subtotal = subtotal.Add(item.Price.Mul(decimal.NewFromInt(int64(item.Quantity))))
	}

	quote, err := s.promotion.VerifyPromo(ctx, &port.VerifyPromoRequest{
		Phone:    req.Phone,
		Address:  req.Address,
		District: req.District,
		Code:     req.PromoCode,
		Subtotal: subtotal,
	})
	if err != nil {
		span.RecordError(err)
		return nil, err
	}

	draft, err := s.drafts.Get(ctx, req.SessionID)
	if err != nil {
		return nil, err
	}
	draft.SetContact(req.Phone, req.Address, req.District)
	draft.ApplyPromo(quote.Code, quote.Rate, quote.Discount)
	if err := s.drafts.Save(ctx, req.SessionID, draft); err != nil {
		return nil, err
	}
	return draft, nil
}

// ListOrders 返回后台订单列表，按下单时间倒序。
func (s *OrderApplicationService) ListOrders(ctx context.Context, statusFilter string, limit int) ([]*OrderSummary, error) {
	ctx, span := s.tracer.Start(ctx, "app.ListOrders")
	defer span.End()

	filter := domain.ListFilter{Limit: limit}
	if statusFilter != "" {
		status, err := domain.ParseStatus(statusFilter)
		if err != nil {
			return nil, err
		}
		filter.Status = status
	}

	orders, err := s.repo.List(ctx, filter)
	if err != nil {
		return nil, errors.Wrap(err, "list orders")
	}

	summaries := make([]*OrderSummary, 0, len(orders))
	for _, order := range orders {
		summaries = append(summaries, newOrderSummary(order))
	}
	return summaries, nil
}

// GetOrder 返回单个订单的完整回执视图。
func (s *OrderApplicationService) GetOrder(ctx context.Context, orderID string) (*Receipt, error) {
	order, err := s.repo.FindByID(ctx, orderID)
	if err != nil {
		return nil, err
	}
	receipt := newReceipt(order)
	receipt.Status = string(order.Status)
	receipt.Message = ""
	return receipt, nil
}

// UpdateStatus 是后台的状态流转入口，任意方向的切换都允许。
func (s *OrderApplicationService) UpdateStatus(ctx context.Context, orderID, rawStatus string) error {
	ctx, span := s.tracer.Start(ctx, "app.UpdateOrderStatus")
	defer span.End()
	span.SetAttributes(
		attribute.String("order.id", orderID),
		attribute.String("order.status", rawStatus),
	)

	status, err := domain.ParseStatus(rawStatus)
	if err != nil {
		return err
	}
	order, err := s.repo.FindByID(ctx, orderID)
	if err != nil {
		return err
	}
	if err := order.SetStatus(status); err != nil {
		return err
	}
	if err := s.repo.UpdateStatus(ctx, order.ID, status); err != nil {
		return errors.Wrap(err, "update order status")
	}
	logger.Ctx(ctx).Info().Str("order_id", orderID).Str("status", string(status)).Msg("order status updated")
	return nil
}

// Analytics 是后台首页的经营统计：各状态订单量和已成交金额。
type Analytics struct {
	StatusCounts map[string]int `json:"status_counts"`
	TotalOrders  int            `json:"total_orders"`
	Revenue      string         `json:"revenue"` // 不含已取消订单
}

// GetAnalytics 按状态并发拉取订单做聚合统计。
func (s *OrderApplicationService) GetAnalytics(ctx context.Context) (*Analytics, error) {
	ctx, span := s.tracer.Start(ctx, "app.GetAnalytics")
	defer span.End()

	statuses := []domain.Status{
		domain.StatusPending,
		domain.StatusProcessing,
		domain.StatusOutForDelivery,
		domain.StatusDelivered,
		domain.StatusCancelled,
	}

	counts := make([]int, len(statuses))
	revenues := make([]decimal.Decimal, len(statuses))

	g, gctx := errgroup.WithContext(ctx)
	for i, status := range statuses {
		g.Go(func() error {
			orders, err := s.repo.List(gctx, domain.ListFilter{Status: status})
			if err != nil {
				return errors.Wrapf(err, "list %s orders", status)
			}
			counts[i] = len(orders)
			sum := decimal.Zero
			if status != domain.StatusCancelled {
				for _, order := range orders {
					sum = sum.Add(order.Total)
				}
			}
			revenues[i] = sum
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		span.RecordError(err)
		return nil, err
	}

	result := &Analytics{StatusCounts: make(map[string]int, len(statuses))}
	revenue := decimal.Zero
	for i, status := range statuses {
		result.StatusCounts[string(status)] = counts[i]
		result.TotalOrders += counts[i]
		revenue = revenue.Add(revenues[i])
	}
	result.Revenue = revenue.StringFixed(2)
	return result, nil
}
