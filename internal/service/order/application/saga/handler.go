// internal/service/order/application/saga/handler.go
package saga

import (
	"context"
	"sync"

	"garde/internal/pkg/logger"
	"garde/internal/service/order/domain"
	"garde/internal/service/order/port"

	"github.com/shopspring/decimal"
	"go.opentelemetry.io/otel/trace"
)

// OrderContext 在结账流程的责任链中传递上下文数据。
// 所有外部依赖都是出站端口，方便在测试里替换成假实现。
type OrderContext struct {
	Ctx    context.Context
	Tracer trace.Tracer

	// 请求输入
	UserID    string
	SessionID string
	Customer  domain.Customer
	PromoCode string

	// 链上各环节的产出
	Cart        *port.CartSnapshot
	Lines       []domain.OrderLine
	Quote       *port.PromoQuote // 优惠复核结果，没用码时为 nil
	DeliveryFee decimal.Decimal
	Order       *domain.Order // 持久化环节之后可用

	// 出站端口
	CartService port.CartService
	Promotion   port.PromotionService
	Locker      port.Locker
	Notifier    port.NotificationProducer
	Repo        domain.OrderRepository

	// Saga 补偿栈，后注册的先执行
	compensations []func(ctx context.Context)
	compLock      sync.Mutex

	// 优惠码互斥锁的释放函数，复核环节设置。
	// 记账完成或流程失败后释放，保证"查+记"窗口内没有并发提交。
	lockRelease func()
	lockOnce    sync.Once
}

func (c *OrderContext) AddCompensation(comp func(ctx context.Context)) {
	c.compLock.Lock()
	defer c.compLock.Unlock()
	c.compensations = append([]func(context.Context){comp}, c.compensations...)
}

func (c *OrderContext) TriggerCompensation(ctx context.Context) {
	c.compLock.Lock()
	defer c.compLock.Unlock()
	logger.Ctx(ctx).Info().Int("count", len(c.compensations)).Msg("executing saga compensations")
	for _, comp := range c.compensations {
		comp(ctx)
	}
}

// HoldLock 登记优惠码互斥锁的释放函数。
func (c *OrderContext) HoldLock(release func()) {
	c.lockRelease = release
}

// ReleaseLock 幂等地释放优惠码互斥锁。
func (c *OrderContext) ReleaseLock() {
	c.lockOnce.Do(func() {
		if c.lockRelease != nil {
			c.lockRelease()
		}
	})
}

type Handler interface {
	SetNext(handler Handler) Handler
	Handle(orderCtx *OrderContext) error
}

type NextHandler struct {
	next Handler
}

func (h *NextHandler) SetNext(handler Handler) Handler {
	h.next = handler
	return handler
}

func (h *NextHandler) executeNext(orderCtx *OrderContext) error {
	if h.next != nil {
		return h.next.Handle(orderCtx)
	}
	return nil
}
