// internal/service/order/application/saga/pricing.go
package saga

import (
	"errors"
	"fmt"
	"sync"

	"garde/internal/service/order/domain"

	"go.opentelemetry.io/otel/codes"
)

// PricingHandler 负责把购物车快照折算成订单行，并查询地区运费。
// 两件事互不依赖，并发去做。
type PricingHandler struct {
	NextHandler
}

func (h *PricingHandler) Handle(orderCtx *OrderContext) error {
	ctx, span := orderCtx.Tracer.Start(orderCtx.Ctx, "saga.Pricing")
	defer span.End()

	var wg sync.WaitGroup
	errs := make(chan error, 2)
	wg.Add(2)

	// Goroutine 1: 查询地区运费
	go func() {
		defer wg.Done()
		fee, _, err := orderCtx.Promotion.DeliveryFee(ctx, orderCtx.Customer.District)
		if err != nil {
			errs <- fmt.Errorf("delivery fee lookup: %w", err)
			return
		}
		orderCtx.DeliveryFee = fee
	}()

	// Goroutine 2: 购物车快照 → 订单行
	go func() {
		defer wg.Done()
		lines := make([]domain.OrderLine, 0, len(orderCtx.Cart.Items))
		for _, item := range orderCtx.Cart.Items {
			lines = append(lines, domain.OrderLine{
				ProductID: item.ProductID,
				Name:      item.Name,
				Price:     item.Price,
				Quantity:  item.Quantity,
			})
		}
		orderCtx.Lines = lines
	}()

	wg.Wait()
	close(errs)

	var combinedErr error
	for err := range errs {
		combinedErr = errors.Join(combinedErr, err)
	}
	if combinedErr != nil {
		span.RecordError(combinedErr)
		span.SetStatus(codes.Error, "pricing failed")
		return combinedErr
	}

	span.AddEvent("order lines and delivery fee resolved")
	return h.executeNext(orderCtx)
}
