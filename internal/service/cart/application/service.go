// internal/service/cart/application/service.go
package application

import (
	"context"

	"garde/internal/pkg/logger"
	"garde/internal/service/cart/domain"
	"garde/internal/service/cart/port"

	"github.com/pkg/errors"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

var ErrProductNotFound = errors.New("product not found in catalog")

// SessionRef 标识一次请求属于哪个购物车。
// Authenticated 决定走哪个 Store 实现。
type SessionRef struct {
	ID            string
	Authenticated bool
}

// CartService 编排购物车用例。所有变更走同一条路径：
// 读聚合 → 调领域方法 → 全量保存 → 重新读取返回。
// 重新读取让数据库实现保持「服务端为准」的语义，对 Redis 实现无害。
type CartService struct {
	guestStore domain.Store
	userStore  domain.Store
	catalog    port.CatalogProvider
	tracer     trace.Tracer
}

func NewCartService(guestStore, userStore domain.Store, catalog port.CatalogProvider, tracer trace.Tracer) *CartService {
	return &CartService{
		guestStore: guestStore,
		userStore:  userStore,
		catalog:    catalog,
		tracer:     tracer,
	}
}

func (s *CartService) store(ref SessionRef) domain.Store {
	if ref.Authenticated {
		return s.userStore
	}
	return s.guestStore
}

// GetCart 返回当前购物车（不存在则是空车）。
func (s *CartService) GetCart(ctx context.Context, ref SessionRef) (*domain.Cart, error) {
	ctx, span := s.tracer.Start(ctx, "cart.GetCart")
	defer span.End()
	return s.store(ref).Get(ctx, ref.ID)
}

// AddItem 加购：从目录取商品快照，合并进购物车并落盘。
func (s *CartService) AddItem(ctx context.Context, ref SessionRef, productID string, quantity int) (*domain.Cart, error) {
	ctx, span := s.tracer.Start(ctx, "cart.AddItem")
	defer span.End()
	span.SetAttributes(
		attribute.String("product.id", productID),
		attribute.Int("quantity", quantity),
	)

	product, err := s.catalog.GetProduct(ctx, productID)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "catalog lookup failed")
		return nil, errors.Wrapf(ErrProductNotFound, "product %s: %v", productID, err)
	}

	store := s.store(ref)
	cart, err := store.Get(ctx, ref.ID)
	if err != nil {
		return nil, err
	}

	cart.AddItem(domain.ProductSnapshot{
		ProductID: product.ProductID,
		Name:      product.Name,
		UnitPrice: product.Price,
		ImageURL:  product.ImageURL,
	}, quantity)

	if err := store.Save(ctx, cart); err != nil {
		span.RecordError(err)
		return nil, err
	}

	logger.Ctx(ctx).Info().
		Str("session", ref.ID).
		Str("product", productID).
		Int("quantity", quantity).
		Msg("item added to cart")
	return store.Get(ctx, ref.ID)
}

// UpdateQuantity 覆盖某行的数量。非法数量和未知商品由领域层静默忽略。
func (s *CartService) UpdateQuantity(ctx context.Context, ref SessionRef, productID string, quantity int) (*domain.Cart, error) {
	ctx, span := s.tracer.Start(ctx, "cart.UpdateQuantity")
	defer span.End()

	store := s.store(ref)
	cart, err := store.Get(ctx, ref.ID)
	if err != nil {
		return nil, err
	}
	cart.UpdateQuantity(productID, quantity)
	if err := store.Save(ctx, cart); err != nil {
		return nil, err
	}
	return store.Get(ctx, ref.ID)
}

// RemoveItem 删行。商品不在车里也返回成功。
func (s *CartService) RemoveItem(ctx context.Context, ref SessionRef, productID string) (*domain.Cart, error) {
	ctx, span := s.tracer.Start(ctx, "cart.RemoveItem")
	defer span.End()

	store := s.store(ref)
	cart, err := store.Get(ctx, ref.ID)
	if err != nil {
		return nil, err
	}
	cart.RemoveItem(productID)
	if err := store.Save(ctx, cart); err != nil {
		return nil, err
	}
	return store.Get(ctx, ref.ID)
}

// Clear 清空购物车，下单成功后由订单服务调用。
func (s *CartService) Clear(ctx context.Context, ref SessionRef) error {
	ctx, span := s.tracer.Start(ctx, "cart.Clear")
	defer span.End()
	return s.store(ref).Clear(ctx, ref.ID)
}
