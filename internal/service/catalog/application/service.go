// internal/service/catalog/application/service.go
package application

import (
	"context"
	"encoding/json"
	"time"

	"garde/internal/pkg/logger"
	"garde/internal/pkg/redis"
	"garde/internal/service/catalog/domain"

	"github.com/pkg/errors"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
	"golang.org/x/sync/singleflight"
)

const listCacheTTL = 30 * time.Second

// CatalogService 提供商品目录的读取用例和到货请求的记录。
// 列表查询带一层 Redis 读穿缓存，singleflight 把同一分类的
// 并发回源折叠成一次，表格后端的配额经不起惊群。
type CatalogService struct {
	repo     domain.Repository
	requests domain.RequestBook
	cache    *redis.Client
	group    singleflight.Group
	tracer   trace.Tracer
}

func NewCatalogService(repo domain.Repository, requests domain.RequestBook, cache *redis.Client, tracer trace.Tracer) *CatalogService {
	return &CatalogService{
		repo:     repo,
		requests: requests,
		cache:    cache,
		tracer:   tracer,
	}
}

func listCacheKey(category string) string {
	if category == "" {
		return "catalog:list:all"
	}
	return "catalog:list:" + category
}

// ListProducts 返回目录列表，可按分类过滤。
func (s *CatalogService) ListProducts(ctx context.Context, category string) ([]domain.Product, error) {
	ctx, span := s.tracer.Start(ctx, "catalog.ListProducts")
	defer span.End()
	span.SetAttributes(attribute.String("catalog.category", category))

	key := listCacheKey(category)
	if s.cache != nil {
		if data, err := s.cache.Get(ctx, key); err == nil {
			var products []domain.Product
			if err := json.Unmarshal(data, &products); err == nil {
				span.AddEvent("catalog cache hit")
				return products, nil
			}
		}
	}

	result, err, _ := s.group.Do(key, func() (interface{}, error) {
		products, err := s.repo.ListProducts(ctx, category)
		if err != nil {
			return nil, err
		}
		if s.cache != nil {
			if data, err := json.Marshal(products); err == nil {
				if err := s.cache.Set(ctx, key, data, listCacheTTL); err != nil {
					logger.Ctx(ctx).Warn().Err(err).Msg("failed to cache catalog list")
				}
			}
		}
		return products, nil
	})
	if err != nil {
		span.RecordError(err)
		return nil, err
	}
	return result.([]domain.Product), nil
}

// GetProduct 返回单个商品，加购时被 cart 服务调用。
func (s *CatalogService) GetProduct(ctx context.Context, productID string) (*domain.Product, error) {
	ctx, span := s.tracer.Start(ctx, "catalog.GetProduct")
	defer span.End()
	span.SetAttributes(attribute.String("product.id", productID))

	return s.repo.FindByID(ctx, productID)
}

// SaveRequest 记录一条顾客的到货请求。
func (s *CatalogService) SaveRequest(ctx context.Context, productName, details string) error {
	ctx, span := s.tracer.Start(ctx, "catalog.SaveRequest")
	defer span.End()

	req, err := domain.NewProductRequest(productName, details)
	if err != nil {
		return err
	}
	span.SetAttributes(attribute.String("request.product", req.ProductName))

	if err := s.requests.Add(ctx, req); err != nil {
		span.RecordError(err)
		return errors.Wrap(err, "append product request")
	}
	logger.Ctx(ctx).Info().Str("product", req.ProductName).Msg("product request recorded")
	return nil
}
