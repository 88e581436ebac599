// cmd/cart-service/main.go
package main

import (
	"net/http"

	"garde/internal/pkg/bootstrap"
	"garde/internal/pkg/httpclient"
	"garde/internal/pkg/logger"
	"garde/internal/pkg/redis"
	"garde/internal/service/cart/application"
	"garde/internal/service/cart/domain"
	"garde/internal/service/cart/infrastructure"
	"garde/internal/service/cart/infrastructure/adapter"
	"garde/internal/service/cart/interfaces"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.opentelemetry.io/otel"
	"gorm.io/driver/mysql"
	"gorm.io/gorm"
)

const serviceName = "cart-service"

// main 是 cart 服务的组装根。游客车永远在 Redis；
// 登录用户车在 MySQL 后端下落库，电子表格部署时同样放 Redis
// （表格不适合高频的购物车读写）。
func main() {
	bootstrap.Init()
	cfg := bootstrap.GetCurrentConfig()

	bootstrap.StartService(bootstrap.AppInfo{
		ServiceName: serviceName,
		Port:        8083,
		RegisterHandlers: func(appCtx bootstrap.AppCtx) {
			tracer := otel.Tracer(serviceName)

			redisClient := redis.NewClient(cfg.Infra.Redis.Addr)
			guestStore := infrastructure.NewRedisStore(redisClient)

			var userStore domain.Store = guestStore
			if cfg.App.Storage.Backend != "sheets" {
				db, err := gorm.Open(mysql.Open(cfg.Infra.Mysql.DSN), &gorm.Config{})
				if err != nil {
					logger.Logger().Fatal().Err(err).Msg("failed to connect to mysql")
				}
				userStore, err = infrastructure.NewGormStore(db)
				if err != nil {
					logger.Logger().Fatal().Err(err).Msg("failed to init user cart store")
				}
			}

			catalog := adapter.NewCatalogHTTPAdapter(httpclient.NewClient(tracer, appCtx.Nacos))
			service := application.NewCartService(guestStore, userStore, catalog, tracer)

			interfaces.NewCartHandler(service).RegisterRoutes(appCtx.Mux)
			appCtx.Mux.HandleFunc("/healthz", func(w http.ResponseWriter, r *http.Request) { w.WriteHeader(http.StatusOK) })
			appCtx.Mux.Handle("/metrics", promhttp.Handler())
		},
	})
}
