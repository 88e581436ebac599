// cmd/catalog-service/main.go
package main

import (
	"context"
	"net/http"

	"garde/internal/pkg/bootstrap"
	"garde/internal/pkg/logger"
	"garde/internal/pkg/redis"
	"garde/internal/pkg/sheets"
	"garde/internal/service/catalog/application"
	"garde/internal/service/catalog/domain"
	"garde/internal/service/catalog/infrastructure"
	"garde/internal/service/catalog/interfaces"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.opentelemetry.io/otel"
	"gorm.io/driver/mysql"
	"gorm.io/gorm"
)

const serviceName = "catalog-service"

// main 是 catalog 服务的组装根：根据配置选择商品表的后端
// （MySQL 或电子表格），装配缓存和 HTTP 接口。
func main() {
	bootstrap.Init()
	cfg := bootstrap.GetCurrentConfig()

	bootstrap.StartService(bootstrap.AppInfo{
		ServiceName: serviceName,
		Port:        8082,
		RegisterHandlers: func(appCtx bootstrap.AppCtx) {
			tracer := otel.Tracer(serviceName)

			var repo domain.Repository
			var requests domain.RequestBook
			switch cfg.App.Storage.Backend {
			case "sheets":
				client, err := sheets.NewClient(context.Background(), cfg.Infra.Sheets.CredentialsFile, cfg.Infra.Sheets.SpreadsheetID)
				if err != nil {
					logger.Logger().Fatal().Err(err).Msg("failed to create sheets client")
				}
				repo = infrastructure.NewSheetsRepository(client)
				requests, err = infrastructure.NewSheetsRequestBook(context.Background(), client)
				if err != nil {
					logger.Logger().Fatal().Err(err).Msg("failed to init request book")
				}
			default:
				db, err := gorm.Open(mysql.Open(cfg.Infra.Mysql.DSN), &gorm.Config{})
				if err != nil {
					logger.Logger().Fatal().Err(err).Msg("failed to connect to mysql")
				}
				repo, err = infrastructure.NewGormRepository(db)
				if err != nil {
					logger.Logger().Fatal().Err(err).Msg("failed to init catalog repository")
				}
				requests, err = infrastructure.NewGormRequestBook(db)
				if err != nil {
					logger.Logger().Fatal().Err(err).Msg("failed to init request book")
				}
			}

			cache := redis.NewClient(cfg.Infra.Redis.Addr)
			service := application.NewCatalogService(repo, requests, cache, tracer)

			interfaces.NewCatalogHandler(service).RegisterRoutes(appCtx.Mux)
			appCtx.Mux.HandleFunc("/healthz", func(w http.ResponseWriter, r *http.Request) { w.WriteHeader(http.StatusOK) })
			appCtx.Mux.Handle("/metrics", promhttp.Handler())
		},
	})
}
