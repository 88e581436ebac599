// cmd/promotion-service/main.go
package main

import (
	"context"
	"net/http"

	"garde/internal/pkg/bootstrap"
	"garde/internal/pkg/logger"
	"garde/internal/pkg/sheets"
	"garde/internal/service/promotion/application"
	"garde/internal/service/promotion/domain"
	"garde/internal/service/promotion/infrastructure"
	"garde/internal/service/promotion/infrastructure/rule"
	"garde/internal/service/promotion/interfaces"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.opentelemetry.io/otel"
	"gorm.io/driver/mysql"
	"gorm.io/gorm"
)

const serviceName = "promotion-service"

// main 是 promotion 服务的组装根：从配置装配优惠码表和运费表，
// 按后端选择使用台账的实现。
func main() {
	bootstrap.Init()
	cfg := bootstrap.GetCurrentConfig()

	bootstrap.StartService(bootstrap.AppInfo{
		ServiceName: serviceName,
		Port:        8086,
		RegisterHandlers: func(appCtx bootstrap.AppCtx) {
			tracer := otel.Tracer(serviceName)

			rates, err := cfg.App.Promo.Rates()
			if err != nil {
				logger.Logger().Fatal().Err(err).Msg("invalid promo rate in config")
			}
			codes := make([]domain.PromoCode, 0, len(cfg.App.Promo.Codes))
			for _, c := range cfg.App.Promo.Codes {
				codes = append(codes, domain.PromoCode{Code: c.Code, Rate: rates[c.Code], Rule: c.Rule})
			}
			table := domain.NewPromoTable(codes)
			schedule := domain.NewFeeSchedule(cfg.App.Delivery.Tiers, cfg.App.Delivery.DefaultFee, cfg.App.Delivery.DisplayNote)

			var ledger domain.UsageLedger
			switch cfg.App.Storage.Backend {
			case "sheets":
				client, err := sheets.NewClient(context.Background(), cfg.Infra.Sheets.CredentialsFile, cfg.Infra.Sheets.SpreadsheetID)
				if err != nil {
					logger.Logger().Fatal().Err(err).Msg("failed to create sheets client")
				}
				ledger, err = infrastructure.NewSheetsLedger(context.Background(), client)
				if err != nil {
					logger.Logger().Fatal().Err(err).Msg("failed to init sheets usage ledger")
				}
			default:
				db, err := gorm.Open(mysql.Open(cfg.Infra.Mysql.DSN), &gorm.Config{})
				if err != nil {
					logger.Logger().Fatal().Err(err).Msg("failed to connect to mysql")
				}
				ledger, err = infrastructure.NewGormLedger(db)
				if err != nil {
					logger.Logger().Fatal().Err(err).Msg("failed to init usage ledger")
				}
			}

			engine, err := rule.NewCELRuleEngine()
			if err != nil {
				logger.Logger().Fatal().Err(err).Msg("failed to init rule engine")
			}

			service := application.NewPromotionService(table, schedule, ledger, engine, tracer)

			interfaces.NewPromotionHandler(service).RegisterRoutes(appCtx.Mux)
			appCtx.Mux.HandleFunc("/healthz", func(w http.ResponseWriter, r *http.Request) { w.WriteHeader(http.StatusOK) })
			appCtx.Mux.Handle("/metrics", promhttp.Handler())
		},
	})
}
