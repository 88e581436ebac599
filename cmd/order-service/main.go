// cmd/order-service/main.go
package main

import (
	"context"
	"net/http"
	"time"

	"garde/internal/pkg/bootstrap"
	"garde/internal/pkg/httpclient"
	"garde/internal/pkg/logger"
	"garde/internal/pkg/redis"
	"garde/internal/pkg/sheets"
	"garde/internal/pkg/zookeeper"
	"garde/internal/service/order/application"
	"garde/internal/service/order/domain"
	"garde/internal/service/order/infrastructure"
	"garde/internal/service/order/infrastructure/adapter"
	"garde/internal/service/order/interfaces"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.opentelemetry.io/otel"
	"gorm.io/driver/mysql"
	"gorm.io/gorm"
)

const serviceName = "order-service"

// 单次结账的处理上限，覆盖全部下游调用。
const checkoutTimeout = 30 * time.Second

// main 是 order 服务的组装根，依赖最多的一个服务：
// 订单仓储（MySQL/电子表格）、购物车和优惠服务的 HTTP 端口、
// Kafka 事件出口、ZooKeeper 互斥锁、Redis 结账草稿。
func main() {
	bootstrap.Init()
	cfg := bootstrap.GetCurrentConfig()

	bootstrap.StartService(bootstrap.AppInfo{
		ServiceName: serviceName,
		Port:        8081,
		RegisterHandlers: func(appCtx bootstrap.AppCtx) {
			tracer := otel.Tracer(serviceName)

			var repo domain.OrderRepository
			switch cfg.App.Storage.Backend {
			case "sheets":
				client, err := sheets.NewClient(context.Background(), cfg.Infra.Sheets.CredentialsFile, cfg.Infra.Sheets.SpreadsheetID)
				if err != nil {
					logger.Logger().Fatal().Err(err).Msg("failed to create sheets client")
				}
				repo, err = infrastructure.NewSheetsRepository(context.Background(), client)
				if err != nil {
					logger.Logger().Fatal().Err(err).Msg("failed to init sheets order repository")
				}
			default:
				db, err := gorm.Open(mysql.Open(cfg.Infra.Mysql.DSN), &gorm.Config{})
				if err != nil {
					logger.Logger().Fatal().Err(err).Msg("failed to connect to mysql")
				}
				repo, err = infrastructure.NewGormRepository(db)
				if err != nil {
					logger.Logger().Fatal().Err(err).Msg("failed to init order repository")
				}
			}

			zkConn, err := zookeeper.Connect(cfg.Infra.Zookeeper.Servers)
			if err != nil {
				logger.Logger().Fatal().Err(err).Msg("failed to connect to zookeeper")
			}

			client := httpclient.NewClient(tracer, appCtx.Nacos)
			drafts := infrastructure.NewRedisDraftStore(redis.NewClient(cfg.Infra.Redis.Addr))
			notifier := adapter.NewNotificationKafkaAdapter(cfg.Infra.Kafka.Brokers)

			service := application.NewOrderApplicationService(
				repo,
				adapter.NewCartHTTPAdapter(client),
				adapter.NewPromotionHTTPAdapter(client),
				adapter.NewZkLockAdapter(zkConn),
				notifier,
				drafts,
				checkoutTimeout,
				tracer,
			)

			interfaces.NewOrderHandler(service).RegisterRoutes(appCtx.Mux)
			appCtx.Mux.HandleFunc("/healthz", func(w http.ResponseWriter, r *http.Request) { w.WriteHeader(http.StatusOK) })
			appCtx.Mux.Handle("/metrics", promhttp.Handler())
		},
	})
}
