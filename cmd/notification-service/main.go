// cmd/notification-service/main.go
package main

import (
	"context"
	"net/http"

	"garde/internal/pkg/bootstrap"
	"garde/internal/pkg/logger"
	"garde/internal/pkg/mq"
	"garde/internal/service/notification/application"
	"garde/internal/service/notification/infrastructure"
	"garde/internal/service/notification/interfaces"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.opentelemetry.io/otel"
)

const (
	serviceName     = "notification-service"
	orderEventTopic = "order-events"
	consumerGroupID = "notification-group"
)

// main 是 notification 服务的组装根。服务本体是个 Kafka 消费者，
// HTTP 端口只承载健康检查和指标。
func main() {
	bootstrap.Init()
	cfg := bootstrap.GetCurrentConfig()

	consumerCtx, cancel := context.WithCancel(context.Background())
	var consumer *interfaces.KafkaConsumer

	bootstrap.StartService(bootstrap.AppInfo{
		ServiceName: serviceName,
		Port:        8087,
		RegisterHandlers: func(appCtx bootstrap.AppCtx) {
			tracer := otel.Tracer(serviceName)

			sender := infrastructure.NewCallMeBotClient(cfg.Infra.CallMeBot.Phone, cfg.Infra.CallMeBot.APIKey)
			service := application.NewNotificationService(sender, tracer)

			reader := mq.NewKafkaReader(cfg.Infra.Kafka.Brokers, orderEventTopic, consumerGroupID)
			consumer = interfaces.NewKafkaConsumer(reader, service, tracer)
			go consumer.Run(consumerCtx)

			appCtx.Mux.HandleFunc("/healthz", func(w http.ResponseWriter, r *http.Request) { w.WriteHeader(http.StatusOK) })
			appCtx.Mux.Handle("/metrics", promhttp.Handler())
		},
		OnShutdown: func(ctx context.Context) {
			cancel()
			if consumer != nil {
				if err := consumer.Close(); err != nil {
					logger.Logger().Error().Err(err).Msg("error closing kafka consumer")
				}
			}
		},
	})
}
