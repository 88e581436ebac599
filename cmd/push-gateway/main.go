// cmd/push-gateway/main.go
package main

import (
	"context"
	"net/http"

	"garde/internal/pkg/bootstrap"
	"garde/internal/pkg/logger"
	"garde/internal/pkg/mq"
	"garde/internal/service/push"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.opentelemetry.io/otel"
)

const (
	serviceName     = "push-gateway"
	orderEventTopic = "order-events"
	consumerGroupID = "push-gateway-group"
)

// main 是 push-gateway 的组装根：后台页面通过 /ws 建立 WebSocket，
// 网关消费 order-events，把新订单实时推到所有在线页面。
func main() {
	bootstrap.Init()
	cfg := bootstrap.GetCurrentConfig()

	consumerCtx, cancel := context.WithCancel(context.Background())
	var consumer *push.Consumer

	bootstrap.StartService(bootstrap.AppInfo{
		ServiceName: serviceName,
		Port:        8088,
		RegisterHandlers: func(appCtx bootstrap.AppCtx) {
			tracer := otel.Tracer(serviceName)

			hub := push.NewHub()
			go hub.Run()

			reader := mq.NewKafkaReader(cfg.Infra.Kafka.Brokers, orderEventTopic, consumerGroupID)
			consumer = push.NewConsumer(reader, hub, tracer)
			go consumer.Run(consumerCtx)

			appCtx.Mux.HandleFunc("/ws", func(w http.ResponseWriter, r *http.Request) {
				push.ServeWs(hub, w, r)
			})
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
