package middleware

import (
	"sync"

	"github.com/ansrivas/fiberprometheus/v2"
	"github.com/gofiber/fiber/v2"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// RedisErrors counts Redis command failures by command name.
var RedisErrors = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Name: "bazaar_redis_errors_total",
		Help: "Total number of Redis command errors",
	},
	[]string{"command"},
)

// ActiveWebSockets tracks the number of open notification websocket connections.
var ActiveWebSockets = promauto.NewGauge(
	prometheus.GaugeOpts{
		Name: "bazaar_websocket_connections",
		Help: "Number of currently open websocket connections",
	},
)

// NotificationsPublished counts notifications pushed to users by type.
var NotificationsPublished = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Name: "bazaar_notifications_published_total",
		Help: "Total number of notifications published, by notification type",
	},
	[]string{"type"},
)

var (
	promOnce     sync.Once
	promInstance *fiberprometheus.FiberPrometheus
)

// InitMetrics sets up the prometheus HTTP middleware for the given service
// name. The instance registers collectors in the default registry, so it is
// created once and shared.
func InitMetrics(serviceName string) *fiberprometheus.FiberPrometheus {
	promOnce.Do(func() {
		promInstance = fiberprometheus.New(serviceName)
	})
	return promInstance
}

// MetricsMiddleware returns the request instrumentation handler.
func MetricsMiddleware(p *fiberprometheus.FiberPrometheus) fiber.Handler {
	return p.Middleware
}
