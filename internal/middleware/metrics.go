package middleware

import (
	"github.com/ansrivas/fiberprometheus/v2"
	"github.com/gofiber/fiber/v2"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// RedisErrors counts failed Redis commands by command name.
	RedisErrors = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "recipehub_redis_errors_total",
		Help: "Total number of Redis command errors.",
	}, []string{"command"})

	// ExperimentLogFailures counts best-effort experiment writes that did not
	// persist. The page response is unaffected; this is how those failures
	// stay observable.
	ExperimentLogFailures = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "recipehub_experiment_log_failures_total",
		Help: "Total number of A/B experiment impression/click writes that failed.",
	}, []string{"kind"})

	// RecipeWrites counts authoring mutations by operation and outcome.
	RecipeWrites = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "recipehub_recipe_writes_total",
		Help: "Total number of recipe create/update/delete operations.",
	}, []string{"operation", "outcome"})
)

// InitMetrics creates the Prometheus middleware for the given service name.
func InitMetrics(serviceName string) *fiberprometheus.FiberPrometheus {
	return fiberprometheus.New(serviceName)
}

// MetricsMiddleware wraps the fiberprometheus handler as a Fiber middleware.
func MetricsMiddleware(prom *fiberprometheus.FiberPrometheus) fiber.Handler {
	return prom.Middleware
}
