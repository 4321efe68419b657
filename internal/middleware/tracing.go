package middleware

import (
	"fmt"

	"recipehub/internal/observability"

	"github.com/gofiber/fiber/v2"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
)

// TracingMiddleware starts a server span per request and records the route,
// method, status, and any handler error on it.
func TracingMiddleware() fiber.Handler {
	return func(c *fiber.Ctx) error {
		spanName := fmt.Sprintf("%s %s", c.Method(), c.Path())
		span, ctx := observability.NewSpan(c.UserContext(), spanName,
			trace.WithSpanKind(trace.SpanKindServer))
		defer span.End()

		c.SetUserContext(ctx)

		err := c.Next()

		span.AddAttributes(
			attribute.String("http.method", c.Method()),
			attribute.String("http.target", c.Path()),
			attribute.Int("http.status_code", c.Response().StatusCode()),
			attribute.String("client.address", c.IP()),
		)
		if err != nil {
			span.SetError(err)
		}

		return err
	}
}
