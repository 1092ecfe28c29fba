package middleware

import (
	"strconv"

	"github.com/finaccosolutions/finacco-backend/internal/metrics"

	"github.com/gofiber/fiber/v2"
)

// Metrics counts finished requests by method, route template and status.
func Metrics() fiber.Handler {
	return func(c *fiber.Ctx) error {
		err := c.Next()

		status := c.Response().StatusCode()
		if err != nil {
			if fiberErr, ok := err.(*fiber.Error); ok {
				status = fiberErr.Code
			} else {
				status = fiber.StatusInternalServerError
			}
		}

		route := c.Route().Path
		if route == "" {
			route = c.Path()
		}
		metrics.HTTPRequestsTotal.WithLabelValues(c.Method(), route, strconv.Itoa(status)).Inc()

		return err
	}
}
