package middleware

import (
	"net/http"

	"PredEval/pkg/ratelimit"

	"github.com/labstack/echo/v4"
)

// RateLimit rejects requests beyond refillPerSec per client IP with 429.
func RateLimit(l *ratelimit.Limiter, capacity, refillPerSec float64) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			if !l.Allow(c.RealIP(), capacity, refillPerSec) {
				return c.JSON(http.StatusTooManyRequests, map[string]interface{}{
					"status":  http.StatusTooManyRequests,
					"message": "Too Many Requests",
				})
			}
			return next(c)
		}
	}
}
