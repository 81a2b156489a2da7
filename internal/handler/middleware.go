package handler

import (
	"context"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
)

// Limiter counts requests per key in fixed windows
type Limiter interface {
	RateLimit(ctx context.Context, key string, limit int, window time.Duration) (bool, error)
}

// RateLimit rejects clients that exceed limit requests per window, keyed by
// client IP. Limiter failures let the request through.
func RateLimit(limiter Limiter, limit int, window time.Duration) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			if limiter == nil || limit <= 0 {
				return next(c)
			}

			ctx := c.Request().Context()
			exceeded, err := limiter.RateLimit(ctx, c.RealIP(), limit, window)
			if err != nil {
				slog.WarnContext(ctx, "Rate limiter unavailable", "error", err)
				return next(c)
			}
			if exceeded {
				c.Response().Header().Set("Retry-After", retryAfter(window))
				return c.JSON(http.StatusTooManyRequests, ErrorResponse{
					Error:  "Too many requests",
					Code:   "rate_limited",
					Title:  "Too many requests",
					Detail: "Request limit reached, try again later",
				})
			}

			return next(c)
		}
	}
}

func retryAfter(window time.Duration) string {
	seconds := int(window.Seconds())
	if seconds < 1 {
		seconds = 1
	}
	return strconv.Itoa(seconds)
}

// RequestLogger logs one line per request through slog
func RequestLogger(logger *slog.Logger) echo.MiddlewareFunc {
	return middleware.RequestLoggerWithConfig(middleware.RequestLoggerConfig{
		LogMethod:    true,
		LogURI:       true,
		LogStatus:    true,
		LogLatency:   true,
		LogRemoteIP:  true,
		LogRequestID: true,
		LogError:     true,
		HandleError:  true,
		LogValuesFunc: func(c echo.Context, v middleware.RequestLoggerValues) error {
			level := slog.LevelInfo
			if v.Error != nil || v.Status >= http.StatusInternalServerError {
				level = slog.LevelError
			}

			attrs := []slog.Attr{
				slog.String("method", v.Method),
				slog.String("uri", v.URI),
				slog.Int("status", v.Status),
				slog.Duration("latency", v.Latency),
				slog.String("remote_ip", v.RemoteIP),
				slog.String("request_id", v.RequestID),
			}
			if v.Error != nil {
				attrs = append(attrs, slog.String("error", v.Error.Error()))
			}

			logger.LogAttrs(c.Request().Context(), level, "Request", attrs...)
			return nil
		},
	})
}
