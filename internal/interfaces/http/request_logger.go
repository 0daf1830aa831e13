package http

import (
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/domka/erp-api/pkg/logger"
)

// Metrics lo implementa *metrics.Collector.
type Metrics interface {
	RecordRequest(method, route string, status int, d time.Duration)
	RecordAccessDenied(reason string)
	RecordLogin(outcome string)
}

// RequestLogger emite una línea por petición y alimenta las métricas.
// Los errores de la cadena pasan antes por el ErrorHandler de la app para
// registrar el estado final.
func RequestLogger(log *logger.Logger, m Metrics) fiber.Handler {
	return func(c *fiber.Ctx) error {
		start := time.Now()
		if chainErr := c.Next(); chainErr != nil {
			if err := c.App().Config().ErrorHandler(c, chainErr); err != nil {
				_ = c.SendStatus(fiber.StatusInternalServerError)
			}
		}
		latency := time.Since(start)
		status := c.Response().StatusCode()
		route := c.Route().Path

		m.RecordRequest(c.Method(), route, status, latency)
		if reason, ok := c.Locals(localDenyReason).(string); ok && reason != "" {
			m.RecordAccessDenied(reason)
		}

		ev := log.Info()
		switch {
		case status >= fiber.StatusInternalServerError:
			ev = log.Error()
		case status >= fiber.StatusBadRequest:
			ev = log.Warn()
		}
		ev.Str("method", c.Method()).
			Str("path", c.Path()).
			Str("route", route).
			Int("status", status).
			Dur("latency", latency).
			Str("request_id", c.GetRespHeader(fiber.HeaderXRequestID)).
			Str("company_id", GetCompanyID(c)).
			Msg("http")
		return nil
	}
}
