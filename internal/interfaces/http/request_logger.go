package http

import (
	"errors"
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/428lab/sales-aggregator/pkg/logger"
)

// requestObserver es lo que necesita el middleware para registrar métricas de cada petición.
// Lo implementa *metrics.Metrics.
type requestObserver interface {
	ObserveRequest(method, route string, status int, elapsed time.Duration)
}

// RequestLogger registra método, ruta, código, latencia y propietario de cada petición.
// obs puede ser nil.
func RequestLogger(log *logger.Logger, obs requestObserver) fiber.Handler {
	return func(c *fiber.Ctx) error {
		start := time.Now()
		err := c.Next()
		elapsed := time.Since(start)

		status := c.Response().StatusCode()
		var fe *fiber.Error
		if errors.As(err, &fe) {
			status = fe.Code
		} else if err != nil {
			status = fiber.StatusInternalServerError
		}
		route := c.Route().Path

		if obs != nil {
			obs.ObserveRequest(c.Method(), route, status, elapsed)
		}

		ev := log.Info()
		if status >= fiber.StatusInternalServerError {
			ev = log.Error().Err(err)
		}
		ev.Str("method", c.Method()).
			Str("path", c.Path()).
			Str("route", route).
			Int("status", status).
			Dur("latency", elapsed).
			Str("owner_id", GetOwnerID(c)).
			Msg("petición HTTP")
		return err
	}
}
