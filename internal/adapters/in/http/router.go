package http

import (
	"errors"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/getkin/kin-openapi/openapi3"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	echoSwagger "github.com/swaggo/echo-swagger"
)

// NewRouter builds the echo instance serving the receiving API together with
// /health, /metrics and the swagger UI under /swagger/.
func NewRouter(si ServerInterface, spec *openapi3.T, registry *prometheus.Registry, logger *slog.Logger) (*echo.Echo, error) {
	metrics, err := NewMetrics(registry)
	if err != nil {
		return nil, fmt.Errorf("register http metrics: %w", err)
	}

	validator, err := RequestValidator(spec)
	if err != nil {
		return nil, fmt.Errorf("build request validator: %w", err)
	}

	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.HTTPErrorHandler = errorHandler(logger.With("component", "http"))

	e.Use(middleware.Recover())
	e.Use(metrics.Middleware())
	e.Use(validator)

	e.GET("/health", func(ctx echo.Context) error {
		return ctx.String(http.StatusOK, "OK")
	})
	e.GET("/metrics", echo.WrapHandler(promhttp.HandlerFor(registry, promhttp.HandlerOpts{})))

	registerSwaggerDoc()
	e.GET("/swagger/*", echoSwagger.WrapHandler)

	RegisterHandlers(e, si)

	return e, nil
}

// errorHandler renders errors that escaped the handlers, such as binding and
// validation failures, in the Error format.
func errorHandler(logger *slog.Logger) echo.HTTPErrorHandler {
	return func(err error, ctx echo.Context) {
		if ctx.Response().Committed {
			return
		}

		status := http.StatusInternalServerError
		message := http.StatusText(status)

		var he *echo.HTTPError
		if errors.As(err, &he) {
			status = he.Code
			message = fmt.Sprint(he.Message)
		} else {
			logger.ErrorContext(ctx.Request().Context(), "unhandled error", "path", ctx.Path(), "error", err)
		}

		if writeErr := ctx.JSON(status, Error{Code: status, Message: message}); writeErr != nil {
			logger.ErrorContext(ctx.Request().Context(), "failed to write error response", "error", writeErr)
		}
	}
}
