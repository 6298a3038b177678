package api

import (
	"net/http"

	"github.com/labstack/echo-contrib/echoprometheus"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/prometheus/client_golang/prometheus"
)

const (
	urlParamId      = "id"
	indentationChar = "  "

	metricsSubsystem = "ventora_api"
)

type (
	Result struct {
		Name    string `json:"name"`
		Message string `json:"message"`
	}
)

// CreateRestService builds the REST api. Request metrics are registered with
// registry, which is also what /metrics/ serves.
func CreateRestService(registry MetricsRegistry) *echo.Echo {
	echoRest := echo.New()
	echoRest.HideBanner = true

	// Root level middleware
	echoRest.Pre(middleware.AddTrailingSlash())

	echoRest.Use(middleware.Secure())
	echoRest.Use(middleware.Recover())
	echoRest.Use(echoprometheus.NewMiddlewareWithConfig(echoprometheus.MiddlewareConfig{
		Subsystem:  metricsSubsystem,
		Registerer: registry,
	}))

	echoRest.GET("/alive/", isAlive)
	echoRest.GET("/metrics/", echoprometheus.NewHandlerWithConfig(echoprometheus.HandlerConfig{
		Gatherer: registry,
	}))

	registerDeviceEndpoints(echoRest)

	return echoRest
}

// MetricsRegistry is satisfied by *prometheus.Registry and the default registry
type MetricsRegistry interface {
	prometheus.Registerer
	prometheus.Gatherer
}

type defaultRegistry struct {
	prometheus.Registerer
	prometheus.Gatherer
}

// DefaultMetricsRegistry returns the global prometheus registry
func DefaultMetricsRegistry() MetricsRegistry {
	return defaultRegistry{
		Registerer: prometheus.DefaultRegisterer,
		Gatherer:   prometheus.DefaultGatherer,
	}
}

// returns an empty "ok" answer
func isAlive(c echo.Context) error {
	return c.NoContent(http.StatusOK)
}

// return a "not found" message
func returnNotFound(c echo.Context, id string) (err error) {
	return c.JSONPretty(http.StatusNotFound, &Result{
		Name:    "Not found",
		Message: "No item with id '" + id + "' found",
	}, indentationChar)
}
