package api

import (
	"github.com/labstack/echo-contrib/echoprometheus"
	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	echoSwagger "github.com/swaggo/echo-swagger"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/traderisk/risk-backoffice/internal/api/handler"
	"github.com/traderisk/risk-backoffice/internal/api/middleware"
	"github.com/traderisk/risk-backoffice/internal/core/domain"
	"github.com/traderisk/risk-backoffice/internal/core/ports"
)

// Deps are the services and connections the router exposes.
type Deps struct {
	Log       zerolog.Logger
	JWTSecret string

	Columns      ports.ColumnService
	Lists        ports.ListService
	Overdues     ports.OverdueService
	CreditLimits ports.CreditLimitService

	Mongo *mongo.Database
	Redis *redis.Client
}

// NewRouter builds and returns the Echo instance with all routes registered.
func NewRouter(d Deps) *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.HTTPErrorHandler = NewHTTPErrorHandler(d.Log)
	e.Validator = handler.NewValidator()

	// --- Global middleware ---
	e.Use(echomiddleware.Recover())
	e.Use(echomiddleware.RequestID())
	e.Use(requestLogger(d.Log))
	e.Use(echoprometheus.NewMiddleware("risk"))

	// --- Operational endpoints (no auth required) ---
	health := handler.NewHealthHandler(d.Mongo, d.Redis)

	e.GET("/health", health.Liveness)
	e.GET("/health/ready", health.Readiness)
	e.GET("/metrics", echoprometheus.NewHandler())
	e.GET("/swagger/*", echoSwagger.WrapHandler)

	// --- Authenticated API ---
	columns := handler.NewColumnHandler(d.Columns)
	lists := handler.NewListHandler(d.Lists)
	overdues := handler.NewOverdueHandler(d.Overdues)
	creditLimits := handler.NewCreditLimitHandler(d.CreditLimits)

	v1 := e.Group("/v1", middleware.Auth(d.JWTSecret))

	v1.GET("/columns", columns.Catalog)
	v1.PUT("/columns", columns.Update)

	v1.GET("/modules/:module/records", lists.List)
	v1.GET("/modules/:module/records/:id/drawer", lists.Drawer)
	v1.GET("/entities/:entityType", lists.EntityOptions)

	v1.GET("/overdues/monthly", overdues.Monthly)
	v1.GET("/overdues/last", overdues.Last)

	riskOnly := middleware.RBAC(string(domain.CallerUser))
	v1.PUT("/credit-limits/:clientDebtorId", creditLimits.Update, riskOnly)

	return e
}

// requestLogger feeds one structured line per request into log.
func requestLogger(log zerolog.Logger) echo.MiddlewareFunc {
	return echomiddleware.RequestLoggerWithConfig(echomiddleware.RequestLoggerConfig{
		LogMethod:    true,
		LogURI:       true,
		LogStatus:    true,
		LogLatency:   true,
		LogRequestID: true,
		LogError:     true,
		HandleError:  true,
		LogValuesFunc: func(c echo.Context, v echomiddleware.RequestLoggerValues) error {
			evt := log.Info()
			if v.Error != nil || v.Status >= 500 {
				evt = log.Error().Err(v.Error)
			}
			evt.
				Str("method", v.Method).
				Str("uri", v.URI).
				Int("status", v.Status).
				Dur("latency", v.Latency).
				Str("request_id", v.RequestID).
				Msg("request")
			return nil
		},
	})
}
