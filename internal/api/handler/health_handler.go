package handler

import (
	"context"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/redis/go-redis/v9"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
)

const readinessTimeout = 3 * time.Second

// dependencyCheck pings one backing service. A nil ping marks the dependency
// as disabled.
type dependencyCheck struct {
	name string
	ping func(ctx context.Context) error
	// optional dependencies report their state without failing readiness.
	optional bool
}

// HealthHandler serves the liveness and readiness checks.
type HealthHandler struct {
	checks []dependencyCheck
}

// NewHealthHandler checks MongoDB and, when rdb is non-nil, Redis. Redis only
// backs idempotency keys, so its outage degrades but does not fail readiness.
func NewHealthHandler(db *mongo.Database, rdb *redis.Client) *HealthHandler {
	checks := []dependencyCheck{{
		name: "mongodb",
		ping: func(ctx context.Context) error {
			return db.RunCommand(ctx, bson.D{{Key: "ping", Value: 1}}).Err()
		},
	}}

	redisCheck := dependencyCheck{name: "redis", optional: true}
	if rdb != nil {
		redisCheck.ping = func(ctx context.Context) error { return rdb.Ping(ctx).Err() }
	}
	return &HealthHandler{checks: append(checks, redisCheck)}
}

type dependencyStatus struct {
	Status string `json:"status"`
	Error  string `json:"error,omitempty"`
}

type readinessResponse struct {
	Status       string                      `json:"status"`
	Dependencies map[string]dependencyStatus `json:"dependencies"`
}

// Liveness godoc
//
// @Summary  Liveness check
// @Tags     health
// @Produce  json
// @Success  200  {object}  healthResponse
// @Router   /health [get]
func (h *HealthHandler) Liveness(c echo.Context) error {
	return c.JSON(http.StatusOK, healthResponse{Status: "ok"})
}

// Readiness godoc
//
// @Summary  Readiness check (MongoDB, Redis)
// @Tags     health
// @Produce  json
// @Success  200  {object}  readinessResponse
// @Failure  503  {object}  readinessResponse
// @Router   /health/ready [get]
func (h *HealthHandler) Readiness(c echo.Context) error {
	ctx, cancel := context.WithTimeout(c.Request().Context(), readinessTimeout)
	defer cancel()

	resp := readinessResponse{Status: "ok", Dependencies: make(map[string]dependencyStatus, len(h.checks))}
	code := http.StatusOK

	for _, check := range h.checks {
		if check.ping == nil {
			resp.Dependencies[check.name] = dependencyStatus{Status: "disabled"}
			continue
		}
		if err := check.ping(ctx); err != nil {
			resp.Dependencies[check.name] = dependencyStatus{Status: "unhealthy", Error: err.Error()}
			resp.Status = "degraded"
			if !check.optional {
				code = http.StatusServiceUnavailable
			}
			continue
		}
		resp.Dependencies[check.name] = dependencyStatus{Status: "ok"}
	}

	return c.JSON(code, resp)
}
