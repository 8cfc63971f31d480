package handler

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"testing"
)

func okPing(context.Context) error { return nil }

func TestHealthHandler_Liveness(t *testing.T) {
	c, rec := newContext(t, http.MethodGet, "/health", "")

	if err := (&HealthHandler{}).Liveness(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
}

func TestHealthHandler_Readiness(t *testing.T) {
	down := func(context.Context) error { return errors.New("connection refused") }

	tests := []struct {
		name       string
		checks     []dependencyCheck
		wantCode   int
		wantStatus string
		wantRedis  string
	}{
		{
			name:       "all up",
			checks:     []dependencyCheck{{name: "mongodb", ping: okPing}, {name: "redis", ping: okPing, optional: true}},
			wantCode:   http.StatusOK,
			wantStatus: "ok",
			wantRedis:  "ok",
		},
		{
			name:       "redis disabled",
			checks:     []dependencyCheck{{name: "mongodb", ping: okPing}, {name: "redis", optional: true}},
			wantCode:   http.StatusOK,
			wantStatus: "ok",
			wantRedis:  "disabled",
		},
		{
			name:       "redis down",
			checks:     []dependencyCheck{{name: "mongodb", ping: okPing}, {name: "redis", ping: down, optional: true}},
			wantCode:   http.StatusOK,
			wantStatus: "degraded",
			wantRedis:  "unhealthy",
		},
		{
			name:       "mongo down",
			checks:     []dependencyCheck{{name: "mongodb", ping: down}, {name: "redis", ping: okPing, optional: true}},
			wantCode:   http.StatusServiceUnavailable,
			wantStatus: "degraded",
			wantRedis:  "ok",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c, rec := newContext(t, http.MethodGet, "/health/ready", "")

			if err := (&HealthHandler{checks: tt.checks}).Readiness(c); err != nil {
				t.Fatalf("handler error: %v", err)
			}
			if rec.Code != tt.wantCode {
				t.Fatalf("expected %d, got %d", tt.wantCode, rec.Code)
			}

			var resp readinessResponse
			if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
				t.Fatalf("invalid json: %v", err)
			}
			if resp.Status != tt.wantStatus || resp.Dependencies["redis"].Status != tt.wantRedis {
				t.Fatalf("unexpected response: %+v", resp)
			}
		})
	}
}
