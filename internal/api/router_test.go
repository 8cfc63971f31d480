package api

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/golang-jwt/jwt/v5"
	"github.com/rs/zerolog"

	"github.com/traderisk/risk-backoffice/internal/core/domain"
	"github.com/traderisk/risk-backoffice/internal/core/ports"
)

const testSecret = "router-secret"

type stubColumns struct{}

func (stubColumns) GetColumns(context.Context, domain.Owner, string) (domain.ColumnSet, error) {
	return domain.NewColumnSet("name"), nil
}

func (stubColumns) SetColumns(context.Context, domain.Owner, ports.SetColumnsInput) error {
	return nil
}

func (stubColumns) Catalog(_ context.Context, _ domain.Owner, module string) (*domain.ColumnCatalog, error) {
	if module != "client" {
		return nil, domain.ErrModuleNotFound
	}
	return &domain.ColumnCatalog{DefaultFields: []domain.ColumnOption{}, CustomFields: []domain.ColumnOption{}}, nil
}

type stubCreditLimits struct{}

func (stubCreditLimits) Update(_ context.Context, _ domain.Caller, in ports.UpdateCreditLimitInput) (*ports.CreditLimitResult, error) {
	return &ports.CreditLimitResult{ClientDebtorID: in.ClientDebtorID, Status: domain.CreditLimitInactive}, nil
}

func token(t *testing.T, userType string, extra jwt.MapClaims) string {
	t.Helper()
	claims := jwt.MapClaims{"sub": "65f1a0c2e4b0a1b2c3d4e5f6", "type": userType}
	for k, v := range extra {
		claims[k] = v
	}
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(testSecret))
	if err != nil {
		t.Fatalf("sign token: %v", err)
	}
	return "Bearer " + signed
}

// The router registers Prometheus collectors, so it is built once.
func TestRouter(t *testing.T) {
	e := NewRouter(Deps{
		Log:          zerolog.Nop(),
		JWTSecret:    testSecret,
		Columns:      stubColumns{},
		CreditLimits: stubCreditLimits{},
	})

	tests := []struct {
		name   string
		method string
		path   string
		auth   string
		body   string
		want   int
	}{
		{"liveness", http.MethodGet, "/health", "", "", http.StatusOK},
		{"metrics", http.MethodGet, "/metrics", "", "", http.StatusOK},
		{"no token", http.MethodGet, "/v1/columns?columnFor=client", "", "", http.StatusUnauthorized},
		{"catalog", http.MethodGet, "/v1/columns?columnFor=client", token(t, "user", nil), "", http.StatusOK},
		{"unknown module", http.MethodGet, "/v1/columns?columnFor=nope", token(t, "user", nil), "", http.StatusBadRequest},
		{"client user catalog", http.MethodGet, "/v1/columns?columnFor=client",
			token(t, "client-user", jwt.MapClaims{"client_id": "65f1a0c2e4b0a1b2c3d4e5f7"}), "", http.StatusOK},
		{"credit limit as client user", http.MethodPut, "/v1/credit-limits/abc",
			token(t, "client-user", jwt.MapClaims{"client_id": "65f1a0c2e4b0a1b2c3d4e5f7"}), `{"action":"surrender"}`, http.StatusForbidden},
		{"credit limit as user", http.MethodPut, "/v1/credit-limits/abc", token(t, "user", nil), `{"action":"surrender"}`, http.StatusOK},
		{"credit limit bad body", http.MethodPut, "/v1/credit-limits/abc", token(t, "user", nil), `{"action":"raise"}`, http.StatusBadRequest},
		{"unknown route", http.MethodGet, "/v1/nothing", token(t, "user", nil), "", http.StatusNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var req *http.Request
			if tt.body != "" {
				req = httptest.NewRequest(tt.method, tt.path, strings.NewReader(tt.body))
				req.Header.Set("Content-Type", "application/json")
			} else {
				req = httptest.NewRequest(tt.method, tt.path, nil)
			}
			if tt.auth != "" {
				req.Header.Set("Authorization", tt.auth)
			}
			rec := httptest.NewRecorder()

			e.ServeHTTP(rec, req)

			if rec.Code != tt.want {
				t.Fatalf("expected %d, got %d: %s", tt.want, rec.Code, rec.Body.String())
			}
		})
	}
}
