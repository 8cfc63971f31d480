package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/traderisk/risk-backoffice/internal/core/domain"
)

func TestHTTPErrorHandler_Mapping(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		wantCode int
		wantBody string
	}{
		{"validation", domain.NewValidationError(domain.CodeUnknownColumn, "unknown columns: x"), http.StatusBadRequest, domain.CodeUnknownColumn},
		{"unknown module", fmt.Errorf("list: %w", domain.ErrModuleNotFound), http.StatusBadRequest, "MODULE_NOT_FOUND"},
		{"record not found", domain.ErrRecordNotFound, http.StatusNotFound, ""},
		{"user not found", domain.ErrUserNotFound, http.StatusNotFound, ""},
		{"forbidden", domain.ErrForbidden, http.StatusForbidden, ""},
		{"transition", fmt.Errorf("%w: INACTIVE -> INACTIVE", domain.ErrInvalidTransition), http.StatusUnprocessableEntity, "INVALID_TRANSITION"},
		{"duplicate", domain.ErrDuplicateRequest, http.StatusConflict, ""},
		{"timeout", fmt.Errorf("aggregate: %w", domain.ErrQueryTimeout), http.StatusServiceUnavailable, "QUERY_TIMEOUT"},
		{"echo", echo.NewHTTPError(http.StatusUnauthorized, "missing token"), http.StatusUnauthorized, ""},
		{"storage", fmt.Errorf("aggregate: %w: connection reset", domain.ErrStorage), http.StatusInternalServerError, ""},
		{"unknown", errors.New("boom"), http.StatusInternalServerError, ""},
	}

	e := echo.New()
	h := NewHTTPErrorHandler(zerolog.Nop())

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := httptest.NewRecorder()
			c := e.NewContext(httptest.NewRequest(http.MethodGet, "/", nil), rec)

			h(tt.err, c)

			if rec.Code != tt.wantCode {
				t.Fatalf("expected %d, got %d", tt.wantCode, rec.Code)
			}
			var body errorResponse
			if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
				t.Fatalf("invalid json: %v", err)
			}
			if body.Code != tt.wantBody {
				t.Fatalf("expected code %q, got %q", tt.wantBody, body.Code)
			}
			if body.Error == "" {
				t.Fatalf("expected an error message")
			}
		})
	}
}

func TestHTTPErrorHandler_TimeoutSetsRetryAfter(t *testing.T) {
	rec := httptest.NewRecorder()
	c := echo.New().NewContext(httptest.NewRequest(http.MethodGet, "/", nil), rec)

	NewHTTPErrorHandler(zerolog.Nop())(domain.ErrQueryTimeout, c)

	if got := rec.Header().Get("Retry-After"); got != retryAfterSeconds {
		t.Fatalf("expected Retry-After %s, got %q", retryAfterSeconds, got)
	}
}

func TestHTTPErrorHandler_HidesStorageDetail(t *testing.T) {
	rec := httptest.NewRecorder()
	c := echo.New().NewContext(httptest.NewRequest(http.MethodGet, "/", nil), rec)

	NewHTTPErrorHandler(zerolog.Nop())(fmt.Errorf("%w: secret dsn", domain.ErrStorage), c)

	var body errorResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("invalid json: %v", err)
	}
	if body.Error != "internal server error" {
		t.Fatalf("storage detail leaked: %q", body.Error)
	}
}
