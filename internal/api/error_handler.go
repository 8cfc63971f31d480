package api

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/traderisk/risk-backoffice/internal/core/domain"
)

// retryAfterSeconds is advertised on 503 responses for timed-out queries.
const retryAfterSeconds = "5"

// errorResponse is the canonical error envelope for all API errors.
type errorResponse struct {
	Error string `json:"error"`
	Code  string `json:"code,omitempty"`
}

// sentinelMapping renders a domain sentinel. An empty message means the
// error's own text is shown.
type sentinelMapping struct {
	target  error
	status  int
	message string
	code    string
}

// Checked in order; specific not-found errors come before ErrNotFound.
var sentinels = []sentinelMapping{
	{domain.ErrModuleNotFound, http.StatusBadRequest, "unknown module", "MODULE_NOT_FOUND"},
	{domain.ErrRecordNotFound, http.StatusNotFound, "record not found", ""},
	{domain.ErrUserNotFound, http.StatusNotFound, "user not found", ""},
	{domain.ErrNotFound, http.StatusNotFound, "not found", ""},
	{domain.ErrForbidden, http.StatusForbidden, "access forbidden", ""},
	{domain.ErrInvalidTransition, http.StatusUnprocessableEntity, "", "INVALID_TRANSITION"},
	{domain.ErrDuplicateRequest, http.StatusConflict, "request already processed", ""},
	{domain.ErrQueryTimeout, http.StatusServiceUnavailable, "query timed out, retry later", "QUERY_TIMEOUT"},
}

// NewHTTPErrorHandler renders every error as {"error", "code"}. Domain errors
// get fixed statuses; anything unrecognised is logged and reported as a
// generic 500.
func NewHTTPErrorHandler(log zerolog.Logger) echo.HTTPErrorHandler {
	return func(err error, c echo.Context) {
		if c.Response().Committed {
			return
		}

		status, body := resolveError(err)
		switch {
		case status == http.StatusServiceUnavailable:
			c.Response().Header().Set("Retry-After", retryAfterSeconds)
			log.Warn().Err(err).Str("method", c.Request().Method).Str("path", c.Path()).Msg("query timed out")
		case status >= http.StatusInternalServerError:
			log.Error().Err(err).Str("method", c.Request().Method).Str("path", c.Path()).Msg("unhandled error")
		}
		_ = c.JSON(status, body)
	}
}

func resolveError(err error) (int, errorResponse) {
	var he *echo.HTTPError
	if errors.As(err, &he) {
		return he.Code, errorResponse{Error: fmt.Sprintf("%v", he.Message)}
	}

	var ve *domain.ValidationError
	if errors.As(err, &ve) {
		return http.StatusBadRequest, errorResponse{Error: ve.Message, Code: ve.Code}
	}

	for _, m := range sentinels {
		if !errors.Is(err, m.target) {
			continue
		}
		msg := m.message
		if msg == "" {
			msg = err.Error()
		}
		return m.status, errorResponse{Error: msg, Code: m.code}
	}

	return http.StatusInternalServerError, errorResponse{Error: "internal server error"}
}
