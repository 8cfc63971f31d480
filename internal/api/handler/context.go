package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/traderisk/risk-backoffice/internal/api/middleware"
	"github.com/traderisk/risk-backoffice/internal/core/domain"
)

// ctxCaller extracts the identity injected by the Auth middleware and
// performs a fast-fail check before any service call:
//   - user_id must be non-empty (presence proves the middleware ran).
//   - user_type must be a known caller type.
//   - client users require a client_id; without it the JWT is structurally
//     valid but operationally unusable, so it is rejected with 401.
func ctxCaller(c echo.Context) (domain.Caller, error) {
	id, _ := c.Get(middleware.KeyUserID).(string)
	if id == "" {
		return domain.Caller{}, echo.NewHTTPError(http.StatusUnauthorized, "missing authentication claims")
	}

	userType, _ := c.Get(middleware.KeyUserType).(string)
	ct := domain.CallerType(userType)
	if ct != domain.CallerUser && ct != domain.CallerClientUser {
		return domain.Caller{}, echo.NewHTTPError(http.StatusUnauthorized, "unknown caller type")
	}

	clientID, _ := c.Get(middleware.KeyClientID).(string)
	if ct == domain.CallerClientUser && clientID == "" {
		return domain.Caller{}, echo.NewHTTPError(http.StatusUnauthorized, "token missing client identity")
	}

	access, _ := c.Get(middleware.KeyAccess).([]string)
	return domain.Caller{ID: id, Type: ct, AccessTypes: access, ClientID: clientID}, nil
}
