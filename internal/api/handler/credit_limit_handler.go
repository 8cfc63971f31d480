package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/traderisk/risk-backoffice/internal/api/metrics"
	"github.com/traderisk/risk-backoffice/internal/core/ports"
)

const headerIdempotencyKey = "Idempotency-Key"

// CreditLimitHandler applies credit-limit actions.
type CreditLimitHandler struct {
	service ports.CreditLimitService
}

func NewCreditLimitHandler(service ports.CreditLimitService) *CreditLimitHandler {
	return &CreditLimitHandler{service: service}
}

// Update handles PUT /v1/credit-limits/:clientDebtorId.
//
// @Summary      Modify or surrender a credit limit
// @Tags         credit-limits
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        clientDebtorId   path      string                    true   "Client-debtor id"
// @Param        Idempotency-Key  header    string                    false  "Replays with the same key are applied once"
// @Param        body             body      updateCreditLimitRequest  true   "Action"
// @Success      200              {object}  creditLimitResponse
// @Failure      400              {object}  errorResponse
// @Failure      403              {object}  errorResponse
// @Failure      404              {object}  errorResponse
// @Failure      422              {object}  errorResponse
// @Router       /v1/credit-limits/{clientDebtorId} [put]
func (h *CreditLimitHandler) Update(c echo.Context) error {
	caller, err := ctxCaller(c)
	if err != nil {
		return err
	}
	var req updateCreditLimitRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	key := c.Request().Header.Get(headerIdempotencyKey)
	res, err := h.service.Update(c.Request().Context(), caller, ports.UpdateCreditLimitInput{
		ClientDebtorID: c.Param("clientDebtorId"),
		Action:         req.Action,
		CreditLimit:    string(req.CreditLimit),
		IdempotencyKey: key,
	})
	if err != nil {
		return err
	}

	if key != "" {
		result := "miss"
		if res.AlreadyApplied {
			result = "hit"
		}
		metrics.IdempotencyTotal.WithLabelValues(result).Inc()
	}
	if !res.AlreadyApplied {
		metrics.CreditLimitTransitionsTotal.WithLabelValues(req.Action, string(res.Status)).Inc()
	}

	return c.JSON(http.StatusOK, creditLimitResponse{
		ClientDebtorID: res.ClientDebtorID,
		Status:         res.Status,
		ApplicationID:  res.ApplicationID,
		CreditLimit:    res.CreditLimit,
		AlreadyApplied: res.AlreadyApplied,
	})
}
