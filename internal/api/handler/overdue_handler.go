package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/traderisk/risk-backoffice/internal/api/metrics"
	"github.com/traderisk/risk-backoffice/internal/core/domain"
	"github.com/traderisk/risk-backoffice/internal/core/ports"
)

// OverdueHandler serves the overdue rollup and the previous-list lookup.
type OverdueHandler struct {
	service ports.OverdueService
}

func NewOverdueHandler(service ports.OverdueService) *OverdueHandler {
	return &OverdueHandler{service: service}
}

// Monthly handles GET /v1/overdues/monthly.
//
// @Summary      Overdues grouped by reporting month
// @Tags         overdues
// @Produce      json
// @Security     BearerAuth
// @Param        clientId  query     string  false  "Restrict to one client"
// @Param        page      query     int     false  "Page (default 1)"
// @Param        limit     query     int     false  "Page size (default 5)"
// @Success      200       {object}  domain.ListResult
// @Failure      403       {object}  errorResponse
// @Router       /v1/overdues/monthly [get]
func (h *OverdueHandler) Monthly(c echo.Context) error {
	caller, err := ctxCaller(c)
	if err != nil {
		return err
	}

	res, err := h.service.Monthly(c.Request().Context(), caller, ports.MonthlyOverdueInput{
		ClientID: c.QueryParam("clientId"),
		Page:     intParam(c, "page"),
		Limit:    intParam(c, "limit"),
	})
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, res)
}

// Last handles GET /v1/overdues/last.
//
// @Summary      Most recent overdue list before a month
// @Tags         overdues
// @Produce      json
// @Security     BearerAuth
// @Param        clientId  query     string  true  "Client id"
// @Param        month     query     int     true  "Month (1-12)"
// @Param        year      query     int     true  "Year"
// @Success      200       {object}  lastOverdueResponse
// @Failure      400       {object}  errorResponse
// @Failure      403       {object}  errorResponse
// @Router       /v1/overdues/last [get]
func (h *OverdueHandler) Last(c echo.Context) error {
	caller, err := ctxCaller(c)
	if err != nil {
		return err
	}
	period, err := domain.NewPeriod(intParam(c, "month"), intParam(c, "year"))
	if err != nil {
		return err
	}

	res, err := h.service.LastList(c.Request().Context(), caller, c.QueryParam("clientId"), period)
	if err != nil {
		return err
	}

	resp := lastOverdueResponse{Docs: res.Docs, Found: res.Found, Steps: res.Steps, Reason: res.Reason}
	if res.Found {
		metrics.OverdueLookbackSteps.Observe(float64(res.Steps))
		resp.Month = res.Period.MonthKey()
		resp.Year = res.Period.Year
		resp.Label = res.Period.Long()
	}
	return c.JSON(http.StatusOK, resp)
}
