package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/traderisk/risk-backoffice/internal/api/metrics"
	"github.com/traderisk/risk-backoffice/internal/core/domain"
	"github.com/traderisk/risk-backoffice/internal/core/ports"
)

// ColumnHandler serves per-user column selections.
type ColumnHandler struct {
	service ports.ColumnService
}

func NewColumnHandler(service ports.ColumnService) *ColumnHandler {
	return &ColumnHandler{service: service}
}

// Catalog handles GET /v1/columns.
//
// @Summary      List a module's columns with the caller's selection
// @Tags         columns
// @Produce      json
// @Security     BearerAuth
// @Param        columnFor  query     string  true  "Module name (e.g. client, debtor-task)"
// @Success      200        {object}  domain.ColumnCatalog
// @Failure      400        {object}  errorResponse
// @Failure      401        {object}  errorResponse
// @Router       /v1/columns [get]
func (h *ColumnHandler) Catalog(c echo.Context) error {
	caller, err := ctxCaller(c)
	if err != nil {
		return err
	}
	module := c.QueryParam("columnFor")
	if module == "" {
		return domain.NewValidationError(domain.CodeModuleRequired, "columnFor is required")
	}

	catalog, err := h.service.Catalog(c.Request().Context(), caller.Owner(), module)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, catalog)
}

// Update handles PUT /v1/columns.
//
// @Summary      Replace or reset the caller's columns for a module
// @Tags         columns
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body  body      updateColumnsRequest  true  "Column selection"
// @Success      200   {object}  columnsResponse
// @Failure      400   {object}  errorResponse
// @Failure      401   {object}  errorResponse
// @Failure      404   {object}  errorResponse
// @Router       /v1/columns [put]
func (h *ColumnHandler) Update(c echo.Context) error {
	caller, err := ctxCaller(c)
	if err != nil {
		return err
	}
	var req updateColumnsRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	ctx := c.Request().Context()
	owner := caller.Owner()
	if err := h.service.SetColumns(ctx, owner, ports.SetColumnsInput{
		Module:  req.ColumnFor,
		Columns: req.Columns,
		IsReset: req.IsReset,
	}); err != nil {
		return err
	}

	mode := "set"
	if req.IsReset {
		mode = "reset"
	}
	metrics.ColumnUpdatesTotal.WithLabelValues(req.ColumnFor, mode).Inc()

	cols, err := h.service.GetColumns(ctx, owner, req.ColumnFor)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, columnsResponse{ColumnFor: req.ColumnFor, Columns: cols.Names()})
}
