package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/traderisk/risk-backoffice/internal/core/ports"
)

// ListHandler serves module listings, detail drawers and entity pickers.
type ListHandler struct {
	service ports.ListService
}

func NewListHandler(service ports.ListService) *ListHandler {
	return &ListHandler{service: service}
}

// List handles GET /v1/modules/:module/records.
//
// @Summary      List a module projected on the caller's columns
// @Tags         lists
// @Produce      json
// @Security     BearerAuth
// @Param        module                path      string  true   "Module name"
// @Param        page                  query     int     false  "Page (default 1)"
// @Param        limit                 query     int     false  "Page size (default 5)"
// @Param        sortBy                query     string  false  "Column to sort on"
// @Param        sortOrder             query     string  false  "asc or desc"
// @Param        search                query     string  false  "Free-text search"
// @Param        parentId              query     string  false  "Owning record for nested lists"
// @Param        startDate             query     string  false  "YYYY-MM-DD"
// @Param        endDate               query     string  false  "YYYY-MM-DD"
// @Param        minOutstandingAmount  query     number  false  "Minimum outstanding amount"
// @Param        maxOutstandingAmount  query     number  false  "Maximum outstanding amount"
// @Param        status                query     string  false  "Status filter"
// @Param        isCompleted           query     bool    false  "Task completion filter"
// @Param        listCreatedBy         query     bool    false  "List tasks created by the caller"
// @Success      200                   {object}  domain.ListResult
// @Failure      400                   {object}  errorResponse
// @Failure      401                   {object}  errorResponse
// @Failure      503                   {object}  errorResponse
// @Router       /v1/modules/{module}/records [get]
func (h *ListHandler) List(c echo.Context) error {
	caller, err := ctxCaller(c)
	if err != nil {
		return err
	}
	req, err := listRequest(c, c.Param("module"))
	if err != nil {
		return err
	}

	res, err := h.service.List(c.Request().Context(), caller, req)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, res)
}

// Drawer handles GET /v1/modules/:module/records/:id/drawer.
//
// @Summary      Labelled details of one record
// @Tags         lists
// @Produce      json
// @Security     BearerAuth
// @Param        module  path      string  true  "Module name"
// @Param        id      path      string  true  "Record id"
// @Success      200     {array}   domain.DrawerField
// @Failure      400     {object}  errorResponse
// @Failure      404     {object}  errorResponse
// @Router       /v1/modules/{module}/records/{id}/drawer [get]
func (h *ListHandler) Drawer(c echo.Context) error {
	caller, err := ctxCaller(c)
	if err != nil {
		return err
	}

	fields, err := h.service.Drawer(c.Request().Context(), caller, c.Param("module"), c.Param("id"))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, fields)
}

// EntityOptions handles GET /v1/entities/:entityType.
//
// @Summary      Pickable records of one entity type
// @Tags         lists
// @Produce      json
// @Security     BearerAuth
// @Param        entityType  path      string  true   "user, client, client-user, debtor, application or insurer"
// @Param        search      query     string  false  "Name search"
// @Success      200         {array}   domain.EntityOption
// @Failure      400         {object}  errorResponse
// @Router       /v1/entities/{entityType} [get]
func (h *ListHandler) EntityOptions(c echo.Context) error {
	caller, err := ctxCaller(c)
	if err != nil {
		return err
	}

	opts, err := h.service.EntityOptions(c.Request().Context(), caller, c.Param("entityType"), c.QueryParam("search"))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, opts)
}
