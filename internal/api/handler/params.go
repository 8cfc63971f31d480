package handler

import (
	"strconv"
	"strings"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/traderisk/risk-backoffice/internal/core/domain"
)

var dateLayouts = []string{time.RFC3339, "2006-01-02"}

// intParam reads a numeric query value. Missing or non-numeric values yield 0
// so the service applies its defaults.
func intParam(c echo.Context, name string) int {
	n, err := strconv.Atoi(strings.TrimSpace(c.QueryParam(name)))
	if err != nil {
		return 0
	}
	return n
}

func dateParam(c echo.Context, name string) (*time.Time, error) {
	raw := strings.TrimSpace(c.QueryParam(name))
	if raw == "" {
		return nil, nil
	}
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, raw); err == nil {
			return &t, nil
		}
	}
	return nil, domain.NewValidationError(domain.CodeInvalidFilter, "%s must be a date (YYYY-MM-DD)", name)
}

func floatParam(c echo.Context, name string) (*float64, error) {
	raw := strings.TrimSpace(c.QueryParam(name))
	if raw == "" {
		return nil, nil
	}
	f, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return nil, domain.NewValidationError(domain.CodeInvalidFilter, "%s must be a number", name)
	}
	return &f, nil
}

func boolParam(c echo.Context, name string) (*bool, error) {
	raw := strings.TrimSpace(c.QueryParam(name))
	if raw == "" {
		return nil, nil
	}
	b, err := strconv.ParseBool(raw)
	if err != nil {
		return nil, domain.NewValidationError(domain.CodeInvalidFilter, "%s must be true or false", name)
	}
	return &b, nil
}

// listRequest reads paging, sorting, search and filter parameters.
func listRequest(c echo.Context, module string) (domain.ListRequest, error) {
	req := domain.ListRequest{
		Module:    module,
		Page:      intParam(c, "page"),
		Limit:     intParam(c, "limit"),
		SortBy:    c.QueryParam("sortBy"),
		SortOrder: domain.SortOrder(strings.ToLower(c.QueryParam("sortOrder"))),
		Search:    strings.TrimSpace(c.QueryParam("search")),
		ParentID:  c.QueryParam("parentId"),
		Filters: domain.Filters{
			ClientName:   c.QueryParam("clientName"),
			DebtorName:   c.QueryParam("debtorName"),
			AssigneeName: c.QueryParam("assigneeName"),
			Status:       c.QueryParam("status"),
			Priority:     c.QueryParam("priority"),
		},
	}

	var err error
	f := &req.Filters
	if f.StartDate, err = dateParam(c, "startDate"); err != nil {
		return req, err
	}
	if f.EndDate, err = dateParam(c, "endDate"); err != nil {
		return req, err
	}
	if f.MinOutstandingAmount, err = floatParam(c, "minOutstandingAmount"); err != nil {
		return req, err
	}
	if f.MaxOutstandingAmount, err = floatParam(c, "maxOutstandingAmount"); err != nil {
		return req, err
	}
	if f.IsCompleted, err = boolParam(c, "isCompleted"); err != nil {
		return req, err
	}
	createdBy, err := boolParam(c, "listCreatedBy")
	if err != nil {
		return req, err
	}
	f.ListCreatedBy = createdBy != nil && *createdBy
	return req, nil
}
