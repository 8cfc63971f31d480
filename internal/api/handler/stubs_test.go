package handler

import (
	"context"
	"errors"
	"io"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/labstack/echo/v4"

	"github.com/traderisk/risk-backoffice/internal/api/middleware"
	"github.com/traderisk/risk-backoffice/internal/core/domain"
	"github.com/traderisk/risk-backoffice/internal/core/ports"
)

const (
	userHex   = "65f1a0c2e4b0a1b2c3d4e5f6"
	clientHex = "65f1a0c2e4b0a1b2c3d4e5f7"
)

// newContext builds an Echo context as if the Auth middleware had accepted a
// risk user. body may be empty.
func newContext(t *testing.T, method, target, body string) (echo.Context, *httptest.ResponseRecorder) {
	t.Helper()
	e := echo.New()
	e.Validator = NewValidator()

	var r io.Reader
	if body != "" {
		r = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, target, r)
	if body != "" {
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	}
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	c.Set(middleware.KeyUserID, userHex)
	c.Set(middleware.KeyUserType, string(domain.CallerUser))
	c.Set(middleware.KeyAccess, []string{})
	return c, rec
}

type stubColumnService struct {
	getFn     func(ctx context.Context, owner domain.Owner, module string) (domain.ColumnSet, error)
	setFn     func(ctx context.Context, owner domain.Owner, in ports.SetColumnsInput) error
	catalogFn func(ctx context.Context, owner domain.Owner, module string) (*domain.ColumnCatalog, error)
}

func (s *stubColumnService) GetColumns(ctx context.Context, owner domain.Owner, module string) (domain.ColumnSet, error) {
	return s.getFn(ctx, owner, module)
}

func (s *stubColumnService) SetColumns(ctx context.Context, owner domain.Owner, in ports.SetColumnsInput) error {
	return s.setFn(ctx, owner, in)
}

func (s *stubColumnService) Catalog(ctx context.Context, owner domain.Owner, module string) (*domain.ColumnCatalog, error) {
	return s.catalogFn(ctx, owner, module)
}

type stubListService struct {
	listFn    func(ctx context.Context, caller domain.Caller, req domain.ListRequest) (*domain.ListResult, error)
	drawerFn  func(ctx context.Context, caller domain.Caller, module, id string) ([]domain.DrawerField, error)
	optionsFn func(ctx context.Context, caller domain.Caller, entityType, search string) ([]domain.EntityOption, error)
}

func (s *stubListService) List(ctx context.Context, caller domain.Caller, req domain.ListRequest) (*domain.ListResult, error) {
	return s.listFn(ctx, caller, req)
}

func (s *stubListService) Drawer(ctx context.Context, caller domain.Caller, module, id string) ([]domain.DrawerField, error) {
	return s.drawerFn(ctx, caller, module, id)
}

func (s *stubListService) EntityOptions(ctx context.Context, caller domain.Caller, entityType, search string) ([]domain.EntityOption, error) {
	return s.optionsFn(ctx, caller, entityType, search)
}

type stubOverdueService struct {
	monthlyFn func(ctx context.Context, caller domain.Caller, in ports.MonthlyOverdueInput) (*domain.ListResult, error)
	lastFn    func(ctx context.Context, caller domain.Caller, clientID string, p domain.Period) (*domain.LastOverdueList, error)
}

func (s *stubOverdueService) Monthly(ctx context.Context, caller domain.Caller, in ports.MonthlyOverdueInput) (*domain.ListResult, error) {
	return s.monthlyFn(ctx, caller, in)
}

func (s *stubOverdueService) LastList(ctx context.Context, caller domain.Caller, clientID string, p domain.Period) (*domain.LastOverdueList, error) {
	return s.lastFn(ctx, caller, clientID, p)
}

type stubCreditLimitService struct {
	updateFn func(ctx context.Context, caller domain.Caller, in ports.UpdateCreditLimitInput) (*ports.CreditLimitResult, error)
}

func (s *stubCreditLimitService) Update(ctx context.Context, caller domain.Caller, in ports.UpdateCreditLimitInput) (*ports.CreditLimitResult, error) {
	return s.updateFn(ctx, caller, in)
}

// validationCode returns the code of a ValidationError, or "" for any other error.
func validationCode(err error) string {
	var ve *domain.ValidationError
	if errors.As(err, &ve) {
		return ve.Code
	}
	return ""
}
