package ports

import (
	"context"

	"github.com/traderisk/risk-backoffice/internal/core/domain"
)

// ScopeResolver computes what a caller may see. Never cached.
type ScopeResolver interface {
	Resolve(ctx context.Context, caller domain.Caller) (domain.AccessScope, error)
}

// ColumnService manages per-user column selections.
type ColumnService interface {
	GetColumns(ctx context.Context, owner domain.Owner, module string) (domain.ColumnSet, error)
	SetColumns(ctx context.Context, owner domain.Owner, input SetColumnsInput) error
	Catalog(ctx context.Context, owner domain.Owner, module string) (*domain.ColumnCatalog, error)
}

// SetColumnsInput is a column update request.
type SetColumnsInput struct {
	Module  string
	Columns []string
	IsReset bool
}

// ListService serves module listings, detail drawers and entity pickers.
type ListService interface {
	List(ctx context.Context, caller domain.Caller, req domain.ListRequest) (*domain.ListResult, error)
	Drawer(ctx context.Context, caller domain.Caller, module, id string) ([]domain.DrawerField, error)
	EntityOptions(ctx context.Context, caller domain.Caller, entityType, search string) ([]domain.EntityOption, error)
}

// OverdueService serves the overdue monthly rollup and last-list lookback.
type OverdueService interface {
	Monthly(ctx context.Context, caller domain.Caller, input MonthlyOverdueInput) (*domain.ListResult, error)
	LastList(ctx context.Context, caller domain.Caller, clientID string, period domain.Period) (*domain.LastOverdueList, error)
}

// MonthlyOverdueInput selects the rollup page.
type MonthlyOverdueInput struct {
	ClientID string
	Page     int
	Limit    int
}

// CreditLimitService applies credit-limit actions.
type CreditLimitService interface {
	Update(ctx context.Context, caller domain.Caller, input UpdateCreditLimitInput) (*CreditLimitResult, error)
}

// UpdateCreditLimitInput is a modify or surrender request.
type UpdateCreditLimitInput struct {
	ClientDebtorID string
	Action         string
	CreditLimit    string
	IdempotencyKey string
}

// CreditLimitResult reports the state after an update.
type CreditLimitResult struct {
	ClientDebtorID string
	Status         domain.CreditLimitStatus
	ApplicationID  string
	CreditLimit    float64
	// AlreadyApplied is true when the Idempotency-Key was seen before.
	AlreadyApplied bool
}
