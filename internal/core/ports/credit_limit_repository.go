package ports

import (
	"context"

	"github.com/traderisk/risk-backoffice/internal/core/domain"
)

// CreditLimitRepository persists client-debtor limits and their applications.
type CreditLimitRepository interface {
	FindClientDebtor(ctx context.Context, id string) (*domain.ClientDebtor, error)
	CreateApplication(ctx context.Context, app *domain.Application) error
	// UpdateClientDebtor stores the status, limit and active application.
	UpdateClientDebtor(ctx context.Context, cd *domain.ClientDebtor) error
	SetApplicationStatus(ctx context.Context, id string, status domain.ApplicationStatus) error
}

// IdempotencyGuard records request keys so a retried mutation is applied once.
type IdempotencyGuard interface {
	// Claim returns false when key was already claimed within its TTL.
	Claim(ctx context.Context, scope, key string) (bool, error)
	// Release frees a claim after a failed attempt so it can be retried.
	Release(ctx context.Context, scope, key string) error
}
