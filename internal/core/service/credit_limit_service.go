package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"

	"github.com/traderisk/risk-backoffice/internal/core/domain"
	"github.com/traderisk/risk-backoffice/internal/core/ports"
)

const idempotencyScope = "credit-limit"

type creditLimitService struct {
	repo   ports.CreditLimitRepository
	scopes ports.ScopeResolver
	guard  ports.IdempotencyGuard
	log    zerolog.Logger
	now    func() time.Time
}

// NewCreditLimitService returns the credit-limit service. guard may be nil,
// in which case Idempotency-Key headers are ignored.
func NewCreditLimitService(
	repo ports.CreditLimitRepository,
	scopes ports.ScopeResolver,
	guard ports.IdempotencyGuard,
	log zerolog.Logger,
) ports.CreditLimitService {
	return &creditLimitService{
		repo:   repo,
		scopes: scopes,
		guard:  guard,
		log:    log,
		now:    time.Now,
	}
}

// Update applies a modify or surrender action to a client-debtor limit.
func (s *creditLimitService) Update(ctx context.Context, caller domain.Caller, in ports.UpdateCreditLimitInput) (*ports.CreditLimitResult, error) {
	action := domain.CreditLimitAction(strings.ToLower(strings.TrimSpace(in.Action)))
	target, ok := action.Target()
	if !ok {
		return nil, domain.NewValidationError(domain.CodeInvalidAction, "action must be modify or surrender")
	}

	var limit decimal.Decimal
	if action == domain.ActionModify {
		var err error
		if limit, err = parseCreditLimit(in.CreditLimit); err != nil {
			return nil, err
		}
	}

	// 1. Replays of a claimed key report the current state unchanged.
	claimed := false
	if s.guard != nil && in.IdempotencyKey != "" {
		fresh, err := s.guard.Claim(ctx, idempotencyScope, in.IdempotencyKey)
		if err != nil {
			s.log.Warn().Err(err).Str("key", in.IdempotencyKey).Msg("idempotency check failed, proceeding")
		} else if !fresh {
			return s.current(ctx, caller, in.ClientDebtorID)
		} else {
			claimed = true
		}
	}

	res, err := s.apply(ctx, caller, in.ClientDebtorID, action, target, limit)
	if err != nil && claimed {
		if rerr := s.guard.Release(ctx, idempotencyScope, in.IdempotencyKey); rerr != nil {
			s.log.Warn().Err(rerr).Str("key", in.IdempotencyKey).Msg("release idempotency key")
		}
	}
	return res, err
}

func (s *creditLimitService) apply(
	ctx context.Context,
	caller domain.Caller,
	id string,
	action domain.CreditLimitAction,
	target domain.CreditLimitStatus,
	limit decimal.Decimal,
) (*ports.CreditLimitResult, error) {
	cd, err := s.load(ctx, caller, id)
	if err != nil {
		return nil, err
	}

	from := cd.CurrentStatus()
	if !from.CanTransitionTo(target) {
		return nil, fmt.Errorf("%w: %s -> %s", domain.ErrInvalidTransition, from, target)
	}

	res := &ports.CreditLimitResult{ClientDebtorID: cd.ID, Status: target}
	switch action {
	case domain.ActionModify:
		app := &domain.Application{
			ApplicationID:  newApplicationRef(),
			ClientID:       cd.ClientID,
			DebtorID:       cd.DebtorID,
			ClientDebtorID: cd.ID,
			CreditLimit:    limit.InexactFloat64(),
			Status:         domain.ApplicationSubmitted,
			CreatedByType:  caller.Type,
			CreatedByID:    caller.ID,
			CreatedAt:      s.now().UTC(),
		}
		if err := s.repo.CreateApplication(ctx, app); err != nil {
			return nil, fmt.Errorf("create application: %w", err)
		}
		cd.Status = domain.CreditLimitPendingApproval
		cd.ActiveApplicationID = app.ID
		res.ApplicationID = app.ID
		res.CreditLimit = cd.CreditLimit

	case domain.ActionSurrender:
		surrendered := cd.ActiveApplicationID
		cd.Status = domain.CreditLimitInactive
		cd.CreditLimit = 0
		cd.ActiveApplicationID = ""
		cd.IsActive = false
		if surrendered != "" {
			if err := s.repo.SetApplicationStatus(ctx, surrendered, domain.ApplicationSurrendered); err != nil {
				return nil, fmt.Errorf("surrender application: %w", err)
			}
		}
		res.ApplicationID = surrendered
	}

	cd.UpdatedAt = s.now().UTC()
	if err := s.repo.UpdateClientDebtor(ctx, cd); err != nil {
		return nil, fmt.Errorf("update credit limit: %w", err)
	}

	s.log.Info().
		Str("client_debtor_id", cd.ID).
		Str("from", string(from)).
		Str("to", string(target)).
		Str("by", caller.ID).
		Msg("credit limit transitioned")
	return res, nil
}

func (s *creditLimitService) current(ctx context.Context, caller domain.Caller, id string) (*ports.CreditLimitResult, error) {
	cd, err := s.load(ctx, caller, id)
	if err != nil {
		return nil, err
	}
	return &ports.CreditLimitResult{
		ClientDebtorID: cd.ID,
		Status:         cd.CurrentStatus(),
		ApplicationID:  cd.ActiveApplicationID,
		CreditLimit:    cd.CreditLimit,
		AlreadyApplied: true,
	}, nil
}

// load fetches the client-debtor and checks it is within the caller's scope.
func (s *creditLimitService) load(ctx context.Context, caller domain.Caller, id string) (*domain.ClientDebtor, error) {
	cd, err := s.repo.FindClientDebtor(ctx, id)
	if err != nil {
		return nil, err
	}
	scope, err := s.scopes.Resolve(ctx, caller)
	if err != nil {
		return nil, err
	}
	if !scope.Allows(cd.ClientID) {
		return nil, domain.ErrForbidden
	}
	return cd, nil
}

// parseCreditLimit accepts a positive whole-dollar amount written as digits.
func parseCreditLimit(raw string) (decimal.Decimal, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" || strings.TrimLeft(raw, "0123456789") != "" {
		return decimal.Decimal{}, domain.NewValidationError(domain.CodeInvalidAmount, "credit limit must contain digits only")
	}
	d, err := decimal.NewFromString(raw)
	if err != nil || !d.IsPositive() {
		return decimal.Decimal{}, domain.NewValidationError(domain.CodeInvalidAmount, "credit limit must be greater than zero")
	}
	return d, nil
}

// newApplicationRef returns a human-readable application reference.
func newApplicationRef() string {
	id := strings.ReplaceAll(uuid.NewString(), "-", "")
	return "APP-" + strings.ToUpper(id[:10])
}
