package service

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/rs/zerolog"

	"github.com/traderisk/risk-backoffice/internal/core/domain"
	"github.com/traderisk/risk-backoffice/internal/core/ports"
)

const cdHex = "65f0000000000000000000d1"

type stubCreditRepo struct {
	byID      map[string]*domain.ClientDebtor
	apps      []*domain.Application
	statuses  map[string]domain.ApplicationStatus
	updates   int
	updateErr error
}

func newStubCreditRepo(cd *domain.ClientDebtor) *stubCreditRepo {
	return &stubCreditRepo{
		byID:     map[string]*domain.ClientDebtor{cd.ID: cd},
		statuses: make(map[string]domain.ApplicationStatus),
	}
}

func (r *stubCreditRepo) FindClientDebtor(_ context.Context, id string) (*domain.ClientDebtor, error) {
	cd, ok := r.byID[id]
	if !ok {
		return nil, domain.ErrRecordNotFound
	}
	cp := *cd
	return &cp, nil
}

func (r *stubCreditRepo) CreateApplication(_ context.Context, app *domain.Application) error {
	app.ID = "app-new"
	r.apps = append(r.apps, app)
	return nil
}

func (r *stubCreditRepo) UpdateClientDebtor(_ context.Context, cd *domain.ClientDebtor) error {
	if r.updateErr != nil {
		return r.updateErr
	}
	r.updates++
	cp := *cd
	r.byID[cd.ID] = &cp
	return nil
}

func (r *stubCreditRepo) SetApplicationStatus(_ context.Context, id string, status domain.ApplicationStatus) error {
	r.statuses[id] = status
	return nil
}

type stubGuard struct {
	claimed  map[string]bool
	released []string
	err      error
}

func newStubGuard() *stubGuard { return &stubGuard{claimed: make(map[string]bool)} }

func (g *stubGuard) Claim(_ context.Context, scope, key string) (bool, error) {
	if g.err != nil {
		return false, g.err
	}
	k := scope + ":" + key
	if g.claimed[k] {
		return false, nil
	}
	g.claimed[k] = true
	return true, nil
}

func (g *stubGuard) Release(_ context.Context, scope, key string) error {
	k := scope + ":" + key
	delete(g.claimed, k)
	g.released = append(g.released, k)
	return nil
}

func activeLimit() *domain.ClientDebtor {
	return &domain.ClientDebtor{
		ID:                  cdHex,
		ClientID:            clientHex,
		DebtorID:            "debtor-1",
		CreditLimit:         50000,
		ActiveApplicationID: "app-old",
		IsActive:            true,
	}
}

func newCreditSvc(repo *stubCreditRepo, guard *stubGuard, scope domain.AccessScope) ports.CreditLimitService {
	if guard == nil {
		return NewCreditLimitService(repo, &stubScopes{scope: scope}, nil, zerolog.Nop())
	}
	return NewCreditLimitService(repo, &stubScopes{scope: scope}, guard, zerolog.Nop())
}

var fullScope = domain.AccessScope{FullAccess: true}

// ---------------------------------------------------------------------------
// Tests
// ---------------------------------------------------------------------------

func TestCreditLimitService_Modify(t *testing.T) {
	repo := newStubCreditRepo(activeLimit())
	svc := newCreditSvc(repo, nil, fullScope)

	res, err := svc.Update(context.Background(), riskUser(), ports.UpdateCreditLimitInput{
		ClientDebtorID: cdHex,
		Action:         "Modify",
		CreditLimit:    "75000",
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if res.Status != domain.CreditLimitPendingApproval || res.ApplicationID != "app-new" {
		t.Fatalf("unexpected result %+v", res)
	}
	if len(repo.apps) != 1 {
		t.Fatalf("expected one application, got %d", len(repo.apps))
	}
	app := repo.apps[0]
	if app.CreditLimit != 75000 || app.Status != domain.ApplicationSubmitted || !strings.HasPrefix(app.ApplicationID, "APP-") {
		t.Fatalf("unexpected application %+v", app)
	}
	if got := repo.byID[cdHex]; got.Status != domain.CreditLimitPendingApproval || got.CreditLimit != 50000 {
		t.Fatalf("approved limit must stay until approval, got %+v", got)
	}
}

func TestCreditLimitService_Modify_RejectsNonDigits(t *testing.T) {
	for _, raw := range []string{"", "12.50", "-10", "1e5", "0", "ten"} {
		t.Run(raw, func(t *testing.T) {
			repo := newStubCreditRepo(activeLimit())
			_, err := newCreditSvc(repo, nil, fullScope).Update(context.Background(), riskUser(), ports.UpdateCreditLimitInput{
				ClientDebtorID: cdHex,
				Action:         "modify",
				CreditLimit:    raw,
			})
			var vErr *domain.ValidationError
			if !errors.As(err, &vErr) || vErr.Code != domain.CodeInvalidAmount {
				t.Fatalf("expected INVALID_AMOUNT, got %v", err)
			}
			if repo.updates != 0 {
				t.Fatal("nothing should be stored")
			}
		})
	}
}

func TestCreditLimitService_Surrender(t *testing.T) {
	repo := newStubCreditRepo(activeLimit())
	svc := newCreditSvc(repo, nil, fullScope)

	res, err := svc.Update(context.Background(), riskUser(), ports.UpdateCreditLimitInput{ClientDebtorID: cdHex, Action: "surrender"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if res.Status != domain.CreditLimitInactive {
		t.Fatalf("expected INACTIVE, got %s", res.Status)
	}
	got := repo.byID[cdHex]
	if got.CreditLimit != 0 || got.ActiveApplicationID != "" || got.IsActive {
		t.Fatalf("surrender must clear the limit, got %+v", got)
	}
	if repo.statuses["app-old"] != domain.ApplicationSurrendered {
		t.Fatalf("expected app-old SURRENDERED, got %q", repo.statuses["app-old"])
	}
}

func TestCreditLimitService_InvalidTransition(t *testing.T) {
	cd := activeLimit()
	cd.Status = domain.CreditLimitInactive
	repo := newStubCreditRepo(cd)

	_, err := newCreditSvc(repo, nil, fullScope).Update(context.Background(), riskUser(), ports.UpdateCreditLimitInput{ClientDebtorID: cdHex, Action: "surrender"})
	if !errors.Is(err, domain.ErrInvalidTransition) {
		t.Fatalf("expected ErrInvalidTransition, got %v", err)
	}
}

func TestCreditLimitService_InvalidAction(t *testing.T) {
	repo := newStubCreditRepo(activeLimit())
	_, err := newCreditSvc(repo, nil, fullScope).Update(context.Background(), riskUser(), ports.UpdateCreditLimitInput{ClientDebtorID: cdHex, Action: "approve"})
	var vErr *domain.ValidationError
	if !errors.As(err, &vErr) || vErr.Code != domain.CodeInvalidAction {
		t.Fatalf("expected INVALID_ACTION, got %v", err)
	}
}

func TestCreditLimitService_OutOfScope(t *testing.T) {
	repo := newStubCreditRepo(activeLimit())
	svc := newCreditSvc(repo, nil, domain.AccessScope{ClientIDs: []string{otherHex}})

	_, err := svc.Update(context.Background(), riskUser(), ports.UpdateCreditLimitInput{ClientDebtorID: cdHex, Action: "surrender"})
	if !errors.Is(err, domain.ErrForbidden) {
		t.Fatalf("expected ErrForbidden, got %v", err)
	}
}

func TestCreditLimitService_IdempotentReplay(t *testing.T) {
	repo := newStubCreditRepo(activeLimit())
	guard := newStubGuard()
	svc := newCreditSvc(repo, guard, fullScope)
	in := ports.UpdateCreditLimitInput{ClientDebtorID: cdHex, Action: "modify", CreditLimit: "60000", IdempotencyKey: "k-1"}

	if _, err := svc.Update(context.Background(), riskUser(), in); err != nil {
		t.Fatalf("first update: %v", err)
	}
	res, err := svc.Update(context.Background(), riskUser(), in)
	if err != nil {
		t.Fatalf("replay: %v", err)
	}
	if !res.AlreadyApplied || res.Status != domain.CreditLimitPendingApproval {
		t.Fatalf("expected replay to report current state, got %+v", res)
	}
	if len(repo.apps) != 1 {
		t.Fatalf("replay must not create another application, got %d", len(repo.apps))
	}
}

func TestCreditLimitService_FailureReleasesKey(t *testing.T) {
	repo := newStubCreditRepo(activeLimit())
	repo.updateErr = domain.ErrStorage
	guard := newStubGuard()
	svc := newCreditSvc(repo, guard, fullScope)

	_, err := svc.Update(context.Background(), riskUser(), ports.UpdateCreditLimitInput{ClientDebtorID: cdHex, Action: "surrender", IdempotencyKey: "k-2"})
	if !errors.Is(err, domain.ErrStorage) {
		t.Fatalf("expected ErrStorage, got %v", err)
	}
	if len(guard.released) != 1 || guard.claimed["credit-limit:k-2"] {
		t.Fatalf("expected key released, got %+v", guard)
	}
}

func TestCreditLimitService_GuardDownStillApplies(t *testing.T) {
	repo := newStubCreditRepo(activeLimit())
	guard := newStubGuard()
	guard.err = errors.New("redis unavailable")
	svc := newCreditSvc(repo, guard, fullScope)

	res, err := svc.Update(context.Background(), riskUser(), ports.UpdateCreditLimitInput{ClientDebtorID: cdHex, Action: "surrender", IdempotencyKey: "k-3"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if res.AlreadyApplied || res.Status != domain.CreditLimitInactive {
		t.Fatalf("unexpected result %+v", res)
	}
}
