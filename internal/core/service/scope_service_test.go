package service

import (
	"context"
	"errors"
	"testing"

	"github.com/rs/zerolog"

	"github.com/traderisk/risk-backoffice/internal/core/domain"
)

func TestScopeService_FullAccess(t *testing.T) {
	roster := &stubRoster{ids: []string{clientHex}}
	svc := NewScopeService(roster, zerolog.Nop())

	scope, err := svc.Resolve(context.Background(), riskUser(domain.AccessFull))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !scope.FullAccess {
		t.Fatal("expected full access")
	}
	if roster.calls != 0 {
		t.Fatalf("roster should not be queried, got %d calls", roster.calls)
	}
}

func TestScopeService_ClientUserSeesOwnClient(t *testing.T) {
	svc := NewScopeService(&stubRoster{}, zerolog.Nop())
	caller := domain.Caller{ID: userHex, Type: domain.CallerClientUser, ClientID: clientHex, AccessTypes: []string{domain.AccessFull}}

	scope, err := svc.Resolve(context.Background(), caller)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if scope.FullAccess {
		t.Fatal("client users never get full access")
	}
	if len(scope.ClientIDs) != 1 || scope.ClientIDs[0] != clientHex {
		t.Fatalf("expected [%s], got %v", clientHex, scope.ClientIDs)
	}
}

func TestScopeService_ClientUserWithoutClient(t *testing.T) {
	svc := NewScopeService(&stubRoster{}, zerolog.Nop())
	_, err := svc.Resolve(context.Background(), domain.Caller{ID: userHex, Type: domain.CallerClientUser})
	if !errors.Is(err, domain.ErrForbidden) {
		t.Fatalf("expected ErrForbidden, got %v", err)
	}
}

func TestScopeService_AssignedClients(t *testing.T) {
	svc := NewScopeService(&stubRoster{ids: []string{clientHex, otherHex}}, zerolog.Nop())

	scope, err := svc.Resolve(context.Background(), riskUser())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !scope.Allows(otherHex) || scope.Allows("65f0000000000000000000ff") {
		t.Fatalf("unexpected scope %+v", scope)
	}
}

func TestScopeService_RosterError(t *testing.T) {
	svc := NewScopeService(&stubRoster{err: domain.ErrStorage}, zerolog.Nop())
	_, err := svc.Resolve(context.Background(), riskUser())
	if !errors.Is(err, domain.ErrStorage) {
		t.Fatalf("expected ErrStorage, got %v", err)
	}
}
