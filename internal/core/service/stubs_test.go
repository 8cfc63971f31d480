package service

import (
	"context"
	"fmt"

	"github.com/traderisk/risk-backoffice/internal/core/domain"
	"github.com/traderisk/risk-backoffice/internal/core/query"
)

// ---------------------------------------------------------------------------
// Stubs shared by the service tests
// ---------------------------------------------------------------------------

const (
	userHex   = "65f000000000000000000001"
	clientHex = "65f0000000000000000000c1"
	otherHex  = "65f0000000000000000000c2"
)

func riskUser(access ...string) domain.Caller {
	return domain.Caller{ID: userHex, Type: domain.CallerUser, AccessTypes: access}
}

type stubPrefs struct {
	stored  map[string][]string
	getErr  error
	setErr  error
	sets    int
	seeded  []domain.ColumnPreference
	seedErr error
}

func newStubPrefs() *stubPrefs {
	return &stubPrefs{stored: make(map[string][]string)}
}

func prefKey(owner domain.Owner, module string) string {
	return fmt.Sprintf("%s/%s/%s", owner.Type, owner.ID, module)
}

func (p *stubPrefs) GetColumns(_ context.Context, owner domain.Owner, module string) ([]string, bool, error) {
	if p.getErr != nil {
		return nil, false, p.getErr
	}
	cols, ok := p.stored[prefKey(owner, module)]
	return cols, ok, nil
}

func (p *stubPrefs) SetColumns(_ context.Context, owner domain.Owner, module string, columns []string) error {
	if p.setErr != nil {
		return p.setErr
	}
	p.sets++
	p.stored[prefKey(owner, module)] = columns
	return nil
}

func (p *stubPrefs) SeedMissing(_ context.Context, owner domain.Owner, prefs []domain.ColumnPreference) (int, error) {
	if p.seedErr != nil {
		return 0, p.seedErr
	}
	added := 0
	for _, pref := range prefs {
		key := prefKey(owner, pref.ModuleName)
		if _, ok := p.stored[key]; ok {
			continue
		}
		p.stored[key] = pref.Columns
		p.seeded = append(p.seeded, pref)
		added++
	}
	return added, nil
}

func (p *stubPrefs) Owners(_ context.Context, _ domain.CallerType) ([]domain.Owner, error) {
	return nil, nil
}

type stubRoster struct {
	ids   []string
	err   error
	calls int
}

func (r *stubRoster) AssignedClientIDs(_ context.Context, _ string) ([]string, error) {
	r.calls++
	return r.ids, r.err
}

type stubScopes struct {
	scope domain.AccessScope
	err   error
}

func (s *stubScopes) Resolve(_ context.Context, _ domain.Caller) (domain.AccessScope, error) {
	return s.scope, s.err
}

type stubExecutor struct {
	docs  []domain.Record
	total int64
	err   error
	plans []*query.Plan
}

func (e *stubExecutor) Execute(_ context.Context, plan *query.Plan) ([]domain.Record, int64, error) {
	e.plans = append(e.plans, plan)
	if e.err != nil {
		return nil, 0, e.err
	}
	return e.docs, e.total, nil
}
