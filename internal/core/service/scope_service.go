package service

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/traderisk/risk-backoffice/internal/core/domain"
	"github.com/traderisk/risk-backoffice/internal/core/ports"
)

type scopeService struct {
	roster ports.ClientRosterRepository
	log    zerolog.Logger
}

// NewScopeService returns a ScopeResolver backed by the client roster.
func NewScopeService(roster ports.ClientRosterRepository, log zerolog.Logger) ports.ScopeResolver {
	return &scopeService{roster: roster, log: log}
}

// Resolve computes the caller's visible clients for this request:
//   - full-access risk users see every client;
//   - client users see only their own client;
//   - other risk users see the clients they analyse or manage.
func (s *scopeService) Resolve(ctx context.Context, caller domain.Caller) (domain.AccessScope, error) {
	if caller.HasFullAccess() {
		return domain.AccessScope{FullAccess: true}, nil
	}

	if caller.Type == domain.CallerClientUser {
		if caller.ClientID == "" {
			return domain.AccessScope{}, fmt.Errorf("resolve scope: client user without client: %w", domain.ErrForbidden)
		}
		return domain.AccessScope{ClientIDs: []string{caller.ClientID}}, nil
	}

	ids, err := s.roster.AssignedClientIDs(ctx, caller.ID)
	if err != nil {
		return domain.AccessScope{}, fmt.Errorf("resolve scope: %w", err)
	}
	s.log.Debug().Str("user_id", caller.ID).Int("clients", len(ids)).Msg("scope resolved")
	return domain.AccessScope{ClientIDs: ids}, nil
}
