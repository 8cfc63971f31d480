package ports

import "context"

// ClientRosterRepository answers which clients a risk user is assigned to.
type ClientRosterRepository interface {
	// AssignedClientIDs returns non-deleted clients where userID is the risk
	// analyst or the service manager.
	AssignedClientIDs(ctx context.Context, userID string) ([]string, error)
}
