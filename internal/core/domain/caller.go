package domain

// CallerType identifies which collection an authenticated caller lives in.
type CallerType string

const (
	CallerUser       CallerType = "user"
	CallerClientUser CallerType = "client-user"
)

// AccessFull is the access type that bypasses per-client scoping.
const AccessFull = "full-access"

// Caller is the authenticated identity behind a request.
type Caller struct {
	ID          string
	Type        CallerType
	AccessTypes []string
	// ClientID is set for client-user callers only.
	ClientID string
}

// HasFullAccess reports whether the caller holds the full-access grant.
func (c Caller) HasFullAccess() bool {
	if c.Type != CallerUser {
		return false
	}
	for _, a := range c.AccessTypes {
		if a == AccessFull {
			return true
		}
	}
	return false
}

// Owner returns the preference owner for the caller.
func (c Caller) Owner() Owner {
	return Owner{ID: c.ID, Type: c.Type}
}

// Owner identifies the user or client-user whose column preferences are read
// or written.
type Owner struct {
	ID   string
	Type CallerType
}

// ColumnPreference is a stored per-module column selection.
type ColumnPreference struct {
	ModuleName string   `bson:"moduleName" json:"moduleName"`
	Columns    []string `bson:"columns"    json:"columns"`
}

// AccessScope is the set of clients a caller may see, derived per request.
type AccessScope struct {
	FullAccess bool
	ClientIDs  []string
}

// Allows reports whether clientID is visible within the scope.
func (s AccessScope) Allows(clientID string) bool {
	if s.FullAccess {
		return true
	}
	for _, id := range s.ClientIDs {
		if id == clientID {
			return true
		}
	}
	return false
}
