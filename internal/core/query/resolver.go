package query

import "github.com/traderisk/risk-backoffice/internal/core/domain"

// Target is where a discriminated reference is resolved.
type Target struct {
	Collection string
	NameField  string
}

// targets maps every reference variant to its collection and display attribute.
var targets = map[domain.EntityType]Target{
	domain.EntityUser:        {Collection: "users", NameField: "name"},
	domain.EntityClient:      {Collection: "clients", NameField: "name"},
	domain.EntityClientUser:  {Collection: "client-users", NameField: "name"},
	domain.EntityDebtor:      {Collection: "debtors", NameField: "entityName"},
	domain.EntityApplication: {Collection: "applications", NameField: "applicationId"},
	domain.EntityInsurer:     {Collection: "insurers", NameField: "name"},
}

// TargetFor returns the resolution target of t.
func TargetFor(t domain.EntityType) (Target, bool) {
	target, ok := targets[t]
	return target, ok
}
