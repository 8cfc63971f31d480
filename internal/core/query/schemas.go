package query

import (
	"strings"

	"go.mongodb.org/mongo-driver/bson"

	"github.com/traderisk/risk-backoffice/internal/core/domain"
	"github.com/traderisk/risk-backoffice/internal/core/registry"
)

// Collection names.
const (
	CollectionClients       = "clients"
	CollectionClientUsers   = "client-users"
	CollectionUsers         = "users"
	CollectionDebtors       = "debtors"
	CollectionClientDebtors = "client-debtors"
	CollectionApplications  = "applications"
	CollectionInsurers      = "insurers"
	CollectionInsurerUsers  = "insurer-users"
	CollectionTasks         = "tasks"
	CollectionOverdues      = "overdues"
	CollectionDocuments     = "documents"
	CollectionDocumentTypes = "document-types"
	CollectionPolicies      = "policies"
)

func userJoin(local string) *Join {
	return &Join{From: CollectionUsers, LocalField: local}
}

var (
	clientJoin       = &Join{From: CollectionClients, LocalField: "clientId"}
	debtorJoin       = &Join{From: CollectionDebtors, LocalField: "debtorId"}
	insurerJoin      = &Join{From: CollectionInsurers, LocalField: "insurerId"}
	clientDebtorJoin = &Join{From: CollectionClientDebtors, LocalField: "clientDebtorId"}
	applicationJoin  = &Join{From: CollectionApplications, LocalField: "activeApplicationId"}
	documentTypeJoin = &Join{From: CollectionDocumentTypes, LocalField: "documentTypeId"}

	// debtors are visible through any client-debtor link to a visible client.
	debtorClientLinks = &Join{
		From:         CollectionClientDebtors,
		LocalField:   "_id",
		ForeignField: "debtorId",
		As:           "clientLinks",
		Many:         true,
	}

	// debtor documents follow the same links from their entityRefId.
	debtorDocumentLinks = &Join{
		From:         CollectionClientDebtors,
		LocalField:   "entityRefId",
		ForeignField: "debtorId",
		As:           "clientLinks",
		Many:         true,
	}

	// application documents are visible when their application is.
	documentApplication = &Join{From: CollectionApplications, LocalField: "entityRefId", As: "application"}

	people = []domain.EntityType{domain.EntityUser, domain.EntityClientUser}
)

// viaClient scopes a module by the clientId of the records j joins.
func viaClient(j *Join) ScopeRule {
	return ScopeRule{Kind: ScopeVia, Field: j.as() + ".clientId", Via: j}
}

func addressFields(fields map[string]Field) map[string]Field {
	fields["fullAddress"] = Field{Path: "address", Display: DisplayFullAddress}
	for _, part := range []string{"addressLine", "city", "state", "country", "zipCode"} {
		fields[part] = Field{Path: "address." + part}
	}
	return fields
}

func taskSchema(entityType domain.EntityType) Schema {
	s := Schema{
		Collection: CollectionTasks,
		Fields: map[string]Field{
			"entityId": {
				Union: &Union{
					Field:     "entityId",
					TypeField: "entityType",
					Variants: []domain.EntityType{
						domain.EntityUser, domain.EntityClient, domain.EntityClientUser,
						domain.EntityDebtor, domain.EntityApplication,
					},
				},
				Display: DisplayReference,
			},
			"assigneeId":  {Union: &Union{Field: "assigneeId", TypeField: "assigneeType", Variants: people}},
			"createdById": {Union: &Union{Field: "createdById", TypeField: "createdByType", Variants: people}},
		},
		Search:     []string{"title", "description"},
		Scope:      ScopeRule{Kind: ScopeCaller, Field: "assigneeId", CreatorField: "createdById"},
		Extra:      []string{"isCompleted"},
		SoftDelete: true,
		Filter:     taskFilter,
	}
	if entityType != "" {
		s.Parent = "entityId"
		s.Where = []bson.D{eq("entityType", string(entityType))}
	}
	return s
}

func taskFilter(in FilterInput) Clause {
	f := in.Filters
	var c Clause
	if f.Priority != "" {
		c.Match = append(c.Match, eq("priority", strings.ToUpper(f.Priority)))
	}
	if f.IsCompleted != nil {
		c.Match = append(c.Match, eq("isCompleted", *f.IsCompleted))
	}
	if r := dateRange("dueDate", f.StartDate, f.EndDate); r != nil {
		c.Match = append(c.Match, r)
	}
	if f.AssigneeName != "" {
		c.Joined = append(c.Joined, eq("assigneeId.name", contains(f.AssigneeName)))
		c.Needs = append(c.Needs, "assigneeId")
	}
	return c
}

func overdueSchema(parent string) Schema {
	return Schema{
		Collection: CollectionOverdues,
		Fields: map[string]Field{
			"month":          {Display: DisplayPeriod},
			"clientId":       {Ref: clientJoin, Attr: "name", Display: DisplayLink},
			"debtorId":       {Ref: debtorJoin, Attr: "entityName", Display: DisplayLink},
			"entityType":     {Ref: debtorJoin, Attr: "entityType"},
			"clientDebtorId": {Ref: clientDebtorJoin, Attr: "creditLimit"},
			"insurerId":      {Ref: insurerJoin, Attr: "name"},
		},
		Search:     []string{"debtorId", "acn"},
		Scope:      ScopeRule{Kind: ScopeClient, Field: "clientId"},
		Parent:     parent,
		SoftDelete: true,
		Filter:     overdueFilter,
	}
}

func overdueFilter(in FilterInput) Clause {
	f := in.Filters
	var c Clause
	if f.Status != "" {
		c.Match = append(c.Match, eq("status", strings.ToUpper(f.Status)))
	}
	if r := between("outstandingAmount", f.MinOutstandingAmount, f.MaxOutstandingAmount); r != nil {
		c.Match = append(c.Match, r)
	}
	if r := dateRange("dateOfInvoice", f.StartDate, f.EndDate); r != nil {
		c.Match = append(c.Match, r)
	}
	if f.ClientName != "" {
		c.Joined = append(c.Joined, eq(clientJoin.as()+".name", contains(f.ClientName)))
		c.Needs = append(c.Needs, "clientId")
	}
	if f.DebtorName != "" {
		c.Joined = append(c.Joined, eq(debtorJoin.as()+".entityName", contains(f.DebtorName)))
		c.Needs = append(c.Needs, "debtorId")
	}
	return c
}

func documentSchema(entityType domain.EntityType, scope ScopeRule) Schema {
	return Schema{
		Collection: CollectionDocuments,
		Fields: map[string]Field{
			"documentTypeId": {Ref: documentTypeJoin, Attr: "documentTitle"},
			"uploadById":     {Union: &Union{Field: "uploadById", TypeField: "uploadByType", Variants: people}},
			"isPublic":       {Display: DisplayYesNo},
		},
		Search:     []string{"documentTypeId"},
		Scope:      scope,
		Parent:     "entityRefId",
		Where:      []bson.D{eq("entityType", string(entityType))},
		SoftDelete: true,
		Filter:     documentVisibility,
	}
}

// documentVisibility lets risk users see their own side's uploads and public
// client uploads, and client users see public risk uploads and their own.
func documentVisibility(in FilterInput) Clause {
	var rule bson.D
	switch in.Caller.Type {
	case domain.CallerClientUser:
		own := bson.D{{Key: "uploadByType", Value: string(domain.EntityClientUser)}}
		if oid, err := ObjectID(in.Caller.ID, "caller"); err == nil {
			own = append(own, bson.E{Key: "uploadById", Value: oid})
		}
		rule = bson.D{{Key: "$or", Value: bson.A{
			bson.D{{Key: "uploadByType", Value: string(domain.EntityUser)}, {Key: "isPublic", Value: true}},
			own,
		}}}
	default:
		rule = bson.D{{Key: "$or", Value: bson.A{
			bson.D{{Key: "uploadByType", Value: string(domain.EntityUser)}},
			bson.D{{Key: "uploadByType", Value: string(domain.EntityClientUser)}, {Key: "isPublic", Value: true}},
		}}}
	}
	return Clause{Match: []bson.D{rule}}
}

func creditLimitFilter(in FilterInput) Clause {
	if in.Filters.Status == "" {
		return Clause{}
	}
	return Clause{Match: []bson.D{eq("creditLimitStatus", strings.ToUpper(in.Filters.Status))}}
}

// Schemas returns the query schema of every module in the built-in registry.
func Schemas() map[string]Schema {
	clientScope := ScopeRule{Kind: ScopeClient, Field: "clientId"}
	return map[string]Schema{
		registry.ModuleClient: {
			Collection: CollectionClients,
			Fields: addressFields(map[string]Field{
				"name":                 {Display: DisplayLink},
				"riskAnalystId":        {Ref: userJoin("riskAnalystId"), Attr: "name"},
				"serviceManagerId":     {Ref: userJoin("serviceManagerId"), Attr: "name"},
				"insurerId":            {Ref: insurerJoin, Attr: "name"},
				"isAutoApproveAllowed": {Display: DisplayYesNo},
			}),
			Search:     []string{"name", "clientCode", "abn", "acn"},
			Scope:      ScopeRule{Kind: ScopeClient, Field: "_id"},
			SoftDelete: true,
		},
		registry.ModuleClientUser: {
			Collection: CollectionClientUsers,
			Fields: map[string]Field{
				"name":            {Display: DisplayLink},
				"hasPortalAccess": {Display: DisplayLink},
				"hasLeftCompany":  {Display: DisplayYesNo},
				"isDecisionMaker": {Display: DisplayYesNo},
			},
			Search:     []string{"name", "email", "contactNumber"},
			Scope:      clientScope,
			Parent:     "clientId",
			SoftDelete: true,
		},
		registry.ModuleDebtor: {
			Collection: CollectionDebtors,
			Fields: addressFields(map[string]Field{
				"entityName": {Display: DisplayLink},
			}),
			Search:     []string{"entityName", "debtorCode", "abn", "acn"},
			Scope:      viaClient(debtorClientLinks),
			SoftDelete: true,
		},
		registry.ModuleCreditLimit: {
			Collection: CollectionClientDebtors,
			Fields: map[string]Field{
				"entityName":          {Ref: debtorJoin, Attr: "entityName", Display: DisplayLink},
				"entityType":          {Ref: debtorJoin, Attr: "entityType"},
				"abn":                 {Ref: debtorJoin, Attr: "abn"},
				"acn":                 {Ref: debtorJoin, Attr: "acn"},
				"registrationNumber":  {Ref: debtorJoin, Attr: "registrationNumber"},
				"activeApplicationId": {Ref: applicationJoin, Attr: "applicationId", Display: DisplayLink},
				"isEndorsedLimit":     {Display: DisplayYesNo},
			},
			Search: []string{"entityName", "abn", "acn"},
			Scope:  clientScope,
			Parent: "clientId",
			Where: []bson.D{eq("creditLimit", bson.D{
				{Key: "$exists", Value: true},
				{Key: "$ne", Value: nil},
			})},
			Filter: creditLimitFilter,
		},
		registry.ModuleInsurer: {
			Collection: CollectionInsurers,
			Fields: addressFields(map[string]Field{
				"name": {Display: DisplayLink},
			}),
			Search:     []string{"name"},
			SoftDelete: true,
		},
		registry.ModuleInsurerUser: {
			Collection: CollectionInsurerUsers,
			Search:     []string{"name", "email"},
			Parent:     "insurerId",
			SoftDelete: true,
		},
		registry.ModuleTask:                taskSchema(""),
		registry.ModuleClientTask:          taskSchema(domain.EntityClient),
		registry.ModuleDebtorTask:          taskSchema(domain.EntityDebtor),
		registry.ModuleApplicationTask:     taskSchema(domain.EntityApplication),
		registry.ModuleOverdue:             overdueSchema(""),
		registry.ModuleClientOverdue:       overdueSchema("clientId"),
		registry.ModuleDebtorOverdue:       overdueSchema("debtorId"),
		registry.ModuleClientDocument:      documentSchema(domain.EntityClient, ScopeRule{Kind: ScopeClient, Field: "entityRefId"}),
		registry.ModuleDebtorDocument:      documentSchema(domain.EntityDebtor, viaClient(debtorDocumentLinks)),
		registry.ModuleApplicationDocument: documentSchema(domain.EntityApplication, viaClient(documentApplication)),
		registry.ModuleClientPolicy: {
			Collection: CollectionPolicies,
			Fields: map[string]Field{
				"product":   {Display: DisplayLink},
				"insurerId": {Ref: insurerJoin, Attr: "name"},
			},
			Search:     []string{"product", "policyPeriod"},
			Scope:      clientScope,
			Parent:     "clientId",
			SoftDelete: true,
		},
	}
}
