package registry

import "github.com/traderisk/risk-backoffice/internal/core/domain"

// Module names.
const (
	ModuleClient              = "client"
	ModuleClientUser          = "client-user"
	ModuleDebtor              = "debtor"
	ModuleCreditLimit         = "credit-limit"
	ModuleInsurer             = "insurer"
	ModuleInsurerUser         = "insurer-user"
	ModuleTask                = "task"
	ModuleClientTask          = "client-task"
	ModuleDebtorTask          = "debtor-task"
	ModuleApplicationTask     = "application-task"
	ModuleOverdue             = "overdue"
	ModuleClientOverdue       = "client-overdue"
	ModuleDebtorOverdue       = "debtor-overdue"
	ModuleClientDocument      = "client-document"
	ModuleDebtorDocument      = "debtor-document"
	ModuleApplicationDocument = "application-document"
	ModuleClientPolicy        = "client-policy"
)

func col(name, label string, t domain.ColumnType) domain.ColumnDescriptor {
	return domain.ColumnDescriptor{Name: name, Label: label, Type: t}
}

func str(name, label string) domain.ColumnDescriptor {
	return col(name, label, domain.ColumnString)
}

var addressColumns = []domain.ColumnDescriptor{
	str("fullAddress", "Address"),
	str("addressLine", "Address Line"),
	str("city", "City"),
	str("state", "State"),
	str("country", "Country"),
	str("zipCode", "Zipcode"),
}

func withAddress(cols ...domain.ColumnDescriptor) []domain.ColumnDescriptor {
	out := make([]domain.ColumnDescriptor, 0, len(cols)+len(addressColumns))
	out = append(out, cols...)
	return append(out, addressColumns...)
}

func taskModule(name string) domain.ModuleDescriptor {
	return domain.ModuleDescriptor{
		Name: name,
		Columns: []domain.ColumnDescriptor{
			str("title", "Title"),
			str("description", "Description"),
			col("priority", "Priority", domain.ColumnStatus),
			col("entityType", "Entity Type", domain.ColumnStatus),
			str("entityId", "Entity"),
			str("assigneeId", "Assignee"),
			str("createdById", "Created By"),
			col("dueDate", "Due Date", domain.ColumnDate),
			col("isCompleted", "Completed", domain.ColumnBoolean),
			col("completedDate", "Completed Date", domain.ColumnDate),
			col("createdAt", "Created Date", domain.ColumnDate),
		},
		DefaultColumns: []string{"title", "priority", "entityType", "entityId", "assigneeId", "dueDate"},
	}
}

func overdueModule(name string) domain.ModuleDescriptor {
	return domain.ModuleDescriptor{
		Name: name,
		Columns: []domain.ColumnDescriptor{
			col("status", "Status", domain.ColumnStatus),
			str("month", "Month-Year"),
			str("clientId", "Client Name"),
			str("debtorId", "Debtor Name"),
			col("entityType", "Entity Type", domain.ColumnStatus),
			col("clientDebtorId", "Credit Limit", domain.ColumnDollar),
			str("acn", "ACN"),
			col("dateOfInvoice", "Date of Invoice", domain.ColumnDate),
			col("overdueType", "Overdue Type", domain.ColumnStatus),
			str("insurerId", "Insurer Name"),
			col("currentAmount", "Current", domain.ColumnDollar),
			col("thirtyDaysAmount", "30 days", domain.ColumnDollar),
			col("sixtyDaysAmount", "60 days", domain.ColumnDollar),
			col("ninetyDaysAmount", "90 days", domain.ColumnDollar),
			col("ninetyPlusDaysAmount", "90+ days", domain.ColumnDollar),
			col("outstandingAmount", "Outstanding Amounts", domain.ColumnDollar),
			str("clientComment", "Client Comment"),
			str("analystComment", "Analyst Comment"),
		},
		DefaultColumns: []string{"status", "month", "clientId", "debtorId", "overdueType", "outstandingAmount"},
	}
}

func documentModule(name string) domain.ModuleDescriptor {
	return domain.ModuleDescriptor{
		Name: name,
		Columns: []domain.ColumnDescriptor{
			str("documentTypeId", "Document Type"),
			str("description", "Description"),
			str("fileName", "File Name"),
			str("uploadById", "Uploaded By"),
			col("isPublic", "Public", domain.ColumnBoolean),
			col("createdAt", "Upload Date", domain.ColumnDate),
		},
		DefaultColumns: []string{"documentTypeId", "description", "uploadById", "createdAt"},
	}
}

func catalog() []domain.ModuleDescriptor {
	return []domain.ModuleDescriptor{
		{
			Name: ModuleClient,
			Columns: withAddress(
				str("clientCode", "Client Code"),
				str("name", "Name"),
				str("contactNumber", "Contact"),
				str("riskAnalystId", "Risk Analyst"),
				str("serviceManagerId", "Service Manager"),
				str("insurerId", "Insurer"),
				str("website", "Website"),
				str("sector", "Sector"),
				str("abn", "ABN"),
				str("acn", "ACN"),
				str("salesPerson", "Sales Person"),
				str("referredBy", "Referred By"),
				col("inceptionDate", "Inception Date", domain.ColumnDate),
				col("expiryDate", "Expiry Date", domain.ColumnDate),
				col("isAutoApproveAllowed", "Auto Approve Allowed", domain.ColumnBoolean),
				col("createdAt", "Created Date", domain.ColumnDate),
				col("updatedAt", "Updated Date", domain.ColumnDate),
			),
			DefaultColumns: []string{"clientCode", "name", "contactNumber", "riskAnalystId", "serviceManagerId", "fullAddress"},
		},
		{
			Name: ModuleClientUser,
			Columns: []domain.ColumnDescriptor{
				str("name", "Name"),
				str("email", "Email"),
				str("contactNumber", "Contact"),
				str("department", "Department"),
				col("hasPortalAccess", "Portal Access", domain.ColumnBoolean),
				col("hasLeftCompany", "Left Company", domain.ColumnBoolean),
				col("isDecisionMaker", "Decision Maker", domain.ColumnBoolean),
				col("createdAt", "Created Date", domain.ColumnDate),
				col("updatedAt", "Updated Date", domain.ColumnDate),
			},
			DefaultColumns: []string{"name", "email", "contactNumber", "hasPortalAccess"},
		},
		{
			Name: ModuleDebtor,
			Columns: withAddress(
				str("debtorCode", "Debtor Code"),
				str("entityName", "Entity Name"),
				col("entityType", "Entity Type", domain.ColumnStatus),
				str("abn", "ABN"),
				str("acn", "ACN"),
				str("registrationNumber", "Registration Number"),
				str("tradingName", "Trading Name"),
				str("contactNumber", "Contact"),
				col("createdAt", "Created Date", domain.ColumnDate),
			),
			DefaultColumns: []string{"debtorCode", "entityName", "entityType", "abn", "acn"},
		},
		{
			Name: ModuleCreditLimit,
			Columns: []domain.ColumnDescriptor{
				str("entityName", "Debtor Name"),
				col("entityType", "Entity Type", domain.ColumnStatus),
				str("abn", "ABN"),
				str("acn", "ACN"),
				str("registrationNumber", "Registration Number"),
				col("creditLimit", "Credit Limit", domain.ColumnDollar),
				col("creditLimitStatus", "Status", domain.ColumnStatus),
				str("activeApplicationId", "Application"),
				col("isEndorsedLimit", "Endorsed Limit", domain.ColumnBoolean),
				col("expiryDate", "Expiry Date", domain.ColumnDate),
				col("createdAt", "Created Date", domain.ColumnDate),
			},
			DefaultColumns: []string{"entityName", "entityType", "abn", "creditLimit", "creditLimitStatus"},
		},
		{
			Name: ModuleInsurer,
			Columns: withAddress(
				str("name", "Name"),
				str("contactNumber", "Contact"),
				str("email", "Email"),
				str("website", "Website"),
				col("createdAt", "Created Date", domain.ColumnDate),
			),
			DefaultColumns: []string{"name", "contactNumber", "email", "fullAddress"},
		},
		{
			Name: ModuleInsurerUser,
			Columns: []domain.ColumnDescriptor{
				str("name", "Name"),
				str("email", "Email"),
				str("contactNumber", "Contact"),
				str("position", "Position"),
				col("createdAt", "Created Date", domain.ColumnDate),
			},
			DefaultColumns: []string{"name", "email", "contactNumber"},
		},
		taskModule(ModuleTask),
		taskModule(ModuleClientTask),
		taskModule(ModuleDebtorTask),
		taskModule(ModuleApplicationTask),
		overdueModule(ModuleOverdue),
		overdueModule(ModuleClientOverdue),
		overdueModule(ModuleDebtorOverdue),
		documentModule(ModuleClientDocument),
		documentModule(ModuleDebtorDocument),
		documentModule(ModuleApplicationDocument),
		{
			Name: ModuleClientPolicy,
			Columns: []domain.ColumnDescriptor{
				str("product", "Product"),
				str("policyPeriod", "Policy Period"),
				str("policyNumber", "Policy Number"),
				str("insurerId", "Insurer"),
				col("inceptionDate", "Inception Date", domain.ColumnDate),
				col("expiryDate", "Expiry Date", domain.ColumnDate),
				col("discretionaryLimit", "Discretionary Limit", domain.ColumnDollar),
				col("createdAt", "Created Date", domain.ColumnDate),
			},
			DefaultColumns: []string{"product", "policyPeriod", "insurerId", "inceptionDate", "expiryDate"},
		},
	}
}
