package shaper

import (
	"github.com/traderisk/risk-backoffice/internal/core/domain"
)

// RollupHeaders are the columns of the overdue monthly rollup.
func RollupHeaders() []domain.ColumnDescriptor {
	return []domain.ColumnDescriptor{
		{Name: "month", Label: "Month", Type: domain.ColumnString},
		{Name: "debtorCount", Label: "Debtors", Type: domain.ColumnString},
		{Name: "status", Label: "Status", Type: domain.ColumnStatus},
		{Name: "amounts", Label: "Amounts", Type: domain.ColumnDollar},
	}
}

// Rollup shapes grouped overdue documents. A group is Submitted as soon as one
// row is submitted, otherwise Pending when one is pending, otherwise Process.
func Rollup(docs []domain.Record) []domain.Record {
	out := make([]domain.Record, 0, len(docs))
	for _, doc := range docs {
		out = append(out, rollupGroup(doc))
	}
	return out
}

func rollupGroup(doc domain.Record) domain.Record {
	submitted := toInt(doc["submitted"])
	pending := toInt(doc["pending"])

	status := "Process"
	switch {
	case submitted > 0:
		status = "Submitted"
	case pending > 0:
		status = "Pending"
	}

	p, _ := period(doc["_id"])
	month := ""
	if p.Month != 0 {
		month = p.Long()
	}

	var debtors []domain.Record
	if list, ok := doc["debtors"].([]any); ok {
		debtors = make([]domain.Record, 0, len(list))
		for _, item := range list {
			d := asMap(item)
			if d == nil {
				continue
			}
			debtors = append(debtors, domain.Record{
				"_id":               d["_id"],
				"debtorId":          d["debtorId"],
				"name":              str(d["name"]),
				"acn":               str(d["acn"]),
				"overdueType":       domain.DisplayLabel(str(d["overdueType"])),
				"status":            domain.DisplayLabel(str(d["status"])),
				"outstandingAmount": dollars(d["outstandingAmount"]),
			})
		}
	}

	return domain.Record{
		"month":             month,
		"monthNumber":       p.Month,
		"year":              p.Year,
		"debtorCount":       toInt(doc["debtorCount"]),
		"status":            status,
		"amounts":           dollars(doc["amounts"]),
		"debtors":           debtors,
		"submitted":         submitted,
		"pending":           pending,
		"notReportable":     toInt(doc["notReportable"]),
		"reportedToInsurer": toInt(doc["reportedToInsurer"]),
	}
}
