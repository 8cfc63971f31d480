package domain

import "time"

const (
	DefaultPage  = 1
	DefaultLimit = 5
	MaxLimit     = 100
)

// SortOrder is the direction of a list sort.
type SortOrder string

const (
	SortAsc  SortOrder = "asc"
	SortDesc SortOrder = "desc"
)

// Record is a single shaped row.
type Record = map[string]any

// Filters carries the entity-specific list filters. Each module applies only
// the ones it understands.
type Filters struct {
	StartDate            *time.Time
	EndDate              *time.Time
	MinOutstandingAmount *float64
	MaxOutstandingAmount *float64
	ClientName           string
	DebtorName           string
	AssigneeName         string
	Status               string
	Priority             string
	IsCompleted          *bool
	// ListCreatedBy switches restricted task lists from assignee to creator.
	ListCreatedBy bool
}

// ListRequest is everything a list operation needs besides the caller.
type ListRequest struct {
	Module    string
	Page      int
	Limit     int
	SortBy    string
	SortOrder SortOrder
	Search    string
	// ParentID is the owning record for nested lists (a client's users, a
	// debtor's documents).
	ParentID string
	Filters  Filters
}

// Normalized applies page, limit and sort defaults.
func (r ListRequest) Normalized() ListRequest {
	if r.Page < 1 {
		r.Page = DefaultPage
	}
	if r.Limit < 1 {
		r.Limit = DefaultLimit
	}
	if r.Limit > MaxLimit {
		r.Limit = MaxLimit
	}
	if r.SortOrder != SortAsc {
		r.SortOrder = SortDesc
	}
	return r
}

// Skip is the number of rows before the requested page.
func (r ListRequest) Skip() int64 {
	return int64(r.Page-1) * int64(r.Limit)
}

// Pages returns ceil(total/limit).
func Pages(total int64, limit int) int {
	if limit <= 0 || total <= 0 {
		return 0
	}
	return int((total + int64(limit) - 1) / int64(limit))
}

// ListResult is a page of shaped rows with the headers that produced them.
type ListResult struct {
	Docs    []Record           `json:"docs"`
	Headers []ColumnDescriptor `json:"headers"`
	Total   int64              `json:"total"`
	Page    int                `json:"page"`
	Limit   int                `json:"limit"`
	Pages   int                `json:"pages"`
}

// DrawerField is one labelled value of a detail drawer.
type DrawerField struct {
	Label string     `json:"label"`
	Value any        `json:"value"`
	Type  ColumnType `json:"type"`
}
