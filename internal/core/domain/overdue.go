package domain

import (
	"fmt"
	"time"
)

// OverdueStatus is the reporting state of an overdue invoice row.
type OverdueStatus string

const (
	OverdueSubmitted         OverdueStatus = "SUBMITTED"
	OverduePending           OverdueStatus = "PENDING"
	OverdueNotReportable     OverdueStatus = "NOT_REPORTABLE"
	OverdueReportedToInsurer OverdueStatus = "REPORTED_TO_INSURER"
)

// MaxLookbackMonths bounds the search for the most recent overdue list.
const MaxLookbackMonths = 24

// Period is a reporting month. Month is 1-12.
type Period struct {
	Month int
	Year  int
}

// NewPeriod validates month and year.
func NewPeriod(month, year int) (Period, error) {
	if month < 1 || month > 12 || year < 1 {
		return Period{}, NewValidationError(CodeInvalidPeriod, "invalid period %d/%d", month, year)
	}
	return Period{Month: month, Year: year}, nil
}

// Previous returns the month before p.
func (p Period) Previous() Period {
	if p.Month == 1 {
		return Period{Month: 12, Year: p.Year - 1}
	}
	return Period{Month: p.Month - 1, Year: p.Year}
}

// MonthKey is the zero-padded month as stored on overdue rows.
func (p Period) MonthKey() string { return fmt.Sprintf("%02d", p.Month) }

// YearKey is the year as stored on overdue rows.
func (p Period) YearKey() string { return fmt.Sprintf("%d", p.Year) }

// Long renders "March 2024".
func (p Period) Long() string {
	return fmt.Sprintf("%s %d", time.Month(p.Month).String(), p.Year)
}

// Short renders "Mar-2024".
func (p Period) Short() string {
	return fmt.Sprintf("%s-%d", time.Month(p.Month).String()[:3], p.Year)
}

// LastOverdueList is the result of a bounded lookback.
type LastOverdueList struct {
	Period Period   `json:"-"`
	Docs   []Record `json:"docs"`
	Found  bool     `json:"found"`
	Steps  int      `json:"steps"`
	Reason string   `json:"reason,omitempty"`
}

// EntityOption is a selectable entity for pickers.
type EntityOption struct {
	ID   string `json:"_id"`
	Name string `json:"name"`
}
