package domain

import "time"

// CreditLimitStatus is the lifecycle state of a client's limit on a debtor.
type CreditLimitStatus string

const (
	CreditLimitActive          CreditLimitStatus = "ACTIVE"
	CreditLimitPendingApproval CreditLimitStatus = "PENDING_APPROVAL"
	CreditLimitInactive        CreditLimitStatus = "INACTIVE"
)

// creditLimitTransitions defines the allowed state machine transitions.
var creditLimitTransitions = map[CreditLimitStatus][]CreditLimitStatus{
	CreditLimitActive:          {CreditLimitPendingApproval, CreditLimitInactive},
	CreditLimitPendingApproval: {CreditLimitActive, CreditLimitInactive},
	CreditLimitInactive:        {CreditLimitPendingApproval},
}

// CanTransitionTo reports whether a transition from s to next is valid.
func (s CreditLimitStatus) CanTransitionTo(next CreditLimitStatus) bool {
	for _, allowed := range creditLimitTransitions[s] {
		if allowed == next {
			return true
		}
	}
	return false
}

// CreditLimitAction is a caller request against a credit limit.
type CreditLimitAction string

const (
	ActionModify    CreditLimitAction = "modify"
	ActionSurrender CreditLimitAction = "surrender"
)

// Target returns the state the action moves the limit into.
func (a CreditLimitAction) Target() (CreditLimitStatus, bool) {
	switch a {
	case ActionModify:
		return CreditLimitPendingApproval, true
	case ActionSurrender:
		return CreditLimitInactive, true
	}
	return "", false
}

// ApplicationStatus is the state of a credit application.
type ApplicationStatus string

const (
	ApplicationSubmitted   ApplicationStatus = "SUBMITTED"
	ApplicationApproved    ApplicationStatus = "APPROVED"
	ApplicationSurrendered ApplicationStatus = "SURRENDERED"
)

// ClientDebtor links a client to a debtor and carries the credit limit.
type ClientDebtor struct {
	ID                  string
	ClientID            string
	DebtorID            string
	CreditLimit         float64
	ActiveApplicationID string
	Status              CreditLimitStatus
	IsActive            bool
	UpdatedAt           time.Time
}

// CurrentStatus returns the stored status, deriving one for records written
// before the status field existed.
func (cd ClientDebtor) CurrentStatus() CreditLimitStatus {
	if cd.Status != "" {
		return cd.Status
	}
	if cd.IsActive {
		return CreditLimitActive
	}
	return CreditLimitInactive
}

// Application is a request for a new or modified credit limit.
type Application struct {
	ID             string
	ApplicationID  string
	ClientID       string
	DebtorID       string
	ClientDebtorID string
	CreditLimit    float64
	Status         ApplicationStatus
	CreatedByType  CallerType
	CreatedByID    string
	CreatedAt      time.Time
}
