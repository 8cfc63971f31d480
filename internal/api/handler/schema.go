package handler

import "github.com/traderisk/risk-backoffice/internal/core/domain"

// errorResponse is the standard error envelope returned on all 4xx/5xx responses.
type errorResponse struct {
	Error string `json:"error"`
	Code  string `json:"code,omitempty"`
}

// --- Request / Response types ---

type updateColumnsRequest struct {
	ColumnFor string   `json:"columnFor" validate:"required"`
	Columns   []string `json:"columns"`
	IsReset   bool     `json:"isReset"`
}

type columnsResponse struct {
	ColumnFor string   `json:"columnFor"`
	Columns   []string `json:"columns"`
}

type updateCreditLimitRequest struct {
	Action      string     `json:"action"      validate:"required,oneof=modify surrender"`
	CreditLimit flexAmount `json:"creditLimit" validate:"required_unless=Action surrender"`
}

type creditLimitResponse struct {
	ClientDebtorID string                   `json:"clientDebtorId"`
	Status         domain.CreditLimitStatus `json:"creditLimitStatus"`
	ApplicationID  string                   `json:"applicationId,omitempty"`
	CreditLimit    float64                  `json:"creditLimit"`
	AlreadyApplied bool                     `json:"alreadyApplied"`
}

type lastOverdueResponse struct {
	Month  string          `json:"month,omitempty"`
	Year   int             `json:"year,omitempty"`
	Label  string          `json:"label,omitempty"`
	Docs   []domain.Record `json:"docs"`
	Found  bool            `json:"found"`
	Steps  int             `json:"steps"`
	Reason string          `json:"reason,omitempty"`
}

type healthResponse struct {
	Status string `json:"status"`
}
