package handler

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"testing"

	"github.com/traderisk/risk-backoffice/internal/core/domain"
	"github.com/traderisk/risk-backoffice/internal/core/ports"
)

const clientDebtorHex = "65f1a0c2e4b0a1b2c3d4e5f8"

func TestCreditLimitHandler_Modify(t *testing.T) {
	var got ports.UpdateCreditLimitInput
	stub := &stubCreditLimitService{
		updateFn: func(_ context.Context, _ domain.Caller, in ports.UpdateCreditLimitInput) (*ports.CreditLimitResult, error) {
			got = in
			return &ports.CreditLimitResult{
				ClientDebtorID: in.ClientDebtorID,
				Status:         domain.CreditLimitPendingApproval,
				ApplicationID:  "app-1",
				CreditLimit:    1000,
			}, nil
		},
	}
	c, rec := newContext(t, http.MethodPut, "/v1/credit-limits/"+clientDebtorHex, `{"action":"modify","creditLimit":25000}`)
	c.SetParamNames("clientDebtorId")
	c.SetParamValues(clientDebtorHex)
	c.Request().Header.Set(headerIdempotencyKey, "k-1")

	if err := NewCreditLimitHandler(stub).Update(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if got.ClientDebtorID != clientDebtorHex || got.Action != "modify" || got.CreditLimit != "25000" || got.IdempotencyKey != "k-1" {
		t.Fatalf("unexpected input: %+v", got)
	}

	var resp creditLimitResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("invalid json: %v", err)
	}
	if resp.Status != domain.CreditLimitPendingApproval || resp.ApplicationID != "app-1" || resp.AlreadyApplied {
		t.Fatalf("unexpected response: %+v", resp)
	}
}

func TestCreditLimitHandler_AmountAsString(t *testing.T) {
	stub := &stubCreditLimitService{
		updateFn: func(_ context.Context, _ domain.Caller, in ports.UpdateCreditLimitInput) (*ports.CreditLimitResult, error) {
			if in.CreditLimit != "12a" {
				t.Fatalf("expected literal amount, got %q", in.CreditLimit)
			}
			return nil, domain.NewValidationError(domain.CodeInvalidAmount, "creditLimit must contain digits only")
		},
	}
	c, _ := newContext(t, http.MethodPut, "/", `{"action":"modify","creditLimit":"12a"}`)

	err := NewCreditLimitHandler(stub).Update(c)
	if validationCode(err) != domain.CodeInvalidAmount {
		t.Fatalf("expected INVALID_AMOUNT, got %v", err)
	}
}

func TestCreditLimitHandler_SurrenderWithoutAmount(t *testing.T) {
	stub := &stubCreditLimitService{
		updateFn: func(_ context.Context, _ domain.Caller, in ports.UpdateCreditLimitInput) (*ports.CreditLimitResult, error) {
			return &ports.CreditLimitResult{ClientDebtorID: in.ClientDebtorID, Status: domain.CreditLimitInactive}, nil
		},
	}
	c, rec := newContext(t, http.MethodPut, "/", `{"action":"surrender"}`)

	if err := NewCreditLimitHandler(stub).Update(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
}

func TestCreditLimitHandler_InvalidPayload(t *testing.T) {
	stub := &stubCreditLimitService{
		updateFn: func(context.Context, domain.Caller, ports.UpdateCreditLimitInput) (*ports.CreditLimitResult, error) {
			t.Fatalf("should not be called")
			return nil, nil
		},
	}
	for name, body := range map[string]string{
		"unknown action":         `{"action":"raise","creditLimit":10}`,
		"modify without amount":  `{"action":"modify"}`,
		"missing action":         `{"creditLimit":10}`,
		"amount is not a number": `{"action":"modify","creditLimit":true}`,
	} {
		t.Run(name, func(t *testing.T) {
			c, _ := newContext(t, http.MethodPut, "/", body)
			err := NewCreditLimitHandler(stub).Update(c)
			if validationCode(err) != domain.CodeInvalidRequest {
				t.Fatalf("expected INVALID_REQUEST, got %v", err)
			}
		})
	}
}

func TestCreditLimitHandler_InvalidTransition(t *testing.T) {
	stub := &stubCreditLimitService{
		updateFn: func(context.Context, domain.Caller, ports.UpdateCreditLimitInput) (*ports.CreditLimitResult, error) {
			return nil, domain.ErrInvalidTransition
		},
	}
	c, _ := newContext(t, http.MethodPut, "/", `{"action":"surrender"}`)

	if err := NewCreditLimitHandler(stub).Update(c); !errors.Is(err, domain.ErrInvalidTransition) {
		t.Fatalf("expected ErrInvalidTransition, got %v", err)
	}
}

func TestFlexAmount_UnmarshalJSON(t *testing.T) {
	tests := map[string]string{
		`"500"`: "500",
		`500`:   "500",
		`12.50`: "12.50",
		`null`:  "",
	}
	for in, want := range tests {
		var a flexAmount
		if err := json.Unmarshal([]byte(in), &a); err != nil {
			t.Fatalf("%s: unexpected error: %v", in, err)
		}
		if string(a) != want {
			t.Fatalf("%s: expected %q, got %q", in, want, a)
		}
	}

	var a flexAmount
	if err := json.Unmarshal([]byte(`{}`), &a); err == nil {
		t.Fatalf("expected error for object")
	}
}
