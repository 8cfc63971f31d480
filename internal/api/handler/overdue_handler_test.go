package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"testing"

	"github.com/traderisk/risk-backoffice/internal/core/domain"
	"github.com/traderisk/risk-backoffice/internal/core/ports"
)

func TestOverdueHandler_Monthly(t *testing.T) {
	stub := &stubOverdueService{
		monthlyFn: func(_ context.Context, _ domain.Caller, in ports.MonthlyOverdueInput) (*domain.ListResult, error) {
			if in.ClientID != clientHex || in.Page != 3 || in.Limit != 0 {
				t.Fatalf("unexpected input: %+v", in)
			}
			return &domain.ListResult{Docs: []domain.Record{}, Page: 3, Limit: 5}, nil
		},
	}
	c, rec := newContext(t, http.MethodGet, "/v1/overdues/monthly?clientId="+clientHex+"&page=3&limit=x", "")

	if err := NewOverdueHandler(stub).Monthly(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
}

func TestOverdueHandler_Monthly_Forbidden(t *testing.T) {
	stub := &stubOverdueService{
		monthlyFn: func(context.Context, domain.Caller, ports.MonthlyOverdueInput) (*domain.ListResult, error) {
			return nil, domain.ErrForbidden
		},
	}
	c, _ := newContext(t, http.MethodGet, "/v1/overdues/monthly?clientId=other", "")

	if err := NewOverdueHandler(stub).Monthly(c); err != domain.ErrForbidden {
		t.Fatalf("expected ErrForbidden, got %v", err)
	}
}

func TestOverdueHandler_Last_Found(t *testing.T) {
	stub := &stubOverdueService{
		lastFn: func(_ context.Context, _ domain.Caller, clientID string, p domain.Period) (*domain.LastOverdueList, error) {
			if clientID != clientHex || p != (domain.Period{Month: 3, Year: 2024}) {
				t.Fatalf("unexpected args: %s %+v", clientID, p)
			}
			return &domain.LastOverdueList{
				Period: domain.Period{Month: 1, Year: 2024},
				Docs:   []domain.Record{{"debtorName": "Globex"}},
				Found:  true,
				Steps:  2,
			}, nil
		},
	}
	c, rec := newContext(t, http.MethodGet, "/v1/overdues/last?clientId="+clientHex+"&month=3&year=2024", "")

	if err := NewOverdueHandler(stub).Last(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}

	var resp lastOverdueResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("invalid json: %v", err)
	}
	if !resp.Found || resp.Month != "01" || resp.Year != 2024 || resp.Label != "January 2024" || resp.Steps != 2 {
		t.Fatalf("unexpected response: %+v", resp)
	}
	if len(resp.Docs) != 1 {
		t.Fatalf("expected 1 doc, got %d", len(resp.Docs))
	}
}

func TestOverdueHandler_Last_NotFound(t *testing.T) {
	stub := &stubOverdueService{
		lastFn: func(context.Context, domain.Caller, string, domain.Period) (*domain.LastOverdueList, error) {
			return &domain.LastOverdueList{Docs: []domain.Record{}, Steps: 24, Reason: "no overdue list in the 24 months before March 2024"}, nil
		},
	}
	c, rec := newContext(t, http.MethodGet, "/v1/overdues/last?clientId="+clientHex+"&month=3&year=2024", "")

	if err := NewOverdueHandler(stub).Last(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}

	var resp map[string]any
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("invalid json: %v", err)
	}
	if resp["found"] != false || resp["reason"] == "" {
		t.Fatalf("unexpected response: %+v", resp)
	}
	if _, ok := resp["month"]; ok {
		t.Fatalf("month should be omitted when nothing was found")
	}
}

func TestOverdueHandler_Last_InvalidPeriod(t *testing.T) {
	stub := &stubOverdueService{
		lastFn: func(context.Context, domain.Caller, string, domain.Period) (*domain.LastOverdueList, error) {
			t.Fatalf("should not be called")
			return nil, nil
		},
	}
	c, _ := newContext(t, http.MethodGet, "/v1/overdues/last?clientId="+clientHex+"&month=13&year=2024", "")

	err := NewOverdueHandler(stub).Last(c)
	if validationCode(err) != domain.CodeInvalidPeriod {
		t.Fatalf("expected INVALID_PERIOD, got %v", err)
	}
}
