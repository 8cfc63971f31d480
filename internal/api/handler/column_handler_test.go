package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"testing"

	"github.com/traderisk/risk-backoffice/internal/core/domain"
	"github.com/traderisk/risk-backoffice/internal/core/ports"
)

func TestColumnHandler_Catalog(t *testing.T) {
	stub := &stubColumnService{
		catalogFn: func(_ context.Context, owner domain.Owner, module string) (*domain.ColumnCatalog, error) {
			if owner.ID != userHex || module != "client" {
				t.Fatalf("unexpected args: %+v %s", owner, module)
			}
			return &domain.ColumnCatalog{
				DefaultFields: []domain.ColumnOption{{Name: "name", Label: "Name", Type: domain.ColumnString, IsChecked: true}},
				CustomFields:  []domain.ColumnOption{},
			}, nil
		},
	}
	c, rec := newContext(t, http.MethodGet, "/v1/columns?columnFor=client", "")

	if err := NewColumnHandler(stub).Catalog(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}

	var resp domain.ColumnCatalog
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("invalid json: %v", err)
	}
	if len(resp.DefaultFields) != 1 || !resp.DefaultFields[0].IsChecked {
		t.Fatalf("unexpected catalog: %+v", resp)
	}
}

func TestColumnHandler_Catalog_ModuleRequired(t *testing.T) {
	c, _ := newContext(t, http.MethodGet, "/v1/columns", "")

	err := NewColumnHandler(&stubColumnService{}).Catalog(c)
	if validationCode(err) != domain.CodeModuleRequired {
		t.Fatalf("expected MODULE_REQUIRED, got %v", err)
	}
}

func TestColumnHandler_Update_Set(t *testing.T) {
	var got ports.SetColumnsInput
	stub := &stubColumnService{
		setFn: func(_ context.Context, _ domain.Owner, in ports.SetColumnsInput) error {
			got = in
			return nil
		},
		getFn: func(_ context.Context, _ domain.Owner, _ string) (domain.ColumnSet, error) {
			return domain.NewColumnSet(got.Columns...), nil
		},
	}
	c, rec := newContext(t, http.MethodPut, "/v1/columns", `{"columnFor":"debtor","columns":["name","clientId"]}`)

	if err := NewColumnHandler(stub).Update(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if got.Module != "debtor" || got.IsReset || len(got.Columns) != 2 {
		t.Fatalf("unexpected input: %+v", got)
	}

	var resp columnsResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("invalid json: %v", err)
	}
	if resp.ColumnFor != "debtor" || len(resp.Columns) != 2 || resp.Columns[0] != "name" {
		t.Fatalf("unexpected response: %+v", resp)
	}
}

func TestColumnHandler_Update_Reset(t *testing.T) {
	stub := &stubColumnService{
		setFn: func(_ context.Context, _ domain.Owner, in ports.SetColumnsInput) error {
			if !in.IsReset {
				t.Fatalf("expected reset")
			}
			return nil
		},
		getFn: func(_ context.Context, _ domain.Owner, _ string) (domain.ColumnSet, error) {
			return domain.NewColumnSet("name"), nil
		},
	}
	c, rec := newContext(t, http.MethodPut, "/v1/columns", `{"columnFor":"debtor","isReset":true}`)

	if err := NewColumnHandler(stub).Update(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
}

func TestColumnHandler_Update_InvalidPayload(t *testing.T) {
	stub := &stubColumnService{
		setFn: func(context.Context, domain.Owner, ports.SetColumnsInput) error {
			t.Fatalf("should not be called")
			return nil
		},
	}

	for name, body := range map[string]string{
		"not json":          "not-json",
		"missing columnFor": `{"columns":["name"]}`,
	} {
		t.Run(name, func(t *testing.T) {
			c, _ := newContext(t, http.MethodPut, "/v1/columns", body)
			err := NewColumnHandler(stub).Update(c)
			if validationCode(err) != domain.CodeInvalidRequest {
				t.Fatalf("expected INVALID_REQUEST, got %v", err)
			}
		})
	}
}

func TestColumnHandler_Update_ServiceError(t *testing.T) {
	want := domain.NewValidationError(domain.CodeUnknownColumn, "unknown columns: bogus")
	stub := &stubColumnService{
		setFn: func(context.Context, domain.Owner, ports.SetColumnsInput) error { return want },
	}
	c, _ := newContext(t, http.MethodPut, "/v1/columns", `{"columnFor":"debtor","columns":["bogus"]}`)

	if err := NewColumnHandler(stub).Update(c); err != want {
		t.Fatalf("expected service error, got %v", err)
	}
}
