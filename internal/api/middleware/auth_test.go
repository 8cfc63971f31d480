package middleware

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/golang-jwt/jwt/v5"
	"github.com/labstack/echo/v4"
)

const secret = "secret"

func sign(t *testing.T, method jwt.SigningMethod, key any, claims jwt.MapClaims) string {
	t.Helper()
	signed, err := jwt.NewWithClaims(method, claims).SignedString(key)
	if err != nil {
		t.Fatalf("sign token: %v", err)
	}
	return signed
}

func runAuth(t *testing.T, header string) (echo.Context, bool, error) {
	t.Helper()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	if header != "" {
		req.Header.Set(echo.HeaderAuthorization, header)
	}
	c := echo.New().NewContext(req, httptest.NewRecorder())

	called := false
	err := Auth(secret)(func(echo.Context) error {
		called = true
		return nil
	})(c)
	return c, called, err
}

func TestAuth_ClientUserClaims(t *testing.T) {
	token := sign(t, jwt.SigningMethodHS256, []byte(secret), jwt.MapClaims{
		"sub":       "65f000000000000000000001",
		"type":      "client-user",
		"access":    []string{"full-access", "reports"},
		"client_id": "65f000000000000000000002",
	})

	c, called, err := runAuth(t, "Bearer "+token)
	if err != nil || !called {
		t.Fatalf("expected next to run, err=%v", err)
	}
	if c.Get(KeyUserID) != "65f000000000000000000001" || c.Get(KeyUserType) != "client-user" {
		t.Fatalf("identity not set: %v %v", c.Get(KeyUserID), c.Get(KeyUserType))
	}
	if c.Get(KeyClientID) != "65f000000000000000000002" {
		t.Fatalf("client_id not set: %v", c.Get(KeyClientID))
	}
	access, _ := c.Get(KeyAccess).([]string)
	if len(access) != 2 || access[0] != "full-access" {
		t.Fatalf("access not set: %v", c.Get(KeyAccess))
	}
}

func TestAuth_RiskUserWithoutOptionalClaims(t *testing.T) {
	token := sign(t, jwt.SigningMethodHS256, []byte(secret), jwt.MapClaims{"sub": "u1", "type": "user"})

	c, called, err := runAuth(t, "bearer "+token)
	if err != nil || !called {
		t.Fatalf("expected next to run, err=%v", err)
	}
	if c.Get(KeyClientID) != "" {
		t.Fatalf("expected empty client_id, got %v", c.Get(KeyClientID))
	}
	if access, _ := c.Get(KeyAccess).([]string); access != nil {
		t.Fatalf("expected no access types, got %v", access)
	}
}

func TestAuth_Rejects(t *testing.T) {
	tests := map[string]string{
		"missing header":  "",
		"wrong scheme":    "Token abc",
		"empty token":     "Bearer ",
		"garbage token":   "Bearer not-a-token",
		"wrong secret":    "Bearer " + sign(t, jwt.SigningMethodHS256, []byte("other"), jwt.MapClaims{"sub": "u1", "type": "user"}),
		"missing subject": "Bearer " + sign(t, jwt.SigningMethodHS256, []byte(secret), jwt.MapClaims{"type": "user"}),
		"other algorithm": "Bearer " + sign(t, jwt.SigningMethodHS384, []byte(secret), jwt.MapClaims{"sub": "u1", "type": "user"}),
	}

	for name, header := range tests {
		t.Run(name, func(t *testing.T) {
			_, called, err := runAuth(t, header)
			if called {
				t.Fatalf("should not reach next")
			}
			var he *echo.HTTPError
			if !errors.As(err, &he) || he.Code != http.StatusUnauthorized {
				t.Fatalf("expected 401, got %v", err)
			}
		})
	}
}

func TestAccessTypes(t *testing.T) {
	if got := accessTypes("full-access"); len(got) != 1 || got[0] != "full-access" {
		t.Fatalf("single string: %v", got)
	}
	if got := accessTypes([]any{"a", 3, "", "b"}); len(got) != 2 || got[1] != "b" {
		t.Fatalf("list: %v", got)
	}
	if got := accessTypes(nil); got != nil {
		t.Fatalf("nil: %v", got)
	}
}
