package auth

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
)

func newTestIssuer() *TokenIssuer {
	return NewTokenIssuer("test-secret", "clinic-test", time.Hour)
}

func doRequest(t *testing.T, mw echo.MiddlewareFunc, authHeader string) (*httptest.ResponseRecorder, Identity) {
	t.Helper()
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	if authHeader != "" {
		req.Header.Set("Authorization", authHeader)
	}
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	var seen Identity
	handler := mw(func(c echo.Context) error {
		seen = IdentityFromContext(c.Request().Context())
		return c.NoContent(http.StatusOK)
	})
	if err := handler(c); err != nil {
		e.HTTPErrorHandler(err, c)
	}
	return rec, seen
}

func TestMiddlewareAcceptsValidToken(t *testing.T) {
	issuer := newTestIssuer()
	userID := uuid.New()
	token, err := issuer.Issue(userID, "John Doe", RolePatient)
	if err != nil {
		t.Fatalf("issue token: %v", err)
	}

	rec, seen := doRequest(t, Middleware(issuer, nil), "Bearer "+token)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	if seen.ID != userID {
		t.Errorf("expected user id %s, got %s", userID, seen.ID)
	}
	if seen.Role != RolePatient {
		t.Errorf("expected role patient, got %s", seen.Role)
	}
	if seen.Name != "John Doe" {
		t.Errorf("expected name John Doe, got %s", seen.Name)
	}
}

func TestMiddlewareRejectsMissingHeader(t *testing.T) {
	rec, _ := doRequest(t, Middleware(newTestIssuer(), nil), "")
	if rec.Code != http.StatusUnauthorized {
		t.Errorf("expected 401, got %d", rec.Code)
	}
}

func TestMiddlewareRejectsGarbageToken(t *testing.T) {
	rec, _ := doRequest(t, Middleware(newTestIssuer(), nil), "Bearer not-a-token")
	if rec.Code != http.StatusUnauthorized {
		t.Errorf("expected 401, got %d", rec.Code)
	}
}

func TestMiddlewareRejectsWrongSecret(t *testing.T) {
	other := NewTokenIssuer("other-secret", "clinic-test", time.Hour)
	token, _ := other.Issue(uuid.New(), "x", RoleAdmin)
	rec, _ := doRequest(t, Middleware(newTestIssuer(), nil), "Bearer "+token)
	if rec.Code != http.StatusUnauthorized {
		t.Errorf("expected 401, got %d", rec.Code)
	}
}

func TestMiddlewareRejectsRevokedToken(t *testing.T) {
	issuer := newTestIssuer()
	store := NewMemoryRevocationStore()
	token, _ := issuer.Issue(uuid.New(), "x", RoleDoctor)

	claims, err := issuer.Verify(token)
	if err != nil {
		t.Fatalf("verify: %v", err)
	}
	if err := store.Revoke(context.Background(), claims.ID, time.Hour); err != nil {
		t.Fatalf("revoke: %v", err)
	}

	rec, _ := doRequest(t, Middleware(issuer, store), "Bearer "+token)
	if rec.Code != http.StatusUnauthorized {
		t.Errorf("expected 401 for revoked token, got %d", rec.Code)
	}
}

func TestRequireRole(t *testing.T) {
	cases := []struct {
		caller   Role
		required []Role
		want     int
	}{
		{RoleDoctor, []Role{RoleDoctor}, http.StatusOK},
		{RoleAdmin, []Role{RoleDoctor}, http.StatusOK}, // admin passes everything
		{RolePatient, []Role{RoleDoctor}, http.StatusForbidden},
		{RolePatient, []Role{RoleDoctor, RolePatient}, http.StatusOK},
		{"", []Role{RolePatient}, http.StatusForbidden},
	}
	for _, tc := range cases {
		e := echo.New()
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req = req.WithContext(WithIdentity(req.Context(), Identity{ID: uuid.New(), Role: tc.caller}))
		rec := httptest.NewRecorder()
		c := e.NewContext(req, rec)

		handler := RequireRole(tc.required...)(func(c echo.Context) error {
			return c.NoContent(http.StatusOK)
		})
		if err := handler(c); err != nil {
			e.HTTPErrorHandler(err, c)
		}
		if rec.Code != tc.want {
			t.Errorf("caller %q required %v: expected %d, got %d", tc.caller, tc.required, tc.want, rec.Code)
		}
	}
}

func TestTokenIssuerRejectsUnknownRole(t *testing.T) {
	if _, err := newTestIssuer().Issue(uuid.New(), "x", Role("nurse")); err == nil {
		t.Error("expected error issuing token for unknown role")
	}
}

func TestMemoryRevocationStoreExpiry(t *testing.T) {
	store := NewMemoryRevocationStore()
	ctx := context.Background()
	if err := store.Revoke(ctx, "jti-1", -time.Second); err != nil {
		t.Fatalf("revoke: %v", err)
	}
	revoked, err := store.IsRevoked(ctx, "jti-1")
	if err != nil {
		t.Fatalf("IsRevoked: %v", err)
	}
	if revoked {
		t.Error("expected expired revocation to be forgotten")
	}
}
