package http

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"linkly/internal/service"
)

func TestRoleAllowed(t *testing.T) {
	cases := []struct {
		role      string
		permitted []string
		want      bool
	}{
		{"admin", []string{"admin"}, true},
		{"viewer", []string{"admin"}, false},
		{"viewer", []string{"admin", "viewer"}, true},
		{"", []string{"admin"}, false},
		{"admin", nil, false},
	}
	for _, tc := range cases {
		if got := RoleAllowed(tc.role, tc.permitted); got != tc.want {
			t.Fatalf("RoleAllowed(%q, %v) = %v, want %v", tc.role, tc.permitted, got, tc.want)
		}
	}
}

func TestRequireRoles_AdminOnlyRoute(t *testing.T) {
	env := newTestEnv(t, false)
	admin := env.seedUser(t, "admin@example.com", "secret123", "admin")
	viewer := env.seedUser(t, "viewer@example.com", "secret123", "viewer")

	adminToken, err := env.codec.SignAccess(service.NewSessionClaims(admin))
	if err != nil {
		t.Fatalf("sign access: %v", err)
	}
	viewerToken, err := env.codec.SignAccess(service.NewSessionClaims(viewer))
	if err != nil {
		t.Fatalf("sign access: %v", err)
	}

	req := httptest.NewRequest(http.MethodGet, "/users", nil)
	req.AddCookie(&http.Cookie{Name: "jwtToken", Value: adminToken})
	w := httptest.NewRecorder()
	env.router.ServeHTTP(w, req)
	if w.Code != http.StatusOK {
		t.Fatalf("expected admin to pass, got %d", w.Code)
	}

	req = httptest.NewRequest(http.MethodGet, "/users", nil)
	req.AddCookie(&http.Cookie{Name: "jwtToken", Value: viewerToken})
	w = httptest.NewRecorder()
	env.router.ServeHTTP(w, req)
	if w.Code != http.StatusForbidden {
		t.Fatalf("expected viewer to be denied, got %d", w.Code)
	}
}

func TestRequireRoles_LegacyAccountWithoutRoleIsAdmin(t *testing.T) {
	env := newTestEnv(t, false)
	legacy := env.seedUser(t, "legacy@example.com", "secret123", "")

	token, err := env.codec.SignAccess(service.NewSessionClaims(legacy))
	if err != nil {
		t.Fatalf("sign access: %v", err)
	}

	req := httptest.NewRequest(http.MethodGet, "/users", nil)
	req.AddCookie(&http.Cookie{Name: "jwtToken", Value: token})
	w := httptest.NewRecorder()
	env.router.ServeHTTP(w, req)
	if w.Code != http.StatusOK {
		t.Fatalf("expected legacy account to default to admin, got %d", w.Code)
	}
}
