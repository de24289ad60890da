package tenant

import (
	"testing"

	"github.com/google/uuid"

	"github.com/crewtrack/crewtrack/pkg/auth"
	"github.com/crewtrack/crewtrack/pkg/model"
	"github.com/crewtrack/crewtrack/pkg/session"
)

func TestResolveRegularUser(t *testing.T) {
	tenantID := uuid.New()
	principal := &auth.Principal{Role: model.RoleEmployee, TenantID: &tenantID}

	resolved, err := Resolve(&session.Context{SessionID: uuid.New()}, principal)
	if err != nil {
		t.Fatalf("Resolve() error: %v", err)
	}
	if resolved != tenantID {
		t.Errorf("expected %s, got %s", tenantID, resolved)
	}
}

func TestResolveNoTenantContext(t *testing.T) {
	principal := &auth.Principal{Role: model.RoleSuperadmin}

	if _, err := Resolve(&session.Context{SessionID: uuid.New()}, principal); err != ErrNoTenantContext {
		t.Fatalf("expected ErrNoTenantContext, got %v", err)
	}
}

func TestResolveSuperadminImpersonation(t *testing.T) {
	target := uuid.New()
	principal := &auth.Principal{Role: model.RoleSuperadmin}
	sess := &session.Context{
		SessionID:     uuid.New(),
		Impersonation: &session.Impersonation{TenantID: target, TenantName: "acme"},
	}

	resolved, err := Resolve(sess, principal)
	if err != nil {
		t.Fatalf("Resolve() error: %v", err)
	}
	if resolved != target {
		t.Errorf("expected impersonated tenant %s, got %s", target, resolved)
	}
}

func TestResolveImpersonationIgnoredForNonSuperadmin(t *testing.T) {
	// Impersonation state must never leak into a non-superadmin request,
	// even if session state were somehow populated.
	own := uuid.New()
	other := uuid.New()
	principal := &auth.Principal{Role: model.RoleAdmin, TenantID: &own}
	sess := &session.Context{
		SessionID:     uuid.New(),
		Impersonation: &session.Impersonation{TenantID: other},
	}

	resolved, err := Resolve(sess, principal)
	if err != nil {
		t.Fatalf("Resolve() error: %v", err)
	}
	if resolved != own {
		t.Errorf("expected own tenant %s, got %s", own, resolved)
	}
}

func TestResolveConcurrentSessionsIndependent(t *testing.T) {
	// Two sessions of the same superadmin impersonating different tenants
	// must resolve independently.
	principal := &auth.Principal{UserID: uuid.New(), Role: model.RoleSuperadmin}
	tenantA := uuid.New()
	tenantB := uuid.New()

	sessA := &session.Context{SessionID: uuid.New(), Impersonation: &session.Impersonation{TenantID: tenantA}}
	sessB := &session.Context{SessionID: uuid.New(), Impersonation: &session.Impersonation{TenantID: tenantB}}

	resolvedA, err := Resolve(sessA, principal)
	if err != nil {
		t.Fatalf("Resolve(sessA) error: %v", err)
	}
	resolvedB, err := Resolve(sessB, principal)
	if err != nil {
		t.Fatalf("Resolve(sessB) error: %v", err)
	}

	if resolvedA != tenantA || resolvedB != tenantB {
		t.Errorf("sessions interfered: got %s and %s", resolvedA, resolvedB)
	}
}
