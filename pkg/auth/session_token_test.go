package auth

import (
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/crewtrack/crewtrack/pkg/model"
)

func TestSessionTokenRoundTrip(t *testing.T) {
	manager := NewSessionTokenManager([]byte("test-secret"), time.Hour)

	tenantID := uuid.New()
	user := &model.User{
		ID:       uuid.New(),
		Email:    "worker@example.com",
		Role:     model.RoleEmployee,
		TenantID: &tenantID,
	}

	token, err := manager.Generate(user)
	if err != nil {
		t.Fatalf("Generate() error: %v", err)
	}

	claims, err := manager.Validate(token)
	if err != nil {
		t.Fatalf("Validate() error: %v", err)
	}

	principal, err := PrincipalFromClaims(claims)
	if err != nil {
		t.Fatalf("PrincipalFromClaims() error: %v", err)
	}

	if principal.UserID != user.ID {
		t.Errorf("expected user id %s, got %s", user.ID, principal.UserID)
	}
	if principal.Role != model.RoleEmployee {
		t.Errorf("expected role employee, got %s", principal.Role)
	}
	if principal.TenantID == nil || *principal.TenantID != tenantID {
		t.Errorf("expected tenant id %s, got %v", tenantID, principal.TenantID)
	}
	if principal.SessionID == uuid.Nil {
		t.Error("expected a fresh session id")
	}
}

func TestSessionTokenFreshSessionPerLogin(t *testing.T) {
	manager := NewSessionTokenManager([]byte("test-secret"), time.Hour)
	user := &model.User{ID: uuid.New(), Role: model.RoleSuperadmin}

	first, err := manager.Generate(user)
	if err != nil {
		t.Fatalf("Generate() error: %v", err)
	}
	second, err := manager.Generate(user)
	if err != nil {
		t.Fatalf("Generate() error: %v", err)
	}

	firstClaims, _ := manager.Validate(first)
	secondClaims, _ := manager.Validate(second)

	if firstClaims.SessionID == secondClaims.SessionID {
		t.Error("two logins must mint distinct session ids")
	}
}

func TestSessionTokenRejectsWrongKey(t *testing.T) {
	manager := NewSessionTokenManager([]byte("test-secret"), time.Hour)
	other := NewSessionTokenManager([]byte("other-secret"), time.Hour)

	token, err := manager.Generate(&model.User{ID: uuid.New(), Role: model.RoleAdmin})
	if err != nil {
		t.Fatalf("Generate() error: %v", err)
	}

	if _, err := other.Validate(token); err == nil {
		t.Fatal("expected validation to fail under a different key")
	}
}

func TestPrincipalFromClaimsRejectsUnknownRole(t *testing.T) {
	claims := &SessionClaims{SessionID: uuid.NewString(), Role: model.Role("intruder")}
	claims.Subject = uuid.NewString()

	if _, err := PrincipalFromClaims(claims); err == nil {
		t.Fatal("expected an error for an unknown role")
	}
}
