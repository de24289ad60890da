package tenant

import (
	"errors"

	"github.com/google/uuid"

	"github.com/crewtrack/crewtrack/pkg/auth"
	"github.com/crewtrack/crewtrack/pkg/model"
	"github.com/crewtrack/crewtrack/pkg/session"
)

// ErrNoTenantContext means the caller has no tenant to operate under; the
// API layer maps it to a validation failure.
var ErrNoTenantContext = errors.New("no tenant context")

// Resolve computes the effective tenant for a request. A superadmin with an
// active impersonation acts within the impersonated tenant; everyone else
// acts within their own.
func Resolve(sess *session.Context, principal *auth.Principal) (uuid.UUID, error) {
	if principal.Role == model.RoleSuperadmin && sess != nil && sess.Impersonation != nil {
		return sess.Impersonation.TenantID, nil
	}
	if principal.TenantID == nil {
		return uuid.Nil, ErrNoTenantContext
	}
	return *principal.TenantID, nil
}
