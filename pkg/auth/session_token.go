package auth

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"github.com/crewtrack/crewtrack/pkg/model"
)

var ErrInvalidToken = errors.New("invalid token")

// SessionClaims identify a login session. SessionID is minted fresh at each
// login, so impersonation state keyed by it stays independent across
// concurrent sessions of the same user.
type SessionClaims struct {
	jwt.RegisteredClaims
	SessionID string     `json:"sid"`
	Role      model.Role `json:"role"`
	TenantID  string     `json:"tenant_id,omitempty"`
}

type SessionTokenManager struct {
	signingKey []byte
	ttl        time.Duration
}

func NewSessionTokenManager(signingKey []byte, ttl time.Duration) *SessionTokenManager {
	return &SessionTokenManager{signingKey: signingKey, ttl: ttl}
}

func (m *SessionTokenManager) Generate(user *model.User) (string, error) {
	claims := SessionClaims{
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(m.ttl)),
			IssuedAt:  jwt.NewNumericDate(time.Now()),
			Subject:   user.ID.String(),
			Issuer:    "crewtrack",
		},
		SessionID: uuid.NewString(),
		Role:      user.Role,
	}
	if user.TenantID != nil {
		claims.TenantID = user.TenantID.String()
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(m.signingKey)
}

func (m *SessionTokenManager) Validate(tokenString string) (*SessionClaims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &SessionClaims{}, func(token *jwt.Token) (interface{}, error) {
		return m.signingKey, nil
	})
	if err != nil {
		return nil, err
	}

	claims, ok := token.Claims.(*SessionClaims)
	if !ok || !token.Valid {
		return nil, ErrInvalidToken
	}
	if claims.SessionID == "" || claims.Subject == "" {
		return nil, ErrInvalidToken
	}
	return claims, nil
}

// Principal is the authenticated caller attached to each request.
type Principal struct {
	UserID    uuid.UUID
	SessionID uuid.UUID
	Role      model.Role
	TenantID  *uuid.UUID
}

// PrincipalFromClaims converts validated claims into a Principal, rejecting
// malformed identifiers.
func PrincipalFromClaims(claims *SessionClaims) (*Principal, error) {
	userID, err := uuid.Parse(claims.Subject)
	if err != nil {
		return nil, ErrInvalidToken
	}
	sessionID, err := uuid.Parse(claims.SessionID)
	if err != nil {
		return nil, ErrInvalidToken
	}
	if !ValidRole(claims.Role) {
		return nil, ErrInvalidToken
	}

	p := &Principal{UserID: userID, SessionID: sessionID, Role: claims.Role}
	if claims.TenantID != "" {
		tenantID, err := uuid.Parse(claims.TenantID)
		if err != nil {
			return nil, ErrInvalidToken
		}
		p.TenantID = &tenantID
	}
	return p, nil
}
