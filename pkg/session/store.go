package session

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

// Impersonation is the tenant a superadmin session is currently acting
// within. It is keyed by session ID, never by user ID, so two concurrent
// sessions of the same superadmin can impersonate different tenants without
// interference.
type Impersonation struct {
	TenantID   uuid.UUID `json:"tenant_id"`
	TenantName string    `json:"tenant_name"`
	StartedAt  time.Time `json:"started_at"`
}

// Context is the per-request session state passed explicitly through the
// handling pipeline.
type Context struct {
	SessionID     uuid.UUID
	Impersonation *Impersonation
}

type Store struct {
	client redis.UniversalClient
	ttl    time.Duration
}

func NewStore(client redis.UniversalClient, ttl time.Duration) *Store {
	return &Store{client: client, ttl: ttl}
}

func impersonationKey(sessionID uuid.UUID) string {
	return "ct:session:impersonation:" + sessionID.String()
}

func (s *Store) Load(ctx context.Context, sessionID uuid.UUID) (*Context, error) {
	sess := &Context{SessionID: sessionID}

	payload, err := s.client.Get(ctx, impersonationKey(sessionID)).Bytes()
	if err == redis.Nil {
		return sess, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load session state: %w", err)
	}

	var imp Impersonation
	if err := json.Unmarshal(payload, &imp); err != nil {
		return nil, fmt.Errorf("failed to decode impersonation state: %w", err)
	}
	sess.Impersonation = &imp
	return sess, nil
}

func (s *Store) StartImpersonation(ctx context.Context, sessionID uuid.UUID, imp Impersonation) error {
	payload, err := json.Marshal(imp)
	if err != nil {
		return err
	}
	return s.client.Set(ctx, impersonationKey(sessionID), payload, s.ttl).Err()
}

func (s *Store) StopImpersonation(ctx context.Context, sessionID uuid.UUID) error {
	return s.client.Del(ctx, impersonationKey(sessionID)).Err()
}
