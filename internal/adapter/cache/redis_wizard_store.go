package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/mewayz/onboarding/internal/domain"
	"github.com/mewayz/onboarding/internal/wizard"
)

// RedisWizardStore implements wizard.Store backed by Redis. Records are keyed
// per user so two identities never see each other's in-progress setup, and
// expire after the configured TTL.
type RedisWizardStore struct {
	client redis.UniversalClient
	ttl    time.Duration
}

var _ wizard.Store = (*RedisWizardStore)(nil)

// NewRedisWizardStore constructs a Redis-backed wizard state store.
func NewRedisWizardStore(client redis.UniversalClient, ttl time.Duration) *RedisWizardStore {
	return &RedisWizardStore{client: client, ttl: ttl}
}

func stateKey(userID int64) string {
	return fmt.Sprintf("onboarding:wizard:%d", userID)
}

// Load reads and decodes the user's persisted state. A missing record yields
// (nil, nil); an undecodable record yields domain.ErrStateCorrupt so callers
// can degrade to a fresh flow.
func (s *RedisWizardStore) Load(ctx context.Context, userID int64) (*wizard.State, error) {
	payload, err := s.client.Get(ctx, stateKey(userID)).Bytes()
	if err != nil {
		if err == redis.Nil {
			return nil, nil
		}
		return nil, fmt.Errorf("load state: %w", err)
	}
	var state wizard.State
	if err := json.Unmarshal(payload, &state); err != nil {
		return nil, fmt.Errorf("decode state: %w: %v", domain.ErrStateCorrupt, err)
	}
	return &state, nil
}

// Save serializes and writes the state under the user's key with TTL. Last
// write wins across concurrent sessions; there is no merge.
func (s *RedisWizardStore) Save(ctx context.Context, state *wizard.State) error {
	payload, err := json.Marshal(state)
	if err != nil {
		return fmt.Errorf("marshal state: %w", err)
	}
	if err := s.client.Set(ctx, stateKey(state.UserID), payload, s.ttl).Err(); err != nil {
		return fmt.Errorf("persist state: %w", err)
	}
	return nil
}

// Delete removes the persisted record.
func (s *RedisWizardStore) Delete(ctx context.Context, userID int64) error {
	if err := s.client.Del(ctx, stateKey(userID)).Err(); err != nil && err != redis.Nil {
		return fmt.Errorf("delete state: %w", err)
	}
	return nil
}
