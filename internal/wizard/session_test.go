package wizard

import (
	"context"
	"encoding/json"
	"fmt"
	"testing"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/mewayz/onboarding/internal/domain"
)

// memStore is an in-memory Store used by tests. Records round-trip through
// JSON the same way the Redis adapter serializes them.
type memStore struct {
	records map[int64][]byte
	corrupt map[int64]bool
	loadErr error
	saveErr error
}

func newMemStore() *memStore {
	return &memStore{records: make(map[int64][]byte), corrupt: make(map[int64]bool)}
}

func (m *memStore) Load(_ context.Context, userID int64) (*State, error) {
	if m.loadErr != nil {
		return nil, m.loadErr
	}
	if m.corrupt[userID] {
		return nil, fmt.Errorf("decode state: %w", domain.ErrStateCorrupt)
	}
	payload, ok := m.records[userID]
	if !ok {
		return nil, nil
	}
	var state State
	if err := json.Unmarshal(payload, &state); err != nil {
		return nil, fmt.Errorf("decode state: %w", domain.ErrStateCorrupt)
	}
	return &state, nil
}

func (m *memStore) Save(_ context.Context, state *State) error {
	if m.saveErr != nil {
		return m.saveErr
	}
	payload, err := json.Marshal(state)
	if err != nil {
		return err
	}
	m.records[state.UserID] = payload
	return nil
}

func (m *memStore) Delete(_ context.Context, userID int64) error {
	delete(m.records, userID)
	delete(m.corrupt, userID)
	return nil
}

var _ Store = (*memStore)(nil)

func TestSessionRoundTrip(t *testing.T) {
	ctx := context.Background()
	store := newMemStore()

	sess, err := Open(ctx, store, 7, zap.NewNop())
	require.NoError(t, err)

	state := sess.State()
	state.FormData.Basics = BasicsForm{Name: "Acme", Slug: "acme", Industry: "retail", TeamSize: domain.TeamSolo}
	state.NextStep()
	require.NoError(t, sess.Save(ctx))

	reopened, err := Open(ctx, store, 7, zap.NewNop())
	require.NoError(t, err)
	got := reopened.State()
	require.Equal(t, 2, got.CurrentStep)
	require.True(t, got.IsCompleted(1))
	require.Equal(t, "acme", got.FormData.Basics.Slug)
	require.Equal(t, int64(1), got.Revision)
}

func TestSessionErrorsNotPersisted(t *testing.T) {
	ctx := context.Background()
	store := newMemStore()

	sess, err := Open(ctx, store, 7, zap.NewNop())
	require.NoError(t, err)
	sess.State().SetError("slug", "taken")
	sess.State().SetWarning("features_cap", "over cap")
	require.NoError(t, sess.Save(ctx))

	reopened, err := Open(ctx, store, 7, zap.NewNop())
	require.NoError(t, err)
	require.Empty(t, reopened.State().Errors)
	require.Empty(t, reopened.State().Warnings)
}

func TestSessionCorruptRecordStartsFresh(t *testing.T) {
	ctx := context.Background()
	store := newMemStore()
	store.corrupt[7] = true

	sess, err := Open(ctx, store, 7, zap.NewNop())
	require.NoError(t, err)
	require.Equal(t, 1, sess.State().CurrentStep)
	require.Empty(t, sess.State().CompletedSteps)
}

func TestSessionLoadFailurePropagates(t *testing.T) {
	ctx := context.Background()
	store := newMemStore()
	store.loadErr = fmt.Errorf("redis down")

	_, err := Open(ctx, store, 7, zap.NewNop())
	require.Error(t, err)
}

func TestSessionClampsOutOfRangePointer(t *testing.T) {
	ctx := context.Background()
	store := newMemStore()
	payload, err := json.Marshal(&State{UserID: 7, CurrentStep: 99})
	require.NoError(t, err)
	store.records[7] = payload

	sess, err := Open(ctx, store, 7, zap.NewNop())
	require.NoError(t, err)
	require.Equal(t, 1, sess.State().CurrentStep)
}

func TestSessionReset(t *testing.T) {
	ctx := context.Background()
	store := newMemStore()

	sess, err := Open(ctx, store, 7, zap.NewNop())
	require.NoError(t, err)
	sess.State().NextStep()
	require.NoError(t, sess.Save(ctx))

	require.NoError(t, sess.Reset(ctx))
	require.Equal(t, 1, sess.State().CurrentStep)
	require.NotContains(t, store.records, int64(7))
}
