package wizard

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/mewayz/onboarding/internal/domain"
)

// Session binds one user's wizard state to the durable store for the span of
// a request. It is constructed per call, never shared.
type Session struct {
	store  Store
	logger *zap.Logger
	state  *State
}

// Open loads the user's persisted state, falling back to all-defaults when no
// record exists or the stored blob is corrupt. Corruption is logged and
// degrades to a fresh flow; it never fails the request.
func Open(ctx context.Context, store Store, userID int64, logger *zap.Logger) (*Session, error) {
	if logger == nil {
		logger = zap.L()
	}

	state, err := store.Load(ctx, userID)
	switch {
	case err == nil && state != nil:
	case err == nil:
		state = NewState(userID)
	case errors.Is(err, domain.ErrStateCorrupt):
		logger.Warn("wizard state corrupt, starting fresh", zap.Int64("user_id", userID), zap.Error(err))
		state = NewState(userID)
	default:
		return nil, fmt.Errorf("load wizard state: %w", err)
	}

	state.UserID = userID
	if state.CurrentStep < 1 || state.CurrentStep > TotalSteps {
		state.CurrentStep = 1
	}

	return &Session{store: store, logger: logger, state: state}, nil
}

// State exposes the mutable in-memory state.
func (s *Session) State() *State {
	return s.state
}

// Save persists the navigation pointer, completed set, and form data under
// the user's key. Errors and warnings are request-scoped and never written.
func (s *Session) Save(ctx context.Context) error {
	s.state.Revision++
	s.state.UpdatedAt = time.Now().UTC()
	if err := s.store.Save(ctx, s.state); err != nil {
		return fmt.Errorf("save wizard state: %w", err)
	}
	return nil
}

// Reset restores the all-defaults state and erases the durable record.
func (s *Session) Reset(ctx context.Context) error {
	if err := s.store.Delete(ctx, s.state.UserID); err != nil {
		return fmt.Errorf("delete wizard state: %w", err)
	}
	s.state = NewState(s.state.UserID)
	return nil
}
