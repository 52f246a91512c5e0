package wizard

import "context"

// Store is the durable key-value port for per-user wizard state. Load returns
// (nil, nil) when no record exists and domain.ErrStateCorrupt (wrapped) when a
// record cannot be decoded.
type Store interface {
	Load(ctx context.Context, userID int64) (*State, error)
	Save(ctx context.Context, state *State) error
	Delete(ctx context.Context, userID int64) error
}
